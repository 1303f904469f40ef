package gdext

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ProjectMarker is the file that identifies a Godot project root.
const ProjectMarker = "project.godot"

const separators = `/\`

// FindProjectRoot walks up from startDir (inclusive) and returns the first
// directory that directly contains marker. A startDir that is not a
// directory, e.g. a library that has not been built yet, starts the search
// at its parent. The bool is false when the filesystem root is reached
// without a match or when either argument is empty.
func FindProjectRoot(startDir, marker string) (string, bool) {
	if startDir == "" || marker == "" {
		return "", false
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}

	if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		if _, err := os.Lstat(filepath.Join(dir, marker)); err == nil {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// EnsureProjectRoot is FindProjectRoot that fails with ErrNoProject and
// returns the symlink-resolved root.
func EnsureProjectRoot(path, marker string) (string, error) {
	root, ok := FindProjectRoot(path, marker)
	if !ok {
		return "", eris.Wrapf(ErrNoProject, "no %s above %s", marker, path)
	}

	return realPath(root), nil
}

// ResourcePath returns path relative to root with forward slashes, the form
// Godot uses after "res://". A path equal to root yields "".
func ResourcePath(root, path string) string {
	return normalizeSeparators(stripRoot(root, path))
}

// ResPath turns a project-relative path into a res:// URL.
func ResPath(resource string) string {
	return "res://" + strings.TrimLeft(normalizeSeparators(resource), "/")
}

// RelativePath returns the real path of path relative to base with forward
// slashes. Paths outside base are returned absolute.
func RelativePath(base, path string) string {
	return normalizeSeparators(stripRoot(realPath(base), realPath(path)))
}

// RelativeToWorkDir is RelativePath against the current working directory.
func RelativeToWorkDir(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return normalizeSeparators(realPath(path))
	}
	return RelativePath(wd, path)
}

func stripRoot(root, path string) string {
	trimmedRoot := strings.TrimRight(root, separators)
	if root != "" && strings.HasPrefix(path, trimmedRoot) {
		rest := path[len(trimmedRoot):]
		if rest == "" || strings.ContainsRune(separators, rune(rest[0])) {
			return strings.TrimLeft(rest, separators)
		}
	}
	return path
}

func normalizeSeparators(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.ReplaceAll(path, string(filepath.Separator), "/")
}

// realPath resolves symlinks in the longest existing prefix of path, so
// files that are about to be generated still compare equal to their
// resolved parents.
func realPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	var tail []string
	current := abs
	for {
		if resolved, err := filepath.EvalSymlinks(current); err == nil {
			return filepath.Join(append([]string{resolved}, tail...)...)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return abs
		}
		tail = append([]string{filepath.Base(current)}, tail...)
		current = parent
	}
}
