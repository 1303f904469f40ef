package gdext

import (
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // content fingerprint only
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

var nativeLibraryExtensions = map[string]struct{}{
	".so":    {},
	".pyd":   {},
	".dll":   {},
	".dylib": {},
}

// Swapped in tests to simulate hosts without symlink support.
var osSymlink = os.Symlink

// linkLibrary places the prebuilt bindings library at the generic target.
// A symlink that already points at the source is left alone unless Force
// is set; anything else at the target is replaced.
func linkLibrary(ctx context.Context, s *Session, result *BuildResult) error {
	logger := Log(ctx)
	if s.config.BindingsPath == "" {
		return eris.New("bindings path is not configured")
	}

	source, err := filepath.Abs(filepath.Join(s.config.BindingsPath, s.build.BindingsLibraryName))
	if err != nil {
		return eris.Wrap(err, "failed to resolve bindings library")
	}
	target := s.build.Target
	pretty := RelativePath(s.config.WorkDir, target)

	if _, err := os.Stat(source); err != nil {
		return eris.Wrapf(err, "bindings library %s not found", source)
	}

	if !isNativeLibrary(source) {
		return eris.Errorf("%s is not a native library", source)
	}

	if !s.config.Force && !s.config.CopyLibrary && linkPointsTo(target, source) {
		logger.Info().Str("path", target).Msgf("skip linking %q", pretty)
		result.Files = append(result.Files, WrittenFile{Path: target, Outcome: Skipped})
		return nil
	}

	if s.config.CopyLibrary {
		return copyLibrary(ctx, s, result, source, target)
	}

	outcome := Written
	if _, err := os.Lstat(target); err == nil {
		outcome = Overwritten
	}

	logger.Info().Str("path", target).Msgf("linking %q", pretty)
	if s.config.DryRun {
		result.Files = append(result.Files, WrittenFile{Path: target, Outcome: outcome})
		return nil
	}

	if err := prepareTarget(target); err != nil {
		return err
	}

	if err := osSymlink(source, target); err != nil {
		// Windows without developer mode can't create symlinks
		logger.Warn().Err(err).Msgf("symlink failed, copying %q instead", pretty)
		return copyLibrary(ctx, s, result, source, target)
	}

	result.Files = append(result.Files, WrittenFile{Path: target, Outcome: outcome})
	return nil
}

// copyLibrary copies source to target unless the contents already match.
func copyLibrary(ctx context.Context, s *Session, result *BuildResult, source, target string) error {
	pretty := RelativePath(s.config.WorkDir, target)

	outcome := Written
	if info, err := os.Lstat(target); err == nil {
		outcome = Overwritten
		if info.Mode().IsRegular() && !s.config.Force && sameContent(source, target) {
			Log(ctx).Info().Str("path", target).Msgf("skip copying %q", pretty)
			result.Files = append(result.Files, WrittenFile{Path: target, Outcome: Skipped})
			return nil
		}
	}

	Log(ctx).Info().Str("path", target).Msgf("copying %q", pretty)
	if !s.config.DryRun {
		if err := prepareTarget(target); err != nil {
			return err
		}
		if err := copyFile(source, target); err != nil {
			return eris.Wrapf(err, "failed to copy %s", source)
		}
	}

	result.Files = append(result.Files, WrittenFile{Path: target, Outcome: outcome})
	return nil
}

// verifyLink checks the target resolves to a readable file.
func verifyLink(_ context.Context, s *Session, _ *BuildResult) error {
	if s.config.DryRun {
		return nil
	}

	if _, err := os.Stat(s.build.Target); err != nil {
		return eris.Wrapf(err, "library %s is not usable", s.build.Target)
	}
	return nil
}

func linkPointsTo(target, source string) bool {
	dest, err := os.Readlink(target)
	if err != nil {
		return false
	}
	return dest == source
}

// prepareTarget removes whatever is at target and creates its directory.
func prepareTarget(target string) error {
	if _, err := os.Lstat(target); err == nil {
		if err := os.Remove(target); err != nil {
			return eris.Wrapf(err, "failed to remove %s", target)
		}
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "failed to create %s", dir)
	}

	return nil
}

func isNativeLibrary(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := nativeLibraryExtensions[ext]
	return ok
}

func sameContent(a, b string) bool {
	hashA, errA := fileDigest(a)
	hashB, errB := fileDigest(b)
	return errA == nil && errB == nil && bytes.Equal(hashA, hashB)
}

func fileDigest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha1.New() //nolint:gosec
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

func copyFile(srcPath, destPath string) error {
	info, err := os.Stat(srcPath)
	if err != nil {
		return err
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
