package gdext

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var cythonSourcePattern = regexp.MustCompile(`\.pyx?$`)

// MatchesPattern checks if a filename matches any of the given regex patterns.
// Invalid patterns are skipped.
//
//	if MatchesPattern(source, `\.pyx$`, `\.py$`) {
//	    // Cython source
//	}
func MatchesPattern(filename string, patterns ...string) bool {
	for _, pattern := range patterns {
		if matched, _ := regexp.MatchString(pattern, filename); matched {
			return true
		}
	}
	return false
}

// MatchesExtension reports whether filename ends with any of the given
// extensions, ignoring case.
//
//	if MatchesExtension(name, ".gdnlib") {
//	    // GDNative library resource
//	}
func MatchesExtension(filename string, extensions ...string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(strings.ToLower(filename), strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// BuildError creates a standardized build error with output context.
//
// With error and output:
//
//	scons build failed: exit status 2
//
//	Build output:
//	g++ -o _game.os -c _game.cpp
//	_game.cpp:1:10: fatal error: PyGodot.hpp: No such file or directory
func BuildError(tool string, output []string, err error) error {
	outputStr := strings.TrimSpace(strings.Join(output, "\n"))

	var prefix string
	if err != nil {
		prefix = fmt.Sprintf("%s build failed: %v", tool, err)
	} else {
		prefix = fmt.Sprintf("%s build failed", tool)
	}

	if outputStr != "" {
		return fmt.Errorf("%s\n\nBuild output:\n%s", prefix, outputStr)
	}

	return fmt.Errorf("%s", prefix)
}

// cppTarget maps a Cython source to the C++ file cython generates for it.
func cppTarget(source string) string {
	return cythonSourcePattern.ReplaceAllString(source, ".cpp")
}

// moduleVarName is the Python module init name for a generated source.
func moduleVarName(target string) string {
	base := filepath.Base(target)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{})
	var result []string

	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}

	return result
}
