package gdext

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

// newTestProject creates <tmp>/demo/project.godot and returns the resolved
// temp directory.
func newTestProject(t *testing.T) string {
	t.Helper()

	base := realPath(t.TempDir())
	projectDir := filepath.Join(base, "demo")
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		t.Fatalf("failed to create project directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(projectDir, ProjectMarker), []byte("config_version=4\n"), 0o600); err != nil {
		t.Fatalf("failed to write project.godot: %v", err)
	}

	return base
}

// stubHost pins the platform checks to a 64-bit host of the given OS.
func stubHost(t *testing.T, goos string, bits int) {
	t.Helper()

	origOS, origBits := hostOS, hostBits
	t.Cleanup(func() {
		hostOS, hostBits = origOS, origBits
	})
	hostOS, hostBits = goos, bits
}

// stubBuildTool makes the build tool lookup succeed and replaces the spawn
// with fn.
func stubBuildTool(t *testing.T, fn func(env map[string]string, stdout, stderr io.Writer, cmd string, args ...string) (bool, error)) {
	t.Helper()

	origLookPath, origExec := execLookPath, shExec
	t.Cleanup(func() {
		execLookPath, shExec = origLookPath, origExec
	})

	execLookPath = func(name string) (string, error) {
		return "/usr/bin/" + name, nil
	}
	shExec = fn
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}
