package gdext

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteTargetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "gen", "SConstruct")
	content := []byte("env = Environment()\n")

	outcome, err := WriteTarget(ctx, path, content, WriteOptions{})
	if err != nil {
		t.Fatalf("first write returned error: %v", err)
	}
	if outcome != Written {
		t.Fatalf("expected first write to be %s, got %s", Written, outcome)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}

	outcome, err = WriteTarget(ctx, path, content, WriteOptions{})
	if err != nil {
		t.Fatalf("second write returned error: %v", err)
	}
	if outcome != Skipped {
		t.Fatalf("expected second write to be %s, got %s", Skipped, outcome)
	}

	again, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
	if !again.ModTime().Equal(info.ModTime()) {
		t.Error("identical content must not touch the file")
	}
}

func TestWriteTargetOverwritesGeneratedFiles(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "_game.cpp")

	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	outcome, err := WriteTarget(ctx, path, []byte("new"), WriteOptions{})
	if err != nil {
		t.Fatalf("WriteTarget returned error: %v", err)
	}
	if outcome != Overwritten {
		t.Fatalf("expected %s, got %s", Overwritten, outcome)
	}
	if got := readFile(t, path); got != "new" {
		t.Errorf("expected new content, got %q", got)
	}
}

func TestWriteTargetProtectsUserResources(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "player.gdns")

	if err := os.WriteFile(path, []byte("edited by user"), 0o600); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	outcome, err := WriteTarget(ctx, path, []byte("generated"), WriteOptions{Protected: true})
	if err != nil {
		t.Fatalf("WriteTarget returned error: %v", err)
	}
	if outcome != RefusedUserModified {
		t.Fatalf("expected %s, got %s", RefusedUserModified, outcome)
	}
	if got := readFile(t, path); got != "edited by user" {
		t.Errorf("user resource was clobbered: %q", got)
	}

	outcome, err = WriteTarget(ctx, path, []byte("generated"), WriteOptions{Protected: true, Force: true})
	if err != nil {
		t.Fatalf("forced WriteTarget returned error: %v", err)
	}
	if outcome != Overwritten {
		t.Fatalf("expected forced write to be %s, got %s", Overwritten, outcome)
	}
	if got := readFile(t, path); got != "generated" {
		t.Errorf("expected forced content, got %q", got)
	}
}

func TestWriteTargetForceRewritesIdenticalContent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lib.gdnlib")
	content := []byte("[general]\n")

	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	outcome, err := WriteTarget(ctx, path, content, WriteOptions{Force: true, Protected: true})
	if err != nil {
		t.Fatalf("WriteTarget returned error: %v", err)
	}
	if outcome != Overwritten {
		t.Errorf("expected %s, got %s", Overwritten, outcome)
	}
}

func TestWriteTargetDryRun(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "SConstruct")

	outcome, err := WriteTarget(ctx, path, []byte("x"), WriteOptions{DryRun: true})
	if err != nil {
		t.Fatalf("WriteTarget returned error: %v", err)
	}
	if outcome != Written {
		t.Errorf("expected %s, got %s", Written, outcome)
	}
	if _, err := os.Stat(filepath.Dir(path)); !os.IsNotExist(err) {
		t.Error("dry run must not create directories")
	}
}
