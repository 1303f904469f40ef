package gdext

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCollectorRegistry(t *testing.T) {
	registry := NewCollectorRegistry()

	collectors := registry.ListCollectors()
	if len(collectors) != 4 {
		t.Errorf("Expected 4 collectors, got %d", len(collectors))
	}

	testCases := []struct {
		kind         ExtType
		expectedName string
	}{
		{ExtProject, "Project"},
		{ExtGenericLibrary, "GenericLibrary"},
		{ExtLibrary, "Library"},
		{ExtNativeScript, "NativeScript"},
	}

	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			collector, err := registry.CollectorFor(tc.kind)
			if err != nil {
				t.Fatalf("Expected collector for %s, got error: %v", tc.kind, err)
			}

			if collector.Name() != tc.expectedName {
				t.Errorf("Expected collector %s for %s, got %s", tc.expectedName, tc.kind, collector.Name())
			}
			if collector.Kind() != tc.kind {
				t.Errorf("Collector %s reports kind %s", collector.Name(), collector.Kind())
			}
		})
	}

	_, err := registry.CollectorFor(ExtType(42))
	if err == nil {
		t.Fatal("Expected error for unknown extension type")
	}
	if !strings.Contains(err.Error(), "no collector found for extension type: unknown") {
		t.Errorf("Unexpected error: %v", err)
	}
}

type recordingCollector struct {
	calls []string
}

func (c *recordingCollector) Name() string { return "Recording" }
func (c *recordingCollector) Kind() ExtType { return ExtLibrary }
func (c *recordingCollector) Collect(_ context.Context, _ *Session, ext *Extension) error {
	c.calls = append(c.calls, ext.Name)
	return errors.New("recorded")
}

func TestCollectorRegistryFirstRegistrationWins(t *testing.T) {
	custom := &recordingCollector{}
	registry := &CollectorRegistry{}
	registry.Register(custom)
	registry.Register(&LibraryCollector{})

	collector, err := registry.CollectorFor(ExtLibrary)
	if err != nil {
		t.Fatalf("CollectorFor returned error: %v", err)
	}
	if collector != custom {
		t.Errorf("Expected custom collector, got %s", collector.Name())
	}

	// collectors are dispatched in declaration order through the session
	session, err := NewSession(&BuildConfig{WorkDir: t.TempDir()}, registry)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	_, err = session.Run(context.Background(), []*Extension{NewLibrary("game.gdnlib", "game.pyx")})
	if err == nil || !strings.Contains(err.Error(), "recorded") {
		t.Fatalf("Expected custom collector error, got %v", err)
	}
	if len(custom.calls) != 1 || custom.calls[0] != "game.gdnlib" {
		t.Errorf("Unexpected calls %v", custom.calls)
	}
}

func TestMatchesPattern(t *testing.T) {
	testCases := []struct {
		filename string
		patterns []string
		expected bool
	}{
		{"game.pyx", []string{`\.pyx$`}, true},
		{"game.py", []string{`\.pyx$`, `\.py$`}, true},
		{"game.cpp", []string{`\.pyx?$`}, false},
		{"game.pyx", []string{`[`}, false},
	}

	for _, tc := range testCases {
		result := MatchesPattern(tc.filename, tc.patterns...)
		if result != tc.expected {
			t.Errorf("MatchesPattern(%s, %v) = %v, expected %v",
				tc.filename, tc.patterns, result, tc.expected)
		}
	}
}

func TestMatchesExtension(t *testing.T) {
	testCases := []struct {
		filename   string
		extensions []string
		expected   bool
	}{
		{"lib.gdnlib", []string{".gdnlib"}, true},
		{"Player.GDNS", []string{".gdns"}, true},
		{"extra.cpp", []string{".pyx", ".cpp"}, true},
		{"lib.gdnlib.bak", []string{".gdnlib"}, false},
	}

	for _, tc := range testCases {
		result := MatchesExtension(tc.filename, tc.extensions...)
		if result != tc.expected {
			t.Errorf("MatchesExtension(%s, %v) = %v, expected %v",
				tc.filename, tc.extensions, result, tc.expected)
		}
	}
}

func TestBuildError(t *testing.T) {
	err := BuildError("scons", []string{"line 1", "line 2", ""}, errors.New("exit status 2"))
	expected := "scons build failed: exit status 2\n\nBuild output:\nline 1\nline 2"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}

	err = BuildError("scons", nil, nil)
	if err.Error() != "scons build failed" {
		t.Errorf("Unexpected error without output: %q", err.Error())
	}
}

func TestCppTarget(t *testing.T) {
	testCases := []struct {
		source  string
		target  string
		varName string
	}{
		{"_demo/gdlibrary.pyx", "_demo/gdlibrary.cpp", "gdlibrary"},
		{"_demo/scripts/player.py", "_demo/scripts/player.cpp", "player"},
		{"_demo/pyx.helpers.pyx", "_demo/pyx.helpers.cpp", "pyx.helpers"},
	}

	for _, tc := range testCases {
		target := cppTarget(tc.source)
		if target != tc.target {
			t.Errorf("cppTarget(%s) = %s, expected %s", tc.source, target, tc.target)
		}
		if name := moduleVarName(target); name != tc.varName {
			t.Errorf("moduleVarName(%s) = %s, expected %s", target, name, tc.varName)
		}
	}
}

func TestBuildResultString(t *testing.T) {
	result := &BuildResult{Files: []WrittenFile{
		{Path: "a", Outcome: Written},
		{Path: "b", Outcome: Skipped},
		{Path: "c", Outcome: Skipped},
		{Path: "d", Outcome: RefusedUserModified},
	}}

	expected := "1 written, 0 overwritten, 2 skipped, 1 refused"
	if got := result.String(); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}
