package gdext

import (
	"reflect"
	"testing"
)

func TestParseExtType(t *testing.T) {
	testCases := []struct {
		name     string
		expected ExtType
	}{
		{"project", ExtProject},
		{"generic_library", ExtGenericLibrary},
		{"generic-library", ExtGenericLibrary},
		{"Library", ExtLibrary},
		{" nativescript ", ExtNativeScript},
	}

	for _, tc := range testCases {
		kind, err := ParseExtType(tc.name)
		if err != nil {
			t.Errorf("ParseExtType(%q) returned error: %v", tc.name, err)
			continue
		}
		if kind != tc.expected {
			t.Errorf("ParseExtType(%q) = %s, expected %s", tc.name, kind, tc.expected)
		}
	}

	if _, err := ParseExtType("gem"); err == nil {
		t.Error("Expected error for unknown type")
	}
}

func TestExtTypeString(t *testing.T) {
	for kind, name := range extTypeNames {
		if kind.String() != name {
			t.Errorf("Expected %s, got %s", name, kind.String())
		}
		parsed, err := ParseExtType(kind.String())
		if err != nil || parsed != kind {
			t.Errorf("ParseExtType(%s) = %v, %v", kind, parsed, err)
		}
	}
	if ExtType(0).String() != "unknown" {
		t.Errorf("Expected zero value to be unknown, got %s", ExtType(0))
	}
}

func TestNewGodotProjectDefaults(t *testing.T) {
	project := NewGodotProject("games/demo", "", "")
	if project.ShadowName != "_demo" {
		t.Errorf("Expected shadow name _demo, got %s", project.ShadowName)
	}
	if project.BinaryPath != ".bin" {
		t.Errorf("Expected binary path .bin, got %s", project.BinaryPath)
	}
	if project.Type != ExtProject {
		t.Errorf("Expected project type, got %s", project.Type)
	}

	custom := NewGodotProject("demo", "gen", "bin")
	if custom.ShadowName != "gen" || custom.BinaryPath != "bin" {
		t.Errorf("Explicit paths must be kept, got %+v", custom)
	}
}

func TestNewLibrarySources(t *testing.T) {
	lib := NewLibrary("game.gdnlib", "game.pyx", "a.cpp", "b.cpp")
	if !reflect.DeepEqual(lib.Sources, []string{"game.pyx", "a.cpp", "b.cpp"}) {
		t.Errorf("Unexpected sources %v", lib.Sources)
	}

	sources := []string{"player.pyx"}
	script := NewNativeScript("player.gdns", sources, "")
	sources[0] = "changed.pyx"
	if script.Sources[0] != "player.pyx" {
		t.Error("NewNativeScript must copy its sources")
	}
}

func TestResourceName(t *testing.T) {
	testCases := []struct {
		name     string
		suffix   string
		expected string
		wantErr  bool
	}{
		{"game", ".gdnlib", "game.gdnlib", false},
		{"game.gdnlib", ".gdnlib", "game.gdnlib", false},
		{"bin/game.GDNLIB", ".gdnlib", "bin/game.GDNLIB", false},
		{`scripts\player`, ".gdns", "scripts/player.gdns", false},
		{"player.gd", ".gdns", "", true},
		{"", ".gdns", "", true},
		{"scripts/", ".gdns", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ext := &Extension{Name: tc.name, Type: ExtNativeScript}
			result, err := ext.ResourceName(tc.suffix)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got %q", result)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResourceName returned error: %v", err)
			}
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}
