// Package manifest reads the ordered list of extensions to build from a
// YAML file.
//
//	extensions:
//	  - type: project
//	    name: demo
//	    shadow_name: _demo
//	    binary_path: .bin
//	  - type: library
//	    name: gdlibrary.gdnlib
//	    source: gdlibrary.pyx
//	    extra_sources: [helpers.cpp]
//	  - type: nativescript
//	    name: player.gdns
//	    sources: [player.pyx]
//	    class_name: Player
package manifest

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	gdext "github.com/contriboss/godot-extension-go"
)

// DefaultFileName is the manifest looked up when none is configured.
const DefaultFileName = "gdext.yaml"

// File is the on-disk layout.
type File struct {
	Extensions []Entry `yaml:"extensions"`
}

// Entry declares a single extension.
type Entry struct {
	Type         string   `yaml:"type"`
	Name         string   `yaml:"name"`
	Source       string   `yaml:"source,omitempty"`
	ExtraSources []string `yaml:"extra_sources,omitempty"`
	Sources      []string `yaml:"sources,omitempty"`
	ClassName    string   `yaml:"class_name,omitempty"`
	ShadowName   string   `yaml:"shadow_name,omitempty"`
	BinaryPath   string   `yaml:"binary_path,omitempty"`
}

// Load reads and parses the manifest at path.
func Load(path string) ([]*gdext.Extension, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read manifest %s", path)
	}

	extensions, err := Parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid manifest %s", path)
	}

	return extensions, nil
}

// Parse decodes a manifest and converts every entry. Unknown keys are
// rejected so typos don't silently drop settings.
func Parse(data []byte) ([]*gdext.Extension, error) {
	var file File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, eris.New("manifest is empty")
		}
		return nil, eris.Wrap(err, "failed to decode manifest")
	}

	if len(file.Extensions) == 0 {
		return nil, eris.New("manifest declares no extensions")
	}

	extensions := make([]*gdext.Extension, 0, len(file.Extensions))
	for i, entry := range file.Extensions {
		ext, err := entry.Extension()
		if err != nil {
			return nil, eris.Wrapf(err, "extension #%d", i+1)
		}
		extensions = append(extensions, ext)
	}

	return extensions, nil
}

// Extension validates the entry and converts it into a descriptor.
func (e Entry) Extension() (*gdext.Extension, error) {
	kind, err := gdext.ParseExtType(e.Type)
	if err != nil {
		return nil, err
	}

	if e.Name == "" {
		return nil, eris.Errorf("%s entry has no name", kind)
	}

	if kind != gdext.ExtProject && (e.ShadowName != "" || e.BinaryPath != "") {
		return nil, eris.Errorf("%s %q: shadow_name and binary_path only apply to projects", kind, e.Name)
	}

	if kind != gdext.ExtNativeScript && e.ClassName != "" {
		return nil, eris.Errorf("%s %q: class_name only applies to nativescripts", kind, e.Name)
	}

	switch kind {
	case gdext.ExtProject:
		if e.hasSources() {
			return nil, eris.Errorf("project %q can't have sources", e.Name)
		}
		return gdext.NewGodotProject(e.Name, e.ShadowName, e.BinaryPath), nil

	case gdext.ExtGenericLibrary:
		if e.hasSources() {
			return nil, eris.Errorf("generic library %q links prebuilt bindings and can't have sources", e.Name)
		}
		return gdext.NewGenericLibrary(e.Name), nil

	case gdext.ExtLibrary:
		sources := e.allSources()
		if len(sources) == 0 {
			return nil, eris.Errorf("library %q needs a source", e.Name)
		}
		return gdext.NewLibrary(e.Name, sources[0], sources[1:]...), nil

	default:
		return gdext.NewNativeScript(e.Name, e.allSources(), e.ClassName), nil
	}
}

func (e Entry) hasSources() bool {
	return len(e.allSources()) > 0
}

// allSources orders source first, then sources, then extra_sources.
func (e Entry) allSources() []string {
	var sources []string
	if e.Source != "" {
		sources = append(sources, e.Source)
	}
	sources = append(sources, e.Sources...)
	return append(sources, e.ExtraSources...)
}
