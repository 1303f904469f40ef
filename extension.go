package gdext

import (
	"path"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtType tags the kind of artifact an Extension describes.
type ExtType int

// Extension kinds, in the order they are normally declared.
const (
	ExtProject ExtType = iota + 1
	ExtGenericLibrary
	ExtLibrary
	ExtNativeScript
)

var extTypeNames = map[ExtType]string{
	ExtProject:        "project",
	ExtGenericLibrary: "generic_library",
	ExtLibrary:        "library",
	ExtNativeScript:   "nativescript",
}

// String returns the lower-case kind name used in logs and manifests.
func (t ExtType) String() string {
	if name, ok := extTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseExtType converts a kind name back into an ExtType.
func ParseExtType(name string) (ExtType, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	for kind, kindName := range extTypeNames {
		if kindName == normalized {
			return kind, nil
		}
	}
	return 0, eris.Errorf("unknown extension type %q", name)
}

// Extension describes one build artifact.
//
// The meaning of Name depends on Type:
//   - ExtProject: the Godot project directory, relative to the working directory
//   - ExtGenericLibrary, ExtLibrary: the .gdnlib resource, relative to the project
//   - ExtNativeScript: the .gdns resource, relative to the project
type Extension struct {
	Name    string
	Type    ExtType
	Sources []string

	// NativeScript only; defaults to the resource file stem.
	ClassName string

	// Project only
	ShadowName string // directory holding generated and shadowed sources
	BinaryPath string // directory inside the project that receives binaries
}

// NewGodotProject declares the Godot project every other extension belongs to.
func NewGodotProject(name, shadowName, binaryPath string) *Extension {
	if shadowName == "" {
		shadowName = "_" + path.Base(filepathToSlash(name))
	}
	if binaryPath == "" {
		binaryPath = ".bin"
	}
	return &Extension{
		Name:       name,
		Type:       ExtProject,
		ShadowName: shadowName,
		BinaryPath: binaryPath,
	}
}

// NewGenericLibrary declares a .gdnlib that links the prebuilt bindings library.
func NewGenericLibrary(name string) *Extension {
	return &Extension{Name: name, Type: ExtGenericLibrary}
}

// NewLibrary declares a .gdnlib compiled from source plus any extra sources.
func NewLibrary(name, source string, extraSources ...string) *Extension {
	sources := append([]string{source}, extraSources...)
	return &Extension{Name: name, Type: ExtLibrary, Sources: sources}
}

// NewNativeScript declares a .gdns class backed by the library.
func NewNativeScript(name string, sources []string, className string) *Extension {
	return &Extension{
		Name:      name,
		Type:      ExtNativeScript,
		Sources:   append([]string{}, sources...),
		ClassName: className,
	}
}

// ResourceName returns the extension name with the expected Godot suffix.
// A name carrying a different file extension is rejected.
func (e *Extension) ResourceName(validate string) (string, error) {
	name := filepathToSlash(e.Name)
	if name == "" || strings.HasSuffix(name, "/") {
		return "", eris.Errorf("invalid %s name %q", e.Type, e.Name)
	}

	ext := path.Ext(name)
	switch {
	case ext == "":
		return name + validate, nil
	case MatchesExtension(name, validate):
		return name, nil
	default:
		return "", eris.Errorf("%s name %q must end with %q", e.Type, e.Name, validate)
	}
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
