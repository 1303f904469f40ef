package gdext

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// genericLibraryName is the prebuilt bindings library a generic build links.
// It doubles as the Python module name, so it must match the binary name.
const genericLibraryName = "_pygodot"

// symbolPrefix is the GDNative entry point prefix the bootstrap exports.
const symbolPrefix = "pygodot_"

// Collector handles one ExtType. It validates the descriptor against what
// the session has collected so far and adds to the shared BuildContext and
// the set of Godot resources to write.
//
// # Collector Lifecycle
//
//  1. Kind() - the registry indexes collectors by the ExtType they handle
//  2. Collect() - the session calls this once per descriptor, in order
//
// Collectors are stateless; all state lives in the Session.
type Collector interface {
	// Name returns the human-readable name used in logs.
	Name() string

	// Kind returns the extension type this collector handles.
	Kind() ExtType

	// Collect records ext in the session.
	Collect(ctx context.Context, s *Session, ext *Extension) error
}

// ProjectCollector records the Godot project.
type ProjectCollector struct{}

// Name returns the collector name
func (c *ProjectCollector) Name() string { return "Project" }

// Kind returns ExtProject
func (c *ProjectCollector) Kind() ExtType { return ExtProject }

// Collect makes ext the session's project
func (c *ProjectCollector) Collect(_ context.Context, s *Session, ext *Extension) error {
	if strings.TrimSpace(ext.Name) == "" {
		return eris.New("project name is empty")
	}
	if s.project != nil {
		return eris.Errorf("project already declared as %q", s.project.Name)
	}

	s.project = ext
	return nil
}

// GenericLibraryCollector declares a .gdnlib backed by the prebuilt bindings
// library, which the session links into the project instead of compiling.
type GenericLibraryCollector struct{}

// Name returns the collector name
func (c *GenericLibraryCollector) Name() string { return "GenericLibrary" }

// Kind returns ExtGenericLibrary
func (c *GenericLibraryCollector) Kind() ExtType { return ExtGenericLibrary }

// Collect computes the link target and renders the .gdnlib resource
func (c *GenericLibraryCollector) Collect(_ context.Context, s *Session, ext *Extension) error {
	platform, err := s.checkLibraryPreconditions()
	if err != nil {
		return err
	}

	loc, err := s.locate(ext, ".gdnlib")
	if err != nil {
		return err
	}

	// _pygodot keeps the interpreter-specific suffix, e.g. _pygodot.cpython-38-x86_64-linux-gnu.so
	srcName := strings.Join(append([]string{genericLibraryName}, loc.nameParts[1:]...), ".")
	binextPath := filepath.Join(loc.root, s.project.BinaryPath, loc.fileName)

	s.build.BindingsLibraryName = srcName
	s.build.Target = binextPath
	s.build.LibraryName = genericLibraryName

	gdnlib := ResourcePath(loc.root, filepath.Join(loc.dir, loc.stem()+".gdnlib"))
	s.libraryPath = gdnlib
	s.generic = true

	return s.addResource(loc.root, gdnlib, GDNLibTemplate,
		newGDNLibContext(platform, ResourcePath(loc.root, binextPath)))
}

// LibraryCollector declares a .gdnlib compiled from Cython and C++ sources.
type LibraryCollector struct{}

// Name returns the collector name
func (c *LibraryCollector) Name() string { return "Library" }

// Kind returns ExtLibrary
func (c *LibraryCollector) Kind() ExtType { return ExtLibrary }

// Collect computes the library name, target and C++ bootstrap path, renders
// the .gdnlib resource and collects the sources
func (c *LibraryCollector) Collect(_ context.Context, s *Session, ext *Extension) error {
	platform, err := s.checkLibraryPreconditions()
	if err != nil {
		return err
	}

	if len(ext.Sources) == 0 || ext.Sources[0] == "" {
		return eris.Errorf("library %q has no sources", ext.Name)
	}

	loc, err := s.locate(ext, ".gdnlib")
	if err != nil {
		return err
	}

	stem := loc.stem()
	libraryName := "lib" + stem
	suffix := loc.nameParts[len(loc.nameParts)-1]
	if suffix == "pyd" {
		suffix = "dll"
	}
	binextPath := filepath.Join(loc.root, s.project.BinaryPath, libraryName+"."+suffix)

	cppDir, cppFile := path.Split(cppTarget(filepathToSlash(ext.Sources[0])))
	s.build.CppLibraryPath = path.Join(filepathToSlash(s.project.ShadowName), cppDir, "_"+cppFile)
	s.build.BindingsLibraryName = staticLibraryName(platform)
	s.build.Target = RelativePath(s.config.WorkDir, binextPath)
	s.build.LibraryName = libraryName

	gdnlib := ResourcePath(loc.root, filepath.Join(loc.dir, stem+".gdnlib"))
	s.libraryPath = gdnlib
	s.generic = false

	err = s.addResource(loc.root, gdnlib, GDNLibTemplate,
		newGDNLibContext(platform, ResourcePath(loc.root, binextPath)))
	if err != nil {
		return err
	}

	return s.collectSources(ext.Sources)
}

// NativeScriptCollector declares a .gdns class served by the library.
type NativeScriptCollector struct{}

// Name returns the collector name
func (c *NativeScriptCollector) Name() string { return "NativeScript" }

// Kind returns ExtNativeScript
func (c *NativeScriptCollector) Kind() ExtType { return ExtNativeScript }

// Collect renders the .gdns resource and collects the class sources
func (c *NativeScriptCollector) Collect(_ context.Context, s *Session, ext *Extension) error {
	if s.libraryPath == "" {
		return ErrNoLibrary
	}

	loc, err := s.locate(ext, ".gdns")
	if err != nil {
		return err
	}

	name := loc.stem()
	if name == s.build.LibraryName {
		return eris.Wrapf(ErrNameCollision, "'%s' name is already used, please select a different name", name)
	}

	className := ext.ClassName
	if className == "" {
		className = name
	}

	gdns := ResourcePath(loc.root, filepath.Join(loc.dir, name+".gdns"))
	err = s.addResource(loc.root, gdns, GDNSTemplate, gdnsContext{
		GDNLibResource: s.libraryPath,
		ClassName:      className,
	})
	if err != nil {
		return err
	}

	return s.collectSources(ext.Sources)
}

func newGDNLibContext(platform, library string) gdnlibContext {
	return gdnlibContext{
		Singleton:    false,
		LoadOnce:     true,
		SymbolPrefix: symbolPrefix,
		Reloadable:   false,
		Libraries:    map[string]string{platform: library},
		Dependencies: map[string]string{platform: ""},
	}
}

// extLocation is where an extension's compiled module would land, split the
// way the collectors need it.
type extLocation struct {
	root      string   // Godot project root
	dir       string   // directory of the module
	fileName  string   // module file name, e.g. game.cpython-38-x86_64-linux-gnu.so
	nameParts []string // fileName split on "."
}

func (l extLocation) stem() string {
	return l.nameParts[0]
}

// locate validates the resource name and finds the project it belongs to.
func (s *Session) locate(ext *Extension, suffix string) (extLocation, error) {
	if s.project == nil {
		return extLocation{}, ErrProjectRequired
	}

	resName, err := ext.ResourceName(suffix)
	if err != nil {
		return extLocation{}, err
	}

	extPath := s.extFullPath(resName)
	root, err := EnsureProjectRoot(extPath, s.config.ProjectMarker)
	if err != nil {
		return extLocation{}, err
	}

	dir, fileName := filepath.Split(extPath)
	return extLocation{
		root:      root,
		dir:       dir,
		fileName:  fileName,
		nameParts: strings.Split(fileName, "."),
	}, nil
}

// extFullPath is where the packaging tool would place the compiled module
// for a project-relative resource name.
func (s *Session) extFullPath(resName string) string {
	dir, file := path.Split(resName)
	stem := strings.TrimSuffix(file, path.Ext(file))
	return realPath(filepath.Join(s.config.WorkDir, s.project.Name, filepath.FromSlash(dir), stem+s.config.ExtSuffix))
}

func (s *Session) checkLibraryPreconditions() (string, error) {
	if s.project == nil {
		return "", ErrProjectRequired
	}

	if s.libraryPath != "" {
		return "", ErrMultipleLibraries
	}

	return GodotPlatform()
}

// collectSources splits sources into Cython modules, compiled to C++ by the
// build script, and plain C++ sources.
func (s *Session) collectSources(sources []string) error {
	shadow := filepathToSlash(s.project.ShadowName)
	var cppSources []string

	for _, src := range sources {
		src = filepathToSlash(src)
		if MatchesExtension(src, ".cpp") {
			cppSources = append(cppSources, src)
			continue
		}

		source := path.Join(shadow, src)
		target := cppTarget(source)
		varName := moduleVarName(target)

		// module init functions are global symbols
		for _, existing := range s.build.PyxSources {
			if existing.VarName == varName {
				return eris.Wrapf(ErrNameCollision, "module %q is declared by both %s and %s", varName, existing.Source, source)
			}
		}

		s.build.PyxSources = append(s.build.PyxSources, PyxSource{
			VarName: varName,
			Target:  target,
			Source:  source,
		})
	}

	for _, src := range cppSources {
		full := filepath.Join(s.config.WorkDir, filepath.FromSlash(shadow), filepath.FromSlash(src))
		s.build.CppSources = append(s.build.CppSources, RelativePath(s.config.WorkDir, full))
	}

	return nil
}
