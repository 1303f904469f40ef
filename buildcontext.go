package gdext

// PyxSource is one Cython source compiled into the library.
type PyxSource struct {
	VarName string // module init name, unique per library
	Target  string // generated .cpp
	Source  string // .pyx or .py source
}

// BuildContext is the state collectors accumulate and templates render.
type BuildContext struct {
	Version          string
	GodotHeadersPath string
	BindingsPath     string
	Singleton        bool

	PyxSources []PyxSource
	CppSources []string

	LibraryName         string // e.g. "libgame", or "_pygodot" for generic builds
	BindingsLibraryName string // library linked against, or symlink source for generic builds
	Target              string // library Godot loads
	CppLibraryPath      string // generated C++ bootstrap, relative to the work directory
}

// Map returns the context as the flat mapping older build templates are
// written against. Used for diagnostics.
func (c *BuildContext) Map() map[string]any {
	pyx := make([][]string, 0, len(c.PyxSources))
	for _, src := range c.PyxSources {
		pyx = append(pyx, []string{src.VarName, src.Target, src.Source})
	}

	return map[string]any{
		"__version__":           c.Version,
		"godot_headers_path":    c.GodotHeadersPath,
		"pygodot_bindings_path": c.BindingsPath,
		"singleton":             c.Singleton,
		"pyx_sources":           pyx,
		"cpp_sources":           append([]string{}, c.CppSources...),
		"library_name":          c.LibraryName,
		"pygodot_library_name":  c.BindingsLibraryName,
		"target":                c.Target,
		"cpp_library_path":      c.CppLibraryPath,
	}
}

// gdnlibContext feeds gdnlib.tmpl.
type gdnlibContext struct {
	Singleton    bool
	LoadOnce     bool
	SymbolPrefix string
	Reloadable   bool
	Libraries    map[string]string // platform -> project-relative library path
	Dependencies map[string]string // platform -> dependency list, usually empty
}

// gdnsContext feeds gdns.tmpl.
type gdnsContext struct {
	GDNLibResource string
	ClassName      string
}
