// Package gdext generates the glue that lets Godot load a Python-backed
// GDNative library.
//
// Given a list of extension descriptors it finds the enclosing Godot
// project, renders the .gdnlib and .gdns resources, generates a C++
// bootstrap and an SConstruct script, and runs scons to produce the shared
// library Godot loads.
//
// # Extension Types
//
//   - ExtProject - the Godot project, declared first
//   - ExtGenericLibrary - a .gdnlib linking the prebuilt bindings library
//   - ExtLibrary - a .gdnlib compiled from Cython and C++ sources
//   - ExtNativeScript - a .gdns class served by the library
//
// # Basic Usage
//
//	session, err := gdext.NewSession(&gdext.BuildConfig{
//	    BindingsPath: "/path/to/pygodot",
//	    Parallel:     4,
//	}, nil)
//
//	extensions := []*gdext.Extension{
//	    gdext.NewGodotProject("demo", "_demo", ".bin"),
//	    gdext.NewLibrary("gdlibrary.gdnlib", "gdlibrary.pyx"),
//	    gdext.NewNativeScript("player.gdns", []string{"player.pyx"}, "Player"),
//	}
//	result, err := session.Run(ctx, extensions)
//
// # Generated Files
//
// Build files (the C++ bootstrap and SConstruct) are regenerated whenever
// their content changes. Godot resources are written once: if the user
// edited a .gdnlib or .gdns, it is kept unless BuildConfig.Force is set.
// Every write is skipped when the content hash is unchanged.
//
// # Platform Support
//
// 64-bit Linux (X11.64), macOS (OSX.64) and Windows (Windows.64).
package gdext
