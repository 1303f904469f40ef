package gdext

import "context"

// Version of the generator, exposed to templates as __version__.
// Set via -ldflags.
var Version = "0.1.0"

// BuildResult contains the output and status of a build.
//
// After a run completes, this structure provides:
//   - Success status indicating if the build completed without errors
//   - Output lines captured from the build tool (stdout/stderr)
//   - Files generated or skipped, with the write outcome for each
//   - Target, the shared library Godot will load
type BuildResult struct {
	Success bool          // True if the run completed successfully
	Output  []string      // Lines of output from the build tool
	Files   []WrittenFile // Generated files and what happened to them
	Target  string        // Library path, relative to the work directory for native builds
	Generic bool          // True when the prebuilt bindings library was linked
	Context map[string]any
	Error   error // Error if the run failed, nil otherwise
}

// BuildConfig contains configuration for a build session.
//
// Paths:
//   - WorkDir: where SConstruct and the C++ bootstrap are generated (default: cwd)
//   - BindingsPath: root of the Python bindings checkout
//   - HeadersPath: godot_headers directory (default: BindingsPath/godot_headers)
//   - TemplatesDir: optional directory whose templates override the built-in ones
//
// Build tool:
//   - BuildTool: executable to spawn (default: scons)
//   - BuildArgs: additional arguments passed to the build tool
//   - Env: environment variables set for the build tool
//   - Parallel: number of parallel jobs (-j), 0 leaves the tool default
//
// Behavior:
//   - Force: rewrite generated files and resources even when unchanged or user-modified
//   - DryRun: report what would happen without writing or spawning anything
//   - RequireVirtualEnv: refuse to run unless VIRTUAL_ENV is set
type BuildConfig struct {
	// Paths
	WorkDir       string
	BindingsPath  string
	HeadersPath   string
	TemplatesDir  string
	ProjectMarker string // file marking a Godot project root (default: project.godot)
	ExtSuffix     string // compiled extension suffix (default: .so, .pyd on Windows)

	// Build tool
	BuildTool string
	BuildArgs []string
	Env       map[string]string
	Parallel  int

	// Build options
	Force             bool
	DryRun            bool
	Verbose           bool
	RequireVirtualEnv bool
	CopyLibrary       bool // copy the prebuilt library instead of symlinking it
}

// BuildSteps defines the 3-step pattern shared by the native and generic
// build modes.
//
//  1. Configure: generate build files (C++ bootstrap, SConstruct)
//  2. Build: produce the library (spawn the build tool, or link)
//  3. Verify: check the library Godot will load is in place
//
// Example usage in a session:
//
//	return runBuildSteps(ctx, s, result, BuildSteps{
//	    ConfigureFunc: renderBuildFiles,
//	    BuildFunc:     spawnBuildTool,
//	    VerifyFunc:    verifyTarget,
//	})
type BuildSteps struct {
	// ConfigureFunc prepares the build, writing generated files
	ConfigureFunc func(ctx context.Context, s *Session, result *BuildResult) error

	// BuildFunc produces the library
	BuildFunc func(ctx context.Context, s *Session, result *BuildResult) error

	// VerifyFunc checks the result of BuildFunc
	VerifyFunc func(ctx context.Context, s *Session, result *BuildResult) error
}
