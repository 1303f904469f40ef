package gdext

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Session collects extension descriptors and builds them. A session is
// single-use: create a new one for every Run or Clean.
type Session struct {
	config    BuildConfig
	registry  *CollectorRegistry
	templates *TemplateSet

	project     *Extension
	libraryPath string // project-relative .gdnlib resource
	generic     bool
	build       BuildContext

	resources     []resource
	resourceIndex map[string]int
}

type resource struct {
	root    string // Godot project root
	path    string // project-relative resource path
	content []byte
}

// NewSession prepares a session. A nil registry uses NewCollectorRegistry.
// Zero values in config are filled with defaults.
func NewSession(config *BuildConfig, registry *CollectorRegistry) (*Session, error) {
	if config == nil {
		config = &BuildConfig{}
	}
	cfg := *config

	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, eris.Wrap(err, "failed to retrieve the current working directory")
		}
		cfg.WorkDir = wd
	}
	cfg.WorkDir = realPath(cfg.WorkDir)

	if cfg.ProjectMarker == "" {
		cfg.ProjectMarker = ProjectMarker
	}
	if cfg.ExtSuffix == "" {
		cfg.ExtSuffix = DefaultExtSuffix()
	}
	if cfg.BuildTool == "" {
		cfg.BuildTool = DefaultBuildTool
	}
	if cfg.HeadersPath == "" && cfg.BindingsPath != "" {
		cfg.HeadersPath = filepath.Join(cfg.BindingsPath, "godot_headers")
	}

	if registry == nil {
		registry = NewCollectorRegistry()
	}

	templates, err := LoadTemplates(cfg.TemplatesDir)
	if err != nil {
		return nil, err
	}

	return &Session{
		config:    cfg,
		registry:  registry,
		templates: templates,
		build: BuildContext{
			Version:          Version,
			GodotHeadersPath: filepathToSlash(cfg.HeadersPath),
			BindingsPath:     filepathToSlash(cfg.BindingsPath),
		},
		resourceIndex: make(map[string]int),
	}, nil
}

// Config returns the effective configuration, defaults applied.
func (s *Session) Config() BuildConfig {
	return s.config
}

// Project returns the collected project descriptor, or nil.
func (s *Session) Project() *Extension {
	return s.project
}

// BuildContext returns the accumulated build context.
func (s *Session) BuildContext() *BuildContext {
	return &s.build
}

// Run collects every extension, builds the library and writes the Godot
// resources.
//
// # Process Flow
//
//  1. Refuse to run outside a virtual environment if configured
//  2. Dispatch each descriptor to the collector for its type
//  3. Generic library: link the prebuilt bindings library into the project
//  4. Library: render the C++ bootstrap and SConstruct, spawn the build tool
//  5. Write the .gdnlib and .gdns resources, keeping user modifications
//
// The returned BuildResult is never nil, even on error.
func (s *Session) Run(ctx context.Context, extensions []*Extension) (*BuildResult, error) {
	result := &BuildResult{Output: []string{}}

	if s.config.RequireVirtualEnv && os.Getenv("VIRTUAL_ENV") == "" {
		result.Error = ErrNoVirtualEnv
		return result, ErrNoVirtualEnv
	}

	if err := s.collect(ctx, extensions); err != nil {
		result.Error = err
		return result, err
	}

	result.Generic = s.generic
	result.Context = s.build.Map()
	Log(ctx).Debug().Fields(result.Context).Msg("build context")

	var steps BuildSteps
	if s.generic {
		steps = BuildSteps{
			ConfigureFunc: noConfigure,
			BuildFunc:     linkLibrary,
			VerifyFunc:    verifyLink,
		}
	} else {
		steps = BuildSteps{
			ConfigureFunc: renderBuildFiles,
			BuildFunc:     spawnBuildTool,
			VerifyFunc:    verifyTarget,
		}
	}

	if err := runBuildSteps(ctx, s, result, steps); err != nil {
		return result, err
	}

	if err := s.writeResources(ctx, result); err != nil {
		result.Error = err
		return result, err
	}

	result.Target = s.build.Target
	result.Context = s.build.Map()
	result.Success = true
	return result, nil
}

// Clean collects every extension and removes what Run generated: the
// build script, the C++ bootstrap and the library. Godot resources are
// user-editable and are left in place.
func (s *Session) Clean(ctx context.Context, extensions []*Extension) (*BuildResult, error) {
	result := &BuildResult{Output: []string{}}

	if err := s.collect(ctx, extensions); err != nil {
		result.Error = err
		return result, err
	}

	result.Generic = s.generic
	if !s.generic {
		runBuildToolClean(ctx, s, result)
	}

	for _, path := range s.generatedFiles() {
		if _, err := os.Lstat(path); err != nil {
			continue
		}

		Log(ctx).Info().Str("path", path).Msgf("removing %q", RelativePath(s.config.WorkDir, path))
		if s.config.DryRun {
			continue
		}

		if err := os.Remove(path); err != nil {
			result.Error = eris.Wrapf(err, "failed to remove %s", path)
			return result, result.Error
		}
		result.Output = append(result.Output, "removed "+RelativePath(s.config.WorkDir, path))
	}

	result.Success = true
	return result, nil
}

func (s *Session) collect(ctx context.Context, extensions []*Extension) error {
	logger := Log(ctx)

	for _, ext := range extensions {
		if err := ctx.Err(); err != nil {
			return err
		}

		collector, err := s.registry.CollectorFor(ext.Type)
		if err != nil {
			return err
		}

		if s.project != nil {
			logger.Info().Str("type", ext.Type.String()).Msgf("setting up GDNative %s %q", ext.Type, ResPath(ext.Name))
		} else {
			logger.Info().Str("type", ext.Type.String()).Msgf("setting up Godot %s %q", ext.Type, ext.Name)
		}

		if err := collector.Collect(ctx, s, ext); err != nil {
			return eris.Wrapf(err, "failed to set up %s %q", ext.Type, ext.Name)
		}
	}

	if s.project == nil {
		return ErrProjectRequired
	}

	if s.libraryPath == "" {
		return eris.Wrap(ErrNoLibrary, "nothing to build")
	}

	return nil
}

// addResource renders a Godot resource for writing once the build is done.
// A later resource with the same path replaces the earlier one.
func (s *Session) addResource(root, resPath, templateName string, data any) error {
	content, err := s.templates.Render(templateName, data)
	if err != nil {
		return err
	}

	res := resource{root: root, path: resPath, content: content}
	if idx, ok := s.resourceIndex[resPath]; ok {
		s.resources[idx] = res
		return nil
	}

	s.resourceIndex[resPath] = len(s.resources)
	s.resources = append(s.resources, res)
	return nil
}

func (s *Session) writeResources(ctx context.Context, result *BuildResult) error {
	for _, res := range s.resources {
		target := filepath.Join(res.root, filepath.FromSlash(res.path))
		err := s.writeFile(ctx, result, target, res.content, WriteOptions{
			Protected:  true,
			PrettyPath: ResPath(res.path),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// writeFile applies the session's Force and DryRun settings to WriteTarget
// and records the outcome.
func (s *Session) writeFile(ctx context.Context, result *BuildResult, path string, content []byte, opts WriteOptions) error {
	opts.Force = s.config.Force
	opts.DryRun = s.config.DryRun

	outcome, err := WriteTarget(ctx, path, content, opts)
	if err != nil {
		return err
	}

	result.Files = append(result.Files, WrittenFile{Path: path, Outcome: outcome})
	return nil
}

// generatedFiles lists the files Run creates, absolute.
func (s *Session) generatedFiles() []string {
	var files []string

	if s.generic {
		files = append(files, s.build.Target)
		return files
	}

	files = append(files,
		filepath.Join(s.config.WorkDir, "SConstruct"),
		s.cppLibraryFile(),
		s.targetFile(),
	)

	return files
}

func (s *Session) cppLibraryFile() string {
	return filepath.Join(s.config.WorkDir, filepath.FromSlash(s.build.CppLibraryPath))
}

func (s *Session) targetFile() string {
	target := filepath.FromSlash(s.build.Target)
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(s.config.WorkDir, target)
}
