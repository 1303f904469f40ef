// Package config loads gdext settings from gdext.toml and GDEXT_*
// environment variables.
package config

import (
	"path/filepath"
	"strings"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	gdext "github.com/contriboss/godot-extension-go"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "gdext.toml"

// Config describes all configuration options
type Config struct {
	Manifest     string `default:"gdext.yaml" usage:"Extension manifest to build"`
	BindingsPath string `usage:"Root of the Python bindings checkout"`
	HeadersPath  string `usage:"godot_headers directory (default: <bindings_path>/godot_headers)"`
	TemplatesDir string `usage:"Directory with template overrides"`
	ExtSuffix    string `usage:"Compiled extension suffix (default: .so, .pyd on Windows)"`

	Build struct {
		Tool     string   `default:"scons" usage:"Build tool to spawn"`
		Args     []string `usage:"Extra build tool arguments"`
		Parallel int      `default:"0" usage:"Parallel build jobs, 0 leaves the tool default"`
	}

	RequireVirtualEnv bool `default:"false" usage:"Refuse to build outside a virtual environment"`
	CopyLibrary       bool `default:"false" usage:"Copy the prebuilt bindings library instead of linking it"`

	Log struct {
		Level string `default:"info"`
		JSON  bool   `default:"false" usage:"Output JSON lines instead of pretty console messages"`
	}
}

var logLevels = map[string]zerolog.Level{
	"trace":   zerolog.TraceLevel,
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// Loader initializes an empty config object and returns a new Loader for
// this object. Files are read relative to workDir; an empty workDir means
// the current directory.
func Loader(workDir string) (*Config, *aconfig.Loader) {
	cfg := Config{}
	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		EnvPrefix: "GDEXT",
		// GDEXT_DEBUG is read by the console writer
		AllowUnknownEnvs: true,
		Files:            []string{filepath.Join(workDir, FileName)},
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
}

// Load reads the configuration for workDir and validates it.
func Load(workDir string) (*Config, error) {
	cfg, loader := Loader(workDir)
	if err := loader.Load(); err != nil {
		return nil, eris.Wrapf(err, "failed to load %s", FileName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	if _, ok := logLevels[strings.ToLower(cfg.Log.Level)]; !ok {
		return eris.Errorf("invalid value for log.level: %s", cfg.Log.Level)
	}

	if cfg.Build.Parallel < 0 {
		return eris.Errorf("invalid value for build.parallel: %d", cfg.Build.Parallel)
	}

	if cfg.ExtSuffix != "" && !strings.HasPrefix(cfg.ExtSuffix, ".") {
		return eris.Errorf("invalid value for ext_suffix: %q must start with a dot", cfg.ExtSuffix)
	}

	if strings.TrimSpace(cfg.Manifest) == "" {
		return eris.New("manifest must not be empty")
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[strings.ToLower(cfg.Log.Level)]
}

// BuildConfig maps the file settings onto a session configuration rooted
// at workDir. Relative paths are resolved against workDir.
func (cfg *Config) BuildConfig(workDir string) *gdext.BuildConfig {
	return &gdext.BuildConfig{
		WorkDir:           workDir,
		BindingsPath:      resolve(workDir, cfg.BindingsPath),
		HeadersPath:       resolve(workDir, cfg.HeadersPath),
		TemplatesDir:      resolve(workDir, cfg.TemplatesDir),
		ExtSuffix:         cfg.ExtSuffix,
		BuildTool:         cfg.Build.Tool,
		BuildArgs:         append([]string{}, cfg.Build.Args...),
		Parallel:          cfg.Build.Parallel,
		RequireVirtualEnv: cfg.RequireVirtualEnv,
		CopyLibrary:       cfg.CopyLibrary,
	}
}

// ManifestPath returns the manifest location resolved against workDir.
func (cfg *Config) ManifestPath(workDir string) string {
	return resolve(workDir, cfg.Manifest)
}

func resolve(workDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}
