package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"GDEXT_MANIFEST",
		"GDEXT_BINDINGS_PATH",
		"GDEXT_EXT_SUFFIX",
		"GDEXT_LOG_LEVEL",
		"GDEXT_COPY_LIBRARY",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "gdext.yaml", cfg.Manifest)
	assert.Equal(t, "scons", cfg.Build.Tool)
	assert.Equal(t, 0, cfg.Build.Parallel)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)
	assert.False(t, cfg.RequireVirtualEnv)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	content := `manifest = "build/extensions.yaml"
bindings_path = "vendor/pygodot"
copy_library = true

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "build/extensions.yaml", cfg.Manifest)
	assert.Equal(t, "vendor/pygodot", cfg.BindingsPath)
	assert.True(t, cfg.CopyLibrary)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())
	assert.Equal(t, filepath.Join(dir, "build", "extensions.yaml"), cfg.ManifestPath(dir))
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("ext_suffix = \".so\"\n"), 0o600))
	t.Setenv("GDEXT_EXT_SUFFIX", ".pyd")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ".pyd", cfg.ExtSuffix)
}

func TestLoadInvalidFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("[log]\nlevel = \"loud\"\n"), 0o600))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{Manifest: "gdext.yaml"}
		cfg.Log.Level = "info"
		return cfg
	}

	testCases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"upper-case level", func(c *Config) { c.Log.Level = "WARN" }, ""},
		{"unknown level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"negative jobs", func(c *Config) { c.Build.Parallel = -2 }, "build.parallel"},
		{"suffix without dot", func(c *Config) { c.ExtSuffix = "so" }, "ext_suffix"},
		{"empty manifest", func(c *Config) { c.Manifest = " " }, "manifest"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestBuildConfig(t *testing.T) {
	workDir := t.TempDir()
	absBindings := filepath.Join(workDir, "elsewhere", "pygodot")

	cfg := &Config{
		BindingsPath: absBindings,
		TemplatesDir: "templates",
		ExtSuffix:    ".so",
	}
	cfg.Build.Tool = "scons"
	cfg.Build.Args = []string{"target=release"}
	cfg.Build.Parallel = 8
	cfg.CopyLibrary = true

	build := cfg.BuildConfig(workDir)

	assert.Equal(t, workDir, build.WorkDir)
	assert.Equal(t, absBindings, build.BindingsPath)
	assert.Equal(t, filepath.Join(workDir, "templates"), build.TemplatesDir)
	assert.Empty(t, build.HeadersPath)
	assert.Equal(t, []string{"target=release"}, build.BuildArgs)
	assert.Equal(t, 8, build.Parallel)
	assert.True(t, build.CopyLibrary)

	build.BuildArgs[0] = "changed"
	assert.Equal(t, "target=release", cfg.Build.Args[0])
}
