package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	gdext "github.com/contriboss/godot-extension-go"
	"github.com/contriboss/godot-extension-go/internal/config"
	"github.com/contriboss/godot-extension-go/internal/console"
	"github.com/contriboss/godot-extension-go/internal/manifest"
)

// app holds what every subcommand shares once the root command ran.
type app struct {
	stdout io.Writer
	stderr io.Writer

	workDir string
	verbose bool

	cfg *config.Config
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "gdext",
		Short: "Build Python-backed GDNative libraries for Godot",
		Long: `gdext reads the extensions declared in gdext.yaml, generates the Godot
resources and build files they need and runs scons to compile the library.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&a.workDir, "chdir", "C", "", "run as if started in this directory")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug messages and stream build tool output")

	root.AddCommand(
		newBuildCommand(a),
		newCleanCommand(a),
		newDetectCommand(a),
		newVersionCommand(a),
	)

	return root
}

// setup resolves the working directory, loads gdext.toml and puts the
// logger into the command's context.
func (a *app) setup(cmd *cobra.Command) error {
	if a.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return eris.Wrap(err, "failed to retrieve the current working directory")
		}
		a.workDir = wd
	}

	workDir, err := filepath.Abs(a.workDir)
	if err != nil {
		return eris.Wrapf(err, "invalid directory %s", a.workDir)
	}
	a.workDir = workDir

	cfg, err := config.Load(a.workDir)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel()
	if a.verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	logger := console.NewLogger(a.stderr, level, cfg.Log.JSON)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(gdext.WithLogger(ctx, &logger))

	return nil
}

// buildConfig merges the file settings with the command line.
func (a *app) buildConfig() *gdext.BuildConfig {
	build := a.cfg.BuildConfig(a.workDir)
	build.Verbose = a.verbose
	return build
}

// loadExtensions reads the manifest given on the command line, or the
// configured one.
func (a *app) loadExtensions(path string) ([]*gdext.Extension, error) {
	if path == "" {
		path = a.cfg.ManifestPath(a.workDir)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(a.workDir, path)
	}

	return manifest.Load(path)
}
