package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	gdext "github.com/contriboss/godot-extension-go"
)

func newBuildCommand(a *app) *cobra.Command {
	var (
		manifestPath string
		force        bool
		dryRun       bool
		jobs         int
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate Godot resources and build the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			extensions, err := a.loadExtensions(manifestPath)
			if err != nil {
				return err
			}

			build := a.buildConfig()
			build.Force = force
			build.DryRun = dryRun
			if cmd.Flags().Changed("jobs") {
				build.Parallel = jobs
			}

			session, err := gdext.NewSession(build, nil)
			if err != nil {
				return err
			}

			result, err := session.Run(cmd.Context(), extensions)
			if err != nil {
				return err
			}

			printFiles(a, result, dryRun)
			fmt.Fprintf(a.stdout, "%s: %s\n", a.displayPath(result.Target), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "extension manifest (default from gdext.toml, then gdext.yaml)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "rewrite generated files and user-modified resources")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "only print what would be done, don't write or run anything")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of parallel build jobs")

	return cmd
}

func newCleanCommand(a *app) *cobra.Command {
	var (
		manifestPath string
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove generated build files and the built library",
		Long: `clean removes SConstruct, the generated C++ bootstrap and the library.
Godot resources (.gdnlib, .gdns) are left alone since they may have been edited.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			extensions, err := a.loadExtensions(manifestPath)
			if err != nil {
				return err
			}

			build := a.buildConfig()
			build.DryRun = dryRun

			session, err := gdext.NewSession(build, nil)
			if err != nil {
				return err
			}

			result, err := session.Clean(cmd.Context(), extensions)
			if err != nil {
				return err
			}

			for _, line := range result.Output {
				fmt.Fprintln(a.stdout, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "extension manifest (default from gdext.toml, then gdext.yaml)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "only print what would be removed")

	return cmd
}

// printFiles lists every file the run touched. Unchanged files are only
// listed on dry runs.
func printFiles(a *app, result *gdext.BuildResult, all bool) {
	for _, file := range result.Files {
		if file.Outcome == gdext.Skipped && !all {
			continue
		}
		fmt.Fprintf(a.stdout, "%-11s %s\n", file.Outcome, a.displayPath(file.Path))
	}
}

// displayPath shows path relative to the work directory.
func (a *app) displayPath(path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	return gdext.RelativePath(a.workDir, path)
}
