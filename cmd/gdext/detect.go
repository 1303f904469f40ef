package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	gdext "github.com/contriboss/godot-extension-go"
)

func newDetectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect [path]",
		Short: "Print the Godot project a path belongs to",
		Long: `detect walks up from path (default: the working directory) to the first
directory containing project.godot and prints it along with the res:// path
of the given path inside that project.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := a.workDir
			if len(args) == 1 {
				path = args[0]
				if !filepath.IsAbs(path) {
					path = filepath.Join(a.workDir, path)
				}
			}

			root, err := gdext.EnsureProjectRoot(path, gdext.ProjectMarker)
			if err != nil {
				return err
			}

			shown := gdext.RelativeToWorkDir(root)
			if shown == "" {
				shown = "."
			}

			fmt.Fprintf(a.stdout, "project:  %s\n", shown)
			fmt.Fprintf(a.stdout, "resource: %s\n", gdext.ResPath(gdext.RelativePath(root, path)))
			return nil
		},
	}
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gdext version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprintf(a.stdout, "gdext %s\n", gdext.Version)
			return nil
		},
	}
}
