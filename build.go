package gdext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/magefile/mage/sh"
	"github.com/rotisserie/eris"
)

// shExec runs the build tool. Swapped in tests.
var shExec = sh.Exec

// renderBuildFiles writes the C++ bootstrap and the SConstruct script.
func renderBuildFiles(ctx context.Context, s *Session, result *BuildResult) error {
	cppLibrary := s.cppLibraryFile()
	content, err := s.templates.Render(CppLibraryTemplate, &s.build)
	if err != nil {
		return err
	}

	err = s.writeFile(ctx, result, cppLibrary, content, WriteOptions{PrettyPath: s.build.CppLibraryPath})
	if err != nil {
		return err
	}

	s.build.CppSources = uniqueStrings(append(s.build.CppSources, RelativePath(s.config.WorkDir, cppLibrary)))

	content, err = s.templates.Render(SConsTemplate, &s.build)
	if err != nil {
		return err
	}

	return s.writeFile(ctx, result, filepath.Join(s.config.WorkDir, "SConstruct"), content,
		WriteOptions{PrettyPath: "SConstruct"})
}

// RequiredTools returns the build tool a native build spawns.
func (s *Session) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{
			Name:    resolveBuildTool(s.config.BuildTool),
			Purpose: "SCons build system",
		},
	}
}

// CheckTools verifies the build tool is installed.
func (s *Session) CheckTools() error {
	return CheckRequiredTools(s.RequiredTools())
}

// spawnBuildTool runs scons in the work directory.
func spawnBuildTool(ctx context.Context, s *Session, result *BuildResult) error {
	logger := Log(ctx)
	tool := resolveBuildTool(s.config.BuildTool)
	args := s.buildToolArgs()

	logger.Info().Str("tool", tool).Msgf("running %s %s", tool, strings.Join(args, " "))
	if s.config.DryRun {
		return nil
	}

	if err := s.CheckTools(); err != nil {
		return eris.Wrap(err, "build tools missing")
	}

	return runBuildTool(ctx, s, result, tool, args)
}

func runBuildTool(ctx context.Context, s *Session, result *BuildResult, tool string, args []string) error {
	var output bytes.Buffer
	var out io.Writer = &output
	if s.config.Verbose {
		out = io.MultiWriter(&output, os.Stderr)
	}

	ran, err := shExec(s.config.Env, out, out, tool, args...)
	result.Output = append(result.Output, splitLines(output.String())...)

	if err != nil {
		if !ran {
			return eris.Wrapf(err, "failed to start %s", tool)
		}
		Log(ctx).Debug().Int("status", sh.ExitStatus(err)).Msgf("%s exited", tool)
		return BuildError(tool, result.Output, err)
	}

	return nil
}

// runBuildToolClean asks scons to remove its own outputs. Failures are
// ignored; the generated files are removed afterwards regardless.
func runBuildToolClean(ctx context.Context, s *Session, result *BuildResult) {
	if _, err := os.Stat(filepath.Join(s.config.WorkDir, "SConstruct")); err != nil {
		return
	}

	tool := resolveBuildTool(s.config.BuildTool)
	args := append(s.buildToolArgs(), "-c")
	Log(ctx).Info().Str("tool", tool).Msgf("running %s %s", tool, strings.Join(args, " "))
	if s.config.DryRun || s.CheckTools() != nil {
		return
	}

	if err := runBuildTool(ctx, s, result, tool, args); err != nil {
		Log(ctx).Warn().Err(err).Msgf("%s clean failed", tool)
	}
}

func (s *Session) buildToolArgs() []string {
	var args []string

	if wd, err := os.Getwd(); err != nil || realPath(wd) != s.config.WorkDir {
		args = append(args, "-C", s.config.WorkDir)
	}

	if s.config.Parallel > 0 {
		args = append(args, "-j", strconv.Itoa(s.config.Parallel))
	}

	return append(args, s.config.BuildArgs...)
}

// verifyTarget checks the build tool produced the library.
func verifyTarget(_ context.Context, s *Session, _ *BuildResult) error {
	if s.config.DryRun {
		return nil
	}

	target := s.targetFile()
	if _, err := os.Stat(target); err != nil {
		return eris.Wrapf(err, "%s did not produce %s", resolveBuildTool(s.config.BuildTool), s.build.Target)
	}

	return nil
}

// noConfigure is used by generic builds, which have nothing to generate.
func noConfigure(ctx context.Context, _ *Session, _ *BuildResult) error {
	Log(ctx).Debug().Msg("generic library, no build files needed")
	return nil
}

func splitLines(output string) []string {
	output = strings.TrimRight(output, "\r\n")
	if output == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
}

var _ ToolChecker = (*Session)(nil)

// String is used by the CLI's dry-run summary.
func (r *BuildResult) String() string {
	counts := map[WriteOutcome]int{}
	for _, f := range r.Files {
		counts[f.Outcome]++
	}
	return fmt.Sprintf("%d written, %d overwritten, %d skipped, %d refused",
		counts[Written], counts[Overwritten], counts[Skipped], counts[RefusedUserModified])
}
