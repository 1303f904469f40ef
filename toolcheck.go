package gdext

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var execLookPath = exec.LookPath

// DefaultBuildTool is spawned for native library builds.
const DefaultBuildTool = "scons"

// ToolChecker is implemented by anything that needs external tools before
// it can run.
//
// # Consumer Usage
//
//	if err := session.CheckTools(); err != nil {
//	    return eris.Wrap(err, "build tools missing")
//	}
type ToolChecker interface {
	// RequiredTools returns the list of tools needed.
	RequiredTools() []ToolRequirement

	// CheckTools returns nil if all required tools are found, or an error
	// naming the missing ones. Optional tools never cause an error.
	CheckTools() error
}

// ToolRequirement describes a build tool dependency.
//
// Tool with alternatives:
//
//	ToolRequirement{
//	    Name: "scons",
//	    Alternatives: []string{"scons.bat"},
//	    Purpose: "SCons build system",
//	}
type ToolRequirement struct {
	// Name is the primary tool binary name or path.
	Name string

	// Alternatives can satisfy the requirement instead of Name.
	Alternatives []string

	// Optional tools are checked but never fail the build.
	Optional bool

	// Purpose is a human-readable description of why this tool is needed.
	Purpose string
}

// CheckToolAvailable checks if a tool is available in the system PATH.
func CheckToolAvailable(tool string) error {
	_, err := execLookPath(tool)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", tool)
	}
	return nil
}

// CheckRequiredTools verifies all required tools are available.
//
// # Error Format
//
// Single missing tool:
//
//	scons not found in PATH (required for: SCons build system)
//
// Multiple missing tools:
//
//	missing required tools: scons (SCons build system), cython (Cython compiler)
func CheckRequiredTools(requirements []ToolRequirement) error {
	var missingTools []string

	for _, req := range requirements {
		found := CheckToolAvailable(req.Name) == nil

		if !found {
			for _, alt := range req.Alternatives {
				if CheckToolAvailable(alt) == nil {
					found = true
					break
				}
			}
		}

		if !found && !req.Optional {
			if req.Purpose != "" {
				missingTools = append(missingTools, fmt.Sprintf("%s (%s)", req.Name, req.Purpose))
			} else {
				missingTools = append(missingTools, req.Name)
			}
		}
	}

	if len(missingTools) == 0 {
		return nil
	}

	if len(missingTools) == 1 {
		return fmt.Errorf("%s not found in PATH", missingTools[0])
	}

	return fmt.Errorf("missing required tools: %s", strings.Join(missingTools, ", "))
}

// resolveBuildTool picks the build tool executable. On Windows the tool
// installed into the active virtual environment wins over PATH.
func resolveBuildTool(configured string) string {
	if configured != "" && configured != DefaultBuildTool {
		return configured
	}

	if hostOS == "windows" {
		if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
			return filepath.Join(venv, "Scripts", DefaultBuildTool+".exe")
		}
	}

	return DefaultBuildTool
}
