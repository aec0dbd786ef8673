// pkg/core/interface.go
package core

import (
	"context"
	"os/exec"
)

// PackageManager is the contract uvx expects from the external tool that
// actually creates venvs and installs distributions. Install and Uninstall
// act on whichever venv is active in the process environment (VIRTUAL_ENV).
type PackageManager interface {
	// Name returns the tool name (e.g., "uv")
	Name() string

	// CreateVenv creates a venv at path, optionally pinned to an interpreter
	// and seeded with baseline tooling (pip)
	CreateVenv(ctx context.Context, path string, opts *VenvOptions) error

	// Install installs (or upgrades) specs into the active venv
	Install(ctx context.Context, specs []string, opts *InstallOptions) error

	// Uninstall removes packages from the active venv
	Uninstall(ctx context.Context, packages []string) error

	// InstalledVersion reports the installed version of pkg inside venv
	InstalledVersion(ctx context.Context, venv, pkg string) (string, error)

	// PythonVersion reports the human-readable interpreter version of venv
	PythonVersion(ctx context.Context, venv string) (string, error)

	// EntryPoints lists the console_scripts declared by dist inside venv
	EntryPoints(ctx context.Context, venv, dist string) ([]string, error)

	// DryRun reports what installing spec would install, without installing
	DryRun(ctx context.Context, spec string) (*DryRunReport, error)

	// Command builds a pass-through command (uv, pip, python) for the active venv
	Command(ctx context.Context, tool string, args ...string) *exec.Cmd
}

// VenvOptions configures venv creation
type VenvOptions struct {
	Python string // Interpreter version or executable (empty for default)
	Seed   bool   // Also install pip into the venv
}

// InstallOptions configures an install call
type InstallOptions struct {
	Upgrade bool // Pass --upgrade
	NoCache bool // Bypass the package manager cache
}

// DryRunReport is the subset of a dry-run install report needed to resolve
// a local or URL spec to a canonical distribution.
type DryRunReport struct {
	Name   string   // Canonical distribution name
	Extras []string // Requested extras
	URL    string   // Resolved download URL (file:// for local paths)
}
