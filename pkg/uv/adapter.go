// adapter.go
package uv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/robinvandernoord/uvx/pkg/core"
)

// Adapter implements core.PackageManager by shelling out to uv and the
// venv interpreter
type Adapter struct {
	exe    string
	client *Client
	logger *log.Logger
}

var _ core.PackageManager = (*Adapter)(nil)

// NewAdapter creates a uv adapter
func NewAdapter(cfg *Config, logger *log.Logger) *Adapter {
	if cfg == nil {
		cfg = &Config{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	exe := cfg.Executable
	if exe == "" {
		exe = DefaultExecutable
	}
	return &Adapter{exe: exe, client: NewClient(logger), logger: logger}
}

// Name returns the backend name
func (a *Adapter) Name() string {
	return "uv"
}

// Executable returns the uv binary this adapter invokes
func (a *Adapter) Executable() string {
	return a.exe
}

// CreateVenv runs `uv venv <path>`
func (a *Adapter) CreateVenv(ctx context.Context, path string, opts *core.VenvOptions) error {
	if opts == nil {
		opts = &core.VenvOptions{}
	}
	args := []string{"venv", path}
	if opts.Python != "" {
		args = append(args, "--python", opts.Python)
	}
	if opts.Seed {
		args = append(args, "--seed")
	}
	if err := a.client.Run(ctx, a.exe, args...); err != nil {
		return fmt.Errorf("creating venv: %w", err)
	}
	return nil
}

// Install runs `uv pip install` against the active venv
func (a *Adapter) Install(ctx context.Context, specs []string, opts *core.InstallOptions) error {
	if opts == nil {
		opts = &core.InstallOptions{}
	}
	args := []string{"pip", "install"}
	if opts.Upgrade {
		args = append(args, "--upgrade")
	}
	if opts.NoCache {
		args = append(args, "--no-cache")
	}
	args = append(args, specs...)

	if err := a.client.Run(ctx, a.exe, args...); err != nil {
		return fmt.Errorf("installing %s: %w", strings.Join(specs, ", "), err)
	}
	return nil
}

// Uninstall runs `uv pip uninstall` against the active venv
func (a *Adapter) Uninstall(ctx context.Context, packages []string) error {
	args := append([]string{"pip", "uninstall"}, packages...)
	if err := a.client.Run(ctx, a.exe, args...); err != nil {
		return fmt.Errorf("uninstalling %s: %w", strings.Join(packages, ", "), err)
	}
	return nil
}

// InstalledVersion finds pkg in `uv pip freeze` output for venv
func (a *Adapter) InstalledVersion(ctx context.Context, venv, pkg string) (string, error) {
	out, err := a.client.Output(ctx, a.exe, "pip", "freeze", "--python", pythonPath(venv))
	if err != nil {
		return "", fmt.Errorf("listing installed packages: %w", err)
	}
	return parseFreeze(out, pkg), nil
}

// PythonVersion returns the output of `python --version` (e.g. "Python 3.12.1")
func (a *Adapter) PythonVersion(ctx context.Context, venv string) (string, error) {
	out, err := a.client.Output(ctx, pythonPath(venv), "--version")
	if err != nil {
		return "", fmt.Errorf("querying python version: %w", err)
	}
	return out, nil
}

// EntryPoints lists the console scripts dist declares
func (a *Adapter) EntryPoints(ctx context.Context, venv, dist string) ([]string, error) {
	out, err := a.client.Output(ctx, pythonPath(venv), "-c", entryPointsProbe, dist)
	if err != nil {
		return nil, fmt.Errorf("reading entry points: %w", err)
	}
	return splitLines(out), nil
}

// DryRun resolves spec with pip in a throwaway seeded venv and reads the
// install report. Nothing is installed anywhere.
func (a *Adapter) DryRun(ctx context.Context, spec string) (*core.DryRunReport, error) {
	tmp, err := os.MkdirTemp("", "uvx-resolve-")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	venv := filepath.Join(tmp, "venv")
	if err := a.CreateVenv(ctx, venv, &core.VenvOptions{Seed: true}); err != nil {
		return nil, err
	}

	report := filepath.Join(tmp, "report.json")
	err = a.client.Run(ctx, pythonPath(venv), "-m", "pip", "install",
		"--no-deps", "--dry-run", "--ignore-installed", "--quiet", "--report", report, spec)
	if err != nil {
		return nil, fmt.Errorf("dry run: %w", err)
	}

	data, err := os.ReadFile(report)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	return parseReport(data)
}

// Command builds a pass-through command. pip and python run from the
// active venv, uv from the configured executable.
func (a *Adapter) Command(ctx context.Context, tool string, args ...string) *exec.Cmd {
	var cmd *exec.Cmd
	switch tool {
	case ToolPip:
		cmd = exec.CommandContext(ctx, a.exe, append([]string{"pip"}, args...)...)
	case ToolPython:
		name := ToolPython
		if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
			name = pythonPath(venv)
		}
		cmd = exec.CommandContext(ctx, name, args...)
	default:
		cmd = exec.CommandContext(ctx, a.exe, args...)
	}
	a.logger.Debug("exec", "cmd", Display(cmd.Path, args...))
	return cmd
}

func pythonPath(venv string) string {
	return filepath.Join(venv, "bin", "python")
}

func parseFreeze(out, pkg string) string {
	prefix := pkg + "=="
	for _, line := range splitLines(out) {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimPrefix(line, prefix)
		}
	}
	return ""
}

func parseReport(data []byte) (*core.DryRunReport, error) {
	var report installReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	if len(report.Install) == 0 {
		return nil, fmt.Errorf("report lists no installs")
	}
	first := report.Install[0]
	return &core.DryRunReport{
		Name:   first.Metadata.Name,
		Extras: first.RequestedExtras,
		URL:    first.DownloadInfo.URL,
	}, nil
}

func splitLines(out string) []string {
	lines := []string{}
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
