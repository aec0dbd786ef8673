package venv

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/robinvandernoord/uvx/pkg/core"
)

// Options configures venv creation
type Options struct {
	Python string // Interpreter version or executable
	Force  bool   // Replace an existing venv instead of refusing
	Seed   bool   // Seed pip into the venv
}

// Creator is the part of the package manager contract that builds venvs
type Creator interface {
	CreateVenv(ctx context.Context, path string, opts *core.VenvOptions) error
}

// Provisioner creates and destroys venvs under a work directory
type Provisioner struct {
	workDir string
	pm      Creator
	logger  *log.Logger
}

// NewProvisioner creates a provisioner rooted at workDir
func NewProvisioner(workDir string, pm Creator, logger *log.Logger) *Provisioner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Provisioner{workDir: workDir, pm: pm, logger: logger}
}

// WorkDir returns the root directory
func (p *Provisioner) WorkDir() string {
	return p.workDir
}

// VenvsDir returns the directory holding all venvs
func (p *Provisioner) VenvsDir() string {
	return filepath.Join(p.workDir, "venvs")
}

// Path returns the deterministic venv location for a package name
func (p *Provisioner) Path(name string) string {
	return filepath.Join(p.VenvsDir(), name)
}

// EnsureWorkDir creates the venvs directory if needed
func (p *Provisioner) EnsureWorkDir() error {
	if err := os.MkdirAll(p.VenvsDir(), 0755); err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}
	return nil
}

// Exists reports whether a venv for name is present
func (p *Provisioner) Exists(name string) bool {
	info, err := os.Stat(p.Path(name))
	return err == nil && info.IsDir()
}

// List returns the names of all venvs, sorted
func (p *Provisioner) List() ([]string, error) {
	entries, err := os.ReadDir(p.VenvsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("listing venvs: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Create builds the venv for name. An existing venv blocks creation unless
// opts.Force is set.
func (p *Provisioner) Create(ctx context.Context, name string, opts *Options) (string, error) {
	if opts == nil {
		opts = &Options{}
	}
	if err := p.EnsureWorkDir(); err != nil {
		return "", core.Wrap(core.ErrEnvironment, "create venv", name, err)
	}

	path := p.Path(name)
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return "", core.Errorf(core.ErrConflict, "install", name,
			"'%s' is already installed. Use 'uvx upgrade' to update existing tools or pass '--force' to ignore this message", name)
	}

	if err := p.CreateAt(ctx, path, opts); err != nil {
		return "", err
	}
	return path, nil
}

// CreateAt builds a venv at an arbitrary path (scratch venvs for run).
func (p *Provisioner) CreateAt(ctx context.Context, path string, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	p.logger.Debug("creating venv", "path", path, "python", opts.Python)

	err := p.pm.CreateVenv(ctx, path, &core.VenvOptions{Python: opts.Python, Seed: opts.Seed})
	if err != nil {
		return core.Wrap(core.ErrEnvironment, "create venv", filepath.Base(path), err)
	}
	return nil
}

// Destroy removes a venv directory tree; a missing directory is not an error.
func Destroy(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// BinDir returns the script directory of a venv
func BinDir(venv string) string {
	return filepath.Join(venv, "bin")
}

// PythonExecutable resolves the venv interpreter through its symlinks
// (e.g. /usr/bin/python3.12).
func PythonExecutable(venv string) (string, error) {
	resolved, err := filepath.EvalSymlinks(filepath.Join(BinDir(venv), "python"))
	if err != nil {
		return "", fmt.Errorf("resolving interpreter: %w", err)
	}
	return resolved, nil
}
