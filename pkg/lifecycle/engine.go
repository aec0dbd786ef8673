// Package lifecycle orchestrates install, upgrade, reinstall, inject, eject,
// uninstall and run as transactions over venvs, metadata and symlinks.
package lifecycle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/robinvandernoord/uvx/pkg/core"
	"github.com/robinvandernoord/uvx/pkg/journal"
	"github.com/robinvandernoord/uvx/pkg/metadata"
	"github.com/robinvandernoord/uvx/pkg/progress"
	"github.com/robinvandernoord/uvx/pkg/selector"
	"github.com/robinvandernoord/uvx/pkg/spec"
	"github.com/robinvandernoord/uvx/pkg/symlinks"
	"github.com/robinvandernoord/uvx/pkg/venv"
)

// Config holds engine dependencies and locations
type Config struct {
	WorkDir        string // Holds venvs/<name>
	BinDir         string // Shared directory for script symlinks
	TempDir        string // Parent of scratch venvs for Run, defaults to os.TempDir()
	PackageManager core.PackageManager
	Progress       progress.Runner   // Defaults to progress.Inline
	Selector       selector.Selector // Defaults to selector.First
	Journal        journal.Journal   // Optional
	Logger         *log.Logger
	Stdin          io.Reader
	Stdout         io.Writer
	Stderr         io.Writer
}

// Engine runs lifecycle operations
type Engine struct {
	pm       core.PackageManager
	resolver *spec.Resolver
	venvs    *venv.Provisioner
	links    *symlinks.Reconciler
	progress progress.Runner
	selector selector.Selector
	journal  journal.Journal
	logger   *log.Logger
	tempDir  string
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// New creates an engine and makes sure the work and bin directories exist
func New(cfg *Config) (*Engine, error) {
	if cfg.PackageManager == nil {
		return nil, fmt.Errorf("no package manager configured")
	}

	e := &Engine{
		pm:       cfg.PackageManager,
		progress: cfg.Progress,
		selector: cfg.Selector,
		journal:  cfg.Journal,
		logger:   cfg.Logger,
		tempDir:  cfg.TempDir,
		stdin:    cfg.Stdin,
		stdout:   cfg.Stdout,
		stderr:   cfg.Stderr,
	}
	if e.progress == nil {
		e.progress = progress.Inline{}
	}
	if e.selector == nil {
		e.selector = selector.First{}
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if e.tempDir == "" {
		e.tempDir = os.TempDir()
	}
	if e.stdin == nil {
		e.stdin = os.Stdin
	}
	if e.stdout == nil {
		e.stdout = os.Stdout
	}
	if e.stderr == nil {
		e.stderr = os.Stderr
	}

	e.resolver = spec.NewResolver(e.pm, e.progress, e.logger)
	e.venvs = venv.NewProvisioner(cfg.WorkDir, e.pm, e.logger)
	e.links = &symlinks.Reconciler{
		BinDir:  cfg.BinDir,
		WorkDir: cfg.WorkDir,
		PM:      e.pm,
		Logger:  e.logger,
	}

	if err := e.venvs.EnsureWorkDir(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.BinDir, 0755); err != nil {
		return nil, fmt.Errorf("creating bin directory: %w", err)
	}
	return e, nil
}

// Provisioner exposes the venv provisioner
func (e *Engine) Provisioner() *venv.Provisioner {
	return e.venvs
}

// Reconciler exposes the symlink reconciler
func (e *Engine) Reconciler() *symlinks.Reconciler {
	return e.links
}

// readRecord loads the stored record of a venv. Unreadable metadata is
// reported and treated as absent.
func (e *Engine) readRecord(path string) core.Maybe[*metadata.Record] {
	m, err := metadata.Read(path)
	if err != nil {
		e.logger.Warn("ignoring unreadable metadata", "venv", path, "err", err)
		return core.None[*metadata.Record]()
	}
	return m
}

func (e *Engine) writeRecord(path string, rec *metadata.Record) error {
	if err := metadata.Write(path, rec); err != nil {
		return core.Wrap(core.ErrEnvironment, "store metadata", rec.Name, err)
	}
	return nil
}

// record appends to the journal; failures only warn
func (e *Engine) record(ctx context.Context, op journal.Op, name, version, detail string) {
	if e.journal == nil {
		return
	}
	ev := &journal.Event{Op: op, Name: name, Version: version, Detail: detail}
	if err := e.journal.Record(ctx, ev); err != nil {
		e.logger.Warn("could not record history", "op", op, "package", name, "err", err)
	}
}

// scoped runs fn with path activated as the current venv
func (e *Engine) scoped(path string, fn func() error) error {
	restore, err := venv.Enter(path)
	if err != nil {
		return core.Wrap(core.ErrEnvironment, "activate", filepath.Base(path), err)
	}
	defer restore()
	return fn()
}

// requireVenv returns the venv path for name or a state error naming hint
func (e *Engine) requireVenv(name, hint string) (string, error) {
	if !e.venvs.Exists(name) {
		return "", core.Errorf(core.ErrState, "lookup", name, "%s", hint)
	}
	return e.venvs.Path(name), nil
}

// formatSet renders a set as {a, b}
func formatSet(s core.Set) string {
	return "{" + strings.Join(s.Sorted(), ", ") + "}"
}

// withExtras renders name[a,b]
func withExtras(name string, extras core.Set) string {
	if len(extras) == 0 {
		return name
	}
	return name + "[" + strings.Join(extras.Sorted(), ",") + "]"
}
