// uvx.go
package uvx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/robinvandernoord/uvx/pkg/core"
	"github.com/robinvandernoord/uvx/pkg/journal"
	"github.com/robinvandernoord/uvx/pkg/lifecycle"
	"github.com/robinvandernoord/uvx/pkg/manifest"
	"github.com/robinvandernoord/uvx/pkg/platform"
	"github.com/robinvandernoord/uvx/pkg/progress"
	"github.com/robinvandernoord/uvx/pkg/selector"
	"github.com/robinvandernoord/uvx/pkg/uv"
)

// Re-export types for convenience
type (
	Config           = core.Config
	Entry            = lifecycle.Entry
	Event            = journal.Event
	InstallOptions   = lifecycle.InstallOptions
	UpgradeOptions   = lifecycle.UpgradeOptions
	ReinstallOptions = lifecycle.ReinstallOptions
	UninstallOptions = lifecycle.UninstallOptions
	RunOptions       = lifecycle.RunOptions
	Manifest         = manifest.Manifest
	Platform         = platform.Platform
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// LoadConfig reads a YAML or TOML config file; an empty path uses the default location
func LoadConfig(path string) (*Config, error) {
	return core.LoadConfig(path)
}

// Options overrides the collaborators of a Manager. Zero values select
// the uv adapter, a stderr logger and the process stdio.
type Options struct {
	PackageManager core.PackageManager
	Progress       progress.Runner
	Selector       selector.Selector
	Logger         *log.Logger
	Stdin          io.Reader
	Stdout         io.Writer
	Stderr         io.Writer
}

// Manager is the entry point for all uvx operations
type Manager struct {
	config  *Config
	engine  *lifecycle.Engine
	journal journal.Journal
	logger  *log.Logger
}

// NewManager wires the package manager, journal and lifecycle engine for config
func NewManager(config *Config, opts *Options) (*Manager, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if opts == nil {
		opts = &Options{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
		logger.SetLevel(log.WarnLevel)
		if config.Debug {
			logger.SetLevel(log.DebugLevel)
		}
	}

	pm := opts.PackageManager
	if pm == nil {
		exe, err := platform.ResolveUV(config.UV)
		if err != nil {
			logger.Debug("could not resolve uv, deferring to PATH", "err", err)
			exe = config.UV
		}
		pm = uv.NewAdapter(&uv.Config{Executable: exe, Debug: config.Debug}, logger)
	}

	runner := opts.Progress
	if runner == nil {
		runner = progress.New(os.Stderr, config.NoSpinner || config.Debug)
	}
	sel := opts.Selector
	if sel == nil {
		sel = selector.New()
	}

	m := &Manager{config: config, logger: logger}

	if config.Journal {
		j, err := openJournal(config.JournalPath())
		if err != nil {
			logger.Warn("history disabled", "err", err)
		} else {
			m.journal = j
		}
	}

	cfg := &lifecycle.Config{
		WorkDir:        config.WorkDir,
		BinDir:         config.BinDir,
		PackageManager: pm,
		Progress:       runner,
		Selector:       sel,
		Journal:        m.journal,
		Logger:         logger,
		Stdin:          opts.Stdin,
		Stdout:         opts.Stdout,
		Stderr:         opts.Stderr,
	}
	engine, err := lifecycle.New(cfg)
	if err != nil {
		m.Close()
		return nil, fmt.Errorf("initializing engine: %w", err)
	}
	m.engine = engine
	return m, nil
}

func openJournal(dsn string) (journal.Journal, error) {
	j, err := journal.Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := j.Initialize(context.Background()); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

// Config returns the active configuration
func (m *Manager) Config() *Config {
	return m.config
}

// Install installs a package into its own venv
func (m *Manager) Install(ctx context.Context, raw string, opts *InstallOptions) (string, error) {
	return m.engine.Install(ctx, raw, opts)
}

// Upgrade upgrades an installed package
func (m *Manager) Upgrade(ctx context.Context, raw string, opts *UpgradeOptions) (string, error) {
	return m.engine.Upgrade(ctx, raw, opts)
}

// Reinstall uninstalls and installs a package again
func (m *Manager) Reinstall(ctx context.Context, raw string, opts *ReinstallOptions) (string, error) {
	return m.engine.Reinstall(ctx, raw, opts)
}

// Uninstall removes a package, its venv and its scripts
func (m *Manager) Uninstall(ctx context.Context, name string, opts *UninstallOptions) (string, error) {
	return m.engine.Uninstall(ctx, name, opts)
}

// Inject installs extra packages into the venv of into
func (m *Manager) Inject(ctx context.Context, into string, packages []string) (string, error) {
	return m.engine.Inject(ctx, into, packages)
}

// Eject removes injected packages; none means all of them
func (m *Manager) Eject(ctx context.Context, outof string, packages []string) (string, error) {
	return m.engine.Eject(ctx, outof, packages)
}

// Run executes a package from a throwaway venv
func (m *Manager) Run(ctx context.Context, raw string, args []string, opts *RunOptions) (string, error) {
	return m.engine.Run(ctx, raw, args, opts)
}

// Exec runs uv, pip or python inside the venv of name and returns the exit code
func (m *Manager) Exec(ctx context.Context, name, tool string, args []string) (int, error) {
	return m.engine.Exec(ctx, name, tool, args)
}

// List returns all installed packages
func (m *Manager) List(ctx context.Context) ([]Entry, error) {
	return m.engine.List(ctx)
}

// History returns recorded operations, newest first, optionally for one package
func (m *Manager) History(ctx context.Context, name string, limit int) ([]*Event, error) {
	if m.journal == nil {
		return nil, fmt.Errorf("history is disabled")
	}
	return m.journal.List(ctx, name, limit)
}

// Export describes every installed package as a manifest. Venvs without
// metadata are exported by name.
func (m *Manager) Export(ctx context.Context) (*Manifest, error) {
	entries, err := m.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &Manifest{Version: manifest.CurrentVersion}
	for _, entry := range entries {
		e := manifest.Entry{Name: entry.Name, InstallSpec: entry.Name}
		if rec, ok := entry.Record.Get(); ok {
			e.InstallSpec = rec.InstallSpec
			e.Python = rec.PythonRaw
			if len(rec.Injected) > 0 {
				e.Injected = rec.Injected.Sorted()
			}
		}
		out.Packages = append(out.Packages, e)
	}
	out.Sort()
	return out, nil
}

// InstallAll installs every package of a manifest, continuing past
// failures. It returns the success messages and the joined failures.
func (m *Manager) InstallAll(ctx context.Context, mf *Manifest, force bool) ([]string, error) {
	var (
		msgs []string
		errs []error
	)
	for _, e := range mf.Packages {
		msg, err := m.Install(ctx, e.InstallSpec, &InstallOptions{
			Python: e.Python,
			Force:  force,
			Extras: e.Injected,
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if msg != "" {
			msgs = append(msgs, msg)
		}
	}
	return msgs, errors.Join(errs...)
}

// Doctor probes the system for uv, Python and the bin directory on PATH
func (m *Manager) Doctor() (*Platform, error) {
	return platform.Detect(m.config.UV, m.config.BinDir)
}

// Close releases the journal
func (m *Manager) Close() error {
	if m.journal == nil {
		return nil
	}
	return m.journal.Close()
}
