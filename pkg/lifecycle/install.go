package lifecycle

import (
	"context"
	"fmt"
	"sort"

	"github.com/robinvandernoord/uvx/pkg/core"
	"github.com/robinvandernoord/uvx/pkg/journal"
	"github.com/robinvandernoord/uvx/pkg/metadata"
	"github.com/robinvandernoord/uvx/pkg/spec"
	"github.com/robinvandernoord/uvx/pkg/venv"
	"github.com/sahilm/fuzzy"
)

// InstallOptions configures Install
type InstallOptions struct {
	Python       string   // Interpreter version or executable
	Force        bool     // Replace an existing venv and existing scripts
	Extras       []string // Additional packages installed alongside
	NoCache      bool     // Bypass the package manager cache
	SkipSymlinks bool     // Do not expose scripts in the bin directory
}

// ReinstallOptions configures Reinstall
type ReinstallOptions struct {
	Python          string
	Force           bool
	WithoutInjected bool
	NoCache         bool
}

// UninstallOptions configures Uninstall
type UninstallOptions struct {
	Force bool // Remove scripts even if the venv is missing
}

// Install creates a venv for raw, installs it and exposes its scripts.
func (e *Engine) Install(ctx context.Context, raw string, opts *InstallOptions) (string, error) {
	msg, rec, err := e.install(ctx, raw, opts)
	if err != nil {
		return "", err
	}
	e.record(ctx, journal.OpInstall, rec.Name, rec.InstalledVersion, rec.InstallSpec)
	return msg, nil
}

func (e *Engine) install(ctx context.Context, raw string, opts *InstallOptions) (string, *metadata.Record, error) {
	if opts == nil {
		opts = &InstallOptions{}
	}

	s, err := e.resolver.Resolve(ctx, raw)
	if err != nil {
		return "", nil, err
	}

	path, err := e.venvs.Create(ctx, s.Name, &venv.Options{Python: opts.Python, Force: opts.Force, Seed: true})
	if err != nil {
		return "", nil, err
	}

	rec, err := e.installInto(ctx, s, path, opts.Extras, opts.NoCache || opts.Force)
	if err != nil {
		return "", nil, err
	}

	msg := ""
	if opts.SkipSymlinks {
		msg = fmt.Sprintf("📦 %s (%s) installed!", rec.Name, rec.InstalledVersion)
	} else {
		rec.Scripts = e.links.Install(ctx, rec.Name, path, opts.Force)
		if anyTrue(rec.Scripts) {
			msg = fmt.Sprintf("📦 %s (%s) installed!", rec.Name, rec.InstalledVersion)
		} else {
			e.logger.Warn("no executables were linked", "package", rec.Name)
		}
	}

	if err := e.writeRecord(path, rec); err != nil {
		return "", nil, err
	}
	return msg, rec, nil
}

// installInto installs s plus extras into the venv at path and fills in the
// runtime fields of its record. Any package manager failure removes the venv.
func (e *Engine) installInto(ctx context.Context, s spec.InstallSpec, path string, extras []string, noCache bool) (*metadata.Record, error) {
	rec := s.Record()
	specs := append([]string{s.Raw}, extras...)

	title := "installing " + s.Name
	if len(extras) > 0 {
		title += " with " + formatSet(core.NewSet(extras...))
	}

	err := e.scoped(path, func() error {
		err := e.progress.Run(title, func() error {
			return e.pm.Install(ctx, specs, &core.InstallOptions{NoCache: noCache})
		})
		if err != nil {
			return err
		}

		if rec.InstalledVersion, err = e.pm.InstalledVersion(ctx, path, s.Name); err != nil {
			return err
		}
		if rec.Python, err = e.pm.PythonVersion(ctx, path); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		e.logger.Warn("rolling back failed install", "package", s.Name, "venv", path)
		if rmErr := venv.Destroy(path); rmErr != nil {
			e.logger.Error("rollback failed", "venv", path, "err", rmErr)
		}
		return nil, core.Wrap(core.ErrPackageManager, "install", s.Name, err)
	}

	if raw, err := venv.PythonExecutable(path); err == nil {
		rec.PythonRaw = raw
	} else {
		e.logger.Debug("could not resolve interpreter", "venv", path, "err", err)
	}
	rec.Injected = core.NewSet(extras...)
	return rec, nil
}

// Reinstall uninstalls and installs a package again, reusing its stored
// spec, interpreter and injected packages unless overridden.
func (e *Engine) Reinstall(ctx context.Context, raw string, opts *ReinstallOptions) (string, error) {
	if opts == nil {
		opts = &ReinstallOptions{}
	}

	s, err := e.resolver.Resolve(ctx, raw)
	if err != nil {
		return "", err
	}

	path := e.venvs.Path(s.Name)
	if !e.venvs.Exists(s.Name) && !opts.Force {
		return "", core.Errorf(core.ErrState, "reinstall", s.Name,
			"'%s' was not previously installed. Please run 'uvx install %s' instead", s.Name, raw)
	}

	prev, hasPrev := e.readRecord(path).Get()

	installSpec := raw
	if !s.HasRequest() && hasPrev {
		installSpec = prev.InstallSpec
	}

	python := opts.Python
	if python == "" && hasPrev {
		python = prev.PythonRaw
	}

	var extras []string
	if !opts.WithoutInjected && hasPrev && len(prev.Injected) > 0 {
		extras = prev.Injected.Sorted()
	}

	if _, err := e.uninstall(ctx, s.Name, &UninstallOptions{Force: opts.Force}); err != nil {
		return "", err
	}

	msg, rec, err := e.install(ctx, installSpec, &InstallOptions{
		Python:  python,
		Force:   opts.Force,
		Extras:  extras,
		NoCache: opts.NoCache,
	})
	if err != nil {
		return "", err
	}
	e.record(ctx, journal.OpReinstall, rec.Name, rec.InstalledVersion, rec.InstallSpec)
	return msg, nil
}

// Uninstall removes the scripts of name and deletes its venv.
func (e *Engine) Uninstall(ctx context.Context, name string, opts *UninstallOptions) (string, error) {
	version, err := e.uninstall(ctx, name, opts)
	if err != nil {
		return "", err
	}
	e.record(ctx, journal.OpUninstall, name, version, "")

	if version != "" {
		return fmt.Sprintf("🗑️ %s (%s) removed!", name, version), nil
	}
	return fmt.Sprintf("🗑️ %s removed!", name), nil
}

func (e *Engine) uninstall(ctx context.Context, name string, opts *UninstallOptions) (string, error) {
	if opts == nil {
		opts = &UninstallOptions{}
	}

	path := e.venvs.Path(name)
	if !e.venvs.Exists(name) && !opts.Force {
		hint := fmt.Sprintf("No virtualenv for '%s', stopping. Use '--force' to remove an executable with that name anyway", name)
		if suggestion := e.suggest(name); suggestion != "" {
			hint += fmt.Sprintf(". Did you mean '%s'?", suggestion)
		}
		return "", core.Errorf(core.ErrState, "uninstall", name, "%s", hint)
	}

	stored := e.readRecord(path)

	scripts := e.links.Discover(ctx, name, path)
	if len(scripts) == 0 {
		if rec, ok := stored.Get(); ok {
			scripts = sortedKeys(rec.Scripts)
		}
	}
	if len(scripts) == 0 {
		scripts = []string{name}
	}

	for _, script := range scripts {
		e.links.Remove(script)
	}

	if err := venv.Destroy(path); err != nil {
		return "", core.Wrap(core.ErrEnvironment, "uninstall", name, err)
	}

	if rec, ok := stored.Get(); ok {
		return rec.InstalledVersion, nil
	}
	return "", nil
}

// suggest returns the installed name closest to name, or ""
func (e *Engine) suggest(name string) string {
	installed, err := e.venvs.List()
	if err != nil || len(installed) == 0 {
		return ""
	}
	matches := fuzzy.Find(name, installed)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

func anyTrue(m map[string]bool) bool {
	for _, v := range m {
		if v {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
