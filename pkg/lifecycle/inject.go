package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/robinvandernoord/uvx/pkg/core"
	"github.com/robinvandernoord/uvx/pkg/journal"
)

// Inject installs extra packages into an existing venv and remembers them.
func (e *Engine) Inject(ctx context.Context, into string, packages []string) (string, error) {
	s, err := e.resolver.Resolve(ctx, into)
	if err != nil {
		return "", err
	}

	path, err := e.requireVenv(s.Name,
		fmt.Sprintf("'%s' was not previously installed. Please run 'uvx install %s' first", s.Name, into))
	if err != nil {
		return "", err
	}

	rec := e.readRecord(path).OrElse(s.Record())
	pkgs := core.NewSet(packages...)
	if len(pkgs) == 0 {
		return "", core.Errorf(core.ErrState, "inject", s.Name, "no packages to inject")
	}

	err = e.scoped(path, func() error {
		return e.progress.Run("injecting "+formatSet(pkgs), func() error {
			return e.pm.Install(ctx, pkgs.Sorted(), nil)
		})
	})
	if err != nil {
		return "", core.Wrap(core.ErrPackageManager, "inject", s.Name, err)
	}

	rec.Injected = rec.Injected.Union(pkgs)
	if err := e.writeRecord(path, rec); err != nil {
		return "", err
	}
	e.record(ctx, journal.OpInject, rec.Name, rec.InstalledVersion, strings.Join(pkgs.Sorted(), " "))

	return fmt.Sprintf("💉 Injected %s into %s.", formatSet(pkgs), rec.Name), nil
}

// Eject uninstalls injected packages. An empty request ejects everything
// injected so far.
func (e *Engine) Eject(ctx context.Context, outof string, packages []string) (string, error) {
	s, err := e.resolver.Resolve(ctx, outof)
	if err != nil {
		return "", err
	}

	path, err := e.requireVenv(s.Name,
		fmt.Sprintf("'%s' was not previously installed. Please run 'uvx install %s' first", s.Name, outof))
	if err != nil {
		return "", err
	}

	rec := e.readRecord(path).OrElse(s.Record())
	pkgs := core.NewSet(packages...)
	if len(pkgs) == 0 {
		pkgs = rec.Injected.Union(nil)
		if len(pkgs) == 0 {
			return "", core.Errorf(core.ErrState, "eject", s.Name, "no previous packages to uninject")
		}
	}

	err = e.scoped(path, func() error {
		return e.progress.Run("ejecting "+formatSet(pkgs), func() error {
			return e.pm.Uninstall(ctx, pkgs.Sorted())
		})
	})
	if err != nil {
		return "", core.Wrap(core.ErrPackageManager, "eject", s.Name, err)
	}

	rec.Injected = rec.Injected.Difference(pkgs)
	if err := e.writeRecord(path, rec); err != nil {
		return "", err
	}
	e.record(ctx, journal.OpEject, rec.Name, rec.InstalledVersion, strings.Join(pkgs.Sorted(), " "))

	return fmt.Sprintf("⏏️ Uninjected %s from %s.", formatSet(pkgs), rec.Name), nil
}
