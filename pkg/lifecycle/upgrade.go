package lifecycle

import (
	"context"
	"fmt"

	"github.com/robinvandernoord/uvx/pkg/core"
	"github.com/robinvandernoord/uvx/pkg/journal"
)

// UpgradeOptions configures Upgrade
type UpgradeOptions struct {
	Force        bool // Drop the remembered version pin
	SkipInjected bool // Leave injected packages alone
	NoCache      bool
}

// Upgrade upgrades a package inside its venv. A version constraint given in
// raw always applies; otherwise the remembered pin applies unless Force.
func (e *Engine) Upgrade(ctx context.Context, raw string, opts *UpgradeOptions) (string, error) {
	if opts == nil {
		opts = &UpgradeOptions{}
	}

	s, err := e.resolver.Resolve(ctx, raw)
	if err != nil {
		return "", err
	}

	path, err := e.requireVenv(s.Name,
		fmt.Sprintf("No virtualenv for '%s', stopping. Use 'uvx install' instead", raw))
	if err != nil {
		return "", err
	}

	rec := e.readRecord(path).OrElse(s.Record())
	oldVersion := rec.InstalledVersion

	version := s.VersionConstraint
	if version == "" && !opts.Force {
		version = rec.Pin()
	}

	specs := []string{withExtras(rec.Name, rec.Extras) + version}
	if !opts.SkipInjected && len(rec.Injected) > 0 {
		specs = append(specs, rec.Injected.Sorted()...)
	}

	var newVersion string
	err = e.scoped(path, func() error {
		err := e.progress.Run("upgrading "+rec.Name, func() error {
			return e.pm.Install(ctx, specs, &core.InstallOptions{Upgrade: true, NoCache: opts.NoCache || opts.Force})
		})
		if err != nil {
			return err
		}
		newVersion, err = e.pm.InstalledVersion(ctx, path, rec.Name)
		return err
	})
	if err != nil {
		return "", core.Wrap(core.ErrPackageManager, "upgrade", rec.Name, err)
	}

	rec.SetPin(version)
	rec.InstalledVersion = newVersion
	if err := e.writeRecord(path, rec); err != nil {
		return "", err
	}
	e.record(ctx, journal.OpUpgrade, rec.Name, newVersion, specs[0])

	if oldVersion == newVersion {
		msg := fmt.Sprintf("🌟 '%s' is already up to date at version %s!", raw, newVersion)
		if pin := rec.Pin(); pin != "" {
			msg += fmt.Sprintf("\n💡 This package was installed with a version constraint (%s). "+
				"If you want to ignore this constraint, use `uvx upgrade --force %s`.", pin, raw)
		}
		return msg, nil
	}
	return fmt.Sprintf("🚀 Successfully updated '%s' from version %s to version %s!", raw, oldVersion, newVersion), nil
}
