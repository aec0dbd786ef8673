// internal/cli/upgrade.go
package cli

import (
	"context"

	"github.com/robinvandernoord/uvx"
	"github.com/spf13/cobra"
)

var (
	upgradeForce        bool
	upgradeSkipInjected bool
	upgradeNoCache      bool

	uninstallForce bool
)

var upgradeCmd = &cobra.Command{
	Use:     "upgrade [package]",
	Aliases: []string{"update"},
	Short:   "Upgrade an installed package",
	Long: `Upgrade a package inside its virtualenv, together with its injected packages.

A version constraint given at install time is kept unless --force is passed
or a new constraint is given:
  uvx upgrade black
  uvx upgrade 'black<25'
  uvx upgrade --force black`,
	Args: cobra.ExactArgs(1),
	RunE: runUpgrade,
}

var uninstallCmd = &cobra.Command{
	Use:     "uninstall [package]",
	Aliases: []string{"remove"},
	Short:   "Remove a package, its virtualenv and its scripts",
	Args:    cobra.ExactArgs(1),
	RunE:    runUninstall,
}

func init() {
	upgradeCmd.Flags().BoolVar(&upgradeForce, "force", false, "ignore the version constraint remembered from install")
	upgradeCmd.Flags().BoolVar(&upgradeSkipInjected, "skip-injected", false, "do not upgrade injected packages")
	upgradeCmd.Flags().BoolVar(&upgradeNoCache, "no-cache", false, "bypass the uv cache")

	uninstallCmd.Flags().BoolVar(&uninstallForce, "force", false, "remove scripts named after the package even without a virtualenv")
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	return withManager(func(m *uvx.Manager) error {
		msg, err := m.Upgrade(ctx, args[0], &uvx.UpgradeOptions{
			Force:        upgradeForce,
			SkipInjected: upgradeSkipInjected,
			NoCache:      upgradeNoCache,
		})
		if err != nil {
			return err
		}
		printMessage(msg)
		return nil
	})
}

func runUninstall(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	return withManager(func(m *uvx.Manager) error {
		msg, err := m.Uninstall(ctx, args[0], &uvx.UninstallOptions{Force: uninstallForce})
		if err != nil {
			return err
		}
		printMessage(msg)
		return nil
	})
}
