// internal/cli/inject.go
package cli

import (
	"context"

	"github.com/robinvandernoord/uvx"
	"github.com/spf13/cobra"
)

var injectCmd = &cobra.Command{
	Use:   "inject [package] [extra...]",
	Short: "Install extra packages into an existing virtualenv",
	Long: `Install extra packages next to an installed package. Injected packages are
remembered and carried along by upgrade and reinstall.

Example:
  uvx inject black isort flake8`,
	Args: cobra.MinimumNArgs(2),
	RunE: runInject,
}

var ejectCmd = &cobra.Command{
	Use:     "eject [package] [extra...]",
	Aliases: []string{"uninject"},
	Short:   "Remove injected packages from a virtualenv",
	Long:    `Remove injected packages. Without extra arguments every injected package is removed.`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runEject,
}

func runInject(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	return withManager(func(m *uvx.Manager) error {
		msg, err := m.Inject(ctx, args[0], args[1:])
		if err != nil {
			return err
		}
		printMessage(msg)
		return nil
	})
}

func runEject(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	return withManager(func(m *uvx.Manager) error {
		msg, err := m.Eject(ctx, args[0], args[1:])
		if err != nil {
			return err
		}
		printMessage(msg)
		return nil
	})
}
