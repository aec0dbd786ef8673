// internal/cli/install.go
package cli

import (
	"context"

	"github.com/robinvandernoord/uvx"
	"github.com/spf13/cobra"
)

var (
	installPython       string
	installForce        bool
	installWith         []string
	installNoCache      bool
	installSkipSymlinks bool

	reinstallPython          string
	reinstallForce           bool
	reinstallWithoutInjected bool
	reinstallNoCache         bool
)

var installCmd = &cobra.Command{
	Use:   "install [package]",
	Short: "Install a package into its own virtualenv",
	Long: `Install a package (by pip spec) into a dedicated virtualenv and link its
scripts into the bin directory.

Examples:
  uvx install black
  uvx install 'black[jupyter]>=24' --python 3.12
  uvx install ./path/to/project
  uvx install black --with isort --with flake8`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

var reinstallCmd = &cobra.Command{
	Use:   "reinstall [package]",
	Short: "Uninstall and install a package again",
	Long: `Reinstall a package, reusing its stored install spec, interpreter and
injected packages. A version or extras given on the command line replace
the stored spec.`,
	Args: cobra.ExactArgs(1),
	RunE: runReinstall,
}

func init() {
	installCmd.Flags().StringVar(&installPython, "python", "", "interpreter version or path for the virtualenv")
	installCmd.Flags().BoolVar(&installForce, "force", false, "replace an existing virtualenv and existing scripts")
	installCmd.Flags().StringArrayVar(&installWith, "with", nil, "extra package to inject (repeatable)")
	installCmd.Flags().BoolVar(&installNoCache, "no-cache", false, "bypass the uv cache")
	installCmd.Flags().BoolVar(&installSkipSymlinks, "skip-symlinks", false, "do not link scripts into the bin directory")

	reinstallCmd.Flags().StringVar(&reinstallPython, "python", "", "interpreter version or path for the virtualenv")
	reinstallCmd.Flags().BoolVar(&reinstallForce, "force", false, "reinstall even if the package is not installed")
	reinstallCmd.Flags().BoolVar(&reinstallWithoutInjected, "without-injected", false, "drop previously injected packages")
	reinstallCmd.Flags().BoolVar(&reinstallNoCache, "no-cache", false, "bypass the uv cache")
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	return withManager(func(m *uvx.Manager) error {
		msg, err := m.Install(ctx, args[0], &uvx.InstallOptions{
			Python:       installPython,
			Force:        installForce,
			Extras:       installWith,
			NoCache:      installNoCache,
			SkipSymlinks: installSkipSymlinks,
		})
		if err != nil {
			return err
		}
		printMessage(msg)
		return nil
	})
}

func runReinstall(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	return withManager(func(m *uvx.Manager) error {
		msg, err := m.Reinstall(ctx, args[0], &uvx.ReinstallOptions{
			Python:          reinstallPython,
			Force:           reinstallForce,
			WithoutInjected: reinstallWithoutInjected,
			NoCache:         reinstallNoCache,
		})
		if err != nil {
			return err
		}
		printMessage(msg)
		return nil
	})
}
