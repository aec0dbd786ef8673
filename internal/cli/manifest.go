// internal/cli/manifest.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/robinvandernoord/uvx"
	"github.com/robinvandernoord/uvx/pkg/manifest"
	"github.com/spf13/cobra"
)

var installAllForce bool

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the installed packages to a manifest",
	Long: `Write every installed package with its install spec, interpreter and
injected packages to a YAML manifest. Without a file (or with -) the manifest
goes to stdout; a .xz, .zst or .gz suffix compresses it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var installAllCmd = &cobra.Command{
	Use:   "install-all [file]",
	Short: "Install every package listed in a manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runInstallAll,
}

func init() {
	installAllCmd.Flags().BoolVar(&installAllForce, "force", false, "replace packages that are already installed")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	return withManager(func(m *uvx.Manager) error {
		mf, err := m.Export(ctx)
		if err != nil {
			return err
		}
		if err := manifest.Write(path, mf); err != nil {
			return err
		}
		if path != "" && path != "-" {
			fmt.Fprintf(os.Stderr, "📝 Exported %d packages to %s\n", len(mf.Packages), path)
		}
		return nil
	})
}

func runInstallAll(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	mf, err := manifest.Read(args[0])
	if err != nil {
		return err
	}

	return withManager(func(m *uvx.Manager) error {
		msgs, err := m.InstallAll(ctx, mf, installAllForce)
		for _, msg := range msgs {
			printMessage(msg)
		}
		return err
	})
}
