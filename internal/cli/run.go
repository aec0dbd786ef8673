// internal/cli/run.go
package cli

import (
	"context"

	"github.com/robinvandernoord/uvx"
	"github.com/robinvandernoord/uvx/pkg/uv"
	"github.com/spf13/cobra"
)

var (
	runKeep    bool
	runPython  string
	runNoCache bool
	runBinary  string
)

var runCmd = &cobra.Command{
	Use:   "run [package] [args...]",
	Short: "Run a package from a temporary virtualenv",
	Long: `Install a package into a throwaway virtualenv and run one of its scripts.
Everything after the package is passed to the script.

Examples:
  uvx run black --check .
  uvx run --binary blackd 'black[d]'
  uvx run --keep --python 3.11 httpie https://example.org`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

var runuvCmd = passThrough(uv.ToolUV, "Run uv inside the virtualenv of a package")
var runpipCmd = passThrough(uv.ToolPip, "Run pip (uv pip) inside the virtualenv of a package")
var runpythonCmd = passThrough(uv.ToolPython, "Run the Python interpreter of a package's virtualenv")

func init() {
	runCmd.Flags().SetInterspersed(false)
	runCmd.Flags().BoolVar(&runKeep, "keep", false, "keep the temporary virtualenv")
	runCmd.Flags().StringVar(&runPython, "python", "", "interpreter version or path for the virtualenv")
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "bypass the uv cache")
	runCmd.Flags().StringVar(&runBinary, "binary", "", "script to run instead of the package name")
}

// passThrough builds run<tool> [package] [args...]
func passThrough(tool, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run" + tool + " [package] [args...]",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			return withManager(func(m *uvx.Manager) error {
				code, err := m.Exec(ctx, args[0], tool, args[1:])
				if err != nil {
					return err
				}
				if code != 0 {
					return &uvx.ExitError{Code: code}
				}
				return nil
			})
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	return withManager(func(m *uvx.Manager) error {
		msg, err := m.Run(ctx, args[0], args[1:], &uvx.RunOptions{
			Keep:    runKeep,
			Python:  runPython,
			NoCache: runNoCache,
			Binary:  runBinary,
		})
		if err != nil {
			return err
		}
		printMessage(msg)
		return nil
	})
}
