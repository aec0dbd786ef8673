// internal/cli/version.go
package cli

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/robinvandernoord/uvx/pkg/platform"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		uvExe := config.UV
		if resolved, err := platform.ResolveUV(uvExe); err == nil {
			uvExe = resolved
		}

		fmt.Println("uvx version", Version)
		fmt.Println("uv:", toolVersion(uvExe, "--version"))
		fmt.Println("Python:", toolVersion("python3", "--version"))
	},
}

// toolVersion runs name with args and returns its trimmed output, or "not found"
func toolVersion(name string, args ...string) string {
	out, err := exec.CommandContext(context.Background(), name, args...).CombinedOutput()
	if err != nil {
		return "not found"
	}
	return strings.TrimSpace(string(out))
}
