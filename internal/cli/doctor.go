// internal/cli/doctor.go
package cli

import (
	"fmt"
	"strings"

	"github.com/robinvandernoord/uvx"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that uv, Python and the bin directory are usable",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	return withManager(func(m *uvx.Manager) error {
		plat, err := m.Doctor()
		if err != nil {
			return fmt.Errorf("detecting platform: %w", err)
		}

		cfg := m.Config()
		fmt.Printf("Platform: %s/%s\n", plat.OS, plat.Arch)
		fmt.Printf("Work dir: %s\n", cfg.WorkDir)
		fmt.Printf("Bin dir:  %s\n", cfg.BinDir)
		fmt.Printf("Found:    %s\n", strings.Join(plat.Available, ", "))

		problems := 0
		if plat.UV == "" {
			fmt.Println(invalidStyle.Render("✗ uv was not found; install it from https://docs.astral.sh/uv/"))
			problems++
		} else {
			fmt.Println(validStyle.Render("✓ uv: " + plat.UV))
		}
		if !plat.HasPython() {
			fmt.Println(invalidStyle.Render("✗ no python interpreter on PATH; uv may download one"))
		}
		if !plat.BinDirOnPath {
			fmt.Println(invalidStyle.Render(fmt.Sprintf("✗ %s is not on PATH; installed scripts will not be found", cfg.BinDir)))
			problems++
		} else {
			fmt.Println(validStyle.Render("✓ bin dir is on PATH"))
		}

		if problems > 0 {
			return fmt.Errorf("%d problem(s) found", problems)
		}
		return nil
	})
}
