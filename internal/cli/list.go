// internal/cli/list.go
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/robinvandernoord/uvx"
	"github.com/spf13/cobra"
)

var (
	listShort   bool
	listVerbose bool
	listJSON    bool
)

var (
	validStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

const tab = "   "

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed packages",
	Long: `List packages installed with uvx, with their version, interpreter and
scripts. Scripts whose symlink is missing or points elsewhere are shown in red.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listShort, "short", false, "only print name and version")
	listCmd.Flags().BoolVar(&listVerbose, "verbose", false, "print every stored field")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")
	listCmd.MarkFlagsMutuallyExclusive("short", "verbose", "json")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	return withManager(func(m *uvx.Manager) error {
		entries, err := m.List(ctx)
		if err != nil {
			return err
		}

		switch {
		case listJSON:
			return renderJSON(os.Stdout, entries)
		case listShort:
			renderShort(os.Stdout, entries)
		default:
			renderNormal(os.Stdout, entries, listVerbose)
		}
		return nil
	})
}

func renderShort(w io.Writer, entries []uvx.Entry) {
	for _, e := range entries {
		version := invalidStyle.Render("?")
		if rec, ok := e.Record.Get(); ok {
			version = rec.InstalledVersion
		}
		fmt.Fprintln(w, "-", e.Name, version)
	}
}

func renderNormal(w io.Writer, entries []uvx.Entry, verbose bool) {
	for _, e := range entries {
		rec, ok := e.Record.Get()
		if !ok {
			fmt.Fprintln(w, "-", e.Name)
			if e.Err != nil {
				fmt.Fprintln(w, tab, invalidStyle.Render("Unreadable metadata: "+e.Err.Error()))
			} else {
				fmt.Fprintln(w, tab, invalidStyle.Render("Missing metadata"))
			}
			continue
		}

		name := e.Name
		if len(rec.Extras) > 0 {
			name += "[" + strings.Join(rec.Extras.Sorted(), ",") + "]"
		}
		fmt.Fprintln(w, "-", name)

		if verbose {
			fmt.Fprintln(w, tab, "Install spec:", rec.InstallSpec)
			fmt.Fprintln(w, tab, "Requested version:", rec.Pin())
			fmt.Fprintln(w, tab, "Installed version:", rec.InstalledVersion)
			fmt.Fprintln(w, tab, "Python:", rec.Python, "("+rec.PythonRaw+")")
			fmt.Fprintln(w, tab, "Injected:", strings.Join(rec.Injected.Sorted(), ", "))
		} else {
			fmt.Fprintf(w, "%s Installed Version: %s on %s.\n", tab, rec.InstalledVersion, rec.Python)
		}
		fmt.Fprintln(w, tab, "Scripts:", formatScripts(rec.Scripts))
	}
}

// formatScripts renders valid scripts green and invalid ones red
func formatScripts(scripts map[string]bool) string {
	names := make([]string, 0, len(scripts))
	for name := range scripts {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		if scripts[name] {
			parts = append(parts, validStyle.Render(name))
		} else {
			parts = append(parts, invalidStyle.Render(name))
		}
	}
	return strings.Join(parts, ", ")
}

// renderJSON prints {name: record}; a venv without readable metadata maps to {}
func renderJSON(w io.Writer, entries []uvx.Entry) error {
	out := make(map[string]map[string]any, len(entries))
	for _, e := range entries {
		if rec, ok := e.Record.Get(); ok {
			out[e.Name] = rec.ToMap()
		} else {
			out[e.Name] = map[string]any{}
		}
	}

	enc := json.NewEncoder(w)
	return enc.Encode(out)
}
