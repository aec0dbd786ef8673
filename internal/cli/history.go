// internal/cli/history.go
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/robinvandernoord/uvx"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [package]",
	Short: "Show past install, upgrade and uninstall operations",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	return withManager(func(m *uvx.Manager) error {
		events, err := m.History(ctx, name, historyLimit)
		if err != nil {
			return err
		}
		renderHistory(os.Stdout, events)
		return nil
	})
}

func renderHistory(w io.Writer, events []*uvx.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No history yet.")
		return
	}
	for _, ev := range events {
		line := fmt.Sprintf("%s  %-9s %s", ev.At.Local().Format(time.DateTime), ev.Op, ev.Name)
		if ev.Version != "" {
			line += " (" + ev.Version + ")"
		}
		if ev.Detail != "" && ev.Detail != ev.Name {
			line += "  " + ev.Detail
		}
		fmt.Fprintln(w, line)
	}
}
