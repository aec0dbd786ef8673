// internal/cli/root.go
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/robinvandernoord/uvx"
	"github.com/spf13/cobra"
)

// Version is the uvx release, overridden at link time
var Version = "0.1.0"

var (
	cfgFile   string
	debug     bool
	noSpinner bool
	config    *uvx.Config
	logger    *log.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "uvx",
	Short: "Install Python command-line tools in isolated environments",
	Long: `uvx - isolated installs of Python command-line tools

Every package lives in its own virtualenv managed by uv; its scripts are
symlinked into a shared bin directory (~/.local/bin by default).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/uvx/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noSpinner, "no-spinner", false, "disable progress spinners")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(reinstallCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(injectCmd)
	rootCmd.AddCommand(ejectCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(runuvCmd)
	rootCmd.AddCommand(runpipCmd)
	rootCmd.AddCommand(runpythonCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(installAllCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = uvx.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = uvx.DefaultConfig()
	}

	// Override config with flags
	if debug {
		config.Debug = true
	}
	if noSpinner {
		config.NoSpinner = true
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "uvx"})
	logger.SetLevel(log.WarnLevel)
	if config.Debug {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportTimestamp(true)
	}
}

// withManager opens a manager for the duration of fn
func withManager(fn func(m *uvx.Manager) error) error {
	m, err := uvx.NewManager(config, &uvx.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

// printMessage prints a non-empty success message
func printMessage(msg string) {
	if msg != "" {
		fmt.Println(msg)
	}
}
