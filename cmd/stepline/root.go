package main

import (
	"github.com/spf13/cobra"

	"stepline/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// cfg is the configuration of the running command, loaded before any
// subcommand runs.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "stepline",
	Short: "Linearize process-model exports into ordered test steps",
	Long: "stepline reads the flattened row export of a business-process model,\n" +
		"rebuilds the process graph, repairs missing edges through rule nodes\n" +
		"and prints one ordered sequence of application steps.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Path to config file (YAML, TOML or JSON)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "", "Log format: text or json (overrides config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version
}
