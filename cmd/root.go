package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is reported by --version.
var Version = "dev"

// Global flags shared by every command.
var (
	jsonOutput  bool
	queryFlag   string
	verboseFlag bool
	configFlag  string
)

var rootCmd = &cobra.Command{
	Use:     "snfs",
	Short:   "SNFS stock portfolio CLI",
	Long:    `A CLI for the SNFS social stock portfolio service: portfolios, trades, stock lists, reviews and friends.`,
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&queryFlag, "query", "", "Filter JSON output with a JSONPath expression (e.g. '$[*].Symbol')")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log requests to stderr")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default is $XDG_CONFIG_HOME/snfs/config.yaml)")
}

// SetVersion overrides the version reported by --version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	Version = v
	rootCmd.Version = v
}

// GetJSONMode returns whether JSON output mode is enabled.
func GetJSONMode() bool {
	return jsonOutput
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
