// Package app contains the Cobra command tree for agentscan.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "agentscan",
	Short: "Discover and classify running AI agent sessions on this host",
	Long: `agentscan finds agent CLI processes in the host process table, maps each
to its working directory and on-disk conversation log, and classifies what
every session is currently doing (idle, thinking, tool-use).

Run 'agentscan scan' for a one-shot snapshot.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("agentscan", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  scan      Take a one-shot snapshot of running agents")
		fmt.Println("  serve     Expose snapshots over a read-only HTTP API")
		fmt.Println("  watch     Poll continuously and alert on changes")
		fmt.Println("  history   Record and review past scan summaries")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/agentscan/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
}
