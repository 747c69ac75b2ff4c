package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/agentscan/internal/config"
	"github.com/blackwell-systems/agentscan/internal/output"
	"github.com/blackwell-systems/agentscan/internal/scanner"
)

var scanFlagSummary bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Take a one-shot snapshot of running agents",
	Long: `Scan enumerates agent CLI processes, resolves each one's working
directory, finds its latest conversation log, and reports what every
session was asked to do and what it is doing right now. Results are
ordered by CPU usage, most active first.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanFlagSummary, "summary", false, "Print the lightweight summary view instead of the full snapshot")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor {
		output.SetNoColor(true)
	}

	sc := scanner.New(cfg)

	if scanFlagSummary {
		summary := sc.Summarize(cmd.Context())
		if flagJSON {
			return printJSON(summary)
		}
		fmt.Printf("%d agents, %d active\n", summary.Count, summary.Active)
		for _, a := range summary.Agents {
			fmt.Printf("  %-6d %-20s %-10s %5.1f%%\n", a.PID, a.Project, a.Activity, a.CPUPercent)
		}
		return nil
	}

	agents := sc.Scan(cmd.Context())

	if flagJSON {
		if agents == nil {
			agents = []scanner.Agent{}
		}
		return printJSON(struct {
			Agents []scanner.Agent `json:"agents"`
		}{agents})
	}

	if len(agents) == 0 {
		fmt.Println("No agent processes found.")
		return nil
	}

	fmt.Println(output.Section("External Agents"))
	fmt.Println()

	tbl := output.NewTable("PID", "PROJECT", "ACTIVITY", "TOOL", "CPU%", "MEM", "TASK")
	for _, a := range agents {
		tbl.AddRow(
			fmt.Sprintf("%d", a.PID),
			a.Project,
			output.Activity(a.Activity),
			a.CurrentTool,
			fmt.Sprintf("%.1f", a.CPUPercent),
			formatMemory(a.MemoryKB),
			shorten(a.Task, 60),
		)
	}
	tbl.Print()

	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatMemory renders a KB gauge with a human-readable unit.
func formatMemory(kb int64) string {
	if kb >= 1024*1024 {
		return fmt.Sprintf("%.1fG", float64(kb)/(1024*1024))
	}
	if kb >= 1024 {
		return fmt.Sprintf("%.0fM", float64(kb)/1024)
	}
	return fmt.Sprintf("%dK", kb)
}

// shorten caps a string for single-line table display.
func shorten(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
