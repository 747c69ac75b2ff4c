package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/agentscan/internal/config"
	"github.com/blackwell-systems/agentscan/internal/output"
	"github.com/blackwell-systems/agentscan/internal/scanner"
	"github.com/blackwell-systems/agentscan/internal/store"
)

var (
	historyList  bool
	historyLimit int
	historyShow  int64
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Record and review past scan summaries",
	Long: `History records the current scan into a local SQLite journal, or lists
previously recorded scans. The journal is a side record for later review;
live scans never read from it.

Examples:
  agentscan history                 # record one scan
  agentscan history --list
  agentscan history --list --limit 50
  agentscan history --show 12      # agents recorded in scan 12`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyList, "list", false, "List recorded scans")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of scans to list")
	historyCmd.Flags().Int64Var(&historyShow, "show", 0, "Show the agents recorded in the given scan ID")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor {
		output.SetNoColor(true)
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if historyShow > 0 {
		return showScan(db, historyShow)
	}
	if historyList {
		return listScans(db)
	}

	agents := scanner.New(cfg).Scan(cmd.Context())
	scanID, err := db.RecordScan(agents, cfg.ActiveCPU)
	if err != nil {
		return fmt.Errorf("recording scan: %w", err)
	}
	fmt.Printf("Recorded scan %d (%d agents)\n", scanID, len(agents))
	return nil
}

func listScans(db *store.DB) error {
	scans, err := db.ListScans(historyLimit)
	if err != nil {
		return fmt.Errorf("listing scans: %w", err)
	}

	if flagJSON {
		return printJSON(scans)
	}

	if len(scans) == 0 {
		fmt.Println("No scans recorded yet. Run 'agentscan history' to record one.")
		return nil
	}

	fmt.Println(output.Section("Scan History"))
	fmt.Println()

	tbl := output.NewTable("ID", "TAKEN AT", "AGENTS", "ACTIVE")
	for _, s := range scans {
		tbl.AddRow(
			fmt.Sprintf("%d", s.ID),
			s.TakenAt.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", s.AgentCount),
			fmt.Sprintf("%d", s.ActiveCount),
		)
	}
	tbl.Print()
	return nil
}

func showScan(db *store.DB, scanID int64) error {
	rows, err := db.ScanAgents(scanID)
	if err != nil {
		return fmt.Errorf("loading scan %d: %w", scanID, err)
	}

	if flagJSON {
		return printJSON(rows)
	}

	if len(rows) == 0 {
		fmt.Printf("No agents recorded for scan %d.\n", scanID)
		return nil
	}

	tbl := output.NewTable("PID", "PROJECT", "ACTIVITY", "CPU%", "MEM", "TASK")
	for _, r := range rows {
		tbl.AddRow(
			fmt.Sprintf("%d", r.PID),
			r.Project,
			r.Activity,
			fmt.Sprintf("%.1f", r.CPUPercent),
			formatMemory(r.MemoryKB),
			shorten(r.Task, 60),
		)
	}
	tbl.Print()
	return nil
}
