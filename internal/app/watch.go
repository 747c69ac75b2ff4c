package app

import (
	"context"
	"fmt"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/agentscan/internal/config"
	"github.com/blackwell-systems/agentscan/internal/output"
	"github.com/blackwell-systems/agentscan/internal/scanner"
	"github.com/blackwell-systems/agentscan/internal/watcher"
)

var (
	watchInterval string
	watchNotify   bool
	watchQuiet    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll continuously and alert on changes",
	Long: `Watch re-scans at a fixed interval and reports the differences:
agents starting or exiting, activity transitions, and sustained high CPU.

Examples:
  agentscan watch                   # check every 30s (ctrl-c to stop)
  agentscan watch --interval 10s
  agentscan watch --notify          # also send desktop notifications`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchInterval, "interval", "30s", "Check interval as duration string (e.g. 10s, 2m)")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "Send desktop notifications for alerts")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output, only send notifications")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor {
		output.SetNoColor(true)
	}

	interval, err := time.ParseDuration(watchInterval)
	if err != nil {
		return fmt.Errorf("invalid interval %q: %w", watchInterval, err)
	}
	if interval < 5*time.Second {
		return fmt.Errorf("interval must be at least 5s, got %s", interval)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
	defer stop()

	alertFn := func(a watcher.Alert) {
		if watchNotify {
			_ = watcher.Notify(a)
		}
		if !watchQuiet {
			printAlert(a)
		}
	}

	w := watcher.New(scanner.New(cfg), interval, alertFn)

	if !watchQuiet {
		fmt.Printf("agentscan watching... (checking every %s)\n", interval)
	}

	err = w.Run(ctx)
	if err == context.Canceled {
		if !watchQuiet {
			fmt.Println("\nStopped.")
		}
		return nil
	}
	return err
}

// printAlert renders one alert line with a level-appropriate style.
func printAlert(a watcher.Alert) {
	label := a.Level
	switch a.Level {
	case "warning":
		label = output.StyleWarning.Render(a.Level)
	case "info":
		label = output.StyleMuted.Render(a.Level)
	}
	fmt.Printf("[%s] %s %s: %s\n", a.Time.Format("15:04:05"), label, output.StyleBold.Render(a.Title), a.Message)
}
