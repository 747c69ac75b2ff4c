package app

import (
	"context"
	"fmt"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/agentscan/internal/config"
	"github.com/blackwell-systems/agentscan/internal/scanner"
	"github.com/blackwell-systems/agentscan/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose snapshots over a read-only HTTP API",
	Long: `Serve hosts two read-only endpoints for dashboards and pollers:

  GET /api/external-agents          Full snapshot of running agents
  GET /api/external-agents/summary  Lightweight count/active view

Every request triggers a fresh scan; nothing is cached between requests.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, "+config.DefaultServeAddr+")")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr := cfg.ServeAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
	defer stop()

	srv := server.New(scanner.New(cfg))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(addr)
	}()

	fmt.Printf("agentscan serving on http://%s\n", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	fmt.Println("\nStopped.")
	return nil
}
