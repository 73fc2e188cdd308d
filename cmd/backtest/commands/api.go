package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/viekt/finam-news-llm-analysis/internal/api"
	"github.com/viekt/finam-news-llm-analysis/internal/api/handlers"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /health                   - Health check
  POST /api/backtest/run         - Run one strategy backtest
  POST /api/backtest/benchmark   - Random-strategy baseline
  GET  /api/backtest/compare     - Strategy comparison
  GET  /api/backtest/regression  - Direction-free event returns
  POST /api/data/collect         - Trigger candle collection

Example:
  go run ./cmd/backtest api
  go run ./cmd/backtest api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	backtestHandler := handlers.NewBacktestHandler(d.runner, d.log)
	dataHandler := handlers.NewDataHandler(initCollector(d), d.log)

	router := api.NewRouter(backtestHandler, dataHandler, d.log)
	server := api.New(d.cfg, d.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		d.log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
