package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/viekt/finam-news-llm-analysis/internal/scheduler"
	"github.com/viekt/finam-news-llm-analysis/internal/scheduler/jobs"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the background job scheduler",
	Long: `Runs scheduled maintenance jobs:
  collect_bars - nightly candle collection after the evening session

Example:
  go run ./cmd/backtest scheduler
  go run ./cmd/backtest scheduler --workers 8`,
	RunE: runScheduler,
}

var schedulerWorkers int

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().IntVar(&schedulerWorkers, "workers", 4, "collection workers")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	sched := scheduler.New(d.log)

	collectJob := jobs.NewCollectBarsJob(initCollector(d), d.log, schedulerWorkers, 7*24*time.Hour)
	if err := sched.AddJob(collectJob); err != nil {
		return err
	}

	sched.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
