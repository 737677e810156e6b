package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/watcher"
)

var watchStrategy string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the input directory and process new documents",
	Long: `Runs the full pipeline over the files already in the input
directory, then keeps watching it: every new file is ingested, segmented
and embedded as it appears. Stops on interrupt.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchStrategy, "strategy", "s", string(domain.StrategyBreaks), "segmentation strategy (breaks, length, title)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if ingestService == nil || segmentService == nil || embedService == nil {
		return errors.New("pipeline services not configured")
	}
	if appConfig == nil {
		return errors.New("configuration not loaded")
	}

	strategy, err := domain.ParseStrategy(watchStrategy)
	if err != nil {
		return err
	}

	dir := appConfig.Paths.InputDir
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating input directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (interrupt to stop)\n", dir)
	w := watcher.New(ingestService, segmentService, embedService, dir, strategy)
	return w.Run(ctx)
}
