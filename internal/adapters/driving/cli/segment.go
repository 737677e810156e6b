package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

var segmentStrategy string

var segmentCmd = &cobra.Command{
	Use:   "segment [document-id]",
	Short: "Split extracted documents into paragraphs",
	Long: `Segments the extracted text into stored paragraphs using the given
strategy (breaks, length or title). With a document id only that document
is segmented; without one every ingested document is.
Re-running a strategy replaces its previous paragraphs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSegment,
}

func init() {
	segmentCmd.Flags().StringVarP(&segmentStrategy, "strategy", "s", string(domain.StrategyBreaks), "segmentation strategy (breaks, length, title)")
	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if segmentService == nil {
		return errors.New("segment service not configured")
	}

	strategy, err := domain.ParseStrategy(segmentStrategy)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if len(args) == 1 {
		report, err := segmentService.SegmentDocument(ctx, args[0], strategy)
		if err != nil {
			return fmt.Errorf("segmentation failed: %w", err)
		}
		printSegmentReport(cmd, report)
		return nil
	}

	reports, err := segmentService.SegmentAll(ctx, strategy)
	if err != nil {
		return fmt.Errorf("segmentation failed: %w", err)
	}
	if len(reports) == 0 {
		cmd.Println("No documents to segment.")
		return nil
	}
	for i := range reports {
		printSegmentReport(cmd, &reports[i])
	}
	return nil
}

func printSegmentReport(cmd *cobra.Command, r *domain.SegmentReport) {
	cmd.Printf("%s [%s]: %d paragraphs", r.DocumentName, r.Strategy, r.Paragraphs)
	if r.Paragraphs > 0 {
		cmd.Printf(" (length %d-%d, mean %.0f)", r.MinLength, r.MaxLength, r.MeanLength)
	}
	cmd.Println()
}
