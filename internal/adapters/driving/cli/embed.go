package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed paragraphs that have no vector yet",
	Long: `Computes an embedding for every stored paragraph without one and
records the model that produced it. Paragraphs that fail to embed are
skipped and picked up by the next run.`,
	Args: cobra.NoArgs,
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if embedService == nil {
		return errors.New("embed service not configured")
	}

	report, err := embedService.EmbedPending(context.Background())
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}

	if report.Pending == 0 {
		cmd.Println("Nothing to embed.")
		return nil
	}
	cmd.Printf("Embedded %d of %d paragraphs", report.Embedded, report.Pending)
	if report.Failed > 0 {
		cmd.Printf(" (%d failed)", report.Failed)
	}
	cmd.Printf(" in %s\n", report.Elapsed.Round(10*time.Millisecond))
	return nil
}
