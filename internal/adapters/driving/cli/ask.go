package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

var (
	askThreshold float64
	askTopK      int
	askLanguage  string
	askStrategy  string
	askDocument  string
	askJSON      bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the ingested documents",
	Long: `Embeds the question, ranks the stored paragraphs by cosine distance
and drafts an answer over the closest ones. When no paragraph passes
the relevance threshold, no answer is drafted.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Float64Var(&askThreshold, "threshold", 0, "maximum cosine distance (0 = configured default)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "paragraphs used as context (0 = configured default)")
	askCmd.Flags().StringVarP(&askLanguage, "language", "l", "", "restrict to paragraphs in this language")
	askCmd.Flags().StringVarP(&askStrategy, "strategy", "s", "", "restrict to one segmentation strategy")
	askCmd.Flags().StringVar(&askDocument, "document", "", "restrict to one document id")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the full answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if askService == nil {
		return errors.New("ask service not configured")
	}

	opts := domain.AskOptions{
		Threshold: askThreshold,
		TopK:      askTopK,
		Filter: domain.ParagraphFilter{
			Language:   askLanguage,
			DocumentID: askDocument,
		},
	}
	if askStrategy != "" {
		strategy, err := domain.ParseStrategy(askStrategy)
		if err != nil {
			return err
		}
		opts.Filter.Strategy = strategy
	}

	answer, err := askService.Ask(context.Background(), args[0], opts)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	return nil
}
