package driving

import (
	"context"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

// AskService answers questions from the stored paragraphs.
type AskService interface {
	// Ask embeds the question, ranks the stored paragraphs by cosine
	// distance and drafts an answer grounded on the closest ones.
	Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error)
}
