package driving

import (
	"context"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

// EmbedService computes vectors for stored paragraphs.
type EmbedService interface {
	// EmbedPending embeds every paragraph that has no vector yet.
	// Per-paragraph failures are counted but do not stop the pass.
	EmbedPending(ctx context.Context) (*domain.EmbedReport, error)
}
