package driving

import (
	"context"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

// SegmentService splits extracted documents into stored paragraphs.
type SegmentService interface {
	// SegmentDocument re-segments one document with the given strategy,
	// replacing any paragraphs previously produced by that strategy.
	SegmentDocument(ctx context.Context, documentID string, strategy domain.Strategy) (*domain.SegmentReport, error)

	// SegmentAll segments every ingested document with the given
	// strategy. Per-document failures are reported but do not stop
	// the run.
	SegmentAll(ctx context.Context, strategy domain.Strategy) ([]domain.SegmentReport, error)
}
