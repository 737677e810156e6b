package driving

import (
	"context"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

// IngestService registers source documents and extracts their text.
type IngestService interface {
	// Ingest extracts the file at path, writes the text artifact to
	// the processed directory and records the document. When overwrite
	// is false an already ingested file returns
	// domain.ErrDuplicateDocument; when true the previous document and
	// its paragraphs are replaced.
	Ingest(ctx context.Context, path string, overwrite bool) (*domain.Document, error)
}
