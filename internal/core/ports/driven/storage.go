package driven

import (
	"context"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

// DocumentStore persists ingested documents.
// Backed by SQLite for metadata storage.
type DocumentStore interface {
	// SaveDocument stores a document. Saving a document whose
	// (OriginalName, OriginalType, ExtractionMethod) key already
	// exists returns domain.ErrDuplicateDocument.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound when no document has that ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// FindDocument retrieves a document by its natural key.
	// Returns domain.ErrNotFound when no document matches.
	FindDocument(ctx context.Context, key domain.DocumentKey) (*domain.Document, error)

	// DeleteDocument removes a document and all its paragraphs.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all documents ordered by extraction time.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}

// ParagraphStore persists paragraphs and their embeddings.
type ParagraphStore interface {
	// SaveParagraphs stores paragraphs for a document.
	SaveParagraphs(ctx context.Context, paragraphs []domain.Paragraph) error

	// DeleteParagraphs removes all paragraphs produced for a document
	// by the given strategy, so a run can be repeated cleanly.
	DeleteParagraphs(ctx context.Context, documentID string, strategy domain.Strategy) error

	// WithoutEmbedding returns paragraphs that have no stored vector,
	// in insertion order.
	WithoutEmbedding(ctx context.Context) ([]domain.Paragraph, error)

	// SetEmbedding stores a vector and the model that produced it for
	// one paragraph. Vector and model are always written together.
	SetEmbedding(ctx context.Context, id string, vector []float32, model string) error

	// Query returns embedded paragraphs matching the filter, joined
	// with their document name. Paragraphs without an embedding are
	// never returned.
	Query(ctx context.Context, filter domain.ParagraphFilter) ([]domain.QueryHit, error)
}

// QueryLogStore persists the audit trail of questions and answers.
type QueryLogStore interface {
	// SaveQueryLog stores a query log together with the fragments that
	// grounded the answer. The write is atomic.
	SaveQueryLog(ctx context.Context, log *domain.QueryLog, fragments []domain.FragmentUsed) error
}
