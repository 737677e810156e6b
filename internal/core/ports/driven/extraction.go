package driven

import "context"

// Extraction is the content recovered from one source document.
type Extraction struct {
	// Content is the recovered text. For ContentType "html" it is the
	// raw markup and still needs block extraction before segmentation.
	Content string

	// ContentType is "text" or "html".
	ContentType string
}

// ExtractionService recovers textual content from source documents.
//
// Implementations may include:
//   - Apache Tika server (PDF, DOCX, ODT, HTML)
//   - Plain file readers for already-textual sources
type ExtractionService interface {
	// Extract recovers the content of the file at path.
	Extract(ctx context.Context, path string) (*Extraction, error)

	// Method identifies the extraction backend (e.g. "tika"). It is
	// recorded on documents and paragraphs so results from different
	// backends can coexist and be filtered apart.
	Method() string

	// Ping validates the backend is reachable with a lightweight request.
	Ping(ctx context.Context) error
}
