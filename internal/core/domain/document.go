package domain

import "time"

// Document represents one ingested source file.
// A source file may be ingested more than once with different extraction
// methods; each (OriginalName, OriginalType, ExtractionMethod) combination
// is a distinct Document and must be unique.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// OriginalName is the file name of the ingested source.
	OriginalName string

	// OriginalType is the source file extension (e.g. ".pdf", ".docx").
	OriginalType string

	// ExtractionMethod identifies the backend that produced the text
	// (e.g. "tika", "tika-html").
	ExtractionMethod string

	// GeneratedFile is the name of the artifact written after extraction.
	GeneratedFile string

	// GeneratedType is the artifact format (".txt" or ".html").
	GeneratedType string

	// ExtractionTime is how long extraction took.
	ExtractionTime time.Duration

	// ExtractedAt is when extraction completed.
	ExtractedAt time.Time

	// Notes holds free-text observations about the extraction.
	Notes string
}

// Key returns the uniqueness tuple for the document.
func (d *Document) Key() DocumentKey {
	return DocumentKey{
		OriginalName:     d.OriginalName,
		OriginalType:     d.OriginalType,
		ExtractionMethod: d.ExtractionMethod,
	}
}

// DocumentKey is the natural key of a Document. Re-ingesting a source with
// the same extraction method requires explicit overwrite.
type DocumentKey struct {
	OriginalName     string
	OriginalType     string
	ExtractionMethod string
}
