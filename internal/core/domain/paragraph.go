package domain

// Paragraph is one segmented unit of text belonging to a Document.
// Paragraphs are created in bulk by one segmentation run and are the
// atomic unit of retrieval.
type Paragraph struct {
	// ID is the unique identifier for the paragraph row.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Ordinal is the 1-based position within (document, strategy).
	// It is assigned sequentially by the segmentation run and never
	// reassigned.
	Ordinal int

	// Text is the raw paragraph text.
	Text string

	// Length is the character length of Text.
	Length int

	// Language is the detected language code, or "unknown".
	Language string

	// Titles lists heading lines detected inside the paragraph.
	Titles []string

	// Strategy identifies the segmentation algorithm that produced it.
	Strategy Strategy

	// ExtractionMethod and ExtractionType are denormalised from the
	// owning Document so retrieval can filter without a join.
	ExtractionMethod string
	ExtractionType   string

	// Embedding is the vector representation, nil until the embedding
	// pass runs. Embedding and EmbeddingModel are set together: both
	// nil/empty or both populated, never one without the other.
	Embedding []float32

	// EmbeddingModel identifies the model that produced Embedding.
	EmbeddingModel string
}

// HasEmbedding reports whether the embedding pass has run for this
// paragraph.
func (p *Paragraph) HasEmbedding() bool {
	return len(p.Embedding) > 0 && p.EmbeddingModel != ""
}

// QueryHit is a paragraph joined with its owning document's name,
// as returned by the retrieval query surface.
type QueryHit struct {
	Paragraph

	// DocumentName is the original file name of the owning document.
	DocumentName string
}

// RankedParagraph is one retrieval result: a paragraph that survived
// threshold filtering, with its cosine distance to the query.
type RankedParagraph struct {
	// DocumentName is the original file name of the owning document.
	DocumentName string

	// Distance is the cosine distance to the query (lower is closer).
	Distance float64

	// Paragraph is the matched paragraph.
	Paragraph Paragraph
}
