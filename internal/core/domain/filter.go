package domain

// ParagraphFilter narrows the candidate set for retrieval.
// All fields are optional and combine conjunctively; zero values mean
// "no constraint" except Language, which callers normally default to "es".
type ParagraphFilter struct {
	// ExtractionMethod filters by the backend that extracted the text.
	ExtractionMethod string

	// ExtractionType filters by the generated artifact format.
	ExtractionType string

	// Strategy filters by segmentation strategy.
	Strategy Strategy

	// Language filters by detected language code.
	Language string

	// EmbeddingModel filters by the model that produced the embedding.
	// Vectors from different models are not comparable, so retrieval
	// always sets this.
	EmbeddingModel string

	// DocumentID restricts candidates to a single document.
	DocumentID string
}
