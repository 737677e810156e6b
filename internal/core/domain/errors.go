package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateDocument indicates a document with the same
	// (original name, original type, extraction method) already exists.
	// Re-ingesting requires explicit overwrite.
	ErrDuplicateDocument = errors.New("document already ingested with this extraction method")

	// ErrUnsupportedStrategy indicates an unknown segmentation strategy.
	ErrUnsupportedStrategy = errors.New("unsupported segmentation strategy")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Retrieval is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the answer generation service is not
	// configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
