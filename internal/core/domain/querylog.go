package domain

import "time"

// QueryLog records one answered question: the configuration used, the
// outcome, and timing. Rows are immutable once written.
type QueryLog struct {
	// ID is the unique identifier for the query.
	ID string

	// Question is the user's question text.
	Question string

	// EmbeddingModel is the model used to embed the question.
	EmbeddingModel string

	// AnswerModel is the generative model that produced the answer.
	AnswerModel string

	// Answer is the generated answer text (or the no-answer sentinel).
	Answer string

	// Threshold is the relevance threshold applied.
	Threshold float64

	// TopK is the requested maximum number of fragments.
	TopK int

	// Candidates is the number of paragraphs considered before ranking.
	Candidates int

	// RankTime is the time spent computing and sorting distances.
	RankTime time.Duration

	// AnswerTime is the time spent in answer generation.
	AnswerTime time.Duration

	// Filter is the paragraph filter that selected the candidates.
	Filter ParagraphFilter

	// AskedAt is when the query was executed.
	AskedAt time.Time
}

// FragmentUsed records one paragraph included in the answer context.
// Fragments are written together with their parent QueryLog.
type FragmentUsed struct {
	// QueryID links to the parent QueryLog.
	QueryID string

	// DocumentID is the owning document of the paragraph.
	DocumentID string

	// Ordinal is the paragraph's position within its document.
	Ordinal int

	// Distance is the cosine distance recorded at ranking time.
	Distance float64
}
