package domain

import "time"

// NoAnswer is returned verbatim when no stored paragraph is close
// enough to the question to ground an answer.
const NoAnswer = "No se encontró una respuesta clara en los documentos."

// AskOptions configures a retrieval question.
type AskOptions struct {
	// Filter restricts which paragraphs are candidates for ranking.
	Filter ParagraphFilter

	// Threshold is the maximum cosine distance for a paragraph to be
	// considered relevant. Zero means use the configured default.
	Threshold float64

	// TopK caps how many ranked paragraphs are used as context.
	// Zero means use the configured default.
	TopK int
}

// Answer is the outcome of a retrieval question.
type Answer struct {
	// Text is the drafted answer, including the reference list. When
	// NoContext is true it is the NoAnswer sentinel.
	Text string

	// NoContext reports that no paragraph passed the relevance
	// threshold and the language model was not consulted.
	NoContext bool

	// Fragments are the ranked paragraphs used as context, in
	// ascending distance order.
	Fragments []RankedParagraph

	// Candidates is how many paragraphs were compared before the
	// threshold was applied.
	Candidates int

	// RankTime is how long embedding the question and ranking took.
	RankTime time.Duration

	// AnswerTime is how long the language model took to draft the
	// answer. Zero when NoContext is true.
	AnswerTime time.Duration
}
