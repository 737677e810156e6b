package domain

import "time"

// SegmentReport summarises one segmentation run over one document.
type SegmentReport struct {
	DocumentID   string
	DocumentName string
	Strategy     Strategy

	// Paragraphs is the number of paragraphs stored.
	Paragraphs int

	// MinLength, MaxLength and MeanLength describe the stored
	// paragraph lengths in runes. All zero when Paragraphs is zero.
	MinLength  int
	MaxLength  int
	MeanLength float64

	Elapsed time.Duration
}

// EmbedReport summarises one embedding pass over pending paragraphs.
type EmbedReport struct {
	// Pending is how many paragraphs lacked an embedding at the start
	// of the pass.
	Pending int

	// Embedded is how many were successfully embedded and stored.
	Embedded int

	// Failed is how many were skipped after an embedding error.
	Failed int

	Elapsed time.Duration
}
