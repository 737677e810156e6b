package domain

import "fmt"

// Strategy identifies a paragraph segmentation algorithm.
type Strategy string

const (
	// StrategyBreaks splits on blank lines and sentence-final newlines
	// followed by an uppercase letter.
	StrategyBreaks Strategy = "breaks"

	// StrategyLength accumulates break fragments into paragraphs up to a
	// length threshold.
	StrategyLength Strategy = "length"

	// StrategyTitle opens a new segment at every detected heading line.
	StrategyTitle Strategy = "title"
)

// Strategies lists all supported segmentation strategies.
func Strategies() []Strategy {
	return []Strategy{StrategyBreaks, StrategyLength, StrategyTitle}
}

// ParseStrategy converts a string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyBreaks, StrategyLength, StrategyTitle:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedStrategy, s)
	}
}

// String returns the strategy identifier.
func (s Strategy) String() string {
	return string(s)
}
