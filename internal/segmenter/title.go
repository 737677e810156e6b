package segmenter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMinTitleLength is the minimum line length to qualify as a title.
const DefaultMinTitleLength = 5

// Heading grammars. A heading is an index token followed by whitespace and
// a capitalised word, with no colon in the remainder of the line.
var (
	numericHeading = regexp.MustCompile(`^\d+(\.\d+)*\s+[A-Z][^:\n]*$`)
	letterHeading  = regexp.MustCompile(`^[A-Za-z]\s+[A-Z][^:\n]*$`)
	romanHeading   = regexp.MustCompile(`^([IVXLCDMivxlcdm]+)\s+[A-Z][^:\n]*$`)
	allCapsHeading = regexp.MustCompile(`^[A-ZÁÉÍÓÚÜÑ\s]+$`)

	// romanNumeral validates that a roman token is a well-formed numeral,
	// rejecting letter runs like "MIMI" that the character class admits.
	romanNumeral = regexp.MustCompile(`(?i)^M{0,4}(CM|CD|D?C{0,3})(XC|XL|L?X{0,3})(IX|IV|V?I{0,3})$`)
)

// TitleDetector classifies single lines of text as headings.
type TitleDetector struct {
	minLength int
}

// TitleOption configures the title detector.
type TitleOption func(*TitleDetector)

// WithMinTitleLength sets the minimum line length for a title.
func WithMinTitleLength(n int) TitleOption {
	return func(d *TitleDetector) {
		if n > 0 {
			d.minLength = n
		}
	}
}

// NewTitleDetector creates a title detector with the given options.
func NewTitleDetector(opts ...TitleOption) *TitleDetector {
	d := &TitleDetector{minLength: DefaultMinTitleLength}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// IsTitle reports whether the line is a heading. Rules are evaluated in
// order and the first match wins; lines shorter than the minimum length
// are never titles, and lines whose first token is "ISO" are excluded so
// standard references ("ISO 27001") are not misread as lettered headings.
func (d *TitleDetector) IsTitle(line string) bool {
	line = strings.TrimSpace(line)
	if utf8.RuneCountInString(line) < d.minLength {
		return false
	}

	if first, _, _ := strings.Cut(line, " "); first == "ISO" {
		return false
	}

	if numericHeading.MatchString(line) {
		return true
	}
	if letterHeading.MatchString(line) {
		return true
	}
	if m := romanHeading.FindStringSubmatch(line); m != nil {
		if romanNumeral.MatchString(m[1]) {
			return true
		}
	}
	if allCapsHeading.MatchString(line) && containsUpper(line) {
		return true
	}

	return false
}

// ExtractTitles returns every line of the text that qualifies as a title,
// trimmed, in source order.
func (d *TitleDetector) ExtractTitles(text string) []string {
	var titles []string
	for _, line := range strings.Split(text, "\n") {
		if d.IsTitle(line) {
			titles = append(titles, strings.TrimSpace(line))
		}
	}
	return titles
}

func containsUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
