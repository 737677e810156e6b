package segmenter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

// Default thresholds, in characters (runes).
const (
	// DefaultMinFragmentLength rejects short fragments in the break
	// strategy.
	DefaultMinFragmentLength = 30

	// DefaultLengthThreshold is the target paragraph size for the
	// length strategy.
	DefaultLengthThreshold = 400

	// DefaultMinParagraphLength rejects short paragraphs in the length
	// strategy.
	DefaultMinParagraphLength = 100
)

var (
	newlineRuns    = regexp.MustCompile(`\n[ \t]*\n[\s]*`)
	paragraphBreak = regexp.MustCompile(`\n\n`)
)

// Segmenter splits document text into ordered paragraphs using one of the
// supported strategies.
type Segmenter struct {
	minFragment  int
	threshold    int
	minParagraph int
	titles       *TitleDetector
}

// Option configures the segmenter.
type Option func(*Segmenter)

// WithMinFragmentLength sets the break strategy's minimum fragment length.
func WithMinFragmentLength(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.minFragment = n
		}
	}
}

// WithLengthThreshold sets the length strategy's accumulation threshold.
func WithLengthThreshold(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.threshold = n
		}
	}
}

// WithMinParagraphLength sets the length strategy's minimum paragraph length.
func WithMinParagraphLength(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.minParagraph = n
		}
	}
}

// WithTitleDetector sets the title detector for the title strategy.
func WithTitleDetector(d *TitleDetector) Option {
	return func(s *Segmenter) {
		if d != nil {
			s.titles = d
		}
	}
}

// New creates a segmenter with the given options.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{
		minFragment:  DefaultMinFragmentLength,
		threshold:    DefaultLengthThreshold,
		minParagraph: DefaultMinParagraphLength,
		titles:       NewTitleDetector(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Titles returns the detector used by the title strategy.
func (s *Segmenter) Titles() *TitleDetector {
	return s.titles
}

// Segment splits text into ordered paragraphs using the given strategy.
// Empty or whitespace-only text yields no paragraphs and no error.
func (s *Segmenter) Segment(text string, strategy domain.Strategy) ([]string, error) {
	text = normalise(text)
	if text == "" {
		return nil, nil
	}

	switch strategy {
	case domain.StrategyBreaks:
		return s.segmentByBreaks(text), nil
	case domain.StrategyLength:
		return s.segmentByLength(text), nil
	case domain.StrategyTitle:
		return s.segmentByTitle(text), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedStrategy, strategy)
	}
}

// normalise collapses runs of two or more newlines into exactly one
// paragraph break so that vertical whitespace does not multiply
// boundaries.
func normalise(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// segmentByBreaks splits on paragraph breaks and on sentence-final
// newlines followed by an uppercase letter, rejecting short fragments.
func (s *Segmenter) segmentByBreaks(text string) []string {
	var paragraphs []string
	for _, frag := range splitFragments(text) {
		if utf8.RuneCountInString(frag) >= s.minFragment {
			paragraphs = append(paragraphs, frag)
		}
	}
	return paragraphs
}

// segmentByLength accumulates raw fragments into a buffer until appending
// the next one would reach the threshold, then closes the buffer as one
// paragraph. Paragraphs shorter than the minimum are dropped.
func (s *Segmenter) segmentByLength(text string) []string {
	fragments := splitFragments(text)

	var merged []string
	var buf strings.Builder
	for _, frag := range fragments {
		if buf.Len() == 0 {
			buf.WriteString(frag)
			continue
		}
		if utf8.RuneCountInString(buf.String())+utf8.RuneCountInString(frag) < s.threshold {
			buf.WriteString(" ")
			buf.WriteString(frag)
			continue
		}
		merged = append(merged, buf.String())
		buf.Reset()
		buf.WriteString(frag)
	}
	if buf.Len() > 0 {
		merged = append(merged, buf.String())
	}

	var paragraphs []string
	for _, p := range merged {
		if utf8.RuneCountInString(p) >= s.minParagraph {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// segmentByTitle scans line by line, closing the current segment whenever
// a heading is detected. Each segment is emitted as the title line
// followed by its content; content before the first heading is emitted
// without a title.
func (s *Segmenter) segmentByTitle(text string) []string {
	var segments []string
	var title string
	var content []string

	emit := func() {
		if len(content) == 0 {
			return
		}
		body := strings.Join(content, " ")
		if title == "" {
			segments = append(segments, body)
			return
		}
		segments = append(segments, title+"\n"+body)
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if s.titles.IsTitle(line) {
			emit()
			title = line
			content = content[:0]
			continue
		}
		content = append(content, line)
	}
	emit()

	return segments
}

// splitFragments splits normalised text on paragraph breaks and on a
// period immediately followed by a newline and an uppercase letter.
// Fragments are trimmed; empty fragments are discarded.
func splitFragments(text string) []string {
	var fragments []string
	for _, block := range paragraphBreak.Split(text, -1) {
		for _, frag := range splitSentenceBreaks(block) {
			if frag = strings.TrimSpace(frag); frag != "" {
				fragments = append(fragments, frag)
			}
		}
	}
	return fragments
}

// splitSentenceBreaks splits a block wherever a period is immediately
// followed by a newline and an uppercase letter. The separating newline
// is consumed by the split.
func splitSentenceBreaks(block string) []string {
	var parts []string
	var cur strings.Builder

	runes := []rune(block)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' && i > 0 && runes[i-1] == '.' && i+1 < len(runes) && unicode.IsUpper(runes[i+1]) {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}

	return parts
}
