// Package langdetect assigns a best-effort language code to paragraph
// text. Detection is deterministic: the same text always yields the same
// code, and any failure yields the "unknown" sentinel rather than an
// error.
package langdetect

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Unknown is returned when the language cannot be determined.
const Unknown = "unknown"

// Detector tags text with an ISO 639-1 language code.
type Detector struct{}

// New creates a language detector.
func New() *Detector {
	return &Detector{}
}

// Detect returns the ISO 639-1 code of the text's language, or Unknown
// when the text is empty or detection is unreliable.
func (d *Detector) Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return Unknown
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return Unknown
	}

	code := info.Lang.Iso6391()
	if code == "" {
		return Unknown
	}
	return code
}
