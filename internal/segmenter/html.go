package segmenter

import (
	"html"
	"regexp"
	"strings"
)

// Pre-compiled regular expressions for HTML block extraction.
var (
	scriptTag = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	blockTag  = regexp.MustCompile(`(?is)<(?:p|h[1-6])\b[^>]*>(.*?)</(?:p|h[1-6])\s*>`)
	innerTags = regexp.MustCompile(`<[^>]+>`)
	spaceRuns = regexp.MustCompile(`\s+`)
)

// StripHTML extracts the text of paragraph and heading elements
// (p, h1-h6), discarding all other markup, and joins the extracted
// fragments with one newline each. Headings stay on their own line so
// the title strategy can detect them.
func StripHTML(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")

	var fragments []string
	for _, m := range blockTag.FindAllStringSubmatch(content, -1) {
		text := innerTags.ReplaceAllString(m[1], "")
		text = html.UnescapeString(text)
		text = spaceRuns.ReplaceAllString(text, " ")
		text = strings.TrimSpace(text)
		if text != "" {
			fragments = append(fragments, text)
		}
	}

	return strings.Join(fragments, "\n")
}
