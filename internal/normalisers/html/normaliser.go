package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser strips markup from a whole HTML page.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Name returns the normaliser name.
func (n *Normaliser) Name() string {
	return "markup"
}

// Normalise converts HTML to plain text, one block per line.
// Input without markup passes through with whitespace collapsed.
func (n *Normaliser) Normalise(ctx context.Context, raw, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return StripHTML(raw), nil
}

// noiseTags are removed together with their content.
var noiseTags = []string{"script", "style", "noscript", "head", "svg", "nav", "header", "footer", "iframe", "template"}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	noiseElements     = compileNoise(noiseTags)
	metaTags          = regexp.MustCompile(`(?i)<meta\b[^>]*>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|td|th|dd|dt|blockquote|pre|table|section|article|main|aside)\s*>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|dd|dt|blockquote|pre|table|section|article|main|aside)\b[^>]*>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTags            = regexp.MustCompile(`(?i)<hr\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t\p{Zs}]+`)
)

// compileNoise builds one pattern per tag, since RE2 has no backreferences
// to match an opening tag against its own closing tag.
func compileNoise(tags []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(tags))
	for i, tag := range tags {
		patterns[i] = regexp.MustCompile(`(?is)<` + tag + `(?:\s[^>]*)?>.*?</` + tag + `\s*>`)
	}
	return patterns
}

// StripHTML removes HTML tags and structural noise and returns readable text.
// Lines are trimmed and blank lines dropped.
func StripHTML(content string) string {
	// Comments first so commented-out markup cannot open a noise element
	content = htmlComments.ReplaceAllString(content, "")

	for _, re := range noiseElements {
		content = re.ReplaceAllString(content, "")
	}
	content = metaTags.ReplaceAllString(content, "")

	// Block elements become line breaks
	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = hrTags.ReplaceAllString(content, "\n")

	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
