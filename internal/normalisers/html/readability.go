package html

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	readability "github.com/go-shiori/go-readability"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
	"github.com/NIT-JSR/PrivaShield-AI/internal/logger"
)

// Ensure ReadabilityNormaliser implements the interface.
var _ driven.Normaliser = (*ReadabilityNormaliser)(nil)

// ReadabilityNormaliser extracts the main article of a page before
// stripping markup. Cookie banners, sidebars and related links that the
// markup normaliser keeps are dropped.
//
// Pages where extraction fails or keeps too little text fall back to the
// whole-page markup normaliser.
type ReadabilityNormaliser struct {
	fallback *Normaliser
}

// NewReadability creates a new readability normaliser.
func NewReadability() *ReadabilityNormaliser {
	return &ReadabilityNormaliser{fallback: New()}
}

// Name returns the normaliser name.
func (n *ReadabilityNormaliser) Name() string {
	return "readability"
}

// Normalise extracts the main content of raw and returns it as plain text.
func (n *ReadabilityNormaliser) Normalise(ctx context.Context, raw, sourceURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	article, err := readability.FromReader(strings.NewReader(raw), parseURL(sourceURL))
	if err != nil {
		logger.Debug("Readability extraction failed, using full page: %v", err)
		return n.fallback.Normalise(ctx, raw, sourceURL)
	}

	text := StripHTML(article.Content)
	if utf8.RuneCountInString(text) < domain.MinContentLength {
		logger.Debug("Readability kept %d characters, using full page", utf8.RuneCountInString(text))
		return n.fallback.Normalise(ctx, raw, sourceURL)
	}

	return text, nil
}

// parseURL returns the parsed source URL, or an empty URL when it is
// missing or malformed. Readability only uses it to resolve relative links.
func parseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}
