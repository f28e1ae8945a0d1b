package driven

import "context"

// Normaliser reduces raw policy markup to plain text with structural noise
// (scripts, styles, navigation, headers and footers) removed and blank
// lines collapsed.
type Normaliser interface {
	// Name identifies the normaliser in logs.
	Name() string

	// Normalise returns the plain text of raw. sourceURL may be empty.
	Normalise(ctx context.Context, raw, sourceURL string) (string, error)
}
