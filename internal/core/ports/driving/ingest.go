package driving

import (
	"context"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

// IngestService turns raw policy markup into a persisted, queryable index.
type IngestService interface {
	// Ingest normalises raw, indexes it under the fingerprint of source and
	// produces a summary. A non-empty cachedSummary is returned verbatim and
	// no summary is generated.
	//
	// When the normalised text is too short the result carries an empty
	// IndexLocation and the error wraps domain.ErrContentTooShort.
	// Ingest never touches the scan cache.
	Ingest(ctx context.Context, source, raw, cachedSummary string) (domain.IngestResult, error)
}
