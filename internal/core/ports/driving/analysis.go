package driving

import (
	"context"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

// AnalysisService produces structured reports over a policy.
// Reports never fail because of model output; unusable output yields a
// report carrying an error marker.
type AnalysisService interface {
	// Report runs one structured analysis over raw policy markup.
	// Returns domain.ErrContentTooShort wrapped if there is not enough text.
	Report(ctx context.Context, kind domain.ReportKind, raw string) (domain.Report, error)

	// ReportAll runs every structured analysis concurrently.
	ReportAll(ctx context.Context, raw string) (map[domain.ReportKind]domain.Report, error)
}
