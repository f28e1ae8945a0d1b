package driving

import (
	"context"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

// ScanService orchestrates the scan cache around ingestion and retrieval.
type ScanService interface {
	// Analyze returns the cached summary for url, or ingests html and
	// records the result. Stale records are rebuilt reusing their summary.
	Analyze(ctx context.Context, url, html string) (*domain.AnalyzeResult, error)

	// Chat answers question about a previously analysed url.
	// Returns domain.ErrNotFound if url was never analysed and
	// domain.ErrIndexNotFound if its index has expired.
	Chat(ctx context.Context, url, question string) (*domain.Answer, error)

	// Status resolves the cache state of url.
	Status(ctx context.Context, url string) (domain.ScanState, *domain.ScanRecord, error)

	// FullAnalysis ingests html (recording the scan when an index is built)
	// and runs every structured report.
	FullAnalysis(ctx context.Context, url, html string) (*domain.FullAnalysis, error)

	// List returns every scan record.
	List(ctx context.Context) ([]domain.ScanRecord, error)

	// ClearCache removes every scan record, and their index artifacts when
	// purgeIndexes is set. Returns the number of records removed.
	ClearCache(ctx context.Context, purgeIndexes bool) (int, error)
}
