package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driving"
	"github.com/NIT-JSR/PrivaShield-AI/internal/logger"
)

// Ensure ScanService implements the interface.
var _ driving.ScanService = (*ScanService)(nil)

// Errors surfaced to clients of Chat.
var (
	errPolicyNotFound = fmt.Errorf("%w: policy not found, please analyze the site first", domain.ErrNotFound)
	errSessionExpired = fmt.Errorf("%w: session expired, please analyze the site again", domain.ErrIndexNotFound)
)

// ScanService decides, per policy, whether cached work can be served or the
// policy must be (re)ingested, and keeps the scan cache consistent with the
// index artifacts on disk.
type ScanService struct {
	cache     driven.ScanCache
	indexes   driven.IndexStore
	ingest    driving.IngestService
	retrieval driving.RetrievalService
	analysis  driving.AnalysisService
	metrics   driven.Metrics
	group     singleflight.Group
	now       func() time.Time
}

// NewScanService creates a new scan service.
func NewScanService(
	cache driven.ScanCache,
	indexes driven.IndexStore,
	ingest driving.IngestService,
	retrieval driving.RetrievalService,
	analysis driving.AnalysisService,
) *ScanService {
	return &ScanService{
		cache:     cache,
		indexes:   indexes,
		ingest:    ingest,
		retrieval: retrieval,
		analysis:  analysis,
		metrics:   nopMetrics{},
		now:       time.Now,
	}
}

// SetMetrics sets the metrics recorder.
func (s *ScanService) SetMetrics(m driven.Metrics) {
	s.metrics = metricsOrNop(m)
}

// Analyze returns the cached summary for url or ingests html.
// Concurrent calls for one url share a single ingestion. The shared work is
// detached from cancellation so it finishes for every caller; each caller
// stops waiting when its own context ends.
func (s *ScanService) Analyze(ctx context.Context, url, html string) (*domain.AnalyzeResult, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}
	fingerprint := domain.Fingerprint(url)

	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(fingerprint, func() (any, error) {
		return s.analyze(shared, fingerprint, url, html)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		result := *res.Val.(*domain.AnalyzeResult)
		return &result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *ScanService) analyze(
	ctx context.Context, fingerprint, url, html string,
) (*domain.AnalyzeResult, error) {
	logger.Section("Policy Analysis")

	record, err := s.lookup(ctx, fingerprint)
	if err != nil {
		return nil, err
	}

	state := s.resolve(record)
	s.metrics.ObserveScanState(state.String())
	logger.Debug("Scan state for %s: %s", url, state)

	if state == domain.ScanStateIndexed {
		return &domain.AnalyzeResult{Status: domain.ScanStatusCached, Summary: record.Summary}, nil
	}

	var cachedSummary string
	if state == domain.ScanStateStale && reusableSummary(record.Summary) {
		cachedSummary = record.Summary
	}

	result, err := s.ingest.Ingest(ctx, url, html, cachedSummary)
	if err != nil {
		return nil, err
	}

	if err := s.record(ctx, record, url, result); err != nil {
		return nil, err
	}

	return &domain.AnalyzeResult{Status: domain.ScanStatusProcessedNew, Summary: result.Summary}, nil
}

// record upserts the scan record after a successful ingestion.
// Stale records are updated in place.
func (s *ScanService) record(
	ctx context.Context, existing *domain.ScanRecord, url string, result domain.IngestResult,
) error {
	now := s.now()
	rec := domain.ScanRecord{
		Fingerprint: result.Fingerprint,
		URL:         url,
		Summary:     result.Summary,
		IndexPath:   result.IndexLocation,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing != nil {
		rec.CreatedAt = existing.CreatedAt
	}

	if err := s.cache.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("save scan record: %w", err)
	}
	return nil
}

// Chat answers question about a previously analysed url.
func (s *ScanService) Chat(ctx context.Context, url, question string) (*domain.Answer, error) {
	fingerprint := domain.Fingerprint(strings.TrimSpace(url))

	record, err := s.lookup(ctx, fingerprint)
	if err != nil {
		return nil, err
	}

	state := s.resolve(record)
	s.metrics.ObserveScanState(state.String())
	switch state {
	case domain.ScanStateAbsent:
		return nil, errPolicyNotFound
	case domain.ScanStateStale:
		return nil, errSessionExpired
	}

	answer, err := s.retrieval.Answer(ctx, question, fingerprint)
	if errors.Is(err, domain.ErrIndexNotFound) {
		return nil, errSessionExpired
	}
	return answer, err
}

// Status resolves the cache state of url.
func (s *ScanService) Status(ctx context.Context, url string) (domain.ScanState, *domain.ScanRecord, error) {
	record, err := s.lookup(ctx, domain.Fingerprint(strings.TrimSpace(url)))
	if err != nil {
		return "", nil, err
	}
	return s.resolve(record), record, nil
}

// FullAnalysis analyses url for its summary, then runs every structured report.
// A failed summary is reported in place; only short content fails the call.
func (s *ScanService) FullAnalysis(ctx context.Context, url, html string) (*domain.FullAnalysis, error) {
	full := &domain.FullAnalysis{URL: url}

	result, err := s.Analyze(ctx, url, html)
	switch {
	case errors.Is(err, domain.ErrContentTooShort):
		return nil, err
	case err != nil:
		logger.WarnContext(ctx, "Summary for full analysis failed: %v", err)
		full.Summary = "Summary generation failed: " + err.Error()
	default:
		full.Summary = result.Summary
	}

	reports, err := s.analysis.ReportAll(ctx, html)
	if err != nil {
		return nil, err
	}
	full.Risks = reports[domain.ReportRisks]
	full.Permissions = reports[domain.ReportPermissions]
	full.HiddenClauses = reports[domain.ReportHiddenClauses]

	return full, nil
}

// List returns every scan record.
func (s *ScanService) List(ctx context.Context) ([]domain.ScanRecord, error) {
	return s.cache.List(ctx)
}

// ClearCache removes every scan record, and their index artifacts when
// purgeIndexes is set.
func (s *ScanService) ClearCache(ctx context.Context, purgeIndexes bool) (int, error) {
	if purgeIndexes {
		records, err := s.cache.List(ctx)
		if err != nil {
			return 0, fmt.Errorf("list scan records: %w", err)
		}
		for _, rec := range records {
			if err := s.indexes.Delete(ctx, rec.Fingerprint); err != nil {
				return 0, fmt.Errorf("delete index %s: %w", rec.Fingerprint, err)
			}
		}
		logger.Info("Purged %d index artifacts", len(records))
	}

	n, err := s.cache.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear scan cache: %w", err)
	}
	return n, nil
}

// lookup returns the record for fingerprint, or nil if there is none.
func (s *ScanService) lookup(ctx context.Context, fingerprint string) (*domain.ScanRecord, error) {
	record, err := s.cache.Get(ctx, fingerprint)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get scan record: %w", err)
	}
	return record, nil
}

// resolve checks that the record points at the artifact the index store
// would load and that the artifact is on disk.
func (s *ScanService) resolve(record *domain.ScanRecord) domain.ScanState {
	exists := false
	if record != nil && record.IndexPath != "" {
		expected := s.indexes.Location(record.Fingerprint)
		exists = filepath.Clean(record.IndexPath) == filepath.Clean(expected) &&
			s.indexes.Exists(record.Fingerprint)
	}
	return domain.ResolveScanState(record, exists)
}

// reusableSummary reports whether a stored summary can be kept when the
// index is rebuilt. Error-annotated summaries are regenerated.
func reusableSummary(summary string) bool {
	return summary != "" && !strings.HasPrefix(summary, domain.SummaryErrorPrefix)
}
