package services

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driving"
	"github.com/NIT-JSR/PrivaShield-AI/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// reportTemperature keeps structured reports close to deterministic.
const reportTemperature = 0.2

// AnalysisService runs the structured risk, permission and hidden-clause
// analyses over a policy.
type AnalysisService struct {
	normaliser driven.Normaliser
	llm        driven.LLMService
	prompts    driven.PromptStore
	metrics    driven.Metrics
}

// NewAnalysisService creates a new analysis service.
// The llm parameter is optional; without it every report degrades.
func NewAnalysisService(normaliser driven.Normaliser, llm driven.LLMService) *AnalysisService {
	return &AnalysisService{
		normaliser: normaliser,
		llm:        llm,
		metrics:    nopMetrics{},
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *AnalysisService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetMetrics sets the metrics recorder.
func (s *AnalysisService) SetMetrics(m driven.Metrics) {
	s.metrics = metricsOrNop(m)
}

// Report runs one structured analysis over raw policy markup.
func (s *AnalysisService) Report(
	ctx context.Context, kind domain.ReportKind, raw string,
) (domain.Report, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown report kind %q", domain.ErrInvalidInput, kind)
	}

	text, err := s.policyText(ctx, raw)
	if err != nil {
		return nil, err
	}

	return s.report(ctx, kind, text), nil
}

// ReportAll runs every structured analysis concurrently over raw.
func (s *AnalysisService) ReportAll(
	ctx context.Context, raw string,
) (map[domain.ReportKind]domain.Report, error) {
	text, err := s.policyText(ctx, raw)
	if err != nil {
		return nil, err
	}

	kinds := []domain.ReportKind{domain.ReportRisks, domain.ReportPermissions, domain.ReportHiddenClauses}
	results := make([]domain.Report, len(kinds))

	var wg sync.WaitGroup
	for i, kind := range kinds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.report(ctx, kind, text)
		}()
	}
	wg.Wait()

	reports := make(map[domain.ReportKind]domain.Report, len(kinds))
	for i, kind := range kinds {
		reports[kind] = results[i]
	}
	return reports, nil
}

// policyText normalises raw and enforces the minimum content length.
func (s *AnalysisService) policyText(ctx context.Context, raw string) (string, error) {
	text, err := s.normaliser.Normalise(ctx, raw, "")
	if err != nil {
		return "", fmt.Errorf("normalise: %w", err)
	}
	if utf8.RuneCountInString(text) < domain.MinContentLength {
		return "", domain.ErrContentTooShort
	}
	return domain.Truncate(text, domain.SummaryContextChars), nil
}

// report prompts the LLM for one analysis and parses its output.
// Failures produce a degraded report rather than an error.
func (s *AnalysisService) report(ctx context.Context, kind domain.ReportKind, text string) domain.Report {
	logger.Debug("Running %s analysis over %d characters", kind, utf8.RuneCountInString(text))

	if s.llm == nil {
		return degraded(kind, domain.Report{
			domain.ReportKeyError: domain.SummaryErrorPrefix + domain.ErrLLMUnavailable.Error(),
		})
	}

	start := time.Now()
	out, err := s.llm.Generate(ctx, s.prompt(kind, text), driven.GenerateOptions{Temperature: reportTemperature})
	s.metrics.ObserveLLMCall(kind.String(), err, time.Since(start))
	if err != nil {
		logger.WarnContext(ctx, "%s analysis failed: %v", kind, err)
		return degraded(kind, domain.Report{domain.ReportKeyError: domain.SummaryErrorPrefix + err.Error()})
	}

	report := ExtractJSON(out)
	if report.Failed() {
		logger.WarnContext(ctx, "%s analysis returned unparseable output", kind)
		return degraded(kind, report)
	}
	return report
}

func (s *AnalysisService) prompt(kind domain.ReportKind, text string) string {
	switch kind {
	case domain.ReportPermissions:
		list := strings.Join(domain.DevicePermissions(), ", ")
		return fmt.Sprintf(loadPrompt(s.prompts, domain.PromptPermissionMap), list, text)
	case domain.ReportHiddenClauses:
		return fmt.Sprintf(loadPrompt(s.prompts, domain.PromptHiddenClauses), text)
	default:
		return fmt.Sprintf(loadPrompt(s.prompts, domain.PromptRiskReport), text)
	}
}

// degraded merges the error fields of failure over the defaults of kind.
func degraded(kind domain.ReportKind, failure domain.Report) domain.Report {
	report := domain.ReportDefaults(kind)
	maps.Copy(report, failure)
	return report
}
