package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

// mockScanService records calls and returns canned results.
type mockScanService struct {
	analyzeURL  string
	analyzeHTML string
	analyzeErr  error
	analyzed    *domain.AnalyzeResult

	chatURL      string
	chatQuestion string
	answer       *domain.Answer

	state  domain.ScanState
	record *domain.ScanRecord

	full *domain.FullAnalysis

	records []domain.ScanRecord

	clearPurge bool
	cleared    int
}

func (m *mockScanService) Analyze(_ context.Context, url, html string) (*domain.AnalyzeResult, error) {
	m.analyzeURL, m.analyzeHTML = url, html
	if m.analyzeErr != nil {
		return nil, m.analyzeErr
	}
	if m.analyzed != nil {
		return m.analyzed, nil
	}
	return &domain.AnalyzeResult{Status: domain.ScanStatusProcessedNew, Summary: "Collects location data."}, nil
}

func (m *mockScanService) Chat(_ context.Context, url, question string) (*domain.Answer, error) {
	m.chatURL, m.chatQuestion = url, question
	if m.answer != nil {
		return m.answer, nil
	}
	return &domain.Answer{Text: "Yes, for 30 days."}, nil
}

func (m *mockScanService) Status(_ context.Context, _ string) (domain.ScanState, *domain.ScanRecord, error) {
	if m.state == "" {
		return domain.ScanStateAbsent, nil, nil
	}
	return m.state, m.record, nil
}

func (m *mockScanService) FullAnalysis(_ context.Context, url, html string) (*domain.FullAnalysis, error) {
	m.analyzeURL, m.analyzeHTML = url, html
	if m.full != nil {
		return m.full, nil
	}
	return &domain.FullAnalysis{
		URL:           url,
		Summary:       "Full summary.",
		Risks:         domain.Report{"overall_risk_score": 7, "risk_level": "HIGH"},
		Permissions:   domain.Report{"permissions": []any{}},
		HiddenClauses: domain.Report{"hidden_clauses": []any{}},
	}, nil
}

func (m *mockScanService) List(_ context.Context) ([]domain.ScanRecord, error) {
	return m.records, nil
}

func (m *mockScanService) ClearCache(_ context.Context, purgeIndexes bool) (int, error) {
	m.clearPurge = purgeIndexes
	return m.cleared, nil
}

// mockAnalysisService returns a report per kind.
type mockAnalysisService struct {
	kind domain.ReportKind
	raw  string
}

func (m *mockAnalysisService) Report(_ context.Context, kind domain.ReportKind, raw string) (domain.Report, error) {
	m.kind, m.raw = kind, raw
	if kind == domain.ReportRisks {
		return domain.Report{"overall_risk_score": 4, "risk_level": "MEDIUM"}, nil
	}
	return domain.ReportDefaults(kind), nil
}

func (m *mockAnalysisService) ReportAll(ctx context.Context, raw string) (map[domain.ReportKind]domain.Report, error) {
	out := make(map[domain.ReportKind]domain.Report)
	for _, k := range []domain.ReportKind{domain.ReportRisks, domain.ReportPermissions, domain.ReportHiddenClauses} {
		r, _ := m.Report(ctx, k, raw)
		out[k] = r
	}
	return out, nil
}

// mockSettingsService keeps settings in memory.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error

	embeddingProvider domain.AIProvider
	embeddingModel    string
	llmProvider       domain.AIProvider
	llmModel          string
	llmKey            string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, _ string) error {
	m.embeddingProvider, m.embeddingModel = provider, model
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.llmProvider, m.llmModel, m.llmKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) SetChunking(size, overlap int) error {
	if size <= 0 || overlap < 0 || overlap >= size {
		return domain.ErrInvalidInput
	}
	m.settings.Chunker = domain.ChunkerSettings{Size: size, Overlap: overlap}
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return nil }

func (m *mockSettingsService) ValidateLLMConfig() error { return nil }

// testServices are the mocks installed by setupTestServices.
type testServices struct {
	scan     *mockScanService
	analysis *mockAnalysisService
	settings *mockSettingsService
}

// setupTestServices installs mock services and resets command state.
// The returned function restores the previous state.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		scan:     &mockScanService{},
		analysis: &mockAnalysisService{},
		settings: newMockSettingsService(),
	}

	prevInit := initializer
	initializer = nil
	SetServices(&Services{Scan: ts.scan, Analysis: ts.analysis, Settings: ts.settings})

	return ts, func() {
		initializer = prevInit
		SetServices(nil)
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}
}

func resetFlags() {
	analyzeFile = ""
	reportFile = ""
	chatShowContext = false
	cachePurgeIndex = false
	serveAddr = ""
	jsonFlag = false
	verboseFlag = false
	configDirFlag = ""
}

// execute runs the root command with args and returns its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func fixedTime() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}
