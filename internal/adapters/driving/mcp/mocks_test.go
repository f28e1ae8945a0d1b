package mcp

import (
	"context"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

// mockScanService is a mock implementation of driving.ScanService.
type mockScanService struct {
	analyzeResult *domain.AnalyzeResult
	answer        *domain.Answer
	state         domain.ScanState
	record        *domain.ScanRecord
	full          *domain.FullAnalysis
	records       []domain.ScanRecord
	cleared       int
	err           error

	lastURL      string
	lastQuestion string
}

func (m *mockScanService) Analyze(_ context.Context, url, _ string) (*domain.AnalyzeResult, error) {
	m.lastURL = url
	return m.analyzeResult, m.err
}

func (m *mockScanService) Chat(_ context.Context, url, question string) (*domain.Answer, error) {
	m.lastURL = url
	m.lastQuestion = question
	return m.answer, m.err
}

func (m *mockScanService) Status(_ context.Context, url string) (domain.ScanState, *domain.ScanRecord, error) {
	m.lastURL = url
	return m.state, m.record, m.err
}

func (m *mockScanService) FullAnalysis(_ context.Context, url, _ string) (*domain.FullAnalysis, error) {
	m.lastURL = url
	return m.full, m.err
}

func (m *mockScanService) List(_ context.Context) ([]domain.ScanRecord, error) {
	return m.records, m.err
}

func (m *mockScanService) ClearCache(_ context.Context, _ bool) (int, error) {
	return m.cleared, m.err
}

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	report   domain.Report
	err      error
	lastKind domain.ReportKind
}

func (m *mockAnalysisService) Report(_ context.Context, kind domain.ReportKind, _ string) (domain.Report, error) {
	m.lastKind = kind
	return m.report, m.err
}

func (m *mockAnalysisService) ReportAll(_ context.Context, _ string) (map[domain.ReportKind]domain.Report, error) {
	return map[domain.ReportKind]domain.Report{domain.ReportRisks: m.report}, m.err
}
