package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

const testURL = "https://example.com/privacy"

func newTestServer(t *testing.T, scan *mockScanService, analysis *mockAnalysisService, m *mockMetrics) *Server {
	t.Helper()
	ports := &Ports{Scan: scan}
	if analysis != nil {
		ports.Analysis = analysis
	}
	opts := Options{Backend: "sqlite", Version: "test"}
	if m != nil {
		opts.Metrics = m
	}
	server, err := NewServer(ports, opts)
	require.NoError(t, err)
	return server
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestNewServer_RequiresScanService(t *testing.T) {
	_, err := NewServer(&Ports{}, Options{})
	assert.ErrorIs(t, err, ErrMissingScanService)
}

func TestServer_Home(t *testing.T) {
	s := newTestServer(t, &mockScanService{}, nil, nil)

	rec := do(t, s, http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "sqlite", body["database"])
	assert.Equal(t, "test", body["version"])
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestServer_Healthz(t *testing.T) {
	s := newTestServer(t, &mockScanService{}, nil, nil)

	rec := do(t, s, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_Analyze(t *testing.T) {
	scan := &mockScanService{analyzeResult: &domain.AnalyzeResult{
		Status:  domain.ScanStatusProcessedNew,
		Summary: "Risk Score: 6",
	}}
	s := newTestServer(t, scan, nil, nil)

	rec := do(t, s, http.MethodPost, "/analyze", fmt.Sprintf(`{"url":%q,"html":"<p>policy</p>"}`, testURL))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "processed_new", body["status"])
	assert.Equal(t, "Risk Score: 6", body["summary"])
	assert.Equal(t, testURL, scan.lastURL)
}

func TestServer_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"content too short", fmt.Errorf("ingest: %w", domain.ErrContentTooShort), http.StatusBadRequest},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest},
		{"not found", fmt.Errorf("%w: policy not found", domain.ErrNotFound), http.StatusNotFound},
		{"index expired", fmt.Errorf("%w: session expired", domain.ErrIndexNotFound), http.StatusGone},
		{"llm unavailable", domain.ErrLLMUnavailable, http.StatusServiceUnavailable},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &mockScanService{err: tt.err}, nil, nil)

			rec := do(t, s, http.MethodPost, "/chat", fmt.Sprintf(`{"url":%q,"question":"q"}`, testURL))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.err.Error(), decode(t, rec)["error"])
		})
	}
}

func TestServer_Analyze_Validation(t *testing.T) {
	s := newTestServer(t, &mockScanService{}, nil, nil)

	t.Run("missing url", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/analyze", `{"html":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/analyze", `{"url":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode(t, rec)["error"], "malformed")
	})
}

func TestServer_Chat(t *testing.T) {
	scan := &mockScanService{answer: &domain.Answer{Text: "30 days", Queries: []string{"q", "q2"}}}
	s := newTestServer(t, scan, nil, nil)

	rec := do(t, s, http.MethodPost, "/chat", fmt.Sprintf(`{"url":%q,"question":"how long?"}`, testURL))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "30 days", body["answer"])
	assert.Len(t, body["queries"], 2)
}

func TestServer_Status(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	scan := &mockScanService{
		state:  domain.ScanStateStale,
		record: &domain.ScanRecord{Summary: "s", CreatedAt: created, UpdatedAt: created},
	}
	s := newTestServer(t, scan, nil, nil)

	rec := do(t, s, http.MethodGet, "/status?url="+testURL, "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "stale", body["state"])
	assert.Equal(t, domain.Fingerprint(testURL), body["fingerprint"])
	assert.Equal(t, "2026-01-02T03:04:05Z", body["created_at"])

	rec = do(t, s, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Scans(t *testing.T) {
	s := newTestServer(t, &mockScanService{}, nil, nil)

	rec := do(t, s, http.MethodGet, "/scans", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestServer_ClearCache(t *testing.T) {
	scan := &mockScanService{cleared: 3}
	s := newTestServer(t, scan, nil, nil)

	rec := do(t, s, http.MethodDelete, "/cache?purge_index=true", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 3, decode(t, rec)["removed"], 0)
	assert.True(t, scan.lastPurge)

	rec = do(t, s, http.MethodDelete, "/cache?purge_index=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Reports(t *testing.T) {
	tests := []struct {
		path  string
		kind  domain.ReportKind
		field string
	}{
		{"/risks", domain.ReportRisks, "risk_data"},
		{"/permissions", domain.ReportPermissions, "permission_data"},
		{"/hidden-clauses", domain.ReportHiddenClauses, "hidden_clauses_data"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			analysis := &mockAnalysisService{report: domain.Report{"ok": true}}
			s := newTestServer(t, &mockScanService{}, analysis, nil)

			rec := do(t, s, http.MethodPost, tt.path, fmt.Sprintf(`{"url":%q,"html":"x"}`, testURL))

			require.Equal(t, http.StatusOK, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, "analyzed", body["status"])
			assert.Equal(t, testURL, body["url"])
			assert.Equal(t, map[string]any{"ok": true}, body[tt.field])
			assert.Equal(t, tt.kind, analysis.lastKind)
		})
	}
}

func TestServer_Reports_NoAnalysisService(t *testing.T) {
	s := newTestServer(t, &mockScanService{}, nil, nil)

	rec := do(t, s, http.MethodPost, "/risks", `{"url":"u","html":"x"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_FullAnalysis(t *testing.T) {
	scan := &mockScanService{full: &domain.FullAnalysis{
		URL:           testURL,
		Summary:       "summary",
		Risks:         domain.Report{"risk_level": "HIGH"},
		Permissions:   domain.Report{"permissions": []any{}},
		HiddenClauses: domain.Report{"hidden_clauses": []any{}},
	}}
	s := newTestServer(t, scan, nil, nil)

	rec := do(t, s, http.MethodPost, "/full-analysis", fmt.Sprintf(`{"url":%q,"html":"x"}`, testURL))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "analyzed", body["status"])
	assert.Equal(t, "summary", body["summary"])
	assert.Equal(t, map[string]any{"risk_level": "HIGH"}, body["risk_data"])
	assert.Contains(t, body, "permission_data")
	assert.Contains(t, body, "hidden_clauses_data")
}

func TestServer_Metrics(t *testing.T) {
	m := &mockMetrics{}
	scan := &mockScanService{err: domain.ErrNotFound}
	s := newTestServer(t, scan, nil, m)

	do(t, s, http.MethodPost, "/chat", `{"url":"u","question":"q"}`)
	rec := do(t, s, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "privashield_http_requests_total")
	assert.Contains(t, m.observed, "POST /chat Not Found")
	assert.Equal(t, 0, m.inFlight)
}

func TestServer_CORS(t *testing.T) {
	s := newTestServer(t, &mockScanService{}, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	req.Header.Set(echo.HeaderOrigin, "chrome-extension://abc")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
