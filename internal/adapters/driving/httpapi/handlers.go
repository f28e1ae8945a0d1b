package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

// statusAnalyzed is the status of every report response.
const statusAnalyzed = "analyzed"

// policyRequest is the body of /analyze and the report endpoints.
type policyRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

// chatRequest is the body of /chat.
type chatRequest struct {
	URL      string `json:"url"`
	Question string `json:"question"`
}

// chatResponse is the body returned by /chat.
type chatResponse struct {
	Answer  string   `json:"answer"`
	Queries []string `json:"queries,omitempty"`
}

// statusResponse is the body returned by /status.
type statusResponse struct {
	URL         string     `json:"url"`
	Fingerprint string     `json:"fingerprint"`
	State       string     `json:"state"`
	Summary     string     `json:"summary,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// fullAnalysisResponse is the body returned by /full-analysis.
type fullAnalysisResponse struct {
	Status            string        `json:"status"`
	URL               string        `json:"url"`
	Summary           string        `json:"summary"`
	RiskData          domain.Report `json:"risk_data"`
	PermissionData    domain.Report `json:"permission_data"`
	HiddenClausesData domain.Report `json:"hidden_clauses_data"`
}

// reportRoute binds a report kind to the response field carrying it.
type reportRoute struct {
	kind  domain.ReportKind
	field string
}

var (
	reportRisks         = reportRoute{kind: domain.ReportRisks, field: "risk_data"}
	reportPermissions   = reportRoute{kind: domain.ReportPermissions, field: "permission_data"}
	reportHiddenClauses = reportRoute{kind: domain.ReportHiddenClauses, field: "hidden_clauses_data"}
)

func (s *Server) home(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message":  "PrivaShield AI API is running.",
		"version":  s.opts.Version,
		"database": s.opts.Backend,
	})
}

func (s *Server) analyze(c echo.Context) error {
	req, err := bindPolicy(c)
	if err != nil {
		return err
	}

	result, err := s.ports.Scan.Analyze(c.Request().Context(), req.URL, req.HTML)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.URL) == "" || strings.TrimSpace(req.Question) == "" {
		return fmt.Errorf("%w: url and question are required", domain.ErrInvalidInput)
	}

	answer, err := s.ports.Scan.Chat(c.Request().Context(), req.URL, req.Question)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chatResponse{Answer: answer.Text, Queries: answer.Queries})
}

func (s *Server) status(c echo.Context) error {
	url := strings.TrimSpace(c.QueryParam("url"))
	if url == "" {
		return fmt.Errorf("%w: url query parameter is required", domain.ErrInvalidInput)
	}

	state, record, err := s.ports.Scan.Status(c.Request().Context(), url)
	if err != nil {
		return err
	}

	resp := statusResponse{
		URL:         url,
		Fingerprint: domain.Fingerprint(url),
		State:       state.String(),
	}
	if record != nil {
		resp.Summary = record.Summary
		resp.CreatedAt = &record.CreatedAt
		resp.UpdatedAt = &record.UpdatedAt
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) scans(c echo.Context) error {
	records, err := s.ports.Scan.List(c.Request().Context())
	if err != nil {
		return err
	}
	if records == nil {
		records = []domain.ScanRecord{}
	}
	return c.JSON(http.StatusOK, records)
}

func (s *Server) clearCache(c echo.Context) error {
	purge := false
	if v := c.QueryParam("purge_index"); v != "" {
		var err error
		if purge, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("%w: purge_index must be a boolean", domain.ErrInvalidInput)
		}
	}

	n, err := s.ports.Scan.ClearCache(c.Request().Context(), purge)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"removed": n})
}

func (s *Server) reportHandler(route reportRoute) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.ports.Analysis == nil {
			return domain.ErrLLMUnavailable
		}
		var req policyRequest
		if err := c.Bind(&req); err != nil {
			return fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput)
		}

		report, err := s.ports.Analysis.Report(c.Request().Context(), route.kind, req.HTML)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status":    statusAnalyzed,
			"url":       req.URL,
			route.field: report,
		})
	}
}

func (s *Server) fullAnalysis(c echo.Context) error {
	req, err := bindPolicy(c)
	if err != nil {
		return err
	}

	full, err := s.ports.Scan.FullAnalysis(c.Request().Context(), req.URL, req.HTML)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fullAnalysisResponse{
		Status:            statusAnalyzed,
		URL:               req.URL,
		Summary:           full.Summary,
		RiskData:          full.Risks,
		PermissionData:    full.Permissions,
		HiddenClausesData: full.HiddenClauses,
	})
}

// bindPolicy decodes a policyRequest and requires its url.
func bindPolicy(c echo.Context) (policyRequest, error) {
	var req policyRequest
	if err := c.Bind(&req); err != nil {
		return req, fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.URL) == "" {
		return req, fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}
	return req, nil
}
