package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

// reportFull selects every report in risk_report.
const reportFull = "full"

// AnalyzeInput is the input schema for the analyze_policy tool.
type AnalyzeInput struct {
	URL  string `json:"url" jsonschema:"the URL the privacy policy was fetched from"`
	HTML string `json:"html" jsonschema:"the raw HTML or text of the privacy policy page"`
}

// AnalyzeOutput is the output schema for the analyze_policy tool.
type AnalyzeOutput struct {
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

// AskInput is the input schema for the ask_policy tool.
type AskInput struct {
	URL      string `json:"url" jsonschema:"the URL of a previously analysed privacy policy"`
	Question string `json:"question" jsonschema:"the question to answer from the policy"`
}

// AskOutput is the output schema for the ask_policy tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Queries []string `json:"queries,omitempty"`
}

// StatusInput is the input schema for the policy_status tool.
type StatusInput struct {
	URL string `json:"url" jsonschema:"the URL of the privacy policy"`
}

// StatusOutput is the output schema for the policy_status tool.
type StatusOutput struct {
	URL         string `json:"url"`
	Fingerprint string `json:"fingerprint"`
	State       string `json:"state"`
	Summary     string `json:"summary,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// ReportInput is the input schema for the risk_report tool.
type ReportInput struct {
	Kind string `json:"kind" jsonschema:"one of risks, permissions, hidden_clauses or full"`
	URL  string `json:"url,omitempty" jsonschema:"the policy URL; required for kind full"`
	HTML string `json:"html" jsonschema:"the raw HTML or text of the privacy policy page"`
}

// ReportOutput is the output schema for the risk_report tool.
// Exactly one of Report and Full is set.
type ReportOutput struct {
	Kind   string               `json:"kind"`
	Report domain.Report        `json:"report,omitempty"`
	Full   *domain.FullAnalysis `json:"full,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_policy",
		Description: "Analyse a privacy policy page and return its risk summary. Cached results are reused.",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_policy",
		Description: "Answer a question using only the text of a previously analysed privacy policy",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "policy_status",
		Description: "Report whether a privacy policy has been analysed and whether its index is still available",
	}, s.handleStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "risk_report",
		Description: "Produce a structured JSON report: risks, permissions, hidden_clauses or full",
	}, s.handleReport)
}

// handleAnalyze handles the analyze_policy tool invocation.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	if input.URL == "" {
		return nil, AnalyzeOutput{}, errors.New("url is required")
	}

	result, err := s.ports.Scan.Analyze(ctx, input.URL, input.HTML)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	return nil, AnalyzeOutput{
		Status:  string(result.Status),
		Summary: result.Summary,
	}, nil
}

// handleAsk handles the ask_policy tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.URL == "" || input.Question == "" {
		return nil, AskOutput{}, errors.New("url and question are required")
	}

	answer, err := s.ports.Scan.Chat(ctx, input.URL, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:  answer.Text,
		Queries: answer.Queries,
	}, nil
}

// handleStatus handles the policy_status tool invocation.
func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	state, record, err := s.ports.Scan.Status(ctx, input.URL)
	if err != nil {
		return nil, StatusOutput{}, err
	}

	output := StatusOutput{
		URL:         input.URL,
		Fingerprint: domain.Fingerprint(input.URL),
		State:       state.String(),
	}
	if record != nil {
		output.Summary = record.Summary
		output.UpdatedAt = record.UpdatedAt.UTC().Format(time.RFC3339)
	}

	return nil, output, nil
}

// handleReport handles the risk_report tool invocation.
func (s *Server) handleReport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReportInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	if input.Kind == reportFull {
		if input.URL == "" {
			return nil, ReportOutput{}, errors.New("url is required for a full report")
		}
		full, err := s.ports.Scan.FullAnalysis(ctx, input.URL, input.HTML)
		if err != nil {
			return nil, ReportOutput{}, err
		}
		return nil, ReportOutput{Kind: reportFull, Full: full}, nil
	}

	kind := domain.ReportKind(input.Kind)
	if !kind.IsValid() {
		return nil, ReportOutput{}, fmt.Errorf("%w: unknown report kind %q", domain.ErrInvalidInput, input.Kind)
	}
	if s.ports.Analysis == nil {
		return nil, ReportOutput{}, domain.ErrLLMUnavailable
	}

	report, err := s.ports.Analysis.Report(ctx, kind, input.HTML)
	if err != nil {
		return nil, ReportOutput{}, err
	}

	return nil, ReportOutput{Kind: kind.String(), Report: report}, nil
}
