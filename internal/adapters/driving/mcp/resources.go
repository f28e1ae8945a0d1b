package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for PrivaShield resources.
	uriScheme = "privashield://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing analysed policies.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "scans",
		Name:        "scans",
		Description: "Privacy policies analysed so far, most recent first",
		MIMEType:    "application/json",
	}, s.handleScansResource)

	// Template for one policy summary.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "scans/{fingerprint}",
		Name:        "scan-summary",
		Description: "Risk summary of one analysed privacy policy",
		MIMEType:    "text/plain",
	}, s.handleScanSummaryResource)
}

// handleScansResource returns every scan record without summaries.
func (s *Server) handleScansResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.ports.Scan.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}

	type scanInfo struct {
		Fingerprint string `json:"fingerprint"`
		URL         string `json:"url"`
		UpdatedAt   string `json:"updated_at"`
	}

	infos := make([]scanInfo, len(records))
	for i := range records {
		infos[i] = scanInfo{
			Fingerprint: records[i].Fingerprint,
			URL:         records[i].URL,
			UpdatedAt:   records[i].UpdatedAt.UTC().Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling scans: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleScanSummaryResource returns the summary of one scan.
func (s *Server) handleScanSummaryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	fingerprint := extractFingerprint(req.Params.URI)
	if fingerprint == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	records, err := s.ports.Scan.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}

	for i := range records {
		if records[i].Fingerprint != fingerprint {
			continue
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "text/plain",
				Text:     records[i].Summary,
			}},
		}, nil
	}

	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

// extractFingerprint extracts the fingerprint from a URI like privashield://scans/{fingerprint}.
func extractFingerprint(uri string) string {
	const prefix = uriScheme + "scans/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
