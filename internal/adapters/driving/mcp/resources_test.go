package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

func TestExtractFingerprint(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid scan URI",
			uri:      "privashield://scans/0123abcd",
			expected: "0123abcd",
		},
		{
			name:     "invalid prefix",
			uri:      "file://scans/0123abcd",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "privashield://scans/0123abcd/extra",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractFingerprint(tt.uri))
		})
	}
}

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleScansResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists scans", func(t *testing.T) {
		scan := &mockScanService{records: []domain.ScanRecord{
			{Fingerprint: "fp1", URL: "https://a.example", UpdatedAt: time.Unix(0, 0)},
			{Fingerprint: "fp2", URL: "https://b.example", UpdatedAt: time.Unix(0, 0)},
		}}
		server := newTestServer(t, scan, nil)

		result, err := server.handleScansResource(ctx, readRequest("privashield://scans"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"fingerprint": "fp1"`)
		assert.Contains(t, result.Contents[0].Text, "https://b.example")
	})

	t.Run("empty list", func(t *testing.T) {
		server := newTestServer(t, &mockScanService{}, nil)

		result, err := server.handleScansResource(ctx, readRequest("privashield://scans"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("list failure", func(t *testing.T) {
		server := newTestServer(t, &mockScanService{err: errors.New("db down")}, nil)

		_, err := server.handleScansResource(ctx, readRequest("privashield://scans"))

		assert.ErrorContains(t, err, "db down")
	})
}

func TestServer_handleScanSummaryResource(t *testing.T) {
	ctx := context.Background()
	scan := &mockScanService{records: []domain.ScanRecord{
		{Fingerprint: "fp1", Summary: "Risk Score: 9"},
	}}
	server := newTestServer(t, scan, nil)

	t.Run("returns summary", func(t *testing.T) {
		result, err := server.handleScanSummaryResource(ctx, readRequest("privashield://scans/fp1"))

		require.NoError(t, err)
		assert.Equal(t, "Risk Score: 9", result.Contents[0].Text)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	})

	t.Run("unknown fingerprint", func(t *testing.T) {
		_, err := server.handleScanSummaryResource(ctx, readRequest("privashield://scans/missing"))

		assert.Error(t, err)
	})

	t.Run("malformed uri", func(t *testing.T) {
		_, err := server.handleScanSummaryResource(ctx, readRequest("privashield://other"))

		assert.Error(t, err)
	})
}
