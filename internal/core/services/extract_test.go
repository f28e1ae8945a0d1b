package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.Report
	}{
		{"fenced json", "```json\n{\"a\":1}\n```", domain.Report{"a": float64(1)}},
		{"fenced untagged", "Here you go:\n```\n{\"a\": \"b\"}\n```\nThanks", domain.Report{"a": "b"}},
		{"prose around braces", "noise {\"a\":1} noise", domain.Report{"a": float64(1)}},
		{"raw object", "  {\"risk_level\": \"HIGH\"}  ", domain.Report{"risk_level": "HIGH"}},
		{
			"nested braces",
			"Result: {\"outer\": {\"inner\": [1, 2]}} end",
			domain.Report{"outer": map[string]any{"inner": []any{float64(1), float64(2)}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.False(t, got.Failed())
		})
	}
}

func TestExtractJSON_FallbackNeverFails(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain text", "not json at all"},
		{"empty", ""},
		{"array", "[1, 2, 3]"},
		{"null", "null"},
		{"broken fence", "```json\n{\"a\": }\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.raw)
			require.True(t, got.Failed())
			assert.Equal(t, domain.ReportParseFailure, got[domain.ReportKeyError])
			assert.Equal(t, tt.raw, got[domain.ReportKeyRawResponse])
		})
	}
}

func TestExtractJSON_FallbackTruncatesRawResponse(t *testing.T) {
	raw := strings.Repeat("é", 2000)

	got := ExtractJSON(raw)

	preview, ok := got[domain.ReportKeyRawResponse].(string)
	require.True(t, ok)
	assert.Equal(t, domain.RawResponsePreviewChars, len([]rune(preview)))
}

func TestParseJSONObject_WrapsSentinel(t *testing.T) {
	_, err := ParseJSONObject("nope")
	assert.ErrorIs(t, err, domain.ErrJSONExtraction)
}
