package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

// fencedBlock matches a markdown code fence, optionally tagged json.
var fencedBlock = regexp.MustCompile("```(?:json)?\\s*\\n?([\\s\\S]*?)\\n?```")

// ExtractJSON parses the JSON object in model output.
//
// Candidates are tried in order: the interior of the first fenced code
// block, the span from the first '{' to the last '}', then the raw text.
// It never fails: unparseable output yields a report carrying
// domain.ReportKeyError and a truncated copy of the raw response.
func ExtractJSON(raw string) domain.Report {
	report, err := ParseJSONObject(raw)
	if err != nil {
		return FallbackReport(raw)
	}
	return report
}

// ParseJSONObject is ExtractJSON without the fallback.
// Returns domain.ErrJSONExtraction wrapped when no JSON object can be parsed.
func ParseJSONObject(raw string) (domain.Report, error) {
	candidate := jsonCandidate(strings.TrimSpace(raw))

	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrJSONExtraction, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: not a JSON object", domain.ErrJSONExtraction)
	}
	return domain.Report(obj), nil
}

// FallbackReport is the report returned for unparseable model output.
func FallbackReport(raw string) domain.Report {
	return domain.Report{
		domain.ReportKeyError:       domain.ReportParseFailure,
		domain.ReportKeyRawResponse: domain.Truncate(raw, domain.RawResponsePreviewChars),
	}
}

// jsonCandidate picks the substring of text most likely to be the JSON payload.
func jsonCandidate(text string) string {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
