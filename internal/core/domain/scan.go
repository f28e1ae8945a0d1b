package domain

import "time"

// ScanRecord is the cached metadata for one analysed policy.
// There is at most one record per fingerprint.
type ScanRecord struct {
	// Fingerprint is the digest of URL and the record's unique key.
	Fingerprint string `json:"fingerprint"`

	// URL is the source identifier the policy was fetched from.
	URL string `json:"url"`

	// Summary is the generated risk summary.
	Summary string `json:"summary"`

	// IndexPath is where the vector index artifact was persisted.
	IndexPath string `json:"index_path"`

	// CreatedAt is when the record was first written.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the record was last rewritten.
	UpdatedAt time.Time `json:"updated_at"`
}

// ScanState is the cache state of a policy.
type ScanState string

// Scan states.
const (
	// ScanStateAbsent means no scan record exists.
	ScanStateAbsent ScanState = "absent"

	// ScanStateIndexed means a record exists and its index artifact is on disk.
	ScanStateIndexed ScanState = "indexed"

	// ScanStateStale means a record exists but its index artifact is missing,
	// typically after ephemeral storage was wiped by a restart.
	ScanStateStale ScanState = "stale"
)

// String returns the string representation.
func (s ScanState) String() string {
	return string(s)
}

// ResolveScanState decides the cache state of a policy from its record and
// whether the artifact the record points at exists.
func ResolveScanState(record *ScanRecord, artifactExists bool) ScanState {
	switch {
	case record == nil:
		return ScanStateAbsent
	case record.IndexPath == "" || !artifactExists:
		return ScanStateStale
	default:
		return ScanStateIndexed
	}
}

// ScanStatus describes how an analyze request was served.
type ScanStatus string

// Scan statuses returned by analyze.
const (
	// ScanStatusCached means the stored summary was returned without work.
	ScanStatusCached ScanStatus = "cached"

	// ScanStatusProcessedNew means the policy was (re)ingested.
	ScanStatusProcessedNew ScanStatus = "processed_new"
)

// IngestResult is the outcome of ingesting one policy.
type IngestResult struct {
	// Fingerprint is the digest of the source identifier.
	Fingerprint string

	// Summary is the risk summary, or an error-annotated string.
	Summary string

	// IndexLocation is where the index was persisted.
	// Empty means there was not enough extractable content.
	IndexLocation string

	// Chunks is the number of chunks indexed.
	Chunks int

	// SummaryReused is true when a cached summary was returned verbatim.
	SummaryReused bool
}

// AnalyzeResult is the outcome of an analyze request.
type AnalyzeResult struct {
	Status  ScanStatus `json:"status"`
	Summary string     `json:"summary"`
}

// Answer is a grounded answer to one question.
type Answer struct {
	// Text is the model's answer returned verbatim.
	Text string `json:"answer"`

	// Queries are the search queries used, the original question first.
	Queries []string `json:"queries,omitempty"`

	// Context holds the unique chunk texts the answer was grounded in.
	Context []string `json:"context,omitempty"`
}
