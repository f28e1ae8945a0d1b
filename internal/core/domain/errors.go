package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrContentTooShort indicates the normalised text is below MinContentLength.
	// Callers must not cache this outcome; better input is the only remedy.
	ErrContentTooShort = errors.New("content too short to analyze")

	// ErrEmbeddingFailed indicates the embedding capability failed or returned
	// malformed vectors while building or querying an index. Retriable.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrIndexCorrupt indicates an index artifact exists but cannot be decoded.
	ErrIndexCorrupt = errors.New("index artifact corrupt")

	// ErrIndexNotFound indicates no index artifact exists for a fingerprint.
	// It is the stale-cache signal: the scan record may exist but the
	// artifact was wiped, and the document must be re-analysed.
	ErrIndexNotFound = errors.New("index not found")

	// ErrLLMFailed indicates a language-model call failed or returned
	// unusable output.
	ErrLLMFailed = errors.New("language model call failed")

	// ErrJSONExtraction indicates model output could not be parsed as a JSON object.
	ErrJSONExtraction = errors.New("failed to parse AI response")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates a provider rejected a call because of quota.
	ErrRateLimited = errors.New("rate limited")
)

// RateLimitError reports a quota rejection together with the provider's
// requested back-off. It matches ErrRateLimited with errors.Is.
type RateLimitError struct {
	// Provider names the rejecting service.
	Provider string

	// RetryAfter is the requested wait. Zero means unspecified.
	RetryAfter time.Duration
}

// Error implements error.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limited, retry after %s", e.Provider, e.RetryAfter)
	}
	return e.Provider + ": rate limited"
}

// Unwrap returns ErrRateLimited.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}
