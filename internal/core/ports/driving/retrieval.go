package driving

import (
	"context"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

// RetrievalService answers questions grounded in an indexed policy.
type RetrievalService interface {
	// Answer expands question, retrieves and deduplicates matching chunks
	// from the index of fingerprint and asks the LLM for a grounded answer.
	// Returns domain.ErrIndexNotFound wrapped if no index exists.
	Answer(ctx context.Context, question, fingerprint string) (*domain.Answer, error)
}
