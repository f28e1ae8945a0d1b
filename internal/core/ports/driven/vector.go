package driven

import (
	"context"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

// VectorIndex is an immutable similarity index over one document's chunks.
// It is safe for concurrent queries.
type VectorIndex interface {
	// Query returns up to k chunks ordered by descending cosine similarity
	// to vector. Equal scores keep original chunk order.
	Query(ctx context.Context, vector []float32, k int) ([]domain.Hit, error)

	// Entries returns the indexed chunks with their vectors in chunk order.
	Entries() []domain.IndexEntry

	// Dimensions returns the vector size.
	Dimensions() int

	// Len returns the number of indexed chunks.
	Len() int
}

// IndexStore builds vector indexes and persists them under
// <root>/<fingerprint>_index. A persisted artifact is self-contained;
// deleting its directory invalidates the document's cache.
type IndexStore interface {
	// Build constructs an in-memory index from embedded chunks.
	// Returns domain.ErrEmbeddingFailed wrapped if vectors are malformed.
	Build(entries []domain.IndexEntry) (VectorIndex, error)

	// Persist writes the index for fingerprint, replacing any prior artifact,
	// and returns its location.
	Persist(ctx context.Context, fingerprint string, index VectorIndex) (string, error)

	// Load reads the index for fingerprint.
	// Returns domain.ErrIndexNotFound wrapped if no artifact exists.
	Load(ctx context.Context, fingerprint string) (VectorIndex, error)

	// Exists reports whether an artifact exists for fingerprint.
	Exists(fingerprint string) bool

	// Location returns the artifact path for fingerprint.
	Location(fingerprint string) string

	// Delete removes the artifact for fingerprint. Missing artifacts are not an error.
	Delete(ctx context.Context, fingerprint string) error
}
