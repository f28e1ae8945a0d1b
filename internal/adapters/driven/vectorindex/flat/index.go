package flat

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an immutable in-memory vector index. Safe for concurrent queries.
type Index struct {
	entries []domain.IndexEntry
	norms   []float64
	dims    int
}

// NewIndex builds an index from embedded chunks.
// Returns domain.ErrEmbeddingFailed wrapped if vectors are empty, ragged or
// not finite.
func NewIndex(entries []domain.IndexEntry) (*Index, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries to index", domain.ErrInvalidInput)
	}

	dims := len(entries[0].Vector)
	norms := make([]float64, len(entries))
	copied := make([]domain.IndexEntry, len(entries))
	for i, e := range entries {
		if len(e.Vector) == 0 || len(e.Vector) != dims {
			return nil, fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
				domain.ErrEmbeddingFailed, e.Chunk.Index, len(e.Vector), dims)
		}
		norm, ok := l2norm(e.Vector)
		if !ok {
			return nil, fmt.Errorf("%w: chunk %d vector is not finite", domain.ErrEmbeddingFailed, e.Chunk.Index)
		}
		norms[i] = norm
		copied[i] = domain.IndexEntry{Chunk: e.Chunk, Vector: slices.Clone(e.Vector)}
	}

	return &Index{entries: copied, norms: norms, dims: dims}, nil
}

// Query returns up to k chunks ordered by descending cosine similarity.
// Equal scores are ordered by chunk index.
func (x *Index) Query(ctx context.Context, vector []float32, k int) ([]domain.Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(vector) != x.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrEmbeddingFailed, len(vector), x.dims)
	}
	if k <= 0 {
		return []domain.Hit{}, nil
	}

	qnorm, ok := l2norm(vector)
	if !ok {
		return nil, fmt.Errorf("%w: query vector is not finite", domain.ErrEmbeddingFailed)
	}

	hits := make([]domain.Hit, len(x.entries))
	for i, e := range x.entries {
		hits[i] = domain.Hit{Chunk: e.Chunk, Score: cosine(vector, e.Vector, qnorm, x.norms[i])}
	}

	slices.SortStableFunc(hits, func(a, b domain.Hit) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return a.Chunk.Index - b.Chunk.Index
		}
	})

	return hits[:min(k, len(hits))], nil
}

// Entries returns the indexed chunks with their vectors.
func (x *Index) Entries() []domain.IndexEntry {
	return x.entries
}

// Dimensions returns the vector size.
func (x *Index) Dimensions() int {
	return x.dims
}

// Len returns the number of indexed chunks.
func (x *Index) Len() int {
	return len(x.entries)
}

func l2norm(v []float32) (float64, bool) {
	var sum float64
	for _, f := range v {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return 0, false
		}
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum), true
}

func cosine(a, b []float32, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (na * nb)
}
