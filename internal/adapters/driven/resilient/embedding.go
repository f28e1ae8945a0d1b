package resilient

import (
	"context"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService wraps an EmbeddingService with throttling and retries.
type EmbeddingService struct {
	inner driven.EmbeddingService
	opts  Options
}

// WrapEmbedding decorates inner. A nil inner is returned as nil.
func WrapEmbedding(inner driven.EmbeddingService, opts Options) driven.EmbeddingService {
	if inner == nil {
		return nil
	}
	return &EmbeddingService{inner: inner, opts: opts}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := call(ctx, "embedding.embed", s.opts, func(ctx context.Context) error {
		var err error
		out, err = s.inner.Embed(ctx, text)
		return err
	})
	return out, err
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := call(ctx, "embedding.embed_batch", s.opts, func(ctx context.Context) error {
		var err error
		out, err = s.inner.EmbedBatch(ctx, texts)
		return err
	})
	return out, err
}

// Dimensions returns the wrapped vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the name of the wrapped model.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping checks the wrapped service once, without retries.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the wrapped service.
func (s *EmbeddingService) Close() error {
	return s.inner.Close()
}
