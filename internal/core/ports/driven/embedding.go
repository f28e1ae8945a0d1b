package driven

import "context"

// EmbeddingService maps text to fixed-length vectors.
// A given model must be deterministic: the same text yields the same vector,
// otherwise persisted indexes stop matching freshly embedded questions.
// Adapters exist for Ollama and OpenAI-compatible endpoints.
type EmbeddingService interface {
	// Embed embeds one text, typically a question or one of its variants.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the length of every returned vector.
	Dimensions() int

	// ModelName is recorded in index manifests so a model change is
	// detectable on load.
	ModelName() string

	Ping(ctx context.Context) error
	Close() error
}
