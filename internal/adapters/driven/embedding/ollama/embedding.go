// Package ollama embeds policy chunks with a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driven/provider"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "nomic-embed-text"
	DefaultTimeout = 60 * time.Second

	// DefaultDimensions matches nomic-embed-text.
	DefaultDimensions = 768

	providerName = "ollama"
)

// Config configures the Ollama embedding client.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions overrides the vector size. Zero looks the model up in the
	// known list and falls back to DefaultDimensions.
	Dimensions int
}

// EmbeddingService embeds text through /api/embed.
type EmbeddingService struct {
	client     *provider.Client
	model      string
	dimensions int
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Error      string      `json:"error,omitempty"`
}

// NewEmbeddingService applies defaults.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
		if known, ok := domain.EmbeddingDimensions()[cfg.Model]; ok {
			cfg.Dimensions = known
		}
	}

	return &EmbeddingService{
		client:     provider.NewClient(providerName, cfg.BaseURL, cfg.Timeout, nil),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Embed embeds a single query.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request, preserving order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp embedResponse
	if err := s.client.PostJSON(ctx, "/api/embed", embedRequest{Model: s.model, Input: texts}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", resp.Error)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama: %d embeddings returned for %d inputs", len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		out[i] = toFloat32(e)
	}
	return out, nil
}

func toFloat32(in []float64) []float32 {
	v := make([]float32, len(in))
	for i, x := range in {
		v[i] = float32(x)
	}
	return v
}

// Dimensions returns the vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the configured model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping lists local models, which checks connectivity without inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	_, err := s.client.Get(ctx, "/api/tags")
	return err
}

// Close is a no-op.
func (s *EmbeddingService) Close() error {
	return nil
}
