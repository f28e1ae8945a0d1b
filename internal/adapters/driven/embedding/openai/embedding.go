// Package openai embeds policy chunks with the OpenAI embeddings API or any
// endpoint that speaks the same protocol.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driven/provider"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Defaults applied by NewEmbeddingService.
const (
	DefaultBaseURL      = "https://api.openai.com/v1"
	DefaultModel        = "text-embedding-3-small"
	DefaultTimeout      = 60 * time.Second
	DefaultMaxBatchSize = 256

	// fallbackDimensions is assumed for models missing from the known list.
	fallbackDimensions = 1536

	providerName = "openai"
)

// Config configures the embedding client.
type Config struct {
	// APIKey is required.
	APIKey string

	// BaseURL points at the API root, e.g. an Azure or self-hosted gateway.
	BaseURL string

	Model   string
	Timeout time.Duration

	// Dimensions shortens text-embedding-3-* vectors. Zero keeps the
	// model's native size.
	Dimensions int

	// MaxBatchSize bounds the inputs sent per request. A long policy is
	// split over several requests.
	MaxBatchSize int
}

// EmbeddingService embeds text over HTTP.
type EmbeddingService struct {
	client     *provider.Client
	model      string
	dimensions int
	sendDims   bool
	maxBatch   int
}

type embedRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewEmbeddingService validates cfg and applies defaults.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = DefaultMaxBatchSize
	}

	dims := cfg.Dimensions
	if dims == 0 {
		if known, ok := domain.EmbeddingDimensions()[cfg.Model]; ok {
			dims = known
		} else {
			dims = fallbackDimensions
		}
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.APIKey)

	return &EmbeddingService{
		client:     provider.NewClient(providerName, cfg.BaseURL, cfg.Timeout, header),
		model:      cfg.Model,
		dimensions: dims,
		sendDims:   strings.HasPrefix(cfg.Model, "text-embedding-3-"),
		maxBatch:   cfg.MaxBatchSize,
	}, nil
}

// Embed embeds a single text, typically a search query.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in order, splitting them over as many requests
// as MaxBatchSize requires.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += s.maxBatch {
		end := min(start+s.maxBatch, len(texts))
		vecs, err := s.embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (s *EmbeddingService) embed(ctx context.Context, texts []string) ([][]float32, error) {
	req := embedRequest{Model: s.model, Input: texts}
	if s.sendDims {
		req.Dimensions = s.dimensions
	}

	var resp embedResponse
	if err := s.client.PostJSON(ctx, "/embeddings", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("openai error: %s", resp.Error.Message)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai: %d embeddings returned for %d inputs", len(resp.Data), len(texts))
	}

	// The API may answer out of order; Index is authoritative.
	vecs := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("openai: embedding index %d out of range", d.Index)
		}
		v := make([]float32, len(d.Embedding))
		for i, x := range d.Embedding {
			v[i] = float32(x)
		}
		vecs[d.Index] = v
	}
	return vecs, nil
}

// Dimensions returns the vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the configured model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping lists models, which checks the key without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	_, err := s.client.Get(ctx, "/models")
	return err
}

// Close is a no-op.
func (s *EmbeddingService) Close() error {
	return nil
}
