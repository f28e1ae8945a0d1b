// Package ollama answers policy questions with a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driven/provider"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 180 * time.Second

	providerName = "ollama"
)

// LLMConfig configures the Ollama client. Local models are slow to load,
// hence the long default timeout.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService generates text through /api/generate without streaming.
type LLMService struct {
	client *provider.Client
	model  string
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options *sampleSettings `json:"options,omitempty"`
}

type sampleSettings struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewLLMService applies defaults. Ollama needs no credentials.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	return &LLMService{
		client: provider.NewClient(providerName, cfg.BaseURL, cfg.Timeout, nil),
		model:  cfg.Model,
	}
}

// Generate runs one completion.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := generateRequest{
		Model:  s.model,
		Prompt: prompt,
		Options: &sampleSettings{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
			Stop:        opts.StopWords,
		},
	}

	var resp generateResponse
	if err := s.client.PostJSON(ctx, "/api/generate", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("ollama error: %s", resp.Error)
	}
	return resp.Response, nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists local models.
func (s *LLMService) Ping(ctx context.Context) error {
	_, err := s.client.Get(ctx, "/api/tags")
	return err
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
