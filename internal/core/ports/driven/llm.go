package driven

import "context"

// LLMService turns a prompt into text. Every call may fail through timeout,
// quota or malformed output; callers decide whether a failure is fatal or
// absorbed. Adapters exist for Gemini, OpenAI, Anthropic and Ollama.
type LLMService interface {
	// Generate returns the completion for prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	ModelName() string

	// Ping checks reachability and credentials without running inference
	// where the provider allows it.
	Ping(ctx context.Context) error

	Close() error
}

// GenerateOptions tunes one Generate call. Zero values leave the provider
// default in place, except Temperature where zero means deterministic.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
	StopWords   []string
}
