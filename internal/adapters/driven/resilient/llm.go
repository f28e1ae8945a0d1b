package resilient

import (
	"context"
	"errors"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
	"github.com/NIT-JSR/PrivaShield-AI/internal/resilience"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Options configures the decorators.
type Options struct {
	// Limiter throttles calls. Nil disables throttling.
	Limiter *resilience.RateLimiter

	// Retry bounds re-attempts of failed calls.
	Retry resilience.RetryConfig
}

// OptionsFromSettings builds Options from the resilience settings.
// MaxRetries counts retries, so the attempt budget is one more.
func OptionsFromSettings(s domain.ResilienceSettings) Options {
	return Options{
		Limiter: resilience.NewRateLimiter(s.RatePerSecond, 1),
		Retry: resilience.RetryConfig{
			MaxAttempts:    max(s.MaxRetries, 0) + 1,
			InitialDelay:   s.BaseDelay,
			Multiplier:     2,
			JitterFraction: 0.1,
		},
	}
}

// LLMService wraps an LLMService with throttling and retries.
type LLMService struct {
	inner driven.LLMService
	opts  Options
}

// WrapLLM decorates inner. A nil inner is returned as nil.
func WrapLLM(inner driven.LLMService, opts Options) driven.LLMService {
	if inner == nil {
		return nil
	}
	return &LLMService{inner: inner, opts: opts}
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	var out string
	err := call(ctx, "llm.generate", s.opts, func(ctx context.Context) error {
		var err error
		out, err = s.inner.Generate(ctx, prompt, opts)
		return err
	})
	return out, err
}

// ModelName returns the name of the wrapped model.
func (s *LLMService) ModelName() string {
	return s.inner.ModelName()
}

// Ping checks the wrapped service once, without retries.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the wrapped service.
func (s *LLMService) Close() error {
	return s.inner.Close()
}

// call runs fn under the limiter and retry policy of opts.
func call(ctx context.Context, name string, opts Options, fn func(ctx context.Context) error) error {
	return resilience.Retry(ctx, name, opts.Retry, func(ctx context.Context) error {
		if opts.Limiter != nil {
			if err := opts.Limiter.Wait(ctx); err != nil {
				return err
			}
		}
		err := fn(ctx)
		var rl *domain.RateLimitError
		if opts.Limiter != nil && errors.As(err, &rl) {
			opts.Limiter.RecordRateLimit(rl.RetryAfter)
		}
		return err
	})
}
