package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks provider settings by building the adapter and
// pinging it. Unconfigured settings are valid: there is nothing to reach.
type ConfigValidator struct {
	timeout time.Duration
}

// NewConfigValidator uses the same ping timeout as Init.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{timeout: pingTimeout}
}

// WithTimeout returns a copy that waits at most d per ping.
func (v *ConfigValidator) WithTimeout(d time.Duration) *ConfigValidator {
	return &ConfigValidator{timeout: d}
}

// ValidateEmbedding pings the configured embedding provider.
func (v *ConfigValidator) ValidateEmbedding(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	svc, err := CreateEmbeddingService(settings)
	if err != nil || svc == nil {
		return err
	}
	return v.ping(svc, "embedding", settings.Provider)
}

// ValidateLLM pings the configured LLM provider.
func (v *ConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	svc, err := CreateLLMService(settings)
	if err != nil || svc == nil {
		return err
	}
	return v.ping(svc, "llm", settings.Provider)
}

type pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

func (v *ConfigValidator) ping(svc pinger, kind string, provider domain.AIProvider) error {
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%s provider %s unreachable: %w", kind, provider, err)
	}
	return nil
}

// ValidateEmbeddingConfig validates settings with the default validator.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	return NewConfigValidator().ValidateEmbedding(settings)
}

// ValidateLLMConfig validates settings with the default validator.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	return NewConfigValidator().ValidateLLM(settings)
}
