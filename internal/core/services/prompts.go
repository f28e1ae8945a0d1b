package services

import (
	"time"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
	"github.com/NIT-JSR/PrivaShield-AI/internal/logger"
)

// loadPrompt loads a prompt from the store, falling back to the built-in
// template if the store is nil or fails.
func loadPrompt(store driven.PromptStore, name string) string {
	if store != nil {
		prompt, err := store.Load(name)
		if err == nil && prompt != "" {
			return prompt
		}
		logger.Debug("Prompt %q unavailable, using default: %v", name, err)
	}
	return domain.DefaultPrompts()[name]
}

// nopMetrics discards every measurement.
type nopMetrics struct{}

func (nopMetrics) ObserveIngest(string, int, time.Duration) {}
func (nopMetrics) ObserveScanState(string) {}
func (nopMetrics) ObserveLLMCall(string, error, time.Duration) {}
func (nopMetrics) ObserveRetrieval(int, int, time.Duration) {}

// metricsOrNop returns m, or a no-op implementation when m is nil.
func metricsOrNop(m driven.Metrics) driven.Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
