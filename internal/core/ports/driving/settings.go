package driving

import "github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"

// SettingsService reads and edits the persisted configuration. It works
// without any AI provider configured, so the settings commands can repair a
// broken setup.
type SettingsService interface {
	// Get merges stored values, environment API keys and defaults.
	Get() (*domain.AppSettings, error)
	Save(settings *domain.AppSettings) error
	GetDefaults() domain.AppSettings

	// SetEmbeddingProvider and SetLLMProvider fall back to the provider's
	// default model when model is empty.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetChunking rejects an overlap that is not smaller than size.
	SetChunking(size, overlap int) error

	// Validate checks settings offline.
	Validate() error

	// ValidateEmbeddingConfig and ValidateLLMConfig ping the providers.
	ValidateEmbeddingConfig() error
	ValidateLLMConfig() error
}
