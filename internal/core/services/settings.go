package services

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyLLMTemperature   = "llm.temperature"
	keyLLMRate          = "llm.rate_per_second"
	keyLLMMaxRetries    = "llm.max_retries"
	keyLLMRetryDelay    = "llm.retry_delay"
	keyChunkSize        = "chunker.chunk_size"
	keyChunkOverlap     = "chunker.chunk_overlap"
	keyNormaliser       = "normaliser.mode"
	keyStorageRoot      = "storage.root"
	keyScanCacheBackend = "scancache.backend"
	keyScanCacheDSN     = "scancache.dsn"
	keyRedisAddr        = "redis.addr"
	keyRedisPassword    = "redis.password"
	keyRedisDB          = "redis.db"
	keyTopK             = "retrieval.top_k"
	keyExpandQueries    = "retrieval.expand_queries"
	keyServerAddr       = "server.addr"
	keyLogFormat        = "server.log_format"
)

// Environment variables consulted when no API key is configured.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
var apiKeyEnv = map[domain.AIProvider][]string{
	domain.AIProviderOpenAI:    {"OPENAI_API_KEY"},
	domain.AIProviderAnthropic: {"ANTHROPIC_API_KEY"},
	domain.AIProviderGemini:    {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings.
// API keys missing from the config file are taken from the environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:       s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			Temperature: s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
		},
		Resilience: domain.ResilienceSettings{
			RatePerSecond: s.getFloat(keyLLMRate, defaults.Resilience.RatePerSecond),
			MaxRetries:    s.getInt(keyLLMMaxRetries, defaults.Resilience.MaxRetries),
			BaseDelay:     s.getDuration(keyLLMRetryDelay, defaults.Resilience.BaseDelay),
		},
		Chunker: domain.ChunkerSettings{
			Size:    s.getInt(keyChunkSize, defaults.Chunker.Size),
			Overlap: s.getInt(keyChunkOverlap, defaults.Chunker.Overlap),
		},
		Normaliser: s.getNormaliser(defaults.Normaliser),
		Storage: domain.StorageSettings{
			Root:          s.configStore.GetString(keyStorageRoot),
			ScanCache:     s.getScanCache(defaults.Storage.ScanCache),
			DSN:           s.configStore.GetString(keyScanCacheDSN),
			RedisAddr:     s.configStore.GetString(keyRedisAddr),
			RedisPassword: s.configStore.GetString(keyRedisPassword),
			RedisDB:       s.configStore.GetInt(keyRedisDB),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:          s.getInt(keyTopK, defaults.Retrieval.TopK),
			ExpandQueries: s.getBool(keyExpandQueries, defaults.Retrieval.ExpandQueries),
		},
		Server: domain.ServerSettings{
			Addr:      s.getString(keyServerAddr, defaults.Server.Addr),
			LogFormat: s.getString(keyLogFormat, defaults.Server.LogFormat),
		},
	}

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.envAPIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.envAPIKey(settings.LLM.Provider)
	}

	return settings, nil
}

// Save persists application settings.
// API keys are only written when set, so environment keys never leak into the file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTemperature, settings.LLM.Temperature},
		{keyLLMRate, settings.Resilience.RatePerSecond},
		{keyLLMMaxRetries, settings.Resilience.MaxRetries},
		{keyLLMRetryDelay, settings.Resilience.BaseDelay.String()},
		{keyChunkSize, settings.Chunker.Size},
		{keyChunkOverlap, settings.Chunker.Overlap},
		{keyNormaliser, string(settings.Normaliser)},
		{keyStorageRoot, settings.Storage.Root},
		{keyScanCacheBackend, string(settings.Storage.ScanCache)},
		{keyScanCacheDSN, settings.Storage.DSN},
		{keyRedisAddr, settings.Storage.RedisAddr},
		{keyRedisDB, settings.Storage.RedisDB},
		{keyTopK, settings.Retrieval.TopK},
		{keyExpandQueries, settings.Retrieval.ExpandQueries},
		{keyServerAddr, settings.Server.Addr},
		{keyLogFormat, settings.Server.LogFormat},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	secrets := []struct {
		key   string
		value string
	}{
		{keyEmbedAPIKey, settings.Embedding.APIKey},
		{keyLLMAPIKey, settings.LLM.APIKey},
		{keyRedisPassword, settings.Storage.RedisPassword},
	}
	for _, v := range secrets {
		if v.value == "" {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" && s.envAPIKey(provider) == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" && s.envAPIKey(provider) == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, domain.DefaultLLMModels()[provider])
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetChunking configures chunk size and overlap.
func (s *SettingsService) SetChunking(size, overlap int) error {
	if size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", domain.ErrInvalidInput)
	}
	if overlap < 0 || overlap >= size {
		return fmt.Errorf("%w: chunk overlap must be in [0, %d)", domain.ErrInvalidInput, size)
	}

	if err := s.configStore.Set(keyChunkSize, size); err != nil {
		return fmt.Errorf("save %s: %w", keyChunkSize, err)
	}
	if err := s.configStore.Set(keyChunkOverlap, overlap); err != nil {
		return fmt.Errorf("save %s: %w", keyChunkOverlap, err)
	}
	return nil
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not configured", settings.Embedding.Provider)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q is not configured", settings.LLM.Provider)
	}
	if settings.Chunker.Size <= 0 || settings.Chunker.Overlap < 0 {
		return fmt.Errorf("invalid chunker settings: size %d, overlap %d",
			settings.Chunker.Size, settings.Chunker.Overlap)
	}
	if !settings.Storage.ScanCache.IsValid() {
		return fmt.Errorf("invalid scan cache backend: %s", settings.Storage.ScanCache)
	}
	if settings.Storage.ScanCache == domain.ScanCachePostgres && settings.Storage.DSN == "" {
		return fmt.Errorf("scan cache backend postgres requires %s", keyScanCacheDSN)
	}
	if settings.Storage.ScanCache == domain.ScanCacheRedis && settings.Storage.RedisAddr == "" {
		return fmt.Errorf("scan cache backend redis requires %s", keyRedisAddr)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getNormaliser(defaultVal domain.NormaliserMode) domain.NormaliserMode {
	mode := domain.NormaliserMode(s.configStore.GetString(keyNormaliser))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getScanCache(defaultVal domain.ScanCacheBackend) domain.ScanCacheBackend {
	backend := domain.ScanCacheBackend(s.configStore.GetString(keyScanCacheBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) envAPIKey(provider domain.AIProvider) string {
	for _, name := range apiKeyEnv[provider] {
		if val, ok := s.lookupEnv(name); ok && val != "" {
			return val
		}
	}
	return ""
}

func modelOrDefault(model, defaultModel string) string {
	if model != "" {
		return model
	}
	return defaultModel
}

// baseURLFor keeps a custom endpoint for local providers and clears it for cloud ones.
func baseURLFor(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return "http://localhost:11434"
	}
	return current
}
