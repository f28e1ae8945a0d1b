package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Temperature is the sampling temperature used for every call.
	Temperature float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ResilienceSettings bounds calls to the rate-limited AI providers.
type ResilienceSettings struct {
	// RatePerSecond is the sustained LLM call rate. Zero disables limiting.
	RatePerSecond float64

	// MaxRetries is the number of retries after a failed call.
	MaxRetries int

	// BaseDelay is the first retry delay; later delays double.
	BaseDelay time.Duration
}

// ChunkerSettings holds chunking parameters.
//
// Smaller chunks with a large overlap favour precision on short, fact-dense
// legal clauses at the cost of more embeddings per document. Larger chunks
// suit narrative text and make the index smaller.
type ChunkerSettings struct {
	// Size is the target chunk length in characters.
	Size int

	// Overlap is the number of characters shared with the previous chunk.
	Overlap int
}

// NormaliserMode selects how markup is reduced to text.
type NormaliserMode string

// Normaliser modes.
const (
	// NormaliserMarkup strips tags and structural noise from the whole page.
	NormaliserMarkup NormaliserMode = "markup"

	// NormaliserReadability extracts the main article before stripping tags.
	NormaliserReadability NormaliserMode = "readability"
)

// IsValid returns true if the normaliser mode is recognised.
func (m NormaliserMode) IsValid() bool {
	return m == NormaliserMarkup || m == NormaliserReadability
}

// ScanCacheBackend selects where scan records are stored.
type ScanCacheBackend string

// Scan cache backends.
const (
	ScanCacheSQLite   ScanCacheBackend = "sqlite"
	ScanCachePostgres ScanCacheBackend = "postgres"
	ScanCacheRedis    ScanCacheBackend = "redis"
	ScanCacheMemory   ScanCacheBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b ScanCacheBackend) IsValid() bool {
	switch b {
	case ScanCacheSQLite, ScanCachePostgres, ScanCacheRedis, ScanCacheMemory:
		return true
	default:
		return false
	}
}

// StorageSettings holds durable storage configuration.
type StorageSettings struct {
	// Root is the directory holding <fingerprint>_index artifacts.
	Root string

	// ScanCache is the scan record backend.
	ScanCache ScanCacheBackend

	// DSN is the connection string for the postgres backend, or the database
	// directory for sqlite.
	DSN string

	// RedisAddr is the address for the redis backend.
	RedisAddr string

	// RedisPassword is the password for the redis backend.
	RedisPassword string

	// RedisDB is the database number for the redis backend.
	RedisDB int
}

// RetrievalSettings holds multi-query retrieval configuration.
type RetrievalSettings struct {
	// TopK is the number of chunks retrieved per query.
	TopK int

	// ExpandQueries enables LLM query expansion.
	ExpandQueries bool
}

// ServerSettings holds HTTP API configuration.
type ServerSettings struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string

	// LogFormat is "text" or "json".
	LogFormat string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding  EmbeddingSettings
	LLM        LLMSettings
	Resilience ResilienceSettings
	Chunker    ChunkerSettings
	Normaliser NormaliserMode
	Storage    StorageSettings
	Retrieval  RetrievalSettings
	Server     ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Cloud API keys are left empty and must come from config or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModels()[AIProviderOllama],
		},
		LLM: LLMSettings{
			Provider:    AIProviderGemini,
			Model:       DefaultLLMModels()[AIProviderGemini],
			Temperature: 0.3,
		},
		Resilience: ResilienceSettings{
			RatePerSecond: 2,
			MaxRetries:    2,
			BaseDelay:     500 * time.Millisecond,
		},
		Chunker: ChunkerSettings{
			Size:    1000,
			Overlap: 400,
		},
		Normaliser: NormaliserMarkup,
		Storage: StorageSettings{
			ScanCache: ScanCacheSQLite,
		},
		Retrieval: RetrievalSettings{
			TopK:          DefaultTopK,
			ExpandQueries: true,
		},
		Server: ServerSettings{
			Addr:      ":8000",
			LogFormat: "text",
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
		AIProviderGemini:    "gemini-2.5-flash-lite",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
