package driven

import "github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"

// AIConfigValidator reaches out to a provider before its settings are
// saved. Unconfigured settings are valid.
type AIConfigValidator interface {
	ValidateEmbedding(settings *domain.EmbeddingSettings) error
	ValidateLLM(settings *domain.LLMSettings) error
}
