package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driving"
	"github.com/NIT-JSR/PrivaShield-AI/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// contextSeparator joins retrieved chunks in the answer prompt.
const contextSeparator = "\n\n"

// RetrievalService answers questions with multi-query retrieval over a
// persisted policy index.
type RetrievalService struct {
	embedder    driven.EmbeddingService
	indexes     driven.IndexStore
	llm         driven.LLMService
	prompts     driven.PromptStore
	metrics     driven.Metrics
	topK        int
	expand      bool
	temperature float64
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	indexes driven.IndexStore,
	llm driven.LLMService,
) *RetrievalService {
	return &RetrievalService{
		embedder:    embedder,
		indexes:     indexes,
		llm:         llm,
		metrics:     nopMetrics{},
		topK:        domain.DefaultTopK,
		expand:      true,
		temperature: 0.3,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *RetrievalService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetMetrics sets the metrics recorder.
func (s *RetrievalService) SetMetrics(m driven.Metrics) {
	s.metrics = metricsOrNop(m)
}

// SetTopK sets the number of chunks retrieved per query.
// Non-positive values restore the default.
func (s *RetrievalService) SetTopK(k int) {
	if k <= 0 {
		k = domain.DefaultTopK
	}
	s.topK = k
}

// SetQueryExpansion enables or disables paraphrasing the question.
func (s *RetrievalService) SetQueryExpansion(enabled bool) {
	s.expand = enabled
}

// SetTemperature sets the sampling temperature for answers.
func (s *RetrievalService) SetTemperature(t float64) {
	s.temperature = t
}

// Answer expands question, retrieves from the index of fingerprint and asks
// the LLM for an answer grounded in the retrieved chunks.
func (s *RetrievalService) Answer(
	ctx context.Context, question, fingerprint string,
) (*domain.Answer, error) {
	logger.Section("Question Answering")

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	// A missing index is reported as such whether or not an LLM is configured.
	index, err := s.indexes.Load(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	logger.Debug("Loaded index %s: %d chunks", fingerprint, index.Len())

	start := time.Now()
	queries := s.queries(ctx, question)
	chunks, err := s.retrieve(ctx, index, queries)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRetrieval(len(queries), len(chunks), time.Since(start))
	logger.Debug("Retrieved %d unique chunks for %d queries", len(chunks), len(queries))

	template := loadPrompt(s.prompts, domain.PromptGroundedAnswer)
	prompt := fmt.Sprintf(template, strings.Join(chunks, contextSeparator), question)

	genStart := time.Now()
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{Temperature: s.temperature})
	s.metrics.ObserveLLMCall("answer", err, time.Since(genStart))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMFailed, err)
	}

	return &domain.Answer{Text: text, Queries: queries, Context: chunks}, nil
}

// queries returns the original question followed by its paraphrases.
// Expansion failures degrade to the question alone.
func (s *RetrievalService) queries(ctx context.Context, question string) []string {
	queries := []string{question}
	if !s.expand {
		return queries
	}

	template := loadPrompt(s.prompts, domain.PromptQueryExpansion)
	start := time.Now()
	out, err := s.llm.Generate(ctx, fmt.Sprintf(template, question), driven.GenerateOptions{Temperature: s.temperature})
	s.metrics.ObserveLLMCall("expansion", err, time.Since(start))
	if err != nil {
		logger.WarnContext(ctx, "Query expansion failed, using original question only: %v", err)
		return queries
	}

	variants := ParseVariants(out, domain.ExpansionVariants)
	logger.Debug("Expanded into %d variants: %q", len(variants), variants)
	return append(queries, variants...)
}

// ParseVariants reads up to limit non-empty lines from model output,
// stripping any list markers the model added despite instructions.
func ParseVariants(out string, limit int) []string {
	var variants []string
	for line := range strings.Lines(out) {
		if len(variants) == limit {
			break
		}
		line = stripListMarker(strings.TrimSpace(line))
		if line != "" {
			variants = append(variants, line)
		}
	}
	return variants
}

// stripListMarker removes a leading "1.", "2)", "-" or "*" marker.
func stripListMarker(line string) string {
	if rest, ok := strings.CutPrefix(line, "- "); ok {
		return strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutPrefix(line, "* "); ok {
		return strings.TrimSpace(rest)
	}

	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(line) && (line[digits] == '.' || line[digits] == ')') {
		return strings.TrimSpace(line[digits+1:])
	}
	return line
}

// retrieve searches the index once per query concurrently and merges the
// hits. A failure on the original question is fatal; failures on variants
// only shrink the result.
func (s *RetrievalService) retrieve(
	ctx context.Context, index driven.VectorIndex, queries []string,
) ([]string, error) {
	results := make([][]domain.Hit, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		g.Go(func() error {
			hits, err := s.search(gctx, index, query)
			if err != nil {
				if i == 0 {
					return err
				}
				logger.WarnContext(ctx, "Retrieval for variant %q failed: %v", query, err)
				return nil
			}
			results[i] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return MergeUnique(results), nil
}

func (s *RetrievalService) search(
	ctx context.Context, index driven.VectorIndex, query string,
) ([]domain.Hit, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
	}
	return index.Query(ctx, vector, s.topK)
}

// MergeUnique flattens per-query hits in query order, keeping the first
// occurrence of each distinct chunk text.
func MergeUnique(results [][]domain.Hit) []string {
	seen := make(map[string]struct{})
	var merged []string
	for _, hits := range results {
		for _, hit := range hits {
			if _, ok := seen[hit.Chunk.Text]; ok {
				continue
			}
			seen[hit.Chunk.Text] = struct{}{}
			merged = append(merged, hit.Chunk.Text)
		}
	}
	return merged
}
