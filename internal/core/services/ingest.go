package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driving"
	"github.com/NIT-JSR/PrivaShield-AI/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// embedBatchSize bounds the number of chunks sent per embedding request.
const embedBatchSize = 32

// Ingestion outcomes reported to metrics.
const (
	outcomeIndexed  = "indexed"
	outcomeTooShort = "too_short"
	outcomeFailed   = "failed"
)

// IngestService turns raw policy markup into a persisted vector index and a
// risk summary.
type IngestService struct {
	normaliser  driven.Normaliser
	chunker     driven.Chunker
	embedder    driven.EmbeddingService
	indexes     driven.IndexStore
	llm         driven.LLMService
	prompts     driven.PromptStore
	metrics     driven.Metrics
	locks       *KeyedMutex
	temperature float64
}

// NewIngestService creates a new ingest service.
// The llm parameter is optional; without it summaries are error-annotated.
func NewIngestService(
	normaliser driven.Normaliser,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	indexes driven.IndexStore,
	llm driven.LLMService,
) *IngestService {
	return &IngestService{
		normaliser:  normaliser,
		chunker:     chunker,
		embedder:    embedder,
		indexes:     indexes,
		llm:         llm,
		metrics:     nopMetrics{},
		locks:       NewKeyedMutex(),
		temperature: 0.3,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *IngestService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetMetrics sets the metrics recorder.
func (s *IngestService) SetMetrics(m driven.Metrics) {
	s.metrics = metricsOrNop(m)
}

// SetTemperature sets the sampling temperature for summaries.
func (s *IngestService) SetTemperature(t float64) {
	s.temperature = t
}

// Ingest normalises raw, indexes it under the fingerprint of source and
// summarises it unless cachedSummary is supplied.
func (s *IngestService) Ingest(
	ctx context.Context, source, raw, cachedSummary string,
) (domain.IngestResult, error) {
	start := time.Now()
	fingerprint := domain.Fingerprint(source)
	result := domain.IngestResult{Fingerprint: fingerprint}

	logger.Section("Policy Ingestion")
	logger.Debug("Source: %s (fingerprint %s)", source, fingerprint)

	text, err := s.normaliser.Normalise(ctx, raw, source)
	if err != nil {
		s.metrics.ObserveIngest(outcomeFailed, 0, time.Since(start))
		return result, fmt.Errorf("normalise: %w", err)
	}

	length := utf8.RuneCountInString(text)
	logger.Debug("Normalised with %s: %d characters", s.normaliser.Name(), length)
	if length < domain.MinContentLength {
		logger.WarnContext(ctx, "Content too short to analyze (%d < %d)", length, domain.MinContentLength)
		s.metrics.ObserveIngest(outcomeTooShort, 0, time.Since(start))
		result.Summary = domain.ContentTooShortSummary
		return result, domain.ErrContentTooShort
	}

	location, chunks, err := s.index(ctx, fingerprint, text)
	if err != nil {
		s.metrics.ObserveIngest(outcomeFailed, 0, time.Since(start))
		return result, err
	}
	result.IndexLocation = location
	result.Chunks = chunks

	if cachedSummary != "" {
		logger.Info("Reusing cached summary for %s", fingerprint)
		result.Summary = cachedSummary
		result.SummaryReused = true
	} else {
		summary, err := s.summarise(ctx, text)
		if err != nil {
			s.metrics.ObserveIngest(outcomeFailed, chunks, time.Since(start))
			return result, fmt.Errorf("summarise: %w", err)
		}
		result.Summary = summary
	}

	s.metrics.ObserveIngest(outcomeIndexed, chunks, time.Since(start))
	logger.Info("Indexed %d chunks at %s in %s", chunks, location, time.Since(start).Round(time.Millisecond))
	return result, nil
}

// index chunks, embeds and persists text while holding the fingerprint lock,
// so concurrent ingestions of one document never interleave their writes.
func (s *IngestService) index(ctx context.Context, fingerprint, text string) (string, int, error) {
	unlock, err := s.locks.Lock(ctx, fingerprint)
	if err != nil {
		return "", 0, fmt.Errorf("acquire index lock: %w", err)
	}
	defer unlock()

	chunks := slices.Collect(s.chunker.Chunks(text))
	logger.Debug("Chunked into %d chunks (size %d, overlap %d)",
		len(chunks), s.chunker.Size(), s.chunker.Overlap())

	index, err := BuildIndex(ctx, s.embedder, s.indexes, chunks)
	if err != nil {
		return "", 0, err
	}

	location, err := s.indexes.Persist(ctx, fingerprint, index)
	if err != nil {
		return "", 0, fmt.Errorf("persist index: %w", err)
	}

	return location, len(chunks), nil
}

// summarise asks the LLM for a risk summary of the lead of the policy.
// LLM failures are folded into the returned text; only the end of ctx is
// returned as an error, so a cancelled request never becomes a summary.
func (s *IngestService) summarise(ctx context.Context, text string) (string, error) {
	if s.llm == nil {
		logger.WarnContext(ctx, "LLM unavailable, summary skipped")
		return domain.SummaryErrorPrefix + domain.ErrLLMUnavailable.Error(), nil
	}

	template := loadPrompt(s.prompts, domain.PromptPolicySummary)
	prompt := fmt.Sprintf(template, domain.Truncate(text, domain.SummaryContextChars))

	start := time.Now()
	summary, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{Temperature: s.temperature})
	s.metrics.ObserveLLMCall("summary", err, time.Since(start))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		logger.WarnContext(ctx, "Summary generation failed: %v", err)
		return domain.SummaryErrorPrefix + err.Error(), nil
	}

	return strings.TrimSpace(summary), nil
}

// BuildIndex embeds every chunk and builds an in-memory index from them.
// Embedding failures and malformed vectors are reported as
// domain.ErrEmbeddingFailed.
func BuildIndex(
	ctx context.Context,
	embedder driven.EmbeddingService,
	indexes driven.IndexStore,
	chunks []domain.Chunk,
) (driven.VectorIndex, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks to index", domain.ErrInvalidInput)
	}

	entries := make([]domain.IndexEntry, 0, len(chunks))
	for batch := range slices.Chunk(chunks, embedBatchSize) {
		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
		}
		if err := validateVectors(vectors, len(batch)); err != nil {
			return nil, err
		}

		for i, c := range batch {
			entries = append(entries, domain.IndexEntry{Chunk: c, Vector: vectors[i]})
		}
	}

	index, err := indexes.Build(entries)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	return index, nil
}

// errMalformedVectors is wrapped with domain.ErrEmbeddingFailed.
var errMalformedVectors = errors.New("malformed embedding vectors")

// validateVectors checks the embedder returned one finite, non-empty
// vector per input with consistent dimensions.
func validateVectors(vectors [][]float32, want int) error {
	if len(vectors) != want {
		return fmt.Errorf("%w: %w: got %d vectors for %d texts",
			domain.ErrEmbeddingFailed, errMalformedVectors, len(vectors), want)
	}
	dims := len(vectors[0])
	for i, v := range vectors {
		if len(v) == 0 || len(v) != dims {
			return fmt.Errorf("%w: %w: vector %d has %d dimensions, expected %d",
				domain.ErrEmbeddingFailed, errMalformedVectors, i, len(v), dims)
		}
		for _, x := range v {
			if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
				return fmt.Errorf("%w: %w: vector %d is not finite",
					domain.ErrEmbeddingFailed, errMalformedVectors, i)
			}
		}
	}
	return nil
}
