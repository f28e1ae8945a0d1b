package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

const testURL = "https://example.com/privacy"

func newTestIngest(llm *scriptedLLM) (*IngestService, *memIndexStore, *keywordEmbedder) {
	embedder := newKeywordEmbedder("location", "third-party", "opt-out", "cookies")
	indexes := newMemIndexStore()
	svc := NewIngestService(&passthroughNormaliser{}, sentenceChunker{}, embedder, indexes, llm)
	return svc, indexes, embedder
}

func TestIngestService_Ingest_IndexesAndSummarises(t *testing.T) {
	llm := (&scriptedLLM{}).on("", "Risk: HIGH. Shares location data.", nil)
	svc, indexes, _ := newTestIngest(llm)
	metrics := newRecordingMetrics()
	svc.SetMetrics(metrics)

	result, err := svc.Ingest(context.Background(), testURL, policyHTML, "")

	require.NoError(t, err)
	fp := domain.Fingerprint(testURL)
	assert.Equal(t, fp, result.Fingerprint)
	assert.Equal(t, indexes.Location(fp), result.IndexLocation)
	assert.Equal(t, 4, result.Chunks)
	assert.Equal(t, "Risk: HIGH. Shares location data.", result.Summary)
	assert.False(t, result.SummaryReused)
	assert.True(t, indexes.Exists(fp))
	assert.Equal(t, 1, metrics.ingests[outcomeIndexed])
	assert.Equal(t, 1, metrics.llmCalls["summary"])
}

func TestIngestService_Ingest_ReusesCachedSummary(t *testing.T) {
	llm := &scriptedLLM{}
	svc, indexes, _ := newTestIngest(llm)

	result, err := svc.Ingest(context.Background(), testURL, policyHTML, "stored summary")

	require.NoError(t, err)
	assert.Equal(t, "stored summary", result.Summary)
	assert.True(t, result.SummaryReused)
	assert.Zero(t, llm.calls.Load())
	assert.True(t, indexes.Exists(domain.Fingerprint(testURL)))
}

func TestIngestService_Ingest_ContentTooShort(t *testing.T) {
	llm := &scriptedLLM{}
	svc, indexes, embedder := newTestIngest(llm)

	result, err := svc.Ingest(context.Background(), testURL, strings.Repeat("a", domain.MinContentLength-1), "")

	assert.ErrorIs(t, err, domain.ErrContentTooShort)
	assert.Equal(t, domain.ContentTooShortSummary, result.Summary)
	assert.Empty(t, result.IndexLocation)
	assert.Zero(t, embedder.calls.Load())
	assert.Zero(t, llm.calls.Load())
	assert.Zero(t, indexes.persistCount())
}

func TestIngestService_Ingest_ExactlyMinimumLengthIsAccepted(t *testing.T) {
	llm := (&scriptedLLM{}).on("", "ok", nil)
	svc, _, _ := newTestIngest(llm)

	_, err := svc.Ingest(context.Background(), testURL, strings.Repeat("é", domain.MinContentLength), "")

	assert.NoError(t, err)
}

func TestIngestService_Ingest_LLMFailureAnnotatesSummary(t *testing.T) {
	llm := (&scriptedLLM{}).on("", "", errors.New("quota exceeded"))
	svc, indexes, _ := newTestIngest(llm)

	result, err := svc.Ingest(context.Background(), testURL, policyHTML, "")

	require.NoError(t, err)
	assert.Equal(t, "AI Error: quota exceeded", result.Summary)
	assert.True(t, indexes.Exists(domain.Fingerprint(testURL)))
}

func TestIngestService_Ingest_CancelledSummaryIsAnError(t *testing.T) {
	llm := (&scriptedLLM{delay: time.Second}).on("", "Risk: LOW", nil)
	svc, _, _ := newTestIngest(llm)
	metrics := newRecordingMetrics()
	svc.SetMetrics(metrics)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for llm.calls.Load() == 0 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	result, err := svc.Ingest(ctx, testURL, policyHTML, "")

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Summary)
	assert.Equal(t, 1, metrics.ingests[outcomeFailed])
}

func TestIngestService_Ingest_WithoutLLM(t *testing.T) {
	svc := NewIngestService(&passthroughNormaliser{}, sentenceChunker{},
		newKeywordEmbedder("data"), newMemIndexStore(), nil)

	result, err := svc.Ingest(context.Background(), testURL, policyHTML, "")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Summary, domain.SummaryErrorPrefix))
}

func TestIngestService_Ingest_EmbeddingFailureLeavesNoArtifact(t *testing.T) {
	svc, indexes, embedder := newTestIngest(&scriptedLLM{})
	embedder.batchErr = errors.New("connection refused")

	_, err := svc.Ingest(context.Background(), testURL, policyHTML, "")

	assert.ErrorIs(t, err, domain.ErrEmbeddingFailed)
	assert.False(t, indexes.Exists(domain.Fingerprint(testURL)))
}

func TestIngestService_Ingest_NormaliserFailure(t *testing.T) {
	svc := NewIngestService(&passthroughNormaliser{err: errors.New("bad markup")}, sentenceChunker{},
		newKeywordEmbedder("data"), newMemIndexStore(), nil)

	_, err := svc.Ingest(context.Background(), testURL, policyHTML, "")

	assert.ErrorContains(t, err, "bad markup")
}

func TestIngestService_Ingest_UsesPromptStoreAndTruncatesContext(t *testing.T) {
	llm := (&scriptedLLM{}).on("CUSTOM", "custom summary", nil)
	svc, _, _ := newTestIngest(llm)
	svc.SetPromptStore(mapPromptStore{domain.PromptPolicySummary: "CUSTOM %s"})

	long := policyHTML + strings.Repeat("x", domain.SummaryContextChars)
	result, err := svc.Ingest(context.Background(), testURL, long, "")

	require.NoError(t, err)
	assert.Equal(t, "custom summary", result.Summary)
	prompts := llm.promptsContaining("CUSTOM")
	require.Len(t, prompts, 1)
	assert.Len(t, []rune(prompts[0]), len("CUSTOM ")+domain.SummaryContextChars)
}

func TestIngestService_Ingest_SerialisesSameFingerprint(t *testing.T) {
	llm := (&scriptedLLM{}).on("", "summary", nil)
	svc, indexes, _ := newTestIngest(llm)

	var wg sync.WaitGroup
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Ingest(context.Background(), testURL, policyHTML, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), indexes.maxActive.Load())
	assert.Equal(t, 6, indexes.persistCount())
}

func TestBuildIndex_RejectsMalformedVectors(t *testing.T) {
	tests := []struct {
		name    string
		vectors [][]float32
	}{
		{"count mismatch", [][]float32{{1, 0}}},
		{"empty vector", [][]float32{{}, {}}},
		{"ragged", [][]float32{{1, 0}, {1}}},
		{"nan", [][]float32{{1, 0}, {float32(math.NaN()), 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateVectors(tt.vectors, 2)
			assert.ErrorIs(t, err, domain.ErrEmbeddingFailed)
		})
	}
}

func TestBuildIndex_NoChunks(t *testing.T) {
	_, err := BuildIndex(context.Background(), newKeywordEmbedder("a"), newMemIndexStore(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuildIndex_BatchesEmbeddings(t *testing.T) {
	embedder := newKeywordEmbedder("a")
	chunks := make([]domain.Chunk, embedBatchSize+1)
	for i := range chunks {
		chunks[i] = domain.Chunk{Index: i, Text: "a"}
	}

	index, err := BuildIndex(context.Background(), embedder, newMemIndexStore(), chunks)

	require.NoError(t, err)
	assert.Equal(t, embedBatchSize+1, index.Len())
	assert.Equal(t, int32(2), embedder.calls.Load())
}
