package services

import (
	"context"
	"errors"
	"iter"
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
)

// passthroughNormaliser returns raw unchanged.
type passthroughNormaliser struct {
	err error
}

func (n *passthroughNormaliser) Name() string { return "passthrough" }

func (n *passthroughNormaliser) Normalise(_ context.Context, raw, _ string) (string, error) {
	if n.err != nil {
		return "", n.err
	}
	return strings.TrimSpace(raw), nil
}

// sentenceChunker emits one chunk per sentence ending in ". ".
type sentenceChunker struct{}

func (sentenceChunker) Size() int    { return 0 }
func (sentenceChunker) Overlap() int { return 0 }

func (sentenceChunker) Chunks(text string) iter.Seq[domain.Chunk] {
	return func(yield func(domain.Chunk) bool) {
		start := 0
		for i, part := range strings.SplitAfter(text, ". ") {
			if part == "" {
				continue
			}
			if !yield(domain.Chunk{Index: i, Start: start, Text: strings.TrimSpace(part)}) {
				return
			}
			start += len([]rune(part))
		}
	}
}

// keywordEmbedder maps text onto one dimension per keyword.
type keywordEmbedder struct {
	keywords []string
	failOn   map[string]error
	batchErr error
	calls    atomic.Int32
}

func newKeywordEmbedder(keywords ...string) *keywordEmbedder {
	return &keywordEmbedder{keywords: keywords, failOn: map[string]error{}}
}

func (e *keywordEmbedder) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(e.keywords)+1)
	for i, kw := range e.keywords {
		v[i] = float32(strings.Count(lower, kw))
	}
	v[len(e.keywords)] = 0.01
	return v
}

func (e *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls.Add(1)
	if err, ok := e.failOn[text]; ok {
		return nil, err
	}
	return e.vector(text), nil
}

func (e *keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)
	if e.batchErr != nil {
		return nil, e.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e *keywordEmbedder) Dimensions() int              { return len(e.keywords) + 1 }
func (e *keywordEmbedder) ModelName() string            { return "keywords" }
func (e *keywordEmbedder) Ping(_ context.Context) error { return nil }
func (e *keywordEmbedder) Close() error                 { return nil }

// scriptedLLM answers prompts by the first matching marker.
type scriptedLLM struct {
	mu      sync.Mutex
	replies []scriptedReply
	prompts []string
	delay   time.Duration
	calls   atomic.Int32
}

type scriptedReply struct {
	marker string
	text   string
	err    error
}

func (l *scriptedLLM) on(marker, text string, err error) *scriptedLLM {
	l.replies = append(l.replies, scriptedReply{marker: marker, text: text, err: err})
	return l
}

func (l *scriptedLLM) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	l.calls.Add(1)
	l.mu.Lock()
	l.prompts = append(l.prompts, prompt)
	l.mu.Unlock()

	if l.delay > 0 {
		select {
		case <-time.After(l.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	for _, r := range l.replies {
		if strings.Contains(prompt, r.marker) {
			return r.text, r.err
		}
	}
	return "", errors.New("no scripted reply")
}

func (l *scriptedLLM) promptsContaining(marker string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, p := range l.prompts {
		if strings.Contains(p, marker) {
			out = append(out, p)
		}
	}
	return out
}

func (l *scriptedLLM) ModelName() string            { return "scripted" }
func (l *scriptedLLM) Ping(_ context.Context) error { return nil }
func (l *scriptedLLM) Close() error                 { return nil }

// memIndex is an exact cosine index over entries.
type memIndex struct {
	entries []domain.IndexEntry
}

func (x *memIndex) Query(_ context.Context, vector []float32, k int) ([]domain.Hit, error) {
	hits := make([]domain.Hit, 0, len(x.entries))
	for _, e := range x.entries {
		hits = append(hits, domain.Hit{Chunk: e.Chunk, Score: cosine(vector, e.Vector)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func (x *memIndex) Entries() []domain.IndexEntry { return x.entries }
func (x *memIndex) Len() int                     { return len(x.entries) }

func (x *memIndex) Dimensions() int {
	if len(x.entries) == 0 {
		return 0
	}
	return len(x.entries[0].Vector)
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// memIndexStore keeps persisted indexes in a map keyed by fingerprint.
type memIndexStore struct {
	mu         sync.Mutex
	root       string
	indexes    map[string]*memIndex
	persists   int
	persistErr error
	active     atomic.Int32
	maxActive  atomic.Int32
}

func newMemIndexStore() *memIndexStore {
	return &memIndexStore{root: "/data", indexes: map[string]*memIndex{}}
}

func (s *memIndexStore) Build(entries []domain.IndexEntry) (driven.VectorIndex, error) {
	return &memIndex{entries: entries}, nil
}

func (s *memIndexStore) Persist(_ context.Context, fp string, index driven.VectorIndex) (string, error) {
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		m := s.maxActive.Load()
		if n <= m || s.maxActive.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persistErr != nil {
		return "", s.persistErr
	}
	s.persists++
	s.indexes[fp] = &memIndex{entries: index.Entries()}
	return s.Location(fp), nil
}

func (s *memIndexStore) Load(_ context.Context, fp string) (driven.VectorIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[fp]
	if !ok {
		return nil, domain.ErrIndexNotFound
	}
	return idx, nil
}

func (s *memIndexStore) Exists(fp string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.indexes[fp]
	return ok
}

func (s *memIndexStore) Location(fp string) string {
	return domain.IndexLocation(s.root, fp)
}

func (s *memIndexStore) Delete(_ context.Context, fp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.indexes, fp)
	return nil
}

func (s *memIndexStore) persistCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persists
}

// mapPromptStore serves prompts from a map.
type mapPromptStore map[string]string

func (m mapPromptStore) Load(name string) (string, error) {
	p, ok := m[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m mapPromptStore) Reload() {}

// recordingMetrics counts observations.
type recordingMetrics struct {
	mu        sync.Mutex
	ingests   map[string]int
	states    map[string]int
	llmCalls  map[string]int
	retrieval int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{ingests: map[string]int{}, states: map[string]int{}, llmCalls: map[string]int{}}
}

func (m *recordingMetrics) ObserveIngest(outcome string, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingests[outcome]++
}

func (m *recordingMetrics) ObserveScanState(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state]++
}

func (m *recordingMetrics) ObserveLLMCall(purpose string, _ error, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.llmCalls[purpose]++
}

func (m *recordingMetrics) ObserveRetrieval(_, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retrieval++
}

// policyHTML is long enough to pass the minimum content check.
const policyHTML = "We collect your location data for advertising. " +
	"We share personal data with third-party partners. " +
	"You may opt-out of tracking in the settings page. " +
	"Cookies are stored for ninety days on your device. "
