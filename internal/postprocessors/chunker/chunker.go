// Package chunker provides a fixed-size, overlapping text chunker.
//
// Sizes are counted in characters (runes), so multi-byte text is never split
// inside a character. Defaults favour short, fact-dense legal clauses: a
// 1000 character window with 400 characters of overlap keeps most clauses
// whole in at least one chunk, at the cost of embedding each character
// about 1.7 times. Larger windows with less overlap shrink the index and
// suit narrative text.
package chunker

import (
	"iter"
	"unicode/utf8"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 400

// Chunker splits text into fixed-size chunks, each sharing its first
// Overlap characters with the tail of the previous chunk.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't reach chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Size returns the chunk size in characters.
func (c *Chunker) Size() int {
	return c.chunkSize
}

// Overlap returns the overlap in characters.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunks returns the chunks of text, earliest first.
// The sequence is lazy and can be ranged over any number of times.
// Empty text produces no chunks; the last chunk ends at the end of text.
func (c *Chunker) Chunks(text string) iter.Seq[domain.Chunk] {
	return func(yield func(domain.Chunk) bool) {
		if text == "" {
			return
		}

		runes := []rune(text)
		total := len(runes)
		step := c.chunkSize - c.overlap

		for index, start := 0, 0; ; index, start = index+1, start+step {
			end := min(start+c.chunkSize, total)
			chunk := domain.Chunk{Index: index, Start: start, Text: string(runes[start:end])}
			if !yield(chunk) || end == total {
				return
			}
		}
	}
}

// Reassemble rebuilds the original text from chunks in order by dropping
// the part of each chunk that precedes the end of the text so far.
func Reassemble(chunks []domain.Chunk) string {
	var out []rune
	for _, c := range chunks {
		runes := []rune(c.Text)
		skip := len(out) - c.Start
		if skip < 0 || skip > len(runes) {
			skip = 0
		}
		out = append(out, runes[skip:]...)
	}
	return string(out)
}

// Count returns the number of chunks text produces without materialising them.
func (c *Chunker) Count(text string) int {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return 0
	}
	if total <= c.chunkSize {
		return 1
	}
	step := c.chunkSize - c.overlap
	return 1 + (total-c.chunkSize+step-1)/step
}
