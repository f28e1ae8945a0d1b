package driven

import (
	"iter"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

// Chunker splits normalised text into overlapping fixed-size chunks.
type Chunker interface {
	// Chunks returns a lazy sequence of chunks covering text, earliest first.
	// The sequence may be ranged over any number of times.
	Chunks(text string) iter.Seq[domain.Chunk]

	// Size returns the target chunk length in characters.
	Size() int

	// Overlap returns the characters each chunk shares with its predecessor.
	Overlap() int
}
