package domain

// Chunk is an overlapping segment of a normalised document.
type Chunk struct {
	// Index is the zero-based position of the chunk in the document.
	Index int `json:"index"`

	// Start is the rune offset of the chunk within the normalised text.
	Start int `json:"start"`

	// Text is the chunk content.
	Text string `json:"text"`
}

// IndexEntry pairs a chunk with its embedding.
type IndexEntry struct {
	Chunk  Chunk
	Vector []float32
}

// Hit is a single similarity match returned by a vector index query.
type Hit struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity between the query and the chunk.
	Score float64
}
