package chunker

import (
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		if c.Size() != DefaultChunkSize {
			t.Errorf("expected chunk size %d, got %d", DefaultChunkSize, c.Size())
		}
		if c.Overlap() != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, c.Overlap())
		}
	})

	t.Run("custom values", func(t *testing.T) {
		c := New(WithChunkSize(2000), WithOverlap(200))
		if c.Size() != 2000 || c.Overlap() != 200 {
			t.Errorf("expected 2000/200, got %d/%d", c.Size(), c.Overlap())
		}
	})

	t.Run("overlap reaching chunk size is reduced", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(100))
		if c.Overlap() != 25 {
			t.Errorf("expected overlap 25, got %d", c.Overlap())
		}
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		c := New(WithChunkSize(0), WithOverlap(-1))
		if c.Size() != DefaultChunkSize {
			t.Errorf("expected default chunk size, got %d", c.Size())
		}
		if c.Overlap() != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", c.Overlap())
		}
	})
}

func TestChunks_Empty(t *testing.T) {
	chunks := slices.Collect(New().Chunks(""))
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
}

func TestChunks_SmallText(t *testing.T) {
	text := "We collect your email address."
	chunks := slices.Collect(New(WithChunkSize(100), WithOverlap(20)).Chunks(text))

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text || chunks[0].Index != 0 || chunks[0].Start != 0 {
		t.Errorf("unexpected chunk: %+v", chunks[0])
	}
}

func TestChunks_Overlap(t *testing.T) {
	c := New(WithChunkSize(10), WithOverlap(3))
	chunks := slices.Collect(c.Chunks("0123456789ABCDEFGHIJ"))

	want := []domain.Chunk{
		{Index: 0, Start: 0, Text: "0123456789"},
		{Index: 1, Start: 7, Text: "789ABCDEFG"},
		{Index: 2, Start: 14, Text: "EFGHIJ"},
	}
	if !slices.Equal(chunks, want) {
		t.Errorf("expected %+v, got %+v", want, chunks)
	}
}

func TestChunks_StopsAtEndOfText(t *testing.T) {
	// 17 characters with step 7: the second chunk already reaches the end.
	chunks := slices.Collect(New(WithChunkSize(10), WithOverlap(3)).Chunks("0123456789ABCDEFG"))

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[1].Text != "789ABCDEFG" {
		t.Errorf("unexpected last chunk %q", chunks[1].Text)
	}
}

func TestChunks_NoOverlap(t *testing.T) {
	chunks := slices.Collect(New(WithChunkSize(50), WithOverlap(0)).Chunks(strings.Repeat("a", 100)))
	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(chunks))
	}
}

func TestChunks_MultiByte(t *testing.T) {
	text := strings.Repeat("données personnelles ", 20)
	c := New(WithChunkSize(30), WithOverlap(10))

	for chunk := range c.Chunks(text) {
		if !utf8.ValidString(chunk.Text) {
			t.Fatalf("chunk %d is not valid UTF-8", chunk.Index)
		}
		if n := utf8.RuneCountInString(chunk.Text); n > 30 {
			t.Errorf("chunk %d has %d characters", chunk.Index, n)
		}
	}
}

func TestChunks_Restartable(t *testing.T) {
	seq := New(WithChunkSize(10), WithOverlap(2)).Chunks(strings.Repeat("abc", 20))

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Error("expected ranging twice to produce the same chunks")
	}
}

func TestChunks_EarlyBreak(t *testing.T) {
	count := 0
	for range New(WithChunkSize(10), WithOverlap(2)).Chunks(strings.Repeat("x", 1000)) {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Errorf("expected to stop after 3 chunks, got %d", count)
	}
}

func TestReassemble_RoundTrip(t *testing.T) {
	texts := []string{
		"",
		"short",
		strings.Repeat("We may share your data with affiliates. ", 80),
		strings.Repeat("私たちはデータを収集します。", 150),
	}
	configs := []struct{ size, overlap int }{
		{1000, 400},
		{2000, 200},
		{10, 9},
		{7, 0},
	}

	for _, text := range texts {
		for _, cfg := range configs {
			c := New(WithChunkSize(cfg.size), WithOverlap(cfg.overlap))
			chunks := slices.Collect(c.Chunks(text))
			if got := Reassemble(chunks); got != text {
				t.Errorf("size %d overlap %d: reassembled text differs (len %d vs %d)",
					cfg.size, cfg.overlap, len(got), len(text))
			}
			if got := c.Count(text); got != len(chunks) {
				t.Errorf("size %d overlap %d: Count %d, collected %d", cfg.size, cfg.overlap, got, len(chunks))
			}
		}
	}
}
