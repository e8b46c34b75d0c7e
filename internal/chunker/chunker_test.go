package chunker

import (
	"strings"
	"testing"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		if c.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, c.chunkSize)
		}
		if c.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, c.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		c := New(WithChunkSize(500))
		if c.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", c.chunkSize)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(150))
		if c.overlap >= c.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		c := New(WithChunkSize(0), WithOverlap(-1))
		if c.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", c.chunkSize)
		}
		if c.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", c.overlap)
		}
	})
}

func TestSpans_Empty(t *testing.T) {
	c := New()
	if spans := c.Spans(""); len(spans) != 0 {
		t.Errorf("expected 0 spans for empty text, got %d", len(spans))
	}
}

func TestSpans_ShortPage(t *testing.T) {
	c := New()
	text := "This page is shorter than one chunk."

	spans := c.Spans(text)
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Start != 0 || spans[0].End != len([]rune(text)) {
		t.Errorf("expected span covering whole page, got [%d,%d)", spans[0].Start, spans[0].End)
	}
	if spans[0].Text != text {
		t.Error("expected span text to match page text")
	}
}

func TestSpans_DefaultSizing(t *testing.T) {
	c := New()
	text := strings.Repeat("x", 1800)

	// With size 800 and overlap 200, step is 600:
	// spans should be [0,800), [600,1400), [1200,1800).
	spans := c.Spans(text)
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}

	want := [][2]int{{0, 800}, {600, 1400}, {1200, 1800}}
	for i, w := range want {
		if spans[i].Start != w[0] || spans[i].End != w[1] {
			t.Errorf("span %d: expected [%d,%d), got [%d,%d)",
				i, w[0], w[1], spans[i].Start, spans[i].End)
		}
	}

	// Last span may be shorter than the target size.
	if got := len(spans[2].Text); got != 600 {
		t.Errorf("expected final span length 600, got %d", got)
	}
}

func TestSpans_Coverage(t *testing.T) {
	c := New(WithChunkSize(10), WithOverlap(3))
	text := "0123456789ABCDEFGHIJ" // 20 chars

	spans := c.Spans(text)

	// Every character must be covered; overlap regions appear in exactly
	// two consecutive spans, the rest in exactly one.
	counts := make([]int, len(text))
	for _, span := range spans {
		for i := span.Start; i < span.End; i++ {
			counts[i]++
		}
	}
	for i, n := range counts {
		if n == 0 {
			t.Errorf("character %d not covered", i)
		}
		if n > 2 {
			t.Errorf("character %d covered %d times", i, n)
		}
	}

	// Consecutive spans overlap by exactly the configured overlap.
	for i := 1; i < len(spans); i++ {
		if got := spans[i-1].End - spans[i].Start; got != 3 {
			t.Errorf("spans %d/%d overlap by %d, expected 3", i-1, i, got)
		}
	}
}

func TestSpans_MultibyteText(t *testing.T) {
	c := New(WithChunkSize(4), WithOverlap(1))
	text := "héllo wörld"

	spans := c.Spans(text)
	runes := []rune(text)
	for _, span := range spans {
		if span.Text != string(runes[span.Start:span.End]) {
			t.Errorf("span [%d,%d): text %q does not match rune offsets", span.Start, span.End, span.Text)
		}
	}
}

func TestChunkPage(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(20))
	page := domain.ExtractedPage{Number: 2, Text: strings.Repeat("a", 250)}

	chunks := c.ChunkPage("res_1", page)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	seenIDs := make(map[string]bool)
	for _, chunk := range chunks {
		if chunk.ResumeID != "res_1" {
			t.Errorf("expected ResumeID 'res_1', got %q", chunk.ResumeID)
		}
		if chunk.Page != 2 {
			t.Errorf("expected page 2, got %d", chunk.Page)
		}
		if chunk.EndOffset <= chunk.StartOffset {
			t.Errorf("expected end > start, got [%d,%d)", chunk.StartOffset, chunk.EndOffset)
		}
		if seenIDs[chunk.ID] {
			t.Errorf("duplicate chunk ID: %s", chunk.ID)
		}
		seenIDs[chunk.ID] = true
	}

	// Offsets are monotonic within the page.
	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartOffset <= chunks[i-1].StartOffset {
			t.Errorf("chunk %d start %d not after previous start %d",
				i, chunks[i].StartOffset, chunks[i-1].StartOffset)
		}
	}
}

func TestChunkPage_EmptyPage(t *testing.T) {
	c := New()
	chunks := c.ChunkPage("res_1", domain.ExtractedPage{Number: 1, Text: ""})
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty page, got %d", len(chunks))
	}
}
