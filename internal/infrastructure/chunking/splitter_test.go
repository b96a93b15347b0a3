package chunking

import (
	"strings"
	"testing"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(100, 20)

	spans := s.Split("just a short note")
	if len(spans) != 1 {
		t.Fatalf("expected a single chunk, got %d", len(spans))
	}
	if spans[0].Text != "just a short note" {
		t.Fatalf("unexpected chunk text %q", spans[0].Text)
	}
	if spans[0].Start != 0 {
		t.Fatalf("expected chunk to start at 0, got %d", spans[0].Start)
	}
}

func TestSplitEmptyAndWhitespace(t *testing.T) {
	s := NewSplitter(100, 20)

	if spans := s.Split(""); spans != nil {
		t.Fatalf("expected nil for empty input, got %v", spans)
	}
	if spans := s.Split("  \n\t  "); spans != nil {
		t.Fatalf("expected nil for whitespace input, got %v", spans)
	}
}

func TestSplitRespectsChunkSize(t *testing.T) {
	s := NewSplitter(50, 10)
	text := strings.Repeat("word ", 100)

	spans := s.Split(text)
	if len(spans) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(spans))
	}
	for i, span := range spans {
		if n := len([]rune(span.Text)); n > 50 {
			t.Fatalf("chunk %d exceeds size limit: %d runes", i, n)
		}
	}
}

func TestSplitPrefersParagraphBreak(t *testing.T) {
	s := NewSplitter(60, 0)
	first := strings.Repeat("a", 40)
	second := strings.Repeat("b", 40)
	text := first + "\n\n" + second

	spans := s.Split(text)
	if len(spans) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(spans))
	}
	if spans[0].Text != first {
		t.Fatalf("expected first chunk to end at the paragraph break, got %q", spans[0].Text)
	}
	if spans[1].Text != second {
		t.Fatalf("unexpected second chunk %q", spans[1].Text)
	}
}

func TestSplitOverlapCarriesContext(t *testing.T) {
	s := NewSplitter(50, 10)
	text := strings.Repeat("x", 200)

	spans := s.Split(text)
	if len(spans) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(spans))
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].Start >= spans[i-1].End {
			t.Fatalf("chunk %d does not overlap its predecessor: start=%d prev end=%d", i, spans[i].Start, spans[i-1].End)
		}
	}
}

func TestSplitMultiByteRunes(t *testing.T) {
	s := NewSplitter(30, 5)
	text := strings.Repeat("привет мир ", 20)

	spans := s.Split(text)
	if len(spans) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(spans))
	}
	for i, span := range spans {
		if !strings.Contains(text, span.Text) {
			t.Fatalf("chunk %d is not a substring of the input: %q", i, span.Text)
		}
		if n := len([]rune(span.Text)); n > 30 {
			t.Fatalf("chunk %d exceeds the rune limit: %d", i, n)
		}
	}
}

func TestSplitOffsetsBoundTrimmedText(t *testing.T) {
	s := NewSplitter(25, 5)
	text := "  first sentence here.  \n\nвторой абзац текста\n\n  third block  "

	spans := s.Split(text)
	if len(spans) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(spans))
	}
	runes := []rune(text)
	for i, span := range spans {
		if span.Start < 0 || span.End > len(runes) || span.Start >= span.End {
			t.Fatalf("chunk %d has invalid offsets [%d, %d)", i, span.Start, span.End)
		}
		if got := string(runes[span.Start:span.End]); got != span.Text {
			t.Fatalf("chunk %d offsets do not bound its text: %q vs %q", i, got, span.Text)
		}
	}
}

func TestNewSplitterNormalizesArguments(t *testing.T) {
	s := NewSplitter(0, -5)
	if s.ChunkSize != defaultChunkSize || s.Overlap != 0 {
		t.Fatalf("unexpected defaults: size=%d overlap=%d", s.ChunkSize, s.Overlap)
	}

	s = NewSplitter(100, 100)
	if s.Overlap >= s.ChunkSize {
		t.Fatalf("overlap must stay below chunk size, got %d/%d", s.Overlap, s.ChunkSize)
	}
}
