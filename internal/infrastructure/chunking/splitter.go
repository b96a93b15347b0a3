package chunking

import (
	"strings"
	"unicode"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
)

const (
	defaultChunkSize = 900
	// A preferred break point is only taken past this fraction of the
	// target size, so chunks never shrink below half the target.
	minBreakRatio = 0.5
)

// Splitter greedily accumulates runes up to ChunkSize, preferring to
// break at a paragraph and then a sentence boundary inside the
// tolerance window. Each chunk after the first starts Overlap runes
// before the previous chunk's end.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

func (s *Splitter) Split(text string) []domain.ChunkSpan {
	runes := []rune(text)
	if len(strings.TrimSpace(text)) == 0 {
		return nil
	}

	minBreak := int(float64(s.ChunkSize) * minBreakRatio)
	out := make([]domain.ChunkSpan, 0, len(runes)/s.ChunkSize+1)

	start := 0
	for start < len(runes) {
		end := start + s.ChunkSize
		if end >= len(runes) {
			end = len(runes)
		} else if brk := preferredBreak(runes[start:end]); brk > minBreak {
			end = start + brk
		}

		// Offsets track the trimmed text, so Text is always the
		// substring runes[Start:End].
		trimStart, trimEnd := start, end
		for trimStart < trimEnd && unicode.IsSpace(runes[trimStart]) {
			trimStart++
		}
		for trimEnd > trimStart && unicode.IsSpace(runes[trimEnd-1]) {
			trimEnd--
		}
		if trimEnd > trimStart {
			out = append(out, domain.ChunkSpan{
				Text:  string(runes[trimStart:trimEnd]),
				Start: trimStart,
				End:   trimEnd,
			})
		}
		if end == len(runes) {
			break
		}

		next := end - s.Overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return out
}

// preferredBreak returns the offset just past the last paragraph break,
// or failing that the last sentence end, inside the window. 0 means no
// usable boundary.
func preferredBreak(window []rune) int {
	text := string(window)
	if idx := strings.LastIndex(text, "\n\n"); idx >= 0 {
		return len([]rune(text[:idx])) + 2
	}
	if idx := strings.LastIndex(text, ". "); idx >= 0 {
		return len([]rune(text[:idx])) + 1
	}
	if idx := strings.LastIndex(text, "\n"); idx >= 0 {
		return len([]rune(text[:idx])) + 1
	}
	return 0
}
