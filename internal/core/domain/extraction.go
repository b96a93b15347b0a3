package domain

// ExtractResult is what a file handler produces from one stored file.
// Sections are optional; when present each one becomes its own chunking
// unit and its label is carried into the chunks as a location hint.
type ExtractResult struct {
	Text     string
	Sections []Section
	Metadata map[string]string
}

type Section struct {
	Label string
	Text  string
}

// ChunkSpan is one segment produced by the chunker. Offsets are rune
// positions within the chunked text.
type ChunkSpan struct {
	Text  string
	Start int
	End   int
}
