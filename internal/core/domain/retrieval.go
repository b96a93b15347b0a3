package domain

// SearchFilter narrows a vector search inside a tenant's collection.
type SearchFilter struct {
	DocumentID string
}

type RetrievedChunk struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Location   string  `json:"location,omitempty"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// Source is one cited document in an answer, deduplicated from the
// retrieved chunks and ordered by store ranking.
type Source struct {
	DocumentName string  `json:"document_name"`
	Score        float64 `json:"score"`
	Preview      string  `json:"preview,omitempty"`
}

type Answer struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// QueryTurn is one prior exchange supplied by the caller.
// The core never persists conversation state.
type QueryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
