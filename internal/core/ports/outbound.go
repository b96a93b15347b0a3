package ports

import (
	"context"
	"io"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
)

// DocumentRepository persists and reads document state. All reads are
// tenant-scoped; status updates address the document by id only because
// the processor already holds a verified document.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SetChunkCount(ctx context.Context, id string, chunkCount int) error
	CountCompletedByTenant(ctx context.Context, tenantID string) (int, error)
	Delete(ctx context.Context, tenantID, id string) error
}

// ObjectStorage stores source documents under per-tenant prefixes.
// Locate resolves a stored key to a local filesystem path for handlers
// that need random access to the file.
type ObjectStorage interface {
	Save(ctx context.Context, tenantID, key string, data io.Reader) (int64, error)
	Open(ctx context.Context, tenantID, key string) (io.ReadCloser, error)
	Locate(ctx context.Context, tenantID, key string) (string, error)
	Remove(ctx context.Context, tenantID, key string) error
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, tenantID, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(ctx context.Context, tenantID, documentID string) error) error
}

// FileHandler extracts plain text plus optional structured side-data
// from one file type family. Handlers never mutate tenant state.
type FileHandler interface {
	CanHandle(fileType string) bool
	Extract(ctx context.Context, path string) (domain.ExtractResult, error)
}

// HandlerRegistry selects a capable handler for a declared file type.
type HandlerRegistry interface {
	Select(fileType string) (FileHandler, error)
	SupportedTypes() []string
}

// Chunker splits text into bounded overlapping spans.
type Chunker interface {
	Split(text string) []domain.ChunkSpan
}

// Embedder builds vectors for chunk batches and query text. Ready is
// probed once at startup; a failure there is fatal to the process.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	Ready(ctx context.Context) error
}

// VectorStore is the tenant-isolated index of chunk vectors.
type VectorStore interface {
	IndexChunks(ctx context.Context, doc *domain.Document, chunks []domain.ChunkRecord, vectors [][]float32) error
	Search(ctx context.Context, tenantID string, queryVector []float32, topK int, filter domain.SearchFilter) ([]domain.RetrievedChunk, error)
	DeleteByDocument(ctx context.Context, tenantID, documentID string) error
	CollectionStats(ctx context.Context, tenantID string) (int, error)
	Ready(ctx context.Context) error
}

// AnswerGenerator creates the final user-facing answer. GenerateAnswer
// grounds the reply in retrieved chunks; GenerateGeneral is the
// no-documents fallback without a citation section.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question string, chunks []domain.RetrievedChunk, history []domain.QueryTurn) (string, error)
	GenerateGeneral(ctx context.Context, question string, history []domain.QueryTurn) (string, error)
}
