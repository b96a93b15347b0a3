package ports

import (
	"context"
	"io"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, tenantID, filename, fileType string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	Process(ctx context.Context, tenantID, documentID string) error
}

// DocumentQueryService is the inbound contract for RAG question answering.
type DocumentQueryService interface {
	Answer(ctx context.Context, tenantID, question string, topK int, history []domain.QueryTurn) (*domain.Answer, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, tenantID, id string) (*domain.Document, error)
}

// TenantStatsReader reports how much content a tenant has indexed.
type TenantStatsReader interface {
	Stats(ctx context.Context, tenantID string) (*domain.TenantStats, error)
}

// DocumentDeleter removes a document, its stored file and its vectors.
type DocumentDeleter interface {
	Delete(ctx context.Context, tenantID, id string) error
}
