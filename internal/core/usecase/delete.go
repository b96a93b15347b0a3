package usecase

import (
	"context"
	"fmt"

	"github.com/bizdocs-ai/bizdocs/internal/core/ports"
)

type DeleteDocumentUseCase struct {
	repo     ports.DocumentRepository
	storage  ports.ObjectStorage
	vectorDB ports.VectorStore
}

func NewDeleteDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	vectorDB ports.VectorStore,
) *DeleteDocumentUseCase {
	return &DeleteDocumentUseCase{
		repo:     repo,
		storage:  storage,
		vectorDB: vectorDB,
	}
}

// Delete removes the document's vectors, stored file and metadata row,
// in that order. Vectors go first so a partial failure can never leave
// searchable chunks behind an already-deleted document.
func (uc *DeleteDocumentUseCase) Delete(ctx context.Context, tenantID, id string) error {
	if err := ValidateTenantID(tenantID); err != nil {
		return err
	}

	doc, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	if err := uc.vectorDB.DeleteByDocument(ctx, tenantID, doc.ID); err != nil {
		return fmt.Errorf("delete document vectors: %w", err)
	}
	if err := uc.storage.Remove(ctx, tenantID, doc.StoragePath); err != nil {
		return fmt.Errorf("remove stored file: %w", err)
	}
	if err := uc.repo.Delete(ctx, tenantID, doc.ID); err != nil {
		return fmt.Errorf("delete document metadata: %w", err)
	}
	return nil
}
