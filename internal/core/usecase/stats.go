package usecase

import (
	"context"
	"fmt"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
	"github.com/bizdocs-ai/bizdocs/internal/core/ports"
)

type TenantStatsUseCase struct {
	repo     ports.DocumentRepository
	vectorDB ports.VectorStore
}

func NewTenantStatsUseCase(repo ports.DocumentRepository, vectorDB ports.VectorStore) *TenantStatsUseCase {
	return &TenantStatsUseCase{
		repo:     repo,
		vectorDB: vectorDB,
	}
}

// Stats counts completed documents from metadata and indexed chunks
// from the tenant's collection. A tenant that never indexed anything
// has no collection and reports zero chunks.
func (uc *TenantStatsUseCase) Stats(ctx context.Context, tenantID string) (*domain.TenantStats, error) {
	if err := ValidateTenantID(tenantID); err != nil {
		return nil, err
	}

	completed, err := uc.repo.CountCompletedByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("count completed documents: %w", err)
	}
	chunks, err := uc.vectorDB.CollectionStats(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &domain.TenantStats{
		CompletedDocuments: completed,
		IndexedChunks:      chunks,
	}, nil
}
