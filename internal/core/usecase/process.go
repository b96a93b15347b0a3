package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
	"github.com/bizdocs-ai/bizdocs/internal/core/ports"
)

// ProcessDocumentUseCase drives one document through
// pending -> processing -> completed|failed. Failed is terminal;
// re-processing requires explicit re-submission. The per-document lease
// guarantees at most one in-flight run per document id.
type ProcessDocumentUseCase struct {
	repo     ports.DocumentRepository
	storage  ports.ObjectStorage
	registry ports.HandlerRegistry
	chunker  ports.Chunker
	embedder ports.Embedder
	vectorDB ports.VectorStore
	leases   *leaseTable
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	registry ports.HandlerRegistry,
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:     repo,
		storage:  storage,
		registry: registry,
		chunker:  chunker,
		embedder: embedder,
		vectorDB: vectorDB,
		leases:   newLeaseTable(),
	}
}

func (uc *ProcessDocumentUseCase) Process(ctx context.Context, tenantID, documentID string) error {
	if err := ValidateTenantID(tenantID); err != nil {
		return err
	}

	release, err := uc.leases.acquire(documentID)
	if err != nil {
		return err
	}
	defer release()

	doc, err := uc.repo.GetByID(ctx, tenantID, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	if err := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	chunkCount, err := uc.runPipeline(ctx, doc)
	if err != nil {
		// The uploaded file is retained on disk regardless of outcome.
		if failErr := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SetChunkCount(ctx, doc.ID, chunkCount); err != nil {
		return fmt.Errorf("record chunk count: %w", err)
	}
	if err := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusCompleted, ""); err != nil {
		return fmt.Errorf("set status=completed: %w", err)
	}
	return nil
}

// runPipeline executes parse -> chunk -> delete stale vectors -> embed
// -> index, strictly in that order, and returns the indexed chunk count.
func (uc *ProcessDocumentUseCase) runPipeline(ctx context.Context, doc *domain.Document) (int, error) {
	result, err := uc.extract(ctx, doc)
	if err != nil {
		return 0, err
	}

	chunks := uc.buildChunks(doc, result)
	if len(chunks) == 0 {
		return 0, domain.WrapError(domain.ErrEmptyContent, "chunk document", errors.New("no indexable text extracted"))
	}

	// Clear any vectors from a previous run before embedding so a
	// failure below never leaves stale and fresh data mixed.
	if err := uc.vectorDB.DeleteByDocument(ctx, doc.TenantID, doc.ID); err != nil {
		return 0, fmt.Errorf("delete stale vectors: %w", err)
	}

	vectors, err := uc.embed(ctx, chunks)
	if err != nil {
		return 0, err
	}

	if err := uc.vectorDB.IndexChunks(ctx, doc, chunks, vectors); err != nil {
		return 0, fmt.Errorf("index chunks in vector store: %w", err)
	}
	return len(chunks), nil
}

func (uc *ProcessDocumentUseCase) extract(ctx context.Context, doc *domain.Document) (domain.ExtractResult, error) {
	handler, err := uc.registry.Select(doc.FileType)
	if err != nil {
		return domain.ExtractResult{}, err
	}

	path, err := uc.storage.Locate(ctx, doc.TenantID, doc.StoragePath)
	if err != nil {
		return domain.ExtractResult{}, fmt.Errorf("locate stored file: %w", err)
	}

	result, err := handler.Extract(ctx, path)
	if err != nil {
		if domain.IsKind(err, domain.ErrExtractionFailed) {
			return domain.ExtractResult{}, err
		}
		return domain.ExtractResult{}, domain.WrapError(domain.ErrExtractionFailed, "extract text", err)
	}
	return result, nil
}

// buildChunks splits each extracted section and assigns contiguous
// 0-based indices across the whole document. Sectionless results are
// chunked as one unlabeled unit.
func (uc *ProcessDocumentUseCase) buildChunks(doc *domain.Document, result domain.ExtractResult) []domain.ChunkRecord {
	sections := result.Sections
	if len(sections) == 0 {
		sections = []domain.Section{{Text: result.Text}}
	}

	var chunks []domain.ChunkRecord
	for _, section := range sections {
		if strings.TrimSpace(section.Text) == "" {
			continue
		}
		for _, span := range uc.chunker.Split(section.Text) {
			chunks = append(chunks, domain.ChunkRecord{
				DocumentID: doc.ID,
				TenantID:   doc.TenantID,
				Index:      len(chunks),
				Text:       span.Text,
				Location:   section.Label,
				Start:      span.Start,
				End:        span.End,
			})
		}
	}
	return chunks
}

func (uc *ProcessDocumentUseCase) embed(ctx context.Context, chunks []domain.ChunkRecord) ([][]float32, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, domain.WrapError(
			domain.ErrEmbeddingCountMismatch,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(texts)),
		)
	}
	return vectors, nil
}
