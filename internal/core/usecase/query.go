package usecase

import (
	"context"
	"fmt"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
	"github.com/bizdocs-ai/bizdocs/internal/core/ports"
)

const (
	defaultTopK = 5
	// Prior turns beyond this window are dropped from the prompt.
	historyWindow = 5
	// Cited chunk previews are truncated to keep responses small.
	sourcePreviewChars = 200
)

type QueryUseCase struct {
	repo      ports.DocumentRepository
	embedder  ports.Embedder
	vectorDB  ports.VectorStore
	generator ports.AnswerGenerator
	topK      int
}

func NewQueryUseCase(
	repo ports.DocumentRepository,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	generator ports.AnswerGenerator,
	topK int,
) *QueryUseCase {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &QueryUseCase{
		repo:      repo,
		embedder:  embedder,
		vectorDB:  vectorDB,
		generator: generator,
		topK:      topK,
	}
}

// Answer runs the retrieval pipeline: embed question, search the
// tenant's collection, assemble context and generate. Store ranking is
// used verbatim; no re-ranking happens here.
func (uc *QueryUseCase) Answer(
	ctx context.Context,
	tenantID, question string,
	topK int,
	history []domain.QueryTurn,
) (*domain.Answer, error) {
	if err := ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = uc.topK
	}
	history = boundHistory(history)

	queryVector, err := uc.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := uc.vectorDB.Search(ctx, tenantID, queryVector, topK, domain.SearchFilter{})
	if err != nil {
		return nil, fmt.Errorf("search vector store: %w", err)
	}

	if len(chunks) == 0 {
		completed, err := uc.repo.CountCompletedByTenant(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("count tenant documents: %w", err)
		}
		if completed == 0 {
			// Nothing indexed for this tenant: answer as a general
			// assistant, with no citation section.
			text, err := uc.generator.GenerateGeneral(ctx, question, history)
			if err != nil {
				return nil, fmt.Errorf("generate general answer: %w", err)
			}
			return &domain.Answer{Text: text, Sources: []domain.Source{}}, nil
		}
		// Documents exist but none matched: keep the document prompt
		// with an empty context section, never a system error.
	}

	text, err := uc.generator.GenerateAnswer(ctx, question, chunks, history)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Text:    text,
		Sources: dedupeSources(chunks),
	}, nil
}

func boundHistory(history []domain.QueryTurn) []domain.QueryTurn {
	if len(history) <= historyWindow {
		return history
	}
	return history[len(history)-historyWindow:]
}

// dedupeSources keeps one source per document, first occurrence wins so
// the store's ranking order is preserved and the best score sticks.
func dedupeSources(chunks []domain.RetrievedChunk) []domain.Source {
	sources := make([]domain.Source, 0, len(chunks))
	seen := make(map[string]struct{}, len(chunks))
	for _, chunk := range chunks {
		if _, ok := seen[chunk.Filename]; ok {
			continue
		}
		seen[chunk.Filename] = struct{}{}
		sources = append(sources, domain.Source{
			DocumentName: chunk.Filename,
			Score:        chunk.Score,
			Preview:      previewText(chunk.Text),
		})
	}
	return sources
}

func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= sourcePreviewChars {
		return text
	}
	return string(runes[:sourcePreviewChars]) + "..."
}
