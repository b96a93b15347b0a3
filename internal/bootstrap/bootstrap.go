package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bizdocs-ai/bizdocs/internal/config"
	"github.com/bizdocs-ai/bizdocs/internal/core/ports"
	"github.com/bizdocs-ai/bizdocs/internal/core/usecase"
	"github.com/bizdocs-ai/bizdocs/internal/infrastructure/chunking"
	"github.com/bizdocs-ai/bizdocs/internal/infrastructure/filehandler"
	"github.com/bizdocs-ai/bizdocs/internal/infrastructure/llm/ollama"
	"github.com/bizdocs-ai/bizdocs/internal/infrastructure/queue/nats"
	"github.com/bizdocs-ai/bizdocs/internal/infrastructure/repository/postgres"
	"github.com/bizdocs-ai/bizdocs/internal/infrastructure/resilience"
	"github.com/bizdocs-ai/bizdocs/internal/infrastructure/storage/localfs"
	"github.com/bizdocs-ai/bizdocs/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue    ports.MessageQueue
	Repo     ports.DocumentRepository
	Registry ports.HandlerRegistry

	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	QueryUC   ports.DocumentQueryService
	DeleteUC  ports.DocumentDeleter
	StatsUC   ports.TenantStatsReader

	closeFn func()
}

// New wires the full dependency graph. Readiness of the embedding and
// vector backends is probed here so a misconfigured process dies at
// startup instead of failing its first document.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, ollama.Options{
		QueryPrefix: cfg.OllamaQueryPrefix,
		Executor:    executor,
	})
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollectionPrefix, 0)

	if err := embedder.Ready(ctx); err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("embedding backend not ready: %w", err)
	}
	if err := vectorDB.Ready(ctx); err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("vector store not ready: %w", err)
	}

	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	registry := filehandler.NewRegistry(
		filehandler.NewPDFHandler(),
		filehandler.NewXLSXHandler(),
		filehandler.NewDOCXHandler(),
		filehandler.NewPlaintextHandler(),
	)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue, registry)
	processUC := usecase.NewProcessDocumentUseCase(repo, storage, registry, chunker, embedder, vectorDB)
	queryUC := usecase.NewQueryUseCase(repo, embedder, vectorDB, generator, cfg.RAGTopK)
	deleteUC := usecase.NewDeleteDocumentUseCase(repo, storage, vectorDB)
	statsUC := usecase.NewTenantStatsUseCase(repo, vectorDB)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:    queue,
		Repo:     repo,
		Registry: registry,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		QueryUC:   queryUC,
		DeleteUC:  deleteUC,
		StatsUC:   statsUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
