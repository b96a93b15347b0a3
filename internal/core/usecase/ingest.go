package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
	"github.com/bizdocs-ai/bizdocs/internal/core/ports"
)

// Tenant ids feed directly into collection names and storage paths, so
// the accepted alphabet must keep that mapping injective.
var tenantIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

func ValidateTenantID(tenantID string) error {
	if !tenantIDPattern.MatchString(tenantID) {
		return domain.WrapError(domain.ErrInvalidInput, "validate tenant id", fmt.Errorf("tenant id %q must match %s", tenantID, tenantIDPattern.String()))
	}
	return nil
}

type IngestDocumentUseCase struct {
	repo     ports.DocumentRepository
	storage  ports.ObjectStorage
	queue    ports.MessageQueue
	registry ports.HandlerRegistry
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	registry ports.HandlerRegistry,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		repo:     repo,
		storage:  storage,
		queue:    queue,
		registry: registry,
	}
}

// Upload accepts the file, records a pending document and publishes an
// ingestion event. Unsupported declared types are rejected before any
// bytes are stored.
func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	tenantID, filename, fileType string,
	body io.Reader,
) (*domain.Document, error) {
	if err := ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	fileType = NormalizeFileType(fileType, filename)
	if fileType == "" {
		return nil, domain.WrapError(domain.ErrUnsupportedFileType, "upload", errors.New("file type could not be determined"))
	}
	if _, err := uc.registry.Select(fileType); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	size, err := uc.storage.Save(ctx, tenantID, storageKey, body)
	if err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:          id,
		TenantID:    tenantID,
		Filename:    filename,
		FileType:    fileType,
		StoragePath: storageKey,
		SizeBytes:   size,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	if err := uc.queue.PublishDocumentIngested(ctx, tenantID, doc.ID); err != nil {
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}

	return doc, nil
}

// NormalizeFileType prefers the declared type and falls back to the
// filename extension, lowercased without the dot.
func NormalizeFileType(declared, filename string) string {
	t := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(declared, ".")))
	if t == "" {
		t = strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	}
	return t
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
