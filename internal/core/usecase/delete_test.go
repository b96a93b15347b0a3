package usecase

import (
	"context"
	"testing"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
)

type deleteRepoFake struct {
	processRepoFake
	deleted []string
	getErr  error
}

func (f *deleteRepoFake) GetByID(ctx context.Context, tenantID, id string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.processRepoFake.GetByID(ctx, tenantID, id)
}

func (f *deleteRepoFake) Delete(_ context.Context, tenantID, id string) error {
	f.deleted = append(f.deleted, tenantID+"/"+id)
	return nil
}

type deleteStorageFake struct {
	ingestStorageFake
	removed []string
}

func (f *deleteStorageFake) Remove(_ context.Context, tenantID, key string) error {
	f.removed = append(f.removed, tenantID+"/"+key)
	return nil
}

func TestDeleteRemovesVectorsFileAndRow(t *testing.T) {
	repo := &deleteRepoFake{processRepoFake: processRepoFake{
		doc: &domain.Document{ID: "doc-1", TenantID: "acme", StoragePath: "doc-1_report.pdf"},
	}}
	storage := &deleteStorageFake{}
	vector := &vectorFake{}
	uc := NewDeleteDocumentUseCase(repo, storage, vector)

	if err := uc.Delete(context.Background(), "acme", "doc-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(vector.ops) != 1 || vector.ops[0] != "delete" {
		t.Fatalf("expected one vector delete, got %v", vector.ops)
	}
	if len(storage.removed) != 1 || storage.removed[0] != "acme/doc-1_report.pdf" {
		t.Fatalf("unexpected storage removal: %v", storage.removed)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "acme/doc-1" {
		t.Fatalf("unexpected metadata deletion: %v", repo.deleted)
	}
}

func TestDeleteUnknownDocument(t *testing.T) {
	repo := &deleteRepoFake{getErr: domain.WrapError(domain.ErrDocumentNotFound, "get document", context.Canceled)}
	uc := NewDeleteDocumentUseCase(repo, &deleteStorageFake{}, &vectorFake{})

	err := uc.Delete(context.Background(), "acme", "ghost")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDeleteStopsWhenVectorDeleteFails(t *testing.T) {
	repo := &deleteRepoFake{processRepoFake: processRepoFake{
		doc: &domain.Document{ID: "doc-1", TenantID: "acme", StoragePath: "key"},
	}}
	storage := &deleteStorageFake{}
	vector := &vectorFake{deleteErr: domain.WrapError(domain.ErrVectorStoreUnavailable, "delete", context.DeadlineExceeded)}
	uc := NewDeleteDocumentUseCase(repo, storage, vector)

	err := uc.Delete(context.Background(), "acme", "doc-1")
	if !domain.IsKind(err, domain.ErrVectorStoreUnavailable) {
		t.Fatalf("expected vector store error, got %v", err)
	}
	if len(storage.removed) != 0 || len(repo.deleted) != 0 {
		t.Fatalf("file and metadata must survive a failed vector delete")
	}
}
