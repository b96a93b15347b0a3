package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
)

type ingestStorageFake struct {
	saveCalls int
	savedKey  string
	size      int64
}

func (f *ingestStorageFake) Save(_ context.Context, _ string, key string, data io.Reader) (int64, error) {
	f.saveCalls++
	f.savedKey = key
	n, err := io.Copy(io.Discard, data)
	if err != nil {
		return 0, err
	}
	f.size = n
	return n, nil
}

func (f *ingestStorageFake) Open(context.Context, string, string) (io.ReadCloser, error) {
	return nil, nil
}

func (f *ingestStorageFake) Locate(context.Context, string, string) (string, error) {
	return "", nil
}

func (f *ingestStorageFake) Remove(context.Context, string, string) error { return nil }

type queueFake struct {
	published []string
	pubErr    error
}

func (f *queueFake) PublishDocumentIngested(_ context.Context, tenantID, documentID string) error {
	if f.pubErr != nil {
		return f.pubErr
	}
	f.published = append(f.published, tenantID+"/"+documentID)
	return nil
}

func (f *queueFake) SubscribeDocumentIngested(context.Context, func(context.Context, string, string) error) error {
	return nil
}

func TestUploadSuccess(t *testing.T) {
	repo := &processRepoFake{}
	storage := &ingestStorageFake{}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(repo, storage, queue, &registryFake{handler: &handlerFake{}})

	doc, err := uc.Upload(context.Background(), "acme", "Q3 report.txt", "", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.Status != domain.StatusPending {
		t.Fatalf("expected pending status, got %s", doc.Status)
	}
	if doc.FileType != "txt" {
		t.Fatalf("expected file type derived from extension, got %q", doc.FileType)
	}
	if doc.SizeBytes != 5 {
		t.Fatalf("expected recorded size 5, got %d", doc.SizeBytes)
	}
	if !strings.HasPrefix(storage.savedKey, doc.ID) {
		t.Fatalf("storage key %q must embed the document id %q", storage.savedKey, doc.ID)
	}
	if strings.Contains(storage.savedKey, " ") {
		t.Fatalf("storage key must be sanitized, got %q", storage.savedKey)
	}
	if len(queue.published) != 1 || queue.published[0] != "acme/"+doc.ID {
		t.Fatalf("expected one ingestion event for acme/%s, got %v", doc.ID, queue.published)
	}
}

func TestUploadRejectsUnsupportedTypeBeforeStoring(t *testing.T) {
	storage := &ingestStorageFake{}
	registry := &registryFake{err: domain.WrapError(domain.ErrUnsupportedFileType, "select handler", errors.New("png"))}
	uc := NewIngestDocumentUseCase(&processRepoFake{}, storage, &queueFake{}, registry)

	_, err := uc.Upload(context.Background(), "acme", "photo.png", "", strings.NewReader("bytes"))
	if !domain.IsKind(err, domain.ErrUnsupportedFileType) {
		t.Fatalf("expected unsupported file type error, got %v", err)
	}
	if storage.saveCalls != 0 {
		t.Fatalf("rejected uploads must not reach storage, got %d saves", storage.saveCalls)
	}
}

func TestUploadRejectsInvalidTenant(t *testing.T) {
	uc := NewIngestDocumentUseCase(&processRepoFake{}, &ingestStorageFake{}, &queueFake{}, &registryFake{handler: &handlerFake{}})

	_, err := uc.Upload(context.Background(), "../evil", "a.txt", "txt", strings.NewReader("x"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestUploadPrefersDeclaredFileType(t *testing.T) {
	uc := NewIngestDocumentUseCase(&processRepoFake{}, &ingestStorageFake{}, &queueFake{}, &registryFake{handler: &handlerFake{}})

	doc, err := uc.Upload(context.Background(), "acme", "export.dat", "CSV", strings.NewReader("a,b"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.FileType != "csv" {
		t.Fatalf("expected declared type to win, got %q", doc.FileType)
	}
}

func TestNormalizeFileType(t *testing.T) {
	cases := []struct {
		declared string
		filename string
		want     string
	}{
		{"", "notes.TXT", "txt"},
		{".PDF", "whatever", "pdf"},
		{"xlsx", "book.csv", "xlsx"},
		{"", "no-extension", ""},
	}
	for _, tc := range cases {
		if got := NormalizeFileType(tc.declared, tc.filename); got != tc.want {
			t.Fatalf("NormalizeFileType(%q, %q) = %q, want %q", tc.declared, tc.filename, got, tc.want)
		}
	}
}
