package domain

import "time"

type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

// Document is the metadata record for one uploaded file. The file body
// lives in object storage, its vectors in the tenant's collection.
type Document struct {
	ID          string         `json:"id"`
	TenantID    string         `json:"tenant_id"`
	Filename    string         `json:"filename"`
	FileType    string         `json:"file_type"`
	StoragePath string         `json:"storage_path"`
	SizeBytes   int64          `json:"size_bytes"`
	Status      DocumentStatus `json:"status"`
	ChunkCount  int            `json:"chunk_count"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ChunkRecord is one bounded text segment of a document, the unit of
// embedding and retrieval. Index is 0-based and contiguous within the
// document. Location is an optional source hint (page or sheet name).
type ChunkRecord struct {
	DocumentID string
	TenantID   string
	Index      int
	Text       string
	Location   string
	Start      int
	End        int
}
