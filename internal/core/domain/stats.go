package domain

// TenantStats summarizes a tenant's indexed content.
type TenantStats struct {
	CompletedDocuments int `json:"completed_documents"`
	IndexedChunks      int `json:"indexed_chunks"`
}
