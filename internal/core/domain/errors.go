package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy. Every boundary (handlers, embedder, vector store,
// generator) surfaces one of these kinds; no call site converts a
// failure into an empty/success result.
var (
	ErrUnsupportedFileType    = errors.New("unsupported file type")
	ErrExtractionFailed       = errors.New("extraction failed")
	ErrEmptyContent           = errors.New("empty content")
	ErrEmbeddingUnavailable   = errors.New("embedding service unavailable")
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
	ErrGenerationFailed       = errors.New("answer generation failed")
	ErrAlreadyProcessing      = errors.New("document already processing")
	ErrDocumentNotFound       = errors.New("document not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrTemporary              = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
