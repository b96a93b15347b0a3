package filehandler

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
)

// PlaintextHandler covers UTF-8 text formats. Registered last, it acts
// as the generic fallback behind the structured handlers.
type PlaintextHandler struct{}

func NewPlaintextHandler() *PlaintextHandler { return &PlaintextHandler{} }

var plaintextTypes = []string{"txt", "md", "markdown", "csv", "log"}

func (h *PlaintextHandler) Types() []string { return plaintextTypes }

func (h *PlaintextHandler) CanHandle(fileType string) bool {
	for _, t := range plaintextTypes {
		if fileType == t {
			return true
		}
	}
	return false
}

func (h *PlaintextHandler) Extract(_ context.Context, path string) (domain.ExtractResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.ExtractResult{}, domain.WrapError(domain.ErrExtractionFailed, "read text file", err)
	}
	if !utf8.Valid(raw) {
		return domain.ExtractResult{}, domain.WrapError(domain.ErrExtractionFailed, "read text file", fmt.Errorf("file is not valid UTF-8"))
	}

	text := strings.TrimSpace(string(raw))
	return domain.ExtractResult{
		Text: text,
		Metadata: map[string]string{
			"bytes": strconv.Itoa(len(raw)),
		},
	}, nil
}
