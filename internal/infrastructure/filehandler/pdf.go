package filehandler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
)

// PDFHandler extracts text page by page; every non-empty page becomes a
// section so chunks keep a "page N" location hint.
type PDFHandler struct{}

func NewPDFHandler() *PDFHandler { return &PDFHandler{} }

func (h *PDFHandler) Types() []string { return []string{"pdf"} }

func (h *PDFHandler) CanHandle(fileType string) bool { return fileType == "pdf" }

func (h *PDFHandler) Extract(ctx context.Context, path string) (domain.ExtractResult, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return domain.ExtractResult{}, domain.WrapError(domain.ErrExtractionFailed, "open pdf", err)
	}
	defer file.Close()

	totalPages := reader.NumPage()
	sections := make([]domain.Section, 0, totalPages)
	var full strings.Builder

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return domain.ExtractResult{}, err
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// One broken page is tolerated; an unreadable document
			// surfaces below as empty output or an open error.
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		sections = append(sections, domain.Section{
			Label: fmt.Sprintf("page %d", pageNum),
			Text:  text,
		})
		full.WriteString(text)
		full.WriteString("\n\n")
	}

	if len(sections) == 0 {
		return domain.ExtractResult{
			Metadata: map[string]string{"pages": strconv.Itoa(totalPages)},
		}, nil
	}

	return domain.ExtractResult{
		Text:     strings.TrimSpace(full.String()),
		Sections: sections,
		Metadata: map[string]string{"pages": strconv.Itoa(totalPages)},
	}, nil
}
