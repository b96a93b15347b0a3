package filehandler

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
)

// DOCXHandler extracts paragraph and table text from the OOXML body of
// a Word archive. Table rows are joined with " | " like worksheet rows,
// so tabular context survives into retrieval.
type DOCXHandler struct{}

func NewDOCXHandler() *DOCXHandler { return &DOCXHandler{} }

func (h *DOCXHandler) Types() []string { return []string{"docx", "doc"} }

func (h *DOCXHandler) CanHandle(fileType string) bool {
	return fileType == "docx" || fileType == "doc"
}

func (h *DOCXHandler) Extract(ctx context.Context, path string) (domain.ExtractResult, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return domain.ExtractResult{}, domain.WrapError(domain.ErrExtractionFailed, "open word archive", err)
	}
	defer archive.Close()

	if err := ctx.Err(); err != nil {
		return domain.ExtractResult{}, err
	}

	raw, err := readArchiveFile(&archive.Reader, "word/document.xml")
	if err != nil {
		return domain.ExtractResult{}, domain.WrapError(domain.ErrExtractionFailed, "read document body", err)
	}

	var doc wordDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return domain.ExtractResult{}, domain.WrapError(domain.ErrExtractionFailed, "parse document body", err)
	}

	blocks := make([]string, 0, len(doc.Body.Paragraphs)+len(doc.Body.Tables))
	for _, para := range doc.Body.Paragraphs {
		if text := para.text(); text != "" {
			blocks = append(blocks, text)
		}
	}
	for _, table := range doc.Body.Tables {
		for _, row := range table.Rows {
			values := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				if text := cell.text(); text != "" {
					values = append(values, text)
				}
			}
			if len(values) > 0 {
				blocks = append(blocks, strings.Join(values, " | "))
			}
		}
	}

	metadata := map[string]string{
		"paragraph_count": strconv.Itoa(len(doc.Body.Paragraphs)),
		"table_count":     strconv.Itoa(len(doc.Body.Tables)),
	}
	title, author := readCoreProperties(&archive.Reader)
	if title != "" {
		metadata["title"] = title
	}
	if author != "" {
		metadata["author"] = author
	}

	return domain.ExtractResult{
		Text:     strings.Join(blocks, "\n\n"),
		Metadata: metadata,
	}, nil
}

// wordDocument mirrors the slice of word/document.xml we care about.
// encoding/xml matches the local element names, so the w: namespace
// prefix is irrelevant.
type wordDocument struct {
	Body struct {
		Paragraphs []wordParagraph `xml:"p"`
		Tables     []wordTable     `xml:"tbl"`
	} `xml:"body"`
}

type wordParagraph struct {
	Runs []struct {
		Text []string `xml:"t"`
	} `xml:"r"`
}

func (p wordParagraph) text() string {
	var b strings.Builder
	for _, run := range p.Runs {
		for _, t := range run.Text {
			b.WriteString(t)
		}
	}
	return strings.TrimSpace(b.String())
}

type wordTable struct {
	Rows []struct {
		Cells []wordTableCell `xml:"tc"`
	} `xml:"tr"`
}

type wordTableCell struct {
	Paragraphs []wordParagraph `xml:"p"`
}

func (c wordTableCell) text() string {
	parts := make([]string, 0, len(c.Paragraphs))
	for _, para := range c.Paragraphs {
		if text := para.text(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func readArchiveFile(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s is missing from the archive", name)
}

type coreProperties struct {
	Title   string `xml:"title"`
	Creator string `xml:"creator"`
}

// readCoreProperties pulls title and author from docProps/core.xml.
// The part is optional, so any failure just yields empty values.
func readCoreProperties(reader *zip.Reader) (title, author string) {
	raw, err := readArchiveFile(reader, "docProps/core.xml")
	if err != nil {
		return "", ""
	}
	var props coreProperties
	if err := xml.Unmarshal(raw, &props); err != nil {
		return "", ""
	}
	return strings.TrimSpace(props.Title), strings.TrimSpace(props.Creator)
}
