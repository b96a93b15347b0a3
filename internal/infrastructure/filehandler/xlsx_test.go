package filehandler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", "Revenue"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	_ = wb.SetCellValue("Revenue", "A1", "Quarter")
	_ = wb.SetCellValue("Revenue", "B1", "Amount")
	_ = wb.SetCellValue("Revenue", "A2", "Q1")
	_ = wb.SetCellValue("Revenue", "B2", 125000)

	if _, err := wb.NewSheet("Notes"); err != nil {
		t.Fatalf("add sheet: %v", err)
	}
	_ = wb.SetCellValue("Notes", "A1", "audited figures")

	if _, err := wb.NewSheet("Empty"); err != nil {
		t.Fatalf("add sheet: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestXLSXExtract(t *testing.T) {
	path := writeWorkbook(t)

	handler := NewXLSXHandler()
	result, err := handler.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if !strings.Contains(result.Text, "=== Sheet 1: Revenue ===") {
		t.Fatalf("missing sheet marker in text:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "Quarter | Amount") {
		t.Fatalf("expected row cells joined with pipes, got:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "Q1 | 125000") {
		t.Fatalf("missing data row, got:\n%s", result.Text)
	}

	// The empty sheet contributes no section.
	if len(result.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(result.Sections))
	}
	if result.Sections[0].Label != "sheet Revenue" || result.Sections[1].Label != "sheet Notes" {
		t.Fatalf("unexpected section labels: %+v", result.Sections)
	}

	if result.Metadata["sheet_count"] != "3" {
		t.Fatalf("expected sheet_count 3, got %q", result.Metadata["sheet_count"])
	}
	if !strings.Contains(result.Metadata["sheet_names"], "Revenue") {
		t.Fatalf("expected sheet names metadata, got %q", result.Metadata["sheet_names"])
	}
}

func TestXLSXExtractRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	if err := os.WriteFile(path, []byte("this is not a zip archive"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	handler := NewXLSXHandler()
	_, err := handler.Extract(context.Background(), path)
	if !domain.IsKind(err, domain.ErrExtractionFailed) {
		t.Fatalf("expected extraction failure, got %v", err)
	}
}

func TestXLSXExtractHonorsCancellation(t *testing.T) {
	path := writeWorkbook(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handler := NewXLSXHandler()
	_, err := handler.Extract(ctx, path)
	if err == nil {
		t.Fatalf("expected context error")
	}
}
