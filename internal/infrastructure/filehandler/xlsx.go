package filehandler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
)

// XLSXHandler extracts every sheet of a workbook. Rows are joined with
// " | " so tabular context survives into retrieval; sheet names are
// reported as side metadata and as section labels.
type XLSXHandler struct{}

func NewXLSXHandler() *XLSXHandler { return &XLSXHandler{} }

func (h *XLSXHandler) Types() []string { return []string{"xlsx", "xlsm"} }

func (h *XLSXHandler) CanHandle(fileType string) bool {
	return fileType == "xlsx" || fileType == "xlsm"
}

func (h *XLSXHandler) Extract(ctx context.Context, path string) (domain.ExtractResult, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return domain.ExtractResult{}, domain.WrapError(domain.ErrExtractionFailed, "open workbook", err)
	}
	defer workbook.Close()

	sheetNames := workbook.GetSheetList()
	sections := make([]domain.Section, 0, len(sheetNames))
	var full strings.Builder

	for sheetIdx, sheetName := range sheetNames {
		if err := ctx.Err(); err != nil {
			return domain.ExtractResult{}, err
		}

		rows, err := workbook.GetRows(sheetName)
		if err != nil {
			return domain.ExtractResult{}, domain.WrapError(domain.ErrExtractionFailed, "read sheet "+sheetName, err)
		}

		var sheetText strings.Builder
		sheetText.WriteString(fmt.Sprintf("=== Sheet %d: %s ===\n", sheetIdx+1, sheetName))
		hasData := false
		for _, row := range rows {
			values := make([]string, 0, len(row))
			for _, cell := range row {
				cell = strings.TrimSpace(cell)
				if cell != "" {
					values = append(values, cell)
				}
			}
			if len(values) == 0 {
				continue
			}
			hasData = true
			sheetText.WriteString(strings.Join(values, " | "))
			sheetText.WriteString("\n")
		}
		if !hasData {
			continue
		}

		sections = append(sections, domain.Section{
			Label: "sheet " + sheetName,
			Text:  strings.TrimSpace(sheetText.String()),
		})
		full.WriteString(sheetText.String())
		full.WriteString("\n")
	}

	return domain.ExtractResult{
		Text:     strings.TrimSpace(full.String()),
		Sections: sections,
		Metadata: map[string]string{
			"sheet_count": strconv.Itoa(len(sheetNames)),
			"sheet_names": strings.Join(sheetNames, ","),
		},
	}, nil
}
