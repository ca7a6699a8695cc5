package report

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Afrawles/dataproc/internal/bfhl"
)

const (
	summarySheet    = "Summary"
	categoriesSheet = "Categories"
)

type ExcelExporter struct {
	OutputDir string
}

func NewExcelExporter(outputDir string) *ExcelExporter {
	return &ExcelExporter{OutputDir: outputDir}
}

func (e *ExcelExporter) Export(resp *bfhl.Response, filename string) (string, error) {
	path := filepath.Join(e.OutputDir, filename)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return "", fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create style: %w", err)
	}

	if err := e.createSummarySheet(f, resp, headerStyle); err != nil {
		return "", fmt.Errorf("failed to create summary: %w", err)
	}

	if err := e.createCategoriesSheet(f, resp, headerStyle); err != nil {
		return "", fmt.Errorf("failed to create categories: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save excel file: %w", err)
	}

	return path, nil
}

func (e *ExcelExporter) createSummarySheet(f *excelize.File, resp *bfhl.Response, headerStyle int) error {
	upper := cases.Upper(language.English)

	if err := f.SetSheetRow(summarySheet, "A1", &[]any{"Field", "Value"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}

	for i, fld := range summaryFields(resp) {
		row := []any{upper.String(fld.name), fld.value}
		if err := f.SetSheetRow(summarySheet, cellName(1, i+2), &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(summarySheet, "A", "B", 28)
}

func (e *ExcelExporter) createCategoriesSheet(f *excelize.File, resp *bfhl.Response, headerStyle int) error {
	if _, err := f.NewSheet(categoriesSheet); err != nil {
		return err
	}

	for col, c := range resp.Categories() {
		col++
		header := cellName(col, 1)
		if err := f.SetCellValue(categoriesSheet, header, c.Title); err != nil {
			return err
		}
		if err := f.SetCellStyle(categoriesSheet, header, header, headerStyle); err != nil {
			return err
		}

		values := []any{"None"}
		if len(c.Values) > 0 {
			values = make([]any, len(c.Values))
			for i, v := range c.Values {
				values[i] = v.String()
			}
		}
		if err := f.SetSheetCol(categoriesSheet, cellName(col, 2), &values); err != nil {
			return err
		}
	}

	return f.SetColWidth(categoriesSheet, "A", "D", 24)
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnLetter(col), row)
}

func columnLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
