package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Afrawles/dataproc/internal/bfhl"
)

type CSVExporter struct {
	OutputDir string
}

func NewCSVExporter(outputDir string) *CSVExporter {
	return &CSVExporter{OutputDir: outputDir}
}

// Export writes one row per scalar field and one row per categorized token.
func (e *CSVExporter) Export(resp *bfhl.Response, filename string) (string, error) {
	path := filepath.Join(e.OutputDir, filename)
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.WriteAll(Rows(resp)); err != nil {
		return "", fmt.Errorf("failed to write csv: %w", err)
	}

	return path, nil
}

// Rows flattens resp into field/value pairs with a header row.
func Rows(resp *bfhl.Response) [][]string {
	rows := [][]string{{"Field", "Value"}}
	for _, f := range summaryFields(resp) {
		rows = append(rows, []string{f.name, f.value})
	}
	for _, c := range resp.Categories() {
		for _, v := range c.Values {
			rows = append(rows, []string{c.Title, v.String()})
		}
	}
	return rows
}

type field struct {
	name  string
	value string
}

func summaryFields(resp *bfhl.Response) []field {
	return []field{
		{"Status", resp.Status()},
		{"User ID", resp.UserID.String()},
		{"Email", resp.Email.String()},
		{"Roll Number", resp.RollNumber.String()},
		{"Sum of Numbers", resp.Sum.String()},
		{"Concatenated String", resp.ConcatString.String()},
	}
}
