package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Afrawles/dataproc/internal/bfhl"
)

type Exporter struct {
	OutputDir string
}

func NewExporter(outputDir string) *Exporter {
	return &Exporter{OutputDir: outputDir}
}

// Export writes resp in every requested format and returns the written paths.
func (e *Exporter) Export(resp *bfhl.Response, formats []string) ([]string, error) {
	if len(formats) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := fmt.Sprintf("result_%s", time.Now().Format("20060102_150405"))

	var written []string
	for _, format := range formats {
		var path string
		var err error

		switch format {
		case "json":
			path, err = e.ExportJSON(resp, base+".json")
		case "csv":
			path, err = NewCSVExporter(e.OutputDir).Export(resp, base+".csv")
		case "xlsx":
			path, err = NewExcelExporter(e.OutputDir).Export(resp, base+".xlsx")
		default:
			err = fmt.Errorf("unsupported format %q", format)
		}
		if err != nil {
			return written, fmt.Errorf("failed to export %s: %w", format, err)
		}
		written = append(written, path)
	}

	return written, nil
}

// ExportJSON writes the body exactly as received, indented.
func (e *Exporter) ExportJSON(resp *bfhl.Response, filename string) (string, error) {
	data, err := IndentedJSON(resp)
	if err != nil {
		return "", err
	}

	path := filepath.Join(e.OutputDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// IndentedJSON returns the raw body when present, otherwise the encoded value.
func IndentedJSON(resp *bfhl.Response) ([]byte, error) {
	if len(resp.Raw) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, resp.Raw, "", "\t"); err != nil {
			return nil, fmt.Errorf("failed to indent response: %w", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}

	data, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
