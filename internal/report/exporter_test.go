package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Afrawles/dataproc/internal/bfhl"
)

const rawBody = `{"is_success":true,"user_id":"john_doe_17091999","email":"john@xyz.com","roll_number":"ABCD123","sum":"339","concat_string":"Ra","even_numbers":["334","4"],"odd_numbers":["1"],"alphabets":["A","R"],"special_characters":["$"],"extra":42}`

func sampleResponse(t *testing.T) *bfhl.Response {
	t.Helper()
	var resp bfhl.Response
	require.NoError(t, json.Unmarshal([]byte(rawBody), &resp))
	resp.Raw = json.RawMessage(rawBody)
	return &resp
}

func TestIndentedJSON_KeepsRawBody(t *testing.T) {
	data, err := IndentedJSON(sampleResponse(t))
	require.NoError(t, err)

	assert.JSONEq(t, rawBody, string(data))
	assert.Contains(t, string(data), `"extra": 42`)
}

func TestIndentedJSON_WithoutRaw(t *testing.T) {
	data, err := IndentedJSON(&bfhl.Response{IsSuccess: true, Sum: "7"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sum": "7"`)
}

func TestRows(t *testing.T) {
	rows := Rows(sampleResponse(t))

	assert.Equal(t, []string{"Field", "Value"}, rows[0])
	assert.Contains(t, rows, []string{"Sum of Numbers", "339"})
	assert.Contains(t, rows, []string{"Even Numbers", "334"})
	assert.Contains(t, rows, []string{"Even Numbers", "4"})
	assert.Contains(t, rows, []string{"Special Characters", "$"})
	assert.Len(t, rows, 1+6+6)
}

func TestExport_AllFormats(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	exporter := NewExporter(dir)

	paths, err := exporter.Export(sampleResponse(t), []string{"json", "csv", "xlsx"})
	require.NoError(t, err)
	require.Len(t, paths, 3)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.JSONEq(t, rawBody, string(data))

	file, err := os.Open(paths[1])
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, Rows(sampleResponse(t)), records)

	wb, err := excelize.OpenFile(paths[2])
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{summarySheet, categoriesSheet}, wb.GetSheetList())

	v, err := wb.GetCellValue(summarySheet, "A6")
	require.NoError(t, err)
	assert.Equal(t, "SUM OF NUMBERS", v)

	v, err = wb.GetCellValue(summarySheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "339", v)

	v, err = wb.GetCellValue(categoriesSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "4", v)

	v, err = wb.GetCellValue(categoriesSheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "$", v)
}

func TestExport_NoFormats(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never")
	paths, err := NewExporter(dir).Export(sampleResponse(t), nil)
	require.NoError(t, err)
	assert.Empty(t, paths)
	assert.NoDirExists(t, dir)
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := NewExporter(t.TempDir()).Export(sampleResponse(t), []string{"pdf"})
	assert.ErrorContains(t, err, "pdf")
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", columnLetter(1))
	assert.Equal(t, "Z", columnLetter(26))
	assert.Equal(t, "AA", columnLetter(27))
	assert.Equal(t, "B3", cellName(2, 3))
}

func TestExcelExporter_InvalidStyleFails(t *testing.T) {
	e := NewExcelExporter(t.TempDir())
	resp := sampleResponse(t)

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", summarySheet))

	assert.Error(t, e.createSummarySheet(f, resp, 999))
	assert.Error(t, e.createCategoriesSheet(f, resp, 999))
}

func TestExcelExporter_EmptyCategory(t *testing.T) {
	resp := sampleResponse(t)
	resp.SpecialCharacters = nil

	path, err := NewExcelExporter(t.TempDir()).Export(resp, "empty.xlsx")
	require.NoError(t, err)

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()

	v, err := wb.GetCellValue(categoriesSheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "None", v)
}
