package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"bankpipe/internal/dataprocessing"
)

// ReadCSVFile reads a CSV export into raw rows keyed by header name.
func ReadCSVFile(path string) ([]dataprocessing.RawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV reads CSV content from r. The first row is the header; each
// subsequent row becomes a RawRow mapping header name to cell value.
// Cells beyond the header width are ignored; short rows leave trailing
// columns absent. A UTF-8 BOM on the header is stripped.
func ReadCSV(r io.Reader) ([]dataprocessing.RawRow, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1 // ragged rows are the norm in bank exports
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV has no header row")
	}

	header := cleanHeader(records[0])
	rows := make([]dataprocessing.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if isEmptyRow(record) {
			continue
		}
		rows = append(rows, rowFromRecord(header, record))
	}

	slog.Debug("CSV ingested",
		slog.Int("columns", len(header)),
		slog.Int("rows", len(rows)))

	return rows, nil
}

// cleanHeader trims whitespace and invisible characters from each column
// name.
func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, col := range header {
		col = strings.TrimPrefix(strings.TrimSpace(col), "\uFEFF")
		col = strings.TrimLeft(col, "​‌‍⁠\uFEFF")
		out[i] = strings.TrimSpace(col)
	}
	return out
}

func isEmptyRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// rowFromRecord zips header and cells. Missing cells stay absent from
// the map so downstream treats them as no value, not empty string.
func rowFromRecord(header, record []string) dataprocessing.RawRow {
	row := make(dataprocessing.RawRow, len(header))
	for i, name := range header {
		if name == "" || i >= len(record) {
			continue
		}
		row[name] = record[i]
	}
	return row
}
