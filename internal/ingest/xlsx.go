package ingest

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"bankpipe/internal/dataprocessing"
)

// ReadXLSXFile reads a spreadsheet export into raw rows. The sheet is
// located by scanning for a header row that carries the transaction
// columns, since bank exports often lead with title or disclaimer rows.
func ReadXLSXFile(path string) ([]dataprocessing.RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		headerIdx := findHeaderRow(rows)
		if headerIdx == -1 {
			continue
		}
		slog.Info("found transaction data in sheet",
			slog.String("sheet_name", name),
			slog.Int("header_row", headerIdx),
			slog.Int("total_rows", len(rows)))
		return rowsFromSheet(rows, headerIdx), nil
	}
	return nil, fmt.Errorf("could not find transaction data sheet in file")
}

// findHeaderRow looks for a row mentioning both a customer and an amount
// column within the first few rows.
func findHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		rowText := strings.ToLower(strings.Join(rows[i], " "))
		if strings.Contains(rowText, "customer") && strings.Contains(rowText, "amount") {
			return i
		}
	}
	return -1
}

func rowsFromSheet(rows [][]string, headerIdx int) []dataprocessing.RawRow {
	header := cleanHeader(rows[headerIdx])
	out := make([]dataprocessing.RawRow, 0, len(rows)-headerIdx-1)
	for _, record := range rows[headerIdx+1:] {
		if isEmptyRow(record) {
			continue
		}
		out = append(out, rowFromRecord(header, record))
	}
	return out
}
