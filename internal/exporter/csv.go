package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"bankpipe/pkg/contracts/domain"
)

// CSVWriter exports pipeline results as CSV files under an output
// directory.
type CSVWriter struct {
	outputDir string
}

// NewCSVWriter creates a CSV writer rooted at outputDir.
func NewCSVWriter(outputDir string) *CSVWriter {
	return &CSVWriter{outputDir: outputDir}
}

// writeCSV writes a header plus records to name under the output
// directory, with a UTF-8 BOM for Excel compatibility.
func (w *CSVWriter) writeCSV(name string, header []string, records [][]string) error {
	fullPath := filepath.Join(w.outputDir, name)

	slog.Info("writing CSV file",
		slog.String("path", fullPath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return writer.Error()
}

// WriteTransactions exports the valid record set.
func (w *CSVWriter) WriteTransactions(name string, records []domain.Transaction) error {
	header := []string{
		"CustomerID", "TransactionID", "Date", "Type", "Amount",
		"BalanceAfter", "Age", "Gender", "AccountType", "BranchID",
	}
	rows := make([][]string, 0, len(records))
	for _, tx := range records {
		balance := ""
		if tx.HasBalance() {
			balance = strconv.FormatFloat(*tx.BalanceAfter, 'f', 2, 64)
		}
		age := ""
		if tx.HasAge() {
			age = strconv.Itoa(*tx.Age)
		}
		rows = append(rows, []string{
			strconv.FormatInt(tx.CustomerID, 10),
			tx.TransactionID,
			tx.Date.Format("2006-01-02"),
			string(tx.Type),
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			balance,
			age,
			string(tx.Gender),
			tx.AccountType,
			tx.Branch(),
		})
	}
	return w.writeCSV(name, header, rows)
}

// WriteIssues exports the validation issue list.
func (w *CSVWriter) WriteIssues(name string, issues []domain.ValidationIssue) error {
	header := []string{"RecordIndex", "CustomerID", "Field", "Value", "Reason", "Severity"}
	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, []string{
			strconv.Itoa(issue.RecordIndex),
			strconv.FormatInt(issue.CustomerID, 10),
			issue.Field,
			fmt.Sprintf("%v", issue.Value),
			issue.Reason,
			string(issue.Severity),
		})
	}
	return w.writeCSV(name, header, rows)
}

// WriteAnomalies exports scored anomalies, highest score first.
func (w *CSVWriter) WriteAnomalies(name string, anomalies []domain.AnomalousTransaction) error {
	header := []string{"CustomerID", "Date", "Type", "Amount", "AnomalyScore", "Reasons"}
	rows := make([][]string, 0, len(anomalies))
	for _, a := range anomalies {
		rows = append(rows, []string{
			strconv.FormatInt(a.Transaction.CustomerID, 10),
			a.Transaction.Date.Format("2006-01-02"),
			string(a.Transaction.Type),
			strconv.FormatFloat(a.Transaction.Amount, 'f', 2, 64),
			strconv.Itoa(a.AnomalyScore),
			joinReasons(a.AnomalyReasons),
		})
	}
	return w.writeCSV(name, header, rows)
}

func joinReasons(reasons []string) string {
	out := ""
	for i, r := range reasons {
		if i > 0 {
			out += "; "
		}
		out += r
	}
	return out
}
