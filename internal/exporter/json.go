package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// JSONWriter exports result objects as indented JSON files.
type JSONWriter struct {
	outputDir string
}

// NewJSONWriter creates a JSON writer rooted at outputDir.
func NewJSONWriter(outputDir string) *JSONWriter {
	return &JSONWriter{outputDir: outputDir}
}

// Write marshals payload into name, wrapped with generation metadata.
func (w *JSONWriter) Write(name string, payload interface{}) error {
	fullPath := filepath.Join(w.outputDir, name)

	slog.Info("writing JSON file", slog.String("path", fullPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	doc := map[string]interface{}{
		"data":         payload,
		"generated_at": time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
