package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Writer emits named result tables as CSV files under one destination
// directory, creating the directory on first use.
type Writer struct {
	dir    string
	logger *zap.Logger
}

// NewWriter creates a Writer rooted at the given directory
func NewWriter(dir string, logger *zap.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Write emits one table: a header row of the given columns followed by one
// row per record, cells looked up by column name. Records missing a column
// produce an empty cell.
func (w *Writer) Write(filename string, columns []string, records []map[string]string) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", w.dir, err)
	}

	path := filepath.Join(w.dir, filename)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", filename, err)
	}
	row := make([]string, len(columns))
	for _, record := range records {
		for i, col := range columns {
			row[i] = record[col]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row of %s: %w", filename, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", filename, err)
	}

	w.logger.Info("table written",
		zap.String("file", filename),
		zap.Int("rows", len(records)),
	)
	return nil
}
