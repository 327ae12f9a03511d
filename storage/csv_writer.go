package storage

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVWriter encodes a table as comma-separated values.
type CSVWriter struct{}

func (CSVWriter) WriteTable(out io.Writer, header []string, rows [][]string) error {
	w := csv.NewWriter(out)

	if err := w.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
