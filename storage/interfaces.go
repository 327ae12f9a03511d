package storage

import (
	"io"

	"apartment-scraper/models"
)

// TableWriter encodes a header plus rows into one tabular file format.
type TableWriter interface {
	WriteTable(w io.Writer, header []string, rows [][]string) error
}

// UnitStore is the interface a secondary persistence backend must satisfy.
type UnitStore interface {
	Write(sourceURL string, records []*models.UnitRecord) error
	Close() error
}
