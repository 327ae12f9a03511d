package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"apartment-scraper/models"
	"apartment-scraper/services"
	"apartment-scraper/utils"
)

var (
	// ErrExportWrite wraps any failure to create or write the output file.
	ErrExportWrite = errors.New("export write failed")
	// ErrUnsupportedFormat is returned for an output extension with no writer.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

var writers = map[string]TableWriter{
	".xlsx": XLSXWriter{Sheet: "Sheet1"},
	".csv":  CSVWriter{},
}

// Exporter writes result sets into a fixed output directory without ever
// replacing an existing file.
type Exporter struct {
	dir        string
	logger     *utils.Logger
	normalizer *services.Normalizer
}

// NewExporter creates an Exporter for dir. The directory must already exist;
// see config.EnsureOutputDir.
func NewExporter(dir string, logger *utils.Logger) *Exporter {
	return &Exporter{
		dir:        dir,
		logger:     logger,
		normalizer: services.NewNormalizer(logger),
	}
}

// Export normalizes the availability column, picks a free file name based on
// desiredName and writes the table there. It returns the path written.
func (e *Exporter) Export(records []*models.UnitRecord, desiredName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(desiredName))
	w, ok := writers[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, desiredName)
	}

	records = e.normalizer.NormalizeAvailability(records)

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		rows = append(rows, r.Values())
	}

	path, err := ResolvePath(e.dir, desiredName)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("%w: create %q: %v", ErrExportWrite, path, err)
	}

	if err := w.WriteTable(f, models.Columns, rows); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: %q: %v", ErrExportWrite, path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: close %q: %v", ErrExportWrite, path, err)
	}

	e.logger.Info("[export] Data saved to %s", path)
	return path, nil
}

// ResolvePath returns dir/name if nothing exists there, otherwise the first
// free dir/<base>_<n><ext> for n = 1, 2, ...
func ResolvePath(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(filepath.Base(name), ext)

	candidate := filepath.Join(dir, name)
	for n := 1; ; n++ {
		exists, err := fileExists(candidate)
		if err != nil {
			return "", fmt.Errorf("%w: stat %q: %v", ErrExportWrite, candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, n, ext))
	}
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
