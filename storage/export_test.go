package storage

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"apartment-scraper/models"
	"apartment-scraper/utils"
)

func quietLogger() *utils.Logger {
	l := utils.NewLogger()
	l.SetOutput(io.Discard)
	return l
}

func sampleRecords() []*models.UnitRecord {
	return []*models.UnitRecord{
		{UnitNumber: "101", SqFt: "650", Price: "$1,800", Availability: "AVAILIBILITY\n Feb 1"},
		{UnitNumber: "102", SqFt: "", Price: "$2,450", Availability: "Availability\nJan 5, 2025"},
	}
}

func TestResolvePathSequence(t *testing.T) {
	dir := t.TempDir()

	p, err := ResolvePath(dir, "report.xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.xlsx"), p)
	require.NoError(t, os.WriteFile(p, nil, 0644))

	p, err = ResolvePath(dir, "report.xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report_1.xlsx"), p)
	require.NoError(t, os.WriteFile(p, nil, 0644))

	p, err = ResolvePath(dir, "report.xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report_2.xlsx"), p)
}

func TestExportNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir, quietLogger())

	var paths []string
	for i := 0; i < 3; i++ {
		p, err := e.Export(sampleRecords(), "name.xlsx")
		require.NoError(t, err)
		paths = append(paths, p)
	}

	assert.Equal(t, []string{
		filepath.Join(dir, "name.xlsx"),
		filepath.Join(dir, "name_1.xlsx"),
		filepath.Join(dir, "name_2.xlsx"),
	}, paths)
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestExportXLSXContents(t *testing.T) {
	dir := t.TempDir()
	p, err := NewExporter(dir, quietLogger()).Export(sampleRecords(), "apartment_listings.xlsx")
	require.NoError(t, err)

	f, err := excelize.OpenFile(p)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"unit_number", "sq_ft", "price", "availability"}, rows[0])
	assert.Equal(t, []string{"101", "650", "$1,800", "Feb 1"}, rows[1])
	// GetRows drops trailing empty cells only, so the gap stays in place.
	assert.Equal(t, []string{"102", "", "$2,450", "Jan 5, 2025"}, rows[2])
}

func TestExportCSVContents(t *testing.T) {
	dir := t.TempDir()
	p, err := NewExporter(dir, quietLogger()).Export(sampleRecords(), "units.csv")
	require.NoError(t, err)

	f, err := os.Open(p)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"unit_number", "sq_ft", "price", "availability"},
		{"101", "650", "$1,800", "Feb 1"},
		{"102", "", "$2,450", "Jan 5, 2025"},
	}, rows)
}

func TestExportEmptyResultWritesHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	p, err := NewExporter(dir, quietLogger()).Export(nil, "empty.csv")
	require.NoError(t, err)

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "unit_number,sq_ft,price,availability\n", string(b))
}

func TestExportUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	_, err := NewExporter(dir, quietLogger()).Export(sampleRecords(), "units.json")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat), "got %v", err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportMissingDirIsWriteError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	_, err := NewExporter(dir, quietLogger()).Export(sampleRecords(), "units.xlsx")
	assert.True(t, errors.Is(err, ErrExportWrite), "got %v", err)
}
