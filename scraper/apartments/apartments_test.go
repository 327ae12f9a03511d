package apartments

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apartment-scraper/config"
	"apartment-scraper/models"
	"apartment-scraper/scraper"
	"apartment-scraper/utils"
)

// fakeElement answers Query from a selector->text table.
type fakeElement struct {
	fields  map[string]string
	textErr error
	panics  bool
}

func (f *fakeElement) Query(selector string) (scraper.Element, error) {
	if f.panics {
		panic("node detached")
	}
	text, ok := f.fields[selector]
	if !ok {
		return nil, scraper.ErrNoMatch
	}
	return &fakeElement{fields: map[string]string{"": text}, textErr: f.textErr}, nil
}

func (f *fakeElement) Text() (string, error) {
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.fields[""], nil
}

func quietLogger() *utils.Logger {
	l := utils.NewLogger()
	l.SetOutput(io.Discard)
	return l
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultURL: "https://www.apartments.com/post-chicago-il/bdv81bb/",
		URLPrefix:  "https://www.apartments.com/",
	}
}

func fullUnit() *fakeElement {
	return &fakeElement{fields: map[string]string{
		UnitNumberSelector:   "1203",
		SqFtSelector:         "745",
		PriceSelector:        "$2,310",
		AvailabilitySelector: "Availability\nJan 5, 2025",
	}}
}

func TestExtractField(t *testing.T) {
	unit := fullUnit()

	assert.Equal(t, "1203", ExtractField(unit, UnitNumberSelector, false))
	assert.Equal(t, "Jan 5, 2025", ExtractField(unit, AvailabilitySelector, true))
	assert.Equal(t, "Availability\nJan 5, 2025", ExtractField(unit, AvailabilitySelector, false))
	assert.Equal(t, "", ExtractField(unit, ".nothing", false))
	assert.Equal(t, "", ExtractField(nil, UnitNumberSelector, false))
}

func TestExtractFieldSwallowsTextErrors(t *testing.T) {
	unit := fullUnit()
	unit.textErr = errors.New("stale node")

	assert.Equal(t, "", ExtractField(unit, PriceSelector, false))
}

func TestAssembleRecordsAllFields(t *testing.T) {
	s := New(testConfig(), quietLogger())

	records := s.AssembleRecords([]scraper.Element{fullUnit()})

	require.Len(t, records, 1)
	assert.Equal(t, models.UnitRecord{
		UnitNumber:   "1203",
		SqFt:         "745",
		Price:        "$2,310",
		Availability: "Jan 5, 2025",
	}, *records[0])
}

func TestAssembleRecordsMissingFieldKeepsRecord(t *testing.T) {
	s := New(testConfig(), quietLogger())
	partial := &fakeElement{fields: map[string]string{UnitNumberSelector: "1407"}}

	records := s.AssembleRecords([]scraper.Element{fullUnit(), partial})

	require.Len(t, records, 2)
	assert.Equal(t, "1407", records[1].UnitNumber)
	assert.Equal(t, "", records[1].SqFt)
	assert.Equal(t, "", records[1].Price)
	assert.Equal(t, "", records[1].Availability)
}

func TestAssembleRecordsSkipsBrokenUnits(t *testing.T) {
	s := New(testConfig(), quietLogger())
	second := &fakeElement{fields: map[string]string{UnitNumberSelector: "2"}}

	records := s.AssembleRecords([]scraper.Element{
		&fakeElement{panics: true},
		second,
		nil,
	})

	require.Len(t, records, 1)
	assert.Equal(t, "2", records[0].UnitNumber)
}

func TestAssembleUnitReportsAssemblyError(t *testing.T) {
	_, err := assembleUnit(&fakeElement{panics: true})
	assert.True(t, errors.Is(err, ErrUnitAssembly), "got %v", err)

	_, err = assembleUnit(nil)
	assert.True(t, errors.Is(err, ErrUnitAssembly), "got %v", err)
}

func TestAssembleRecordsEmpty(t *testing.T) {
	s := New(testConfig(), quietLogger())
	records := s.AssembleRecords(nil)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestResolveURL(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		in      string
		want    string
		invalid bool
	}{
		{"", cfg.DefaultURL, false},
		{"   ", cfg.DefaultURL, false},
		{"https://www.apartments.com/the-max-chicago-il/abc123/", "https://www.apartments.com/the-max-chicago-il/abc123/", false},
		{"https://example.com/x", "", true},
		{"http://www.apartments.com/x", "", true},
	}

	for _, tt := range tests {
		got, err := ResolveURL(tt.in, cfg)
		if tt.invalid {
			assert.True(t, errors.Is(err, ErrInvalidURL), "ResolveURL(%q): got %v", tt.in, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestScrapeSnapshot(t *testing.T) {
	html := `<html><head><title>The Max</title></head><body>
<div class="js-unitContainerV3">
  <div class="unitColumn column">Unit 5A</div>
  <div class="sqftColumn column"><span>sq ft</span><span>910</span></div>
  <div class="pricingColumn column"><span class="screenReaderOnly">price</span><span>$3,015</span></div>
  <span class="dateAvailable">Availability
Now</span>
</div></body></html>`

	s := New(testConfig(), quietLogger())
	records, err := s.Scrape(scraper.NewSnapshotBrowser(html), "https://www.apartments.com/the-max/")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.UnitRecord{UnitNumber: "Unit 5A", SqFt: "910", Price: "$3,015", Availability: "Now"}, *records[0])
}

func TestScrapeTimeout(t *testing.T) {
	s := New(testConfig(), quietLogger())
	records, err := s.Scrape(scraper.NewSnapshotBrowser("<html><body></body></html>"), "https://www.apartments.com/x/")
	assert.True(t, errors.Is(err, scraper.ErrTimeout), "got %v", err)
	assert.Empty(t, records)
}
