package apartments

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"apartment-scraper/config"
	"apartment-scraper/models"
	"apartment-scraper/scraper"
	"apartment-scraper/utils"
)

var (
	// ErrInvalidURL is returned for input outside the accepted domain.
	ErrInvalidURL = errors.New("invalid listing url")
	// ErrUnitAssembly marks a unit row that could not be turned into a record.
	ErrUnitAssembly = errors.New("unit assembly failed")
)

// ResolveURL applies the input rules: empty input falls back to the default
// listing, anything else must start with the configured prefix.
func ResolveURL(input string, cfg *config.Config) (string, error) {
	url := strings.TrimSpace(input)
	if url == "" {
		return cfg.DefaultURL, nil
	}
	if !strings.HasPrefix(url, cfg.URLPrefix) {
		return "", fmt.Errorf("%w: %q must start with %s", ErrInvalidURL, url, cfg.URLPrefix)
	}
	return url, nil
}

// Scraper pulls unit rows off a single apartments.com listing page.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
}

// New creates a ready-to-use apartments.com Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{cfg: cfg, logger: logger}
}

// Scrape loads url, waits for the unit table to render and assembles one
// record per unit row. On navigation or wait failure it returns no records
// together with the error.
func (s *Scraper) Scrape(b scraper.Browser, url string) ([]*models.UnitRecord, error) {
	s.logger.Info("[apartments] Scraping %s...", url)

	page, err := b.Load(url)
	if err != nil {
		return nil, err
	}

	if err := page.WaitFor(UnitContainerSelector, s.cfg.WaitTimeout); err != nil {
		if errors.Is(err, scraper.ErrTimeout) {
			s.logger.Error("[apartments] Timeout waiting for page to load")
			if html, herr := page.HTML(); herr == nil {
				s.logger.Error("[apartments] Page source: %s", html)
			}
		}
		return nil, err
	}

	// The container shows up before the rows are fully populated.
	if s.cfg.SettleDelay > 0 {
		time.Sleep(s.cfg.SettleDelay)
	}

	if title, err := page.Title(); err == nil {
		s.logger.Info("[apartments] Page title: %s", title)
	}
	if current, err := page.URL(); err == nil {
		s.logger.Info("[apartments] Current URL: %s", current)
	}

	units, err := page.QueryAll(UnitContainerSelector)
	if err != nil {
		return nil, fmt.Errorf("apartments: collect units: %w", err)
	}
	s.logger.Debug("[apartments] Found %d unit rows", len(units))

	return s.AssembleRecords(units), nil
}

// AssembleRecords builds a record per unit in order. A unit that fails
// outright is logged and skipped; the rest still come through.
func (s *Scraper) AssembleRecords(units []scraper.Element) []*models.UnitRecord {
	records := make([]*models.UnitRecord, 0, len(units))

	for i, unit := range units {
		rec, err := assembleUnit(unit)
		if err != nil {
			s.logger.Warn("[apartments] Error scraping unit %d: %v", i+1, err)
			continue
		}
		s.logger.Info("[apartments] Scraped unit data: %+v", *rec)
		records = append(records, rec)
	}

	return records
}

func assembleUnit(unit scraper.Element) (rec *models.UnitRecord, err error) {
	if unit == nil {
		return nil, fmt.Errorf("%w: nil element", ErrUnitAssembly)
	}
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = fmt.Errorf("%w: %v", ErrUnitAssembly, r)
		}
	}()

	return &models.UnitRecord{
		UnitNumber:   ExtractField(unit, UnitNumberSelector, false),
		SqFt:         ExtractField(unit, SqFtSelector, false),
		Price:        ExtractField(unit, PriceSelector, false),
		Availability: ExtractField(unit, AvailabilitySelector, true),
	}, nil
}
