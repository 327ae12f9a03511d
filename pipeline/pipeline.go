// Package pipeline runs one scrape end to end: render, extract, export.
package pipeline

import (
	"fmt"

	"apartment-scraper/config"
	"apartment-scraper/scraper"
	"apartment-scraper/scraper/apartments"
	"apartment-scraper/services"
	"apartment-scraper/storage"
	"apartment-scraper/utils"
)

type Pipeline struct {
	cfg     *config.Config
	logger  *utils.Logger
	scraper *apartments.Scraper
	store   storage.UnitStore
}

// New creates a Pipeline. store may be nil when no database mirror is wanted.
func New(cfg *config.Config, logger *utils.Logger, store storage.UnitStore) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		logger:  logger,
		scraper: apartments.New(cfg, logger),
		store:   store,
	}
}

// Run scrapes url with b and exports the result. It returns the written
// file path, or "" when nothing was scraped. Scrape failures are reported
// and returned without writing anything.
func (p *Pipeline) Run(b scraper.Browser, url string) (string, error) {
	records, err := p.scraper.Scrape(b, url)
	if err != nil {
		p.logger.Error("[pipeline] Error scraping listing: %v", err)
		return "", err
	}

	if len(records) == 0 {
		p.logger.Warn("[pipeline] No data was scraped")
		return "", nil
	}

	exporter := storage.NewExporter(p.cfg.OutputDir, p.logger)
	path, err := exporter.Export(records, p.cfg.OutputFile)
	if err != nil {
		return "", fmt.Errorf("pipeline: export: %w", err)
	}

	if p.store != nil {
		if err := p.store.Write(url, records); err != nil {
			p.logger.Error("[pipeline] PostgreSQL write failed: %v", err)
		} else {
			p.logger.Info("[pipeline] %d units stored in PostgreSQL (table: apartment_units)", len(records))
		}
	}

	summary := services.NewSummaryService(p.logger)
	summary.Print(summary.Generate(records))

	return path, nil
}
