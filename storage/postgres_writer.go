package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"apartment-scraper/models"
	"apartment-scraper/utils"
)

const unitColumnsPerRow = 6

// PostgresWriter mirrors each run's unit records into PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS apartment_units (
			id           SERIAL PRIMARY KEY,
			source_url   TEXT        NOT NULL,
			unit_number  TEXT        NOT NULL DEFAULT '',
			sq_ft        TEXT        NOT NULL DEFAULT '',
			price        TEXT        NOT NULL DEFAULT '',
			availability TEXT        NOT NULL DEFAULT '',
			scraped_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_apartment_units_source     ON apartment_units(source_url);
		CREATE INDEX IF NOT EXISTS idx_apartment_units_scraped_at ON apartment_units(scraped_at);
	`)
	return err
}

// Write batch-inserts the records of one run. Earlier runs are kept.
func (pw *PostgresWriter) Write(sourceURL string, records []*models.UnitRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		query, args := buildInsert(sourceURL, records[i:end])
		if query == "" {
			continue
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// buildInsert renders one multi-row INSERT. Nil records are skipped.
func buildInsert(sourceURL string, batch []*models.UnitRecord) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*unitColumnsPerRow)
	scrapedAt := time.Now()

	for _, r := range batch {
		if r == nil {
			continue
		}
		base := len(valueStrings) * unitColumnsPerRow
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6))
		valueArgs = append(valueArgs,
			sourceURL, r.UnitNumber, r.SqFt, r.Price, r.Availability, scrapedAt)
	}
	if len(valueStrings) == 0 {
		return "", nil
	}

	return fmt.Sprintf(`
		INSERT INTO apartment_units (source_url, unit_number, sq_ft, price, availability, scraped_at)
		VALUES %s
	`, strings.Join(valueStrings, ",")), valueArgs
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
