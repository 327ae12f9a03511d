package services

import (
	"regexp"
	"strings"

	"apartment-scraper/models"
	"apartment-scraper/utils"
)

// availabilityLabel is the screen-reader label rendered in front of the date.
const availabilityLabel = "Availability\n"

// misspelledLabelRegexp matches the "availibility" label variant in any case.
var misspelledLabelRegexp = regexp.MustCompile(`(?i)availibility\n`)

// StripAvailabilityLabel removes the first "Availability\n" label from a
// freshly extracted value. Matching is case-sensitive.
func StripAvailabilityLabel(s string) string {
	return strings.Replace(s, availabilityLabel, "", 1)
}

// NormalizeAvailabilityText removes every label variant, case-insensitively
// for the misspelled one, and trims the result. Removal repeats until
// nothing changes, so applying it twice is the same as applying it once.
func NormalizeAvailabilityText(s string) string {
	for {
		next := strings.ReplaceAll(s, availabilityLabel, "")
		next = misspelledLabelRegexp.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

// Normalizer runs the column-wide cleanup over a result set before export.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// NormalizeAvailability rewrites the availability field of every record in
// place. No other field is touched.
func (n *Normalizer) NormalizeAvailability(records []*models.UnitRecord) []*models.UnitRecord {
	changed := 0
	for _, r := range records {
		if r == nil {
			continue
		}
		clean := NormalizeAvailabilityText(r.Availability)
		if clean != r.Availability {
			changed++
			r.Availability = clean
		}
	}
	if n.logger != nil {
		n.logger.Debug("[normalizer] Cleaned availability on %d/%d records", changed, len(records))
	}
	return records
}
