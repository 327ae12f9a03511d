package apartments

import (
	"apartment-scraper/scraper"
	"apartment-scraper/services"
)

// ExtractField returns the trimmed text of the first descendant of unit
// matching selector. Any lookup failure yields "". When availability is
// set, the leading "Availability\n" label is stripped.
func ExtractField(unit scraper.Element, selector string, availability bool) string {
	if unit == nil {
		return ""
	}
	el, err := unit.Query(selector)
	if err != nil || el == nil {
		return ""
	}
	text, err := el.Text()
	if err != nil {
		return ""
	}
	if availability {
		return services.StripAvailabilityLabel(text)
	}
	return text
}
