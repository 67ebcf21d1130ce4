package loader

import (
	"fmt"
	"time"
)

// fallbackDateFormats are tried, in order, when the configured layout does
// not match. Exports from different systems rarely agree on one layout.
var fallbackDateFormats = []string{
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseDate parses a date string using the configured layout first, then
// the common fallbacks.
func parseDate(dateStr, layout string) (time.Time, error) {
	if t, err := time.Parse(layout, dateStr); err == nil {
		return t, nil
	}
	for _, format := range fallbackDateFormats {
		if format == layout {
			continue
		}
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
