package service

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

func parseDateStart(value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// parseDateEnd returns the last second of the given local date so it can be
// used as an inclusive upper bound.
func parseDateEnd(value string) (time.Time, error) {
	start, err := parseDateStart(value)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 0, 1).Add(-time.Second), nil
}

func dayBounds(value string) (time.Time, time.Time, error) {
	start, err := parseDateStart(value)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDateEnd(value)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// ParseMonth parses YYYY-MM, defaulting to the current local month.
func ParseMonth(value string, now time.Time) (int, time.Month, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		now = now.In(time.Local)
		return now.Year(), now.Month(), nil
	}
	t, err := time.ParseInLocation("2006-01", value, time.Local)
	if err != nil {
		return 0, 0, invalidf("invalid month %q (expected YYYY-MM)", value)
	}
	return t.Year(), t.Month(), nil
}

// parseDBTime reads a CURRENT_TIMESTAMP column. The driver may hand it back
// either as SQLite's text form or already formatted as RFC3339.
func parseDBTime(raw string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.DateTime} {
		if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return t
		}
	}
	return time.Time{}
}
