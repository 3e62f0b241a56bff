package domain

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is where log timestamps are displayed
const DefaultTimezone = "Asia/Manila"

// DisplayLayout renders timestamps the way the dashboard shows them (en-PH)
const DisplayLayout = "1/2/2006, 3:04:05 PM"

// DayLayout keys the daily activity buckets
const DayLayout = "2006-01-02"

// LoadLocation resolves a timezone name, falling back to the default
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// FormatDisplay renders t in loc using DisplayLayout
func FormatDisplay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DisplayLayout)
}

// ParseDateBound parses a date query parameter. Date-only values resolve to
// the start of the day, or to its last instant when endOfDay is set.
func ParseDateBound(value string, loc *time.Location, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", value, loc); err == nil {
		return t, nil
	}

	day, err := time.ParseInLocation(DayLayout, value, loc)
	if err != nil {
		return time.Time{}, NewValidationError("invalid date %q: use YYYY-MM-DD or RFC 3339", value)
	}
	if endOfDay {
		return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return day, nil
}
