package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment names used across the dashboard.
const (
	// SegmentAll selects every segment in filters and upload targets.
	SegmentAll = "all"
	// SegmentUnspecified is stamped on rows uploaded for all segments.
	SegmentUnspecified = "-"
)

// DefaultSegments is the fixed set of business segments.
var DefaultSegments = []string{"DGS", "DPS", "DSS", "RBS"}

// FormatPeriod builds the "{month}/{year}" period string. Months are not
// zero padded, matching how periods are stored in the sheet.
func FormatPeriod(month, year int) string {
	return fmt.Sprintf("%d/%d", month, year)
}

// PeriodYear returns the year component of a period, the text after the first "/".
func PeriodYear(period string) string {
	_, year, found := strings.Cut(period, "/")
	if !found {
		return ""
	}
	return year
}

// ParsePeriod splits a period into month and year.
func ParsePeriod(period string) (month, year int, err error) {
	m, y, found := strings.Cut(strings.TrimSpace(period), "/")
	if !found {
		return 0, 0, fmt.Errorf("period %q: expected MM/YYYY", period)
	}
	if month, err = strconv.Atoi(m); err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("period %q: invalid month", period)
	}
	if year, err = strconv.Atoi(y); err != nil || year < 1 {
		return 0, 0, fmt.Errorf("period %q: invalid year", period)
	}
	return month, year, nil
}

// CanonicalPeriod rewrites a parseable period in the stored "{month}/{year}"
// form, so "09/2025" reads as "9/2025". Anything else is returned trimmed.
func CanonicalPeriod(period string) string {
	month, year, err := ParsePeriod(period)
	if err != nil {
		return strings.TrimSpace(period)
	}
	return FormatPeriod(month, year)
}

// PeriodIndex orders periods chronologically: year*12 + month.
func PeriodIndex(period string) (int, bool) {
	month, year, err := ParsePeriod(period)
	if err != nil {
		return 0, false
	}
	return year*12 + month, true
}
