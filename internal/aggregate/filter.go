// Package aggregate filters the canonical records and summarizes them by
// quadrant, account manager and segment.
package aggregate

import (
	"fmt"
	"strconv"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
)

// Filter selects records by segment and period.
type Filter struct {
	// Segment is one of the configured segments or model.SegmentAll.
	Segment string
	// Month is 1..12, or 0 for every month of Year.
	Month int
	Year  int
}

// Validate checks the filter against the configured segment list.
func (f Filter) Validate(segments []string) error {
	if f.Month < 0 || f.Month > 12 {
		return fmt.Errorf("%w: month %d is outside 0..12", common.ErrInvalidFilter, f.Month)
	}
	if f.Year <= 0 {
		return fmt.Errorf("%w: year %d", common.ErrInvalidFilter, f.Year)
	}
	if f.Segment == model.SegmentAll {
		return nil
	}
	for _, s := range segments {
		if s == f.Segment {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown segment %q", common.ErrInvalidFilter, f.Segment)
}

// Label describes the filter for headings, e.g. "DGS 9/2025".
func (f Filter) Label() string {
	seg := f.Segment
	if seg == model.SegmentAll {
		seg = "All segments"
	}
	if f.Month == 0 {
		return fmt.Sprintf("%s, all months %d", seg, f.Year)
	}
	return fmt.Sprintf("%s %s", seg, model.FormatPeriod(f.Month, f.Year))
}

// Matches reports whether r passes the segment and period conditions.
func (f Filter) Matches(r *model.Record) bool {
	if f.Segment != model.SegmentAll && r.Segment != f.Segment {
		return false
	}
	if f.Month != 0 {
		return r.Period == model.FormatPeriod(f.Month, f.Year)
	}
	return model.PeriodYear(r.Period) == strconv.Itoa(f.Year)
}

// Apply returns the records matching the filter whose ending balance is
// positive, in their original order. Records whose balance could not be read
// never qualify.
func (f Filter) Apply(records []model.Record) []model.Record {
	out := make([]model.Record, 0, len(records))
	for i := range records {
		r := &records[i]
		if !f.Matches(r) || !Outstanding(r) {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// Outstanding reports whether the record carries a positive, known balance.
func Outstanding(r *model.Record) bool {
	return r.HasValue(model.ColEndingBalance) && r.EndingBalance.IsPositive()
}
