// Package classify derives the delinquency age and the risk quadrant of each
// record from its aging buckets, ending balance and the segment's thresholds.
package classify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/shopspring/decimal"
)

// Quadrants.
const (
	// QuadrantHighOld is a high balance that has been outstanding long.
	QuadrantHighOld = 1
	// QuadrantLowOld is a low balance that has been outstanding long.
	QuadrantLowOld = 2
	// QuadrantHighRecent is a high balance that is recent.
	QuadrantHighRecent = 3
	// QuadrantLowRecent is a low balance that is recent.
	QuadrantLowRecent = 4
)

// bucketMonths maps each aging bucket, newest first, to its delinquency age.
var bucketMonths = [model.NumBuckets]int{3, 6, 12, 24, 25}

// DelinquencyMonths returns the age of the oldest bucket holding a positive
// amount, or 0 when none does. Only the oldest such bucket matters.
func DelinquencyMonths(b model.Buckets) int {
	for i := model.NumBuckets - 1; i >= 0; i-- {
		if b[i].IsPositive() {
			return bucketMonths[i]
		}
	}
	return 0
}

// Quadrant crosses the balance and age axes. Both comparisons are inclusive.
func Quadrant(balance decimal.Decimal, months int, t model.Threshold) int {
	high := balance.GreaterThanOrEqual(t.Balance)
	old := decimal.NewFromInt(int64(months)).GreaterThanOrEqual(t.Months)

	switch {
	case high && old:
		return QuadrantHighOld
	case !high && old:
		return QuadrantLowOld
	case high:
		return QuadrantHighRecent
	default:
		return QuadrantLowRecent
	}
}

// Describe returns a short label for a quadrant.
func Describe(q int) string {
	switch q {
	case QuadrantHighOld:
		return "high balance, long-standing"
	case QuadrantLowOld:
		return "low balance, long-standing"
	case QuadrantHighRecent:
		return "high balance, recent"
	case QuadrantLowRecent:
		return "low balance, recent"
	default:
		return "unclassified"
	}
}

// ThresholdSource looks up a segment's thresholds.
type ThresholdSource interface {
	LookupThreshold(ctx context.Context, segment string) (model.Threshold, error)
}

// Classifier assigns delinquency months and quadrants to records.
type Classifier struct {
	thresholds ThresholdSource
	logger     *slog.Logger
}

// New creates a classifier backed by the given threshold source.
func New(thresholds ThresholdSource, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{thresholds: thresholds, logger: logger}
}

// ClassifyAll classifies every record in place against the segment's
// thresholds. The thresholds are fetched once per call and never cached. A
// missing threshold aborts the pass before any record is touched.
func (c *Classifier) ClassifyAll(ctx context.Context, segment string, records []model.Record) (model.Threshold, error) {
	t, err := c.thresholds.LookupThreshold(ctx, segment)
	if err != nil {
		return model.Threshold{}, fmt.Errorf("classify segment %q: %w", segment, err)
	}

	counts := make(map[int]int, 4)
	for i := range records {
		r := &records[i]
		r.DelinquencyMonths = DelinquencyMonths(r.Aging)
		r.Quadrant = Quadrant(r.EndingBalance, r.DelinquencyMonths, t)
		counts[r.Quadrant]++
	}

	c.logger.Info("classified records",
		"segment", segment,
		"balance_threshold", t.Balance.String(),
		"age_threshold_months", t.Months.String(),
		"records", len(records),
		"q1", counts[QuadrantHighOld],
		"q2", counts[QuadrantLowOld],
		"q3", counts[QuadrantHighRecent],
		"q4", counts[QuadrantLowRecent])

	return t, nil
}

// StaticThresholds is a fixed in-memory threshold table.
type StaticThresholds map[string]model.Threshold

// LookupThreshold implements ThresholdSource.
func (s StaticThresholds) LookupThreshold(_ context.Context, segment string) (model.Threshold, error) {
	t, ok := s[segment]
	if !ok {
		return model.Threshold{}, fmt.Errorf("%w: segment %q", common.ErrThresholdNotFound, segment)
	}
	return t, nil
}
