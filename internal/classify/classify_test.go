package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buckets(values ...int64) model.Buckets {
	var b model.Buckets
	for i, v := range values {
		b[i] = decimal.NewFromInt(v)
	}
	return b
}

func TestDelinquencyMonths(t *testing.T) {
	tests := []struct {
		name    string
		buckets model.Buckets
		want    int
	}{
		{"all zero", buckets(0, 0, 0, 0, 0), 0},
		{"only newest", buckets(5, 0, 0, 0, 0), 3},
		{"4-6", buckets(0, 1, 0, 0, 0), 6},
		{"7-12", buckets(0, 0, 100, 0, 0), 12},
		{"oldest nonzero wins, not a sum", buckets(5, 0, 0, 10, 0), 24},
		{"over 24", buckets(1, 1, 1, 1, 1), 25},
		{"negative buckets ignored", buckets(-5, 0, 0, -10, -1), 0},
		{"negative oldest falls through", buckets(0, 7, 0, 0, -3), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DelinquencyMonths(tt.buckets))
		})
	}
}

func TestQuadrant_DecisionTable(t *testing.T) {
	th := model.Threshold{Balance: decimal.NewFromInt(1_000_000), Months: decimal.NewFromInt(6)}

	tests := []struct {
		name    string
		balance int64
		months  int
		want    int
	}{
		{"high and old", 2_000_000, 12, QuadrantHighOld},
		{"low and old", 10, 12, QuadrantLowOld},
		{"high and recent", 2_000_000, 3, QuadrantHighRecent},
		{"low and recent", 10, 3, QuadrantLowRecent},
		{"balance boundary is inclusive", 1_000_000, 3, QuadrantHighRecent},
		{"age boundary is inclusive", 10, 6, QuadrantLowOld},
		{"both boundaries", 1_000_000, 6, QuadrantHighOld},
		{"negative balance", -5, 0, QuadrantLowRecent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quadrant(decimal.NewFromInt(tt.balance), tt.months, th))
		})
	}
}

func TestQuadrant_IsTotal(t *testing.T) {
	for _, balance := range []int64{-1, 0, 1, 999, 1000, 1001} {
		for _, months := range []int{0, 3, 6, 12, 24, 25} {
			for _, tb := range []int64{0, 1000} {
				for _, tm := range []int64{0, 6, 24} {
					q := Quadrant(decimal.NewFromInt(balance), months,
						model.Threshold{Balance: decimal.NewFromInt(tb), Months: decimal.NewFromInt(tm)})
					assert.GreaterOrEqual(t, q, 1)
					assert.LessOrEqual(t, q, 4)
				}
			}
		}
	}
}

func TestClassifier_ClassifyAll(t *testing.T) {
	source := StaticThresholds{
		"DGS": {Segment: "DGS", Balance: decimal.NewFromInt(1_000_000), Months: decimal.NewFromInt(6)},
	}
	records := []model.Record{
		{CustomerID: "1", EndingBalance: decimal.NewFromInt(2_000_000), Aging: buckets(0, 0, 100, 0, 0)},
		{CustomerID: "2", EndingBalance: decimal.NewFromInt(500), Aging: buckets(500, 0, 0, 0, 0)},
	}

	th, err := New(source, nil).ClassifyAll(context.Background(), "DGS", records)
	require.NoError(t, err)
	assert.Equal(t, "DGS", th.Segment)

	assert.Equal(t, 12, records[0].DelinquencyMonths)
	assert.Equal(t, QuadrantHighOld, records[0].Quadrant)
	assert.Equal(t, 3, records[1].DelinquencyMonths)
	assert.Equal(t, QuadrantLowRecent, records[1].Quadrant)
}

func TestClassifier_UnknownSegmentRefusesToClassify(t *testing.T) {
	records := []model.Record{{CustomerID: "1", Aging: buckets(1, 0, 0, 0, 0)}}

	_, err := New(StaticThresholds{}, nil).ClassifyAll(context.Background(), "XYZ", records)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrThresholdNotFound))
	assert.Zero(t, records[0].Quadrant, "records stay untouched")
	assert.Zero(t, records[0].DelinquencyMonths)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "high balance, long-standing", Describe(1))
	assert.Equal(t, "unclassified", Describe(0))
}
