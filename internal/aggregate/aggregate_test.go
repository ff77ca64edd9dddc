package aggregate

import (
	"errors"
	"testing"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, segment, period, manager string, balance int64, quadrant int) model.Record {
	return model.Record{
		CustomerID:     id,
		Segment:        segment,
		Period:         period,
		AccountManager: manager,
		EndingBalance:  decimal.NewFromInt(balance),
		Quadrant:       quadrant,
	}
}

func dataset() []model.Record {
	return []model.Record{
		rec("1", "DGS", "9/2025", "Budi", 100, 1),
		rec("2", "DGS", "9/2025", "Sari", 300, 1),
		rec("3", "DGS", "9/2025", "Budi", 300, 1),
		rec("4", "DGS", "9/2025", "budiman", 50, 1),
		rec("5", "DGS", "9/2025", "Sari", 0, 2),
		rec("6", "DGS", "9/2025", "Sari", -10, 2),
		rec("7", "DPS", "9/2025", "Ani", 1000, 3),
		rec("8", "DGS", "10/2025", "Ani", 200, 4),
		rec("9", "DGS", "9/2024", "Ani", 999, 4),
		rec("10", "DGS", "09/2025", "Ani", 1, 4),
	}
}

func ids(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.CustomerID
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"segment and exact month", Filter{Segment: "DGS", Month: 9, Year: 2025}, []string{"1", "2", "3", "4"}},
		{"all segments exact month", Filter{Segment: model.SegmentAll, Month: 9, Year: 2025}, []string{"1", "2", "3", "4", "7"}},
		{"whole year", Filter{Segment: "DGS", Month: 0, Year: 2025}, []string{"1", "2", "3", "4", "8", "10"}},
		{"other year", Filter{Segment: model.SegmentAll, Month: 0, Year: 2024}, []string{"9"}},
		{"nothing", Filter{Segment: "RBS", Month: 1, Year: 2025}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(dataset())))
		})
	}
}

func TestFilter_DropsUnreadableBalance(t *testing.T) {
	r := rec("1", "DGS", "9/2025", "Budi", 100, 1)
	r.MarkMissing(model.ColEndingBalance)
	got := Filter{Segment: "DGS", Month: 9, Year: 2025}.Apply([]model.Record{r})
	assert.Empty(t, got)
}

func TestFilter_Validate(t *testing.T) {
	segments := model.DefaultSegments

	assert.NoError(t, Filter{Segment: "DGS", Month: 0, Year: 2025}.Validate(segments))
	assert.NoError(t, Filter{Segment: model.SegmentAll, Month: 12, Year: 2025}.Validate(segments))

	for _, f := range []Filter{
		{Segment: "XYZ", Month: 1, Year: 2025},
		{Segment: "DGS", Month: 13, Year: 2025},
		{Segment: "DGS", Month: -1, Year: 2025},
		{Segment: "DGS", Month: 1, Year: 0},
	} {
		err := f.Validate(segments)
		assert.True(t, errors.Is(err, common.ErrInvalidFilter), "%+v", f)
	}
}

func TestFilter_Label(t *testing.T) {
	assert.Equal(t, "DGS 9/2025", Filter{Segment: "DGS", Month: 9, Year: 2025}.Label())
	assert.Equal(t, "All segments, all months 2025", Filter{Segment: model.SegmentAll, Year: 2025}.Label())
}

func TestSummarize(t *testing.T) {
	filtered := Filter{Segment: model.SegmentAll, Month: 9, Year: 2025}.Apply(dataset())
	s := Summarize(filtered, DefaultTopN)

	assert.Equal(t, 5, s.TotalCount)
	assert.True(t, decimal.NewFromInt(1750).Equal(s.TotalBalance))

	q1 := s.Quadrants[0]
	assert.Equal(t, 1, q1.Quadrant)
	assert.Equal(t, 4, q1.Count)
	assert.True(t, decimal.NewFromInt(750).Equal(q1.Balance))
	assert.InDelta(t, 80.0, q1.CountPct, 1e-9)
	assert.InDelta(t, 750.0/1750.0*100, q1.BalancePct, 1e-9)
	assert.Equal(t, []string{"2", "3", "1"}, ids(q1.Top), "ties keep original order")

	q2 := s.Quadrants[1]
	assert.Equal(t, 0, q2.Count)
	assert.Zero(t, q2.CountPct)
	assert.Empty(t, q2.Top)

	assert.Equal(t, 1, s.Quadrants[2].Count)
	assert.InDelta(t, 20.0, s.Quadrants[2].CountPct, 1e-9)
}

func TestSummarize_EmptyNeverDividesByZero(t *testing.T) {
	s := Summarize(nil, DefaultTopN)

	assert.Zero(t, s.TotalCount)
	assert.True(t, s.TotalBalance.IsZero())
	for _, q := range s.Quadrants {
		assert.Zero(t, q.CountPct)
		assert.Zero(t, q.BalancePct)
	}
}

func TestSummarize_IgnoresUnclassified(t *testing.T) {
	s := Summarize([]model.Record{rec("1", "DGS", "9/2025", "", 10, 0)}, 3)
	assert.Equal(t, 1, s.TotalCount)
	for _, q := range s.Quadrants {
		assert.Zero(t, q.Count)
	}
}

func TestTopN(t *testing.T) {
	records := []model.Record{
		rec("a", "", "", "", 5, 1),
		rec("b", "", "", "", 9, 1),
		rec("c", "", "", "", 5, 1),
		rec("d", "", "", "", 1, 1),
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids(TopN(records, 3)))
	assert.Equal(t, []string{"b", "a", "c", "d"}, ids(TopN(records, 10)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(records), "input is not reordered")
}

func TestComputeWorkload(t *testing.T) {
	filtered := Filter{Segment: "DGS", Month: 9, Year: 2025}.Apply(dataset())
	w := ComputeWorkload(filtered, "BUDI")

	assert.Equal(t, 3, w.ManagerCustomers, "matches Budi and budiman by substring")
	assert.Equal(t, 4, w.TotalCustomers)
	assert.True(t, decimal.NewFromInt(450).Equal(w.ManagerBalance))
	assert.True(t, decimal.NewFromInt(750).Equal(w.TotalBalance))
	assert.Equal(t, []string{"1", "3", "4"}, ids(w.Records))

	customers, balance := w.ManagerShare()
	assert.InDelta(t, 75.0, customers, 1e-9)
	assert.InDelta(t, 60.0, balance, 1e-9)

	everyone := ComputeWorkload(filtered, "")
	assert.Equal(t, everyone.TotalCustomers, everyone.ManagerCustomers)
}

func TestLeaderboard(t *testing.T) {
	records := dataset()
	records[0].MarkMissing(model.ColEndingBalance)

	board := Leaderboard(records, 2)
	require.Len(t, board, 2)
	assert.Equal(t, "Ani", board[0].Manager)
	assert.True(t, decimal.NewFromInt(2200).Equal(board[0].Balance))
	assert.Equal(t, 4, board[0].Records)
	assert.Equal(t, "Budi", board[1].Manager, "the unreadable balance is skipped")
	assert.True(t, decimal.NewFromInt(300).Equal(board[1].Balance))
	assert.Equal(t, 1, board[1].Records)

	assert.Len(t, Leaderboard(records, 0), 4)
}
