package aggregate

import (
	"sort"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/shopspring/decimal"
)

// DefaultTopN is the number of largest balances shown per quadrant.
const DefaultTopN = 3

// NumQuadrants is the size of the quadrant matrix.
const NumQuadrants = 4

// QuadrantSummary holds the statistics of one quadrant.
type QuadrantSummary struct {
	Balance decimal.Decimal
	// Top holds the largest balances, ties in original order.
	Top []model.Record
	// CountPct and BalancePct are shares of the filtered totals, in percent.
	CountPct   float64
	BalancePct float64
	Quadrant   int
	Count      int
}

// Summary is the aggregate view of a filtered record set.
type Summary struct {
	TotalBalance decimal.Decimal
	Quadrants    [NumQuadrants]QuadrantSummary
	TotalCount   int
}

// Summarize groups already-filtered records by quadrant. Records without a
// valid quadrant count toward the totals but belong to no group.
func Summarize(records []model.Record, topN int) Summary {
	var s Summary
	for i := range s.Quadrants {
		s.Quadrants[i].Quadrant = i + 1
	}

	members := make([][]model.Record, NumQuadrants)
	for _, r := range records {
		s.TotalCount++
		s.TotalBalance = s.TotalBalance.Add(r.EndingBalance)
		if r.Quadrant < 1 || r.Quadrant > NumQuadrants {
			continue
		}
		q := &s.Quadrants[r.Quadrant-1]
		q.Count++
		q.Balance = q.Balance.Add(r.EndingBalance)
		members[r.Quadrant-1] = append(members[r.Quadrant-1], r)
	}

	for i := range s.Quadrants {
		q := &s.Quadrants[i]
		q.CountPct = percent(decimal.NewFromInt(int64(q.Count)), decimal.NewFromInt(int64(s.TotalCount)))
		q.BalancePct = percent(q.Balance, s.TotalBalance)
		q.Top = TopN(members[i], topN)
	}
	return s
}

// TopN returns the n records with the largest ending balance. The sort is
// stable, so ties keep their original order.
func TopN(records []model.Record, n int) []model.Record {
	sorted := SortByBalance(records)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// SortByBalance returns a copy sorted by ending balance, largest first.
func SortByBalance(records []model.Record) []model.Record {
	sorted := append([]model.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EndingBalance.GreaterThan(sorted[j].EndingBalance)
	})
	return sorted
}

// InQuadrant returns the records of one quadrant in original order.
func InQuadrant(records []model.Record, quadrant int) []model.Record {
	var out []model.Record
	for _, r := range records {
		if r.Quadrant == quadrant {
			out = append(out, r)
		}
	}
	return out
}

// percent returns part/total*100, or 0 when total is zero.
func percent(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
