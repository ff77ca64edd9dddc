package aggregate

import (
	"sort"
	"strings"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/shopspring/decimal"
)

// Workload compares one account manager's share with the whole filtered set.
type Workload struct {
	ManagerBalance   decimal.Decimal
	TotalBalance     decimal.Decimal
	Records          []model.Record
	Manager          string
	ManagerCustomers int
	TotalCustomers   int
}

// ComputeWorkload matches the manager by case-insensitive substring over
// already-filtered records; an empty manager matches everyone. Customers are
// counted by distinct customer ID.
func ComputeWorkload(records []model.Record, manager string) Workload {
	w := Workload{Manager: manager}
	needle := strings.ToLower(strings.TrimSpace(manager))

	all := make(map[string]struct{})
	mine := make(map[string]struct{})
	for _, r := range records {
		all[r.CustomerID] = struct{}{}
		w.TotalBalance = w.TotalBalance.Add(r.EndingBalance)

		if needle != "" && !strings.Contains(strings.ToLower(r.AccountManager), needle) {
			continue
		}
		mine[r.CustomerID] = struct{}{}
		w.ManagerBalance = w.ManagerBalance.Add(r.EndingBalance)
		w.Records = append(w.Records, r)
	}
	w.TotalCustomers = len(all)
	w.ManagerCustomers = len(mine)
	return w
}

// ManagerShare returns the manager's customer and balance shares in percent.
func (w Workload) ManagerShare() (customers, balance float64) {
	return percent(decimal.NewFromInt(int64(w.ManagerCustomers)), decimal.NewFromInt(int64(w.TotalCustomers))),
		percent(w.ManagerBalance, w.TotalBalance)
}

// LeaderboardEntry is one account manager's total outstanding balance.
type LeaderboardEntry struct {
	Balance decimal.Decimal
	Manager string
	Records int
}

// Leaderboard sums the ending balance per account manager, largest first, and
// keeps the first n entries (all when n <= 0). Records whose balance could
// not be read are skipped. Ties keep first-seen order.
func Leaderboard(records []model.Record, n int) []LeaderboardEntry {
	index := make(map[string]int)
	var entries []LeaderboardEntry
	for i := range records {
		r := &records[i]
		if !r.HasValue(model.ColEndingBalance) {
			continue
		}
		pos, ok := index[r.AccountManager]
		if !ok {
			pos = len(entries)
			index[r.AccountManager] = pos
			entries = append(entries, LeaderboardEntry{Manager: r.AccountManager})
		}
		entries[pos].Balance = entries[pos].Balance.Add(r.EndingBalance)
		entries[pos].Records++
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Balance.GreaterThan(entries[j].Balance)
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
