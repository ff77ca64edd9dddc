package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/aggregate"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/classify"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/normalize"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/reconcile"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/storage"
)

// Renderer writes dashboard views to w. Write errors are sticky: after the
// first failure nothing more is written and Err reports it.
type Renderer struct {
	w   io.Writer
	err error
}

// NewRenderer creates a renderer.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Err returns the first write error.
func (r *Renderer) Err() error {
	return r.err
}

func (r *Renderer) println(s string) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintln(r.w, s)
}

// table writes rows through a tabwriter with a bold header and a rule.
func (r *Renderer) table(header []string, rows [][]string) {
	if r.err != nil {
		return
	}
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	rule := make([]string, len(header))
	for i, h := range header {
		rule[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, strings.Join(rule, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		r.err = err
		return
	}

	lines := strings.SplitN(b.String(), "\n", 2)
	r.println(BoldStyle.Render(lines[0]))
	if len(lines) > 1 {
		r.println(strings.TrimRight(lines[1], "\n"))
	}
}

// Summary renders the quadrant overview and each quadrant's top rows.
func (r *Renderer) Summary(f aggregate.Filter, s aggregate.Summary) {
	r.println(FormatTitle("Quadrant summary: " + f.Label()))
	if s.TotalCount == 0 {
		r.println(SubtleStyle.Render("No outstanding records match this filter."))
		return
	}

	rows := make([][]string, 0, len(s.Quadrants)+1)
	for _, q := range s.Quadrants {
		rows = append(rows, []string{
			fmt.Sprintf("Q%d", q.Quadrant),
			classify.Describe(q.Quadrant),
			fmt.Sprintf("%d", q.Count),
			fmt.Sprintf("%.1f%%", q.CountPct),
			normalize.FormatCurrency(q.Balance),
			fmt.Sprintf("%.1f%%", q.BalancePct),
		})
	}
	rows = append(rows, []string{"Total", "", fmt.Sprintf("%d", s.TotalCount), "100%", normalize.FormatCurrency(s.TotalBalance), "100%"})
	r.table([]string{"Quadrant", "Description", "Customers", "Share", "Balance", "Share"}, rows)

	for i, q := range s.Quadrants {
		if len(q.Top) == 0 {
			continue
		}
		r.println("")
		r.println(QuadrantStyles[i].Render(fmt.Sprintf("Q%d top %d", q.Quadrant, len(q.Top))))
		r.Records(q.Top)
	}
}

// Records renders records as a table.
func (r *Renderer) Records(records []model.Record) {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.CustomerID,
			rec.CustomerName,
			rec.AccountManager,
			normalize.FormatCurrency(rec.EndingBalance),
			fmt.Sprintf("%d", rec.DelinquencyMonths),
			rec.Note,
		})
	}
	r.table([]string{"IdNumber", "BP Name", "AM", "Saldo Akhir", "Months", "Keterangan"}, rows)
}

// Workload renders an account manager's share of the filtered records.
func (r *Renderer) Workload(f aggregate.Filter, w aggregate.Workload) {
	r.println(FormatTitle(fmt.Sprintf("Workload of %q: %s", w.Manager, f.Label())))
	customers, balance := w.ManagerShare()
	r.table([]string{"", "Manager", "All", "Share"}, [][]string{
		{"Customers", fmt.Sprintf("%d", w.ManagerCustomers), fmt.Sprintf("%d", w.TotalCustomers), fmt.Sprintf("%.1f%%", customers)},
		{"Balance", normalize.FormatCurrency(w.ManagerBalance), normalize.FormatCurrency(w.TotalBalance), fmt.Sprintf("%.1f%%", balance)},
	})
	if len(w.Records) > 0 {
		r.println("")
		r.Records(aggregate.SortByBalance(w.Records))
	}
}

// Leaderboard renders account managers ranked by balance.
func (r *Renderer) Leaderboard(f aggregate.Filter, entries []aggregate.LeaderboardEntry) {
	r.println(FormatTitle("Account managers by outstanding balance: " + f.Label()))
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), e.Manager, normalize.FormatCurrency(e.Balance), fmt.Sprintf("%d", e.Records)})
	}
	r.table([]string{"#", "AM", "Saldo Akhir", "Records"}, rows)
}

// Thresholds renders the quadrant thresholds.
func (r *Renderer) Thresholds(thresholds []model.Threshold) {
	rows := make([][]string, 0, len(thresholds))
	for _, t := range thresholds {
		rows = append(rows, []string{t.Segment, normalize.FormatCurrency(t.Balance), t.Months.String()})
	}
	r.table(model.ThresholdColumns, rows)
}

// Snapshots renders stored snapshots.
func (r *Renderer) Snapshots(snapshots []storage.SnapshotInfo) {
	if len(snapshots) == 0 {
		r.println(SubtleStyle.Render("No snapshots found."))
		return
	}
	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, []string{s.ID, s.CreatedAt.Local().Format(model.TimestampLayout), s.Source, fmt.Sprintf("%d", s.Records)})
	}
	r.table([]string{"ID", "Created", "Source", "Records"}, rows)
}

// Reconciled reports the outcome of saving edits.
func (r *Renderer) Reconciled(res reconcile.Result) {
	r.println(FormatSuccess(fmt.Sprintf("Saved %d row(s), %d cell(s) written", res.Applied, len(res.Updates))))
	r.Warnings(res.Warnings)
}

// Warnings renders non-fatal warnings, one per line.
func (r *Renderer) Warnings(warnings []common.Warning) {
	for _, w := range warnings {
		r.println(FormatWarning(w.String()))
	}
}
