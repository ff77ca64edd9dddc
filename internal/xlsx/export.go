package xlsx

import (
	"fmt"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/aggregate"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/classify"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/xuri/excelize/v2"
)

// SummarySheet is the name of the overview sheet of an export.
const SummarySheet = "Ringkasan"

// Excel number formats used by exports.
const (
	amountFormat  = "#,##0"
	percentFormat = "0.00"
)

// QuadrantSheet returns the sheet name of a quadrant's detail rows.
func QuadrantSheet(q int) string {
	return fmt.Sprintf("Kuadran %d", q)
}

var summaryHeader = []any{"Kuadran", "Deskripsi", "Jumlah", "% Jumlah", "Saldo", "% Saldo"}

// ExportSummary writes a workbook with a summary sheet and one sheet per
// quadrant listing its records, largest balance first.
func ExportSummary(path string, f aggregate.Filter, s aggregate.Summary, records []model.Record) error {
	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	styles, err := newStyles(wb)
	if err != nil {
		return err
	}

	if err := wb.SetSheetName(wb.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeSummary(wb, styles, f, s); err != nil {
		return err
	}

	for q := 1; q <= aggregate.NumQuadrants; q++ {
		rows := aggregate.SortByBalance(aggregate.InQuadrant(records, q))
		if err := writeRecords(wb, styles, QuadrantSheet(q), rows); err != nil {
			return err
		}
	}

	wb.SetActiveSheet(0)
	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

type styles struct {
	header  int
	amount  int
	percent int
}

func newStyles(wb *excelize.File) (styles, error) {
	var st styles
	var err error
	st.header, err = wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
	if err != nil {
		return st, fmt.Errorf("failed to create header style: %w", err)
	}
	amount := amountFormat
	st.amount, err = wb.NewStyle(&excelize.Style{CustomNumFmt: &amount})
	if err != nil {
		return st, fmt.Errorf("failed to create amount style: %w", err)
	}
	pct := percentFormat
	st.percent, err = wb.NewStyle(&excelize.Style{CustomNumFmt: &pct})
	if err != nil {
		return st, fmt.Errorf("failed to create percent style: %w", err)
	}
	return st, nil
}

func writeSummary(wb *excelize.File, st styles, f aggregate.Filter, s aggregate.Summary) error {
	sheet := SummarySheet
	if err := wb.SetCellValue(sheet, "A1", "Filter: "+f.Label()); err != nil {
		return err
	}
	if err := setRow(wb, sheet, 3, summaryHeader); err != nil {
		return err
	}
	if err := wb.SetCellStyle(sheet, "A3", "F3", st.header); err != nil {
		return err
	}

	row := 4
	for _, q := range s.Quadrants {
		balance, _ := q.Balance.Float64()
		values := []any{q.Quadrant, classify.Describe(q.Quadrant), q.Count, q.CountPct, balance, q.BalancePct}
		if err := setRow(wb, sheet, row, values); err != nil {
			return err
		}
		row++
	}

	total, _ := s.TotalBalance.Float64()
	if err := setRow(wb, sheet, row, []any{"Total", "", s.TotalCount, 100.0, total, 100.0}); err != nil {
		return err
	}
	if err := wb.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), st.header); err != nil {
		return err
	}

	for _, span := range [][2]string{{"D4", fmt.Sprintf("D%d", row)}, {"F4", fmt.Sprintf("F%d", row)}} {
		if err := wb.SetCellStyle(sheet, span[0], span[1], st.percent); err != nil {
			return err
		}
	}
	if err := wb.SetCellStyle(sheet, "E4", fmt.Sprintf("E%d", row), st.amount); err != nil {
		return err
	}
	return wb.SetColWidth(sheet, "A", "F", 18)
}

func writeRecords(wb *excelize.File, st styles, sheet string, records []model.Record) error {
	if _, err := wb.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}

	header := make([]any, len(model.CanonicalColumns))
	for i, c := range model.CanonicalColumns {
		header[i] = c
	}
	if err := setRow(wb, sheet, 1, header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := wb.SetCellStyle(sheet, "A1", last, st.header); err != nil {
		return err
	}

	for i := range records {
		if err := setRow(wb, sheet, i+2, records[i].Values()); err != nil {
			return err
		}
	}
	if len(records) > 0 {
		// Aging buckets through ending balance.
		from, _ := excelize.CoordinatesToCellName(6, 2)
		to, _ := excelize.CoordinatesToCellName(11, len(records)+1)
		if err := wb.SetCellStyle(sheet, from, to, st.amount); err != nil {
			return err
		}
	}
	return wb.SetColWidth(sheet, "A", "O", 14)
}

func setRow(wb *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}
