package sheets

import (
	"fmt"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/normalize"
)

// ParseThresholds reads the threshold reference table. Rows with an empty
// segment are skipped; a threshold that is not a number is an error rather
// than a silent zero.
func ParseThresholds(t model.Table) ([]model.Threshold, error) {
	if t.Empty() {
		return nil, nil
	}

	var missing []string
	for _, col := range model.ThresholdColumns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &common.SchemaError{MissingColumns: missing}
	}

	parser := normalize.Analysis()
	out := make([]model.Threshold, 0, len(t.Rows))
	for i := range t.Rows {
		segment := t.Cell(i, model.ColThresholdSegment)
		if model.IsBlank(segment) {
			continue
		}
		balance := parser.Parse(t.Cell(i, model.ColThresholdBalance))
		months := parser.Parse(t.Cell(i, model.ColThresholdMonths))
		if !balance.Valid || !months.Valid {
			return nil, fmt.Errorf("threshold row %d for segment %q is not numeric", i+1, segment)
		}
		out = append(out, model.Threshold{Segment: segment, Balance: balance.Decimal, Months: months.Decimal})
	}
	return out, nil
}

// findThreshold returns the first threshold of segment.
func findThreshold(thresholds []model.Threshold, segment string) (model.Threshold, error) {
	for _, t := range thresholds {
		if t.Segment == segment {
			return t, nil
		}
	}
	return model.Threshold{}, fmt.Errorf("%w: segment %q", common.ErrThresholdNotFound, segment)
}

// thresholdGrid renders thresholds as a sheet grid with header.
func thresholdGrid(thresholds []model.Threshold) [][]any {
	grid := make([][]any, 0, len(thresholds)+1)
	header := make([]any, len(model.ThresholdColumns))
	for i, c := range model.ThresholdColumns {
		header[i] = c
	}
	grid = append(grid, header)
	for _, t := range thresholds {
		grid = append(grid, []any{t.Segment, model.CellValue(t.Balance), model.CellValue(t.Months)})
	}
	return grid
}
