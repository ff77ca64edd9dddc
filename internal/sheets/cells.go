package sheets

import (
	"time"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"google.golang.org/api/sheets/v4"
)

// PeriodPattern displays a period date cell as "9/2025".
const PeriodPattern = "m/yyyy"

// Spreadsheet date serials count days from this epoch.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var periodFormat = &sheets.CellFormat{
	NumberFormat: &sheets.NumberFormat{Type: "DATE", Pattern: PeriodPattern},
}

// PeriodSerial returns the date serial of the first day of a period.
func PeriodSerial(period string) (float64, bool) {
	month, year, err := model.ParsePeriod(period)
	if err != nil {
		return 0, false
	}
	day := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return float64(day.Sub(serialEpoch) / (24 * time.Hour)), true
}

// samePeriod compares periods by month and year, so a cell displayed as
// "09/2025" matches "9/2025".
func samePeriod(a, b string) bool {
	ia, okA := model.PeriodIndex(a)
	ib, okB := model.PeriodIndex(b)
	if okA && okB {
		return ia == ib
	}
	return a == b
}

// rowData encodes a canonical row for AppendCells. The period column is
// written as a date so the sheet sorts it chronologically.
func rowData(values []any) *sheets.RowData {
	cells := make([]*sheets.CellData, len(values))
	for i, v := range values {
		if i == 0 {
			if s, ok := v.(string); ok {
				if serial, ok := PeriodSerial(s); ok {
					cells[i] = &sheets.CellData{
						UserEnteredValue:  &sheets.ExtendedValue{NumberValue: &serial},
						UserEnteredFormat: periodFormat,
					}
					continue
				}
			}
		}
		cells[i] = cellData(v)
	}
	return &sheets.RowData{Values: cells}
}

func cellData(v any) *sheets.CellData {
	var ev sheets.ExtendedValue
	switch x := v.(type) {
	case nil:
		return &sheets.CellData{}
	case string:
		ev.StringValue = &x
	case float64:
		ev.NumberValue = &x
	case int:
		f := float64(x)
		ev.NumberValue = &f
	case int64:
		f := float64(x)
		ev.NumberValue = &f
	case bool:
		ev.BoolValue = &x
	default:
		s := cellString(x)
		ev.StringValue = &s
	}
	return &sheets.CellData{UserEnteredValue: &ev}
}

func headerRow() []any {
	header := make([]any, len(model.CanonicalColumns))
	for i, col := range model.CanonicalColumns {
		header[i] = col
	}
	return header
}
