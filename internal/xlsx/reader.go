// Package xlsx reads upload batches from Excel workbooks and exports quadrant
// reports to them.
package xlsx

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/normalize"
	"github.com/xuri/excelize/v2"
)

// ErrNoSheet is returned when the workbook has no sheet to read.
var ErrNoSheet = errors.New("workbook has no sheet")

// ReadTable reads a sheet of the workbook at path as a table whose first row
// is the header. An empty sheet name selects the first sheet. Numeric cells
// are rendered with a decimal comma so the normalizer reads them unchanged;
// text cells are returned as typed.
func ReadTable(path, sheet string) (model.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return model.Table{}, ErrNoSheet
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	for r, row := range rows {
		// The header row is always text.
		if r == 0 {
			continue
		}
		for c, raw := range row {
			if raw == "" {
				continue
			}
			if text, ok := numericCell(f, sheet, r+1, c+1, raw); ok {
				row[c] = text
			}
		}
	}

	return model.NewTable(rows), nil
}

// numericCell converts a raw numeric cell value. Strings that merely look
// like numbers, such as "1.500" typed as text, are left alone.
func numericCell(f *excelize.File, sheet string, row, col int, raw string) (string, bool) {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", false
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return "", false
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeBool, excelize.CellTypeError:
		return "", false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", false
	}
	return normalize.NumberText(v), true
}
