package sheets

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/service"
)

// MockClient is an in-memory spreadsheet with the same write semantics as
// Client, for tests and offline demos.
type MockClient struct {
	sheets         map[string][][]any
	ReadErr        error
	WriteErr       error
	thresholdSheet string
	UpdateCalls    []CellCall
	ReplaceCalls   int
	// FailUpdateAfter makes UpdateCell fail once this many calls succeeded.
	// Zero disables it.
	FailUpdateAfter int
	mu              sync.Mutex
}

// CellCall records one UpdateCell call.
type CellCall struct {
	Value any
	Sheet string
	Row   int
	Col   int
}

var _ service.Spreadsheet = (*MockClient)(nil)

// NewMockClient creates an empty in-memory spreadsheet.
func NewMockClient() *MockClient {
	return &MockClient{
		sheets:         make(map[string][][]any),
		thresholdSheet: DefaultThresholdSheet,
	}
}

// SetGrid replaces a sheet's contents. The first row is the header.
func (m *MockClient) SetGrid(sheet string, grid [][]any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sheets[sheet] = cloneGrid(grid)
}

// Grid returns a copy of a sheet's contents.
func (m *MockClient) Grid(sheet string) [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	return cloneGrid(m.sheets[sheet])
}

// SetTable replaces a sheet's contents with a text table.
func (m *MockClient) SetTable(sheet string, t model.Table) {
	grid := make([][]any, 0, len(t.Rows)+1)
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	grid = append(grid, header)
	for _, r := range t.Rows {
		row := make([]any, len(r))
		for i, v := range r {
			row[i] = v
		}
		grid = append(grid, row)
	}
	m.SetGrid(sheet, grid)
}

// ReadTable implements service.SheetReader.
func (m *MockClient) ReadTable(_ context.Context, sheet string) (model.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadErr != nil {
		return model.Table{}, common.TransportError("read "+sheet, m.ReadErr)
	}
	src := m.sheets[sheet]
	grid := make([][]string, len(src))
	for i, row := range src {
		grid[i] = make([]string, len(row))
		for j, v := range row {
			grid[i][j] = cellString(v)
		}
	}
	return model.NewTable(grid), nil
}

// ReplaceByKey implements service.SheetWriter.
func (m *MockClient) ReplaceByKey(_ context.Context, sheet, period, segment string, rows [][]any) (service.ReplaceResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReplaceCalls++
	var result service.ReplaceResult
	if m.WriteErr != nil {
		return result, common.TransportError("replace rows", m.WriteErr)
	}

	grid := m.sheets[sheet]
	if len(grid) == 0 {
		grid = [][]any{headerRow()}
	}

	kept := [][]any{grid[0]}
	for _, row := range grid[1:] {
		if len(row) >= 2 && samePeriod(cellString(row[0]), period) && cellString(row[1]) == segment {
			result.Deleted++
			continue
		}
		kept = append(kept, row)
	}
	result.StartRow = len(kept) + 1
	for _, r := range rows {
		kept = append(kept, append([]any(nil), r...))
	}
	result.Appended = len(rows)

	data := kept[1:]
	sort.SliceStable(data, func(i, j int) bool {
		for _, spec := range replaceSortSpecs {
			col := int(spec.DimensionIndex)
			var c int
			if col == 0 {
				c = comparePeriods(cellAt(data[i], col), cellAt(data[j], col))
			} else {
				c = compareCells(cellAt(data[i], col), cellAt(data[j], col))
			}
			if c == 0 {
				continue
			}
			if spec.SortOrder == "DESCENDING" {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	m.sheets[sheet] = kept
	return result, nil
}

// UpdateCell implements service.SheetWriter.
func (m *MockClient) UpdateCell(_ context.Context, sheet string, row, col int, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return common.TransportError("update cell", m.WriteErr)
	}
	if m.FailUpdateAfter > 0 && len(m.UpdateCalls) >= m.FailUpdateAfter {
		return common.TransportError("update cell", fmt.Errorf("quota exceeded"))
	}
	m.UpdateCalls = append(m.UpdateCalls, CellCall{Sheet: sheet, Row: row, Col: col, Value: value})

	grid := m.sheets[sheet]
	for len(grid) < row {
		grid = append(grid, nil)
	}
	for len(grid[row-1]) < col {
		grid[row-1] = append(grid[row-1], "")
	}
	grid[row-1][col-1] = value
	m.sheets[sheet] = grid
	return nil
}

// LookupThreshold implements service.ThresholdStore.
func (m *MockClient) LookupThreshold(ctx context.Context, segment string) (model.Threshold, error) {
	thresholds, err := m.ListThresholds(ctx)
	if err != nil {
		return model.Threshold{}, err
	}
	return findThreshold(thresholds, segment)
}

// ListThresholds implements service.ThresholdStore.
func (m *MockClient) ListThresholds(ctx context.Context) ([]model.Threshold, error) {
	t, err := m.ReadTable(ctx, m.thresholdSheet)
	if err != nil {
		return nil, err
	}
	return ParseThresholds(t)
}

// ReplaceThresholds implements service.ThresholdStore.
func (m *MockClient) ReplaceThresholds(_ context.Context, thresholds []model.Threshold) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return common.TransportError("write thresholds", m.WriteErr)
	}
	m.sheets[m.thresholdSheet] = thresholdGrid(thresholds)
	return nil
}

func cellAt(row []any, i int) any {
	if i < len(row) {
		return row[i]
	}
	return nil
}

// compareCells orders numbers before text, like the Sheets sort.
func compareCells(a, b any) int {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	switch {
	case aNum && bNum:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}
	sa, sb := cellString(a), cellString(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

// comparePeriods orders period cells by date, as the sheet does with the
// date cells Client writes. Cells that are not periods fall back to
// compareCells.
func comparePeriods(a, b any) int {
	ia, okA := model.PeriodIndex(cellString(a))
	ib, okB := model.PeriodIndex(cellString(b))
	if !okA || !okB {
		return compareCells(a, b)
	}
	switch {
	case ia < ib:
		return -1
	case ia > ib:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

func cloneGrid(grid [][]any) [][]any {
	if grid == nil {
		return nil
	}
	out := make([][]any, len(grid))
	for i, r := range grid {
		out[i] = append([]any(nil), r...)
	}
	return out
}
