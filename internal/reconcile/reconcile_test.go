package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cellWrite struct {
	value any
	sheet string
	row   int
	col   int
}

type fakeWriter struct {
	failAt int
	writes []cellWrite
}

func (f *fakeWriter) UpdateCell(_ context.Context, sheet string, row, col int, value any) error {
	if f.failAt > 0 && len(f.writes)+1 == f.failAt {
		return common.TransportError("update cell", errors.New("503"))
	}
	f.writes = append(f.writes, cellWrite{sheet: sheet, row: row, col: col, value: value})
	return nil
}

func testStore() *store.Store {
	return store.New([]model.Record{
		{Period: "9/2025", Segment: "DGS", CustomerID: "001", CustomerName: "PT Satu", Note: "-", EndingBalance: decimal.NewFromInt(100)},
		{Period: "9/2025", Segment: "DGS", CustomerID: "002", CustomerName: "PT Dua", Note: "-", EndingBalance: decimal.NewFromInt(200)},
		{Period: "9/2025", Segment: "DPS", CustomerID: "002", CustomerName: "PT Dua DPS", Note: "-", EndingBalance: decimal.NewFromInt(300)},
		{Period: "9/2025", Segment: "DGS", CustomerID: "002", CustomerName: "PT Dua duplicate", Note: "-", EndingBalance: decimal.NewFromInt(400)},
	})
}

func noteEdits(rows ...[]string) model.Table {
	return model.Table{
		Columns: []string{model.ColCustomerID, model.ColSegment, model.ColPeriod, model.ColNote},
		Rows:    rows,
	}
}

func TestEngine_ApplyNote(t *testing.T) {
	s := testStore()

	res, err := New(nil).Apply(s, noteEdits([]string{"002", "DPS", "9/2025", "promised to pay"}))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Applied)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "promised to pay", s.Records[2].Note)
	assert.Equal(t, "-", s.Records[1].Note, "other segment untouched")
	assert.Equal(t, "PT Dua DPS", s.Records[2].CustomerName, "columns outside the edit are untouched")

	require.Len(t, res.Updates, 1)
	u := res.Updates[0]
	assert.Equal(t, 2, u.Index)
	assert.Equal(t, 4, u.Row, "index 2 + header + 1-based")
	assert.Equal(t, 12, u.Col, "Keterangan is the 12th canonical column")
	assert.Equal(t, "promised to pay", u.Value)
}

func TestEngine_DuplicateKeyUpdatesFirstMatchOnly(t *testing.T) {
	s := testStore()

	_, err := New(nil).Apply(s, noteEdits([]string{"002", "DGS", "9/2025", "x"}))
	require.NoError(t, err)

	assert.Equal(t, "x", s.Records[1].Note)
	assert.Equal(t, "-", s.Records[3].Note)
}

func TestEngine_MissIsNonFatal(t *testing.T) {
	s := testStore()

	res, err := New(nil).Apply(s, noteEdits(
		[]string{"999", "DGS", "9/2025", "ghost"},
		[]string{"001", "DGS", "9/2025", "real"},
	))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Applied)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, common.WarnRecordNotFound, res.Warnings[0].Kind)
	assert.Equal(t, 0, res.Warnings[0].Row)
	assert.Equal(t, "real", s.Records[0].Note)
}

func TestEngine_Idempotent(t *testing.T) {
	edits := noteEdits(
		[]string{"001", "DGS", "9/2025", "a"},
		[]string{"002", "DPS", "9/2025", "b"},
	)

	once := testStore()
	_, err := New(nil).Apply(once, edits)
	require.NoError(t, err)

	twice := testStore()
	_, err = New(nil).Apply(twice, edits)
	require.NoError(t, err)
	_, err = New(nil).Apply(twice, edits)
	require.NoError(t, err)

	assert.Equal(t, once.Records, twice.Records)
}

func TestEngine_NumericEdit(t *testing.T) {
	s := testStore()
	edits := model.Table{
		Columns: []string{model.ColPeriod, model.ColSegment, model.ColCustomerID, model.ColEndingBalance},
		Rows:    [][]string{{"9/2025", "DGS", "001", "Rp 1.500"}},
	}

	res, err := New(nil).Apply(s, edits)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1500).Equal(s.Records[0].EndingBalance))
	require.Len(t, res.Updates, 1)
	assert.Equal(t, 1500.0, res.Updates[0].Value)
	assert.Equal(t, 11, res.Updates[0].Col)
}

func TestEngine_RejectsEditsWithoutKeyColumns(t *testing.T) {
	s := testStore()
	edits := model.Table{
		Columns: []string{model.ColCustomerID, model.ColNote},
		Rows:    [][]string{{"001", "x"}},
	}

	_, err := New(nil).Apply(s, edits)

	var schemaErr *common.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{model.ColSegment, model.ColPeriod}, schemaErr.MissingColumns)
	assert.Equal(t, "-", s.Records[0].Note)
}

func TestEngine_UnknownColumnIsIgnored(t *testing.T) {
	s := testStore()
	edits := model.Table{
		Columns: []string{model.ColCustomerID, model.ColSegment, model.ColPeriod, "Catatan Lain"},
		Rows:    [][]string{{"001", "DGS", "9/2025", "x"}},
	}

	res, err := New(nil).Apply(s, edits)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, common.WarnUnknownColumn, res.Warnings[0].Kind)
	assert.Empty(t, res.Updates)
}

func TestEngine_Project(t *testing.T) {
	s := testStore()
	res, err := New(nil).Apply(s, noteEdits(
		[]string{"001", "DGS", "9/2025", "a"},
		[]string{"002", "DPS", "9/2025", "b"},
	))
	require.NoError(t, err)

	w := &fakeWriter{}
	var progress []int
	err = New(nil).Project(context.Background(), w, "DATABASE", res.Updates, func(done int) {
		progress = append(progress, done)
	})
	require.NoError(t, err)

	assert.Equal(t, []cellWrite{
		{sheet: "DATABASE", row: 2, col: 12, value: "a"},
		{sheet: "DATABASE", row: 4, col: 12, value: "b"},
	}, w.writes)
	assert.Equal(t, []int{1, 2}, progress)
}

func TestEngine_ProjectStopsOnTransportFailure(t *testing.T) {
	updates := []CellUpdate{
		{Row: 2, Col: 12, Value: "a"},
		{Row: 3, Col: 12, Value: "b"},
		{Row: 4, Col: 12, Value: "c"},
	}
	w := &fakeWriter{failAt: 2}

	err := New(nil).Project(context.Background(), w, "DATABASE", updates, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrTransport))
	assert.Len(t, w.writes, 1)
}
