package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/normalize"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testStore(t *testing.T) *store.Store {
	t.Helper()

	r1 := model.Record{
		Period:            "9/2025",
		Segment:           "DGS",
		CustomerID:        "001",
		CustomerName:      "PT Satu",
		AccountManager:    "Budi",
		EndingBalance:     decimal.RequireFromString("2000000.55"),
		Note:              "-",
		DelinquencyMonths: 12,
		Quadrant:          1,
		LastUpdated:       "30/09/2025 14:05:09",
	}
	r1.Aging[2] = decimal.NewFromInt(100)

	var r2 model.Record
	require.NoError(t, r2.Set(model.ColCustomerID, "002", normalize.Analysis()))
	require.NoError(t, r2.Set(model.ColEndingBalance, "n/a", normalize.Analysis()))

	st := store.New([]model.Record{r1, r2})
	st.Header = append(st.Header, "Extra")
	return st
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()
	original := testStore(t)

	id, err := s.SaveSnapshot(ctx, "sheet123", original)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	loaded, info, err := s.LoadSnapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "sheet123", info.Source)
	assert.Equal(t, 2, info.Records)
	assert.Equal(t, original.Header, loaded.Header)
	require.Len(t, loaded.Records, 2)

	got := loaded.Records[0]
	assert.Equal(t, "PT Satu", got.CustomerName)
	assert.True(t, got.EndingBalance.Equal(decimal.RequireFromString("2000000.55")))
	assert.True(t, got.Aging[2].Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 12, got.DelinquencyMonths)
	assert.Equal(t, 1, got.Quadrant)
	assert.Equal(t, "30/09/2025 14:05:09", got.LastUpdated)

	assert.False(t, loaded.Records[1].HasValue(model.ColEndingBalance))
	assert.Equal(t, []string{model.ColEndingBalance}, loaded.Records[1].MissingColumns())
}

func TestLatestSnapshot(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	_, _, err := s.LatestSnapshot(ctx)
	require.ErrorIs(t, err, ErrSnapshotNotFound)

	base := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	clock := base
	s.now = func() time.Time { return clock }

	first, err := s.SaveSnapshot(ctx, "a", store.New(nil))
	require.NoError(t, err)
	clock = base.Add(time.Hour)
	second, err := s.SaveSnapshot(ctx, "b", testStore(t))
	require.NoError(t, err)

	st, info, err := s.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, info.ID)
	assert.Equal(t, 2, st.Len())

	list, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)
	assert.Equal(t, first, list[1].ID)
	assert.True(t, list[0].CreatedAt.Equal(base.Add(time.Hour)))
}

func TestDeleteSnapshot(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	id, err := s.SaveSnapshot(ctx, "a", testStore(t))
	require.NoError(t, err)

	require.NoError(t, s.DeleteSnapshot(ctx, id))
	_, _, err = s.LoadSnapshot(ctx, id)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
	assert.ErrorIs(t, s.DeleteSnapshot(ctx, id), ErrSnapshotNotFound)

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM snapshot_records`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestSaveSnapshotValidation(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, "", store.New(nil))
	assert.ErrorIs(t, err, ErrEmptyString)

	_, err = s.SaveSnapshot(ctx, "a", nil)
	assert.ErrorIs(t, err, ErrNilParameter)
}
