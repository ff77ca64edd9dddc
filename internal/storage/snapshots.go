package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SnapshotInfo describes a stored snapshot.
type SnapshotInfo struct {
	CreatedAt time.Time
	ID        string
	Source    string
	Records   int
}

// SaveSnapshot stores a copy of st and returns the new snapshot's ID. source
// names where the records came from, e.g. the spreadsheet ID.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, source string, st *store.Store) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(source, "source"); err != nil {
		return "", err
	}
	if err := validateStore(st); err != nil {
		return "", err
	}

	header, err := json.Marshal(st.Header)
	if err != nil {
		return "", fmt.Errorf("failed to encode header: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, source, header, record_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, source, string(header), len(st.Records), s.now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_records (
			snapshot_id, position, period, segment, customer_id, customer_name, account_manager,
			aging_0_3, aging_4_6, aging_7_12, aging_13_24, aging_over_24, ending_balance,
			note, delinquency_months, quadrant, last_updated, missing
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range st.Records {
		r := &st.Records[i]
		_, err := stmt.ExecContext(ctx,
			id, i, r.Period, r.Segment, r.CustomerID, r.CustomerName, r.AccountManager,
			r.Aging[0].String(), r.Aging[1].String(), r.Aging[2].String(), r.Aging[3].String(), r.Aging[4].String(),
			r.EndingBalance.String(),
			r.Note, r.DelinquencyMonths, r.Quadrant, r.LastUpdated,
			strings.Join(r.MissingColumns(), "\x1f"))
		if err != nil {
			return "", fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return id, nil
}

// ListSnapshots returns every snapshot, newest first.
func (s *SQLiteStorage) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, record_count, created_at FROM snapshots ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.ID, &info.Source, &info.Records, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// LatestSnapshot loads the most recent snapshot.
func (s *SQLiteStorage) LatestSnapshot(ctx context.Context) (*store.Store, SnapshotInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, SnapshotInfo{}, err
	}

	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, SnapshotInfo{}, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, SnapshotInfo{}, fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	return s.LoadSnapshot(ctx, id)
}

// LoadSnapshot loads a snapshot by ID.
func (s *SQLiteStorage) LoadSnapshot(ctx context.Context, id string) (*store.Store, SnapshotInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, SnapshotInfo{}, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, SnapshotInfo{}, err
	}

	info := SnapshotInfo{ID: id}
	var header string
	err := s.db.QueryRowContext(ctx,
		`SELECT source, header, record_count, created_at FROM snapshots WHERE id = ?`, id).
		Scan(&info.Source, &header, &info.Records, &info.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, SnapshotInfo{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, SnapshotInfo{}, fmt.Errorf("failed to query snapshot: %w", err)
	}

	st := &store.Store{}
	if err := json.Unmarshal([]byte(header), &st.Header); err != nil {
		return nil, SnapshotInfo{}, fmt.Errorf("failed to decode header: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT period, segment, customer_id, customer_name, account_manager,
			aging_0_3, aging_4_6, aging_7_12, aging_13_24, aging_over_24, ending_balance,
			note, delinquency_months, quadrant, last_updated, missing
		FROM snapshot_records WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, SnapshotInfo{}, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	st.Records = make([]model.Record, 0, info.Records)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, SnapshotInfo{}, err
		}
		st.Records = append(st.Records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, SnapshotInfo{}, fmt.Errorf("failed to read records: %w", err)
	}
	return st, info, nil
}

// DeleteSnapshot removes a snapshot and its records.
func (s *SQLiteStorage) DeleteSnapshot(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return nil
}

func scanRecord(rows *sql.Rows) (model.Record, error) {
	var r model.Record
	var customerName, manager, note, lastUpdated, missing sql.NullString
	var amounts [model.NumBuckets + 1]string

	err := rows.Scan(&r.Period, &r.Segment, &r.CustomerID, &customerName, &manager,
		&amounts[0], &amounts[1], &amounts[2], &amounts[3], &amounts[4], &amounts[5],
		&note, &r.DelinquencyMonths, &r.Quadrant, &lastUpdated, &missing)
	if err != nil {
		return r, fmt.Errorf("failed to scan record: %w", err)
	}

	r.CustomerName = customerName.String
	r.AccountManager = manager.String
	r.Note = note.String
	r.LastUpdated = lastUpdated.String

	for i, a := range amounts {
		d, err := decimal.NewFromString(a)
		if err != nil {
			return r, fmt.Errorf("corrupt amount %q for %s: %w", a, r.Key(), err)
		}
		if i < model.NumBuckets {
			r.Aging[i] = d
		} else {
			r.EndingBalance = d
		}
	}

	if missing.String != "" {
		for _, col := range strings.Split(missing.String, "\x1f") {
			r.MarkMissing(col)
		}
	}
	return r, nil
}
