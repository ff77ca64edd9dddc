// Package reconcile applies edited rows back onto the canonical record store
// by composite key and projects the same field updates onto the sheet.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/normalize"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/store"
)

// HeaderRows is the number of sheet rows above the first record.
const HeaderRows = 1

// CellUpdate is one field change, addressed both in memory and on the sheet.
type CellUpdate struct {
	Key    model.CompositeKey
	Column string
	Value  any
	// Index is the record's position in the store.
	Index int
	// Row and Col are 1-based sheet coordinates.
	Row int
	Col int
}

// Result is the outcome of applying an edit batch.
type Result struct {
	Updates  []CellUpdate
	Warnings []common.Warning
	// Applied counts edited rows that matched a stored record.
	Applied int
}

// CellWriter writes a single sheet cell.
type CellWriter interface {
	UpdateCell(ctx context.Context, sheet string, row, col int, value any) error
}

// Engine reconciles edits against a store.
type Engine struct {
	parser normalize.Parser
	logger *slog.Logger
}

// New creates an engine. Edited numeric fields are parsed in zero-default
// mode since they are written straight back to the sheet.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{parser: normalize.Persistence(), logger: logger}
}

// Apply writes every non-key column of each edited row onto the first stored
// record with the same composite key. Columns absent from the edit table are
// left untouched. Rows without a match are skipped with a warning. An edit
// table lacking a key column is rejected as a whole.
func (e *Engine) Apply(s *store.Store, edits model.Table) (Result, error) {
	var missing []string
	for _, col := range model.KeyColumns {
		if !edits.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if dups := edits.DuplicateColumns(); len(missing) > 0 || len(dups) > 0 {
		return Result{}, &common.SchemaError{MissingColumns: missing, DuplicateColumns: dups}
	}

	var res Result
	var fields []string
	for _, col := range edits.Columns {
		if isKey(col) {
			continue
		}
		if !model.IsCanonical(col) || s.ColumnIndex(col) < 0 {
			res.Warnings = append(res.Warnings, common.NewWarning(common.WarnUnknownColumn,
				"column %q is not in the database sheet and was ignored", col))
			continue
		}
		fields = append(fields, col)
	}

	for ri := range edits.Rows {
		key := model.CompositeKey{
			CustomerID: edits.Cell(ri, model.ColCustomerID),
			Segment:    edits.Cell(ri, model.ColSegment),
			Period:     edits.Cell(ri, model.ColPeriod),
		}

		idx := s.Index(key)
		if idx < 0 {
			w := common.RowWarning(common.WarnRecordNotFound, ri, "%s: %v, skipped", key, common.ErrRecordNotFound)
			res.Warnings = append(res.Warnings, w)
			e.logger.Warn("edited row has no stored record", "key", key.String())
			continue
		}

		rec := &s.Records[idx]
		for _, col := range fields {
			if err := rec.Set(col, edits.Cell(ri, col), e.parser); err != nil {
				return res, fmt.Errorf("apply %s to %s: %w", col, key, err)
			}
			v, _ := rec.Get(col)
			res.Updates = append(res.Updates, CellUpdate{
				Key:    key,
				Column: col,
				Value:  model.CellValue(v),
				Index:  idx,
				Row:    idx + HeaderRows + 1,
				Col:    s.ColumnIndex(col) + 1,
			})
		}
		res.Applied++
	}

	e.logger.Info("reconciled edits",
		"edited_rows", len(edits.Rows),
		"applied", res.Applied,
		"cell_updates", len(res.Updates),
		"warnings", len(res.Warnings))

	return res, nil
}

// Project writes the updates to the sheet cell by cell, in order. The first
// failure stops the projection and is returned; nothing is retried. progress,
// when non-nil, is called after each successful write.
func (e *Engine) Project(ctx context.Context, w CellWriter, sheet string, updates []CellUpdate, progress func(done int)) error {
	for i, u := range updates {
		if err := w.UpdateCell(ctx, sheet, u.Row, u.Col, u.Value); err != nil {
			return fmt.Errorf("update %s %q at R%dC%d: %w", u.Key, u.Column, u.Row, u.Col, err)
		}
		if progress != nil {
			progress(i + 1)
		}
	}
	e.logger.Debug("projected updates", "sheet", sheet, "cells", len(updates))
	return nil
}

func isKey(column string) bool {
	for _, k := range model.KeyColumns {
		if k == column {
			return true
		}
	}
	return false
}
