// Package validation checks raw upload batches against the required schema and
// turns them into classified, canonical records ready to be persisted.
package validation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/classify"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/normalize"
)

// RequiredColumns must be present in every upload batch.
var RequiredColumns = []string{
	model.ColCustomerID,
	model.ColAging0to3, model.ColAging4to6, model.ColAging7to12, model.ColAging13to24, model.ColAgingOver24,
	model.ColEndingBalance,
	model.ColNote,
}

// Target is the (period, segment) an upload batch is destined for.
type Target struct {
	Period  string
	Segment string
}

// StampedSegment is the segment written on every row of the batch.
func (t Target) StampedSegment() string {
	if t.Segment == "" || t.Segment == model.SegmentAll {
		return model.SegmentUnspecified
	}
	return t.Segment
}

// Validator turns raw tables into canonical records.
type Validator struct {
	classifier *classify.Classifier
	parser     normalize.Parser
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the clock used for the Last Updated stamp.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) { v.logger = logger }
}

// New creates a validator. Amounts are normalized in zero-default mode because
// every numeric cell written to the sheet must hold a number.
func New(classifier *classify.Classifier, opts ...Option) *Validator {
	v := &Validator{
		classifier: classifier,
		parser:     normalize.Persistence(),
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks the batch and builds its records. Schema violations are
// fatal to the whole batch and reported together; nothing is returned for a
// rejected batch. The input table is not modified.
func (v *Validator) Validate(ctx context.Context, raw model.Table, target Target) ([]model.Record, error) {
	if _, _, err := model.ParsePeriod(target.Period); err != nil {
		return nil, fmt.Errorf("invalid upload target: %w", err)
	}

	table, blank := dropBlankRows(raw.Clone())
	if blank > 0 {
		v.logger.Debug("skipped blank rows", "rows", blank)
	}
	table = ensureNoteColumn(table)

	schemaErr := &common.SchemaError{
		DuplicateColumns: table.DuplicateColumns(),
	}
	for _, col := range RequiredColumns {
		if !table.HasColumn(col) {
			schemaErr.MissingColumns = append(schemaErr.MissingColumns, col)
		}
	}
	if schemaErr.HasViolations() {
		v.logger.Warn("upload batch rejected",
			"missing_columns", schemaErr.MissingColumns,
			"duplicate_columns", schemaErr.DuplicateColumns)
		return nil, schemaErr
	}

	amounts := v.parser.ParseTable(table.Columns, table.Rows, model.TextColumns)

	segment := target.StampedSegment()
	stamp := v.now().Format(model.TimestampLayout)

	records := make([]model.Record, len(table.Rows))
	seen := make(map[model.CompositeKey]bool, len(table.Rows))
	for i := range table.Rows {
		r := model.Record{
			Period:         target.Period,
			Segment:        segment,
			CustomerID:     amounts[model.ColCustomerID][i].Decimal.String(),
			CustomerName:   textOrPlaceholder(table, i, model.ColCustomerName),
			AccountManager: textOrPlaceholder(table, i, model.ColManager),
			Note:           table.Cell(i, model.ColNote),
			LastUpdated:    stamp,
		}
		for b, col := range model.AgingColumns {
			r.Aging[b] = amounts[col][i].Decimal
		}
		r.EndingBalance = amounts[model.ColEndingBalance][i].Decimal

		key := r.Key()
		if seen[key] {
			schemaErr.DuplicateKeys = append(schemaErr.DuplicateKeys, key.String())
		}
		seen[key] = true

		records[i] = r
	}
	if schemaErr.HasViolations() {
		v.logger.Warn("upload batch rejected", "duplicate_keys", schemaErr.DuplicateKeys)
		return nil, schemaErr
	}

	if _, err := v.classifier.ClassifyAll(ctx, segment, records); err != nil {
		return nil, err
	}

	v.logger.Info("validated upload batch",
		"period", target.Period,
		"segment", segment,
		"rows", len(records))

	return records, nil
}

// dropBlankRows removes rows whose every cell is blank, such as the trailing
// empty rows of an exported workbook.
func dropBlankRows(t model.Table) (model.Table, int) {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		blank := true
		for _, cell := range row {
			if !model.IsBlank(cell) {
				blank = false
				break
			}
		}
		if !blank {
			kept = append(kept, row)
		}
	}
	dropped := len(t.Rows) - len(kept)
	t.Rows = kept
	return t, dropped
}

// ensureNoteColumn adds the note column filled with the placeholder, or
// replaces its blank entries with the placeholder.
func ensureNoteColumn(t model.Table) model.Table {
	idx := t.ColumnIndex(model.ColNote)
	if idx < 0 {
		t.Columns = append(t.Columns, model.ColNote)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], model.Placeholder)
		}
		return t
	}
	for i, row := range t.Rows {
		for len(row) <= idx {
			row = append(row, "")
		}
		if model.IsBlank(row[idx]) {
			row[idx] = model.Placeholder
		}
		t.Rows[i] = row
	}
	return t
}

// textOrPlaceholder reads a text column; absent columns and blank cells read
// as the placeholder so the canonical row never holds an empty text cell.
func textOrPlaceholder(t model.Table, row int, column string) string {
	if !t.HasColumn(column) {
		return model.Placeholder
	}
	s := t.Cell(row, column)
	if model.IsBlank(s) {
		return model.Placeholder
	}
	return s
}
