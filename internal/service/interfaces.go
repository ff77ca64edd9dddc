// Package service defines the contracts between the dashboard core and the
// external spreadsheet store.
package service

import (
	"context"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
)

// SheetReader reads a whole sheet as a table whose header is the first row.
// An empty sheet yields an empty table, not an error.
type SheetReader interface {
	ReadTable(ctx context.Context, sheet string) (model.Table, error)
}

// SheetWriter mutates the database sheet.
type SheetWriter interface {
	// ReplaceByKey deletes every row whose first two columns equal (period,
	// segment), appends rows at the first free row and re-sorts the sheet.
	ReplaceByKey(ctx context.Context, sheet, period, segment string, rows [][]any) (ReplaceResult, error)
	// UpdateCell overwrites one cell; row and col are 1-based.
	UpdateCell(ctx context.Context, sheet string, row, col int, value any) error
}

// ThresholdStore reads and replaces the threshold reference sheet.
type ThresholdStore interface {
	LookupThreshold(ctx context.Context, segment string) (model.Threshold, error)
	ListThresholds(ctx context.Context) ([]model.Threshold, error)
	ReplaceThresholds(ctx context.Context, thresholds []model.Threshold) error
}

// Spreadsheet is the full external store used by a session.
type Spreadsheet interface {
	SheetReader
	SheetWriter
	ThresholdStore
}

// ReplaceResult reports what a replace-by-key write did.
type ReplaceResult struct {
	Deleted  int
	Appended int
	// StartRow is the 1-based sheet row of the first appended row.
	StartRow int
}
