// Package store holds the canonical record table of a session.
package store

import (
	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/normalize"
)

// Store is the in-memory canonical record table. Records keep the order of
// the external sheet so a record's position maps to a sheet row. A Store has a
// single writer, the session that owns it; readers borrow Records.
type Store struct {
	// Header is the column header of the sheet the records were loaded from.
	Header  []string
	Records []model.Record
}

// New creates a store with the canonical header.
func New(records []model.Record) *Store {
	return &Store{
		Header:  append([]string(nil), model.CanonicalColumns...),
		Records: records,
	}
}

// FromTable parses a sheet table into a store. Numeric cells are parsed in
// missing mode: an unparseable cell is flagged on its record and reported as
// a warning instead of silently becoming zero. Non-canonical columns are kept
// in the header (so sheet coordinates stay right) but not parsed.
func FromTable(t model.Table) (*Store, []common.Warning) {
	var warnings []common.Warning
	parser := normalize.Analysis()

	s := &Store{
		Header:  append([]string(nil), t.Columns...),
		Records: make([]model.Record, 0, len(t.Rows)),
	}

	for ri, row := range t.Rows {
		var r model.Record
		for ci, col := range t.Columns {
			if !model.IsCanonical(col) {
				continue
			}
			var cell string
			if ci < len(row) {
				cell = row[ci]
			}
			_ = r.Set(col, cell, parser)
		}
		for _, col := range r.MissingColumns() {
			warnings = append(warnings, common.RowWarning(common.WarnUnparseable, ri,
				"column %q of %s is not a number", col, r.Key()))
		}
		s.Records = append(s.Records, r)
	}

	// Edits only reach the first of these.
	for _, k := range s.DuplicateKeys() {
		warnings = append(warnings, common.NewWarning(common.WarnDuplicateKey,
			"%s is stored more than once; edits apply to the first row only", k))
	}

	return s, warnings
}

// Len returns the number of records.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Index returns the position of the first record with the given key, in
// stored order, or -1.
func (s *Store) Index(key model.CompositeKey) int {
	for i := range s.Records {
		if s.Records[i].Key() == key {
			return i
		}
	}
	return -1
}

// ColumnIndex returns the zero-based header position of column, or -1.
func (s *Store) ColumnIndex(column string) int {
	for i, c := range s.Header {
		if c == column {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy that can be mutated without affecting s.
func (s *Store) Clone() *Store {
	out := &Store{
		Header:  append([]string(nil), s.Header...),
		Records: make([]model.Record, len(s.Records)),
	}
	for i, r := range s.Records {
		out.Records[i] = r.Clone()
	}
	return out
}

// DuplicateKeys lists keys held by more than one record.
func (s *Store) DuplicateKeys() []model.CompositeKey {
	seen := make(map[model.CompositeKey]int, len(s.Records))
	var dups []model.CompositeKey
	for i := range s.Records {
		k := s.Records[i].Key()
		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}
	return dups
}
