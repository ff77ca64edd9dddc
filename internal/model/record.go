// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/normalize"
	"github.com/shopspring/decimal"
)

// Canonical column names, as they appear in the database sheet header.
const (
	ColPeriod        = "Bulan Tahun"
	ColSegment       = "Segmen"
	ColCustomerID    = "IdNumber"
	ColCustomerName  = "BP Name"
	ColManager       = "AM"
	ColAging0to3     = "0-3 Bulan"
	ColAging4to6     = "4-6 Bulan"
	ColAging7to12    = "7-12 Bulan"
	ColAging13to24   = "13-24 Bulan"
	ColAgingOver24   = "> 24 Bulan"
	ColEndingBalance = "Saldo Akhir"
	ColNote          = "Keterangan"
	ColDelinquency   = "Lama Tunggakan"
	ColQuadrant      = "Kuadran"
	ColLastUpdated   = "Last Updated"
)

// CanonicalColumns is the fixed column order of the database sheet.
var CanonicalColumns = []string{
	ColPeriod, ColSegment, ColCustomerID, ColCustomerName, ColManager,
	ColAging0to3, ColAging4to6, ColAging7to12, ColAging13to24, ColAgingOver24,
	ColEndingBalance, ColNote, ColDelinquency, ColQuadrant, ColLastUpdated,
}

// AgingColumns lists the aging buckets from newest to oldest.
var AgingColumns = []string{ColAging0to3, ColAging4to6, ColAging7to12, ColAging13to24, ColAgingOver24}

// AmountColumns are the decimal-valued canonical columns.
var AmountColumns = []string{ColAging0to3, ColAging4to6, ColAging7to12, ColAging13to24, ColAgingOver24, ColEndingBalance}

// TextColumns are never numerically normalized, even in table-wide calls.
// The customer ID is not one of them: it is a number written as an
// identifier (see normalize.Parser.Identifier).
var TextColumns = []string{ColCustomerName, ColManager, ColNote, ColSegment, ColPeriod, ColLastUpdated}

// maxExactDigits is the longest integer a spreadsheet number cell holds
// without losing digits.
const maxExactDigits = 15

// KeyColumns form the composite key of a record.
var KeyColumns = []string{ColCustomerID, ColSegment, ColPeriod}

// Placeholder fills empty text cells.
const Placeholder = "-"

// TimestampLayout is the layout of the Last Updated column (DD/MM/YYYY HH:MM:SS).
const TimestampLayout = "02/01/2006 15:04:05"

// NumBuckets is the number of aging buckets.
const NumBuckets = 5

// Buckets holds the aging amounts, newest band first.
type Buckets [NumBuckets]decimal.Decimal

// CompositeKey addresses one logical record across reloads and edits.
type CompositeKey struct {
	CustomerID string
	Segment    string
	Period     string
}

func (k CompositeKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.CustomerID, k.Segment, k.Period)
}

// Record is one row of the canonical dataset.
type Record struct {
	Period            string
	Segment           string
	CustomerID        string
	CustomerName      string
	AccountManager    string
	Note              string
	LastUpdated       string
	EndingBalance     decimal.Decimal
	Aging             Buckets
	DelinquencyMonths int
	Quadrant          int
	missing           map[string]bool
}

// Key returns the record's composite key.
func (r *Record) Key() CompositeKey {
	return CompositeKey{CustomerID: r.CustomerID, Segment: r.Segment, Period: r.Period}
}

// MarkMissing flags a numeric column whose stored text could not be parsed.
func (r *Record) MarkMissing(column string) {
	if r.missing == nil {
		r.missing = make(map[string]bool)
	}
	r.missing[column] = true
}

// HasValue reports whether a numeric column held a parseable value.
func (r *Record) HasValue(column string) bool {
	return !r.missing[column]
}

// MissingColumns returns the numeric columns flagged as missing.
func (r *Record) MissingColumns() []string {
	var out []string
	for _, col := range CanonicalColumns {
		if r.missing[col] {
			out = append(out, col)
		}
	}
	return out
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	if r.missing != nil {
		m := make(map[string]bool, len(r.missing))
		for k, v := range r.missing {
			m[k] = v
		}
		r.missing = m
	}
	return r
}

func agingIndex(column string) int {
	for i, c := range AgingColumns {
		if c == column {
			return i
		}
	}
	return -1
}

// IsCanonical reports whether column is one of the canonical columns.
func IsCanonical(column string) bool {
	for _, c := range CanonicalColumns {
		if c == column {
			return true
		}
	}
	return false
}

// IsAmount reports whether column holds a decimal amount.
func IsAmount(column string) bool {
	for _, c := range AmountColumns {
		if c == column {
			return true
		}
	}
	return false
}

// Get returns the value of a canonical column as it is written to the sheet:
// strings for text columns, decimal.Decimal for amounts and int for the
// derived integer columns.
func (r *Record) Get(column string) (any, error) {
	switch column {
	case ColPeriod:
		return r.Period, nil
	case ColSegment:
		return r.Segment, nil
	case ColCustomerID:
		return r.CustomerID, nil
	case ColCustomerName:
		return r.CustomerName, nil
	case ColManager:
		return r.AccountManager, nil
	case ColEndingBalance:
		return r.EndingBalance, nil
	case ColNote:
		return r.Note, nil
	case ColDelinquency:
		return r.DelinquencyMonths, nil
	case ColQuadrant:
		return r.Quadrant, nil
	case ColLastUpdated:
		return r.LastUpdated, nil
	}
	if i := agingIndex(column); i >= 0 {
		return r.Aging[i], nil
	}
	return nil, fmt.Errorf("unknown column %q", column)
}

// Set assigns raw text to a canonical column. Numeric columns are parsed with
// p; a value p cannot parse marks the column missing and stores zero.
func (r *Record) Set(column, raw string, p normalize.Parser) error {
	switch column {
	case ColPeriod:
		r.Period = CanonicalPeriod(raw)
	case ColSegment:
		r.Segment = raw
	case ColCustomerID:
		r.CustomerID = raw
	case ColCustomerName:
		r.CustomerName = raw
	case ColManager:
		r.AccountManager = raw
	case ColNote:
		r.Note = raw
	case ColLastUpdated:
		r.LastUpdated = raw
	case ColDelinquency, ColQuadrant:
		v := p.Parse(raw)
		n := 0
		if v.Valid {
			n = int(v.Decimal.IntPart())
			delete(r.missing, column)
		} else {
			r.MarkMissing(column)
		}
		if column == ColDelinquency {
			r.DelinquencyMonths = n
		} else {
			r.Quadrant = n
		}
	default:
		i := agingIndex(column)
		if i < 0 && column != ColEndingBalance {
			return fmt.Errorf("unknown column %q", column)
		}
		v := p.Parse(raw)
		d := decimal.Zero
		if v.Valid {
			d = v.Decimal
			delete(r.missing, column)
		} else {
			r.MarkMissing(column)
		}
		if i >= 0 {
			r.Aging[i] = d
		} else {
			r.EndingBalance = d
		}
	}
	return nil
}

// Values returns the record as a sheet row in canonical column order.
func (r *Record) Values() []any {
	out := make([]any, 0, len(CanonicalColumns))
	for _, col := range CanonicalColumns {
		if col == ColCustomerID {
			out = append(out, idValue(r.CustomerID))
			continue
		}
		v, _ := r.Get(col)
		out = append(out, CellValue(v))
	}
	return out
}

// idValue writes numeric IDs as number cells and anything else as text.
func idValue(id string) any {
	digits := strings.TrimPrefix(id, "-")
	if digits == "" || len(digits) > maxExactDigits {
		return id
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != id {
		return id
	}
	return n
}

// CellValue converts a field value into something the Sheets API serializes
// as a number or string.
func CellValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		f, _ := x.Float64()
		return f
	default:
		return x
	}
}

// IsBlank reports whether a text cell should be treated as empty.
func IsBlank(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "nan", "NaN", "None", "null":
		return true
	}
	return false
}
