package testutil

import (
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/shopspring/decimal"
)

// RecordBuilder provides a fluent interface for constructing test records.
type RecordBuilder struct {
	r model.Record
}

// NewRecord starts a record with the given customer ID, a placeholder note
// and period 1/2025 of segment DGS.
func NewRecord(customerID string) *RecordBuilder {
	return &RecordBuilder{r: model.Record{
		CustomerID:   customerID,
		CustomerName: "PT " + customerID,
		Segment:      "DGS",
		Period:       "1/2025",
		Note:         model.Placeholder,
	}}
}

// In sets the segment and period.
func (b *RecordBuilder) In(segment, period string) *RecordBuilder {
	b.r.Segment = segment
	b.r.Period = period
	return b
}

// Manager sets the account manager.
func (b *RecordBuilder) Manager(name string) *RecordBuilder {
	b.r.AccountManager = name
	return b
}

// Balance sets the ending balance.
func (b *RecordBuilder) Balance(v int64) *RecordBuilder {
	b.r.EndingBalance = decimal.NewFromInt(v)
	return b
}

// Aging sets one aging bucket, 0 being the newest band.
func (b *RecordBuilder) Aging(bucket int, v int64) *RecordBuilder {
	b.r.Aging[bucket] = decimal.NewFromInt(v)
	return b
}

// Quadrant sets the quadrant and delinquency months.
func (b *RecordBuilder) Quadrant(q, months int) *RecordBuilder {
	b.r.Quadrant = q
	b.r.DelinquencyMonths = months
	return b
}

// Note sets the Keterangan.
func (b *RecordBuilder) Note(note string) *RecordBuilder {
	b.r.Note = note
	return b
}

// Build returns the record.
func (b *RecordBuilder) Build() model.Record {
	return b.r.Clone()
}

// Records builds every builder in order.
func Records(builders ...*RecordBuilder) []model.Record {
	out := make([]model.Record, len(builders))
	for i, b := range builders {
		out[i] = b.Build()
	}
	return out
}
