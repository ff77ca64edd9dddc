package model

import "github.com/shopspring/decimal"

// Threshold columns of the reference sheet.
const (
	ColThresholdSegment = "Segmen"
	ColThresholdBalance = "Batas Nominal"
	ColThresholdMonths  = "Batas Waktu (bulan)"
)

// ThresholdColumns is the header of the threshold reference sheet.
var ThresholdColumns = []string{ColThresholdSegment, ColThresholdBalance, ColThresholdMonths}

// Threshold is one segment's quadrant boundary.
type Threshold struct {
	Segment string
	Balance decimal.Decimal
	Months  decimal.Decimal
}
