package sheets

import (
	"testing"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThresholds(t *testing.T) {
	table := model.NewTable([][]string{
		{"Segmen", "Batas Nominal", "Batas Waktu (bulan)"},
		{"DGS", "Rp 1.000.000", "6"},
		{"", "5", "5"},
		{"DPS", "250000,5", "3"},
	})

	got, err := ParseThresholds(table)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "DGS", got[0].Segment)
	assert.True(t, got[0].Balance.Equal(decimal.NewFromInt(1000000)))
	assert.True(t, got[1].Balance.Equal(decimal.RequireFromString("250000.5")))
}

func TestParseThresholdsErrors(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		_, err := ParseThresholds(model.NewTable([][]string{{"Segmen", "Batas Nominal"}}))
		assert.ErrorIs(t, err, common.ErrSchema)
	})

	t.Run("non numeric", func(t *testing.T) {
		_, err := ParseThresholds(model.NewTable([][]string{
			{"Segmen", "Batas Nominal", "Batas Waktu (bulan)"},
			{"DGS", "lots", "6"},
		}))
		assert.Error(t, err)
	})

	t.Run("empty sheet", func(t *testing.T) {
		got, err := ParseThresholds(model.Table{})
		assert.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestFindThresholdFirstMatch(t *testing.T) {
	ths := []model.Threshold{
		{Segment: "DGS", Balance: decimal.NewFromInt(1)},
		{Segment: "DGS", Balance: decimal.NewFromInt(2)},
	}
	got, err := findThreshold(ths, "DGS")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(1)))
}
