package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      string
		parser    Parser
		wantValid bool
	}{
		{name: "rupiah with decimal comma", parser: Analysis(), raw: "Rp 1.234.567,89", want: "1234567.89", wantValid: true},
		{name: "plain integer", parser: Analysis(), raw: "2000000", want: "2000000", wantValid: true},
		{name: "surrounding whitespace", parser: Analysis(), raw: "  Rp 500  ", want: "500", wantValid: true},
		{name: "parenthesized negative", parser: Analysis(), raw: "(500)", want: "-500", wantValid: true},
		{name: "parenthesized rupiah", parser: Analysis(), raw: "(Rp 1.500,50)", want: "-1500.5", wantValid: true},
		{name: "parentheses disabled keeps sign", parser: Parser{Mode: ModeMissing}, raw: "(500)", want: "500", wantValid: true},
		{name: "explicit minus", parser: Analysis(), raw: "-Rp 2.000", want: "-2000", wantValid: true},
		{name: "empty missing mode", parser: Analysis(), raw: "", wantValid: false},
		{name: "empty zero mode", parser: Persistence(), raw: "", want: "0", wantValid: true},
		{name: "bare minus missing mode", parser: Analysis(), raw: "-", wantValid: false},
		{name: "bare minus zero mode", parser: Persistence(), raw: "-", want: "0", wantValid: true},
		{name: "only separators", parser: Analysis(), raw: ".,.", wantValid: false},
		{name: "only separators zero mode", parser: Persistence(), raw: ".,.", want: "0", wantValid: true},
		{name: "text", parser: Analysis(), raw: "nan", wantValid: false},
		{name: "two decimal commas", parser: Analysis(), raw: "1,2,3", wantValid: false},
		{name: "lowercase marker is not stripped but filtered", parser: Analysis(), raw: "rp 10", want: "10", wantValid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.parser.Parse(tt.raw)
			require.Equal(t, tt.wantValid, got.Valid)
			if tt.wantValid {
				assert.True(t, decimal.RequireFromString(tt.want).Equal(got.Decimal),
					"got %s, want %s", got.Decimal, tt.want)
			}
		})
	}
}

func TestParser_ParseOrZero(t *testing.T) {
	assert.True(t, Analysis().ParseOrZero("abc").IsZero())
	assert.True(t, decimal.NewFromInt(12).Equal(Analysis().ParseOrZero("12")))
}

func TestParser_ParseColumn(t *testing.T) {
	got := Analysis().ParseColumn([]string{"Rp 1.000", "", "(250)"})
	require.Len(t, got, 3)
	assert.True(t, decimal.NewFromInt(1000).Equal(got[0].Decimal))
	assert.False(t, got[1].Valid)
	assert.True(t, decimal.NewFromInt(-250).Equal(got[2].Decimal))

	zero := Persistence().ParseColumn([]string{"", "abc"})
	assert.True(t, zero[0].Valid)
	assert.True(t, zero[1].Decimal.IsZero())
}

func TestParser_Identifier(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		parser Parser
	}{
		{name: "grouped", parser: Persistence(), raw: "1.234.567", want: "1234567"},
		{name: "plain", parser: Persistence(), raw: " 1234567 ", want: "1234567"},
		{name: "leading zeros", parser: Persistence(), raw: "001", want: "1"},
		{name: "unparseable zero mode", parser: Persistence(), raw: "abc", want: "0"},
		{name: "unparseable missing mode", parser: Analysis(), raw: " abc ", want: "abc"},
		{name: "read back from a numeric cell", parser: Analysis(), raw: "1234567", want: "1234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.parser.Identifier(tt.raw))
		})
	}
}

func TestParser_ParseTable(t *testing.T) {
	columns := []string{"IdNumber", "BP Name", "Saldo Akhir"}
	rows := [][]string{
		{"001", "PT Satu", "Rp 1.000"},
		{"002", "PT Dua"},
	}

	got := Persistence().ParseTable(columns, rows, []string{"BP Name"})

	require.Contains(t, got, "IdNumber")
	require.Contains(t, got, "Saldo Akhir")
	assert.NotContains(t, got, "BP Name")

	assert.True(t, decimal.NewFromInt(1).Equal(got["IdNumber"][0].Decimal))
	assert.True(t, decimal.NewFromInt(1000).Equal(got["Saldo Akhir"][0].Decimal))
	assert.True(t, got["Saldo Akhir"][1].Valid, "zero mode fills short rows")
	assert.True(t, got["Saldo Akhir"][1].Decimal.IsZero())
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(1234567), "Rp 1.234.567"},
		{decimal.NewFromInt(1000), "Rp 1.000"},
		{decimal.NewFromInt(125000), "Rp 125.000"},
		{decimal.NewFromInt(999), "Rp 999"},
		{decimal.Zero, "Rp 0"},
		{decimal.RequireFromString("1234.6"), "Rp 1.235"},
		{decimal.NewFromInt(-1234), "Rp -1.234"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.in))
		})
	}
}

func TestFormatCurrency_InvertsParse(t *testing.T) {
	for _, n := range []int64{0, 7, 1000, 1234567, 987654321} {
		formatted := FormatCurrency(decimal.NewFromInt(n))
		parsed := Analysis().Parse(formatted)
		require.True(t, parsed.Valid, formatted)
		assert.Equal(t, n, parsed.Decimal.IntPart(), formatted)
	}
}

func TestFormatCurrencyValue(t *testing.T) {
	assert.Equal(t, "Rp 1.000", FormatCurrencyValue(1000))
	assert.Equal(t, "Rp 1.000", FormatCurrencyValue(int64(1000)))
	assert.Equal(t, "Rp 2", FormatCurrencyValue(1.6))
	assert.Equal(t, "Rp 0", FormatCurrencyValue("abc"))
	assert.Equal(t, "Rp 0", FormatCurrencyValue(nil))
	assert.Equal(t, "Rp 0", FormatCurrencyValue(decimal.NullDecimal{}))
	assert.Equal(t, "Rp 0", FormatCurrencyValue(struct{}{}))
}

func TestNumberText(t *testing.T) {
	tests := map[float64]string{
		0:          "0",
		1500000:    "1500000",
		1500000.5:  "1500000,5",
		-12.25:     "-12,25",
		1234567890: "1234567890",
	}
	for in, want := range tests {
		got := NumberText(in)
		assert.Equal(t, want, got)
		assert.True(t, Analysis().ParseOrZero(got).Equal(decimal.NewFromFloat(in)), "round trip of %v", in)
	}
}
