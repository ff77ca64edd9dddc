package normalize

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency rounds to the nearest integer (half to even) and groups the
// digits with "." every three places: 1234567 -> "Rp 1.234.567".
func FormatCurrency(d decimal.Decimal) string {
	s := d.RoundBank(0).String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/3)
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return CurrencyMarker + " " + sign + b.String()
}

// FormatCurrencyValue formats anything that can be read as a number. Values
// that cannot (including NaN, infinities and unparseable text) format as
// "Rp 0".
func FormatCurrencyValue(v any) string {
	zero := CurrencyMarker + " 0"

	switch x := v.(type) {
	case decimal.Decimal:
		return FormatCurrency(x)
	case decimal.NullDecimal:
		if !x.Valid {
			return zero
		}
		return FormatCurrency(x.Decimal)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return zero
		}
		return FormatCurrency(decimal.NewFromFloat(x))
	case float32:
		return FormatCurrencyValue(float64(x))
	case int:
		return FormatCurrency(decimal.NewFromInt(int64(x)))
	case int64:
		return FormatCurrency(decimal.NewFromInt(x))
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return zero
		}
		return FormatCurrency(d)
	default:
		return zero
	}
}
