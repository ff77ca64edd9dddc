// Package normalize turns locale-formatted numeric text (Indonesian Rupiah
// style: "Rp 1.234.567,89", "(500)") into exact decimal values and formats
// decimals back into Rupiah strings.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Mode selects what an unparseable value becomes.
type Mode int

const (
	// ModeMissing reports unparseable values as "no value" (Valid == false).
	// Used on the read path, where a missing number must not be mistaken for zero.
	ModeMissing Mode = iota
	// ModeZero turns unparseable values into 0. Used on the persistence path,
	// where every numeric cell written back to the sheet must hold a number.
	ModeZero
)

// CurrencyMarker is the token stripped while parsing and prefixed while formatting.
const CurrencyMarker = "Rp"

var (
	parenthesized = regexp.MustCompile(`^\((.*)\)$`)
	nonNumeric    = regexp.MustCompile(`[^\d.\-]`)
)

// Parser parses numeric text. The zero value parses in ModeMissing without
// accounting-style negatives.
type Parser struct {
	Mode Mode
	// Parentheses enables "(500)" -> -500.
	Parentheses bool
}

// Persistence is the parser used before rows are written to the external store.
func Persistence() Parser {
	return Parser{Mode: ModeZero, Parentheses: true}
}

// Analysis is the parser used when reading stored rows for reporting.
func Analysis() Parser {
	return Parser{Mode: ModeMissing, Parentheses: true}
}

// Clean applies the textual cleanup rules and returns the string that will be
// handed to the decimal parser.
func (p Parser) Clean(raw string) string {
	s := strings.TrimSpace(raw)
	if p.Parentheses {
		s = parenthesized.ReplaceAllString(s, "-$1")
	}
	s = strings.ReplaceAll(s, CurrencyMarker, "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return nonNumeric.ReplaceAllString(s, "")
}

// Parse converts raw text into a decimal. In ModeZero the result is always
// valid; in ModeMissing a failed parse yields an invalid NullDecimal.
func (p Parser) Parse(raw string) decimal.NullDecimal {
	d, err := decimal.NewFromString(p.Clean(raw))
	if err != nil {
		if p.Mode == ModeZero {
			return decimal.NewNullDecimal(decimal.Zero)
		}
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ParseOrZero returns the parsed value, or zero when there is none.
func (p Parser) ParseOrZero(raw string) decimal.Decimal {
	v := p.Parse(raw)
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}

// ParseColumn parses every value of a column.
func (p Parser) ParseColumn(values []string) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(values))
	for i, v := range values {
		out[i] = p.Parse(v)
	}
	return out
}

// ParseTable parses every column of a row-major grid except those named in
// exclude. The result maps column name to its parsed values, one per row.
// Rows shorter than the header read as empty cells.
func (p Parser) ParseTable(columns []string, rows [][]string, exclude []string) map[string][]decimal.NullDecimal {
	skip := make(map[string]struct{}, len(exclude))
	for _, c := range exclude {
		skip[c] = struct{}{}
	}

	out := make(map[string][]decimal.NullDecimal)
	for ci, col := range columns {
		if _, ok := skip[col]; ok {
			continue
		}
		cells := make([]string, len(rows))
		for ri, row := range rows {
			if ci < len(row) {
				cells[ri] = row[ci]
			}
		}
		out[col] = p.ParseColumn(cells)
	}
	return out
}

// Identifier normalizes a numeric identifier such as a customer ID number:
// "1.234.567" and "1234567" both become "1234567". Text the parser cannot
// read becomes "0" in ModeZero and is returned trimmed in ModeMissing.
func (p Parser) Identifier(raw string) string {
	v := p.Parse(raw)
	if !v.Valid {
		return strings.TrimSpace(raw)
	}
	return v.Decimal.String()
}

// NumberText renders a native number (from a typed spreadsheet cell) as text
// the parser reads back unchanged: no grouping, decimal comma.
func NumberText(f float64) string {
	return strings.Replace(strconv.FormatFloat(f, 'f', -1, 64), ".", ",", 1)
}
