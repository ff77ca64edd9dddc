package sheets

import (
	"fmt"
	"strings"
)

// ColumnLetter converts a 1-based column number to its A1 letters.
func ColumnLetter(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}

// quoteSheet quotes a sheet title for use in an A1 range.
func quoteSheet(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

// cellRange returns the A1 notation of one cell; row and col are 1-based.
func cellRange(sheet string, row, col int) string {
	return fmt.Sprintf("%s!%s%d", quoteSheet(sheet), ColumnLetter(col), row)
}
