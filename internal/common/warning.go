package common

import (
	"fmt"
	"log/slog"
)

// WarningKind classifies a non-fatal condition.
type WarningKind string

// Warning kinds.
const (
	WarnEmptySheet     WarningKind = "empty_sheet"
	WarnRecordNotFound WarningKind = "record_not_found"
	WarnUnparseable    WarningKind = "unparseable_value"
	WarnUnknownColumn  WarningKind = "unknown_column"
	WarnDuplicateKey   WarningKind = "duplicate_key"
)

// Warning is a non-fatal condition surfaced next to an otherwise successful result.
type Warning struct {
	Kind    WarningKind
	Message string
	// Row is the zero-based data row the warning refers to, or -1.
	Row int
}

func (w Warning) String() string {
	if w.Row >= 0 {
		return fmt.Sprintf("row %d: %s", w.Row+1, w.Message)
	}
	return w.Message
}

// NewWarning creates a warning not tied to a row.
func NewWarning(kind WarningKind, format string, args ...any) Warning {
	return Warning{Kind: kind, Message: fmt.Sprintf(format, args...), Row: -1}
}

// RowWarning creates a warning for a data row.
func RowWarning(kind WarningKind, row int, format string, args ...any) Warning {
	return Warning{Kind: kind, Message: fmt.Sprintf(format, args...), Row: row}
}

// LogWarnings logs each warning at Warn level.
func LogWarnings(logger *slog.Logger, warnings []Warning) {
	for _, w := range warnings {
		logger.Warn(w.Message, "kind", string(w.Kind), "row", w.Row)
	}
}
