package dump

import "errors"

// ErrTableNotFound is returned by ExportTable for names that were never
// seen during indexing.
var ErrTableNotFound = errors.New("table not found in dump index")

var errUnterminatedQuote = errors.New("unterminated quoted field")

// truncate shortens s for inclusion in error log entries.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
