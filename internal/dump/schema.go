package dump

// schema.go derives column headers for a table. Headers come from the
// table's CREATE TABLE statement when one exists; an inline column list on
// an individual INSERT overrides them for that statement only; when
// neither is available, column_N placeholders are synthesized from the
// width of the first parsed row.

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	createBlockRegex   = regexp.MustCompile(`(?s)\((.*)\)`)
	nestedParensRegex  = regexp.MustCompile(`\([^)]*\)`)
	columnNameRegex    = regexp.MustCompile("^[`'\"]?(\\w+)")
	inlineHeadersRegex = regexp.MustCompile(`(?is)INSERT\s+INTO.*?\(\s*(.*?)\s*\)\s*VALUES`)
	valuesRegex        = regexp.MustCompile(`(?is)VALUES\s*(.*)`)

	headerQuoteStripper = strings.NewReplacer("`", "", `"`, "", "'", "")
)

// constraintPrefixes mark column-definition lines that do not declare a
// column. The comparison is a plain prefix check, matching the dumps this
// tool targets.
var constraintPrefixes = []string{"primary", "unique", "key", "constraint", ")"}

// HeadersFromCreate extracts column names from a CREATE TABLE statement,
// preserving definition order. Nested parenthesized fragments (type
// precision, inline constraints) are stripped before splitting so a
// VARCHAR(255) never breaks a definition line in two. Returns nil when no
// column block is found.
func HeadersFromCreate(createStmt string) []string {
	m := createBlockRegex.FindStringSubmatch(createStmt)
	if m == nil {
		return nil
	}

	var headers []string
	content := nestedParensRegex.ReplaceAllString(m[1], "")
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isConstraintLine(line) {
			continue
		}
		if cm := columnNameRegex.FindStringSubmatch(line); cm != nil {
			headers = append(headers, cm[1])
		}
	}
	return headers
}

func isConstraintLine(line string) bool {
	lower := strings.ToLower(line)
	for _, prefix := range constraintPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// InlineHeaders extracts the column list from an INSERT statement of the
// form "INSERT INTO t (col1, col2) VALUES ...". Returns nil when the
// statement carries no inline list.
func InlineHeaders(insertStmt string) []string {
	m := inlineHeadersRegex.FindStringSubmatch(insertStmt)
	if m == nil {
		return nil
	}

	parts := strings.Split(headerQuoteStripper.Replace(m[1]), ",")
	headers := make([]string, len(parts))
	for i, p := range parts {
		headers[i] = strings.TrimSpace(p)
	}
	return headers
}

// ValuesFragment returns the text following the VALUES keyword, or false
// when the statement has no VALUES clause.
func ValuesFragment(stmt string) (string, bool) {
	m := valuesRegex.FindStringSubmatch(stmt)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// SynthesizeHeaders builds column_1..column_n placeholder headers for
// tables with no CREATE statement and no inline column list.
func SynthesizeHeaders(n int) []string {
	headers := make([]string, n)
	for i := range headers {
		headers[i] = fmt.Sprintf("column_%d", i+1)
	}
	return headers
}
