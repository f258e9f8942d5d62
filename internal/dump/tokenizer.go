package dump

// tokenizer.go parses the text after a VALUES keyword into rows of string
// fields, one row per top-level parenthesized group. It is the only piece
// of the package that looks inside value tuples; everything upstream works
// on whole statements.

import "strings"

// scanState is the tokenizer's position within the VALUES text.
type scanState int

const (
	// stateCode means structural SQL text: parentheses and commas count.
	stateCode scanState = iota
	// stateLiteral means inside a single-quoted string literal.
	stateLiteral
)

// TokenizeValues parses a VALUES fragment like "(1,'a'),(2,'b');" into
// rows of raw field strings. The fragment is everything following the
// VALUES keyword, including any trailing semicolon.
//
// Text between top-level groups (commas, whitespace, the semicolon) is
// discarded. An unbalanced trailing group is dropped: the fragment is
// treated as truncated at the last balanced group.
func TokenizeValues(values string) [][]string {
	var (
		state scanState
		depth int
		buf   []byte
		rows  [][]string
	)

	for i := 0; i < len(values); i++ {
		c := values[i]

		// A quote toggles literal state unless the previous buffered byte
		// is a backslash. Only that one byte is inspected, so a doubled
		// backslash before a quote is misread as an escape.
		if c == '\'' && (len(buf) == 0 || buf[len(buf)-1] != '\\') {
			if state == stateCode {
				state = stateLiteral
			} else {
				state = stateCode
			}
		}

		if state == stateCode {
			switch c {
			case '(':
				depth++
				if depth == 1 {
					buf = buf[:0]
					continue
				}
			case ')':
				depth--
				if depth == 0 {
					rows = append(rows, SplitRowFields(strings.TrimSpace(string(buf))))
					buf = buf[:0]
					continue
				}
			}
		}

		if depth > 0 {
			buf = append(buf, c)
		}
	}

	return rows
}

// SplitRowFields splits one row's buffered text into fields. The strict
// quote-aware splitter is tried first; if it fails, the raw text is split
// on every comma so that no data is silently dropped.
func SplitRowFields(content string) []string {
	fields, err := splitStrict(content)
	if err != nil {
		return strings.Split(content, ",")
	}
	return fields
}

// splitStrict splits on top-level commas. A field starting with ' or "
// runs to the matching unescaped quote, which is stripped; backslash
// escapes the next byte everywhere. Unquoted fields are trimmed of
// surrounding whitespace. An unterminated quote is an error.
func splitStrict(content string) ([]string, error) {
	var fields []string
	i, n := 0, len(content)

	for {
		for i < n && (content[i] == ' ' || content[i] == '\t') {
			i++
		}

		var val string
		if i < n && (content[i] == '\'' || content[i] == '"') {
			quote := content[i]
			i++
			var b strings.Builder
			closed := false
			for i < n {
				c := content[i]
				if c == '\\' && i+1 < n {
					b.WriteByte(content[i+1])
					i += 2
					continue
				}
				i++
				if c == quote {
					closed = true
					break
				}
				b.WriteByte(c)
			}
			if !closed {
				return nil, errUnterminatedQuote
			}
			val = b.String()
			// Anything between the closing quote and the separator is
			// dropped.
			for i < n && content[i] != ',' {
				i++
			}
		} else {
			var b strings.Builder
			for i < n && content[i] != ',' {
				if content[i] == '\\' && i+1 < n {
					i++
				}
				b.WriteByte(content[i])
				i++
			}
			val = strings.TrimRight(b.String(), " \t")
		}

		fields = append(fields, val)
		if i >= n {
			break
		}
		i++ // separator
		if i == n {
			fields = append(fields, "")
			break
		}
	}

	return fields, nil
}

// FormatRawRow serializes row fields as a parenthesized tuple of
// single-quoted, backslash-escaped values. Wrong-length rows are stored in
// this form so the repair pass can re-tokenize them with [TokenizeValues].
func FormatRawRow(fields []string) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('\'')
		for j := 0; j < len(f); j++ {
			if f[j] == '\'' || f[j] == '\\' {
				b.WriteByte('\\')
			}
			b.WriteByte(f[j])
		}
		b.WriteByte('\'')
	}
	b.WriteByte(')')
	return b.String()
}
