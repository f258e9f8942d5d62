package dump

// exporter.go realizes one table's INSERT statements into rows and writes
// the CSV and auxiliary outputs. Each ExportTable call reads only its own
// index entry and writes only its own files (plus the mutex-guarded shared
// error log), which is what makes parallel export of distinct tables safe.

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sensitiveKeywords route a table's output into the "Good Ones/" triage
// subdirectory when any header name contains one of them.
var sensitiveKeywords = []string{"email", "username", "alias", "ipaddress", "ip_address", "address", "ip"}

// ExportResult summarizes one table export. It is transient: everything it
// describes has already been flushed to disk.
type ExportResult struct {
	Table     string
	OutputDir string // the SqlConversions/<dump-stem>/ directory
	CSVPath   string // empty when no rows survived
	Rows      int    // unique rows written to the CSV
	Malformed int    // rows routed to the wrong-length file
	Errors    int    // statements logged to the shared error file

	// SynthesizedHeaders is true when no CREATE statement and no inline
	// column list was available and column_N placeholders were generated.
	SynthesizedHeaders bool
}

// ExportTable processes all INSERT statements indexed for name and writes
// the table's output files. A parse failure in a single statement is
// logged and skipped; only filesystem failures abort the export.
//
// Returns ErrTableNotFound for names absent from the index.
func (p *Parser) ExportTable(name string) (*ExportResult, error) {
	entry, ok := p.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	var exportHeaders []string
	if entry.create != "" {
		exportHeaders = HeadersFromCreate(entry.create)
	}

	var (
		kept        [][]string
		seen        = make(map[string]struct{})
		malformed   []string
		parseErrors []string
		synthesized bool
	)

	total := len(entry.inserts)
	p.reporter.TableStart(name, total)

	for i, stmt := range entry.inserts {
		activeHeaders := exportHeaders
		if inline := InlineHeaders(stmt); inline != nil {
			activeHeaders = inline
		}

		fragment, hasValues := ValuesFragment(stmt)
		if !hasValues {
			p.reporter.StatementDone(name, i+1, total)
			continue
		}

		rows := TokenizeValues(fragment)
		if len(rows) == 0 {
			if strings.TrimSpace(fragment) != "" {
				parseErrors = append(parseErrors, fmt.Sprintf("no value groups found in statement: %s", truncate(stmt, 100)))
			}
			p.reporter.StatementDone(name, i+1, total)
			continue
		}

		if len(activeHeaders) == 0 {
			activeHeaders = SynthesizeHeaders(len(rows[0]))
			synthesized = true
			p.log.Warn("no headers found, generated placeholder columns",
				"table", name, "columns", len(activeHeaders))
		}
		// The first header list that produces rows becomes the export
		// header for the whole table.
		if len(exportHeaders) == 0 {
			exportHeaders = activeHeaders
		}

		for _, row := range rows {
			if len(row) != len(activeHeaders) {
				malformed = append(malformed, FormatRawRow(row))
				continue
			}
			// Dedup is by exact field-sequence equality. The unit
			// separator makes a collision require 0x1F inside the data.
			key := strings.Join(row, "\x1f")
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			kept = append(kept, row)
		}

		p.reporter.StatementDone(name, i+1, total)
	}

	return p.writeOutputs(name, exportHeaders, kept, malformed, parseErrors, synthesized)
}

// writeOutputs flushes one table's export to disk and assembles the
// result. Filesystem failures here are the only fatal errors in an export.
func (p *Parser) writeOutputs(table string, headers []string, rows [][]string, malformed, parseErrors []string, synthesized bool) (*ExportResult, error) {
	convDir := filepath.Join(p.baseDir, "SqlConversions", p.stem)
	if err := os.MkdirAll(convDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	outDir := convDir
	if hasSensitiveHeader(headers) {
		outDir = filepath.Join(convDir, "Good Ones")
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("create triage directory: %w", err)
		}
	}

	result := &ExportResult{
		Table:              table,
		OutputDir:          convDir,
		Malformed:          len(malformed),
		Errors:             len(parseErrors),
		SynthesizedHeaders: synthesized,
	}

	if len(rows) > 0 {
		csvPath := filepath.Join(outDir, fmt.Sprintf("%s - %s.csv", p.stem, table))
		written, err := p.writeCSV(csvPath, table, headers, rows)
		if err != nil {
			return nil, err
		}
		result.CSVPath = csvPath
		result.Rows = written
		p.log.Info("table exported", "table", table, "rows", written, "malformed", len(malformed))
	} else {
		p.log.Warn("no values found", "table", table)
	}

	if len(malformed) > 0 {
		wrongPath := filepath.Join(outDir, fmt.Sprintf("%s - %s_wrong_length.txt", p.stem, table))
		if err := p.writeLines(wrongPath, malformed); err != nil {
			return nil, fmt.Errorf("write wrong-length file: %w", err)
		}
	}

	if len(parseErrors) > 0 {
		if err := p.appendErroredLines(convDir, parseErrors); err != nil {
			return nil, fmt.Errorf("append error log: %w", err)
		}
	}

	return result, nil
}

// writeCSV writes the header row plus one data row per kept Row, each
// suffixed with the table name. Rows whose width disagrees with the export
// header (possible when inline column lists vary) are skipped; the
// returned count is what actually landed in the file.
func (p *Parser) writeCSV(path, table string, headers []string, rows [][]string) (int, error) {
	out, err := openEncodedWriter(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, p.encoding)
	if err != nil {
		return 0, fmt.Errorf("create CSV: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)

	csvHeaders := headers
	if !containsHeader(headers, "table") {
		csvHeaders = append(append([]string{}, headers...), "table")
	}
	if err := w.Write(csvHeaders); err != nil {
		return 0, fmt.Errorf("write CSV header: %w", err)
	}

	written := 0
	for _, row := range rows {
		if len(row) != len(headers) {
			continue
		}
		if err := w.Write(append(append([]string{}, row...), table)); err != nil {
			return written, fmt.Errorf("write CSV row: %w", err)
		}
		written++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return written, fmt.Errorf("flush CSV: %w", err)
	}
	return written, out.Close()
}

// writeLines writes one string per line, replacing any previous file.
func (p *Parser) writeLines(path string, lines []string) error {
	out, err := openEncodedWriter(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, p.encoding)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write([]byte(strings.Join(lines, "\n") + "\n")); err != nil {
		return err
	}
	return out.Close()
}

// appendErroredLines appends parse error messages to the error log shared
// by all tables of the dump. The mutex keeps parallel table exports from
// interleaving their appends.
func (p *Parser) appendErroredLines(convDir string, errs []string) error {
	p.errMu.Lock()
	defer p.errMu.Unlock()

	path := filepath.Join(convDir, p.stem+"_ErroredLines.txt")
	out, err := openEncodedWriter(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, p.encoding)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write([]byte(strings.Join(errs, "\n") + "\n")); err != nil {
		return err
	}
	return out.Close()
}

func hasSensitiveHeader(headers []string) bool {
	for _, h := range headers {
		lower := strings.ToLower(h)
		for _, keyword := range sensitiveKeywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
	}
	return false
}

func containsHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}
