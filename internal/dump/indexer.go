package dump

// indexer.go builds the in-memory statement index for a dump file. The
// file is streamed line by line and never loaded whole; only CREATE TABLE
// and INSERT INTO statements are retained.

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	createTableRegex = regexp.MustCompile("(?i)CREATE\\s+TABLE\\s+[`'\"]?(\\w+)")
	insertIntoRegex  = regexp.MustCompile("(?i)INSERT\\s+INTO\\s+[`'\"]?(\\w+)")
)

// Scanner sizing for dump files with very long INSERT lines, some well
// past bufio's default 64KB token limit.
const (
	initialScanBuffer = 1024 * 1024
	maxScanBuffer     = 100 * 1024 * 1024
)

// indexReportEvery is how many statements pass between progress callbacks.
const indexReportEvery = 64

// tableEntry is one table's slice of the dump: its CREATE statement, if
// one was seen, and its INSERT statements in file order. Entries are only
// mutated during BuildIndex and are read-only afterwards.
type tableEntry struct {
	create  string
	inserts []string
}

// Options configures a Parser.
type Options struct {
	// Encoding is the dump file's text encoding. Empty means UTF-8.
	// Undecodable bytes are substituted, never fatal.
	Encoding string

	// Reporter receives progress callbacks. Nil means no reporting.
	Reporter Reporter
}

// Parser indexes one SQL dump file and exports its tables to CSV. A
// Parser owns its index exclusively: BuildIndex must complete before
// ExportTable is called, and the same table must not be exported twice
// concurrently. Exporting distinct tables concurrently is safe.
type Parser struct {
	path     string
	stem     string
	baseDir  string
	encoding string
	reporter Reporter
	log      *slog.Logger

	index map[string]*tableEntry
	names []string // first-discovery order

	errMu sync.Mutex // serializes appends to the shared errored-lines file
}

// NewParser validates the dump path and returns a Parser for it. The
// returned Parser carries a unique run_id log attribute so interleaved
// parallel exports can be correlated.
func NewParser(path string, opts Options) (*Parser, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("dump file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("dump path %q is a directory", path)
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}

	name := filepath.Base(path)
	stem := name
	if i := strings.LastIndexByte(stem, '.'); i >= 0 {
		stem = stem[:i]
	}
	stem = strings.TrimSpace(stem)

	return &Parser{
		path:     path,
		stem:     stem,
		baseDir:  filepath.Dir(path),
		encoding: opts.Encoding,
		reporter: reporter,
		log:      slog.With("run_id", uuid.NewString(), "dump", name),
		index:    make(map[string]*tableEntry),
	}, nil
}

// BuildIndex streams the dump once, classifies each semicolon-terminated
// statement, and returns the discovered table names in first-discovery
// order. It must be called exactly once, before any ExportTable call.
//
// Statement boundaries are purely textual: non-empty trimmed lines
// accumulate until one ends with ";". A semicolon ending a line inside a
// string literal therefore terminates the statement early; dumps seen in
// practice do not trip this.
func (p *Parser) BuildIndex() ([]string, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	var total int64
	if info, err := f.Stat(); err == nil {
		total = info.Size()
	}
	counter := newCountingReader(f, total)

	reader, err := decodeReader(counter, p.encoding)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, initialScanBuffer), maxScanBuffer)

	var buffer []string
	statements := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		buffer = append(buffer, line)
		if !strings.HasSuffix(line, ";") {
			continue
		}

		p.classify(strings.Join(buffer, "\n"))
		buffer = buffer[:0]
		statements++
		if statements%indexReportEvery == 0 {
			p.reporter.IndexProgress(counter.bytesRead, counter.total)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan dump: %w", err)
	}
	p.reporter.IndexProgress(counter.bytesRead, counter.total)

	p.log.Info("index built", "tables", len(p.names), "statements", statements)

	names := make([]string, len(p.names))
	copy(names, p.names)
	return names, nil
}

// classify files a complete statement under its table, or drops it.
// Comments, DROP, ALTER, and transaction statements are not indexed.
func (p *Parser) classify(stmt string) {
	if m := createTableRegex.FindStringSubmatch(stmt); m != nil {
		p.entry(m[1]).create = stmt
		return
	}
	if m := insertIntoRegex.FindStringSubmatch(stmt); m != nil {
		e := p.entry(m[1])
		e.inserts = append(e.inserts, stmt)
	}
}

// entry returns the index entry for name, creating it on first sighting.
func (p *Parser) entry(name string) *tableEntry {
	e, ok := p.index[name]
	if !ok {
		e = &tableEntry{}
		p.index[name] = e
		p.names = append(p.names, name)
	}
	return e
}

// TableNames returns the indexed table names in first-discovery order.
func (p *Parser) TableNames() []string {
	names := make([]string, len(p.names))
	copy(names, p.names)
	return names
}
