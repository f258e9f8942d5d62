package repair

// recovery.go is the caller-level repair pass: it reads a
// *_wrong_length.txt file, re-tokenizes each line with the dump package's
// row-splitting rules, repairs what it can against the schema inferred
// from the companion CSV, and appends the recovered rows to that CSV.

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/sqlsift/internal/dump"
)

const (
	wrongLengthSuffix = "_wrong_length.txt"
	failedSuffix      = "_failed_recovery.txt"
)

// Options configures a Recovery run.
type Options struct {
	// SampleRows is how many CSV rows schema inference samples.
	// Zero means DefaultSampleRows.
	SampleRows int
}

// Result summarizes one recovery run.
type Result struct {
	Table      string
	Recovered  int    // rows appended to the CSV
	Failed     int    // rows written to the failed-recovery file
	CSVPath    string
	FailedPath string // empty when every row was recovered
}

// Recovery repairs the rows in one wrong-length file. It assumes
// exclusive ownership of the companion CSV for the duration of Run; the
// caller must not export the same table concurrently.
type Recovery struct {
	wrongLengthPath string
	csvPath         string
	failedPath      string
	table           string
	sampleRows      int
	log             *slog.Logger
}

// NewRecovery validates that wrongLengthPath and its companion CSV
// (derived by replacing the _wrong_length.txt suffix with .csv) both
// exist, failing before any processing when either is missing.
func NewRecovery(wrongLengthPath string, opts Options) (*Recovery, error) {
	base := filepath.Base(wrongLengthPath)
	if !strings.HasSuffix(base, wrongLengthSuffix) {
		return nil, fmt.Errorf("input %q does not end in %s", base, wrongLengthSuffix)
	}
	if _, err := os.Stat(wrongLengthPath); err != nil {
		return nil, fmt.Errorf("input file: %w", err)
	}

	stem := strings.TrimSuffix(base, wrongLengthSuffix)
	dir := filepath.Dir(wrongLengthPath)
	csvPath := filepath.Join(dir, stem+".csv")
	if _, err := os.Stat(csvPath); err != nil {
		return nil, fmt.Errorf("companion CSV: %w", err)
	}

	// Export names files "<dump-stem> - <table>"; fall back to the whole
	// stem when the separator is absent.
	table := stem
	if _, after, found := strings.Cut(stem, " - "); found {
		table = after
	}

	return &Recovery{
		wrongLengthPath: wrongLengthPath,
		csvPath:         csvPath,
		failedPath:      filepath.Join(dir, stem+failedSuffix),
		table:           table,
		sampleRows:      opts.SampleRows,
		log:             slog.With("table", table),
	}, nil
}

// Run infers the schema from the companion CSV, attempts to repair every
// row in the wrong-length file, appends recovered rows (suffixed with the
// table name) to the CSV, and writes irrecoverable rows to the
// failed-recovery file.
func (r *Recovery) Run() (*Result, error) {
	schema, err := AnalyzeSchema(r.csvPath, r.sampleRows)
	if err != nil {
		return nil, fmt.Errorf("analyze schema: %w", err)
	}
	repairer := NewRepairer(schema)

	f, err := os.Open(r.wrongLengthPath)
	if err != nil {
		return nil, fmt.Errorf("open wrong-length file: %w", err)
	}
	defer f.Close()

	var (
		recovered [][]string
		failed    []string
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Lines may be whole INSERT fragments or bare serialized tuples.
		fragment := line
		if v, ok := dump.ValuesFragment(line); ok {
			fragment = v
		}

		for _, values := range dump.TokenizeValues(fragment) {
			if row := repairer.Repair(values); row != nil {
				recovered = append(recovered, append(row, r.table))
			} else {
				failed = append(failed, dump.FormatRawRow(values))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan wrong-length file: %w", err)
	}

	if len(recovered) > 0 {
		if err := r.appendToCSV(recovered); err != nil {
			return nil, err
		}
		r.log.Info("recovered rows appended", "rows", len(recovered), "csv", filepath.Base(r.csvPath))
	}

	result := &Result{
		Table:     r.table,
		Recovered: len(recovered),
		Failed:    len(failed),
		CSVPath:   r.csvPath,
	}

	if len(failed) > 0 {
		data := strings.Join(failed, "\n") + "\n"
		if err := os.WriteFile(r.failedPath, []byte(data), 0o644); err != nil {
			return nil, fmt.Errorf("write failed-recovery file: %w", err)
		}
		result.FailedPath = r.failedPath
		r.log.Warn("rows could not be recovered", "rows", len(failed), "file", filepath.Base(r.failedPath))
	}

	return result, nil
}

// appendToCSV appends recovered rows as a single open/append/close
// sequence so the CSV is never held open across other work.
func (r *Recovery) appendToCSV(rows [][]string) error {
	f, err := os.OpenFile(r.csvPath, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open CSV for append: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("append CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush CSV append: %w", err)
	}
	return f.Close()
}
