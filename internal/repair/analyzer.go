// Package repair recovers wrong-length rows left behind by a table
// export. It infers a per-column type schema by sampling the exported CSV,
// then realigns each malformed row against that schema with a sliding
// offset search, appending what it recovers back to the CSV.
package repair

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// ColumnType is the inferred type of a CSV column. Stronger types make
// better alignment anchors during repair.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInteger
	TypeEmail
)

func (t ColumnType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeEmail:
		return "email"
	default:
		return "string"
	}
}

// Column is one inferred schema column.
type Column struct {
	Name  string
	Type  ColumnType
	Index int
}

// Schema is the ordered column list inferred from a CSV sample. It is
// read-only after construction.
type Schema []Column

// DefaultSampleRows is how many data rows AnalyzeSchema samples unless the
// caller overrides it.
const DefaultSampleRows = 50

// Permissive local@domain.tld prefix match. Anchored only at the start:
// trailing text after the domain still counts as an email anchor.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+`)

// AnalyzeSchema reads csvPath's header row, samples up to sampleRows data
// rows, and infers each column's type by majority vote over its sampled
// values. Ties go to the first-seen type; a column with no classifiable
// samples defaults to string.
func AnalyzeSchema(csvPath string, sampleRows int) (Schema, error) {
	if sampleRows <= 0 {
		sampleRows = DefaultSampleRows
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	// Transpose the sample so each column's values sit together.
	columns := make([][]string, len(header))
	for n := 0; n < sampleRows; n++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sample CSV rows: %w", err)
		}
		for j, cell := range row {
			if j < len(columns) {
				columns[j] = append(columns[j], cell)
			}
		}
	}

	schema := make(Schema, len(header))
	for i, name := range header {
		schema[i] = Column{Name: name, Type: inferType(columns[i]), Index: i}
	}
	return schema, nil
}

// inferType picks the majority type among the classifiable sample values.
// Empty and "null" values carry no signal and are skipped.
func inferType(samples []string) ColumnType {
	counts := make(map[ColumnType]int)
	var order []ColumnType

	for _, v := range samples {
		if v == "" || strings.EqualFold(v, "null") {
			continue
		}
		t := classifyValue(v)
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}

	best := TypeString
	bestCount := 0
	for _, t := range order {
		if counts[t] > bestCount {
			best, bestCount = t, counts[t]
		}
	}
	if bestCount == 0 {
		return TypeString
	}
	return best
}

func classifyValue(v string) ColumnType {
	if isAllDigits(v) {
		return TypeInteger
	}
	if emailRegex.MatchString(v) {
		return TypeEmail
	}
	return TypeString
}

func isAllDigits(v string) bool {
	if v == "" {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}
