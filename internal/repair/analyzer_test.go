package repair

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestAnalyzeSchema(t *testing.T) {
	path := writeCSV(t, "dump - users.csv", []string{
		"id,email,note,table",
		"1,a@b.com,hello,users",
		"2,c@d.org,NULL,users",
		"3,e@f.net,world,users",
	})

	schema, err := AnalyzeSchema(path, 50)
	if err != nil {
		t.Fatalf("AnalyzeSchema() error = %v", err)
	}
	if len(schema) != 4 {
		t.Fatalf("len(schema) = %d, want 4", len(schema))
	}

	want := []struct {
		name string
		typ  ColumnType
	}{
		{"id", TypeInteger},
		{"email", TypeEmail},
		{"note", TypeString},
		{"table", TypeString},
	}
	for i, w := range want {
		if schema[i].Name != w.name {
			t.Errorf("schema[%d].Name = %q, want %q", i, schema[i].Name, w.name)
		}
		if schema[i].Type != w.typ {
			t.Errorf("schema[%d].Type = %v, want %v", i, schema[i].Type, w.typ)
		}
		if schema[i].Index != i {
			t.Errorf("schema[%d].Index = %d, want %d", i, schema[i].Index, i)
		}
	}
}

func TestAnalyzeSchema_SampleLimit(t *testing.T) {
	// First row is an integer, the rest are strings. With sampleRows=1
	// only the integer is seen.
	path := writeCSV(t, "dump - t.csv", []string{
		"v",
		"42",
		"abc",
		"def",
	})

	schema, err := AnalyzeSchema(path, 1)
	if err != nil {
		t.Fatalf("AnalyzeSchema() error = %v", err)
	}
	if schema[0].Type != TypeInteger {
		t.Errorf("Type = %v, want integer", schema[0].Type)
	}
}

func TestAnalyzeSchema_MissingFile(t *testing.T) {
	if _, err := AnalyzeSchema(filepath.Join(t.TempDir(), "nope.csv"), 10); err == nil {
		t.Fatal("AnalyzeSchema() expected error for missing file")
	}
}

func TestInferType(t *testing.T) {
	tests := []struct {
		name    string
		samples []string
		want    ColumnType
	}{
		{"all integers", []string{"1", "22", "303"}, TypeInteger},
		{"all emails", []string{"a@b.com", "x@y.org"}, TypeEmail},
		{"mixed strings win", []string{"abc", "def", "7"}, TypeString},
		{"majority integer", []string{"1", "2", "abc"}, TypeInteger},
		{"null skipped", []string{"NULL", "null", "", "5"}, TypeInteger},
		{"all null defaults string", []string{"NULL", ""}, TypeString},
		{"no samples defaults string", nil, TypeString},
		{"tie goes to first seen", []string{"42", "abc"}, TypeInteger},
		{"tie goes to first seen reversed", []string{"abc", "42"}, TypeString},
		{"negative number is string", []string{"-5"}, TypeString},
		{"email with trailing text still email", []string{"a@b.com extra"}, TypeEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inferType(tt.samples); got != tt.want {
				t.Errorf("inferType(%v) = %v, want %v", tt.samples, got, tt.want)
			}
		})
	}
}

func TestColumnTypeString(t *testing.T) {
	if TypeInteger.String() != "integer" || TypeEmail.String() != "email" || TypeString.String() != "string" {
		t.Error("ColumnType.String() mismatch")
	}
}
