package repair

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readAllCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}

func TestRecovery_Run(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "dump - users.csv")
	csvBody := strings.Join([]string{
		"id,email,table",
		"1,a@b.com,users",
		"2,c@d.org,users",
	}, "\n") + "\n"
	if err := os.WriteFile(csvPath, []byte(csvBody), 0o644); err != nil {
		t.Fatal(err)
	}

	wrongPath := filepath.Join(dir, "dump - users_wrong_length.txt")
	wrongBody := strings.Join([]string{
		"('x@y.com','77')",
		"INSERT INTO users (id, email, extra) VALUES ('5', 'q@r.io', 'spill');",
		"('NULL','NULL')",
	}, "\n") + "\n"
	if err := os.WriteFile(wrongPath, []byte(wrongBody), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := NewRecovery(wrongPath, Options{SampleRows: 10})
	if err != nil {
		t.Fatalf("NewRecovery() error = %v", err)
	}
	if rec.table != "users" {
		t.Errorf("table = %q, want %q", rec.table, "users")
	}

	result, err := rec.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Recovered != 2 {
		t.Errorf("Recovered = %d, want 2", result.Recovered)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if result.CSVPath != csvPath {
		t.Errorf("CSVPath = %q, want %q", result.CSVPath, csvPath)
	}

	records := readAllCSV(t, csvPath)
	if len(records) != 5 {
		t.Fatalf("CSV has %d records after repair, want 5", len(records))
	}
	// ('x@y.com','77') shifts right so the email lands in the email
	// column; the unfilled id slot is NULL.
	wantShifted := []string{"NULL", "x@y.com", "77", "users"}
	if !equalRow(records[3], wantShifted) {
		t.Errorf("appended row = %v, want %v", records[3], wantShifted)
	}
	wantAligned := []string{"5", "q@r.io", "spill", "users"}
	if !equalRow(records[4], wantAligned) {
		t.Errorf("appended row = %v, want %v", records[4], wantAligned)
	}

	if result.FailedPath == "" {
		t.Fatal("FailedPath is empty, want failed-recovery file")
	}
	data, err := os.ReadFile(result.FailedPath)
	if err != nil {
		t.Fatalf("read failed-recovery file: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != `('NULL','NULL')` {
		t.Errorf("failed-recovery content = %q, want %q", got, `('NULL','NULL')`)
	}
}

func TestRecovery_NoFailures(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "dump - t.csv")
	if err := os.WriteFile(csvPath, []byte("n,table\n7,t\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wrongPath := filepath.Join(dir, "dump - t_wrong_length.txt")
	if err := os.WriteFile(wrongPath, []byte("('9')\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := NewRecovery(wrongPath, Options{})
	if err != nil {
		t.Fatalf("NewRecovery() error = %v", err)
	}
	result, err := rec.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Recovered != 1 || result.Failed != 0 {
		t.Errorf("Recovered = %d, Failed = %d, want 1, 0", result.Recovered, result.Failed)
	}
	if result.FailedPath != "" {
		t.Errorf("FailedPath = %q, want empty", result.FailedPath)
	}
	if _, err := os.Stat(filepath.Join(dir, "dump - t_failed_recovery.txt")); !os.IsNotExist(err) {
		t.Error("failed-recovery file should not exist when every row is recovered")
	}
}

func TestNewRecovery_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("wrong suffix", func(t *testing.T) {
		path := filepath.Join(dir, "users.txt")
		if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewRecovery(path, Options{}); err == nil {
			t.Fatal("NewRecovery() expected error for bad suffix")
		}
	})

	t.Run("missing input", func(t *testing.T) {
		path := filepath.Join(dir, "gone_wrong_length.txt")
		if _, err := NewRecovery(path, Options{}); err == nil {
			t.Fatal("NewRecovery() expected error for missing input")
		}
	})

	t.Run("missing companion CSV", func(t *testing.T) {
		path := filepath.Join(dir, "orphan_wrong_length.txt")
		if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewRecovery(path, Options{}); err == nil {
			t.Fatal("NewRecovery() expected error for missing companion CSV")
		}
	})
}

func equalRow(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
