package dump

import (
	"reflect"
	"testing"
)

func TestHeadersFromCreate(t *testing.T) {
	tests := []struct {
		name     string
		stmt     string
		expected []string
	}{
		{
			name: "constraint line and nested parens excluded",
			stmt: "CREATE TABLE t (\n" +
				"  id INT,\n" +
				"  name VARCHAR(255) NOT NULL,\n" +
				"  PRIMARY KEY (id)\n" +
				");",
			expected: []string{"id", "name"},
		},
		{
			name: "backtick quoted column names",
			stmt: "CREATE TABLE `users` (\n" +
				"  `id` int(11) unsigned,\n" +
				"  `email` varchar(120),\n" +
				"  UNIQUE KEY `uniq_email` (`email`)\n" +
				");",
			expected: []string{"id", "email"},
		},
		{
			name: "key and constraint prefixes are case-insensitive",
			stmt: "CREATE TABLE t (\n" +
				"  a int,\n" +
				"  KEY idx_a (a),\n" +
				"  Constraint fk FOREIGN KEY (a) REFERENCES b (id)\n" +
				");",
			expected: []string{"a"},
		},
		{
			name:     "no column block",
			stmt:     "CREATE TABLE t;",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := HeadersFromCreate(tt.stmt)
			if !reflect.DeepEqual(headers, tt.expected) {
				t.Errorf("HeadersFromCreate() = %v, want %v", headers, tt.expected)
			}
		})
	}
}

func TestInlineHeaders(t *testing.T) {
	tests := []struct {
		name     string
		stmt     string
		expected []string
	}{
		{
			name:     "inline column list",
			stmt:     "INSERT INTO users (id, email) VALUES (1, 'a@b.com');",
			expected: []string{"id", "email"},
		},
		{
			name:     "quoted identifiers stripped",
			stmt:     "INSERT INTO `users` (`id`, \"email\") VALUES (1, 'x');",
			expected: []string{"id", "email"},
		},
		{
			name:     "no inline list",
			stmt:     "INSERT INTO users VALUES (1, 'a@b.com');",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := InlineHeaders(tt.stmt)
			if !reflect.DeepEqual(headers, tt.expected) {
				t.Errorf("InlineHeaders(%q) = %v, want %v", tt.stmt, headers, tt.expected)
			}
		})
	}
}

func TestValuesFragment(t *testing.T) {
	fragment, ok := ValuesFragment("INSERT INTO t VALUES (1, 'a'), (2, 'b');")
	if !ok {
		t.Fatal("ValuesFragment() ok = false, want true")
	}
	if fragment != "(1, 'a'), (2, 'b');" {
		t.Errorf("ValuesFragment() = %q", fragment)
	}

	if _, ok := ValuesFragment("DROP TABLE t;"); ok {
		t.Error("ValuesFragment() ok = true for statement without VALUES")
	}
}

func TestSynthesizeHeaders(t *testing.T) {
	expected := []string{"column_1", "column_2", "column_3"}
	if got := SynthesizeHeaders(3); !reflect.DeepEqual(got, expected) {
		t.Errorf("SynthesizeHeaders(3) = %v, want %v", got, expected)
	}
}
