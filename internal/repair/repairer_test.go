package repair

import (
	"reflect"
	"testing"
)

func mkSchema(types ...ColumnType) Schema {
	s := make(Schema, len(types))
	for i, t := range types {
		s[i] = Column{Name: "col_" + string(rune('a'+i)), Type: t, Index: i}
	}
	return s
}

func TestRepair(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
		values []string
		want   []string
	}{
		{
			name:   "aligned row kept in place",
			schema: mkSchema(TypeEmail, TypeInteger),
			values: []string{"x@y.com", "42"},
			want:   []string{"x@y.com", "42"},
		},
		{
			name:   "shift right onto integer column",
			schema: mkSchema(TypeString, TypeInteger),
			values: []string{"42"},
			want:   []string{"NULL", "42"},
		},
		{
			name:   "email anchor pulls values right",
			schema: mkSchema(TypeString, TypeString, TypeEmail),
			values: []string{"a", "b@c.com"},
			want:   []string{"NULL", "a", "b@c.com"},
		},
		{
			name:   "tie keeps lowest offset",
			schema: mkSchema(TypeString, TypeString),
			values: []string{"a"},
			want:   []string{"a", "NULL"},
		},
		{
			name:   "too many values drops the worst fit",
			schema: mkSchema(TypeInteger),
			values: []string{"x", "5"},
			want:   []string{"5"},
		},
		{
			name:   "all null is unrecoverable",
			schema: mkSchema(TypeString, TypeString),
			values: []string{"NULL", "null"},
			want:   nil,
		},
		{
			name:   "no values is unrecoverable",
			schema: mkSchema(TypeString),
			values: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRepairer(tt.schema).Repair(tt.values)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Repair(%v) = %v, want %v", tt.values, got, tt.want)
			}
			if got != nil && len(got) != len(tt.schema) {
				t.Errorf("len(Repair()) = %d, want schema width %d", len(got), len(tt.schema))
			}
		})
	}
}

func TestMatchScore(t *testing.T) {
	tests := []struct {
		value    string
		expected ColumnType
		want     int
	}{
		{"a@b.com", TypeEmail, scoreEmail},
		{"not-an-email", TypeEmail, 0},
		{"42", TypeInteger, scoreInteger},
		{"4x2", TypeInteger, 0},
		{"anything", TypeString, scoreString},
		{"42", TypeString, scoreString},
		{"", TypeString, 0},
		{"NULL", TypeEmail, 0},
		{"null", TypeInteger, 0},
	}

	for _, tt := range tests {
		if got := matchScore(tt.value, tt.expected); got != tt.want {
			t.Errorf("matchScore(%q, %v) = %d, want %d", tt.value, tt.expected, got, tt.want)
		}
	}
}
