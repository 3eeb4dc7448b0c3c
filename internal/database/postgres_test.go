package database

import "testing"

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected int
	}{
		{"standard prefix", "001_initial_schema.sql", 1},
		{"two digit version", "012_add_indexes.sql", 12},
		{"no zero padding", "7_fixup.sql", 7},
		{"not sql", "README.md", 0},
		{"no underscore", "notes.sql", 0},
		{"non-numeric prefix", "abc_foo.sql", 0},
		{"version zero", "000_nothing.sql", 0},
		{"empty name", "", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := migrationVersion(tc.filename); got != tc.expected {
				t.Errorf("migrationVersion(%q) = %d, expected %d", tc.filename, got, tc.expected)
			}
		})
	}
}
