package testutil

import (
	"testing"

	"github.com/iwvelando/turbine-invest/pkg/projection"
)

func TestFindRow(t *testing.T) {
	table := &projection.Table{Rows: []projection.Row{
		{Period: 1, Capex: 10},
		{Period: 2},
		{Period: 3, Opex: 5},
	}}

	tests := []struct {
		name        string
		period      int
		expectFound bool
	}{
		{"First period", 1, true},
		{"Last period", 3, true},
		{"Missing period", 4, false},
		{"Zero period", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := FindRow(table, tt.period)
			if tt.expectFound {
				if row == nil {
					t.Fatalf("expected to find period %d", tt.period)
				}
				if row.Period != tt.period {
					t.Errorf("found period %d, expected %d", row.Period, tt.period)
				}
			} else if row != nil {
				t.Errorf("expected nil for period %d, got %+v", tt.period, row)
			}
		})
	}

	if FindRow(nil, 1) != nil {
		t.Error("expected nil for nil table")
	}

	// The returned pointer refers to the table's own row.
	FindRow(table, 2).Revenue = 42
	if table.Rows[1].Revenue != 42 {
		t.Error("expected FindRow to return a pointer into the table")
	}
}

func TestSampleSessionIsValid(t *testing.T) {
	s, err := SampleSession()
	if err != nil {
		t.Fatalf("SampleSession() error = %v", err)
	}
	if err := s.Parameters().Validate(); err != nil {
		t.Fatalf("sample parameters must validate: %v", err)
	}
	if s.Maintenance().Len() != 2 {
		t.Fatalf("expected default maintenance list, got %d items", s.Maintenance().Len())
	}
}
