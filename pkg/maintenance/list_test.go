package maintenance

import (
	"testing"

	"github.com/iwvelando/turbine-invest/pkg/constants"
	"github.com/iwvelando/turbine-invest/pkg/units"
)

func names(l *List) []string {
	items := l.Items()
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func equalNames(t *testing.T, l *List, expected ...string) {
	t.Helper()
	got := names(l)
	if len(got) != len(expected) {
		t.Fatalf("expected items %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("expected items %v, got %v", expected, got)
		}
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func unitPtr(u units.Unit) *units.Unit { return &u }

func TestDefaultList(t *testing.T) {
	l := DefaultList()
	equalNames(t, l, "routine maintenance", "parts replacement")
	items := l.Items()
	if items[0].Cost.Amount != 1000 || items[1].Cost.Amount != 2000 {
		t.Fatalf("unexpected default costs: %+v", items)
	}
	if items[0].ID == "" || items[0].ID == items[1].ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", items[0].ID, items[1].ID)
	}
}

func TestAppend(t *testing.T) {
	l := NewList(units.TenThousandUSD)
	item := l.Append()

	if item.Name != constants.DefaultMaintenanceItemName {
		t.Errorf("expected default name %q, got %q", constants.DefaultMaintenanceItemName, item.Name)
	}
	if item.Cost.Amount != 0 {
		t.Errorf("expected zero cost, got %v", item.Cost.Amount)
	}
	if item.Cost.Unit != units.TenThousandUSD {
		t.Errorf("expected default unit %s, got %s", units.TenThousandUSD, item.Cost.Unit)
	}
	if l.Len() != 1 {
		t.Errorf("expected length 1, got %d", l.Len())
	}
}

func TestAppendItemSanitizes(t *testing.T) {
	l := NewList(units.Unit("bogus"))
	if l.DefaultUnit() != units.Yuan {
		t.Fatalf("expected fallback default unit, got %s", l.DefaultUnit())
	}
	item := l.AppendItem("filters", units.MonetaryAmount{Amount: -5, Unit: units.Unit("EUR")})
	if item.Cost.Amount != 0 || item.Cost.Unit != units.Yuan {
		t.Fatalf("expected sanitized cost, got %+v", item.Cost)
	}
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		patch    Patch
		applied  bool
		expected Item
	}{
		{
			name:     "Rename",
			index:    1,
			patch:    Patch{Name: strPtr("blade inspection")},
			applied:  true,
			expected: Item{Name: "blade inspection", Cost: units.MonetaryAmount{Amount: 2000, Unit: units.Yuan}},
		},
		{
			name:     "Cost and unit",
			index:    0,
			patch:    Patch{Cost: floatPtr(12.5), Unit: unitPtr(units.TenThousandCNY)},
			applied:  true,
			expected: Item{Name: "routine maintenance", Cost: units.MonetaryAmount{Amount: 12.5, Unit: units.TenThousandCNY}},
		},
		{
			name:     "Negative index",
			index:    -1,
			patch:    Patch{Name: strPtr("x")},
			applied:  false,
		},
		{
			name:     "Index past end",
			index:    2,
			patch:    Patch{Name: strPtr("x")},
			applied:  false,
		},
		{
			name:     "Unknown unit rejected",
			index:    0,
			patch:    Patch{Name: strPtr("x"), Unit: unitPtr(units.Unit("EUR"))},
			applied:  false,
		},
		{
			name:     "Negative cost rejected",
			index:    0,
			patch:    Patch{Cost: floatPtr(-1)},
			applied:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := DefaultList()
			before := l.Items()
			applied := l.Update(tt.index, tt.patch)
			if applied != tt.applied {
				t.Fatalf("Update() = %v, expected %v", applied, tt.applied)
			}
			after := l.Items()
			if !tt.applied {
				for i := range before {
					if before[i] != after[i] {
						t.Fatalf("rejected update changed item %d: %+v -> %+v", i, before[i], after[i])
					}
				}
				return
			}
			got := after[tt.index]
			if got.Name != tt.expected.Name || got.Cost != tt.expected.Cost {
				t.Errorf("Update() item = %+v, expected %+v", got, tt.expected)
			}
			if got.ID != before[tt.index].ID {
				t.Errorf("Update() changed id")
			}
		})
	}
}

func TestRemoveShiftsAndPreservesOrder(t *testing.T) {
	l := NewList(units.Yuan)
	for _, name := range []string{"a", "b", "c", "d"} {
		l.AppendItem(name, units.MonetaryAmount{Unit: units.Yuan})
	}

	if !l.Remove(1) {
		t.Fatal("expected Remove(1) to succeed")
	}
	equalNames(t, l, "a", "c", "d")

	if !l.Remove(2) {
		t.Fatal("expected Remove(2) to succeed")
	}
	equalNames(t, l, "a", "c")

	if l.Remove(5) || l.Remove(-1) {
		t.Fatal("expected out-of-range removals to be no-ops")
	}
	equalNames(t, l, "a", "c")
}

func TestRemoveLastItemRefused(t *testing.T) {
	l := DefaultList()
	if !l.Remove(0) {
		t.Fatal("expected first removal to succeed")
	}
	if l.CanRemove() {
		t.Fatal("expected CanRemove() false with one item")
	}
	if l.Remove(0) {
		t.Fatal("expected removal of the only item to be refused")
	}
	if l.Len() != 1 {
		t.Fatalf("expected one item to remain, got %d", l.Len())
	}
}

func TestRemoveByIDIdempotent(t *testing.T) {
	l := NewList(units.Yuan)
	for _, name := range []string{"a", "b", "c"} {
		l.AppendItem(name, units.MonetaryAmount{Unit: units.Yuan})
	}
	target := l.Items()[1].ID

	if !l.RemoveByID(target) {
		t.Fatal("expected first RemoveByID to succeed")
	}
	for i := 0; i < 3; i++ {
		if l.RemoveByID(target) {
			t.Fatal("expected repeated RemoveByID to be a no-op")
		}
	}
	equalNames(t, l, "a", "c")
}

func TestStaleEditAfterDelete(t *testing.T) {
	l := NewList(units.Yuan)
	for _, name := range []string{"a", "b"} {
		l.AppendItem(name, units.MonetaryAmount{Unit: units.Yuan})
	}
	stale := l.Items()[1]

	if !l.Remove(1) {
		t.Fatal("expected Remove(1) to succeed")
	}
	if l.Update(1, Patch{Name: strPtr("ghost")}) {
		t.Fatal("expected stale index update to be a no-op")
	}
	if l.UpdateByID(stale.ID, Patch{Name: strPtr("ghost")}) {
		t.Fatal("expected stale id update to be a no-op")
	}
	equalNames(t, l, "a")
}

func TestDuplicateNamesAllowed(t *testing.T) {
	l := NewList(units.Yuan)
	first := l.Append()
	second := l.Append()
	if first.Name != second.Name {
		t.Fatalf("expected identical default names")
	}
	if first.ID == second.ID {
		t.Fatal("expected distinct ids for duplicate names")
	}
	if !l.RemoveByID(second.ID) {
		t.Fatal("expected RemoveByID to succeed")
	}
	if l.IndexOf(first.ID) != 0 {
		t.Fatal("expected the first item to remain")
	}
}

func TestItemsAndCloneAreCopies(t *testing.T) {
	l := DefaultList()
	items := l.Items()
	items[0].Name = "mutated"
	if l.Items()[0].Name == "mutated" {
		t.Fatal("Items() must return a copy")
	}

	clone := l.Clone()
	clone.Append()
	clone.Update(0, Patch{Name: strPtr("cloned")})
	if l.Len() != 2 || l.Items()[0].Name != "routine maintenance" {
		t.Fatal("Clone() must not share state with the original")
	}
}
