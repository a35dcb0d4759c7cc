// Package maintenance holds the editable, ordered list of maintenance cost
// items that feeds the annual maintenance total.
package maintenance

import (
	"github.com/google/uuid"
	"github.com/iwvelando/turbine-invest/pkg/constants"
	"github.com/iwvelando/turbine-invest/pkg/units"
)

// Item is one maintenance cost line. ID is stable for the life of the item;
// position in the list is the display order.
type Item struct {
	ID   string               `json:"id"`
	Name string               `json:"name"`
	Cost units.MonetaryAmount `json:"cost"`
}

// Patch describes an in-place edit. Nil fields are left untouched.
type Patch struct {
	Name *string     `json:"name,omitempty"`
	Cost *float64    `json:"cost,omitempty"`
	Unit *units.Unit `json:"unit,omitempty"`
}

// List is an ordered, mutable collection of maintenance items. Every mutation
// is applied immediately; invalid or stale requests are no-ops reported by a
// false return value. A List is not safe for concurrent use.
type List struct {
	items       []Item
	defaultUnit units.Unit
}

// NewList returns an empty list whose appended items default to defaultUnit.
// An invalid defaultUnit falls back to units.Yuan.
func NewList(defaultUnit units.Unit) *List {
	if !defaultUnit.Valid() {
		defaultUnit = units.Yuan
	}
	return &List{defaultUnit: defaultUnit}
}

// DefaultList returns the starting list offered to a new session.
func DefaultList() *List {
	l := NewList(units.Yuan)
	l.AppendItem("routine maintenance", units.MonetaryAmount{Amount: 1000, Unit: units.Yuan})
	l.AppendItem("parts replacement", units.MonetaryAmount{Amount: 2000, Unit: units.Yuan})
	return l
}

// DefaultUnit returns the unit given to appended items.
func (l *List) DefaultUnit() units.Unit {
	return l.defaultUnit
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.items)
}

// CanRemove reports whether a removal would be accepted, i.e. whether the
// presentation layer should offer delete.
func (l *List) CanRemove() bool {
	return len(l.items) > 1
}

// Items returns a copy of the items in display order.
func (l *List) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Append adds a default item at the end of the list and returns it.
func (l *List) Append() Item {
	return l.AppendItem(constants.DefaultMaintenanceItemName, units.MonetaryAmount{Amount: 0, Unit: l.defaultUnit})
}

// AppendItem adds an item with the given name and cost at the end of the list.
// An invalid unit or negative amount is replaced by the list defaults.
func (l *List) AppendItem(name string, cost units.MonetaryAmount) Item {
	if !cost.Unit.Valid() {
		cost.Unit = l.defaultUnit
	}
	if cost.Amount < 0 {
		cost.Amount = 0
	}
	item := Item{ID: uuid.NewString(), Name: name, Cost: cost}
	l.items = append(l.items, item)
	return item
}

// Update applies patch to the item at index.
func (l *List) Update(index int, patch Patch) bool {
	if index < 0 || index >= len(l.items) {
		return false
	}
	if !patch.valid() {
		return false
	}
	patch.apply(&l.items[index])
	return true
}

// UpdateByID applies patch to the item with the given id.
func (l *List) UpdateByID(id string, patch Patch) bool {
	return l.Update(l.IndexOf(id), patch)
}

// Remove deletes the item at index, shifting later items left. The last
// remaining item is never removed.
func (l *List) Remove(index int) bool {
	if index < 0 || index >= len(l.items) || !l.CanRemove() {
		return false
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
	return true
}

// RemoveByID deletes the item with the given id. Repeating the call for the
// same id is a no-op.
func (l *List) RemoveByID(id string) bool {
	return l.Remove(l.IndexOf(id))
}

// IndexOf returns the position of the item with the given id, or -1.
func (l *List) IndexOf(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns an independent copy of the list.
func (l *List) Clone() *List {
	return &List{items: l.Items(), defaultUnit: l.defaultUnit}
}

func (p Patch) valid() bool {
	if p.Cost != nil && !(*p.Cost >= 0) {
		return false
	}
	if p.Unit != nil && !p.Unit.Valid() {
		return false
	}
	return true
}

func (p Patch) apply(item *Item) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Cost != nil {
		item.Cost.Amount = *p.Cost
	}
	if p.Unit != nil {
		item.Cost.Unit = *p.Unit
	}
}
