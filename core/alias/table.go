// Package alias holds the shell's bounded alias table.
package alias

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultCapacity is the number of aliases a table holds if no capacity is
// configured.
const DefaultCapacity = 64

var (
	// ErrTableFull is returned when adding a new alias to a full table.
	ErrTableFull = errors.New("too many aliases, can't add any more")

	// ErrInvalidName is returned for names that can't be looked up.
	ErrInvalidName = errors.New("invalid alias name")
)

// Entry is a single alias definition.
type Entry struct {
	Name  string `json:"name" validate:"required,excludesall=0x7C&<> "`
	Value string `json:"value" validate:"required"`
}

// String implements fmt.Stringer in the form alias prints definitions.
func (e Entry) String() string {
	return fmt.Sprintf("%s='%s'", e.Name, e.Value)
}

// Table is a fixed capacity, insertion ordered mapping from alias name to its
// expansion.
type Table struct {
	mu       sync.RWMutex
	capacity int
	entries  []Entry
}

// NewTable creates an empty table that holds at most capacity entries.
func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Table{
		capacity: capacity,
		entries:  make([]Entry, 0, capacity),
	}
}

// Capacity returns the maximum number of entries.
func (t *Table) Capacity() int {
	return t.capacity
}

// Len returns the number of defined aliases.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *Table) index(name string) int {
	for i, e := range t.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// Set defines or redefines an alias. Redefining keeps the alias's position in
// the listing order.
func (t *Table) Set(name, value string) error {
	if name == "" {
		return ErrInvalidName
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if i := t.index(name); i >= 0 {
		t.entries[i].Value = value
		return nil
	}
	if len(t.entries) >= t.capacity {
		return ErrTableFull
	}
	t.entries = append(t.entries, Entry{Name: name, Value: value})
	return nil
}

// Get returns the expansion of name.
func (t *Table) Get(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if i := t.index(name); i >= 0 {
		return t.entries[i].Value, true
	}
	return "", false
}

// Remove deletes an alias, it returns false if the alias wasn't defined.
func (t *Table) Remove(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(name)
	if i < 0 {
		return false
	}
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
	return true
}

// Entries returns a copy of the definitions in insertion order.
func (t *Table) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Load replaces the table contents with entries, stopping at the first error.
func (t *Table) Load(entries []Entry) error {
	t.mu.Lock()
	t.entries = t.entries[:0]
	t.mu.Unlock()

	for _, e := range entries {
		if err := t.Set(e.Name, e.Value); err != nil {
			return fmt.Errorf("alias %q: %w", e.Name, err)
		}
	}
	return nil
}
