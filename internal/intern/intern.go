// Package intern deduplicates identifier and path strings into small
// stable integer ids so the rest of the compiler can compare names by
// value instead of hashing or comparing strings repeatedly.
package intern

import "sync"

// Name is an interned identifier (a field name, parameter name, local
// binding name, or top-level definition name).
type Name uint32

// FileName is an interned canonical file path.
type FileName uint32

// Invalid is returned by lookups that fail to find an existing entry.
const Invalid = ^uint32(0)

// Table interns strings of one kind into stable ids. The zero value is
// not usable; construct with NewTable.
type Table struct {
	mu      sync.RWMutex
	ids     map[string]uint32
	strings []string
}

// NewTable creates an empty interning table.
func NewTable() *Table {
	return &Table{ids: make(map[string]uint32)}
}

// Intern returns the id for s, assigning a fresh one if s has not been
// seen before.
func (t *Table) Intern(s string) uint32 {
	t.mu.RLock()
	if id, ok := t.ids[s]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.ids[s]; ok {
		return id
	}
	id := uint32(len(t.strings))
	t.strings = append(t.strings, s)
	t.ids[s] = id
	return id
}

// Lookup returns the id already assigned to s, if any, without
// interning it.
func (t *Table) Lookup(s string) (uint32, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.ids[s]
	return id, ok
}

// String returns the original string for an id. Panics if id was never
// assigned by this table — a caller holding an id from this table
// always holds a valid one.
func (t *Table) String(id uint32) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.strings[id]
}

// Len returns the number of distinct strings interned so far.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.strings)
}

// Interners bundles the two interning tables a compilation session
// needs: one for identifiers, one for canonical file paths. Both are
// created fresh per session and dropped at its end (spec §5).
type Interners struct {
	Names *Table
	Files *Table
}

// New creates a fresh pair of interning tables for one compilation
// session.
func New() *Interners {
	return &Interners{Names: NewTable(), Files: NewTable()}
}

// Name interns s as a Name.
func (n *Interners) Name(s string) Name { return Name(n.Names.Intern(s)) }

// NameString returns the string for a Name.
func (n *Interners) NameString(id Name) string { return n.Names.String(uint32(id)) }

// File interns s (already canonicalized by the caller) as a FileName.
func (n *Interners) File(s string) FileName { return FileName(n.Files.Intern(s)) }

// FileString returns the canonical path for a FileName.
func (n *Interners) FileString(id FileName) string { return n.Files.String(uint32(id)) }
