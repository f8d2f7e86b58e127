package source

import (
	"slices"
	"strconv"
)

// StringID is an interned atom. Binding names and string literal values are
// carried around as atoms; only diagnostics and dumps look at the text.
type StringID uint32

const NoStringID StringID = 0

// Interner is the atom table of one module. It is not safe for concurrent
// use; the driver gives every module its own table.
type Interner struct {
	byID  []string            // byID[0] = "" for NoStringID
	index map[string]StringID // text -> atom
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the atom for s, allocating it on first sight.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	// собственная копия, чтобы не держать чужой буфер
	cpy := string([]byte(s))
	id := StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Lookup returns the text of id, or "", false for unknown atoms.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup is Lookup that panics on unknown atoms.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Name implements the name table used by dumps: unknown atoms render as
// "<atom N>" instead of panicking.
func (i *Interner) Name(id StringID) string {
	if s, ok := i.Lookup(id); ok {
		return s
	}
	return "<atom " + strconv.FormatUint(uint64(id), 10) + ">"
}

func (i *Interner) Has(id StringID) bool {
	return int(id) < len(i.byID)
}

// Len counts atoms including NoStringID, so it is never below 1.
func (i *Interner) Len() int {
	return len(i.byID)
}

func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}
