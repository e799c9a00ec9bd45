// Package symtab resolves a component-local name hash to a signal or
// sub-component entry through the open-addressed hash table the compiler
// attaches to each circuit.Component.
//
// The table is static and read-only at runtime: lookups are pure
// functions of (component, hash) with no mutation, matching the
// "deterministic and referentially transparent" property a symbol table
// is expected to have.
package symtab

import "github.com/zkwit/calcwit/circuit"

// FindEntry probes comp's hash table starting at hash&0xFF, wrapping
// around the table explicitly, and returns the matching entry. It fails
// with NotFoundError if an empty (zero-hash) slot is reached before a
// match, and with TypeMismatchError if the match's type differs from
// expected.
func FindEntry(comp *circuit.Component, hash uint64, expected circuit.EntryType) (*circuit.Entry, error) {
	n := len(comp.HashTable)
	if n == 0 {
		return nil, &NotFoundError{Hash: hash}
	}

	start := int(hash & 0xFF)
	for i := 0; i < n; i++ {
		pos := (start + i) % n
		he := comp.HashTable[pos]
		if he.Hash == 0 {
			return nil, &NotFoundError{Hash: hash}
		}
		if he.Hash == hash {
			if he.Pos < 0 || he.Pos >= len(comp.Entries) {
				return nil, &NotFoundError{Hash: hash}
			}
			entry := &comp.Entries[he.Pos]
			if entry.Type != expected {
				return nil, &TypeMismatchError{Hash: hash, Want: expected, Got: entry.Type}
			}
			return entry, nil
		}
	}
	return nil, &NotFoundError{Hash: hash}
}

// GetSignalOffset returns the base signal index named by hash in comp.
func GetSignalOffset(comp *circuit.Component, hash uint64) (int, error) {
	e, err := FindEntry(comp, hash, circuit.EntrySignal)
	if err != nil {
		return 0, err
	}
	return e.Offset, nil
}

// GetSignalSizes returns the array shape of the signal named by hash in
// comp.
func GetSignalSizes(comp *circuit.Component, hash uint64) (circuit.Sizes, error) {
	e, err := FindEntry(comp, hash, circuit.EntrySignal)
	if err != nil {
		return nil, err
	}
	return e.Sizes, nil
}

// GetSubComponentOffset returns the base component index named by hash
// in comp.
func GetSubComponentOffset(comp *circuit.Component, hash uint64) (int, error) {
	e, err := FindEntry(comp, hash, circuit.EntryComponent)
	if err != nil {
		return 0, err
	}
	return e.Offset, nil
}

// GetSubComponentSizes returns the array shape of the sub-component
// named by hash in comp.
func GetSubComponentSizes(comp *circuit.Component, hash uint64) (circuit.Sizes, error) {
	e, err := FindEntry(comp, hash, circuit.EntryComponent)
	if err != nil {
		return nil, err
	}
	return e.Sizes, nil
}
