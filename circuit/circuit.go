// Package circuit defines the data model the witness calculator consumes
// from a circuit compiler: the static Circuit description, its
// components, and the per-component symbol table entries used to resolve
// named signal and sub-component accesses.
package circuit

import "github.com/bits-and-blooms/bitset"

// EntryType distinguishes a symbol-table entry that names a signal range
// from one that names a sub-component range.
type EntryType uint8

const (
	// EntrySignal marks an entry whose Offset is a base signal index.
	EntrySignal EntryType = iota
	// EntryComponent marks an entry whose Offset is a base component index.
	EntryComponent
)

func (t EntryType) String() string {
	switch t {
	case EntrySignal:
		return "signal"
	case EntryComponent:
		return "component"
	default:
		return "unknown"
	}
}

// Sizes is an opaque descriptor of a multi-dimensional array shape,
// passed back to generated component code unexamined.
type Sizes []int

// Entry is one record in a component's symbol table: a Signal entry's
// Offset is the base signal index of the named range; a Component
// entry's Offset is the base component index.
type Entry struct {
	Type   EntryType
	Offset int
	Sizes  Sizes
}

// HashEntry is one slot of a component's open-addressed hash table,
// mapping a 64-bit name hash to a position in Entries. A zero Hash marks
// an empty slot.
type HashEntry struct {
	Hash uint64
	Pos  int
}

// Component describes one component of the circuit, as emitted by the
// compiler.
type Component struct {
	// InputSignals is the number of input signals that must be set
	// before this component is eligible to run.
	InputSignals int
	// NewThread requests that this component's execution be offloaded
	// to a separate goroutine rather than run inline on the triggering
	// goroutine.
	NewThread bool
	// Fn is the generated, opaque execution function for this component.
	Fn ComponentFn
	// HashTable resolves a name hash to a position in Entries via open
	// addressing with linear probing, starting at Hash&0xFF.
	HashTable []HashEntry
	// Entries holds the signal/sub-component ranges this component can
	// resolve by name.
	Entries []Entry
}

// Circuit is the immutable, compiler-provided description of a circuit.
type Circuit struct {
	// P is the field's prime modulus, as a decimal string.
	P string
	// NSignals is the total number of signals, including the reserved
	// "one" signal at index 0.
	NSignals uint32
	// NComponents is the total number of components.
	NComponents uint32
	// Components holds one entry per component, indexed by component
	// index.
	Components []Component
	// MapIsInput has one bit per signal; a set bit means the signal
	// participates in its owning component's trigger-counting.
	MapIsInput *bitset.BitSet
}
