package symtab

import (
	"fmt"

	"github.com/zkwit/calcwit/circuit"
)

// NotFoundError is returned when a probe reaches an empty slot before
// finding a matching hash.
type NotFoundError struct {
	Hash uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("symtab: hash not found: %#x", e.Hash)
}

// TypeMismatchError is returned when a matching entry's type differs
// from the type the caller expected (signal vs. sub-component).
type TypeMismatchError struct {
	Hash uint64
	Want circuit.EntryType
	Got  circuit.EntryType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("symtab: hash %#x resolved to a %s entry, want %s", e.Hash, e.Got, e.Want)
}
