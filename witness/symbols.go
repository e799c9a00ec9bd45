package witness

import (
	"fmt"

	"github.com/zkwit/calcwit/circuit"
	"github.com/zkwit/calcwit/field"
	"github.com/zkwit/calcwit/symtab"
)

// GetSignalOffset resolves a name hash to a base signal index within
// component cIdx's symbol table.
func (c *Calculator) GetSignalOffset(cIdx int, hash uint64) (int, error) {
	return symtab.GetSignalOffset(&c.circuit.Components[cIdx], hash)
}

// GetSignalSizes resolves a name hash to a signal's array shape within
// component cIdx's symbol table.
func (c *Calculator) GetSignalSizes(cIdx int, hash uint64) (circuit.Sizes, error) {
	return symtab.GetSignalSizes(&c.circuit.Components[cIdx], hash)
}

// GetSubComponentOffset resolves a name hash to a base component index
// within component cIdx's symbol table.
func (c *Calculator) GetSubComponentOffset(cIdx int, hash uint64) (int, error) {
	return symtab.GetSubComponentOffset(&c.circuit.Components[cIdx], hash)
}

// GetSubComponentSizes resolves a name hash to a sub-component's array
// shape within component cIdx's symbol table.
func (c *Calculator) GetSubComponentSizes(cIdx int, hash uint64) (circuit.Sizes, error) {
	return symtab.GetSubComponentSizes(&c.circuit.Components[cIdx], hash)
}

// AllocBigInts returns n scratch field elements for component-local use.
func (c *Calculator) AllocBigInts(n int) []*field.Element {
	return c.field.AllocElements(n)
}

// FreeBigInts returns scratch field elements obtained from AllocBigInts.
func (c *Calculator) FreeBigInts(elems []*field.Element) {
	c.field.FreeElements(elems)
}

// Log prints a decimal rendering of a field element through the
// calculator's logger, serialized under the calculator's print mutex.
func (c *Calculator) Log(value *field.Element) {
	c.printMu.Lock()
	defer c.printMu.Unlock()
	c.log.Info().Str("value", value.String()).Msg("log")
}

// SyncPrintf serializes arbitrary diagnostic output through the same
// logger and print mutex as Log, so concurrent components' output does
// not interleave mid-line.
func (c *Calculator) SyncPrintf(format string, args ...interface{}) {
	c.printMu.Lock()
	defer c.printMu.Unlock()
	c.log.Info().Msg(fmt.Sprintf(format, args...))
}
