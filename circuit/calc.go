package circuit

import "github.com/zkwit/calcwit/field"

// Calc is the surface of the witness calculator that generated
// component code is driven against. It is declared here, on the
// consumer side, so that this package (and the Component/ComponentFn
// types it defines) does not need to import the calculator package that
// implements it.
type Calc interface {
	// Field returns the field the circuit's signals live in, so that
	// generated component code can build and combine field elements with
	// the same modulus the calculator itself uses. P is only known at
	// runtime, so this is the only way a component function can reach a
	// *field.Field matching its circuit.
	Field() *field.Field

	// GetSignal reads a signal, blocking until its producing component
	// has finished if that component runs on a different goroutine.
	GetSignal(currentComponent, producingComponent, sIdx int) (*field.Element, error)
	// SetSignal writes a signal exactly once and, if it is an input of
	// owningComponent, decrements that component's trigger counter.
	SetSignal(currentComponent, owningComponent, sIdx int, value *field.Element) error
	// CheckConstraint asserts that two values are equal in sanity mode;
	// it is a no-op otherwise.
	CheckConstraint(currentComponent int, v1, v2 *field.Element, tag string) error

	// GetSignalOffset resolves a name hash to a base signal index.
	GetSignalOffset(cIdx int, hash uint64) (int, error)
	// GetSignalSizes resolves a name hash to a signal's array shape.
	GetSignalSizes(cIdx int, hash uint64) (Sizes, error)
	// GetSubComponentOffset resolves a name hash to a base component
	// index.
	GetSubComponentOffset(cIdx int, hash uint64) (int, error)
	// GetSubComponentSizes resolves a name hash to a sub-component's
	// array shape.
	GetSubComponentSizes(cIdx int, hash uint64) (Sizes, error)

	// AllocBigInts returns n scratch field elements.
	AllocBigInts(n int) []*field.Element
	// FreeBigInts returns scratch field elements obtained from
	// AllocBigInts.
	FreeBigInts(elems []*field.Element)

	// Log prints a decimal rendering of a field element under the
	// calculator's print mutex.
	Log(value *field.Element)
	// SyncPrintf serializes arbitrary diagnostic output under the same
	// print mutex as Log.
	SyncPrintf(format string, args ...interface{})

	// TriggerComponent fires a component: inline on the current
	// goroutine, or on a new one if it is thread-flagged.
	TriggerComponent(cIdx int) error

	// Finished marks a component as having produced all of its outputs.
	// Generated component code calls this as the last statement of its
	// execution function; the calculator also calls it on a component's
	// behalf if that component's function returns an error or panics,
	// so that waiters are never left blocked forever.
	Finished(cIdx int)
}

// ComponentFn is the generated, opaque per-component execution function.
// It is invoked at most once per component.
type ComponentFn func(calc Calc, componentIdx int) error
