// Package witness implements the witness calculator: the runtime engine
// that drives a compiler-emitted Circuit's per-component functions to
// populate every signal exactly once, respecting the data-flow
// dependencies between components, and exposes the resulting witness
// vector.
package witness

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/zkwit/calcwit/circuit"
	"github.com/zkwit/calcwit/field"
	"github.com/zkwit/calcwit/logger"
	"golang.org/x/sync/errgroup"
)

var _ circuit.Calc = (*Calculator)(nil)

// NumMutexes is the size of the mutex/condition-variable bank that
// guards component trigger state. A per-component lock would bloat
// memory and page-fault traffic for circuits with tens to hundreds of
// thousands of components, for negligible contention gain; the bank
// trades a bounded rate of spurious wakeups for fixed-cost
// synchronization.
const NumMutexes = 64

type slot struct {
	mu   sync.Mutex
	cond *sync.Cond
}

// Calculator is the witness calculator. It owns all signal values, the
// per-component trigger counters, and the synchronization bank that
// orders component completion against cross-component signal reads. A
// Calculator must not be copied after first use.
type Calculator struct {
	circuit *circuit.Circuit
	field   *field.Field
	log     zerolog.Logger

	signalValues []*field.Element
	assigned     []uint32 // sanity mode only; 0 = unassigned, 1 = assigned

	slots   [NumMutexes]slot
	pending []int32 // guarded by slots[c%NumMutexes]

	printMu sync.Mutex

	eg       *errgroup.Group
	errOnce  sync.Once
	errMu    sync.Mutex
	firstErr error
}

// New constructs a Calculator around c, parses c.P as the field modulus,
// allocates the signal and trigger-counter storage, and fires every
// zero-input component as part of an implicit reset. It returns an error
// if c.P cannot be parsed, or if a zero-input component that runs inline
// fails; a failing thread-flagged zero-input component is reported by
// Join instead.
func New(c *circuit.Circuit) (*Calculator, error) {
	f, err := field.NewField(c.P)
	if err != nil {
		return nil, err
	}

	calc := &Calculator{
		circuit:      c,
		field:        f,
		log:          logger.Logger().With().Str("component", "witness").Logger(),
		signalValues: make([]*field.Element, c.NSignals),
		assigned:     make([]uint32, c.NSignals),
		pending:      make([]int32, c.NComponents),
	}
	for i := range calc.slots {
		calc.slots[i].cond = sync.NewCond(&calc.slots[i].mu)
	}
	for i := range calc.signalValues {
		calc.signalValues[i] = f.NewElement()
	}
	calc.signalValues[0].BigInt().SetUint64(1)
	calc.assigned[0] = 1

	if err := calc.Reset(); err != nil {
		return nil, err
	}
	return calc, nil
}

// Field returns the calculator's field, for callers that need to build
// field.Element values to pass into SetSignal.
func (c *Calculator) Field() *field.Field {
	return c.field
}

// Reset restores every component's trigger counter to its initial
// InputSignals count, clears the sanity-mode assignment mask (other than
// signal 0, which is permanently assigned), and re-fires every
// zero-input component. The signal array itself is not re-zeroed:
// signalValues[0] stays 1, and other indices retain whatever a previous
// run wrote until a component overwrites them again.
func (c *Calculator) Reset() error {
	c.eg = &errgroup.Group{}
	c.errOnce = sync.Once{}
	c.errMu.Lock()
	c.firstErr = nil
	c.errMu.Unlock()

	for i := uint32(1); i < c.circuit.NSignals; i++ {
		c.assigned[i] = 0
	}

	var zeroInput []int
	for i := range c.pending {
		n := int32(c.circuit.Components[i].InputSignals)
		c.setPending(i, n)
		if n == 0 {
			zeroInput = append(zeroInput, i)
		}
	}
	for _, i := range zeroInput {
		if err := c.TriggerComponent(i); err != nil {
			return err
		}
	}
	return nil
}

// Witness returns the full signal vector after Join has returned
// successfully. The returned slice aliases the calculator's internal
// storage and must be treated as read-only.
func (c *Calculator) Witness() []*field.Element {
	return c.signalValues
}
