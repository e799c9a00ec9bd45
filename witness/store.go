package witness

import (
	"github.com/zkwit/calcwit/field"
	"github.com/zkwit/calcwit/sanity"
)

// GetSignal reads signal sIdx, which is produced by producingComponent.
// If producingComponent is thread-flagged and differs from
// currentComponent, the call blocks until producingComponent has
// finished. The happens-before relation established by that wait (the
// mutex release in finishComponent paired with the acquisition here)
// guarantees the returned value is the one producingComponent wrote,
// never a stale or torn read.
//
// In sanity mode, reading a signal that has not yet been assigned
// returns a ReadUnassignedError instead of a zero value.
func (c *Calculator) GetSignal(currentComponent, producingComponent, sIdx int) (*field.Element, error) {
	comp := &c.circuit.Components[producingComponent]
	if comp.NewThread && producingComponent != currentComponent {
		c.waitFinished(producingComponent)
	}

	if sanity.Enabled && c.assigned[sIdx] == 0 {
		return nil, &ReadUnassignedError{Signal: sIdx}
	}

	v := c.field.NewElement()
	c.field.Set(v, c.signalValues[sIdx])
	return v, nil
}

// SetSignal writes value into signal sIdx exactly once. If sIdx is an
// input signal of owningComponent (per the circuit's MapIsInput bitmap)
// and owningComponent still has outstanding inputs, its trigger counter
// is decremented; reaching zero fires owningComponent. Any error from an
// inline-triggered component propagates back through this call.
//
// In sanity mode, writing a signal a second time returns a
// DoubleAssignmentError and leaves all other signal state untouched.
func (c *Calculator) SetSignal(currentComponent, owningComponent, sIdx int, value *field.Element) error {
	if sanity.Enabled {
		if c.assigned[sIdx] != 0 {
			return &DoubleAssignmentError{Signal: sIdx}
		}
		c.assigned[sIdx] = 1
	}

	c.field.Set(c.signalValues[sIdx], value)

	if c.circuit.MapIsInput.Test(uint(sIdx)) {
		if c.decrementTrigger(owningComponent) {
			return c.TriggerComponent(owningComponent)
		}
	}
	return nil
}

// CheckConstraint asserts, in sanity mode, that v1 and v2 are equal,
// returning a ConstraintViolationError tagged with tag if they are not.
// In release builds this is a no-op and always returns nil.
func (c *Calculator) CheckConstraint(currentComponent int, v1, v2 *field.Element, tag string) error {
	if !sanity.Enabled {
		return nil
	}
	if !c.field.Equal(v1, v2) {
		return &ConstraintViolationError{Tag: tag, V1: v1.String(), V2: v2.String()}
	}
	return nil
}
