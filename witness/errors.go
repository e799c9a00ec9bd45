package witness

import "fmt"

// DoubleAssignmentError is returned by SetSignal, in sanity mode, when a
// signal is written a second time.
type DoubleAssignmentError struct {
	Signal int
}

func (e *DoubleAssignmentError) Error() string {
	return fmt.Sprintf("witness: signal %d assigned twice", e.Signal)
}

// ReadUnassignedError is returned by GetSignal, in sanity mode, when a
// signal is read before any component has written it.
type ReadUnassignedError struct {
	Signal int
}

func (e *ReadUnassignedError) Error() string {
	return fmt.Sprintf("witness: read of unassigned signal %d", e.Signal)
}

// ConstraintViolationError is returned by CheckConstraint, in sanity
// mode, when the two checked values differ.
type ConstraintViolationError struct {
	Tag string
	V1  string
	V2  string
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("witness: constraint violation (%s): %s != %s", e.Tag, e.V1, e.V2)
}
