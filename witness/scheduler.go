package witness

import (
	"fmt"

	"github.com/zkwit/calcwit/internal/stacktrace"
)

// TriggerComponent fires a component: if it is thread-flagged, its
// function runs on a new goroutine tracked by the calculator's error
// group; otherwise it runs inline on the calling goroutine. Chained
// in-thread triggers form a depth-first walk of the dependency DAG;
// thread-flagged components are the parallel fan-out points. Inline
// errors propagate synchronously back to the caller in addition to
// being latched for Join.
func (c *Calculator) TriggerComponent(cIdx int) error {
	comp := &c.circuit.Components[cIdx]
	if comp.NewThread {
		c.eg.Go(func() error {
			return c.runComponent(cIdx)
		})
		return nil
	}
	return c.runComponent(cIdx)
}

// runComponent invokes a component's function exactly once, converting
// any panic into an error, and always calls finishIfNotAlready so that
// getSignal/Join waiters are never left blocked on a component that
// failed before reaching its own Finished call.
func (c *Calculator) runComponent(cIdx int) (err error) {
	comp := &c.circuit.Components[cIdx]

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("component %d panicked: %v\n%s", cIdx, r, stacktrace.Capture())
		}
		// comp.Fn is expected to call Finished itself on success; this
		// is a no-op in that case since pending[cIdx] is already -1,
		// and a safety net when it returned an error or panicked
		// before doing so.
		c.finishIfNotAlready(cIdx, err)
	}()

	err = comp.Fn(c, cIdx)
	return err
}

func (c *Calculator) finishIfNotAlready(cIdx int, err error) {
	s := c.slotFor(cIdx)
	s.mu.Lock()
	already := c.pending[cIdx] == -1
	s.mu.Unlock()
	if already {
		if err != nil {
			c.recordError(err)
		}
		return
	}
	c.finishComponent(cIdx, err)
}

// Finished marks component cIdx as having produced all of its outputs.
// Generated component code calls this as the last statement of its
// execution function.
func (c *Calculator) Finished(cIdx int) {
	c.finishComponent(cIdx, nil)
}

// Join blocks until every component has reached the terminal pending
// state, in order of increasing component index, then waits for any
// still-running thread-flagged components tracked by the error group.
// It returns the first error observed across any component's execution,
// whether that component ran inline or on its own goroutine.
func (c *Calculator) Join() error {
	for i := range c.pending {
		c.waitFinished(i)
	}
	if err := c.eg.Wait(); err != nil {
		c.recordError(err)
	}
	return c.loadError()
}
