package witness

// pending[c] evolves monotonically: InputSignals -> ... -> 0 -> -1.
// 0 means "all inputs ready, must be fired exactly once"; -1 means
// "finished, value array fully populated for this component's outputs".
// Every read and write of pending[c] is guarded by the mutex slot
// c % NumMutexes.

func (c *Calculator) slotFor(cIdx int) *slot {
	return &c.slots[cIdx%NumMutexes]
}

func (c *Calculator) setPending(cIdx int, v int32) {
	s := c.slotFor(cIdx)
	s.mu.Lock()
	c.pending[cIdx] = v
	s.mu.Unlock()
}

// decrementTrigger decrements the owning component's input counter if it
// is still positive, and reports whether it just reached zero. It is a
// no-op (and reports false) if the counter is already at zero or
// finished, matching the "no other value is legal afterward" invariant:
// a component's counter cannot go negative by repeated decrements.
func (c *Calculator) decrementTrigger(cIdx int) bool {
	s := c.slotFor(cIdx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.pending[cIdx] > 0 {
		c.pending[cIdx]--
		return c.pending[cIdx] == 0
	}
	return false
}

// finishComponent transitions a component to the terminal pending state
// and wakes any goroutine blocked on it in getSignal or Join. If err is
// non-nil, it is latched as the calculator's first error so that Join
// surfaces it even if nothing on the call stack that triggered this
// component propagates it synchronously.
func (c *Calculator) finishComponent(cIdx int, err error) {
	s := c.slotFor(cIdx)
	s.mu.Lock()
	c.pending[cIdx] = -1
	s.mu.Unlock()
	s.cond.Broadcast()

	if err != nil {
		c.recordError(err)
		c.log.Error().Err(err).Int("component", cIdx).Msg("component failed")
	}
}

// waitFinished blocks the calling goroutine until component cIdx has
// reached the terminal pending state. The predicate is re-checked on
// every wakeup, since a waiter on component c may be woken by a
// broadcast intended for any c' congruent to c modulo NumMutexes.
func (c *Calculator) waitFinished(cIdx int) {
	s := c.slotFor(cIdx)
	s.mu.Lock()
	for c.pending[cIdx] != -1 {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

func (c *Calculator) recordError(err error) {
	c.errOnce.Do(func() {
		c.errMu.Lock()
		c.firstErr = err
		c.errMu.Unlock()
	})
}

func (c *Calculator) loadError() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.firstErr
}
