package witness_test

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/zkwit/calcwit/circuit"
	"github.com/zkwit/calcwit/field"
	"github.com/zkwit/calcwit/witness"
)

func witnessStrings(t *testing.T, w []*field.Element) []string {
	t.Helper()
	out := make([]string, len(w))
	for i, e := range w {
		out[i] = e.String()
	}
	return out
}

// Identity circuit. Component 0 depends on signal 1 alone
// and contributes no computation of its own; after the driver sets
// signal 1, join returns witness = [1, 3].
func TestIdentityCircuit(t *testing.T) {
	mapIsInput := bitset.New(2)
	mapIsInput.Set(1)

	c := &circuit.Circuit{
		P:           "7",
		NSignals:    2,
		NComponents: 1,
		MapIsInput:  mapIsInput,
		Components: []circuit.Component{
			{
				InputSignals: 1,
				Fn: func(calc circuit.Calc, idx int) error {
					calc.Finished(idx)
					return nil
				},
			},
		},
	}

	calc, err := witness.New(c)
	require.NoError(t, err)

	three := calc.Field().FromUint64(3)
	require.NoError(t, calc.SetSignal(-1, 0, 1, three))
	require.NoError(t, calc.Join())

	require.Equal(t, []string{"1", "3"}, witnessStrings(t, calc.Witness()))
}

// Addition chain. Component 0 has two inputs and computes
// signal 3 = signal1 + signal2 mod 101.
func TestAdditionChain(t *testing.T) {
	mapIsInput := bitset.New(4)
	mapIsInput.Set(1)
	mapIsInput.Set(2)

	c := &circuit.Circuit{
		P:           "101",
		NSignals:    4,
		NComponents: 1,
		MapIsInput:  mapIsInput,
		Components: []circuit.Component{
			{
				InputSignals: 2,
				Fn: func(calc circuit.Calc, idx int) error {
					a, err := calc.GetSignal(idx, idx, 1)
					if err != nil {
						return err
					}
					b, err := calc.GetSignal(idx, idx, 2)
					if err != nil {
						return err
					}
					f := calc.Field()
					sum := f.NewElement()
					f.Add(sum, a, b)
					if err := calc.SetSignal(idx, idx, 3, sum); err != nil {
						return err
					}
					calc.Finished(idx)
					return nil
				},
			},
		},
	}

	calc, err := witness.New(c)
	require.NoError(t, err)

	require.NoError(t, calc.SetSignal(-1, 0, 1, calc.Field().FromUint64(50)))
	require.NoError(t, calc.SetSignal(-1, 0, 2, calc.Field().FromUint64(60)))
	require.NoError(t, calc.Join())

	require.Equal(t, []string{"1", "50", "60", "9"}, witnessStrings(t, calc.Witness()))
}

// Parallel branches. Two thread-flagged components each
// compute independently from their own input; both must be finished
// before join returns, and the result is deterministic regardless of
// which finishes first.
func TestParallelBranches(t *testing.T) {
	mapIsInput := bitset.New(5)
	mapIsInput.Set(1)
	mapIsInput.Set(2)

	mulBy := func(factor uint64, inIdx, outIdx int) circuit.ComponentFn {
		return func(calc circuit.Calc, idx int) error {
			in, err := calc.GetSignal(idx, idx, inIdx)
			if err != nil {
				return err
			}
			f := calc.Field()
			out := f.NewElement()
			f.Mul(out, in, f.FromUint64(factor))
			if err := calc.SetSignal(idx, idx, outIdx, out); err != nil {
				return err
			}
			calc.Finished(idx)
			return nil
		}
	}

	c := &circuit.Circuit{
		P:           "17",
		NSignals:    5,
		NComponents: 2,
		MapIsInput:  mapIsInput,
		Components: []circuit.Component{
			{InputSignals: 1, NewThread: true, Fn: mulBy(2, 1, 3)},
			{InputSignals: 1, NewThread: true, Fn: mulBy(3, 2, 4)},
		},
	}

	calc, err := witness.New(c)
	require.NoError(t, err)

	require.NoError(t, calc.SetSignal(-1, 0, 1, calc.Field().FromUint64(5)))
	require.NoError(t, calc.SetSignal(-1, 1, 2, calc.Field().FromUint64(4)))
	require.NoError(t, calc.Join())

	require.Equal(t, []string{"1", "5", "4", "10", "12"}, witnessStrings(t, calc.Witness()))
}

// Cross-thread read. Component A is thread-flagged and
// needs no external input, so it fires during New/Reset on its own
// goroutine; component B also fires during New/Reset, inline on the
// constructing goroutine, and must block in GetSignal until A has
// finished, observing A's written value rather than a stale zero.
func TestCrossThreadRead(t *testing.T) {
	c := &circuit.Circuit{
		P:           "101",
		NSignals:    3,
		NComponents: 2,
		MapIsInput:  bitset.New(3),
		Components: []circuit.Component{
			{
				InputSignals: 0,
				NewThread:    true,
				Fn: func(calc circuit.Calc, idx int) error {
					f := calc.Field()
					if err := calc.SetSignal(idx, idx, 1, f.FromUint64(42)); err != nil {
						return err
					}
					calc.Finished(idx)
					return nil
				},
			},
			{
				InputSignals: 0,
				NewThread:    false,
				Fn: func(calc circuit.Calc, idx int) error {
					a, err := calc.GetSignal(idx, 0, 1)
					if err != nil {
						return err
					}
					f := calc.Field()
					out := f.NewElement()
					f.Add(out, a, f.One())
					if err := calc.SetSignal(idx, idx, 2, out); err != nil {
						return err
					}
					calc.Finished(idx)
					return nil
				},
			},
		},
	}

	calc, err := witness.New(c)
	require.NoError(t, err)
	require.NoError(t, calc.Join())

	require.Equal(t, []string{"1", "42", "43"}, witnessStrings(t, calc.Witness()))
}

// A zero-input component must fire exactly once, as part of
// construction, without any driver-supplied signal.
func TestZeroInputComponentFiresOnConstruction(t *testing.T) {
	var fireCount int
	c := &circuit.Circuit{
		P:           "13",
		NSignals:    1,
		NComponents: 1,
		MapIsInput:  bitset.New(1),
		Components: []circuit.Component{
			{
				InputSignals: 0,
				Fn: func(calc circuit.Calc, idx int) error {
					fireCount++
					calc.Finished(idx)
					return nil
				},
			},
		},
	}

	calc, err := witness.New(c)
	require.NoError(t, err)
	require.NoError(t, calc.Join())
	require.Equal(t, 1, fireCount)
}

// Writing the last outstanding input of a component must trigger it
// exactly once: never before all inputs are set, never more than once.
func TestTriggersExactlyOnceAtLastInput(t *testing.T) {
	var fireCount int
	mapIsInput := bitset.New(3)
	mapIsInput.Set(1)
	mapIsInput.Set(2)

	c := &circuit.Circuit{
		P:           "101",
		NSignals:    3,
		NComponents: 1,
		MapIsInput:  mapIsInput,
		Components: []circuit.Component{
			{
				InputSignals: 2,
				Fn: func(calc circuit.Calc, idx int) error {
					fireCount++
					calc.Finished(idx)
					return nil
				},
			},
		},
	}

	calc, err := witness.New(c)
	require.NoError(t, err)
	require.Equal(t, 0, fireCount)

	require.NoError(t, calc.SetSignal(-1, 0, 1, calc.Field().FromUint64(1)))
	require.Equal(t, 0, fireCount, "must not fire before all inputs are set")

	require.NoError(t, calc.SetSignal(-1, 0, 2, calc.Field().FromUint64(1)))
	require.NoError(t, calc.Join())
	require.Equal(t, 1, fireCount, "must fire exactly once")
}

// Join only returns once every component reports finished.
func TestJoinWaitsForAllComponents(t *testing.T) {
	done := make(chan struct{})
	mapIsInput := bitset.New(2)
	mapIsInput.Set(1)

	c := &circuit.Circuit{
		P:           "101",
		NSignals:    2,
		NComponents: 1,
		MapIsInput:  mapIsInput,
		Components: []circuit.Component{
			{
				InputSignals: 1,
				NewThread:    true,
				Fn: func(calc circuit.Calc, idx int) error {
					<-done
					calc.Finished(idx)
					return nil
				},
			},
		},
	}

	calc, err := witness.New(c)
	require.NoError(t, err)

	joinReturned := make(chan error, 1)
	go func() {
		joinReturned <- calc.Join()
	}()

	require.NoError(t, calc.SetSignal(-1, 0, 1, calc.Field().FromUint64(9)))

	select {
	case <-joinReturned:
		t.Fatal("join returned before the component finished")
	default:
	}

	close(done)
	require.NoError(t, <-joinReturned)
}

// A component that returns an error aborts the calculator: join
// surfaces it instead of hanging.
func TestComponentErrorSurfacesThroughJoin(t *testing.T) {
	boom := errDummy("boom")
	c := &circuit.Circuit{
		P:           "13",
		NSignals:    1,
		NComponents: 1,
		MapIsInput:  bitset.New(1),
		Components: []circuit.Component{
			{
				InputSignals: 0,
				NewThread:    true,
				Fn: func(calc circuit.Calc, idx int) error {
					return boom
				},
			},
		},
	}

	calc, err := witness.New(c)
	require.NoError(t, err)
	err = calc.Join()
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
}

// A panicking component is recovered and surfaces as an error rather
// than hanging join forever.
func TestComponentPanicSurfacesThroughJoin(t *testing.T) {
	c := &circuit.Circuit{
		P:           "13",
		NSignals:    1,
		NComponents: 1,
		MapIsInput:  bitset.New(1),
		Components: []circuit.Component{
			{
				InputSignals: 0,
				NewThread:    true,
				Fn: func(calc circuit.Calc, idx int) error {
					panic("unexpected")
				},
			},
		},
	}

	calc, err := witness.New(c)
	require.NoError(t, err)
	err = calc.Join()
	require.Error(t, err)
	require.Contains(t, err.Error(), "panicked")
}

// Running the same circuit with every component forced to newThread =
// false must produce the same witness as the original flags.
func TestThreadingPolicyDoesNotAffectResult(t *testing.T) {
	build := func(threaded bool) *circuit.Circuit {
		mapIsInput := bitset.New(4)
		mapIsInput.Set(1)
		mapIsInput.Set(2)
		return &circuit.Circuit{
			P:           "101",
			NSignals:    4,
			NComponents: 1,
			MapIsInput:  mapIsInput,
			Components: []circuit.Component{
				{
					InputSignals: 2,
					NewThread:    threaded,
					Fn: func(calc circuit.Calc, idx int) error {
						a, err := calc.GetSignal(idx, idx, 1)
						if err != nil {
							return err
						}
						b, err := calc.GetSignal(idx, idx, 2)
						if err != nil {
							return err
						}
						f := calc.Field()
						sum := f.NewElement()
						f.Add(sum, a, b)
						if err := calc.SetSignal(idx, idx, 3, sum); err != nil {
							return err
						}
						calc.Finished(idx)
						return nil
					},
				},
			},
		}
	}

	run := func(threaded bool) []string {
		calc, err := witness.New(build(threaded))
		require.NoError(t, err)
		require.NoError(t, calc.SetSignal(-1, 0, 1, calc.Field().FromUint64(50)))
		require.NoError(t, calc.SetSignal(-1, 0, 2, calc.Field().FromUint64(60)))
		require.NoError(t, calc.Join())
		return witnessStrings(t, calc.Witness())
	}

	withThread := run(true)
	withoutThread := run(false)
	if diff := cmp.Diff(withThread, withoutThread); diff != "" {
		t.Fatalf("threading policy changed the witness:\n%s", diff)
	}
}

type errDummy string

func (e errDummy) Error() string { return string(e) }
