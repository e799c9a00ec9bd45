// Package field provides modular arithmetic over arbitrary-precision
// integers for a prime field whose modulus is supplied at runtime as a
// decimal string, rather than fixed at compile time per curve.
package field

import (
	"math/big"
	"sync"
)

// Element is a field element: a big integer that is always kept reduced
// modulo its owning Field's prime after any arithmetic operation.
type Element struct {
	v big.Int
}

// BigInt returns the underlying big.Int. The caller must not mutate it
// directly; use Field's arithmetic methods instead.
func (e *Element) BigInt() *big.Int {
	return &e.v
}

// String renders the element in base 10.
func (e *Element) String() string {
	return e.v.String()
}

// Field is a prime field Z/PZ. A Field's modulus is immutable and a
// Field is safe for concurrent use by multiple goroutines once
// constructed: its arithmetic methods either allocate a fresh Element or
// write into an Element supplied by the caller, and the only state
// shared across calls, the AllocElements/FreeElements scratch pool, is
// guarded by a mutex.
type Field struct {
	p *big.Int

	mu   sync.Mutex
	free map[int][][]*Element
}

// NewField parses a decimal string as the field's modulus. P must be a
// positive odd integer; this package does not verify primality, as that
// is the compiler's responsibility.
func NewField(decimalP string) (*Field, error) {
	p, ok := new(big.Int).SetString(decimalP, 10)
	if !ok {
		return nil, &ParseError{Input: decimalP}
	}
	if p.Sign() <= 0 {
		return nil, &ParseError{Input: decimalP}
	}
	return &Field{p: p, free: make(map[int][][]*Element)}, nil
}

// Modulus returns the field's prime P. The returned value must not be
// mutated.
func (f *Field) Modulus() *big.Int {
	return f.p
}

// NewElement returns a new zero-valued element.
func (f *Field) NewElement() *Element {
	return &Element{}
}

// Zero returns a new element equal to 0.
func (f *Field) Zero() *Element {
	return f.NewElement()
}

// One returns a new element equal to 1.
func (f *Field) One() *Element {
	e := f.NewElement()
	e.v.SetUint64(1)
	return e
}

// FromUint64 returns a new element reduced from an unsigned integer.
func (f *Field) FromUint64(v uint64) *Element {
	e := f.NewElement()
	e.v.SetUint64(v)
	e.v.Mod(&e.v, f.p)
	return e
}

// FromString parses a decimal or "0x"-prefixed hex string and reduces it
// modulo P.
func (f *Field) FromString(s string) (*Element, error) {
	base := 10
	if len(s) > 1 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
		base = 16
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, &ParseError{Input: s}
	}
	e := f.NewElement()
	e.v.Mod(v, f.p)
	return e, nil
}

// Set copies x into z and returns z.
func (f *Field) Set(z, x *Element) *Element {
	z.v.Set(&x.v)
	return z
}

// Add sets z = x + y mod P and returns z.
func (f *Field) Add(z, x, y *Element) *Element {
	z.v.Add(&x.v, &y.v)
	z.v.Mod(&z.v, f.p)
	return z
}

// Sub sets z = x - y mod P and returns z.
func (f *Field) Sub(z, x, y *Element) *Element {
	z.v.Sub(&x.v, &y.v)
	z.v.Mod(&z.v, f.p)
	return z
}

// Mul sets z = x * y mod P and returns z.
func (f *Field) Mul(z, x, y *Element) *Element {
	z.v.Mul(&x.v, &y.v)
	z.v.Mod(&z.v, f.p)
	return z
}

// Neg sets z = -x mod P and returns z.
func (f *Field) Neg(z, x *Element) *Element {
	z.v.Neg(&x.v)
	z.v.Mod(&z.v, f.p)
	return z
}

// Inverse sets z = x^-1 mod P and returns z, or a NotInvertibleError if x
// is not invertible modulo P (x == 0 mod P, or P is not prime and x
// shares a factor with it).
func (f *Field) Inverse(z, x *Element) (*Element, error) {
	r := z.v.ModInverse(&x.v, f.p)
	if r == nil {
		return nil, &NotInvertibleError{Value: new(big.Int).Set(&x.v)}
	}
	return z, nil
}

// Equal reports whether x and y hold the same value.
func (f *Field) Equal(x, y *Element) bool {
	return x.v.Cmp(&y.v) == 0
}

// IsZero reports whether x is the additive identity.
func (f *Field) IsZero(x *Element) bool {
	return x.v.Sign() == 0
}

// AllocElements returns n zero-valued elements, preferring to recycle a
// previously freed run of the same size over allocating fresh memory.
// This mirrors the bulk alloc/free pool that generated component code
// uses for scratch space.
func (f *Field) AllocElements(n int) []*Element {
	f.mu.Lock()
	if bucket := f.free[n]; len(bucket) > 0 {
		elems := bucket[len(bucket)-1]
		f.free[n] = bucket[:len(bucket)-1]
		f.mu.Unlock()
		for _, e := range elems {
			e.v.SetUint64(0)
		}
		return elems
	}
	f.mu.Unlock()

	elems := make([]*Element, n)
	for i := range elems {
		elems[i] = f.NewElement()
	}
	return elems
}

// FreeElements returns a run of elements obtained from AllocElements to
// the pool for reuse. The caller must not use elems after calling this.
func (f *Field) FreeElements(elems []*Element) {
	if len(elems) == 0 {
		return
	}
	n := len(elems)
	f.mu.Lock()
	f.free[n] = append(f.free[n], elems)
	f.mu.Unlock()
}
