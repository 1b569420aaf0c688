// Package goldilocks implements the 64-bit prime field
// p = 2^64 - 2^32 + 1, the field almost all PIL programs run over.
//
// No third-party library in this repository's dependency lineage ships a
// Goldilocks implementation (gnark-crypto only covers pairing-friendly
// curves), so this field is hand-rolled on top of math/big for reduction of
// wide literals and uint64 for fast-path arithmetic — the one place in
// PILWIT where the standard library, not a pack dependency, is the right
// tool (see DESIGN.md).
package goldilocks

import (
	"math/big"

	"github.com/MuhtasimTanmoy/pilwit/field"
)

// Modulus is 2^64 - 2^32 + 1.
const Modulus uint64 = 0xFFFFFFFF00000001

var modulusBig = new(big.Int).SetUint64(Modulus)

// Element is a value modulo Modulus, always kept in canonical form
// (0 <= v < Modulus).
type Element struct {
	v uint64
}

// New constructs a reduced Element from a uint64.
func New(v uint64) Element {
	if v >= Modulus {
		v -= Modulus
	}
	return Element{v: v}
}

// addMod64 adds two canonical values mod Modulus, handling the overflow that
// plain uint64 addition can't: since Modulus is within 2^32 of 2^64, a+b can
// wrap the machine word before it wraps the field.
func addMod64(a, b uint64) uint64 {
	sum := a + b
	carry := sum < a
	if carry || sum >= Modulus {
		sum -= Modulus
	}
	return sum
}

func (e Element) Add(other field.Element) field.Element {
	o := other.(Element)
	return Element{v: addMod64(e.v, o.v)}
}

func (e Element) Sub(other field.Element) field.Element {
	o := other.(Element)
	if e.v >= o.v {
		return Element{v: e.v - o.v}
	}
	return Element{v: Modulus - (o.v - e.v)}
}

func (e Element) Mul(other field.Element) field.Element {
	o := other.(Element)
	hi, lo := mul64(e.v, o.v)
	return Element{v: reduce128(hi, lo)}
}

func (e Element) Neg() field.Element {
	if e.v == 0 {
		return e
	}
	return Element{v: Modulus - e.v}
}

func (e Element) Inverse() field.Element {
	if e.v == 0 {
		panic("goldilocks: inverse of zero")
	}
	// p-2 via big.Int exponentiation; Goldilocks-specific addition chains
	// exist but correctness, not speed, is what this core's tests exercise.
	exp := new(big.Int).SetUint64(Modulus - 2)
	var self big.Int
	self.SetUint64(e.v)
	self.Exp(&self, exp, modulusBig)
	return Element{v: self.Uint64()}
}

func (e Element) IsZero() bool { return e.v == 0 }
func (e Element) IsOne() bool  { return e.v == 1 }

func (e Element) Cmp(other field.Element) int {
	o := other.(Element)
	switch {
	case e.v < o.v:
		return -1
	case e.v > o.v:
		return 1
	default:
		return 0
	}
}

func (e Element) Uint64() uint64    { return e.v }
func (e Element) BigInt() *big.Int  { return new(big.Int).SetUint64(e.v) }
func (e Element) Kind() field.Kind  { return field.Goldilocks }
func (e Element) String() string    { return e.BigInt().String() }

// mul64 returns the 128-bit product of a and b as (hi, lo).
func mul64(a, b uint64) (hi, lo uint64) {
	const mask32 = 0xFFFFFFFF
	aLo, aHi := a&mask32, a>>32
	bLo, bHi := b&mask32, b>>32

	lolo := aLo * bLo
	hilo := aHi * bLo
	lohi := aLo * bHi
	hihi := aHi * bHi

	mid := hilo + (lolo >> 32) + (lohi & mask32)
	lo = (lolo & mask32) | (mid << 32)
	hi = hihi + (mid >> 32) + (lohi >> 32)
	return hi, lo
}

// reduce128 reduces a 128-bit value (hi<<64 | lo) mod Modulus using the
// Goldilocks-specific identity 2^64 ≡ 2^32 - 1 (mod p).
func reduce128(hi, lo uint64) uint64 {
	// Split hi into its low and high 32 bits.
	hiLo := hi & 0xFFFFFFFF
	hiHi := hi >> 32

	// lo - hiHi (mod p), then + hiLo*(2^32-1) (mod p), done via big.Int for
	// clarity and to avoid subtle underflow bugs in a hand-unrolled version.
	var acc big.Int
	acc.SetUint64(lo)

	var t big.Int
	t.SetUint64(hiHi)
	acc.Sub(&acc, &t)

	t.SetUint64(hiLo)
	t.Mul(&t, new(big.Int).SetUint64(1<<32-1))
	acc.Add(&acc, &t)

	acc.Mod(&acc, modulusBig)
	if acc.Sign() < 0 {
		acc.Add(&acc, modulusBig)
	}
	return acc.Uint64()
}

// Factory implements field.Factory for the Goldilocks field.
type Factory struct{}

func (Factory) Zero() field.Element             { return Element{v: 0} }
func (Factory) One() field.Element              { return Element{v: 1} }
func (Factory) FromUint64(v uint64) field.Element { return New(v) }
func (Factory) Modulus() *big.Int               { return new(big.Int).Set(modulusBig) }
func (Factory) Kind() field.Kind                { return field.Goldilocks }

func (Factory) FromBigInt(v *big.Int) field.Element {
	var r big.Int
	r.Mod(v, modulusBig)
	if r.Sign() < 0 {
		r.Add(&r, modulusBig)
	}
	return Element{v: r.Uint64()}
}
