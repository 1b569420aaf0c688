// Package bn254 wraps gnark-crypto's BN254 scalar field as a field.Element
// backend, for PIL programs whose downstream backend commits over that
// curve. This is the one field.Field implementation in PILWIT that reuses a
// teacher dependency (gnark-crypto) directly rather than hand-rolling
// arithmetic, the way this repo's fork of gnark reuses gnark-crypto
// throughout std/algebra/* for concrete (non-emulated) curve math.
package bn254

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/MuhtasimTanmoy/pilwit/field"
)

// Element wraps a gnark-crypto bn254/fr.Element.
type Element struct {
	v fr.Element
}

// New constructs an Element from a uint64.
func New(v uint64) Element {
	var e fr.Element
	e.SetUint64(v)
	return Element{v: e}
}

// FromBigInt reduces v mod the BN254 scalar field order.
func FromBigInt(v *big.Int) Element {
	var e fr.Element
	e.SetBigInt(v)
	return Element{v: e}
}

func (e Element) Add(other field.Element) field.Element {
	o := other.(Element)
	var r fr.Element
	r.Add(&e.v, &o.v)
	return Element{v: r}
}

func (e Element) Sub(other field.Element) field.Element {
	o := other.(Element)
	var r fr.Element
	r.Sub(&e.v, &o.v)
	return Element{v: r}
}

func (e Element) Mul(other field.Element) field.Element {
	o := other.(Element)
	var r fr.Element
	r.Mul(&e.v, &o.v)
	return Element{v: r}
}

func (e Element) Neg() field.Element {
	var r fr.Element
	r.Neg(&e.v)
	return Element{v: r}
}

func (e Element) Inverse() field.Element {
	if e.v.IsZero() {
		panic("bn254: inverse of zero")
	}
	var r fr.Element
	r.Inverse(&e.v)
	return Element{v: r}
}

func (e Element) IsZero() bool { return e.v.IsZero() }
func (e Element) IsOne() bool  { return e.v.IsOne() }

func (e Element) Cmp(other field.Element) int {
	o := other.(Element)
	return e.v.Cmp(&o.v)
}

func (e Element) Uint64() uint64 {
	if !e.v.IsUint64() {
		panic("bn254: element does not fit in a uint64")
	}
	return e.v.Uint64()
}

func (e Element) BigInt() *big.Int {
	var out big.Int
	e.v.BigInt(&out)
	return &out
}

func (e Element) Kind() field.Kind { return field.BN254 }
func (e Element) String() string   { return e.v.String() }

// Factory implements field.Factory for BN254.
type Factory struct{}

func (Factory) Zero() field.Element               { return Element{} }
func (Factory) One() field.Element                { var e fr.Element; e.SetOne(); return Element{v: e} }
func (Factory) FromUint64(v uint64) field.Element { return New(v) }
func (Factory) FromBigInt(v *big.Int) field.Element { return FromBigInt(v) }
func (Factory) Kind() field.Kind                  { return field.BN254 }

func (Factory) Modulus() *big.Int {
	return fr.Modulus()
}
