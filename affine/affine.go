// Package affine implements the symbolic affine form Σ cᵢ·xᵢ + k that is the
// algebraic substrate of the whole witness-generation core (spec.md §4.1).
// It is closed under addition, subtraction, and multiplication by a known
// constant; multiplying two expressions that both still have unknown
// variables is rejected with ErrNonLinear, matching spec.md's "Multiplication
// of two non-constant affines fails with NonLinear" rule.
package affine

import (
	"errors"
	"sort"

	"github.com/MuhtasimTanmoy/pilwit/field"
)

// ErrNonLinear is returned when two non-constant Expressions are multiplied.
// Callers (the Identity Processor) must treat this as "no progress this
// step", per spec.md §7's NonLinearStep semantics.
var ErrNonLinear = errors.New("affine: multiplication of two non-constant expressions")

// Expression is Σ coeffs[x]·x + Constant over a fixed field.
type Expression struct {
	factory  field.Factory
	coeffs   map[Var]field.Element
	constant field.Element
}

// Zero returns the additive identity of f as a constant Expression.
func Zero(f field.Factory) Expression {
	return Expression{factory: f, coeffs: nil, constant: f.Zero()}
}

// Constant returns a constant Expression with value v.
func Constant(f field.Factory, v field.Element) Expression {
	return Expression{factory: f, coeffs: nil, constant: v}
}

// Variable returns the Expression "1·v".
func Variable(f field.Factory, v Var) Expression {
	return Expression{
		factory:  f,
		coeffs:   map[Var]field.Element{v: f.One()},
		constant: f.Zero(),
	}
}

// Factory returns the field factory this expression is defined over.
func (e Expression) Factory() field.Factory { return e.factory }

// IsConstant reports whether e has no unknown variables remaining.
func (e Expression) IsConstant() bool {
	for _, c := range e.coeffs {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

// ConstantValue returns e's constant term and true iff e.IsConstant().
func (e Expression) ConstantValue() (field.Element, bool) {
	if !e.IsConstant() {
		return nil, false
	}
	return e.constant, true
}

// NumVars returns the number of variables with a nonzero coefficient.
func (e Expression) NumVars() int {
	n := 0
	for _, c := range e.coeffs {
		if !c.IsZero() {
			n++
		}
	}
	return n
}

// Vars returns the variables with a nonzero coefficient, in a deterministic
// order (sorted by string key) so callers iterating over them get
// reproducible behavior (spec.md §8's determinism property).
func (e Expression) Vars() []Var {
	out := make([]Var, 0, len(e.coeffs))
	for v, c := range e.coeffs {
		if !c.IsZero() {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Coeff returns the coefficient of v (zero if v does not appear).
func (e Expression) Coeff(v Var) field.Element {
	if c, ok := e.coeffs[v]; ok {
		return c
	}
	return e.factory.Zero()
}

func (e Expression) cloneCoeffs() map[Var]field.Element {
	out := make(map[Var]field.Element, len(e.coeffs))
	for k, v := range e.coeffs {
		out[k] = v
	}
	return out
}

// Add returns e + other.
func (e Expression) Add(other Expression) Expression {
	out := e.cloneCoeffs()
	for v, c := range other.coeffs {
		if cur, ok := out[v]; ok {
			out[v] = cur.Add(c)
		} else {
			out[v] = c
		}
	}
	return Expression{factory: e.factory, coeffs: out, constant: e.constant.Add(other.constant)}
}

// Sub returns e - other.
func (e Expression) Sub(other Expression) Expression {
	return e.Add(other.Negate())
}

// Negate returns -e.
func (e Expression) Negate() Expression {
	out := make(map[Var]field.Element, len(e.coeffs))
	for v, c := range e.coeffs {
		out[v] = c.Neg()
	}
	return Expression{factory: e.factory, coeffs: out, constant: e.constant.Neg()}
}

// MulByConstant returns c·e.
func (e Expression) MulByConstant(c field.Element) Expression {
	out := make(map[Var]field.Element, len(e.coeffs))
	for v, coef := range e.coeffs {
		out[v] = coef.Mul(c)
	}
	return Expression{factory: e.factory, coeffs: out, constant: e.constant.Mul(c)}
}

// Mul returns e*other, or ErrNonLinear if both operands still have unknown
// variables (spec.md §4.1).
func (e Expression) Mul(other Expression) (Expression, error) {
	if ev, ok := e.ConstantValue(); ok {
		return other.MulByConstant(ev), nil
	}
	if ov, ok := other.ConstantValue(); ok {
		return e.MulByConstant(ov), nil
	}
	return Expression{}, ErrNonLinear
}

// Assign substitutes a known value for v, folding it into the constant
// term. Used by the outer-query plumbing (spec.md §4.4) when a sub-machine
// resolves one of the caller's left-hand columns mid-solve.
func (e Expression) Assign(v Var, value field.Element) Expression {
	c, ok := e.coeffs[v]
	if !ok || c.IsZero() {
		return e
	}
	out := e.cloneCoeffs()
	delete(out, v)
	return Expression{factory: e.factory, coeffs: out, constant: e.constant.Add(c.Mul(value))}
}
