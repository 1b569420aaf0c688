package affine

import (
	"fmt"

	"github.com/MuhtasimTanmoy/pilwit/field"
	"github.com/MuhtasimTanmoy/pilwit/pil"
)

// Lookup resolves a reference to its current (possibly unknown) state: if
// known is true, value holds the definite field value; otherwise the
// reference becomes a Var in the resulting Expression.
type Lookup func(ref pil.Reference) (value field.Element, known bool)

// PublicLookup resolves a named public input the same way Lookup resolves a
// column reference.
type PublicLookup func(name string) (value field.Element, known bool)

// Evaluate walks e and builds the corresponding affine.Expression,
// substituting every known reference/public and folding Number literals in
// reduced mod the field's modulus (spec.md §4.1's evaluate_partial).
//
// Binary/unary operators that aren't representable in affine form (Div,
// Mod, Pow, bitwise/logical/comparison ops) are evaluated eagerly when both
// operands are already constant; if either operand is still unknown, this
// returns ErrNonLinear, the same signal used for "two unknown affines
// multiplied" — from the Identity Processor's point of view both mean
// "can't make progress on this step yet".
func Evaluate(f field.Factory, e *pil.Expression, lookup Lookup, public PublicLookup) (Expression, error) {
	switch e.Tag {
	case pil.RefExpr:
		if v, known := lookup(e.Ref); known {
			return Constant(f, v), nil
		}
		return Variable(f, RefVar(e.Ref)), nil

	case pil.NumberExpr:
		return Constant(f, f.FromBigInt(e.Num)), nil

	case pil.PublicExpr:
		if v, known := public(e.Public); known {
			return Constant(f, v), nil
		}
		return Variable(f, PublicVar(e.Public)), nil

	case pil.BinaryExpr:
		return evaluateBinary(f, e, lookup, public)

	case pil.UnaryExpr:
		return evaluateUnary(f, e, lookup, public)
	}
	return Expression{}, fmt.Errorf("affine: unknown expression tag %v", e.Tag)
}

func evaluateBinary(f field.Factory, e *pil.Expression, lookup Lookup, public PublicLookup) (Expression, error) {
	lhs, err := Evaluate(f, e.Lhs, lookup, public)
	if err != nil {
		return Expression{}, err
	}
	rhs, err := Evaluate(f, e.Rhs, lookup, public)
	if err != nil {
		return Expression{}, err
	}

	switch e.BinOp {
	case pil.Add:
		return lhs.Add(rhs), nil
	case pil.Sub:
		return lhs.Sub(rhs), nil
	case pil.Mul:
		return lhs.Mul(rhs)
	default:
		// Division, modulo, exponentiation, bitwise/logical/comparison
		// operators have no general affine form; require both sides fully
		// known.
		lv, lok := lhs.ConstantValue()
		rv, rok := rhs.ConstantValue()
		if !lok || !rok {
			return Expression{}, ErrNonLinear
		}
		v, err := evalConstBinOp(f, e.BinOp, lv, rv)
		if err != nil {
			return Expression{}, err
		}
		return Constant(f, v), nil
	}
}

func evaluateUnary(f field.Factory, e *pil.Expression, lookup Lookup, public PublicLookup) (Expression, error) {
	operand, err := Evaluate(f, e.Operand, lookup, public)
	if err != nil {
		return Expression{}, err
	}
	switch e.UnOp {
	case pil.Neg:
		return operand.Negate(), nil
	case pil.NextRow:
		// NextRow is resolved structurally by the caller (it selects which
		// row of the pair a Reference reads from); by the time an
		// Expression reaches here any `next` has already been folded into
		// Reference.Next by the analyzer, so a bare NextRow wrapping a
		// non-reference is unusual but evaluated as a pass-through.
		return operand, nil
	case pil.Not:
		v, ok := operand.ConstantValue()
		if !ok {
			return Expression{}, ErrNonLinear
		}
		if v.IsZero() {
			return Constant(f, f.One()), nil
		}
		return Constant(f, f.Zero()), nil
	}
	return Expression{}, fmt.Errorf("affine: unknown unary operator %v", e.UnOp)
}

func evalConstBinOp(f field.Factory, op pil.BinOp, a, b field.Element) (field.Element, error) {
	switch op {
	case pil.Div:
		if b.IsZero() {
			return nil, fmt.Errorf("affine: division by zero")
		}
		return a.Mul(b.Inverse()), nil
	case pil.BitAnd, pil.BitOr, pil.BitXor, pil.Shl, pil.Shr, pil.Mod, pil.Pow:
		ab, bb := a.BigInt(), b.BigInt()
		return evalBigIntOp(f, op, ab, bb)
	case pil.LogicalAnd:
		return boolElem(f, !a.IsZero() && !b.IsZero()), nil
	case pil.LogicalOr:
		return boolElem(f, !a.IsZero() || !b.IsZero()), nil
	case pil.Lt:
		return boolElem(f, a.Cmp(b) < 0), nil
	case pil.Le:
		return boolElem(f, a.Cmp(b) <= 0), nil
	case pil.Gt:
		return boolElem(f, a.Cmp(b) > 0), nil
	case pil.Ge:
		return boolElem(f, a.Cmp(b) >= 0), nil
	case pil.Eq:
		return boolElem(f, a.Cmp(b) == 0), nil
	case pil.Ne:
		return boolElem(f, a.Cmp(b) != 0), nil
	}
	return nil, fmt.Errorf("affine: unsupported constant binary operator %v", op)
}

func boolElem(f field.Factory, b bool) field.Element {
	if b {
		return f.One()
	}
	return f.Zero()
}
