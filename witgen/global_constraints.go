package witgen

import (
	"math/big"

	"github.com/MuhtasimTanmoy/pilwit/pil"
	"github.com/MuhtasimTanmoy/pilwit/rangeconstraint"
)

// DeriveGlobalConstraints implements spec.md §4.7's Global Constraint
// Layer: a structural scan of every Polynomial identity for the canonical
// "column x is boolean" shape `x * (x - 1) = 0`, emitting a per-column
// RangeConstraint consulted by RowFactory and affine.Solve's range
// narrowing. Scanning stops at this one pattern deliberately — it is the
// worked example the spec calls out, and broader pattern families (bounded
// intervals derived from multi-factor products, e.g. a byte range encoded
// as a 256-way product) are left to the Global Constraint Layer's
// upstream analyzer rather than rediscovered here.
func DeriveGlobalConstraints(program *pil.Analyzed) map[pil.PolyID]rangeconstraint.Set {
	out := map[pil.PolyID]rangeconstraint.Set{}
	for _, id := range program.Identities {
		if id.Kind != pil.Polynomial || id.Left.Selector == nil {
			continue
		}
		if poly, ok := matchBooleanPattern(id.Left.Selector); ok {
			out[poly] = rangeconstraint.Boolean()
		}
	}
	return out
}

// matchBooleanPattern recognizes x*(x-1) or (x-1)*x, in either operand
// order, and returns the constrained column.
func matchBooleanPattern(e *pil.Expression) (pil.PolyID, bool) {
	if e.Tag != pil.BinaryExpr || e.BinOp != pil.Mul {
		return pil.PolyID{}, false
	}
	if poly, ok := asColumnRef(e.Lhs); ok && isXMinusOne(e.Rhs, poly) {
		return poly, true
	}
	if poly, ok := asColumnRef(e.Rhs); ok && isXMinusOne(e.Lhs, poly) {
		return poly, true
	}
	return pil.PolyID{}, false
}

func asColumnRef(e *pil.Expression) (pil.PolyID, bool) {
	if e.Tag == pil.RefExpr && !e.Ref.Next {
		return e.Ref.Poly, true
	}
	return pil.PolyID{}, false
}

func isXMinusOne(e *pil.Expression, poly pil.PolyID) bool {
	if e.Tag != pil.BinaryExpr || e.BinOp != pil.Sub {
		return false
	}
	lhsPoly, ok := asColumnRef(e.Lhs)
	if !ok || lhsPoly != poly {
		return false
	}
	return e.Rhs.Tag == pil.NumberExpr && e.Rhs.Num.Cmp(big.NewInt(1)) == 0
}
