package affine

import (
	"github.com/MuhtasimTanmoy/pilwit/field"
	"github.com/MuhtasimTanmoy/pilwit/rangeconstraint"
)

// Status classifies the outcome of Solve, per spec.md §4.1.
type Status uint8

const (
	// Complete: exactly one variable remains, all others vanished, so the
	// expression reduces to "c·x + k = 0" and x is uniquely determined; also
	// returned, with no assignments, when the expression is the constant zero.
	Complete Status = iota
	// Incomplete: multiple unknowns remain, and at least one of them was
	// determined because every other variable's range is a single value.
	// When no variable can be determined this way, Solve returns
	// MultipleSolutions instead.
	Incomplete
	// ConstraintUnsatisfiable: the expression reduced to a nonzero
	// constant — the identity this came from can never hold.
	ConstraintUnsatisfiable
	// MultipleSolutions: the expression is satisfiable by more than one
	// assignment to its remaining unknowns and no range narrowing applied.
	MultipleSolutions
)

// Assignment fixes a variable to a definite value.
type Assignment struct {
	Var   Var
	Value field.Element
}

// RangeHint narrows the admissible values of a variable without fully
// determining it.
type RangeHint struct {
	Var   Var
	Range rangeconstraint.Set
}

// Result is the outcome of a Solve call.
type Result struct {
	Status      Status
	Assignments []Assignment
	RangeHints  []RangeHint
}

// Solve implements spec.md §4.1's `solve()`: treats e as "e == 0" and tries
// to determine its unique remaining unknown, or narrow one via range
// propagation.
//
// ranges supplies the currently-known RangeConstraint for each variable
// (global constraints plus whatever has accumulated on the cell so far);
// callers that don't track ranges may pass a function that always returns
// an unconstrained Set.
func Solve(e Expression, ranges func(Var) rangeconstraint.Set) Result {
	if v, ok := e.ConstantValue(); ok {
		if v.IsZero() {
			return Result{Status: Complete} // trivially satisfied, nothing to assign
		}
		return Result{Status: ConstraintUnsatisfiable}
	}

	vars := e.Vars()
	if len(vars) == 1 {
		v := vars[0]
		c := e.Coeff(v)
		// c*x + k = 0  =>  x = -k/c
		value := e.constant.Neg().Mul(c.Inverse())
		return Result{Status: Complete, Assignments: []Assignment{{Var: v, Value: value}}}
	}

	// Multiple unknowns: first check whether the combined feasible range of
	// the whole sum even admits the one value (-k) the equation demands —
	// spec.md §4.1's "discover contradictions early" — then try to force
	// each variable in turn to a single point via the other variables'
	// feasible ranges.
	f := e.Factory()
	var combined rangeconstraint.Set
	haveCombined := false
	for _, v := range vars {
		scaled := ranges(v).MulByConstant(e.Coeff(v).Uint64(), f)
		if !haveCombined {
			combined = scaled
			haveCombined = true
		} else {
			combined = combined.Add(scaled)
		}
	}

	negK := e.constant.Neg()
	if haveCombined && !combined.IsUnconstrained() && !combined.Allows(negK) {
		return Result{Status: ConstraintUnsatisfiable}
	}

	var assignments []Assignment
	for _, v := range vars {
		if a, ok := narrowSingleVar(e, v, ranges, f); ok {
			assignments = append(assignments, a)
		}
	}

	if len(assignments) > 0 {
		return Result{Status: Incomplete, Assignments: assignments}
	}
	return Result{Status: MultipleSolutions}
}

// narrowSingleVar determines whether every variable other than v is already
// pinned to a single feasible value by ranges; if so, every other term's
// exact contribution c_i·x_i is known, so "c_v·v + k + Σ_{other} c_i·x_i = 0"
// rearranges into v = -(k + Σ_{other} c_i·x_i)/c_v, a definite value rather
// than an inert hint (spec.md §4.1: a singleton feasible range is a
// determined variable).
func narrowSingleVar(e Expression, v Var, ranges func(Var) rangeconstraint.Set, f field.Factory) (Assignment, bool) {
	restSum := f.Zero()
	for _, other := range e.Vars() {
		if other == v {
			continue
		}
		val, ok := ranges(other).Singleton(f)
		if !ok {
			return Assignment{}, false
		}
		restSum = restSum.Add(e.Coeff(other).Mul(val))
	}

	cv := e.Coeff(v)
	rhs := e.constant.Add(restSum).Neg()
	value := rhs.Mul(cv.Inverse())
	return Assignment{Var: v, Value: value}, true
}
