package affine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuhtasimTanmoy/pilwit/affine"
	"github.com/MuhtasimTanmoy/pilwit/field/goldilocks"
	"github.com/MuhtasimTanmoy/pilwit/rangeconstraint"
)

func unconstrained(affine.Var) rangeconstraint.Set {
	return rangeconstraint.Unconstrained(f)
}

func TestSolveTriviallySatisfied(t *testing.T) {
	zero := affine.Constant(f, f.Zero())
	res := affine.Solve(zero, unconstrained)
	require.Equal(t, affine.Complete, res.Status)
	require.Empty(t, res.Assignments)
}

func TestSolveConstraintUnsatisfiable(t *testing.T) {
	nonzero := affine.Constant(f, goldilocks.New(7))
	res := affine.Solve(nonzero, unconstrained)
	require.Equal(t, affine.ConstraintUnsatisfiable, res.Status)
}

func TestSolveSingleUnknownDetermined(t *testing.T) {
	x := refVar(1)
	// 2x - 10 == 0  =>  x == 5
	expr := affine.Variable(f, x).MulByConstant(goldilocks.New(2)).Sub(affine.Constant(f, goldilocks.New(10)))

	res := affine.Solve(expr, unconstrained)
	require.Equal(t, affine.Complete, res.Status)
	require.Len(t, res.Assignments, 1)
	require.Equal(t, x, res.Assignments[0].Var)
	require.Equal(t, uint64(5), res.Assignments[0].Value.Uint64())
}

func TestSolveMultipleUnknownsYieldsMultipleSolutions(t *testing.T) {
	x, y := refVar(1), refVar(2)
	expr := affine.Variable(f, x).Add(affine.Variable(f, y))

	res := affine.Solve(expr, unconstrained)
	require.Equal(t, affine.MultipleSolutions, res.Status)
}

// TestSolveSingletonRangePromotesOtherVarToAssignment exercises spec.md
// §4.1's range-to-value promotion: x is already pinned to a single
// feasible value by an external range constraint, so "x + y == 0" fully
// determines y even though y itself carries no range yet. The determined
// variable must come back as a real Assignment, not an inert RangeHint.
func TestSolveSingletonRangePromotesOtherVarToAssignment(t *testing.T) {
	x, y := refVar(1), refVar(2)
	ranged := func(v affine.Var) rangeconstraint.Set {
		if v == x {
			return rangeconstraint.FromInterval(5, 5)
		}
		return rangeconstraint.Unconstrained(f)
	}
	expr := affine.Variable(f, x).Add(affine.Variable(f, y))

	res := affine.Solve(expr, ranged)
	require.Equal(t, affine.Incomplete, res.Status)
	require.Len(t, res.Assignments, 1)
	require.Equal(t, y, res.Assignments[0].Var)
	require.Equal(t, f.Zero().Sub(f.FromUint64(5)).BigInt(), res.Assignments[0].Value.BigInt())
}

// TestSolveBothSingletonRangesConsistentWithEquation checks that when both
// variables already carry consistent singleton ranges, each is promoted to
// its own Assignment.
func TestSolveBothSingletonRangesConsistentWithEquation(t *testing.T) {
	x, y := refVar(1), refVar(2)
	ranged := func(v affine.Var) rangeconstraint.Set {
		if v == x {
			return rangeconstraint.FromInterval(2, 2)
		}
		return rangeconstraint.FromInterval(3, 3)
	}
	// x + y - 5 == 0, consistent with x == 2, y == 3.
	expr := affine.Variable(f, x).Add(affine.Variable(f, y)).Sub(affine.Constant(f, goldilocks.New(5)))

	res := affine.Solve(expr, ranged)
	require.Equal(t, affine.Incomplete, res.Status)
	require.Len(t, res.Assignments, 2)
	for _, a := range res.Assignments {
		switch a.Var {
		case x:
			require.Equal(t, uint64(2), a.Value.Uint64())
		case y:
			require.Equal(t, uint64(3), a.Value.Uint64())
		default:
			t.Fatalf("unexpected var %v", a.Var)
		}
	}
}

// TestSolveRangesDetectContradictionBeforeFullySolved checks spec.md §4.1's
// "discover contradictions early": the combined feasible range of the sum
// must be checked against the constant term even when no single variable
// is yet forced to a point.
func TestSolveRangesDetectContradictionBeforeFullySolved(t *testing.T) {
	x, y := refVar(1), refVar(2)
	ranged := func(affine.Var) rangeconstraint.Set {
		return rangeconstraint.FromInterval(0, 1)
	}
	// x + y + 10 == 0 can never hold when x, y in [0, 1].
	expr := affine.Variable(f, x).Add(affine.Variable(f, y)).Add(affine.Constant(f, goldilocks.New(10)))

	res := affine.Solve(expr, ranged)
	require.Equal(t, affine.ConstraintUnsatisfiable, res.Status)
}
