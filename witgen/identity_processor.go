package witgen

import (
	"errors"

	"github.com/MuhtasimTanmoy/pilwit/affine"
	"github.com/MuhtasimTanmoy/pilwit/pil"
	"github.com/MuhtasimTanmoy/pilwit/rangeconstraint"
	"github.com/MuhtasimTanmoy/pilwit/witgen/witgenerr"
)

// ProcessIdentity evaluates a single identity against a row pair (spec.md
// §4.3). It is stateless with respect to the table: all state it needs
// comes from fd (read-only) and dispatch (for routing Plookup/Permutation
// right-hand sides to FixedLookup or a sub-machine).
func ProcessIdentity(fd *FixedData, dispatch *Dispatch, id *pil.Identity, rp RowPair) (EvalValue, error) {
	switch id.Kind {
	case pil.Polynomial:
		return processPolynomial(fd, id, rp)
	case pil.Plookup, pil.Permutation:
		return processLookupLike(fd, dispatch, id, rp)
	case pil.Connect:
		return processConnect(fd, id, rp)
	default:
		return EvalValue{}, witgenerr.New(witgenerr.ConstraintUnsatisfiable, "unknown identity kind").WithIdentity(id.String())
	}
}

func processPolynomial(fd *FixedData, id *pil.Identity, rp RowPair) (EvalValue, error) {
	lhs, err := evalSelector(fd, id.Left.Selector, rp)
	if err != nil {
		return handleEvalErr(err)
	}
	rhs, err := evalSelector(fd, id.Right.Selector, rp)
	if err != nil {
		return handleEvalErr(err)
	}
	return solveDiff(fd, id, lhs.Sub(rhs), rp)
}

// processConnect enforces pairwise equality between Left.Expressions and
// Right.Expressions at the same row (spec.md §4.3: "permutes indices
// within the same machine; enforced purely by equal-length equality
// constraints between the listed expressions"). The full cross-row
// permutation a Connect identity can in principle describe is outside this
// core's scope (the upstream analyzer is expected to have already reduced
// any such permutation to fixed-column-driven row wiring); here we check
// the row-local equalities the listed expressions impose.
func processConnect(fd *FixedData, id *pil.Identity, rp RowPair) (EvalValue, error) {
	if len(id.Left.Expressions) != len(id.Right.Expressions) {
		return EvalValue{}, witgenerr.New(witgenerr.ConstraintUnsatisfiable, "connect identity has mismatched arity").WithIdentity(id.String())
	}
	result := EmptyComplete()
	for i := range id.Left.Expressions {
		lhs, err := affine.Evaluate(fd.Factory, id.Left.Expressions[i], rp.Lookup, fd.PublicValue)
		if err != nil {
			ev, err2 := handleEvalErr(err)
			if err2 != nil {
				return EvalValue{}, err2
			}
			result = result.Combine(ev)
			continue
		}
		rhs, err := affine.Evaluate(fd.Factory, id.Right.Expressions[i], rp.Lookup, fd.PublicValue)
		if err != nil {
			ev, err2 := handleEvalErr(err)
			if err2 != nil {
				return EvalValue{}, err2
			}
			result = result.Combine(ev)
			continue
		}
		ev, err := solveDiff(fd, id, lhs.Sub(rhs), rp)
		if err != nil {
			return EvalValue{}, err
		}
		result = result.Combine(ev)
	}
	return result, nil
}

func processLookupLike(fd *FixedData, dispatch *Dispatch, id *pil.Identity, rp RowPair) (EvalValue, error) {
	sel, err := evalSelector(fd, id.Left.Selector, rp)
	if err != nil {
		return handleEvalErr(err)
	}
	if v, ok := sel.ConstantValue(); ok && v.IsZero() {
		return EmptyComplete(), nil // selector off: trivially satisfied this row
	}

	left := make([]affine.Expression, len(id.Left.Expressions))
	for i, e := range id.Left.Expressions {
		aff, err := affine.Evaluate(fd.Factory, e, rp.Lookup, fd.PublicValue)
		if err != nil {
			return handleEvalErr(err)
		}
		left[i] = aff
	}

	ev, err := dispatch.ProcessLookup(left, &id.Right, id.Kind == pil.Permutation)
	if err != nil {
		return EvalValue{}, witgenerr.Annotate(dispatch.TargetName(&id.Right), err)
	}
	return ev, nil
}

func evalSelector(fd *FixedData, sel *pil.Expression, rp RowPair) (affine.Expression, error) {
	if sel == nil {
		return affine.Zero(fd.Factory), nil
	}
	return affine.Evaluate(fd.Factory, sel, rp.Lookup, fd.PublicValue)
}

// solveDiff treats diff as "diff == 0", solves it, and converts the result
// into an EvalValue, surfacing ConstraintUnsatisfiable as a fatal error
// (spec.md §7) and deferring NonLinearStep-shaped non-progress silently.
func solveDiff(fd *FixedData, id *pil.Identity, diff affine.Expression, rp RowPair) (EvalValue, error) {
	ranges := func(v affine.Var) rangeconstraint.Set {
		if v.IsPublic {
			return rangeconstraint.Unconstrained(fd.Factory)
		}
		return rp.Range(v.Ref)
	}
	res := affine.Solve(diff, ranges)
	switch res.Status {
	case affine.ConstraintUnsatisfiable:
		return EvalValue{}, witgenerr.New(witgenerr.ConstraintUnsatisfiable, "identity cannot be satisfied").
			WithIdentity(id.String()).
			WithRow(rp.GlobalRow, rp.GlobalRow, rp.Cur.RenderValues(fd.ColumnName, nil))
	case affine.Complete:
		cs := make([]Constraint, 0, len(res.Assignments))
		for _, a := range res.Assignments {
			if a.Var.IsPublic {
				continue // publics are inputs, not solve targets; nothing to write back
			}
			cs = append(cs, NewAssignment(a.Var.Ref, a.Value))
		}
		return EvalValue{Constraints: cs, Complete: true}, nil
	case affine.Incomplete:
		cs := make([]Constraint, 0, len(res.Assignments)+len(res.RangeHints))
		for _, a := range res.Assignments {
			if a.Var.IsPublic {
				continue // publics are inputs, not solve targets; nothing to write back
			}
			cs = append(cs, NewAssignment(a.Var.Ref, a.Value))
		}
		for _, h := range res.RangeHints {
			if h.Var.IsPublic {
				continue
			}
			cs = append(cs, NewRangeConstraint(h.Var.Ref, h.Range))
		}
		return EvalValue{Constraints: cs, Complete: false}, nil
	default: // MultipleSolutions
		return EmptyIncomplete(), nil
	}
}

// handleEvalErr classifies an affine.Evaluate/affine.Expression.Mul error:
// ErrNonLinear is deferred (spec.md §7: "silently deferred"), anything else
// is fatal.
func handleEvalErr(err error) (EvalValue, error) {
	if errors.Is(err, affine.ErrNonLinear) {
		return EmptyIncomplete(), nil
	}
	return EvalValue{}, err
}
