package witgen

import (
	"github.com/MuhtasimTanmoy/pilwit/field"
	"github.com/MuhtasimTanmoy/pilwit/pil"
	"github.com/MuhtasimTanmoy/pilwit/rangeconstraint"
)

// ConstraintKind discriminates the two constraint shapes spec.md §3
// defines as the output of solving.
type ConstraintKind uint8

const (
	AssignmentConstraint ConstraintKind = iota
	RangeConstraintKind
)

// Constraint is one unit of progress produced by the Identity or Query
// Processor: either a definite Assignment or a narrowed RangeConstraint,
// targeting a single polynomial reference (spec.md §3).
type Constraint struct {
	Ref   pil.Reference
	Kind  ConstraintKind
	Value field.Element
	Range rangeconstraint.Set
}

// NewAssignment builds an Assignment constraint.
func NewAssignment(ref pil.Reference, v field.Element) Constraint {
	return Constraint{Ref: ref, Kind: AssignmentConstraint, Value: v}
}

// NewRangeConstraint builds a RangeConstraint constraint.
func NewRangeConstraint(ref pil.Reference, r rangeconstraint.Set) Constraint {
	return Constraint{Ref: ref, Kind: RangeConstraintKind, Range: r}
}

// EvalValue is the result of evaluating a single identity or query
// (spec.md §4.3): a set of constraints plus a completeness status. Status
// is Complete only if no unknowns remain in the expression that produced
// it; callers must retry incomplete identities on a later pass.
type EvalValue struct {
	Constraints []Constraint
	Complete    bool
}

// EmptyComplete returns a "no progress, but nothing left to solve" value.
func EmptyComplete() EvalValue { return EvalValue{Complete: true} }

// EmptyIncomplete returns a "no progress yet" value.
func EmptyIncomplete() EvalValue { return EvalValue{Complete: false} }

// Combine merges other into v, concatenating constraints. The combined
// status is Complete only if both inputs were.
func (v EvalValue) Combine(other EvalValue) EvalValue {
	return EvalValue{
		Constraints: append(append([]Constraint{}, v.Constraints...), other.Constraints...),
		Complete:    v.Complete && other.Complete,
	}
}
