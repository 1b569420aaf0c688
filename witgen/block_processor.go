package witgen

import (
	"golang.org/x/exp/slices"

	"github.com/MuhtasimTanmoy/pilwit/internal/profiling"
	"github.com/MuhtasimTanmoy/pilwit/pil"
	"github.com/MuhtasimTanmoy/pilwit/witgen/witgenerr"
)

// BlockProcessor drives one Sequence Iterator to completion over a table,
// applying internal-identity, outer-query, and prover-query actions until
// no further progress is possible (spec.md §4.4).
type BlockProcessor struct {
	name       string
	fixed      *FixedData
	dispatch   *Dispatch
	identities []*pil.Identity
	columns    map[pil.PolyID]bool
	columnList []pil.PolyID // columns, sorted, for deterministic prover-query order
	table      *Table
	rowOffset  uint64
	outer      *OuterQuery

	outerAssignments []Constraint
	profiler         *profiling.Recorder
}

// NewBlockProcessor builds a BlockProcessor over table, with identities and
// columns scoped to a single machine (or to the whole program, when called
// from the top-level driver with no partitioning). outer is nil unless this
// processor is running as a sub-machine callee.
func NewBlockProcessor(
	name string,
	fixed *FixedData,
	dispatch *Dispatch,
	identities []*pil.Identity,
	columns map[pil.PolyID]bool,
	table *Table,
	rowOffset uint64,
	outer *OuterQuery,
) *BlockProcessor {
	list := make([]pil.PolyID, 0, len(columns))
	for id := range columns {
		list = append(list, id)
	}
	slices.SortFunc(list, func(a, b pil.PolyID) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
	return &BlockProcessor{
		name:       name,
		fixed:      fixed,
		dispatch:   dispatch,
		identities: identities,
		columns:    columns,
		columnList: list,
		table:      table,
		rowOffset:  rowOffset,
		outer:      outer,
	}
}

// Solve runs strategy to completion, dispatching each step and applying
// its resulting constraints (spec.md §4.4 steps 1-4). On success it
// returns the accumulated outer-assignments (empty/Complete if there was
// no outer query).
func (bp *BlockProcessor) Solve(strategy Strategy, oracle QueryOracle, queries QueryRegistry) (EvalValue, error) {
	for {
		step, ok := strategy.Next()
		if !ok {
			break
		}

		rp := bp.rowPair(step.Row)

		var ev EvalValue
		var err error
		switch step.Action {
		case ActionInternalIdentity:
			id := bp.identities[step.IdentityIndex]
			if bp.profiler != nil {
				err = bp.profiler.Track(id.Text, func() error {
					var trackErr error
					ev, trackErr = ProcessIdentity(bp.fixed, bp.dispatch, id, rp)
					return trackErr
				})
			} else {
				ev, err = ProcessIdentity(bp.fixed, bp.dispatch, id, rp)
			}
		case ActionOuterQuery:
			ev, err = bp.processOuterQuery(rp)
		case ActionProverQueries:
			ev, err = bp.processProverQueries(rp, oracle, queries)
		}
		if err != nil {
			return EvalValue{}, witgenerr.Annotate(bp.name, err)
		}

		progress, err := bp.applyUpdates(rp, ev)
		if err != nil {
			return EvalValue{}, witgenerr.Annotate(bp.name, err)
		}
		strategy.ReportProgress(progress)
	}

	return EvalValue{Constraints: bp.outerAssignments, Complete: true}, nil
}

func (bp *BlockProcessor) rowPair(localRow uint64) RowPair {
	cur, next := bp.table.Pair(localRow)
	return NewRowPair(cur, next, bp.rowOffset+localRow, bp.fixed, false)
}

// processOuterQuery matches the caller's Left against this machine's
// Right, row by row (spec.md §4.4's OuterQuery action).
func (bp *BlockProcessor) processOuterQuery(rp RowPair) (EvalValue, error) {
	if bp.outer == nil {
		return EmptyComplete(), nil
	}
	right := bp.outer.Right
	if right.Selector != nil {
		sel, err := evalSelector(bp.fixed, right.Selector, rp)
		if err != nil {
			return handleEvalErr(err)
		}
		if v, ok := sel.ConstantValue(); ok && v.IsZero() {
			return EmptyComplete(), nil // row not selected: nothing to match here
		}
	}
	if len(bp.outer.Left) != len(right.Expressions) {
		return EvalValue{}, witgenerr.New(witgenerr.ConstraintUnsatisfiable, "outer query arity mismatch")
	}

	outerIdentity := &pil.Identity{Text: bp.name + ": outer query"}
	result := EmptyComplete()
	for i, rexpr := range right.Expressions {
		rightAff, err := evalSelector(bp.fixed, rexpr, rp)
		if err != nil {
			ev, err2 := handleEvalErr(err)
			if err2 != nil {
				return EvalValue{}, err2
			}
			result = result.Combine(ev)
			continue
		}
		diff := bp.outer.Left[i].Sub(rightAff)
		ev, err := solveDiff(bp.fixed, outerIdentity, diff, rp)
		if err != nil {
			return EvalValue{}, err
		}
		result = result.Combine(ev)
	}
	return result, nil
}

func (bp *BlockProcessor) processProverQueries(rp RowPair, oracle QueryOracle, queries QueryRegistry) (EvalValue, error) {
	if oracle == nil || queries == nil {
		return EmptyComplete(), nil
	}
	result := EmptyComplete()
	for _, id := range bp.columnList {
		decl, ok := queries[id]
		if !ok {
			continue
		}
		if _, known := rp.Lookup(pil.Reference{Poly: id}); known {
			continue
		}
		ev, err := ProcessQuery(bp.fixed, rp, id, decl, oracle)
		if err != nil {
			return EvalValue{}, err
		}
		result = result.Combine(ev)
	}
	return result, nil
}

// applyUpdates implements spec.md §4.4 step 3: locally-owned constraints
// go through RowUpdater; constraints on columns this machine doesn't own
// are outer columns, folded back into the caller's Left and recorded.
func (bp *BlockProcessor) applyUpdates(rp RowPair, ev EvalValue) (bool, error) {
	if len(ev.Constraints) == 0 {
		return false, nil
	}
	updater := NewRowUpdater(rp.Cur, rp.Next, rp.GlobalRow)
	progress := false
	for _, c := range ev.Constraints {
		if bp.columns[c.Ref.Poly] {
			var changed bool
			var err error
			switch c.Kind {
			case AssignmentConstraint:
				changed, err = updater.ApplyAssignment(c.Ref, c.Value)
			case RangeConstraintKind:
				changed, err = updater.ApplyRangeConstraint(c.Ref, c.Range)
			}
			if err != nil {
				return false, err
			}
			if changed {
				progress = true
			}
			continue
		}
		// Outer column: only a definite assignment can be handed back; a
		// range hint on a caller-owned cell is the caller's business, not
		// ours to apply.
		if bp.outer != nil && c.Kind == AssignmentConstraint {
			bp.outer.substitute(c.Ref, c.Value)
			bp.outerAssignments = append(bp.outerAssignments, c)
			progress = true
		}
	}
	return progress, nil
}
