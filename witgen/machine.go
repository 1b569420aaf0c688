package witgen

import (
	"github.com/MuhtasimTanmoy/pilwit/affine"
	"github.com/MuhtasimTanmoy/pilwit/field"
	"github.com/MuhtasimTanmoy/pilwit/pil"
	"github.com/MuhtasimTanmoy/pilwit/witgen/witgenerr"
)

// Machine is spec.md §4.6's unit of dispatch: an owner of a disjoint set of
// committed columns and the identities scoped to them, reachable from a
// caller only through an outer query.
type Machine interface {
	Name() string
	Columns() map[pil.PolyID]bool
	// ProcessOuterQuery runs this machine's own Block Processor to
	// completion with outer appended, returning the caller's
	// outer-assignments (spec.md §4.4's OuterQuery action, §4.6's "the
	// callee returns assignments for its caller's columns").
	ProcessOuterQuery(outer *OuterQuery) (EvalValue, error)
}

// OuterQuery is the caller-supplied half of a cross-machine lookup or
// permutation call (spec.md §4.4): Left holds the caller's selected
// expressions, already evaluated against the caller's row pair (so its
// unknowns, if any, are caller-owned columns); Right is this machine's own
// selected expressions the caller wants matched against.
type OuterQuery struct {
	Left        []affine.Expression
	Right       *pil.SelectedExpressions
	Permutation bool
}

// substitute folds a newly-learned value for ref into every Left
// expression that still mentions it (spec.md §4.4 step 3: "write into the
// caller's left affine expressions by substituting the newly-known
// value").
func (q *OuterQuery) substitute(ref pil.Reference, value field.Element) {
	v := affine.RefVar(ref)
	for i := range q.Left {
		q.Left[i] = q.Left[i].Assign(v, value)
	}
}

// Dispatch implements spec.md §4.6's routing rule: a Plookup/Permutation's
// right-hand side column set determines the target machine deterministically,
// falling through to FixedLookup when no machine's columns match.
type Dispatch struct {
	machines    []Machine
	fixedLookup *FixedLookup
}

// NewDispatch builds a Dispatch over machines, with fixedLookup as the
// fallback target for right-hand sides drawn entirely from fixed columns.
func NewDispatch(fixedLookup *FixedLookup, machines ...Machine) *Dispatch {
	return &Dispatch{machines: machines, fixedLookup: fixedLookup}
}

// ProcessLookup routes a Plookup/Permutation call to its target (spec.md §4.3/§4.6).
func (d *Dispatch) ProcessLookup(left []affine.Expression, right *pil.SelectedExpressions, permutation bool) (EvalValue, error) {
	if target := d.route(right); target != nil {
		return target.ProcessOuterQuery(&OuterQuery{Left: left, Right: right, Permutation: permutation})
	}
	return d.fixedLookup.Process(left, right)
}

// TargetName reports the name of whichever machine (or "fixed_lookup")
// ProcessLookup would route right to, for error annotation.
func (d *Dispatch) TargetName(right *pil.SelectedExpressions) string {
	if m := d.route(right); m != nil {
		return m.Name()
	}
	return "fixed_lookup"
}

func (d *Dispatch) route(right *pil.SelectedExpressions) Machine {
	cols := map[pil.PolyID]bool{}
	for _, e := range right.Expressions {
		for _, id := range pil.ReferencedPolys(e) {
			cols[id] = true
		}
	}
	for _, m := range d.machines {
		if len(cols) == 0 {
			continue
		}
		matches := true
		for id := range cols {
			if !m.Columns()[id] {
				matches = false
				break
			}
		}
		if matches {
			return m
		}
	}
	return nil
}

// BlockMachine is the concrete Machine every partitioned component of the
// analyzed program becomes (spec.md §4.6: "each a Block Processor over its
// own columns"). Each call spins up a fresh table and runs the Block
// Processor to completion; the call graph is acyclic by construction
// (spec.md §4.6), so this never re-enters itself through Dispatch.
type BlockMachine struct {
	name       string
	fixed      *FixedData
	dispatch   *Dispatch
	identities []*pil.Identity
	columns    map[pil.PolyID]bool
	rowFactory RowFactory
	degree     uint64
	queries    QueryRegistry
	oracle     QueryOracle
}

// NewBlockMachine builds a BlockMachine.
func NewBlockMachine(
	name string,
	fixed *FixedData,
	dispatch *Dispatch,
	identities []*pil.Identity,
	columns map[pil.PolyID]bool,
	rowFactory RowFactory,
	degree uint64,
	queries QueryRegistry,
	oracle QueryOracle,
) *BlockMachine {
	return &BlockMachine{
		name:       name,
		fixed:      fixed,
		dispatch:   dispatch,
		identities: identities,
		columns:    columns,
		rowFactory: rowFactory,
		degree:     degree,
		queries:    queries,
		oracle:     oracle,
	}
}

func (m *BlockMachine) Name() string                 { return m.name }
func (m *BlockMachine) Columns() map[pil.PolyID]bool { return m.columns }

func (m *BlockMachine) ProcessOuterQuery(outer *OuterQuery) (EvalValue, error) {
	table := NewTable(m.degree, m.rowFactory)
	bp := NewBlockProcessor(m.name, m.fixed, m.dispatch, m.identities, m.columns, table, 0, outer)
	strategy := NewDefaultIterator(m.degree, len(m.identities), true)
	return bp.Solve(strategy, m.oracle, m.queries)
}

// Solve runs this machine's Block Processor over its own table with no
// outer query.
func (m *BlockMachine) Solve() (*Table, error) {
	table := NewTable(m.degree, m.rowFactory)
	bp := NewBlockProcessor(m.name, m.fixed, m.dispatch, m.identities, m.columns, table, 0, nil)
	strategy := NewDefaultIterator(m.degree, len(m.identities), false)
	if _, err := bp.Solve(strategy, m.oracle, m.queries); err != nil {
		return nil, witgenerr.Annotate(m.name, err)
	}
	return table, nil
}
