// Package mock implements the supplemented mock backend (spec.md §10.1): a
// constraint-satisfaction checker that re-evaluates every identity of an
// analyzed program against an already-produced witness, rather than solving
// for one. It exists for the same reason the original toolchain's mock
// machine does — a fast, solver-free way to confirm a witness (however it
// was produced) actually satisfies the PIL before spending a real prover on
// it.
package mock

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MuhtasimTanmoy/pilwit/affine"
	"github.com/MuhtasimTanmoy/pilwit/field"
	"github.com/MuhtasimTanmoy/pilwit/internal/wlog"
	"github.com/MuhtasimTanmoy/pilwit/pil"
	"github.com/MuhtasimTanmoy/pilwit/witgen"
	"github.com/MuhtasimTanmoy/pilwit/witgen/witgenerr"
)

// Machine holds one machine's worth of witness and fixed columns alongside
// the analyzed program they belong to (grounded on original_source's
// mock::Machine::try_new, which bundles the same three things plus a
// pre-sized trace).
type Machine struct {
	name    string
	program *pil.Analyzed
	fixed   *witgen.FixedData
	table   *witgen.Table
	degree  uint64
}

// New builds a Machine from a full witness and fixed-column set. It returns
// (nil, nil) when witness is empty, mirroring try_new's "empty machines are
// always valid" rule — there is nothing to check.
func New(
	name string,
	program *pil.Analyzed,
	factory field.Factory,
	witness map[string]field.Vector,
	fixedCols map[string]field.Vector,
	publics map[string]field.Element,
) (*Machine, error) {
	if len(witness) == 0 {
		return nil, nil
	}

	degree := program.Degree
	fixedByPoly := make(map[pil.PolyID]field.Vector, len(program.Constant))
	for _, c := range program.Constant {
		if vec, ok := fixedCols[c.Name]; ok {
			fixedByPoly[c.Poly] = vec
		}
	}

	globalRanges := witgen.DeriveGlobalConstraints(program)
	fd := witgen.NewFixedData(program, factory, degree, fixedByPoly, globalRanges, publics)

	rowFactory := witgen.NewRowFactory(factory, program.CommittedPolyIDs(), globalRanges)
	table := witgen.NewTable(degree, rowFactory)

	for _, c := range program.Committed {
		vec, ok := witness[c.Name]
		if !ok {
			return nil, fmt.Errorf("mock: witness column %q is missing", c.Name)
		}
		if uint64(len(vec)) != degree {
			return nil, fmt.Errorf("mock: witness column %q has %d rows, expected %d", c.Name, len(vec), degree)
		}
		for i, v := range vec {
			row := table.At(uint64(i))
			row[c.Poly] = witgen.Cell{Value: v, Known: true}
		}
	}

	return &Machine{name: name, program: program, fixed: fd, table: table, degree: degree}, nil
}

// CheckIdentities re-evaluates every identity over every row and returns one
// violation per failing row for polynomial and connect identities, and at
// most one per failing plookup or permutation identity; an empty (nil)
// result means the witness satisfies the whole program.
func (m *Machine) CheckIdentities() ([]*witgenerr.Error, error) {
	var violations []*witgenerr.Error

	for _, id := range m.program.Identities {
		switch id.Kind {
		case pil.Polynomial:
			vs, err := m.checkPolynomial(id)
			if err != nil {
				return nil, err
			}
			violations = append(violations, vs...)
		case pil.Connect:
			vs, err := m.checkConnect(id)
			if err != nil {
				return nil, err
			}
			violations = append(violations, vs...)
		case pil.Plookup:
			v, err := m.checkPlookup(id)
			if err != nil {
				return nil, err
			}
			if v != nil {
				violations = append(violations, v)
			}
		case pil.Permutation:
			v, err := m.checkPermutation(id)
			if err != nil {
				return nil, err
			}
			if v != nil {
				violations = append(violations, v)
			}
		}
	}

	log := wlog.Logger()
	if len(violations) == 0 {
		log.Debug().Str("machine", m.name).Int("identities", len(m.program.Identities)).Msg("mock check: all identities hold")
	} else {
		log.Debug().Str("machine", m.name).Int("violations", len(violations)).Msg("mock check: constraint violations found")
	}
	return violations, nil
}

func (m *Machine) rowPair(row uint64) witgen.RowPair {
	cur, next := m.table.Pair(row)
	return witgen.NewRowPair(cur, next, row, m.fixed, false)
}

// checkPolynomial re-evaluates id.Left.Selector (the identity's normalized-
// to-zero expression) at every row and reports rows where it isn't zero.
func (m *Machine) checkPolynomial(id *pil.Identity) ([]*witgenerr.Error, error) {
	var out []*witgenerr.Error
	for row := uint64(0); row < m.degree; row++ {
		rp := m.rowPair(row)
		v, ok, err := m.evalConstant(id.Left.Selector, rp)
		if err != nil {
			return nil, fmt.Errorf("mock: %s at row %d: %w", id.String(), row, err)
		}
		if !ok {
			return nil, fmt.Errorf("mock: %s at row %d did not fully resolve against a complete witness", id.String(), row)
		}
		if !v.IsZero() {
			out = append(out, witgenerr.New(witgenerr.ConstraintUnsatisfiable, "identity does not hold").
				WithIdentity(id.String()).
				WithRow(row, row, rp.Cur.RenderValues(m.fixed.ColumnName, nil)))
		}
	}
	return out, nil
}

// checkConnect mirrors witgen's simplified row-local Connect semantics
// (pairwise equality between Left.Expressions[i] and Right.Expressions[i]
// at the same row): full cross-row permutation checking is left to the
// upstream analyzer, consistent with how the solver itself treats Connect.
func (m *Machine) checkConnect(id *pil.Identity) ([]*witgenerr.Error, error) {
	if len(id.Left.Expressions) != len(id.Right.Expressions) {
		return nil, fmt.Errorf("mock: %s has mismatched arity", id.String())
	}
	var out []*witgenerr.Error
	for row := uint64(0); row < m.degree; row++ {
		rp := m.rowPair(row)
		for i := range id.Left.Expressions {
			lv, lok, err := m.evalConstant(id.Left.Expressions[i], rp)
			if err != nil {
				return nil, err
			}
			rv, rok, err := m.evalConstant(id.Right.Expressions[i], rp)
			if err != nil {
				return nil, err
			}
			if !lok || !rok {
				return nil, fmt.Errorf("mock: %s at row %d did not fully resolve", id.String(), row)
			}
			if lv.Cmp(rv) != 0 {
				out = append(out, witgenerr.New(witgenerr.ConstraintUnsatisfiable, "connected expressions disagree").
					WithIdentity(id.String()).
					WithRow(row, row, rp.Cur.RenderValues(m.fixed.ColumnName, nil)))
			}
		}
	}
	return out, nil
}

// checkPlookup requires every selected Left tuple to appear among the
// selected Right tuples, ignoring multiplicity (spec.md §3's lookup
// semantics: a subset-of-rows relationship, not a one-to-one pairing).
func (m *Machine) checkPlookup(id *pil.Identity) (*witgenerr.Error, error) {
	leftTuples, err := m.collectTuples(&id.Left)
	if err != nil {
		return nil, fmt.Errorf("mock: %s: %w", id.String(), err)
	}
	rightTuples, err := m.collectTuples(&id.Right)
	if err != nil {
		return nil, fmt.Errorf("mock: %s: %w", id.String(), err)
	}
	rightSet := make(map[string]bool, len(rightTuples))
	for _, t := range rightTuples {
		rightSet[strings.Join(t, ",")] = true
	}
	for _, t := range leftTuples {
		if !rightSet[strings.Join(t, ",")] {
			return witgenerr.New(witgenerr.ConstraintUnsatisfiable, "left tuple not found on the lookup's right-hand side").
				WithIdentity(id.String()), nil
		}
	}
	return nil, nil
}

// checkPermutation requires the selected Left tuples and Right tuples to
// form equal multisets (spec.md §3's permutation semantics: every row is
// paired with exactly one row on the other side).
func (m *Machine) checkPermutation(id *pil.Identity) (*witgenerr.Error, error) {
	leftTuples, err := m.collectTuples(&id.Left)
	if err != nil {
		return nil, fmt.Errorf("mock: %s: %w", id.String(), err)
	}
	rightTuples, err := m.collectTuples(&id.Right)
	if err != nil {
		return nil, fmt.Errorf("mock: %s: %w", id.String(), err)
	}
	if len(leftTuples) != len(rightTuples) {
		return witgenerr.New(witgenerr.ConstraintUnsatisfiable, "permutation sides have different selected row counts").
			WithIdentity(id.String()), nil
	}
	left := make([]string, len(leftTuples))
	for i, t := range leftTuples {
		left[i] = strings.Join(t, ",")
	}
	right := make([]string, len(rightTuples))
	for i, t := range rightTuples {
		right[i] = strings.Join(t, ",")
	}
	sort.Strings(left)
	sort.Strings(right)
	for i := range left {
		if left[i] != right[i] {
			return witgenerr.New(witgenerr.ConstraintUnsatisfiable, "permutation multisets disagree").
				WithIdentity(id.String()), nil
		}
	}
	return nil, nil
}

// collectTuples evaluates se's expressions at every row whose selector is
// non-zero (or every row, when se has no selector), returning one tuple per
// selected row.
func (m *Machine) collectTuples(se *pil.SelectedExpressions) ([][]string, error) {
	var tuples [][]string
	for row := uint64(0); row < m.degree; row++ {
		rp := m.rowPair(row)
		if se.Selector != nil {
			sel, ok, err := m.evalConstant(se.Selector, rp)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("selector at row %d did not fully resolve", row)
			}
			if sel.IsZero() {
				continue
			}
		}
		tuple := make([]string, len(se.Expressions))
		for i, e := range se.Expressions {
			v, ok, err := m.evalConstant(e, rp)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("expression at row %d did not fully resolve", row)
			}
			tuple[i] = v.BigInt().String()
		}
		tuples = append(tuples, tuple)
	}
	return tuples, nil
}

// evalConstant evaluates e against rp and requires the result to be a fully
// known constant, which always holds here since Machine is only ever built
// from a complete witness.
func (m *Machine) evalConstant(e *pil.Expression, rp witgen.RowPair) (field.Element, bool, error) {
	if e == nil {
		return m.fixed.Factory.Zero(), true, nil
	}
	aff, err := affine.Evaluate(m.fixed.Factory, e, rp.Lookup, m.fixed.PublicValue)
	if err != nil {
		return nil, false, err
	}
	v, ok := aff.ConstantValue()
	return v, ok, nil
}
