package witgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MuhtasimTanmoy/pilwit/field"
	"github.com/MuhtasimTanmoy/pilwit/pil"
	"github.com/MuhtasimTanmoy/pilwit/rangeconstraint"
	"github.com/MuhtasimTanmoy/pilwit/witgen/witgenerr"
)

// Cell is a single committed-column value within a Row (spec.md §3): either
// fully known, or constrained to a (possibly unconstrained) range.
type Cell struct {
	Value field.Element
	Known bool
	Range rangeconstraint.Set
}

// Row maps a committed PolyID to its current Cell (spec.md §3).
type Row map[pil.PolyID]Cell

// IsFinal reports whether every cell in the row is known (spec.md §3).
func (r Row) IsFinal() bool {
	for _, c := range r {
		if !c.Known {
			return false
		}
	}
	return true
}

// RenderValues renders known values for debug/error output, restricted to
// cols if non-nil (spec.md §4.2: "debug rendering restricted to a given
// column subset").
func (r Row) RenderValues(names func(pil.PolyID) string, cols map[pil.PolyID]bool) string {
	ids := make([]pil.PolyID, 0, len(r))
	for id := range r {
		if cols == nil || cols[id] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })

	var b strings.Builder
	for _, id := range ids {
		c := r[id]
		name := names(id)
		if c.Known {
			fmt.Fprintf(&b, "  %s = %s\n", name, c.Value.BigInt().String())
		} else {
			fmt.Fprintf(&b, "  %s = <unknown>\n", name)
		}
	}
	return b.String()
}

// RowFactory produces fresh in-progress rows pre-seeded with global range
// constraints (spec.md §4.2).
type RowFactory struct {
	factory      field.Factory
	committed    []pil.PolyID
	globalRanges map[pil.PolyID]rangeconstraint.Set
}

// NewRowFactory builds a RowFactory for the given committed columns, seeded
// with global per-column range constraints (spec.md §4.7's output).
func NewRowFactory(f field.Factory, committed []pil.PolyID, globalRanges map[pil.PolyID]rangeconstraint.Set) RowFactory {
	return RowFactory{factory: f, committed: committed, globalRanges: globalRanges}
}

// FreshRow returns a new in-progress Row for every committed column.
func (rf RowFactory) FreshRow() Row {
	row := make(Row, len(rf.committed))
	for _, id := range rf.committed {
		rng := rf.globalRanges[id]
		row[id] = Cell{Range: rng}
	}
	return row
}

// Table is the ordered, cyclic sequence of rows a machine solves over
// (spec.md §3): index arithmetic wraps mod Degree, so "next" at the last
// row reads row 0 (invariant 4).
type Table struct {
	Degree uint64
	rows   []Row
}

// NewTable builds a Table of Degree rows, all freshly seeded via rf.
func NewTable(degree uint64, rf RowFactory) *Table {
	rows := make([]Row, degree)
	for i := range rows {
		rows[i] = rf.FreshRow()
	}
	return &Table{Degree: degree, rows: rows}
}

// At returns the row at local index i (not wrapped: i must be < Degree).
func (t *Table) At(i uint64) Row { return t.rows[i] }

// Pair returns the row at i and its cyclic successor at i+1, satisfying
// spec.md invariant 4.
func (t *Table) Pair(i uint64) (cur, next Row) {
	return t.rows[i], t.rows[(i+1)%t.Degree]
}

// Finalize is a no-op placeholder for the "promote a fully-known row to
// immutable storage" step spec.md §4.2 describes as an optimization; Go's
// map-based Row already makes finalized rows cheap to read, so there is no
// separate storage representation to switch to. The method exists so
// callers written against the original two-phase lifecycle compile
// unchanged and so a future optimization pass has an obvious seam.
func (t *Table) Finalize(i uint64) {}

// Witness extracts the final committed-column values as name-keyed vectors
// (spec.md §6's output shape), failing if any cell is still unknown
// (spec.md §7: IncompleteProgress).
func (t *Table) Witness(columns []pil.Column) (map[string]field.Vector, error) {
	out := make(map[string]field.Vector, len(columns))
	for _, col := range columns {
		vec := make(field.Vector, t.Degree)
		for i := uint64(0); i < t.Degree; i++ {
			cell, ok := t.rows[i][col.Poly]
			if !ok || !cell.Known {
				return nil, witgenerr.New(witgenerr.IncompleteProgress,
					fmt.Sprintf("column %s row %d was never assigned", col.Name, i))
			}
			vec[i] = cell.Value
		}
		out[col.Name] = vec
	}
	return out, nil
}

// RowPair is a read-only view over two adjacent rows plus the fixed data
// needed to resolve constant-column and "next" references (spec.md §4.2's
// mutable_row_pair, minus mutability — updates go through RowUpdater).
type RowPair struct {
	Cur, Next   Row
	GlobalRow   uint64
	Fixed       *FixedData
	UnknownZero bool // UnknownStrategy::Zero when true, else UnknownStrategy::Unknown
}

// NewRowPair constructs a RowPair.
func NewRowPair(cur, next Row, globalRow uint64, fixed *FixedData, unknownZero bool) RowPair {
	return RowPair{Cur: cur, Next: next, GlobalRow: globalRow, Fixed: fixed, UnknownZero: unknownZero}
}

// Lookup resolves a committed-column reference against the appropriate row
// of the pair, honoring UnknownStrategy (spec.md §4.4 step 1).
func (rp RowPair) Lookup(ref pil.Reference) (field.Element, bool) {
	row := rp.Cur
	if ref.Next {
		row = rp.Next
	}
	cell, ok := row[ref.Poly]
	if !ok {
		// Constant columns live in FixedData, not the row map.
		if ref.Poly.Kind == pil.Constant {
			rowIdx := rp.GlobalRow
			if ref.Next {
				rowIdx++
			}
			if v, ok := rp.Fixed.FixedValue(ref.Poly, rowIdx); ok {
				return v, true
			}
		}
		if rp.UnknownZero {
			return rp.Fixed.Factory.Zero(), true
		}
		return nil, false
	}
	if cell.Known {
		return cell.Value, true
	}
	if rp.UnknownZero {
		return rp.Fixed.Factory.Zero(), true
	}
	return nil, false
}

// Range returns the currently-known RangeConstraint for ref.
func (rp RowPair) Range(ref pil.Reference) rangeconstraint.Set {
	row := rp.Cur
	if ref.Next {
		row = rp.Next
	}
	if cell, ok := row[ref.Poly]; ok {
		return cell.Range
	}
	return rangeconstraint.Unconstrained(rp.Fixed.Factory)
}

// RowUpdater applies constraint updates to the row pair's owned columns,
// enforcing spec.md invariants 2 and 3 (assignments are immutable once set;
// ranges only shrink).
type RowUpdater struct {
	Cur, Next         Row
	GlobalRow         uint64
}

// NewRowUpdater builds a RowUpdater over a row pair.
func NewRowUpdater(cur, next Row, globalRow uint64) RowUpdater {
	return RowUpdater{Cur: cur, Next: next, GlobalRow: globalRow}
}

// ApplyAssignment fixes ref to value, returning a ConflictingAssignment
// error if a different value was already known (invariant 2). The returned
// bool reports whether this call actually changed the cell — false for an
// idempotent re-assignment — so callers can tell real progress from a
// no-op (spec.md §4.4's "terminates once a pass yields no progress").
func (u RowUpdater) ApplyAssignment(ref pil.Reference, value field.Element) (bool, error) {
	row := u.Cur
	if ref.Next {
		row = u.Next
	}
	cell := row[ref.Poly]
	if cell.Known {
		if cell.Value.Cmp(value) != 0 {
			return false, witgenerr.New(witgenerr.ConflictingAssignment,
				fmt.Sprintf("%s already assigned %s, cannot reassign %s", ref, cell.Value.BigInt(), value.BigInt())).
				WithRow(rowLocalIndex(ref, u), u.GlobalRow, "")
		}
		return false, nil // idempotent re-assignment, not progress
	}
	cell.Value = value
	cell.Known = true
	row[ref.Poly] = cell
	return true, nil
}

// ApplyRangeConstraint narrows ref's range, returning a RangeContradiction
// error if the intersection is empty (invariant 3). The returned bool
// reports whether the intersection actually shrank the range — false when
// the constraint added nothing new, so a pass that only re-derives already-
// known bounds is not mistaken for progress.
func (u RowUpdater) ApplyRangeConstraint(ref pil.Reference, rc rangeconstraint.Set) (bool, error) {
	row := u.Cur
	if ref.Next {
		row = u.Next
	}
	cell := row[ref.Poly]
	if cell.Known {
		return false, nil // already fixed; a range hint on a known cell is a no-op
	}
	narrowed := cell.Range.Intersect(rc)
	if narrowed.IsEmpty() {
		return false, witgenerr.New(witgenerr.RangeContradiction,
			fmt.Sprintf("range constraints on %s became empty", ref)).
			WithRow(rowLocalIndex(ref, u), u.GlobalRow, "")
	}
	changed := !narrowed.Equal(cell.Range)
	cell.Range = narrowed
	row[ref.Poly] = cell
	return changed, nil
}

func rowLocalIndex(ref pil.Reference, u RowUpdater) uint64 {
	if ref.Next {
		return u.GlobalRow + 1
	}
	return u.GlobalRow
}
