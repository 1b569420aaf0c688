package witgen

import (
	"github.com/MuhtasimTanmoy/pilwit/field"
	"github.com/MuhtasimTanmoy/pilwit/pil"
	"github.com/MuhtasimTanmoy/pilwit/rangeconstraint"
)

// FixedData bundles the immutable, shared references every Block Processor
// and Identity Processor in a run needs: the analyzed program, fixed-column
// values, and precomputed global range constraints (spec.md §4.3: "Fixed
// Data Bundle ... immutable references").
type FixedData struct {
	Program *pil.Analyzed
	Factory field.Factory

	// Degree is the machine-wide row count fixed columns are laid out for.
	// Variably-sized fixed columns (spec.md §6) are resolved against this
	// before FixedData construction by the caller.
	Degree uint64

	// fixedCols maps a Constant PolyID to its length-Degree value vector.
	fixedCols map[pil.PolyID]field.Vector

	// GlobalRanges holds the per-column RangeConstraint derived by the
	// Global Constraint Layer (spec.md §4.7), consulted by RowFactory and
	// by affine.Solve's range-narrowing path.
	GlobalRanges map[pil.PolyID]rangeconstraint.Set

	// Publics holds externally-supplied public input values (spec.md §6's
	// "public input values" entry in the Inputs list). A public not present
	// here is treated as unknown.
	Publics map[string]field.Element
}

// NewFixedData builds a FixedData bundle.
func NewFixedData(program *pil.Analyzed, factory field.Factory, degree uint64, fixedCols map[pil.PolyID]field.Vector, globalRanges map[pil.PolyID]rangeconstraint.Set, publics map[string]field.Element) *FixedData {
	if globalRanges == nil {
		globalRanges = map[pil.PolyID]rangeconstraint.Set{}
	}
	if publics == nil {
		publics = map[string]field.Element{}
	}
	return &FixedData{
		Program:      program,
		Factory:      factory,
		Degree:       degree,
		fixedCols:    fixedCols,
		GlobalRanges: globalRanges,
		Publics:      publics,
	}
}

// PublicValue resolves a named public input, implementing affine.PublicLookup.
func (fd *FixedData) PublicValue(name string) (field.Element, bool) {
	v, ok := fd.Publics[name]
	return v, ok
}

// FixedValue returns the value of a constant column at a (possibly
// wrapped) row index, per spec.md invariant 4.
func (fd *FixedData) FixedValue(id pil.PolyID, row uint64) (field.Element, bool) {
	vec, ok := fd.fixedCols[id]
	if !ok {
		return nil, false
	}
	idx := row % fd.Degree
	if idx >= uint64(len(vec)) {
		return nil, false
	}
	return vec[idx], true
}

// ColumnName resolves a PolyID to its declared name, for debug rendering.
func (fd *FixedData) ColumnName(id pil.PolyID) string {
	if fd.Program != nil {
		if c, ok := fd.Program.ColumnByPoly(id); ok {
			return c.Name
		}
	}
	return id.String()
}
