package pil

// Analyzed is the immutable output of the (external) PIL analyzer that this
// core consumes: an ordered bag of committed/constant/intermediate columns
// and identities, all belonging to a single degree (spec.md §6).
//
// Intermediate definitions are assumed already inlined into the
// identities' expression trees by the time an Analyzed program reaches this
// package (spec.md §6: "intermediate inlining is required before
// consumption"); Intermediates is kept only for debug rendering and for
// machine-partitioning heuristics that want to report an intermediate's
// name in diagnostics.
type Analyzed struct {
	Namespace string
	Degree    uint64

	Committed     []Column
	Constant      []Column
	Intermediates []IntermediateDef

	Identities []*Identity

	// Publics maps a declared public name to the column/row it is sourced
	// from, per the original PilStatement::PublicDeclaration shape.
	Publics map[string]PublicRef
}

// IntermediateDef names an intermediate polynomial and its (already used
// for inlining) defining expression.
type IntermediateDef struct {
	Poly       PolyID
	Name       string
	Definition *Expression
}

// PublicRef locates a public input's source column and row.
type PublicRef struct {
	Poly PolyID
	Row  uint64
}

// ColumnByPoly looks up a column declaration (committed or constant) by its
// PolyID.
func (a *Analyzed) ColumnByPoly(id PolyID) (Column, bool) {
	switch id.Kind {
	case Committed:
		for _, c := range a.Committed {
			if c.Poly == id {
				return c, true
			}
		}
	case Constant:
		for _, c := range a.Constant {
			if c.Poly == id {
				return c, true
			}
		}
	}
	return Column{}, false
}

// CommittedPolyIDs returns the PolyIDs of every committed column, in
// declaration order.
func (a *Analyzed) CommittedPolyIDs() []PolyID {
	out := make([]PolyID, len(a.Committed))
	for i, c := range a.Committed {
		out[i] = c.Poly
	}
	return out
}
