// Package pil models the already-analyzed PIL program that the witness
// generation core consumes (spec.md §6: PIL parsing and name resolution are
// delivered upstream — this package only needs to represent their output).
//
// The shapes here mirror the original Rust analyzer's AST
// (original_source/ast/src/parsed/mod.rs), re-expressed as plain Go data
// with a generic visitor instead of the Rust AST's trait-object traversal.
package pil

import "fmt"

// Kind distinguishes the three polynomial classes spec.md §3 defines.
type Kind uint8

const (
	Committed Kind = iota
	Constant
	Intermediate
)

func (k Kind) String() string {
	switch k {
	case Committed:
		return "committed"
	case Constant:
		return "constant"
	case Intermediate:
		return "intermediate"
	default:
		return "unknown"
	}
}

// PolyID uniquely identifies a polynomial within an analyzed program
// (spec.md §3: "Pair (id: u64, kind)").
type PolyID struct {
	ID   uint64
	Kind Kind
}

func (p PolyID) String() string {
	return fmt.Sprintf("%s#%d", p.Kind, p.ID)
}

// Less gives PolyID a total order, used as a map/slice sort key wherever
// deterministic iteration over columns matters (spec.md §8's determinism
// property).
func (p PolyID) Less(o PolyID) bool {
	if p.Kind != o.Kind {
		return p.Kind < o.Kind
	}
	return p.ID < o.ID
}

// Reference is an algebraic reference to a polynomial at the current row
// (Next == false) or the next row (Next == true), per spec.md §3.
type Reference struct {
	Poly PolyID
	Name string
	Next bool
}

func (r Reference) String() string {
	if r.Next {
		return r.Name + "'"
	}
	return r.Name
}

// Column describes a declared fixed or committed column.
type Column struct {
	Poly PolyID
	Name string
}
