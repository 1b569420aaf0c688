package pil

import "fmt"

// IdentityKind enumerates the four identity kinds spec.md §3 defines.
type IdentityKind uint8

const (
	Polynomial IdentityKind = iota
	Plookup
	Permutation
	Connect
)

func (k IdentityKind) String() string {
	switch k {
	case Polynomial:
		return "polynomial"
	case Plookup:
		return "plookup"
	case Permutation:
		return "permutation"
	case Connect:
		return "connect"
	default:
		return "unknown"
	}
}

// Identity is a single constraint that must hold on every row of the
// machine it belongs to (spec.md §3). For Polynomial identities, Left holds
// the (normalized-to-zero) expression and Right is unused; Connect stores
// its two index lists directly in Left.Expressions / Right.Expressions with
// nil selectors.
type Identity struct {
	Index int // position within Analyzed.Identities; used as a stable key
	Kind  IdentityKind
	Left  SelectedExpressions
	Right SelectedExpressions
	// Text is a human-readable rendering used in error reports (spec.md §7:
	// "the failing identity's textual form").
	Text string
}

func (id *Identity) String() string {
	if id.Text != "" {
		return id.Text
	}
	return fmt.Sprintf("identity#%d(%s)", id.Index, id.Kind)
}

// ContainsNextRef reports whether this identity references any column at
// the next row.
func (id *Identity) ContainsNextRef() bool {
	for _, e := range id.Left.Expressions {
		if ContainsNextRef(e) {
			return true
		}
	}
	if id.Left.Selector != nil && ContainsNextRef(id.Left.Selector) {
		return true
	}
	for _, e := range id.Right.Expressions {
		if ContainsNextRef(e) {
			return true
		}
	}
	if id.Right.Selector != nil && ContainsNextRef(id.Right.Selector) {
		return true
	}
	return false
}
