package affine

import "github.com/MuhtasimTanmoy/pilwit/pil"

// Var is the key type for an affine expression's unknown variables: either
// a reference to a polynomial at the current or next row, or a named public
// input (spec.md §3's "variables drawn from references in the current row
// pair").
type Var struct {
	Ref      pil.Reference
	IsPublic bool
	Public   string
}

// RefVar builds a Var from a polynomial reference.
func RefVar(r pil.Reference) Var { return Var{Ref: r} }

// PublicVar builds a Var from a public-input name.
func PublicVar(name string) Var { return Var{IsPublic: true, Public: name} }

func (v Var) String() string {
	if v.IsPublic {
		return ":" + v.Public
	}
	return v.Ref.String()
}
