package witgen

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/MuhtasimTanmoy/pilwit/affine"
	"github.com/MuhtasimTanmoy/pilwit/field"
	"github.com/MuhtasimTanmoy/pilwit/pil"
	"github.com/MuhtasimTanmoy/pilwit/witgen/witgenerr"
)

// FixedLookup is the machine spec.md §4.6 names as the fallback target for
// Plookup/Permutation right-hand sides drawn entirely from fixed columns:
// rather than running a Block Processor, it searches the fixed-column
// table directly for a row matching whatever of the left-hand side is
// already known.
//
// Results are memoized keyed on a blake2b hash of the calling identity's
// selected expressions plus the known left values (spec.md's supplemented
// §10.3): a machine with a wide lookup table queried from many rows of its
// caller would otherwise repeat the same linear scan for every row that
// happens to ask the same question.
type FixedLookup struct {
	fixed *FixedData

	mu    sync.Mutex
	cache map[[32]byte]fixedLookupResult
}

type fixedLookupResult struct {
	found bool
	row   uint64
}

// NewFixedLookup builds a FixedLookup over fixed.
func NewFixedLookup(fixed *FixedData) *FixedLookup {
	return &FixedLookup{fixed: fixed, cache: map[[32]byte]fixedLookupResult{}}
}

// Process searches for a row of fixed satisfying every Right expression
// against the known subset of Left, returning Assignments for Left's
// remaining unknowns on a match (spec.md §4.3's Plookup dispatch).
func (fl *FixedLookup) Process(left []affine.Expression, right *pil.SelectedExpressions) (EvalValue, error) {
	if len(left) != len(right.Expressions) {
		return EvalValue{}, witgenerr.New(witgenerr.ConstraintUnsatisfiable, "fixed lookup arity mismatch")
	}

	anchored := false
	for _, l := range left {
		if _, ok := l.ConstantValue(); ok {
			anchored = true
			break
		}
	}
	if !anchored {
		// Every left-hand entry is still unknown: any row of the table
		// would superficially match, so there is nothing to narrow down
		// yet (spec.md §4.1's Incomplete: "no unknowns determined").
		return EmptyIncomplete(), nil
	}

	key := fl.cacheKey(left, right)
	fl.mu.Lock()
	cached, ok := fl.cache[key]
	fl.mu.Unlock()
	if ok {
		if !cached.found {
			return EvalValue{}, witgenerr.New(witgenerr.ConstraintUnsatisfiable, "no row of the fixed lookup table matches")
		}
		return fl.assignFromRow(left, right, cached.row)
	}

	row, found := fl.search(left, right)

	fl.mu.Lock()
	fl.cache[key] = fixedLookupResult{found: found, row: row}
	fl.mu.Unlock()

	if !found {
		return EvalValue{}, witgenerr.New(witgenerr.ConstraintUnsatisfiable, "no row of the fixed lookup table matches")
	}
	return fl.assignFromRow(left, right, row)
}

// fixedLookupAt returns an affine.Lookup resolving constant-column
// references against a single fixed row (committed-column references
// never appear on a FixedLookup's right-hand side, by construction of the
// Dispatch routing rule).
func (fl *FixedLookup) fixedLookupAt(row uint64) affine.Lookup {
	return func(ref pil.Reference) (field.Element, bool) {
		if ref.Poly.Kind != pil.Constant {
			return nil, false
		}
		r := row
		if ref.Next {
			r++
		}
		return fl.fixed.FixedValue(ref.Poly, r)
	}
}

func (fl *FixedLookup) search(left []affine.Expression, right *pil.SelectedExpressions) (uint64, bool) {
	for row := uint64(0); row < fl.fixed.Degree; row++ {
		lookup := fl.fixedLookupAt(row)
		compatible := true
		for i, rexpr := range right.Expressions {
			aff, err := affine.Evaluate(fl.fixed.Factory, rexpr, lookup, fl.fixed.PublicValue)
			if err != nil {
				compatible = false
				break
			}
			if lv, ok := left[i].ConstantValue(); ok {
				rv, rok := aff.ConstantValue()
				if !rok || lv.Cmp(rv) != 0 {
					compatible = false
					break
				}
			}
		}
		if compatible {
			return row, true
		}
	}
	return 0, false
}

func (fl *FixedLookup) assignFromRow(left []affine.Expression, right *pil.SelectedExpressions, row uint64) (EvalValue, error) {
	lookup := fl.fixedLookupAt(row)

	var constraints []Constraint
	for i, rexpr := range right.Expressions {
		if _, ok := left[i].ConstantValue(); ok {
			continue // already known, and search() already verified the match
		}
		aff, err := affine.Evaluate(fl.fixed.Factory, rexpr, lookup, fl.fixed.PublicValue)
		if err != nil {
			return EvalValue{}, fmt.Errorf("fixed lookup: re-evaluating matched row %d: %w", row, err)
		}
		v, ok := aff.ConstantValue()
		if !ok {
			return EvalValue{}, witgenerr.New(witgenerr.ConstraintUnsatisfiable, "fixed lookup row did not fully resolve")
		}
		for _, varr := range left[i].Vars() {
			if varr.IsPublic {
				continue
			}
			constraints = append(constraints, NewAssignment(varr.Ref, v))
		}
	}
	return EvalValue{Constraints: constraints, Complete: true}, nil
}

func (fl *FixedLookup) cacheKey(left []affine.Expression, right *pil.SelectedExpressions) [32]byte {
	h, _ := blake2b.New256(nil)
	fmt.Fprintf(h, "%p|", right)
	for _, l := range left {
		if v, ok := l.ConstantValue(); ok {
			fmt.Fprintf(h, "%s,", v.BigInt().String())
		} else {
			fmt.Fprintf(h, "?,")
		}
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
