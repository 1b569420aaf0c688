// Package rangeconstraint implements the monotonically-shrinking
// RangeConstraint described in spec.md §3/§4.1/§4.7: a bitmask/interval of
// possible values for a single cell.
//
// Two concrete shapes are supported, mirroring the original Rust
// RangeConstraint (and the split documented in go-corset's
// pkg/schema/constraint/range.go, a read-only reference from the example
// pack): a small explicit bitmask (used for "this column is boolean" style
// constraints derived from patterns like x·(x-1)=0) and a bounded
// [min, max] interval (used for "this column is a u8" style constraints).
// The bitmask form is backed by bits-and-blooms/bitset, one of the
// teacher's domain dependencies.
package rangeconstraint

import (
	"math/big"

	"github.com/bits-and-blooms/bitset"

	"github.com/MuhtasimTanmoy/pilwit/field"
)

// maxMaskBits bounds how large a bitmask we're willing to materialize
// explicitly; beyond this, Set degrades to the interval representation.
const maxMaskBits = 4096

// Set describes the currently-known-possible values of a cell. The zero
// value is Unconstrained (spec.md invariant 3: ranges only ever shrink from
// here).
type Set struct {
	// mask, if non-nil, enumerates exactly the admissible residues.
	mask *bitset.BitSet
	// hasBounds indicates min/max are meaningful (used when mask is nil).
	hasBounds  bool
	min, max   uint64
	fieldBits  uint // bit width of the enclosing field, for "unconstrained"
}

// Unconstrained returns a Set that admits any value of the given field.
func Unconstrained(f field.Factory) Set {
	return Set{hasBounds: false, fieldBits: uint(f.Modulus().BitLen())}
}

// FromMask returns a Set admitting exactly the residues present in values.
func FromMask(values []uint64) Set {
	max := uint64(0)
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max >= maxMaskBits {
		// Too wide to enumerate; fall back to the interval [0, max].
		return FromInterval(0, max)
	}
	bs := bitset.New(uint(max) + 1)
	for _, v := range values {
		bs.Set(uint(v))
	}
	return Set{mask: bs}
}

// FromInterval returns a Set admitting [min, max] inclusive.
func FromInterval(min, max uint64) Set {
	return Set{hasBounds: true, min: min, max: max}
}

// Boolean is the canonical {0,1} constraint produced by patterns like
// x·(x-1)=0 (spec.md §4.7's worked example).
func Boolean() Set {
	return FromMask([]uint64{0, 1})
}

// IsUnconstrained reports whether s admits any field value.
func (s Set) IsUnconstrained() bool {
	return s.mask == nil && !s.hasBounds
}

// Allows reports whether v is within s's admissible set.
func (s Set) Allows(v field.Element) bool {
	if s.IsUnconstrained() {
		return true
	}
	u := v.BigInt()
	if s.mask != nil {
		if !u.IsUint64() {
			return false
		}
		idx := u.Uint64()
		return idx < s.mask.Len() && s.mask.Test(uint(idx))
	}
	min := new(big.Int).SetUint64(s.min)
	max := new(big.Int).SetUint64(s.max)
	return u.Cmp(min) >= 0 && u.Cmp(max) <= 0
}

// Singleton returns the unique admissible value and true, if s admits
// exactly one value. This is how global/derived range constraints get
// turned into Assignments by affine.Solve (spec.md §4.1).
func (s Set) Singleton(f field.Factory) (field.Element, bool) {
	if s.mask != nil {
		var only uint64
		count := 0
		for i, e := s.mask.NextSet(0); e; i, e = s.mask.NextSet(i + 1) {
			only = uint64(i)
			count++
			if count > 1 {
				return nil, false
			}
		}
		if count == 1 {
			return f.FromUint64(only), true
		}
		return nil, false
	}
	if s.hasBounds && s.min == s.max {
		return f.FromUint64(s.min), true
	}
	return nil, false
}

// Intersect narrows s to the values admissible by both s and other,
// preserving the monotonic-shrink invariant (spec.md invariant 3).
func (s Set) Intersect(other Set) Set {
	switch {
	case s.IsUnconstrained():
		return other
	case other.IsUnconstrained():
		return s
	case s.mask != nil && other.mask != nil:
		n := s.mask.Len()
		if other.mask.Len() > n {
			n = other.mask.Len()
		}
		merged := s.mask.Clone()
		merged.InPlaceIntersection(other.mask)
		return Set{mask: merged}
	default:
		// At least one side is an interval; conservatively combine via
		// interval bounds (a mask's bounds are its min/max set bit).
		aMin, aMax, aEmpty := s.bounds()
		bMin, bMax, bEmpty := other.bounds()
		if aEmpty || bEmpty {
			return FromInterval(1, 0) // empty: min > max
		}
		min := aMin
		if bMin > min {
			min = bMin
		}
		max := aMax
		if bMax < max {
			max = bMax
		}
		return FromInterval(min, max)
	}
}

// IsEmpty reports a RangeContradiction per spec.md §7: the combined range
// constraints left no admissible value.
func (s Set) IsEmpty() bool {
	if s.mask != nil {
		return s.mask.None()
	}
	if s.hasBounds {
		return s.min > s.max
	}
	return false
}

func (s Set) bounds() (min, max uint64, empty bool) {
	if s.mask != nil {
		if s.mask.None() {
			return 0, 0, true
		}
		first, _ := s.mask.NextSet(0)
		last := first
		for i, ok := s.mask.NextSet(0); ok; i, ok = s.mask.NextSet(i + 1) {
			last = i
		}
		return uint64(first), uint64(last), false
	}
	if s.hasBounds {
		return s.min, s.max, s.min > s.max
	}
	return 0, 0, false
}

// MulByConstant scales an interval/mask range by a non-negative constant
// scalar `c`, used when combining a term `c·x` into a sum's feasible range
// (spec.md §4.1: "combine cᵢ with xᵢ's bitmask to tighten the feasible set
// of the sum"). Negative/field-wraparound scalars are not tracked precisely
// here; the result degrades to Unconstrained, which is always sound (a
// looser range never causes an incorrect Assignment, only a missed
// narrowing opportunity).
func (s Set) MulByConstant(c uint64, f field.Factory) Set {
	if s.IsUnconstrained() || c == 0 {
		if c == 0 {
			return FromInterval(0, 0)
		}
		return s
	}
	min, max, empty := s.bounds()
	if empty {
		return FromInterval(1, 0)
	}
	// Guard against overflow turning a narrow range into nonsense; above a
	// modest product size we give up precision rather than risk a wrong
	// (too-tight) bound.
	if max > 0 && c > (1<<62)/max {
		return Unconstrained(f)
	}
	return FromInterval(min*c, max*c)
}

// Equal reports whether s and other admit exactly the same values, used to
// tell a genuine narrowing apart from a no-op re-application of the same
// constraint (spec.md invariant 3 tracks shrinkage, not mere reapplication).
func (s Set) Equal(other Set) bool {
	if s.IsUnconstrained() || other.IsUnconstrained() {
		return s.IsUnconstrained() == other.IsUnconstrained()
	}
	if s.mask != nil && other.mask != nil {
		return s.mask.Equal(other.mask)
	}
	if s.mask == nil && other.mask == nil {
		return s.min == other.min && s.max == other.max
	}
	aMin, aMax, aEmpty := s.bounds()
	bMin, bMax, bEmpty := other.bounds()
	return aEmpty == bEmpty && aMin == bMin && aMax == bMax
}

// Add computes the feasible range of a sum of two independently-ranged
// terms, used while folding an affine expression's terms together.
func (s Set) Add(other Set) Set {
	if s.IsUnconstrained() || other.IsUnconstrained() {
		return Set{}
	}
	aMin, aMax, aEmpty := s.bounds()
	bMin, bMax, bEmpty := other.bounds()
	if aEmpty || bEmpty {
		return FromInterval(1, 0)
	}
	return FromInterval(aMin+bMin, aMax+bMax)
}
