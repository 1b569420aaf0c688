package rangeconstraint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuhtasimTanmoy/pilwit/field/goldilocks"
	"github.com/MuhtasimTanmoy/pilwit/rangeconstraint"
)

var f = goldilocks.Factory{}

func TestBooleanAllowsOnlyZeroAndOne(t *testing.T) {
	b := rangeconstraint.Boolean()
	require.True(t, b.Allows(goldilocks.New(0)))
	require.True(t, b.Allows(goldilocks.New(1)))
	require.False(t, b.Allows(goldilocks.New(2)))
}

func TestUnconstrainedAllowsEverything(t *testing.T) {
	u := rangeconstraint.Unconstrained(f)
	require.True(t, u.IsUnconstrained())
	require.True(t, u.Allows(goldilocks.New(12345)))
}

func TestFromIntervalBounds(t *testing.T) {
	r := rangeconstraint.FromInterval(10, 20)
	require.True(t, r.Allows(goldilocks.New(10)))
	require.True(t, r.Allows(goldilocks.New(20)))
	require.False(t, r.Allows(goldilocks.New(9)))
	require.False(t, r.Allows(goldilocks.New(21)))
}

func TestSingletonRange(t *testing.T) {
	r := rangeconstraint.FromInterval(7, 7)
	v, ok := r.Singleton(f)
	require.True(t, ok)
	require.Equal(t, uint64(7), v.Uint64())

	_, ok = rangeconstraint.FromInterval(7, 8).Singleton(f)
	require.False(t, ok)
}

func TestIntersectNarrows(t *testing.T) {
	a := rangeconstraint.FromMask([]uint64{0, 1, 2, 3})
	b := rangeconstraint.FromMask([]uint64{2, 3, 4, 5})
	inter := a.Intersect(b)
	require.True(t, inter.Allows(goldilocks.New(2)))
	require.True(t, inter.Allows(goldilocks.New(3)))
	require.False(t, inter.Allows(goldilocks.New(0)))
	require.False(t, inter.Allows(goldilocks.New(4)))
}

func TestIntersectEmptyIsDetected(t *testing.T) {
	a := rangeconstraint.FromInterval(0, 1)
	b := rangeconstraint.FromInterval(5, 6)
	inter := a.Intersect(b)
	require.True(t, inter.IsEmpty())
}

func TestMulByConstantScalesInterval(t *testing.T) {
	r := rangeconstraint.FromInterval(2, 4)
	scaled := r.MulByConstant(3, f)
	require.False(t, scaled.Allows(goldilocks.New(5)))
	require.True(t, scaled.Allows(goldilocks.New(6)))
	require.True(t, scaled.Allows(goldilocks.New(12)))
}

func TestMulByConstantZero(t *testing.T) {
	r := rangeconstraint.FromInterval(2, 4)
	scaled := r.MulByConstant(0, f)
	v, ok := scaled.Singleton(f)
	require.True(t, ok)
	require.True(t, v.IsZero())
}

func TestAddCombinesIntervals(t *testing.T) {
	a := rangeconstraint.FromInterval(1, 2)
	b := rangeconstraint.FromInterval(10, 20)
	sum := a.Add(b)
	require.True(t, sum.Allows(goldilocks.New(11)))
	require.True(t, sum.Allows(goldilocks.New(22)))
	require.False(t, sum.Allows(goldilocks.New(5)))
}
