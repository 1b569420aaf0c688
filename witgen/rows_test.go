package witgen_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuhtasimTanmoy/pilwit/field/goldilocks"
	"github.com/MuhtasimTanmoy/pilwit/pil"
	"github.com/MuhtasimTanmoy/pilwit/rangeconstraint"
	"github.com/MuhtasimTanmoy/pilwit/witgen"
)

var gf = goldilocks.Factory{}

func committedRef(id uint64, next bool) pil.Reference {
	return pil.Reference{Poly: pil.PolyID{ID: id, Kind: pil.Committed}, Name: "c", Next: next}
}

func TestTablePairWrapsAtLastRow(t *testing.T) {
	rf := witgen.NewRowFactory(gf, []pil.PolyID{{ID: 0, Kind: pil.Committed}}, nil)
	table := witgen.NewTable(4, rf)

	cur, next := table.Pair(3)
	require.Equal(t, reflect.ValueOf(table.At(3)).Pointer(), reflect.ValueOf(cur).Pointer())
	require.Equal(t, reflect.ValueOf(table.At(0)).Pointer(), reflect.ValueOf(next).Pointer())
}

func TestRowUpdaterApplyAssignmentThenConflict(t *testing.T) {
	rf := witgen.NewRowFactory(gf, []pil.PolyID{{ID: 0, Kind: pil.Committed}}, nil)
	table := witgen.NewTable(2, rf)
	cur, next := table.Pair(0)
	updater := witgen.NewRowUpdater(cur, next, 0)

	ref := committedRef(0, false)
	changed, err := updater.ApplyAssignment(ref, goldilocks.New(42))
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, uint64(42), cur[ref.Poly].Value.Uint64())
	require.True(t, cur[ref.Poly].Known)

	// Re-assigning the same value is fine, but reports no progress; a
	// different value conflicts.
	changed, err = updater.ApplyAssignment(ref, goldilocks.New(42))
	require.NoError(t, err)
	require.False(t, changed)
	_, err = updater.ApplyAssignment(ref, goldilocks.New(43))
	require.Error(t, err)
}

func TestRowUpdaterApplyRangeConstraintNarrows(t *testing.T) {
	rf := witgen.NewRowFactory(gf, []pil.PolyID{{ID: 0, Kind: pil.Committed}}, nil)
	table := witgen.NewTable(2, rf)
	cur, next := table.Pair(0)
	updater := witgen.NewRowUpdater(cur, next, 0)

	ref := committedRef(0, false)
	changed, err := updater.ApplyRangeConstraint(ref, rangeconstraint.Boolean())
	require.NoError(t, err)
	require.True(t, changed)
	require.False(t, cur[ref.Poly].Known)
	require.True(t, cur[ref.Poly].Range.Allows(goldilocks.New(0)))
	require.False(t, cur[ref.Poly].Range.Allows(goldilocks.New(5)))

	// Re-applying the same constraint narrows nothing further.
	changed, err = updater.ApplyRangeConstraint(ref, rangeconstraint.Boolean())
	require.NoError(t, err)
	require.False(t, changed)
}

func TestRowIsFinal(t *testing.T) {
	rf := witgen.NewRowFactory(gf, []pil.PolyID{{ID: 0, Kind: pil.Committed}}, nil)
	table := witgen.NewTable(1, rf)
	row := table.At(0)
	require.False(t, row.IsFinal())

	row[pil.PolyID{ID: 0, Kind: pil.Committed}] = witgen.Cell{Value: goldilocks.New(1), Known: true}
	require.True(t, row.IsFinal())
}
