package witgen_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuhtasimTanmoy/pilwit/pil"
	"github.com/MuhtasimTanmoy/pilwit/witgen"
	"github.com/MuhtasimTanmoy/pilwit/witgen/witgenerr"
)

func polyRef(id uint64) pil.Reference {
	return pil.Reference{Poly: pil.PolyID{ID: id, Kind: pil.Committed}, Name: "c"}
}

func newFixedData(degree uint64) *witgen.FixedData {
	return witgen.NewFixedData(nil, gf, degree, nil, nil, nil)
}

func freshPair(fd *witgen.FixedData, nCols int) (witgen.RowPair, witgen.RowUpdater) {
	ids := make([]pil.PolyID, nCols)
	for i := range ids {
		ids[i] = pil.PolyID{ID: uint64(i), Kind: pil.Committed}
	}
	rf := witgen.NewRowFactory(gf, ids, nil)
	table := witgen.NewTable(fd.Degree, rf)
	cur, next := table.Pair(0)
	rp := witgen.NewRowPair(cur, next, 0, fd, false)
	return rp, witgen.NewRowUpdater(cur, next, 0)
}

// TestProcessPolynomialSolvesUnknownColumn exercises the single-unknown case:
// c0 - 5 == 0 should be solved directly into an Assignment.
func TestProcessPolynomialSolvesUnknownColumn(t *testing.T) {
	fd := newFixedData(1)
	rp, _ := freshPair(fd, 1)

	diff := pil.NewBinary(pil.Sub, pil.NewRef(polyRef(0)), pil.NewNumber(big.NewInt(5)))
	id := &pil.Identity{Kind: pil.Polynomial, Left: pil.SelectedExpressions{Selector: diff}, Text: "c0 = 5"}

	ev, err := witgen.ProcessIdentity(fd, witgen.NewDispatch(nil), id, rp)
	require.NoError(t, err)
	require.True(t, ev.Complete)
	require.Len(t, ev.Constraints, 1)
	require.Equal(t, witgen.AssignmentConstraint, ev.Constraints[0].Kind)
	require.Equal(t, uint64(5), ev.Constraints[0].Value.Uint64())
}

// TestProcessPolynomialViolatedIsFatal checks that a known, contradictory
// assignment surfaces ConstraintUnsatisfiable rather than silently passing.
func TestProcessPolynomialViolatedIsFatal(t *testing.T) {
	fd := newFixedData(1)
	rp, updater := freshPair(fd, 1)
	_, err := updater.ApplyAssignment(polyRef(0), gf.FromUint64(7))
	require.NoError(t, err)

	diff := pil.NewBinary(pil.Sub, pil.NewRef(polyRef(0)), pil.NewNumber(big.NewInt(5)))
	id := &pil.Identity{Kind: pil.Polynomial, Left: pil.SelectedExpressions{Selector: diff}, Text: "c0 = 5"}

	_, err = witgen.ProcessIdentity(fd, witgen.NewDispatch(nil), id, rp)
	require.Error(t, err)
	var werr *witgenerr.Error
	require.True(t, errors.As(err, &werr))
	require.Equal(t, witgenerr.ConstraintUnsatisfiable, werr.Kind)
}

// TestProcessConnectMismatchedArityIsFatal checks the explicit arity guard.
func TestProcessConnectMismatchedArityIsFatal(t *testing.T) {
	fd := newFixedData(1)
	rp, _ := freshPair(fd, 2)

	id := &pil.Identity{
		Kind: pil.Connect,
		Left: pil.SelectedExpressions{Expressions: []*pil.Expression{pil.NewRef(polyRef(0))}},
		Right: pil.SelectedExpressions{Expressions: []*pil.Expression{
			pil.NewRef(polyRef(1)), pil.NewRef(polyRef(0)),
		}},
		Text: "connect",
	}

	_, err := witgen.ProcessIdentity(fd, witgen.NewDispatch(nil), id, rp)
	require.Error(t, err)
	var werr *witgenerr.Error
	require.True(t, errors.As(err, &werr))
	require.Equal(t, witgenerr.ConstraintUnsatisfiable, werr.Kind)
}

// TestProcessConnectPairwiseEquality checks that a matching arity connect
// identity solves each pairwise equation independently.
func TestProcessConnectPairwiseEquality(t *testing.T) {
	fd := newFixedData(1)
	rp, updater := freshPair(fd, 2)
	_, err := updater.ApplyAssignment(polyRef(1), gf.FromUint64(9))
	require.NoError(t, err)

	id := &pil.Identity{
		Kind: pil.Connect,
		Left: pil.SelectedExpressions{Expressions: []*pil.Expression{pil.NewRef(polyRef(0))}},
		Right: pil.SelectedExpressions{Expressions: []*pil.Expression{pil.NewRef(polyRef(1))}},
		Text: "connect",
	}

	ev, err := witgen.ProcessIdentity(fd, witgen.NewDispatch(nil), id, rp)
	require.NoError(t, err)
	require.True(t, ev.Complete)
	require.Len(t, ev.Constraints, 1)
	require.Equal(t, uint64(9), ev.Constraints[0].Value.Uint64())
}
