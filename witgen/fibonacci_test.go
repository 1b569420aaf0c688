package witgen_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuhtasimTanmoy/pilwit/field"
	"github.com/MuhtasimTanmoy/pilwit/pil"
	"github.com/MuhtasimTanmoy/pilwit/witgen"
)

// TestBlockProcessorSolvesFibonacciWithWraparound runs the degree-8
// Fibonacci program: x' = y and y' = x + y, seeded with x[0] = y[0] = 1, over
// a table whose last row's "next" reference wraps to row 0 (invariant 4).
// The two transition identities are guarded by (1 - isLast) so the wrap row
// does not re-impose the recurrence against the seed row; without the
// guard, row 7's x' = y would demand x[0] == y[7], contradicting the seed.
func TestBlockProcessorSolvesFibonacciWithWraparound(t *testing.T) {
	xID := pil.PolyID{ID: 0, Kind: pil.Committed}
	yID := pil.PolyID{ID: 1, Kind: pil.Committed}
	isLastID := pil.PolyID{ID: 2, Kind: pil.Constant}

	xRef := pil.Reference{Poly: xID, Name: "x"}
	yRef := pil.Reference{Poly: yID, Name: "y"}
	xNextRef := pil.Reference{Poly: xID, Name: "x", Next: true}
	yNextRef := pil.Reference{Poly: yID, Name: "y", Next: true}
	isLastRef := pil.Reference{Poly: isLastID, Name: "isLast"}

	guard := pil.NewBinary(pil.Sub, pil.NewNumber(big.NewInt(1)), pil.NewRef(isLastRef))
	xTransition := pil.NewBinary(pil.Mul, guard,
		pil.NewBinary(pil.Sub, pil.NewRef(xNextRef), pil.NewRef(yRef)))
	yTransition := pil.NewBinary(pil.Mul, guard,
		pil.NewBinary(pil.Sub, pil.NewRef(yNextRef),
			pil.NewBinary(pil.Add, pil.NewRef(xRef), pil.NewRef(yRef))))

	identities := []*pil.Identity{
		{Kind: pil.Polynomial, Left: pil.SelectedExpressions{Selector: xTransition}, Text: "x' = y"},
		{Kind: pil.Polynomial, Left: pil.SelectedExpressions{Selector: yTransition}, Text: "y' = x + y"},
	}

	const degree = 8
	isLastVec := make(field.Vector, degree)
	for i := range isLastVec {
		isLastVec[i] = gf.FromUint64(0)
	}
	isLastVec[degree-1] = gf.FromUint64(1)

	fd := witgen.NewFixedData(nil, gf, degree, map[pil.PolyID]field.Vector{isLastID: isLastVec}, nil, nil)
	columns := map[pil.PolyID]bool{xID: true, yID: true}
	rf := witgen.NewRowFactory(gf, []pil.PolyID{xID, yID}, nil)
	table := witgen.NewTable(degree, rf)

	seed := table.At(0)
	seed[xID] = witgen.Cell{Value: gf.FromUint64(1), Known: true}
	seed[yID] = witgen.Cell{Value: gf.FromUint64(1), Known: true}

	dispatch := witgen.NewDispatch(nil)
	bp := witgen.NewBlockProcessor("fibonacci", fd, dispatch, identities, columns, table, 0, nil)
	strategy := witgen.NewDefaultIterator(degree, len(identities), false)

	_, err := bp.Solve(strategy, nil, nil)
	require.NoError(t, err)

	witness, err := table.Witness([]pil.Column{{Poly: xID, Name: "x"}, {Poly: yID, Name: "y"}})
	require.NoError(t, err)
	require.Equal(t, uint64(21), witness["x"][7].Uint64())
	require.Equal(t, uint64(34), witness["y"][7].Uint64())
}
