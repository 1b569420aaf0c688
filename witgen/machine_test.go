package witgen_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuhtasimTanmoy/pilwit/pil"
	"github.com/MuhtasimTanmoy/pilwit/witgen"
)

// TestDispatchRoutesPlookupToSubMachine exercises the Machine Dispatch
// component end to end: a caller machine's Plookup identity references a
// column owned by a second, independent BlockMachine, so Dispatch.route
// must pick it out and BlockMachine.ProcessOuterQuery must solve the
// callee's own identities and hand the resulting value back as an outer
// assignment on the caller's column.
func TestDispatchRoutesPlookupToSubMachine(t *testing.T) {
	aID := pil.PolyID{ID: 0, Kind: pil.Committed}
	bID := pil.PolyID{ID: 1, Kind: pil.Committed}
	aRef := pil.Reference{Poly: aID, Name: "a"}
	bRef := pil.Reference{Poly: bID, Name: "b"}

	// Callee: a single identity pins its own column to 42 on every row.
	calleeIdentities := []*pil.Identity{
		{
			Kind: pil.Polynomial,
			Left: pil.SelectedExpressions{Selector: pil.NewBinary(pil.Sub,
				pil.NewRef(bRef), pil.NewNumber(big.NewInt(42)))},
			Text: "b = 42",
		},
	}
	calleeColumns := map[pil.PolyID]bool{bID: true}
	calleeFixed := witgen.NewFixedData(nil, gf, 1, nil, nil, nil)
	calleeRF := witgen.NewRowFactory(gf, []pil.PolyID{bID}, nil)
	calleeMachine := witgen.NewBlockMachine("callee", calleeFixed, witgen.NewDispatch(nil),
		calleeIdentities, calleeColumns, calleeRF, 1, nil, nil)

	// Caller: a Plookup whose right-hand side is the callee's column b,
	// with no fixed-lookup fallback — only calleeMachine can satisfy it.
	callerIdentities := []*pil.Identity{
		{
			Kind: pil.Plookup,
			Left: pil.SelectedExpressions{
				Selector:    pil.NewNumber(big.NewInt(1)),
				Expressions: []*pil.Expression{pil.NewRef(aRef)},
			},
			Right: pil.SelectedExpressions{
				Expressions: []*pil.Expression{pil.NewRef(bRef)},
			},
			Text: "a in b",
		},
	}
	callerColumns := map[pil.PolyID]bool{aID: true}
	callerFixed := witgen.NewFixedData(nil, gf, 1, nil, nil, nil)
	callerRF := witgen.NewRowFactory(gf, []pil.PolyID{aID}, nil)
	callerDispatch := witgen.NewDispatch(nil, calleeMachine)
	callerMachine := witgen.NewBlockMachine("caller", callerFixed, callerDispatch,
		callerIdentities, callerColumns, callerRF, 1, nil, nil)

	table, err := callerMachine.Solve()
	require.NoError(t, err)

	witness, err := table.Witness([]pil.Column{{Poly: aID, Name: "a"}})
	require.NoError(t, err)
	require.Equal(t, uint64(42), witness["a"][0].Uint64())
}

// TestDispatchTargetNameFallsBackToFixedLookup checks that a Plookup whose
// right-hand side matches no registered machine's columns routes to
// FixedLookup instead (spec.md §4.6's fallback rule).
func TestDispatchTargetNameFallsBackToFixedLookup(t *testing.T) {
	bID := pil.PolyID{ID: 1, Kind: pil.Committed}
	cID := pil.PolyID{ID: 2, Kind: pil.Constant}

	calleeColumns := map[pil.PolyID]bool{bID: true}
	calleeFixed := witgen.NewFixedData(nil, gf, 1, nil, nil, nil)
	calleeRF := witgen.NewRowFactory(gf, []pil.PolyID{bID}, nil)
	calleeMachine := witgen.NewBlockMachine("callee", calleeFixed, witgen.NewDispatch(nil),
		nil, calleeColumns, calleeRF, 1, nil, nil)

	dispatch := witgen.NewDispatch(witgen.NewFixedLookup(witgen.NewFixedData(nil, gf, 1, nil, nil, nil)), calleeMachine)

	right := &pil.SelectedExpressions{Expressions: []*pil.Expression{
		pil.NewRef(pil.Reference{Poly: cID, Name: "c"}),
	}}
	require.Equal(t, "fixed_lookup", dispatch.TargetName(right))
}
