package witgen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuhtasimTanmoy/pilwit/witgen"
)

func TestDefaultIteratorTerminatesOnDryPass(t *testing.T) {
	it := witgen.NewDefaultIterator(1, 1, false)

	var steps []witgen.SequenceStep
	for {
		step, ok := it.Next()
		if !ok {
			break
		}
		steps = append(steps, step)
		it.ReportProgress(false)
	}

	// One identity step plus one prover-query step per row, then the
	// iterator detects a dry pass and stops without a second sweep.
	require.Len(t, steps, 2)
	require.Equal(t, witgen.ActionInternalIdentity, steps[0].Action)
	require.Equal(t, witgen.ActionProverQueries, steps[1].Action)

	_, ok := it.Next()
	require.False(t, ok)
}

func TestDefaultIteratorSweepsAgainAfterProgress(t *testing.T) {
	it := witgen.NewDefaultIterator(1, 1, false)

	first, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, witgen.ActionInternalIdentity, first.Action)
	it.ReportProgress(true) // progress on the first identity step

	var rest []witgen.SequenceStep
	for {
		step, ok := it.Next()
		if !ok {
			break
		}
		rest = append(rest, step)
		it.ReportProgress(false)
	}

	// The query step from pass one, then a full dry second pass
	// (identity + query) before termination.
	require.Len(t, rest, 3)
}

func TestDefaultIteratorIncludesOuterQueryWhenEnabled(t *testing.T) {
	it := witgen.NewDefaultIterator(1, 0, true)

	var actions []witgen.Action
	for {
		step, ok := it.Next()
		if !ok {
			break
		}
		actions = append(actions, step.Action)
		it.ReportProgress(false)
	}

	require.Equal(t, []witgen.Action{witgen.ActionOuterQuery, witgen.ActionProverQueries}, actions)
}

func TestRecordingIteratorCapturesOnlyProgressSteps(t *testing.T) {
	inner := witgen.NewDefaultIterator(1, 1, false)
	rec := witgen.NewRecordingIterator(inner)

	step, ok := rec.Next()
	require.True(t, ok)
	require.Equal(t, witgen.ActionInternalIdentity, step.Action)
	rec.ReportProgress(true)

	for {
		step, ok := rec.Next()
		if !ok {
			break
		}
		rec.ReportProgress(false)
		_ = step
	}

	require.Len(t, rec.Recorded, 1)
	require.Equal(t, witgen.ActionInternalIdentity, rec.Recorded[0].Action)
}

func TestReplayIteratorFallsThroughAfterExhaustingRecording(t *testing.T) {
	recorded := []witgen.SequenceStep{
		{Row: 0, Action: witgen.ActionInternalIdentity, IdentityIndex: 0},
	}
	fallback := witgen.NewDefaultIterator(1, 1, false)
	replay := witgen.NewReplayIterator(recorded, fallback)

	step, ok := replay.Next()
	require.True(t, ok)
	require.Equal(t, witgen.ActionInternalIdentity, step.Action)
	replay.ReportProgress(true)

	// Recording exhausted: control passes to fallback, which sweeps from
	// its own initial state (row 0, identity 0 again, then the query step).
	step, ok = replay.Next()
	require.True(t, ok)
	require.Equal(t, witgen.ActionInternalIdentity, step.Action)
	replay.ReportProgress(false)

	step, ok = replay.Next()
	require.True(t, ok)
	require.Equal(t, witgen.ActionProverQueries, step.Action)
}
