package witgen

import "github.com/MuhtasimTanmoy/pilwit/internal/seqrecord"

// ToRecording converts a recorded step order into internal/seqrecord's
// on-disk shape (spec.md §10.2), for the host to persist between runs.
func ToRecording(degree uint64, steps []SequenceStep) seqrecord.Recording {
	out := make([]seqrecord.StepRecord, len(steps))
	for i, s := range steps {
		out[i] = seqrecord.StepRecord{
			Row:           s.Row,
			Action:        seqrecord.Action(s.Action),
			IdentityIndex: uint32(s.IdentityIndex),
		}
	}
	return seqrecord.Recording{BlockLength: degree, Steps: out}
}

// FromRecording reverses ToRecording, for feeding a persisted sequence back
// into a ReplayIterator. It refuses a recording taken against a different
// block length: a replay against the wrong degree would silently replay the
// wrong rows rather than fail loudly.
func FromRecording(rec seqrecord.Recording, degree uint64) ([]SequenceStep, bool) {
	if rec.BlockLength != degree {
		return nil, false
	}
	out := make([]SequenceStep, len(rec.Steps))
	for i, s := range rec.Steps {
		out[i] = SequenceStep{
			Row:           s.Row,
			Action:        Action(s.Action),
			IdentityIndex: int(s.IdentityIndex),
		}
	}
	return out, true
}
