package seqrecord_test

import (
	"testing"

	"github.com/consensys/compress/lzss"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/MuhtasimTanmoy/pilwit/internal/seqrecord"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rec := seqrecord.Recording{
		BlockLength: 8,
		Steps: []seqrecord.StepRecord{
			{Row: 0, Action: seqrecord.ActionInternalIdentity, IdentityIndex: 3},
			{Row: 0, Action: seqrecord.ActionProverQueries},
			{Row: 1, Action: seqrecord.ActionInternalIdentity, IdentityIndex: 0},
			{Row: 7, Action: seqrecord.ActionOuterQuery},
			{Row: 0, Action: seqrecord.ActionInternalIdentity, IdentityIndex: 5},
		},
	}

	encoded, err := seqrecord.Encode(rec)
	require.NoError(t, err)

	decoded, err := seqrecord.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, rec.BlockLength, decoded.BlockLength)
	require.Equal(t, rec.Steps, decoded.Steps)
}

func TestEncodeEmptyRecording(t *testing.T) {
	rec := seqrecord.Recording{BlockLength: 4}
	encoded, err := seqrecord.Encode(rec)
	require.NoError(t, err)

	decoded, err := seqrecord.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, uint64(4), decoded.BlockLength)
	require.Empty(t, decoded.Steps)
}

// rawEnvelope mirrors seqrecord's private envelope shape closely enough to
// fabricate a payload stamped with an incompatible format version.
type rawEnvelope struct {
	FormatVersion string   `cbor:"v"`
	BlockLength   uint64   `cbor:"n"`
	NumSteps      uint64   `cbor:"c"`
	ActionBits    []byte   `cbor:"a"`
	RowDeltas     []uint32 `cbor:"d"`
	IdentityIdx   []uint32 `cbor:"i"`
}

func TestDecodeRejectsIncompatibleMajorVersion(t *testing.T) {
	env := rawEnvelope{FormatVersion: "2.0.0", BlockLength: 1}
	raw, err := cbor.Marshal(env)
	require.NoError(t, err)
	compressed, err := lzss.Compress(raw, lzss.BestCompression)
	require.NoError(t, err)

	_, err = seqrecord.Decode(compressed)
	require.Error(t, err)
}
