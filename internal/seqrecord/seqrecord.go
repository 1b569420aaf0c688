// Package seqrecord persists a Block Processor's successful step order to a
// compact on-disk form, so a later run of the same program against the same
// fixed columns can replay it instead of re-discovering it (spec.md §10.2's
// "recorded sequence" supplement: the DefaultIterator's resolution order is
// reproducible but not free to recompute for a large program, and a fixed
// point already reached once is worth keeping).
package seqrecord

import (
	"bytes"
	"fmt"
	"io"

	"github.com/blang/semver/v4"
	"github.com/consensys/compress/lzss"
	"github.com/fxamacker/cbor/v2"
	"github.com/icza/bitio"
	"github.com/ronanh/intcomp"
)

// FormatVersion is the semver tag stamped into every Recording, so a reader
// can refuse a file produced by an incompatible encoder rather than
// misinterpret its bit layout.
const FormatVersion = "1.0.0"

// Action mirrors witgen.Action's three step kinds. It is redeclared here
// rather than imported so this package stays free of a witgen dependency —
// callers convert at the boundary (see witgen.ToRecording and
// witgen.FromRecording).
type Action uint8

const (
	ActionInternalIdentity Action = iota
	ActionOuterQuery
	ActionProverQueries
)

// StepRecord is one recorded (row, action) pair. IdentityIndex is only
// meaningful when Action is ActionInternalIdentity.
type StepRecord struct {
	Row           uint64
	Action        Action
	IdentityIndex uint32
}

// Recording is the decoded form of a persisted sequence: the block length it
// was recorded against (a replay against a different degree is refused) and
// the ordered steps themselves.
type Recording struct {
	BlockLength uint64
	Steps       []StepRecord
}

// envelope is the CBOR-serialized shape, holding the two intcomp-compressed
// integer columns and the bitio-packed action-tag stream separately, as
// SPEC_FULL.md §10.2 describes.
type envelope struct {
	FormatVersion string   `cbor:"v"`
	BlockLength   uint64   `cbor:"n"`
	NumSteps      uint64   `cbor:"c"`
	ActionBits    []byte   `cbor:"a"`
	RowDeltas     []uint32 `cbor:"d"`
	IdentityIdx   []uint32 `cbor:"i"`
}

// Encode packs rec into its compressed on-disk representation: a bitio
// stream of 2-bit action tags, two intcomp-compressed integer columns (the
// zigzag row-delta stream and the identity-index stream), wrapped in a CBOR
// envelope and LZSS-compressed as a whole.
func Encode(rec Recording) ([]byte, error) {
	var actionBuf bytes.Buffer
	bw := bitio.NewWriter(&actionBuf)
	rowDeltas := make([]uint32, 0, len(rec.Steps))
	identityIdx := make([]uint32, 0, len(rec.Steps))

	var prevRow uint64
	for i, step := range rec.Steps {
		if err := bw.WriteBits(uint64(step.Action), 2); err != nil {
			return nil, fmt.Errorf("seqrecord: packing action bits: %w", err)
		}
		var delta int64
		if i > 0 {
			delta = int64(step.Row) - int64(prevRow)
		} else {
			delta = int64(step.Row)
		}
		rowDeltas = append(rowDeltas, zigzagEncode(delta))
		prevRow = step.Row

		idx := uint32(0)
		if step.Action == ActionInternalIdentity {
			idx = step.IdentityIndex
		}
		identityIdx = append(identityIdx, idx)
	}
	if err := bw.Close(); err != nil {
		return nil, fmt.Errorf("seqrecord: closing action bitstream: %w", err)
	}

	env := envelope{
		FormatVersion: FormatVersion,
		BlockLength:   rec.BlockLength,
		NumSteps:      uint64(len(rec.Steps)),
		ActionBits:    actionBuf.Bytes(),
		RowDeltas:     intcomp.CompressUint32(rowDeltas, nil),
		IdentityIdx:   intcomp.CompressUint32(identityIdx, nil),
	}

	raw, err := cbor.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("seqrecord: cbor marshal: %w", err)
	}

	compressed, err := lzss.Compress(raw, lzss.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("seqrecord: lzss compress: %w", err)
	}
	return compressed, nil
}

// Decode reverses Encode, refusing a payload stamped with a FormatVersion
// this build cannot read.
func Decode(data []byte) (Recording, error) {
	raw, err := lzss.Decompress(data)
	if err != nil {
		return Recording{}, fmt.Errorf("seqrecord: lzss decompress: %w", err)
	}

	var env envelope
	if err := cbor.Unmarshal(raw, &env); err != nil {
		return Recording{}, fmt.Errorf("seqrecord: cbor unmarshal: %w", err)
	}

	have, err := semver.Parse(env.FormatVersion)
	if err != nil {
		return Recording{}, fmt.Errorf("seqrecord: malformed format version %q: %w", env.FormatVersion, err)
	}
	want, _ := semver.Parse(FormatVersion)
	if have.Major != want.Major {
		return Recording{}, fmt.Errorf("seqrecord: incompatible format version %s (this build reads %s)", have, want)
	}

	rowDeltas := intcomp.UncompressUint32(env.RowDeltas, int(env.NumSteps), nil)
	identityIdx := intcomp.UncompressUint32(env.IdentityIdx, int(env.NumSteps), nil)

	br := bitio.NewReader(bytes.NewReader(env.ActionBits))
	steps := make([]StepRecord, env.NumSteps)
	var row uint64
	for i := uint64(0); i < env.NumSteps; i++ {
		tag, err := br.ReadBits(2)
		if err != nil && err != io.EOF {
			return Recording{}, fmt.Errorf("seqrecord: reading action bits for step %d: %w", i, err)
		}
		delta := zigzagDecode(rowDeltas[i])
		if i == 0 {
			row = uint64(delta)
		} else {
			row = uint64(int64(row) + delta)
		}
		steps[i] = StepRecord{
			Row:    row,
			Action: Action(tag),
		}
		if steps[i].Action == ActionInternalIdentity {
			steps[i].IdentityIndex = identityIdx[i]
		}
	}

	return Recording{BlockLength: env.BlockLength, Steps: steps}, nil
}

func zigzagEncode(v int64) uint32 {
	return uint32((v << 1) ^ (v >> 63))
}

func zigzagDecode(v uint32) int64 {
	s := int64(v)
	return (s >> 1) ^ -(s & 1)
}
