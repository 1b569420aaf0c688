package witgen

import (
	"math/big"

	"github.com/MuhtasimTanmoy/pilwit/field"
	"github.com/MuhtasimTanmoy/pilwit/field/bn254"
	"github.com/MuhtasimTanmoy/pilwit/field/goldilocks"
	"github.com/MuhtasimTanmoy/pilwit/internal/profiling"
	"github.com/MuhtasimTanmoy/pilwit/internal/wlog"
	"github.com/MuhtasimTanmoy/pilwit/pil"
)

// Config gathers the run-time options spec.md §6 lists as the core's
// external configuration surface.
type Config struct {
	// FieldKind selects the concrete field backend (spec.md §4.8).
	FieldKind field.Kind

	// Verbose toggles trace-level logging through internal/wlog.
	Verbose bool

	// ExternalWitness pre-seeds known committed-column values (e.g. a
	// partial witness produced by a previous pipeline stage) before
	// solving begins.
	ExternalWitness map[string]field.Vector

	// Publics supplies externally-known public input values by name.
	Publics map[string]*big.Int

	// Queries declares prover-query hints by column name.
	Queries map[string]QueryDecl

	// Oracle is the host-supplied prover query oracle (spec.md §4.5); may
	// be nil if the program makes no prover queries.
	Oracle QueryOracle

	// RecordSequence, when non-nil, receives the successful step order of
	// the top-level machine's solve, for later replay (spec.md §10.2).
	RecordSequence *[]SequenceStep

	// ReplaySequence, when non-empty, is tried before the default sweep
	// strategy for the top-level machine's solve (spec.md §10.2).
	ReplaySequence []SequenceStep

	// Profile, when true, times every identity evaluation and attaches the
	// result to Profiler for the caller to render or write out (spec.md
	// §10.5).
	Profile bool

	// Profiler receives per-identity timing samples when Profile is true.
	// The caller constructs it (profiling.NewRecorder()) and reads it back
	// after Generate returns.
	Profiler *profiling.Recorder
}

// Generate is the top-level entrypoint (spec.md §6): given an analyzed
// program, its fixed-column values, and a Config, it produces the
// committed-column witness.
func Generate(program *pil.Analyzed, fixedCols map[string]field.Vector, cfg Config) (map[string]field.Vector, error) {
	wlog.SetVerbose(cfg.Verbose)
	log := wlog.Logger()

	factory := fieldFactory(cfg.FieldKind)

	fixedByPoly := make(map[pil.PolyID]field.Vector, len(program.Constant))
	for _, col := range program.Constant {
		if vec, ok := fixedCols[col.Name]; ok {
			fixedByPoly[col.Poly] = vec
		}
	}

	publics := map[string]field.Element{}
	for name, v := range cfg.Publics {
		publics[name] = factory.FromBigInt(v)
	}

	globalRanges := DeriveGlobalConstraints(program)
	fd := NewFixedData(program, factory, program.Degree, fixedByPoly, globalRanges, publics)

	committed := program.CommittedPolyIDs()
	columns := make(map[pil.PolyID]bool, len(committed))
	for _, id := range committed {
		columns[id] = true
	}
	rowFactory := NewRowFactory(factory, committed, globalRanges)
	table := NewTable(program.Degree, rowFactory)

	if err := seedExternalWitness(table, program, cfg.ExternalWitness); err != nil {
		return nil, err
	}

	queries := make(QueryRegistry, len(cfg.Queries))
	byName := map[string]pil.PolyID{}
	for _, c := range program.Committed {
		byName[c.Name] = c.Poly
	}
	for name, decl := range cfg.Queries {
		if id, ok := byName[name]; ok {
			queries[id] = decl
		}
	}

	fixedLookup := NewFixedLookup(fd)
	dispatch := NewDispatch(fixedLookup) // single top-level machine: no sub-machines to partition into yet

	bp := NewBlockProcessor("main", fd, dispatch, program.Identities, columns, table, 0, nil)
	if cfg.Profile {
		if cfg.Profiler == nil {
			cfg.Profiler = profiling.NewRecorder()
		}
		bp.profiler = cfg.Profiler
	}

	var strategy Strategy
	base := NewDefaultIterator(program.Degree, len(program.Identities), false)
	if len(cfg.ReplaySequence) > 0 {
		strategy = NewReplayIterator(cfg.ReplaySequence, base)
	} else {
		strategy = base
	}
	var recorder *RecordingIterator
	if cfg.RecordSequence != nil {
		recorder = NewRecordingIterator(strategy)
		strategy = recorder
	}

	log.Debug().Uint64("degree", program.Degree).Int("identities", len(program.Identities)).Msg("starting witness generation")

	if _, err := bp.Solve(strategy, cfg.Oracle, queries); err != nil {
		return nil, err
	}
	if recorder != nil {
		*cfg.RecordSequence = recorder.Recorded
	}

	return table.Witness(program.Committed)
}

func fieldFactory(kind field.Kind) field.Factory {
	switch kind {
	case field.BN254:
		return bn254.Factory{}
	default:
		return goldilocks.Factory{}
	}
}

// seedExternalWitness writes pre-known committed-column values into table
// before solving, per spec.md §6's "partial witness pre-seeding" input.
func seedExternalWitness(table *Table, program *pil.Analyzed, external map[string]field.Vector) error {
	if len(external) == 0 {
		return nil
	}
	byName := map[string]pil.PolyID{}
	for _, c := range program.Committed {
		byName[c.Name] = c.Poly
	}
	for name, vec := range external {
		id, ok := byName[name]
		if !ok {
			continue
		}
		for i, v := range vec {
			if uint64(i) >= table.Degree {
				break
			}
			row := table.At(uint64(i))
			row[id] = Cell{Value: v, Known: true}
		}
	}
	return nil
}
