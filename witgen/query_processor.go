package witgen

import (
	"math/big"

	"github.com/MuhtasimTanmoy/pilwit/affine"
	"github.com/MuhtasimTanmoy/pilwit/pil"
	"github.com/MuhtasimTanmoy/pilwit/witgen/queryhints"
	"github.com/MuhtasimTanmoy/pilwit/witgen/witgenerr"
)

// QueryOracle is the host-supplied capability spec.md §4.5 calls "the
// prover query oracle": given a canonical query string, it returns a value
// and whether one was available.
type QueryOracle func(query string) (value *big.Int, ok bool, err error)

// QueryDecl is a column's declared prover-query hint (spec.md §4.5: "an
// arbitrary expression that may reference previously-solved cells"), with
// an optional override routing to one of the built-in helpers in
// witgen/queryhints instead of the host oracle (spec.md §4.9).
type QueryDecl struct {
	// Expr is evaluated and canonicalized into a query string for the host
	// oracle. Ignored when Builtin is set.
	Expr *pil.Expression

	// Builtin names a registered queryhints.Hint to call directly instead
	// of going through the host oracle.
	Builtin       string
	BuiltinInputs []*pil.Expression
	// BuiltinOutputIndex/Count select which of a multi-output built-in's
	// results this column receives (binary_decompose/byte_decompose emit
	// one output per bit/byte; inverse_or_zero emits a single output).
	BuiltinOutputIndex int
	BuiltinOutputCount int
}

// QueryRegistry maps a committed PolyID to its declared query hint.
type QueryRegistry map[pil.PolyID]QueryDecl

// ProcessQuery implements spec.md §4.5: resolve polyID's registered query
// hint (if any) against rp, then either call a built-in helper directly or
// canonicalize the result into a string for the host oracle.
func ProcessQuery(fd *FixedData, rp RowPair, polyID pil.PolyID, decl QueryDecl, oracle QueryOracle) (EvalValue, error) {
	if decl.Builtin != "" {
		return processBuiltinQuery(fd, rp, polyID, decl)
	}
	if decl.Expr == nil {
		return EmptyIncomplete(), nil
	}

	aff, err := affine.Evaluate(fd.Factory, decl.Expr, rp.Lookup, fd.PublicValue)
	if err != nil {
		return handleEvalErr(err)
	}

	query := canonicalQuery(fd, polyID, aff)
	raw, ok, err := oracle(query)
	if err != nil {
		return EvalValue{}, witgenerr.New(witgenerr.QueryOracleFailure, err.Error())
	}
	if !ok {
		return EmptyIncomplete(), nil
	}
	val := fd.Factory.FromBigInt(raw)
	return EvalValue{
		Constraints: []Constraint{NewAssignment(pil.Reference{Poly: polyID}, val)},
		Complete:    true,
	}, nil
}

func processBuiltinQuery(fd *FixedData, rp RowPair, polyID pil.PolyID, decl QueryDecl) (EvalValue, error) {
	hint, ok := queryhints.Lookup(decl.Builtin)
	if !ok {
		return EvalValue{}, witgenerr.New(witgenerr.QueryOracleFailure, "unknown built-in hint "+decl.Builtin)
	}

	ins := make([]*big.Int, len(decl.BuiltinInputs))
	for i, e := range decl.BuiltinInputs {
		aff, err := affine.Evaluate(fd.Factory, e, rp.Lookup, fd.PublicValue)
		if err != nil {
			return handleEvalErr(err)
		}
		v, ok := aff.ConstantValue()
		if !ok {
			return EmptyIncomplete(), nil // not all inputs known yet
		}
		ins[i] = v.BigInt()
	}

	count := decl.BuiltinOutputCount
	if count == 0 {
		count = 1
	}
	outs := make([]*big.Int, count)
	if err := hint(fd.Factory.Modulus(), ins, outs); err != nil {
		return EvalValue{}, witgenerr.New(witgenerr.QueryOracleFailure, err.Error())
	}

	val := fd.Factory.FromBigInt(outs[decl.BuiltinOutputIndex])
	return EvalValue{
		Constraints: []Constraint{NewAssignment(pil.Reference{Poly: polyID}, val)},
		Complete:    true,
	}, nil
}

// canonicalQuery renders a partially-evaluated query expression the way
// spec.md §4.5 expects: a deterministic string identifying the target
// column and whatever is already known about its query expression, so
// identical queries made from identical row states produce identical
// strings (spec.md §8's determinism property extends to oracle dispatch).
func canonicalQuery(fd *FixedData, polyID pil.PolyID, aff affine.Expression) string {
	name := fd.ColumnName(polyID)
	if v, ok := aff.ConstantValue(); ok {
		return name + "=" + v.BigInt().String()
	}
	s := name + ":"
	for _, v := range aff.Vars() {
		s += v.String() + "*" + aff.Coeff(v).BigInt().String() + "+"
	}
	return s
}
