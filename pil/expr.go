package pil

import "math/big"

// BinOp enumerates the binary operators spec.md §3 lists for algebraic
// expressions.
type BinOp uint8

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Mod
	Pow
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	LogicalAnd
	LogicalOr
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
)

// UnOp enumerates the unary operators spec.md §3 lists.
type UnOp uint8

const (
	Neg UnOp = iota
	Not
	NextRow
)

// Expression is a node in the algebraic-expression AST. Exactly one of the
// typed fields is meaningful per Tag, mirroring the tagged-variant-tree
// modeling that spec.md §9's Design Notes call for ("model as a tagged
// variant tree", avoiding deep inheritance).
type Expression struct {
	Tag Tag

	Ref     Reference   // Tag == RefExpr
	Num     *big.Int    // Tag == NumberExpr (reduced mod p lazily, at evaluation time)
	Public  string       // Tag == PublicExpr
	BinOp   BinOp        // Tag == BinaryExpr
	Lhs, Rhs *Expression // Tag == BinaryExpr
	UnOp    UnOp         // Tag == UnaryExpr
	Operand *Expression  // Tag == UnaryExpr
}

// Tag discriminates the Expression variant, standing in for the Rust AST's
// enum discriminant.
type Tag uint8

const (
	RefExpr Tag = iota
	NumberExpr
	PublicExpr
	BinaryExpr
	UnaryExpr
)

// NewRef builds a reference-expression node.
func NewRef(r Reference) *Expression { return &Expression{Tag: RefExpr, Ref: r} }

// NewNumber builds a literal-expression node from an arbitrary-precision
// integer (spec.md's Design Notes: "Big-integer arithmetic ... for number
// literals exceeding 64 bits before reduction mod p").
func NewNumber(v *big.Int) *Expression { return &Expression{Tag: NumberExpr, Num: v} }

// NewPublic builds a reference to a named public input.
func NewPublic(name string) *Expression { return &Expression{Tag: PublicExpr, Public: name} }

// NewBinary builds a binary-operator node.
func NewBinary(op BinOp, lhs, rhs *Expression) *Expression {
	return &Expression{Tag: BinaryExpr, BinOp: op, Lhs: lhs, Rhs: rhs}
}

// NewUnary builds a unary-operator node.
func NewUnary(op UnOp, operand *Expression) *Expression {
	return &Expression{Tag: UnaryExpr, UnOp: op, Operand: operand}
}

// SelectedExpressions is an optional selector guarding a list of
// expressions, used on both sides of Plookup/Permutation identities
// (spec.md §3).
type SelectedExpressions struct {
	Selector    *Expression // nil means "always selected"
	Expressions []*Expression
}
