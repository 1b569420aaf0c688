package pil

// Visitor implements the four traversal hooks spec.md §9's Design Notes
// call for: "a single generic visitor capability {pre, post, mut-pre,
// mut-post}". A zero-value Visitor is a no-op walk; set only the hooks a
// given traversal needs.
//
// Pre/Post see the tree read-only. MutPre/MutPost may replace a node in
// place by returning a non-nil *Expression (returning nil leaves the node
// unchanged) — this is how, for example, an intermediate-inlining pass
// would rewrite References to Intermediate polynomials into their
// definitions before the witness generation core ever sees them (spec.md
// §6: "intermediate inlining is required before consumption").
type Visitor struct {
	Pre      func(*Expression)
	Post     func(*Expression)
	MutPre   func(*Expression) *Expression
	MutPost  func(*Expression) *Expression
}

// Walk traverses e depth-first, invoking v's hooks. It does not mutate e;
// MutPre/MutPost results are applied to a private copy of the subtree so
// callers that only want Pre/Post semantics can share a Visitor with
// rewriting callers.
func (v Visitor) Walk(e *Expression) *Expression {
	if e == nil {
		return nil
	}
	cur := e
	if v.MutPre != nil {
		if replaced := v.MutPre(cur); replaced != nil {
			cur = replaced
		}
	}
	if v.Pre != nil {
		v.Pre(cur)
	}

	switch cur.Tag {
	case BinaryExpr:
		lhs := v.Walk(cur.Lhs)
		rhs := v.Walk(cur.Rhs)
		if lhs != cur.Lhs || rhs != cur.Rhs {
			next := *cur
			next.Lhs, next.Rhs = lhs, rhs
			cur = &next
		}
	case UnaryExpr:
		// spec.md §9 Open Question (a): the original Rust source has a
		// todo!() for the children of an enum-declaration function
		// definition; we have no such node here (enum declarations don't
		// appear in the analyzed algebraic-expression tree), so the
		// unresolved case doesn't arise. Every other Unary node (Neg, Not,
		// NextRow) has exactly one child, handled uniformly below.
		operand := v.Walk(cur.Operand)
		if operand != cur.Operand {
			next := *cur
			next.Operand = operand
			cur = &next
		}
	case RefExpr, NumberExpr, PublicExpr:
		// Leaves: no children.
	}

	if v.Post != nil {
		v.Post(cur)
	}
	if v.MutPost != nil {
		if replaced := v.MutPost(cur); replaced != nil {
			cur = replaced
		}
	}
	return cur
}

// ReferencedPolys returns the set of PolyIDs e's subtree reads, deduplicated.
// Used by the partitioner-adjacent code (machine dispatch).
func ReferencedPolys(e *Expression) []PolyID {
	seen := map[PolyID]bool{}
	var order []PolyID
	Visitor{Pre: func(n *Expression) {
		if n.Tag == RefExpr {
			if !seen[n.Ref.Poly] {
				seen[n.Ref.Poly] = true
				order = append(order, n.Ref.Poly)
			}
		}
	}}.Walk(e)
	return order
}

// ContainsNextRef reports whether e (or any SelectedExpressions built from
// it) references a column at the next row.
func ContainsNextRef(e *Expression) bool {
	found := false
	Visitor{Pre: func(n *Expression) {
		if n.Tag == RefExpr && n.Ref.Next {
			found = true
		}
	}}.Walk(e)
	return found
}
