package abe4

import "strings"

// Expr is a node in a policy's Boolean formula tree. Concrete types are
// *And, *Or and *Lit; there is no explicit Not node — negation lives on the
// leaf itself, so De Morgan duals are folded in at parse time.
type Expr interface {
	isExpr()
}

// And requires both children to be satisfied.
type And struct {
	Left, Right Expr
}

// Or requires at least one child to be satisfied.
type Or struct {
	Left, Right Expr
}

// Lit is a leaf literal: the named attribute, optionally negated.
type Lit struct {
	Attr string
	Neg  bool
}

func (*And) isExpr() {}
func (*Or) isExpr()  {}
func (*Lit) isExpr() {}

// Policy wraps the root of a parsed or programmatically constructed Boolean
// formula over qualified attribute names.
type Policy struct {
	Root Expr
}

// ConjunctionOf builds the policy "attrs[0] AND attrs[1] AND ... AND attrs[n-1]"
// as a left-associative And-chain, negating the first numNegs literals (in
// the order given) and leaving the rest positive. It is primarily used by
// tests and by callers who want to express "this exact attribute set" as a
// policy without going through the textual grammar. Per the design note on
// conjunction_of's first-numNegs placement (preserved, not resolved, by the
// source material), which literals land in the negated prefix is significant
// and is exactly attrs[0:numNegs].
func ConjunctionOf(attrs []UserAttribute, numNegs int) *Policy {
	if len(attrs) == 0 {
		return &Policy{Root: nil}
	}

	lits := make([]Expr, len(attrs))
	for i, a := range attrs {
		lits[i] = &Lit{Attr: a.String(), Neg: i < numNegs}
	}

	root := lits[0]
	for i := 1; i < len(lits); i++ {
		root = &And{Left: root, Right: lits[i]}
	}

	return &Policy{Root: root}
}

// Leaves returns every Lit in left-to-right order, which is the order Tau
// and Tau-tilde assign indices in.
func (p *Policy) Leaves() []*Lit {
	var out []*Lit
	var walk func(e Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *And:
			walk(n.Left)
			walk(n.Right)
		case *Or:
			walk(n.Left)
			walk(n.Right)
		case *Lit:
			out = append(out, n)
		}
	}
	if p.Root != nil {
		walk(p.Root)
	}
	return out
}

// String renders the policy back into its textual grammar, parenthesising
// every binary node so the output always reparses to the same tree.
func (p *Policy) String() string {
	if p.Root == nil {
		return ""
	}
	var b strings.Builder
	writeExpr(&b, p.Root)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *And:
		b.WriteByte('(')
		writeExpr(b, n.Left)
		b.WriteString(" & ")
		writeExpr(b, n.Right)
		b.WriteByte(')')
	case *Or:
		b.WriteByte('(')
		writeExpr(b, n.Left)
		b.WriteString(" | ")
		writeExpr(b, n.Right)
		b.WriteByte(')')
	case *Lit:
		if n.Neg {
			b.WriteByte('!')
		}
		b.WriteString(n.Attr)
	}
}
