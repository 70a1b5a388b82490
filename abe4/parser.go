package abe4

import (
	"github.com/accless/abe4/internal/abeerrors"
)

// parser is a small recursive-descent parser over the token stream produced
// by lex. Grammar, loosest to tightest binding:
//
//	or   := and ('|' and)*
//	and  := not ('&' not)*
//	not  := '!' not | prim
//	prim := lit | '(' or ')'
//	lit  := ident '.' ident ':' ident
type parser struct {
	toks []Token
	pos  int
}

// ParsePolicy lexes and parses a policy string into a Policy tree.
func ParsePolicy(input string) (*Policy, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != TokEOF {
		return nil, abeerrors.New(abeerrors.KindParse, "unexpected trailing input at token %d", p.pos)
	}
	return &Policy{Root: expr}, nil
}

func (p *parser) cur() Token {
	return p.toks[p.pos]
}

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) or() (Expr, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == TokOr {
		p.advance()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = &Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) and() (Expr, error) {
	left, err := p.not()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == TokAnd {
		p.advance()
		right, err := p.not()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) not() (Expr, error) {
	if p.cur().Kind == TokNot {
		p.advance()
		inner, err := p.not()
		if err != nil {
			return nil, err
		}
		return negate(inner), nil
	}
	return p.prim()
}

// negate pushes a negation down to the leaves (De Morgan), since the AST has
// no explicit Not node: !(!x) == x, !(a & b) == (!a | !b), !(a | b) == (!a & !b).
func negate(e Expr) Expr {
	switch n := e.(type) {
	case *Lit:
		return &Lit{Attr: n.Attr, Neg: !n.Neg}
	case *And:
		return &Or{Left: negate(n.Left), Right: negate(n.Right)}
	case *Or:
		return &And{Left: negate(n.Left), Right: negate(n.Right)}
	default:
		return e
	}
}

func (p *parser) prim() (Expr, error) {
	switch p.cur().Kind {
	case TokIdent:
		return p.lit()
	case TokLParen:
		p.advance()
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if p.cur().Kind != TokRParen {
			return nil, abeerrors.New(abeerrors.KindParse, "expected ')' at token %d", p.pos)
		}
		p.advance()
		return inner, nil
	default:
		return nil, abeerrors.New(abeerrors.KindParse, "expected identifier or '(' at token %d", p.pos)
	}
}

// lit parses a single qualified attribute literal: auth '.' label ':' attr.
func (p *parser) lit() (Expr, error) {
	auth := p.advance()
	if p.cur().Kind != TokDot {
		return nil, abeerrors.New(abeerrors.KindParse, "expected '.' at token %d", p.pos)
	}
	p.advance()
	if p.cur().Kind != TokIdent {
		return nil, abeerrors.New(abeerrors.KindParse, "expected identifier at token %d", p.pos)
	}
	label := p.advance()
	if p.cur().Kind != TokColon {
		return nil, abeerrors.New(abeerrors.KindParse, "expected ':' at token %d", p.pos)
	}
	p.advance()
	if p.cur().Kind != TokIdent {
		return nil, abeerrors.New(abeerrors.KindParse, "expected identifier at token %d", p.pos)
	}
	attr := p.advance()
	ua := UserAttribute{Auth: auth.Text, Label: label.Text, Attr: attr.Text}
	return &Lit{Attr: ua.String(), Neg: false}, nil
}
