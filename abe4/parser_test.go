package abe4

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePolicy_Simple(t *testing.T) {
	p, err := ParsePolicy("a.b:c & a.b:d")
	assert.NoError(t, err)

	and, ok := p.Root.(*And)
	assert.True(t, ok)
	left, ok := and.Left.(*Lit)
	assert.True(t, ok)
	assert.Equal(t, "a.b:c", left.Attr)
	assert.False(t, left.Neg)
	right, ok := and.Right.(*Lit)
	assert.True(t, ok)
	assert.Equal(t, "a.b:d", right.Attr)
}

func TestParsePolicy_NegationPushedToLeaves(t *testing.T) {
	p, err := ParsePolicy("!(a.b:c & a.b:d)")
	assert.NoError(t, err)

	or, ok := p.Root.(*Or)
	assert.True(t, ok)
	left, ok := or.Left.(*Lit)
	assert.True(t, ok)
	assert.True(t, left.Neg)
	right, ok := or.Right.(*Lit)
	assert.True(t, ok)
	assert.True(t, right.Neg)
}

func TestParsePolicy_DoubleNegationCancels(t *testing.T) {
	p, err := ParsePolicy("!!a.b:c")
	assert.NoError(t, err)
	lit, ok := p.Root.(*Lit)
	assert.True(t, ok)
	assert.False(t, lit.Neg)
}

func TestParsePolicy_OperatorPrecedence(t *testing.T) {
	// '&' binds tighter than '|': a | b & c == a | (b & c)
	p, err := ParsePolicy("a.b:c | a.b:d & a.b:e")
	assert.NoError(t, err)

	or, ok := p.Root.(*Or)
	assert.True(t, ok)
	_, ok = or.Left.(*Lit)
	assert.True(t, ok)
	_, ok = or.Right.(*And)
	assert.True(t, ok)
}

func TestParsePolicy_TrailingGarbageIsError(t *testing.T) {
	_, err := ParsePolicy("a.b:c )")
	assert.Error(t, err)
}

func TestParsePolicy_UnclosedParenIsError(t *testing.T) {
	_, err := ParsePolicy("(a.b:c")
	assert.Error(t, err)
}

func TestParsePolicy_EmptyInputIsError(t *testing.T) {
	_, err := ParsePolicy("")
	assert.Error(t, err)
}

func TestParsePolicy_MissingColonIsError(t *testing.T) {
	_, err := ParsePolicy("a.b")
	assert.Error(t, err)
}

func TestParsePolicy_OldColonGrammarIsRejected(t *testing.T) {
	_, err := ParsePolicy("a:b:c")
	assert.Error(t, err)
}

func TestPolicy_String_Reparses(t *testing.T) {
	p, err := ParsePolicy("a.b:c & (a.b:d | !a.b:e)")
	assert.NoError(t, err)

	reparsed, err := ParsePolicy(p.String())
	assert.NoError(t, err)
	assert.Equal(t, p.String(), reparsed.String())
}
