package abe4

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLex_Simple(t *testing.T) {
	toks, err := lex("hr.clearance:eng & !hr.clearance:intern")
	assert.NoError(t, err)

	kinds := make([]TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []TokenKind{
		TokIdent, TokDot, TokIdent, TokColon, TokIdent,
		TokAnd,
		TokNot, TokIdent, TokDot, TokIdent, TokColon, TokIdent,
		TokEOF,
	}, kinds)
	assert.Equal(t, "hr", toks[0].Text)
	assert.Equal(t, "clearance", toks[2].Text)
	assert.Equal(t, "eng", toks[4].Text)
}

func TestLex_Parens(t *testing.T) {
	toks, err := lex("(a.x:b | c.y:d) & e.z:f")
	assert.NoError(t, err)
	assert.Equal(t, TokLParen, toks[0].Kind)
	assert.Equal(t, TokIdent, toks[1].Kind)
}

func TestLex_NonASCII(t *testing.T) {
	_, err := lex("a.x:b & c.y:\xffd")
	assert.Error(t, err)
}

func TestLex_UnexpectedChar(t *testing.T) {
	_, err := lex("a.x:b ? c.y:d")
	assert.Error(t, err)
}

func TestLex_RejectsDash(t *testing.T) {
	_, err := lex("hr.clear-ance:eng")
	assert.Error(t, err)
}
