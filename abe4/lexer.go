package abe4

import (
	"unicode"

	"github.com/accless/abe4/internal/abeerrors"
)

// TokenKind discriminates the lexical classes of the policy grammar.
type TokenKind int

const (
	TokIdent TokenKind = iota
	TokAnd
	TokOr
	TokNot
	TokLParen
	TokRParen
	TokDot
	TokColon
	TokEOF
)

// Token is a single lexical unit produced by lex.
type Token struct {
	Kind TokenKind
	Text string // only meaningful for TokIdent
}

// isIdentRune reports whether r may appear inside an identifier. Identifiers
// are exactly [A-Za-z0-9_]+; dashes are deliberately not accepted.
func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// lex tokenises a policy string. Policy text is required to be pure ASCII:
// any byte >= 0x80 is a contract violation, since qualified attribute names
// are never expected to carry non-ASCII content and silently accepting it
// would let two byte-distinct-but-visually-identical policies compare equal
// under different normalisations downstream.
func lex(input string) ([]Token, error) {
	for i := 0; i < len(input); i++ {
		if input[i] >= 0x80 {
			return nil, abeerrors.New(abeerrors.KindContractViolation, "policy text must be ASCII, found byte 0x%02x at offset %d", input[i], i)
		}
	}

	var toks []Token
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '&':
			toks = append(toks, Token{Kind: TokAnd})
			i++
		case r == '|':
			toks = append(toks, Token{Kind: TokOr})
			i++
		case r == '!':
			toks = append(toks, Token{Kind: TokNot})
			i++
		case r == '(':
			toks = append(toks, Token{Kind: TokLParen})
			i++
		case r == ')':
			toks = append(toks, Token{Kind: TokRParen})
			i++
		case r == '.':
			toks = append(toks, Token{Kind: TokDot})
			i++
		case r == ':':
			toks = append(toks, Token{Kind: TokColon})
			i++
		case isIdentRune(r):
			start := i
			for i < len(runes) && isIdentRune(runes[i]) {
				i++
			}
			toks = append(toks, Token{Kind: TokIdent, Text: string(runes[start:i])})
		default:
			return nil, abeerrors.New(abeerrors.KindParse, "unexpected character %q at offset %d", r, i)
		}
	}

	toks = append(toks, Token{Kind: TokEOF})
	return toks, nil
}
