package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, src string) []Token {
	t.Helper()
	l := New(string(Normalize([]byte(src))), "test.rk")
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	return toks
}

func types(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestSimpleAssignment(t *testing.T) {
	toks := collect(t, "main = 0\n")
	require.GreaterOrEqual(t, len(toks), 4)
	assert.Equal(t, IDENT, toks[0].Type)
	assert.Equal(t, "main", toks[0].Literal)
	assert.Equal(t, ASSIGN, toks[1].Type)
	assert.Equal(t, INT, toks[2].Type)
	assert.Equal(t, "0", toks[2].Literal)
}

func TestOperatorsAndKeywords(t *testing.T) {
	toks := collect(t, "if true then 1 else 2\n")
	assert.Equal(t, []TokenType{IF, TRUE, THEN, INT, ELSE, INT, NEWLINE, EOF}, types(toks))
}

func TestFloatVsInt(t *testing.T) {
	toks := collect(t, "1 1.5\n")
	assert.Equal(t, INT, toks[0].Type)
	assert.Equal(t, FLOAT, toks[1].Type)
	assert.Equal(t, "1.5", toks[1].Literal)
}

func TestIndentationProducesIndentAndDedent(t *testing.T) {
	src := "add a b =\n  a + b\nmain = 0\n"
	toks := collect(t, src)

	var seen []TokenType
	for _, tok := range toks {
		if tok.Type == INDENT || tok.Type == DEDENT {
			seen = append(seen, tok.Type)
		}
	}
	assert.Equal(t, []TokenType{INDENT, DEDENT}, seen)
}

func TestCommentIsSkipped(t *testing.T) {
	toks := collect(t, "-- a comment\nmain = 0\n")
	assert.Equal(t, IDENT, toks[0].Type)
	assert.Equal(t, "main", toks[0].Literal)
}

func TestStringAndCharEscapes(t *testing.T) {
	toks := collect(t, "\"a\\nb\" 'x'\n")
	assert.Equal(t, STRING, toks[0].Type)
	assert.Equal(t, "a\nb", toks[0].Literal)
	assert.Equal(t, CHAR, toks[1].Type)
	assert.Equal(t, "x", toks[1].Literal)
}

func TestDoubleColonForPaths(t *testing.T) {
	toks := collect(t, "use lib::sub\n")
	assert.Equal(t, []TokenType{USE, IDENT, DCOLON, IDENT, NEWLINE, EOF}, types(toks))
}
