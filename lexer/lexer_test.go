package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	l := New("test.wisp", src)
	var toks []Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return toks
}

func TestLexerPunctuationAndOperators(t *testing.T) {
	toks := scanAll(t, "( ) { } [ ] , . .. ... : ; ? + - * / % && || & | ^ ~ << >> ! != == < <= > >= = is")
	want := []TokenType{
		TokenLParen, TokenRParen, TokenLBrace, TokenRBrace, TokenLBracket, TokenRBracket,
		TokenComma, TokenDot, TokenDotDot, TokenDotDotDot, TokenColon, TokenSemicolon, TokenQuestion,
		TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent, TokenAmpAmp, TokenPipePipe,
		TokenAmp, TokenPipe, TokenCaret, TokenTilde, TokenShl, TokenShr, TokenBang, TokenBangEq,
		TokenEqEq, TokenLt, TokenLtEq, TokenGt, TokenGtEq, TokenEq, TokenIs, TokenEOF,
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		assert.Equal(t, w, toks[i].Type, "token %d", i)
	}
}

func TestLexerNumbers(t *testing.T) {
	toks := scanAll(t, "10 3.14 1e3 1.5e-2")
	require.Len(t, toks, 5)
	for i, want := range []string{"10", "3.14", "1e3", "1.5e-2"} {
		assert.Equal(t, TokenNumber, toks[i].Type)
		assert.Equal(t, want, toks[i].Value)
	}
}

func TestLexerStringEscapes(t *testing.T) {
	toks := scanAll(t, `"a\nb\"c"`)
	require.Len(t, toks, 2)
	assert.Equal(t, TokenString, toks[0].Type)
	assert.Equal(t, "a\nb\"c", toks[0].Value)
}

func TestLexerUnterminatedString(t *testing.T) {
	l := New("test.wisp", `"unterminated`)
	_, err := l.Next()
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 1, lexErr.Line)
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll(t, "class var fun this super foo Bar_1")
	want := []TokenType{TokenClass, TokenVar, TokenFun, TokenThis, TokenSuper, TokenIdent, TokenIdent, TokenEOF}
	require.Len(t, toks, len(want))
	for i, w := range want {
		assert.Equal(t, w, toks[i].Type, "token %d", i)
	}
}

func TestLexerSkipsCommentsAndTracksLines(t *testing.T) {
	toks := scanAll(t, "1 // comment\n/* block\ncomment */ 2")
	require.Len(t, toks, 3)
	assert.Equal(t, "1", toks[0].Value)
	assert.Equal(t, 1, toks[0].Pos.Line)
	assert.Equal(t, "2", toks[1].Value)
	assert.Equal(t, 3, toks[1].Pos.Line)
}
