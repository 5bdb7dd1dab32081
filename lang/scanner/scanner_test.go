package scanner_test

import (
	"testing"

	"github.com/kortho/varta/lang/scanner"
	"github.com/kortho/varta/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanBasics(t *testing.T) {
	toks, bag := scanner.Scan(`variable x : integer;`)
	require.False(t, bag.HasErrors())
	assert.Equal(t, []token.Kind{
		token.VARIABLE, token.IDENTIFIER, token.COLON, token.INTEGER, token.SEMICOLON, token.EOF,
	}, kinds(toks))
}

func TestScanNumbers(t *testing.T) {
	toks, bag := scanner.Scan(`3 3.14 42`)
	require.False(t, bag.HasErrors())
	require.Len(t, toks, 4)
	assert.Equal(t, token.NUMBER_INT, toks[0].Kind)
	assert.Equal(t, "3", toks[0].Lexeme)
	assert.Equal(t, token.NUMBER_FLOAT, toks[1].Kind)
	assert.Equal(t, "3.14", toks[1].Lexeme)
	assert.Equal(t, token.NUMBER_INT, toks[2].Kind)
}

func TestScanLineCounting(t *testing.T) {
	toks, bag := scanner.Scan("a\n/* nested /* comment */ still here */\nb")
	require.False(t, bag.HasErrors())
	require.Len(t, toks, 3)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 3, toks[1].Line)
}

func TestScanUnterminatedBlockCommentIsPermissive(t *testing.T) {
	_, bag := scanner.Scan("a /* never closed")
	assert.False(t, bag.HasErrors())
}

func TestScanStringPadding(t *testing.T) {
	toks, bag := scanner.Scan(`"hi"`)
	require.False(t, bag.HasErrors())
	require.Len(t, toks, 2)
	require.Equal(t, token.STRING, toks[0].Kind)
	assert.Len(t, toks[0].Lexeme, 65)
	assert.Equal(t, byte(0), toks[0].Lexeme[64])
	assert.Equal(t, "hi", toks[0].Lexeme[:2])
}

func TestScanIllegalCharacterIsReportedAndDropped(t *testing.T) {
	toks, bag := scanner.Scan(`3 $ 4`)
	require.True(t, bag.HasErrors())
	assert.Equal(t, []token.Kind{token.NUMBER_INT, token.NUMBER_INT, token.EOF}, kinds(toks))
}

func TestScanEndKeywordMerge(t *testing.T) {
	toks, bag := scanner.Scan(`end program`)
	require.False(t, bag.HasErrors())
	require.Len(t, toks, 2)
	assert.Equal(t, token.END_PROGRAM, toks[0].Kind)
}

func TestScanProcedureCall(t *testing.T) {
	toks, bag := scanner.Scan(`foo(1)`)
	require.False(t, bag.HasErrors())
	assert.Equal(t, []token.Kind{
		token.PROCEDURE_CALL, token.LPAREN, token.NUMBER_INT, token.RPAREN, token.EOF,
	}, kinds(toks))
}

func TestScanUnaryMinusAbsorbedAfterOperator(t *testing.T) {
	toks, bag := scanner.Scan(`a := -3; b := a - 3;`)
	require.False(t, bag.HasErrors())

	// "-3" after ":=" is a single negative literal ...
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, token.NUMBER_INT, toks[2].Kind)
	assert.Equal(t, "-3", toks[2].Lexeme)

	// ... but "a - 3" keeps '-' as a binary operator since it follows an
	// identifier, not an operator or ':='.
	var sawMinusOperator bool
	for _, tk := range toks {
		if tk.Kind == token.MINUS {
			sawMinusOperator = true
		}
	}
	assert.True(t, sawMinusOperator)
}

// TestScanIsIdempotent: re-running the scanner on the same input yields
// an identical token stream.
func TestScanIsIdempotent(t *testing.T) {
	src := `
program p is
	variable x : integer;
begin
	x := -2 + 3;
	putinteger(x);
end program`
	t1, b1 := scanner.Scan(src)
	t2, b2 := scanner.Scan(src)
	assert.Equal(t, t1, t2)
	assert.Equal(t, b1.Records(), b2.Records())
}

func TestScanKeywordsAreCaseInsensitive(t *testing.T) {
	toks, bag := scanner.Scan(`VARIABLE X : INTEGER;`)
	require.False(t, bag.HasErrors())
	assert.Equal(t, token.VARIABLE, toks[0].Kind)
	assert.Equal(t, token.IDENTIFIER, toks[1].Kind)
	assert.Equal(t, "X", toks[1].Lexeme)
}
