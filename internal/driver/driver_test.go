package driver_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/kortho/varta/internal/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSrc(t *testing.T, src string) (string, string, error) {
	t.Helper()
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "prog.vt")
	require.NoError(t, os.WriteFile(srcPath, []byte(src), 0o644))

	outLL := filepath.Join(dir, "out.ll")
	var buf bytes.Buffer
	err := driver.Run(&buf, srcPath, driver.Options{OutputLL: outLL, StopAfterLL: true})
	return buf.String(), outLL, err
}

func TestRunSuccess(t *testing.T) {
	out, outLL, err := runSrc(t, `program t is begin putinteger(42); end program`)
	require.NoError(t, err)

	assert.Contains(t, out, "Scanner returned successfully")
	assert.Contains(t, out, "Parsing completed successfully")
	assert.Contains(t, out, "Program is valid")
	assert.Contains(t, out, "Module generated")

	ll, rerr := os.ReadFile(outLL)
	require.NoError(t, rerr)
	assert.Contains(t, string(ll), "define i32 @main()")
	assert.Contains(t, string(ll), "call i1 @putinteger(i32 42)")
}

func TestRunLexerError(t *testing.T) {
	out, _, err := runSrc(t, "program p is begin $ end program")
	require.Error(t, err)
	assert.Contains(t, out, "Error in lexer")
	assert.Contains(t, out, "In line 1:")
	assert.NotContains(t, out, "Scanner returned successfully")
}

func TestRunParserError(t *testing.T) {
	out, _, err := runSrc(t, "program p is begin x := ; end")
	require.Error(t, err)
	assert.Contains(t, out, "Error in parser")
	assert.Contains(t, out, "Scanner returned successfully")
	assert.NotContains(t, out, "Program is valid")
}

func TestRunCheckerError(t *testing.T) {
	out, outLL, err := runSrc(t, `
program p is
	variable s : string;
begin
	s := 5;
end program`)
	require.Error(t, err)
	assert.Contains(t, out, "In line 5: cannot assign integer to string")
	assert.Contains(t, out, "Error in checker")

	_, statErr := os.Stat(outLL)
	assert.True(t, os.IsNotExist(statErr), "no out.ll after a failed pass")
}

func TestRunMissingFile(t *testing.T) {
	var buf bytes.Buffer
	err := driver.Run(&buf, filepath.Join(t.TempDir(), "nope.vt"), driver.Options{StopAfterLL: true})
	require.Error(t, err)
}
