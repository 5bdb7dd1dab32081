package checker_test

import (
	"testing"

	"github.com/kortho/varta/lang/ast"
	"github.com/kortho/varta/lang/checker"
	"github.com/kortho/varta/lang/diag"
	"github.com/kortho/varta/lang/parser"
	"github.com/kortho/varta/lang/scanner"
	"github.com/kortho/varta/lang/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func check(t *testing.T, src string) (*symtab.Table, *diag.Bag) {
	t.Helper()
	toks, bag := scanner.Scan(src)
	require.False(t, bag.HasErrors(), "scan errors: %v", bag.Records())
	prog, pbag := parser.Parse(toks)
	require.False(t, pbag.HasErrors(), "parse errors: %v", pbag.Records())
	return checker.Check(prog)
}

func messages(bag *diag.Bag) []string {
	var out []string
	for _, r := range bag.Records() {
		out = append(out, r.Message)
	}
	return out
}

func TestValidProgram(t *testing.T) {
	global, bag := check(t, `
program demo is
	global variable count : integer;
	variable f : float;
	procedure double : integer (n : integer)
	begin
		return n * 2;
	end procedure
begin
	count := double(3);
	f := count + 1.5;
	putinteger(count);
	putfloat(f);
end program`)
	assert.False(t, bag.HasErrors(), "diagnostics: %v", bag.Records())

	e, ok := global.Get("double")
	require.True(t, ok)
	assert.Equal(t, symtab.ProcedureKind, e.Kind)
	require.Len(t, e.ParamNames, 1)
	assert.Equal(t, "n", e.ParamNames[0])
	require.NotNil(t, e.Params)
	_, ok = e.Params.Get("n")
	assert.True(t, ok, "parameter table retained in the procedure entry")
}

func TestAssignIntToStringRejected(t *testing.T) {
	_, bag := check(t, `
program p is
	variable s : string;
begin
	s := 5;
end program`)
	require.True(t, bag.HasErrors())
	recs := bag.Records()
	require.NotEmpty(t, recs)
	assert.Equal(t, 5, recs[0].Line)
	assert.Contains(t, recs[0].Message, "cannot assign integer to string")
}

func TestNumericCrossAssignmentsAllowed(t *testing.T) {
	_, bag := check(t, `
program p is
	variable i : integer;
	variable f : float;
	variable b : bool;
begin
	i := 1.5;
	f := 2;
	b := 1;
	i := b;
end program`)
	assert.False(t, bag.HasErrors(), "diagnostics: %v", bag.Records())
}

func TestRedefinitionInSameScope(t *testing.T) {
	_, bag := check(t, `
program p is
	variable x : integer;
	variable x : float;
begin
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], "already declared")
}

func TestLocalMayShadowGlobal(t *testing.T) {
	_, bag := check(t, `
program p is
	global variable x : integer;
	procedure f : integer ()
		variable x : integer;
	begin
		x := 3;
		return x;
	end procedure
begin
	x := 7;
end program`)
	assert.False(t, bag.HasErrors(), "diagnostics: %v", bag.Records())
}

func TestUndeclaredVariable(t *testing.T) {
	_, bag := check(t, `
program p is
begin
	y := 1;
end program`)
	require.True(t, bag.HasErrors())
	recs := bag.Records()
	assert.Equal(t, 4, recs[0].Line)
	assert.Contains(t, recs[0].Message, `undeclared variable "y"`)
}

func TestCallArityMismatch(t *testing.T) {
	_, bag := check(t, `
program p is
	procedure f : integer (a : integer, b : integer)
	begin
		return a + b;
	end procedure
	variable x : integer;
begin
	x := f(1);
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], "expects 2 argument(s), got 1")
}

func TestCallArgumentTypeMismatch(t *testing.T) {
	_, bag := check(t, `
program p is
	procedure f : integer (a : integer)
	begin
		return a;
	end procedure
	variable s : string;
	variable x : integer;
begin
	s := "hello";
	x := f(s);
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], "cannot use string as integer")
}

func TestCallToUndeclaredProcedure(t *testing.T) {
	_, bag := check(t, `
program p is
begin
	missing(1);
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], `undeclared procedure "missing"`)
}

func TestSelfRecursionAccepted(t *testing.T) {
	_, bag := check(t, `
program p is
	procedure factorial : integer (n : integer)
	begin
		if (n <= 1) then
			return 1;
		end if
		return n * factorial(n - 1);
	end procedure
begin
	putinteger(factorial(5));
end program`)
	assert.False(t, bag.HasErrors(), "diagnostics: %v", bag.Records())
}

func TestBuiltinRedefinitionRejected(t *testing.T) {
	_, bag := check(t, `
program p is
	procedure putinteger : integer (n : integer)
	begin
		return n;
	end procedure
begin
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], "already declared")
}

func TestBuiltinCallsTypeChecked(t *testing.T) {
	_, bag := check(t, `
program p is
	variable s : string;
begin
	s := "x";
	putinteger(s);
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], "cannot use string as integer")
}

func TestGetstringIsNotSeeded(t *testing.T) {
	_, bag := check(t, `
program p is
	variable s : string;
begin
	s := getstring();
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], `undeclared procedure "getstring"`)
}

func TestConditionTypes(t *testing.T) {
	_, bag := check(t, `
program p is
	variable f : float;
	variable i : integer;
begin
	if (i) then
	end if
	if (f) then
	end if
end program`)
	require.True(t, bag.HasErrors())
	msgs := messages(bag)
	require.Len(t, msgs, 1, "integer condition legal, float rejected: %v", msgs)
	assert.Contains(t, msgs[0], "if condition must be bool or integer")
}

func TestForConditionChecked(t *testing.T) {
	_, bag := check(t, `
program p is
	variable i : integer;
	variable s : string;
begin
	s := "x";
	for (i := 0; s)
	end for
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], "for condition must be bool or integer")
}

func TestArithmeticOperandsChecked(t *testing.T) {
	_, bag := check(t, `
program p is
	variable s : string;
	variable x : integer;
begin
	s := "a";
	x := s + 1;
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], "requires numeric operands")
}

func TestLogicalOperandsMustBeInt(t *testing.T) {
	_, bag := check(t, `
program p is
	variable f : float;
	variable x : integer;
begin
	f := 1.0;
	x := f & 3;
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], "requires integer operands")
}

func TestNonArrayIndexed(t *testing.T) {
	_, bag := check(t, `
program p is
	variable x : integer;
begin
	x[0] := 1;
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], "is not an array")
}

func TestLiteralIndexBoundsChecked(t *testing.T) {
	_, bag := check(t, `
program p is
	variable a : integer[3];
begin
	a[3] := 1;
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], "out of bounds")
}

func TestWholeArrayAssignSizesMustMatch(t *testing.T) {
	_, bag := check(t, `
program p is
	variable a : integer[3];
	variable b : integer[4];
begin
	a := b;
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], "cannot assign integer[4] to integer[3]")
}

func TestReturnTypeChecked(t *testing.T) {
	_, bag := check(t, `
program p is
	procedure f : integer ()
		variable s : string;
	begin
		s := "x";
		return s;
	end procedure
begin
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], "cannot return string")
}

func TestVoidProcedureMustNotReturnValue(t *testing.T) {
	_, bag := check(t, `
program p is
	procedure f ()
	begin
		return 1;
	end procedure
begin
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], "no return type but returns a value")
}

// TestProcedureUsedAsVariableRejected: a zero-parameter procedure is
// called as "p()", never referenced as "p".
func TestProcedureUsedAsVariableRejected(t *testing.T) {
	_, bag := check(t, `
program p is
	procedure f : integer ()
	begin
		return 1;
	end procedure
	variable x : integer;
begin
	x := f;
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], "is a procedure, not a variable")
}

func TestSiblingProceduresDoNotLeakLocals(t *testing.T) {
	_, bag := check(t, `
program p is
	procedure f : integer ()
		variable secret : integer;
	begin
		return secret;
	end procedure
	procedure g : integer ()
	begin
		return secret;
	end procedure
begin
end program`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, messages(bag)[0], `undeclared variable "secret"`)
}

// TestCheckIsIdempotent: checking the same AST twice against fresh
// global tables yields the same verdict and the same table contents.
func TestCheckIsIdempotent(t *testing.T) {
	src := `
program p is
	global variable x : integer;
	procedure f : integer (n : integer)
	begin
		return n;
	end procedure
begin
	x := f(1);
end program`
	toks, _ := scanner.Scan(src)
	prog, _ := parser.Parse(toks)

	g1, b1 := checker.Check(prog)
	g2, b2 := checker.Check(prog)
	assert.Equal(t, b1.HasErrors(), b2.HasErrors())
	assert.Equal(t, g1.Len(), g2.Len())

	g1.Each(func(name string, e *symtab.Entry) {
		other, ok := g2.Get(name)
		require.True(t, ok, "entry %q missing on re-check", name)
		assert.Equal(t, e.Kind, other.Kind)
		assert.True(t, e.Type.Equal(other.Type))
	})
}

// TestCheckedASTKeepsInvariants spot-checks that the parser-normalized
// operator wrappers survive checking untouched.
func TestCheckedASTKeepsInvariants(t *testing.T) {
	toks, _ := scanner.Scan(`
program p is
	variable x : integer;
begin
	x := 1 + 2;
end program`)
	prog, _ := parser.Parse(toks)
	_, bag := checker.Check(prog)
	require.False(t, bag.HasErrors())

	assign := prog.Body.Stmts[0].(*ast.Assign)
	op := assign.Value.(*ast.ArthOp)
	assert.Equal(t, ast.Arith, op.Op.Classify())
}
