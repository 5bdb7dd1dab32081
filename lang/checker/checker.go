// Package checker implements the semantic checker: scope resolution,
// the type-compatibility matrix, and the operator-operand matrices, all
// reported through a shared diag.Bag.
//
// The scope model is two-tier: a single shared global table plus, while
// checking one procedure, that procedure's own local table. Varta has no
// closures and no arbitrary block nesting, so a checker instance per
// scope carrying those two tables covers every case; a fresh nested
// instance is spawned per procedure.
package checker

import (
	"github.com/kortho/varta/lang/ast"
	"github.com/kortho/varta/lang/diag"
	"github.com/kortho/varta/lang/symtab"
	"github.com/kortho/varta/lang/types"
)

// Check validates prog and returns the populated global symbol table
// (needed by the lowerer to resolve every name) plus the accumulated
// diagnostics. A nil *diag.Bag is never returned; bag.HasErrors() is the
// validity verdict.
func Check(prog *ast.Program) (*symtab.Table, *diag.Bag) {
	global := symtab.New()
	registerBuiltins(global)

	c := &checker{global: global, bag: &diag.Bag{}}
	c.checkHeader(prog.Header, global)
	c.checkBlock(prog.Body)
	return global, c.bag
}

// checker holds the state for the scope currently being checked: either
// program scope (local == nil) or one procedure's body (local holds its
// parameters and nested declarations).
type checker struct {
	global *symtab.Table
	local  *symtab.Table
	bag    *diag.Bag

	// Forward self-reference: procName/procRetType/procHasRet describe
	// the procedure currently being checked; checked flips to true only
	// after its body has been fully checked, at which point it is
	// inserted into the enclosing table. A call to procName seen while
	// checked == false is accepted without an arity/type check.
	procName    string
	procRetType types.VarType
	procHasRet  bool
	checked     bool

	// line is the source line of the statement currently being checked,
	// so diagnostics raised deep inside an expression still name the
	// statement that contains it.
	line int
}

// checkHeader validates every declaration in a header block (varDecl or
// nested procedure), inserting each into enclosing.
func (c *checker) checkHeader(header *ast.Block, enclosing *symtab.Table) {
	if header == nil {
		return
	}
	for _, s := range header.Stmts {
		switch s := s.(type) {
		case ast.VarDeclLike:
			c.declareVar(s, enclosing)
		case *ast.ProcDecl:
			c.checkProcDecl(s, enclosing)
		}
	}
}

func (c *checker) declareVar(d ast.VarDeclLike, into *symtab.Table) {
	if err := into.Insert(&symtab.Entry{Name: d.DeclName(), Type: d.DeclType(), Kind: symtab.VariableKind}); err != nil {
		c.bag.Errorf(d.Line(), "%s", err)
	}
}

// checkProcDecl spawns a nested checker for pd's own scope: a fresh
// local table inheriting nothing but the shared global table. pd is
// registered into enclosing only after its body has been fully checked.
func (c *checker) checkProcDecl(pd *ast.ProcDecl, enclosing *symtab.Table) {
	local := symtab.New()

	names := make([]string, 0, len(pd.Params.Stmts))
	for _, s := range pd.Params.Stmts {
		vd, ok := s.(ast.VarDeclLike)
		if !ok {
			continue
		}
		names = append(names, vd.DeclName())
		if err := local.Insert(&symtab.Entry{Name: vd.DeclName(), Type: vd.DeclType(), Kind: symtab.VariableKind}); err != nil {
			c.bag.Errorf(vd.Line(), "%s", err)
		}
	}

	nested := &checker{
		global:      c.global,
		local:       local,
		bag:         c.bag,
		procName:    pd.Name,
		procRetType: pd.RetType,
		procHasRet:  pd.HasRet,
	}

	nested.checkHeader(pd.Header, local)
	nested.checkBlock(pd.Body)
	nested.checked = true

	entry := &symtab.Entry{
		Name:       pd.Name,
		Type:       pd.RetType,
		Kind:       symtab.ProcedureKind,
		HasRet:     pd.HasRet,
		ParamNames: names,
		Params:     local,
		Body:       pd,
	}
	if err := enclosing.Insert(entry); err != nil {
		c.bag.Errorf(pd.Line(), "%s", err)
	}
}

func (c *checker) checkBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		c.checkStmt(s)
	}
}

func (c *checker) checkStmt(s ast.Stmt) {
	c.line = s.Line()
	switch s := s.(type) {
	case *ast.Assign:
		c.checkAssign(s)
	case *ast.If:
		c.checkIf(s)
	case *ast.For:
		c.checkFor(s)
	case *ast.Return:
		c.checkReturn(s)
	case *ast.ExprStmt:
		c.typeOf(s.X)
	case ast.VarDeclLike:
		// A VarDecl reached here means it was declared inside a body
		// rather than a header; the grammar never produces this, but
		// declare it into the nearest table anyway.
		if c.local != nil {
			c.declareVar(s, c.local)
		} else {
			c.declareVar(s, c.global)
		}
	}
}

// checkAssign types both sides of an assignment: VarRef and ArrayRef
// targets are handled separately, and the RHS is matched against the
// target's element type with the compatibility matrix.
func (c *checker) checkAssign(a *ast.Assign) {
	targetType, ok := c.typeOfLvalue(a.Target)
	valueType, valOK := c.typeOf(a.Value)
	if !ok || !valOK {
		return
	}
	if !types.Assignable(targetType, valueType) {
		c.bag.Errorf(a.Line(), "cannot assign %s to %s", valueType, targetType)
	}
}

func (c *checker) typeOfLvalue(e ast.Expr) (types.VarType, bool) {
	switch e := e.(type) {
	case *ast.VarRef:
		entry, ok := symtab.Lookup(c.local, c.global, e.Name)
		if !ok {
			c.bag.Errorf(c.line, "undeclared variable %q", e.Name)
			return types.VarType{}, false
		}
		if entry.Kind == symtab.ProcedureKind {
			c.bag.Errorf(c.line, "%q is a procedure, not a variable; call it with parentheses", e.Name)
			return types.VarType{}, false
		}
		return entry.Type, true
	case *ast.ArrayRef:
		entry, ok := symtab.Lookup(c.local, c.global, e.Name)
		if !ok {
			c.bag.Errorf(c.line, "undeclared variable %q", e.Name)
			return types.VarType{}, false
		}
		if entry.Type.Kind != types.IntArray {
			c.bag.Errorf(c.line, "%q is not an array", e.Name)
			return types.VarType{}, false
		}
		idxType, idxOK := c.typeOf(e.Index)
		if idxOK && !types.RelationalOperandOK(idxType) && idxType.Kind != types.Int {
			c.bag.Errorf(c.line, "array index must be an integer expression")
		}
		if lit, ok := e.Index.(*ast.IntLiteral); ok {
			if lit.Value < 0 || lit.Value >= int64(entry.Type.Size) {
				c.bag.Errorf(c.line, "array index %d out of bounds for %q[%d]", lit.Value, e.Name, entry.Type.Size)
			}
		}
		return types.VarType{Kind: types.Int}, true
	default:
		c.bag.Errorf(c.line, "invalid assignment target")
		return types.VarType{}, false
	}
}

func (c *checker) checkIf(s *ast.If) {
	condType, ok := c.typeOf(s.Cond)
	if ok && !types.ConditionOK(condType) {
		c.bag.Errorf(s.Line(), "if condition must be bool or integer, got %s", condType)
	}
	c.checkBlock(s.ThenBlock)
	c.checkBlock(s.ElseBlock)
}

func (c *checker) checkFor(s *ast.For) {
	if s.Init != nil {
		c.checkAssign(s.Init)
	}
	condType, ok := c.typeOf(s.Cond)
	if ok && !types.ConditionOK(condType) {
		c.bag.Errorf(s.Line(), "for condition must be bool or integer, got %s", condType)
	}
	c.checkBlock(s.Body)
}

func (c *checker) checkReturn(s *ast.Return) {
	if s.Value == nil || ast.IsVoidReturn(s.Value) {
		if c.procHasRet {
			c.bag.Errorf(s.Line(), "procedure must return a %s value", c.procRetType)
		}
		return
	}
	if !c.procHasRet {
		c.bag.Errorf(s.Line(), "procedure has no return type but returns a value")
		return
	}
	valType, ok := c.typeOf(s.Value)
	if ok && !types.Assignable(c.procRetType, valType) {
		c.bag.Errorf(s.Line(), "cannot return %s from a procedure declared to return %s", valType, c.procRetType)
	}
}

// typeOf computes e's type, reporting any operator-operand violation
// along the way. The bool result is false
// only when the expression's type could not be determined at all (an
// undeclared name, an unresolved call); operator misuse still returns
// the would-be type so outer expressions don't cascade spurious errors.
func (c *checker) typeOf(e ast.Expr) (types.VarType, bool) {
	switch e := e.(type) {
	case *ast.IntLiteral:
		return types.TInt, true
	case *ast.FloatLiteral:
		return types.TFloat, true
	case *ast.StringLiteral:
		return types.TStr, true
	case *ast.BoolLiteral:
		return types.TBool, true
	case *ast.IntArrayLiteral:
		return types.NewIntArray(e.Size), true

	case *ast.VarRef:
		entry, ok := symtab.Lookup(c.local, c.global, e.Name)
		if !ok {
			c.bag.Errorf(c.line, "undeclared variable %q", e.Name)
			return types.VarType{}, false
		}
		if entry.Kind == symtab.ProcedureKind {
			c.bag.Errorf(c.line, "%q is a procedure, not a variable; call it with parentheses", e.Name)
			return types.VarType{}, false
		}
		return entry.Type, true

	case *ast.ArrayRef:
		return c.typeOfLvalue(e)

	case *ast.ProcRef:
		return c.typeOfCall(e)

	case *ast.ArthOp:
		lt, lok := c.typeOf(e.Lhs)
		rt, rok := c.typeOf(e.Rhs)
		if lok && !types.ArithOperandOK(lt) {
			c.bag.Errorf(c.line, "operator %s requires numeric operands, got %s", e.Op, lt)
		}
		if rok && !types.ArithOperandOK(rt) {
			c.bag.Errorf(c.line, "operator %s requires numeric operands, got %s", e.Op, rt)
		}
		if (lok && lt.Kind == types.Float) || (rok && rt.Kind == types.Float) {
			return types.TFloat, true
		}
		return types.TInt, true

	case *ast.RelOp:
		lt, lok := c.typeOf(e.Lhs)
		rt, rok := c.typeOf(e.Rhs)
		if lok && !types.RelationalOperandOK(lt) {
			c.bag.Errorf(c.line, "operator %s requires int, float or bool operands, got %s", e.Op, lt)
		}
		if rok && !types.RelationalOperandOK(rt) {
			c.bag.Errorf(c.line, "operator %s requires int, float or bool operands, got %s", e.Op, rt)
		}
		return types.TBool, true

	case *ast.LogOp:
		if e.Lhs == nil {
			rt, rok := c.typeOf(e.Rhs)
			if rok && !types.LogicalOperandOK(rt) {
				c.bag.Errorf(c.line, "operator not requires an integer operand, got %s", rt)
			}
			return types.TInt, true
		}
		lt, lok := c.typeOf(e.Lhs)
		rt, rok := c.typeOf(e.Rhs)
		if lok && !types.LogicalOperandOK(lt) {
			c.bag.Errorf(c.line, "operator %s requires integer operands, got %s", e.Op, lt)
		}
		if rok && !types.LogicalOperandOK(rt) {
			c.bag.Errorf(c.line, "operator %s requires integer operands, got %s", e.Op, rt)
		}
		return types.TInt, true

	default:
		c.bag.Errorf(c.line, "unsupported expression")
		return types.VarType{}, false
	}
}

// typeOfCall implements the call-site half of the forward
// self-reference concession, plus ordinary arity/type checking against
// the callee's retained parameter table.
func (c *checker) typeOfCall(ref *ast.ProcRef) (types.VarType, bool) {
	if !c.checked && ref.Name == c.procName {
		for _, a := range ref.Args {
			c.typeOf(a)
		}
		return c.procRetType, c.procHasRet
	}

	entry, ok := symtab.Lookup(c.local, c.global, ref.Name)
	if !ok || entry.Kind != symtab.ProcedureKind {
		c.bag.Errorf(c.line, "call to undeclared procedure %q", ref.Name)
		for _, a := range ref.Args {
			c.typeOf(a)
		}
		return types.VarType{}, false
	}

	if len(ref.Args) != len(entry.ParamNames) {
		c.bag.Errorf(c.line, "%q expects %d argument(s), got %d", ref.Name, len(entry.ParamNames), len(ref.Args))
	}
	n := len(ref.Args)
	if len(entry.ParamNames) < n {
		n = len(entry.ParamNames)
	}
	for i := 0; i < n; i++ {
		argType, ok := c.typeOf(ref.Args[i])
		if !ok {
			continue
		}
		paramEntry, ok := entry.Params.Get(entry.ParamNames[i])
		if !ok {
			continue
		}
		if !types.Assignable(paramEntry.Type, argType) {
			c.bag.Errorf(c.line, "argument %d to %q: cannot use %s as %s", i+1, ref.Name, argType, paramEntry.Type)
		}
	}
	for i := n; i < len(ref.Args); i++ {
		c.typeOf(ref.Args[i])
	}

	return entry.Type, entry.HasRet
}
