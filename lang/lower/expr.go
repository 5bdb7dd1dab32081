package lower

import (
	"fmt"

	"github.com/kortho/varta/lang/ast"
	"github.com/kortho/varta/lang/ir"
)

// lowerExpr lowers an expression to a Value. For an aggregate-typed
// expression (Str/IntArray) the returned Value is the pointer to its
// storage, never a loaded register: this IR has no aggregate register
// form, and every aggregate use site (array copy, putstring) wants the
// address anyway.
func (l *lowerer) lowerExpr(e ast.Expr) ir.Value {
	if l.failed() {
		return ir.Value{}
	}
	switch e := e.(type) {
	case *ast.IntLiteral:
		return ir.ConstInt(e.Value, ir.TI32)

	case *ast.FloatLiteral:
		return ir.ConstFloat(float64(e.Value), ir.TF32)

	case *ast.BoolLiteral:
		return ir.ConstBool(e.Value)

	case *ast.StringLiteral:
		return l.lowerStringLiteral(e.Value)

	case *ast.IntArrayLiteral:
		return l.lowerIntArrayLiteral(e)

	case *ast.VarRef:
		sl, ok := l.lookup(e.Name)
		if !ok {
			l.fail(l.line, "internal: undeclared variable %q reached lowering", e.Name)
			return ir.Value{}
		}
		if isAggregate(sl.vt) {
			return sl.ptr
		}
		return l.b.Result(fmt.Sprintf("load %s, %s %s", sl.ptr.Ty.Elem, sl.ptr.Ty, sl.ptr), sl.ptr.Ty.Elem)

	case *ast.ArrayRef:
		ptr, _ := l.lowerLValue(e)
		if l.failed() {
			return ir.Value{}
		}
		return l.b.Result(fmt.Sprintf("load %s, %s %s", ptr.Ty.Elem, ptr.Ty, ptr), ptr.Ty.Elem)

	case *ast.ProcRef:
		return l.lowerCall(e)

	case *ast.ArthOp:
		return l.lowerArith(e)

	case *ast.RelOp:
		return l.lowerRel(e)

	case *ast.LogOp:
		return l.lowerLog(e)

	default:
		l.fail(l.line, "internal: unsupported expression %T reached lowering", e)
		return ir.Value{}
	}
}

func (l *lowerer) lowerStringLiteral(padded string) ir.Value {
	name := fmt.Sprintf(".str.%d", l.strLits)
	l.strLits++
	g := l.mod.AddConstant(name, ir.StringType(), ir.ConstString(padded))
	return ir.Value{Repr: "@" + g.Name, Ty: ir.TPtr(g.Ty)}
}

func (l *lowerer) lowerIntArrayLiteral(lit *ast.IntArrayLiteral) ir.Value {
	ty := ir.TArray(ir.TI32, int(lit.Size))
	elems := make([]string, len(lit.Elts))
	for i, v := range lit.Elts {
		elems[i] = ir.ConstInt(v, ir.TI32).Repr
	}
	name := fmt.Sprintf(".arr.%d", l.globLit)
	l.globLit++
	init := ir.Value{Repr: fmt.Sprintf("[%s]", joinInts(elems)), Ty: ty}
	g := l.mod.AddConstant(name, ty, init)
	return ir.Value{Repr: "@" + g.Name, Ty: ir.TPtr(g.Ty)}
}

func joinInts(elems []string) string {
	out := ""
	for i, e := range elems {
		if i > 0 {
			out += ", "
		}
		out += "i32 " + e
	}
	return out
}

// lowerCall lowers each argument, constructs the call with the resolved
// mangled name (or the runtime ABI name for a built-in), and returns the
// call's single basic value.
func (l *lowerer) lowerCall(ref *ast.ProcRef) ir.Value {
	name, entry, isBuiltin, ok := l.resolveCallTarget(ref)
	if !ok {
		l.fail(l.line, "internal: call to unresolved procedure %q reached lowering", ref.Name)
		return ir.Value{}
	}

	var paramTypes []*ir.Type
	var retTy *ir.Type
	if isBuiltin {
		sig := runtimeABI[ref.Name]
		paramTypes, retTy = sig.params, sig.ret
	} else {
		paramTypes = make([]*ir.Type, len(entry.ParamNames))
		for i, pn := range entry.ParamNames {
			pe, _ := entry.Params.Get(pn)
			paramTypes[i] = lowerType(pe.Type)
		}
		if entry.HasRet {
			retTy = lowerType(entry.Type)
		}
	}

	args := make([]ir.Value, len(ref.Args))
	for i, a := range ref.Args {
		args[i] = l.lowerExpr(a)
		if l.failed() {
			return ir.Value{}
		}
	}

	// sqrt's runtime ABI (i32 in, f64 out) genuinely disagrees with the
	// checker's Float-in/Float-out view of it: the argument is truncated
	// to an integer here, the result narrowed back at the assignment.
	parts := make([]string, len(args))
	for i, a := range args {
		if i < len(paramTypes) {
			a = l.coerceForCall(a, paramTypes[i])
		}
		parts[i] = fmt.Sprintf("%s %s", a.Ty, a)
	}

	call := fmt.Sprintf("call %s @%s(%s)", typeOrVoid(retTy), name, joinStrings(parts))
	if retTy == nil {
		l.b.Emit(call)
		return ir.Value{}
	}
	return l.b.Result(call, retTy)
}

func typeOrVoid(t *ir.Type) string {
	if t == nil {
		return "void"
	}
	return t.String()
}

func joinStrings(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// coerceForCall adapts an already-lowered argument to the callee's
// declared parameter type: ordinary numeric promotion for scalars,
// pass-through for aggregate (pointer) parameters.
func (l *lowerer) coerceForCall(v ir.Value, want *ir.Type) ir.Value {
	if want.Kind == ir.Pointer || want.Kind == ir.Array {
		return v
	}
	return l.coerce(v, want)
}

// lowerArith emits float arithmetic with promotion if either operand is
// float, else signed integer arithmetic.
func (l *lowerer) lowerArith(e *ast.ArthOp) ir.Value {
	lv := l.lowerExpr(e.Lhs)
	rv := l.lowerExpr(e.Rhs)
	if l.failed() {
		return ir.Value{}
	}
	if lv.Ty.IsFloat() || rv.Ty.IsFloat() {
		lv, rv = l.toFloat(lv), l.toFloat(rv)
		op := map[ast.Op]string{ast.Add: "fadd", ast.Sub: "fsub", ast.Mul: "fmul", ast.Div: "fdiv"}[e.Op]
		return l.b.Result(fmt.Sprintf("%s float %s, %s", op, lv, rv), ir.TF32)
	}
	lv, rv = l.toInt(lv), l.toInt(rv)
	op := map[ast.Op]string{ast.Add: "add", ast.Sub: "sub", ast.Mul: "mul", ast.Div: "sdiv"}[e.Op]
	return l.b.Result(fmt.Sprintf("%s i32 %s, %s", op, lv, rv), ir.TI32)
}

// lowerRel emits a comparison with the same float-promotion rule; the
// result is i1.
func (l *lowerer) lowerRel(e *ast.RelOp) ir.Value {
	lv := l.lowerExpr(e.Lhs)
	rv := l.lowerExpr(e.Rhs)
	if l.failed() {
		return ir.Value{}
	}
	if lv.Ty.IsFloat() || rv.Ty.IsFloat() {
		lv, rv = l.toFloat(lv), l.toFloat(rv)
		pred := map[ast.Op]string{
			ast.Greater: "ogt", ast.Less: "olt", ast.GreaterEqual: "oge",
			ast.LessEqual: "ole", ast.CheckEqual: "oeq", ast.NotEquals: "one",
		}[e.Op]
		return l.b.Result(fmt.Sprintf("fcmp %s float %s, %s", pred, lv, rv), ir.TI1)
	}
	lv, rv = l.toInt(lv), l.toInt(rv)
	pred := map[ast.Op]string{
		ast.Greater: "sgt", ast.Less: "slt", ast.GreaterEqual: "sge",
		ast.LessEqual: "sle", ast.CheckEqual: "eq", ast.NotEquals: "ne",
	}[e.Op]
	return l.b.Result(fmt.Sprintf("icmp %s i32 %s, %s", pred, lv, rv), ir.TI1)
}

// lowerLog integerizes both operands (float operands are truncated to
// signed int) and emits bitwise and/or; the unary "not" form complements
// its single operand.
func (l *lowerer) lowerLog(e *ast.LogOp) ir.Value {
	if e.Lhs == nil {
		rv := l.lowerExpr(e.Rhs)
		if l.failed() {
			return ir.Value{}
		}
		rv = l.toInt(rv)
		return l.b.Result(fmt.Sprintf("xor i32 %s, -1", rv), ir.TI32)
	}
	lv := l.lowerExpr(e.Lhs)
	rv := l.lowerExpr(e.Rhs)
	if l.failed() {
		return ir.Value{}
	}
	lv, rv = l.toInt(lv), l.toInt(rv)
	op := "and"
	if e.Op == ast.Or {
		op = "or"
	}
	return l.b.Result(fmt.Sprintf("%s i32 %s, %s", op, lv, rv), ir.TI32)
}

// toFloat promotes an i32/i1 value to float, or returns v unchanged if
// it is already float-kinded.
func (l *lowerer) toFloat(v ir.Value) ir.Value {
	switch v.Ty.Kind {
	case ir.F32:
		return v
	case ir.F64:
		return l.b.Result(fmt.Sprintf("fptrunc double %s to float", v), ir.TF32)
	case ir.I1:
		return l.b.Result(fmt.Sprintf("uitofp i1 %s to float", v), ir.TF32)
	default:
		return l.b.Result(fmt.Sprintf("sitofp i32 %s to float", v), ir.TF32)
	}
}

// toInt demotes a float value to a signed i32, or widens an i1 to i32;
// returns v unchanged if it is already i32. Used for LogOp operands and
// for promoting a float array index to integer.
func (l *lowerer) toInt(v ir.Value) ir.Value {
	switch v.Ty.Kind {
	case ir.I32:
		return v
	case ir.I1:
		return l.b.Result(fmt.Sprintf("zext i1 %s to i32", v), ir.TI32)
	case ir.F32:
		return l.b.Result(fmt.Sprintf("fptosi float %s to i32", v), ir.TI32)
	case ir.F64:
		return l.b.Result(fmt.Sprintf("fptosi double %s to i32", v), ir.TI32)
	default:
		return v
	}
}

// toBool coerces a condition value to i1: an i1 passes through, a
// numeric condition is true iff nonzero.
func (l *lowerer) toBool(v ir.Value) ir.Value {
	switch v.Ty.Kind {
	case ir.I1:
		return v
	case ir.F32:
		return l.b.Result(fmt.Sprintf("fcmp one float %s, 0.0", v), ir.TI1)
	default:
		return l.b.Result(fmt.Sprintf("icmp ne i32 %s, 0", v), ir.TI1)
	}
}

// coerce adapts v to the assignment-target type ty, implementing the
// numeric promotions the compatibility matrix allows.
func (l *lowerer) coerce(v ir.Value, ty *ir.Type) ir.Value {
	if v.Ty.Equal(ty) {
		return v
	}
	switch ty.Kind {
	case ir.F32:
		return l.toFloat(v)
	case ir.I32:
		return l.toInt(v)
	case ir.I1:
		if v.Ty.Kind == ir.I32 {
			return l.b.Result(fmt.Sprintf("icmp ne i32 %s, 0", v), ir.TI1)
		}
		return v
	default:
		return v
	}
}
