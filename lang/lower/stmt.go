package lower

import (
	"fmt"

	"github.com/kortho/varta/lang/ast"
	"github.com/kortho/varta/lang/ir"
	"github.com/kortho/varta/lang/types"
)

func (l *lowerer) lowerBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		if l.failed() || l.b.Current().Terminated() {
			return
		}
		l.lowerStmt(s)
	}
}

func (l *lowerer) lowerStmt(s ast.Stmt) {
	l.line = s.Line()
	switch s := s.(type) {
	case *ast.Assign:
		l.lowerAssign(s)
	case *ast.If:
		l.lowerIf(s)
	case *ast.For:
		l.lowerFor(s)
	case *ast.Return:
		l.lowerReturn(s)
	case *ast.ExprStmt:
		l.lowerExpr(s.X)
	}
}

// lowerAssign resolves the LHS pointer, lowers the RHS, then either
// stores a scalar or copies an aggregate (Str/IntArray) wholesale.
func (l *lowerer) lowerAssign(a *ast.Assign) {
	ptr, targetVT := l.lowerLValue(a.Target)
	if l.failed() {
		return
	}
	val := l.lowerExpr(a.Value)
	if l.failed() {
		return
	}

	if isAggregate(targetVT) {
		l.emitArrayCopy(ptr, val, lowerType(targetVT))
		return
	}

	val = l.coerce(val, lowerType(targetVT))
	l.b.Emit(fmt.Sprintf("store %s %s, %s %s", val.Ty, val, ptr.Ty, ptr))
}

// lowerLValue resolves a VarRef or ArrayRef assignment target to its
// storage pointer, local slot first then global; an ArrayRef target
// yields an in-bounds GEP to the indexed element.
func (l *lowerer) lowerLValue(e ast.Expr) (ir.Value, types.VarType) {
	switch e := e.(type) {
	case *ast.VarRef:
		sl, ok := l.lookup(e.Name)
		if !ok {
			l.fail(l.line, "internal: undeclared variable %q reached lowering", e.Name)
			return ir.Value{}, types.VarType{}
		}
		return sl.ptr, sl.vt
	case *ast.ArrayRef:
		sl, ok := l.lookup(e.Name)
		if !ok {
			l.fail(l.line, "internal: undeclared array %q reached lowering", e.Name)
			return ir.Value{}, types.VarType{}
		}
		idx := l.lowerExpr(e.Index)
		idx = l.toInt(idx)
		elemTy := ir.TI32
		gep := l.b.Temp()
		l.b.Emit(fmt.Sprintf("%s = getelementptr inbounds %s, %s %s, i32 0, %s %s",
			gep, sl.ptr.Ty.Elem, sl.ptr.Ty, sl.ptr, idx.Ty, idx))
		return ir.Value{Repr: gep, Ty: ir.TPtr(elemTy)}, types.TInt
	default:
		l.fail(l.line, "internal: invalid assignment target reached lowering")
		return ir.Value{}, types.VarType{}
	}
}

func (l *lowerer) lookup(name string) (*slot, bool) {
	if l.locals != nil {
		if sl, ok := l.locals[name]; ok {
			return sl, true
		}
	}
	if sl, ok := l.globals[name]; ok {
		return sl, true
	}
	return nil, false
}

// emitArrayCopy implements a whole-aggregate assignment (a string, or an
// IntArray variable assigned from another of the same size) as a
// byte-for-byte copy, since this IR has no aggregate "load" of a
// [N x T] value into a register.
func (l *lowerer) emitArrayCopy(dst ir.Value, src ir.Value, ty *ir.Type) {
	l.b.Emit(fmt.Sprintf("call void @llvm.memcpy.p0i8.p0i8.i64(i8* bitcast (%s %s to i8*), i8* bitcast (%s %s to i8*), i64 %d, i1 false)",
		dst.Ty, dst, src.Ty, src, arraySizeBytes(ty)))
}

func arraySizeBytes(ty *ir.Type) int {
	if ty.Kind != ir.Array {
		return 0
	}
	elemSize := 4
	if ty.Elem == ir.TI8 {
		elemSize = 1
	}
	return ty.Count * elemSize
}

// lowerIf builds three blocks, always including the else body even
// when there was no source "else" clause, so ifMerge is always
// reachable.
func (l *lowerer) lowerIf(s *ast.If) {
	cond := l.lowerExpr(s.Cond)
	if l.failed() {
		return
	}
	cond = l.toBool(cond)

	from := l.b.Current()
	thenBlk := l.b.Block("ifBody")
	l.lowerBlock(s.ThenBlock)
	if !l.failed() && !l.b.Current().Terminated() {
		l.b.Current().Br("") // placeholder, patched once ifMerge's label is known
	}
	thenEnd := l.b.Current()

	elseBlk := l.b.Block("elseBody")
	l.lowerBlock(s.ElseBlock) // nil ElseBlock lowers to an empty, always-materialized block
	if !l.failed() && !l.b.Current().Terminated() {
		l.b.Current().Br("")
	}
	elseEnd := l.b.Current()

	mergeBlk := l.b.Block("ifMerge")
	if thenEnd.Term != nil && thenEnd.Term.Kind == ir.TermBr && thenEnd.Term.Target == "" {
		thenEnd.Term.Target = mergeBlk.Label
	}
	if elseEnd.Term != nil && elseEnd.Term.Kind == ir.TermBr && elseEnd.Term.Target == "" {
		elseEnd.Term.Target = mergeBlk.Label
	}

	from.CondBr(cond, thenBlk.Label, elseBlk.Label)
}

// lowerFor builds forCond/forBody/mergeFor, with the body branching
// back to forCond.
func (l *lowerer) lowerFor(s *ast.For) {
	if s.Init != nil {
		l.lowerAssign(s.Init)
		if l.failed() {
			return
		}
	}
	from := l.b.Current()
	condBlk := l.b.Block("forCond")
	from.Br(condBlk.Label)

	cond := l.lowerExpr(s.Cond)
	if l.failed() {
		return
	}
	cond = l.toBool(cond)
	condEnd := l.b.Current()

	bodyBlk := l.b.Block("forBody")
	l.lowerBlock(s.Body)
	if !l.failed() && !l.b.Current().Terminated() {
		l.b.Current().Br(condBlk.Label)
	}

	mergeBlk := l.b.Block("mergeFor")
	condEnd.CondBr(cond, bodyBlk.Label, mergeBlk.Label)
}

// lowerReturn emits ret void for the void sentinel, a typed ret
// otherwise.
func (l *lowerer) lowerReturn(s *ast.Return) {
	if s.Value == nil || ast.IsVoidReturn(s.Value) {
		l.b.Current().RetVoid()
		return
	}
	val := l.lowerExpr(s.Value)
	if l.failed() {
		return
	}
	if l.b.Fn.RetType != nil {
		val = l.coerce(val, l.b.Fn.RetType)
	}
	l.b.Current().Ret(val)
}
