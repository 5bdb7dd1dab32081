package lower

import (
	"fmt"

	"github.com/kortho/varta/lang/ast"
	"github.com/kortho/varta/lang/ir"
	"github.com/kortho/varta/lang/symtab"
	"github.com/kortho/varta/lang/types"
)

// lowerMain lowers the Program's header and body into the module's
// "main" function.
func (l *lowerer) lowerMain(prog *ast.Program) {
	fn := l.mod.NewFunction("main", nil, ir.TI32)
	l.locals = make(map[string]*slot)
	l.local = nil
	l.b = ir.NewBuilder(fn)

	entryBlk := l.b.Block("entry")
	l.lowerHeader(prog.Header, l.globalTab, 0, true)
	if l.failed() {
		return
	}

	body := l.b.Block("mainBody")
	entryBlk.Br(body.Label)

	l.lowerBlock(prog.Body)
	if l.failed() {
		return
	}
	if !l.b.Current().Terminated() {
		l.b.Current().Ret(ir.ConstInt(0, ir.TI32))
	}
}

// lowerHeader lowers every declaration in header: VarDecl/GlobVarDecl
// become stack/module storage with a zero-initializing store, and nested
// ProcDecls are lowered as their own IR functions.
// enclosing is the symtab.Table the checker inserted these same
// declarations into (global at program scope, or the current procedure's
// local table), used only to resolve nested-procedure entries.
func (l *lowerer) lowerHeader(header *ast.Block, enclosing *symtab.Table, depth int, atProgramScope bool) {
	if header == nil {
		return
	}
	for _, s := range header.Stmts {
		if l.failed() {
			return
		}
		switch d := s.(type) {
		case *ast.GlobVarDecl:
			l.materializeGlobal(d.Name, d.Type)
		case *ast.VarDecl:
			if atProgramScope {
				// a bare "variable" at program scope is parsed as
				// GlobVarDecl already, so this arm should not be reached.
				l.materializeGlobal(d.Name, d.Type)
			} else {
				l.materializeLocal(d.Name, d.Type)
			}
		case *ast.ProcDecl:
			entry, ok := enclosing.Get(d.Name)
			if !ok {
				l.fail(d.Line(), "internal: procedure %q missing from symbol table", d.Name)
				return
			}
			l.lowerProcedure(d, entry, depth)
		}
	}
}

// materializeGlobal allocates a module-level global slot with a zero
// initializer.
func (l *lowerer) materializeGlobal(name string, vt types.VarType) {
	ty := lowerType(vt)
	l.mod.AddGlobal(name, ty)
	l.globals[name] = &slot{ptr: ir.Value{Repr: "@" + name, Ty: ir.TPtr(ty)}, vt: vt}
}

// materializeLocal allocates an entry-block stack slot and stores its
// zero value into it.
func (l *lowerer) materializeLocal(name string, vt types.VarType) {
	ty := lowerType(vt)
	reg := l.b.Temp()
	l.b.Emit(fmt.Sprintf("%s = alloca %s", reg, ty))
	ptr := ir.Value{Repr: reg, Ty: ir.TPtr(ty)}
	l.b.Emit(fmt.Sprintf("store %s %s, %s %s", ty, ir.ZeroValue(ty), ptr.Ty, ptr))
	l.locals[name] = &slot{ptr: ptr, vt: vt}
}

// lowerProcedure lowers one user-declared ProcDecl into its own IR
// function.
func (l *lowerer) lowerProcedure(pd *ast.ProcDecl, entry *symtab.Entry, depth int) {
	name := mangle(depth, pd.Name)
	l.mangled[pd] = name

	params := make([]ir.Param, 0, len(pd.Params.Stmts))
	for _, s := range pd.Params.Stmts {
		vd := s.(ast.VarDeclLike)
		params = append(params, ir.Param{Name: vd.DeclName(), Ty: lowerType(vd.DeclType())})
	}
	var retTy *ir.Type
	if pd.HasRet {
		retTy = lowerType(pd.RetType)
	}
	fn := l.mod.NewFunction(name, params, retTy)

	// Save and restore the caller's lowering state: lowering a nested
	// procedure must not disturb the enclosing function's builder/locals.
	savedLocals, savedLocal, savedB, savedEntry := l.locals, l.local, l.b, l.curEntry

	l.locals = make(map[string]*slot)
	l.local = entry.Params
	l.b = ir.NewBuilder(fn)
	l.curEntry = entry

	entryBlk := l.b.Block("entry")
	for _, p := range params {
		reg := l.b.Temp()
		l.b.Emit(fmt.Sprintf("%s = alloca %s", reg, p.Ty))
		ptr := ir.Value{Repr: reg, Ty: ir.TPtr(p.Ty)}
		l.b.Emit(fmt.Sprintf("store %s %%%s, %s %s", p.Ty, p.Name, ptr.Ty, ptr))
		vd, _ := entry.Params.Get(p.Name)
		l.locals[p.Name] = &slot{ptr: ptr, vt: vd.Type}
	}

	l.lowerHeader(pd.Header, entry.Params, depth+1, false)
	if l.failed() {
		l.locals, l.local, l.b, l.curEntry = savedLocals, savedLocal, savedB, savedEntry
		return
	}

	bodyBlk := l.b.Block("procBody")
	entryBlk.Br(bodyBlk.Label)

	l.lowerBlock(pd.Body)
	if !l.failed() && !l.b.Current().Terminated() {
		// A body whose last statement is an if with returns in both arms
		// leaves an unreachable merge block open; a body with no return at
		// all falls off its end. Either way the trailing block gets a
		// default return so every block has a terminator.
		if pd.HasRet {
			l.b.Current().Ret(ir.ZeroValue(retTy))
		} else {
			l.b.Current().RetVoid()
		}
	}

	l.locals, l.local, l.b, l.curEntry = savedLocals, savedLocal, savedB, savedEntry
}

// resolveCallTarget mirrors lang/checker's call-site resolution: look up
// ref.Name in the same two-tier table the checker validated against, and
// return the mangled IR symbol lowerProcedure already assigned it.
func (l *lowerer) resolveCallTarget(ref *ast.ProcRef) (mangledName string, entry *symtab.Entry, isBuiltin bool, ok bool) {
	if _, builtin := runtimeABI[ref.Name]; builtin {
		return ref.Name, nil, true, true
	}
	if l.curEntry != nil && ref.Name == l.curEntry.Name {
		name, ok := l.mangled[l.curEntry.Body]
		return name, l.curEntry, false, ok
	}
	entry, found := symtab.Lookup(l.local, l.globalTab, ref.Name)
	if !found || entry.Kind != symtab.ProcedureKind {
		return "", nil, false, false
	}
	name, ok := l.mangled[entry.Body]
	return name, entry, false, ok
}
