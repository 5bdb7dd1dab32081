// Package lower turns a checked AST into an lang/ir.Module: a builder
// bound to the function/block currently being emitted walks the AST
// once, materializing storage slots and producing a linear instruction
// stream per basic block.
package lower

import (
	"fmt"
	"sort"

	"github.com/kortho/varta/lang/ast"
	"github.com/kortho/varta/lang/ir"
	"github.com/kortho/varta/lang/symtab"
	"github.com/kortho/varta/lang/types"
)

// runtimeABI is the externally-declared signature of every built-in,
// expressed directly in IR types rather than in Varta's own VarType:
// sqrt's ABI (i32 in, f64 out) genuinely disagrees with the checker's
// type-checking view of it (float in, float out), which is exactly why
// this table is independent of lang/checker's builtin list.
var runtimeABI = map[string]struct {
	params []*ir.Type
	ret    *ir.Type
}{
	"getinteger": {nil, ir.TI32},
	"getfloat":   {nil, ir.TF32},
	"getbool":    {nil, ir.TI1},
	"putinteger": {[]*ir.Type{ir.TI32}, ir.TI1},
	"putfloat":   {[]*ir.Type{ir.TF32}, ir.TI1},
	"putbool":    {[]*ir.Type{ir.TI1}, ir.TI1},
	"putstring":  {[]*ir.Type{ir.TPtr(ir.StringType())}, ir.TI1},
	"sqrt":       {[]*ir.Type{ir.TI32}, ir.TF64},
}

// Error is returned for an internal-invariant-breach lowering failure:
// a missing symbol despite passing the checker, or an unsupported
// operator class. These indicate the checker and lowerer disagree about
// the program's validity, which should never happen for AST the checker
// accepted.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("In line %d: %s", e.Line, e.Message) }

// slot is a materialized storage location: the pointer value plus the
// source VarType, needed to pick the right load/GEP/element type later.
type slot struct {
	ptr ir.Value
	vt  types.VarType
}

// lowerer carries the lowering scratch state: one module-lifetime
// global name→pointer map, and (while lowering one function) a local
// name→pointer map, plus a builder bound to the block currently being
// emitted.
type lowerer struct {
	mod *ir.Module

	globalTab *symtab.Table // the checker's global table, for type/arity lookups only
	globals   map[string]*slot

	locals map[string]*slot
	local  *symtab.Table // current procedure's local table (nil at program scope)

	// curEntry is the symbol entry of the procedure currently being
	// lowered, nil while lowering main. A self-call resolves through it
	// directly: the callee's entry lives in the enclosing scope's table,
	// which is not part of the two-tier lookup while the procedure's own
	// body is the current scope. The checker's forward self-reference
	// concession is the other half of this.
	curEntry *symtab.Entry

	b *ir.Builder

	// mangled records the IR symbol chosen for each lowered ProcDecl, so
	// a call site that already resolved its target via symtab.Lookup (the
	// same two-tier lookup the checker used) can find the unique name
	// without re-deriving it from a bare string.
	mangled map[*ast.ProcDecl]string

	strLits int // counter for materializing string-literal globals
	globLit int // counter for materializing array-literal globals

	// line is the source line of the statement currently being lowered,
	// so a fatal error raised deep inside an expression still names it.
	line int

	fatal *Error
}

// Lower lowers prog (already validated by lang/checker) using its
// resulting global symbol table, returning the IR module or the first
// internal-invariant-breach error encountered.
func Lower(prog *ast.Program, global *symtab.Table) (*ir.Module, error) {
	l := &lowerer{
		mod:       &ir.Module{Name: prog.Name},
		globalTab: global,
		globals:   make(map[string]*slot),
		mangled:   make(map[*ast.ProcDecl]string),
	}
	names := make([]string, 0, len(runtimeABI))
	for name := range runtimeABI {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sig := runtimeABI[name]
		l.mod.AddExtern(name, sig.params, sig.ret)
	}

	l.lowerMain(prog)
	if l.fatal != nil {
		return nil, l.fatal
	}
	if err := ir.Verify(l.mod); err != nil {
		return nil, err
	}
	return l.mod, nil
}

func (l *lowerer) fail(line int, format string, args ...interface{}) {
	if l.fatal == nil {
		l.fatal = &Error{Line: line, Message: fmt.Sprintf(format, args...)}
	}
}

func (l *lowerer) failed() bool { return l.fatal != nil }

// lowerType maps a VarType to its IR representation.
func lowerType(t types.VarType) *ir.Type {
	switch t.Kind {
	case types.Int:
		return ir.TI32
	case types.Float:
		return ir.TF32
	case types.Bool:
		return ir.TI1
	case types.Str:
		return ir.StringType()
	case types.IntArray:
		return ir.TArray(ir.TI32, int(t.Size))
	default:
		return ir.TI32
	}
}

func isAggregate(t types.VarType) bool { return t.Kind == types.Str || t.Kind == types.IntArray }

// mangle builds the unique IR symbol for a procedure declared at scope
// depth: the scope counter value active while the declaration itself
// was encountered, exactly mirroring lang/parser's scope field.
func mangle(depth int, name string) string {
	return fmt.Sprintf("scope%d_%s", depth, name)
}
