// Package symtab implements the two-tier symbol table: a single shared
// global table plus, while checking or lowering a procedure, one local
// table bound to that procedure's scope. Lookup goes local first, then
// global; insertion never overwrites.
//
// Tables are backed by github.com/dolthub/swiss: every identifier
// reference in the checker and lowerer goes through a lookup here, so
// the symbol table gets the same open-addressing map the rest of the
// codebase uses for hot name->value lookups.
package symtab

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/kortho/varta/lang/ast"
	"github.com/kortho/varta/lang/types"
)

// Kind distinguishes a plain variable binding from a procedure binding.
type Kind int

const (
	VariableKind Kind = iota
	ProcedureKind
)

// Entry is a single symbol-table binding. For a ProcedureKind entry,
// ParamNames, Params and Body are populated so call-site checks can
// verify arity and parameter types.
type Entry struct {
	Name string
	Type types.VarType // return type for a procedure that returns a value
	Kind Kind
	// HasRet is false for a procedure declared with no return type.
	HasRet bool

	ParamNames []string
	Params     *Table // the procedure's own local table, retained for call-site checks
	Body       *ast.ProcDecl
}

// Table is a single scope's name→*Entry binding set, backed by
// github.com/dolthub/swiss for its lookup.
type Table struct {
	m *swiss.Map[string, *Entry]
}

// New returns an empty Table.
func New() *Table {
	return &Table{m: swiss.NewMap[string, *Entry](8)}
}

// Insert binds name to e. It is an error to insert a name already bound
// in this same table: insertion never overwrites, redefinition is a hard
// error.
func (t *Table) Insert(e *Entry) error {
	if _, ok := t.m.Get(e.Name); ok {
		return fmt.Errorf("%q is already declared in this scope", e.Name)
	}
	t.m.Put(e.Name, e)
	return nil
}

// Get looks up name in this table only (no fallthrough to another
// scope).
func (t *Table) Get(name string) (*Entry, bool) {
	return t.m.Get(name)
}

// Len returns the number of bindings in this table.
func (t *Table) Len() int {
	return t.m.Count()
}

// Each calls fn once per binding, in unspecified order.
func (t *Table) Each(fn func(name string, e *Entry)) {
	t.m.Iter(func(k string, v *Entry) bool {
		fn(k, v)
		return false
	})
}

// Lookup resolves name local-table first, then global.
// Either table may be nil (the global table is never nil in practice,
// but the local table is nil at program scope).
func Lookup(local, global *Table, name string) (*Entry, bool) {
	if local != nil {
		if e, ok := local.Get(name); ok {
			return e, true
		}
	}
	if global != nil {
		if e, ok := global.Get(name); ok {
			return e, true
		}
	}
	return nil, false
}
