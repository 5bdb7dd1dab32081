package checker

import (
	"github.com/kortho/varta/lang/symtab"
	"github.com/kortho/varta/lang/types"
)

// builtin describes one runtime-provided procedure. getstring has no
// runtime implementation and is deliberately absent from this list.
type builtin struct {
	name    string
	params  []types.VarType
	retType types.VarType
	hasRet  bool
}

var builtins = []builtin{
	{name: "getinteger", retType: types.TInt, hasRet: true},
	{name: "getfloat", retType: types.TFloat, hasRet: true},
	{name: "getbool", retType: types.TBool, hasRet: true},
	{name: "putinteger", params: []types.VarType{types.TInt}},
	{name: "putfloat", params: []types.VarType{types.TFloat}},
	{name: "putbool", params: []types.VarType{types.TBool}},
	{name: "putstring", params: []types.VarType{types.TStr}},
	{name: "sqrt", params: []types.VarType{types.TFloat}, retType: types.TFloat, hasRet: true},
}

// registerBuiltins seeds global with one ProcedureKind entry per runtime
// function, so call sites resolve and arity/type-check them exactly like
// any user-declared procedure.
func registerBuiltins(global *symtab.Table) {
	for _, b := range builtins {
		params := symtab.New()
		names := make([]string, len(b.params))
		for i, pt := range b.params {
			names[i] = paramName(i)
			params.Insert(&symtab.Entry{Name: names[i], Type: pt, Kind: symtab.VariableKind})
		}
		global.Insert(&symtab.Entry{
			Name:       b.name,
			Type:       b.retType,
			Kind:       symtab.ProcedureKind,
			HasRet:     b.hasRet,
			ParamNames: names,
			Params:     params,
		})
	}
}

func paramName(i int) string {
	return string(rune('a' + i))
}
