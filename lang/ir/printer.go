package ir

import (
	"fmt"
	"strings"
)

// Print renders m in the textual out.ll form.
func Print(m *Module) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; ModuleID = '%s'\n\n", m.Name)

	for _, g := range m.Globals {
		kind := "global"
		if g.Constant {
			kind = "constant"
		}
		init := ZeroValue(g.Ty).Repr
		if g.Init != nil {
			init = g.Init.Repr
		}
		fmt.Fprintf(&sb, "@%s = %s %s %s\n", g.Name, kind, g.Ty, init)
	}
	if len(m.Globals) > 0 {
		sb.WriteByte('\n')
	}

	for _, e := range m.Externs {
		params := make([]string, len(e.Params))
		for i, p := range e.Params {
			params[i] = p.String()
		}
		ret := "void"
		if e.RetType != nil {
			ret = e.RetType.String()
		}
		fmt.Fprintf(&sb, "declare %s @%s(%s)\n", ret, e.Name, strings.Join(params, ", "))
	}
	if len(m.Externs) > 0 {
		sb.WriteByte('\n')
	}

	for i, fn := range m.Functions {
		if i > 0 {
			sb.WriteByte('\n')
		}
		printFunction(&sb, fn)
	}
	return sb.String()
}

func printFunction(sb *strings.Builder, fn *Function) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s %%%s", p.Ty, p.Name)
	}
	ret := "void"
	if fn.RetType != nil {
		ret = fn.RetType.String()
	}
	fmt.Fprintf(sb, "define %s @%s(%s) {\n", ret, fn.Name, strings.Join(params, ", "))
	for _, b := range fn.Blocks {
		fmt.Fprintf(sb, "%s:\n", b.Label)
		for _, line := range b.Instrs {
			fmt.Fprintf(sb, "  %s\n", line)
		}
		sb.WriteString("  ")
		sb.WriteString(printTerminator(b.Term))
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n")
}

func printTerminator(t *Terminator) string {
	if t == nil {
		return "; <<missing terminator>>"
	}
	switch t.Kind {
	case TermBr:
		return fmt.Sprintf("br label %%%s", t.Target)
	case TermCondBr:
		return fmt.Sprintf("br i1 %s, label %%%s, label %%%s", t.Cond, t.True, t.False)
	case TermRet:
		return fmt.Sprintf("ret %s %s", t.RetVal.Ty, t.RetVal)
	case TermRetVoid:
		return "ret void"
	default:
		return "; <<missing terminator>>"
	}
}
