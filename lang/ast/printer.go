package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a canonical textual form of a Program, stable across
// re-parses of the same source. Parenthesization is always explicit so
// the parser's right-grouped, precedence-free operator chains are
// unambiguous in the printed form even though the surface grammar
// doesn't require them.
func Print(p *Program) string {
	var sb strings.Builder
	sb.WriteString("program ")
	sb.WriteString(p.Name)
	sb.WriteString(" is\n")
	printBlock(&sb, p.Header, 1)
	sb.WriteString("begin\n")
	printBlock(&sb, p.Body, 1)
	sb.WriteString("end program\n")
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func printBlock(sb *strings.Builder, b *Block, depth int) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		printStmt(sb, s, depth)
	}
}

func printStmt(sb *strings.Builder, s Stmt, depth int) {
	indent(sb, depth)
	switch s := s.(type) {
	case *ProcDecl:
		ret := "void"
		if s.HasRet {
			ret = s.RetType.String()
		}
		sb.WriteString(fmt.Sprintf("procedure %s : %s (%s)\n", s.Name, ret, printParams(s.Params)))
		printBlock(sb, s.Header, depth+1)
		indent(sb, depth)
		sb.WriteString("begin\n")
		printBlock(sb, s.Body, depth+1)
		indent(sb, depth)
		sb.WriteString("end procedure\n")

	case *VarDecl:
		sb.WriteString(fmt.Sprintf("variable %s : %s;\n", s.Name, s.Type))

	case *GlobVarDecl:
		sb.WriteString(fmt.Sprintf("global variable %s : %s;\n", s.Name, s.Type))

	case *Assign:
		sb.WriteString(printExpr(s.Target))
		sb.WriteString(" := ")
		sb.WriteString(printExpr(s.Value))
		sb.WriteString(";\n")

	case *If:
		sb.WriteString("if (")
		sb.WriteString(printExpr(s.Cond))
		sb.WriteString(") then\n")
		printBlock(sb, s.ThenBlock, depth+1)
		if s.ElseBlock != nil {
			indent(sb, depth)
			sb.WriteString("else\n")
			printBlock(sb, s.ElseBlock, depth+1)
		}
		indent(sb, depth)
		sb.WriteString("end if\n")

	case *For:
		sb.WriteString("for (")
		sb.WriteString(strings.TrimSuffix(strings.TrimSpace(printAssignInline(s.Init)), ";"))
		sb.WriteString("; ")
		sb.WriteString(printExpr(s.Cond))
		sb.WriteString(")\n")
		printBlock(sb, s.Body, depth+1)
		indent(sb, depth)
		sb.WriteString("end for\n")

	case *Return:
		if s.Value == nil || IsVoidReturn(s.Value) {
			sb.WriteString("return;\n")
		} else {
			sb.WriteString("return ")
			sb.WriteString(printExpr(s.Value))
			sb.WriteString(";\n")
		}

	case *ExprStmt:
		sb.WriteString(printExpr(s.X))
		sb.WriteString(";\n")

	default:
		sb.WriteString(fmt.Sprintf("<?%T>\n", s))
	}
}

// printParams renders a procedure's parameter list as the comma-separated
// "name : type" form the parser accepts, distinct from how a VarDecl
// prints inside an ordinary header or body.
func printParams(params *Block) string {
	if params == nil || len(params.Stmts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(params.Stmts))
	for _, s := range params.Stmts {
		if v, ok := s.(*VarDecl); ok {
			parts = append(parts, fmt.Sprintf("%s : %s", v.Name, v.Type))
		}
	}
	return strings.Join(parts, ", ")
}

func printAssignInline(a *Assign) string {
	if a == nil {
		return ""
	}
	return printExpr(a.Target) + " := " + printExpr(a.Value) + ";"
}

func printExpr(e Expr) string {
	switch e := e.(type) {
	case *IntLiteral:
		return strconv.FormatInt(e.Value, 10)
	case *FloatLiteral:
		return strconv.FormatFloat(float64(e.Value), 'g', -1, 32)
	case *StringLiteral:
		return strconv.Quote(strings.TrimRight(e.Value, "\x00"))
	case *BoolLiteral:
		if e.Value {
			return "true"
		}
		return "false"
	case *IntArrayLiteral:
		parts := make([]string, len(e.Elts))
		for i, v := range e.Elts {
			parts[i] = strconv.FormatInt(v, 10)
		}
		return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
	case *VarRef:
		return e.Name
	case *ArrayRef:
		return fmt.Sprintf("%s[%s]", e.Name, printExpr(e.Index))
	case *ProcRef:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = printExpr(a)
		}
		return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))
	case *ArthOp:
		return fmt.Sprintf("(%s %s %s)", printExpr(e.Lhs), e.Op, printExpr(e.Rhs))
	case *RelOp:
		return fmt.Sprintf("(%s %s %s)", printExpr(e.Lhs), e.Op, printExpr(e.Rhs))
	case *LogOp:
		if e.Lhs == nil {
			return fmt.Sprintf("(not %s)", printExpr(e.Rhs))
		}
		return fmt.Sprintf("(%s %s %s)", printExpr(e.Lhs), e.Op, printExpr(e.Rhs))
	default:
		return fmt.Sprintf("<?%T>", e)
	}
}
