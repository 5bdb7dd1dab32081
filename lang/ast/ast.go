// Package ast defines the abstract syntax tree produced by the parser
// and consumed by the checker and lowerer.
//
// Nodes are plain Go structs linked by pointer/slice rather than an
// arena-and-index scheme: the AST is built once per compilation and
// never mutated or re-parented afterwards.
package ast

import "github.com/kortho/varta/lang/types"

// Op is the single operator enumeration shared by every operator
// expression: each binary operator is stored once here, and Classify
// derives which of ArthOp/RelOp/LogOp wraps it.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Greater
	Less
	GreaterEqual
	LessEqual
	CheckEqual
	NotEquals
	And
	Or
	Not
)

// Category is the result of classifying an Op.
type Category int

const (
	Arith Category = iota
	Rel
	Log
)

// Classify returns which expression wrapper an operator belongs to. The
// parser uses this to normalize operator-operand expressions into the
// correct Expr variant, so an ArthOp never carries a relational or
// logical operator (nor the converse) by construction.
func (o Op) Classify() Category {
	switch o {
	case Add, Sub, Mul, Div:
		return Arith
	case Greater, Less, GreaterEqual, LessEqual, CheckEqual, NotEquals:
		return Rel
	case And, Or, Not:
		return Log
	default:
		return Arith
	}
}

func (o Op) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Greater:
		return ">"
	case Less:
		return "<"
	case GreaterEqual:
		return ">="
	case LessEqual:
		return "<="
	case CheckEqual:
		return "=="
	case NotEquals:
		return "!="
	case And:
		return "&"
	case Or:
		return "|"
	case Not:
		return "not"
	default:
		return "?"
	}
}

// Stmt is implemented by every statement node. Every statement carries
// its source line.
type Stmt interface {
	stmtNode()
	Line() int
}

// Expr is implemented by every expression node.
type Expr interface {
	exprNode()
}

type base struct {
	line int
}

func (b base) Line() int { return b.line }

// VarDeclLike is implemented by both VarDecl and GlobVarDecl so the
// checker and lowerer can treat local/global declarations uniformly
// where the distinction doesn't matter.
type VarDeclLike interface {
	Stmt
	DeclName() string
	DeclType() types.VarType
}
