package ast

// IntLiteral is a literal integer.
type IntLiteral struct{ Value int64 }

// FloatLiteral is a literal single-precision float.
type FloatLiteral struct{ Value float32 }

// StringLiteral is a literal string; Value already carries the
// 65-byte-padded form produced by the scanner.
type StringLiteral struct{ Value string }

// BoolLiteral is a literal boolean.
type BoolLiteral struct{ Value bool }

// IntArrayLiteral is an inline array literal of the given declared size
// and element values. The parser never produces one (the surface grammar
// has no array constant; arrays are built up element-by-element via
// Assign to ArrayRef), but the checker, lowerer and printer accept it.
type IntArrayLiteral struct {
	Size int32
	Elts []int64
}

// VarRef references a variable or procedure parameter by name.
type VarRef struct{ Name string }

// ArrayRef indexes an IntArray variable.
type ArrayRef struct {
	Name  string
	Index Expr
}

// ProcRef calls a procedure (built-in or user-declared) with Args.
type ProcRef struct {
	Name string
	Args []Expr
}

// ArthOp is an arithmetic binary expression (+, -, *, /).
type ArthOp struct {
	Lhs, Rhs Expr
	Op       Op
}

// RelOp is a relational binary expression (<, <=, >, >=, ==, !=).
type RelOp struct {
	Lhs, Rhs Expr
	Op       Op
}

// LogOp is a bitwise logical expression (&, |) or unary (not).
// For the unary "not" form, Lhs is nil and only Rhs is populated.
type LogOp struct {
	Lhs, Rhs Expr
	Op       Op
}

func (*IntLiteral) exprNode()      {}
func (*FloatLiteral) exprNode()    {}
func (*StringLiteral) exprNode()   {}
func (*BoolLiteral) exprNode()     {}
func (*IntArrayLiteral) exprNode() {}
func (*VarRef) exprNode()          {}
func (*ArrayRef) exprNode()        {}
func (*ProcRef) exprNode()         {}
func (*ArthOp) exprNode()          {}
func (*RelOp) exprNode()           {}
func (*LogOp) exprNode()           {}

// NewBinOp builds the correctly classified Expr wrapper for op.
func NewBinOp(lhs, rhs Expr, op Op) Expr {
	switch op.Classify() {
	case Rel:
		return &RelOp{Lhs: lhs, Rhs: rhs, Op: op}
	case Log:
		return &LogOp{Lhs: lhs, Rhs: rhs, Op: op}
	default:
		return &ArthOp{Lhs: lhs, Rhs: rhs, Op: op}
	}
}

// NewNot builds the unary "not x" expression.
func NewNot(rhs Expr) Expr {
	return &LogOp{Rhs: rhs, Op: Not}
}

// VoidReturnSentinel is the sentinel VarRef("") used by Return to mean
// "no value".
var VoidReturnSentinel = &VarRef{Name: ""}

// IsVoidReturn reports whether e is the void-return sentinel.
func IsVoidReturn(e Expr) bool {
	v, ok := e.(*VarRef)
	return ok && v.Name == ""
}
