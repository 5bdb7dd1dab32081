package ast

import "github.com/kortho/varta/lang/types"

// Program is the top-level node: "program NAME is header begin body end program".
type Program struct {
	base
	Name   string
	Header *Block
	Body   *Block
}

// ProcDecl declares a procedure: its return type, name, parameters
// (a Block of VarDecl), its own header block (nested declarations) and
// its body block.
type ProcDecl struct {
	base
	RetType types.VarType
	HasRet  bool // false for a procedure with no return type
	Name    string
	Params  *Block // of *VarDecl
	Header  *Block
	Body    *Block
}

// VarDecl declares a local variable.
type VarDecl struct {
	base
	Name string
	Type types.VarType
}

func (d *VarDecl) DeclName() string        { return d.Name }
func (d *VarDecl) DeclType() types.VarType { return d.Type }

// GlobVarDecl declares a global variable (parsed either from a bare
// "variable" at program scope, or an explicit "global variable" prefix
// anywhere).
type GlobVarDecl struct {
	base
	Name string
	Type types.VarType
}

func (d *GlobVarDecl) DeclName() string        { return d.Name }
func (d *GlobVarDecl) DeclType() types.VarType { return d.Type }

// Assign is "target := value;" where target is a VarRef or ArrayRef.
type Assign struct {
	base
	Target Expr
	Value  Expr
}

// If is "if (cond) then thenBlock [else elseBlock] end if".
type If struct {
	base
	Cond      Expr
	ThenBlock *Block
	ElseBlock *Block // nil if there was no else clause
}

// For is "for (init cond) body end for".
type For struct {
	base
	Init *Assign
	Cond Expr
	Body *Block
}

// Return is "return value;" or a bare "return;" (the parser stores
// VoidReturnSentinel as Value for the latter; the checker, lowerer and
// printer also treat a nil Value as a void return).
type Return struct {
	base
	Value Expr
}

// Block is an ordered sequence of statements forming a lexical scope's
// declaration header or executable body.
type Block struct {
	Stmts []Stmt
}

// ExprStmt wraps a bare expression used as a statement (e.g. a
// discarded procedure call).
type ExprStmt struct {
	base
	X Expr
}

func (*Program) stmtNode()     {}
func (*ProcDecl) stmtNode()    {}
func (*VarDecl) stmtNode()     {}
func (*GlobVarDecl) stmtNode() {}
func (*Assign) stmtNode()      {}
func (*If) stmtNode()          {}
func (*For) stmtNode()         {}
func (*Return) stmtNode()      {}
func (*ExprStmt) stmtNode()    {}

// NewProgram and friends are the parser's only way to build nodes with a
// line attached; kept as simple constructors rather than exported fields
// so base stays unexported.

func NewProgram(line int, name string, header, body *Block) *Program {
	return &Program{base: base{line}, Name: name, Header: header, Body: body}
}

func NewProcDecl(line int, retType types.VarType, hasRet bool, name string, params, header, body *Block) *ProcDecl {
	return &ProcDecl{base: base{line}, RetType: retType, HasRet: hasRet, Name: name, Params: params, Header: header, Body: body}
}

func NewVarDecl(line int, name string, t types.VarType) *VarDecl {
	return &VarDecl{base: base{line}, Name: name, Type: t}
}

func NewGlobVarDecl(line int, name string, t types.VarType) *GlobVarDecl {
	return &GlobVarDecl{base: base{line}, Name: name, Type: t}
}

func NewAssign(line int, target, value Expr) *Assign {
	return &Assign{base: base{line}, Target: target, Value: value}
}

func NewIf(line int, cond Expr, thenBlock, elseBlock *Block) *If {
	return &If{base: base{line}, Cond: cond, ThenBlock: thenBlock, ElseBlock: elseBlock}
}

func NewFor(line int, init *Assign, cond Expr, body *Block) *For {
	return &For{base: base{line}, Init: init, Cond: cond, Body: body}
}

func NewReturn(line int, value Expr) *Return {
	return &Return{base: base{line}, Value: value}
}

func NewExprStmt(line int, x Expr) *ExprStmt {
	return &ExprStmt{base: base{line}, X: x}
}
