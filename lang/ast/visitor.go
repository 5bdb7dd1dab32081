package ast

// Node is either a Stmt or an Expr; Walk visits both kinds.
type Node interface{}

// VisitDirection indicates whether a call to Visit enters or exits a node.
type VisitDirection int

// List of visit directions.
const (
	VisitEnter VisitDirection = iota
	VisitExit
)

// Visitor defines the method to implement for a Visitor, which gets called
// for each participating node in the call to Walk. A node's children can
// be skipped by returning a nil visitor from the call to Visit.
type Visitor interface {
	Visit(n Node, dir VisitDirection) (w Visitor)
}

// VisitorFunc is a function that implements the Visitor interface.
type VisitorFunc func(n Node, dir VisitDirection) Visitor

// Visit implements the Visitor interface for VisitorFunc.
func (f VisitorFunc) Visit(n Node, dir VisitDirection) Visitor {
	return f(n, dir)
}

// Walk visits each node with Visitor v starting with the provided node. It
// first calls Visit with the node in VisitEnter direction, and if that call
// returns a non-nil Visitor, it recursively walks the children of this node
// and calls Visit again with the node and VisitExit direction when it exits
// the node (after all children have been visited).
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	w := v.Visit(node, VisitEnter)
	if w == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkBlock(w, n.Header)
		walkBlock(w, n.Body)
	case *ProcDecl:
		walkBlock(w, n.Params)
		walkBlock(w, n.Header)
		walkBlock(w, n.Body)
	case *Block:
		for _, s := range n.Stmts {
			Walk(w, s)
		}
	case *Assign:
		Walk(w, n.Target)
		Walk(w, n.Value)
	case *If:
		Walk(w, n.Cond)
		walkBlock(w, n.ThenBlock)
		walkBlock(w, n.ElseBlock)
	case *For:
		if n.Init != nil {
			Walk(w, n.Init)
		}
		Walk(w, n.Cond)
		walkBlock(w, n.Body)
	case *Return:
		if n.Value != nil {
			Walk(w, n.Value)
		}
	case *ExprStmt:
		Walk(w, n.X)
	case *ArrayRef:
		Walk(w, n.Index)
	case *ProcRef:
		for _, a := range n.Args {
			Walk(w, a)
		}
	case *ArthOp:
		Walk(w, n.Lhs)
		Walk(w, n.Rhs)
	case *RelOp:
		Walk(w, n.Lhs)
		Walk(w, n.Rhs)
	case *LogOp:
		if n.Lhs != nil {
			Walk(w, n.Lhs)
		}
		Walk(w, n.Rhs)
	}

	v.Visit(node, VisitExit)
}

func walkBlock(v Visitor, b *Block) {
	if b != nil {
		Walk(v, b)
	}
}
