// Package ast defines the abstract syntax tree consumed by the compiler.
//
// The tree models the accepted subset of a high-level, indentation-structured
// dynamic language: classes, exceptions, first-class functions, the iterator
// protocol, and ordinary mixed control flow. Parsing is out of scope for this
// module — an external front end builds these nodes and hands them to
// compiler.Compile. Node shapes here mirror the source language's own AST
// module closely (see original_source in the retrieval pack) rather than
// re-deriving a parser-facing grammar.
package ast

// Node is the base interface implemented by every AST node.
type Node interface {
	// node is a marker method that restricts implementers to this package's
	// node set.
	node()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Ctx describes the context (load/store/delete) a name, attribute,
// subscript, or aggregate expression is evaluated in.
type Ctx int

const (
	// Load reads the current value of the target.
	Load Ctx = iota
	// Store assigns a new value to the target.
	Store
	// Del removes the binding or slot named by the target.
	Del
)

// String returns a human-readable rendering of the context, used in error
// messages produced by the compiler.
func (c Ctx) String() string {
	switch c {
	case Load:
		return "load"
	case Store:
		return "store"
	case Del:
		return "del"
	default:
		return "unknown"
	}
}

// Module is the root node for a compiled unit: a flat sequence of top-level
// statements.
type Module struct {
	Body []Stmt
}

func (*Module) node() {}
