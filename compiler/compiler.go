// Package compiler implements component E of the pipeline, the AST lowering
// visitor: it walks a well-defined subset of ast.Node and emits a symbolic
// instruction stream against a code.Builder, using a private frame stack
// (frame.go) to resolve non-local break/continue and finally unwinding.
//
// Compile produces a symbolic code.Builder, not a linked code object;
// linking (component F) is a separate step the caller performs with
// package linker — except for nested function and class bodies, which this
// package links eagerly as part of lowering their enclosing FunctionDef or
// ClassDef, per the spec's data-flow note that nested compilation
// "recursively spawns child builders... each linked via F and stored as a
// constant in the parent pool".
package compiler

import (
	"fmt"

	"github.com/pexlang/pexc/ast"
	"github.com/pexlang/pexc/code"
)

// Compiler holds the mutable lowering state for one code object: the
// builder it emits into, and the stack of enclosing control frames.
type Compiler struct {
	b      *code.Builder
	frames []frame
}

// New returns a Compiler ready to lower a fresh code object of the given
// type.
func New(typ code.CodeType) *Compiler {
	return &Compiler{b: code.NewBuilder(typ)}
}

// Builder returns the compiler's in-progress symbolic code builder.
func (c *Compiler) Builder() *code.Builder { return c.b }

// Compile lowers a module's top-level statements into a fresh symbolic
// code.Builder of type code.Module. The caller is responsible for linking
// the result with package linker.
func Compile(module *ast.Module) (*code.Builder, error) {
	c := New(code.Module)
	if err := c.compileStmts(module.Body); err != nil {
		return nil, err
	}
	return c.b, nil
}

// compileStmts lowers a statement list in order.
func (c *Compiler) compileStmts(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := c.compileStmt(s); err != nil {
			return err
		}
	}
	return nil
}

// compileStmt dispatches on stmt's concrete type. Every statement variant
// the module's AST package defines must have an arm here; an unhandled
// variant is a programming error in this package, not a user-triggerable
// one, since ast.Stmt is a closed interface implemented only within the
// ast package.
func (c *Compiler) compileStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		c.b.Stack(code.StackPop)
		return nil

	case *ast.Assign:
		return c.compileAssign(s)

	case *ast.If:
		return c.compileIf(s)

	case *ast.While:
		return c.compileWhile(s)

	case *ast.For:
		return c.compileFor(s)

	case *ast.Pass:
		c.b.Nop()
		return nil

	case *ast.Break:
		lf, err := c.emitUnwind("break")
		if err != nil {
			return err
		}
		c.b.Jump(lf.end)
		return nil

	case *ast.Continue:
		lf, err := c.emitUnwind("continue")
		if err != nil {
			return err
		}
		c.b.Jump(lf.start)
		return nil

	case *ast.Delete:
		for _, target := range s.Targets {
			if err := c.compileTarget(target, ast.Del); err != nil {
				return err
			}
		}
		return nil

	case *ast.Return:
		if s.Value != nil {
			if err := c.compileExpr(s.Value); err != nil {
				return err
			}
		} else {
			c.b.AddConst(code.None{})
		}
		c.b.Return()
		return nil

	case *ast.Raise:
		return c.compileRaise(s)

	case *ast.Try:
		return c.compileTry(s)

	case *ast.FunctionDef:
		return c.compileFunctionDef(s)

	case *ast.ClassDef:
		return c.compileClassDef(s)

	default:
		return &UnsupportedError{Construct: fmt.Sprintf("%T", stmt)}
	}
}

// compileAssign lowers `targets[0] = targets[1] = ... = value`: the value
// is lowered once, duplicated before every target but the last, and each
// target consumes one copy in source order.
func (c *Compiler) compileAssign(a *ast.Assign) error {
	if err := c.compileExpr(a.Value); err != nil {
		return err
	}
	for i, target := range a.Targets {
		if i < len(a.Targets)-1 {
			c.b.Stack(code.StackDup)
		}
		if err := c.compileTarget(target, ast.Store); err != nil {
			return err
		}
	}
	return nil
}

// compileRaise lowers a bare `raise` (re-raise the active exception) or
// `raise exc [from cause]`.
func (c *Compiler) compileRaise(r *ast.Raise) error {
	if r.Exc == nil {
		c.b.GetException()
		c.b.Raise()
		return nil
	}
	if err := c.compileExpr(r.Exc); err != nil {
		return err
	}
	if r.Cause != nil {
		// attribute(set) pops (value, object) with object on top (the same
		// convention compileTarget's Attribute case uses), so the freshly
		// duplicated exception — the object being mutated — must be swapped
		// above the value just pushed.
		c.b.Stack(code.StackDup)
		c.b.AddConst(code.None{})
		c.b.Stack(code.StackSwap2)
		c.b.Attribute(c.b.Pool().Intern(code.String{Value: "__context__"}), code.ActionSet)
		c.b.Stack(code.StackDup)
		if err := c.compileExpr(r.Cause); err != nil {
			return err
		}
		c.b.Stack(code.StackSwap2)
		c.b.Attribute(c.b.Pool().Intern(code.String{Value: "__cause__"}), code.ActionSet)
	}
	c.b.Raise()
	return nil
}
