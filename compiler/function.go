package compiler

import (
	"github.com/pexlang/pexc/ast"
	"github.com/pexlang/pexc/code"
	"github.com/pexlang/pexc/linker"
)

// compileFunctionDef compiles the function body in a fresh Compiler, links
// it, stores the result as a constant of the enclosing code, and binds it
// to the function's name.
//
// The prologue pushed ahead of the body describes the parameter list so
// the (out-of-scope) interpreter can bind arguments without any
// compile-time symbol resolution: positional names, the positional count,
// default value expressions, the default count, then keyword-only
// parameters each paired with a has-default flag and optional default
// expression, and finally the keyword-only count.
func (c *Compiler) compileFunctionDef(s *ast.FunctionDef) error {
	inner := New(code.Function)
	if err := inner.compilePrologue(s.Args); err != nil {
		return err
	}
	inner.b.InitFunction()
	if err := inner.compileStmts(s.Body); err != nil {
		return err
	}

	linked, err := linker.Link(inner.b)
	if err != nil {
		return err
	}
	c.b.AddConst(code.CodeConstant{Code: linked})
	c.b.Name(s.Name, code.ActionSet)
	return nil
}

// compilePrologue emits a function body's parameter-description prologue,
// evaluated in the function's own (inner) scope since default-value
// expressions may reference names from the enclosing scope only through
// ordinary `name load` instructions at call time — the core performs no
// closure analysis.
func (c *Compiler) compilePrologue(args ast.Arguments) error {
	for _, a := range args.Args {
		c.b.AddConst(code.String{Value: a.Name})
	}
	c.b.AddConst(code.Int{Value: int64(len(args.Args))})

	for _, d := range args.Defaults {
		if err := c.compileExpr(d); err != nil {
			return err
		}
	}
	c.b.AddConst(code.Int{Value: int64(len(args.Defaults))})

	for i, a := range args.KwOnly {
		c.b.AddConst(code.String{Value: a.Name})
		hasDefault := i < len(args.KwDefaults) && args.KwDefaults[i] != nil
		c.b.AddConst(code.Bool{Value: hasDefault})
		if hasDefault {
			if err := c.compileExpr(args.KwDefaults[i]); err != nil {
				return err
			}
		}
	}
	c.b.AddConst(code.Int{Value: int64(len(args.KwOnly))})
	return nil
}

// compileClassDef evaluates each base class in the enclosing scope, then
// compiles, links, and loads the class body as a constant, emits
// make_class, and binds the result to the class name. Metaclass and
// keyword base arguments are not supported.
func (c *Compiler) compileClassDef(s *ast.ClassDef) error {
	for _, base := range s.Bases {
		if err := c.compileExpr(base); err != nil {
			return err
		}
	}

	inner := New(code.Class)
	if err := inner.compileStmts(s.Body); err != nil {
		return err
	}
	linked, err := linker.Link(inner.b)
	if err != nil {
		return err
	}

	c.b.AddConst(code.CodeConstant{Code: linked})
	c.b.MakeClass(len(s.Bases))
	c.b.Name(s.Name, code.ActionSet)
	return nil
}
