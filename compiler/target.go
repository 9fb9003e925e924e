package compiler

import (
	"fmt"

	"github.com/pexlang/pexc/ast"
	"github.com/pexlang/pexc/code"
)

// compileTarget lowers an assignment or delete target, consuming the value
// already on top of the stack (for ctx == ast.Store) or nothing (for
// ctx == ast.Del, which targets a binding or slot rather than a value).
func (c *Compiler) compileTarget(target ast.Expr, ctx ast.Ctx) error {
	switch t := target.(type) {
	case *ast.Name:
		action := code.ActionSet
		if ctx == ast.Del {
			action = code.ActionDel
		}
		c.b.Name(t.Id, action)
		return nil

	case *ast.Attribute:
		if err := c.compileExpr(t.Value); err != nil {
			return err
		}
		action := code.ActionSet
		if ctx == ast.Del {
			action = code.ActionDel
		}
		c.b.Attribute(c.b.Pool().Intern(code.String{Value: t.Attr}), action)
		return nil

	case *ast.Subscript:
		if err := c.compileExpr(t.Value); err != nil {
			return err
		}
		if err := c.compileExpr(t.Index); err != nil {
			return err
		}
		action := code.ActionSet
		if ctx == ast.Del {
			action = code.ActionDel
		}
		c.b.Index(action)
		return nil

	case *ast.List:
		return c.compileAggregateTarget(t.Elts, ctx)

	case *ast.Tuple:
		return c.compileAggregateTarget(t.Elts, ctx)

	case *ast.Starred:
		name, ok := t.Value.(*ast.Name)
		if !ok {
			return &UnsupportedError{
				Construct: "starred store target",
				Detail:    "only *name is supported, nested destructuring patterns are a hard error",
			}
		}
		return c.compileTarget(name, ctx)

	default:
		return &UnsupportedError{
			Construct: fmt.Sprintf("%T", target),
			Detail:    fmt.Sprintf("not a valid assignment target in %s context", ctx),
		}
	}
}

// compileAggregateTarget lowers a list/tuple destructuring target: the
// iterable already on top of the stack is split into exactly len(elts)
// elements via eager_unpack_list, then each element target is lowered in
// reverse source order, since eager_unpack_list pushes its elements in
// source order and each compileTarget call consumes the current
// top-of-stack (LIFO consumption matches up the deepest pushed element
// with the leftmost source target).
//
// Store and Del contexts are treated identically here: both a destructuring
// assignment and a destructuring `del` split the aggregate the same way
// (spec §9, Open Question 3).
func (c *Compiler) compileAggregateTarget(elts []ast.Expr, ctx ast.Ctx) error {
	c.b.EagerUnpackList(len(elts))
	for i := len(elts) - 1; i >= 0; i-- {
		if err := c.compileTarget(elts[i], ctx); err != nil {
			return err
		}
	}
	return nil
}
