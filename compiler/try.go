package compiler

import (
	"github.com/pexlang/pexc/ast"
	"github.com/pexlang/pexc/code"
)

// compileTry lowers the raw four-part try/except/else/finally statement by
// re-shaping it into the equivalent nested form
// TryFinally{ body=[TryExcept{body, handlers}, *orelse], finalbody }
// and lowering that instead, matching the distilled algorithm exactly
// (optimizing away an empty finalbody is out of scope: optimisation is a
// non-goal).
func (c *Compiler) compileTry(s *ast.Try) error {
	return c.lowerTryFinally(func() error {
		if err := c.lowerTryExcept(s.Body, s.Handlers); err != nil {
			return err
		}
		return c.compileStmts(s.Orelse)
	}, s.Finalbody)
}

// lowerTryExcept lowers a guarded body followed by its except handlers: the
// body runs under a `try` entry point; on an uncaught exception, each
// handler's type (if any) is tested with `except`/`except_all` in source
// order, falling through to `raise` if none match.
func (c *Compiler) lowerTryExcept(body []ast.Stmt, handlers []ast.ExceptHandler) error {
	tryLabel := c.b.NewLabel("try")
	exitLabel := c.b.NewLabel("try_exit")

	c.b.Try(tryLabel)
	if err := c.compileStmts(body); err != nil {
		return err
	}
	c.b.EndTry()
	c.b.Jump(exitLabel)

	if err := c.b.DefineLabel(tryLabel); err != nil {
		return err
	}
	handlerLabels := make([]*code.Label, len(handlers))
	for i, h := range handlers {
		handlerLabels[i] = c.b.NewLabel("handler")
		if h.Type != nil {
			if err := c.compileExpr(h.Type); err != nil {
				return err
			}
			c.b.Except(handlerLabels[i])
		} else {
			c.b.ExceptAll(handlerLabels[i])
		}
	}
	c.b.Raise()

	for i, h := range handlers {
		if err := c.b.DefineLabel(handlerLabels[i]); err != nil {
			return err
		}
		if h.Name != "" {
			c.b.Name(h.Name, code.ActionSet)
		} else {
			c.b.Stack(code.StackPop)
		}
		if err := c.compileStmts(h.Body); err != nil {
			return err
		}
		c.b.Jump(exitLabel)
	}
	return c.b.DefineLabel(exitLabel)
}

// lowerTryFinally lowers a guarded region whose finally block must run on
// every exit path: normal completion, an uncaught exception (re-raised
// afterwards), and a break/continue unwind crossing it (handled by
// frame.go's emitUnwind, which emits its own `finally` request rather than
// going through this function again).
//
// bodyFn lowers the protected body; it is a closure rather than a
// []ast.Stmt because compileTry's reshaped body is not itself a literal
// statement list (it interleaves a TryExcept lowering with `orelse`
// statements).
func (c *Compiler) lowerTryFinally(bodyFn func() error, finalbody []ast.Stmt) error {
	tryLabel := c.b.NewLabel("finally_try")
	finallyLabel := c.b.NewLabel("finally_body")
	exitLabel := c.b.NewLabel("finally_exit")

	c.b.Try(tryLabel)
	guard := c.pushFrame(&tryFinallyFrame{finallyLabel: finallyLabel})
	err := bodyFn()
	guard.Done()
	if err != nil {
		return err
	}
	c.b.EndTry()
	c.b.Finally(false, finallyLabel)
	c.b.Jump(exitLabel)

	if err := c.b.DefineLabel(tryLabel); err != nil {
		return err
	}
	c.b.Finally(true, finallyLabel)
	c.b.Raise()

	if err := c.b.DefineLabel(finallyLabel); err != nil {
		return err
	}
	if err := c.compileStmts(finalbody); err != nil {
		return err
	}
	c.b.EndFinally()

	return c.b.DefineLabel(exitLabel)
}
