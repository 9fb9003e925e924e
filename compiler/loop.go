package compiler

import (
	"github.com/pexlang/pexc/ast"
	"github.com/pexlang/pexc/code"
)

// compileIf lowers a two-armed conditional statement; either arm may be
// empty.
func (c *Compiler) compileIf(s *ast.If) error {
	falseLabel := c.b.NewLabel("if_else")
	exitLabel := c.b.NewLabel("if_end")

	if err := c.compileExpr(s.Test); err != nil {
		return err
	}
	c.b.CJump(false, false, falseLabel)
	if err := c.compileStmts(s.Body); err != nil {
		return err
	}
	c.b.Jump(exitLabel)
	if err := c.b.DefineLabel(falseLabel); err != nil {
		return err
	}
	if err := c.compileStmts(s.Orelse); err != nil {
		return err
	}
	return c.b.DefineLabel(exitLabel)
}

// compileWhile lowers a pre-tested loop with a Python-style else clause
// run when the loop exits normally (never hit break).
func (c *Compiler) compileWhile(s *ast.While) error {
	startLabel := c.b.NewLabel("while_start")
	elseLabel := c.b.NewLabel("while_else")
	endLabel := c.b.NewLabel("while_end")

	if err := c.b.DefineLabel(startLabel); err != nil {
		return err
	}
	if err := c.compileExpr(s.Test); err != nil {
		return err
	}
	c.b.CJump(false, false, elseLabel)

	guard := c.pushFrame(&loopFrame{start: startLabel, else_: elseLabel, end: endLabel})
	err := c.compileStmts(s.Body)
	guard.Done() // popped before the else-clause: break/continue there targets an enclosing loop, not this one
	if err != nil {
		return err
	}
	c.b.Jump(startLabel)

	if err := c.b.DefineLabel(elseLabel); err != nil {
		return err
	}
	if err := c.compileStmts(s.Orelse); err != nil {
		return err
	}
	return c.b.DefineLabel(endLabel)
}

// compileFor lowers iteration over the iterator protocol: `iter` once,
// then `next` inside a try/StopIteration guard on every pass, landing on
// the else clause (loop exhausted) or the caller's break target.
func (c *Compiler) compileFor(s *ast.For) error {
	startLabel := c.b.NewLabel("for_start")
	elseLabel := c.b.NewLabel("for_else")
	endLabel := c.b.NewLabel("for_end")
	tryLabel := c.b.NewLabel("for_try")
	exceptLabel := c.b.NewLabel("for_except")

	if err := c.compileExpr(s.Iter); err != nil {
		return err
	}
	c.b.PseudoCall(code.PseudoCallIter)

	if err := c.b.DefineLabel(startLabel); err != nil {
		return err
	}
	c.b.Try(tryLabel)
	c.b.Stack(code.StackDup)
	c.b.PseudoCall(code.PseudoCallNext)
	c.b.EndTry()
	if err := c.compileTarget(s.Target, ast.Store); err != nil {
		return err
	}

	guard := c.pushFrame(&loopFrame{start: startLabel, else_: elseLabel, end: endLabel})
	err := c.compileStmts(s.Body)
	guard.Done()
	if err != nil {
		return err
	}
	c.b.Jump(startLabel)

	if err := c.b.DefineLabel(elseLabel); err != nil {
		return err
	}
	c.b.Stack(code.StackPop) // discard iterator
	if err := c.compileStmts(s.Orelse); err != nil {
		return err
	}
	c.b.Jump(endLabel)

	if err := c.b.DefineLabel(tryLabel); err != nil {
		return err
	}
	c.b.Name("StopIteration", code.ActionLoadGlobal)
	c.b.Except(exceptLabel)
	c.b.Raise()

	if err := c.b.DefineLabel(exceptLabel); err != nil {
		return err
	}
	c.b.Stack(code.StackPop) // discard exception
	c.b.Jump(elseLabel)

	return c.b.DefineLabel(endLabel)
}
