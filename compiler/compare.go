package compiler

import (
	"github.com/pexlang/pexc/ast"
	"github.com/pexlang/pexc/code"
)

// compileBoolOp lowers a short-circuiting and/or chain: the first operand
// is lowered, then for each remaining operand a conditional jump to a
// shared exit label fires when the chain's outcome is already decided,
// keeping the short-circuiting value on the stack as the sentinel.
func (c *Compiler) compileBoolOp(e *ast.BoolOp) error {
	exitLabel := c.b.NewLabel("boolop_end")
	// and short-circuits on a falsy operand, or on a truthy one.
	jumpIfTruth := e.Op == ast.Or
	binop := boolOpBinop(e.Op)

	if err := c.compileExpr(e.Values[0]); err != nil {
		return err
	}
	for _, v := range e.Values[1:] {
		c.b.CJump(jumpIfTruth, true, exitLabel)
		if err := c.compileExpr(v); err != nil {
			return err
		}
		c.b.Binop(binop)
	}
	return c.b.DefineLabel(exitLabel)
}

// boolOpBinop maps a BoolOp's operator to the binop applied after lowering
// each non-first operand.
func boolOpBinop(op ast.BoolOpKind) code.BinOp {
	if op == ast.Or {
		return code.BinBoolOr
	}
	return code.BinBoolAnd
}

// compileCompare lowers a chained comparison `left op0 c0 op1 c1 ...` using
// the accumulator-on-stack protocol: an accumulator starting at True is
// conjoined with each pairwise comparison result via `binop and`, and the
// chain short-circuits to a shared exit label the moment the accumulator
// goes false, without re-evaluating any operand.
func (c *Compiler) compileCompare(e *ast.Compare) error {
	exitLabel := c.b.NewLabel("compare_exit")

	c.b.AddConst(code.Bool{Value: true}) // accumulator
	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	// Stack: ... accum lhs

	for i, op := range e.Ops {
		if err := c.compileExpr(e.Comparators[i]); err != nil {
			return err
		}
		// Stack: ... accum lhs rhs
		c.b.Stack(code.StackDupDown3)
		// Stack: ... rhs accum lhs rhs
		c.b.Binop(cmpOpTable[op])
		// Stack: ... rhs accum result
		c.b.Binop(code.BinBoolAnd)
		// Stack: ... rhs accum
		c.b.CJump(false, true, exitLabel)
		if i < len(e.Ops)-1 {
			c.b.Stack(code.StackSwap2)
			// Stack: ... accum lhs (lhs <- rhs)
		}
	}

	if err := c.b.DefineLabel(exitLabel); err != nil {
		return err
	}
	c.b.Stack(code.StackSwap2)
	c.b.Stack(code.StackPop)
	return nil
}
