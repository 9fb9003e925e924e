package compiler

import (
	"fmt"

	"github.com/pexlang/pexc/ast"
	"github.com/pexlang/pexc/code"
)

// compileExpr lowers expr, leaving exactly one value on top of the stack
// beyond whatever depth the stack had on entry — every arm below must obey
// that contract.
func (c *Compiler) compileExpr(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.Num:
		if e.IsFloat {
			c.b.AddConst(code.Float{Value: e.Float})
		} else {
			c.b.AddConst(code.Int{Value: e.Int})
		}
		return nil

	case *ast.Str:
		c.b.AddConst(code.String{Value: e.Value})
		return nil

	case *ast.Bytes:
		c.b.AddConst(code.Bytes{Value: string(e.Value)})
		return nil

	case *ast.NameConstant:
		switch e.Kind {
		case ast.ConstTrue:
			c.b.AddConst(code.Bool{Value: true})
		case ast.ConstFalse:
			c.b.AddConst(code.Bool{Value: false})
		case ast.ConstNone:
			c.b.AddConst(code.None{})
		default:
			return &UnsupportedError{Construct: "NameConstant", Detail: fmt.Sprintf("kind %d", e.Kind)}
		}
		return nil

	case *ast.Name:
		if e.Ctx != ast.Load {
			return &UnsupportedError{Construct: "Name", Detail: fmt.Sprintf("%s context in an expression position", e.Ctx)}
		}
		c.b.Name(e.Id, code.ActionGet)
		return nil

	case *ast.Attribute:
		if e.Ctx != ast.Load {
			return &UnsupportedError{Construct: "Attribute", Detail: fmt.Sprintf("%s context in an expression position", e.Ctx)}
		}
		if err := c.compileExpr(e.Value); err != nil {
			return err
		}
		c.b.Attribute(c.b.Pool().Intern(code.String{Value: e.Attr}), code.ActionGet)
		return nil

	case *ast.Subscript:
		if e.Ctx != ast.Load {
			return &UnsupportedError{Construct: "Subscript", Detail: fmt.Sprintf("%s context in an expression position", e.Ctx)}
		}
		if err := c.compileExpr(e.Value); err != nil {
			return err
		}
		if err := c.compileExpr(e.Index); err != nil {
			return err
		}
		c.b.Index(code.ActionGet)
		return nil

	case *ast.List:
		return c.compileAggregateLoad(e.Elts, code.AggList)

	case *ast.Tuple:
		return c.compileAggregateLoad(e.Elts, code.AggTuple)

	case *ast.Set:
		return c.compileAggregateLoad(e.Elts, code.AggSet)

	case *ast.Dict:
		return c.compileDict(e)

	case *ast.UnaryOp:
		if err := c.compileExpr(e.Operand); err != nil {
			return err
		}
		c.b.Unop(unaryOpTable[e.Op])
		return nil

	case *ast.BinOp:
		if err := c.compileExpr(e.Left); err != nil {
			return err
		}
		if err := c.compileExpr(e.Right); err != nil {
			return err
		}
		c.b.Binop(binOpTable[e.Op])
		return nil

	case *ast.BoolOp:
		return c.compileBoolOp(e)

	case *ast.Compare:
		return c.compileCompare(e)

	case *ast.IfExp:
		return c.compileIfExp(e)

	case *ast.Call:
		return c.compileCall(e)

	case *ast.Starred:
		// Load-context Starred only appears nested inside a Call's argument
		// list; compileCall handles the splat directly and never recurses
		// into compileExpr for a Starred node.
		return &UnsupportedError{Construct: "Starred", Detail: "valid only inside a call's argument list"}

	default:
		return &UnsupportedError{Construct: fmt.Sprintf("%T", expr)}
	}
}

var unaryOpTable = map[ast.UnaryOpKind]code.UnaryOp{
	ast.UAdd:   code.UnaryPlus,
	ast.USub:   code.UnaryMinus,
	ast.Not:    code.UnaryNot,
	ast.Invert: code.UnaryInvert,
}

var binOpTable = map[ast.BinOpKind]code.BinOp{
	ast.Add:      code.BinAdd,
	ast.Sub:      code.BinSub,
	ast.Mult:     code.BinMult,
	ast.Div:      code.BinDiv,
	ast.FloorDiv: code.BinFloorDiv,
	ast.Mod:      code.BinMod,
	ast.Pow:      code.BinPow,
	ast.LShift:   code.BinLShift,
	ast.RShift:   code.BinRShift,
	ast.BitOr:    code.BinOr,
	ast.BitXor:   code.BinXor,
	ast.BitAnd:   code.BinAnd,
	ast.MatMult:  code.BinMatMult,
}

var cmpOpTable = map[ast.CmpOp]code.BinOp{
	ast.Eq:    code.BinEq,
	ast.NotEq: code.BinNotEq,
	ast.Lt:    code.BinLt,
	ast.LtE:   code.BinLtE,
	ast.Gt:    code.BinGt,
	ast.GtE:   code.BinGtE,
	ast.Is:    code.BinIs,
	ast.IsNot: code.BinIsNot,
	ast.In:    code.BinIn,
	ast.NotIn: code.BinNotIn,
}

// compileAggregateLoad lowers a list/tuple/set literal: each element in
// source order, then make_struct. Sets accept no splat.
func (c *Compiler) compileAggregateLoad(elts []ast.Expr, kind code.AggKind) error {
	for _, elt := range elts {
		if err := c.compileExpr(elt); err != nil {
			return err
		}
	}
	c.b.MakeStruct(len(elts), kind)
	return nil
}

// compileDict lowers a dict literal. A nil Key entry is a `**mapping`
// splat: the value is lowered and unpacked in place rather than pushed as
// a key/value pair.
func (c *Compiler) compileDict(d *ast.Dict) error {
	n := 0
	for _, entry := range d.Entries {
		if entry.Key == nil {
			if err := c.compileExpr(entry.Value); err != nil {
				return err
			}
			c.b.Unpack(code.UnpackDict)
			continue
		}
		if err := c.compileExpr(entry.Key); err != nil {
			return err
		}
		if err := c.compileExpr(entry.Value); err != nil {
			return err
		}
		n++
	}
	c.b.MakeStruct(n, code.AggDict)
	return nil
}

// compileIfExp lowers `body if test else orelse`, sharing the if/while
// conditional shape: test, conditional jump on false, true branch, jump to
// exit, false branch, exit.
func (c *Compiler) compileIfExp(e *ast.IfExp) error {
	falseLabel := c.b.NewLabel("ifexp_else")
	exitLabel := c.b.NewLabel("ifexp_end")

	if err := c.compileExpr(e.Test); err != nil {
		return err
	}
	c.b.CJump(false, false, falseLabel)
	if err := c.compileExpr(e.Body); err != nil {
		return err
	}
	c.b.Jump(exitLabel)
	if err := c.b.DefineLabel(falseLabel); err != nil {
		return err
	}
	if err := c.compileExpr(e.Orelse); err != nil {
		return err
	}
	return c.b.DefineLabel(exitLabel)
}

// compileCall lowers a call's callee and positional arguments. A Starred
// argument splats an iterable into the argument list in place.
func (c *Compiler) compileCall(e *ast.Call) error {
	if e.HasKeywords {
		return &UnsupportedError{Construct: "Call", Detail: "keyword arguments are not supported"}
	}
	if err := c.compileExpr(e.Func); err != nil {
		return err
	}
	argc := 0
	for _, arg := range e.Args {
		if starred, ok := arg.(*ast.Starred); ok {
			if err := c.compileExpr(starred.Value); err != nil {
				return err
			}
			c.b.Unpack(code.UnpackIterable)
			argc++
			continue
		}
		if err := c.compileExpr(arg); err != nil {
			return err
		}
		argc++
	}
	c.b.CallFunction(argc)
	return nil
}
