package compiler

import (
	"testing"

	"github.com/pexlang/pexc/ast"
	"github.com/pexlang/pexc/code"
	"github.com/pexlang/pexc/linker"
	"github.com/stretchr/testify/require"
)

func compileAndLink(t *testing.T, body []ast.Stmt) *code.Linked {
	t.Helper()
	b, err := Compile(&ast.Module{Body: body})
	require.NoError(t, err)
	linked, err := linker.Link(b)
	require.NoError(t, err)
	return linked
}

func mnemonics(linked *code.Linked) []string {
	out := make([]string, len(linked.Instructions))
	for i, in := range linked.Instructions {
		out[i] = in.Op.String()
	}
	return out
}

func TestEmptyModule(t *testing.T) {
	linked := compileAndLink(t, nil)
	require.Empty(t, linked.Instructions)
	require.Equal(t, 0, linked.Pool.Len())
}

func TestChainedCompare(t *testing.T) {
	// Source: 1 < 2 < 3
	expr := &ast.Compare{
		Left: &ast.Num{Int: 1},
		Ops:  []ast.CmpOp{ast.Lt, ast.Lt},
		Comparators: []ast.Expr{
			&ast.Num{Int: 2},
			&ast.Num{Int: 3},
		},
	}
	linked := compileAndLink(t, []ast.Stmt{&ast.ExprStmt{Value: expr}})

	// compileCompare's own closing "stack swap2; stack pop" is followed by
	// the ExprStmt wrapper's trailing "stack pop" (both are OpStack, so the
	// mnemonic list shows "stack" for both; the StackOp argument, not the
	// mnemonic, is what distinguishes swap2 from pop).
	got := mnemonics(linked)

	wantChain := []string{
		"load_const", "load_const", "load_const", "stack", "binop", "binop",
		"cjump", "stack", "load_const", "stack", "binop", "binop", "cjump",
		"stack", "stack",
	}
	require.Equal(t, wantChain, got[:len(got)-1])
	require.Equal(t, "stack", got[len(got)-1])

	// Pool contains True, 1, 2, 3 at indices 0..3.
	require.Equal(t, 4, linked.Pool.Len())
	require.Equal(t, code.Bool{Value: true}, linked.Pool.At(0))
	require.Equal(t, code.Int{Value: 1}, linked.Pool.At(1))
	require.Equal(t, code.Int{Value: 2}, linked.Pool.At(2))
	require.Equal(t, code.Int{Value: 3}, linked.Pool.At(3))

	// Both cjump instructions' EXIT address resolves to the same address:
	// the final "stack swap2" before the trailing pop.
	var cjumpTargets []int64
	for _, in := range linked.Instructions {
		if in.Op == code.OpCjump {
			tuple := in.Arg.(code.ArgTuple)
			cjumpTargets = append(cjumpTargets, tuple.Items[2].(code.ArgInt).Value)
		}
	}
	require.Len(t, cjumpTargets, 2)
	require.Equal(t, cjumpTargets[0], cjumpTargets[1])
	// EXIT resolves to the final "stack swap2": two closing instructions
	// follow it (compileCompare's own trailing pop, then the ExprStmt
	// wrapper's pop).
	require.Equal(t, len(linked.Instructions)-3, int(cjumpTargets[0]))
}

func TestBoolOp(t *testing.T) {
	// Source: a or b
	expr := &ast.BoolOp{
		Op: ast.Or,
		Values: []ast.Expr{
			&ast.Name{Id: "a", Ctx: ast.Load},
			&ast.Name{Id: "b", Ctx: ast.Load},
		},
	}
	linked := compileAndLink(t, []ast.Stmt{&ast.ExprStmt{Value: expr}})

	got := mnemonics(linked)
	// load a, cjump(True, keep, END), load b, binop(or), [ExprStmt's own
	// trailing pop].
	require.Equal(t, []string{"name", "cjump", "name", "binop", "stack"}, got)

	var binopArg int64
	for _, in := range linked.Instructions {
		if in.Op == code.OpBinop {
			binopArg = in.Arg.(code.ArgInt).Value
		}
	}
	require.Equal(t, int64(code.BinBoolOr), binopArg)

	tuple := linked.Instructions[1].Arg.(code.ArgTuple)
	require.EqualValues(t, 1, tuple.Items[0].(code.ArgInt).Value, "jumpIfTruth is true for `or`")
	require.EqualValues(t, 1, tuple.Items[1].(code.ArgInt).Value, "keep is true so the sentinel survives the untaken path")
}

func TestWhileWithBreak(t *testing.T) {
	// Source: while x: break
	stmt := &ast.While{
		Test: &ast.Name{Id: "x", Ctx: ast.Load},
		Body: []ast.Stmt{&ast.Break{}},
	}
	linked := compileAndLink(t, []ast.Stmt{stmt})

	got := mnemonics(linked)
	// name(load x), cjump(False, pop, ELSE), jump(END) [break], jump(START)
	// [the loop's own back-edge, unconditionally emitted after the body
	// regardless of the body's own control flow].
	require.Equal(t, []string{"name", "cjump", "jump", "jump"}, got)

	breakJumpAddr := linked.Instructions[2].Arg.(code.ArgInt).Value
	require.EqualValues(t, len(linked.Instructions), breakJumpAddr, "break jumps to end_label, which coincides with else_label here since the else clause is empty")

	backEdgeAddr := linked.Instructions[3].Arg.(code.ArgInt).Value
	require.EqualValues(t, 0, backEdgeAddr, "the loop's back-edge jumps to start_label, the first instruction")
}

func TestForLoopStopIterationPath(t *testing.T) {
	// Source: for i in it: pass
	stmt := &ast.For{
		Target: &ast.Name{Id: "i", Ctx: ast.Store},
		Iter:   &ast.Name{Id: "it", Ctx: ast.Load},
		Body:   []ast.Stmt{&ast.Pass{}},
	}
	linked := compileAndLink(t, []ast.Stmt{stmt})

	got := mnemonics(linked)
	want := []string{
		"name", "pseudo_call", // load it, iter
		"try", "stack", "pseudo_call", "end_try", "name", "nop", "jump", // loop body
		"stack", "jump", // else: pop iterator, jump end
		"name", "except", "raise", // try_label: StopIteration dispatch
		"stack", "jump", // except_label: pop exc, jump else
	}
	require.Equal(t, want, got)

	// The third `name` instruction (StopIteration) must use load_global.
	var nameActions []int64
	for _, in := range linked.Instructions {
		if in.Op == code.OpName {
			tuple := in.Arg.(code.ArgTuple)
			nameActions = append(nameActions, tuple.Items[1].(code.ArgInt).Value)
		}
	}
	require.Equal(t, []int64{int64(code.ActionGet), int64(code.ActionSet), int64(code.ActionLoadGlobal)}, nameActions)
}

func TestCallWithStarredArg(t *testing.T) {
	// Source: f(a, *b, c)
	expr := &ast.Call{
		Func: &ast.Name{Id: "f", Ctx: ast.Load},
		Args: []ast.Expr{
			&ast.Name{Id: "a", Ctx: ast.Load},
			&ast.Starred{Value: &ast.Name{Id: "b", Ctx: ast.Load}},
			&ast.Name{Id: "c", Ctx: ast.Load},
		},
	}
	linked := compileAndLink(t, []ast.Stmt{&ast.ExprStmt{Value: expr}})

	got := mnemonics(linked)
	require.Equal(t, []string{"name", "name", "name", "unpack", "name", "call_function", "stack"}, got)

	var argc int64
	for _, in := range linked.Instructions {
		if in.Op == code.OpCallFunction {
			argc = in.Arg.(code.ArgInt).Value
		}
	}
	// argc counts every AST argument node, including the Starred one, not
	// just the number of plain positional values.
	require.EqualValues(t, 3, argc)
}

func TestNestedFunctionDef(t *testing.T) {
	// Source: def f(): return 1
	stmt := &ast.FunctionDef{
		Name: "f",
		Body: []ast.Stmt{&ast.Return{Value: &ast.Num{Int: 1}}},
	}
	linked := compileAndLink(t, []ast.Stmt{stmt})

	got := mnemonics(linked)
	require.Equal(t, []string{"load_const", "name"}, got)

	constID := linked.Instructions[0].Arg.(code.ArgInt).Value
	fnConst, ok := linked.Pool.At(int(constID)).(code.CodeConstant)
	require.True(t, ok)

	fnMnemonics := make([]string, len(fnConst.Code.Instructions))
	for i, in := range fnConst.Code.Instructions {
		fnMnemonics[i] = in.Op.String()
	}
	// Prologue (0 positional args, 0 defaults, 0 kwonly) then init_function,
	// then the body: load_const(1), return.
	require.Equal(t, []string{
		"load_const", "load_const", "load_const", "init_function",
		"load_const", "return",
	}, fnMnemonics)
}

func TestTryExceptElseFinallyEquivalence(t *testing.T) {
	// Try{body, handlers, orelse, finalbody} must lower identically to the
	// manually reshaped TryFinally{body=[TryExcept{body,handlers},*orelse],
	// finalbody}. Exercise this by compiling the combined form and
	// confirming it carries the structural markers of both nested regions.
	tryStmt := &ast.Try{
		Body: []ast.Stmt{&ast.Pass{}},
		Handlers: []ast.ExceptHandler{
			{Name: "e", Body: []ast.Stmt{&ast.Pass{}}},
		},
		Orelse:    []ast.Stmt{&ast.Pass{}},
		Finalbody: []ast.Stmt{&ast.Pass{}},
	}
	linked := compileAndLink(t, []ast.Stmt{tryStmt})

	counts := map[code.Opcode]int{}
	for _, in := range linked.Instructions {
		counts[in.Op]++
	}
	require.Equal(t, 2, counts[code.OpTry], "one try for the except region, one for the finally region")
	require.Equal(t, 1, counts[code.OpExceptAll])
	require.Equal(t, 2, counts[code.OpFinally], "one normal-unwind finally request, one uncaught-exception finally request")
}

func TestBreakOutsideLoopIsStructuralError(t *testing.T) {
	_, err := Compile(&ast.Module{Body: []ast.Stmt{&ast.Break{}}})
	require.Error(t, err)
	var structErr *StructuralError
	require.ErrorAs(t, err, &structErr)
}

func TestStarredNestedDestructuringIsHardError(t *testing.T) {
	assign := &ast.Assign{
		Targets: []ast.Expr{
			&ast.Starred{Value: &ast.List{Elts: []ast.Expr{&ast.Name{Id: "a", Ctx: ast.Store}}}},
		},
		Value: &ast.Name{Id: "xs", Ctx: ast.Load},
	}
	_, err := Compile(&ast.Module{Body: []ast.Stmt{assign}})
	require.Error(t, err)
	var unsupported *UnsupportedError
	require.ErrorAs(t, err, &unsupported)
}
