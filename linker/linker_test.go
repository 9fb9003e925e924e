package linker

import (
	"testing"

	"github.com/pexlang/pexc/code"
	"github.com/stretchr/testify/require"
)

func TestLinkEmptyModule(t *testing.T) {
	b := code.NewBuilder(code.Module)
	linked, err := Link(b)
	require.NoError(t, err)
	require.Empty(t, linked.Instructions)
	require.Equal(t, 0, linked.Pool.Len())
}

func TestLinkResolvesForwardLabel(t *testing.T) {
	b := code.NewBuilder(code.Module)
	end := b.NewLabel("end")
	b.Jump(end)
	b.Nop()
	require.NoError(t, b.DefineLabel(end))

	linked, err := Link(b)
	require.NoError(t, err)
	require.Len(t, linked.Instructions, 2)

	jumpArg, ok := linked.Instructions[0].Arg.(code.ArgInt)
	require.True(t, ok)
	require.EqualValues(t, 2, jumpArg.Value)
}

func TestLinkAllowsLabelAtVeryEnd(t *testing.T) {
	// while x: break, as the final statement: end_label is defined with
	// no instruction following it. validateTargets accepts the inclusive
	// [0, instruction_count] range this requires.
	b := code.NewBuilder(code.Module)
	end := b.NewLabel("end")
	b.Jump(end)
	require.NoError(t, b.DefineLabel(end))

	linked, err := Link(b)
	require.NoError(t, err)
	require.Len(t, linked.Instructions, 1)
	addr := linked.Instructions[0].Arg.(code.ArgInt).Value
	require.EqualValues(t, 1, addr)
}

func TestLinkDanglingLabelIsAnError(t *testing.T) {
	b := code.NewBuilder(code.Module)
	unresolved := b.NewLabel("unresolved")
	b.Jump(unresolved)

	_, err := Link(b)
	require.Error(t, err)
	var dangling *DanglingLabelError
	require.ErrorAs(t, err, &dangling)
}

func TestLinkDuplicateLabelDefinitionIsAnError(t *testing.T) {
	b := code.NewBuilder(code.Module)
	l := b.NewLabel("")
	require.NoError(t, b.DefineLabel(l))
	err := b.DefineLabel(l)
	require.Error(t, err)
}

func TestLinkInternsNameAndRewritesAction(t *testing.T) {
	b := code.NewBuilder(code.Module)
	b.Name("x", code.ActionGet)
	b.Name("x", code.ActionGet)

	linked, err := Link(b)
	require.NoError(t, err)
	require.Equal(t, 1, linked.Pool.Len(), "interning the same identifier twice should yield one pool slot")

	for _, in := range linked.Instructions {
		tuple, ok := in.Arg.(code.ArgTuple)
		require.True(t, ok)
		require.Len(t, tuple.Items, 2)
		_, isInt := tuple.Items[0].(code.ArgInt)
		require.True(t, isInt, "name argument's identifier must be rewritten to an interned id")
	}
}

func TestLinkNestedLabelInCjumpTuple(t *testing.T) {
	b := code.NewBuilder(code.Module)
	exit := b.NewLabel("exit")
	b.CJump(false, true, exit)
	b.Nop()
	require.NoError(t, b.DefineLabel(exit))

	linked, err := Link(b)
	require.NoError(t, err)

	tuple := linked.Instructions[0].Arg.(code.ArgTuple)
	addr := tuple.Items[2].(code.ArgInt).Value
	require.EqualValues(t, 2, addr)
}

func TestValidateTargetsRejectsOutOfRangeAddress(t *testing.T) {
	// Link always resolves against its own label table, so an address past
	// the end of the instruction list cannot be produced through the
	// builder. Check that Link's output stays within [0, len(instructions)],
	// then hand validateTargets a linked code whose jump points past that
	// range directly.
	b := code.NewBuilder(code.Module)
	l := b.NewLabel("l")
	b.Jump(l)
	require.NoError(t, b.DefineLabel(l))
	linked, err := Link(b)
	require.NoError(t, err)

	addr := linked.Instructions[0].Arg.(code.ArgInt).Value
	require.GreaterOrEqual(t, addr, int64(0))
	require.LessOrEqual(t, addr, int64(len(linked.Instructions)))

	bad := &code.Linked{
		Type:         code.Module,
		Instructions: []code.Instruction{{Op: code.OpJump, Arg: code.ArgInt{Value: 2}}},
		Pool:         code.NewPool(),
	}
	var structErr *code.StructuralError
	require.ErrorAs(t, validateTargets(bad), &structErr)
}
