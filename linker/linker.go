// Package linker implements component F of the compiler pipeline: the
// two-pass resolution of a symbolic code.Builder into an immutable
// code.Linked value, grounded on original_source/pex-compile/pex_compile
// pykebc.py's Code.link.
package linker

import (
	"fmt"

	"github.com/pexlang/pexc/code"
)

// DanglingLabelError reports a label referenced by some instruction but
// never defined in the same code object before linking.
type DanglingLabelError struct {
	Label string
}

func (e *DanglingLabelError) Error() string {
	return "dangling label reference: " + e.Label
}

// Link resolves every label in b to an absolute instruction address,
// interns every `name` instruction's raw identifier into b's constant pool,
// and returns the resulting immutable Linked code.
//
// Pass 1 walks the entry stream in order, assigning the next address to
// each real instruction and recording the current address against each
// DEFINE_LABEL without incrementing the counter. Pass 2 walks the emitted
// instructions again, recursively rewriting every code.ArgLabel leaf to a
// resolved code.ArgInt address, and replacing each `name` instruction's
// (identifier, action) argument with (interned id, action).
func Link(b *code.Builder) (*code.Linked, error) {
	entries := b.Entries()

	addresses := make(map[*code.Label]int, b.Pool().Len())
	instructions := make([]code.Instruction, 0, len(entries))

	// Pass 1: address assignment.
	for _, e := range entries {
		if e.IsLabelDef() {
			if _, ok := addresses[e.Label]; ok {
				return nil, &code.StructuralError{Msg: "label " + e.Label.String() + " defined more than once"}
			}
			addresses[e.Label] = len(instructions)
			continue
		}
		instructions = append(instructions, e.Instr)
	}

	pool := b.Pool()

	// Pass 2: argument rewriting.
	for i, in := range instructions {
		arg, err := resolveArg(in.Arg, addresses)
		if err != nil {
			return nil, err
		}
		if in.Op == code.OpName {
			arg, err = internName(arg, pool)
			if err != nil {
				return nil, err
			}
		}
		instructions[i] = code.Instruction{Op: in.Op, Arg: arg}
	}

	linked := &code.Linked{
		Type:         b.Type,
		Instructions: instructions,
		Pool:         pool,
	}
	if err := validateTargets(linked); err != nil {
		return nil, err
	}
	return linked, nil
}

// resolveArg recursively rewrites every ArgLabel leaf in arg to its
// resolved ArgInt address.
func resolveArg(arg code.Arg, addresses map[*code.Label]int) (code.Arg, error) {
	switch a := arg.(type) {
	case code.ArgLabel:
		addr, ok := addresses[a.Label]
		if !ok {
			return nil, &DanglingLabelError{Label: a.Label.String()}
		}
		return code.ArgInt{Value: int64(addr)}, nil
	case code.ArgTuple:
		items := make([]code.Arg, len(a.Items))
		for i, item := range a.Items {
			resolved, err := resolveArg(item, addresses)
			if err != nil {
				return nil, err
			}
			items[i] = resolved
		}
		return code.ArgTuple{Items: items}, nil
	default:
		return arg, nil
	}
}

// internName replaces a `name` instruction's (identifier, action) argument
// with (interned const id, action), matching the packing order used
// elsewhere for `attribute` (id first, then action).
func internName(arg code.Arg, pool *code.Pool) (code.Arg, error) {
	t, ok := arg.(code.ArgTuple)
	if !ok || len(t.Items) != 2 {
		return nil, &code.EncodingError{Msg: "name: malformed pre-link argument"}
	}
	ident, ok := t.Items[0].(code.ArgString)
	if !ok {
		return nil, &code.EncodingError{Msg: "name: expected an identifier string argument"}
	}
	action, ok := t.Items[1].(code.ArgInt)
	if !ok {
		return nil, &code.EncodingError{Msg: "name: expected an action argument"}
	}
	id := pool.Intern(code.String{Value: ident.Value})
	return code.ArgTuple{Items: []code.Arg{
		code.ArgInt{Value: int64(id)},
		action,
	}}, nil
}

// validateTargets walks every linked instruction and checks that
// jump/try/except/except_all/finally targets fall within range.
//
// The spec states the valid range as the half-open [0, instruction_count);
// this implementation uses the inclusive [0, instruction_count] instead, to
// admit a label legitimately defined at the very last position with no
// instruction following it (e.g. a while loop's end_label when the loop is
// the final statement in its enclosing body).
func validateTargets(l *code.Linked) error {
	n := int64(len(l.Instructions))
	checkAddr := func(op code.Opcode, addr int64) error {
		if addr < 0 || addr > n {
			return &code.StructuralError{Msg: badTargetMsg(op, addr, n)}
		}
		return nil
	}
	for _, in := range l.Instructions {
		switch in.Op {
		case code.OpJump, code.OpTry, code.OpExcept, code.OpExceptAll:
			v, ok := in.Arg.(code.ArgInt)
			if !ok {
				return &code.EncodingError{Msg: in.Op.String() + ": expected a resolved address argument"}
			}
			if err := checkAddr(in.Op, v.Value); err != nil {
				return err
			}
		case code.OpCjump:
			t := in.Arg.(code.ArgTuple)
			addr := t.Items[2].(code.ArgInt).Value
			if err := checkAddr(in.Op, addr); err != nil {
				return err
			}
		case code.OpFinally:
			t := in.Arg.(code.ArgTuple)
			addr := t.Items[0].(code.ArgInt).Value
			if err := checkAddr(in.Op, addr); err != nil {
				return err
			}
		}
	}
	return nil
}

func badTargetMsg(op code.Opcode, addr, n int64) string {
	return fmt.Sprintf("%s: target address %d out of range [0, %d]", op, addr, n)
}
