package code

import (
	"fmt"
	"strings"
)

// CodeType distinguishes the three kinds of compiled unit.
type CodeType int

const (
	// Module is the top-level compiled unit.
	Module CodeType = iota
	// Function is a FunctionDef body, compiled in its own scope.
	Function
	// Class is a ClassDef body, compiled in its own scope.
	Class
)

// String renders the code type's name, as used in disassembly output.
func (t CodeType) String() string {
	switch t {
	case Module:
		return "module"
	case Function:
		return "function"
	case Class:
		return "class"
	default:
		return fmt.Sprintf("CodeType(%d)", int(t))
	}
}

// Instruction is one resolved, symbolic-label-free instruction: an opcode
// and an argument tree whose only leaves are ArgNone and ArgInt (ArgString
// and ArgLabel leaves are eliminated by linking).
type Instruction struct {
	Op  Opcode
	Arg Arg
}

// String renders the instruction as "<mnemonic> <argument>", or bare
// "<mnemonic>" when the argument carries no payload.
func (in Instruction) String() string {
	if _, ok := in.Arg.(ArgNone); ok {
		return in.Op.String()
	}
	return fmt.Sprintf("%s %s", in.Op, in.Arg)
}

// Linked is the immutable result of linking one symbolic Code: every label
// has been resolved to an integer address, every `name` instruction's
// argument has been rewritten to reference an interned name id, and the
// instruction list contains no pseudo-opcodes.
//
// A Linked value is itself hashable by content (type plus instruction
// sequence) so it can be embedded as a constant in an enclosing Code's
// pool — this is how FunctionDef and ClassDef bodies are embedded.
type Linked struct {
	Type         CodeType
	Instructions []Instruction
	Pool         *Pool
}

// hashKey returns a string uniquely determined by this Linked's type and
// instruction sequence (not by its pool, per the spec's content-addressing
// rule: "Define equality and a content-addressed hash over (type,
// instruction sequence)"). Two Linked values compiled from structurally
// identical bodies hash identically and intern to the same constant-pool
// slot.
func (l *Linked) hashKey() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|", l.Type)
	for _, in := range l.Instructions {
		fmt.Fprintf(&b, "%d:%s;", in.Op, in.Arg)
	}
	return b.String()
}

// String renders a disassembly listing: address-prefixed instructions
// followed by the constant pool.
func (l *Linked) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "; %s, %d instructions\n", l.Type, len(l.Instructions))
	for addr, in := range l.Instructions {
		fmt.Fprintf(&b, "%04d %s\n", addr, in)
	}
	if l.Pool.Len() > 0 {
		b.WriteString("; constants\n")
		b.WriteString(l.Pool.String())
	}
	return b.String()
}
