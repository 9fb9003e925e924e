package code

import "fmt"

// Arg is the argument of a symbolic instruction: none, an integer, a string,
// a label reference, or a flat tuple of any of these. It is a small
// recursive sum rather than an opaque value so the linker's pass-2 rewrite
// can walk it structurally instead of reflecting over `any`.
//
// Before linking, ArgLabel and ArgString leaves may appear anywhere in the
// tree (including nested inside an ArgTuple, e.g. cjump's three-element
// argument or finally's two-element argument). Linking replaces every
// ArgLabel leaf with an ArgInt holding the resolved address, and the
// argument of `name` instructions with an ArgTuple of two ArgInt leaves
// (interned name id, action).
type Arg interface {
	argNode()
	fmt.Stringer
}

// ArgNone is the argument of instructions that carry no operand.
type ArgNone struct{}

func (ArgNone) argNode()       {}
func (ArgNone) String() string { return "" }

// ArgInt is an integer-valued argument: a count, an action code, an
// already-resolved address, or a packed bitfield.
type ArgInt struct {
	Value int64
}

func (ArgInt) argNode() {}
func (a ArgInt) String() string {
	return fmt.Sprintf("%d", a.Value)
}

// ArgString is a raw identifier argument, used only before linking and
// only by `name` (`attribute` receives an already-interned constant id
// from the compiler). The linker never leaves an ArgString in a linked
// instruction.
type ArgString struct {
	Value string
}

func (ArgString) argNode() {}
func (a ArgString) String() string {
	return fmt.Sprintf("%q", a.Value)
}

// ArgLabel references a label defined within the same code object. Linking
// replaces it with the label's resolved address.
type ArgLabel struct {
	Label *Label
}

func (ArgLabel) argNode() {}
func (a ArgLabel) String() string {
	return a.Label.String()
}

// ArgTuple is a flat, ordered tuple of sub-arguments, used where a single
// instruction argument packs more than one logical field (e.g. cjump's
// `(jump_if_truth, keep_value, address)` before the encoder flattens it
// into one 24-bit payload).
type ArgTuple struct {
	Items []Arg
}

func (ArgTuple) argNode() {}
func (a ArgTuple) String() string {
	s := "("
	for i, item := range a.Items {
		if i > 0 {
			s += ", "
		}
		s += item.String()
	}
	return s + ")"
}
