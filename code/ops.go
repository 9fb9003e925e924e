package code

// Action distinguishes the three effects `name`, `attribute`, and `index`
// instructions can have on their target.
type Action int

const (
	ActionGet Action = iota // also "load" for name
	ActionSet               // also "store" for name
	ActionDel
	// ActionLoadGlobal is an extension beyond the distilled opcode table
	// (see DESIGN.md, Open Question 4): `name`-only, used by the `for`
	// loop's StopIteration lookup, which must bypass ordinary local
	// resolution.
	ActionLoadGlobal
)

// StackOp selects the stack-shuffling primitive a `stack` instruction
// performs.
type StackOp int

const (
	StackPop StackOp = iota
	StackDup
	StackDupDown3
	StackSwap2
)

// AggKind selects the aggregate kind a `make_struct` instruction builds.
type AggKind int

const (
	AggList AggKind = iota
	AggTuple
	AggDict
	AggSet
)

// PseudoCallKind selects the iterator-protocol primitive a `pseudo_call`
// instruction performs.
type PseudoCallKind int

const (
	PseudoCallIter PseudoCallKind = iota
	PseudoCallNext
)

// UnpackKind selects what a `unpack` instruction splats.
type UnpackKind int

const (
	UnpackDict UnpackKind = iota
	UnpackIterable
)

// UnaryOp enumerates the unary operators in encoding order.
type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
	UnaryInvert
)

// BinOp enumerates the fixed binary operator list, in the exact order the
// encoder indexes into.
type BinOp int

const (
	BinAdd BinOp = iota
	BinSub
	BinMult
	BinDiv
	BinFloorDiv
	BinMod
	BinPow
	BinLShift
	BinRShift
	BinOr
	BinXor
	BinAnd
	BinMatMult
	BinBoolAnd
	BinBoolOr
	BinEq
	BinNotEq
	BinLt
	BinLtE
	BinGt
	BinGtE
	BinIs
	BinIsNot
	BinIn
	BinNotIn
)
