// Package code defines the bytecode instruction set emitted by the compiler
// and the machinery needed to build, encode, and decode it: the closed
// opcode table (component G of the compiler pipeline), the constant pool
// (component A), the label allocator and symbolic code builder (components
// B and C).
//
// Resolving symbolic labels to addresses and interning name references into
// the pool is the linker's job (package linker, component F); this package
// only produces and consumes the symbolic and resolved instruction shapes
// that the linker operates over.
package code

import "fmt"

// Opcode identifies a single bytecode instruction. The enumeration is
// closed: every instruction the compiler can emit appears here, in the
// fixed order mandated by the instruction encoding (opcode index occupies
// the low 8 bits of the encoded word).
type Opcode byte

//nolint:revive
const (
	// OpNop performs no operation.
	//
	// Argument: none.
	OpNop Opcode = iota

	// OpAttribute reads, writes, or deletes an attribute.
	//
	// Argument: (name_const_id, action) where action is get=0, set=1, del=2.
	// Stack (get): [obj] -> [obj.attr]. Stack (set): [value, obj] -> [].
	// Stack (del): [obj] -> [].
	OpAttribute

	// OpGetException pushes the exception currently being handled.
	//
	// Argument: none. Stack: [] -> [exc].
	OpGetException

	// OpIndex reads, writes, or deletes a subscript.
	//
	// Argument: action, get=0, set=1, del=2.
	// Stack (get): [obj, index] -> [obj[index]].
	// Stack (set): [value, obj, index] -> [].
	// Stack (del): [obj, index] -> [].
	OpIndex

	// OpLoadConst pushes a constant from the pool.
	//
	// Argument: constant pool index. Stack: [] -> [value].
	OpLoadConst

	// OpName loads, stores, or deletes a named variable by its interned
	// identifier.
	//
	// Argument: (name_const_id, action); action is load=0, store=1, del=2,
	// load_global=3 (extended beyond the distilled opcode table to give the
	// `for` loop's StopIteration lookup a real action instead of overloading
	// `load` — see DESIGN.md, Open Question 4).
	// Stack (load/load_global): [] -> [value]. Stack (store): [value] -> [].
	// Stack (del): [] -> [].
	OpName

	// OpEagerUnpackList splits the top-of-stack iterable into exactly n
	// elements, pushed in order.
	//
	// Argument: expected element count n.
	// Stack: [iterable] -> [elem0, elem1, ..., elem(n-1)].
	OpEagerUnpackList

	// OpMakeStruct pops n elements (or n key/value pairs for dict, i.e. 2n
	// stack items) and pushes an aggregate of the requested kind.
	//
	// Argument: (element_count, kind); kind is list=0, tuple=1, dict=2,
	// set=3.
	OpMakeStruct

	// OpStack performs a small stack-shuffling primitive.
	//
	// Argument: pop=0, dup=1, dupdown3=2 (copy top to three-below-top),
	// swap2=3 (swap the top two values).
	OpStack

	// OpUnpack splats the top-of-stack value: for dict, merges it into an
	// in-progress make_struct dict operand sequence; for iterable, expands
	// it for `*args`.
	//
	// Argument: dict=0, iterable=1.
	OpUnpack

	// OpBinop pops two operands and pushes the result of a binary operator.
	//
	// Argument: index into the fixed operator list (+,-,*,/,//,%,**,<<,>>,
	// |,^,&,@,and,or,==,!=,<,<=,>,>=,is,is_not,in,not_in).
	// Stack: [lhs, rhs] -> [result].
	OpBinop

	// OpCallFunction calls a callable with the given number of positional
	// arguments.
	//
	// Argument: argument count.
	// Stack: [func, arg0, ..., arg(n-1)] -> [result].
	OpCallFunction

	// OpPseudoCall invokes the iterator protocol.
	//
	// Argument: iter=0 (consumes iterable, pushes iterator), next=1
	// (consumes iterator, pushes next element or raises StopIteration).
	OpPseudoCall

	// OpUnop pops one operand and pushes the result of a unary operator.
	//
	// Argument: +=0, -=1, !=2 (logical not), ~=3 (bitwise invert).
	OpUnop

	// OpCjump conditionally jumps based on the truthiness of the top of
	// stack.
	//
	// Argument: (jump_if_truth, keep_value, address). jump_if_truth selects
	// whether the branch fires on a truthy (1) or falsy (0) top-of-stack
	// value. keep_value (fixed per Open Question 1) controls whether the
	// tested value survives this instruction at all, regardless of which
	// way the branch goes: keep_value=1 leaves it on the stack whether or
	// not the jump fires (the caller consumes it later, e.g. a chained
	// comparison's accumulator or a short-circuit's sentinel); keep_value=0
	// pops it unconditionally (e.g. an `if`/`while` test).
	// Stack: [cond] -> [cond] (keep_value=1, both outcomes) or [] (keep_value=0, both outcomes).
	OpCjump

	// OpEndFinally marks the end of a finally block's body.
	//
	// Argument: none.
	OpEndFinally

	// OpEndTry marks the end of a protected (try-guarded) region.
	//
	// Argument: none.
	OpEndTry

	// OpExcept installs a handler for the given exception type, which must
	// already be on the stack.
	//
	// Argument: handler address. Stack: [exc_type] -> [].
	OpExcept

	// OpExceptAll installs a catch-all handler.
	//
	// Argument: handler address.
	OpExceptAll

	// OpFinally requests that the pending finally block at the given
	// address run.
	//
	// Argument: (address, handling_exception). handling_exception
	// distinguishes "run and re-raise afterwards" (1, used when the body
	// raised uncaught) from "run and continue" (0, used for a normal
	// break/continue/fallthrough unwind).
	OpFinally

	// OpJump unconditionally transfers control.
	//
	// Argument: target address.
	OpJump

	// OpRaise re-raises whatever exception is on top of the stack.
	//
	// Argument: none. Stack: [exc] -> [] (does not return normally).
	OpRaise

	// OpReturn returns the top-of-stack value from the current function.
	//
	// Argument: none. Stack: [value] -> [] (does not return normally).
	OpReturn

	// OpTry installs an exception handler covering the following
	// instructions, active until the matching OpEndTry.
	//
	// Argument: handler entry address.
	OpTry

	// OpInitFunction finishes constructing a function object from the
	// parameter/default metadata pushed by the function prologue.
	//
	// Argument: none.
	OpInitFunction

	// OpMakeClass builds a class object from a linked class body constant
	// and the given number of base-class values already on the stack.
	//
	// Argument: number of base classes. Stack: [base0, ..., base(n-1),
	// body] -> [class].
	OpMakeClass
)

// opcodeNames gives the canonical mnemonic for each opcode, used for
// disassembly and error messages.
var opcodeNames = [...]string{
	OpNop:             "nop",
	OpAttribute:       "attribute",
	OpGetException:    "get_exception",
	OpIndex:           "index",
	OpLoadConst:       "load_const",
	OpName:            "name",
	OpEagerUnpackList: "eager_unpack_list",
	OpMakeStruct:      "make_struct",
	OpStack:           "stack",
	OpUnpack:          "unpack",
	OpBinop:           "binop",
	OpCallFunction:    "call_function",
	OpPseudoCall:      "pseudo_call",
	OpUnop:            "unop",
	OpCjump:           "cjump",
	OpEndFinally:      "end_finally",
	OpEndTry:          "end_try",
	OpExcept:          "except",
	OpExceptAll:       "except_all",
	OpFinally:         "finally",
	OpJump:            "jump",
	OpRaise:           "raise",
	OpReturn:          "return",
	OpTry:             "try",
	OpInitFunction:    "init_function",
	OpMakeClass:       "make_class",
}

// numOpcodes is the size of the closed opcode table.
const numOpcodes = int(OpMakeClass) + 1

// String returns the opcode's canonical mnemonic, or a placeholder for a
// value outside the closed table.
func (op Opcode) String() string {
	if int(op) < 0 || int(op) >= numOpcodes {
		return fmt.Sprintf("Opcode(%d)", byte(op))
	}
	return opcodeNames[op]
}

// Valid reports whether op is a member of the closed opcode table.
func (op Opcode) Valid() bool {
	return int(op) >= 0 && int(op) < numOpcodes
}
