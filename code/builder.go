package code

import "fmt"

// Entry is one item of a Builder's ordered instruction list: either a
// symbolic instruction or a DEFINE_LABEL pseudo-instruction, which carries
// no opcode and occupies no runtime address.
type Entry struct {
	Label *Label // non-nil for a label definition
	Instr Instruction
}

// IsLabelDef reports whether e is a DEFINE_LABEL pseudo-instruction rather
// than a real instruction.
func (e Entry) IsLabelDef() bool { return e.Label != nil }

// Builder accumulates the symbolic instruction stream for one code object
// (module, function, or class body): it owns exactly one constant pool and
// one label allocator, matching the ownership rule in the data model (each
// Code exclusively owns its pool, allocator, and instruction list).
type Builder struct {
	Type CodeType

	pool         *Pool
	labelCounter int
	entries      []Entry
	defined      map[*Label]bool
}

// NewBuilder returns an empty Builder for a code object of the given type.
func NewBuilder(typ CodeType) *Builder {
	return &Builder{
		Type:    typ,
		pool:    NewPool(),
		defined: make(map[*Label]bool),
	}
}

// Pool returns the builder's constant pool.
func (b *Builder) Pool() *Pool { return b.pool }

// NewLabel mints a fresh label handle scoped to this builder, with an
// optional human-readable comment suffix for disassembly.
func (b *Builder) NewLabel(comment string) *Label {
	l := &Label{id: b.labelCounter, comment: comment}
	b.labelCounter++
	return l
}

// DefineLabel appends a DEFINE_LABEL pseudo-instruction for l. Defining the
// same label twice is a structural compile error.
func (b *Builder) DefineLabel(l *Label) error {
	if b.defined[l] {
		return &StructuralError{Msg: fmt.Sprintf("label %s defined more than once", l)}
	}
	b.defined[l] = true
	b.entries = append(b.entries, Entry{Label: l})
	return nil
}

// emit appends a plain instruction to the stream.
func (b *Builder) emit(op Opcode, arg Arg) {
	b.entries = append(b.entries, Entry{Instr: Instruction{Op: op, Arg: arg}})
}

// Entries exposes the builder's raw instruction/label-definition stream for
// the linker. The returned slice must not be mutated.
func (b *Builder) Entries() []Entry { return b.entries }

// --- generic emit helpers, one per opcode ---

// Nop emits a no-op.
func (b *Builder) Nop() { b.emit(OpNop, ArgNone{}) }

// Attribute emits an attribute get/set/del against the interned attribute
// name id.
func (b *Builder) Attribute(nameConstID int, action Action) {
	b.emit(OpAttribute, packActionID(nameConstID, action))
}

// GetException pushes the exception currently being handled.
func (b *Builder) GetException() { b.emit(OpGetException, ArgNone{}) }

// Index emits a subscript get/set/del.
func (b *Builder) Index(action Action) {
	b.emit(OpIndex, ArgInt{Value: int64(action)})
}

// LoadConst emits a `load_const` against an already-interned pool index.
func (b *Builder) LoadConst(id int) {
	b.emit(OpLoadConst, ArgInt{Value: int64(id)})
}

// AddConst interns c and emits `load_const` for it in one step.
func (b *Builder) AddConst(c Constant) {
	b.LoadConst(b.pool.Intern(c))
}

// Name emits a `name` instruction referencing identifier by raw string;
// the linker interns it into the pool and rewrites the argument during
// pass 2.
func (b *Builder) Name(identifier string, action Action) {
	b.emit(OpName, ArgTuple{Items: []Arg{ArgString{Value: identifier}, ArgInt{Value: int64(action)}}})
}

// EagerUnpackList emits `eager_unpack_list n`.
func (b *Builder) EagerUnpackList(n int) {
	b.emit(OpEagerUnpackList, ArgInt{Value: int64(n)})
}

// MakeStruct emits `make_struct (n, kind)`.
func (b *Builder) MakeStruct(n int, kind AggKind) {
	b.emit(OpMakeStruct, ArgInt{Value: int64(n)<<2 | int64(kind)})
}

// Stack emits a stack-shuffle primitive.
func (b *Builder) Stack(op StackOp) {
	b.emit(OpStack, ArgInt{Value: int64(op)})
}

// Unpack emits a splat of the given kind.
func (b *Builder) Unpack(kind UnpackKind) {
	b.emit(OpUnpack, ArgInt{Value: int64(kind)})
}

// Binop emits a binary operator application.
func (b *Builder) Binop(op BinOp) {
	b.emit(OpBinop, ArgInt{Value: int64(op)})
}

// CallFunction emits a positional-argument call.
func (b *Builder) CallFunction(argc int) {
	b.emit(OpCallFunction, ArgInt{Value: int64(argc)})
}

// PseudoCall emits an iterator-protocol primitive.
func (b *Builder) PseudoCall(kind PseudoCallKind) {
	b.emit(OpPseudoCall, ArgInt{Value: int64(kind)})
}

// Unop emits a unary operator application.
func (b *Builder) Unop(op UnaryOp) {
	b.emit(OpUnop, ArgInt{Value: int64(op)})
}

// CJump emits a conditional jump to label, per the fixed semantics decided
// in DESIGN.md: keepValue controls whether the tested value stays on the
// stack, whether or not the branch is taken.
func (b *Builder) CJump(jumpIfTruth, keepValue bool, label *Label) {
	b.emit(OpCjump, ArgTuple{Items: []Arg{
		ArgInt{Value: boolToInt(jumpIfTruth)},
		ArgInt{Value: boolToInt(keepValue)},
		ArgLabel{Label: label},
	}})
}

// EndFinally marks the end of a finally block's body.
func (b *Builder) EndFinally() { b.emit(OpEndFinally, ArgNone{}) }

// EndTry marks the end of a protected region.
func (b *Builder) EndTry() { b.emit(OpEndTry, ArgNone{}) }

// Except installs a handler for the exception type on top of the stack.
func (b *Builder) Except(handler *Label) {
	b.emit(OpExcept, ArgLabel{Label: handler})
}

// ExceptAll installs a catch-all handler.
func (b *Builder) ExceptAll(handler *Label) {
	b.emit(OpExceptAll, ArgLabel{Label: handler})
}

// Finally requests that the pending finally block run.
func (b *Builder) Finally(handlingException bool, label *Label) {
	b.emit(OpFinally, ArgTuple{Items: []Arg{
		ArgLabel{Label: label},
		ArgInt{Value: boolToInt(handlingException)},
	}})
}

// Jump unconditionally transfers control to label.
func (b *Builder) Jump(label *Label) {
	b.emit(OpJump, ArgLabel{Label: label})
}

// Raise re-raises the exception on top of the stack.
func (b *Builder) Raise() { b.emit(OpRaise, ArgNone{}) }

// Return returns the top-of-stack value from the current function.
func (b *Builder) Return() { b.emit(OpReturn, ArgNone{}) }

// Try installs an exception handler entry point.
func (b *Builder) Try(handler *Label) {
	b.emit(OpTry, ArgLabel{Label: handler})
}

// InitFunction finishes constructing a function object.
func (b *Builder) InitFunction() { b.emit(OpInitFunction, ArgNone{}) }

// MakeClass builds a class object from numBases base values already on the
// stack.
func (b *Builder) MakeClass(numBases int) {
	b.emit(OpMakeClass, ArgInt{Value: int64(numBases)})
}

func packActionID(id int, action Action) ArgInt {
	return ArgInt{Value: int64(id)<<2 | int64(action)}
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}
