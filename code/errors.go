package code

// StructuralError reports a structural compile error: duplicate label
// definition (from the builder or the linker), or a linked jump target
// outside the instruction range (from the linker). (break/continue-outside-loop and
// dangling-label-reference structural errors are reported by the compiler
// and linker packages respectively, each with their own error type, per
// spec §7's three-kind error taxonomy.)
type StructuralError struct {
	Msg string
}

func (e *StructuralError) Error() string { return e.Msg }

// EncodingError reports that an instruction's argument cannot be
// represented in the fixed 24-bit payload, or that an opcode falls outside
// the closed table.
type EncodingError struct {
	Msg string
}

func (e *EncodingError) Error() string { return e.Msg }
