package code

import "testing"

func TestOpcodeString(t *testing.T) {
	for op := Opcode(0); op < Opcode(numOpcodes); op++ {
		if opcodeNames[op] == "" {
			t.Errorf("missing mnemonic for opcode %d", op)
		}
		if !op.Valid() {
			t.Errorf("opcode %d reports invalid within its own table bound", op)
		}
	}
	if Opcode(numOpcodes).Valid() {
		t.Error("opcode one past the table end reports valid")
	}
}

func TestOpcodeTableOrder(t *testing.T) {
	// Order matters: it is the opcode's encoded index. Pin the closed
	// table to the exact sequence from spec §4.G so a reordering is
	// caught immediately.
	want := []string{
		"nop", "attribute", "get_exception", "index", "load_const", "name",
		"eager_unpack_list", "make_struct", "stack", "unpack", "binop",
		"call_function", "pseudo_call", "unop", "cjump", "end_finally",
		"end_try", "except", "except_all", "finally", "jump", "raise",
		"return", "try", "init_function", "make_class",
	}
	if len(want) != numOpcodes {
		t.Fatalf("want has %d entries, table has %d", len(want), numOpcodes)
	}
	for i, name := range want {
		if got := Opcode(i).String(); got != name {
			t.Errorf("opcode %d: got %q, want %q", i, got, name)
		}
	}
}
