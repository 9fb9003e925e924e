package main

import (
	"fmt"
	"os"

	"github.com/pexlang/pexc/code"
	"github.com/pexlang/pexc/pex"
)

// instr is one disassembled instruction, rendered for display: an
// inverse of code.Encode's argument packing, since a raw PEX file carries
// only opcode + packed payload with no symbolic argument tree to print
// directly.
type instr struct {
	Op   code.Opcode
	Text string
}

func (i instr) String() string {
	if i.Text == "" {
		return i.Op.String()
	}
	return fmt.Sprintf("%s %s", i.Op, i.Text)
}

// loadSections reads the PEX file at path and decodes each section's raw
// instruction words into disassembled instr values.
func loadSections(path string) ([][]instr, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file, err := pex.Read(f)
	if err != nil {
		return nil, err
	}

	sections := make([][]instr, len(file.Sections))
	for i, sec := range file.Sections {
		decoded := make([]instr, len(sec.Words))
		for j, word := range sec.Words {
			op, payload, err := code.Decode(word)
			if err != nil {
				return nil, fmt.Errorf("section %d, instruction %d: %w", i, j, err)
			}
			decoded[j] = instr{Op: op, Text: formatPayload(op, payload)}
		}
		sections[i] = decoded
	}
	return sections, nil
}

// formatPayload unpacks a raw 24-bit payload back into the opcode-specific
// argument shape from spec §4.G, the mirror image of code.Encode's
// packing rules.
func formatPayload(op code.Opcode, payload int64) string {
	switch op {
	case code.OpNop, code.OpEndFinally, code.OpEndTry, code.OpInitFunction,
		code.OpRaise, code.OpReturn, code.OpGetException:
		return ""

	case code.OpAttribute, code.OpName:
		return fmt.Sprintf("const=%d action=%d", payload>>2, payload&0b11)

	case code.OpIndex:
		return fmt.Sprintf("action=%d", payload)

	case code.OpMakeStruct:
		return fmt.Sprintf("n=%d kind=%d", payload>>2, payload&0b11)

	case code.OpCjump:
		return fmt.Sprintf("addr=%d keep=%d jump_if=%d", payload>>2, (payload>>1)&1, payload&1)

	case code.OpFinally:
		return fmt.Sprintf("addr=%d handling=%d", payload>>1, payload&1)

	case code.OpLoadConst, code.OpMakeClass, code.OpCallFunction,
		code.OpEagerUnpackList, code.OpStack, code.OpUnpack, code.OpBinop,
		code.OpUnop, code.OpPseudoCall, code.OpExcept, code.OpExceptAll,
		code.OpJump, code.OpTry:
		return fmt.Sprintf("%d", payload)

	default:
		return fmt.Sprintf("%d", payload)
	}
}
