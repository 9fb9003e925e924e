package code

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeCjump(t *testing.T) {
	// Concrete scenario 6 from spec §8: cjump(False=0, keep=1, address=5)
	// encodes as ((5<<2)|(1<<1)|0)<<8 | opcode_index(cjump).
	in := Instruction{
		Op: OpCjump,
		Arg: ArgTuple{Items: []Arg{
			ArgInt{Value: 0}, // jump_if_truth = False
			ArgInt{Value: 1}, // keep
			ArgInt{Value: 5}, // address
		}},
	}
	word, err := Encode(in)
	require.NoError(t, err)

	want := uint32((5<<2)|(1<<1)|0)<<8 | uint32(OpCjump)
	require.Equal(t, want, word)
}

func TestEncodeDecodeRoundTripsOpcodeAndPayload(t *testing.T) {
	in := Instruction{Op: OpLoadConst, Arg: ArgInt{Value: 123}}
	word, err := Encode(in)
	require.NoError(t, err)

	op, payload, err := Decode(word)
	require.NoError(t, err)
	require.Equal(t, OpLoadConst, op)
	require.Equal(t, int64(123), payload)
}

func TestEncodeIsExactlyFourBytes(t *testing.T) {
	word, err := Encode(Instruction{Op: OpNop, Arg: ArgNone{}})
	require.NoError(t, err)
	require.LessOrEqual(t, word, uint32(0xffffffff))
}

func TestEncodeRejectsOversizedPayload(t *testing.T) {
	_, err := Encode(Instruction{Op: OpLoadConst, Arg: ArgInt{Value: 1 << 24}})
	require.Error(t, err)
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
}

func TestEncodeRejectsUnknownOpcode(t *testing.T) {
	_, err := Encode(Instruction{Op: Opcode(numOpcodes), Arg: ArgNone{}})
	require.Error(t, err)
}

func TestEncodeRejectsMissingLabelResolution(t *testing.T) {
	// A Jump whose argument is still an ArgLabel (not yet linked) is not a
	// valid linked instruction.
	_, err := Encode(Instruction{Op: OpJump, Arg: ArgLabel{Label: &Label{id: 0}}})
	require.Error(t, err)
}
