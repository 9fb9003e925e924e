package code

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolInterningIsIdempotent(t *testing.T) {
	p := NewPool()
	id1 := p.Intern(Int{Value: 42})
	id2 := p.Intern(Int{Value: 42})
	require.Equal(t, id1, id2)
	require.Equal(t, 1, p.Len())
}

func TestPoolAssignsDenseStableIndices(t *testing.T) {
	p := NewPool()
	idA := p.Intern(String{Value: "a"})
	idB := p.Intern(String{Value: "b"})
	idA2 := p.Intern(String{Value: "a"})

	require.Equal(t, 0, idA)
	require.Equal(t, 1, idB)
	require.Equal(t, idA, idA2)
	require.Equal(t, 2, p.Len())
}

func TestPoolDistinguishesIntAndFloat(t *testing.T) {
	p := NewPool()
	idInt := p.Intern(Int{Value: 1})
	idFloat := p.Intern(Float{Value: 1.0})
	require.NotEqual(t, idInt, idFloat)
	require.Equal(t, 2, p.Len())
}

func TestPoolNoneIsSingleton(t *testing.T) {
	p := NewPool()
	id1 := p.Intern(None{})
	id2 := p.Intern(None{})
	require.Equal(t, id1, id2)
	require.Equal(t, 1, p.Len())
}

func TestCodeConstantHashesByContent(t *testing.T) {
	p := NewPool()
	linkedA := &Linked{Type: Function, Instructions: []Instruction{
		{Op: OpLoadConst, Arg: ArgInt{Value: 0}},
		{Op: OpReturn, Arg: ArgNone{}},
	}}
	linkedB := &Linked{Type: Function, Instructions: []Instruction{
		{Op: OpLoadConst, Arg: ArgInt{Value: 0}},
		{Op: OpReturn, Arg: ArgNone{}},
	}}
	id1 := p.Intern(CodeConstant{Code: linkedA})
	id2 := p.Intern(CodeConstant{Code: linkedB})
	require.Equal(t, id1, id2, "structurally identical linked code should intern to one slot")
}
