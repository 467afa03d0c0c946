package cas

import (
	"io"
	"testing"

	"github.com/nandy2uy/Nova-language/vm"
	"github.com/shamaton/msgpack/v2"
	"github.com/stretchr/testify/require"
)

type note struct {
	Text string
}

func (n *note) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, n)
}

func (n *note) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, n)
}

func sampleProgram() *vm.Program {
	return &vm.Program{
		Code: []vm.Op{
			{Code: vm.JUMP, Arg: vm.TargetArg(3)},
			{Code: vm.LOAD, Arg: vm.NameArg("x")},
			{Code: vm.RETURN},
			{Code: vm.PUSH, Arg: vm.IntValue(1)},
			{Code: vm.CALL, Arg: vm.NameArg("id")},
			{Code: vm.PRINT},
		},
		Functions: vm.FunctionTable{"id": {Start: 1, Params: []string{"x"}}},
	}
}

func TestMemoryCAS(t *testing.T) {
	c := NewMemoryCAS()
	h1, err := c.Put(&note{Text: "a"})
	require.NoError(t, err)
	h2, err := c.Put(&note{Text: "a"})
	require.NoError(t, err)
	require.Equal(t, h1, h2)
	require.Equal(t, 1, c.Len())
	require.True(t, c.Has(h1))

	h3, err := c.Put(&note{Text: "b"})
	require.NoError(t, err)
	require.NotEqual(t, h1, h3)
	require.Equal(t, 2, c.Len())

	n, err := Retrieve[note](c, h3)
	require.NoError(t, err)
	require.Equal(t, "b", n.Text)
}

func TestRetrieveErrors(t *testing.T) {
	c := NewMemoryCAS()
	_, err := Retrieve[note](c, Hash(42))
	require.ErrorIs(t, err, ErrNotFound)

	h, err := c.Put(&note{Text: "not a program"})
	require.NoError(t, err)
	_, err = Retrieve[vm.Program](c, h)
	require.ErrorContains(t, err, "type mismatch")
}

func TestProgramRoundTrip(t *testing.T) {
	c := NewMemoryCAS()
	p := sampleProgram()
	h, err := c.Put(p)
	require.NoError(t, err)
	got, err := Retrieve[vm.Program](c, h)
	require.NoError(t, err)
	require.Equal(t, p.Code, got.Code)
	require.Equal(t, p.Functions, got.Functions)
}
