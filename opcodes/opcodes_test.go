package opcodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallOpSuperOpRoundTrip(t *testing.T) {
	for n := 0; n <= 16; n++ {
		call := CallOp(n)
		got, ok := IsCall(call)
		require.True(t, ok)
		assert.Equal(t, n, got)

		super := SuperOp(n)
		got, ok = IsSuper(super)
		require.True(t, ok)
		assert.Equal(t, n, got)
	}
}

func TestCallOpOutOfRangePanics(t *testing.T) {
	assert.Panics(t, func() { CallOp(17) })
	assert.Panics(t, func() { CallOp(-1) })
	assert.Panics(t, func() { SuperOp(17) })
}

func TestIsCallRejectsNonCallOpcodes(t *testing.T) {
	_, ok := IsCall(RETURN)
	assert.False(t, ok)
	_, ok = IsSuper(POP)
	assert.False(t, ok)
}

func TestOperandSizes(t *testing.T) {
	cases := []struct {
		op   Op
		size int
	}{
		{PUSH_NULL, 0},
		{POP, 0},
		{LOAD_LOCAL_VAR, 1},
		{CREATE_CLASS, 1},
		{LOAD_CONSTANT, 2},
		{JUMP, 2},
		{CALL3, 2},
		{SUPER5, 4},
	}
	for _, c := range cases {
		assert.Equal(t, c.size, OperandSize(c.op), c.op.String())
	}
}

func TestOpcodeStringFallsBackForUnknown(t *testing.T) {
	assert.Equal(t, "LOAD_LOCAL_VAR", LOAD_LOCAL_VAR.String())
	unknown := Op(250)
	assert.Contains(t, unknown.String(), "OP(")
}

func TestInfoOfPanicsOnUnknownOpcode(t *testing.T) {
	assert.Panics(t, func() { InfoOf(Op(250)) })
}
