package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferGrowsPastInitialCapacity(t *testing.T) {
	b := NewBuffer[byte](4)
	for i := 0; i < 50; i++ {
		b.Push(byte(i))
	}
	assert.Equal(t, 50, b.Len())
	for i := 0; i < 50; i++ {
		assert.Equal(t, byte(i), b.At(i))
	}
}

func TestPushShortBEEmitsHighByteFirst(t *testing.T) {
	b := NewBuffer[byte](4)
	PushShortBE(b, 0x1234)
	assert.Equal(t, []byte{0x12, 0x34}, b.Slice())
}

func TestNextPowerOfTwo(t *testing.T) {
	assert.Equal(t, 8, NextPowerOfTwo(5))
	assert.Equal(t, 16, NextPowerOfTwo(16))
	assert.Equal(t, 1, NextPowerOfTwo(0))
}

func TestSymbolTableInternIsIdempotent(t *testing.T) {
	st := NewSymbolTable()
	id1 := st.Intern("foo")
	id2 := st.Intern("bar")
	id3 := st.Intern("foo")
	assert.Equal(t, id1, id3)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, "foo", st.Name(id1))
	assert.Equal(t, 2, st.Count())
}
