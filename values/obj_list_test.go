package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListAppendInsertRemove(t *testing.T) {
	l := NewList()
	l.Append(Number(1))
	l.Append(Number(2))
	l.Append(Number(3))

	l.Insert(1, Number(99))
	assert.Equal(t, []Value{Number(1), Number(99), Number(2), Number(3)}, l.Elements)

	removed := l.RemoveAt(0)
	assert.Equal(t, Number(1), removed)
	assert.Equal(t, 3, l.Len())
}

func TestRangeDirectionAndLen(t *testing.T) {
	asc := NewRange(1, 5)
	assert.True(t, asc.IsAscending())
	assert.Equal(t, 5, asc.Len())

	desc := NewRange(5, 1)
	assert.False(t, desc.IsAscending())
	assert.Equal(t, 5, desc.Len())
}
