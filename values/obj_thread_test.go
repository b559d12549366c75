package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadPushPopStack(t *testing.T) {
	th := NewThread(&ObjClosure{Fn: &ObjFn{}})
	th.Push(Number(1))
	th.Push(Number(2))
	assert.Equal(t, 2, th.ESP())
	assert.Equal(t, Number(2), th.Pop())
	assert.Equal(t, Number(1), th.Pop())
}

func TestThreadStackGrowsOnDemand(t *testing.T) {
	th := NewThread(&ObjClosure{Fn: &ObjFn{}})
	for i := 0; i < 100; i++ {
		th.Push(Number(float64(i)))
	}
	for i := 99; i >= 0; i-- {
		assert.Equal(t, Number(float64(i)), th.Pop())
	}
}

func TestOpenUpvalueDedup(t *testing.T) {
	th := NewThread(&ObjClosure{Fn: &ObjFn{}})
	th.Push(Number(5))
	u1 := th.FindOrCreateOpenUpvalue(0)
	u2 := th.FindOrCreateOpenUpvalue(0)
	assert.Same(t, u1, u2, "two requests for the same slot share one open upvalue")
}

func TestOpenUpvalueListSortedDescending(t *testing.T) {
	th := NewThread(&ObjClosure{Fn: &ObjFn{}})
	th.Push(Number(1))
	th.Push(Number(2))
	th.Push(Number(3))
	th.FindOrCreateOpenUpvalue(0)
	th.FindOrCreateOpenUpvalue(2)
	th.FindOrCreateOpenUpvalue(1)

	var indices []int
	for u := th.openUpvalues; u != nil; u = u.nextOpen {
		indices = append(indices, u.index)
	}
	assert.Equal(t, []int{2, 1, 0}, indices)
}

func TestUpvalueCloseMovesValueInline(t *testing.T) {
	th := NewThread(&ObjClosure{Fn: &ObjFn{}})
	th.Push(Number(42))
	u := th.FindOrCreateOpenUpvalue(0)
	require.True(t, u.IsOpen())

	th.SetSlotAt(0, Number(99))
	assert.Equal(t, Number(99), u.Get(), "open upvalue reads through to the live slot")

	th.CloseUpvaluesFrom(0)
	assert.False(t, u.IsOpen())
	assert.Equal(t, Number(99), u.Get(), "closed upvalue retains the value at close time")

	th.SetSlotAt(0, Number(7))
	assert.Equal(t, Number(99), u.Get(), "closed upvalue no longer tracks the stack slot")
}

func TestThreadFrameStack(t *testing.T) {
	fn := &ObjFn{MaxStackSlotUsedNum: 4}
	closure := &ObjClosure{Fn: fn}
	th := NewThread(closure)
	require.Len(t, th.Frames, 1)

	th.PushFrame(closure, 1)
	assert.Len(t, th.Frames, 2)
	assert.Equal(t, 1, th.CurrentFrame().StackStart)

	popped := th.PopFrame()
	assert.Equal(t, 1, popped.StackStart)
	assert.Len(t, th.Frames, 1)
}
