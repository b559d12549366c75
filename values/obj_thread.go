package values

import "github.com/google/uuid"

// Frame is one call-activation record on a thread's frame stack.
type Frame struct {
	Closure    *ObjClosure
	IP         int
	StackStart int
}

// ObjThread is a cooperative fiber: its own value stack, frame stack, and
// open-upvalue chain. Exactly one ObjThread runs at a time VM-wide (§5).
type ObjThread struct {
	Header
	stack        []Value
	esp          int
	Frames       []Frame
	openUpvalues *ObjUpvalue // head of the descending-by-slot list
	Caller       *ObjThread
	ErrorObj     Value // Null means not aborted

	// TraceID distinguishes interleaved threads in a DebugLevelTrace log; it
	// carries no language-visible meaning and is never exposed to scripts.
	TraceID uuid.UUID
}

// NewThread creates a thread with closure loaded as its sole frame, which
// starts at slot 0 of an empty stack (esp 0); nothing is pushed for it.
func NewThread(closure *ObjClosure) *ObjThread {
	t := &ObjThread{
		Header:   NewHeader(ObjThreadType),
		stack:    make([]Value, 8),
		ErrorObj: Null,
		TraceID:  uuid.New(),
	}
	t.PushFrame(closure, 0)
	return t
}

func (t *ObjThread) ByteSize() int {
	return 64 + len(t.stack)*24 + len(t.Frames)*24
}

func (t *ObjThread) GoString() string { return "thread" }

// ESP returns the index of the next free stack slot.
func (t *ObjThread) ESP() int { return t.esp }

// IsDone reports whether the thread has no frames left or has aborted.
func (t *ObjThread) IsDone() bool {
	return len(t.Frames) == 0 || !t.ErrorObj.IsNull()
}

// EnsureCapacity grows the value stack so that at least needed slots are
// available above index 0, doubling to the next power of two. Frames and
// open upvalues address the stack by index, so nothing needs adjusting
// after the copy into a larger backing array.
func (t *ObjThread) EnsureCapacity(needed int) {
	if needed <= len(t.stack) {
		return
	}
	newCap := len(t.stack)
	if newCap == 0 {
		newCap = 8
	}
	for newCap < needed {
		newCap *= 2
	}
	grown := make([]Value, newCap)
	copy(grown, t.stack)
	t.stack = grown
}

func (t *ObjThread) Push(v Value) {
	t.EnsureCapacity(t.esp + 1)
	t.stack[t.esp] = v
	t.esp++
}

func (t *ObjThread) Pop() Value {
	t.esp--
	v := t.stack[t.esp]
	t.stack[t.esp] = Undefined
	return v
}

func (t *ObjThread) Peek() Value { return t.stack[t.esp-1] }

func (t *ObjThread) PeekAt(fromTop int) Value { return t.stack[t.esp-1-fromTop] }

func (t *ObjThread) SlotAt(i int) Value { return t.stack[i] }

// Slice returns an aliased view of n stack slots starting at base, used to
// hand a primitive its (receiver, args...) window; writes through the
// returned slice land directly on the thread's backing array.
func (t *ObjThread) Slice(base, n int) []Value { return t.stack[base : base+n] }

func (t *ObjThread) SetSlotAt(i int, v Value) { t.stack[i] = v }

func (t *ObjThread) SetESP(esp int) { t.esp = esp }

// PushFrame appends a new call-activation record for closure, reserving
// enough stack capacity for its worst-case slot usage.
func (t *ObjThread) PushFrame(closure *ObjClosure, stackStart int) {
	t.EnsureCapacity(stackStart + closure.Fn.MaxStackSlotUsedNum + 1)
	t.Frames = append(t.Frames, Frame{Closure: closure, StackStart: stackStart})
}

func (t *ObjThread) PopFrame() Frame {
	f := t.Frames[len(t.Frames)-1]
	t.Frames = t.Frames[:len(t.Frames)-1]
	return f
}

func (t *ObjThread) CurrentFrame() *Frame { return &t.Frames[len(t.Frames)-1] }

// FindOrCreateOpenUpvalue returns the open upvalue for stack slot index,
// reusing one already in the descending-sorted list if present so that no
// two open upvalues ever share a slot.
func (t *ObjThread) FindOrCreateOpenUpvalue(index int) *ObjUpvalue {
	var prev *ObjUpvalue
	cur := t.openUpvalues
	for cur != nil && cur.index > index {
		prev = cur
		cur = cur.nextOpen
	}
	if cur != nil && cur.index == index {
		return cur
	}
	created := NewOpenUpvalue(t, index)
	created.nextOpen = cur
	if prev == nil {
		t.openUpvalues = created
	} else {
		prev.nextOpen = created
	}
	return created
}

// CloseUpvaluesFrom closes every open upvalue whose slot is >= fromIndex,
// used on RETURN and on explicit CLOSE_UPVALUE.
func (t *ObjThread) CloseUpvaluesFrom(fromIndex int) {
	for t.openUpvalues != nil && t.openUpvalues.index >= fromIndex {
		u := t.openUpvalues
		t.openUpvalues = u.nextOpen
		u.Close()
	}
}

// WalkOpenUpvalues calls fn for every currently-open upvalue, used by the
// GC's thread-blackening routine.
func (t *ObjThread) WalkOpenUpvalues(fn func(*ObjUpvalue)) {
	for u := t.openUpvalues; u != nil; u = u.nextOpen {
		fn(u)
	}
}
