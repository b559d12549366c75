package values

// DebugLine pairs an instruction offset with the source line it came from,
// used to build the parallel debug line-number vector.
type DebugLine struct {
	Offset int
	Line   int
}

// ObjFn is an immutable compiled function body: instruction stream,
// constant pool, and the metadata the VM needs to set up a call frame.
type ObjFn struct {
	Header
	Code                []byte
	Lines               []DebugLine // parallel to Code; optional (nil if debug info stripped)
	Constants           []Value
	ArgNum              int
	UpvalueCount        int
	MaxStackSlotUsedNum int
	Module              *ObjModule
	DebugName           string // for stack traces / error messages only
}

func NewFn(module *ObjModule) *ObjFn {
	return &ObjFn{Header: NewHeader(ObjFnType), Module: module}
}

func (f *ObjFn) ByteSize() int {
	return 48 + len(f.Code) + len(f.Lines)*16 + len(f.Constants)*24
}

func (f *ObjFn) GoString() string {
	if f.DebugName != "" {
		return "fn " + f.DebugName
	}
	return "fn <anonymous>"
}

// LineFor returns the source line associated with the instruction at
// offset, or 0 if there is no debug info.
func (f *ObjFn) LineFor(offset int) int {
	line := 0
	for _, dl := range f.Lines {
		if dl.Offset > offset {
			break
		}
		line = dl.Line
	}
	return line
}

// UpvalueDescriptor records, for one upvalue slot of a closure, whether it
// captures a local of the immediately enclosing function or inherits an
// upvalue of that enclosing function by index.
type UpvalueDescriptor struct {
	IsEnclosingLocal bool
	Index            int
}

// ObjClosure binds an ObjFn to the upvalues its body actually captures.
type ObjClosure struct {
	Header
	Fn        *ObjFn
	Upvalues  []*ObjUpvalue
}

func NewClosure(fn *ObjFn) *ObjClosure {
	return &ObjClosure{
		Header:   NewHeader(ObjClosureType),
		Fn:       fn,
		Upvalues: make([]*ObjUpvalue, fn.UpvalueCount),
	}
}

func (c *ObjClosure) ByteSize() int { return 24 + len(c.Upvalues)*8 }
func (c *ObjClosure) GoString() string { return c.Fn.GoString() }

// ObjUpvalue is a sum type over open (still pointing into a live thread
// stack slot) and closed (the value has been moved inline because the
// owning frame returned). The transition is one-way and is performed by
// Close.
type ObjUpvalue struct {
	Header
	thread   *ObjThread  // owning thread while open; nil once closed
	index    int         // stack slot index while open
	closed   Value       // valid once closed
	isOpen   bool
	nextOpen *ObjUpvalue // next-lower-slot link in the thread's open list
}

// NewOpenUpvalue creates an upvalue pointing at thread's stack slot index.
func NewOpenUpvalue(thread *ObjThread, index int) *ObjUpvalue {
	return &ObjUpvalue{Header: NewHeader(ObjUpvalueType), thread: thread, index: index, isOpen: true}
}

func (u *ObjUpvalue) IsOpen() bool { return u.isOpen }

// StackIndex returns the slot index this upvalue still points at. Valid
// only while IsOpen.
func (u *ObjUpvalue) StackIndex() int { return u.index }

// Get returns the current value, reading through to the owning thread's
// stack slot while open.
func (u *ObjUpvalue) Get() Value {
	if u.isOpen {
		return u.thread.stack[u.index]
	}
	return u.closed
}

// Set writes through to the owning stack slot while open, or to the
// inlined value once closed.
func (u *ObjUpvalue) Set(v Value) {
	if u.isOpen {
		u.thread.stack[u.index] = v
		return
	}
	u.closed = v
}

// Close moves the current value inline and severs the link to the owning
// thread. Idempotent: closing an already-closed upvalue is a no-op.
func (u *ObjUpvalue) Close() {
	if !u.isOpen {
		return
	}
	u.closed = u.thread.stack[u.index]
	u.isOpen = false
	u.thread = nil
}

func (u *ObjUpvalue) ByteSize() int { return 40 }
func (u *ObjUpvalue) GoString() string { return "upvalue" }
