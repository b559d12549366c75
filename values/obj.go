package values

// ObjType tags the concrete kind of a heap object, stored in every Obj
// header so the GC's blacken routine and the VM's type switches can branch
// on it without a Go type assertion on the hot path.
type ObjType uint8

const (
	ObjClassType ObjType = iota
	ObjListType
	ObjMapType
	ObjModuleType
	ObjRangeType
	ObjStringType
	ObjUpvalueType
	ObjFnType
	ObjClosureType
	ObjInstanceType
	ObjThreadType
)

// Obj is the interface every heap object implements. Header carries the GC
// bookkeeping (type tag, mark bit, class pointer, sweep-list link) that the
// spec requires on every allocation; concrete types embed Header and
// implement GoString for diagnostic printing.
type Obj interface {
	Kind() ObjType
	ClassPtr() *Class
	SetClassPtr(*Class)
	IsMarked() bool
	SetMarked(bool)
	Next() Obj
	SetNext(Obj)
	ByteSize() int
	GoString() string
}

// Header is embedded by every concrete object type to satisfy the
// bookkeeping half of the Obj interface.
type Header struct {
	class  *Class
	marked bool
	next   Obj
	typ    ObjType
}

func NewHeader(typ ObjType) Header { return Header{typ: typ} }

func (h *Header) Kind() ObjType       { return h.typ }
func (h *Header) ClassPtr() *Class    { return h.class }
func (h *Header) SetClassPtr(c *Class) { h.class = c }
func (h *Header) IsMarked() bool      { return h.marked }
func (h *Header) SetMarked(m bool)    { h.marked = m }
func (h *Header) Next() Obj           { return h.next }
func (h *Header) SetNext(o Obj)       { h.next = o }
