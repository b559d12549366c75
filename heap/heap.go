// Package heap implements the VM's single memory-management entry point
// and its tri-color mark-sweep collector. Every heap allocation in the
// system funnels through Heap.Manage so allocatedBytes stays accurate.
package heap

import (
	"github.com/wisp-lang/wisp/values"
)

const (
	defaultHeapGrowthFactor = 2.0
	defaultMinHeapSize      = 1 << 20 // 1 MiB
)

// Roots is implemented by the VM to supply everything a collection must
// trace: loaded modules, the temporary root stack, the current thread, and
// active compiler state. Kept as an interface here so heap never imports
// vm or compiler.
type Roots interface {
	WalkRoots(gray func(values.Obj))
}

// Heap owns the global allocation list and the allocation-accounting state
// the GC triggers on.
type Heap struct {
	all             values.Obj // head of the intrusive sweep list
	allocatedBytes  int
	nextGC          int
	heapGrowthFactor float64
	minHeapSize     int
	gcEnabled       bool
	roots           Roots
	gray            []values.Obj
	collections     int

	// OnCollect, if set, runs after every completed cycle. The VM wires this
	// to a debug-level-gated stderr logger rather than calling it
	// unconditionally, keeping heap itself silent by default.
	OnCollect func(h *Heap)
}

// New creates a Heap. GC starts disabled: the VM must call Enable once the
// core module (and thus a consistent set of roots) is fully installed, per
// the spec's "GC may be disabled... before the core module is installed"
// rule.
func New() *Heap {
	return &Heap{
		nextGC:           defaultMinHeapSize,
		heapGrowthFactor: defaultHeapGrowthFactor,
		minHeapSize:      defaultMinHeapSize,
	}
}

// SetRoots attaches the root provider. Must be called before the first
// collection; the VM does this once at construction.
func (h *Heap) SetRoots(r Roots) { h.roots = r }

// Enable turns GC on. Call only once roots are safe to walk.
func (h *Heap) Enable() { h.gcEnabled = true }

// Disable turns GC off, used while the compiler is bootstrapping before
// curParser exists.
func (h *Heap) Disable() { h.gcEnabled = false }

// Manage is the sole allocation/resize/free entry point. oldSize is the
// object's previous byte footprint (0 for a fresh allocation), newSize its
// new one (0 to free). It updates allocatedBytes by the delta and may
// trigger a collection before an allocating call returns.
func (h *Heap) Manage(oldSize, newSize int) {
	h.allocatedBytes += newSize - oldSize
	if newSize > oldSize && h.gcEnabled && h.allocatedBytes > h.nextGC {
		h.Collect()
	}
}

// Register appends a freshly allocated object to the global sweep list and
// accounts for its initial byte footprint. Every constructor in package
// values that allocates a heap object must be paired with a call to this
// from whatever owns the Heap (typically the VM, at the point of
// allocation) so the object is reachable for sweeping.
func (h *Heap) Register(obj values.Obj) {
	obj.SetNext(h.all)
	h.all = obj
	h.Manage(0, obj.ByteSize())
}

// Collect runs one full tri-color mark-sweep cycle.
func (h *Heap) Collect() {
	h.allocatedBytes = 0
	h.gray = h.gray[:0]

	if h.roots != nil {
		h.roots.WalkRoots(h.grayObject)
	}

	for len(h.gray) > 0 {
		obj := h.gray[len(h.gray)-1]
		h.gray = h.gray[:len(h.gray)-1]
		h.blacken(obj)
	}

	h.sweep()

	h.nextGC = int(float64(h.allocatedBytes) * h.heapGrowthFactor)
	if h.nextGC < h.minHeapSize {
		h.nextGC = h.minHeapSize
	}
	h.collections++

	if h.OnCollect != nil {
		h.OnCollect(h)
	}
}

// WalkAll calls fn for every object currently on the sweep list, live or
// not yet collected, live and unmarked alike; used once at core bootstrap
// to retag every ObjString allocated before the String class existed.
func (h *Heap) WalkAll(fn func(values.Obj)) {
	for cur := h.all; cur != nil; cur = cur.Next() {
		fn(cur)
	}
}

// Collections reports how many full cycles have run, for diagnostics.
func (h *Heap) Collections() int { return h.collections }

// AllocatedBytes reports the live-bytes estimate as of the last collection
// (or running total since, for objects allocated after it).
func (h *Heap) AllocatedBytes() int { return h.allocatedBytes }

func (h *Heap) grayObject(obj values.Obj) {
	if obj == nil || obj.IsMarked() {
		return
	}
	obj.SetMarked(true)
	h.gray = append(h.gray, obj)
}

func (h *Heap) grayValue(v values.Value) {
	if v.IsObj() {
		h.grayObject(v.Obj)
	}
}

// blacken grays every object obj references and folds obj's own footprint
// into allocatedBytes, per the type-specific responsibilities in the spec.
func (h *Heap) blacken(obj values.Obj) {
	h.allocatedBytes += obj.ByteSize()

	switch o := obj.(type) {
	case *values.Class:
		if o.ClassPtr() != nil {
			h.grayObject(o.ClassPtr())
		}
		if o.Super != nil {
			h.grayObject(o.Super)
		}
		if o.Name != nil {
			h.grayObject(o.Name)
		}
		for _, m := range o.Methods {
			if m.Kind == values.MethodScript && m.Closure != nil {
				h.grayObject(m.Closure)
			}
		}
	case *values.ObjClosure:
		if o.Fn != nil {
			h.grayObject(o.Fn)
		}
		for _, uv := range o.Upvalues {
			if uv != nil {
				h.grayObject(uv)
			}
		}
	case *values.ObjThread:
		for i := range o.Frames {
			if c := o.Frames[i].Closure; c != nil {
				h.grayObject(c)
			}
		}
		for i := 0; i < o.ESP(); i++ {
			h.grayValue(o.SlotAt(i))
		}
		o.WalkOpenUpvalues(func(u *values.ObjUpvalue) { h.grayObject(u) })
		if o.Caller != nil {
			h.grayObject(o.Caller)
		}
		h.grayValue(o.ErrorObj)
	case *values.ObjFn:
		for _, c := range o.Constants {
			h.grayValue(c)
		}
	case *values.ObjInstance:
		if c := o.ClassPtr(); c != nil {
			h.grayObject(c)
		}
		for _, f := range o.Fields {
			h.grayValue(f)
		}
	case *values.ObjList:
		for _, e := range o.Elements {
			h.grayValue(e)
		}
	case *values.ObjMap:
		o.Each(func(k, v values.Value) {
			h.grayValue(k)
			h.grayValue(v)
		})
	case *values.ObjModule:
		for _, v := range o.VarValue {
			h.grayValue(v)
		}
		if o.Name != nil {
			h.grayObject(o.Name)
		}
	case *values.ObjUpvalue:
		if !o.IsOpen() {
			h.grayValue(o.Get())
		}
	case *values.ObjRange, *values.ObjString:
		// leaf objects: only their own bytes, already accounted for above.
	}
}

// sweep walks the global object list, freeing unmarked objects and
// clearing the mark bit on survivors.
func (h *Heap) sweep() {
	var survivors values.Obj
	var tail values.Obj

	cur := h.all
	for cur != nil {
		next := cur.Next()
		if cur.IsMarked() {
			cur.SetMarked(false)
			cur.SetNext(nil)
			if survivors == nil {
				survivors = cur
			} else {
				tail.SetNext(cur)
			}
			tail = cur
		}
		cur = next
	}
	h.all = survivors
}
