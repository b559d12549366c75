// Package vm implements the threaded bytecode interpreter: the dispatch
// loop, the CALL/SUPER call protocol, class creation and inheritance
// patching, closure creation, and cooperative thread switching. It is the
// one package allowed to mutate values.ObjThread stacks and frames in
// bulk; everything else treats compiled code as data.
package vm

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/wisp-lang/wisp/heap"
	"github.com/wisp-lang/wisp/values"
)

// DebugLevel controls how much the VM records while running, mirroring
// the layered debug/profiling posture of the interpreter this one is
// descended from.
type DebugLevel int

const (
	DebugLevelNone DebugLevel = iota
	DebugLevelBasic
	DebugLevelTrace
)

// VirtualMachine owns the heap, the global method-name table, the table of
// loaded modules, and the currently running thread. Only one goroutine may
// ever call into a VirtualMachine at a time (§5: the VM is not reentrant).
type VirtualMachine struct {
	Heap        *heap.Heap
	MethodNames *values.SymbolTable
	Modules     map[string]*values.ObjModule
	CoreModule  *values.ObjModule

	ObjectClass  *values.Class
	ClassOfClass *values.Class

	curThread *values.ObjThread
	tempRoots []values.Obj

	RootDir string

	DebugLevel  DebugLevel
	Instruction int64 // executed-instruction counter, cheap profiling hook
}

// New creates a VirtualMachine with an empty heap and method table. Core
// bindings (corelib.Bootstrap) must run before any user module is
// compiled or executed, since the compiler resolves core class names
// against CoreModule.
func New() *VirtualMachine {
	vm := &VirtualMachine{
		Heap:        heap.New(),
		MethodNames: values.NewSymbolTable(),
		Modules:     make(map[string]*values.ObjModule),
	}
	vm.Heap.SetRoots(vm)
	vm.Heap.OnCollect = vm.logCollection
	return vm
}

// logCollection prints a one-line GC summary to stderr when DebugLevel is
// at least DebugLevelBasic; at DebugLevelNone (the default) it is silent.
func (vm *VirtualMachine) logCollection(h *heap.Heap) {
	if vm.DebugLevel < DebugLevelBasic {
		return
	}
	fmt.Fprintf(os.Stderr, "gc: collection %d, %s live\n",
		h.Collections(), humanize.Bytes(uint64(h.AllocatedBytes())))
}

// CurThread implements values.VM.
func (vm *VirtualMachine) CurThread() *values.ObjThread { return vm.curThread }

// SetCurThread implements values.VM.
func (vm *VirtualMachine) SetCurThread(t *values.ObjThread) { vm.curThread = t }

// PinRoot pushes obj onto the temporary-root stack, protecting it from a
// collection triggered by a subsequent allocation before it's reachable
// from a stable root. UnpinRoot must be called once the caller has wired
// obj into its permanent home.
func (vm *VirtualMachine) PinRoot(obj values.Obj) {
	vm.tempRoots = append(vm.tempRoots, obj)
}

// UnpinRoot pops the most recently pinned root. Pins must be released in
// stack order, matching how callers nest allocations.
func (vm *VirtualMachine) UnpinRoot() {
	vm.tempRoots = vm.tempRoots[:len(vm.tempRoots)-1]
}

// WalkRoots implements heap.Roots: the current thread (and, transitively
// via the heap's thread-blackening, its whole Caller chain), every loaded
// module (including the core module), the bootstrapped class pointers,
// and the temporary-root stack.
func (vm *VirtualMachine) WalkRoots(gray func(values.Obj)) {
	if vm.curThread != nil {
		gray(vm.curThread)
	}
	if vm.CoreModule != nil {
		gray(vm.CoreModule)
	}
	for _, m := range vm.Modules {
		gray(m)
	}
	if vm.ObjectClass != nil {
		gray(vm.ObjectClass)
	}
	if vm.ClassOfClass != nil {
		gray(vm.ClassOfClass)
	}
	for _, obj := range vm.tempRoots {
		gray(obj)
	}
}

// allocate registers obj with the heap's sweep list and allocation ledger.
func (vm *VirtualMachine) allocate(obj values.Obj) values.Obj {
	vm.Heap.Register(obj)
	return obj
}

// NewInstance allocates a fresh instance of class.
func (vm *VirtualMachine) NewInstance(class *values.Class) *values.ObjInstance {
	inst := values.NewInstance(class)
	vm.allocate(inst)
	return inst
}

// NewList allocates an empty list tagged with the bootstrapped List class.
func (vm *VirtualMachine) NewList() *values.ObjList {
	l := values.NewList()
	l.SetClassPtr(vm.coreClass("List"))
	vm.allocate(l)
	return l
}

// NewMap allocates an empty map tagged with the bootstrapped Map class.
func (vm *VirtualMachine) NewMap() *values.ObjMap {
	m := values.NewMap()
	m.SetClassPtr(vm.coreClass("Map"))
	vm.allocate(m)
	return m
}

// NewRange allocates a range object tagged with the bootstrapped Range
// class.
func (vm *VirtualMachine) NewRange(from, to float64) *values.ObjRange {
	r := values.NewRange(from, to)
	r.SetClassPtr(vm.coreClass("Range"))
	vm.allocate(r)
	return r
}

// NewStringValue allocates a fresh ObjString Value tagged with the
// bootstrapped String class.
func (vm *VirtualMachine) NewStringValue(s string) values.Value {
	str := values.NewString(s)
	str.SetClassPtr(vm.coreClass("String"))
	vm.allocate(str)
	return values.FromObj(str)
}

// NewClosure allocates a closure over fn; its Upvalues slots are filled in
// by the caller (CREATE_CLOSURE handling) before it becomes reachable from
// anywhere but the temp-root stack.
func (vm *VirtualMachine) NewClosure(fn *values.ObjFn) *values.ObjClosure {
	c := values.NewClosure(fn)
	c.SetClassPtr(vm.coreClass("Fn"))
	vm.allocate(c)
	return c
}

// NewThread allocates a thread pre-loaded with closure.
func (vm *VirtualMachine) NewThread(closure *values.ObjClosure) *values.ObjThread {
	t := values.NewThread(closure)
	t.SetClassPtr(vm.coreClass("Thread"))
	vm.allocate(t)
	return t
}

// coreClass looks up a core class by name. A miss means corelib bootstrap
// never ran or ran incompletely, which is a programmer error worth
// failing loudly on rather than silently leaving an object classless.
func (vm *VirtualMachine) coreClass(name string) *values.Class {
	if vm.CoreModule == nil {
		panic(fmt.Sprintf("vm: core module not bootstrapped, needed %q", name))
	}
	idx, ok := vm.CoreModule.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("vm: core class %q not found", name))
	}
	v := vm.CoreModule.ValueAt(idx)
	c, ok := v.Obj.(*values.Class)
	if !ok {
		panic(fmt.Sprintf("vm: core module variable %q is not a class", name))
	}
	return c
}

// Interpret runs fn (a freshly compiled module body) to completion on a
// new thread, returning an error on an uncaught runtime error.
func (vm *VirtualMachine) Interpret(fn *values.ObjFn) error {
	closure := vm.NewClosure(fn)
	thread := vm.NewThread(closure)
	vm.curThread = thread
	return vm.run()
}
