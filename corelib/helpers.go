package corelib

import (
	"github.com/wisp-lang/wisp/values"
	"github.com/wisp-lang/wisp/vm"
)

// sig renders a method signature to its canonical dispatch string, saving
// every primitive table below from spelling out values.Signature{...} by
// hand.
func sig(kind values.SignatureKind, name string, argNum int) string {
	return values.Signature{Kind: kind, Name: name, ArgNum: argNum}.Canonical()
}

func getter(name string) string    { return sig(values.SignGetter, name, 0) }
func setter(name string) string    { return sig(values.SignSetter, name, 1) }
func method(name string, n int) string { return sig(values.SignMethod, name, n) }
func subscript(n int) string       { return sig(values.SignSubscript, "", n) }
func subscriptSet(n int) string    { return sig(values.SignSubscriptSetter, "", n) }

// primitiveEntry pairs a canonical signature with the native body bound at
// that id, the shape every per-class registration table below is built
// from.
type primitiveEntry struct {
	signature string
	body      values.Primitive
}

// install interns every entry's signature into names and binds it on
// class, mirroring §4.4 item 3 ("attaching primitive methods ... by
// interning each signature ... and writing a primitive method entry at
// that id").
func install(class *values.Class, names *values.SymbolTable, entries []primitiveEntry) {
	for _, e := range entries {
		id := names.Intern(e.signature)
		class.BindMethod(id, values.Method{Kind: values.MethodPrimitive, Primitive: e.body})
	}
}

// runtimeError populates the current thread's errorObj with msg and
// returns false, the primitive failure protocol §7 describes. machine
// allocates the message so it carries a proper String class tag and is
// registered with the heap like any other runtime value.
func runtimeError(machine *vm.VirtualMachine, msg string) bool {
	machine.CurThread().ErrorObj = machine.NewStringValue(msg)
	return false
}

func ret(args []values.Value, v values.Value) bool {
	args[0] = v
	return true
}
