package corelib

import (
	"github.com/wisp-lang/wisp/values"
	"github.com/wisp-lang/wisp/vm"
)

// registerListPrimitives installs the methods list-literal lowering and
// for-in both depend on (new(), add(_), [_], [_]=(_), iterate(_),
// iteratorValue(_)), plus count and removeAt for completeness.
func registerListPrimitives(machine *vm.VirtualMachine, class *values.Class) {
	asList := func(v values.Value) *values.ObjList { return v.Obj.(*values.ObjList) }

	install(class.ClassPtr(), machine.MethodNames, []primitiveEntry{
		{method("new", 0), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.FromObj(machine.NewList()))
		}},
	})

	install(class, machine.MethodNames, []primitiveEntry{
		{method("add", 1), func(_ values.VM, args []values.Value) bool {
			asList(args[0]).Append(args[1])
			return ret(args, args[1])
		}},
		{getter("count"), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Number(float64(asList(args[0]).Len())))
		}},
		{subscript(1), func(_ values.VM, args []values.Value) bool {
			l := asList(args[0])
			if !args[1].IsNumber() {
				return runtimeError(machine, "list index must be a number")
			}
			i := int(args[1].Num)
			if i < 0 || i >= l.Len() {
				return runtimeError(machine, "list index out of bounds")
			}
			return ret(args, l.At(i))
		}},
		{subscriptSet(2), func(_ values.VM, args []values.Value) bool {
			l := asList(args[0])
			if !args[1].IsNumber() {
				return runtimeError(machine, "list index must be a number")
			}
			i := int(args[1].Num)
			if i < 0 || i >= l.Len() {
				return runtimeError(machine, "list index out of bounds")
			}
			l.Set(i, args[2])
			return ret(args, args[2])
		}},
		{method("insert", 2), func(_ values.VM, args []values.Value) bool {
			l := asList(args[0])
			if !args[1].IsNumber() {
				return runtimeError(machine, "list index must be a number")
			}
			i := int(args[1].Num)
			if i < 0 || i > l.Len() {
				return runtimeError(machine, "list index out of bounds")
			}
			l.Insert(i, args[2])
			return ret(args, args[2])
		}},
		{method("removeAt", 1), func(_ values.VM, args []values.Value) bool {
			l := asList(args[0])
			if !args[1].IsNumber() {
				return runtimeError(machine, "list index must be a number")
			}
			i := int(args[1].Num)
			if i < 0 || i >= l.Len() {
				return runtimeError(machine, "list index out of bounds")
			}
			return ret(args, l.RemoveAt(i))
		}},
		{method("iterate", 1), func(_ values.VM, args []values.Value) bool {
			l := asList(args[0])
			next := 0
			if !args[1].IsNull() {
				next = int(args[1].Num) + 1
			}
			if next >= l.Len() {
				return ret(args, values.Null)
			}
			return ret(args, values.Number(float64(next)))
		}},
		{method("iteratorValue", 1), func(_ values.VM, args []values.Value) bool {
			l := asList(args[0])
			return ret(args, l.At(int(args[1].Num)))
		}},
	})
}
