package corelib

import (
	"github.com/wisp-lang/wisp/values"
	"github.com/wisp-lang/wisp/vm"
)

// registerMapPrimitives installs what map-literal lowering needs (new(),
// [_]=(_)) plus lookup, deletion, and iteration by raw table slot (mapping
// Wren's slot-index Map iteration onto ObjMap.EntryAt/Capacity).
func registerMapPrimitives(machine *vm.VirtualMachine, class *values.Class) {
	asMap := func(v values.Value) *values.ObjMap { return v.Obj.(*values.ObjMap) }

	install(class.ClassPtr(), machine.MethodNames, []primitiveEntry{
		{method("new", 0), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.FromObj(machine.NewMap()))
		}},
	})

	install(class, machine.MethodNames, []primitiveEntry{
		{getter("count"), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Number(float64(asMap(args[0]).Len())))
		}},
		{subscript(1), func(_ values.VM, args []values.Value) bool {
			v, ok := asMap(args[0]).Get(args[1])
			if !ok {
				return ret(args, values.Null)
			}
			return ret(args, v)
		}},
		{subscriptSet(2), func(_ values.VM, args []values.Value) bool {
			asMap(args[0]).Set(args[1], args[2])
			return ret(args, args[2])
		}},
		{method("containsKey", 1), func(_ values.VM, args []values.Value) bool {
			_, ok := asMap(args[0]).Get(args[1])
			return ret(args, values.Bool(ok))
		}},
		{method("remove", 1), func(_ values.VM, args []values.Value) bool {
			v, ok := asMap(args[0]).Get(args[1])
			asMap(args[0]).Delete(args[1])
			if !ok {
				return ret(args, values.Null)
			}
			return ret(args, v)
		}},
		{method("iterate", 1), func(_ values.VM, args []values.Value) bool {
			m := asMap(args[0])
			next := 0
			if !args[1].IsNull() {
				next = int(args[1].Num) + 1
			}
			for next < m.Capacity() {
				if _, _, live := m.EntryAt(next); live {
					return ret(args, values.Number(float64(next)))
				}
				next++
			}
			return ret(args, values.Null)
		}},
		{method("iteratorValue", 1), func(_ values.VM, args []values.Value) bool {
			m := asMap(args[0])
			key, value, _ := m.EntryAt(int(args[1].Num))
			pair := machine.NewList()
			pair.Append(key)
			pair.Append(value)
			return ret(args, values.FromObj(pair))
		}},
	})
}
