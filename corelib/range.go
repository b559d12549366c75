package corelib

import (
	"github.com/wisp-lang/wisp/values"
	"github.com/wisp-lang/wisp/vm"
)

// registerRangePrimitives installs the iterate protocol plus the from/to
// accessors the .. and ... operators produce values for.
func registerRangePrimitives(machine *vm.VirtualMachine, class *values.Class) {
	asRange := func(v values.Value) *values.ObjRange { return v.Obj.(*values.ObjRange) }

	install(class, machine.MethodNames, []primitiveEntry{
		{getter("from"), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Number(asRange(args[0]).From))
		}},
		{getter("to"), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Number(asRange(args[0]).To))
		}},
		{getter("isAscending"), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Bool(asRange(args[0]).IsAscending()))
		}},
		{getter("count"), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Number(float64(asRange(args[0]).Len())))
		}},
		{method("iterate", 1), func(_ values.VM, args []values.Value) bool {
			r := asRange(args[0])
			step := 1.0
			if !r.IsAscending() {
				step = -1.0
			}
			if args[1].IsNull() {
				return ret(args, values.Number(r.From))
			}
			cur := args[1].Num + step
			if r.IsAscending() && cur > r.To {
				return ret(args, values.Null)
			}
			if !r.IsAscending() && cur < r.To {
				return ret(args, values.Null)
			}
			return ret(args, values.Number(cur))
		}},
		{method("iteratorValue", 1), func(_ values.VM, args []values.Value) bool {
			return ret(args, args[1])
		}},
	})
}
