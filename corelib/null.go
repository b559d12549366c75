package corelib

import (
	"github.com/wisp-lang/wisp/values"
	"github.com/wisp-lang/wisp/vm"
)

// registerNullPrimitives installs Null's overrides; equality and toString
// fall out of object's defaults (Null's toString there already renders
// "null" via Value.String).
func registerNullPrimitives(machine *vm.VirtualMachine, class *values.Class) {
	install(class, machine.MethodNames, []primitiveEntry{
		{method("!", 0), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.True)
		}},
	})
}
