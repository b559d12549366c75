package corelib

import (
	"github.com/wisp-lang/wisp/values"
	"github.com/wisp-lang/wisp/vm"
)

// registerBoolPrimitives installs Bool's handful of overrides; everything
// else (==, !=, toString) is inherited from object.
func registerBoolPrimitives(machine *vm.VirtualMachine, class *values.Class) {
	install(class, machine.MethodNames, []primitiveEntry{
		{method("!", 0), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Bool(args[0].Type == values.ValueFalse))
		}},
	})
}
