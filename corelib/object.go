package corelib

import (
	"github.com/wisp-lang/wisp/values"
	"github.com/wisp-lang/wisp/vm"
)

// registerObjectPrimitives installs the root class's methods: identity
// equality, boolean negation, runtime type tests, and the default
// toString every other class either inherits or overrides.
func registerObjectPrimitives(machine *vm.VirtualMachine, class *values.Class) {
	install(class, machine.MethodNames, []primitiveEntry{
		{method("==", 1), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Bool(args[0].Equal(args[1])))
		}},
		{method("!=", 1), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Bool(!args[0].Equal(args[1])))
		}},
		{method("!", 0), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Bool(args[0].IsFalsey()))
		}},
		{method("is", 1), func(_ values.VM, args []values.Value) bool {
			target, ok := args[1].Obj.(*values.Class)
			if !ok {
				return runtimeError(machine, "right operand of 'is' must be a class")
			}
			return ret(args, values.Bool(isInstanceOf(args[0].ClassOf(), target)))
		}},
		{getter("toString"), func(_ values.VM, args []values.Value) bool {
			return ret(args, machine.NewStringValue(args[0].String()))
		}},
		{getter("type"), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.FromObj(args[0].ClassOf()))
		}},
	})
}

// isInstanceOf walks from up its superclass chain looking for target.
func isInstanceOf(from, target *values.Class) bool {
	for c := from; c != nil; c = c.Super {
		if c == target {
			return true
		}
	}
	return false
}
