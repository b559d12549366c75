package corelib

import (
	"strings"

	"github.com/wisp-lang/wisp/values"
	"github.com/wisp-lang/wisp/vm"
)

// registerStringPrimitives installs concatenation, indexing, the iterate
// protocol (by byte offset), and a few query methods. Equality already
// falls out of object's default (Value.Equal special-cases ObjString to
// compare by content).
func registerStringPrimitives(machine *vm.VirtualMachine, class *values.Class) {
	asString := func(v values.Value) (string, bool) {
		s, ok := v.Obj.(*values.ObjString)
		if !ok {
			return "", false
		}
		return s.Value, true
	}

	install(class, machine.MethodNames, []primitiveEntry{
		{method("+", 1), func(_ values.VM, args []values.Value) bool {
			rhs, ok := asString(args[1])
			if !ok {
				return runtimeError(machine, "right operand of '+' must be a string")
			}
			lhs, _ := asString(args[0])
			return ret(args, machine.NewStringValue(lhs+rhs))
		}},
		{getter("count"), func(_ values.VM, args []values.Value) bool {
			s, _ := asString(args[0])
			return ret(args, values.Number(float64(len(s))))
		}},
		{method("contains", 1), func(_ values.VM, args []values.Value) bool {
			s, _ := asString(args[0])
			needle, ok := asString(args[1])
			if !ok {
				return runtimeError(machine, "argument to 'contains' must be a string")
			}
			return ret(args, values.Bool(strings.Contains(s, needle)))
		}},
		{subscript(1), func(_ values.VM, args []values.Value) bool {
			s, _ := asString(args[0])
			if !args[1].IsNumber() {
				return runtimeError(machine, "string index must be a number")
			}
			i := int(args[1].Num)
			if i < 0 || i >= len(s) {
				return runtimeError(machine, "string index out of bounds")
			}
			return ret(args, machine.NewStringValue(string(s[i])))
		}},
		{method("iterate", 1), func(_ values.VM, args []values.Value) bool {
			s, _ := asString(args[0])
			next := 0
			if !args[1].IsNull() {
				next = int(args[1].Num) + 1
			}
			if next >= len(s) {
				return ret(args, values.Null)
			}
			return ret(args, values.Number(float64(next)))
		}},
		{method("iteratorValue", 1), func(_ values.VM, args []values.Value) bool {
			s, _ := asString(args[0])
			i := int(args[1].Num)
			return ret(args, machine.NewStringValue(string(s[i])))
		}},
	})
}
