package corelib

import (
	"github.com/wisp-lang/wisp/values"
	"github.com/wisp-lang/wisp/vm"
)

// maxFnCallArity is the highest arity Fn.call(...) is bound for, matching
// the call protocol's fn-call method kind rather than a native body: the
// VM recognizes the tag and pushes a frame over the receiver closure
// directly (vm.invokeCall's MethodFnCall case).
const maxFnCallArity = 16

// registerFnPrimitives binds call()..call(_,...,_) (arities 0..16) as
// fn-call methods, the only wiring Fn needs — invocation itself lives in
// the VM's call protocol, not in a primitive body.
func registerFnPrimitives(machine *vm.VirtualMachine, class *values.Class) {
	for n := 0; n <= maxFnCallArity; n++ {
		id := machine.MethodNames.Intern(method("call", n))
		class.BindMethod(id, values.Method{Kind: values.MethodFnCall, FnCallArgNum: n})
	}

	install(class, machine.MethodNames, []primitiveEntry{
		{getter("arity"), func(_ values.VM, args []values.Value) bool {
			c, ok := args[0].Obj.(*values.ObjClosure)
			if !ok {
				return runtimeError(machine, "receiver is not a function")
			}
			return ret(args, values.Number(float64(c.Fn.ArgNum)))
		}},
	})
}
