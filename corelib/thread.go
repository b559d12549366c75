package corelib

import (
	"github.com/wisp-lang/wisp/values"
	"github.com/wisp-lang/wisp/vm"
)

// registerThreadPrimitives installs Thread.new(_) (metaclass constructor),
// t.call()/t.call(_) (instance methods performing the handoff), and the
// Thread.yield/Thread.abort statics that act on whichever thread is
// currently running. Suspension is implemented exactly as §5 describes:
// a primitive requests a switch by calling vm.SetCurThread and returning
// false with errorObj left null.
func registerThreadPrimitives(machine *vm.VirtualMachine, class *values.Class) {
	asThread := func(v values.Value) *values.ObjThread { return v.Obj.(*values.ObjThread) }

	install(class.ClassPtr(), machine.MethodNames, []primitiveEntry{
		{method("new", 1), func(_ values.VM, args []values.Value) bool {
			closure, ok := args[1].Obj.(*values.ObjClosure)
			if !ok {
				return runtimeError(machine, "Thread.new expects a function")
			}
			return ret(args, values.FromObj(machine.NewThread(closure)))
		}},
		{method("yield", 0), func(vmIface values.VM, args []values.Value) bool {
			return threadYield(vmIface, machine, args, values.Null)
		}},
		{method("yield", 1), func(vmIface values.VM, args []values.Value) bool {
			return threadYield(vmIface, machine, args, args[1])
		}},
		{method("abort", 1), func(vmIface values.VM, args []values.Value) bool {
			vmIface.CurThread().ErrorObj = args[1]
			return false
		}},
	})

	resume := func(vmIface values.VM, callee *values.ObjThread, arg values.Value) bool {
		if callee.IsDone() {
			return runtimeError(machine, "cannot call a finished thread")
		}
		callee.Caller = vmIface.CurThread()
		if callee.ESP() == 0 {
			callee.Push(arg)
		} else {
			callee.SetSlotAt(callee.ESP()-1, arg)
		}
		vmIface.SetCurThread(callee)
		return false
	}

	install(class, machine.MethodNames, []primitiveEntry{
		{method("call", 0), func(vmIface values.VM, args []values.Value) bool {
			return resume(vmIface, asThread(args[0]), values.Null)
		}},
		{method("call", 1), func(vmIface values.VM, args []values.Value) bool {
			return resume(vmIface, asThread(args[0]), args[1])
		}},
		{getter("isDone"), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Bool(asThread(args[0]).IsDone()))
		}},
	})
}

// threadYield implements Thread.yield: hand value to the current thread's
// caller and switch back to it. A thread with no caller has nothing to
// yield to, which is a runtime error rather than a silent no-op.
func threadYield(vmIface values.VM, machine *vm.VirtualMachine, args []values.Value, value values.Value) bool {
	current := vmIface.CurThread()
	caller := current.Caller
	if caller == nil {
		return runtimeError(machine, "cannot yield from a thread with no caller")
	}
	caller.SetSlotAt(caller.ESP()-1, value)
	current.Caller = nil
	vmIface.SetCurThread(caller)
	return false
}
