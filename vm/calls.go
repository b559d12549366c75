package vm

import (
	"github.com/wisp-lang/wisp/values"
)

// invokeCall implements the shared CALL<n>/SUPER<n> protocol: read the
// method id (and, for a supercall, the patched superclass constant), find
// the method on the resolved class, and dispatch by method kind.
// callerFrame is the frame the CALL/SUPER instruction lives in; its IP has
// already passed the opcode byte itself.
func (vm *VirtualMachine) invokeCall(argCount int, isSuper bool, callerFrame *values.Frame) error {
	t := vm.curThread
	code := callerFrame.Closure.Fn.Code

	methodID := readShort(code, &callerFrame.IP)

	var class *values.Class
	base := t.ESP() - (argCount + 1)
	receiver := t.SlotAt(base)

	if isSuper {
		superConstIdx := readShort(code, &callerFrame.IP)
		superVal := callerFrame.Closure.Fn.Constants[superConstIdx]
		superClass, ok := superVal.Obj.(*values.Class)
		if !ok {
			return vm.raiseRuntimeError("super call outside a patched method body")
		}
		class = superClass
	} else {
		class = receiver.ClassOf()
	}

	method := class.MethodAt(methodID)
	name := vm.MethodNames.Name(methodID)

	switch method.Kind {
	case values.MethodNone:
		return vm.raiseRuntimeError("%s does not implement '%s'", class.Name.Value, name)

	case values.MethodPrimitive:
		args := t.Slice(base, argCount+1)
		ok := method.Primitive(vm, args)
		if ok {
			t.SetESP(base + 1)
			return nil
		}
		if !t.ErrorObj.IsNull() {
			return vm.raiseRuntimeError("%s", t.ErrorObj.String())
		}
		// Suspend request: the primitive already switched vm.curThread.
		// Collapse t's stack down to the result slot exactly as the success
		// path does, even though there's no result yet — whoever resumes
		// this call (Thread.call's resume, or doReturnWith if the callee
		// simply returns) writes the eventual value at t.SlotAt(base) by
		// addressing it as t.ESP()-1, which only lines up with base if the
		// collapse happens now, while argCount is still known.
		t.SetESP(base + 1)
		return nil

	case values.MethodScript:
		t.PushFrame(method.Closure, base)
		return nil

	case values.MethodFnCall:
		closure, ok := receiver.Obj.(*values.ObjClosure)
		if !ok {
			return vm.raiseRuntimeError("'%s' called on a non-function value", name)
		}
		if argCount < closure.Fn.ArgNum {
			return vm.raiseRuntimeError("function expects %d argument(s)", closure.Fn.ArgNum)
		}
		t.PushFrame(closure, base)
		return nil

	default:
		return vm.raiseRuntimeError("corrupt method table entry for '%s'", name)
	}
}

