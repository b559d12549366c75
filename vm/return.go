package vm

import "github.com/wisp-lang/wisp/values"

// doReturn pops the top of the current thread's stack as the return value
// and hands it to doReturnWith; used by the dispatch loop's
// implicit-fallthrough fallback (the RETURN case calls doReturnWith itself).
func (vm *VirtualMachine) doReturn() (done bool, err error) {
	return vm.doReturnWith(vm.curThread.Pop())
}

// doReturnWith implements the spec's RETURN semantics: pop the frame,
// close every upvalue the frame owned, and either hand control to the
// caller thread, terminate the whole program, or resume the caller frame
// on the same thread with retVal sitting where the call's result belongs.
func (vm *VirtualMachine) doReturnWith(retVal values.Value) (done bool, err error) {
	t := vm.curThread
	popped := t.PopFrame()
	t.CloseUpvaluesFrom(popped.StackStart)

	if len(t.Frames) > 0 {
		t.SetSlotAt(popped.StackStart, retVal)
		t.SetESP(popped.StackStart + 1)
		return false, nil
	}

	if t.Caller == nil {
		vm.curThread = nil
		return true, nil
	}

	caller := t.Caller
	caller.SetSlotAt(caller.ESP()-1, retVal)
	vm.curThread = caller
	return false, nil
}
