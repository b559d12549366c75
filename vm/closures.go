package vm

import "github.com/wisp-lang/wisp/values"

// execCreateClosure implements CREATE_CLOSURE: build a closure over the
// ObjFn named by the instruction's constant-pool index, push it
// immediately (so it can't be collected while its upvalues are being
// resolved), then resolve each declared upvalue in turn.
func (vm *VirtualMachine) execCreateClosure(frame *values.Frame) {
	t := vm.curThread
	code := frame.Closure.Fn.Code

	fnIdx := readShort(code, &frame.IP)
	fn := frame.Closure.Fn.Constants[fnIdx].Obj.(*values.ObjFn)

	closure := vm.NewClosure(fn)
	t.Push(values.FromObj(closure))

	for i := 0; i < fn.UpvalueCount; i++ {
		isEnclosingLocal := code[frame.IP] != 0
		frame.IP++
		index := int(code[frame.IP])
		frame.IP++

		if isEnclosingLocal {
			closure.Upvalues[i] = t.FindOrCreateOpenUpvalue(frame.StackStart + index)
		} else {
			closure.Upvalues[i] = frame.Closure.Upvalues[index]
		}
	}
}
