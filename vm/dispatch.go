package vm

import (
	"fmt"
	"os"

	"github.com/wisp-lang/wisp/opcodes"
	"github.com/wisp-lang/wisp/values"
)

// run drives the threaded dispatch loop over vm.curThread until either
// the whole program finishes (the root thread returns with no caller) or
// an uncaught runtime error propagates past the last thread in the Caller
// chain.
func (vm *VirtualMachine) run() error {
	for {
		t := vm.curThread
		frame := t.CurrentFrame()
		fn := frame.Closure.Fn
		code := fn.Code

		if frame.IP >= len(code) {
			// fell off the end of a body with no explicit RETURN (shouldn't
			// happen: every compiled body ends with PUSH_NULL/RETURN), treat
			// as an implicit null return for robustness.
			t.Push(values.Null)
			if done, err := vm.doReturn(); done {
				return err
			}
			continue
		}

		op := opcodes.Op(code[frame.IP])
		if vm.DebugLevel >= DebugLevelTrace {
			fmt.Fprintf(os.Stderr, "[%s] %04d %s\n", t.TraceID.String()[:8], frame.IP, op)
		}
		frame.IP++
		vm.Instruction++

		if argc, ok := opcodes.IsCall(op); ok {
			if err := vm.invokeCall(argc, false, frame); err != nil {
				return err
			}
			if vm.curThread == nil {
				return nil
			}
			continue
		}
		if argc, ok := opcodes.IsSuper(op); ok {
			if err := vm.invokeCall(argc, true, frame); err != nil {
				return err
			}
			if vm.curThread == nil {
				return nil
			}
			continue
		}

		switch op {
		case opcodes.LOAD_LOCAL_VAR:
			slot := int(code[frame.IP])
			frame.IP++
			t.Push(t.SlotAt(frame.StackStart + slot))

		case opcodes.STORE_LOCAL_VAR:
			slot := int(code[frame.IP])
			frame.IP++
			t.SetSlotAt(frame.StackStart+slot, t.Peek())

		case opcodes.LOAD_THIS_FIELD:
			idx := int(code[frame.IP])
			frame.IP++
			this := t.SlotAt(frame.StackStart)
			inst := this.Obj.(*values.ObjInstance)
			t.Push(inst.Fields[idx])

		case opcodes.STORE_THIS_FIELD:
			idx := int(code[frame.IP])
			frame.IP++
			this := t.SlotAt(frame.StackStart)
			inst := this.Obj.(*values.ObjInstance)
			inst.Fields[idx] = t.Peek()

		case opcodes.LOAD_FIELD:
			idx := int(code[frame.IP])
			frame.IP++
			recv := t.Pop()
			inst := recv.Obj.(*values.ObjInstance)
			t.Push(inst.Fields[idx])

		case opcodes.STORE_FIELD:
			idx := int(code[frame.IP])
			frame.IP++
			v := t.Pop()
			recv := t.Pop()
			inst := recv.Obj.(*values.ObjInstance)
			inst.Fields[idx] = v
			t.Push(v)

		case opcodes.LOAD_UPVALUE:
			idx := int(code[frame.IP])
			frame.IP++
			t.Push(frame.Closure.Upvalues[idx].Get())

		case opcodes.STORE_UPVALUE:
			idx := int(code[frame.IP])
			frame.IP++
			frame.Closure.Upvalues[idx].Set(t.Peek())

		case opcodes.LOAD_MODULE_VAR:
			idx := readShort(code, &frame.IP)
			t.Push(fn.Module.ValueAt(idx))

		case opcodes.STORE_MODULE_VAR:
			idx := readShort(code, &frame.IP)
			fn.Module.SetValueAt(idx, t.Peek())

		case opcodes.LOAD_CONSTANT:
			idx := readShort(code, &frame.IP)
			t.Push(fn.Constants[idx])

		case opcodes.PUSH_NULL:
			t.Push(values.Null)
		case opcodes.PUSH_TRUE:
			t.Push(values.True)
		case opcodes.PUSH_FALSE:
			t.Push(values.False)

		case opcodes.POP:
			t.Pop()

		case opcodes.JUMP:
			offset := readShort(code, &frame.IP)
			frame.IP += offset

		case opcodes.LOOP:
			offset := readShort(code, &frame.IP)
			frame.IP -= offset

		case opcodes.JUMP_IF_FALSE:
			offset := readShort(code, &frame.IP)
			// the condition stays on the stack; the compiler pops it on both paths
			if t.Peek().IsFalsey() {
				frame.IP += offset
			}

		case opcodes.AND:
			offset := readShort(code, &frame.IP)
			if t.Peek().IsFalsey() {
				frame.IP += offset
			} else {
				t.Pop()
			}

		case opcodes.OR:
			offset := readShort(code, &frame.IP)
			if t.Peek().IsFalsey() {
				t.Pop()
			} else {
				frame.IP += offset
			}

		case opcodes.CLOSE_UPVALUE:
			t.CloseUpvaluesFrom(t.ESP() - 1)
			t.Pop()

		case opcodes.RETURN:
			retVal := t.Pop()
			done, err := vm.doReturnWith(retVal)
			if done {
				return err
			}

		case opcodes.CREATE_CLOSURE:
			vm.execCreateClosure(frame)

		case opcodes.CREATE_CLASS:
			if err := vm.execCreateClass(frame); err != nil {
				return err
			}

		case opcodes.INSTANCE_METHOD, opcodes.STATIC_METHOD:
			if err := vm.execBindMethod(op, frame); err != nil {
				return err
			}

		case opcodes.CONSTRUCT:
			this := t.SlotAt(frame.StackStart)
			class := this.Obj.(*values.Class)
			inst := vm.NewInstance(class)
			t.SetSlotAt(frame.StackStart, values.FromObj(inst))

		case opcodes.END:
			// sentinel, never reached in well-formed code
		}
	}
}

func readShort(code []byte, ip *int) int {
	v := int(code[*ip])<<8 | int(code[*ip+1])
	*ip += 2
	return v
}
