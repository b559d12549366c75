package vm

import (
	"github.com/wisp-lang/wisp/opcodes"
	"github.com/wisp-lang/wisp/values"
)

// isBuiltinClass reports whether c is one of the core classes no user class may extend,
// matching the built-in representations (numbers, strings, etc.) that
// don't carry an ObjInstance field array a subclass could extend.
func (vm *VirtualMachine) isBuiltinClass(c *values.Class) bool {
	for _, name := range []string{"String", "Map", "Range", "List", "Null", "Bool", "Num", "Fn", "Thread"} {
		if vm.CoreModule == nil {
			return false
		}
		idx, ok := vm.CoreModule.Lookup(name)
		if ok && vm.CoreModule.ValueAt(idx).Obj == c {
			return true
		}
	}
	return false
}

// execCreateClass implements CREATE_CLASS: pop the superclass, leave the
// class-name slot in place and overwrite it with the freshly built class,
// whose metaclass loop is wired and whose field count and inherited
// methods come from the superclass.
func (vm *VirtualMachine) execCreateClass(frame *values.Frame) error {
	t := vm.curThread
	code := frame.Closure.Fn.Code
	fieldNum := int(code[frame.IP])
	frame.IP++

	superVal := t.Pop()
	nameVal := t.SlotAt(t.ESP() - 1)

	superClass, ok := superVal.Obj.(*values.Class)
	if !ok {
		return vm.raiseRuntimeError("superclass is not a valid class")
	}
	if vm.isBuiltinClass(superClass) {
		return vm.raiseRuntimeError("superclass must not be a built-in class")
	}

	className, ok := nameVal.Obj.(*values.ObjString)
	if !ok {
		return vm.raiseRuntimeError("class name is not a string")
	}

	class := vm.newClass(className.Value, fieldNum, superClass)
	t.SetSlotAt(t.ESP()-1, values.FromObj(class))
	return nil
}

// newClass builds class plus its metaclass, wiring the metaclass loop and
// copying inherited methods and field counts from superClass, mirroring
// NewClass/BindSuperClass's two-step construction: first the metaclass
// (whose own superclass is always classOfClass), then the class itself.
func (vm *VirtualMachine) newClass(name string, fieldNum int, superClass *values.Class) *values.Class {
	metaclass := values.NewRawClass(name+" metaclass", 0)
	metaclass.SetClassPtr(vm.ClassOfClass)
	vm.allocate(metaclass)
	bindSuperClass(metaclass, vm.ClassOfClass)

	class := values.NewRawClass(name, fieldNum)
	class.SetClassPtr(metaclass)
	vm.allocate(class)
	bindSuperClass(class, superClass)

	return class
}

// bindSuperClass wires sub's superclass pointer, folds the superclass's
// field count into sub's, and seeds sub's method table with every method
// the superclass defines (INSTANCE_METHOD/STATIC_METHOD overwrite these
// later where the subclass provides its own).
func bindSuperClass(sub, super *values.Class) {
	sub.Super = super
	sub.FieldCount += super.FieldCount
	sub.InheritMethodsFrom(super)
}

// execBindMethod implements INSTANCE_METHOD/STATIC_METHOD: pop the method
// closure and the class reference, redirect to the metaclass for a static
// method, patch the closure's instruction stream for inherited field
// offsets and pending super references, then install it.
func (vm *VirtualMachine) execBindMethod(op opcodes.Op, frame *values.Frame) error {
	t := vm.curThread
	code := frame.Closure.Fn.Code
	methodID := readShort(code, &frame.IP)

	classVal := t.Pop()
	methodVal := t.Pop()

	class, ok := classVal.Obj.(*values.Class)
	if !ok {
		return vm.raiseRuntimeError("method target is not a class")
	}
	closure, ok := methodVal.Obj.(*values.ObjClosure)
	if !ok {
		return vm.raiseRuntimeError("method body is not a closure")
	}

	if op == opcodes.STATIC_METHOD {
		class = class.ClassPtr()
	}

	patchOperand(class, closure.Fn)
	class.BindMethod(methodID, values.Method{Kind: values.MethodScript, Closure: closure})
	return nil
}

// patchOperand walks fn's instruction stream (and every nested
// CREATE_CLOSURE constant, recursively) to fix up two kinds of deferred
// operands left by the compiler: a this-field/field index that assumed no
// superclass fields precede it, and a SUPERn's trailing constant-pool slot
// that the compiler could only fill with a null placeholder.
func patchOperand(class *values.Class, fn *values.ObjFn) {
	code := fn.Code
	ip := 0
	for ip < len(code) {
		op := opcodes.Op(code[ip])
		ip++

		if argc, ok := opcodes.IsSuper(op); ok {
			_ = argc
			ip += 2 // method id
			idx := int(code[ip])<<8 | int(code[ip+1])
			ip += 2
			fn.Constants[idx] = values.FromObj(class.Super)
			continue
		}

		switch op {
		case opcodes.LOAD_THIS_FIELD, opcodes.STORE_THIS_FIELD,
			opcodes.LOAD_FIELD, opcodes.STORE_FIELD:
			code[ip] = byte(int(code[ip]) + class.Super.FieldCount)
			ip++

		case opcodes.CREATE_CLOSURE:
			fnIdx := int(code[ip])<<8 | int(code[ip+1])
			ip += 2
			nested := fn.Constants[fnIdx].Obj.(*values.ObjFn)
			patchOperand(class, nested)
			ip += nested.UpvalueCount * 2

		default:
			ip += opcodes.OperandSize(op)
		}
	}
}
