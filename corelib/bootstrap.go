// Package corelib installs the core bindings §4.4 requires before any user
// module is compiled: the primordial object/class/metaclass loop, the
// built-in classes the compiler resolves core names against (Bool, Num,
// Null, Fn, Thread, String, List, Map, Range, System), and every primitive
// method those classes expose.
package corelib

import (
	"github.com/wisp-lang/wisp/values"
	"github.com/wisp-lang/wisp/vm"
)

// Bootstrap builds the core module and wires it into machine. It must run
// exactly once, before the first user module is compiled, since
// compiler.emitLoadCoreClass resolves "object", "List", "Map", and "System"
// (among others) as module variables of this module.
func Bootstrap(machine *vm.VirtualMachine) error {
	core := values.NewModule("")
	machine.CoreModule = core

	objectClass, classClass, objectMetaclass := wireMetaclassLoop(machine)
	machine.ObjectClass = objectClass
	machine.ClassOfClass = classClass

	declareClass(core, "object", objectClass)
	declareClass(core, "Class", classClass)
	declareClass(core, "objectMetaclass", objectMetaclass)

	registerObjectPrimitives(machine, objectClass)

	boolClass := newBuiltinClass(machine, "Bool", objectClass)
	nullClass := newBuiltinClass(machine, "Null", objectClass)
	numClass := newBuiltinClass(machine, "Num", objectClass)
	stringClass := newBuiltinClass(machine, "String", objectClass)
	listClass := newBuiltinClass(machine, "List", objectClass)
	mapClass := newBuiltinClass(machine, "Map", objectClass)
	rangeClass := newBuiltinClass(machine, "Range", objectClass)
	fnClass := newBuiltinClass(machine, "Fn", objectClass)
	threadClass := newBuiltinClass(machine, "Thread", objectClass)
	systemClass := newBuiltinClass(machine, "System", objectClass)

	declareClass(core, "Bool", boolClass)
	declareClass(core, "Null", nullClass)
	declareClass(core, "Num", numClass)
	declareClass(core, "String", stringClass)
	declareClass(core, "List", listClass)
	declareClass(core, "Map", mapClass)
	declareClass(core, "Range", rangeClass)
	declareClass(core, "Fn", fnClass)
	declareClass(core, "Thread", threadClass)
	declareClass(core, "System", systemClass)

	values.CoreClasses.Null = nullClass
	values.CoreClasses.Bool = boolClass
	values.CoreClasses.Num = numClass

	registerBoolPrimitives(machine, boolClass)
	registerNullPrimitives(machine, nullClass)
	registerNumPrimitives(machine, numClass)
	registerStringPrimitives(machine, stringClass)
	registerListPrimitives(machine, listClass)
	registerMapPrimitives(machine, mapClass)
	registerRangePrimitives(machine, rangeClass)
	registerFnPrimitives(machine, fnClass)
	registerThreadPrimitives(machine, threadClass)
	registerSystemPrimitives(machine, systemClass)

	retagExistingStrings(machine, stringClass)
	return nil
}

// wireMetaclassLoop builds the three anchor classes by hand (object has no
// superclass, so it cannot go through CREATE_CLASS/newClass, which always
// requires one): object.super = nil; Class.super = object;
// objectMetaclass.super = Class; object.class = objectMetaclass; Class.class
// = Class, closing the loop; objectMetaclass.class = Class.
func wireMetaclassLoop(machine *vm.VirtualMachine) (objectClass, classClass, objectMetaclass *values.Class) {
	objectClass = values.NewRawClass("object", 0)
	classClass = values.NewRawClass("Class", 0)
	objectMetaclass = values.NewRawClass("object metaclass", 0)

	objectClass.Super = nil
	classClass.Super = objectClass
	objectMetaclass.Super = classClass

	objectClass.SetClassPtr(objectMetaclass)
	objectMetaclass.SetClassPtr(classClass)
	classClass.SetClassPtr(classClass)

	machine.Heap.Register(objectClass)
	machine.Heap.Register(classClass)
	machine.Heap.Register(objectMetaclass)
	return objectClass, classClass, objectMetaclass
}

// newBuiltinClass builds a core class and its metaclass following the same
// two-step construction CREATE_CLASS uses at runtime (vm.newClass is
// unexported, so bootstrap mirrors it here rather than reaching across the
// package boundary for a one-off).
func newBuiltinClass(machine *vm.VirtualMachine, name string, super *values.Class) *values.Class {
	metaclass := values.NewRawClass(name+" metaclass", 0)
	metaclass.SetClassPtr(machine.ClassOfClass)
	metaclass.Super = machine.ClassOfClass
	metaclass.FieldCount += machine.ClassOfClass.FieldCount
	metaclass.InheritMethodsFrom(machine.ClassOfClass)
	machine.Heap.Register(metaclass)

	class := values.NewRawClass(name, 0)
	class.SetClassPtr(metaclass)
	class.Super = super
	class.FieldCount += super.FieldCount
	class.InheritMethodsFrom(super)
	machine.Heap.Register(class)
	return class
}

func declareClass(core *values.ObjModule, name string, class *values.Class) {
	core.Declare(name, values.FromObj(class))
}

// coreClassNames is every name compiler.emitLoadCoreClass may resolve
// against a module, plus the remaining built-ins §4.4 item 2 requires be
// visible by name.
var coreClassNames = []string{
	"object", "Class", "Bool", "Null", "Num", "String",
	"List", "Map", "Range", "Fn", "Thread", "System",
}

// PrepareModule copies every core class binding into module, which every
// module compiled after Bootstrap must have done to it before compilation
// (the compiler resolves "object", "List", "Map", "System", and friends
// as variables of the module currently being compiled, not of the core
// module directly). The root script module and every module
// System.importModule loads both go through this.
func PrepareModule(machine *vm.VirtualMachine, module *values.ObjModule) {
	for _, name := range coreClassNames {
		idx, ok := machine.CoreModule.Lookup(name)
		if !ok {
			continue
		}
		module.Declare(name, machine.CoreModule.ValueAt(idx))
	}
}

// retagExistingStrings implements §4.4 item 4: every ObjString allocated
// before String existed (method-name signatures, class names, the core
// module's own name strings) is walked via the heap's sweep list and
// repointed at the real class.
func retagExistingStrings(machine *vm.VirtualMachine, stringClass *values.Class) {
	machine.Heap.WalkAll(func(obj values.Obj) {
		if s, ok := obj.(*values.ObjString); ok && s.ClassPtr() == nil {
			s.SetClassPtr(stringClass)
		}
	})
}
