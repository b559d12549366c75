package corelib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/values"
	"github.com/wisp-lang/wisp/vm"
)

func newBootstrappedVM(t *testing.T) *vm.VirtualMachine {
	t.Helper()
	machine := vm.New()
	require.NoError(t, Bootstrap(machine))
	machine.Heap.Enable()
	return machine
}

func TestBootstrapWiresMetaclassLoop(t *testing.T) {
	machine := newBootstrappedVM(t)

	assert.Same(t, machine.ClassOfClass, machine.ClassOfClass.ClassPtr(), "Class is its own metaclass, closing the loop")
	assert.Nil(t, machine.ObjectClass.Super, "object has no superclass")
	assert.Same(t, machine.ObjectClass, machine.ClassOfClass.Super, "Class's superclass is object")
}

func TestBootstrapDeclaresEveryCoreClassName(t *testing.T) {
	machine := newBootstrappedVM(t)

	for _, name := range []string{"object", "Class", "Bool", "Null", "Num", "String", "List", "Map", "Range", "Fn", "Thread", "System"} {
		_, ok := machine.CoreModule.Lookup(name)
		assert.True(t, ok, "core module should declare %q", name)
	}
}

func TestBootstrapBuiltinClassesInheritObjectMethods(t *testing.T) {
	machine := newBootstrappedVM(t)

	idx, ok := machine.CoreModule.Lookup("Num")
	require.True(t, ok)
	numClass, ok := machine.CoreModule.ValueAt(idx).Obj.(*values.Class)
	require.True(t, ok)

	eqID, ok := machine.MethodNames.Lookup(method("==", 1))
	require.True(t, ok)
	assert.Equal(t, values.MethodPrimitive, numClass.MethodAt(eqID).Kind, "Num inherits object's ==(_) since it doesn't override it")
}

func TestBootstrapRetagsPreBootstrapStrings(t *testing.T) {
	machine := newBootstrappedVM(t)

	idx, ok := machine.CoreModule.Lookup("object")
	require.True(t, ok)
	objectClass, ok := machine.CoreModule.ValueAt(idx).Obj.(*values.Class)
	require.True(t, ok)
	require.NotNil(t, objectClass.Name)
	assert.NotNil(t, objectClass.Name.ClassPtr(), "class-name strings allocated before String existed must be retagged")
}
