package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassBindAndLookupMethod(t *testing.T) {
	c := NewRawClass("Foo", 0)
	c.BindMethod(5, Method{Kind: MethodPrimitive, Primitive: func(vm VM, args []Value) bool { return true }})

	m := c.MethodAt(5)
	require.Equal(t, MethodPrimitive, m.Kind)

	assert.Equal(t, MethodNone, c.MethodAt(2).Kind, "unbound slots default to none")
	assert.Equal(t, MethodNone, c.MethodAt(100).Kind, "out-of-range id returns none rather than panicking")
}

func TestInheritMethodsFromDoesNotOverrideOwn(t *testing.T) {
	base := NewRawClass("Base", 0)
	base.BindMethod(0, Method{Kind: MethodScript})
	base.BindMethod(1, Method{Kind: MethodScript})

	sub := NewRawClass("Sub", 0)
	sub.BindMethod(1, Method{Kind: MethodPrimitive}) // overrides base's id 1

	sub.InheritMethodsFrom(base)

	assert.Equal(t, MethodScript, sub.MethodAt(0).Kind, "inherited id copied from base")
	assert.Equal(t, MethodPrimitive, sub.MethodAt(1).Kind, "subclass override preserved")
}

func TestMetaclassSelfLinkage(t *testing.T) {
	classOfClass := NewRawClass("Class", 0)
	classOfClass.SetClassPtr(classOfClass)
	assert.Same(t, classOfClass, classOfClass.ClassPtr())
}
