package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFalsey(t *testing.T) {
	assert.True(t, Null.IsFalsey())
	assert.True(t, False.IsFalsey())
	assert.False(t, True.IsFalsey())
	assert.False(t, Number(0).IsFalsey())
	assert.False(t, FromObj(NewString("")).IsFalsey())
}

func TestValueEqualNumbersAndStrings(t *testing.T) {
	assert.True(t, Number(1).Equal(Number(1)))
	assert.False(t, Number(1).Equal(Number(2)))

	a := FromObj(NewString("hi"))
	b := FromObj(NewString("hi"))
	assert.True(t, a.Equal(b), "strings with equal content compare equal regardless of identity")

	assert.False(t, Null.Equal(Undefined))
	assert.True(t, Null.Equal(Null))
}

func TestValueEqualObjectIdentity(t *testing.T) {
	l1 := FromObj(NewList())
	l2 := FromObj(NewList())
	assert.False(t, l1.Equal(l2), "distinct list objects are not equal even if both empty")
	assert.True(t, l1.Equal(l1))
}

func TestClassOfCoreTypes(t *testing.T) {
	CoreClasses.Null = NewRawClass("Null", 0)
	CoreClasses.Bool = NewRawClass("Bool", 0)
	CoreClasses.Num = NewRawClass("Num", 0)

	assert.Same(t, CoreClasses.Null, Null.ClassOf())
	assert.Same(t, CoreClasses.Bool, True.ClassOf())
	assert.Same(t, CoreClasses.Bool, False.ClassOf())
	assert.Same(t, CoreClasses.Num, Number(3).ClassOf())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "3", Number(3).String())
	assert.Equal(t, "3.5", Number(3.5).String())
}
