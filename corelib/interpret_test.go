package corelib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/compiler"
	"github.com/wisp-lang/wisp/values"
)

func runSrc(t *testing.T, src string) *values.ObjModule {
	t.Helper()
	machine := newBootstrappedVM(t)
	module := values.NewModule("main")
	PrepareModule(machine, module)

	fn, err := compiler.Compile("main", src, module, machine.MethodNames)
	require.NoError(t, err)
	require.NoError(t, machine.Interpret(fn))
	return module
}

func TestInterpretArithmetic(t *testing.T) {
	module := runSrc(t, `var x = 1 + 2 * 3`)
	idx, ok := module.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, values.Number(7), module.ValueAt(idx))
}

func TestInterpretClassInheritanceAndSuper(t *testing.T) {
	module := runSrc(t, `
class A {
  new() { this.value = 1 }
  value { return v }
  value=(x) { v = x }
  describe() { return "A" }
}
class B < A {
  new() {
    super()
    this.value = this.value + 1
  }
  describe() { return super.describe() + "B" }
}
var b = B.new()
var value = b.value
var desc = b.describe()
`)
	idx, ok := module.Lookup("value")
	require.True(t, ok)
	assert.Equal(t, values.Number(2), module.ValueAt(idx))

	idx, ok = module.Lookup("desc")
	require.True(t, ok)
	s, ok := module.ValueAt(idx).Obj.(*values.ObjString)
	require.True(t, ok)
	assert.Equal(t, "AB", s.Value)
}

func TestInterpretListIterationAndAdd(t *testing.T) {
	module := runSrc(t, `
var items = [1, 2, 3]
var total = 0
for item in items { total = total + item }
`)
	idx, ok := module.Lookup("total")
	require.True(t, ok)
	assert.Equal(t, values.Number(6), module.ValueAt(idx))
}

func TestInterpretBreakInsideNestedLoopDiscardsInnerLocals(t *testing.T) {
	module := runSrc(t, `
var out = ""
for i in 1..3 {
  for j in 1..3 {
    if (j == 2) break
    out = out + j.toString
  }
}
`)
	idx, ok := module.Lookup("out")
	require.True(t, ok)
	s, ok := module.ValueAt(idx).Obj.(*values.ObjString)
	require.True(t, ok)
	assert.Equal(t, "111", s.Value)
}

func TestInterpretMapSubscript(t *testing.T) {
	module := runSrc(t, `
var m = {"a": 1, "b": 2}
var a = m["a"]
`)
	idx, ok := module.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, values.Number(1), module.ValueAt(idx))
}

func TestInterpretCooperativeThreadYieldAndCall(t *testing.T) {
	module := runSrc(t, `
var t = Thread.new(fun () {
  Thread.yield(1)
  Thread.yield(2)
  return 3
})
var a = t.call()
var b = t.call()
var c = t.call()
`)
	for name, want := range map[string]float64{"a": 1, "b": 2, "c": 3} {
		idx, ok := module.Lookup(name)
		require.True(t, ok)
		assert.Equal(t, values.Number(want), module.ValueAt(idx))
	}
}

func TestInterpretClosureCapturesByReference(t *testing.T) {
	module := runSrc(t, `
fun mk() {
  var i = 0
  return fun () { i = i + 1; return i }
}
var f = mk()
var a = f.call()
var b = f.call()
var c = f.call()
`)
	for name, want := range map[string]float64{"a": 1, "b": 2, "c": 3} {
		idx, ok := module.Lookup(name)
		require.True(t, ok)
		assert.Equal(t, values.Number(want), module.ValueAt(idx))
	}
}
