package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/opcodes"
	"github.com/wisp-lang/wisp/values"
)

// newTestModule seeds a module with stub entries for the core classes the
// compiler resolves by name (object, List, Map, System), matching how a
// real run pre-populates every module from the core module before
// compiling user source.
func newTestModule() *values.ObjModule {
	m := values.NewModule("main")
	for _, name := range []string{"object", "Bool", "Num", "String", "Fn", "List", "Map", "Range", "System", "Thread"} {
		m.Declare(name, values.FromObj(values.NewRawClass(name, 0)))
	}
	return m
}

func compileSrc(t *testing.T, src string) *values.ObjFn {
	t.Helper()
	module := newTestModule()
	names := values.NewSymbolTable()
	fn, err := Compile("test", src, module, names)
	require.NoError(t, err)
	require.NotNil(t, fn)
	return fn
}

func TestCompileFibonacciEndToEnd(t *testing.T) {
	src := `
fun fib(n) {
  if (n < 2) return n
  return fib(n - 1) + fib(n - 2)
}
var result = fib(10)
`
	fn := compileSrc(t, src)
	assert.NotEmpty(t, fn.Code)
	assert.Contains(t, fn.Code, byte(opcodes.CREATE_CLOSURE))
	assert.Equal(t, opcodes.RETURN, opcodes.Op(fn.Code[len(fn.Code)-1]))
}

func TestCompileClassWithInheritanceAndSuper(t *testing.T) {
	src := `
class A {
  new() {
    this.value = 1
  }
  describe() { return "A" }
}
class B < A {
  new() {
    super()
    this.value = this.value + 1
  }
  describe() {
    return super.describe() + "B"
  }
}
var b = B.new()
`
	fn := compileSrc(t, src)
	assert.NotEmpty(t, fn.Code)
	assert.True(t, containsSuperOp(fn), "expected at least one SUPER<n> instruction somewhere in a compiled method")
}

// containsSuperOp walks fn's constant pool recursively (nested ObjFns live
// there, one per method/closure) looking for a SUPER<n> instruction.
func containsSuperOp(fn *values.ObjFn) bool {
	for i := 0; i < len(fn.Code); i++ {
		if _, ok := opcodes.IsSuper(opcodes.Op(fn.Code[i])); ok {
			return true
		}
	}
	for _, c := range fn.Constants {
		if c.Type != values.ValueObj {
			continue
		}
		if nested, ok := c.Obj.(*values.ObjFn); ok {
			if containsSuperOp(nested) {
				return true
			}
		}
	}
	return false
}

func TestVarDeclAtModuleScopeStoresModuleVar(t *testing.T) {
	module := newTestModule()
	names := values.NewSymbolTable()
	fn, err := Compile("test", "var x = 42", module, names)
	require.NoError(t, err)
	require.NotEmpty(t, fn.Code)

	idx, ok := module.Lookup("x")
	require.True(t, ok)
	assert.GreaterOrEqual(t, idx, 0)

	assert.Contains(t, fn.Code, byte(opcodes.STORE_MODULE_VAR))
}

func TestRedeclaringModuleVarIsAnError(t *testing.T) {
	module := newTestModule()
	names := values.NewSymbolTable()
	_, err := Compile("test", "var x = 1\nvar x = 2", module, names)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Msg, "already defined")
}

func TestUndefinedForwardReferenceIsReportedAtModuleEnd(t *testing.T) {
	module := newTestModule()
	names := values.NewSymbolTable()
	_, err := Compile("test", "var y = neverDeclared", module, names)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Msg, "neverDeclared")
}

func TestForwardReferenceToLaterFunIsResolved(t *testing.T) {
	src := `
fun caller() {
  return callee()
}
fun callee() {
  return 1
}
`
	fn := compileSrc(t, src)
	assert.NotEmpty(t, fn.Code)
}

func TestThisOutsideMethodBodyIsAnError(t *testing.T) {
	module := newTestModule()
	names := values.NewSymbolTable()
	_, err := Compile("test", "var x = this", module, names)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Msg, "'this'")
}

func TestThisInsideNestedFunLiteralInsideMethodIsStillAnError(t *testing.T) {
	src := `
class A {
  run() {
    var f = fun () { return this }
  }
}
`
	module := newTestModule()
	names := values.NewSymbolTable()
	_, err := Compile("test", src, module, names)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Msg, "'this'")
}

func TestSuperOutsideMethodBodyIsAnError(t *testing.T) {
	module := newTestModule()
	names := values.NewSymbolTable()
	_, err := Compile("test", "var x = super.foo()", module, names)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Msg, "'super'")
}

func TestBreakOutsideLoopIsAnError(t *testing.T) {
	module := newTestModule()
	names := values.NewSymbolTable()
	_, err := Compile("test", "break", module, names)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Msg, "'break'")
}

func TestClassDeclOutsideModuleScopeIsAnError(t *testing.T) {
	src := `
fun wrap() {
  class Inner {}
}
`
	module := newTestModule()
	names := values.NewSymbolTable()
	_, err := Compile("test", src, module, names)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Msg, "module scope")
}

func TestWhileLoopWithBreakAndContinueCompiles(t *testing.T) {
	src := `
var i = 0
while (i < 10) {
  i = i + 1
  if (i == 5) continue
  if (i == 8) break
}
`
	fn := compileSrc(t, src)
	assert.Contains(t, fn.Code, byte(opcodes.LOOP))
}

func TestForInLowersToIterateProtocol(t *testing.T) {
	src := `
for (item in [1, 2, 3]) {
  var x = item
}
`
	fn := compileSrc(t, src)
	assert.NotEmpty(t, fn.Code)
}

func TestListAndMapLiteralsCompile(t *testing.T) {
	src := `
var list = [1, 2, 3]
var m = {"a": 1, "b": 2}
`
	fn := compileSrc(t, src)
	assert.NotEmpty(t, fn.Code)
}

func TestImportWithForClauseCompiles(t *testing.T) {
	src := `import other for a, b`
	fn := compileSrc(t, src)
	assert.NotEmpty(t, fn.Code)
}

func TestStaticFieldDeclRequiresStaticKeyword(t *testing.T) {
	src := `
class A {
  var x
}
`
	module := newTestModule()
	names := values.NewSymbolTable()
	_, err := Compile("test", src, module, names)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Msg, "static var")
}

func TestDuplicateMethodSignatureIsAnError(t *testing.T) {
	src := `
class A {
  foo() { return 1 }
  foo() { return 2 }
}
`
	module := newTestModule()
	names := values.NewSymbolTable()
	_, err := Compile("test", src, module, names)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Msg, "already defined")
}

func TestConstructorCompanionEmitsConstructAndStaticMethod(t *testing.T) {
	src := `
class A {
  new(x) {
    this.x = x
  }
}
var a = A.new(1)
`
	fn := compileSrc(t, src)
	assert.Contains(t, fn.Code, byte(opcodes.CREATE_CLASS))

	names := values.NewSymbolTable()
	names.Intern(values.Signature{Kind: values.SignConstructor, Name: "new", ArgNum: 1}.Canonical())
	// the wrapper and initializer are both bound under the same id from the
	// module's own code, once as STATIC_METHOD and once as INSTANCE_METHOD;
	// the wrapper's body starts with CONSTRUCT. The module body then calls
	// into A.new(1) via a regular CALL1.
	assert.Contains(t, fn.Code, byte(opcodes.STATIC_METHOD))
	assert.Contains(t, fn.Code, byte(opcodes.INSTANCE_METHOD))
	wrapperFound := false
	for _, c := range fn.Constants {
		if nested, ok := c.Obj.(*values.ObjFn); ok && len(nested.Code) > 0 && opcodes.Op(nested.Code[0]) == opcodes.CONSTRUCT {
			wrapperFound = true
		}
	}
	assert.True(t, wrapperFound, "the static wrapper's body starts with CONSTRUCT")
	assert.Contains(t, fn.Code, byte(opcodes.CALL1))
}

func TestOperatorMethodSignatureCompiles(t *testing.T) {
	src := `
class Vec {
  new(x) { this.x = x }
  +(other) { return this.x + other.x }
}
`
	fn := compileSrc(t, src)
	assert.NotEmpty(t, fn.Code)
}

func TestSubscriptAndSubscriptSetterSignaturesCompile(t *testing.T) {
	src := `
class Grid {
  new() { this.data = [] }
  [i] { return this.data[i] }
  [i]=(v) { this.data[i] = v }
}
`
	fn := compileSrc(t, src)
	assert.NotEmpty(t, fn.Code)
}
