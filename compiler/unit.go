package compiler

import "github.com/wisp-lang/wisp/values"

const (
	maxLocals   = 128
	maxUpvalues = 128
	maxFields   = 128
)

// local is a compile-time record of one local variable slot.
type local struct {
	name     string
	depth    int
	isUpvalue bool // captured by some inner closure; closed via CLOSE_UPVALUE on scope exit
}

// loop is the bookkeeping record for break/continue within the innermost
// enclosing loop.
type loop struct {
	condStart  int
	bodyStart  int
	scopeDepth int
	exitJumps  []int // offsets of END placeholders to patch at loop exit
	enclosing  *loop
}

// classBookKeep tracks the class currently being compiled.
type classBookKeep struct {
	name          string
	fields        map[string]int // field name -> index; the count is not checked against maxFields
	fieldOrder    []string
	inStatic      bool
	instanceMethods []int // interned method ids defined on the instance side
	staticMethods   []int
	signature     values.Signature // signature of the method currently being compiled
	enclosing     *classBookKeep
}

func newClassBookKeep(name string, enclosing *classBookKeep) *classBookKeep {
	return &classBookKeep{name: name, fields: make(map[string]int), enclosing: enclosing}
}

// fieldIndex returns the index for name, declaring it if this is the first
// reference (instance fields are implicitly declared by their first bare-name
// use inside an instance method).
func (c *classBookKeep) fieldIndex(name string) int {
	if idx, ok := c.fields[name]; ok {
		return idx
	}
	idx := len(c.fieldOrder)
	c.fields[name] = idx
	c.fieldOrder = append(c.fieldOrder, name)
	return idx
}

// unit is a CompileUnit: the per-function compile-time state the Pratt
// parser threads through nested function/method bodies.
type unit struct {
	fn            *values.ObjFn
	locals        []local
	upvalues      []values.UpvalueDescriptor
	scopeDepth    int // -1 = module scope
	enclosing     *unit
	class         *classBookKeep
	thisBound     bool // true only for units whose slot 0 is the method receiver
	loop          *loop
	code          []byte
	lines         []values.DebugLine
	constants     []values.Value
	constIndex    map[string]int // dedups identical string/number constants by rendered key
	curStackSlots int
	maxStackSlots int
}

func newUnit(fn *values.ObjFn, enclosing *unit, scopeDepth int) *unit {
	return &unit{
		fn:         fn,
		enclosing:  enclosing,
		scopeDepth: scopeDepth,
		constIndex: make(map[string]int),
	}
}

// resolveLocal finds name in this unit's locals, most-recently-declared
// first (so shadowing works), returning its slot index or -1.
func (u *unit) resolveLocal(name string) int {
	for i := len(u.locals) - 1; i >= 0; i-- {
		if u.locals[i].name == name {
			return i
		}
	}
	return -1
}

// addLocal appends a new local at the current scope depth. Callers must
// have already checked for redeclaration-within-scope.
func (u *unit) addLocal(name string) int {
	u.locals = append(u.locals, local{name: name, depth: u.scopeDepth})
	return len(u.locals) - 1
}

// addUpvalue records capture of either an enclosing local (isEnclosingLocal
// true) or an enclosing upvalue by index, deduplicating identical requests.
func (u *unit) addUpvalue(isEnclosingLocal bool, index int) int {
	for i, uv := range u.upvalues {
		if uv.IsEnclosingLocal == isEnclosingLocal && uv.Index == index {
			return i
		}
	}
	u.upvalues = append(u.upvalues, values.UpvalueDescriptor{IsEnclosingLocal: isEnclosingLocal, Index: index})
	return len(u.upvalues) - 1
}

// resolveUpvalue recursively searches enclosing units for name, capturing
// through each intervening level as it unwinds. Returns -1 if name is not
// found as a local anywhere in the enclosing chain.
func (u *unit) resolveUpvalue(name string) int {
	if u.enclosing == nil {
		return -1
	}
	if idx := u.enclosing.resolveLocal(name); idx != -1 {
		u.enclosing.locals[idx].isUpvalue = true
		return u.addUpvalue(true, idx)
	}
	if idx := u.enclosing.resolveUpvalue(name); idx != -1 {
		return u.addUpvalue(false, idx)
	}
	return -1
}
