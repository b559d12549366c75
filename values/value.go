// Package values implements the tagged value and heap object model shared
// by the compiler and the VM: Value, the Obj header, and every concrete
// object kind (Class, ObjFn, ObjClosure, ObjUpvalue, ObjInstance, ObjList,
// ObjMap, ObjRange, ObjModule, ObjString, ObjThread).
package values

import "fmt"

// ValueType discriminates the closed sum a Value can hold.
type ValueType uint8

const (
	ValueUndefined ValueType = iota // internal-only sentinel, never user-visible
	ValueNull
	ValueFalse
	ValueTrue
	ValueNumber
	ValueObj
)

// Value is a tagged union over undefined, null, false, true, number and
// obj(ptr). Num carries the float64 payload when Type == ValueNumber; Obj
// carries the heap pointer when Type == ValueObj.
type Value struct {
	Type ValueType
	Num  float64
	Obj  Obj
}

var (
	Undefined = Value{Type: ValueUndefined}
	Null      = Value{Type: ValueNull}
	False     = Value{Type: ValueFalse}
	True      = Value{Type: ValueTrue}
)

// Number wraps a float64 payload as a Value.
func Number(n float64) Value { return Value{Type: ValueNumber, Num: n} }

// Bool returns False or True depending on b.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// FromObj wraps a heap object as a Value.
func FromObj(o Obj) Value {
	if o == nil {
		return Null
	}
	return Value{Type: ValueObj, Obj: o}
}

func (v Value) IsUndefined() bool { return v.Type == ValueUndefined }
func (v Value) IsNull() bool      { return v.Type == ValueNull }
func (v Value) IsNumber() bool    { return v.Type == ValueNumber }
func (v Value) IsObj() bool       { return v.Type == ValueObj }

// IsFalsey implements the language's truthiness rule: only `null` and
// `false` are falsey, everything else (including 0 and "") is truthy.
func (v Value) IsFalsey() bool {
	return v.Type == ValueNull || v.Type == ValueFalse
}

// Equal implements value equality: numbers compare by value, objects by
// identity except ObjString which compares by content (interning makes
// this usually also an identity compare, but equality must not depend on
// interning having happened).
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case ValueUndefined, ValueNull, ValueFalse, ValueTrue:
		return true
	case ValueNumber:
		return v.Num == o.Num
	case ValueObj:
		if vs, ok := v.Obj.(*ObjString); ok {
			if os, ok := o.Obj.(*ObjString); ok {
				return vs.Value == os.Value
			}
			return false
		}
		return v.Obj == o.Obj
	}
	return false
}

func (v Value) String() string {
	switch v.Type {
	case ValueUndefined:
		return "<undefined>"
	case ValueNull:
		return "null"
	case ValueFalse:
		return "false"
	case ValueTrue:
		return "true"
	case ValueNumber:
		return formatNumber(v.Num)
	case ValueObj:
		if v.Obj == nil {
			return "null"
		}
		return v.Obj.GoString()
	}
	return "<invalid value>"
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%g", n)
}

// CoreClasses holds the primordial classes every bare Value (null, bool,
// number) is dispatched against. Core bindings bootstrap populates this
// once, at VM construction; before that, ClassOf returns a nil class for
// null, bool and number values.
var CoreClasses struct {
	Null *Class
	Bool *Class
	Num  *Class
}

// ClassOf returns v's class. Every Value except undefined has one;
// undefined is never user-visible so callers never ask it for a class.
func (v Value) ClassOf() *Class {
	switch v.Type {
	case ValueNull:
		return CoreClasses.Null
	case ValueFalse, ValueTrue:
		return CoreClasses.Bool
	case ValueNumber:
		return CoreClasses.Num
	case ValueObj:
		return v.Obj.ClassPtr()
	}
	panic("values: ClassOf called on undefined value")
}
