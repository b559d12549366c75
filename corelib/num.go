package corelib

import (
	"math"

	"github.com/wisp-lang/wisp/values"
	"github.com/wisp-lang/wisp/vm"
)

// registerNumPrimitives installs arithmetic, comparison, bitwise, and
// range-construction operators plus a handful of math methods. Equality
// and toString are left to object's defaults, which already handle
// numbers correctly (Value.Equal compares the float field, Value.String
// formats it).
func registerNumPrimitives(machine *vm.VirtualMachine, class *values.Class) {
	binop := func(name string, f func(a, b float64) float64) primitiveEntry {
		return primitiveEntry{method(name, 1), func(_ values.VM, args []values.Value) bool {
			if !args[1].IsNumber() {
				return runtimeError(machine, "right operand must be a number")
			}
			return ret(args, values.Number(f(args[0].Num, args[1].Num)))
		}}
	}
	cmp := func(name string, f func(a, b float64) bool) primitiveEntry {
		return primitiveEntry{method(name, 1), func(_ values.VM, args []values.Value) bool {
			if !args[1].IsNumber() {
				return runtimeError(machine, "right operand must be a number")
			}
			return ret(args, values.Bool(f(args[0].Num, args[1].Num)))
		}}
	}
	bitop := func(name string, f func(a, b int64) int64) primitiveEntry {
		return primitiveEntry{method(name, 1), func(_ values.VM, args []values.Value) bool {
			if !args[1].IsNumber() {
				return runtimeError(machine, "right operand must be a number")
			}
			return ret(args, values.Number(float64(f(int64(args[0].Num), int64(args[1].Num)))))
		}}
	}
	unaryMath := func(name string, f func(a float64) float64) primitiveEntry {
		return primitiveEntry{getter(name), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Number(f(args[0].Num)))
		}}
	}

	install(class, machine.MethodNames, []primitiveEntry{
		binop("+", func(a, b float64) float64 { return a + b }),
		binop("-", func(a, b float64) float64 { return a - b }),
		binop("*", func(a, b float64) float64 { return a * b }),
		binop("/", func(a, b float64) float64 { return a / b }),
		binop("%", math.Mod),

		{method("-", 0), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Number(-args[0].Num))
		}},
		{method("~", 0), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Number(float64(^int64(args[0].Num))))
		}},

		cmp("<", func(a, b float64) bool { return a < b }),
		cmp("<=", func(a, b float64) bool { return a <= b }),
		cmp(">", func(a, b float64) bool { return a > b }),
		cmp(">=", func(a, b float64) bool { return a >= b }),

		bitop("&", func(a, b int64) int64 { return a & b }),
		bitop("|", func(a, b int64) int64 { return a | b }),
		bitop("^", func(a, b int64) int64 { return a ^ b }),
		bitop("<<", func(a, b int64) int64 { return a << uint(b) }),
		bitop(">>", func(a, b int64) int64 { return a >> uint(b) }),

		{method("..", 1), func(_ values.VM, args []values.Value) bool {
			if !args[1].IsNumber() {
				return runtimeError(machine, "range end must be a number")
			}
			return ret(args, values.FromObj(machine.NewRange(args[0].Num, args[1].Num)))
		}},
		{method("...", 1), func(_ values.VM, args []values.Value) bool {
			if !args[1].IsNumber() {
				return runtimeError(machine, "range end must be a number")
			}
			to := args[1].Num
			if to >= args[0].Num {
				to--
			} else {
				to++
			}
			return ret(args, values.FromObj(machine.NewRange(args[0].Num, to)))
		}},

		unaryMath("abs", math.Abs),
		unaryMath("ceil", math.Ceil),
		unaryMath("floor", math.Floor),
		unaryMath("round", math.Round),
		unaryMath("sqrt", math.Sqrt),
		{getter("isNan"), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Bool(math.IsNaN(args[0].Num)))
		}},
		{method("pow", 1), func(_ values.VM, args []values.Value) bool {
			if !args[1].IsNumber() {
				return runtimeError(machine, "exponent must be a number")
			}
			return ret(args, values.Number(math.Pow(args[0].Num, args[1].Num)))
		}},
		{method("min", 1), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Number(math.Min(args[0].Num, args[1].Num)))
		}},
		{method("max", 1), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Number(math.Max(args[0].Num, args[1].Num)))
		}},
	})

	install(class.ClassPtr(), machine.MethodNames, []primitiveEntry{
		{getter("pi"), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Number(math.Pi))
		}},
	})
}
