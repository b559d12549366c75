package corelib

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wisp-lang/wisp/compiler"
	"github.com/wisp-lang/wisp/values"
	"github.com/wisp-lang/wisp/vm"
)

// moduleFileExt is the source extension System.importModule appends to a
// module name when resolving it against machine.RootDir.
const moduleFileExt = ".sp"

// registerSystemPrimitives installs the four external collaborators §4.4
// names: importModule, getModuleVariable, writeString_, and clock. All are
// static (bound on the metaclass): scripts call them as System.xxx(...),
// never on an instance.
func registerSystemPrimitives(machine *vm.VirtualMachine, class *values.Class) {
	install(class.ClassPtr(), machine.MethodNames, []primitiveEntry{
		{method("writeString_", 1), func(_ values.VM, args []values.Value) bool {
			s, ok := args[1].Obj.(*values.ObjString)
			if !ok {
				return runtimeError(machine, "System.writeString_ expects a string")
			}
			fmt.Fprint(os.Stdout, s.Value)
			return ret(args, args[1])
		}},
		{getter("clock"), func(_ values.VM, args []values.Value) bool {
			return ret(args, values.Number(float64(time.Now().UnixNano())/1e9))
		}},
		{method("importModule", 1), func(vmIface values.VM, args []values.Value) bool {
			return importModule(vmIface, machine, args)
		}},
		{method("getModuleVariable", 2), func(_ values.VM, args []values.Value) bool {
			nameStr, ok := args[1].Obj.(*values.ObjString)
			if !ok {
				return runtimeError(machine, "module name must be a string")
			}
			varStr, ok := args[2].Obj.(*values.ObjString)
			if !ok {
				return runtimeError(machine, "variable name must be a string")
			}
			module, ok := machine.Modules[nameStr.Value]
			if !ok {
				return runtimeError(machine, fmt.Sprintf("module '%s' is not loaded", nameStr.Value))
			}
			idx, ok := module.Lookup(varStr.Value)
			if !ok {
				return runtimeError(machine, fmt.Sprintf("module '%s' has no variable '%s'", nameStr.Value, varStr.Value))
			}
			return ret(args, module.ValueAt(idx))
		}},
	})
}

// importModule implements §3's "System.importModule re-enters the
// compiler for a new module and switches threads": a module already
// loaded is a no-op (imports are idempotent); otherwise its source is
// read from machine.RootDir, compiled against a fresh ObjModule, and run
// on a new thread that the interpreter loop picks up on its very next
// iteration, per §5's suspension-point list.
func importModule(vmIface values.VM, machine *vm.VirtualMachine, args []values.Value) bool {
	nameVal, ok := args[1].Obj.(*values.ObjString)
	if !ok {
		return runtimeError(machine, "System.importModule expects a string")
	}
	name := nameVal.Value

	if _, ok := machine.Modules[name]; ok {
		return ret(args, values.Null)
	}

	path := filepath.Join(machine.RootDir, name+moduleFileExt)
	src, err := os.ReadFile(path)
	if err != nil {
		return runtimeError(machine, fmt.Sprintf("could not load module '%s': %v", name, err))
	}

	module := values.NewModule(name)
	PrepareModule(machine, module)
	fn, err := compiler.Compile(path, string(src), module, machine.MethodNames)
	if err != nil {
		return runtimeError(machine, err.Error())
	}
	machine.Modules[name] = module

	closure := machine.NewClosure(fn)
	thread := machine.NewThread(closure)
	thread.Caller = vmIface.CurThread()
	vmIface.SetCurThread(thread)
	return false
}
