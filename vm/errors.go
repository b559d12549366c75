package vm

import (
	"fmt"

	wisperrors "github.com/wisp-lang/wisp/errors"
)

// raiseRuntimeError implements §7's runtime error kind: it marks the
// current thread aborted and, since this implementation exposes no
// exception mechanism a script could intercept, cascades the error up the
// Caller chain immediately rather than deferring to "the next opcode" —
// any thread without a caller makes the error fatal, which is the only
// outcome reachable from a cascade in a language with no try/catch.
func (vm *VirtualMachine) raiseRuntimeError(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	t := vm.curThread
	t.ErrorObj = vm.NewStringValue(msg)

	for t.Caller != nil {
		t = t.Caller
		t.ErrorObj = vm.NewStringValue(msg)
	}
	vm.curThread = nil
	return wisperrors.New(wisperrors.KindRuntime, "", 0, msg)
}
