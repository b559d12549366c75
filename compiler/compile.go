// Package compiler implements a single-pass Pratt parser that emits
// bytecode directly as it parses, fused with statement, class, and import
// compilation and module-scope variable bookkeeping.
package compiler

import (
	"fmt"

	"github.com/wisp-lang/wisp/lexer"
	"github.com/wisp-lang/wisp/opcodes"
	"github.com/wisp-lang/wisp/values"
)

// Compile parses src (from file, for error messages) as the body of module,
// sharing methodNames across every module compiled in a single VM run since
// method dispatch ids must be uniform across all classes. It returns the
// finished module-body ObjFn (argNum 0, ready to be wrapped in a closure
// and run on a thread) or a *Error.
func Compile(file, src string, module *values.ObjModule, methodNames *values.SymbolTable) (*values.ObjFn, error) {
	p, err := newParser(file, src, module, methodNames)
	if err != nil {
		return nil, err
	}

	fn := values.NewFn(module)
	fn.DebugName = file
	root := newUnit(fn, nil, -1)
	p.curUnit = root

	for !p.check(lexer.TokenEOF) {
		if err := p.statement(); err != nil {
			return nil, err
		}
	}

	line := p.line()
	root.emitOp(opcodes.PUSH_NULL, line)
	root.emitOp(opcodes.RETURN, line)

	if err := p.checkPendingResolved(); err != nil {
		return nil, err
	}

	fn.ArgNum = 0
	fn.UpvalueCount = 0
	fn.MaxStackSlotUsedNum = root.maxStackSlots
	fn.Code = root.code
	fn.Lines = root.lines
	fn.Constants = root.constants
	return fn, nil
}

// checkPendingResolved reports the first still-unresolved forward module
// variable reference (by the line it was first referenced at), per the
// design notes' explicit pending-set approach to forward references.
func (p *parser) checkPendingResolved() error {
	if len(p.pending) == 0 {
		return nil
	}
	var firstName string
	firstLine := -1
	for name, line := range p.pending {
		if firstLine == -1 || line < firstLine {
			firstName, firstLine = name, line
		}
	}
	return &Error{File: p.file, Line: firstLine, Msg: fmt.Sprintf("undefined variable %q", firstName)}
}
