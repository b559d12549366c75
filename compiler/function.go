package compiler

import (
	"github.com/wisp-lang/wisp/lexer"
	"github.com/wisp-lang/wisp/opcodes"
	"github.com/wisp-lang/wisp/values"
)

// funDecl compiles `fun name(params) { body }` at module scope, binding the
// closure under the synthetic "Fn name" module variable the call-sugar
// path in ident.go resolves.
func (p *parser) funDecl() error {
	line := p.line()
	if err := p.advance(); err != nil { // consume 'fun'
		return err
	}
	if !p.check(lexer.TokenIdent) {
		return p.errorf("expected function name after 'fun'")
	}
	name := p.cur.Value
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.compileFunctionLiteral(line); err != nil {
		return err
	}
	if err := p.declareVariable(values.ModuleFnName(name), line); err != nil {
		return err
	}
	return p.consumeOptionalSemicolon()
}

// parseFunLiteral is the Pratt nud for an anonymous `fun (params) { body }`
// expression, leaving the closure as the expression's value.
func parseFunLiteral(p *parser, _ bool) error {
	line := p.line()
	if err := p.advance(); err != nil { // consume 'fun'
		return err
	}
	return p.compileFunctionLiteral(line)
}

// compileFunctionLiteral parses a parameter list and `{ body }`, leaving
// the finished closure pushed on the (restored) enclosing unit's stack.
// Slot 0 is reserved but unbound, matching ordinary (non-method) functions.
func (p *parser) compileFunctionLiteral(declLine int) error {
	enclosing := p.curUnit
	fn := values.NewFn(p.module)
	newU := newUnit(fn, enclosing, 0)
	newU.class = enclosing.class // nested closures keep static-field/method-name context, not the receiver slot
	p.curUnit = newU
	newU.addLocal("")

	params, err := p.parseParamNameList()
	if err != nil {
		p.curUnit = enclosing
		return err
	}
	for _, name := range params {
		newU.addLocal(name)
	}

	if err := p.expect(lexer.TokenLBrace, "to start function body"); err != nil {
		p.curUnit = enclosing
		return err
	}
	for !p.check(lexer.TokenRBrace) && !p.check(lexer.TokenEOF) {
		if err := p.statement(); err != nil {
			p.curUnit = enclosing
			return err
		}
	}
	endLine := p.line()
	if err := p.expect(lexer.TokenRBrace, "to close function body"); err != nil {
		p.curUnit = enclosing
		return err
	}
	newU.emitOp(opcodes.PUSH_NULL, endLine)
	newU.emitOp(opcodes.RETURN, endLine)

	fn.ArgNum = len(params)
	fn.UpvalueCount = len(newU.upvalues)
	fn.MaxStackSlotUsedNum = newU.maxStackSlots
	fn.Code = newU.code
	fn.Lines = newU.lines
	fn.Constants = newU.constants

	upvalues := newU.upvalues
	p.curUnit = enclosing
	idx := enclosing.internConstant(values.FromObj(fn))
	enclosing.emitCreateClosure(idx, upvalues, declLine)
	return nil
}
