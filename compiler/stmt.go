package compiler

import (
	"github.com/wisp-lang/wisp/lexer"
	"github.com/wisp-lang/wisp/opcodes"
	"github.com/wisp-lang/wisp/values"
)

// statement parses and compiles one top-level or block statement.
func (p *parser) statement() error {
	switch p.cur.Type {
	case lexer.TokenVar:
		return p.varDecl()
	case lexer.TokenIf:
		return p.ifStmt()
	case lexer.TokenWhile:
		return p.whileStmt()
	case lexer.TokenFor:
		return p.forStmt()
	case lexer.TokenBreak:
		return p.breakStmt()
	case lexer.TokenContinue:
		return p.continueStmt()
	case lexer.TokenReturn:
		return p.returnStmt()
	case lexer.TokenClass:
		return p.classDecl()
	case lexer.TokenImport:
		return p.importStmt()
	case lexer.TokenFun:
		return p.funDecl()
	case lexer.TokenLBrace:
		return p.block()
	default:
		return p.expressionStmt()
	}
}

func (p *parser) expressionStmt() error {
	line := p.line()
	if err := p.expression(bpLowest); err != nil {
		return err
	}
	p.curUnit.emitOp(opcodes.POP, line)
	return p.consumeOptionalSemicolon()
}

// consumeOptionalSemicolon allows (but does not require) a trailing ';'
// after a statement.
func (p *parser) consumeOptionalSemicolon() error {
	if p.check(lexer.TokenSemicolon) {
		return p.advance()
	}
	return nil
}

func (p *parser) varDecl() error {
	line := p.line()
	if err := p.advance(); err != nil { // consume 'var'
		return err
	}
	if !p.check(lexer.TokenIdent) {
		return p.errorf("expected variable name after 'var'")
	}
	name := p.cur.Value
	if err := p.advance(); err != nil {
		return err
	}

	if matched, err := p.match(lexer.TokenEq); err != nil {
		return err
	} else if matched {
		if err := p.expression(bpLowest); err != nil {
			return err
		}
	} else {
		p.curUnit.emitOp(opcodes.PUSH_NULL, line)
	}

	if err := p.declareVariable(name, line); err != nil {
		return err
	}
	return p.consumeOptionalSemicolon()
}

// declareVariable finishes a `var` declaration's initializer: at module
// scope it stores into (or freshly declares) a module variable; at local
// scope it checks for redeclaration-within-scope and appends a new local,
// leaving the initializer's value as that local's slot (locals live where
// they're pushed, so no STORE is needed beyond that).
func (p *parser) declareVariable(name string, line int) error {
	u := p.curUnit
	if u.scopeDepth == -1 {
		if idx, ok := p.module.Lookup(name); ok {
			if _, pending := p.pending[name]; !pending {
				return p.errorf("module variable %q is already defined", name)
			}
			delete(p.pending, name)
			u.emitOpShort(opcodes.STORE_MODULE_VAR, uint16(idx), line)
			u.emitOp(opcodes.POP, line)
			return nil
		}
		idx := p.module.Declare(name, values.Null)
		u.emitOpShort(opcodes.STORE_MODULE_VAR, uint16(idx), line)
		u.emitOp(opcodes.POP, line)
		return nil
	}

	for i := len(u.locals) - 1; i >= 0; i-- {
		if u.locals[i].depth < u.scopeDepth {
			break
		}
		if u.locals[i].name == name {
			return p.errorf("local variable %q is already declared in this scope", name)
		}
	}
	if len(u.locals) >= maxLocals {
		return p.errorf("too many local variables in scope (max %d)", maxLocals)
	}
	u.addLocal(name)
	return nil
}

func (p *parser) beginScope() { p.curUnit.scopeDepth++ }

// endScope pops every local declared at or below the scope depth being
// left, emitting POP for ordinary locals and CLOSE_UPVALUE for ones a
// closure captured.
func (p *parser) endScope(line int) {
	u := p.curUnit
	u.scopeDepth--
	for len(u.locals) > 0 && u.locals[len(u.locals)-1].depth > u.scopeDepth {
		last := u.locals[len(u.locals)-1]
		if last.isUpvalue {
			u.emitOp(opcodes.CLOSE_UPVALUE, line)
		} else {
			u.emitOp(opcodes.POP, line)
		}
		u.locals = u.locals[:len(u.locals)-1]
	}
}

func (p *parser) block() error {
	if err := p.expect(lexer.TokenLBrace, "to start block"); err != nil {
		return err
	}
	p.beginScope()
	for !p.check(lexer.TokenRBrace) && !p.check(lexer.TokenEOF) {
		if err := p.statement(); err != nil {
			return err
		}
	}
	line := p.line()
	if err := p.expect(lexer.TokenRBrace, "to close block"); err != nil {
		return err
	}
	p.endScope(line)
	return nil
}

func (p *parser) ifStmt() error {
	line := p.line()
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.expect(lexer.TokenLParen, "after 'if'"); err != nil {
		return err
	}
	if err := p.expression(bpLowest); err != nil {
		return err
	}
	if err := p.expect(lexer.TokenRParen, "after if condition"); err != nil {
		return err
	}
	thenJump := p.curUnit.emitJump(opcodes.JUMP_IF_FALSE, line)
	p.curUnit.emitOp(opcodes.POP, line)
	if err := p.statement(); err != nil {
		return err
	}
	elseJump := p.curUnit.emitJump(opcodes.JUMP, line)
	p.curUnit.patchJump(thenJump)
	p.curUnit.emitOp(opcodes.POP, line)
	if matched, err := p.match(lexer.TokenElse); err != nil {
		return err
	} else if matched {
		if err := p.statement(); err != nil {
			return err
		}
	}
	p.curUnit.patchJump(elseJump)
	return nil
}

func (p *parser) whileStmt() error {
	line := p.line()
	if err := p.advance(); err != nil {
		return err
	}
	u := p.curUnit
	lp := &loop{condStart: len(u.code), scopeDepth: u.scopeDepth, enclosing: u.loop}
	u.loop = lp

	if err := p.expect(lexer.TokenLParen, "after 'while'"); err != nil {
		return err
	}
	if err := p.expression(bpLowest); err != nil {
		return err
	}
	if err := p.expect(lexer.TokenRParen, "after while condition"); err != nil {
		return err
	}
	exitJump := u.emitJump(opcodes.JUMP_IF_FALSE, line)
	u.emitOp(opcodes.POP, line)
	lp.bodyStart = len(u.code)

	if err := p.statement(); err != nil {
		return err
	}
	u.emitLoop(lp.condStart, line)
	u.patchJump(exitJump)
	u.emitOp(opcodes.POP, line)

	p.patchLoopExits(lp)
	u.loop = lp.enclosing
	return nil
}

// patchLoopExits rewrites every END placeholder break emitted for lp into a
// real forward jump past the loop: the opcode byte itself is overwritten
// to JUMP (END must never reach the dispatch loop, per spec), then the
// trailing 2-byte placeholder is patched to the forward offset.
func (p *parser) patchLoopExits(lp *loop) {
	u := p.curUnit
	for _, offset := range lp.exitJumps {
		dist := len(u.code) - (offset + 2)
		u.code[offset-1] = byte(opcodes.JUMP)
		u.patchShortAt(offset, uint16(dist))
	}
}

func (p *parser) breakStmt() error {
	line := p.line()
	if err := p.advance(); err != nil {
		return err
	}
	u := p.curUnit
	if u.loop == nil {
		return p.errorf("'break' outside a loop")
	}
	p.discardLocalsToDepth(u.loop.scopeDepth, line)
	u.emitOp(opcodes.END, line)
	placeholder := len(u.code)
	u.emitShort(0xFFFF, line)
	u.loop.exitJumps = append(u.loop.exitJumps, placeholder)
	return p.consumeOptionalSemicolon()
}

func (p *parser) continueStmt() error {
	line := p.line()
	if err := p.advance(); err != nil {
		return err
	}
	u := p.curUnit
	if u.loop == nil {
		return p.errorf("'continue' outside a loop")
	}
	p.discardLocalsToDepth(u.loop.scopeDepth, line)
	u.emitLoop(u.loop.condStart, line)
	return p.consumeOptionalSemicolon()
}

// discardLocalsToDepth emits POP/CLOSE_UPVALUE for locals declared deeper
// than targetDepth without actually removing them from the compile-time
// local array (the enclosing scope's own endScope call still owns that).
func (p *parser) discardLocalsToDepth(targetDepth int, line int) {
	u := p.curUnit
	for i := len(u.locals) - 1; i >= 0 && u.locals[i].depth > targetDepth; i-- {
		if u.locals[i].isUpvalue {
			u.emitOp(opcodes.CLOSE_UPVALUE, line)
		} else {
			u.emitOp(opcodes.POP, line)
		}
	}
}

// forStmt lowers `for v in E { body }` to the hidden seq/iter protocol. The
// header may also be written in parentheses: `for (v in E) { body }`.
func (p *parser) forStmt() error {
	line := p.line()
	if err := p.advance(); err != nil {
		return err
	}
	hasParen, err := p.match(lexer.TokenLParen)
	if err != nil {
		return err
	}
	if !p.check(lexer.TokenIdent) {
		return p.errorf("expected loop variable name")
	}
	varName := p.cur.Value
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.expect(lexer.TokenIn, "in for-loop header"); err != nil {
		return err
	}

	p.beginScope()
	u := p.curUnit

	if err := p.expression(bpLowest); err != nil {
		return err
	}
	u.addLocal("seq ")
	u.emitOp(opcodes.PUSH_NULL, line)
	u.addLocal("iter ")

	if hasParen {
		if err := p.expect(lexer.TokenRParen, "after for-loop header"); err != nil {
			return err
		}
	}

	lp := &loop{condStart: len(u.code), scopeDepth: u.scopeDepth, enclosing: u.loop}
	u.loop = lp

	seqIdx := u.resolveLocal("seq ")
	iterIdx := u.resolveLocal("iter ")
	u.emitOpByte(opcodes.LOAD_LOCAL_VAR, byte(seqIdx), line)
	u.emitOpByte(opcodes.LOAD_LOCAL_VAR, byte(iterIdx), line)
	iterateID := p.methodNames.Intern(values.Signature{Kind: values.SignMethod, Name: "iterate", ArgNum: 1}.Canonical())
	u.emitCall(1, iterateID, line)
	u.emitOpByte(opcodes.STORE_LOCAL_VAR, byte(iterIdx), line)

	exitJump := u.emitJump(opcodes.JUMP_IF_FALSE, line)
	u.emitOp(opcodes.POP, line)

	p.beginScope()
	u.emitOpByte(opcodes.LOAD_LOCAL_VAR, byte(seqIdx), line)
	u.emitOpByte(opcodes.LOAD_LOCAL_VAR, byte(iterIdx), line)
	iterValueID := p.methodNames.Intern(values.Signature{Kind: values.SignMethod, Name: "iteratorValue", ArgNum: 1}.Canonical())
	u.emitCall(1, iterValueID, line)
	u.addLocal(varName)

	if err := p.statement(); err != nil {
		return err
	}
	p.endScope(line)

	u.emitLoop(lp.condStart, line)
	u.patchJump(exitJump)
	u.emitOp(opcodes.POP, line)
	p.patchLoopExits(lp)
	u.loop = lp.enclosing

	p.endScope(line)
	return nil
}

func (p *parser) returnStmt() error {
	line := p.line()
	if err := p.advance(); err != nil {
		return err
	}
	if p.check(lexer.TokenSemicolon) || p.check(lexer.TokenRBrace) {
		p.curUnit.emitOp(opcodes.PUSH_NULL, line)
	} else if err := p.expression(bpLowest); err != nil {
		return err
	}
	p.curUnit.emitOp(opcodes.RETURN, line)
	return p.consumeOptionalSemicolon()
}

func (p *parser) importStmt() error {
	line := p.line()
	if err := p.advance(); err != nil {
		return err
	}
	if !p.check(lexer.TokenIdent) {
		return p.errorf("expected module name after 'import'")
	}
	moduleName := p.cur.Value
	if err := p.advance(); err != nil {
		return err
	}

	if err := p.emitLoadCoreClass("System", line); err != nil {
		return err
	}
	p.curUnit.emitConstant(values.FromObj(p.newStringConstant(moduleName)), line)
	importID := p.methodNames.Intern(values.Signature{Kind: values.SignMethod, Name: "importModule", ArgNum: 1}.Canonical())
	p.curUnit.emitCall(1, importID, line)
	p.curUnit.emitOp(opcodes.POP, line)

	if matched, err := p.match(lexer.TokenFor); err != nil {
		return err
	} else if matched {
		for {
			if !p.check(lexer.TokenIdent) {
				return p.errorf("expected variable name in import list")
			}
			varName := p.cur.Value
			if err := p.advance(); err != nil {
				return err
			}
			if err := p.emitLoadCoreClass("System", line); err != nil {
				return err
			}
			p.curUnit.emitConstant(values.FromObj(p.newStringConstant(moduleName)), line)
			p.curUnit.emitConstant(values.FromObj(p.newStringConstant(varName)), line)
			getID := p.methodNames.Intern(values.Signature{Kind: values.SignMethod, Name: "getModuleVariable", ArgNum: 2}.Canonical())
			p.curUnit.emitCall(2, getID, line)
			if err := p.declareVariable(varName, line); err != nil {
				return err
			}
			matched, err := p.match(lexer.TokenComma)
			if err != nil {
				return err
			}
			if !matched {
				break
			}
		}
	}
	return p.consumeOptionalSemicolon()
}
