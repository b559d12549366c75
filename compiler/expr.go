package compiler

import (
	"strconv"

	"github.com/wisp-lang/wisp/lexer"
	"github.com/wisp-lang/wisp/opcodes"
	"github.com/wisp-lang/wisp/values"
)

// expression is the Pratt core: invoke cur token's nud, then while the
// next token's lbp exceeds rbp, consume it and invoke its led. canAssign
// is threaded down so only the bottom of an expression may parse `=`.
func (p *parser) expression(rbp bindPower) error {
	rule, ok := rules[p.cur.Type]
	if !ok || rule.nud == nil {
		return p.errorf("unexpected token %s in expression", p.cur.String())
	}
	canAssign := rbp < bpAssign
	if err := rule.nud(p, canAssign); err != nil {
		return err
	}
	for {
		next, ok := rules[p.cur.Type]
		if !ok || next.lbp <= rbp {
			break
		}
		if err := next.led(p, canAssign); err != nil {
			return err
		}
	}
	return nil
}

func opPushTrue(p *parser, _ bool) error { p.curUnit.emitOp(opcodes.PUSH_TRUE, p.line()); return p.advance() }
func opPushFalse(p *parser, _ bool) error { p.curUnit.emitOp(opcodes.PUSH_FALSE, p.line()); return p.advance() }
func opPushNull(p *parser, _ bool) error { p.curUnit.emitOp(opcodes.PUSH_NULL, p.line()); return p.advance() }

func parseLiteral(emit func(*parser, bool) error) func(*parser, bool) error {
	return emit
}

func parseNumber(p *parser, _ bool) error {
	text := p.cur.Value
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return p.errorf("invalid number literal %q", text)
	}
	p.curUnit.emitConstant(values.Number(n), p.line())
	return p.advance()
}

func parseString(p *parser, _ bool) error {
	p.curUnit.emitConstant(values.FromObj(p.newStringConstant(p.cur.Value)), p.line())
	return p.advance()
}

func parseGroup(p *parser, _ bool) error {
	if err := p.advance(); err != nil { // consume '('
		return err
	}
	if err := p.expression(bpLowest); err != nil {
		return err
	}
	return p.expect(lexer.TokenRParen, "after grouped expression")
}

func parseThis(p *parser, _ bool) error {
	if !p.curUnit.thisBound {
		return p.errorf("'this' is only valid inside a method body")
	}
	p.curUnit.emitOpByte(opcodes.LOAD_LOCAL_VAR, 0, p.line())
	return p.advance()
}

func parseUnary(p *parser, _ bool) error {
	op := p.cur.Type
	line := p.line()
	sig := rules[op].opName
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.expression(bpUnary); err != nil {
		return err
	}
	return p.emitUnaryCall(sig, line)
}

func (p *parser) emitUnaryCall(opName string, line int) error {
	id := p.methodNames.Intern(values.Signature{Kind: values.SignMethod, Name: opName, ArgNum: 0}.Canonical())
	p.curUnit.emitCall(0, id, line)
	return nil
}

func parseBinary(p *parser, _ bool) error {
	op := p.cur.Type
	rule := rules[op]
	line := p.line()
	if err := p.advance(); err != nil {
		return err
	}
	// left-associative: parse the right operand at this operator's own
	// binding power so same-precedence operators nest left-to-right.
	if err := p.expression(rule.lbp); err != nil {
		return err
	}
	id := p.methodNames.Intern(values.Signature{Kind: values.SignMethod, Name: rule.opName, ArgNum: 1}.Canonical())
	p.curUnit.emitCall(1, id, line)
	return nil
}

func parseAnd(p *parser, _ bool) error {
	line := p.line()
	if err := p.advance(); err != nil {
		return err
	}
	jump := p.curUnit.emitJump(opcodes.AND, line)
	if err := p.expression(bpLogicAnd); err != nil {
		return err
	}
	p.curUnit.patchJump(jump)
	return nil
}

func parseOr(p *parser, _ bool) error {
	line := p.line()
	if err := p.advance(); err != nil {
		return err
	}
	jump := p.curUnit.emitJump(opcodes.OR, line)
	if err := p.expression(bpLogicOr); err != nil {
		return err
	}
	p.curUnit.patchJump(jump)
	return nil
}

func parseConditional(p *parser, _ bool) error {
	line := p.line()
	if err := p.advance(); err != nil { // consume '?'
		return err
	}
	thenJump := p.curUnit.emitJump(opcodes.JUMP_IF_FALSE, line)
	p.curUnit.emitOp(opcodes.POP, line)
	if err := p.expression(bpCondition); err != nil {
		return err
	}
	elseJump := p.curUnit.emitJump(opcodes.JUMP, line)
	p.curUnit.patchJump(thenJump)
	p.curUnit.emitOp(opcodes.POP, line)
	if err := p.expect(lexer.TokenColon, "in conditional expression"); err != nil {
		return err
	}
	if err := p.expression(bpCondition); err != nil {
		return err
	}
	p.curUnit.patchJump(elseJump)
	return nil
}

// parseCall is the led for a `(` that follows a primary expression not
// already consumed as a call. It always reports an error: bare calls are
// resolved earlier by parseIdentifier, and `recv.method(args)` goes
// through parseMethodCall.
func parseCall(p *parser, _ bool) error {
	return p.errorf("unexpected '(' — calls must target a receiver (use '.')")
}

// parseArgList parses a comma-separated argument list between the open and
// closeTok delimiters and returns its count.
func (p *parser) parseArgList(open, closeTok lexer.TokenType) (int, error) {
	if err := p.expect(open, "to start argument list"); err != nil {
		return 0, err
	}
	count := 0
	if !p.check(closeTok) {
		for {
			if err := p.expression(bpLowest); err != nil {
				return 0, err
			}
			count++
			matched, err := p.match(lexer.TokenComma)
			if err != nil {
				return 0, err
			}
			if !matched {
				break
			}
		}
	}
	if err := p.expect(closeTok, "to close argument list"); err != nil {
		return 0, err
	}
	return count, nil
}

func parseMethodCall(p *parser, canAssign bool) error {
	line := p.line()
	if err := p.advance(); err != nil { // consume '.'
		return err
	}
	if !p.check(lexer.TokenIdent) {
		return p.errorf("expected method name after '.'")
	}
	name := p.cur.Value
	if err := p.advance(); err != nil {
		return err
	}

	if canAssign {
		if matched, err := p.match(lexer.TokenEq); err != nil {
			return err
		} else if matched {
			if err := p.expression(bpAssign); err != nil {
				return err
			}
			id := p.methodNames.Intern(values.Signature{Kind: values.SignSetter, Name: name}.Canonical())
			p.curUnit.emitCall(1, id, line)
			return nil
		}
	}

	if p.check(lexer.TokenLParen) {
		argc, err := p.parseArgList(lexer.TokenLParen, lexer.TokenRParen)
		if err != nil {
			return err
		}
		id := p.methodNames.Intern(values.Signature{Kind: values.SignMethod, Name: name, ArgNum: argc}.Canonical())
		p.curUnit.emitCall(argc, id, line)
		return nil
	}

	id := p.methodNames.Intern(values.Signature{Kind: values.SignGetter, Name: name}.Canonical())
	p.curUnit.emitCall(0, id, line)
	return nil
}

func parseSubscript(p *parser, canAssign bool) error {
	line := p.line()
	if err := p.advance(); err != nil { // consume '['
		return err
	}
	count := 1
	if err := p.expression(bpLowest); err != nil {
		return err
	}
	for {
		matched, err := p.match(lexer.TokenComma)
		if err != nil {
			return err
		}
		if !matched {
			break
		}
		if err := p.expression(bpLowest); err != nil {
			return err
		}
		count++
	}
	if err := p.expect(lexer.TokenRBracket, "to close subscript"); err != nil {
		return err
	}

	if canAssign {
		if matched, err := p.match(lexer.TokenEq); err != nil {
			return err
		} else if matched {
			if err := p.expression(bpAssign); err != nil {
				return err
			}
			id := p.methodNames.Intern(values.Signature{Kind: values.SignSubscriptSetter, ArgNum: count + 1}.Canonical())
			p.curUnit.emitCall(count+1, id, line)
			return nil
		}
	}

	id := p.methodNames.Intern(values.Signature{Kind: values.SignSubscript, ArgNum: count}.Canonical())
	p.curUnit.emitCall(count, id, line)
	return nil
}

func parseListLiteral(p *parser, _ bool) error {
	line := p.line()
	listClassID := p.methodNames.Intern(values.Signature{Kind: values.SignGetter, Name: "new"}.Canonical())
	_ = listClassID
	// A list literal is lowered to List.new() followed by an add(_) call
	// per element, emitted inline rather than via a dedicated opcode.
	if err := p.emitLoadCoreClass("List", line); err != nil {
		return err
	}
	newID := p.methodNames.Intern(values.Signature{Kind: values.SignConstructor, Name: "new", ArgNum: 0}.Canonical())
	p.curUnit.emitCall(0, newID, line)

	if err := p.advance(); err != nil { // consume '['
		return err
	}
	addID := p.methodNames.Intern(values.Signature{Kind: values.SignMethod, Name: "add", ArgNum: 1}.Canonical())
	if !p.check(lexer.TokenRBracket) {
		for {
			if err := p.expression(bpLowest); err != nil {
				return err
			}
			p.curUnit.emitCall(1, addID, line)
			p.curUnit.emitOp(opcodes.POP, line) // add(_) result discarded; list stays on stack
			matched, err := p.match(lexer.TokenComma)
			if err != nil {
				return err
			}
			if !matched {
				break
			}
		}
	}
	return p.expect(lexer.TokenRBracket, "to close list literal")
}

func parseMapLiteral(p *parser, _ bool) error {
	line := p.line()
	if err := p.emitLoadCoreClass("Map", line); err != nil {
		return err
	}
	newID := p.methodNames.Intern(values.Signature{Kind: values.SignConstructor, Name: "new", ArgNum: 0}.Canonical())
	p.curUnit.emitCall(0, newID, line)

	if err := p.advance(); err != nil { // consume '{'
		return err
	}
	setID := p.methodNames.Intern(values.Signature{Kind: values.SignSubscriptSetter, ArgNum: 2}.Canonical())
	if !p.check(lexer.TokenRBrace) {
		for {
			if err := p.expression(bpLowest); err != nil {
				return err
			}
			if err := p.expect(lexer.TokenColon, "between map key and value"); err != nil {
				return err
			}
			if err := p.expression(bpLowest); err != nil {
				return err
			}
			p.curUnit.emitCall(2, setID, line)
			p.curUnit.emitOp(opcodes.POP, line)
			matched, err := p.match(lexer.TokenComma)
			if err != nil {
				return err
			}
			if !matched {
				break
			}
		}
	}
	return p.expect(lexer.TokenRBrace, "to close map literal")
}

// emitLoadCoreClass pushes the class object for a core type by loading it
// as a module variable of the core module (core classes are installed as
// module variables of the nameless core module at bootstrap).
func (p *parser) emitLoadCoreClass(name string, line int) error {
	idx, ok := p.module.Lookup(name)
	if !ok {
		return p.errorf("unknown core class %q", name)
	}
	p.curUnit.emitOpShort(opcodes.LOAD_MODULE_VAR, uint16(idx), line)
	return nil
}
