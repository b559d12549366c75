package compiler

import (
	"github.com/wisp-lang/wisp/lexer"
	"github.com/wisp-lang/wisp/opcodes"
	"github.com/wisp-lang/wisp/values"
)

// classDecl compiles `class Name [< Super] { members }`. The class object
// is stored into its module variable immediately after CREATE_CLASS and
// reloaded before binding each member, rather than kept live on the value
// stack across the whole body.
func (p *parser) classDecl() error {
	line := p.line()
	if err := p.advance(); err != nil { // consume 'class'
		return err
	}
	if p.curUnit.scopeDepth != -1 {
		return p.errorf("class definition must be at module scope")
	}
	if !p.check(lexer.TokenIdent) {
		return p.errorf("expected class name after 'class'")
	}
	name := p.cur.Value
	if err := p.advance(); err != nil {
		return err
	}

	classVarIdx, err := p.declareModuleName(name, line)
	if err != nil {
		return err
	}

	p.curUnit.emitConstant(values.FromObj(p.newStringConstant(name)), line)
	if matched, err := p.match(lexer.TokenLt); err != nil {
		return err
	} else if matched {
		if err := p.expression(bpCall); err != nil {
			return err
		}
	} else {
		if err := p.emitLoadCoreClass("object", line); err != nil {
			return err
		}
	}

	fieldCountOffset := p.curUnit.emitOpByte(opcodes.CREATE_CLASS, 0, line)
	p.curUnit.emitOpShort(opcodes.STORE_MODULE_VAR, uint16(classVarIdx), line)
	p.curUnit.emitOp(opcodes.POP, line)

	cbk := newClassBookKeep(name, p.curUnit.class)
	p.curUnit.class = cbk

	if err := p.expect(lexer.TokenLBrace, "after class name"); err != nil {
		p.curUnit.class = cbk.enclosing
		return err
	}
	p.beginScope()
	for !p.check(lexer.TokenRBrace) && !p.check(lexer.TokenEOF) {
		if err := p.classMember(classVarIdx, cbk); err != nil {
			p.curUnit.class = cbk.enclosing
			return err
		}
	}
	endLine := p.line()
	if err := p.expect(lexer.TokenRBrace, "to close class body"); err != nil {
		p.curUnit.class = cbk.enclosing
		return err
	}
	p.endScope(endLine)

	p.curUnit.code[fieldCountOffset+1] = byte(len(cbk.fieldOrder))
	p.curUnit.class = cbk.enclosing
	return nil
}

// classMember dispatches one member: a static/instance field declaration
// or a method (getter, setter, ordinary method, constructor, subscript,
// subscript-setter, or operator).
func (p *parser) classMember(classVarIdx int, cbk *classBookKeep) error {
	line := p.line()
	isStatic := false
	if matched, err := p.match(lexer.TokenStatic); err != nil {
		return err
	} else {
		isStatic = matched
	}

	if matched, err := p.match(lexer.TokenVar); err != nil {
		return err
	} else if matched {
		if !isStatic {
			return p.errorf("instance fields are declared implicitly by using a bare name inside a method; only 'static var' is written explicitly")
		}
		return p.staticFieldDecl(cbk, line)
	}

	cbk.inStatic = isStatic
	sig, paramNames, err := p.parseMemberSignature(cbk)
	if err != nil {
		return err
	}
	cbk.signature = sig

	methodID := p.methodNames.Intern(sig.Canonical())
	if methodList := cbk.methodList(isStatic); containsID(methodList, methodID) {
		return p.errorf("method %q is already defined in class %q", sig.Canonical(), cbk.name)
	}
	cbk.addMethodID(isStatic, methodID)

	fnIdx, upvalues, err := p.compileBody(paramNames, cbk, sig.Kind == values.SignConstructor, line)
	if err != nil {
		return err
	}
	p.curUnit.emitCreateClosure(fnIdx, upvalues, line)
	p.curUnit.emitOpShort(opcodes.LOAD_MODULE_VAR, uint16(classVarIdx), line)
	bindOp := opcodes.INSTANCE_METHOD
	if isStatic {
		bindOp = opcodes.STATIC_METHOD
	}
	p.curUnit.emitOpShort(bindOp, uint16(methodID), line)

	if sig.Kind == values.SignConstructor {
		if err := p.emitConstructorWrapper(classVarIdx, sig, methodID, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *classBookKeep) methodList(isStatic bool) []int {
	if isStatic {
		return c.staticMethods
	}
	return c.instanceMethods
}

func (c *classBookKeep) addMethodID(isStatic bool, id int) {
	if isStatic {
		c.staticMethods = append(c.staticMethods, id)
	} else {
		c.instanceMethods = append(c.instanceMethods, id)
	}
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (p *parser) staticFieldDecl(cbk *classBookKeep, line int) error {
	for {
		if !p.check(lexer.TokenIdent) {
			return p.errorf("expected static field name")
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
		idx, err := p.declareModuleName(values.StaticFieldName(cbk.name, name), line)
		if err != nil {
			return err
		}
		p.curUnit.emitOpShort(opcodes.STORE_MODULE_VAR, uint16(idx), line)
		p.curUnit.emitOp(opcodes.POP, line)
		matched, err := p.match(lexer.TokenComma)
		if err != nil {
			return err
		}
		if !matched {
			break
		}
	}
	return p.consumeOptionalSemicolon()
}

// parseMemberSignature consumes the member's name/operator/subscript token
// and its parameter list, returning the canonical Signature plus the list
// of parameter names to bind as locals in the method body.
func (p *parser) parseMemberSignature(cbk *classBookKeep) (values.Signature, []string, error) {
	if p.check(lexer.TokenLBracket) {
		return p.parseSubscriptSignature()
	}

	if p.check(lexer.TokenIdent) {
		name := p.cur.Value
		if err := p.advance(); err != nil {
			return values.Signature{}, nil, err
		}
		if matched, err := p.match(lexer.TokenEq); err != nil {
			return values.Signature{}, nil, err
		} else if matched {
			if err := p.expect(lexer.TokenLParen, "after '=' in setter declaration"); err != nil {
				return values.Signature{}, nil, err
			}
			if !p.check(lexer.TokenIdent) {
				return values.Signature{}, nil, p.errorf("expected setter parameter name")
			}
			param := p.cur.Value
			if err := p.advance(); err != nil {
				return values.Signature{}, nil, err
			}
			if err := p.expect(lexer.TokenRParen, "after setter parameter"); err != nil {
				return values.Signature{}, nil, err
			}
			return values.Signature{Kind: values.SignSetter, Name: name}, []string{param}, nil
		}
		if p.check(lexer.TokenLParen) {
			params, err := p.parseParamNameList()
			if err != nil {
				return values.Signature{}, nil, err
			}
			kind := values.SignMethod
			if name == "new" && !cbk.inStatic {
				kind = values.SignConstructor
			}
			return values.Signature{Kind: kind, Name: name, ArgNum: len(params)}, params, nil
		}
		return values.Signature{Kind: values.SignGetter, Name: name}, nil, nil
	}

	rule, ok := rules[p.cur.Type]
	if !ok || rule.opName == "" {
		return values.Signature{}, nil, p.errorf("expected method name, operator, or '[' in class body")
	}
	opName := rule.opName
	if err := p.advance(); err != nil {
		return values.Signature{}, nil, err
	}
	if p.check(lexer.TokenLParen) {
		params, err := p.parseParamNameList()
		if err != nil {
			return values.Signature{}, nil, err
		}
		return values.Signature{Kind: values.SignMethod, Name: opName, ArgNum: len(params)}, params, nil
	}
	return values.Signature{Kind: values.SignMethod, Name: opName, ArgNum: 0}, nil, nil
}

func (p *parser) parseSubscriptSignature() (values.Signature, []string, error) {
	if err := p.advance(); err != nil { // consume '['
		return values.Signature{}, nil, err
	}
	params, err := p.parseRawParamNames(lexer.TokenRBracket)
	if err != nil {
		return values.Signature{}, nil, err
	}
	if err := p.expect(lexer.TokenRBracket, "to close subscript parameter list"); err != nil {
		return values.Signature{}, nil, err
	}
	if matched, err := p.match(lexer.TokenEq); err != nil {
		return values.Signature{}, nil, err
	} else if matched {
		if err := p.expect(lexer.TokenLParen, "after '=' in subscript setter declaration"); err != nil {
			return values.Signature{}, nil, err
		}
		if !p.check(lexer.TokenIdent) {
			return values.Signature{}, nil, p.errorf("expected subscript setter value parameter")
		}
		valueParam := p.cur.Value
		if err := p.advance(); err != nil {
			return values.Signature{}, nil, err
		}
		if err := p.expect(lexer.TokenRParen, "after subscript setter parameter"); err != nil {
			return values.Signature{}, nil, err
		}
		params = append(params, valueParam)
		return values.Signature{Kind: values.SignSubscriptSetter, ArgNum: len(params)}, params, nil
	}
	return values.Signature{Kind: values.SignSubscript, ArgNum: len(params)}, params, nil
}

func (p *parser) parseParamNameList() ([]string, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	names, err := p.parseRawParamNames(lexer.TokenRParen)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.TokenRParen, "to close parameter list"); err != nil {
		return nil, err
	}
	return names, nil
}

func (p *parser) parseRawParamNames(closeTok lexer.TokenType) ([]string, error) {
	var names []string
	if p.check(closeTok) {
		return names, nil
	}
	for {
		if !p.check(lexer.TokenIdent) {
			return nil, p.errorf("expected parameter name")
		}
		names = append(names, p.cur.Value)
		if err := p.advance(); err != nil {
			return nil, err
		}
		matched, err := p.match(lexer.TokenComma)
		if err != nil {
			return nil, err
		}
		if !matched {
			break
		}
	}
	return names, nil
}

// compileBody compiles one method's `{ ... }` body in its own CompileUnit,
// returning the constant-pool index of the finished ObjFn (interned in the
// enclosing unit) and the upvalue descriptors CREATE_CLOSURE must bind.
func (p *parser) compileBody(paramNames []string, cbk *classBookKeep, isConstructor bool, line int) (int, []values.UpvalueDescriptor, error) {
	enclosing := p.curUnit
	fn := values.NewFn(p.module)
	fn.DebugName = cbk.name
	newU := newUnit(fn, enclosing, 0)
	newU.class = cbk
	newU.thisBound = true
	p.curUnit = newU

	newU.addLocal("this")
	for _, n := range paramNames {
		newU.addLocal(n)
	}

	if err := p.expect(lexer.TokenLBrace, "to start method body"); err != nil {
		p.curUnit = enclosing
		return 0, nil, err
	}
	for !p.check(lexer.TokenRBrace) && !p.check(lexer.TokenEOF) {
		if err := p.statement(); err != nil {
			p.curUnit = enclosing
			return 0, nil, err
		}
	}
	endLine := p.line()
	if err := p.expect(lexer.TokenRBrace, "to close method body"); err != nil {
		p.curUnit = enclosing
		return 0, nil, err
	}
	if isConstructor {
		// constructors implicitly return `this` rather than null; RETURN
		// pops whatever's on top, so `this` must be pushed first
		newU.emitOpByte(opcodes.LOAD_LOCAL_VAR, 0, endLine)
	} else {
		newU.emitOp(opcodes.PUSH_NULL, endLine)
	}
	newU.emitOp(opcodes.RETURN, endLine)

	fn.ArgNum = len(paramNames)
	fn.UpvalueCount = len(newU.upvalues)
	fn.MaxStackSlotUsedNum = newU.maxStackSlots
	fn.Code = newU.code
	fn.Lines = newU.lines
	fn.Constants = newU.constants

	upvalues := newU.upvalues
	p.curUnit = enclosing
	idx := enclosing.internConstant(values.FromObj(fn))
	return idx, upvalues, nil
}

// emitConstructorWrapper synthesizes the static companion for a `new`
// method: CONSTRUCT (turns the receiver slot into a fresh instance),
// CALL<n> back into the instance initializer under the same method id,
// RETURN. It is bound into the metaclass under the same signature name so
// `Cls.new(...)` resolves here first.
func (p *parser) emitConstructorWrapper(classVarIdx int, sig values.Signature, initializerID int, line int) error {
	enclosing := p.curUnit
	fn := values.NewFn(p.module)
	fn.DebugName = sig.Name + " (new)"
	newU := newUnit(fn, enclosing, 0)
	p.curUnit = newU
	newU.addLocal("this")
	for i := 0; i < sig.ArgNum; i++ {
		newU.addLocal("")
	}

	newU.emitOp(opcodes.CONSTRUCT, line)
	newU.emitCall(sig.ArgNum, initializerID, line)
	newU.emitOp(opcodes.RETURN, line)

	fn.ArgNum = sig.ArgNum
	fn.UpvalueCount = 0
	fn.MaxStackSlotUsedNum = newU.maxStackSlots
	fn.Code = newU.code
	fn.Lines = newU.lines
	fn.Constants = newU.constants

	p.curUnit = enclosing
	idx := enclosing.internConstant(values.FromObj(fn))
	enclosing.emitCreateClosure(idx, nil, line)
	enclosing.emitOpShort(opcodes.LOAD_MODULE_VAR, uint16(classVarIdx), line)
	enclosing.emitOpShort(opcodes.STATIC_METHOD, uint16(initializerID), line)
	return nil
}
