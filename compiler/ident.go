package compiler

import (
	"strings"

	"github.com/wisp-lang/wisp/lexer"
	"github.com/wisp-lang/wisp/opcodes"
	"github.com/wisp-lang/wisp/values"
)

func parseAssign(p *parser, _ bool) error {
	return p.errorf("invalid assignment target")
}

// parseIdentifier resolves a bare name in this order: call sugar outside
// method bodies, local, upvalue, then (for a lowercase name inside an
// instance method) an implicit same-class method call when '(' follows or
// else an instance field, then static field, then module variable
// (declaring a pending forward reference if unseen).
func parseIdentifier(p *parser, canAssign bool) error {
	name := p.cur.Value
	line := p.line()
	if err := p.advance(); err != nil {
		return err
	}

	// (1) bare call sugar outside a method body (at module scope or inside a
	// function): `name(args)` where name isn't a known local/upvalue
	// resolves through the synthetic "Fn name" module variable holding the
	// declared function's closure.
	if !p.curUnit.thisBound && p.check(lexer.TokenLParen) && !p.hasLocalOrUpvalue(name) {
		return p.compileModuleFnCall(name, line)
	}

	u := p.curUnit

	if idx := u.resolveLocal(name); idx != -1 {
		return p.resolveLoadStore(canAssign, line,
			func() { u.emitOpByte(opcodes.LOAD_LOCAL_VAR, byte(idx), line) },
			func() { u.emitOpByte(opcodes.STORE_LOCAL_VAR, byte(idx), line) },
		)
	}

	if idx := u.resolveUpvalue(name); idx != -1 {
		return p.resolveLoadStore(canAssign, line,
			func() { u.emitOpByte(opcodes.LOAD_UPVALUE, byte(idx), line) },
			func() { u.emitOpByte(opcodes.STORE_UPVALUE, byte(idx), line) },
		)
	}

	if u.thisBound && u.class != nil && !u.class.inStatic && !strings.Contains(name, " ") {
		if looksLikeFieldOrMethod(name) {
			// A lowercase bare name inside a method body that isn't a known
			// local/upvalue is either an implicit `this.<field>` or an
			// implicit same-class method call; fields win when the name is
			// not immediately followed by '(' (spec order item 4 before 6).
			if p.check(lexer.TokenLParen) {
				return p.compileImplicitThisCall(name, line)
			}
			idx := u.class.fieldIndex(name)
			return p.resolveLoadStore(canAssign, line,
				func() { u.emitOpByte(opcodes.LOAD_THIS_FIELD, byte(idx), line) },
				func() { u.emitOpByte(opcodes.STORE_THIS_FIELD, byte(idx), line) },
			)
		}
	}

	if u.class != nil {
		staticName := values.StaticFieldName(u.class.name, name)
		if idx, ok := p.module.Lookup(staticName); ok {
			return p.resolveModuleVar(canAssign, line, idx)
		}
	}

	idx := p.resolveOrDeclareModuleVar(name, line)
	return p.resolveModuleVar(canAssign, line, idx)
}

// looksLikeFieldOrMethod reports whether name starts lowercase, the
// heuristic the spec uses to decide between "instance field" and "same
// class method" for a bare identifier inside a method body.
func looksLikeFieldOrMethod(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c >= 'a' && c <= 'z'
}

func (p *parser) hasLocalOrUpvalue(name string) bool {
	if p.curUnit.resolveLocal(name) != -1 {
		return true
	}
	return p.curUnit.resolveUpvalue(name) != -1
}

func (p *parser) resolveLoadStore(canAssign bool, line int, load, store func()) error {
	if canAssign {
		if matched, err := p.match(lexer.TokenEq); err != nil {
			return err
		} else if matched {
			if err := p.expression(bpAssign); err != nil {
				return err
			}
			store()
			return nil
		}
	}
	load()
	return nil
}

func (p *parser) resolveModuleVar(canAssign bool, line int, idx int) error {
	return p.resolveLoadStore(canAssign, line,
		func() { p.curUnit.emitOpShort(opcodes.LOAD_MODULE_VAR, uint16(idx), line) },
		func() { p.curUnit.emitOpShort(opcodes.STORE_MODULE_VAR, uint16(idx), line) },
	)
}

// resolveOrDeclareModuleVar looks up name in the module; if it isn't known
// yet, declares it with a null placeholder and records the reference as
// pending (to be checked at module finalization), per the design notes'
// preferred alternative to a line-number-sentinel value.
func (p *parser) resolveOrDeclareModuleVar(name string, line int) int {
	if idx, ok := p.module.Lookup(name); ok {
		return idx
	}
	idx := p.module.Declare(name, values.Null)
	if _, known := p.pending[name]; !known {
		p.pending[name] = line
	}
	return idx
}

// declareModuleName declares name as a fresh module variable, or resolves
// an existing forward reference to it (clearing the pending mark); it is an
// error for name to already be a genuinely-defined module variable.
func (p *parser) declareModuleName(name string, line int) (int, error) {
	if idx, ok := p.module.Lookup(name); ok {
		if _, pending := p.pending[name]; !pending {
			return 0, p.errorf("module variable %q is already defined", name)
		}
		delete(p.pending, name)
		return idx, nil
	}
	return p.module.Declare(name, values.Null), nil
}

// compileModuleFnCall resolves a bare call outside a method body to the
// synthetic "Fn name" module variable and emits a call(_,...) on its
// closure.
func (p *parser) compileModuleFnCall(name string, line int) error {
	idx := p.resolveOrDeclareModuleVar(values.ModuleFnName(name), line)
	p.curUnit.emitOpShort(opcodes.LOAD_MODULE_VAR, uint16(idx), line)
	argc, err := p.parseArgList(lexer.TokenLParen, lexer.TokenRParen)
	if err != nil {
		return err
	}
	id := p.methodNames.Intern(values.Signature{Kind: values.SignMethod, Name: "call", ArgNum: argc}.Canonical())
	p.curUnit.emitCall(argc, id, line)
	return nil
}

// compileImplicitThisCall compiles `name(args)` inside a method body as
// `this.name(args)`.
func (p *parser) compileImplicitThisCall(name string, line int) error {
	p.curUnit.emitOpByte(opcodes.LOAD_LOCAL_VAR, 0, line)
	argc, err := p.parseArgList(lexer.TokenLParen, lexer.TokenRParen)
	if err != nil {
		return err
	}
	id := p.methodNames.Intern(values.Signature{Kind: values.SignMethod, Name: name, ArgNum: argc}.Canonical())
	p.curUnit.emitCall(argc, id, line)
	return nil
}

func parseSuper(p *parser, _ bool) error {
	line := p.line()
	if err := p.advance(); err != nil {
		return err
	}
	if !p.curUnit.thisBound {
		return p.errorf("'super' is only valid inside a method body")
	}
	p.curUnit.emitOpByte(opcodes.LOAD_LOCAL_VAR, 0, line) // receiver is still `this`

	if matched, err := p.match(lexer.TokenDot); err != nil {
		return err
	} else if matched {
		if !p.check(lexer.TokenIdent) {
			return p.errorf("expected method name after 'super.'")
		}
		name := p.cur.Value
		if err := p.advance(); err != nil {
			return err
		}
		argc, err := p.parseArgList(lexer.TokenLParen, lexer.TokenRParen)
		if err != nil {
			return err
		}
		id := p.methodNames.Intern(values.Signature{Kind: values.SignMethod, Name: name, ArgNum: argc}.Canonical())
		p.curUnit.emitSuper(argc, id, line)
		return nil
	}

	// bare `super(...)` calls the superclass constructor under the
	// enclosing method's own name (used from `new`).
	if p.curUnit.class == nil || p.curUnit.class.signature.Name == "" {
		return p.errorf("'super' call outside a method body")
	}
	argc, err := p.parseArgList(lexer.TokenLParen, lexer.TokenRParen)
	if err != nil {
		return err
	}
	id := p.methodNames.Intern(values.Signature{Kind: values.SignMethod, Name: p.curUnit.class.signature.Name, ArgNum: argc}.Canonical())
	p.curUnit.emitSuper(argc, id, line)
	return nil
}
