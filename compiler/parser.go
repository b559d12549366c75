package compiler

import (
	"fmt"

	"github.com/wisp-lang/wisp/lexer"
	"github.com/wisp-lang/wisp/values"
)

// Error is a fatal compile-time error: syntax, or an unresolved forward
// module-variable reference caught at module finalization.
type Error struct {
	File string
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d \"%s\"", e.File, e.Line, e.Msg)
}

// parser drives the lexer with one token of lookahead, the minimum a Pratt
// parser needs (peek to decide whether to keep consuming infix/postfix
// operators, consume to advance).
type parser struct {
	lex  *lexer.Lexer
	file string

	cur  lexer.Token
	next lexer.Token

	curUnit *unit
	module  *values.ObjModule

	// methodNames is the VM-wide interned method-signature table; it must
	// be shared across every module compiled in a run, since method ids
	// are uniform across all classes.
	methodNames *values.SymbolTable

	// pending tracks module-scope forward references by name -> line, per
	// the design notes' preferred alternative to conflating a variable's
	// value with a line-number sentinel.
	pending map[string]int
}

// newStringConstant builds an ObjString for a compile-time literal (a class
// name, a string token, an import's module/variable name) and tags it with
// the String class PrepareModule already declared on module, mirroring
// corelib.retagExistingStrings for strings born after bootstrap instead of
// before it. If module has no String binding yet (only possible while
// bootstrap itself is being built, never for user code), the string is left
// untagged for a later retag pass to pick up.
func (p *parser) newStringConstant(s string) *values.ObjString {
	str := values.NewString(s)
	if idx, ok := p.module.Lookup("String"); ok {
		if class, ok := p.module.ValueAt(idx).Obj.(*values.Class); ok {
			str.SetClassPtr(class)
		}
	}
	return str
}

func newParser(file, src string, module *values.ObjModule, methodNames *values.SymbolTable) (*parser, error) {
	p := &parser{
		lex:         lexer.New(file, src),
		file:        file,
		module:      module,
		methodNames: methodNames,
		pending:     make(map[string]int),
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// advance shifts next into cur and scans a new next token.
func (p *parser) advance() error {
	p.cur = p.next
	tok, err := p.lex.Next()
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			return &Error{File: lexErr.File, Line: lexErr.Line, Msg: lexErr.Msg}
		}
		return err
	}
	p.next = tok
	return nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &Error{File: p.file, Line: p.cur.Pos.Line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) check(t lexer.TokenType) bool { return p.cur.Type == t }

func (p *parser) match(t lexer.TokenType) (bool, error) {
	if !p.check(t) {
		return false, nil
	}
	return true, p.advance()
}

func (p *parser) expect(t lexer.TokenType, context string) error {
	if !p.check(t) {
		return p.errorf("expected %s %s, got %s", lexer.TokenNames[t], context, p.cur.String())
	}
	return p.advance()
}

func (p *parser) line() int { return p.cur.Pos.Line }
