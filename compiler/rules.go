package compiler

import "github.com/wisp-lang/wisp/lexer"

// bindPower is the precedence ladder, low to high, exactly as ordered in
// the spec: NONE < LOWEST < ASSIGN < CONDITION < LOGIC_OR < LOGIC_AND <
// EQUAL < IS < CMP < BIT_OR < BIT_AND < BIT_SHIFT < RANGE < TERM < FACTOR <
// UNARY < CALL < HIGHEST.
type bindPower int

const (
	bpNone bindPower = iota
	bpLowest
	bpAssign
	bpCondition
	bpLogicOr
	bpLogicAnd
	bpEqual
	bpIs
	bpCmp
	bpBitOr
	bpBitAnd
	bpBitShift
	bpRange
	bpTerm
	bpFactor
	bpUnary
	bpCall
	bpHighest
)

// symbolRule is one row of the Pratt table: how a token behaves at the
// start of an expression (nud), as an infix/postfix operator (led), its
// left binding power, and the operator symbol it contributes to a method
// signature when used as a class member name.
type symbolRule struct {
	lbp    bindPower
	nud    func(p *parser, canAssign bool) error
	led    func(p *parser, canAssign bool) error
	opName string // "" if this token can't appear as an operator-method name
}

var rules map[lexer.TokenType]symbolRule

func init() {
	rules = map[lexer.TokenType]symbolRule{
		lexer.TokenNumber: {lbp: bpNone, nud: parseNumber},
		lexer.TokenString: {lbp: bpNone, nud: parseString},
		lexer.TokenIdent:  {lbp: bpNone, nud: parseIdentifier},
		lexer.TokenTrue:   {lbp: bpNone, nud: parseLiteral(opPushTrue)},
		lexer.TokenFalse:  {lbp: bpNone, nud: parseLiteral(opPushFalse)},
		lexer.TokenNull:   {lbp: bpNone, nud: parseLiteral(opPushNull)},
		lexer.TokenThis:   {lbp: bpNone, nud: parseThis},
		lexer.TokenSuper:  {lbp: bpNone, nud: parseSuper},
		lexer.TokenFun:    {lbp: bpNone, nud: parseFunLiteral},

		lexer.TokenLParen:   {lbp: bpCall, nud: parseGroup, led: parseCall},
		lexer.TokenLBracket: {lbp: bpCall, nud: parseListLiteral, led: parseSubscript, opName: "["},
		lexer.TokenLBrace:   {lbp: bpNone, nud: parseMapLiteral},
		lexer.TokenDot:      {lbp: bpCall, led: parseMethodCall},

		lexer.TokenMinus: {lbp: bpTerm, nud: parseUnary, led: parseBinary, opName: "-"},
		lexer.TokenPlus:  {lbp: bpTerm, led: parseBinary, opName: "+"},
		lexer.TokenStar:   {lbp: bpFactor, led: parseBinary, opName: "*"},
		lexer.TokenSlash:  {lbp: bpFactor, led: parseBinary, opName: "/"},
		lexer.TokenPercent: {lbp: bpFactor, led: parseBinary, opName: "%"},

		lexer.TokenBang:  {lbp: bpNone, nud: parseUnary, opName: "!"},
		lexer.TokenTilde: {lbp: bpNone, nud: parseUnary, opName: "~"},

		lexer.TokenAmp:   {lbp: bpBitAnd, led: parseBinary, opName: "&"},
		lexer.TokenPipe:  {lbp: bpBitOr, led: parseBinary, opName: "|"},
		lexer.TokenCaret: {lbp: bpBitOr, led: parseBinary, opName: "^"},
		lexer.TokenShl:   {lbp: bpBitShift, led: parseBinary, opName: "<<"},
		lexer.TokenShr:   {lbp: bpBitShift, led: parseBinary, opName: ">>"},

		lexer.TokenAmpAmp:   {lbp: bpLogicAnd, led: parseAnd},
		lexer.TokenPipePipe: {lbp: bpLogicOr, led: parseOr},

		lexer.TokenEqEq:   {lbp: bpEqual, led: parseBinary, opName: "=="},
		lexer.TokenBangEq: {lbp: bpEqual, led: parseBinary, opName: "!="},
		lexer.TokenIs:     {lbp: bpIs, led: parseBinary, opName: "is"},

		lexer.TokenLt:   {lbp: bpCmp, led: parseBinary, opName: "<"},
		lexer.TokenLtEq: {lbp: bpCmp, led: parseBinary, opName: "<="},
		lexer.TokenGt:   {lbp: bpCmp, led: parseBinary, opName: ">"},
		lexer.TokenGtEq: {lbp: bpCmp, led: parseBinary, opName: ">="},

		lexer.TokenDotDot:    {lbp: bpRange, led: parseBinary, opName: ".."},
		lexer.TokenDotDotDot: {lbp: bpRange, led: parseBinary, opName: "..."},

		lexer.TokenEq:       {lbp: bpAssign, led: parseAssign},
		lexer.TokenQuestion: {lbp: bpCondition, led: parseConditional},
	}
}

func (bp bindPower) String() string { return "" }
