// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslscan

import (
	"fmt"
	"strings"

	"github.com/gogpu/matc/shaderast"
)

// Parse tokenizes and parses source.
func Parse(source string) (*shaderast.TranslationUnit, error) {
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens, source).Parse()
}

// Parser parses GLSL tokens into a shaderast tree.
type Parser struct {
	tokens  []Token
	current int
	depth   int
	source  string
	errors  Errors

	// structs maps struct and interface block names to member types.
	structs map[string]map[string]string
	// returns maps function names to return types.
	returns map[string]string
	scopes  []map[string]string
}

// NewParser creates a new parser for the given tokens. source is only used
// for error context.
func NewParser(tokens []Token, source string) *Parser {
	return &Parser{
		tokens:  tokens,
		source:  source,
		structs: make(map[string]map[string]string),
		returns: make(map[string]string),
	}
}

// Parse parses the tokens into a translation unit. Errors in one external
// declaration do not stop the others from being parsed; the partial unit is
// returned alongside Errors.
func (p *Parser) Parse() (*shaderast.TranslationUnit, error) {
	unit := &shaderast.TranslationUnit{}
	p.push()
	for !p.isAtEnd() {
		fn, err := p.external()
		if err != nil {
			p.errors = append(p.errors, err)
			p.synchronize()
			continue
		}
		if fn != nil {
			unit.Functions = append(unit.Functions, fn)
		}
	}
	p.pop()
	if len(p.errors) > 0 {
		return unit, p.errors
	}
	return unit, nil
}

// external parses a global declaration or function definition.
func (p *Parser) external() (*shaderast.FunctionDefinition, *Error) {
	if p.match(TokenSemicolon) {
		return nil, nil
	}
	p.qualifiers(true)
	if p.match(TokenSemicolon) {
		// layout(...) in; and friends
		return nil, nil
	}

	typ, err := p.typeSpec()
	if err != nil {
		return nil, err
	}
	if p.match(TokenSemicolon) {
		// struct definition or precision statement
		return nil, nil
	}

	nameTok := p.peek()
	if err := p.expectErr(TokenIdent); err != nil {
		return nil, err
	}
	if p.check(TokenLeftParen) {
		return p.function(typ, nameTok)
	}
	if _, err := p.declarators(typ, nameTok); err != nil {
		return nil, err
	}
	return nil, nil
}

// qualifiers skips storage, precision, interpolation and layout qualifiers.
// Parameter direction keywords are skipped too when global is set.
func (p *Parser) qualifiers(global bool) {
	for {
		switch {
		case p.check(TokenQualifier):
			tok := p.advance()
			if tok.Lexeme == "layout" && p.check(TokenLeftParen) {
				p.skipParens()
			}
		case p.check(TokenConst):
			p.advance()
		case global && (p.check(TokenIn) || p.check(TokenOut) || p.check(TokenInOut)):
			p.advance()
		default:
			return
		}
	}
}

func (p *Parser) skipParens() {
	depth := 0
	for !p.isAtEnd() {
		tok := p.advance()
		switch tok.Kind {
		case TokenLeftParen:
			depth++
		case TokenRightParen:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// typeSpec parses a type name, an inline struct or an interface block, plus
// an optional array suffix.
func (p *Parser) typeSpec() (string, *Error) {
	if p.match(TokenStruct) {
		name := ""
		if p.check(TokenIdent) {
			name = p.advance().Lexeme
		}
		if err := p.members(name); err != nil {
			return "", err
		}
		return name, nil
	}

	tok := p.peek()
	if err := p.expectErr(TokenIdent); err != nil {
		return "", err
	}
	name := tok.Lexeme
	if p.check(TokenLeftBrace) {
		// Interface block: uniform Name { ... } instance;
		if err := p.members(name); err != nil {
			return "", err
		}
	}
	return name + p.arraySuffix(), nil
}

// members parses a brace-enclosed member list and records it under name.
func (p *Parser) members(name string) *Error {
	if err := p.expectErr(TokenLeftBrace); err != nil {
		return err
	}
	fields := make(map[string]string)
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		p.qualifiers(false)
		typ, err := p.typeSpec()
		if err != nil {
			return err
		}
		for {
			field := p.peek()
			if err := p.expectErr(TokenIdent); err != nil {
				return err
			}
			fields[field.Lexeme] = typ + p.arraySuffix()
			if !p.match(TokenComma) {
				break
			}
		}
		if err := p.expectErr(TokenSemicolon); err != nil {
			return err
		}
	}
	if err := p.expectErr(TokenRightBrace); err != nil {
		return err
	}
	if name != "" {
		p.structs[name] = fields
	}
	return nil
}

// arraySuffix consumes "[N]" groups and returns them verbatim.
func (p *Parser) arraySuffix() string {
	var sb strings.Builder
	for p.check(TokenLeftBracket) {
		for !p.isAtEnd() {
			tok := p.advance()
			sb.WriteString(tok.Lexeme)
			if tok.Kind == TokenRightBracket {
				break
			}
		}
	}
	return sb.String()
}

// function parses parameters and an optional body.
func (p *Parser) function(ret string, nameTok Token) (*shaderast.FunctionDefinition, *Error) {
	p.advance() // consume '('
	fn := &shaderast.FunctionDefinition{
		Pos:        pos(nameTok),
		Name:       nameTok.Lexeme,
		ReturnType: ret,
	}
	for !p.check(TokenRightParen) && !p.isAtEnd() {
		if p.check(TokenIdent) && p.peek().Lexeme == "void" && p.peekAt(1).Kind == TokenRightParen {
			p.advance()
			break
		}
		param, err := p.parameter()
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, param)
		if !p.match(TokenComma) {
			break
		}
	}
	if err := p.expectErr(TokenRightParen); err != nil {
		return nil, err
	}
	p.returns[fn.Name] = ret

	if p.match(TokenSemicolon) {
		return nil, nil
	}

	p.push()
	defer p.pop()
	for _, param := range fn.Params {
		if param.Name != "" {
			p.declare(param.Name, param.Type)
		}
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func (p *Parser) parameter() (shaderast.Param, *Error) {
	var param shaderast.Param
	for {
		switch {
		case p.match(TokenConst):
			param.Qualifier = shaderast.Const
			continue
		case p.match(TokenIn):
			if param.Qualifier != shaderast.Const {
				param.Qualifier = shaderast.In
			}
			continue
		case p.match(TokenOut):
			param.Qualifier = shaderast.Out
			continue
		case p.match(TokenInOut):
			param.Qualifier = shaderast.InOut
			continue
		case p.check(TokenQualifier):
			p.advance()
			continue
		}
		break
	}
	typ, err := p.typeSpec()
	if err != nil {
		return param, err
	}
	param.Type = typ
	if p.check(TokenIdent) {
		param.Name = p.advance().Lexeme
		param.Type += p.arraySuffix()
	}
	return param, nil
}

// block parses a brace-enclosed statement list in a new scope.
func (p *Parser) block() (*shaderast.Block, *Error) {
	start := p.peek()
	if err := p.expectErr(TokenLeftBrace); err != nil {
		return nil, err
	}
	p.push()
	defer p.pop()

	b := &shaderast.Block{Pos: pos(start), Stmts: make([]shaderast.Node, 0, 4)}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			b.Stmts = append(b.Stmts, stmt)
		}
	}
	if err := p.expectErr(TokenRightBrace); err != nil {
		return nil, err
	}
	return b, nil
}

// statement parses one statement. Control flow is flattened into a Block of
// its sub-expressions and sub-statements.
func (p *Parser) statement() (shaderast.Node, *Error) {
	start := p.peek()
	switch start.Kind {
	case TokenLeftBrace:
		return p.block()
	case TokenSemicolon:
		p.advance()
		return nil, nil
	case TokenBreak, TokenContinue, TokenDiscard:
		p.advance()
		return nil, p.expectErr(TokenSemicolon)
	case TokenReturn:
		p.advance()
		if p.match(TokenSemicolon) {
			return nil, nil
		}
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		return value, p.expectErr(TokenSemicolon)
	case TokenIf:
		return p.ifStmt()
	case TokenFor:
		return p.forStmt()
	case TokenWhile:
		p.advance()
		cond, err := p.condition()
		if err != nil {
			return nil, err
		}
		body, err := p.statement()
		if err != nil {
			return nil, err
		}
		return group(start, cond, body), nil
	case TokenDo:
		p.advance()
		body, err := p.statement()
		if err != nil {
			return nil, err
		}
		if err := p.expectErr(TokenWhile); err != nil {
			return nil, err
		}
		cond, err := p.condition()
		if err != nil {
			return nil, err
		}
		return group(start, body, cond), p.expectErr(TokenSemicolon)
	case TokenSwitch:
		return p.switchStmt()
	}

	if p.isDeclaration() {
		return p.declaration()
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	return expr, p.expectErr(TokenSemicolon)
}

func (p *Parser) condition() (shaderast.Node, *Error) {
	if err := p.expectErr(TokenLeftParen); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	return cond, p.expectErr(TokenRightParen)
}

func (p *Parser) ifStmt() (shaderast.Node, *Error) {
	start := p.advance() // consume 'if'
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var els shaderast.Node
	if p.match(TokenElse) {
		if els, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return group(start, cond, then, els), nil
}

func (p *Parser) forStmt() (shaderast.Node, *Error) {
	start := p.advance() // consume 'for'
	if err := p.expectErr(TokenLeftParen); err != nil {
		return nil, err
	}
	p.push()
	defer p.pop()

	init, err := p.statement()
	if err != nil {
		return nil, err
	}
	var cond, iter shaderast.Node
	if !p.check(TokenSemicolon) {
		if cond, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return nil, err
	}
	if !p.check(TokenRightParen) {
		if iter, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if err := p.expectErr(TokenRightParen); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return group(start, init, cond, iter, body), nil
}

func (p *Parser) switchStmt() (shaderast.Node, *Error) {
	start := p.advance() // consume 'switch'
	selector, err := p.condition()
	if err != nil {
		return nil, err
	}
	if err := p.expectErr(TokenLeftBrace); err != nil {
		return nil, err
	}
	p.push()
	defer p.pop()

	nodes := []shaderast.Node{selector}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		switch {
		case p.match(TokenCase):
			label, err := p.expression()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, label)
			if err := p.expectErr(TokenColon); err != nil {
				return nil, err
			}
		case p.match(TokenDefault):
			if err := p.expectErr(TokenColon); err != nil {
				return nil, err
			}
		default:
			stmt, err := p.statement()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, stmt)
		}
	}
	if err := p.expectErr(TokenRightBrace); err != nil {
		return nil, err
	}
	return group(start, nodes...), nil
}

// isDeclaration reports whether the statement at the cursor declares
// variables: a qualifier, a struct, "T name" or "T[N] name".
func (p *Parser) isDeclaration() bool {
	switch p.peek().Kind {
	case TokenConst, TokenQualifier, TokenStruct:
		return true
	case TokenIdent:
	default:
		return false
	}
	next := p.peekAt(1)
	if next.Kind == TokenIdent {
		return true
	}
	if next.Kind != TokenLeftBracket || !p.isTypeName(p.peek().Lexeme) {
		return false
	}
	for i := 2; p.current+i < len(p.tokens); i++ {
		if p.peekAt(i).Kind == TokenRightBracket {
			return p.peekAt(i+1).Kind == TokenIdent
		}
	}
	return false
}

// declaration parses a local declaration; every initialized declarator
// becomes an Assignment to a typed Symbol.
func (p *Parser) declaration() (shaderast.Node, *Error) {
	start := p.peek()
	p.qualifiers(false)
	typ, err := p.typeSpec()
	if err != nil {
		return nil, err
	}
	if p.match(TokenSemicolon) {
		return nil, nil
	}
	nameTok := p.peek()
	if err := p.expectErr(TokenIdent); err != nil {
		return nil, err
	}
	nodes, err := p.declarators(typ, nameTok)
	if err != nil {
		return nil, err
	}
	switch len(nodes) {
	case 0:
		return nil, nil
	case 1:
		return nodes[0], nil
	}
	return &shaderast.Block{Pos: pos(start), Stmts: nodes}, nil
}

// declarators parses "name [N] = init, ..." after the first name and the
// terminating semicolon.
func (p *Parser) declarators(typ string, nameTok Token) ([]shaderast.Node, *Error) {
	var nodes []shaderast.Node
	for {
		t := typ + p.arraySuffix()
		sym := &shaderast.Symbol{Pos: pos(nameTok), Name: nameTok.Lexeme, Type: t}
		if p.match(TokenEqual) {
			eq := p.previous()
			init, err := p.initializer()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, &shaderast.Assignment{Pos: pos(eq), LHS: sym, Op: "=", RHS: init})
		}
		p.declare(sym.Name, t)
		if !p.match(TokenComma) {
			break
		}
		nameTok = p.peek()
		if err := p.expectErr(TokenIdent); err != nil {
			return nil, err
		}
	}
	return nodes, p.expectErr(TokenSemicolon)
}

// initializer parses an expression or a brace initializer list.
func (p *Parser) initializer() (shaderast.Node, *Error) {
	if !p.check(TokenLeftBrace) {
		return p.assignment()
	}
	start := p.advance()
	call := &shaderast.FunctionCall{Pos: pos(start), Callee: "{}"}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		arg, err := p.initializer()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if !p.match(TokenComma) {
			break
		}
	}
	return call, p.expectErr(TokenRightBrace)
}

// expression parses a comma-separated expression list.
func (p *Parser) expression() (shaderast.Node, *Error) {
	expr, err := p.assignment()
	if err != nil {
		return nil, err
	}
	for p.match(TokenComma) {
		comma := p.previous()
		right, err := p.assignment()
		if err != nil {
			return nil, err
		}
		expr = &shaderast.FunctionCall{Pos: pos(comma), Callee: ",", Args: []shaderast.Node{expr, right}}
	}
	return expr, nil
}

func (p *Parser) assignment() (shaderast.Node, *Error) {
	left, err := p.conditional()
	if err != nil {
		return nil, err
	}
	if !isAssignOp(p.peek().Kind) {
		return left, nil
	}
	op := p.advance()
	right, err := p.assignment()
	if err != nil {
		return nil, err
	}
	return &shaderast.Assignment{Pos: pos(op), LHS: left, Op: op.Lexeme, RHS: right}, nil
}

func (p *Parser) conditional() (shaderast.Node, *Error) {
	cond, err := p.binary(0)
	if err != nil {
		return nil, err
	}
	if !p.match(TokenQuestion) {
		return cond, nil
	}
	q := p.previous()
	a, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.expectErr(TokenColon); err != nil {
		return nil, err
	}
	b, err := p.assignment()
	if err != nil {
		return nil, err
	}
	return &shaderast.FunctionCall{Pos: pos(q), Callee: "?:", Args: []shaderast.Node{cond, a, b}}, nil
}

// binaryLevels lists binary operators from lowest to highest precedence.
var binaryLevels = [][]TokenKind{
	{TokenPipePipe},
	{TokenCaretCaret},
	{TokenAmpAmp},
	{TokenPipe},
	{TokenCaret},
	{TokenAmpersand},
	{TokenEqualEqual, TokenBangEqual},
	{TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual},
	{TokenLessLess, TokenGreaterGreater},
	{TokenPlus, TokenMinus},
	{TokenStar, TokenSlash, TokenPercent},
}

func (p *Parser) binary(level int) (shaderast.Node, *Error) {
	if level == len(binaryLevels) {
		return p.unary()
	}
	left, err := p.binary(level + 1)
	if err != nil {
		return nil, err
	}
	for p.matchAny(binaryLevels[level]) {
		op := p.previous()
		right, err := p.binary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &shaderast.FunctionCall{Pos: pos(op), Callee: op.Lexeme, Args: []shaderast.Node{left, right}}
	}
	return left, nil
}

func (p *Parser) unary() (shaderast.Node, *Error) {
	switch p.peek().Kind {
	case TokenPlus, TokenMinus, TokenBang, TokenTilde:
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &shaderast.FunctionCall{Pos: pos(op), Callee: op.Lexeme, Args: []shaderast.Node{operand}}, nil
	case TokenPlusPlus, TokenMinusMinus:
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &shaderast.Assignment{Pos: pos(op), LHS: operand, Op: op.Lexeme}, nil
	}
	return p.postfix()
}

// postfix parses calls, subscripts, member selection and postfix
// increments.
func (p *Parser) postfix() (shaderast.Node, *Error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(TokenLeftParen):
			open := p.advance()
			args, err := p.arguments()
			if err != nil {
				return nil, err
			}
			call := &shaderast.FunctionCall{Pos: pos(open), Args: args}
			switch e := expr.(type) {
			case *shaderast.Symbol:
				call.Pos, call.Callee = e.Pos, e.Name
			case *shaderast.Index:
				// Array constructor: float[2](a, b)
				if sym, ok := e.Base.(*shaderast.Symbol); ok {
					call.Callee = sym.Name + "[]"
				}
			case *shaderast.FieldAccess:
				// Method call: v.length()
				call.Callee = "." + e.Field
				call.Args = append([]shaderast.Node{e.Base}, args...)
			case *shaderast.Swizzle:
				call.Callee = "." + e.Pattern
				call.Args = append([]shaderast.Node{e.Base}, args...)
			}
			if call.Callee == "" {
				return nil, p.errorAt(open, "expression is not callable")
			}
			expr = call
		case p.check(TokenLeftBracket):
			open := p.advance()
			var index shaderast.Node
			if !p.check(TokenRightBracket) {
				if index, err = p.expression(); err != nil {
					return nil, err
				}
			}
			if err := p.expectErr(TokenRightBracket); err != nil {
				return nil, err
			}
			expr = &shaderast.Index{Pos: pos(open), Base: expr, Index: index}
		case p.check(TokenDot):
			p.advance()
			member := p.peek()
			if err := p.expectErr(TokenIdent); err != nil {
				return nil, err
			}
			expr = p.member(expr, member)
		case p.check(TokenPlusPlus), p.check(TokenMinusMinus):
			op := p.advance()
			expr = &shaderast.Assignment{Pos: pos(op), LHS: expr, Op: op.Lexeme}
		default:
			return expr, nil
		}
	}
}

// member classifies ".name" as a struct member access or a swizzle based on
// the base expression's type.
func (p *Parser) member(base shaderast.Node, name Token) shaderast.Node {
	if !isStructType(p.typeOf(base)) && isSwizzle(name.Lexeme) {
		return &shaderast.Swizzle{Pos: pos(name), Base: base, Pattern: name.Lexeme}
	}
	return &shaderast.FieldAccess{Pos: pos(name), Base: base, Field: name.Lexeme}
}

func (p *Parser) arguments() ([]shaderast.Node, *Error) {
	args := make([]shaderast.Node, 0, 4)
	if p.check(TokenIdent) && p.peek().Lexeme == "void" && p.peekAt(1).Kind == TokenRightParen {
		p.advance()
	}
	for !p.check(TokenRightParen) && !p.isAtEnd() {
		arg, err := p.assignment()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(TokenComma) {
			break
		}
	}
	return args, p.expectErr(TokenRightParen)
}

func (p *Parser) primary() (shaderast.Node, *Error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenIntLiteral, TokenFloatLiteral, TokenBoolLiteral:
		p.advance()
		return &shaderast.Literal{Pos: pos(tok), Value: tok.Lexeme}, nil
	case TokenIdent:
		p.advance()
		return &shaderast.Symbol{Pos: pos(tok), Name: tok.Lexeme, Type: p.lookup(tok.Lexeme)}, nil
	case TokenLeftParen:
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		return expr, p.expectErr(TokenRightParen)
	}
	if tok.Kind == TokenEOF {
		return nil, p.errorAt(tok, "unexpected end of input in expression")
	}
	return nil, p.errorAt(tok, fmt.Sprintf("unexpected token %q in expression", tok.Lexeme))
}

// typeOf returns the best-known type of an expression, or "".
func (p *Parser) typeOf(n shaderast.Node) string {
	switch n := n.(type) {
	case *shaderast.Symbol:
		return n.Type
	case *shaderast.FieldAccess:
		if fields, ok := p.structs[p.typeOf(n.Base)]; ok {
			return fields[n.Field]
		}
	case *shaderast.Swizzle:
		prefix, scalar := vectorParts(p.typeOf(n.Base))
		if len(n.Pattern) == 1 || prefix == "" {
			return scalar
		}
		return fmt.Sprintf("%s%d", prefix, len(n.Pattern))
	case *shaderast.Index:
		t := p.typeOf(n.Base)
		if i := strings.LastIndexByte(t, '['); i > 0 && strings.HasSuffix(t, "]") {
			return t[:i]
		}
		if strings.HasPrefix(t, "mat") && len(t) >= 4 {
			return "vec" + t[len(t)-1:]
		}
		_, scalar := vectorParts(t)
		return scalar
	case *shaderast.FunctionCall:
		if p.isTypeName(n.Callee) {
			return n.Callee
		}
		return p.returns[n.Callee]
	case *shaderast.Assignment:
		return p.typeOf(n.LHS)
	}
	return ""
}

func (p *Parser) isTypeName(name string) bool {
	if _, ok := p.structs[name]; ok {
		return true
	}
	return isBuiltinType(name)
}

// Scopes

func (p *Parser) push() {
	p.scopes = append(p.scopes, make(map[string]string))
}

func (p *Parser) pop() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *Parser) declare(name, typ string) {
	p.scopes[len(p.scopes)-1][name] = typ
}

func (p *Parser) lookup(name string) string {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if t, ok := p.scopes[i][name]; ok {
			return t
		}
	}
	return ""
}

// Helper methods

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		switch p.tokens[p.current].Kind {
		case TokenLeftBrace:
			p.depth++
		case TokenRightBrace:
			p.depth--
		}
		p.current++
	}
	return p.previous()
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) peekAt(n int) Token {
	if p.current+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+n]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == TokenEOF
}

func (p *Parser) check(kind TokenKind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) matchAny(kinds []TokenKind) bool {
	for _, k := range kinds {
		if p.match(k) {
			return true
		}
	}
	return false
}

func (p *Parser) expectErr(kind TokenKind) *Error {
	if p.check(kind) {
		p.advance()
		return nil
	}
	tok := p.peek()
	got := tok.Lexeme
	if tok.Kind == TokenEOF {
		got = "end of input"
	}
	return p.errorAt(tok, fmt.Sprintf("expected %s, got %q", kind, got))
}

func (p *Parser) errorAt(tok Token, msg string) *Error {
	return &Error{
		Message: msg,
		Line:    tok.Line,
		Column:  tok.Column,
		Offset:  tok.Offset,
		Source:  p.source,
	}
}

// synchronize skips to the end of the current external declaration.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		tok := p.advance()
		if p.depth > 0 {
			continue
		}
		if tok.Kind == TokenSemicolon || (tok.Kind == TokenRightBrace && !p.check(TokenSemicolon)) {
			break
		}
	}
	p.depth = 0
}

func pos(tok Token) shaderast.Pos {
	return shaderast.Pos{Line: tok.Line, Column: tok.Column}
}

// group wraps the non-nil nodes of a flattened control statement.
func group(start Token, nodes ...shaderast.Node) *shaderast.Block {
	b := &shaderast.Block{Pos: pos(start)}
	for _, n := range nodes {
		if n != nil {
			b.Stmts = append(b.Stmts, n)
		}
	}
	return b
}

func isAssignOp(kind TokenKind) bool {
	switch kind {
	case TokenEqual, TokenPlusEqual, TokenMinusEqual, TokenStarEqual,
		TokenSlashEqual, TokenPercentEqual, TokenAmpEqual, TokenPipeEqual,
		TokenCaretEqual, TokenLessLessEqual, TokenGreaterGreaterEqual:
		return true
	}
	return false
}
