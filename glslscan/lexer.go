// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslscan

import (
	"strconv"
	"strings"
)

// Lexer tokenizes GLSL source code. Preprocessor lines are skipped except
// for #line, which renumbers the following lines.
type Lexer struct {
	source string
	pos    int
	line   int
	column int
	start  int
	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source string) *Lexer {
	estTokens := len(source) / 5
	if estTokens < 16 {
		estTokens = 16
	}
	return &Lexer{
		source: source,
		line:   1,
		column: 1,
		tokens: make([]Token, 0, estTokens),
	}
}

// Tokenize returns all tokens from the source.
func (l *Lexer) Tokenize() ([]Token, error) {
	atLineStart := true
	for !l.isAtEnd() {
		l.start = l.pos
		c := l.source[l.pos]
		if c == '#' && atLineStart {
			l.directive()
			continue
		}
		switch c {
		case '\n':
			atLineStart = true
		case ' ', '\t', '\r':
		default:
			atLineStart = false
		}
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}

	l.tokens = append(l.tokens, Token{
		Kind:   TokenEOF,
		Line:   l.line,
		Column: l.column,
		Offset: l.pos,
	})
	return l.tokens, nil
}

func (l *Lexer) scanToken() error {
	c := l.advance()

	switch c {
	case '(':
		l.addToken(TokenLeftParen)
	case ')':
		l.addToken(TokenRightParen)
	case '{':
		l.addToken(TokenLeftBrace)
	case '}':
		l.addToken(TokenRightBrace)
	case '[':
		l.addToken(TokenLeftBracket)
	case ']':
		l.addToken(TokenRightBracket)
	case ',':
		l.addToken(TokenComma)
	case ':':
		l.addToken(TokenColon)
	case ';':
		l.addToken(TokenSemicolon)
	case '?':
		l.addToken(TokenQuestion)
	case '~':
		l.addToken(TokenTilde)
	case '.':
		if isDigit(l.peek()) {
			l.number()
		} else {
			l.addToken(TokenDot)
		}
	case '%':
		l.addToken(l.pick('=', TokenPercentEqual, TokenPercent))
	case '=':
		l.addToken(l.pick('=', TokenEqualEqual, TokenEqual))
	case '!':
		l.addToken(l.pick('=', TokenBangEqual, TokenBang))
	case '*':
		l.addToken(l.pick('=', TokenStarEqual, TokenStar))
	case '+':
		switch {
		case l.match('+'):
			l.addToken(TokenPlusPlus)
		case l.match('='):
			l.addToken(TokenPlusEqual)
		default:
			l.addToken(TokenPlus)
		}
	case '-':
		switch {
		case l.match('-'):
			l.addToken(TokenMinusMinus)
		case l.match('='):
			l.addToken(TokenMinusEqual)
		default:
			l.addToken(TokenMinus)
		}
	case '/':
		switch {
		case l.match('/'):
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		case l.match('*'):
			l.blockComment()
		case l.match('='):
			l.addToken(TokenSlashEqual)
		default:
			l.addToken(TokenSlash)
		}
	case '<':
		switch {
		case l.match('<'):
			l.addToken(l.pick('=', TokenLessLessEqual, TokenLessLess))
		case l.match('='):
			l.addToken(TokenLessEqual)
		default:
			l.addToken(TokenLess)
		}
	case '>':
		switch {
		case l.match('>'):
			l.addToken(l.pick('=', TokenGreaterGreaterEqual, TokenGreaterGreater))
		case l.match('='):
			l.addToken(TokenGreaterEqual)
		default:
			l.addToken(TokenGreater)
		}
	case '&':
		switch {
		case l.match('&'):
			l.addToken(TokenAmpAmp)
		case l.match('='):
			l.addToken(TokenAmpEqual)
		default:
			l.addToken(TokenAmpersand)
		}
	case '|':
		switch {
		case l.match('|'):
			l.addToken(TokenPipePipe)
		case l.match('='):
			l.addToken(TokenPipeEqual)
		default:
			l.addToken(TokenPipe)
		}
	case '^':
		switch {
		case l.match('^'):
			l.addToken(TokenCaretCaret)
		case l.match('='):
			l.addToken(TokenCaretEqual)
		default:
			l.addToken(TokenCaret)
		}

	case ' ', '\r', '\t':
	case '\n':
		l.newline()

	default:
		switch {
		case isDigit(c):
			l.number()
		case isAlpha(c):
			l.identifier()
		default:
			l.addToken(TokenError)
		}
	}
	return nil
}

// directive skips a preprocessor line, honoring backslash continuations.
func (l *Lexer) directive() {
	for !l.isAtEnd() && l.peek() != '\n' {
		if l.peek() == '\\' && l.peekNext() == '\n' {
			l.advance()
			l.advance()
			l.newline()
			continue
		}
		l.advance()
	}
	text := strings.Fields(strings.TrimPrefix(l.source[l.start:l.pos], "#"))
	if len(text) >= 2 && text[0] == "line" {
		if n, err := strconv.Atoi(text[1]); err == nil && n > 0 {
			// The newline ending the directive advances to n.
			l.line = n - 1
		}
	}
}

func (l *Lexer) blockComment() {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		if l.advance() == '\n' {
			l.newline()
		}
	}
}

func (l *Lexer) number() {
	if l.source[l.start] == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
		if l.peek() == 'u' || l.peek() == 'U' {
			l.advance()
		}
		l.addToken(TokenIntLiteral)
		return
	}

	float := l.source[l.start] == '.'
	for isDigit(l.peek()) {
		l.advance()
	}
	if !float && l.peek() == '.' {
		float = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		float = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if float {
		if l.peek() == 'f' || l.peek() == 'F' {
			l.advance()
		} else if (l.peek() == 'l' || l.peek() == 'L') && (l.peekNext() == 'f' || l.peekNext() == 'F') {
			l.advance()
			l.advance()
		}
		l.addToken(TokenFloatLiteral)
		return
	}
	if l.peek() == 'u' || l.peek() == 'U' {
		l.advance()
	}
	l.addToken(TokenIntLiteral)
}

func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	text := l.source[l.start:l.pos]
	if kind, ok := keywords[text]; ok {
		l.addToken(kind)
		return
	}
	l.addToken(TokenIdent)
}

var keywords = map[string]TokenKind{
	"break":    TokenBreak,
	"case":     TokenCase,
	"const":    TokenConst,
	"continue": TokenContinue,
	"default":  TokenDefault,
	"discard":  TokenDiscard,
	"do":       TokenDo,
	"else":     TokenElse,
	"for":      TokenFor,
	"if":       TokenIf,
	"in":       TokenIn,
	"inout":    TokenInOut,
	"out":      TokenOut,
	"return":   TokenReturn,
	"struct":   TokenStruct,
	"switch":   TokenSwitch,
	"while":    TokenWhile,
	"true":     TokenBoolLiteral,
	"false":    TokenBoolLiteral,

	"attribute":     TokenQualifier,
	"buffer":        TokenQualifier,
	"centroid":      TokenQualifier,
	"coherent":      TokenQualifier,
	"flat":          TokenQualifier,
	"highp":         TokenQualifier,
	"invariant":     TokenQualifier,
	"layout":        TokenQualifier,
	"lowp":          TokenQualifier,
	"mediump":       TokenQualifier,
	"noperspective": TokenQualifier,
	"patch":         TokenQualifier,
	"precise":       TokenQualifier,
	"precision":     TokenQualifier,
	"readonly":      TokenQualifier,
	"restrict":      TokenQualifier,
	"sample":        TokenQualifier,
	"shared":        TokenQualifier,
	"smooth":        TokenQualifier,
	"uniform":       TokenQualifier,
	"varying":       TokenQualifier,
	"volatile":      TokenQualifier,
	"writeonly":     TokenQualifier,
}

func (l *Lexer) addToken(kind TokenKind) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Lexeme: l.source[l.start:l.pos],
		Line:   l.line,
		Column: l.column - (l.pos - l.start),
		Offset: l.start,
	})
}

func (l *Lexer) newline() {
	l.line++
	l.column = 1
}

// pick consumes next and returns yes, or returns no.
func (l *Lexer) pick(next byte, yes, no TokenKind) TokenKind {
	if l.match(next) {
		return yes
	}
	return no
}

func (l *Lexer) advance() byte {
	c := l.source[l.pos]
	l.pos++
	l.column++
	return c
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.pos] != expected {
		return false
	}
	l.pos++
	l.column++
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
