// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslscan

// TokenKind represents the type of token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenError

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenBoolLiteral

	// Operators
	TokenPlus                // +
	TokenMinus               // -
	TokenStar                // *
	TokenSlash               // /
	TokenPercent             // %
	TokenAmpersand           // &
	TokenPipe                // |
	TokenCaret               // ^
	TokenTilde               // ~
	TokenBang                // !
	TokenEqual               // =
	TokenLess                // <
	TokenGreater             // >
	TokenDot                 // .
	TokenComma               // ,
	TokenColon               // :
	TokenSemicolon           // ;
	TokenQuestion            // ?
	TokenPlusPlus            // ++
	TokenMinusMinus          // --
	TokenEqualEqual          // ==
	TokenBangEqual           // !=
	TokenLessEqual           // <=
	TokenGreaterEqual        // >=
	TokenAmpAmp              // &&
	TokenPipePipe            // ||
	TokenCaretCaret          // ^^
	TokenLessLess            // <<
	TokenGreaterGreater      // >>
	TokenPlusEqual           // +=
	TokenMinusEqual          // -=
	TokenStarEqual           // *=
	TokenSlashEqual          // /=
	TokenPercentEqual        // %=
	TokenAmpEqual            // &=
	TokenPipeEqual           // |=
	TokenCaretEqual          // ^=
	TokenLessLessEqual       // <<=
	TokenGreaterGreaterEqual // >>=

	// Delimiters
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenLeftBracket  // [
	TokenRightBracket // ]

	// Keywords
	TokenBreak
	TokenCase
	TokenConst
	TokenContinue
	TokenDefault
	TokenDiscard
	TokenDo
	TokenElse
	TokenFor
	TokenIf
	TokenIn
	TokenInOut
	TokenOut
	TokenReturn
	TokenStruct
	TokenSwitch
	TokenWhile

	// Declaration qualifiers the parser skips
	TokenQualifier
)

var tokenNames = map[TokenKind]string{
	TokenEOF:          "EOF",
	TokenError:        "Error",
	TokenIdent:        "Ident",
	TokenIntLiteral:   "IntLiteral",
	TokenFloatLiteral: "FloatLiteral",
	TokenBoolLiteral:  "BoolLiteral",
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenLeftBrace:    "{",
	TokenRightBrace:   "}",
	TokenLeftBracket:  "[",
	TokenRightBracket: "]",
	TokenSemicolon:    ";",
	TokenComma:        ",",
	TokenEqual:        "=",
	TokenStruct:       "struct",
	TokenReturn:       "return",
	TokenIf:           "if",
	TokenElse:         "else",
	TokenFor:          "for",
	TokenWhile:        "while",
	TokenQualifier:    "qualifier",
}

// String returns the string representation of the token kind.
func (k TokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Token represents a lexical token.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
	Column int

	// Offset is the byte offset of the lexeme in the source. Unlike Line
	// it is not affected by #line.
	Offset int
}
