// Package token provides the set of lexical tokens for Lox source code.
package token

import (
	"fmt"
	"slices"
)

// Token is a lexical token in a Lox source file.
type Token struct {
	Literal any    // Parsed value for literals: float64 for Number, the unquoted contents for String
	Lexeme  string // The raw text of the token as it appeared in source
	Kind    Kind   // The kind of token this is
	Offset  int    // Byte offset from the start of the file to the start of this token
	Line    int    // Line number the token starts on (1 indexed)
	Col     int    // Column the token starts on (1 indexed)
}

// String implements [fmt.Stringer] for a [Token].
func (t Token) String() string {
	return fmt.Sprintf("<Token::%s line=%d, col=%d, lexeme=%q>", t.Kind, t.Line, t.Col, t.Lexeme)
}

// Is reports whether the token is any of the provided [Kind]s.
func (t Token) Is(kinds ...Kind) bool {
	return slices.Contains(kinds, t.Kind)
}

// Keyword reports whether a string refers to a keyword, returning it's [Kind]
// and true if it is. Otherwise [Ident] and false are returned.
func Keyword(text string) (kind Kind, ok bool) {
	switch text {
	case "and":
		return And, true
	case "break":
		return Break, true
	case "class":
		return Class, true
	case "else":
		return Else, true
	case "false":
		return False, true
	case "for":
		return For, true
	case "fun":
		return Fun, true
	case "if":
		return If, true
	case "nil":
		return Nil, true
	case "or":
		return Or, true
	case "print":
		return Print, true
	case "return":
		return Return, true
	case "super":
		return Super, true
	case "this":
		return This, true
	case "true":
		return True, true
	case "var":
		return Var, true
	case "while":
		return While, true
	default:
		return Ident, false
	}
}
