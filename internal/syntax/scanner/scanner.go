// Package scanner implements a lexical scanner for Lox source code, reading the
// raw source text and emitting a stream of tokens to be consumed by the parser.
//
// The scanner is a concurrent, state-function based scanner similar to that described by
// Rob Pike in his talk [Lexical Scanning in Go], based on the implementation of [text/template].
//
// The scanner proceeds one utf8 rune at a time until a particular token is recognised, the token
// is then emitted over a channel where it may be consumed by the parser. The state of the scanner
// is maintained between token emits unlike a more traditional switch-based lexer.
//
// A similar approach is taken in [BurntSushi/toml].
//
// [Lexical Scanning in Go]: https://go.dev/talks/2011/lex.slide#1
// [BurntSushi/toml]: https://github.com/BurntSushi/toml/blob/master/lex.go
package scanner

import (
	"fmt"
	"strconv"
	"sync"
	"unicode"
	"unicode/utf8"

	"go.followtheprocess.codes/lox/internal/syntax"
	"go.followtheprocess.codes/lox/internal/syntax/token"
)

const (
	eof        = rune(-1) // eof signifies we have reached the end of the input.
	bufferSize = 32       // benchmarks suggest this is the optimum token channel buffer size.
)

// scanFn represents the state of the scanner as a function that does the work
// associated with the current state, then returns the next state.
type scanFn func(*Scanner) scanFn

// Scanner is the Lox scanner.
type Scanner struct {
	tokens      chan token.Token    // Channel on which to emit scanned tokens
	name        string              // Name of the file
	diagnostics []syntax.Diagnostic // Diagnostics gathered during scanning
	src         []byte              // Raw source text

	start             int          // The start position of the current token
	pos               int          // Current scanner position in src (bytes, 0 indexed)
	line              int          // Current line number (1 indexed)
	currentLineOffset int          // Offset at which the current line started, used for column calculation
	startLine         int          // Line on which the current token started
	startCol          int          // Column at which the current token started
	mu                sync.RWMutex // Guards diagnostics
}

// New returns a new [Scanner] and kicks off the state machine in a goroutine.
func New(name string, src []byte) *Scanner {
	s := &Scanner{
		tokens: make(chan token.Token, bufferSize),
		name:   name,
		src:    src,
		line:   1,
	}

	// run terminates when the scanning state machine is finished and all the
	// tokens are drained from s.tokens, so no other synchronisation needed here
	go s.run()

	return s
}

// Scan scans the input and returns the next token.
//
// Once the input is exhausted, Scan returns [token.EOF] forever.
func (s *Scanner) Scan() token.Token {
	tok, ok := <-s.tokens
	if !ok {
		return token.Token{Kind: token.EOF, Offset: s.pos, Line: s.line, Col: 1 + s.pos - s.currentLineOffset}
	}

	return tok
}

// Diagnostics returns the list of diagnostics gathered during scanning.
func (s *Scanner) Diagnostics() []syntax.Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Create a copy so caller can't mutate the original diagnostics slice
	diagCopy := make([]syntax.Diagnostic, 0, len(s.diagnostics))
	diagCopy = append(diagCopy, s.diagnostics...)

	return diagCopy
}

// run starts the state machine for the scanner, it runs with each [scanFn] returning the next
// state until one returns nil, at which point the tokens channel is closed as a signal to the
// receiver that no more tokens will be sent.
func (s *Scanner) run() {
	for state := scanStart; state != nil; {
		state = state(s)
	}

	close(s.tokens)
}

// atEOF reports whether the scanner is at the end of the input.
func (s *Scanner) atEOF() bool {
	return s.pos >= len(s.src)
}

// next returns the next utf8 rune in the input or [eof], and advances
// the scanner over that rune such that successive calls to next iterate
// through src one rune at a time.
func (s *Scanner) next() rune {
	if s.atEOF() {
		return eof
	}

	char, width := utf8.DecodeRune(s.src[s.pos:])
	s.pos += width

	if char == '\n' {
		s.line++
		s.currentLineOffset = s.pos
	}

	return char
}

// peek returns the next utf8 rune in the input or [eof], but does not
// advance the scanner. Successive calls to peek return the same char
// over and over again.
func (s *Scanner) peek() rune {
	if s.atEOF() {
		return eof
	}

	char, _ := utf8.DecodeRune(s.src[s.pos:])

	return char
}

// peekNext returns the rune after the next rune in the input or [eof],
// without advancing the scanner.
func (s *Scanner) peekNext() rune {
	if s.atEOF() {
		return eof
	}

	_, width := utf8.DecodeRune(s.src[s.pos:])
	if s.pos+width >= len(s.src) {
		return eof
	}

	char, _ := utf8.DecodeRune(s.src[s.pos+width:])

	return char
}

// skip ignores any characters for which the predicate returns true, stopping at the
// first one that returns false such that after it returns, [Scanner.next] returns the
// first 'false' char.
//
// The scanner start position is brought up to the current position before returning, effectively
// ignoring everything it's travelled over in the meantime.
func (s *Scanner) skip(predicate func(r rune) bool) {
	for predicate(s.peek()) {
		s.next()
	}

	s.start = s.pos
}

// takeWhile consumes characters so long as the predicate returns true, stopping at the
// first one that returns false such that after it returns, the next call to
// [Scanner.next] returns the first 'false' rune.
func (s *Scanner) takeWhile(predicate func(r rune) bool) {
	for predicate(s.peek()) {
		s.next()
	}
}

// mark records the position at which the current token starts, so that the
// emitted token carries the line and column of its first character.
func (s *Scanner) mark() {
	s.start = s.pos
	s.startLine = s.line
	s.startCol = 1 + s.pos - s.currentLineOffset
}

// emit passes a token over the tokens channel, using the scanner's internal
// state to populate the lexeme and position information.
func (s *Scanner) emit(kind token.Kind, literal any) {
	s.tokens <- token.Token{
		Kind:    kind,
		Lexeme:  string(s.src[s.start:s.pos]),
		Literal: literal,
		Offset:  s.start,
		Line:    s.startLine,
		Col:     s.startCol,
	}

	s.start = s.pos
}

// error records a diagnostic at the current token and emits an [token.Error]
// token so the parser knows this region of source is unusable.
func (s *Scanner) error(msg string) {
	start := s.start
	s.emit(token.Error, nil)

	position := syntax.Position{
		Name:     s.name,
		Offset:   start,
		Line:     s.startLine,
		StartCol: s.startCol,
		EndCol:   max(s.startCol, 1+s.pos-s.currentLineOffset),
	}

	diag := syntax.Diagnostic{
		Position: position,
		Severity: syntax.SeverityError,
		Msg:      msg,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.diagnostics = append(s.diagnostics, diag)
}

// errorf calls error with a formatted message.
func (s *Scanner) errorf(format string, a ...any) {
	s.error(fmt.Sprintf(format, a...))
}

// scanStart is the initial state of the scanner and the state it returns to
// after every complete token. It recognises the next token, dispatching to a
// dedicated state for multi-character tokens.
func scanStart(s *Scanner) scanFn {
	s.skip(unicode.IsSpace)
	s.mark()

	switch char := s.next(); char {
	case eof:
		s.emit(token.EOF, nil)
		return nil
	case '(':
		s.emit(token.LeftParen, nil)
	case ')':
		s.emit(token.RightParen, nil)
	case '{':
		s.emit(token.LeftBrace, nil)
	case '}':
		s.emit(token.RightBrace, nil)
	case ',':
		s.emit(token.Comma, nil)
	case '.':
		s.emit(token.Dot, nil)
	case ';':
		s.emit(token.Semicolon, nil)
	case '?':
		s.emit(token.Question, nil)
	case ':':
		s.emit(token.Colon, nil)
	case '!':
		s.emitWithEq(token.Bang, token.BangEq)
	case '=':
		s.emitWithEq(token.Eq, token.EqEq)
	case '<':
		s.emitWithEq(token.Less, token.LessEq)
	case '>':
		s.emitWithEq(token.Greater, token.GreaterEq)
	case '+':
		s.emitWithEq(token.Plus, token.PlusEq)
	case '-':
		s.emitWithEq(token.Minus, token.MinusEq)
	case '*':
		s.emitWithEq(token.Star, token.StarEq)
	case '/':
		if s.peek() == '/' {
			return scanComment
		}

		s.emitWithEq(token.Slash, token.SlashEq)
	case '"':
		return scanString
	default:
		if isDigit(char) {
			return scanNumber
		}

		if isAlpha(char) {
			return scanIdent
		}

		s.errorf("unexpected character %q", char)
	}

	return scanStart
}

// emitWithEq emits either the single-character token kind, or the compound
// kind if the next character is '='.
func (s *Scanner) emitWithEq(plain, compound token.Kind) {
	if s.peek() == '=' {
		s.next()
		s.emit(compound, nil)

		return
	}

	s.emit(plain, nil)
}

// scanComment scans a '//' line comment. Comments produce no tokens, the
// scanner simply discards up to (but not including) the newline.
func scanComment(s *Scanner) scanFn {
	s.takeWhile(func(r rune) bool { return r != '\n' && r != eof })
	s.start = s.pos

	return scanStart
}

// scanString scans a string literal. Lox strings have no escape sequences and
// may span multiple lines. The opening '"' has already been consumed.
func scanString(s *Scanner) scanFn {
	s.takeWhile(func(r rune) bool { return r != '"' && r != eof })

	if s.atEOF() {
		s.error("unterminated string, a string must end with double quotes")
		return nil
	}

	s.next() // The closing '"'

	// The literal value is the contents without the surrounding quotes
	contents := string(s.src[s.start+1 : s.pos-1])
	s.emit(token.String, contents)

	return scanStart
}

// scanNumber scans a numeric literal: DIGIT+ ('.' DIGIT+)?. The first digit
// has already been consumed.
func scanNumber(s *Scanner) scanFn {
	s.takeWhile(isDigit)

	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.next() // The '.'
		s.takeWhile(isDigit)
	}

	lexeme := string(s.src[s.start:s.pos])

	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		s.errorf("invalid numeric literal %q", lexeme)
		return scanStart
	}

	s.emit(token.Number, value)

	return scanStart
}

// scanIdent scans an identifier or keyword. The first character has already
// been consumed.
func scanIdent(s *Scanner) scanFn {
	s.takeWhile(isAlphaNumeric)

	text := string(s.src[s.start:s.pos])

	kind, _ := token.Keyword(text)
	s.emit(kind, nil)

	return scanStart
}

// isAlpha reports whether r is an alpha character or underscore.
func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

// isDigit reports whether r is a valid ASCII digit.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isAlphaNumeric reports whether r is an alpha-numeric character or underscore.
func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
