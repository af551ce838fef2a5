// Package parser implements the Lox parser.
//
// The parser is a recursive descent parser over the token stream produced by
// the scanner, building the ast declared in [go.followtheprocess.codes/lox/internal/syntax/ast].
// If a parse error occurs, partial nodes may be returned rather than the
// idiomatic Go norm of <zero value>, error. This is intentional both to aid
// error reporting and to increase the fault tolerance of the parser, which
// recovers at statement boundaries and keeps going so that a single pass can
// report as many errors as possible.
//
// Once parsed, the program is resolved, which is where variables are bound to
// their storage coordinates and more thorough validation happens.
package parser

import (
	"errors"
	"fmt"
	"slices"

	"go.followtheprocess.codes/lox/internal/syntax"
	"go.followtheprocess.codes/lox/internal/syntax/ast"
	"go.followtheprocess.codes/lox/internal/syntax/scanner"
	"go.followtheprocess.codes/lox/internal/syntax/token"
)

// ErrParse is a generic parsing error, details on the error are available
// via [Parser.Diagnostics].
var ErrParse = errors.New("parse error")

// maxArity is the most parameters or arguments a function may have.
const maxArity = 255

// Option is a functional option for configuring a [Parser].
type Option func(*Parser)

// FirstID sets the ID the parser assigns to the first resolvable expression
// it encounters.
//
// Expression IDs are the identity keys for the resolver's side tables, so a
// REPL session parsing many lines against one interpreter must thread a
// persistent counter through successive parsers to keep IDs unique. Single
// file compilation can leave the default of 0.
func FirstID(id int) Option {
	return func(p *Parser) {
		p.nextID = id
	}
}

// Parser is the Lox parser.
type Parser struct {
	scanner     *scanner.Scanner    // Scanner to produce tokens
	name        string              // Name of the file being parsed
	diagnostics []syntax.Diagnostic // Diagnostics gathered during parsing
	prev        token.Token         // The most recently consumed token
	current     token.Token         // Current token under inspection
	next        token.Token         // Next token in the stream
	loopDepth   int                 // Loop nesting level, used to validate 'break'
	nextID      int                 // Next resolvable expression ID
	hadErrors   bool                // Whether we encountered parse errors
	incomplete  bool                // Whether a parse error was caused by running out of input
}

// New initialises and returns a new [Parser] that parses src.
func New(name string, src []byte, options ...Option) *Parser {
	p := &Parser{
		scanner: scanner.New(name, src),
		name:    name,
	}

	for _, option := range options {
		option(p)
	}

	// Read 2 tokens so current and next are set
	p.advance()
	p.advance()

	return p
}

// Parse parses the source to completion returning an [ast.Program] and any
// parsing errors.
//
// The returned error simply signifies whether or not there were parse errors,
// call [Parser.Diagnostics] for the full detail.
func (p *Parser) Parse() (ast.Program, error) {
	program := ast.Program{
		Name: p.name,
	}

	for !p.current.Is(token.EOF) {
		statement, err := p.declaration()
		if err != nil {
			p.synchronise()
			continue
		}

		if statement != nil {
			program.Statements = append(program.Statements, statement)
		}
	}

	if p.hadErrors || syntax.HasErrors(p.scanner.Diagnostics()) {
		return program, ErrParse
	}

	return program, nil
}

// Diagnostics returns any [syntax.Diagnostic] gathered during scanning
// and parsing, sorted by source position.
func (p *Parser) Diagnostics() []syntax.Diagnostic {
	combined := slices.Concat(p.scanner.Diagnostics(), p.diagnostics)

	// Sort by file and position
	slices.SortFunc(combined, func(a, b syntax.Diagnostic) int {
		return syntax.ComparePosition(a.Position, b.Position)
	})

	return combined
}

// NextID returns the ID the parser would assign to the next resolvable
// expression, so a REPL session can continue the sequence on its next line.
func (p *Parser) NextID() int {
	return p.nextID
}

// Incomplete reports whether parsing failed because the input ran out
// mid-construct, e.g. an unclosed block at EOF.
//
// A REPL uses this to decide between reporting a syntax error and showing a
// continuation prompt for more input.
func (p *Parser) Incomplete() bool {
	return p.incomplete
}

// fetch pulls the next token from the scanner, silently dropping
// [token.Error] tokens; the scanner has already recorded a diagnostic
// for every one it emits.
func (p *Parser) fetch() token.Token {
	tok := p.scanner.Scan()
	for tok.Is(token.Error) {
		tok = p.scanner.Scan()
	}

	return tok
}

// advance advances the parser by a single token.
func (p *Parser) advance() {
	p.prev = p.current
	p.current = p.next
	p.next = p.fetch()
}

// check reports whether the current token is one of the given kinds, without
// consuming it.
func (p *Parser) check(kinds ...token.Kind) bool {
	return p.current.Is(kinds...)
}

// match consumes the current token and returns true if it is one of the given
// kinds, after which [Parser.prev] holds the consumed token. Otherwise the
// parser is left untouched and match returns false.
func (p *Parser) match(kinds ...token.Kind) bool {
	if p.current.Is(kinds...) {
		p.advance()
		return true
	}

	return false
}

// expect asserts that the current token is of the given kind, consuming and
// returning it if so, and emitting a syntax error and [ErrParse] if not.
func (p *Parser) expect(kind token.Kind, msg string) (token.Token, error) {
	if p.match(kind) {
		return p.prev, nil
	}

	p.error(msg)

	return token.Token{}, ErrParse
}

// position returns a [syntax.Position] describing the given token.
func (p *Parser) position(tok token.Token) syntax.Position {
	end := tok.Col + len(tok.Lexeme)
	if end <= tok.Col {
		end = tok.Col
	}

	return syntax.Position{
		Name:     p.name,
		Offset:   tok.Offset,
		Line:     tok.Line,
		StartCol: tok.Col,
		EndCol:   end,
	}
}

// error appends a syntax diagnostic pointing at the current token.
func (p *Parser) error(msg string) {
	p.errorAt(p.current, msg)
}

// errorf calls error with a formatted message.
func (p *Parser) errorf(format string, a ...any) {
	p.error(fmt.Sprintf(format, a...))
}

// errorAt appends a syntax diagnostic pointing at the given token.
//
// An error at EOF is reported at the end of the last real token, as the
// problem is almost always "something should have gone here".
func (p *Parser) errorAt(tok token.Token, msg string) {
	p.hadErrors = true

	position := p.position(tok)

	if tok.Is(token.EOF) {
		// We needed more input and there wasn't any, a REPL can recover from
		// this by reading another line
		p.incomplete = true

		if !p.prev.Is(token.EOF) && p.prev.Line > 0 {
			end := p.prev.Col + len(p.prev.Lexeme)
			position = syntax.Position{
				Name:     p.name,
				Offset:   p.prev.Offset + len(p.prev.Lexeme),
				Line:     p.prev.Line,
				StartCol: end,
				EndCol:   end,
			}
		}
	}

	diag := syntax.Diagnostic{
		Msg:      msg,
		Severity: syntax.SeverityError,
		Position: position,
	}

	p.diagnostics = append(p.diagnostics, diag)
}

// synchronise is called during error recovery, after a parse error we are
// unsure of the local state as the syntax is invalid.
//
// synchronise discards tokens until just after a ';' or just before a token
// that begins a statement, after which point the parser should be back in
// sync and can continue normally.
func (p *Parser) synchronise() {
	for !p.current.Is(token.EOF) {
		p.advance()

		if p.prev.Is(token.Semicolon) {
			return
		}

		if p.current.Is(
			token.Class,
			token.Fun,
			token.Var,
			token.For,
			token.If,
			token.While,
			token.Print,
			token.Return,
		) {
			return
		}
	}
}

// id returns the next resolvable expression ID.
func (p *Parser) id() int {
	id := p.nextID
	p.nextID++

	return id
}

// declaration parses a declaration.
//
//	declaration := funDecl | varDecl | classDecl | statement
func (p *Parser) declaration() (ast.Statement, error) {
	switch {
	case p.current.Is(token.Fun) && p.next.Is(token.Ident):
		// 'fun' followed by a name is a function declaration. A 'fun' followed
		// by '(' falls through to statement and is parsed as a lambda in
		// expression position.
		p.advance()
		return p.function("function")
	case p.match(token.Var):
		return p.varDeclaration()
	case p.match(token.Class):
		return p.classDeclaration()
	default:
		return p.statement()
	}
}

// function parses a named function declaration or class method, with the
// parser positioned at the name. kind is "function", "method" or
// "static method", used purely for error messages.
func (p *Parser) function(kind string) (*ast.FunctionStatement, error) {
	name, err := p.expect(token.Ident, "expected "+kind+" name")
	if err != nil {
		return nil, err
	}

	params, body, err := p.functionBody(kind)
	if err != nil {
		return nil, err
	}

	return &ast.FunctionStatement{
		Name:   name,
		Params: params,
		Body:   body,
	}, nil
}

// functionBody parses '(' params? ')' block, shared between named functions
// and lambdas.
//
// A function body starts a fresh 'break' context: a break inside it is only
// valid if a loop within this same body encloses it, never by virtue of a
// loop surrounding the function itself.
func (p *Parser) functionBody(kind string) (params []token.Token, body []ast.Statement, err error) {
	enclosingLoopDepth := p.loopDepth
	p.loopDepth = 0

	defer func() { p.loopDepth = enclosingLoopDepth }()

	if _, err := p.expect(token.LeftParen, "expected '(' to begin "+kind+" parameters"); err != nil {
		return nil, nil, err
	}

	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArity {
				// Report but keep parsing, the parameter list is still
				// structurally sound
				p.errorf("can't have more than %d parameters", maxArity)
			}

			param, err := p.expect(token.Ident, "expected parameter name")
			if err != nil {
				return nil, nil, err
			}

			params = append(params, param)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	if _, err := p.expect(token.RightParen, "expected ')' after parameters"); err != nil {
		return nil, nil, err
	}

	if _, err := p.expect(token.LeftBrace, "expected '{' before "+kind+" body"); err != nil {
		return nil, nil, err
	}

	for !p.check(token.RightBrace, token.EOF) {
		statement, err := p.declaration()
		if err != nil {
			p.synchronise()
			continue
		}

		if statement != nil {
			body = append(body, statement)
		}
	}

	if _, err := p.expect(token.RightBrace, "expected '}' after "+kind+" body"); err != nil {
		return nil, nil, err
	}

	return params, body, nil
}

// varDeclaration parses a variable declaration, with the 'var' keyword
// already consumed.
//
//	varDecl := 'var' IDENT ('=' expression)? ';'
func (p *Parser) varDeclaration() (*ast.VarStatement, error) {
	name, err := p.expect(token.Ident, "expected variable name")
	if err != nil {
		return nil, err
	}

	var initializer ast.Expression

	if p.match(token.Eq) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.Semicolon, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}

	return &ast.VarStatement{Name: name, Initializer: initializer}, nil
}

// classDeclaration parses a class declaration, with the 'class' keyword
// already consumed.
//
//	classDecl := 'class' IDENT ('<' IDENT)? '{' method* '}'
//	method    := ('class')? IDENT '(' params? ')' block
func (p *Parser) classDeclaration() (*ast.ClassStatement, error) {
	name, err := p.expect(token.Ident, "expected class name")
	if err != nil {
		return nil, err
	}

	result := &ast.ClassStatement{Name: name}

	if p.match(token.Less) {
		superName, err := p.expect(token.Ident, "expected superclass name")
		if err != nil {
			return nil, err
		}

		// The superclass is a variable read like any other, it gets resolved
		// to storage coordinates by the resolver
		result.Superclass = &ast.Variable{Name: superName, ID: p.id()}
	}

	if _, err := p.expect(token.LeftBrace, "expected '{' before class body"); err != nil {
		return nil, err
	}

	for !p.check(token.RightBrace, token.EOF) {
		if p.match(token.Class) {
			static, err := p.function("static method")
			if err != nil {
				return nil, err
			}

			result.StaticMethods = append(result.StaticMethods, static)

			continue
		}

		method, err := p.function("method")
		if err != nil {
			return nil, err
		}

		result.Methods = append(result.Methods, method)
	}

	if _, err := p.expect(token.RightBrace, "expected '}' after class body"); err != nil {
		return nil, err
	}

	return result, nil
}

// statement parses a statement.
//
//	statement := printStmt | breakStmt | returnStmt | ifStmt | whileStmt
//	           | forStmt | block | exprStmt
func (p *Parser) statement() (ast.Statement, error) {
	switch {
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.Break):
		return p.breakStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.LeftBrace):
		return p.block()
	default:
		return p.expressionStatement()
	}
}

// printStatement parses a print statement, with 'print' already consumed.
func (p *Parser) printStatement() (*ast.PrintStatement, error) {
	keyword := p.prev

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Semicolon, "expected ';' after value"); err != nil {
		return nil, err
	}

	return &ast.PrintStatement{Keyword: keyword, Expr: expr}, nil
}

// breakStatement parses a break statement, with 'break' already consumed.
func (p *Parser) breakStatement() (*ast.BreakStatement, error) {
	keyword := p.prev

	if p.loopDepth == 0 {
		// Report but keep going, the statement itself is well formed
		p.errorAt(keyword, "'break' can only be used inside a loop")
	}

	if _, err := p.expect(token.Semicolon, "expected ';' after 'break'"); err != nil {
		return nil, err
	}

	return &ast.BreakStatement{Keyword: keyword}, nil
}

// returnStatement parses a return statement, with 'return' already consumed.
func (p *Parser) returnStatement() (*ast.ReturnStatement, error) {
	keyword := p.prev

	var value ast.Expression

	if !p.check(token.Semicolon) {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		value = expr
	}

	if _, err := p.expect(token.Semicolon, "expected ';' after return value"); err != nil {
		return nil, err
	}

	return &ast.ReturnStatement{Keyword: keyword, Value: value}, nil
}

// ifStatement parses an if statement, with 'if' already consumed.
func (p *Parser) ifStatement() (*ast.IfStatement, error) {
	keyword := p.prev

	if _, err := p.expect(token.LeftParen, "expected '(' after 'if'"); err != nil {
		return nil, err
	}

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.RightParen, "expected ')' after if condition"); err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}

	result := &ast.IfStatement{Keyword: keyword, Cond: cond, Then: then}

	if p.match(token.Else) {
		els, err := p.statement()
		if err != nil {
			return nil, err
		}

		result.Else = els
	}

	return result, nil
}

// whileStatement parses a while statement, with 'while' already consumed.
func (p *Parser) whileStatement() (*ast.WhileStatement, error) {
	keyword := p.prev

	if _, err := p.expect(token.LeftParen, "expected '(' after 'while'"); err != nil {
		return nil, err
	}

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.RightParen, "expected ')' after while condition"); err != nil {
		return nil, err
	}

	p.loopDepth++
	body, err := p.statement()
	p.loopDepth--

	if err != nil {
		return nil, err
	}

	return &ast.WhileStatement{Keyword: keyword, Cond: cond, Body: body}, nil
}

// forStatement parses a for statement, with 'for' already consumed.
//
// There is no for node in the ast, the parser desugars the loop directly:
//
//	for (init; cond; inc) body
//
// becomes
//
//	{ init; while (cond) { body; inc; } }
//
// with a missing condition replaced by 'true'.
func (p *Parser) forStatement() (ast.Statement, error) {
	keyword := p.prev

	if _, err := p.expect(token.LeftParen, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var initializer ast.Statement

	switch {
	case p.match(token.Semicolon):
		// No initializer
	case p.match(token.Var):
		decl, err := p.varDeclaration()
		if err != nil {
			return nil, err
		}

		initializer = decl
	default:
		stmt, err := p.expressionStatement()
		if err != nil {
			return nil, err
		}

		initializer = stmt
	}

	var cond ast.Expression

	if !p.check(token.Semicolon) {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		cond = expr
	}

	if _, err := p.expect(token.Semicolon, "expected ';' after loop condition"); err != nil {
		return nil, err
	}

	var increment ast.Expression

	if !p.check(token.RightParen) {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		increment = expr
	}

	if _, err := p.expect(token.RightParen, "expected ')' after for clauses"); err != nil {
		return nil, err
	}

	p.loopDepth++
	body, err := p.statement()
	p.loopDepth--

	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = &ast.Block{
			LeftBrace:  keyword,
			Statements: []ast.Statement{body, &ast.ExpressionStatement{Expr: increment}},
		}
	}

	if cond == nil {
		cond = &ast.Literal{Value: true, Token: keyword}
	}

	var loop ast.Statement = &ast.WhileStatement{Keyword: keyword, Cond: cond, Body: body}

	if initializer != nil {
		loop = &ast.Block{
			LeftBrace:  keyword,
			Statements: []ast.Statement{initializer, loop},
		}
	}

	return loop, nil
}

// block parses a braced block, with '{' already consumed.
func (p *Parser) block() (*ast.Block, error) {
	result := &ast.Block{LeftBrace: p.prev}

	for !p.check(token.RightBrace, token.EOF) {
		statement, err := p.declaration()
		if err != nil {
			p.synchronise()
			continue
		}

		if statement != nil {
			result.Statements = append(result.Statements, statement)
		}
	}

	if _, err := p.expect(token.RightBrace, "expected '}' after block"); err != nil {
		return nil, err
	}

	return result, nil
}

// expressionStatement parses an expression statement.
func (p *Parser) expressionStatement() (*ast.ExpressionStatement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Semicolon, "expected ';' after expression"); err != nil {
		return nil, err
	}

	return &ast.ExpressionStatement{Expr: expr}, nil
}

// expression parses an expression.
//
//	expression := commaList
//	commaList  := assignment (',' assignment)*
//
// The result is always wrapped in an [ast.ExprList], even when singleton; the
// value of the list is the value of its last element.
func (p *Parser) expression() (ast.Expression, error) {
	first, err := p.assignment()
	if err != nil {
		return nil, err
	}

	exprs := []ast.Expression{first}

	for p.match(token.Comma) {
		next, err := p.assignment()
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, next)
	}

	return &ast.ExprList{Exprs: exprs}, nil
}

// assignment parses an assignment.
//
//	assignment := ternary ('=' assignment)?
//
// The left hand side is parsed as an ordinary expression and then rewritten:
// a [ast.Variable] target becomes an [ast.Assign], a [ast.Get] target becomes
// an [ast.Set], anything else is an invalid assignment target.
func (p *Parser) assignment() (ast.Expression, error) {
	expr, err := p.ternary()
	if err != nil {
		return nil, err
	}

	if p.match(token.Eq) {
		eq := p.prev

		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value, ID: p.id()}, nil
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}, nil
		default:
			// Report but keep parsing, the expression to the right is fine
			p.errorAt(eq, "invalid assignment target")
		}
	}

	return expr, nil
}

// ternary parses a conditional expression.
//
//	ternary := logicOr ('?' ternary ':' ternary)?
func (p *Parser) ternary() (ast.Expression, error) {
	expr, err := p.logicOr()
	if err != nil {
		return nil, err
	}

	if p.match(token.Question) {
		question := p.prev

		then, err := p.ternary()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.Colon, "expected ':' in ternary expression"); err != nil {
			return nil, err
		}

		els, err := p.ternary()
		if err != nil {
			return nil, err
		}

		return &ast.Ternary{Question: question, Cond: expr, Then: then, Else: els}, nil
	}

	return expr, nil
}

// logicOr parses a logical or expression.
func (p *Parser) logicOr() (ast.Expression, error) {
	return p.binary(p.logicAnd, token.Or)
}

// logicAnd parses a logical and expression.
func (p *Parser) logicAnd() (ast.Expression, error) {
	return p.binary(p.equality, token.And)
}

// equality parses an equality expression.
func (p *Parser) equality() (ast.Expression, error) {
	return p.binary(p.comparison, token.EqEq, token.BangEq)
}

// comparison parses a comparison expression.
func (p *Parser) comparison() (ast.Expression, error) {
	return p.binary(p.term, token.Less, token.LessEq, token.Greater, token.GreaterEq)
}

// term parses an additive expression.
func (p *Parser) term() (ast.Expression, error) {
	return p.binary(p.factor, token.Plus, token.Minus)
}

// factor parses a multiplicative expression.
func (p *Parser) factor() (ast.Expression, error) {
	return p.binary(p.unary, token.Star, token.Slash)
}

// binary parses a left-associative run of binary operators, with operand
// parsing delegated to the next higher precedence level.
func (p *Parser) binary(operand func() (ast.Expression, error), operators ...token.Kind) (ast.Expression, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}

	for p.match(operators...) {
		op := p.prev

		right, err := operand()
		if err != nil {
			return nil, err
		}

		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}

	return expr, nil
}

// unary parses a unary expression.
//
//	unary := ('!' | '-') unary | call
func (p *Parser) unary() (ast.Expression, error) {
	if p.match(token.Bang, token.Minus) {
		op := p.prev

		expr, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &ast.Unary{Op: op, Expr: expr}, nil
	}

	return p.call()
}

// call parses a call or property access expression.
//
//	call := primary ('(' args? ')' | '.' IDENT)*
func (p *Parser) call() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(token.LeftParen):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(token.Dot):
			name, err := p.expect(token.Ident, "expected property name after '.'")
			if err != nil {
				return nil, err
			}

			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

// finishCall parses a call's argument list, with '(' already consumed.
func (p *Parser) finishCall(callee ast.Expression) (*ast.Call, error) {
	var args []ast.Expression

	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArity {
				// Report but keep parsing
				p.errorf("can't have more than %d arguments", maxArity)
			}

			arg, err := p.assignment()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	paren, err := p.expect(token.RightParen, "expected ')' after arguments")
	if err != nil {
		return nil, err
	}

	return &ast.Call{Callee: callee, Paren: paren, Args: args}, nil
}

// primary parses a primary expression.
//
//	primary := NUMBER | STRING | 'true' | 'false' | 'nil'
//	         | IDENT | 'this' | 'super' '.' IDENT
//	         | '(' expression ')' | 'fun' '(' params? ')' block
func (p *Parser) primary() (ast.Expression, error) {
	switch {
	case p.match(token.Number, token.String):
		return &ast.Literal{Value: p.prev.Literal, Token: p.prev}, nil
	case p.match(token.True):
		return &ast.Literal{Value: true, Token: p.prev}, nil
	case p.match(token.False):
		return &ast.Literal{Value: false, Token: p.prev}, nil
	case p.match(token.Nil):
		return &ast.Literal{Value: nil, Token: p.prev}, nil
	case p.match(token.Ident):
		return &ast.Variable{Name: p.prev, ID: p.id()}, nil
	case p.match(token.This):
		return &ast.This{Keyword: p.prev, ID: p.id()}, nil
	case p.match(token.Super):
		keyword := p.prev

		if _, err := p.expect(token.Dot, "expected '.' after 'super'"); err != nil {
			return nil, err
		}

		method, err := p.expect(token.Ident, "expected superclass method name")
		if err != nil {
			return nil, err
		}

		return &ast.Super{Keyword: keyword, Method: method, ID: p.id()}, nil
	case p.match(token.LeftParen):
		leftParen := p.prev

		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.RightParen, "expected ')' after expression"); err != nil {
			return nil, err
		}

		return &ast.Grouping{LeftParen: leftParen, Expr: expr}, nil
	case p.match(token.Fun):
		fun := p.prev

		params, body, err := p.functionBody("lambda")
		if err != nil {
			return nil, err
		}

		return &ast.Lambda{Fun: fun, Params: params, Body: body}, nil
	default:
		p.error("expected expression")
		return nil, ErrParse
	}
}
