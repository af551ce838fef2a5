// Package resolver implements the static resolution pass over the ast.
//
// The resolver assigns every variable reference a (depth, slot) coordinate:
// depth is the number of environment hops from the evaluation environment up
// to the defining scope, slot is the index into that environment's value
// list. This converts name-based lookup into indexed array access and carries
// the lexical scoping rules that make closures and method binding correct.
//
// It also performs static validation: redeclarations, reads of a variable in
// its own initializer, 'return' placement, 'this'/'super' placement and
// unused variable reporting. Like the parser, the resolver does not stop at
// the first problem, it keeps going to report as many diagnostics as possible
// in one pass.
package resolver

import (
	"errors"
	"fmt"
	"slices"

	"go.followtheprocess.codes/lox/internal/syntax"
	"go.followtheprocess.codes/lox/internal/syntax/ast"
	"go.followtheprocess.codes/lox/internal/syntax/token"
)

// ErrResolve is a generic resolution error, details on the error are
// available via [Resolver.Diagnostics].
var ErrResolve = errors.New("resolve error")

// Binding is a storage coordinate for a variable reference: walk Depth
// enclosing environments, then read or write Slot.
type Binding struct {
	Depth int // Number of enclosing environment hops to the defining scope
	Slot  int // Index into that environment's slot list
}

// Bindings are the resolution side tables for a compilation unit. Every
// resolvable expression (variable, assignment, 'this', 'super') appears in
// exactly one of the two maps, keyed by the ID the parser assigned it.
type Bindings struct {
	Locals  map[int]Binding // Expression ID → (depth, slot)
	Globals map[int]int     // Expression ID → slot in the global environment
}

// functionKind tracks what kind of function body the resolver is inside.
type functionKind int

const (
	funcNone        functionKind = iota // Not inside a function
	funcFunction                        // A named function
	funcLambda                          // An anonymous function
	funcMethod                          // A class method
	funcStatic                          // A static method
	funcInitializer                     // An 'init' method
)

// classKind tracks what kind of class body the resolver is inside.
type classKind int

const (
	classNone     classKind = iota // Not inside a class
	classClass                     // A class without a superclass
	classSubclass                  // A class with a superclass
)

// scope is a single lexical scope: which names it holds, their slot indices,
// whether each is fully defined yet, and which have not been read.
type scope struct {
	defined map[string]bool        // Name → whether its initializer has completed
	indices map[string]int         // Name → slot index
	unused  map[string]token.Token // Name → declaration token, removed on first read
	next    int                    // Next free slot index
}

func newScope() *scope {
	return &scope{
		defined: make(map[string]bool),
		indices: make(map[string]int),
		unused:  make(map[string]token.Token),
	}
}

// GlobalIndex is the flat global namespace: name → slot in the global
// environment. Its initial entries are the interpreter's native functions, in
// registration order, so the resolver and the interpreter agree on global
// slot assignment from slot 0.
//
// A GlobalIndex outlives a single [Resolver]: a REPL session reuses one
// across lines so globals declared earlier stay resolvable.
type GlobalIndex struct {
	slots  map[string]int
	unused map[string]token.Token
	count  int
}

// NewGlobalIndex returns a [GlobalIndex] preregistered with the given native
// function names, which occupy slots 0..len(natives)-1 in order.
func NewGlobalIndex(natives []string) *GlobalIndex {
	g := &GlobalIndex{
		slots:  make(map[string]int),
		unused: make(map[string]token.Token),
	}

	for _, name := range natives {
		g.slots[name] = g.count
		g.count++
	}

	return g
}

// Len returns the number of global slots assigned so far, natives included.
func (g *GlobalIndex) Len() int {
	return g.count
}

// Resolver is the static resolution pass.
type Resolver struct {
	globals         *GlobalIndex        // The persistent global namespace
	name            string              // Name of the file being resolved
	diagnostics     []syntax.Diagnostic // Diagnostics gathered during resolution
	scopes          []*scope            // Stack of local scopes, innermost last
	bindings        Bindings            // The side tables being populated
	currentFunction functionKind        // What kind of function body we're in
	currentClass    classKind           // What kind of class body we're in
	hadErrors       bool                // Whether we encountered resolution errors
}

// New returns a new [Resolver] resolving against the given global namespace.
//
// The interpreter must have registered its native functions into the
// [GlobalIndex] (via [NewGlobalIndex]) before any resolution happens, so that
// global slot numbering lines up.
func New(name string, globals *GlobalIndex) *Resolver {
	return &Resolver{
		name:    name,
		globals: globals,
		bindings: Bindings{
			Locals:  make(map[int]Binding),
			Globals: make(map[int]int),
		},
	}
}

// Resolve resolves an entire program, returning the populated side tables.
//
// In the presence of an error, Resolve returns [ErrResolve]; for detailed
// inspection call [Resolver.Diagnostics]. The returned bindings are valid for
// execution only when the error is nil.
func (r *Resolver) Resolve(program ast.Program) (Bindings, error) {
	for _, statement := range program.Statements {
		r.resolveStatement(statement)
	}

	if r.hadErrors {
		return r.bindings, ErrResolve
	}

	return r.bindings, nil
}

// Diagnostics returns the diagnostics gathered during resolution.
func (r *Resolver) Diagnostics() []syntax.Diagnostic {
	return r.diagnostics
}

// ReportUnusedGlobals reports every global variable that was declared but
// never read. It must be called once, after the whole program has been
// resolved; calling it per statement would flag globals that are simply read
// later in the file.
//
// A REPL session should not call it at all, the user may yet use the variable
// on the next line.
func (r *Resolver) ReportUnusedGlobals() {
	unused := make([]token.Token, 0, len(r.globals.unused))
	for _, tok := range r.globals.unused {
		unused = append(unused, tok)
	}

	// Deterministic order for reporting
	slices.SortFunc(unused, func(a, b token.Token) int { return a.Offset - b.Offset })

	for _, tok := range unused {
		r.warnAt(tok, fmt.Sprintf("unused variable '%s'", tok.Lexeme))
	}
}

// position returns a [syntax.Position] describing the given token.
func (r *Resolver) position(tok token.Token) syntax.Position {
	end := tok.Col + len(tok.Lexeme)
	if end <= tok.Col {
		end = tok.Col
	}

	return syntax.Position{
		Name:     r.name,
		Offset:   tok.Offset,
		Line:     tok.Line,
		StartCol: tok.Col,
		EndCol:   end,
	}
}

// errorAt appends an error diagnostic pointing at the given token.
func (r *Resolver) errorAt(tok token.Token, msg string) {
	r.hadErrors = true

	r.diagnostics = append(r.diagnostics, syntax.Diagnostic{
		Msg:      msg,
		Severity: syntax.SeverityError,
		Position: r.position(tok),
	})
}

// errorf calls errorAt with a formatted message.
func (r *Resolver) errorf(tok token.Token, format string, a ...any) {
	r.errorAt(tok, fmt.Sprintf(format, a...))
}

// warnAt appends a warning diagnostic pointing at the given token. Warnings
// do not fail resolution.
func (r *Resolver) warnAt(tok token.Token, msg string) {
	r.diagnostics = append(r.diagnostics, syntax.Diagnostic{
		Msg:      msg,
		Severity: syntax.SeverityWarning,
		Position: r.position(tok),
	})
}

// beginScope pushes a fresh scope onto the scope stack.
func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, newScope())
}

// endScope pops the innermost scope, reporting any variables that were
// declared in it but never read.
func (r *Resolver) endScope() {
	top := r.scopes[len(r.scopes)-1]

	unused := make([]token.Token, 0, len(top.unused))
	for _, tok := range top.unused {
		unused = append(unused, tok)
	}

	// Deterministic order for reporting
	slices.SortFunc(unused, func(a, b token.Token) int { return a.Offset - b.Offset })

	for _, tok := range unused {
		r.warnAt(tok, fmt.Sprintf("unused variable '%s'", tok.Lexeme))
	}

	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare introduces a name in the innermost scope (or the global namespace
// at top level), assigning it the next free slot. A local name is not yet
// usable in its own initializer; globals carry no such restriction.
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		if _, exists := r.globals.slots[name.Lexeme]; exists {
			r.errorf(name, "'%s' is already declared in global scope", name.Lexeme)
			return
		}

		r.globals.slots[name.Lexeme] = r.globals.count
		r.globals.count++
		r.globals.unused[name.Lexeme] = name

		return
	}

	top := r.scopes[len(r.scopes)-1]

	if _, exists := top.indices[name.Lexeme]; exists {
		r.errorf(name, "'%s' is already declared in the same scope", name.Lexeme)
		return
	}

	top.indices[name.Lexeme] = top.next
	top.next++
	top.defined[name.Lexeme] = false
	top.unused[name.Lexeme] = name
}

// define marks a previously declared name as fully initialized and
// therefore readable.
func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		// Globals have no declared/defined distinction
		return
	}

	top := r.scopes[len(r.scopes)-1]
	top.defined[name.Lexeme] = true
}

// declareSpecial binds an implicit name ('this' or 'super') into the
// innermost scope. Implicit names are immediately defined and exempt from
// unused reporting.
func (r *Resolver) declareSpecial(name string) {
	top := r.scopes[len(r.scopes)-1]
	top.indices[name] = top.next
	top.next++
	top.defined[name] = true
}

// resolveLocal resolves a variable reference to a storage coordinate,
// recording it in exactly one of the two side tables. Reads additionally
// clear the name from unused tracking.
func (r *Resolver) resolveLocal(id int, name token.Token, isRead bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		sc := r.scopes[i]

		slot, ok := sc.indices[name.Lexeme]
		if !ok {
			continue
		}

		if isRead {
			delete(sc.unused, name.Lexeme)
		}

		r.bindings.Locals[id] = Binding{
			Depth: len(r.scopes) - 1 - i,
			Slot:  slot,
		}

		return
	}

	if slot, ok := r.globals.slots[name.Lexeme]; ok {
		if isRead {
			delete(r.globals.unused, name.Lexeme)
		}

		r.bindings.Globals[id] = slot

		return
	}

	r.errorf(name, "undefined variable '%s'", name.Lexeme)
}

// resolveFunction resolves a function body of the given kind: a fresh scope
// holding the parameters, then the body statements.
func (r *Resolver) resolveFunction(params []token.Token, body []ast.Statement, kind functionKind) {
	enclosing := r.currentFunction
	r.currentFunction = kind

	r.beginScope()

	for _, param := range params {
		r.declare(param)
		r.define(param)
	}

	for _, statement := range body {
		r.resolveStatement(statement)
	}

	r.endScope()

	r.currentFunction = enclosing
}

// resolveStatement resolves a single statement.
func (r *Resolver) resolveStatement(statement ast.Statement) {
	switch stmt := statement.(type) {
	case *ast.VarStatement:
		r.declare(stmt.Name)

		if stmt.Initializer != nil {
			r.resolveExpression(stmt.Initializer)
		}

		r.define(stmt.Name)
	case *ast.FunctionStatement:
		// Declare and define eagerly so the function may refer
		// to itself recursively
		r.declare(stmt.Name)
		r.define(stmt.Name)

		r.resolveFunction(stmt.Params, stmt.Body, funcFunction)
	case *ast.ClassStatement:
		r.resolveClass(stmt)
	case *ast.Block:
		r.beginScope()

		for _, inner := range stmt.Statements {
			r.resolveStatement(inner)
		}

		r.endScope()
	case *ast.IfStatement:
		r.resolveExpression(stmt.Cond)
		r.resolveStatement(stmt.Then)

		if stmt.Else != nil {
			r.resolveStatement(stmt.Else)
		}
	case *ast.WhileStatement:
		r.resolveExpression(stmt.Cond)
		r.resolveStatement(stmt.Body)
	case *ast.PrintStatement:
		r.resolveExpression(stmt.Expr)
	case *ast.ExpressionStatement:
		r.resolveExpression(stmt.Expr)
	case *ast.ReturnStatement:
		if r.currentFunction == funcNone {
			r.errorAt(stmt.Keyword, "can only return from functions or methods")
		}

		if stmt.Value != nil {
			if r.currentFunction == funcInitializer {
				r.errorAt(stmt.Keyword, "Cannot return value from an initializer")
			}

			r.resolveExpression(stmt.Value)
		}
	case *ast.BreakStatement:
		// The parser has already validated break placement
	default:
		r.errorf(statement.Pos(), "unhandled statement: %T", statement)
	}
}

// resolveClass resolves a class declaration: the class name, the optional
// superclass, then a 'super' scope and a 'this' scope in which the methods
// are resolved, mirroring the environment layout the interpreter builds at
// class construction time.
func (r *Resolver) resolveClass(stmt *ast.ClassStatement) {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Superclass.Name.Lexeme == stmt.Name.Lexeme {
			r.errorAt(stmt.Superclass.Name, "a class cannot inherit from itself")
		}

		r.currentClass = classSubclass

		r.resolveExpression(stmt.Superclass)

		r.beginScope()
		r.declareSpecial("super")
	}

	r.beginScope()
	r.declareSpecial("this")

	for _, static := range stmt.StaticMethods {
		r.resolveFunction(static.Params, static.Body, funcStatic)
	}

	for _, method := range stmt.Methods {
		kind := funcMethod
		if method.Name.Lexeme == "init" {
			kind = funcInitializer
		}

		r.resolveFunction(method.Params, method.Body, kind)
	}

	r.endScope()

	if stmt.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
}

// resolveExpression resolves a single expression.
func (r *Resolver) resolveExpression(expression ast.Expression) {
	switch expr := expression.(type) {
	case *ast.Literal:
		// Nothing to resolve
	case *ast.Variable:
		if len(r.scopes) > 0 {
			top := r.scopes[len(r.scopes)-1]
			if defined, declared := top.defined[expr.Name.Lexeme]; declared && !defined {
				r.errorAt(expr.Name, "can't read local variable in its own initializer")
			}
		}

		r.resolveLocal(expr.ID, expr.Name, true)
	case *ast.Assign:
		r.resolveExpression(expr.Value)
		r.resolveLocal(expr.ID, expr.Name, false)
	case *ast.Binary:
		r.resolveExpression(expr.Left)
		r.resolveExpression(expr.Right)
	case *ast.Unary:
		r.resolveExpression(expr.Expr)
	case *ast.Grouping:
		r.resolveExpression(expr.Expr)
	case *ast.Ternary:
		r.resolveExpression(expr.Cond)
		r.resolveExpression(expr.Then)
		r.resolveExpression(expr.Else)
	case *ast.ExprList:
		for _, inner := range expr.Exprs {
			r.resolveExpression(inner)
		}
	case *ast.Call:
		r.resolveExpression(expr.Callee)

		for _, arg := range expr.Args {
			r.resolveExpression(arg)
		}
	case *ast.Lambda:
		r.resolveFunction(expr.Params, expr.Body, funcLambda)
	case *ast.Get:
		// Property names are looked up dynamically, only the object
		// expression is resolved
		r.resolveExpression(expr.Object)
	case *ast.Set:
		r.resolveExpression(expr.Object)
		r.resolveExpression(expr.Value)
	case *ast.This:
		if r.currentClass == classNone {
			r.errorAt(expr.Keyword, "can't use 'this' outside of a class")
			return
		}

		if r.currentFunction == funcStatic {
			r.errorAt(expr.Keyword, "can't use 'this' in a static method")
			return
		}

		r.resolveLocal(expr.ID, expr.Keyword, true)
	case *ast.Super:
		if r.currentClass != classSubclass {
			r.errorAt(expr.Keyword, "can't use 'super' outside of a sub class")
			return
		}

		r.resolveLocal(expr.ID, expr.Keyword, true)
	default:
		r.errorf(expression.Pos(), "unhandled expression: %T", expression)
	}
}
