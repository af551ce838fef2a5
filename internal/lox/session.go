package lox

import (
	"io"

	"go.followtheprocess.codes/lox/internal/interp"
	"go.followtheprocess.codes/lox/internal/interp/builtins"
	"go.followtheprocess.codes/lox/internal/syntax"
	"go.followtheprocess.codes/lox/internal/syntax/ast"
	"go.followtheprocess.codes/lox/internal/syntax/parser"
	"go.followtheprocess.codes/lox/internal/syntax/resolver"
)

// Session couples an interpreter with the state that must persist across
// successive compilations against it: the global slot namespace and the
// expression ID allocator.
//
// File mode uses a session for a single compile+run; the REPL feeds one
// session a line at a time so globals declared on earlier lines remain
// visible, while compile and runtime error state resets per line.
type Session struct {
	interpreter *interp.Interpreter
	globals     *resolver.GlobalIndex
	nextID      int
}

// NewSession returns a new [Session] whose interpreter writes program output
// to stdout and exposes the given native library.
//
// The natives are registered into the interpreter's global environment and
// preregistered in the resolver's global namespace in the same order, which
// is what keeps global slot numbering agreed between the two.
func NewSession(stdout io.Writer, lib builtins.Library) *Session {
	interpreter := interp.New(stdout)

	for _, builtin := range lib {
		native := interp.NewNative(builtin.Name, builtin.Arity, builtin.Fn)
		interpreter.DefineGlobal(interp.CallableVal(native))
	}

	return &Session{
		interpreter: interpreter,
		globals:     resolver.NewGlobalIndex(lib.Names()),
	}
}

// Compiled is the result of compiling one unit of source: the program, its
// resolution side tables and every diagnostic the pipeline produced.
type Compiled struct {
	Program     ast.Program
	Diagnostics []syntax.Diagnostic
	Bindings    resolver.Bindings
	Incomplete  bool
}

// Errored reports whether compilation produced any error diagnostics,
// in which case the program must not be executed.
func (c Compiled) Errored() bool {
	return syntax.HasErrors(c.Diagnostics)
}

// Compile runs source through the scanner, parser and resolver, collecting
// diagnostics from all three.
//
// reportUnusedGlobals should be set for whole-file compilation only: the
// check is meaningless per REPL line, where the user may use the global on
// the next line.
func (s *Session) Compile(name string, src []byte, reportUnusedGlobals bool) Compiled {
	// A previous run may have failed partway, leaving global slots that the
	// resolver assigned but the interpreter never defined. Pad them out so
	// this run's slot numbering starts aligned.
	s.interpreter.SyncGlobals(s.globals.Len())

	p := parser.New(name, src, parser.FirstID(s.nextID))

	program, err := p.Parse()
	s.nextID = p.NextID()

	if err != nil {
		return Compiled{
			Program:     program,
			Diagnostics: p.Diagnostics(),
			Incomplete:  p.Incomplete(),
		}
	}

	r := resolver.New(name, s.globals)

	bindings, resolveErr := r.Resolve(program)
	if reportUnusedGlobals && resolveErr == nil {
		r.ReportUnusedGlobals()
	}

	return Compiled{
		Program:     program,
		Bindings:    bindings,
		Diagnostics: append(p.Diagnostics(), r.Diagnostics()...),
	}
}

// Execute runs a compiled program, returning the runtime error if any.
func (s *Session) Execute(compiled Compiled) error {
	return s.interpreter.Interpret(compiled.Program, compiled.Bindings)
}
