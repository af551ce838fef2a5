package resolver_test

import (
	"strings"
	"testing"

	"go.followtheprocess.codes/lox/internal/syntax"
	"go.followtheprocess.codes/lox/internal/syntax/ast"
	"go.followtheprocess.codes/lox/internal/syntax/parser"
	"go.followtheprocess.codes/lox/internal/syntax/resolver"
	"go.followtheprocess.codes/test"
)

// compile parses src, failing the test on parse errors.
func compile(t *testing.T, src string) ast.Program {
	t.Helper()

	p := parser.New("test.lox", []byte(src))

	program, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() returned an error: %v\ndiagnostics: %v", err, p.Diagnostics())
	}

	return program
}

// resolve parses and resolves src against an empty global namespace,
// failing the test on any error.
func resolve(t *testing.T, src string) (ast.Program, resolver.Bindings) {
	t.Helper()

	program := compile(t, src)

	r := resolver.New("test.lox", resolver.NewGlobalIndex(nil))

	bindings, err := r.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve() returned an error: %v\ndiagnostics: %v", err, r.Diagnostics())
	}

	return program, bindings
}

// collectIDs walks the program gathering the IDs of every resolvable
// expression: variables, assignments, 'this' and 'super'.
func collectIDs(program ast.Program) []int {
	var ids []int

	var walkExpr func(ast.Expression)
	var walkStmt func(ast.Statement)

	walkExpr = func(expression ast.Expression) {
		switch expr := expression.(type) {
		case *ast.Variable:
			ids = append(ids, expr.ID)
		case *ast.Assign:
			ids = append(ids, expr.ID)
			walkExpr(expr.Value)
		case *ast.This:
			ids = append(ids, expr.ID)
		case *ast.Super:
			ids = append(ids, expr.ID)
		case *ast.Binary:
			walkExpr(expr.Left)
			walkExpr(expr.Right)
		case *ast.Unary:
			walkExpr(expr.Expr)
		case *ast.Grouping:
			walkExpr(expr.Expr)
		case *ast.Ternary:
			walkExpr(expr.Cond)
			walkExpr(expr.Then)
			walkExpr(expr.Else)
		case *ast.ExprList:
			for _, inner := range expr.Exprs {
				walkExpr(inner)
			}
		case *ast.Call:
			walkExpr(expr.Callee)
			for _, arg := range expr.Args {
				walkExpr(arg)
			}
		case *ast.Lambda:
			for _, stmt := range expr.Body {
				walkStmt(stmt)
			}
		case *ast.Get:
			walkExpr(expr.Object)
		case *ast.Set:
			walkExpr(expr.Object)
			walkExpr(expr.Value)
		}
	}

	walkStmt = func(statement ast.Statement) {
		switch stmt := statement.(type) {
		case *ast.ExpressionStatement:
			walkExpr(stmt.Expr)
		case *ast.PrintStatement:
			walkExpr(stmt.Expr)
		case *ast.VarStatement:
			if stmt.Initializer != nil {
				walkExpr(stmt.Initializer)
			}
		case *ast.Block:
			for _, inner := range stmt.Statements {
				walkStmt(inner)
			}
		case *ast.IfStatement:
			walkExpr(stmt.Cond)
			walkStmt(stmt.Then)
			if stmt.Else != nil {
				walkStmt(stmt.Else)
			}
		case *ast.WhileStatement:
			walkExpr(stmt.Cond)
			walkStmt(stmt.Body)
		case *ast.FunctionStatement:
			for _, inner := range stmt.Body {
				walkStmt(inner)
			}
		case *ast.ReturnStatement:
			if stmt.Value != nil {
				walkExpr(stmt.Value)
			}
		case *ast.ClassStatement:
			if stmt.Superclass != nil {
				walkExpr(stmt.Superclass)
			}
			for _, method := range stmt.Methods {
				walkStmt(method)
			}
			for _, static := range stmt.StaticMethods {
				walkStmt(static)
			}
		}
	}

	for _, statement := range program.Statements {
		walkStmt(statement)
	}

	return ids
}

// TestEveryReferenceResolvedOnce checks the central resolver invariant: for
// every resolvable expression in an accepted program, the side tables hold
// exactly one entry, in exactly one of the two maps.
func TestEveryReferenceResolvedOnce(t *testing.T) {
	src := `
var answer = 42;

fun outer() {
	var count = 0;

	fun inner(step) {
		count = count + step;
		return count;
	}

	return inner;
}

class Counter {
	init(start) {
		this.current = start;
	}

	bump() {
		this.current = this.current + 1;
		return this.current;
	}
}

class Loud < Counter {
	bump() {
		print "bumping!";
		return super.bump();
	}
}

var c = Loud(answer);
print c.bump();
print outer()(1);
`

	program, bindings := resolve(t, src)

	for _, id := range collectIDs(program) {
		_, inLocals := bindings.Locals[id]
		_, inGlobals := bindings.Globals[id]

		if inLocals == inGlobals {
			t.Errorf(
				"expression %d resolved incorrectly: locals=%v globals=%v (want exactly one)",
				id,
				inLocals,
				inGlobals,
			)
		}
	}
}

func TestClosureCoordinates(t *testing.T) {
	src := `
fun make() {
	var i = 0;
	fun inc() {
		i = i + 1;
		return i;
	}
	return inc;
}
`

	program, bindings := resolve(t, src)

	// Dig out the 'i = i + 1' assignment inside inc
	make := program.Statements[0].(*ast.FunctionStatement)
	inc := make.Body[1].(*ast.FunctionStatement)
	assign := inc.Body[0].(*ast.ExpressionStatement).Expr.(*ast.ExprList).Exprs[0].(*ast.Assign)

	// inc's body scope is the parameter scope; 'i' lives one hop up in
	// make's body, at slot 0
	binding, ok := bindings.Locals[assign.ID]
	test.True(t, ok)
	test.Equal(t, binding, resolver.Binding{Depth: 1, Slot: 0})

	// The read of 'i' on the right hand side gets the same coordinates
	sum := assign.Value.(*ast.Binary)
	read := sum.Left.(*ast.Variable)

	binding, ok = bindings.Locals[read.ID]
	test.True(t, ok)
	test.Equal(t, binding, resolver.Binding{Depth: 1, Slot: 0})
}

func TestNativeSlots(t *testing.T) {
	globals := resolver.NewGlobalIndex([]string{"clock"})
	test.Equal(t, globals.Len(), 1)

	program := compile(t, "print clock();")

	r := resolver.New("test.lox", globals)

	bindings, err := r.Resolve(program)
	test.Ok(t, err)

	read := program.Statements[0].(*ast.PrintStatement).
		Expr.(*ast.ExprList).
		Exprs[0].(*ast.Call).
		Callee.(*ast.Variable)

	// Natives occupy the first global slots in registration order
	slot, ok := bindings.Globals[read.ID]
	test.True(t, ok)
	test.Equal(t, slot, 0)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string // Name of the test case
		src  string // Source text to resolve
		want string // Substring expected in a diagnostic
	}{
		{
			name: "return at top level",
			src:  "return 1;",
			want: "can only return from functions or methods",
		},
		{
			name: "return value from initializer",
			src:  "class Foo { init() { return 1; } }",
			want: "Cannot return value from an initializer",
		},
		{
			name: "redeclared global",
			src:  "var a = 1; var a = 2;",
			want: "'a' is already declared in global scope",
		},
		{
			name: "redeclared local",
			src:  "{ var a = 1; var a = 2; }",
			want: "'a' is already declared in the same scope",
		},
		{
			name: "self read in initializer",
			src:  "{ var a = a; }",
			want: "can't read local variable in its own initializer",
		},
		{
			name: "this outside class",
			src:  "print this;",
			want: "can't use 'this' outside of a class",
		},
		{
			name: "this in static method",
			src:  "class Foo { class whoami() { return this; } }",
			want: "can't use 'this' in a static method",
		},
		{
			name: "super outside subclass",
			src:  "class Foo { frob() { return super.frob(); } }",
			want: "can't use 'super' outside of a sub class",
		},
		{
			name: "super outside class entirely",
			src:  "fun f() { return super.f(); }",
			want: "can't use 'super' outside of a sub class",
		},
		{
			name: "class inherits from itself",
			src:  "class Foo < Foo {}",
			want: "a class cannot inherit from itself",
		},
		{
			name: "undefined variable",
			src:  "print nope;",
			want: "undefined variable 'nope'",
		},
		{
			name: "duplicate parameter",
			src:  "fun f(a, a) { return a; }",
			want: "'a' is already declared in the same scope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := compile(t, tt.src)

			r := resolver.New("test.lox", resolver.NewGlobalIndex(nil))

			_, err := r.Resolve(program)
			test.Err(t, err)

			found := false

			for _, diagnostic := range r.Diagnostics() {
				if strings.Contains(diagnostic.Msg, tt.want) {
					test.Equal(t, diagnostic.Severity, syntax.SeverityError)

					found = true
				}
			}

			if !found {
				t.Fatalf("no diagnostic containing %q, got: %v", tt.want, r.Diagnostics())
			}
		})
	}
}

func TestUnusedLocalWarning(t *testing.T) {
	program := compile(t, "{ var lonely = 1; }")

	r := resolver.New("test.lox", resolver.NewGlobalIndex(nil))

	// Unused variables are warnings, resolution still succeeds
	_, err := r.Resolve(program)
	test.Ok(t, err)

	diagnostics := r.Diagnostics()
	test.Equal(t, len(diagnostics), 1)
	test.Equal(t, diagnostics[0].Severity, syntax.SeverityWarning)
	test.Equal(t, diagnostics[0].Msg, "unused variable 'lonely'")
}

func TestUnusedGlobalWarning(t *testing.T) {
	program := compile(t, "var used = 1; var lonely = used;")

	r := resolver.New("test.lox", resolver.NewGlobalIndex(nil))

	_, err := r.Resolve(program)
	test.Ok(t, err)

	// Nothing reported until the whole program has been seen
	test.Equal(t, len(r.Diagnostics()), 0)

	r.ReportUnusedGlobals()

	diagnostics := r.Diagnostics()
	test.Equal(t, len(diagnostics), 1)
	test.Equal(t, diagnostics[0].Severity, syntax.SeverityWarning)
	test.Equal(t, diagnostics[0].Msg, "unused variable 'lonely'")
}

func TestGlobalIndexPersists(t *testing.T) {
	globals := resolver.NewGlobalIndex(nil)

	// First "line" of a REPL session declares a global
	first := compile(t, "var a = 1;")

	_, err := resolver.New("repl", globals).Resolve(first)
	test.Ok(t, err)

	// Second line can read it because the namespace persists
	p := parser.New("repl", []byte("print a;"), parser.FirstID(100))

	second, err := p.Parse()
	test.Ok(t, err)

	bindings, err := resolver.New("repl", globals).Resolve(second)
	test.Ok(t, err)

	read := second.Statements[0].(*ast.PrintStatement).
		Expr.(*ast.ExprList).
		Exprs[0].(*ast.Variable)

	slot, ok := bindings.Globals[read.ID]
	test.True(t, ok)
	test.Equal(t, slot, 0)
}
