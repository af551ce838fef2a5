package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"go.followtheprocess.codes/lox/internal/interp"
	"go.followtheprocess.codes/lox/internal/syntax/parser"
	"go.followtheprocess.codes/lox/internal/syntax/resolver"
	"go.followtheprocess.codes/test"
)

// run compiles and executes src with no natives installed, returning
// everything the program printed and any runtime error.
func run(t *testing.T, src string) (string, error) {
	t.Helper()

	p := parser.New("test.lox", []byte(src))

	program, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() returned an error: %v\ndiagnostics: %v", err, p.Diagnostics())
	}

	r := resolver.New("test.lox", resolver.NewGlobalIndex(nil))

	bindings, err := r.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve() returned an error: %v\ndiagnostics: %v", err, r.Diagnostics())
	}

	stdout := &bytes.Buffer{}
	interpreter := interp.New(stdout)

	return stdout.String(), interpreter.Interpret(program, bindings)
}

// mustRun is run but fails the test on a runtime error.
func mustRun(t *testing.T, src string) string {
	t.Helper()

	stdout, err := run(t, src)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}

	return stdout
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name string // Name of the test case
		src  string // The program to run
		want string // Expected stdout, one value per print on its own line
	}{
		{
			name: "arithmetic",
			src:  "print 1 + 2;",
			want: "3\n",
		},
		{
			name: "precedence",
			src:  "print 1 + 2 * 3 - 4 / 2;",
			want: "5\n",
		},
		{
			name: "grouping",
			src:  "print (1 + 2) * 3;",
			want: "9\n",
		},
		{
			name: "string concat coerces",
			src:  `var a = "ab"; print a + 3;`,
			want: "ab3\n",
		},
		{
			name: "string concat left",
			src:  `print 1 + "a";`,
			want: "1a\n",
		},
		{
			name: "number formatting",
			src:  "print 0.5; print 10; print 1.25;",
			want: "0.5\n10\n1.25\n",
		},
		{
			name: "stringify values",
			src:  "print nil; print true; print false;",
			want: "nil\ntrue\nfalse\n",
		},
		{
			name: "comparison",
			src:  "print 1 < 2; print 2 <= 2; print 3 > 4; print 4 >= 4;",
			want: "true\ntrue\nfalse\ntrue\n",
		},
		{
			name: "equality",
			src:  `print nil == nil; print nil == false; print 1 == 1; print "a" == "a"; print 1 == "1";`,
			want: "true\nfalse\ntrue\ntrue\nfalse\n",
		},
		{
			name: "truthiness",
			src:  `print !nil; print !false; print !0; print !"";`,
			want: "true\ntrue\nfalse\nfalse\n",
		},
		{
			name: "strict logical operators",
			src:  "print true and false; print true and 1; print false or 1; print nil or nil;",
			want: "false\ntrue\ntrue\nfalse\n",
		},
		{
			name: "ternary",
			src:  "print 1 < 2 ? \"yes\" : \"no\";",
			want: "yes\n",
		},
		{
			name: "comma list yields last value",
			src:  "print (1, 2, 3);",
			want: "3\n",
		},
		{
			name: "variables and assignment",
			src:  "var a = 1; a = a + 1; print a;",
			want: "2\n",
		},
		{
			name: "assignment is an expression",
			src:  "var a = 1; print a = 5;",
			want: "5\n",
		},
		{
			name: "block scoping",
			src: `
var a = "outer";
{
	var a = "inner";
	print a;
}
print a;
`,
			want: "inner\nouter\n",
		},
		{
			name: "if else",
			src:  `if (1 < 2) { print "then"; } else { print "else"; }`,
			want: "then\n",
		},
		{
			name: "while",
			src:  "var n = 0; while (n < 3) { n = n + 1; } print n;",
			want: "3\n",
		},
		{
			name: "for loop",
			src:  "var n = 0; for (var i = 0; i < 3; i = i + 1) { n = n + i; } print n;",
			want: "3\n",
		},
		{
			name: "break",
			src: `
var n = 0;
while (true) {
	n = n + 1;
	if (n == 5) {
		break;
	}
}
print n;
`,
			want: "5\n",
		},
		{
			name: "break inner loop only",
			src: `
var total = 0;
for (var i = 0; i < 2; i = i + 1) {
	while (true) {
		total = total + 1;
		break;
	}
}
print total;
`,
			want: "2\n",
		},
		{
			name: "function call",
			src:  "fun add(a, b) { return a + b; } print add(1, 2);",
			want: "3\n",
		},
		{
			name: "function without return yields nil",
			src:  "fun noop() {} print noop();",
			want: "nil\n",
		},
		{
			name: "recursion",
			src: `
fun fib(n) {
	if (n < 2) {
		return n;
	}
	return fib(n - 1) + fib(n - 2);
}
print fib(10);
`,
			want: "55\n",
		},
		{
			name: "closure counter",
			src: `
fun make() {
	var i = 0;
	fun inc() {
		i = i + 1;
		return i;
	}
	return inc;
}
var c = make();
print c();
print c();
print c();
`,
			want: "1\n2\n3\n",
		},
		{
			name: "closures capture definition environment",
			src: `
var out;
{
	var a = 1;
	fun f() {
		print a;
	}
	out = f;
	a = 2;
}
out();
`,
			want: "2\n",
		},
		{
			name: "independent closures",
			src: `
fun make() {
	var i = 0;
	fun inc() {
		i = i + 1;
		return i;
	}
	return inc;
}
var a = make();
var b = make();
print a();
print a();
print b();
`,
			want: "1\n2\n1\n",
		},
		{
			name: "lambda",
			src:  "var double = fun(x) { return x * 2; }; print double(21);",
			want: "42\n",
		},
		{
			name: "lambda stringifies anonymously",
			src:  "fun named() {} print named; print fun() {};",
			want: "<fn named>\n<fn>\n",
		},
		{
			name: "method call",
			src:  `class Greeter { greet() { print "hi"; } } Greeter().greet();`,
			want: "hi\n",
		},
		{
			name: "inherited method",
			src:  `class A { greet() { print "hi"; } } class B < A { } B().greet();`,
			want: "hi\n",
		},
		{
			name: "initializer",
			src:  "class C { init(x) { this.x = x; } } print C(7).x;",
			want: "7\n",
		},
		{
			name: "initializer returns this",
			src: `
class C {
	init() {
		this.x = 1;
	}
}
var c = C();
print c.init() == c;
`,
			want: "true\n",
		},
		{
			name: "bare return in initializer",
			src: `
class C {
	init(stop) {
		if (stop) {
			return;
		}
		this.x = 1;
	}
}
print C(true) == nil;
`,
			want: "false\n",
		},
		{
			name: "fields",
			src: `
class Bag {}
var bag = Bag();
bag.thing = 42;
print bag.thing;
`,
			want: "42\n",
		},
		{
			name: "methods bind this",
			src: `
class Person {
	init(name) {
		this.name = name;
	}

	greet() {
		print "hi " + this.name;
	}
}
var greet = Person("grace").greet;
greet();
`,
			want: "hi grace\n",
		},
		{
			name: "super",
			src: `
class A {
	speak() {
		print "A";
	}
}

class B < A {
	speak() {
		super.speak();
		print "B";
	}
}

B().speak();
`,
			want: "A\nB\n",
		},
		{
			name: "super skips own override",
			src: `
class A {
	describe() {
		return "A";
	}
}

class B < A {
	describe() {
		return super.describe() + "B";
	}
}

class C < B {
	describe() {
		return super.describe() + "C";
	}
}

print C().describe();
`,
			want: "ABC\n",
		},
		{
			name: "static method",
			src: `
class Math {
	class square(n) {
		return n * n;
	}
}
print Math.square(6);
`,
			want: "36\n",
		},
		{
			name: "class stringification",
			src: `
class Thing {}
print Thing;
print Thing();
`,
			want: "Thing\nThing instance\n",
		},
		{
			name: "methods can refer to the class by name",
			src: `
class Singleton {
	make() {
		return Singleton;
	}
}
print Singleton().make() == Singleton;
`,
			want: "true\n",
		},
		{
			name: "shadowing in nested scopes",
			src: `
var x = "global";
{
	var x = "middle";
	{
		var x = "inner";
		print x;
	}
	print x;
}
print x;
`,
			want: "inner\nmiddle\nglobal\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRun(t, tt.src)
			test.Equal(t, got, tt.want)
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string // Name of the test case
		src  string // The program to run
		want string // Substring expected in the error
	}{
		{
			name: "divide by zero",
			src:  "print 1 / 0;",
			want: "Divide by zero.",
		},
		{
			name: "arithmetic on non numbers",
			src:  "print true + 1;",
			want: "Operands must be numbers.",
		},
		{
			name: "string with non plus operator",
			src:  `print "a" * 2;`,
			want: "Operands must be numbers.",
		},
		{
			name: "comparison on strings",
			src:  `print "a" < "b";`,
			want: "Operands must be numbers.",
		},
		{
			name: "negate non number",
			src:  "print -true;",
			want: "Operand must be a number.",
		},
		{
			name: "call non callable",
			src:  `var x = "not a function"; x();`,
			want: "Can only call functions and classes.",
		},
		{
			name: "call instance",
			src:  "class Foo {} var foo = Foo(); foo();",
			want: "Can only call functions and classes.",
		},
		{
			name: "wrong arity",
			src:  "fun f(a, b) { return a; } f(1);",
			want: "Expected 2 arguments but got 1.",
		},
		{
			name: "undefined property",
			src:  "class Foo {} print Foo().nope;",
			want: "Undefined property 'nope'.",
		},
		{
			name: "property on non instance",
			src:  "print true.field;",
			want: "Only instances have properties.",
		},
		{
			name: "field on non instance",
			src:  "1.field = 2;",
			want: "Only instances have fields.",
		},
		{
			name: "superclass must be a class",
			src:  `var NotAClass = "nope"; class Foo < NotAClass {}`,
			want: "Superclass must be a class.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.src)
			test.Err(t, err)

			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestRuntimeErrorPosition(t *testing.T) {
	_, err := run(t, "print 1 / 0;")
	test.Err(t, err)

	// Runtime errors carry the offending token's position in the
	// '[line L, character C]' trailer
	test.Equal(t, err.Error(), "Divide by zero.\n[line 1, character 9]")

	var runtimeErr *interp.RuntimeError
	test.True(t, errorsAs(err, &runtimeErr))
	test.Equal(t, runtimeErr.Token.Line, 1)
	test.Equal(t, runtimeErr.Token.Col, 9)
}

// errorsAs is a tiny generic wrapper around errors.As for test readability.
func errorsAs[T error](err error, target *T) bool {
	for e := err; e != nil; {
		if t, ok := e.(T); ok {
			*target = t
			return true
		}

		unwrapper, ok := e.(interface{ Unwrap() error })
		if !ok {
			return false
		}

		e = unwrapper.Unwrap()
	}

	return false
}

func TestRuntimeErrorAbortsStatementList(t *testing.T) {
	stdout, err := run(t, `print "before"; print 1 / 0; print "after";`)
	test.Err(t, err)

	// Statements before the error ran, statements after did not
	test.Equal(t, stdout, "before\n")
}

func TestEnvironmentRestoredAfterError(t *testing.T) {
	// The failing call unwinds through several blocks; the interpreter must
	// still be usable afterwards with the global environment intact
	src := `
var a = 1;
fun boom() {
	{
		{
			return 1 / 0;
		}
	}
}
boom();
`

	globals := resolver.NewGlobalIndex(nil)
	stdout := &bytes.Buffer{}
	interpreter := interp.New(stdout)

	execute := func(src string, firstID int) error {
		p := parser.New("test.lox", []byte(src), parser.FirstID(firstID))

		program, err := p.Parse()
		if err != nil {
			t.Fatalf("Parse() returned an error: %v\ndiagnostics: %v", err, p.Diagnostics())
		}

		r := resolver.New("test.lox", globals)

		bindings, err := r.Resolve(program)
		if err != nil {
			t.Fatalf("Resolve() returned an error: %v\ndiagnostics: %v", err, r.Diagnostics())
		}

		return interpreter.Interpret(program, bindings)
	}

	test.Err(t, execute(src, 0))

	// A later program defines a new global and reads an old one; if the
	// environment had been left pointing into boom's blocks, 'b' would not
	// land in the global slot the resolver assigned it
	test.Ok(t, execute("var b = a + 1; print b;", 1000))
	test.Equal(t, stdout.String(), "2\n")
}
