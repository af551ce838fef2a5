package interp

import (
	"errors"
	"fmt"
	"io"

	"go.followtheprocess.codes/lox/internal/syntax/ast"
	"go.followtheprocess.codes/lox/internal/syntax/resolver"
	"go.followtheprocess.codes/lox/internal/syntax/token"
)

// RuntimeError is an execution time failure carrying the source token it
// occurred at.
type RuntimeError struct {
	Msg   string      // A descriptive message explaining the error
	Token token.Token // The token the error points to
}

// Error implements the error interface, rendering the error the way Lox
// reports runtime errors to the user:
//
//	<message>
//	[line <L>, character <C>]
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d, character %d]", e.Msg, e.Token.Line, e.Token.Col)
}

// control is the kind of a non-local control transfer.
type control int

const (
	controlNone   control = iota // Normal completion
	controlBreak                 // A 'break' unwinding to the enclosing loop
	controlReturn                // A 'return' unwinding to the enclosing call
)

// signal is a typed control signal propagated up through statement
// execution, distinct from the error channel. The enclosing while catches
// break, the enclosing call catches return, nothing else is ever smuggled
// this way.
type signal struct {
	value Value
	kind  control
}

// Interpreter evaluates resolved Lox programs.
//
// An interpreter is long lived: a REPL session feeds it successive programs
// and their bindings, and globals persist between runs.
type Interpreter struct {
	globals     *Environment             // The flat global environment, natives first
	env         *Environment             // The current evaluation environment
	locals      map[int]resolver.Binding // Expression ID → (depth, slot)
	globalSlots map[int]int              // Expression ID → global slot
	stdout      io.Writer                // Destination for 'print' output
}

// New returns a new [Interpreter] writing program output to stdout.
//
// The global environment starts empty; callers register native functions
// with [Interpreter.DefineGlobal] before resolving any source against the
// matching [resolver.GlobalIndex].
func New(stdout io.Writer) *Interpreter {
	globals := NewEnvironment(nil)

	return &Interpreter{
		globals:     globals,
		env:         globals,
		locals:      make(map[int]resolver.Binding),
		globalSlots: make(map[int]int),
		stdout:      stdout,
	}
}

// DefineGlobal appends a value to the global environment, returning the slot
// it was assigned. Used to register native functions ahead of resolution.
func (ip *Interpreter) DefineGlobal(value Value) int {
	return ip.globals.Define(value)
}

// SyncGlobals pads the global environment with nil values until it has count
// slots. A REPL calls this after a failed line, whose resolver may have
// assigned global slots that the aborted run never defined.
func (ip *Interpreter) SyncGlobals(count int) {
	for ip.globals.Len() < count {
		ip.globals.Define(Nil)
	}
}

// Interpret executes a resolved program against the interpreter's global
// state, returning a [*RuntimeError] if execution fails.
//
// The bindings are merged into the interpreter's side tables before
// execution, so functions defined in earlier runs keep working.
func (ip *Interpreter) Interpret(program ast.Program, bindings resolver.Bindings) error {
	for id, binding := range bindings.Locals {
		ip.locals[id] = binding
	}

	for id, slot := range bindings.Globals {
		ip.globalSlots[id] = slot
	}

	for _, statement := range program.Statements {
		if _, err := ip.execute(statement); err != nil {
			return err
		}
	}

	return nil
}

// execute executes a single statement, returning a control signal and/or
// a runtime error.
func (ip *Interpreter) execute(statement ast.Statement) (signal, error) {
	switch stmt := statement.(type) {
	case *ast.ExpressionStatement:
		if _, err := ip.evaluate(stmt.Expr); err != nil {
			return signal{}, err
		}
	case *ast.PrintStatement:
		value, err := ip.evaluate(stmt.Expr)
		if err != nil {
			return signal{}, err
		}

		fmt.Fprintln(ip.stdout, Stringify(value))
	case *ast.VarStatement:
		value := Nil

		if stmt.Initializer != nil {
			initialized, err := ip.evaluate(stmt.Initializer)
			if err != nil {
				return signal{}, err
			}

			value = initialized
		}

		ip.env.Define(value)
	case *ast.FunctionStatement:
		fn := &Function{
			Name:    stmt.Name.Lexeme,
			Params:  stmt.Params,
			Body:    stmt.Body,
			Closure: ip.env,
			FnKind:  FuncFunction,
		}

		ip.env.Define(CallableVal(fn))
	case *ast.Block:
		return ip.executeBlock(stmt.Statements, NewEnvironment(ip.env))
	case *ast.IfStatement:
		cond, err := ip.evaluate(stmt.Cond)
		if err != nil {
			return signal{}, err
		}

		if cond.Truthy() {
			return ip.execute(stmt.Then)
		}

		if stmt.Else != nil {
			return ip.execute(stmt.Else)
		}
	case *ast.WhileStatement:
		for {
			cond, err := ip.evaluate(stmt.Cond)
			if err != nil {
				return signal{}, err
			}

			if !cond.Truthy() {
				break
			}

			sig, err := ip.execute(stmt.Body)
			if err != nil {
				return signal{}, err
			}

			if sig.kind == controlBreak {
				// Ours to catch, execution continues after the loop
				break
			}

			if sig.kind == controlReturn {
				return sig, nil
			}
		}
	case *ast.BreakStatement:
		return signal{kind: controlBreak}, nil
	case *ast.ReturnStatement:
		value := Nil

		if stmt.Value != nil {
			returned, err := ip.evaluate(stmt.Value)
			if err != nil {
				return signal{}, err
			}

			value = returned
		}

		return signal{kind: controlReturn, value: value}, nil
	case *ast.ClassStatement:
		return signal{}, ip.executeClass(stmt)
	default:
		return signal{}, &RuntimeError{
			Token: statement.Pos(),
			Msg:   fmt.Sprintf("unhandled statement: %T", statement),
		}
	}

	return signal{}, nil
}

// executeBlock executes a list of statements in the given environment,
// restoring the previous environment on every exit path: normal completion,
// runtime error, return signal and break signal.
func (ip *Interpreter) executeBlock(statements []ast.Statement, env *Environment) (signal, error) {
	previous := ip.env
	ip.env = env

	defer func() { ip.env = previous }()

	for _, statement := range statements {
		sig, err := ip.execute(statement)
		if err != nil {
			return signal{}, err
		}

		if sig.kind != controlNone {
			return sig, nil
		}
	}

	return signal{}, nil
}

// executeClass constructs a class and writes it into the current
// environment.
//
// The environment dance mirrors the resolver's scope layout exactly: a slot
// reserved up front so methods can refer to the class by name, an optional
// scope binding 'super' at slot 0, and a class scope binding 'this' at slot
// 0 (a placeholder during construction, swapped for the real instance when a
// method is bound).
func (ip *Interpreter) executeClass(stmt *ast.ClassStatement) error {
	var superclass *Class

	if stmt.Superclass != nil {
		value, err := ip.evaluate(stmt.Superclass)
		if err != nil {
			return err
		}

		class, ok := value.Data.(*Class)
		if value.Tag != TagCallable || !ok {
			return &RuntimeError{Token: stmt.Superclass.Name, Msg: "Superclass must be a class."}
		}

		superclass = class
	}

	slot := ip.env.Define(Nil)

	enclosing := ip.env

	if superclass != nil {
		ip.env = NewEnvironment(ip.env)
		ip.env.Define(CallableVal(superclass))
	}

	ip.env = NewEnvironment(ip.env)
	ip.env.Define(Nil) // Placeholder for 'this', slot 0

	class := &Class{
		Name:       stmt.Name.Lexeme,
		Superclass: superclass,
		Methods:    make(map[string]*Function, len(stmt.Methods)),
		Statics:    make(map[string]*Function, len(stmt.StaticMethods)),
	}

	for _, method := range stmt.Methods {
		kind := FuncMethod
		if method.Name.Lexeme == "init" {
			kind = FuncInitializer
		}

		class.Methods[method.Name.Lexeme] = &Function{
			Name:    method.Name.Lexeme,
			Params:  method.Params,
			Body:    method.Body,
			Closure: ip.env,
			FnKind:  kind,
		}
	}

	for _, static := range stmt.StaticMethods {
		class.Statics[static.Name.Lexeme] = &Function{
			Name:    static.Name.Lexeme,
			Params:  static.Params,
			Body:    static.Body,
			Closure: ip.env,
			FnKind:  FuncStatic,
		}
	}

	ip.env = enclosing
	ip.env.AssignAt(0, slot, CallableVal(class))

	return nil
}

// evaluate evaluates a single expression.
func (ip *Interpreter) evaluate(expression ast.Expression) (Value, error) {
	switch expr := expression.(type) {
	case *ast.Literal:
		switch value := expr.Value.(type) {
		case nil:
			return Nil, nil
		case bool:
			return Bool(value), nil
		case float64:
			return Number(value), nil
		case string:
			return String(value), nil
		default:
			return Nil, &RuntimeError{Token: expr.Token, Msg: fmt.Sprintf("invalid literal: %v", value)}
		}
	case *ast.Grouping:
		return ip.evaluate(expr.Expr)
	case *ast.ExprList:
		var last Value

		for _, inner := range expr.Exprs {
			value, err := ip.evaluate(inner)
			if err != nil {
				return Nil, err
			}

			last = value
		}

		return last, nil
	case *ast.Variable:
		return ip.lookupVariable(expr.ID, expr.Name)
	case *ast.Assign:
		return ip.evaluateAssign(expr)
	case *ast.Unary:
		return ip.evaluateUnary(expr)
	case *ast.Binary:
		return ip.evaluateBinary(expr)
	case *ast.Ternary:
		cond, err := ip.evaluate(expr.Cond)
		if err != nil {
			return Nil, err
		}

		if cond.Truthy() {
			return ip.evaluate(expr.Then)
		}

		return ip.evaluate(expr.Else)
	case *ast.Lambda:
		fn := &Function{
			Params:  expr.Params,
			Body:    expr.Body,
			Closure: ip.env,
			FnKind:  FuncLambda,
		}

		return CallableVal(fn), nil
	case *ast.Call:
		return ip.evaluateCall(expr)
	case *ast.Get:
		return ip.evaluateGet(expr)
	case *ast.Set:
		return ip.evaluateSet(expr)
	case *ast.This:
		return ip.lookupVariable(expr.ID, expr.Keyword)
	case *ast.Super:
		return ip.evaluateSuper(expr)
	default:
		return Nil, &RuntimeError{
			Token: expression.Pos(),
			Msg:   fmt.Sprintf("unhandled expression: %T", expression),
		}
	}
}

// lookupVariable reads a resolved variable reference from the coordinates
// the resolver recorded for it.
func (ip *Interpreter) lookupVariable(id int, name token.Token) (Value, error) {
	if binding, ok := ip.locals[id]; ok {
		return ip.env.GetAt(binding.Depth, binding.Slot), nil
	}

	if slot, ok := ip.globalSlots[id]; ok {
		return ip.globals.GetAt(0, slot), nil
	}

	return Nil, &RuntimeError{Token: name, Msg: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme)}
}

// evaluateAssign evaluates an assignment, writing through the resolved
// coordinates. The result of an assignment is the assigned value.
func (ip *Interpreter) evaluateAssign(expr *ast.Assign) (Value, error) {
	value, err := ip.evaluate(expr.Value)
	if err != nil {
		return Nil, err
	}

	if binding, ok := ip.locals[expr.ID]; ok {
		ip.env.AssignAt(binding.Depth, binding.Slot, value)
		return value, nil
	}

	if slot, ok := ip.globalSlots[expr.ID]; ok {
		ip.globals.AssignAt(0, slot, value)
		return value, nil
	}

	return Nil, &RuntimeError{Token: expr.Name, Msg: fmt.Sprintf("Undefined variable '%s'.", expr.Name.Lexeme)}
}

// evaluateUnary evaluates a prefix operator expression.
func (ip *Interpreter) evaluateUnary(expr *ast.Unary) (Value, error) {
	operand, err := ip.evaluate(expr.Expr)
	if err != nil {
		return Nil, err
	}

	switch expr.Op.Kind {
	case token.Minus:
		if operand.Tag != TagNumber {
			return Nil, &RuntimeError{Token: expr.Op, Msg: "Operand must be a number."}
		}

		return Number(-operand.Data.(float64)), nil
	case token.Bang:
		return Bool(!operand.Truthy()), nil
	default:
		return Nil, &RuntimeError{Token: expr.Op, Msg: fmt.Sprintf("invalid unary operator %q", expr.Op.Lexeme)}
	}
}

// evaluateBinary evaluates a binary operator expression.
//
// 'and' and 'or' are strict: both operands are fully evaluated, then
// combined by truthiness. '+' concatenates when either operand is a string,
// coercing the other via stringification. All other operators require
// number operands.
func (ip *Interpreter) evaluateBinary(expr *ast.Binary) (Value, error) {
	left, err := ip.evaluate(expr.Left)
	if err != nil {
		return Nil, err
	}

	right, err := ip.evaluate(expr.Right)
	if err != nil {
		return Nil, err
	}

	switch expr.Op.Kind {
	case token.And:
		return Bool(left.Truthy() && right.Truthy()), nil
	case token.Or:
		return Bool(left.Truthy() || right.Truthy()), nil
	case token.EqEq:
		return Bool(Equal(left, right)), nil
	case token.BangEq:
		return Bool(!Equal(left, right)), nil
	case token.Plus:
		if left.Tag == TagString || right.Tag == TagString {
			return String(Stringify(left) + Stringify(right)), nil
		}

		if left.Tag == TagNumber && right.Tag == TagNumber {
			return Number(left.Data.(float64) + right.Data.(float64)), nil
		}

		return Nil, &RuntimeError{Token: expr.Op, Msg: "Operands must be numbers."}
	}

	// Everything else is defined on numbers only
	if left.Tag != TagNumber || right.Tag != TagNumber {
		return Nil, &RuntimeError{Token: expr.Op, Msg: "Operands must be numbers."}
	}

	l := left.Data.(float64)
	r := right.Data.(float64)

	switch expr.Op.Kind {
	case token.Minus:
		return Number(l - r), nil
	case token.Star:
		return Number(l * r), nil
	case token.Slash:
		if r == 0 {
			return Nil, &RuntimeError{Token: expr.Op, Msg: "Divide by zero."}
		}

		return Number(l / r), nil
	case token.Less:
		return Bool(l < r), nil
	case token.LessEq:
		return Bool(l <= r), nil
	case token.Greater:
		return Bool(l > r), nil
	case token.GreaterEq:
		return Bool(l >= r), nil
	default:
		return Nil, &RuntimeError{Token: expr.Op, Msg: fmt.Sprintf("invalid binary operator %q", expr.Op.Lexeme)}
	}
}

// evaluateCall evaluates a call expression: callee first, then the arguments
// left to right, then the invocation.
func (ip *Interpreter) evaluateCall(expr *ast.Call) (Value, error) {
	callee, err := ip.evaluate(expr.Callee)
	if err != nil {
		return Nil, err
	}

	args := make([]Value, 0, len(expr.Args))

	for _, arg := range expr.Args {
		value, err := ip.evaluate(arg)
		if err != nil {
			return Nil, err
		}

		args = append(args, value)
	}

	if callee.Tag != TagCallable {
		return Nil, &RuntimeError{Token: expr.Paren, Msg: "Can only call functions and classes."}
	}

	callable := callee.Data.(Callable)

	if _, isInstance := callable.(*Instance); isInstance {
		return Nil, &RuntimeError{Token: expr.Paren, Msg: "Can only call functions and classes."}
	}

	if len(args) != callable.Arity() {
		return Nil, &RuntimeError{
			Token: expr.Paren,
			Msg:   fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(args)),
		}
	}

	result, err := ip.callValue(callable, args, expr.Paren)
	if err != nil {
		return Nil, err
	}

	return result, nil
}

// callValue invokes a callable, attaching the call site position to any
// error that does not already carry one (e.g. from a native function).
func (ip *Interpreter) callValue(callable Callable, args []Value, at token.Token) (Value, error) {
	result, err := callable.Call(ip, args)
	if err != nil {
		var runtimeErr *RuntimeError
		if !errors.As(err, &runtimeErr) {
			return Nil, &RuntimeError{Token: at, Msg: err.Error()}
		}

		return Nil, err
	}

	return result, nil
}

// evaluateGet evaluates a property access: fields shadow methods on
// instances, classes expose their static methods.
func (ip *Interpreter) evaluateGet(expr *ast.Get) (Value, error) {
	object, err := ip.evaluate(expr.Object)
	if err != nil {
		return Nil, err
	}

	if object.Tag == TagCallable {
		switch obj := object.Data.(type) {
		case *Instance:
			return obj.Get(expr.Name)
		case *Class:
			if static := obj.FindStatic(expr.Name.Lexeme); static != nil {
				return CallableVal(static), nil
			}

			return Nil, &RuntimeError{
				Token: expr.Name,
				Msg:   fmt.Sprintf("Undefined property '%s'.", expr.Name.Lexeme),
			}
		}
	}

	return Nil, &RuntimeError{Token: expr.Name, Msg: "Only instances have properties."}
}

// evaluateSet evaluates a property assignment. Fields are created on
// assignment, there is no declaration step.
func (ip *Interpreter) evaluateSet(expr *ast.Set) (Value, error) {
	object, err := ip.evaluate(expr.Object)
	if err != nil {
		return Nil, err
	}

	instance, ok := object.Data.(*Instance)
	if object.Tag != TagCallable || !ok {
		return Nil, &RuntimeError{Token: expr.Name, Msg: "Only instances have fields."}
	}

	value, err := ip.evaluate(expr.Value)
	if err != nil {
		return Nil, err
	}

	instance.Set(expr.Name, value)

	return value, nil
}

// evaluateSuper evaluates a 'super.method' expression: the superclass is
// read from the resolved coordinates, the instance from one scope inside
// that, and the method is looked up on the superclass and bound to the
// instance.
func (ip *Interpreter) evaluateSuper(expr *ast.Super) (Value, error) {
	binding, ok := ip.locals[expr.ID]
	if !ok {
		return Nil, &RuntimeError{Token: expr.Keyword, Msg: "Undefined variable 'super'."}
	}

	superValue := ip.env.GetAt(binding.Depth, binding.Slot)

	superclass, ok := superValue.Data.(*Class)
	if superValue.Tag != TagCallable || !ok {
		return Nil, &RuntimeError{Token: expr.Keyword, Msg: "Superclass must be a class."}
	}

	this := ip.env.GetAt(binding.Depth-1, 0)

	method := superclass.FindMethod(expr.Method.Lexeme)
	if method == nil {
		return Nil, &RuntimeError{
			Token: expr.Method,
			Msg:   fmt.Sprintf("Undefined property '%s'.", expr.Method.Lexeme),
		}
	}

	return CallableVal(method.Bind(this)), nil
}
