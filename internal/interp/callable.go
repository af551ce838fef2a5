package interp

import (
	"errors"
	"fmt"

	"go.followtheprocess.codes/lox/internal/syntax/ast"
	"go.followtheprocess.codes/lox/internal/syntax/token"
)

// Callable is the capability shared by every value that participates in
// property access or calls: native functions, user functions and lambdas,
// classes and instances.
type Callable interface {
	fmt.Stringer

	// Arity returns the number of arguments the callable expects.
	Arity() int

	// Call invokes the callable with the given evaluated arguments.
	Call(ip *Interpreter, args []Value) (Value, error)
}

// FuncKind is the kind of a user function.
type FuncKind int

// User function kinds.
const (
	FuncFunction    FuncKind = iota // A named function
	FuncLambda                      // An anonymous function
	FuncMethod                      // A class method
	FuncStatic                      // A static method
	FuncInitializer                 // An 'init' method
)

// Native is a function implemented by the host.
type Native struct {
	fn    func(args []Value) (Value, error)
	name  string
	arity int
}

// NewNative returns a [Native] wrapping the given host function.
func NewNative(name string, arity int, fn func(args []Value) (Value, error)) *Native {
	return &Native{name: name, arity: arity, fn: fn}
}

// Arity returns the number of arguments the native expects.
func (n *Native) Arity() int { return n.arity }

// Call invokes the host function.
func (n *Native) Call(_ *Interpreter, args []Value) (Value, error) {
	return n.fn(args)
}

// String implements [fmt.Stringer] for a [Native].
func (n *Native) String() string { return "<native fn>" }

// Function is a user defined function: a lambda, a named function, or a
// (possibly bound) method. Its closure is the environment chain captured at
// definition time.
type Function struct {
	Closure *Environment
	Name    string // Empty for lambdas
	Params  []token.Token
	Body    []ast.Statement
	FnKind  FuncKind
}

// Arity returns the number of declared parameters.
func (f *Function) Arity() int { return len(f.Params) }

// Call executes the function body in a fresh environment whose enclosing
// scope is the function's closure, with the arguments defined into
// consecutive slots in declaration order.
//
// An initializer always returns the bound instance, whether it completes
// normally or via a bare 'return'.
func (f *Function) Call(ip *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for _, arg := range args {
		env.Define(arg)
	}

	sig, err := ip.executeBlock(f.Body, env)
	if err != nil {
		return Nil, err
	}

	if f.FnKind == FuncInitializer {
		// 'this' lives at slot 0 of the bound environment
		return f.Closure.GetAt(0, 0), nil
	}

	if sig.kind == controlReturn {
		return sig.value, nil
	}

	return Nil, nil
}

// Bind returns a copy of the function whose closure has this pre-bound to
// the given instance at slot 0, replacing the placeholder scope captured at
// class construction time.
func (f *Function) Bind(instance Value) *Function {
	env := NewEnvironment(f.Closure.enclosing)
	env.Define(instance)

	return &Function{
		Name:    f.Name,
		Params:  f.Params,
		Body:    f.Body,
		Closure: env,
		FnKind:  f.FnKind,
	}
}

// String implements [fmt.Stringer] for a [Function].
func (f *Function) String() string {
	if f.Name == "" {
		return "<fn>"
	}

	return "<fn " + f.Name + ">"
}

// Class is a user defined class. Calling a class constructs an instance of
// it, running its 'init' method if one is declared anywhere on the
// inheritance chain.
type Class struct {
	Superclass *Class
	Methods    map[string]*Function
	Statics    map[string]*Function
	Name       string
}

// Arity returns the arity of the class's initializer, or 0 if no class on
// its inheritance chain declares one.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}

	return 0
}

// Call constructs a new instance of the class.
func (c *Class) Call(ip *Interpreter, args []Value) (Value, error) {
	instance := &Instance{class: c, fields: make(map[string]Value)}
	value := CallableVal(instance)

	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(value).Call(ip, args); err != nil {
			return Nil, err
		}
	}

	return value, nil
}

// FindMethod looks a method up by name, walking the class and then its
// superclass chain. It returns nil if no class on the chain declares it.
func (c *Class) FindMethod(name string) *Function {
	for class := c; class != nil; class = class.Superclass {
		if method, ok := class.Methods[name]; ok {
			return method
		}
	}

	return nil
}

// FindStatic looks a static method up by name, walking the class and then
// its superclass chain. It returns nil if no class on the chain declares it.
func (c *Class) FindStatic(name string) *Function {
	for class := c; class != nil; class = class.Superclass {
		if static, ok := class.Statics[name]; ok {
			return static
		}
	}

	return nil
}

// String implements [fmt.Stringer] for a [Class].
func (c *Class) String() string { return c.Name }

// Instance is an instance of a [Class], holding a mutable field map keyed by
// name. Fields are created on first assignment.
type Instance struct {
	class  *Class
	fields map[string]Value
}

// Arity implements [Callable] for an [Instance]. Instances are never
// actually invokable, the interpreter rejects calls on them.
func (i *Instance) Arity() int { return 0 }

// Call implements [Callable] for an [Instance].
func (i *Instance) Call(_ *Interpreter, _ []Value) (Value, error) {
	return Nil, errors.New("can only call functions and classes")
}

// Get reads a property from the instance: a field if one exists, otherwise a
// method from its class bound to this instance.
func (i *Instance) Get(name token.Token) (Value, error) {
	if value, ok := i.fields[name.Lexeme]; ok {
		return value, nil
	}

	if method := i.class.FindMethod(name.Lexeme); method != nil {
		return CallableVal(method.Bind(CallableVal(i))), nil
	}

	return Nil, &RuntimeError{Token: name, Msg: fmt.Sprintf("Undefined property '%s'.", name.Lexeme)}
}

// Set writes a field on the instance, creating it if necessary.
func (i *Instance) Set(name token.Token, value Value) {
	i.fields[name.Lexeme] = value
}

// String implements [fmt.Stringer] for an [Instance].
func (i *Instance) String() string { return i.class.Name + " instance" }
