package ast

import "go.followtheprocess.codes/lox/internal/syntax/token"

// ExpressionStatement is an expression evaluated for its side effects,
// e.g. 'f();'.
type ExpressionStatement struct {
	// Expr is the expression, always an [ExprList].
	Expr Expression
}

// Pos returns the position of the wrapped expression.
func (e *ExpressionStatement) Pos() token.Token { return e.Expr.Pos() }

// Kind returns [KindExpressionStatement].
func (e *ExpressionStatement) Kind() Kind { return KindExpressionStatement }

func (e *ExpressionStatement) statementNode() {}

// PrintStatement writes the value of an expression to the program's
// output, followed by a newline.
type PrintStatement struct {
	// Expr is the expression to print.
	Expr Expression

	// Keyword is the 'print' token.
	Keyword token.Token
}

// Pos returns the 'print' token.
func (p *PrintStatement) Pos() token.Token { return p.Keyword }

// Kind returns [KindPrintStatement].
func (p *PrintStatement) Kind() Kind { return KindPrintStatement }

func (p *PrintStatement) statementNode() {}

// VarStatement is a variable declaration, e.g. 'var a = 1;'.
type VarStatement struct {
	// Initializer is the initial value expression, nil when the variable
	// is declared without one (in which case it holds nil at runtime).
	Initializer Expression

	// Name is the identifier token.
	Name token.Token
}

// Pos returns the identifier token.
func (v *VarStatement) Pos() token.Token { return v.Name }

// Kind returns [KindVarStatement].
func (v *VarStatement) Kind() Kind { return KindVarStatement }

func (v *VarStatement) statementNode() {}

// Block is a braced list of statements introducing a new lexical scope.
type Block struct {
	// Statements are the block's statements in source order.
	Statements []Statement

	// LeftBrace is the opening '{' token.
	LeftBrace token.Token
}

// Pos returns the opening '{' token.
func (b *Block) Pos() token.Token { return b.LeftBrace }

// Kind returns [KindBlock].
func (b *Block) Kind() Kind { return KindBlock }

func (b *Block) statementNode() {}

// IfStatement is a conditional statement with an optional else branch.
type IfStatement struct {
	// Cond is the condition.
	Cond Expression

	// Then is the statement executed when Cond is truthy.
	Then Statement

	// Else is the statement executed when Cond is falsey, may be nil.
	Else Statement

	// Keyword is the 'if' token.
	Keyword token.Token
}

// Pos returns the 'if' token.
func (i *IfStatement) Pos() token.Token { return i.Keyword }

// Kind returns [KindIfStatement].
func (i *IfStatement) Kind() Kind { return KindIfStatement }

func (i *IfStatement) statementNode() {}

// WhileStatement is a while loop. For loops are desugared into a while
// by the parser, there is no dedicated for node.
type WhileStatement struct {
	// Cond is the loop condition.
	Cond Expression

	// Body is the loop body.
	Body Statement

	// Keyword is the 'while' (or originating 'for') token.
	Keyword token.Token
}

// Pos returns the loop keyword token.
func (w *WhileStatement) Pos() token.Token { return w.Keyword }

// Kind returns [KindWhileStatement].
func (w *WhileStatement) Kind() Kind { return KindWhileStatement }

func (w *WhileStatement) statementNode() {}

// BreakStatement exits the innermost enclosing loop.
type BreakStatement struct {
	// Keyword is the 'break' token.
	Keyword token.Token
}

// Pos returns the 'break' token.
func (b *BreakStatement) Pos() token.Token { return b.Keyword }

// Kind returns [KindBreakStatement].
func (b *BreakStatement) Kind() Kind { return KindBreakStatement }

func (b *BreakStatement) statementNode() {}

// FunctionStatement is a named function declaration. The same node is used
// for class methods.
type FunctionStatement struct {
	// Params are the parameter identifier tokens.
	Params []token.Token

	// Body is the function body.
	Body []Statement

	// Name is the function name token.
	Name token.Token
}

// Pos returns the function name token.
func (f *FunctionStatement) Pos() token.Token { return f.Name }

// Kind returns [KindFunctionStatement].
func (f *FunctionStatement) Kind() Kind { return KindFunctionStatement }

func (f *FunctionStatement) statementNode() {}

// ReturnStatement returns a value (or nil) from the enclosing function.
type ReturnStatement struct {
	// Value is the returned expression, nil for a bare 'return;'.
	Value Expression

	// Keyword is the 'return' token.
	Keyword token.Token
}

// Pos returns the 'return' token.
func (r *ReturnStatement) Pos() token.Token { return r.Keyword }

// Kind returns [KindReturnStatement].
func (r *ReturnStatement) Kind() Kind { return KindReturnStatement }

func (r *ReturnStatement) statementNode() {}

// ClassStatement is a class declaration with methods, static methods and
// an optional superclass.
type ClassStatement struct {
	// Superclass is the superclass variable read, nil when the class
	// does not inherit.
	Superclass *Variable

	// Methods are the instance methods, including 'init' if declared.
	Methods []*FunctionStatement

	// StaticMethods are the methods declared with the 'class' modifier.
	StaticMethods []*FunctionStatement

	// Name is the class name token.
	Name token.Token
}

// Pos returns the class name token.
func (c *ClassStatement) Pos() token.Token { return c.Name }

// Kind returns [KindClassStatement].
func (c *ClassStatement) Kind() Kind { return KindClassStatement }

func (c *ClassStatement) statementNode() {}
