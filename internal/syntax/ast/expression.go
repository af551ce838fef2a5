package ast

import "go.followtheprocess.codes/lox/internal/syntax/token"

// Binary is a binary operator expression, e.g. 'a + b'.
type Binary struct {
	// Left is the left hand operand.
	Left Expression

	// Right is the right hand operand.
	Right Expression

	// Op is the operator token.
	Op token.Token
}

// Pos returns the operator token.
func (b *Binary) Pos() token.Token { return b.Op }

// Kind returns [KindBinary].
func (b *Binary) Kind() Kind { return KindBinary }

func (b *Binary) expressionNode() {}

// Unary is a prefix operator expression, e.g. '-x' or '!ok'.
type Unary struct {
	// Expr is the operand.
	Expr Expression

	// Op is the operator token.
	Op token.Token
}

// Pos returns the operator token.
func (u *Unary) Pos() token.Token { return u.Op }

// Kind returns [KindUnary].
func (u *Unary) Kind() Kind { return KindUnary }

func (u *Unary) expressionNode() {}

// Literal is a literal value expression: a number, string, boolean or nil.
type Literal struct {
	// Value is the parsed literal value: float64, string, bool or nil.
	Value any

	// Token is the literal token.
	Token token.Token
}

// Pos returns the literal token.
func (l *Literal) Pos() token.Token { return l.Token }

// Kind returns [KindLiteral].
func (l *Literal) Kind() Kind { return KindLiteral }

func (l *Literal) expressionNode() {}

// Grouping is a parenthesised expression, e.g. '(a + b)'.
type Grouping struct {
	// Expr is the wrapped expression.
	Expr Expression

	// LeftParen is the opening '(' token.
	LeftParen token.Token
}

// Pos returns the opening '(' token.
func (g *Grouping) Pos() token.Token { return g.LeftParen }

// Kind returns [KindGrouping].
func (g *Grouping) Kind() Kind { return KindGrouping }

func (g *Grouping) expressionNode() {}

// Ternary is a conditional expression 'cond ? then : else'.
type Ternary struct {
	// Cond is the condition.
	Cond Expression

	// Then is the expression evaluated when Cond is truthy.
	Then Expression

	// Else is the expression evaluated when Cond is falsey.
	Else Expression

	// Question is the '?' token.
	Question token.Token
}

// Pos returns the '?' token.
func (t *Ternary) Pos() token.Token { return t.Question }

// Kind returns [KindTernary].
func (t *Ternary) Kind() Kind { return KindTernary }

func (t *Ternary) expressionNode() {}

// Variable is a named variable read.
type Variable struct {
	// Name is the identifier token.
	Name token.Token

	// ID is the expression's identity, the key into the
	// resolver's side tables.
	ID int
}

// Pos returns the identifier token.
func (v *Variable) Pos() token.Token { return v.Name }

// Kind returns [KindVariable].
func (v *Variable) Kind() Kind { return KindVariable }

func (v *Variable) expressionNode() {}

// Assign is an assignment to a named variable, e.g. 'a = 1'.
type Assign struct {
	// Value is the expression being assigned.
	Value Expression

	// Name is the identifier token of the assignment target.
	Name token.Token

	// ID is the expression's identity, the key into the
	// resolver's side tables.
	ID int
}

// Pos returns the identifier token of the target.
func (a *Assign) Pos() token.Token { return a.Name }

// Kind returns [KindAssign].
func (a *Assign) Kind() Kind { return KindAssign }

func (a *Assign) expressionNode() {}

// ExprList is a comma separated list of expressions. Statement level
// expressions are always wrapped in an ExprList, even when singleton; its
// value is the value of the last element.
type ExprList struct {
	// Exprs is the list of expressions, never empty.
	Exprs []Expression
}

// Pos returns the position of the first expression in the list.
func (e *ExprList) Pos() token.Token { return e.Exprs[0].Pos() }

// Kind returns [KindExprList].
func (e *ExprList) Kind() Kind { return KindExprList }

func (e *ExprList) expressionNode() {}

// Call is a call expression, e.g. 'f(a, b)'.
type Call struct {
	// Callee is the expression being called.
	Callee Expression

	// Args are the call arguments in source order.
	Args []Expression

	// Paren is the closing ')' token, used to position
	// runtime errors raised by the call.
	Paren token.Token
}

// Pos returns the closing ')' token.
func (c *Call) Pos() token.Token { return c.Paren }

// Kind returns [KindCall].
func (c *Call) Kind() Kind { return KindCall }

func (c *Call) expressionNode() {}

// Lambda is an anonymous function expression, e.g. 'fun(a, b) { ... }'.
type Lambda struct {
	// Params are the parameter identifier tokens.
	Params []token.Token

	// Body is the function body.
	Body []Statement

	// Fun is the 'fun' keyword token.
	Fun token.Token
}

// Pos returns the 'fun' keyword token.
func (l *Lambda) Pos() token.Token { return l.Fun }

// Kind returns [KindLambda].
func (l *Lambda) Kind() Kind { return KindLambda }

func (l *Lambda) expressionNode() {}

// Get is a property access expression, e.g. 'object.name'.
type Get struct {
	// Object is the expression being accessed.
	Object Expression

	// Name is the property name token.
	Name token.Token
}

// Pos returns the property name token.
func (g *Get) Pos() token.Token { return g.Name }

// Kind returns [KindGet].
func (g *Get) Kind() Kind { return KindGet }

func (g *Get) expressionNode() {}

// Set is a property assignment expression, e.g. 'object.name = value'.
type Set struct {
	// Object is the expression whose property is assigned.
	Object Expression

	// Value is the expression being assigned.
	Value Expression

	// Name is the property name token.
	Name token.Token
}

// Pos returns the property name token.
func (s *Set) Pos() token.Token { return s.Name }

// Kind returns [KindSet].
func (s *Set) Kind() Kind { return KindSet }

func (s *Set) expressionNode() {}

// This is a 'this' expression inside a method body.
type This struct {
	// Keyword is the 'this' token.
	Keyword token.Token

	// ID is the expression's identity, the key into the
	// resolver's side tables.
	ID int
}

// Pos returns the 'this' token.
func (t *This) Pos() token.Token { return t.Keyword }

// Kind returns [KindThis].
func (t *This) Kind() Kind { return KindThis }

func (t *This) expressionNode() {}

// Super is a 'super.method' expression inside a subclass method body.
type Super struct {
	// Keyword is the 'super' token.
	Keyword token.Token

	// Method is the method name token after the dot.
	Method token.Token

	// ID is the expression's identity, the key into the
	// resolver's side tables.
	ID int
}

// Pos returns the 'super' token.
func (s *Super) Pos() token.Token { return s.Keyword }

// Kind returns [KindSuper].
func (s *Super) Kind() Kind { return KindSuper }

func (s *Super) expressionNode() {}
