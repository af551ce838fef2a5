// Package ast defines the abstract syntax tree for the Lox grammar.
package ast

import (
	"go.followtheprocess.codes/lox/internal/syntax/token"
)

// Node is the interface for ast nodes.
type Node interface {
	// Pos returns the token that best identifies the node in source,
	// used to position runtime errors.
	Pos() token.Token

	// Kind returns the kind of node this is.
	Kind() Kind
}

// Expression is an expression node.
type Expression interface {
	Node
	expressionNode() // Prevents accidental misuse as another node type
}

// Statement is a statement node.
type Statement interface {
	Node
	statementNode() // Prevents accidental misuse as another node type
}

// Program is the parsed representation of a Lox compilation unit, a list
// of declarations in source order.
type Program struct {
	// Name is the name of the file the program was parsed from.
	Name string

	// Statements is the list of top level statements in the program.
	Statements []Statement
}
