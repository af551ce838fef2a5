package ast

// Kind is the type of an ast Node.
type Kind int

// AST Node kinds.
const (
	KindInvalid             Kind = iota // Invalid
	KindBinary                          // Binary
	KindUnary                           // Unary
	KindLiteral                         // Literal
	KindGrouping                        // Grouping
	KindTernary                         // Ternary
	KindVariable                        // Variable
	KindAssign                          // Assign
	KindExprList                        // ExprList
	KindCall                            // Call
	KindLambda                          // Lambda
	KindGet                             // Get
	KindSet                             // Set
	KindThis                            // This
	KindSuper                           // Super
	KindExpressionStatement             // ExpressionStatement
	KindPrintStatement                  // PrintStatement
	KindVarStatement                    // VarStatement
	KindBlock                           // Block
	KindIfStatement                     // IfStatement
	KindWhileStatement                  // WhileStatement
	KindBreakStatement                  // BreakStatement
	KindFunctionStatement               // FunctionStatement
	KindReturnStatement                 // ReturnStatement
	KindClassStatement                  // ClassStatement
)

// kindNames maps each [Kind] to the name it renders as.
var kindNames = [...]string{
	KindInvalid:             "Invalid",
	KindBinary:              "Binary",
	KindUnary:               "Unary",
	KindLiteral:             "Literal",
	KindGrouping:            "Grouping",
	KindTernary:             "Ternary",
	KindVariable:            "Variable",
	KindAssign:              "Assign",
	KindExprList:            "ExprList",
	KindCall:                "Call",
	KindLambda:              "Lambda",
	KindGet:                 "Get",
	KindSet:                 "Set",
	KindThis:                "This",
	KindSuper:               "Super",
	KindExpressionStatement: "ExpressionStatement",
	KindPrintStatement:      "PrintStatement",
	KindVarStatement:        "VarStatement",
	KindBlock:               "Block",
	KindIfStatement:         "IfStatement",
	KindWhileStatement:      "WhileStatement",
	KindBreakStatement:      "BreakStatement",
	KindFunctionStatement:   "FunctionStatement",
	KindReturnStatement:     "ReturnStatement",
	KindClassStatement:      "ClassStatement",
}

// String implements [fmt.Stringer] for a [Kind].
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}

	return kindNames[k]
}

// MarshalText implements [encoding.TextMarshaler] for [Kind].
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
