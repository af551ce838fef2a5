package token

// Kind is the kind of a token.
type Kind int

// Token definitions.
const (
	EOF   Kind = iota // EOF
	Error             // Error

	// Punctuation
	LeftParen  // LeftParen
	RightParen // RightParen
	LeftBrace  // LeftBrace
	RightBrace // RightBrace
	Comma      // Comma
	Dot        // Dot
	Semicolon  // Semicolon
	Question   // Question
	Colon      // Colon

	// Operators
	Bang      // Bang
	BangEq    // BangEq
	Eq        // Eq
	EqEq      // EqEq
	Less      // Less
	LessEq    // LessEq
	Greater   // Greater
	GreaterEq // GreaterEq
	Plus      // Plus
	PlusEq    // PlusEq
	Minus     // Minus
	MinusEq   // MinusEq
	Star      // Star
	StarEq    // StarEq
	Slash     // Slash
	SlashEq   // SlashEq

	// Literals & identifiers
	Ident  // Ident
	String // String
	Number // Number

	// Keywords
	And    // And
	Break  // Break
	Class  // Class
	Else   // Else
	False  // False
	For    // For
	Fun    // Fun
	If     // If
	Nil    // Nil
	Or     // Or
	Print  // Print
	Return // Return
	Super  // Super
	This   // This
	True   // True
	Var    // Var
	While  // While
)

// kindNames maps each [Kind] to the name it renders as.
var kindNames = [...]string{
	EOF:        "EOF",
	Error:      "Error",
	LeftParen:  "LeftParen",
	RightParen: "RightParen",
	LeftBrace:  "LeftBrace",
	RightBrace: "RightBrace",
	Comma:      "Comma",
	Dot:        "Dot",
	Semicolon:  "Semicolon",
	Question:   "Question",
	Colon:      "Colon",
	Bang:       "Bang",
	BangEq:     "BangEq",
	Eq:         "Eq",
	EqEq:       "EqEq",
	Less:       "Less",
	LessEq:     "LessEq",
	Greater:    "Greater",
	GreaterEq:  "GreaterEq",
	Plus:       "Plus",
	PlusEq:     "PlusEq",
	Minus:      "Minus",
	MinusEq:    "MinusEq",
	Star:       "Star",
	StarEq:     "StarEq",
	Slash:      "Slash",
	SlashEq:    "SlashEq",
	Ident:      "Ident",
	String:     "String",
	Number:     "Number",
	And:        "and",
	Break:      "break",
	Class:      "class",
	Else:       "else",
	False:      "false",
	For:        "for",
	Fun:        "fun",
	If:         "if",
	Nil:        "nil",
	Or:         "or",
	Print:      "print",
	Return:     "return",
	Super:      "super",
	This:       "this",
	True:       "true",
	Var:        "var",
	While:      "while",
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
