// Package interp implements the Lox runtime: the value model, environments,
// callables and the tree-walking interpreter itself.
package interp

import (
	"strconv"
	"strings"
)

// Tag discriminates the kinds of runtime value.
type Tag int

// Value kinds.
const (
	TagNil      Tag = iota // nil
	TagBool                // bool
	TagNumber              // 64-bit float
	TagString              // immutable text
	TagCallable            // functions, natives, classes and instances
)

// String implements [fmt.Stringer] for a [Tag].
func (t Tag) String() string {
	switch t {
	case TagNil:
		return "Nil"
	case TagBool:
		return "Bool"
	case TagNumber:
		return "Number"
	case TagString:
		return "String"
	case TagCallable:
		return "Callable"
	default:
		return "Unknown"
	}
}

// Value is the universal runtime carrier used by the interpreter.
//
// The tag determines which Go type Data holds:
//
//   - TagNil: nil
//   - TagBool: bool
//   - TagNumber: float64
//   - TagString: string
//   - TagCallable: [Callable]
type Value struct {
	Data any
	Tag  Tag
}

// Nil is the nil Value.
var Nil = Value{Tag: TagNil}

// Bool wraps a bool into a [Value].
func Bool(b bool) Value { return Value{Tag: TagBool, Data: b} }

// Number wraps a float64 into a [Value].
func Number(f float64) Value { return Value{Tag: TagNumber, Data: f} }

// String wraps a string into a [Value].
func String(s string) Value { return Value{Tag: TagString, Data: s} }

// CallableVal wraps a [Callable] into a [Value].
func CallableVal(c Callable) Value { return Value{Tag: TagCallable, Data: c} }

// Truthy reports the truthiness of a value: nil and false are false,
// everything else (including 0 and "") is true.
func (v Value) Truthy() bool {
	switch v.Tag {
	case TagNil:
		return false
	case TagBool:
		return v.Data.(bool)
	default:
		return true
	}
}

// Equal reports whether two values are equal.
//
// nil is equal only to nil; otherwise values of different kinds are never
// equal, numbers compare by IEEE-754 ==, strings by contents, and callables
// (functions, classes, instances) by identity.
func Equal(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}

	switch a.Tag {
	case TagNil:
		return true
	case TagBool:
		return a.Data.(bool) == b.Data.(bool)
	case TagNumber:
		return a.Data.(float64) == b.Data.(float64)
	case TagString:
		return a.Data.(string) == b.Data.(string)
	case TagCallable:
		return a.Data.(Callable) == b.Data.(Callable)
	default:
		return false
	}
}

// Stringify renders a value the way Lox displays it:
//
//   - nil → "nil"
//   - booleans → "true" / "false"
//   - numbers → shortest float representation, with a trailing ".0" stripped
//   - strings → their contents
//   - callables → a type specific display, e.g. "<fn add>" or "Foo instance"
func Stringify(v Value) string {
	switch v.Tag {
	case TagNil:
		return "nil"
	case TagBool:
		if v.Data.(bool) {
			return "true"
		}

		return "false"
	case TagNumber:
		// 'f' keeps plain decimal notation at any practical magnitude,
		// 'g' would flip to scientific form at 1e6 and beyond
		text := strconv.FormatFloat(v.Data.(float64), 'f', -1, 64)
		text = strings.TrimSuffix(text, ".0")

		return text
	case TagString:
		return v.Data.(string)
	case TagCallable:
		return v.Data.(Callable).String()
	default:
		return "<unknown>"
	}
}
