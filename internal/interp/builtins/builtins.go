// Package builtins provides the native function library available to every
// Lox program.
//
// Natives occupy the first slots of the global environment in the order
// [Library.Names] returns them, so the interpreter registers a library's
// functions and the resolver is seeded with the same names; the two must use
// the same [Library] for global slot numbering to line up.
package builtins

import (
	"time"

	"go.followtheprocess.codes/lox/internal/interp"
)

// Builtin is a single native function: its name, declared arity, and host
// implementation.
type Builtin struct {
	Fn    func(args []interp.Value) (interp.Value, error)
	Name  string
	Arity int
}

// Library is an ordered collection of [Builtin]s. Order matters: it fixes
// global slot assignment.
type Library []Builtin

// Names returns the names of the library's functions, in slot order.
func (l Library) Names() []string {
	names := make([]string, 0, len(l))
	for _, builtin := range l {
		names = append(names, builtin.Name)
	}

	return names
}

// epoch is the process start, the reference point for clock.
var epoch = time.Now()

// Standard returns the standard native library.
func Standard() Library {
	return Library{
		{
			Name:  "clock",
			Arity: 0,
			Fn: func(_ []interp.Value) (interp.Value, error) {
				return interp.Number(float64(time.Since(epoch).Milliseconds())), nil
			},
		},
	}
}

// Fixed returns a library identical in shape to [Standard] but with
// deterministic implementations, for use in tests.
func Fixed() Library {
	return Library{
		{
			Name:  "clock",
			Arity: 0,
			Fn: func(_ []interp.Value) (interp.Value, error) {
				return interp.Number(1000), nil
			},
		},
	}
}
