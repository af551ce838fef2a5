package builtins_test

import (
	"slices"
	"testing"

	"go.followtheprocess.codes/lox/internal/interp"
	"go.followtheprocess.codes/lox/internal/interp/builtins"
	"go.followtheprocess.codes/test"
)

func TestNames(t *testing.T) {
	standard := builtins.Standard()
	fixed := builtins.Fixed()

	// The deterministic library must mirror the standard one exactly so
	// tests resolve against identical global slots
	test.EqualFunc(t, standard.Names(), fixed.Names(), slices.Equal)
	test.EqualFunc(t, standard.Names(), []string{"clock"}, slices.Equal)
}

func TestClock(t *testing.T) {
	standard := builtins.Standard()

	clock := standard[0]
	test.Equal(t, clock.Name, "clock")
	test.Equal(t, clock.Arity, 0)

	first, err := clock.Fn(nil)
	test.Ok(t, err)
	test.Equal(t, first.Tag, interp.TagNumber)

	second, err := clock.Fn(nil)
	test.Ok(t, err)

	// Monotonic: never goes backwards
	test.True(t, second.Data.(float64) >= first.Data.(float64))
}

func TestFixedClockIsDeterministic(t *testing.T) {
	clock := builtins.Fixed()[0]

	value, err := clock.Fn(nil)
	test.Ok(t, err)
	test.Equal(t, value.Data.(float64), float64(1000))
}
