package interp_test

import (
	"testing"

	"go.followtheprocess.codes/lox/internal/interp"
	"go.followtheprocess.codes/test"
)

func TestDefineAssignsContiguousSlots(t *testing.T) {
	env := interp.NewEnvironment(nil)

	test.Equal(t, env.Define(interp.Number(1)), 0)
	test.Equal(t, env.Define(interp.Number(2)), 1)
	test.Equal(t, env.Define(interp.Number(3)), 2)
	test.Equal(t, env.Len(), 3)
}

func TestGetAtWalksExactlyDepthHops(t *testing.T) {
	grandparent := interp.NewEnvironment(nil)
	parent := interp.NewEnvironment(grandparent)
	child := interp.NewEnvironment(parent)

	grandparent.Define(interp.String("grandparent"))
	parent.Define(interp.String("parent"))
	child.Define(interp.String("child"))

	// Each level holds its own slot 0; depth selects the level, never
	// falling short or overshooting
	test.Equal(t, interp.Stringify(child.GetAt(0, 0)), "child")
	test.Equal(t, interp.Stringify(child.GetAt(1, 0)), "parent")
	test.Equal(t, interp.Stringify(child.GetAt(2, 0)), "grandparent")
}

func TestAssignAt(t *testing.T) {
	parent := interp.NewEnvironment(nil)
	child := interp.NewEnvironment(parent)

	parent.Define(interp.Number(1))

	child.AssignAt(1, 0, interp.Number(99))

	test.Equal(t, parent.GetAt(0, 0).Data.(float64), float64(99))
}

func TestUndefinedSlotReadsAsNil(t *testing.T) {
	env := interp.NewEnvironment(nil)

	got := env.GetAt(0, 5)
	test.Equal(t, got.Tag, interp.TagNil)
}
