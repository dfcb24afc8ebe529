// Package testutils provides helpers for testing entity hierarchies.
package testutils

import (
	"testing"

	"github.com/prototropic/proteus"
)

// Root returns a fresh root entity. Roots are independent, so each test
// gets its own hierarchy and parallel tests cannot interfere.
func Root() *proteus.Entity {
	return proteus.NewRoot("Root")
}

// RecordSink is a report sink that records emitted lines.
type RecordSink struct {
	Lines []string
}

func (s *RecordSink) Line(text string) {
	s.Lines = append(s.Lines, text)
}

// CheckSlots is a testing helper to check whether an entity directly
// holds exactly the slots we expect.
func CheckSlots(t *testing.T, e *proteus.Entity, slots []string) {
	t.Helper()
	checked := make(map[string]bool, len(slots))
	for _, name := range slots {
		checked[name] = true
		t.Run("Have_"+name, func(t *testing.T) {
			if _, ok := e.GetLocalSlot(name); !ok {
				t.Fatal("no slot", name)
			}
		})
	}
	e.ForeachSlot(func(name string, value any) bool {
		t.Run("Want_"+name, func(t *testing.T) {
			if !checked[name] {
				t.Fatal("unexpected slot", name)
			}
		})
		return true
	})
}

// CheckChain is a testing helper to check an entity's super chain, from
// the entity itself to the root.
func CheckChain(t *testing.T, e *proteus.Entity, chain ...*proteus.Entity) {
	t.Helper()
	cur := e
	for i, want := range chain {
		if cur != want {
			t.Fatalf("wrong entity at depth %d: want %s, have %s", i, name(want), name(cur))
		}
		cur = cur.Super()
	}
	if cur != nil {
		t.Fatalf("chain too long: have %s after %d levels", name(cur), len(chain))
	}
}

func name(e *proteus.Entity) string {
	if e == nil {
		return "<nil>"
	}
	if e.Tag() != "" {
		return e.Tag()
	}
	return "untagged entity"
}
