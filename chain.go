package proteus

import (
	"github.com/zephyrtronium/contains"
)

// Slot is one (name, value, owner) triple produced by Walk.
type Slot struct {
	Name  string
	Value any
	// Owner is the entity that directly holds the slot.
	Owner *Entity
}

// Walk enumerates every directly held slot reachable from e, most
// specific level first: all of e's own slots, then its super's, and so on
// to the root. Names are sorted within a level; the same name may appear
// once per level that defines it. Enumeration stops early when fn returns
// false. The super and state containers and the identity tag are
// structural, not slots, and are never enumerated.
func (e *Entity) Walk(fn func(Slot) bool) error {
	seen := contains.Set{}
	cur := e
	for depth := 0; cur != nil; depth++ {
		if depth >= MaxChainDepth || !seen.Add(cur.id) {
			return &CycleError{Depth: depth}
		}
		for _, name := range sortedKeys(cur.slots) {
			if !fn(Slot{Name: name, Value: cur.slots[name], Owner: cur}) {
				return nil
			}
		}
		cur = cur.super
	}
	return nil
}

// Flatten consumes a walk of e into the effective property set: a map
// from name to the value at the most specific level that defines it.
func (e *Entity) Flatten() (map[string]any, error) {
	flat := map[string]any{}
	err := e.Walk(func(s Slot) bool {
		if _, ok := flat[s.Name]; !ok {
			flat[s.Name] = s.Value
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return flat, nil
}

// flattenState merges the stored-property state of e's chain, most
// specific level first.
func (e *Entity) flattenState() (map[string]any, error) {
	flat := map[string]any{}
	seen := contains.Set{}
	cur := e
	for depth := 0; cur != nil; depth++ {
		if depth >= MaxChainDepth || !seen.Add(cur.id) {
			return nil, &CycleError{Depth: depth}
		}
		for name, value := range cur.state {
			if _, ok := flat[name]; !ok {
				flat[name] = value
			}
		}
		cur = cur.super
	}
	return flat, nil
}
