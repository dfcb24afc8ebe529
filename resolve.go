package proteus

import (
	"github.com/zephyrtronium/contains"
)

// Get resolves a read of e.name, checking ancestors one level at a time.
// The owner is the entity that resolved the read; it is nil if and only
// if no level produced a value, which is not an error.
//
// At each level, a directly held plain slot wins, then a virtual getter,
// then a stored property. A virtual getter runs with the level's entity
// as receiver; see Getter. A stored property with no recorded value ends
// the walk with no value rather than delegating past its definition.
func (e *Entity) Get(name string) (value any, owner *Entity, err error) {
	seen := contains.Set{}
	cur := e
	for depth := 0; cur != nil; depth++ {
		if depth >= MaxChainDepth || !seen.Add(cur.id) {
			return nil, nil, &CycleError{Name: name, Depth: depth}
		}
		if v, ok := cur.slots[name]; ok {
			return v, cur, nil
		}
		if d, ok := cur.props[name]; ok {
			if d.Kind == PropVirtual {
				v, err := d.Get(cur, name)
				if err != nil {
					return nil, nil, err
				}
				return v, cur, nil
			}
			if v, ok := cur.state[name]; ok {
				return v, cur, nil
			}
			return nil, nil, nil
		}
		cur = cur.super
	}
	return nil, nil, nil
}

// GetLocal resolves a read against e's own slots and state only, applying
// the same classification as Get but without delegation.
func (e *Entity) GetLocal(name string) (value any, ok bool, err error) {
	if v, ok := e.slots[name]; ok {
		return v, true, nil
	}
	d, ok := e.props[name]
	if !ok {
		return nil, false, nil
	}
	if d.Kind == PropVirtual {
		v, err := d.Get(e, name)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
	v, ok := e.state[name]
	return v, ok, nil
}

// Set resolves a write of e.name = value. Writes never climb the chain:
// only accessors directly present on e engage the property paths, even if
// an ancestor defines the same property. Getting that behavior on an
// instance requires copying the accessors down, e.g. with Inherit or
// during init.
//
// A directly held plain slot wins over a same-level accessor, exactly as
// it does for reads, so a write that succeeds is always readable. A
// getter with no setter yields a ReadOnlyError. A stored property
// records the value only after its setter returns nil, so a failed write
// leaves the previous value intact. Names of the form before_m, after_m,
// and override_m are hook-install commands; see the hook types. Anything
// else is stored as a plain slot, shadowing same-named inherited slots
// for reads that end here.
func (e *Entity) Set(name string, value any) error {
	if _, ok := e.slots[name]; ok {
		e.setLocal(name, value)
		return nil
	}
	if d, ok := e.props[name]; ok {
		if d.Kind == PropVirtual {
			if d.Set == nil {
				return &ReadOnlyError{Name: name, Entity: e}
			}
			return d.Set(e, name, value)
		}
		if err := d.Set(e, name, value); err != nil {
			return err
		}
		e.setState(name, value)
		return nil
	}
	if kind, method, ok := hookCommand(name); ok {
		return e.installHook(kind, method, name, value)
	}
	e.setLocal(name, value)
	return nil
}
