package proteus

import "sort"

// Inherit snapshots other's effective property set and copies it into e.
// With override, every flattened slot replaces e's own; otherwise only
// names e does not directly define are copied. The identity tag and super
// link are structural and are never touched, so Inherit grants e other's
// behavior without changing what e is or where it delegates.
//
// Stored-property state is merged from other's chain under the same
// override rule, and hooked method chains are copied, not shared, so
// hooks installed on e afterwards never mutate other. Values themselves
// are copied shallowly.
func (e *Entity) Inherit(other *Entity, override bool) error {
	if other == nil {
		return nil
	}
	flat, err := other.Flatten()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(flat))
	for name := range flat {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !override {
			if _, ok := e.slots[name]; ok {
				continue
			}
		}
		v := flat[name]
		if c, ok := v.(*MethodChain); ok {
			v = c.clone()
		}
		e.setLocal(name, v)
	}
	state, err := other.flattenState()
	if err != nil {
		return err
	}
	for name, value := range state {
		if !override {
			if _, ok := e.state[name]; ok {
				continue
			}
		}
		e.setState(name, value)
	}
	return nil
}

// Detach makes e self-sufficient: everything it currently inherits is
// copied down and the super link is severed, so later mutations of the
// old chain no longer affect e. Definitions e already owns win over
// inherited ones, which keeps the effective property set identical before
// and after. A detached entity keeps its tag and becomes its own root.
func (e *Entity) Detach() error {
	if e.super == nil {
		return nil
	}
	if err := e.Inherit(e.super, false); err != nil {
		return err
	}
	e.super = nil
	return nil
}
