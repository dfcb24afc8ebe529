package proteus

import (
	"sort"
	"strings"
)

// Accessor slot prefixes. A slot get_x holding a Getter and a slot set_x
// holding a Setter together define the property x.
const (
	getPrefix = "get_"
	setPrefix = "set_"
)

// GetLocalSlot checks only e's own slots for a slot. No classification is
// applied; accessors and hook chains are returned as stored.
func (e *Entity) GetLocalSlot(name string) (value any, ok bool) {
	value, ok = e.slots[name]
	return value, ok
}

// SetLocalSlot sets a slot on e directly, bypassing the write
// classification of Set. Accessor slots still update the property index.
func (e *Entity) SetLocalSlot(name string, value any) {
	e.setLocal(name, value)
}

// RemoveSlot removes slots from e's own slots, if they are present.
// Removing an accessor slot drops or downgrades the matching property.
func (e *Entity) RemoveSlot(names ...string) {
	for _, name := range names {
		if _, ok := e.slots[name]; !ok {
			continue
		}
		delete(e.slots, name)
		e.reindex(name)
	}
}

// ForeachSlot calls fn for each of e's own slots in sorted name order,
// until fn returns false.
func (e *Entity) ForeachSlot(fn func(name string, value any) bool) {
	for _, name := range sortedKeys(e.slots) {
		if !fn(name, e.slots[name]) {
			return
		}
	}
}

// LocalSlots returns a copy of e's own slots.
func (e *Entity) LocalSlots() map[string]any {
	slots := make(map[string]any, len(e.slots))
	for name, value := range e.slots {
		slots[name] = value
	}
	return slots
}

// Describe returns the property descriptor for name derived from e's own
// accessor slots. It does not consult the chain.
func (e *Entity) Describe(name string) (Descriptor, bool) {
	d, ok := e.props[name]
	return d, ok
}

// setLocal is the single raw write path. Every slot mutation funnels
// through here or RemoveSlot so that the property index stays current.
func (e *Entity) setLocal(name string, value any) {
	if e.slots == nil {
		e.slots = map[string]any{}
	}
	e.slots[name] = value
	e.reindex(name)
}

// reindex rebuilds the property descriptor affected by a write to slot,
// if any. A get_x slot that does not hold a Getter does not define a
// property; it is an ordinary slot that happens to share the prefix.
func (e *Entity) reindex(slot string) {
	var name string
	switch {
	case strings.HasPrefix(slot, getPrefix):
		name = slot[len(getPrefix):]
	case strings.HasPrefix(slot, setPrefix):
		name = slot[len(setPrefix):]
	default:
		return
	}
	if name == "" {
		return
	}
	get, _ := e.slots[getPrefix+name].(Getter)
	set, _ := e.slots[setPrefix+name].(Setter)
	switch {
	case get != nil:
		if e.props == nil {
			e.props = map[string]Descriptor{}
		}
		e.props[name] = Descriptor{Kind: PropVirtual, Get: get, Set: set}
	case set != nil:
		if e.props == nil {
			e.props = map[string]Descriptor{}
		}
		e.props[name] = Descriptor{Kind: PropStored, Set: set}
	default:
		delete(e.props, name)
	}
}

// sortedKeys returns the keys of m in sorted order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
