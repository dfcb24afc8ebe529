package proteus

import "sync/atomic"

// Entity is the uniform record used for both classes and instances.
//
// Always create entities with NewRoot, Subclass, or New. A zero Entity has
// no unique ID and confuses the cycle guard.
type Entity struct {
	// tag is a descriptive label. It is never used for dispatch.
	tag string
	// super is the single parent, or nil for a root. It is shared, not
	// owned; many entities may have the same super.
	super *Entity
	// slots holds the entity's directly held values, methods, and
	// accessors. Created lazily.
	slots map[string]any
	// state holds the last written value of each stored property.
	// Created lazily on the first stored write.
	state map[string]any
	// props indexes property descriptors by property name. It is derived
	// from slots and rebuilt by setLocal/removeLocal.
	props map[string]Descriptor

	// id is the entity's unique ID.
	id uintptr
}

// entcounter is the global counter for entity IDs. All accesses to this
// must be atomic.
var entcounter uintptr

// nextEntity increments the entity counter and returns its value as a
// unique ID for a new entity.
func nextEntity() uintptr {
	return atomic.AddUintptr(&entcounter, 1)
}

// NewRoot creates a root entity with the given tag and no super. The root
// carries the default no-op init method so that New always finds one.
//
// Roots are not process-global; independent hierarchies may coexist.
func NewRoot(tag string) *Entity {
	e := &Entity{tag: tag, id: nextEntity()}
	e.setLocal("init", Method(initNop))
	return e
}

// initNop is the default initializer. Overriding or hooking init on any
// descendant changes what New invokes.
func initNop(self *Entity, args ...any) (any, error) {
	return nil, nil
}

// Subclass creates a fresh entity whose super is e and whose own slots are
// empty except for the identity tag.
func (e *Entity) Subclass(tag string) *Entity {
	return &Entity{tag: tag, super: e, id: nextEntity()}
}

// New creates an entity with e as its super and invokes the inherited init
// method on it with the given arguments. Conventionally New builds an
// instance of the class e, but the result is an ordinary entity and may be
// further subclassed or instantiated.
func (e *Entity) New(args ...any) (*Entity, error) {
	inst := e.Subclass("")
	init, owner, err := inst.Get("init")
	if err != nil {
		return nil, err
	}
	if owner != nil {
		if m := callable(init); m != nil {
			if _, err := m(inst, args...); err != nil {
				return nil, err
			}
		}
	}
	return inst, nil
}

// Call invokes e as a constructor. It is equivalent to e.New(args...).
func Call(e *Entity, args ...any) (*Entity, error) {
	return e.New(args...)
}

// Tag returns the entity's identity tag.
func (e *Entity) Tag() string {
	return e.tag
}

// SetTag sets the entity's identity tag.
func (e *Entity) SetTag(tag string) {
	e.tag = tag
}

// Super returns the entity's parent, or nil if the entity is a root.
func (e *Entity) Super() *Entity {
	return e.super
}

// SetSuper replaces the entity's parent. The super relation must remain
// acyclic and finite; the model does not verify this, but chain walks fail
// with a CycleError if it is violated.
func (e *Entity) SetSuper(super *Entity) {
	e.super = super
}

// UniqueID returns the entity's unique ID.
func (e *Entity) UniqueID() uintptr {
	return e.id
}

// State returns the recorded value of the stored property name on e
// itself, without consulting the chain.
func (e *Entity) State(name string) (value any, ok bool) {
	value, ok = e.state[name]
	return value, ok
}

// HasState reports whether e itself records a value for the stored
// property name.
func (e *Entity) HasState(name string) bool {
	_, ok := e.state[name]
	return ok
}

// setState records a stored property value, creating the store if absent.
func (e *Entity) setState(name string, value any) {
	if e.state == nil {
		e.state = map[string]any{}
	}
	e.state[name] = value
}
