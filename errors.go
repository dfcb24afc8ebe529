package proteus

import "fmt"

// MaxChainDepth bounds every super-chain walk. A walk that exceeds it, or
// that revisits an entity, fails with a CycleError instead of looping.
const MaxChainDepth = 1 << 13

// ReadOnlyError is returned by Set when the target property has a getter
// but no setter on the receiving entity. The assignment has no effect.
type ReadOnlyError struct {
	Name   string
	Entity *Entity
}

func (err *ReadOnlyError) Error() string {
	return fmt.Sprintf("proteus: property %q on %s is read-only", err.Name, describeEntity(err.Entity))
}

// CycleError is returned by chain walks that revisit an entity or exceed
// MaxChainDepth. The super relation is an invariant the caller maintains;
// this error exists to fail fast when it is violated.
type CycleError struct {
	// Name is the slot being resolved, if any.
	Name string
	// Depth is the level at which the walk gave up.
	Depth int
}

func (err *CycleError) Error() string {
	if err.Name == "" {
		return fmt.Sprintf("proteus: super chain cycle detected at depth %d", err.Depth)
	}
	return fmt.Sprintf("proteus: super chain cycle detected at depth %d resolving %q", err.Depth, err.Name)
}

// HookTypeError is returned by Set when a hook-install write carries a
// value that is not the matching hook function type.
type HookTypeError struct {
	// Slot is the full written name, e.g. "before_init".
	Slot string
	// Value is the rejected value.
	Value any
}

func (err *HookTypeError) Error() string {
	return fmt.Sprintf("proteus: %q requires a hook function, got %T", err.Slot, err.Value)
}

// NotCallableError is returned by Invoke when the named slot is missing or
// does not hold a method.
type NotCallableError struct {
	Name string
	// Value is the resolved slot value; nil when the slot is missing.
	Value any
}

func (err *NotCallableError) Error() string {
	if err.Value == nil {
		return fmt.Sprintf("proteus: no method %q", err.Name)
	}
	return fmt.Sprintf("proteus: slot %q holds %T, not a method", err.Name, err.Value)
}

// describeEntity renders an entity for error messages.
func describeEntity(e *Entity) string {
	if e == nil {
		return "<nil>"
	}
	if e.tag != "" {
		return e.tag
	}
	return fmt.Sprintf("entity_%#x", e.id)
}
