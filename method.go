package proteus

import "strings"

// A Method is a callable slot value. Invoke passes the entity the call
// started from as self, regardless of which level defined the method.
type Method func(self *Entity, args ...any) (any, error)

// A BeforeHook runs before the method it wraps. It receives the receiver
// and the original arguments and returns the argument list to forward.
type BeforeHook func(self *Entity, args []any) ([]any, error)

// An AfterHook runs after the method it wraps. It receives only the
// result of the wrapped call; its return value becomes the overall
// result. It does not run when the wrapped call fails.
type AfterHook func(result any) (any, error)

// An OverrideHook replaces the method it wraps. It receives the receiver,
// the wrapped method, and the original arguments, and decides whether and
// how to invoke the original.
type OverrideHook func(self *Entity, original Method, args ...any) (any, error)

// HookKind identifies a hook stage.
type HookKind int

const (
	BeforeStage HookKind = iota
	AfterStage
	OverrideStage
)

// Hook command prefixes recognized by Set.
const (
	beforeCmd   = "before_"
	afterCmd    = "after_"
	overrideCmd = "override_"
)

func (k HookKind) String() string {
	switch k {
	case BeforeStage:
		return "before"
	case AfterStage:
		return "after"
	default:
		return "override"
	}
}

// stage is one installed hook.
type stage struct {
	kind     HookKind
	before   BeforeHook
	after    AfterHook
	override OverrideHook
}

// wrap layers the stage around next.
func (st stage) wrap(next Method) Method {
	switch st.kind {
	case BeforeStage:
		h := st.before
		return func(self *Entity, args ...any) (any, error) {
			forwarded, err := h(self, args)
			if err != nil {
				return nil, err
			}
			return next(self, forwarded...)
		}
	case AfterStage:
		h := st.after
		return func(self *Entity, args ...any) (any, error) {
			result, err := next(self, args...)
			if err != nil {
				return nil, err
			}
			return h(result)
		}
	default:
		h := st.override
		return func(self *Entity, args ...any) (any, error) {
			return h(self, next, args...)
		}
	}
}

// MethodChain is a hooked method: a base implementation plus the ordered
// hook stages installed around it. The chain lives in the method's slot
// on the entity the hooks were installed on, and the stages compose at
// call time, so the installation order stays auditable and reversible.
type MethodChain struct {
	base Method
	// ownBase records whether base was captured from the same entity's
	// own slot, so RemoveHook can put it back.
	ownBase bool
	stages  []stage
}

// Base returns the captured original method.
func (c *MethodChain) Base() Method {
	return c.base
}

// Len returns the number of installed stages.
func (c *MethodChain) Len() int {
	return len(c.stages)
}

// compose builds the effective method. Later stages wrap earlier ones, so
// the most recently installed before hook runs first on entry and the
// most recently installed after hook runs last on exit.
func (c *MethodChain) compose() Method {
	m := c.base
	for _, st := range c.stages {
		m = st.wrap(m)
	}
	return m
}

// clone copies the chain so that hooking one entity never mutates a chain
// copied from another.
func (c *MethodChain) clone() *MethodChain {
	return &MethodChain{
		base:    c.base,
		ownBase: c.ownBase,
		stages:  append([]stage(nil), c.stages...),
	}
}

// nop is the base for hooks installed where no method exists.
func nop(*Entity, ...any) (any, error) {
	return nil, nil
}

// callable converts a slot value into an invocable method, or nil.
func callable(v any) Method {
	switch m := v.(type) {
	case Method:
		return m
	case func(*Entity, ...any) (any, error):
		return m
	case *MethodChain:
		return m.compose()
	}
	return nil
}

// Invoke resolves the method name through Get and calls it with e as the
// receiver and the given arguments.
func (e *Entity) Invoke(name string, args ...any) (any, error) {
	v, owner, err := e.Get(name)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, &NotCallableError{Name: name}
	}
	m := callable(v)
	if m == nil {
		return nil, &NotCallableError{Name: name, Value: v}
	}
	return m(e, args...)
}

// HookStages returns the kinds of the hooks installed on e's own method
// chain for name, in installation order. It is nil when e does not
// directly hold a chain for name.
func (e *Entity) HookStages(name string) []HookKind {
	c, _ := e.slots[name].(*MethodChain)
	if c == nil {
		return nil
	}
	kinds := make([]HookKind, len(c.stages))
	for i, st := range c.stages {
		kinds[i] = st.kind
	}
	return kinds
}

// RemoveHook removes the most recently installed hook on e's own chain
// for name. When the last stage goes, the slot reverts to the captured
// base method, or disappears if the base was inherited. It reports
// whether a hook was removed.
func (e *Entity) RemoveHook(name string) bool {
	c, _ := e.slots[name].(*MethodChain)
	if c == nil || len(c.stages) == 0 {
		return false
	}
	c.stages = c.stages[:len(c.stages)-1]
	if len(c.stages) == 0 {
		if c.ownBase {
			e.setLocal(name, c.base)
		} else {
			e.RemoveSlot(name)
		}
	}
	return true
}

// hookCommand splits a hook-install name into its kind and target method.
// Bare prefixes such as "before_" are ordinary slot names.
func hookCommand(name string) (HookKind, string, bool) {
	switch {
	case strings.HasPrefix(name, beforeCmd) && len(name) > len(beforeCmd):
		return BeforeStage, name[len(beforeCmd):], true
	case strings.HasPrefix(name, afterCmd) && len(name) > len(afterCmd):
		return AfterStage, name[len(afterCmd):], true
	case strings.HasPrefix(name, overrideCmd) && len(name) > len(overrideCmd):
		return OverrideStage, name[len(overrideCmd):], true
	}
	return 0, "", false
}

// installHook captures the current (possibly inherited) method for the
// target via an ordinary read, falling back to a no-op, and appends a
// stage to the chain on e. slot is the full written name, kept for error
// reporting.
func (e *Entity) installHook(kind HookKind, method, slot string, v any) error {
	st := stage{kind: kind}
	switch kind {
	case BeforeStage:
		h := asBeforeHook(v)
		if h == nil {
			return &HookTypeError{Slot: slot, Value: v}
		}
		st.before = h
	case AfterStage:
		h := asAfterHook(v)
		if h == nil {
			return &HookTypeError{Slot: slot, Value: v}
		}
		st.after = h
	default:
		h := asOverrideHook(v)
		if h == nil {
			return &HookTypeError{Slot: slot, Value: v}
		}
		st.override = h
	}
	if own, ok := e.slots[method]; ok {
		if c, ok := own.(*MethodChain); ok {
			c.stages = append(c.stages, st)
			return nil
		}
	}
	cur, owner, err := e.Get(method)
	if err != nil {
		return err
	}
	base := callable(cur)
	ownBase := owner == e && base != nil
	if base == nil {
		base = nop
	}
	e.setLocal(method, &MethodChain{base: base, ownBase: ownBase, stages: []stage{st}})
	return nil
}

func asBeforeHook(v any) BeforeHook {
	switch h := v.(type) {
	case BeforeHook:
		return h
	case func(*Entity, []any) ([]any, error):
		return h
	}
	return nil
}

func asAfterHook(v any) AfterHook {
	switch h := v.(type) {
	case AfterHook:
		return h
	case func(any) (any, error):
		return h
	}
	return nil
}

func asOverrideHook(v any) OverrideHook {
	switch h := v.(type) {
	case OverrideHook:
		return h
	case func(*Entity, Method, ...any) (any, error):
		return h
	}
	return nil
}
