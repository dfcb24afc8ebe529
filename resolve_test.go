package proteus_test

import (
	"errors"
	"testing"

	"github.com/prototropic/proteus"
	"github.com/prototropic/proteus/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStoredRoundTrip tests that a successful stored-property write is
// readable and recorded in the entity's state.
func TestStoredRoundTrip(t *testing.T) {
	root := testutils.Root()
	e := root.Subclass("E")
	e.StoredProperties("x")

	assert.False(t, e.HasState("x"))
	require.NoError(t, e.Set("x", 42))
	v, owner, err := e.Get("x")
	require.NoError(t, err)
	assert.Same(t, e, owner)
	assert.Equal(t, 42, v)
	assert.True(t, e.HasState("x"))
	s, ok := e.State("x")
	assert.True(t, ok)
	assert.Equal(t, 42, s)
}

// TestSetterFailureAtomicity tests that a failed setter propagates its
// error unchanged and leaves the previously stored value intact.
func TestSetterFailureAtomicity(t *testing.T) {
	root := testutils.Root()
	e := root.Subclass("E")
	rejected := errors.New("rejected")
	e.GenProperties([]string{"x"}, nil, func(self *proteus.Entity, name string, value any) error {
		if n, ok := value.(int); !ok || n < 0 {
			return rejected
		}
		return nil
	})

	require.NoError(t, e.Set("x", 1))
	err := e.Set("x", -5)
	assert.ErrorIs(t, err, rejected)
	v, _, err := e.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	s, _ := e.State("x")
	assert.Equal(t, 1, s)
}

// TestReadOnlyProperty tests that writing a property with a getter and no
// setter fails with ReadOnlyError and has no effect.
func TestReadOnlyProperty(t *testing.T) {
	root := testutils.Root()
	e := root.Subclass("E")
	e.GenProperties([]string{"k"}, func(self *proteus.Entity, name string) (any, error) {
		return "constant", nil
	}, nil)

	err := e.Set("k", "nope")
	var roErr *proteus.ReadOnlyError
	require.ErrorAs(t, err, &roErr)
	assert.Equal(t, "k", roErr.Name)

	v, _, err := e.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "constant", v)
}

// TestVirtualReadWrite tests a getter/setter pair backed by custom
// storage: writes go through the setter and reads through the getter,
// with nothing recorded in state.
func TestVirtualReadWrite(t *testing.T) {
	root := testutils.Root()
	e := root.Subclass("E")
	cell := map[string]any{}
	e.GenProperties([]string{"x"},
		func(self *proteus.Entity, name string) (any, error) { return cell[name], nil },
		func(self *proteus.Entity, name string, value any) error { cell[name] = value; return nil },
	)

	require.NoError(t, e.Set("x", "hello"))
	v, _, err := e.Get("x")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
	_, ok := e.State("x")
	assert.False(t, ok, "virtual writes must not touch state")
}

// TestGetterReceiverRebind tests that a getter defined on an ancestor is
// invoked with the ancestor as receiver, not the entity the read started
// from.
func TestGetterReceiverRebind(t *testing.T) {
	root := testutils.Root()
	a := root.Subclass("A")
	var recv *proteus.Entity
	a.GenProperties([]string{"who"}, func(self *proteus.Entity, name string) (any, error) {
		recv = self
		return self.Tag(), nil
	}, nil)
	b := a.Subclass("B")

	v, owner, err := b.Get("who")
	require.NoError(t, err)
	assert.Same(t, a, recv)
	assert.Same(t, a, owner)
	assert.Equal(t, "A", v)
}

// TestMissingRead tests that reading an undefined property is absence,
// not an error.
func TestMissingRead(t *testing.T) {
	root := testutils.Root()
	e := root.Subclass("E")
	v, owner, err := e.Get("nothing")
	assert.NoError(t, err)
	assert.Nil(t, owner)
	assert.Nil(t, v)
}

// TestStoredUnsetStopsWalk tests that a stored property with no recorded
// value produces absence at its defining level instead of delegating to a
// plain slot further up the chain.
func TestStoredUnsetStopsWalk(t *testing.T) {
	root := testutils.Root()
	require.NoError(t, root.Set("x", "shadowed"))
	a := root.Subclass("A")
	a.StoredProperties("x")
	b := a.Subclass("B")

	v, owner, err := b.Get("x")
	assert.NoError(t, err)
	assert.Nil(t, owner)
	assert.Nil(t, v)
}

// TestWriteDoesNotClimb tests the write-side contract end to end:
// accessors on the class do not engage for a write on an instance, which
// instead creates a plain shadowing slot; copying the accessors down
// makes the same write engage the stored path.
func TestWriteDoesNotClimb(t *testing.T) {
	root := testutils.Root()
	c := root.Subclass("C")
	c.StoredProperties("x")

	t.Run("FallsBackToPlainSlot", func(t *testing.T) {
		i, err := c.New()
		require.NoError(t, err)
		require.NoError(t, i.Set("x", 42))
		v, owner, err := i.Get("x")
		require.NoError(t, err)
		assert.Same(t, i, owner)
		assert.Equal(t, 42, v)
		_, ok := i.State("x")
		assert.False(t, ok)
		_, ok = c.State("x")
		assert.False(t, ok)
	})

	t.Run("EngagesAfterCopyDown", func(t *testing.T) {
		i, err := c.New()
		require.NoError(t, err)
		require.NoError(t, i.Inherit(c, false))
		require.NoError(t, i.Set("x", 7))
		s, ok := i.State("x")
		assert.True(t, ok)
		assert.Equal(t, 7, s)
		v, owner, err := i.Get("x")
		require.NoError(t, err)
		assert.Same(t, i, owner)
		assert.Equal(t, 7, v)
	})
}

// TestPlainSlotWinsAtLevel tests that a directly held plain slot
// short-circuits a later-installed accessor at the same level.
func TestPlainSlotWinsAtLevel(t *testing.T) {
	root := testutils.Root()
	e := root.Subclass("E")
	require.NoError(t, e.Set("x", 1))
	e.GenProperties([]string{"x"}, func(self *proteus.Entity, name string) (any, error) {
		return "virtual", nil
	}, nil)

	v, owner, err := e.Get("x")
	require.NoError(t, err)
	assert.Same(t, e, owner)
	assert.Equal(t, 1, v)
}

// TestPlainSlotWinsForWrites tests that a plain slot predating an
// accessor pair keeps winning for writes exactly as it does for reads,
// so a write that succeeds is always readable.
func TestPlainSlotWinsForWrites(t *testing.T) {
	t.Run("Stored", func(t *testing.T) {
		root := testutils.Root()
		e := root.Subclass("E")
		require.NoError(t, e.Set("x", 1))
		e.StoredProperties("x")

		require.NoError(t, e.Set("x", 2))
		v, owner, err := e.Get("x")
		require.NoError(t, err)
		assert.Same(t, e, owner)
		assert.Equal(t, 2, v)
		assert.False(t, e.HasState("x"), "the shadowed stored path must not engage")
	})

	t.Run("ReadOnlyVirtual", func(t *testing.T) {
		root := testutils.Root()
		e := root.Subclass("E")
		require.NoError(t, e.Set("x", 1))
		e.GenProperties([]string{"x"}, func(self *proteus.Entity, name string) (any, error) {
			return "virtual", nil
		}, nil)

		require.NoError(t, e.Set("x", 2))
		v, _, err := e.Get("x")
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})
}

// TestGenProperties tests bulk accessor generation over several names
// delegating to one generic pair.
func TestGenProperties(t *testing.T) {
	root := testutils.Root()
	e := root.Subclass("E")
	store := map[string]any{"a": 1, "b": 2}
	e.GenProperties([]string{"a", "b"},
		func(self *proteus.Entity, name string) (any, error) { return store[name], nil },
		func(self *proteus.Entity, name string, value any) error { store[name] = value; return nil },
	)

	cases := map[string]struct {
		name string
		want any
	}{
		"a": {"a", 1},
		"b": {"b", 2},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			v, _, err := e.Get(c.name)
			require.NoError(t, err)
			assert.Equal(t, c.want, v)
		})
	}

	require.NoError(t, e.Set("b", 20))
	assert.Equal(t, 20, store["b"])
	v, _, err := e.Get("b")
	require.NoError(t, err)
	assert.Equal(t, 20, v)
}

// TestHookCommandType tests that hook-install writes reject values that
// are not the matching hook function type.
func TestHookCommandType(t *testing.T) {
	root := testutils.Root()
	e := root.Subclass("E")
	err := e.Set("before_m", 42)
	var hookErr *proteus.HookTypeError
	require.ErrorAs(t, err, &hookErr)
	assert.Equal(t, "before_m", hookErr.Slot)
	_, ok := e.GetLocalSlot("before_m")
	assert.False(t, ok, "a failed hook install must not store a slot")
}

// TestCycleGuard tests that resolution fails fast with CycleError on a
// cyclic super chain instead of looping.
func TestCycleGuard(t *testing.T) {
	a := proteus.NewRoot("A")
	b := a.Subclass("B")
	a.SetSuper(b)

	_, _, err := b.Get("missing")
	var cycleErr *proteus.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, "missing", cycleErr.Name)
}

// TestGetLocal tests receiver-only reads with classification.
func TestGetLocal(t *testing.T) {
	root := testutils.Root()
	a := root.Subclass("A")
	require.NoError(t, a.Set("k", "inherited"))
	a.StoredProperties("x")
	require.NoError(t, a.Set("x", 3))
	b := a.Subclass("B")

	v, ok, err := a.GetLocal("x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok, err = b.GetLocal("k")
	require.NoError(t, err)
	assert.False(t, ok, "GetLocal must not climb")
}
