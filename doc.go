/*
Package proteus implements a minimal dynamically typed object model for Go
programs that want open classes and prototype-style instances without a
class system baked into the host.

Classes and instances are the same thing: an Entity with a descriptive
tag, a single super link, an optional store for property values, and
arbitrary named slots. Reads climb the super chain; writes land on the
receiver only. Slots named get_x and set_x define a virtual or stored
property x, and writes to before_m, after_m, and override_m install hooks
around the method m instead of storing a value.

	root := proteus.NewRoot("Root")
	animal := root.Subclass("Animal")
	animal.StoredProperties("name")
	animal.Set("speak", proteus.Method(func(self *proteus.Entity, args ...any) (any, error) {
		name, _, _ := self.Get("name")
		return fmt.Sprintf("%v makes a sound", name), nil
	}))
	dog, err := animal.New()

Entities are mutable shared state and are not synchronized; confine a
hierarchy to one goroutine or supply locking around it.
*/
package proteus
