package proteus

// A Getter computes the value of a virtual property. It receives the
// entity the chain walk is currently at, which for an accessor defined on
// an ancestor is the ancestor, not the entity the read started from.
type Getter func(self *Entity, name string) (any, error)

// A Setter validates or applies a property write. For a stored property
// (a setter with no getter), the value is recorded in the entity's state
// only after the setter returns nil.
type Setter func(self *Entity, name string, value any) error

// PropKind classifies a property descriptor.
type PropKind int

const (
	// PropVirtual is a property with a getter. Reads invoke the getter;
	// writes invoke the setter, or fail if there is none.
	PropVirtual PropKind = iota
	// PropStored is a property with a setter only. Writes invoke the
	// setter and then record the value; reads return the recorded value.
	PropStored
)

// String returns "virtual" or "stored".
func (k PropKind) String() string {
	if k == PropVirtual {
		return "virtual"
	}
	return "stored"
}

// Descriptor is the tagged classification of one property, derived from
// an entity's get_ and set_ slots.
type Descriptor struct {
	Kind PropKind
	Get  Getter
	Set  Setter
}

// ReadOnly reports whether writes to the property fail.
func (d Descriptor) ReadOnly() bool {
	return d.Kind == PropVirtual && d.Set == nil
}

// GenProperties installs accessor slots on e for every name in names.
// The installed accessors close over their name and delegate to get and
// set, so one generic pair can back any number of properties. A nil get
// or set installs no slot of that kind.
func (e *Entity) GenProperties(names []string, get Getter, set Setter) {
	for _, name := range names {
		name := name
		if get != nil {
			e.setLocal(getPrefix+name, Getter(func(self *Entity, _ string) (any, error) {
				return get(self, name)
			}))
		}
		if set != nil {
			e.setLocal(setPrefix+name, Setter(func(self *Entity, _ string, value any) error {
				return set(self, name, value)
			}))
		}
	}
}

// StoredProperties installs accept-anything setters for the given names,
// making each a plain state-backed stored property on e.
func (e *Entity) StoredProperties(names ...string) {
	for _, name := range names {
		e.setLocal(setPrefix+name, Setter(acceptAny))
	}
}

// acceptAny is the setter installed by StoredProperties.
func acceptAny(*Entity, string, any) error {
	return nil
}
