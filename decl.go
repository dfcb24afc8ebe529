package proteus

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	yaml "gopkg.in/yaml.v2"
)

// declEntity is the YAML shape of one entity in a hierarchy document.
type declEntity struct {
	Name       string         `yaml:"name"`
	Slots      map[string]any `yaml:"slots"`
	Properties []string       `yaml:"properties"`
	Children   []declEntity   `yaml:"children"`
}

// Loader builds entity hierarchies from declarative YAML documents. A
// document is a tree of entities, each with a name (used as the identity
// tag), plain data slots, stored property names, and children:
//
//	name: Animal
//	properties: [name, sound]
//	slots:
//	  legs: 4
//	children:
//	  - name: Dog
//	    slots: {sound: woof}
//
// Methods and accessors cannot be declared in YAML; install them on the
// loaded entities afterwards.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a hierarchy loader. A nil logger uses slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads one hierarchy document and builds it beneath parent. With a
// nil parent, the document's top entity becomes a root. The result maps
// each declared name to its entity. Empty and duplicate names are errors;
// a failed entity build aborts the load with the partial hierarchy
// discarded by the caller.
func (l *Loader) Load(r io.Reader, parent *Entity) (map[string]*Entity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read hierarchy: %w", err)
	}
	var root declEntity
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse hierarchy: %w", err)
	}
	out := map[string]*Entity{}
	if err := l.build(root, parent, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Loader) build(d declEntity, parent *Entity, out map[string]*Entity) error {
	if d.Name == "" {
		return fmt.Errorf("hierarchy entity with no name")
	}
	if _, ok := out[d.Name]; ok {
		return fmt.Errorf("duplicate entity name %q", d.Name)
	}
	var e *Entity
	if parent == nil {
		e = NewRoot(d.Name)
	} else {
		e = parent.Subclass(d.Name)
	}
	if len(d.Properties) > 0 {
		e.StoredProperties(d.Properties...)
	}
	names := make([]string, 0, len(d.Slots))
	for name := range d.Slots {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := e.props[name]; !ok {
			copyDownProperty(e, name)
		}
		if err := e.Set(name, d.Slots[name]); err != nil {
			return fmt.Errorf("entity %q slot %q: %w", d.Name, name, err)
		}
	}
	l.logger.Debug("loaded entity",
		slog.String("name", d.Name),
		slog.Int("slots", len(d.Slots)),
		slog.Int("properties", len(d.Properties)),
		slog.Int("children", len(d.Children)))
	out[d.Name] = e
	for _, c := range d.Children {
		if err := l.build(c, e, out); err != nil {
			return err
		}
	}
	return nil
}

// copyDownProperty copies the nearest ancestor's accessor slots for name
// onto e. Writes engage only the receiver's own accessors, so a slot
// value declared on a child must find its inherited property here.
func copyDownProperty(e *Entity, name string) {
	for a, depth := e.super, 0; a != nil && depth < MaxChainDepth; a, depth = a.super, depth+1 {
		if _, ok := a.props[name]; !ok {
			continue
		}
		if g, ok := a.slots[getPrefix+name]; ok {
			e.setLocal(getPrefix+name, g)
		}
		if s, ok := a.slots[setPrefix+name]; ok {
			e.setLocal(setPrefix+name, s)
		}
		return
	}
}

// LoadHierarchy builds a hierarchy with a default Loader.
func LoadHierarchy(r io.Reader, parent *Entity) (map[string]*Entity, error) {
	return NewLoader(nil).Load(r, parent)
}
