package proteus

import (
	"fmt"
	"io"
	"strings"

	"github.com/zephyrtronium/contains"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// A Sink receives the lines of an introspection report. It is the only
// I/O boundary in the model; formatting beyond line layout is up to the
// implementation.
type Sink interface {
	Line(text string)
}

// WriterSink is a Sink that writes each line to W followed by a newline.
type WriterSink struct {
	W io.Writer
}

// Line writes text to W followed by a newline.
func (s WriterSink) Line(text string) {
	fmt.Fprintln(s.W, text)
}

// reportCollator orders names in reports. Collation keys the order to
// text rather than bytes so reports stay stable across value types.
var reportCollator = collate.New(language.Und)

// Report walks e's chain and emits a human-readable description of every
// level through sink: a header naming the level, then its properties and
// plain slots in collated name order with their current values. Virtual
// property values are computed with the level's entity as receiver;
// getter failures are rendered inline rather than aborting the report.
func (e *Entity) Report(sink Sink) error {
	seen := contains.Set{}
	cur := e
	for depth := 0; cur != nil; depth++ {
		if depth >= MaxChainDepth || !seen.Add(cur.id) {
			return &CycleError{Depth: depth}
		}
		sink.Line(levelHeader(depth, cur))
		names := make([]string, 0, len(cur.props))
		for name := range cur.props {
			names = append(names, name)
		}
		reportCollator.SortStrings(names)
		for _, name := range names {
			d := cur.props[name]
			sink.Line(fmt.Sprintf("  property %s [%s] = %s", name, accessMode(d), renderProperty(cur, name, d)))
		}
		names = names[:0]
		for name := range cur.slots {
			if isAccessorSlot(cur, name) {
				continue
			}
			names = append(names, name)
		}
		reportCollator.SortStrings(names)
		for _, name := range names {
			sink.Line(fmt.Sprintf("  slot %s = %s", name, renderValue(cur.slots[name])))
		}
		cur = cur.super
	}
	return nil
}

// levelHeader identifies a level as self or the n-th ancestor, with the
// identity tag when one is set.
func levelHeader(depth int, e *Entity) string {
	var b strings.Builder
	if depth == 0 {
		b.WriteString("== self")
	} else {
		fmt.Fprintf(&b, "== ancestor %d", depth)
	}
	if e.tag != "" {
		fmt.Fprintf(&b, " (%s)", e.tag)
	}
	b.WriteString(" ==")
	return b.String()
}

// accessMode reports how a property may be used: rw, ro, or stored.
func accessMode(d Descriptor) string {
	switch {
	case d.Kind == PropStored:
		return "stored"
	case d.Set == nil:
		return "ro"
	default:
		return "rw"
	}
}

// renderProperty renders a property's current value at the given level.
func renderProperty(e *Entity, name string, d Descriptor) string {
	if d.Kind == PropVirtual {
		v, err := d.Get(e, name)
		if err != nil {
			return fmt.Sprintf("<error: %v>", err)
		}
		return renderValue(v)
	}
	v, ok := e.state[name]
	if !ok {
		return "<unset>"
	}
	return renderValue(v)
}

// isAccessorSlot reports whether the slot backs a property descriptor and
// is therefore reported as part of the property instead.
func isAccessorSlot(e *Entity, slot string) bool {
	switch {
	case strings.HasPrefix(slot, getPrefix):
		d, ok := e.props[slot[len(getPrefix):]]
		return ok && d.Kind == PropVirtual
	case strings.HasPrefix(slot, setPrefix):
		_, ok := e.props[slot[len(setPrefix):]]
		return ok
	}
	return false
}

// renderValue renders a slot value as text. Callables are summarized
// instead of printing function addresses.
func renderValue(v any) string {
	switch v := v.(type) {
	case *MethodChain:
		return fmt.Sprintf("<method, %d hooks>", v.Len())
	case Method, func(*Entity, ...any) (any, error):
		return "<method>"
	case Getter:
		return "<getter>"
	case Setter:
		return "<setter>"
	case string:
		return fmt.Sprintf("%q", v)
	case nil:
		return "<nil>"
	}
	return fmt.Sprintf("%v", v)
}
