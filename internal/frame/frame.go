package frame

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/framevel/internal/coord"
)

// AttrSpec declares one attribute of a frame class and its default value.
type AttrSpec struct {
	Name    string
	Default Attribute
}

// Class is a frame kind. Two frames are the same kind for transform lookup
// when they share a *Class; attribute values only parameterize instances.
//
// Classes are created once at setup and never modified afterwards.
type Class struct {
	name  string
	attrs []AttrSpec
}

// NewClass declares a frame class with the given attribute schema.
// Attribute names must be unique and defaults non-nil.
func NewClass(name string, attrs ...AttrSpec) (*Class, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("frame class name is required")
	}
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		if a.Name == "" {
			return nil, fmt.Errorf("frame class %s: attribute name is required", name)
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("frame class %s: duplicate attribute %q", name, a.Name)
		}
		if a.Default == nil {
			return nil, fmt.Errorf("frame class %s: attribute %q has no default", name, a.Name)
		}
		seen[a.Name] = true
	}
	specs := make([]AttrSpec, len(attrs))
	copy(specs, attrs)
	return &Class{name: name, attrs: specs}, nil
}

// MustClass is NewClass that panics on error. Intended for package-level
// class declarations.
func MustClass(name string, attrs ...AttrSpec) *Class {
	c, err := NewClass(name, attrs...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

func (c *Class) String() string { return c.name }

// Has reports whether the class declares the named attribute.
func (c *Class) Has(name string) bool {
	_, ok := c.Default(name)
	return ok
}

// Default returns the declared default of the named attribute.
func (c *Class) Default(name string) (Attribute, bool) {
	for _, a := range c.attrs {
		if a.Name == name {
			return a.Default, true
		}
	}
	return nil, false
}

// AttrNames returns the declared attribute names in declaration order.
func (c *Class) AttrNames() []string {
	names := make([]string, len(c.attrs))
	for i, a := range c.attrs {
		names[i] = a.Name
	}
	return names
}

// New builds a data-less frame of this class. Attributes not present in
// overrides take their defaults; overrides naming undeclared attributes are
// rejected.
func (c *Class) New(overrides map[string]Attribute) (Frame, error) {
	attrs := make(map[string]Attribute, len(c.attrs))
	for _, a := range c.attrs {
		attrs[a.Name] = a.Default
	}
	for name, v := range overrides {
		if !c.Has(name) {
			return Frame{}, fmt.Errorf("frame %s has no attribute %q", c.name, name)
		}
		if v == nil {
			return Frame{}, fmt.Errorf("frame %s: attribute %q is nil", c.name, name)
		}
		attrs[name] = v
	}
	return Frame{class: c, attrs: attrs}, nil
}

// Frame is an immutable frame instance: a class, its attribute values and an
// optional representation.
type Frame struct {
	class *Class
	attrs map[string]Attribute
	data  coord.Representation
}

// Class returns the frame class.
func (f Frame) Class() *Class { return f.class }

// Name returns the class name.
func (f Frame) Name() string {
	if f.class == nil {
		return ""
	}
	return f.class.name
}

// Attr returns the named attribute value.
func (f Frame) Attr(name string) (Attribute, bool) {
	a, ok := f.attrs[name]
	return a, ok
}

// Epoch returns the named attribute as an Epoch.
func (f Frame) Epoch(name string) (Epoch, error) {
	a, ok := f.attrs[name]
	if !ok {
		return Epoch{}, fmt.Errorf("frame %s has no attribute %q", f.Name(), name)
	}
	e, ok := a.(Epoch)
	if !ok {
		return Epoch{}, fmt.Errorf("frame %s: attribute %q is %T, not Epoch", f.Name(), name, a)
	}
	return e, nil
}

// Vector returns the named attribute as a VectorAttr.
func (f Frame) Vector(name string) (VectorAttr, error) {
	a, ok := f.attrs[name]
	if !ok {
		return VectorAttr{}, fmt.Errorf("frame %s has no attribute %q", f.Name(), name)
	}
	v, ok := a.(VectorAttr)
	if !ok {
		return VectorAttr{}, fmt.Errorf("frame %s: attribute %q is %T, not VectorAttr", f.Name(), name, a)
	}
	return v, nil
}

// Attrs returns a copy of the attribute values.
func (f Frame) Attrs() map[string]Attribute {
	out := make(map[string]Attribute, len(f.attrs))
	for k, v := range f.attrs {
		out[k] = v
	}
	return out
}

// Data returns the frame's representation (the zero Representation when the
// frame has no data).
func (f Frame) Data() coord.Representation { return f.data }

// HasData reports whether the frame carries a representation.
func (f Frame) HasData() bool { return !f.data.IsZero() }

// Realize returns a frame of the same class and attributes holding rep.
// This is the only way transforms produce output frames.
func (f Frame) Realize(rep coord.Representation) Frame {
	return Frame{class: f.class, attrs: f.attrs, data: rep}
}

// WithoutData returns the frame stripped of its representation.
func (f Frame) WithoutData() Frame {
	return Frame{class: f.class, attrs: f.attrs}
}

// Replicate returns a copy of f with one attribute replaced.
func (f Frame) Replicate(name string, v Attribute) (Frame, error) {
	if f.class == nil || !f.class.Has(name) {
		return Frame{}, fmt.Errorf("frame %s has no attribute %q", f.Name(), name)
	}
	attrs := f.Attrs()
	attrs[name] = v
	return Frame{class: f.class, attrs: attrs, data: f.data}, nil
}

// BatchLen returns the broadcast length of the frame data and the named
// attributes. Unknown names are ignored.
func (f Frame) BatchLen(names ...string) (int, error) {
	lengths := []int{}
	if f.HasData() {
		lengths = append(lengths, f.data.Len())
	}
	for _, n := range names {
		if a, ok := f.attrs[n]; ok {
			lengths = append(lengths, a.Len())
		}
	}
	return coord.Broadcast(f.Name(), lengths...)
}

// SameAttrs reports whether two frames carry equal values for every attribute.
func (f Frame) SameAttrs(o Frame) bool {
	if len(f.attrs) != len(o.attrs) {
		return false
	}
	for k, v := range f.attrs {
		ov, ok := o.attrs[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

func (f Frame) String() string {
	names := make([]string, 0, len(f.attrs))
	for k := range f.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = k + "=" + f.attrs[k].String()
	}
	return fmt.Sprintf("<%s Frame (%s)>", f.Name(), strings.Join(parts, ", "))
}
