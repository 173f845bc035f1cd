package nanoblocks

import "slices"

// Definition is a resolved block: its handler layers and methods.
//
// A simple definition (created by Define or Extend) has exactly one layer; any
// base block's handlers are already merged into it. A composite definition,
// resolved from a space-separated name such as "popup draggable", has one layer
// per listed name in the listed order. Layers are concatenated as-is: a name
// mixed in twice contributes its handlers twice.
type Definition struct {
	name      string
	base      *Definition
	layers    []*Layer
	methods   map[string]any
	composite bool
}

// Name returns the name the definition was registered or resolved under.
func (d *Definition) Name() string { return d.name }

// Base returns the block this one extends, or nil.
func (d *Definition) Base() *Definition { return d.base }

// IsComposite reports whether d was composed from several names.
func (d *Definition) IsComposite() bool { return d.composite }

// Layers returns the behavior layers in dispatch order.
func (d *Definition) Layers() []*Layer { return slices.Clone(d.layers) }

// Method returns a named method. Extended blocks see their base's methods and
// composites see those of every listed name, later names winning.
func (d *Definition) Method(name string) (any, bool) {
	m, ok := d.methods[name]
	return m, ok
}

// handles reports whether any layer declares handlers for the DOM type.
func (d *Definition) handles(typ string) bool {
	for _, l := range d.layers {
		if _, ok := l.dom[typ]; ok {
			return true
		}
	}
	return false
}
