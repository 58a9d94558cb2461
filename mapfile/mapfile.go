/*
Package mapfile implements a parser for hsgm map definitions.

A map definition is a line-oriented text file of "key = value" pairs. Keys
beginning with Texture, Collider or Trigger define an entry in the matching
palette, with the value being a comma-separated list of integers optionally
wrapped in square brackets:

	Texture01 = [255,0,0,255]
	Collider02 = [0,1]
	Trigger03 = [1]

Keys of the form Binding:<Kind>:<Name> associate a name with a string token
for the given kind, such as a texture path or a color:

	Binding:Texture:grass = grass.png
	Binding:Collider:solid = red

Any line without an '=' is ignored, as is any key that matches none of the
above. There is no explicit comment syntax.
*/
package mapfile

import "sort"

// Tuple is the list of integers defined by a single palette line.
type Tuple []int

func (t Tuple) clone() Tuple {
	if t == nil {
		return nil
	}
	return append(Tuple(nil), t...)
}

// Palette maps palette keys to their integer tuples.
type Palette struct {
	entries map[string]Tuple
}

// Lookup returns a copy of the tuple stored for key.
func (p Palette) Lookup(key string) (Tuple, bool) {
	t, ok := p.entries[key]
	if !ok {
		return nil, false
	}
	return t.clone(), true
}

// Len returns the number of entries in the palette
func (p Palette) Len() int {
	return len(p.entries)
}

// Keys returns the palette keys in sorted order.
func (p Palette) Keys() []string {
	keys := make([]string, 0, len(p.entries))
	for k := range p.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the palette as a plain map.
func (p Palette) Map() map[string]Tuple {
	m := make(map[string]Tuple, len(p.entries))
	for k, v := range p.entries {
		m[k] = v.clone()
	}
	return m
}

// Binding is the registry of name bindings for each kind.
type Binding struct {
	bindings map[Kind]map[string]string
}

// Get returns the value bound to name for kind, or an empty string.
func (b *Binding) Get(kind Kind, name string) string {
	return b.bindings[kind][name]
}

// TexturePath returns the path bound to the named texture.
func (b *Binding) TexturePath(name string) string {
	return b.Get(Texture, name)
}

// ColliderColor returns the color token bound to the collider type.
func (b *Binding) ColliderColor(typ string) string {
	return b.Get(Collider, typ)
}

// TriggerColor returns the color token bound to the trigger type.
func (b *Binding) TriggerColor(typ string) string {
	return b.Get(Trigger, typ)
}

// Names returns the bound names for kind in sorted order.
func (b *Binding) Names(kind Kind) []string {
	names := make([]string, 0, len(b.bindings[kind]))
	for n := range b.bindings[kind] {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Definition is the result of parsing a map definition. It is not modified
// once returned.
type Definition struct {
	binding  *Binding
	palettes map[Kind]Palette
}

// Binding returns the binding registry.
func (d *Definition) Binding() *Binding {
	return d.binding
}

// Palette returns the palette for kind.
func (d *Definition) Palette(kind Kind) Palette {
	return d.palettes[kind]
}

// Textures returns the texture palette.
func (d *Definition) Textures() Palette {
	return d.Palette(Texture)
}

// Colliders returns the collider palette.
func (d *Definition) Colliders() Palette {
	return d.Palette(Collider)
}

// Triggers returns the trigger palette.
func (d *Definition) Triggers() Palette {
	return d.Palette(Trigger)
}

// Builder accumulates palette entries and bindings. The zero value is ready
// to use.
type Builder struct {
	entries  map[Kind]map[string]Tuple
	bindings map[Kind]map[string]string
}

// NewBuilder returns an empty Builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Set stores t under key in the palette for kind, replacing any earlier value.
func (b *Builder) Set(kind Kind, key string, t Tuple) {
	if b.entries == nil {
		b.entries = make(map[Kind]map[string]Tuple)
	}
	if b.entries[kind] == nil {
		b.entries[kind] = make(map[string]Tuple)
	}
	b.entries[kind][key] = t.clone()
}

// Bind associates name with value for kind, replacing any earlier value.
func (b *Builder) Bind(kind Kind, name, value string) {
	if b.bindings == nil {
		b.bindings = make(map[Kind]map[string]string)
	}
	if b.bindings[kind] == nil {
		b.bindings[kind] = make(map[string]string)
	}
	b.bindings[kind][name] = value
}

// Definition returns a snapshot of everything added so far. Later calls to
// Set or Bind do not affect it.
func (b *Builder) Definition() *Definition {
	d := &Definition{
		binding:  &Binding{bindings: make(map[Kind]map[string]string, len(Kinds))},
		palettes: make(map[Kind]Palette, len(Kinds)),
	}
	for _, k := range Kinds {
		entries := make(map[string]Tuple, len(b.entries[k]))
		for key, t := range b.entries[k] {
			entries[key] = t.clone()
		}
		d.palettes[k] = Palette{entries: entries}

		bindings := make(map[string]string, len(b.bindings[k]))
		for name, v := range b.bindings[k] {
			bindings[name] = v
		}
		d.binding.bindings[k] = bindings
	}
	return d
}
