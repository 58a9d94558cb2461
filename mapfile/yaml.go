package mapfile

import (
	"io"

	"gopkg.in/yaml.v3"
)

type yamlBindings struct {
	Texture  map[string]string `yaml:"texture,omitempty"`
	Collider map[string]string `yaml:"collider,omitempty"`
	Trigger  map[string]string `yaml:"trigger,omitempty"`
}

type yamlDefinition struct {
	Textures  map[string][]int `yaml:"textures,omitempty"`
	Colliders map[string][]int `yaml:"colliders,omitempty"`
	Triggers  map[string][]int `yaml:"triggers,omitempty"`
	Bindings  yamlBindings     `yaml:"bindings"`
}

func paletteToYAML(p Palette) map[string][]int {
	if p.Len() == 0 {
		return nil
	}
	m := make(map[string][]int, p.Len())
	for k, t := range p.entries {
		m[k] = []int(t.clone())
	}
	return m
}

func bindingsToYAML(b *Binding, kind Kind) map[string]string {
	if len(b.bindings[kind]) == 0 {
		return nil
	}
	m := make(map[string]string, len(b.bindings[kind]))
	for k, v := range b.bindings[kind] {
		m[k] = v
	}
	return m
}

// WriteYAML writes d to w as a YAML document.
func (d *Definition) WriteYAML(w io.Writer) error {
	doc := yamlDefinition{
		Textures:  paletteToYAML(d.Textures()),
		Colliders: paletteToYAML(d.Colliders()),
		Triggers:  paletteToYAML(d.Triggers()),
		Bindings: yamlBindings{
			Texture:  bindingsToYAML(d.binding, Texture),
			Collider: bindingsToYAML(d.binding, Collider),
			Trigger:  bindingsToYAML(d.binding, Trigger),
		},
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}
