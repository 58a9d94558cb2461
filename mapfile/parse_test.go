package mapfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "test.map")
	require.NoError(t, os.WriteFile(file, []byte(contents), 0o644))
	return file
}

func TestParseFile(t *testing.T) {
	file := writeFile(t, `Texture01 = [255,0,0,255]
Collider02 = [0,1]
Trigger03 = [1]
Binding:Texture:grass = grass.png
Binding:Collider:solid = red
`)

	d, err := ParseFile(file)
	require.NoError(t, err)

	assert.Equal(t, map[string]Tuple{"Texture01": {255, 0, 0, 255}}, d.Textures().Map())
	assert.Equal(t, map[string]Tuple{"Collider02": {0, 1}}, d.Colliders().Map())
	assert.Equal(t, map[string]Tuple{"Trigger03": {1}}, d.Triggers().Map())
	assert.Equal(t, "grass.png", d.Binding().TexturePath("grass"))
	assert.Equal(t, "red", d.Binding().ColliderColor("solid"))
	assert.Equal(t, "", d.Binding().TriggerColor("solid"))
}

func TestParseRoundTrip(t *testing.T) {
	d, err := Parse(strings.NewReader("Texture01 = [10,20,30,40]\nBinding:Texture:wall = wall.png\n"))
	require.NoError(t, err)

	assert.Equal(t, map[string]Tuple{"Texture01": {10, 20, 30, 40}}, d.Textures().Map())
	assert.Equal(t, 0, d.Colliders().Len())
	assert.Equal(t, 0, d.Triggers().Len())
	assert.Equal(t, "wall.png", d.Binding().TexturePath("wall"))
}

func TestParsePalette(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		kind  Kind
		key   string
		tuple Tuple
	}{
		{"brackets", "Texture01 = [1,2,3,4]", Texture, "Texture01", Tuple{1, 2, 3, 4}},
		{"no brackets", "Texture01 = 1,2,3,4", Texture, "Texture01", Tuple{1, 2, 3, 4}},
		{"whitespace", "  Collider7   =   [ 5 , -6 ]  ", Collider, "Collider7", Tuple{5, -6}},
		{"no spaces", "Trigger=[9]", Trigger, "Trigger", Tuple{9}},
		{"prefix only match", "TextureAtlas = [0]", Texture, "TextureAtlas", Tuple{0}},
		{"crlf", "Trigger03 = [1,2]\r", Trigger, "Trigger03", Tuple{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(strings.NewReader(tt.line))
			require.NoError(t, err)

			p := d.Palette(tt.kind)
			assert.Equal(t, 1, p.Len())
			got, ok := p.Lookup(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.tuple, got)
		})
	}
}

func TestParseLastValueWins(t *testing.T) {
	d, err := Parse(strings.NewReader("Texture01 = [1]\nTexture01 = [2]\n"))
	require.NoError(t, err)

	got, ok := d.Textures().Lookup("Texture01")
	require.True(t, ok)
	assert.Equal(t, Tuple{2}, got)
}

func TestParseIgnoresLinesWithoutEquals(t *testing.T) {
	base := "Texture01 = [1,2]\nBinding:Trigger:door = blue\n"
	noisy := "# comment\n\nTexture01 = [1,2]\nTexture02 [3,4]\nBinding:Trigger:door = blue\nBinding:Texture:wall wall.png\n"

	want, err := Parse(strings.NewReader(base))
	require.NoError(t, err)
	got, err := Parse(strings.NewReader(noisy))
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestParseIgnoresUnknownKeys(t *testing.T) {
	d, err := Parse(strings.NewReader("Width = 10\ntexture01 = [abc]\nName = hello\n"))
	require.NoError(t, err)

	for _, k := range Kinds {
		assert.Equal(t, 0, d.Palette(k).Len(), k.String())
		assert.Empty(t, d.Binding().Names(k), k.String())
	}
}

func TestParseBinding(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		kind  Kind
		key   string
		value string
	}{
		{"texture", "Binding:Texture:grass = grass.png", Texture, "grass", "grass.png"},
		{"collider", "Binding:Collider:solid = red", Collider, "solid", "red"},
		{"trigger", "Binding:Trigger:door = 0,0,255,255", Trigger, "door", "0"},
		{"first token only", "Binding:Texture:wall = val1, val2", Texture, "wall", "val1"},
		{"brackets", "Binding:Texture:wall = [wall.png]", Texture, "wall", "wall.png"},
		{"whitespace", "Binding : Texture : wall =   wall.png  ", Texture, "wall", "wall.png"},
		{"non numeric", "Binding:Collider:lava = abc", Collider, "lava", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(strings.NewReader(tt.line))
			require.NoError(t, err)

			assert.Equal(t, tt.value, d.Binding().Get(tt.kind, tt.key))
			assert.Equal(t, []string{tt.key}, d.Binding().Names(tt.kind))
		})
	}
}

func TestParseDropsMalformedBinding(t *testing.T) {
	lines := []string{
		"Binding:Foo:name = x",
		"Binding:OnlyOnePart = x",
		"Binding = x",
		"Binding:Texture:a:b = x",
		"Binding:texture:grass = x",
		"BindingFoo:Texture:grass = x",
		"Bindings:Texture:grass = x",
		"Binding:Texture: = x",
		"Binding:Texture:   = x",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			d, err := Parse(strings.NewReader(line))
			require.NoError(t, err)

			for _, k := range Kinds {
				assert.Empty(t, d.Binding().Names(k))
				assert.Equal(t, 0, d.Palette(k).Len())
			}
		})
	}
}

func TestParseMalformedValue(t *testing.T) {
	d, err := Parse(strings.NewReader("Binding:Texture:wall = wall.png\nTexture01 = [10,abc,30,40]\nTexture02 = [1]\n"))
	require.Error(t, err)
	assert.Nil(t, d)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, "Texture01", perr.Key)
	assert.True(t, errors.Is(err, strconv.ErrSyntax))
}

func TestParseLongIgnoredLine(t *testing.T) {
	long := strings.Repeat("x", 2<<20)
	input := "Texture01 = [1]\nComment = " + long + "\n" + long + "\nTexture02 = [2]"

	d, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, map[string]Tuple{"Texture01": {1}, "Texture02": {2}}, d.Textures().Map())
}

func TestParseMalformedValueLineNumber(t *testing.T) {
	_, err := Parse(strings.NewReader("a\n\nb\nTrigger01 = [x]"))

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 4, perr.Line)
}

func TestParseEmptyValue(t *testing.T) {
	_, err := Parse(strings.NewReader("Collider01 = []"))
	assert.Error(t, err)
}

func TestParseFileMissing(t *testing.T) {
	d, err := ParseFile(filepath.Join(t.TempDir(), "missing.map"))
	assert.Nil(t, d)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var perr *fs.PathError
	assert.True(t, errors.As(err, &perr))
}

func TestLookupDefaults(t *testing.T) {
	d, err := Parse(strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, "", d.Binding().TexturePath("missing"))
	assert.Equal(t, "", d.Binding().ColliderColor("missing"))
	assert.Equal(t, "", d.Binding().TriggerColor("missing"))

	_, ok := d.Textures().Lookup("missing")
	assert.False(t, ok)
}

func TestDefinitionIsSnapshot(t *testing.T) {
	var b Builder
	b.Set(Texture, "Texture01", Tuple{1, 2})
	b.Bind(Texture, "grass", "grass.png")
	d := b.Definition()

	b.Set(Texture, "Texture01", Tuple{3, 4})
	b.Bind(Texture, "grass", "other.png")

	got, _ := d.Textures().Lookup("Texture01")
	assert.Equal(t, Tuple{1, 2}, got)
	assert.Equal(t, "grass.png", d.Binding().TexturePath("grass"))

	got[0] = 99
	again, _ := d.Textures().Lookup("Texture01")
	assert.Equal(t, Tuple{1, 2}, again)

	m := d.Textures().Map()
	m["Texture01"][0] = 99
	again, _ = d.Textures().Lookup("Texture01")
	assert.Equal(t, Tuple{1, 2}, again)
}

func TestPaletteKeys(t *testing.T) {
	d, err := Parse(strings.NewReader("Texture03 = [3]\nTexture01 = [1]\nTexture02 = [2]\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Texture01", "Texture02", "Texture03"}, d.Textures().Keys())
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, ok := ParseKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}

	_, ok := ParseKind("Binding")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", Kind(0).String())
}
