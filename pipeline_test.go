package hsgm

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bodgit/hsgm/mapfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDefinition(t *testing.T) {
	assert.True(t, isDefinition("level.map"))
	assert.True(t, isDefinition("dir/level.HSGM"))
	assert.False(t, isDefinition("level.png"))
	assert.False(t, isDefinition("map"))
}

func TestScan(t *testing.T) {
	h := newTestHSGM(t)
	dir := t.TempDir()

	writeDefinition(t, dir, "level1.map", testDefinition)
	writeDefinition(t, dir, "world/level2.hsgm", "Binding:Texture:wall = stone.png\n")
	writeDefinition(t, dir, "world/deep/level3.map", "Trigger01 = [7]\n")
	writeDefinition(t, dir, "notes.txt", "Texture01 = [abc]\n")
	writeDefinition(t, dir, ".hidden/level4.map", "Texture01 = [1]\n")
	writeDefinition(t, dir, ".level5.map", "Texture01 = [1]\n")

	require.NoError(t, h.Scan(dir))

	names, err := h.Catalog().Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"level1", "level2", "level3"}, names)

	matches, err := h.Lookup(mapfile.Texture, "wall")
	require.NoError(t, err)
	assert.Equal(t, []Match{{"level1", "wall.png"}, {"level2", "stone.png"}}, matches)

	d, err := h.Catalog().Load("level3")
	require.NoError(t, err)
	assert.Equal(t, map[string]mapfile.Tuple{"Trigger01": {7}}, d.Triggers().Map())
}

func TestScanDuplicateNames(t *testing.T) {
	for i := 0; i < 5; i++ {
		logs := new(logBuffer)
		h := newTestHSGMWithLog(t, logs)
		dir := t.TempDir()

		first := writeDefinition(t, dir, "a/level.map", "Binding:Texture:wall = a.png\n")
		second := writeDefinition(t, dir, "b/level.map", "Binding:Texture:wall = b.png\n")
		writeDefinition(t, dir, "c/level.hsgm", "Binding:Texture:wall = c.png\n")

		require.NoError(t, h.Scan(dir))

		matches, err := h.Lookup(mapfile.Texture, "wall")
		require.NoError(t, err)
		assert.Equal(t, []Match{{"level", "a.png"}}, matches)

		assert.Contains(t, logs.String(), "Duplicate definition \"level\"")
		assert.Contains(t, logs.String(), first)
		assert.Contains(t, logs.String(), second)
	}
}

func TestScanTwice(t *testing.T) {
	h := newTestHSGM(t)
	dir := t.TempDir()
	writeDefinition(t, dir, "level1.map", testDefinition)

	require.NoError(t, h.Scan(dir))
	require.NoError(t, h.Scan(dir))

	names, err := h.Catalog().Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"level1"}, names)
}

func TestScanParseError(t *testing.T) {
	h := newTestHSGM(t)
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		writeDefinition(t, dir, filepath.Join("ok", string(rune('a'+i))+".map"), testDefinition)
	}
	bad := writeDefinition(t, dir, "bad.map", "Collider01 = [1,two]\n")

	err := h.Scan(dir)
	require.Error(t, err)

	var perr *mapfile.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "Collider01", perr.Key)
	assert.Contains(t, err.Error(), bad)

	names, err := h.Catalog().Names()
	require.NoError(t, err)
	assert.NotContains(t, names, "bad")
}

func TestScanMissingDirectory(t *testing.T) {
	h := newTestHSGM(t)
	assert.Error(t, h.Scan(filepath.Join(t.TempDir(), "missing")))
}
