package level_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/giftrun/internal/game/level"
)

const towerYAML = `
level:
  id: tower
  name: The Tower
  script_dir: content/scripts/tower
  rows:
    - "%%%%%%"
    - "%X  @%"
    - "%%H%%%"
    - "% H  %"
    - "%%%%%%"
`

func TestLoadLevelFromBytes_Rows(t *testing.T) {
	lvl, err := level.LoadLevelFromBytes([]byte(towerYAML))
	require.NoError(t, err)
	assert.Equal(t, "tower", lvl.ID)
	assert.Equal(t, "The Tower", lvl.Name)
	assert.Equal(t, "content/scripts/tower", lvl.ScriptDir)
	assert.Equal(t, 6, lvl.Grid.Width())
	assert.Equal(t, 5, lvl.Grid.Height())
	assert.Equal(t, level.Gift, lvl.Grid.At(4, 1))
}

func TestLoadLevelFromBytes_Code(t *testing.T) {
	g, err := level.ParseRows([]string{"X @", "%%%"})
	require.NoError(t, err)
	code, err := level.Encode(g)
	require.NoError(t, err)

	lvl, err := level.LoadLevelFromBytes([]byte("level:\n  id: c\n  name: Coded\n  code: " + code + "\n"))
	require.NoError(t, err)
	assert.True(t, g.Equal(lvl.Grid))
}

func TestLoadLevelFromBytes_Invalid(t *testing.T) {
	cases := map[string]string{
		"both rows and code": "level:\n  id: a\n  name: A\n  code: AgIgACBA\n  rows: [\"X\"]\n",
		"neither":            "level:\n  id: a\n  name: A\n",
		"missing id":         "level:\n  name: A\n  rows: [\"X\"]\n",
		"missing name":       "level:\n  id: a\n  rows: [\"X\"]\n",
		"no avatar":          "level:\n  id: a\n  name: A\n  rows: [\"%\"]\n",
		"two avatars":        "level:\n  id: a\n  name: A\n  rows: [\"XX\"]\n",
		"malformed code":     "level:\n  id: a\n  name: A\n  code: AgIgAA==\n",
		"bad yaml":           "level: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := level.LoadLevelFromBytes([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestLoadLevelsFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tower.yaml"), []byte(towerYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	levels, err := level.LoadLevelsFromDir(dir)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, "tower", levels[0].ID)
}

func TestLoadLevelsFromDir_DuplicateID(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(towerYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte(towerYAML), 0o644))
	_, err := level.LoadLevelsFromDir(dir)
	assert.Error(t, err)
}

func TestLoadLevelsFromDir_Empty(t *testing.T) {
	_, err := level.LoadLevelsFromDir(t.TempDir())
	assert.Error(t, err)

	_, err = level.LoadLevelsFromDir(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestShippedLevelsLoad(t *testing.T) {
	levels, err := level.LoadLevelsFromDir(filepath.Join("..", "..", "..", "content", "levels"))
	require.NoError(t, err)
	for _, lvl := range levels {
		code, err := level.Encode(lvl.Grid)
		require.NoError(t, err, lvl.ID)
		back, err := level.Decode(code)
		require.NoError(t, err, lvl.ID)
		assert.True(t, lvl.Grid.Equal(back), lvl.ID)
	}
}
