package mapscanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestScanDataDirectory(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "arena.json"), `{"name":"Arena","width":3,"height":1,"tiles":[["a",".","a"]]}`)
	write(t, filepath.Join(dir, "levels", "vault.json"), `{"width":2,"height":1,"tiles":[[".","."]]}`)
	write(t, filepath.Join(dir, "walls.json"), `{"name":"walls","tile_width":64,"tiles":[{"name":"wall_brick","atlas_x":0,"atlas_y":0}]}`)
	write(t, filepath.Join(dir, "broken.json"), `{`)
	write(t, filepath.Join(dir, "notes.txt"), "tiles")
	write(t, filepath.Join(dir, ".hidden", "x.json"), `{"tiles":[["."]]}`)

	maps, err := ScanDataDirectory(dir)
	require.NoError(t, err)
	require.Len(t, maps, 2)
	assert.Equal(t, "Arena", maps[0].Name)
	assert.Equal(t, 3, maps[0].Width)
	assert.Equal(t, "vault", maps[1].Name)

	m, ok := Find(maps, "arena")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "arena.json"), m.Path)
	_, ok = Find(maps, "missing")
	assert.False(t, ok)

	_, err = ScanDataDirectory(filepath.Join(dir, "nope"))
	assert.Error(t, err)
}
