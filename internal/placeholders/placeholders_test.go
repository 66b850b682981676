package placeholders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/gridcaster/internal/render/texture"
	"chosenoffset.com/gridcaster/internal/ui/hud"
)

func TestRegisterAndHUDTemplate(t *testing.T) {
	textures := texture.NewCatalog(nil)
	require.NoError(t, Register(textures))

	for _, name := range append([]string{WallStone, WallBrick, FloorStone, Ceiling}, SentryViews...) {
		tex, ok := textures.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, TileSize, tex.Width)
		assert.True(t, tex.IsSquare())
	}

	tmpl := textures.Get(HUDTemplate)
	h, err := hud.New(tmpl, hud.PrimarySentinel, hud.SecondarySentinel, hud.DefaultConfig())
	require.NoError(t, err)
	bars := h.Bars()
	assert.Equal(t, 88, bars[0].Rect.Dx())
	assert.Equal(t, 6, bars[1].Rect.Dy())

	custom := texture.Checker(WallBrick, 8, 2, texture.RGB(1, 2, 3), texture.RGB(4, 5, 6))
	other := texture.NewCatalog(nil)
	require.NoError(t, other.Register(custom))
	require.NoError(t, Register(other))
	assert.Same(t, custom, other.Get(WallBrick), "existing textures win")
	assert.NoError(t, Register(textures), "registering twice is a no-op")
}

func TestSentryViewsDiffer(t *testing.T) {
	front := texture.FromImage("f", CreateSentrySprite(0))
	back := texture.FromImage("b", CreateSentrySprite(2))
	assert.Equal(t, texture.TransparentKey, front.At(0, 0))
	assert.NotEqual(t, front.Pixels, back.Pixels)
}

func TestGenerateAndSaveRoundTripsThroughAtlas(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "assets")
	require.NoError(t, GenerateAndSave(dir))

	for _, name := range []string{"walls.png", "walls.json", "sprites.png", "sprites.json", "hud_template.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	textures := texture.NewCatalog(nil)
	require.NoError(t, textures.LoadAtlas(filepath.Join(dir, "walls.json")))
	require.NoError(t, textures.LoadAtlas(filepath.Join(dir, "sprites.json")))

	want := texture.FromImage(WallBrick, Walls()[1].Image)
	got, ok := textures.Lookup(WallBrick)
	require.True(t, ok)
	assert.Equal(t, want.Pixels, got.Pixels)
	_, ok = textures.Lookup("sentry_right")
	assert.True(t, ok)
}
