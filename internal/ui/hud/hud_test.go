package hud

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/gridcaster/internal/render/texture"
)

// template is 12x4: a grey frame, primary bar on row 1, secondary on row 2.
func template() *texture.Texture {
	t := texture.New("hud", 12, 4)
	t.Fill(texture.RGB(90, 90, 90))
	for x := 1; x < 11; x++ {
		t.Set(x, 1, PrimarySentinel)
	}
	for x := 1; x < 6; x++ {
		t.Set(x, 2, SecondarySentinel)
	}
	t.Set(11, 3, texture.TransparentKey)
	return t
}

func TestNewScansSentinels(t *testing.T) {
	h, err := New(template(), PrimarySentinel, SecondarySentinel, DefaultConfig())
	require.NoError(t, err)

	bars := h.Bars()
	assert.Equal(t, image.Rect(1, 1, 11, 2), bars[0].Rect)
	assert.Equal(t, image.Rect(1, 2, 6, 3), bars[1].Rect)

	_, err = New(template(), PrimarySentinel, texture.RGB(1, 2, 3), DefaultConfig())
	assert.ErrorContains(t, err, "no pixels of sentinel")
	_, err = New(nil, PrimarySentinel, SecondarySentinel, DefaultConfig())
	assert.Error(t, err)
}

func TestBarFraction(t *testing.T) {
	assert.Equal(t, 0.5, Bar{Value: 5, Max: 10}.Fraction())
	assert.Equal(t, 1.0, Bar{Value: 50, Max: 10}.Fraction())
	assert.Equal(t, 0.0, Bar{Value: -1, Max: 10}.Fraction())
	assert.Equal(t, 0.0, Bar{Value: 3}.Fraction())
}

func TestOverlayFillsBarsProportionally(t *testing.T) {
	const w, hgt = 20, 10
	cfg := DefaultConfig()
	cfg.Padding = 0
	h, err := New(template(), PrimarySentinel, SecondarySentinel, cfg)
	require.NoError(t, err)
	h.SetStats(7, 10, 0, 4)

	bg := texture.RGB(1, 1, 1)
	pix := make([]uint32, w*hgt)
	for i := range pix {
		pix[i] = bg
	}
	h.Overlay(pix, w, hgt)

	origin := h.Origin(w, hgt)
	assert.Equal(t, image.Pt(0, 6), origin)
	at := func(tx, ty int) uint32 { return pix[(origin.Y+ty)*w+origin.X+tx] }

	// 70% of a 10 pixel bar: columns 1..7 filled green.
	assert.Equal(t, texture.RGB(50, 180, 50), at(1, 1))
	assert.Equal(t, texture.RGB(50, 180, 50), at(7, 1))
	assert.Equal(t, texture.RGB(60, 20, 20), at(8, 1))
	// Empty secondary bar.
	assert.Equal(t, texture.RGB(60, 20, 20), at(1, 2))
	// Frame copied, key pixel left alone, outside untouched.
	assert.Equal(t, texture.RGB(90, 90, 90), at(0, 0))
	assert.Equal(t, bg, at(11, 3))
	assert.Equal(t, bg, pix[0])
}

func TestOverlayClipsAndBlends(t *testing.T) {
	cfg := Config{Position: "top-right", Padding: 0, Opacity: 0.5}
	h, err := New(template(), PrimarySentinel, SecondarySentinel, cfg)
	require.NoError(t, err)

	// Screen narrower than the template: must not panic.
	pix := make([]uint32, 8*3)
	assert.NotPanics(t, func() { h.Overlay(pix, 8, 3) })

	pix = make([]uint32, 12*4)
	h.Overlay(pix, 12, 4)
	assert.Equal(t, texture.RGB(45, 45, 45), pix[0], "grey frame at half opacity over black")
}
