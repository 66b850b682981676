package raycast

import (
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/gridcaster/internal/camera"
	"chosenoffset.com/gridcaster/internal/core/geom"
	"chosenoffset.com/gridcaster/internal/render/texture"
	"chosenoffset.com/gridcaster/internal/world"
)

func newTestRaycaster(t *testing.T, w, h, workers int) *Raycaster {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.RendererCount = w, h, workers
	cfg.Shade = ShadeNone
	r, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

func borderedGrid(w, h int) *world.Grid {
	g := world.NewGrid(w, h, nil)
	g.SetBorder(world.NewBlock("wall", world.NewFace(nil), world.NewFace(nil)))
	return g
}

func TestPartitionCoversEveryColumn(t *testing.T) {
	const width = 37
	for n := 1; n <= width; n++ {
		stripes, err := Partition(width, n)
		require.NoError(t, err)
		require.Len(t, stripes, n)

		next := 0
		for i, s := range stripes {
			assert.Equal(t, i, s.Index)
			assert.Equal(t, next, s.Start, "n=%d stripe %d starts where the previous ended", n, i)
			assert.Positive(t, s.Width())
			assert.LessOrEqual(t, s.Width()-stripes[n-1].Width(), 1)
			next = s.End
		}
		assert.Equal(t, width, next, "n=%d", n)
	}

	_, err := Partition(4, 5)
	assert.Error(t, err)
	_, err = Partition(4, 0)
	assert.Error(t, err)
}

func TestNewRejectsBadRendererCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 8

	cfg.RendererCount = 9
	_, err := New(cfg)
	assert.ErrorContains(t, err, "exceeds render width")

	cfg.RendererCount = 0
	_, err = New(cfg)
	assert.Error(t, err)

	cfg.RendererCount = 8
	r, err := New(cfg)
	require.NoError(t, err)
	r.Close()
}

func TestMarchVisitsBoundariesInOrder(t *testing.T) {
	pos := geom.Vec2(2.3, 1.7)
	dir := geom.Vec2(0.6, -0.8)
	crossings := March(pos, dir, 12)
	require.Len(t, crossings, 12)

	px, py := pos.Floor()
	prev := -1.0
	for _, c := range crossings {
		assert.GreaterOrEqual(t, c.Dist, prev)
		prev = c.Dist

		// Each step moves exactly one cell along the crossed axis.
		if c.Side == SideX {
			assert.Equal(t, px+1, c.X)
			assert.Equal(t, py, c.Y)
		} else {
			assert.Equal(t, px, c.X)
			assert.Equal(t, py-1, c.Y)
		}
		px, py = c.X, c.Y

		// The boundary really lies on the crossed grid line.
		p := pos.Add(dir.Scale(c.Dist))
		if c.Side == SideX {
			assert.InDelta(t, float64(c.X), p.X, 1e-9)
		} else {
			assert.InDelta(t, float64(c.Y+1), p.Y, 1e-9)
		}
	}
}

func TestMarchAxisParallel(t *testing.T) {
	crossings := March(geom.Vec2(1.5, 1.5), geom.Vec2(1, 0), 3)
	require.Len(t, crossings, 3)
	for i, c := range crossings {
		assert.Equal(t, SideX, c.Side)
		assert.Equal(t, 1, c.Y)
		assert.Equal(t, 0.5+float64(i), c.Dist)
		assert.False(t, math.IsNaN(c.Dist) || math.IsInf(c.Dist, 0))
	}

	vertical := March(geom.Vec2(1, 1), geom.Vec2(0, -2), 2)
	assert.Equal(t, SideY, vertical[0].Side)
	assert.Equal(t, 0.0, vertical[0].Dist)
	assert.Equal(t, 0.5, vertical[1].Dist)

	assert.Nil(t, March(geom.Vec2(1, 1), geom.Vec2(0, 0), 4))
	assert.False(t, castRay(borderedGrid(4, 4), geom.Vec2(1, 1), geom.Vec2(0, 0), math.Inf(1)).Found)
}

func TestWorkedExampleHitsBorder(t *testing.T) {
	r := newTestRaycaster(t, 8, 8, 1)
	cam := &camera.Camera{Pos: geom.Vec2(2, 2), Dir: geom.Vec2(0.75, 0), Plane: geom.Vec2(0, 0.5)}

	// 3x3 interior, border on x=0 and x=4.
	hit := r.Cast(cam, borderedGrid(5, 5), 4)
	require.True(t, hit.Found)
	assert.Equal(t, 4, hit.X)
	assert.Equal(t, 2, hit.Y)
	assert.Equal(t, SideX, hit.Side)
	assert.InDelta(t, 2/0.75, hit.Perp, 1e-12)
	assert.InDelta(t, 4, hit.Point.X, 1e-12)
	assert.Equal(t, -1, hit.Wall)

	// Facing the other way in a 4x4 interior the border is one cell away.
	cam.Dir = geom.Vec2(-0.75, 0)
	hit = r.Cast(cam, borderedGrid(6, 6), 4)
	require.True(t, hit.Found)
	assert.Equal(t, 0, hit.X)
	assert.Equal(t, SideX, hit.Side)
	assert.InDelta(t, 1/0.75, hit.Perp, 1e-12)
	assert.InDelta(t, 1, hit.Point.X, 1e-12)
}

func TestCustomSectorDiagonal(t *testing.T) {
	r := newTestRaycaster(t, 8, 8, 1)
	g := borderedGrid(5, 5)
	wall := world.Wall{Segment: geom.Seg(0.25, 0.25, 0.75, 0.75), Face: world.NewFace(nil)}
	wall.TileU = 2
	g.SetCellAt(2, 2, world.NewCustomSector("diag", []world.Wall{wall}))

	cam := &camera.Camera{Pos: geom.Vec2(1.5, 2.5), Dir: geom.Vec2(1, 0), Plane: geom.Vec2(0, 0.66)}
	hit := r.Cast(cam, g, 4)
	require.True(t, hit.Found)
	assert.Equal(t, 2, hit.X)
	assert.Equal(t, 2, hit.Y)
	assert.Equal(t, 0, hit.Wall)
	assert.InDelta(t, 2.5, hit.Point.X, 1e-12)
	assert.InDelta(t, 2.5, hit.Point.Y, 1e-12)
	assert.InDelta(t, 1.0, hit.Perp, 1e-12)
	assert.InDelta(t, 0.5, hit.U, 1e-12)
	assert.InDelta(t, 1.0, hit.TexU(), 1e-12)

	// A ray that misses the segment passes through the sector.
	cam.Pos = geom.Vec2(1.5, 2.9)
	hit = r.Cast(cam, g, 4)
	require.True(t, hit.Found)
	assert.Equal(t, 4, hit.X)
	assert.Equal(t, -1, hit.Wall)
	assert.InDelta(t, 2.5, hit.Perp, 1e-12)
}

func TestInvisibleAndCulledCellsArePassed(t *testing.T) {
	r := newTestRaycaster(t, 8, 8, 1)
	g := borderedGrid(7, 5)
	glass := world.NewBlock("glass", world.NewFace(nil), world.NewFace(nil))
	glass.Visible = false
	g.SetCellAt(2, 2, glass)
	far := world.NewBlock("far", world.NewFace(nil), world.NewFace(nil))
	far.CullDistance = 1
	g.SetCellAt(4, 2, far)

	cam := &camera.Camera{Pos: geom.Vec2(1.5, 2.5), Dir: geom.Vec2(1, 0), Plane: geom.Vec2(0, 0.66)}
	hit := r.Cast(cam, g, 4)
	require.True(t, hit.Found)
	assert.Equal(t, 6, hit.X)
}

func TestTextureUMirroring(t *testing.T) {
	r := newTestRaycaster(t, 8, 8, 1)
	g := borderedGrid(5, 5)

	// Looking +X at the east wall and -X at the west wall from the same
	// spot must map the same world Y to mirrored U.
	east := r.Cast(&camera.Camera{Pos: geom.Vec2(2.5, 2.3), Dir: geom.Vec2(1, 0)}, g, 4)
	west := r.Cast(&camera.Camera{Pos: geom.Vec2(2.5, 2.3), Dir: geom.Vec2(-1, 0)}, g, 4)
	assert.InDelta(t, 0.3, east.U, 1e-9)
	assert.InDelta(t, 0.7, west.U, 1e-9)

	north := r.Cast(&camera.Camera{Pos: geom.Vec2(2.2, 2.5), Dir: geom.Vec2(0, -1)}, g, 4)
	south := r.Cast(&camera.Camera{Pos: geom.Vec2(2.2, 2.5), Dir: geom.Vec2(0, 1)}, g, 4)
	assert.Equal(t, SideY, north.Side)
	assert.InDelta(t, 0.2, north.U, 1e-9)
	assert.InDelta(t, 0.8, south.U, 1e-9)
}

// halves is a texture whose left half is red and right half blue.
func halves() *texture.Texture {
	tex := texture.New("halves", 8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := texture.RGB(255, 0, 0)
			if x >= 4 {
				c = texture.RGB(0, 0, 255)
			}
			tex.Set(x, y, c)
		}
	}
	return tex
}

func TestWallTexturesReadLeftToRightOnScreen(t *testing.T) {
	red, blue := texture.RGB(255, 0, 0), texture.RGB(0, 0, 255)
	tex := halves()

	blocks := borderedGrid(5, 5)
	blocks.SetBorder(world.NewBlock("halves", world.NewFace(tex), world.NewFace(tex)))

	// Each camera stands half a cell from the wall it faces so a single
	// texture spans the whole screen.
	cameras := map[string]*camera.Camera{
		"+x": camera.New(geom.Vec2(3.5, 2.5), geom.Vec2(1, 0), 66),
		"-x": camera.New(geom.Vec2(1.5, 2.5), geom.Vec2(-1, 0), 66),
		"+y": camera.New(geom.Vec2(2.5, 3.5), geom.Vec2(0, 1), 66),
		"-y": camera.New(geom.Vec2(2.5, 1.5), geom.Vec2(0, -1), 66),
	}
	for name, cam := range cameras {
		r := newTestRaycaster(t, 8, 8, 1)
		pix := r.Render(cam, blocks)
		assert.Equal(t, red, pix[4*8+0], "%s left column", name)
		assert.Equal(t, blue, pix[4*8+7], "%s right column", name)
	}

	// A sector wall reads the same way from whichever side it is seen.
	sector := borderedGrid(5, 5)
	for _, seg := range []geom.Segment{geom.Seg(0.5, 0, 0.5, 1), geom.Seg(0.5, 1, 0.5, 0)} {
		sector.SetCellAt(2, 2, world.NewCustomSector("pane", []world.Wall{{Segment: seg, Face: world.NewFace(tex)}}))
		for _, cam := range []*camera.Camera{
			camera.New(geom.Vec2(1.9, 2.5), geom.Vec2(1, 0), 66),
			camera.New(geom.Vec2(3.1, 2.5), geom.Vec2(-1, 0), 66),
		} {
			r := newTestRaycaster(t, 8, 8, 1)
			pix := r.Render(cam, sector)
			assert.Equal(t, red, pix[4*8+0], "%v from %v", seg, cam.Pos)
			assert.Equal(t, blue, pix[4*8+7], "%v from %v", seg, cam.Pos)
		}
	}
}

func TestSectorNearestWallWins(t *testing.T) {
	r := newTestRaycaster(t, 8, 8, 1)
	g := borderedGrid(5, 5)
	g.SetCellAt(2, 2, world.NewCustomSector("layers", []world.Wall{
		{Segment: geom.Seg(0.8, 0, 0.8, 1), Face: world.NewFace(nil)},
		{Segment: geom.Seg(0.3, 0, 0.3, 1), Face: world.NewFace(nil)},
		{Segment: geom.Seg(0.6, 0, 0.6, 1), Face: world.NewFace(nil)},
	}))

	cam := &camera.Camera{Pos: geom.Vec2(1.5, 2.5), Dir: geom.Vec2(1, 0)}
	hit := r.Cast(cam, g, 4)
	require.True(t, hit.Found)
	assert.Equal(t, 1, hit.Wall)
	assert.InDelta(t, 0.8, hit.Perp, 1e-12)
	assert.InDelta(t, 2.3, hit.Point.X, 1e-12)

	// From the far side the order reverses.
	cam = &camera.Camera{Pos: geom.Vec2(3.5, 2.5), Dir: geom.Vec2(-1, 0)}
	hit = r.Cast(cam, g, 4)
	require.True(t, hit.Found)
	assert.Equal(t, 0, hit.Wall)
	assert.InDelta(t, 0.7, hit.Perp, 1e-12)
}

func TestDegenerateSectorWallsAreSkipped(t *testing.T) {
	r := newTestRaycaster(t, 8, 8, 1)
	g := borderedGrid(5, 5)
	// The zero-length wall sits exactly on the ray's path.
	g.SetCellAt(2, 2, world.NewCustomSector("dot", []world.Wall{
		{Segment: geom.Seg(0.1, 0.5, 0.1, 0.5), Face: world.NewFace(nil)},
	}))

	hit := r.Cast(&camera.Camera{Pos: geom.Vec2(1.5, 2.5), Dir: geom.Vec2(1, 0)}, g, 4)
	require.True(t, hit.Found)
	assert.Equal(t, 4, hit.X)
	assert.Equal(t, -1, hit.Wall)
	assert.InDelta(t, 2.5, hit.Perp, 1e-12)

	g.SetCellAt(2, 2, world.NewCustomSector("dot", []world.Wall{
		{Segment: geom.Seg(0.1, 0.5, 0.1, 0.5), Face: world.NewFace(nil)},
		{Segment: geom.Seg(0.9, 0, 0.9, 1), Face: world.NewFace(nil)},
	}))
	hit = r.Cast(&camera.Camera{Pos: geom.Vec2(1.5, 2.5), Dir: geom.Vec2(1, 0)}, g, 4)
	assert.Equal(t, 1, hit.Wall)
	assert.InDelta(t, 1.4, hit.Perp, 1e-12)
}

func TestSectorHitsOutsideTheCellAreIgnored(t *testing.T) {
	r := newTestRaycaster(t, 8, 8, 1)
	g := borderedGrid(6, 5)
	// A wall that spills into the next cell over must not be seen from here.
	g.SetCellAt(2, 2, world.NewCustomSector("spill", []world.Wall{
		{Segment: geom.Seg(2.5, 0, 2.5, 1), Face: world.NewFace(nil)},
	}))
	g.SetCellAt(3, 2, world.NewBlock("wall", world.NewFace(nil), world.NewFace(nil)))

	hit := r.Cast(&camera.Camera{Pos: geom.Vec2(1.5, 2.5), Dir: geom.Vec2(1, 0)}, g, 4)
	require.True(t, hit.Found)
	assert.Equal(t, 3, hit.X)
	assert.Equal(t, -1, hit.Wall)
	assert.InDelta(t, 1.5, hit.Perp, 1e-12)
}

func TestFakeBlocksAreSeenButWalkable(t *testing.T) {
	r := newTestRaycaster(t, 8, 8, 1)
	g := borderedGrid(6, 5)
	g.SetCellAt(3, 2, world.NewFakeBlock("fake", world.NewFace(nil), world.NewFace(nil)))

	cam := camera.New(geom.Vec2(1.5, 2.5), geom.Vec2(1, 0), 66)
	hit := r.Cast(cam, g, 4)
	require.True(t, hit.Found)
	assert.Equal(t, 3, hit.X)
	assert.True(t, hit.Cell.Fake())
	assert.InDelta(t, 1.5, hit.Perp, 1e-12)

	assert.False(t, g.Blocked(3, 2))
	cam.MoveSpeed = 1
	cam.Move(2, g)
	assert.InDelta(t, 3.5, cam.Pos.X, 1e-12)

	// From inside the fake block the view runs on to the border.
	hit = r.Cast(cam, g, 4)
	require.True(t, hit.Found)
	assert.Equal(t, 5, hit.X)
	assert.InDelta(t, 1.5, hit.Perp, 1e-12)
}

func TestProjectionKeepsUnclippedSpan(t *testing.T) {
	p := project(2, 8, 4)
	assert.Equal(t, 2, p.Top)
	assert.Equal(t, 6, p.Bottom)
	assert.InDelta(t, 0.125, p.texV(2), 1e-12)

	// Close to the wall the slice is taller than the screen; the texture
	// coordinate of row 0 still comes from the full height.
	p = project(0.25, 8, 4)
	assert.Equal(t, 0, p.Top)
	assert.Equal(t, 8, p.Bottom)
	assert.InDelta(t, -12.0, p.Start, 1e-12)
	assert.InDelta(t, 12.5/32, p.texV(0), 1e-12)

	// Perpendicular distance is clamped.
	p = project(0, 8, 4)
	assert.False(t, math.IsInf(p.Height, 0))
}

func TestFloorProjectionRoundTrip(t *testing.T) {
	const w, h = 64, 48
	r := newTestRaycaster(t, w, h, 1)
	cam := camera.New(geom.Vec2(3.25, 4.5), geom.Vec2(0.6, 0.8), 66)
	centre := float64(h)/2 + 5
	r.buildRowDistances(centre)

	for _, x := range []int{0, 13, 32, 63} {
		dir := cam.RayDir(x, w)
		for _, y := range []int{30, 35, 47, 10, 0} {
			d := r.rowDist[y]
			p := floorPoint(cam.Pos, dir, 3.7, d)

			rel := p.Sub(cam.Pos)
			depth := rel.Dot(cam.Dir)
			assert.InDelta(t, d, depth, 1e-9)

			off := float64(h) / 2 / depth
			if float64(y)+0.5 < centre {
				off = -off
			}
			assert.InDelta(t, float64(y), centre+off-0.5, 1e-9, "row %d", y)

			across := rel.Dot(cam.Plane) / cam.Plane.LengthSq()
			assert.InDelta(t, 2*float64(x)/w-1, across/depth, 1e-9)
		}
	}
	assert.Equal(t, floorPoint(cam.Pos, cam.Dir, 0, 2), cam.Pos.Add(cam.Dir.Scale(2)))
}

func demoScene() (*world.Grid, *camera.Camera) {
	brick := texture.Checker("brick", 16, 4, texture.RGB(180, 60, 40), texture.RGB(120, 40, 30))
	stone := texture.Checker("stone", 16, 8, texture.RGB(90, 90, 90), texture.RGB(60, 60, 70))
	sprite := texture.Checker("barrel", 8, 2, texture.RGB(200, 200, 0), texture.TransparentKey)

	g := world.NewGrid(10, 8, nil)
	g.SetBorder(world.NewBlock("brick", world.NewFace(brick), world.NewFace(stone)))
	g.SetCellAt(5, 3, world.NewFakeBlock("fake", world.NewFace(stone), world.NewFace(brick)))
	g.SetCellAt(3, 5, world.NewCustomSector("diag", []world.Wall{
		{Segment: geom.Seg(0, 0, 1, 1), Face: world.NewFace(brick)},
	}))
	g.SetCellAt(7, 5, world.NewModelSector("box", world.NewModel("box", nil, stone)))
	g.FillFloor(stone)
	g.FillCeiling(brick)
	g.AddEntity(world.NewSprite(geom.Vec2(6.5, 2.5), sprite))
	g.AddEntity(world.NewSprite(geom.Vec2(4.5, 6.2), sprite))

	cam := camera.New(geom.Vec2(1.6, 1.7), geom.Vec2(1, 0.7), 66)
	cam.ShearOffset = 7
	return g, cam
}

func TestRenderIsIndependentOfWorkerCount(t *testing.T) {
	const w, h = 61, 40
	var reference []uint32
	for _, workers := range []int{1, 3, 8, w} {
		g, cam := demoScene()
		r := newTestRaycaster(t, w, h, workers)
		r.SetShadeType(ShadeFogSide)

		pix := append([]uint32(nil), r.Render(cam, g)...)
		if reference == nil {
			reference = pix
			continue
		}
		assert.Equal(t, reference, pix, "workers=%d", workers)
	}
}

func TestSpritesAreDepthTested(t *testing.T) {
	const w, h = 32, 32
	red := texture.New("red", 4, 4)
	red.Fill(texture.RGB(255, 0, 0))

	g := borderedGrid(9, 5)
	g.AddEntity(world.NewSprite(geom.Vec2(4.5, 2.5), red))
	cam := &camera.Camera{Pos: geom.Vec2(1.5, 2.5), Dir: geom.Vec2(1, 0), Plane: geom.Vec2(0, 0.66)}

	r := newTestRaycaster(t, w, h, 2)
	pix := r.Render(cam, g)
	assert.Equal(t, texture.RGB(255, 0, 0), pix[16*w+16])

	g.SetCellAt(3, 2, world.NewBlock("wall", world.NewFace(nil), world.NewFace(nil)))
	pix = r.Render(cam, g)
	assert.Equal(t, untextured, pix[16*w+16])
	assert.InDelta(t, 1.5, r.ZBuffer()[16], 1e-12)
}

type countingOverlay struct{ calls int }

func (o *countingOverlay) Overlay(pix []uint32, w, h int) {
	o.calls++
	pix[0] = 0xFF010203
}

type countingObserver struct {
	frames  atomic.Int32
	stripes atomic.Int32
}

func (o *countingObserver) ObserveFrame(time.Duration)       { o.frames.Add(1) }
func (o *countingObserver) ObserveStripe(int, time.Duration) { o.stripes.Add(1) }

func TestRenderRunsHUDAndObserver(t *testing.T) {
	g, cam := demoScene()
	r := newTestRaycaster(t, 24, 16, 3)
	hud := &countingOverlay{}
	obs := &countingObserver{}
	r.SetHUD(hud)
	r.SetObserver(obs)

	pix := r.Render(cam, g)
	r.Render(cam, g)

	assert.Equal(t, 2, hud.calls)
	assert.Equal(t, uint32(0xFF010203), pix[0])
	assert.Equal(t, int32(2), obs.frames.Load())
	assert.Equal(t, int32(6), obs.stripes.Load())
	assert.Len(t, r.Stripes(), 3)
}

func TestRenderAfterClosePanics(t *testing.T) {
	g, cam := demoScene()
	r := newTestRaycaster(t, 16, 16, 2)
	r.Close()
	r.Close()
	assert.Panics(t, func() { r.Render(cam, g) })
}

func TestShading(t *testing.T) {
	r := newTestRaycaster(t, 8, 8, 1)
	white := uint32(0xFFFFFFFF)

	f := &frame{shade: ShadeNone}
	assert.Equal(t, white, r.shadeWall(f, white, 100, SideY))

	f.shade = ShadeFog
	assert.Equal(t, white, r.shadeDist(f, white, 0))
	fogged := r.shadeDist(f, white, r.cfg.FogDistance)
	assert.Equal(t, texture.Darken(white, 1, r.cfg.FogThreshold), fogged)
	assert.Equal(t, fogged, r.shadeWall(f, white, r.cfg.FogDistance, SideY))

	f.shade = ShadeFogSide
	assert.Equal(t, fogged, r.shadeWall(f, white, r.cfg.FogDistance, SideX))
	assert.Equal(t, texture.DarkenBy(fogged, r.cfg.SideShade), r.shadeWall(f, white, r.cfg.FogDistance, SideY))
}

func TestParseShadeType(t *testing.T) {
	for name, want := range map[string]ShadeType{"none": ShadeNone, "Fog": ShadeFog, "fog_side": ShadeFogSide} {
		got, err := ParseShadeType(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NotEmpty(t, got.String())
	}
	_, err := ParseShadeType("bloom")
	assert.Error(t, err)
}
