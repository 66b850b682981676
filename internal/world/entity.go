package world

import (
	"math"

	"github.com/google/uuid"

	"chosenoffset.com/gridcaster/internal/camera"
	"chosenoffset.com/gridcaster/internal/core/geom"
	"chosenoffset.com/gridcaster/internal/render/texture"
)

// Entity is anything drawn as a camera-facing billboard.
type Entity interface {
	ID() uuid.UUID
	Position() geom.Vector2
	// SetCamera is called once per frame before drawing so the entity can
	// pick a view-dependent texture.
	SetCamera(cam *camera.Camera)
	ActiveTexture() *texture.Texture
}

// Sprite is an entity with one texture per viewing direction. Views are
// ordered counter-clockwise starting with the front.
type Sprite struct {
	id     uuid.UUID
	Pos    geom.Vector2
	Facing geom.Vector2
	Views  []*texture.Texture

	active *texture.Texture
}

// NewSprite creates a sprite at pos facing +X.
func NewSprite(pos geom.Vector2, views ...*texture.Texture) *Sprite {
	s := &Sprite{
		id:     uuid.New(),
		Pos:    pos,
		Facing: geom.Vec2(1, 0),
		Views:  views,
	}
	if len(views) > 0 {
		s.active = views[0]
	}
	return s
}

func (s *Sprite) ID() uuid.UUID { return s.id }

func (s *Sprite) Position() geom.Vector2 { return s.Pos }

// SetCamera selects the view facing the camera.
func (s *Sprite) SetCamera(cam *camera.Camera) {
	if len(s.Views) <= 1 {
		return
	}
	toCam := cam.Pos.Sub(s.Pos)
	if toCam.LengthSq() == 0 {
		return
	}
	angle := math.Atan2(s.Facing.Cross(toCam), s.Facing.Dot(toCam))
	if angle < 0 {
		angle += 2 * math.Pi
	}
	sector := 2 * math.Pi / float64(len(s.Views))
	i := int(math.Floor(angle/sector+0.5)) % len(s.Views)
	s.active = s.Views[i]
}

// ActiveTexture returns the view chosen by the last SetCamera.
func (s *Sprite) ActiveTexture() *texture.Texture {
	return s.active
}
