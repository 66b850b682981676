package lighting

import (
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// LightSource is a point light in world space (cells, Z up).
type LightSource struct {
	ID        uuid.UUID   `json:"id"`
	Pos       mgl64.Vec3  `json:"pos"`
	Radius    float64     `json:"radius"`    // In cells
	Intensity float64     `json:"intensity"` // 0.0 to 1.0
	Color     color.NRGBA `json:"color"`
}

// Lights is the scene description handed to an Illuminator.
type Lights struct {
	ambient float64 // 0.0 = pitch black, 1.0 = fully lit
	sources map[uuid.UUID]*LightSource
}

// NewLights creates an empty light set with a low ambient level.
func NewLights() *Lights {
	return &Lights{
		ambient: 0.15,
		sources: make(map[uuid.UUID]*LightSource),
	}
}

// SetAmbient sets the global ambient light level, clamped to [0, 1].
func (l *Lights) SetAmbient(level float64) {
	l.ambient = min(max(level, 0), 1)
}

// Ambient returns the global ambient light level.
func (l *Lights) Ambient() float64 {
	return l.ambient
}

// Add registers a light and returns its id. A zero ID is replaced by a new one.
func (l *Lights) Add(src LightSource) uuid.UUID {
	if src.ID == uuid.Nil {
		src.ID = uuid.New()
	}
	l.sources[src.ID] = &src
	return src.ID
}

// Remove deletes a light and reports whether it existed.
func (l *Lights) Remove(id uuid.UUID) bool {
	if _, ok := l.sources[id]; !ok {
		return false
	}
	delete(l.sources, id)
	return true
}

// All returns every light ordered by id.
func (l *Lights) All() []LightSource {
	out := make([]LightSource, 0, len(l.sources))
	for _, src := range l.sources {
		out = append(out, *src)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Clear removes every light (called when loading a new level).
func (l *Lights) Clear() {
	l.sources = make(map[uuid.UUID]*LightSource)
}
