package raycast

import (
	"fmt"
	"strings"

	"chosenoffset.com/gridcaster/internal/render/texture"
)

// ShadeType selects how wall, floor and sprite samples are darkened.
type ShadeType int

const (
	// ShadeNone draws texture colours unchanged.
	ShadeNone ShadeType = iota
	// ShadeFog darkens linearly with distance up to FogDistance.
	ShadeFog
	// ShadeFogSide is ShadeFog plus a fixed darkening of Y-side wall faces.
	ShadeFogSide
)

func (s ShadeType) String() string {
	switch s {
	case ShadeNone:
		return "none"
	case ShadeFog:
		return "fog"
	case ShadeFogSide:
		return "fog_side"
	default:
		return fmt.Sprintf("ShadeType(%d)", int(s))
	}
}

// ParseShadeType converts a config name into a ShadeType.
func ParseShadeType(name string) (ShadeType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "":
		return ShadeNone, nil
	case "fog":
		return ShadeFog, nil
	case "fog_side", "fogside":
		return ShadeFogSide, nil
	default:
		return ShadeNone, fmt.Errorf("unknown shade type %q", name)
	}
}

// Config fixes the render target and worker pool for the lifetime of a
// Raycaster.
type Config struct {
	Width  int
	Height int

	// RendererCount is the number of worker goroutines, each owning one
	// stripe of columns. Must be in [1, Width].
	RendererCount int

	Shade        ShadeType
	FogDistance  float64 // Distance at which fog reaches FogThreshold
	FogThreshold uint8   // Maximum per-channel reduction
	SideShade    uint8   // Extra reduction for Y-side faces under ShadeFogSide

	// Background colours for pixels no surface covers.
	CeilingColor uint32
	FloorColor   uint32
}

// DefaultConfig returns a 320x200 single-worker configuration with fog.
func DefaultConfig() Config {
	return Config{
		Width:         320,
		Height:        200,
		RendererCount: 1,
		Shade:         ShadeFog,
		FogDistance:   12,
		FogThreshold:  160,
		SideShade:     30,
		CeilingColor:  texture.RGB(40, 40, 48),
		FloorColor:    texture.RGB(24, 24, 24),
	}
}

// Validate reports configurations the renderer must refuse to start with.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid render size %dx%d", c.Width, c.Height)
	}
	if c.RendererCount < 1 {
		return fmt.Errorf("renderer count must be at least 1, got %d", c.RendererCount)
	}
	if c.RendererCount > c.Width {
		return fmt.Errorf("renderer count %d exceeds render width %d", c.RendererCount, c.Width)
	}
	if c.FogDistance < 0 {
		return fmt.Errorf("fog distance must not be negative, got %v", c.FogDistance)
	}
	return nil
}
