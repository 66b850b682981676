// Package config loads the engine settings (YAML) and the numeric game
// properties (key=value). Both start from defaults and overlay the file.
package config

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"gopkg.in/yaml.v3"

	"chosenoffset.com/gridcaster/internal/render/raycast"
	"chosenoffset.com/gridcaster/internal/ui/hud"
)

// Engine holds everything needed to start the renderer and a backend.
type Engine struct {
	Screen   ScreenConfig   `yaml:"screen"`
	Backend  string         `yaml:"backend"` // "ebiten" or "terminal"
	Render   RenderConfig   `yaml:"render"`
	Camera   CameraConfig   `yaml:"camera"`
	Lighting LightingConfig `yaml:"lighting"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	HUD      hud.Config     `yaml:"hud"`

	TicksPerSecond int    `yaml:"ticks_per_second"` // Fixed update rate
	MapPath        string `yaml:"map"`              // JSON map; empty uses the built-in demo
	PropertiesPath string `yaml:"properties"`       // key=value game properties
}

// ScreenConfig is the render target; the window is Width*Scale wide.
type ScreenConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Scale  int    `yaml:"scale"`
}

// RenderConfig configures the raycaster.
type RenderConfig struct {
	RendererCount int     `yaml:"renderer_count"` // 0 = one per physical core
	Shade         string  `yaml:"shade"`          // "none", "fog", "fog_side"
	FogDistance   float64 `yaml:"fog_distance"`
	FogThreshold  uint8   `yaml:"fog_threshold"`
	SideShade     uint8   `yaml:"side_shade"`
	CeilingColor  string  `yaml:"ceiling_color"` // RRGGBB
	FloorColor    string  `yaml:"floor_color"`   // RRGGBB
}

// CameraConfig configures the viewer.
type CameraConfig struct {
	FOV        float64 `yaml:"fov"` // Degrees
	MoveSpeed  float64 `yaml:"move_speed"`
	RotSpeed   float64 `yaml:"rot_speed"`
	ShearStep  float64 `yaml:"shear_step"`
	ShearLimit float64 `yaml:"shear_limit"`
}

// LightingConfig configures the lightmap bake.
type LightingConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Resolution float64 `yaml:"resolution"` // Lumels per cell edge
	Ambient    float64 `yaml:"ambient"`
	Workers    int     `yaml:"workers"`
	Output     string  `yaml:"output"` // Optional .lmz export path
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // Empty disables the HTTP endpoint
}

// DefaultEngine returns the built-in engine settings.
func DefaultEngine() *Engine {
	return &Engine{
		Screen: ScreenConfig{
			Title:  "gridcaster",
			Width:  320,
			Height: 200,
			Scale:  3,
		},
		Backend: "ebiten",
		Render: RenderConfig{
			Shade:        "fog",
			FogDistance:  12,
			FogThreshold: 160,
			SideShade:    30,
			CeilingColor: "282830",
			FloorColor:   "181818",
		},
		Camera: CameraConfig{
			FOV:        66,
			MoveSpeed:  0.06,
			RotSpeed:   0.04,
			ShearStep:  4,
			ShearLimit: 100,
		},
		Lighting: LightingConfig{
			Resolution: 4,
			Ambient:    0.15,
		},
		HUD:            hud.DefaultConfig(),
		TicksPerSecond: 60,
		PropertiesPath: "game.properties",
	}
}

// LoadEngine reads an engine YAML file over the defaults. A missing file
// yields the defaults; a malformed one is an error.
func LoadEngine(path string) (*Engine, error) {
	cfg := DefaultEngine()
	if path == "" {
		path = os.Getenv("GRIDCASTER_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			log.Printf("WARNING: engine config %s not found, using defaults", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read engine config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse engine config: %w", err)
			}
		}
	}

	if addr := os.Getenv("GRIDCASTER_METRICS_ADDR"); addr != "" && cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = addr
	}
	if cfg.Render.RendererCount == 0 {
		cfg.Render.RendererCount = DefaultRendererCount(cfg.Screen.Width)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return cfg, nil
}

// DefaultRendererCount returns one worker per physical core, never more than
// width. Logical cores are used when the physical count is unavailable.
func DefaultRendererCount(width int) int {
	n, err := cpu.Counts(false)
	if err != nil || n < 1 {
		n = runtime.NumCPU()
	}
	return max(1, min(n, width))
}

// Validate checks the settings that would otherwise fail deep inside startup.
func (e *Engine) Validate() error {
	if e.Screen.Width <= 0 || e.Screen.Height <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", e.Screen.Width, e.Screen.Height)
	}
	if e.Screen.Scale < 1 {
		return fmt.Errorf("screen scale must be at least 1, got %d", e.Screen.Scale)
	}
	switch e.Backend {
	case "ebiten", "terminal":
	default:
		return fmt.Errorf("unknown backend %q", e.Backend)
	}
	if e.TicksPerSecond < 1 {
		return fmt.Errorf("ticks_per_second must be at least 1, got %d", e.TicksPerSecond)
	}
	if e.Camera.FOV <= 0 || e.Camera.FOV >= 180 {
		return fmt.Errorf("fov must be in (0, 180), got %v", e.Camera.FOV)
	}
	if _, err := raycast.ParseShadeType(e.Render.Shade); err != nil {
		return err
	}
	if e.Lighting.Enabled && e.Lighting.Resolution <= 0 {
		return fmt.Errorf("lighting resolution must be positive, got %v", e.Lighting.Resolution)
	}
	return nil
}

// RaycastConfig converts the render settings for raycast.New. The renderer
// count is passed through unchanged so raycast.New can refuse it.
func (e *Engine) RaycastConfig() (raycast.Config, error) {
	shade, err := raycast.ParseShadeType(e.Render.Shade)
	if err != nil {
		return raycast.Config{}, err
	}
	ceiling, err := ParseColor(e.Render.CeilingColor)
	if err != nil {
		return raycast.Config{}, fmt.Errorf("ceiling_color: %w", err)
	}
	floor, err := ParseColor(e.Render.FloorColor)
	if err != nil {
		return raycast.Config{}, fmt.Errorf("floor_color: %w", err)
	}
	return raycast.Config{
		Width:         e.Screen.Width,
		Height:        e.Screen.Height,
		RendererCount: e.Render.RendererCount,
		Shade:         shade,
		FogDistance:   e.Render.FogDistance,
		FogThreshold:  e.Render.FogThreshold,
		SideShade:     e.Render.SideShade,
		CeilingColor:  ceiling,
		FloorColor:    floor,
	}, nil
}

// ParseColor reads an RRGGBB hex colour (optional leading '#') as opaque ARGB.
func ParseColor(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return 0, fmt.Errorf("colour %q is not RRGGBB", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("colour %q is not RRGGBB: %w", s, err)
	}
	return 0xFF000000 | uint32(v), nil
}
