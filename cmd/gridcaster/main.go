package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/gridcaster/internal/camera"
	"chosenoffset.com/gridcaster/internal/config"
	"chosenoffset.com/gridcaster/internal/game"
	"chosenoffset.com/gridcaster/internal/mapscanner"
	"chosenoffset.com/gridcaster/internal/placeholders"
	"chosenoffset.com/gridcaster/internal/render"
	ebitenrender "chosenoffset.com/gridcaster/internal/render/ebiten"
	"chosenoffset.com/gridcaster/internal/render/lighting"
	"chosenoffset.com/gridcaster/internal/render/raycast"
	"chosenoffset.com/gridcaster/internal/render/terminal"
	"chosenoffset.com/gridcaster/internal/render/texture"
	"chosenoffset.com/gridcaster/internal/telemetry"
	"chosenoffset.com/gridcaster/internal/ui/hud"
	"chosenoffset.com/gridcaster/internal/world"
)

func main() {
	// Command-line flags
	configPath := flag.String("config", "engine.yaml", "Engine config file (YAML)")
	mapPath := flag.String("map", "", "Map file or map name to load; overrides the config, empty uses the demo level")
	propsPath := flag.String("properties", "", "Game properties file; overrides the config")
	backend := flag.String("backend", "", "Backend: ebiten or terminal; overrides the config")
	workers := flag.Int("workers", 0, "Renderer goroutines; overrides the config")
	bakeOnly := flag.Bool("bake-only", false, "Bake the lightmap, write it and exit")
	dataDir := flag.String("data", "assets", "Directory searched for maps by name")
	listMaps := flag.Bool("list-maps", false, "List the maps in the data directory and exit")
	flag.Parse()

	if *listMaps {
		if err := printMaps(*dataDir); err != nil {
			log.Fatalf("gridcaster: %v", err)
		}
		return
	}
	if *mapPath != "" {
		*mapPath = resolveMap(*dataDir, *mapPath)
	}

	if err := run(*configPath, *mapPath, *propsPath, *backend, *workers, *bakeOnly); err != nil {
		log.Fatalf("gridcaster: %v", err)
	}
}

func run(configPath, mapPath, propsPath, backend string, workers int, bakeOnly bool) error {
	cfg, err := config.LoadEngine(configPath)
	if err != nil {
		return err
	}
	if mapPath != "" {
		cfg.MapPath = mapPath
	}
	if propsPath != "" {
		cfg.PropertiesPath = propsPath
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if workers != 0 {
		cfg.Render.RendererCount = workers
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}

	props, err := config.LoadProperties(cfg.PropertiesPath)
	if err != nil {
		return err
	}

	textures := texture.NewCatalog(nil)
	gameMap, err := loadWorld(cfg.MapPath, props.MapSize, textures)
	if err != nil {
		return err
	}
	grid := gameMap.Grid
	log.Printf("Loaded map: %s (%dx%d, %d block types)",
		gameMap.Data.Name, grid.Width(), grid.Height(), len(gameMap.Blocks.Names()))

	metrics := telemetry.New()
	if cfg.Metrics.Addr != "" {
		srv := metrics.Serve(cfg.Metrics.Addr, 5*time.Second)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	if cfg.Lighting.Enabled || bakeOnly {
		if err := bake(cfg, gameMap, metrics); err != nil {
			return err
		}
		if bakeOnly {
			return nil
		}
	}

	rc, err := cfg.RaycastConfig()
	if err != nil {
		return err
	}
	r, err := raycast.New(rc)
	if err != nil {
		return err
	}
	defer r.Close()
	r.SetObserver(metrics)
	log.Printf("Renderer: %dx%d, %d workers, shade %s", rc.Width, rc.Height, rc.RendererCount, rc.Shade)

	overlay, err := hud.New(textures.Get(placeholders.HUDTemplate), hud.PrimarySentinel, hud.SecondarySentinel, cfg.HUD)
	if err != nil {
		log.Printf("WARNING: HUD disabled: %v", err)
		overlay = nil
	} else {
		r.SetHUD(overlay)
	}

	spawn := gameMap.Data.PlayerSpawn
	cam := camera.New(spawn.Position(), spawn.Direction(), cfg.Camera.FOV)
	cam.MoveSpeed = cfg.Camera.MoveSpeed
	cam.RotSpeed = cfg.Camera.RotSpeed
	cam.ShearLimit = cfg.Camera.ShearLimit

	var (
		engine render.Engine
		input  render.InputManager
	)
	switch cfg.Backend {
	case "terminal":
		te := terminal.NewEngine(cfg.TicksPerSecond)
		engine, input = te, te.Input()
	default:
		engine, input = ebitenrender.NewEngine(cfg.TicksPerSecond), ebitenrender.NewInputManager()
	}

	g := game.New(cam, grid, r, input, game.Options{
		TicksPerSecond: cfg.TicksPerSecond,
		ShearStep:      cfg.Camera.ShearStep,
	})
	g.HUD = overlay
	g.Gauge = metrics
	views := make([]*texture.Texture, len(placeholders.SentryViews))
	for i, name := range placeholders.SentryViews {
		views[i] = textures.Get(name)
	}
	g.Spawner = game.NewSpawner(props, views, uint64(time.Now().UnixNano()))

	engine.SetWindowSize(rc.Width*cfg.Screen.Scale, rc.Height*cfg.Screen.Scale)
	engine.SetWindowTitle(fmt.Sprintf("%s [%s] - WASD/arrows to move, Q/E strafe, F shade, M map", cfg.Screen.Title, gameMap.Data.Name))
	engine.SetWindowResizable(true)

	log.Printf("Starting %s backend...", cfg.Backend)
	if err := engine.RunGame(g); err != nil {
		return err
	}
	log.Printf("Rendered %d frames", g.Frames())
	return nil
}

func printMaps(dataDir string) error {
	maps, err := mapscanner.ScanDataDirectory(dataDir)
	if err != nil {
		return err
	}
	if len(maps) == 0 {
		fmt.Printf("No maps found in %s\n", dataDir)
		return nil
	}
	for _, m := range maps {
		fmt.Printf("%-20s %3dx%-3d %s\n", m.Name, m.Width, m.Height, m.Path)
	}
	return nil
}

// resolveMap returns name unchanged when it is a file, otherwise the path of
// the data directory map with that name.
func resolveMap(dataDir, name string) string {
	if _, err := os.Stat(name); err == nil {
		return name
	}
	maps, err := mapscanner.ScanDataDirectory(dataDir)
	if err != nil {
		return name
	}
	if m, ok := mapscanner.Find(maps, name); ok {
		return m.Path
	}
	return name
}

// loadWorld loads mapPath, or builds the demo level when it is empty. The
// placeholder art fills in whatever the map does not provide.
func loadWorld(mapPath string, size int, textures *texture.Catalog) (*world.Map, error) {
	if mapPath != "" {
		log.Printf("Loading map: %s", mapPath)
		m, err := world.LoadMap(mapPath, textures)
		if err != nil {
			return nil, err
		}
		return m, placeholders.Register(textures)
	}
	if err := placeholders.Register(textures); err != nil {
		return nil, err
	}
	data, err := game.DemoMap(size)
	if err != nil {
		return nil, err
	}
	return world.BuildMap(data, "", textures)
}

// bake builds the lightmap with a light at the spawn point and writes it
// when an output path is configured. Ctrl-C cancels the bake.
func bake(cfg *config.Engine, gameMap *world.Map, metrics *telemetry.Metrics) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	baker := lighting.NewBaker(cfg.Lighting.Resolution)
	baker.Workers = cfg.Lighting.Workers
	baker.Lights.SetAmbient(cfg.Lighting.Ambient)
	spawn := gameMap.Data.PlayerSpawn
	baker.Lights.Add(lighting.LightSource{
		Pos:       mgl64.Vec3{spawn.X, spawn.Y, 0.5},
		Radius:    6,
		Intensity: 1,
		Color:     color.NRGBA{255, 220, 180, 255},
	})

	start := time.Now()
	lm, err := baker.Bake(ctx, gameMap.Grid)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	metrics.ObserveBake(elapsed, lm.PlaneCount())
	log.Printf("Baked lightmap: %d planes in %v", lm.PlaneCount(), elapsed)

	if cfg.Lighting.Output != "" {
		if err := lighting.SaveFile(cfg.Lighting.Output, lm); err != nil {
			return err
		}
		log.Printf("Wrote lightmap to %s", cfg.Lighting.Output)
	}
	return nil
}
