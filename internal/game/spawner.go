package game

import (
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"chosenoffset.com/gridcaster/internal/config"
	"chosenoffset.com/gridcaster/internal/core/geom"
	"chosenoffset.com/gridcaster/internal/render/texture"
	"chosenoffset.com/gridcaster/internal/world"
)

// spawnAttempts bounds the search for a free cell per spawned entity.
const spawnAttempts = 16

// despawnFactor times Radius is how far a spawned sprite may be from the
// spawn point before it is removed.
const despawnFactor = 2

// Spawner adds sprites around a point at a steady rate until the world
// holds Max entities. Sprites it added that fall too far behind are removed
// again, so the population follows the camera.
type Spawner struct {
	Radius float64 // Cells
	Rate   float64 // Entities per second
	Max    int

	views     []*texture.Texture
	rng       *rand.Rand
	acc       float64
	total     int
	despawned int
	owned     map[uuid.UUID]struct{}
}

// NewSpawner builds a spawner from the game properties. Spawned sprites use
// views, counter-clockwise from the front.
func NewSpawner(props *config.Properties, views []*texture.Texture, seed uint64) *Spawner {
	return &Spawner{
		Radius: props.SpawnRadius,
		Rate:   props.SpawnRate,
		Max:    props.MaxEntities,
		views:  views,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		owned:  make(map[uuid.UUID]struct{}),
	}
}

// Step advances dt seconds and returns how many sprites were added.
func (s *Spawner) Step(dt float64, grid *world.Grid, around geom.Vector2) int {
	s.cull(grid, around)
	if s.Rate <= 0 || s.Max <= 0 {
		return 0
	}
	s.acc += s.Rate * dt
	added := 0
	for s.acc >= 1 {
		if len(grid.Entities()) >= s.Max {
			// Do not bank spawns while full.
			s.acc = 0
			break
		}
		s.acc--
		pos, ok := s.pick(grid, around)
		if !ok {
			continue
		}
		sprite := world.NewSprite(pos, s.views...)
		angle := s.rng.Float64() * 2 * math.Pi
		sprite.Facing = geom.Vec2(math.Cos(angle), math.Sin(angle))
		grid.AddEntity(sprite)
		s.owned[sprite.ID()] = struct{}{}
		added++
		s.total++
	}
	return added
}

// Total returns how many sprites this spawner has created.
func (s *Spawner) Total() int { return s.total }

// Despawned returns how many of its sprites the spawner has removed.
func (s *Spawner) Despawned() int { return s.despawned }

// cull removes owned sprites farther than despawnFactor*Radius from around
// and forgets those already removed from the grid by someone else.
func (s *Spawner) cull(grid *world.Grid, around geom.Vector2) {
	limit := despawnFactor * s.Radius
	for id := range s.owned {
		e, ok := grid.Entity(id)
		if !ok {
			delete(s.owned, id)
			continue
		}
		if e.Position().Sub(around).Length() > limit {
			grid.RemoveEntityByID(id)
			delete(s.owned, id)
			s.despawned++
		}
	}
}

// pick finds a point within Radius of around that lies in an open cell and
// at least one cell away from around.
func (s *Spawner) pick(grid *world.Grid, around geom.Vector2) (geom.Vector2, bool) {
	for i := 0; i < spawnAttempts; i++ {
		angle := s.rng.Float64() * 2 * math.Pi
		r := s.Radius * math.Sqrt(s.rng.Float64())
		if r < 1 {
			continue
		}
		p := around.Add(geom.Vec2(math.Cos(angle), math.Sin(angle)).Scale(r))
		x, y := p.Floor()
		if !grid.InBounds(x, y) || grid.Blocked(x, y) || !grid.CellAt(x, y).Empty() {
			continue
		}
		return p, true
	}
	return geom.Vector2{}, false
}
