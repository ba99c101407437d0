package runner

import (
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/cube-runner/internal/config"
	"github.com/vovakirdan/cube-runner/internal/core"
)

// Star is a collectible that opens an invincibility window.
type Star struct {
	ID          EntityID
	Lane        int
	Pos         mgl64.Vec3 // Resting position; animation offsets come from Visual
	Collected   bool
	CollectedAt time.Duration
	BornAt      time.Duration
	SpinSpeed   float64 // Radians per second
	FloatSpeed  float64 // Radians per second
	FloatPhase  float64
}

// StarVisual is the animated appearance of a star.
type StarVisual struct {
	Pos     mgl64.Vec3
	Spin    float64
	Scale   float64
	Opacity float64
}

// StarManager spawns stars ahead of the player and detects collection.
type StarManager struct {
	cfg       config.StarConfig
	interval  float64
	lanesX    []float64
	tileY     float64
	arena     *Arena
	clock     core.Clock
	rng       *rand.Rand
	particles *ParticleSystem
	logger    *log.Logger

	stars     []*Star
	nextSpawn float64 // Player Z that triggers the next spawn
}

// NewStarManager creates a star manager. Bursts go to particles.
func NewStarManager(cfg config.RunnerConfig, arena *Arena, clock core.Clock, rng *rand.Rand, particles *ParticleSystem, logger *log.Logger) *StarManager {
	return &StarManager{
		cfg:       cfg.Stars,
		interval:  cfg.Path.SpawnInterval,
		lanesX:    cfg.Path.LanePositions,
		tileY:     cfg.Path.TileY,
		arena:     arena,
		clock:     clock,
		rng:       rng,
		particles: particles,
		logger:    logger,
		stars:     make([]*Star, 0, 8),
		nextSpawn: cfg.Stars.SpawnEvery,
	}
}

// Update spawns stars as the player advances and removes finished or
// passed ones. lanesAt reports which lanes hold a tile at a given Z.
func (sm *StarManager) Update(playerZ float64, lanesAt func(z float64) Lanes) {
	for playerZ >= sm.nextSpawn {
		sm.spawn(playerZ+sm.cfg.LeadDistance, lanesAt)
		sm.nextSpawn += sm.cfg.SpawnEvery
	}

	now := sm.clock.Now()
	kept := sm.stars[:0]
	for _, s := range sm.stars {
		switch {
		case s.Collected && now-s.CollectedAt >= sm.cfg.CollectDuration:
			sm.arena.Release(s.ID)
		case !s.Collected && s.Pos.Z() < playerZ-sm.cfg.Trailing:
			sm.arena.Release(s.ID)
		default:
			kept = append(kept, s)
		}
	}
	clear(sm.stars[len(kept):])
	sm.stars = kept
}

func (sm *StarManager) spawn(z float64, lanesAt func(z float64) Lanes) {
	z = math.Round(z/sm.interval) * sm.interval

	candidates := make([]int, 0, laneCount)
	if lanesAt != nil {
		for i, on := range lanesAt(z) {
			if on {
				candidates = append(candidates, i)
			}
		}
	}
	lane := sm.rng.Intn(laneCount)
	if len(candidates) > 0 {
		lane = candidates[sm.rng.Intn(len(candidates))]
	}

	s := &Star{
		ID:         sm.arena.Acquire(KindStar),
		Lane:       lane,
		Pos:        mgl64.Vec3{sm.lanesX[lane], sm.tileY + sm.cfg.HeightAboveTile, z},
		BornAt:     sm.clock.Now(),
		SpinSpeed:  3 + sm.rng.Float64()*1.8,
		FloatSpeed: 1.5 + sm.rng.Float64()*0.6,
		FloatPhase: sm.rng.Float64() * 2 * math.Pi,
	}
	sm.stars = append(sm.stars, s)
}

// CheckCollection returns the first uncollected star within the collection
// radius of the player and marks it collected.
func (sm *StarManager) CheckCollection(x, y, z float64) (Star, bool) {
	player := mgl64.Vec3{x, y, z}
	for _, s := range sm.stars {
		if s.Collected {
			continue
		}
		if s.Pos.Sub(player).Len() < sm.cfg.CollectRadius {
			s.Collected = true
			s.CollectedAt = sm.clock.Now()
			if sm.particles != nil {
				sm.particles.Burst(s.Pos, sm.cfg.BurstParticles, sm.cfg.BurstDuration)
			}
			sm.logger.Debug("star collected", "id", s.ID, "lane", s.Lane, "z", s.Pos.Z())
			return *s, true
		}
	}
	return Star{}, false
}

// Visual returns the animated appearance of a star.
func (sm *StarManager) Visual(s Star) StarVisual {
	now := sm.clock.Now()
	t := (now - s.BornAt).Seconds()

	v := StarVisual{
		Pos:     s.Pos,
		Spin:    t * s.SpinSpeed,
		Scale:   1,
		Opacity: 1,
	}
	v.Pos[1] += math.Sin(t*s.FloatSpeed+s.FloatPhase) * 0.2

	if s.Collected {
		p := core.ClampF(float64(now-s.CollectedAt)/float64(sm.cfg.CollectDuration), 0, 1)
		v.Pos = s.Pos
		v.Scale = 1 + p*3
		v.Opacity = 1 - p
		v.Spin += p * 24
	}
	return v
}

// Stars returns copies of all stars, collected ones included.
func (sm *StarManager) Stars() []Star {
	out := make([]Star, len(sm.stars))
	for i, s := range sm.stars {
		out[i] = *s
	}
	return out
}

// Cleanup releases every star. Safe to call repeatedly.
func (sm *StarManager) Cleanup() {
	for _, s := range sm.stars {
		sm.arena.Release(s.ID)
	}
	clear(sm.stars)
	sm.stars = sm.stars[:0]
	sm.nextSpawn = sm.cfg.SpawnEvery
}
