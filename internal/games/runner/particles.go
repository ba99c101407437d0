package runner

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/cube-runner/internal/core"
)

// ParticleKind distinguishes star bursts from the boost trail.
type ParticleKind uint8

const (
	ParticleBurst ParticleKind = iota
	ParticleTrail
)

const (
	defaultParticlePool = 120
	trailLifetime       = 400 * time.Millisecond
	trailSlowInterval   = 80 * time.Millisecond
	trailFastInterval   = 20 * time.Millisecond
)

// Particle is a purely visual effect entity.
type Particle struct {
	ID       EntityID
	Kind     ParticleKind
	Pos      mgl64.Vec3
	Vel      mgl64.Vec3 // Units per tick
	BornAt   time.Duration
	Lifetime time.Duration
	Scale    float64
}

// Progress returns how far through its lifetime the particle is (0 to 1).
func (p Particle) Progress(now time.Duration) float64 {
	if p.Lifetime <= 0 {
		return 1
	}
	return core.ClampF(float64(now-p.BornAt)/float64(p.Lifetime), 0, 1)
}

type particleSlot struct {
	Particle
	active bool
}

// ParticleSystem owns a fixed pool of particles. Particles expire on their
// own and release their arena handles when they do.
type ParticleSystem struct {
	arena     *Arena
	clock     core.Clock
	rng       *rand.Rand
	peak      float64
	pool      []particleSlot
	active    int
	lastTrail time.Duration
}

// NewParticleSystem creates a pool of the given capacity. peak is the
// boost multiplier at which the trail is densest.
func NewParticleSystem(capacity int, peak float64, arena *Arena, clock core.Clock, rng *rand.Rand) *ParticleSystem {
	if capacity <= 0 {
		capacity = defaultParticlePool
	}
	return &ParticleSystem{
		arena: arena,
		clock: clock,
		rng:   rng,
		peak:  peak,
		pool:  make([]particleSlot, capacity),
	}
}

// Burst emits count particles radially from at. It returns how many fit in
// the pool.
func (ps *ParticleSystem) Burst(at mgl64.Vec3, count int, lifetime time.Duration) int {
	spawned := 0
	for i := 0; i < count; i++ {
		angle := float64(i) / float64(count) * 2 * math.Pi
		speed := 0.12 + ps.rng.Float64()*0.08
		vel := mgl64.Vec3{
			math.Cos(angle) * speed,
			(ps.rng.Float64() - 0.3) * speed,
			math.Sin(angle) * speed,
		}
		if !ps.spawn(ParticleBurst, at, vel, lifetime, 1) {
			break
		}
		spawned++
	}
	return spawned
}

// Trail emits boost particles behind at. Spawn rate rises with the boost
// multiplier; nothing spawns below a tenth of the peak.
func (ps *ParticleSystem) Trail(at mgl64.Vec3, multiplier float64) {
	if ps.peak <= 1 {
		return
	}
	factor := core.ClampF((multiplier-1)/(ps.peak-1), 0, 1)
	if factor <= 0.1 {
		return
	}

	now := ps.clock.Now()
	interval := trailSlowInterval - time.Duration(factor*float64(trailSlowInterval-trailFastInterval))
	if now-ps.lastTrail < interval {
		return
	}
	ps.lastTrail = now

	count := int(1 + factor*2)
	for i := 0; i < count; i++ {
		angle := ps.rng.Float64() * 2 * math.Pi
		radius := ps.rng.Float64() * 0.3 * factor
		pos := mgl64.Vec3{
			at.X() + math.Cos(angle)*radius,
			at.Y() + (ps.rng.Float64()-0.5)*0.3,
			at.Z() - (0.2 + factor*0.6),
		}
		vel := mgl64.Vec3{
			(ps.rng.Float64() - 0.5) * 0.08 * factor,
			(ps.rng.Float64() - 0.5) * 0.06 * factor,
			-(0.15 + factor*0.4 + ps.rng.Float64()*0.15),
		}
		if !ps.spawn(ParticleTrail, pos, vel, trailLifetime, 0.6+ps.rng.Float64()*0.4) {
			return
		}
	}
}

func (ps *ParticleSystem) spawn(kind ParticleKind, pos, vel mgl64.Vec3, lifetime time.Duration, scale float64) bool {
	for i := range ps.pool {
		slot := &ps.pool[i]
		if slot.active {
			continue
		}
		slot.Particle = Particle{
			ID:       ps.arena.Acquire(KindParticle),
			Kind:     kind,
			Pos:      pos,
			Vel:      vel,
			BornAt:   ps.clock.Now(),
			Lifetime: lifetime,
			Scale:    scale,
		}
		slot.active = true
		ps.active++
		return true
	}
	return false
}

// Update moves live particles and retires expired ones.
func (ps *ParticleSystem) Update() {
	now := ps.clock.Now()
	for i := range ps.pool {
		slot := &ps.pool[i]
		if !slot.active {
			continue
		}
		progress := slot.Progress(now)
		if progress >= 1 {
			ps.retire(slot)
			continue
		}
		switch slot.Kind {
		case ParticleBurst:
			slot.Pos = slot.Pos.Add(slot.Vel.Mul(1 - progress*0.5))
		default:
			slot.Pos = slot.Pos.Add(slot.Vel)
		}
	}
}

func (ps *ParticleSystem) retire(slot *particleSlot) {
	ps.arena.Release(slot.ID)
	slot.active = false
	ps.active--
}

// Particles returns copies of the live particles.
func (ps *ParticleSystem) Particles() []Particle {
	out := make([]Particle, 0, ps.active)
	for _, slot := range ps.pool {
		if slot.active {
			out = append(out, slot.Particle)
		}
	}
	return out
}

// Active returns the number of live particles.
func (ps *ParticleSystem) Active() int {
	return ps.active
}

// Cleanup retires every particle. Safe to call repeatedly.
func (ps *ParticleSystem) Cleanup() {
	for i := range ps.pool {
		if ps.pool[i].active {
			ps.retire(&ps.pool[i])
		}
	}
	ps.lastTrail = 0
}
