package runner

import (
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/cube-runner/internal/core"
)

func newTestParticles(capacity int) (*ParticleSystem, *core.SimClock, *Arena) {
	clock := core.NewSimClock()
	arena := NewArena()
	return NewParticleSystem(capacity, 3.0, arena, clock, rand.New(rand.NewSource(5))), clock, arena
}

func TestParticlePoolCap(t *testing.T) {
	ps, _, arena := newTestParticles(10)

	if n := ps.Burst(mgl64.Vec3{}, 15, time.Second); n != 10 {
		t.Errorf("Burst() = %d, expected 10", n)
	}
	if ps.Active() != 10 {
		t.Errorf("Active() = %d, expected 10", ps.Active())
	}
	if arena.LiveOf(KindParticle) != 10 {
		t.Errorf("live particle handles = %d, expected 10", arena.LiveOf(KindParticle))
	}
	if n := ps.Burst(mgl64.Vec3{}, 5, time.Second); n != 0 {
		t.Errorf("Burst() on full pool = %d, expected 0", n)
	}
}

func TestParticleExpiry(t *testing.T) {
	ps, clock, arena := newTestParticles(0)
	origin := mgl64.Vec3{1, 1, 1}
	ps.Burst(origin, 8, 500*time.Millisecond)

	clock.Advance(testTick)
	ps.Update()
	for _, p := range ps.Particles() {
		if p.Pos.Sub(origin).Len() == 0 {
			t.Fatalf("particle %d did not move", p.ID)
		}
	}

	clock.Advance(500 * time.Millisecond)
	ps.Update()
	if ps.Active() != 0 {
		t.Errorf("Active() = %d after lifetime, expected 0", ps.Active())
	}
	if arena.Live() != 0 || arena.Pending() != 8 {
		t.Errorf("arena live = %d pending = %d, expected 0 and 8", arena.Live(), arena.Pending())
	}
}

func TestParticleTrailRate(t *testing.T) {
	ps, clock, _ := newTestParticles(0)
	clock.Advance(100 * time.Millisecond)

	ps.Trail(mgl64.Vec3{}, 1.1)
	if ps.Active() != 0 {
		t.Fatalf("trail spawned at low multiplier: %d", ps.Active())
	}

	ps.Trail(mgl64.Vec3{}, 3.0)
	first := ps.Active()
	if first == 0 {
		t.Fatal("no trail particles at peak multiplier")
	}

	ps.Trail(mgl64.Vec3{}, 3.0)
	if ps.Active() != first {
		t.Errorf("trail spawned again within the interval: %d -> %d", first, ps.Active())
	}

	clock.Advance(20 * time.Millisecond)
	ps.Trail(mgl64.Vec3{}, 3.0)
	if ps.Active() <= first {
		t.Errorf("trail did not spawn after the interval: %d", ps.Active())
	}
	for _, p := range ps.Particles() {
		if p.Kind != ParticleTrail {
			t.Errorf("particle kind = %v, expected trail", p.Kind)
		}
		if p.Pos.Z() >= 0 {
			t.Errorf("trail particle at Z = %v, expected behind the emitter", p.Pos.Z())
		}
	}
}

func TestParticleCleanup(t *testing.T) {
	ps, _, arena := newTestParticles(0)
	ps.Burst(mgl64.Vec3{}, 5, time.Second)

	ps.Cleanup()
	ps.Cleanup()

	if ps.Active() != 0 || len(ps.Particles()) != 0 {
		t.Errorf("Active() = %d after Cleanup(), expected 0", ps.Active())
	}
	if arena.Pending() != 5 {
		t.Errorf("pending releases = %d, expected 5", arena.Pending())
	}
}
