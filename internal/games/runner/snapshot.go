package runner

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Snapshot captures the orchestrator state after a tick.
// Two runs with the same seed and inputs produce identical snapshots.
type Snapshot struct {
	Tick         int
	Elapsed      time.Duration
	Phase        Phase
	Score        int
	Stars        int
	Outcome      Outcome
	Player       PlayerState
	CameraMode   CameraMode
	Camera       mgl64.Vec3
	FurthestZ    float64
	Tiles        int
	LiveEntities int
	Invincible   int64 // Remaining milliseconds
}

// Snapshot returns the current state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:         g.ticks,
		Elapsed:      g.clock.Now(),
		Phase:        g.phase,
		Score:        g.score,
		Stars:        g.starsCollected,
		Outcome:      g.outcome,
		Player:       g.player.State(),
		CameraMode:   g.camera.Mode(),
		Camera:       g.camera.Position(),
		FurthestZ:    g.path.FurthestZ(),
		Tiles:        g.path.TileCount(),
		LiveEntities: g.arena.Live(),
		Invincible:   g.InvincibilityRemaining(),
	}
}
