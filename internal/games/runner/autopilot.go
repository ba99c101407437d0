package runner

import (
	"math"

	"github.com/vovakirdan/cube-runner/internal/core"
)

// Autopilot plays the runner headlessly. It looks ahead along the
// player's lane and steers towards the nearest lane without gaps, jumping
// when no such lane exists.
type Autopilot struct {
	Horizon     float64 // Distance ahead that must be gap-free
	JumpLead    float64 // Distance before a gap at which to jump
	BoostRun    float64 // Gap-free distance required before boosting
	BoostPeriod int     // Minimum ticks between boosts
	lastBoost   int
	goal        int // Lane being steered to, -1 when none
}

// NewAutopilot creates an autopilot with tuned defaults.
func NewAutopilot() *Autopilot {
	return &Autopilot{
		Horizon:     4,
		JumpLead:    1.3,
		BoostRun:    24,
		BoostPeriod: 240,
		lastBoost:   -1 << 30,
		goal:        -1,
	}
}

// Decide returns the actions to feed into the next Step.
func (a *Autopilot) Decide(g *Game) []core.Action {
	switch g.Phase() {
	case PhaseLanding:
		return []core.Action{core.ActionConfirm}
	case PhaseGameOver:
		return nil
	}

	p := g.Player()
	if !g.Ready() || p.Committed() {
		return nil
	}

	interval := g.cfg.Path.SpawnInterval
	from := math.Round(p.Z()/interval) * interval
	lane := p.TargetLane()

	if a.goal == lane {
		a.goal = -1
	}
	if a.goal >= 0 && a.clear(g, a.goal, from, a.Horizon) {
		return []core.Action{steer(lane, a.goal)}
	}
	a.goal = -1

	if a.clear(g, lane, from, a.Horizon) {
		if a.shouldBoost(g, lane, from) {
			a.lastBoost = g.Ticks()
			return []core.Action{core.ActionBoost}
		}
		return nil
	}

	for _, l := range lanesByDistance(lane) {
		if a.clear(g, l, from, a.Horizon) {
			a.goal = l
			return []core.Action{steer(lane, l)}
		}
	}

	if gap, ok := a.firstGap(g, lane, from, a.Horizon); ok && gap-interval/2-p.Z() < a.JumpLead && p.Grounded() {
		return []core.Action{core.ActionJump}
	}
	return nil
}

func (a *Autopilot) shouldBoost(g *Game, lane int, from float64) bool {
	p := g.Player()
	return !p.Boosting() && p.Grounded() &&
		g.Ticks()-a.lastBoost >= a.BoostPeriod &&
		a.clear(g, lane, from, a.BoostRun)
}

func (a *Autopilot) clear(g *Game, lane int, from, dist float64) bool {
	_, gap := a.firstGap(g, lane, from, dist)
	return !gap
}

func (a *Autopilot) firstGap(g *Game, lane int, from, dist float64) (float64, bool) {
	interval := g.cfg.Path.SpawnInterval
	for z := from; z <= from+dist; z += interval {
		if !g.Path().LanesAt(z)[lane] {
			return z, true
		}
	}
	return 0, false
}

func steer(from, to int) core.Action {
	if to < from {
		return core.ActionLeft
	}
	return core.ActionRight
}

// lanesByDistance lists the other lanes, nearest first.
func lanesByDistance(lane int) []int {
	switch lane {
	case 0:
		return []int{1, 2}
	case 2:
		return []int{1, 0}
	default:
		return []int{0, 2}
	}
}
