package runner

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/cube-runner/internal/config"
	"github.com/vovakirdan/cube-runner/internal/core"
)

// Outcome is the per-tick result of player physics.
type Outcome uint8

const (
	OutcomePlaying Outcome = iota
	OutcomeFalling
	OutcomeDead
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlaying:
		return "playing"
	case OutcomeFalling:
		return "falling"
	case OutcomeDead:
		return "dead"
	default:
		return "unknown"
	}
}

// PlayerState is a read-only view of the player's kinematic state.
type PlayerState struct {
	Position     mgl64.Vec3
	CurrentLane  int
	TargetLane   int
	VelocityY    float64
	Grounded     bool
	Jumping      bool
	FastFalling  bool
	ChangingLane bool
	Committed    bool
	Boosting     bool
	TimeOffPath  time.Duration
	BoostStart   time.Duration
	JumpStart    time.Duration
}

type playerCommand uint8

const (
	cmdLeft playerCommand = iota
	cmdRight
	cmdJump
	cmdFastFall
)

// Tumble rates in radians per second once committed to a fall.
var tumbleRate = mgl64.Vec3{9, 4.8, 7.2}

// PlayerController owns the cube's kinematics: lanes, jumps, fast-fall,
// boost and the commit-to-fall latch.
type PlayerController struct {
	physics config.PhysicsConfig
	boost   config.BoostConfig
	size    float64
	offset  float64
	lanesX  []float64
	tileY   float64
	clock   core.Clock
	skin    CubeSkin

	dropHeight   float64
	dropDuration time.Duration
	tickInterval time.Duration

	speedScale float64

	pos           mgl64.Vec3
	active        bool
	currentLane   int
	targetLane    int
	laneFromX     float64
	laneToX       float64
	laneProgress  float64
	changingLane  bool
	velY          float64
	grounded      bool
	jumping       bool
	fastFalling   bool
	committed     bool
	boosting      bool
	lockedGroundY float64
	offPath       bool
	offPathSince  time.Duration
	boostStart    time.Duration
	jumpStart     time.Duration
	jumpTicks     int
	commitAt      time.Duration
	boostMult     float64
	idleYaw       float64
	dropping      bool
	dropStart     time.Duration
	dropFromY     float64
	onLanded      func()

	queue []playerCommand
}

// NewPlayerController creates an inactive player resting on the start row.
func NewPlayerController(cfg config.RunnerConfig, clock core.Clock) *PlayerController {
	p := &PlayerController{
		physics: cfg.Physics,
		boost:   cfg.Boost,
		size:    cfg.Player.Size,
		offset:  cfg.Player.GroundOffset,
		lanesX:  cfg.Path.LanePositions,
		tileY:   cfg.Path.TileY,
		clock:   clock,
		skin:    SkinByID(cfg.Player.Skin),
		queue:   make([]playerCommand, 0, 4),

		dropHeight:   cfg.Player.DropHeight,
		dropDuration: cfg.Player.DropDuration,
		tickInterval: time.Second / 60,
	}
	p.Reset()
	return p
}

// Reset returns the player to its idle pose and clears every latch.
func (p *PlayerController) Reset() {
	p.pos = mgl64.Vec3{0, p.groundY(p.tileY), 0}
	p.active = false
	p.currentLane, p.targetLane = 1, 1
	p.laneFromX, p.laneToX, p.laneProgress = 0, 0, 0
	p.changingLane = false
	p.velY = 0
	p.grounded = true
	p.jumping = false
	p.fastFalling = false
	p.committed = false
	p.boosting = false
	p.lockedGroundY = p.pos.Y()
	p.offPath = false
	p.offPathSince = 0
	p.boostStart, p.jumpStart, p.commitAt = 0, 0, 0
	p.jumpTicks = 0
	p.boostMult = 1
	p.idleYaw = 0
	p.speedScale = 1
	p.dropping = false
	p.dropStart, p.dropFromY = 0, 0
	p.onLanded = nil
	p.queue = p.queue[:0]
}

// SetTickInterval sets the simulated time one Update covers. The grace
// timer counts the tick that first finds the player off the path.
func (p *PlayerController) SetTickInterval(d time.Duration) {
	if d > 0 {
		p.tickInterval = d
	}
}

// Activate places the player on the given segment and starts simulation.
func (p *PlayerController) Activate(seg Segment) {
	p.Reset()
	lane := p.nearestLane(seg.CenterX)
	p.currentLane, p.targetLane = lane, lane
	p.pos = mgl64.Vec3{p.lanesX[lane], p.groundY(p.tileY), seg.Z}
	p.lockedGroundY = p.pos.Y()
	p.active = true
}

// Drop places the player above the given segment and eases it down onto
// the ground over the configured drop duration. Commands are ignored until
// it lands; onLanded runs once on that tick. Drop reports false if a drop
// is already in progress.
func (p *PlayerController) Drop(seg Segment, onLanded func()) bool {
	if p.dropping {
		return false
	}
	p.Activate(seg)
	if p.dropDuration <= 0 {
		if onLanded != nil {
			onLanded()
		}
		return true
	}
	p.dropping = true
	p.grounded = false
	p.dropStart = p.clock.Now()
	p.dropFromY = p.lockedGroundY + p.dropHeight
	p.pos[1] = p.dropFromY
	p.onLanded = onLanded
	return true
}

func (p *PlayerController) updateDrop() {
	t := float64(p.clock.Now()-p.dropStart) / float64(p.dropDuration)
	if t < 1 {
		p.pos[1] = p.dropFromY + (p.lockedGroundY-p.dropFromY)*core.EaseOutCubic(t)
		return
	}

	p.dropping = false
	p.grounded = true
	p.pos[1] = p.lockedGroundY
	done := p.onLanded
	p.onLanded = nil
	if done != nil {
		done()
	}
}

// Deactivate stops simulation without touching state.
func (p *PlayerController) Deactivate() {
	p.active = false
	p.queue = p.queue[:0]
}

// SetSpeedScale sets the difficulty factor applied to forward speed.
func (p *PlayerController) SetSpeedScale(f float64) {
	if f <= 0 {
		f = 1
	}
	p.speedScale = f
}

// SetSkin swaps the cosmetic skin. Kinematics are untouched.
func (p *PlayerController) SetSkin(s CubeSkin) {
	p.skin = s
}

// Skin returns the current skin.
func (p *PlayerController) Skin() CubeSkin {
	return p.skin
}

// MoveLeft queues a lane shift to the left.
func (p *PlayerController) MoveLeft() { p.enqueue(cmdLeft) }

// MoveRight queues a lane shift to the right.
func (p *PlayerController) MoveRight() { p.enqueue(cmdRight) }

// Jump queues a jump.
func (p *PlayerController) Jump() { p.enqueue(cmdJump) }

// FastFall queues a fast-fall.
func (p *PlayerController) FastFall() { p.enqueue(cmdFastFall) }

func (p *PlayerController) enqueue(c playerCommand) {
	if !p.active || p.dropping {
		return
	}
	p.queue = append(p.queue, c)
}

// ActivateBoost starts a boost immediately. It reports false when the
// player is inactive, committed to a fall or already boosting.
func (p *PlayerController) ActivateBoost() bool {
	if !p.active || p.dropping || p.committed || p.boosting {
		return false
	}
	p.boosting = true
	p.boostStart = p.clock.Now()
	return true
}

// Update advances one tick: commands, lane easing, boost expiry, forward
// motion, then vertical physics against the collision answer for the new
// position.
func (p *PlayerController) Update(collide func(x, z float64) CollisionResult) Outcome {
	if !p.active {
		return OutcomePlaying
	}
	if p.dropping {
		p.updateDrop()
		return OutcomePlaying
	}

	p.resolveCommands()
	p.updateHorizontal()
	p.updateBoost()

	if !p.committed {
		p.pos[2] += p.physics.ForwardSpeed * p.speedScale * p.boostMult
	}
	if p.jumping {
		p.jumpTicks++
	}

	return p.updateVertical(collide(p.pos.X(), p.pos.Z()))
}

func (p *PlayerController) resolveCommands() {
	for _, c := range p.queue {
		if p.committed {
			break
		}
		switch c {
		case cmdLeft:
			if p.targetLane > 0 {
				p.targetLane--
				p.startLaneChange()
			}
		case cmdRight:
			if p.targetLane < laneCount-1 {
				p.targetLane++
				p.startLaneChange()
			}
		case cmdJump:
			if p.grounded {
				p.velY = p.physics.JumpForce
				p.grounded = false
				p.jumping = true
				p.jumpStart = p.clock.Now()
				p.jumpTicks = 0
			}
		case cmdFastFall:
			if !p.grounded {
				p.jumping = false
				p.velY = -p.physics.FastFallSpeed
				p.fastFalling = true
			}
		}
	}
	p.queue = p.queue[:0]
}

func (p *PlayerController) startLaneChange() {
	p.laneFromX = p.pos.X()
	p.laneToX = p.lanesX[p.targetLane]
	p.laneProgress = 0
	p.changingLane = true
}

func (p *PlayerController) updateHorizontal() {
	if !p.changingLane {
		return
	}

	rate := p.physics.LaneSwitchRate
	if p.boosting {
		rate *= p.physics.BoostLaneFactor
	}
	p.laneProgress += rate
	if p.laneProgress >= 1 {
		p.laneProgress = 1
		p.changingLane = false
		p.currentLane = p.targetLane
	}
	p.pos[0] = core.Lerp(p.laneFromX, p.laneToX, core.EaseInOutQuad(p.laneProgress))
}

// updateBoost is the single place where boost expiry mutates state.
func (p *PlayerController) updateBoost() {
	if !p.boosting {
		p.boostMult = 1
		return
	}
	elapsed := p.clock.Now() - p.boostStart
	if elapsed >= p.boost.Duration {
		p.boosting = false
		p.boostMult = 1
		return
	}
	p.boostMult = BoostMultiplier(elapsed, p.boost.Duration, p.boost.PeakMultiplier)
}

func (p *PlayerController) updateVertical(res CollisionResult) Outcome {
	now := p.clock.Now()

	if p.committed {
		p.velY -= p.physics.Gravity * p.physics.FallGravity
		p.pos[1] += p.velY
		if p.pos.Y() < p.physics.DeathY {
			return OutcomeDead
		}
		return OutcomeFalling
	}

	groundY := p.groundY(res.PathY)
	if res.OnPath {
		p.offPath = false
		p.lockedGroundY = groundY
	} else if !p.offPath {
		p.offPath = true
		p.offPathSince = now - p.tickInterval
	}
	timeOff := p.timeOffPath(now)

	if !p.grounded {
		gravity := p.physics.Gravity
		if p.fastFalling {
			gravity *= p.physics.FastFallGravity
		}
		p.velY -= gravity
		p.pos[1] += p.velY

		if p.pos.Y() <= groundY {
			if res.OnPath {
				p.pos[1] = groundY
				p.velY = 0
				p.grounded = true
				p.jumping = false
				p.fastFalling = false
			} else if timeOff > p.physics.GracePeriod {
				p.commit(now)
				return OutcomeFalling
			}
		}
		return OutcomePlaying
	}

	p.pos[1] = p.lockedGroundY
	if !res.OnPath {
		if timeOff > p.physics.GracePeriod {
			p.commit(now)
			p.velY = 0
			return OutcomeFalling
		}
		// Teeter on the edge without committing.
		p.grounded = false
		p.velY = p.physics.TeeterVelocity
	}
	return OutcomePlaying
}

func (p *PlayerController) commit(now time.Duration) {
	p.committed = true
	p.commitAt = now
	p.grounded = false
	p.jumping = false
	p.fastFalling = false
}

func (p *PlayerController) timeOffPath(now time.Duration) time.Duration {
	if !p.offPath {
		return 0
	}
	return now - p.offPathSince
}

func (p *PlayerController) groundY(pathY float64) float64 {
	return pathY + p.size/2 + p.offset
}

func (p *PlayerController) nearestLane(x float64) int {
	best, bestDist := 1, math.Inf(1)
	for i, lx := range p.lanesX[:laneCount] {
		if d := math.Abs(x - lx); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// AnimateIdle bobs and spins the cube on the landing screen. t is seconds
// since the landing screen appeared.
func (p *PlayerController) AnimateIdle(t float64) {
	if p.active {
		return
	}
	p.pos[1] = p.groundY(p.tileY) + math.Sin(t*p.physics.IdleBobSpeed)*p.physics.IdleBobAmplitude
	p.idleYaw += p.physics.IdleSpinSpeed
}

// Rotation returns the visual Euler rotation (pitch, yaw, roll) derived
// from the current flags. It has no gameplay effect.
func (p *PlayerController) Rotation() mgl64.Vec3 {
	switch {
	case !p.active:
		return mgl64.Vec3{0, p.idleYaw, 0}
	case p.committed:
		s := (p.clock.Now() - p.commitAt).Seconds()
		return tumbleRate.Mul(s)
	case p.fastFalling:
		return mgl64.Vec3{math.Pi / 2, 0, 0}
	case p.jumping:
		airTicks := 2 * p.physics.JumpForce / p.physics.Gravity
		progress := core.ClampF(float64(p.jumpTicks)/airTicks, 0, 1)
		return mgl64.Vec3{-math.Sin(progress*math.Pi) * 2 * math.Pi, 0, 0}
	case p.changingLane:
		dir := 1.0
		if p.targetLane < p.currentLane {
			dir = -1
		}
		return mgl64.Vec3{0, 0, dir * 0.15 * math.Sin(p.laneProgress*math.Pi)}
	default:
		return mgl64.Vec3{}
	}
}

// Position returns the player's world position.
func (p *PlayerController) Position() mgl64.Vec3 { return p.pos }

// X returns the lateral position.
func (p *PlayerController) X() float64 { return p.pos.X() }

// Z returns the forward distance.
func (p *PlayerController) Z() float64 { return p.pos.Z() }

// CurrentLane returns the lane the player last settled in.
func (p *PlayerController) CurrentLane() int { return p.currentLane }

// TargetLane returns the lane the player is moving towards.
func (p *PlayerController) TargetLane() int { return p.targetLane }

// Active reports whether the player is being simulated.
func (p *PlayerController) Active() bool { return p.active }

// Committed reports whether the commit-to-fall latch is set.
func (p *PlayerController) Committed() bool { return p.committed }

// Dropping reports whether the start-of-run drop is still running.
func (p *PlayerController) Dropping() bool { return p.dropping }

// Grounded reports whether the player stands on a tile.
func (p *PlayerController) Grounded() bool { return p.grounded }

// Boosting reports whether a boost is running.
func (p *PlayerController) Boosting() bool { return p.boosting }

// SpeedMultiplier returns the current boost multiplier without side effects.
func (p *PlayerController) SpeedMultiplier() float64 {
	if !p.boosting {
		return 1
	}
	return BoostMultiplier(p.clock.Now()-p.boostStart, p.boost.Duration, p.boost.PeakMultiplier)
}

// BoostProgress returns how far through the boost the player is (0 to 1).
func (p *PlayerController) BoostProgress() float64 {
	if !p.boosting {
		return 0
	}
	return core.ClampF(float64(p.clock.Now()-p.boostStart)/float64(p.boost.Duration), 0, 1)
}

// State returns a snapshot of the kinematic state.
func (p *PlayerController) State() PlayerState {
	return PlayerState{
		Position:     p.pos,
		CurrentLane:  p.currentLane,
		TargetLane:   p.targetLane,
		VelocityY:    p.velY,
		Grounded:     p.grounded,
		Jumping:      p.jumping,
		FastFalling:  p.fastFalling,
		ChangingLane: p.changingLane,
		Committed:    p.committed,
		Boosting:     p.boosting,
		TimeOffPath:  p.timeOffPath(p.clock.Now()),
		BoostStart:   p.boostStart,
		JumpStart:    p.jumpStart,
	}
}
