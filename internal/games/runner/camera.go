package runner

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/cube-runner/internal/config"
	"github.com/vovakirdan/cube-runner/internal/core"
)

// CameraMode is the camera state machine state.
type CameraMode uint8

const (
	CameraOrbit CameraMode = iota
	CameraTransitioning
	CameraFollow
)

func (m CameraMode) String() string {
	switch m {
	case CameraOrbit:
		return "orbit"
	case CameraTransitioning:
		return "transitioning"
	case CameraFollow:
		return "follow"
	default:
		return "unknown"
	}
}

var cameraUp = mgl64.Vec3{0, 1, 0}

// CameraController orbits on the landing screen, transitions once into
// play and then follows the player.
type CameraController struct {
	cfg   config.CameraConfig
	clock core.Clock

	mode     CameraMode
	angle    float64
	pos      mgl64.Vec3
	lookAt   mgl64.Vec3
	fromPos  mgl64.Vec3
	fromLook mgl64.Vec3
	start    time.Duration
	progress float64
	onDone   func()
}

// NewCameraController creates a camera at the landing pose.
func NewCameraController(cfg config.CameraConfig, clock core.Clock) *CameraController {
	c := &CameraController{cfg: cfg, clock: clock}
	c.Reset()
	return c
}

// Reset aborts any transition and returns to the landing pose in orbit mode.
func (c *CameraController) Reset() {
	c.mode = CameraOrbit
	c.angle = 0
	c.pos = vec(c.cfg.LandingPosition)
	c.lookAt = vec(c.cfg.LandingLookAt)
	c.progress = 0
	c.onDone = nil
}

// StartTransition begins the move into play mode. onDone runs once on the
// tick the transition completes. It reports false unless the camera is
// orbiting.
func (c *CameraController) StartTransition(onDone func()) bool {
	if c.mode != CameraOrbit {
		return false
	}
	c.mode = CameraTransitioning
	c.fromPos = c.pos
	c.fromLook = c.lookAt
	c.start = c.clock.Now()
	c.progress = 0
	c.onDone = onDone
	return true
}

// Update advances the camera by one tick towards the given target.
func (c *CameraController) Update(target mgl64.Vec3) {
	switch c.mode {
	case CameraOrbit:
		c.angle += c.cfg.OrbitSpeed
		r := c.cfg.OrbitRadius
		c.pos = mgl64.Vec3{
			math.Sin(c.angle) * r,
			c.cfg.OrbitHeight + math.Sin(c.angle*0.5)*c.cfg.OrbitBob,
			-math.Cos(c.angle)*r + c.cfg.OrbitOffsetZ,
		}
		c.lookAt = vec(c.cfg.LandingLookAt)

	case CameraTransitioning:
		c.progress = core.ClampF(float64(c.clock.Now()-c.start)/float64(c.cfg.TransitionDuration), 0, 1)
		e := core.EaseInOutCubic(c.progress)
		endPos := c.playPose(target)
		c.pos = lerpVec(c.fromPos, endPos, e)
		c.lookAt = lerpVec(c.fromLook, c.lookTarget(endPos), e)

		if c.progress >= 1 {
			c.mode = CameraFollow
			done := c.onDone
			c.onDone = nil
			if done != nil {
				done()
			}
		}

	case CameraFollow:
		desired := c.playPose(target)
		s := c.cfg.Smoothing
		c.pos[0] += (desired.X() - c.pos.X()) * s
		c.pos[2] += (desired.Z() - c.pos.Z()) * s
		c.pos[1] = desired.Y()
		c.lookAt = c.lookTarget(c.pos)
	}
}

// playPose is the follow position for a target. Height is constant.
func (c *CameraController) playPose(target mgl64.Vec3) mgl64.Vec3 {
	off := c.cfg.PlayOffset
	return mgl64.Vec3{target.X() + off[0], off[1], target.Z() + off[2]}
}

// lookTarget keeps the look-at point rigidly ahead of the camera.
func (c *CameraController) lookTarget(camPos mgl64.Vec3) mgl64.Vec3 {
	off, ahead := c.cfg.PlayOffset, c.cfg.PlayLookAhead
	return mgl64.Vec3{camPos.X() - off[0] + ahead[0], ahead[1], camPos.Z() - off[2] + ahead[2]}
}

// View returns the combined projection-view matrix for the given aspect.
func (c *CameraController) View(aspect float64) mgl64.Mat4 {
	proj := mgl64.Perspective(mgl64.DegToRad(c.cfg.FOV), aspect, 0.1, 1000)
	return proj.Mul4(mgl64.LookAtV(c.pos, c.lookAt, cameraUp))
}

// Mode returns the current mode.
func (c *CameraController) Mode() CameraMode { return c.mode }

// Transitioning reports whether the play transition is running.
func (c *CameraController) Transitioning() bool { return c.mode == CameraTransitioning }

// Progress returns transition progress (0 to 1).
func (c *CameraController) Progress() float64 { return c.progress }

// Position returns the camera position.
func (c *CameraController) Position() mgl64.Vec3 { return c.pos }

// LookAt returns the point the camera looks at.
func (c *CameraController) LookAt() mgl64.Vec3 { return c.lookAt }

func vec(v config.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
