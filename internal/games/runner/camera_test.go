package runner

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/cube-runner/internal/config"
	"github.com/vovakirdan/cube-runner/internal/core"
)

func newTestCamera() (*CameraController, *core.SimClock, config.CameraConfig) {
	cfg := config.DefaultRunnerConfig().Camera
	clock := core.NewSimClock()
	return NewCameraController(cfg, clock), clock, cfg
}

func TestCameraOrbit(t *testing.T) {
	cam, _, cfg := newTestCamera()
	if cam.Mode() != CameraOrbit {
		t.Fatalf("Mode() = %v, expected orbit", cam.Mode())
	}

	for i := 0; i < 500; i++ {
		cam.Update(mgl64.Vec3{})
		pos := cam.Position()
		r := math.Hypot(pos.X(), pos.Z()-cfg.OrbitOffsetZ)
		if math.Abs(r-cfg.OrbitRadius) > 1e-9 {
			t.Fatalf("tick %d: orbit radius = %v, expected %v", i, r, cfg.OrbitRadius)
		}
		if math.Abs(pos.Y()-cfg.OrbitHeight) > cfg.OrbitBob+1e-9 {
			t.Fatalf("tick %d: orbit height %v outside bob range", i, pos.Y())
		}
		if cam.LookAt() != vec(cfg.LandingLookAt) {
			t.Fatalf("tick %d: LookAt() = %v, expected %v", i, cam.LookAt(), cfg.LandingLookAt)
		}
	}
}

func TestCameraTransitionFiresOnce(t *testing.T) {
	cam, clock, cfg := newTestCamera()
	target := mgl64.Vec3{0, 0, 0}

	calls := 0
	if !cam.StartTransition(func() { calls++ }) {
		t.Fatal("StartTransition() = false, expected true")
	}
	if cam.StartTransition(func() { calls += 100 }) {
		t.Error("second StartTransition() = true, expected false")
	}

	prev := 0.0
	for clock.Now() < cfg.TransitionDuration {
		clock.Advance(testTick)
		cam.Update(target)
		if cam.Progress() < prev {
			t.Fatalf("progress went backwards: %v -> %v", prev, cam.Progress())
		}
		prev = cam.Progress()
	}
	for i := 0; i < 30; i++ {
		clock.Advance(testTick)
		cam.Update(target)
	}

	if calls != 1 {
		t.Errorf("continuation ran %d times, expected 1", calls)
	}
	if cam.Mode() != CameraFollow {
		t.Errorf("Mode() = %v, expected follow", cam.Mode())
	}
	expected := mgl64.Vec3{cfg.PlayOffset[0], cfg.PlayOffset[1], cfg.PlayOffset[2]}
	if !cam.Position().ApproxEqualThreshold(expected, 1e-6) {
		t.Errorf("Position() = %v, expected %v", cam.Position(), expected)
	}
}

func TestCameraTransitionEndsAtDuration(t *testing.T) {
	cam, clock, cfg := newTestCamera()
	done := time.Duration(-1)
	cam.StartTransition(func() { done = clock.Now() })

	for i := 0; i < 1000 && done < 0; i++ {
		clock.Advance(testTick)
		cam.Update(mgl64.Vec3{})
	}

	if done < cfg.TransitionDuration || done >= cfg.TransitionDuration+testTick {
		t.Errorf("continuation at %v, expected within one tick of %v", done, cfg.TransitionDuration)
	}
}

func TestCameraFollow(t *testing.T) {
	cam, clock, cfg := newTestCamera()
	cam.StartTransition(nil)
	clock.Advance(cfg.TransitionDuration)
	cam.Update(mgl64.Vec3{})
	if cam.Mode() != CameraFollow {
		t.Fatalf("Mode() = %v, expected follow", cam.Mode())
	}

	target := mgl64.Vec3{2.5, 4, 10}
	prevGap := math.Inf(1)
	for i := 0; i < 200; i++ {
		cam.Update(target)
		pos := cam.Position()
		if pos.Y() != cfg.PlayOffset[1] {
			t.Fatalf("tick %d: Y = %v, expected constant %v", i, pos.Y(), cfg.PlayOffset[1])
		}
		gap := math.Abs(pos.Z() - (target.Z() + cfg.PlayOffset[2]))
		if gap > prevGap {
			t.Fatalf("tick %d: follow gap grew %v -> %v", i, prevGap, gap)
		}
		prevGap = gap

		look := cam.LookAt()
		ahead := look.Z() - pos.Z()
		if math.Abs(ahead-(cfg.PlayLookAhead[2]-cfg.PlayOffset[2])) > 1e-9 {
			t.Fatalf("tick %d: look-ahead = %v, expected rigid", i, ahead)
		}
	}

	if prevGap > 1e-3 {
		t.Errorf("camera did not converge, gap = %v", prevGap)
	}
	if math.Abs(cam.Position().X()-target.X()) > 1e-3 {
		t.Errorf("camera X = %v, expected %v", cam.Position().X(), target.X())
	}
}

func TestCameraReset(t *testing.T) {
	cam, clock, cfg := newTestCamera()
	calls := 0
	cam.StartTransition(func() { calls++ })
	clock.Advance(cfg.TransitionDuration / 2)
	cam.Update(mgl64.Vec3{})

	cam.Reset()
	clock.Advance(cfg.TransitionDuration)
	cam.Update(mgl64.Vec3{})

	if calls != 0 {
		t.Errorf("aborted continuation ran %d times", calls)
	}
	if cam.Mode() != CameraOrbit {
		t.Errorf("Mode() = %v, expected orbit", cam.Mode())
	}
	if !cam.StartTransition(nil) {
		t.Error("StartTransition() after Reset() = false, expected true")
	}
}

func TestCameraView(t *testing.T) {
	cam, _, _ := newTestCamera()
	m := cam.View(2)
	clip := m.Mul4x1(mgl64.Vec4{0, 0, 8, 1})
	if clip.W() <= 0 {
		t.Errorf("look-at point behind camera: w = %v", clip.W())
	}
	ndcX, ndcY := clip.X()/clip.W(), clip.Y()/clip.W()
	if math.Abs(ndcX) > 1e-9 || math.Abs(ndcY) > 1e-9 {
		t.Errorf("look-at point projects to (%v, %v), expected centre", ndcX, ndcY)
	}
}
