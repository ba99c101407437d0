// Package runner implements the cube lane-runner: an endless procedurally
// generated tile path, the cube's physics, the camera, collectibles and the
// orchestrator that ties them into one fixed-tick simulation.
package runner

import (
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/cube-runner/internal/config"
	"github.com/vovakirdan/cube-runner/internal/core"
	"github.com/vovakirdan/cube-runner/internal/registry"
)

// Phase is the orchestrator's game state.
type Phase uint8

const (
	PhaseLanding Phase = iota
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseLanding:
		return "landing"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "gameOver"
	default:
		return "unknown"
	}
}

// Settings set via CLI before games are created.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	defaultSkinID    string
	logger           = log.New(io.Discard)
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names keep the
// config's own difficulty.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// SetDefaultSkin sets the skin new games start with.
func SetDefaultSkin(id string) {
	defaultSkinID = id
}

// SetLogger sets the logger used by every game instance.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// Game is the orchestrator. It owns every subsystem and advances them in a
// fixed order each tick: path, player, camera, stars and effects, score.
type Game struct {
	id    string
	title string
	zen   bool
	fixed *config.RunnerConfig

	cfg        config.RunnerConfig
	runtime    core.RuntimeConfig
	clock      *core.SimClock
	arena      *Arena
	difficulty *config.DifficultyManager
	path       *PathGenerator
	player     *PlayerController
	camera     *CameraController
	stars      *StarManager
	particles  *ParticleSystem
	skin       CubeSkin

	phase          Phase
	paused         bool
	ready          bool
	score          int
	starsCollected int
	inv            InvincibilityWindow
	ticks          int
	phaseTicks     int
	outcome        Outcome
	gameOverFired  bool

	onScore    func(int)
	onGameOver func(int)
}

// New creates a standard runner game.
func New() *Game {
	return &Game{id: "runner", title: "Cube Runner"}
}

// NewZen creates the practice variant: no difficulty ramp and a doubled
// invincibility window.
func NewZen() *Game {
	return &Game{id: "runner_zen", title: "Cube Runner (Zen)", zen: true}
}

// NewWithConfig creates a runner that uses cfg instead of loading one.
func NewWithConfig(cfg config.RunnerConfig) *Game {
	g := New()
	g.fixed = &cfg
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return g.title
}

// OnScore registers the score-updated callback.
func (g *Game) OnScore(f func(score int)) {
	g.onScore = f
}

// OnGameOver registers the game-over callback. It fires once per session.
func (g *Game) OnGameOver(f func(finalScore int)) {
	g.onGameOver = f
}

// Reset implements registry.Game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.Initialize(runtime)
}

// Initialize builds every subsystem for a fresh session on the landing
// screen.
func (g *Game) Initialize(runtime core.RuntimeConfig) {
	if g.arena != nil {
		g.Cleanup()
	}
	g.runtime = runtime
	g.cfg = g.loadConfig()

	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
	g.clock = core.NewSimClock()
	g.arena = NewArena()

	// One stream per subsystem; effects never shift path generation.
	pathRNG := rand.New(rand.NewSource(runtime.Seed))
	starRNG := rand.New(rand.NewSource(runtime.Seed + 1))
	fxRNG := rand.New(rand.NewSource(runtime.Seed + 2))

	g.path = NewPathGenerator(g.cfg.Path, g.difficulty, pathRNG, g.clock, g.arena, logger)
	g.player = NewPlayerController(g.cfg, g.clock)
	g.player.SetTickInterval(runtime.TickInterval())
	g.camera = NewCameraController(g.cfg.Camera, g.clock)
	g.particles = NewParticleSystem(defaultParticlePool, g.cfg.Boost.PeakMultiplier, g.arena, g.clock, fxRNG)
	g.stars = NewStarManager(g.cfg, g.arena, g.clock, starRNG, g.particles, logger)

	if g.skin.ID == "" {
		id := defaultSkinID
		if id == "" {
			id = g.cfg.Player.Skin
		}
		g.skin = SkinByID(id)
	}
	g.player.SetSkin(g.skin)

	g.path.Initialize()
	g.toLanding()
	g.ticks = 0
}

func (g *Game) loadConfig() config.RunnerConfig {
	var cfg config.RunnerConfig
	if g.fixed != nil {
		cfg = *g.fixed
	} else {
		loaded, err := config.LoadRunner(configPath)
		if err != nil {
			logger.Warn("using default runner config", "error", err)
			loaded = config.DefaultRunnerConfig()
		}
		cfg = loaded
		config.ApplyRunnerPreset(&cfg, difficultyPreset)
	}

	if g.zen {
		cfg.Difficulty.Enabled = false
		cfg.Difficulty.InitialLevel = 0
		cfg.Stars.InvincibilityDuration *= 2
	}
	return cfg
}

// toLanding puts the session on the landing screen with a fresh path.
func (g *Game) toLanding() {
	g.phase = PhaseLanding
	g.paused = false
	g.ready = false
	g.score = 0
	g.starsCollected = 0
	g.inv = InvincibilityWindow{}
	g.phaseTicks = 0
	g.outcome = OutcomePlaying
	g.gameOverFired = false
	g.player.Reset()
	g.camera.Reset()
}

// StartGame begins the camera transition into play. When it completes the
// cube drops onto the first segment; onReady runs once when it lands and
// the player is live. It reports false if a
// game is already starting or running.
func (g *Game) StartGame(onReady func()) bool {
	if g.phase != PhaseLanding || g.camera.Transitioning() {
		return false
	}

	g.phase = PhasePlaying
	g.phaseTicks = 0
	logger.Info("game starting", "game", g.id, "seed", g.runtime.Seed)

	return g.camera.StartTransition(func() {
		seg, ok := g.path.FirstSegment()
		if !ok {
			seg = Segment{}
		}
		g.player.Drop(seg, func() {
			g.ready = true
			logger.Debug("game ready", "z", seg.Z)
			if onReady != nil {
				onReady()
			}
		})
		g.path.Update(g.player.Z())
	})
}

// ResetGame tears down the path and player and returns to the landing
// screen. Visual effects already in flight run to completion.
func (g *Game) ResetGame() {
	g.stars.Cleanup()
	g.path.Initialize()
	g.toLanding()
	g.arena.Flush()
}

// Cleanup releases every entity. Safe to call repeatedly.
func (g *Game) Cleanup() {
	if g.arena == nil {
		return
	}
	g.path.Cleanup()
	g.stars.Cleanup()
	g.particles.Cleanup()
	g.player.Deactivate()
	if n := g.arena.Flush(); n > 0 {
		logger.Debug("cleanup", "released", n)
	}
}

// Step implements registry.Game: it maps platform actions to commands and
// advances one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionSkin) {
		g.SetSkin(NextSkin(g.skin.ID))
	}

	switch g.phase {
	case PhaseLanding:
		if in.Has(core.ActionConfirm) || in.Has(core.ActionJump) {
			g.StartGame(nil)
		}
	case PhaseGameOver:
		if in.Has(core.ActionRestart) || in.Has(core.ActionConfirm) {
			g.ResetGame()
			g.StartGame(nil)
		}
	case PhasePlaying:
		if in.Has(core.ActionPause) {
			g.paused = !g.paused
		}
		if in.Has(core.ActionRestart) {
			g.ResetGame()
			g.StartGame(nil)
		}
	}

	if !g.paused {
		g.applyInput(in)
	}
	g.Tick()
	return core.StepResult{State: g.State()}
}

func (g *Game) applyInput(in core.InputFrame) {
	if in.Has(core.ActionLeft) {
		g.MoveLeft()
	}
	if in.Has(core.ActionRight) {
		g.MoveRight()
	}
	if in.Has(core.ActionJump) {
		g.Jump()
	}
	if in.Has(core.ActionDuck) {
		g.FastFall()
	}
	if in.Has(core.ActionBoost) {
		g.ActivateBoost()
	}
}

// MoveLeft shifts one lane left.
func (g *Game) MoveLeft() { g.player.MoveLeft() }

// MoveRight shifts one lane right.
func (g *Game) MoveRight() { g.player.MoveRight() }

// Jump jumps if grounded.
func (g *Game) Jump() { g.player.Jump() }

// FastFall drops quickly while airborne.
func (g *Game) FastFall() { g.player.FastFall() }

// ActivateBoost starts a boost. It reports whether the boost started.
func (g *Game) ActivateBoost() bool { return g.player.ActivateBoost() }

// Pause freezes or resumes the simulation while playing.
func (g *Game) Pause(paused bool) {
	if g.phase == PhasePlaying {
		g.paused = paused
	}
}

// Tick advances the simulation by one tick.
func (g *Game) Tick() {
	if g.paused {
		return
	}
	g.clock.Advance(g.runtime.TickInterval())
	g.ticks++
	g.phaseTicks++

	switch g.phase {
	case PhaseLanding:
		g.camera.Update(g.player.Position())
		g.player.AnimateIdle(float64(g.phaseTicks) * g.runtime.TickInterval().Seconds())
	case PhasePlaying:
		if g.ready {
			g.tickPlaying()
		} else {
			g.tickStarting()
		}
	case PhaseGameOver:
		g.camera.Update(g.player.Position())
	}

	g.particles.Update()
	g.arena.Flush()
}

// tickStarting runs the camera transition and then the drop onto the path.
func (g *Game) tickStarting() {
	g.camera.Update(g.player.Position())
	if g.player.Dropping() {
		g.player.Update(g.collide)
	}
}

func (g *Game) tickPlaying() {
	g.path.Update(g.player.Z())
	g.player.SetSpeedScale(g.difficulty.Speed(1, config.Progress{Distance: g.path.Distance(), Score: g.score, Ticks: g.phaseTicks}))

	g.outcome = g.player.Update(g.collide)
	g.camera.Update(g.player.Position())

	g.stars.Update(g.player.Z(), g.path.LanesAt)
	if !g.player.Committed() {
		pos := g.player.Position()
		if star, ok := g.stars.CheckCollection(pos.X(), pos.Y(), pos.Z()); ok {
			g.collect(star)
		}
	}
	if g.player.Boosting() {
		g.particles.Trail(g.player.Position(), g.player.SpeedMultiplier())
	}

	g.updateScore()

	if g.outcome == OutcomeDead {
		g.endGame()
	}
}

// collide answers the player's collision query. Death is suppressed while
// an invincibility window is open.
func (g *Game) collide(x, z float64) CollisionResult {
	res := g.path.CheckCollision(x, z)
	if g.inv.ActiveAt(g.clock.Now()) {
		res.OnPath = true
	}
	return res
}

func (g *Game) collect(s Star) {
	g.starsCollected++
	g.inv = InvincibilityWindow{
		Active: true,
		EndsAt: g.clock.Now() + g.cfg.Stars.InvincibilityDuration,
	}
	g.path.ActivateInvincibility(g.player.Z(), g.inv)
	logger.Debug("invincibility window opened", "star", s.ID, "duration", g.cfg.Stars.InvincibilityDuration)
}

func (g *Game) updateScore() {
	distance := int(math.Floor(math.Max(g.player.Z(), 0) / g.cfg.Scoring.Spacing))
	score := distance + g.starsCollected*g.cfg.Scoring.StarBonus
	if score <= g.score {
		return
	}
	g.score = score
	if g.onScore != nil {
		g.onScore(score)
	}
}

func (g *Game) endGame() {
	g.phase = PhaseGameOver
	g.player.Deactivate()
	if g.gameOverFired {
		return
	}
	g.gameOverFired = true
	logger.Info("game over", "game", g.id, "score", g.score, "stars", g.starsCollected, "ticks", g.phaseTicks)
	if g.onGameOver != nil {
		g.onGameOver(g.score)
	}
}

// SetSkin swaps the cube's appearance without touching its physics.
func (g *Game) SetSkin(s CubeSkin) {
	g.skin = s
	if g.player != nil {
		g.player.SetSkin(s)
	}
}

// Skin returns the current cube skin.
func (g *Game) Skin() CubeSkin {
	return g.skin
}

// Score returns the current score.
func (g *Game) Score() int {
	return g.score
}

// StarsCollected returns the number of stars collected this session.
func (g *Game) StarsCollected() int {
	return g.starsCollected
}

// Phase returns the current game state.
func (g *Game) Phase() Phase {
	return g.phase
}

// Ready reports whether the player is live after the start transition.
func (g *Game) Ready() bool {
	return g.ready
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// Transitioning reports whether the camera is moving into play.
func (g *Game) Transitioning() bool {
	return g.camera.Transitioning()
}

// InvincibilityRemaining returns the remaining invincibility in
// milliseconds, zero when inactive.
func (g *Game) InvincibilityRemaining() int64 {
	return g.inv.Remaining(g.clock.Now()).Milliseconds()
}

// Outcome returns the last player outcome.
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Ticks returns the number of ticks since Initialize.
func (g *Game) Ticks() int {
	return g.ticks
}

// Elapsed returns simulated time since Initialize.
func (g *Game) Elapsed() time.Duration {
	return g.clock.Now()
}

// Advance fast-forwards the simulation clock without ticking.
func (g *Game) Advance(d time.Duration) {
	g.clock.Advance(d)
}

// Config returns the effective configuration.
func (g *Game) Config() config.RunnerConfig {
	return g.cfg
}

// Player exposes the player controller for read-only queries.
func (g *Game) Player() *PlayerController {
	return g.player
}

// Path exposes the path generator for read-only queries.
func (g *Game) Path() *PathGenerator {
	return g.path
}

// Arena exposes the entity arena for read-only queries.
func (g *Game) Arena() *Arena {
	return g.arena
}

// State implements registry.Game.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.phase == PhaseGameOver,
		Paused:   g.paused,
	}
}

// Register the games with the registry
func init() {
	registry.Register("runner", func() registry.Game {
		return New()
	})
	registry.Register("runner_zen", func() registry.Game {
		return NewZen()
	})
}
