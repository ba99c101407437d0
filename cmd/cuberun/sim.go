package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cube-runner/internal/core"
	"github.com/vovakirdan/cube-runner/internal/games/runner"
	"github.com/vovakirdan/cube-runner/internal/registry"
	"github.com/vovakirdan/cube-runner/internal/replay"
	"github.com/vovakirdan/cube-runner/internal/settings"
	"github.com/vovakirdan/cube-runner/internal/storage"
)

var (
	flagTicks int
	flagSave  bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a headless autopilot session",
	Long: `Run the simulation without a terminal UI. The autopilot starts the run,
steers around gaps and boosts on long straights until the cube falls or the
tick limit is reached.

The same seed, preset and config always produce the same result, so sim is
a quick way to check that a config change keeps the game beatable.

Examples:
  cuberun sim
  cuberun sim --seed 42 --ticks 7200
  cuberun sim --difficulty hard --save`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagTicks, "ticks", 3600, "Maximum ticks to simulate")
	simCmd.Flags().BoolVar(&flagSave, "save", false, "Store the session in the replay database")
	simCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	simCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	simCmd.Flags().StringVar(&flagSkin, "skin", "", "Cube skin ID")
	simCmd.Flags().BoolVar(&flagZen, "zen", false, "Practice mode: no difficulty ramp, longer invincibility")
}

func runSim(cmd *cobra.Command, args []string) {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		fail("%v", err)
	}
	if flagTicks <= 0 {
		fail("--ticks must be positive")
	}

	sess, err := session(settings.Prefs{})
	if err != nil {
		fail("%v", err)
	}
	runner.SetConfigPath(flagConfig)
	runner.SetDifficultyPreset(sess.Preset)
	runner.SetDefaultSkin(sess.Skin)

	created, err := registry.Create(gameID())
	if err != nil {
		fail("creating game: %v", err)
	}
	game, ok := created.(*runner.Game)
	if !ok {
		fail("game %q does not support the autopilot", gameID())
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: flagFPS, Seed: seed}

	game.Reset(cfg)
	pilot := runner.NewAutopilot()
	rec := replay.NewRecorder()
	start := time.Now()

	var state core.GameState
	for rec.Ticks() < flagTicks && !state.GameOver {
		frame := core.NewInputFrame()
		for _, a := range pilot.Decide(game) {
			frame.Set(a)
		}
		rec.Record(frame)
		state = game.Step(frame).State
	}
	wall := time.Since(start)

	snap := game.Snapshot()
	outcome := "timeout"
	if state.GameOver {
		outcome = "dead"
	}

	logger.Debug("sim finished", "ticks", snap.Tick, "wall", wall)

	fmt.Printf("Mode:      %s\n", game.Title())
	fmt.Printf("Seed:      %d\n", seed)
	fmt.Printf("Ticks:     %d (%s simulated, %s wall)\n", snap.Tick, snap.Elapsed.Round(time.Millisecond), wall.Round(time.Millisecond))
	fmt.Printf("Outcome:   %s\n", outcome)
	fmt.Printf("Score:     %d\n", snap.Score)
	fmt.Printf("Stars:     %d\n", snap.Stars)
	fmt.Printf("Distance:  %.1f\n", snap.Player.Position.Z())
	fmt.Printf("Tiles:     %d live\n", snap.Tiles)

	if !flagSave {
		return
	}

	commands, err := replay.Encode(rec.Log())
	if err != nil {
		fail("encoding replay: %v", err)
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening replay database: %v", err)
	}
	defer store.Close()

	id, err := store.SaveReplay(storage.Replay{
		GameID:   game.ID(),
		Seed:     seed,
		Preset:   sess.Preset,
		Skin:     sess.Skin,
		TickRate: cfg.TickRate,
		Ticks:    rec.Ticks(),
		Commands: string(commands),
		Outcome:  outcome,
		Score:    snap.Score,
	})
	if err != nil {
		fail("saving replay: %v", err)
	}
	fmt.Printf("\nSaved as replay %d. Run 'cuberun replay %d --watch' to watch it.\n", id, id)
}
