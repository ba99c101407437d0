package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/cube-runner/internal/config"
	"github.com/vovakirdan/cube-runner/internal/core"
	"github.com/vovakirdan/cube-runner/internal/games/runner"
	"github.com/vovakirdan/cube-runner/internal/platform/tui"
	"github.com/vovakirdan/cube-runner/internal/registry"
	"github.com/vovakirdan/cube-runner/internal/settings"
	"github.com/vovakirdan/cube-runner/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagSkin       string
	flagZen        bool
	flagPickSkin   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the runner",
	Long: `Start a run. The camera orbits the cube until you press Enter.

Controls:
  Left/A, Right/D  - Change lane
  Space/Up/W       - Jump
  Down/S           - Fast fall
  X/F              - Boost
  C                - Next skin
  P/Esc            - Pause
  R                - Restart (after game over)
  Ctrl+S           - Screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  cuberun play
  cuberun play --difficulty hard
  cuberun play --zen
  cuberun play --skin gold
  cuberun play --pick-skin
  cuberun play --config ./my-runner.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagSkin, "skin", "", "Cube skin ID (see 'cuberun skins')")
	playCmd.Flags().BoolVar(&flagZen, "zen", false, "Practice mode: no difficulty ramp, longer invincibility")
	playCmd.Flags().BoolVar(&flagPickSkin, "pick-skin", false, "Choose a skin before starting")
}

// session resolves the preset and skin from flags, falling back to the
// saved preferences.
func session(prefs settings.Prefs) (tui.Session, error) {
	s := tui.Session{Preset: prefs.Difficulty, Skin: prefs.Skin}
	if flagDifficulty != "" {
		preset := config.ParsePreset(strings.ToLower(flagDifficulty))
		if preset == "" {
			return s, fmt.Errorf("unknown difficulty %q", flagDifficulty)
		}
		s.Preset = string(preset)
	}
	if flagSkin != "" {
		skin, ok := runner.LookupSkin(flagSkin)
		if !ok {
			return s, fmt.Errorf("unknown skin %q", flagSkin)
		}
		s.Skin = skin.ID
	}
	return s, nil
}

func gameID() string {
	if flagZen {
		return "runner_zen"
	}
	return "runner"
}

func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

func runPlay(cmd *cobra.Command, args []string) {
	logger, closeLog, err := newFileLogger()
	if err != nil {
		fail("%v", err)
	}
	defer closeLog()

	prefs := openSettings(logger)
	sess, err := session(prefs.Prefs())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'cuberun skins' to see available skins.")
		os.Exit(1)
	}

	width, height := terminalSize()

	if flagPickSkin {
		id, ok, pickErr := tui.RunSkinPicker(sess.Skin, width, height)
		if pickErr != nil {
			fail("%v", pickErr)
		}
		if !ok {
			return
		}
		sess.Skin = id
		prefs.SetSkin(id)
		if saveErr := prefs.Save(); saveErr != nil {
			logger.Warn("could not save preferences", "error", saveErr)
		}
	}

	runner.SetConfigPath(flagConfig)
	runner.SetDifficultyPreset(sess.Preset)
	runner.SetDefaultSkin(sess.Skin)

	game, err := registry.Create(gameID())
	if err != nil {
		fail("creating game: %v", err)
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Continue without storage, the game still works
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open replay database: %v\n", err)
		logger.Warn("replays disabled", "error", err)
		store = nil
	}

	logger.Info("starting run", "game", gameID(), "preset", sess.Preset, "skin", sess.Skin, "seed", flagSeed)
	runErr := tui.Run(game, store, cfg, sess, logger)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
