package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/cube-runner/internal/core"
	"github.com/vovakirdan/cube-runner/internal/games/runner"
	"github.com/vovakirdan/cube-runner/internal/platform/tui"
	"github.com/vovakirdan/cube-runner/internal/registry"
	"github.com/vovakirdan/cube-runner/internal/replay"
	"github.com/vovakirdan/cube-runner/internal/storage"
)

var (
	flagLimit  int
	flagPlain  bool
	flagWatch  bool
	flagDelete bool
)

var replaysCmd = &cobra.Command{
	Use:   "replays [mode]",
	Short: "Browse recorded replays",
	Long: `List the most recent replays. In a terminal this opens an interactive
browser: Enter watches the selected replay, X deletes it.

Examples:
  cuberun replays
  cuberun replays runner_zen
  cuberun replays --plain --limit 50`,
	Args: cobra.MaximumNArgs(1),
	Run:  runReplays,
}

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Verify or watch a recorded replay",
	Long: `Re-simulate a stored replay from its seed and command log.

Without flags the replay runs headlessly and the resulting score is compared
with the one recorded. A mismatch means the runner config changed since the
replay was made.

Examples:
  cuberun replay 7
  cuberun replay 7 --watch
  cuberun replay 7 --delete`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replaysCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of replays to show")
	replaysCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a table instead of opening the browser")
	replayCmd.Flags().BoolVar(&flagWatch, "watch", false, "Watch the replay in the terminal")
	replayCmd.Flags().BoolVar(&flagDelete, "delete", false, "Delete the replay")
	replayCmd.Flags().StringVar(&flagConfig, "config", "", "Runner config YAML the replay was recorded with")
}

func runReplays(cmd *cobra.Command, args []string) {
	gameID := ""
	if len(args) == 1 {
		gameID = args[0]
		if !registry.Exists(gameID) {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
			fmt.Fprintln(os.Stderr, "Run 'cuberun list' to see available modes.")
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening replay database: %v", err)
	}
	defer store.Close()

	if !flagPlain && gameID == "" && term.IsTerminal(int(os.Stdout.Fd())) {
		logger, closeLog, logErr := newFileLogger()
		if logErr != nil {
			fail("%v", logErr)
		}
		defer closeLog()

		width, height := terminalSize()
		id, browseErr := tui.RunReplayBrowser(store, logger, width, height)
		if browseErr != nil {
			fail("%v", browseErr)
		}
		if id == 0 {
			return
		}
		if watchErr := watchReplay(store, id, logger); watchErr != nil {
			fail("%v", watchErr)
		}
		return
	}

	replays, err := store.RecentReplays(gameID, flagLimit)
	if err != nil {
		fail("retrieving replays: %v", err)
	}

	if len(replays) == 0 {
		fmt.Println("No replays recorded yet.")
		fmt.Println()
		fmt.Println("Play 'cuberun play' to record the first one!")
		return
	}

	fmt.Printf("  %-5s  %-10s  %-7s  %-6s  %-8s  %-7s  %-7s  %s\n", "ID", "Mode", "Score", "Time", "Cube", "Preset", "End", "Date")
	fmt.Printf("  %-5s  %-10s  %-7s  %-6s  %-8s  %-7s  %-7s  %s\n", "--", "----", "-----", "----", "----", "------", "---", "----")
	for _, r := range replays {
		preset := r.Preset
		if preset == "" {
			preset = "-"
		}
		fmt.Printf("  %-5d  %-10s  %-7d  %-6s  %-8s  %-7s  %-7s  %s\n",
			r.ID, r.GameID, r.Score, playTime(r.Ticks, r.TickRate), r.Skin, preset, r.Outcome,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if gameID != "" {
		if stats, statsErr := store.GameStats(gameID); statsErr == nil && stats.Runs > 0 {
			fmt.Println()
			fmt.Printf("Runs: %d  Last played: %s\n", stats.Runs, stats.LastPlayed.Format("2006-01-02 15:04"))
		}
	}
}

func runReplay(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		fail("invalid replay id %q", args[0])
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening replay database: %v", err)
	}
	defer store.Close()

	if flagDelete {
		deleted, delErr := store.DeleteReplay(id)
		if delErr != nil {
			fail("%v", delErr)
		}
		if !deleted {
			fail("replay %d not found", id)
		}
		fmt.Printf("Deleted replay %d.\n", id)
		return
	}

	if flagWatch {
		logger, closeLog, logErr := newFileLogger()
		if logErr != nil {
			fail("%v", logErr)
		}
		defer closeLog()
		if watchErr := watchReplay(store, id, logger); watchErr != nil {
			fail("%v", watchErr)
		}
		return
	}

	logger, err := newLogger(os.Stderr)
	if err != nil {
		fail("%v", err)
	}
	rec, game, l, err := loadReplay(store, id)
	if err != nil {
		fail("%v", err)
	}

	start := time.Now()
	state := replay.Play(game, runtimeFor(rec), l, rec.Ticks)
	logger.Debug("replay verified", "id", id, "wall", time.Since(start))

	outcome := "running"
	if state.GameOver {
		outcome = "dead"
	}
	fmt.Printf("Replay %d - %s (seed %d, %d ticks)\n", rec.ID, game.Title(), rec.Seed, rec.Ticks)
	fmt.Printf("  Recorded: score %d, %s\n", rec.Score, rec.Outcome)
	fmt.Printf("  Replayed: score %d, %s\n", state.Score, outcome)
	if state.Score != rec.Score {
		fmt.Println()
		fmt.Println("Scores differ: the runner config has changed since this replay was recorded.")
		os.Exit(1)
	}
}

// loadReplay fetches a replay and prepares a game configured the way the
// run was recorded.
func loadReplay(store *storage.Store, id int64) (*storage.Replay, registry.Game, replay.Log, error) {
	rec, err := store.Replay(id)
	if err != nil {
		return nil, nil, replay.Log{}, err
	}
	if rec == nil {
		return nil, nil, replay.Log{}, fmt.Errorf("replay %d not found", id)
	}
	l, err := replay.Decode([]byte(rec.Commands))
	if err != nil {
		return nil, nil, replay.Log{}, err
	}

	runner.SetConfigPath(flagConfig)
	runner.SetDifficultyPreset(rec.Preset)
	runner.SetDefaultSkin(rec.Skin)

	game, err := registry.Create(rec.GameID)
	if err != nil {
		return nil, nil, replay.Log{}, err
	}
	return rec, game, l, nil
}

func watchReplay(store *storage.Store, id int64, logger *log.Logger) error {
	rec, game, l, err := loadReplay(store, id)
	if err != nil {
		return err
	}
	cfg := runtimeFor(rec)
	cfg.ScreenW, cfg.ScreenH = terminalSize()
	logger.Info("watching replay", "id", id, "game", rec.GameID, "ticks", rec.Ticks)
	return tui.RunPlayback(game, cfg, l, rec.Ticks, logger)
}

func runtimeFor(rec *storage.Replay) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: rec.TickRate,
		Seed:     rec.Seed,
	}
}

func playTime(ticks, rate int) string {
	if rate <= 0 {
		return "-"
	}
	d := time.Duration(ticks) * time.Second / time.Duration(rate)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
