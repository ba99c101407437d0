// cuberun is a terminal lane-runner: steer a cube along an endless tile
// path, jump the gaps and collect stars.
//
// Usage:
//
//	cuberun play              - Play the runner
//	cuberun sim               - Run a headless autopilot session
//	cuberun replays           - Browse recorded replays
//	cuberun replay <id>       - Verify or watch a recorded replay
//	cuberun skins             - List cube skins
//	cuberun config            - Print the effective runner config
//	cuberun list              - List game modes
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set replay database path (default: ~/.cuberun/replays.db)
//	--log-level <level> - debug, info, warn or error (default: info)
//	--log-file <path>   - Log destination while the TUI owns the terminal
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/cube-runner/internal/games/runner"
	"github.com/vovakirdan/cube-runner/internal/settings"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cuberun",
	Short: "Cube Runner - an endless lane-runner in your terminal",
	Long: `Cube Runner drops a cube onto an endless path of tiles. Switch lanes,
jump the gaps and grab stars for points and a short invincibility.

Available commands:
  play     - Play the runner
  sim      - Run a headless autopilot session
  replays  - Browse recorded replays
  replay   - Verify or watch a recorded replay
  skins    - List or choose cube skins
  config   - Print the effective runner config
  list     - Show all game modes

Examples:
  cuberun play
  cuberun play --zen --skin ghost
  cuberun sim --seed 42 --ticks 3600
  cuberun replays
  cuberun replay 7 --watch`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.cuberun/replays.db", "Path to replay database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.cuberun/cuberun.log", "Log file used while the TUI is running")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(skinsCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the application logger writing to w.
func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "cuberun",
		Level:           level,
	})
	runner.SetLogger(logger)
	return logger, nil
}

// newFileLogger builds a logger writing to --log-file, so log lines never
// land on the TUI. The returned closer must be called on exit.
func newFileLogger() (*log.Logger, func(), error) {
	path := expandHome(flagLogFile)
	if path == "" {
		logger, err := newLogger(io.Discard)
		return logger, func() {}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := newLogger(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}

// openSettings opens the saved preferences. A storage failure is logged
// and falls back to in-memory preferences.
func openSettings(logger *log.Logger) *settings.Store {
	s, err := settings.Open(settings.AppName, logger)
	if err != nil {
		logger.Warn("could not load preferences", "error", err)
	}
	if s == nil {
		s = settings.New(nil, logger)
	}
	return s
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
