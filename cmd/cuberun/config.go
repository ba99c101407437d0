package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cube-runner/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective runner config",
	Long: `Print the runner config as YAML after applying the config file lookup
and the difficulty preset. The output is a valid config file and can be
edited and passed back with --config.

Config lookup order:
  1. --config path
  2. ~/.cuberun/configs/runner.yaml
  3. ./configs/runner.yaml
  4. Built-in defaults

Examples:
  cuberun config
  cuberun config --difficulty hard > hard.yaml
  cuberun config difficulty normal`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

var configDifficultyCmd = &cobra.Command{
	Use:   "difficulty [preset]",
	Short: "Show or save the default difficulty preset",
	Long: `Without an argument, print the saved preset. With one, save it as the
default for 'cuberun play'. Pass "none" to go back to the config's own
difficulty.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runConfigDifficulty,
}

func init() {
	configCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	configCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	configCmd.AddCommand(configDifficultyCmd)
}

func runConfig(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	if flagDifficulty != "" {
		preset := config.ParsePreset(strings.ToLower(flagDifficulty))
		if preset == "" {
			fail("unknown difficulty %q", flagDifficulty)
		}
		config.ApplyRunnerPreset(&cfg, preset)
	}
	data, err := cfg.Marshal()
	if err != nil {
		fail("%v", err)
	}
	os.Stdout.Write(data)
}

func runConfigDifficulty(cmd *cobra.Command, args []string) {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		fail("%v", err)
	}

	if len(args) == 0 {
		preset := openSettings(logger).Prefs().Difficulty
		if preset == "" {
			preset = "none (config default)"
		}
		fmt.Printf("Default difficulty: %s\n", preset)
		return
	}

	preset := strings.ToLower(args[0])
	if preset == "none" {
		preset = ""
	}
	prefs := openSettingsOrFail(logger)
	if err := prefs.SetDifficulty(preset); err != nil {
		fail("%v", err)
	}
	if err := prefs.Save(); err != nil {
		fail("%v", err)
	}
	if preset == "" {
		fmt.Println("Default difficulty cleared.")
		return
	}
	fmt.Printf("Default difficulty set to %s.\n", preset)
}
