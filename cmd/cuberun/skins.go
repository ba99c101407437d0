package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/cube-runner/internal/games/runner"
	"github.com/vovakirdan/cube-runner/internal/platform/tui"
	"github.com/vovakirdan/cube-runner/internal/settings"
)

var skinsCmd = &cobra.Command{
	Use:   "skins",
	Short: "List cube skins",
	Long: `Shows every cube skin. The saved skin is marked with '*' and is used by
'cuberun play' unless --skin is given.

Examples:
  cuberun skins
  cuberun skins set ghost
  cuberun skins pick`,
	Args: cobra.NoArgs,
	Run:  runSkins,
}

var skinsSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Save the default cube skin",
	Args:  cobra.ExactArgs(1),
	Run:   runSkinsSet,
}

var skinsPickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose the default cube skin interactively",
	Args:  cobra.NoArgs,
	Run:   runSkinsPick,
}

func init() {
	skinsCmd.AddCommand(skinsSetCmd)
	skinsCmd.AddCommand(skinsPickCmd)
}

func runSkins(cmd *cobra.Command, args []string) {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		fail("%v", err)
	}
	current := openSettings(logger).Prefs().Skin
	if current == "" {
		current = runner.DefaultSkin().ID
	}

	fmt.Println("Available skins:")
	fmt.Println()
	fmt.Printf("    %-10s  %-10s  %s\n", "ID", "Name", "Size")
	fmt.Printf("    %-10s  %-10s  %s\n", "--", "----", "----")
	for _, s := range runner.Skins() {
		mark := " "
		if s.ID == current {
			mark = "*"
		}
		fmt.Printf("  %s %-10s  %-10s  %.2f\n", mark, s.ID, s.Name, s.Size)
	}
	fmt.Println()
	fmt.Println("Run 'cuberun skins set <id>' to change the default skin.")
}

func runSkinsSet(cmd *cobra.Command, args []string) {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		fail("%v", err)
	}
	skin, ok := runner.LookupSkin(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown skin %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'cuberun skins' to see available skins.")
		os.Exit(1)
	}
	saveSkin(skin.ID, openSettingsOrFail(logger))
	fmt.Printf("Default skin set to %s.\n", skin.Name)
}

func runSkinsPick(cmd *cobra.Command, args []string) {
	logger, closeLog, err := newFileLogger()
	if err != nil {
		fail("%v", err)
	}
	defer closeLog()

	prefs := openSettingsOrFail(logger)
	width, height := terminalSize()
	id, ok, err := tui.RunSkinPicker(prefs.Prefs().Skin, width, height)
	if err != nil {
		fail("%v", err)
	}
	if !ok {
		return
	}
	saveSkin(id, prefs)
	fmt.Printf("Default skin set to %s.\n", runner.SkinByID(id).Name)
}

// openSettingsOrFail opens the preferences for writing. Unlike
// openSettings it exits when the storage itself is unavailable.
func openSettingsOrFail(logger *log.Logger) *settings.Store {
	s, err := settings.Open(settings.AppName, logger)
	if s == nil {
		fail("%v", err)
	}
	if err != nil {
		logger.Warn("discarding unreadable preferences", "error", err)
	}
	return s
}

func saveSkin(id string, prefs *settings.Store) {
	prefs.SetSkin(id)
	if err := prefs.Save(); err != nil {
		fail("%v", err)
	}
}
