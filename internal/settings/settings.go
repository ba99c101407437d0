// Package settings persists player preferences between sessions using
// gdata, so they survive independently of the runner config files.
package settings

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/cube-runner/internal/config"
)

// AppName is the gdata application name.
const AppName = "cuberun"

const (
	prefsObject   = "prefs"
	prefsProperty = "player"
)

// Prefs are the persisted player preferences.
type Prefs struct {
	Skin       string `yaml:"skin"`
	Difficulty string `yaml:"difficulty"`
}

// Store loads and saves Prefs. A nil manager keeps preferences in memory
// only.
type Store struct {
	manager *gdata.Manager
	prefs   Prefs
	logger  *log.Logger
}

// Open opens the gdata storage for appName and loads saved preferences.
// A load error still returns a usable store with empty preferences.
func Open(appName string, logger *log.Logger) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("settings: open %s: %w", appName, err)
	}
	s := New(m, logger)
	return s, s.Load()
}

// New wraps an existing manager without loading.
func New(m *gdata.Manager, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{manager: m, logger: logger}
}

// Load reads the saved preferences. Missing data leaves the zero Prefs.
func (s *Store) Load() error {
	s.prefs = Prefs{}
	if s.manager == nil || !s.manager.ObjectPropExists(prefsObject, prefsProperty) {
		return nil
	}

	data, err := s.manager.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		return fmt.Errorf("settings: load: %w", err)
	}
	var p Prefs
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("settings: decode: %w", err)
	}
	if p.Difficulty != "" && config.ParsePreset(p.Difficulty) == "" {
		s.logger.Warn("ignoring unknown saved difficulty", "difficulty", p.Difficulty)
		p.Difficulty = ""
	}
	s.prefs = p
	return nil
}

// Save writes the current preferences.
func (s *Store) Save() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.prefs)
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	if err := s.manager.SaveObjectProp(prefsObject, prefsProperty, data); err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	s.logger.Debug("preferences saved", "skin", s.prefs.Skin, "difficulty", s.prefs.Difficulty)
	return nil
}

// Prefs returns the current preferences.
func (s *Store) Prefs() Prefs {
	return s.prefs
}

// SetSkin changes the preferred skin. Call Save to persist it.
func (s *Store) SetSkin(id string) {
	s.prefs.Skin = id
}

// SetDifficulty changes the preferred preset. Unknown presets are rejected.
func (s *Store) SetDifficulty(preset string) error {
	if preset != "" && config.ParsePreset(preset) == "" {
		return fmt.Errorf("settings: unknown difficulty %q", preset)
	}
	s.prefs.Difficulty = preset
	return nil
}
