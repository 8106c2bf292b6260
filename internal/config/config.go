// Package config provides YAML-based settings loading for the game:
// keybinds per key count, hit window configuration, playback rate, and
// loop tuning.
package config

import (
	"fmt"
	"strconv"

	"github.com/Glubus/prism-vsrg/internal/engine"
	"github.com/Glubus/prism-vsrg/internal/input"
)

// HitWindowConfig selects the judgement timing system.
type HitWindowConfig struct {
	// Mode is "od" (osu! Overall Difficulty) or "judge" (Etterna judge level).
	Mode string `yaml:"mode"`
	// Value is the OD (0-10) or judge level (1-9).
	Value float64 `yaml:"value"`
}

// Settings is the persistent user configuration.
type Settings struct {
	// ScrollSpeedMS is the time window visible on screen.
	ScrollSpeedMS float64 `yaml:"scroll_speed_ms"`
	// Rate is the default playback rate multiplier (0.5-2.0).
	Rate float64 `yaml:"rate"`
	// TPS is the logic tick rate.
	TPS int `yaml:"tps"`

	HitWindow HitWindowConfig `yaml:"hit_window"`

	// GhostTapPolicy is "ignore" or "penalize".
	GhostTapPolicy string `yaml:"ghost_tap_policy"`

	// Keybinds maps key count ("4".."7") to physical key names.
	Keybinds map[string][]string `yaml:"keybinds"`
}

// DefaultSettings returns the hardcoded fallback configuration.
func DefaultSettings() Settings {
	binds := make(map[string][]string)
	for count, keys := range input.DefaultBindings() {
		binds[strconv.Itoa(count)] = keys
	}
	return Settings{
		ScrollSpeedMS:  500.0,
		Rate:           1.0,
		TPS:            200,
		HitWindow:      HitWindowConfig{Mode: "od", Value: 5.0},
		GhostTapPolicy: "ignore",
		Keybinds:       binds,
	}
}

// Validate checks the settings and resolves the typed values gameplay
// needs. Invalid entries fail here, never mid-session.
func (s *Settings) Validate() error {
	if s.ScrollSpeedMS <= 0 {
		return fmt.Errorf("config: scroll_speed_ms must be positive, got %.1f", s.ScrollSpeedMS)
	}
	if s.Rate < 0.5 || s.Rate > 2.0 {
		return fmt.Errorf("config: rate %.2f out of range 0.5-2.0", s.Rate)
	}
	if s.TPS < 30 || s.TPS > 1000 {
		return fmt.Errorf("config: tps %d out of range 30-1000", s.TPS)
	}
	if _, err := engine.ParseWindowMode(s.HitWindow.Mode); err != nil {
		return err
	}
	if _, err := engine.ParseGhostTapPolicy(s.GhostTapPolicy); err != nil {
		return err
	}
	for countStr, keys := range s.Keybinds {
		count, err := strconv.Atoi(countStr)
		if err != nil {
			return fmt.Errorf("config: keybind key count %q is not a number", countStr)
		}
		if _, err := input.NewKeymap(count, keys); err != nil {
			return err
		}
	}
	return nil
}

// WindowMode returns the parsed hit window mode.
func (s *Settings) WindowMode() engine.WindowMode {
	mode, _ := engine.ParseWindowMode(s.HitWindow.Mode)
	return mode
}

// GhostTaps returns the parsed ghost tap policy.
func (s *Settings) GhostTaps() engine.GhostTapPolicy {
	policy, _ := engine.ParseGhostTapPolicy(s.GhostTapPolicy)
	return policy
}

// Keymap builds the validated keymap for the given key count, falling
// back to the stock layout when the count is unconfigured.
func (s *Settings) Keymap(keyCount int) (*input.Keymap, error) {
	if keys, ok := s.Keybinds[strconv.Itoa(keyCount)]; ok {
		return input.NewKeymap(keyCount, keys)
	}
	return input.DefaultKeymap(keyCount)
}
