package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/settings.yaml
var defaultSettingsYAML []byte

// Load reads the settings.
// Search order: customPath -> ~/.prism/settings.yaml -> ./configs/settings.yaml -> embedded default
func Load(customPath string) (Settings, error) {
	if customPath != "" {
		return loadFile(customPath)
	}

	if userPath := userConfigPath("settings.yaml"); userPath != "" {
		if cfg, err := loadFile(userPath); err == nil {
			return cfg, nil
		}
	}

	if cfg, err := loadFile("configs/settings.yaml"); err == nil {
		return cfg, nil
	}

	var cfg Settings
	if err := yaml.Unmarshal(defaultSettingsYAML, &cfg); err != nil {
		return DefaultSettings(), nil
	}
	if err := cfg.Validate(); err != nil {
		return DefaultSettings(), nil
	}
	return cfg, nil
}

func loadFile(path string) (Settings, error) {
	var cfg Settings

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: cannot read %s: %w", path, err)
	}

	// Start from defaults so a partial file overrides rather than zeroes.
	cfg = DefaultSettings()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: cannot parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns ~/.prism/<name>, or empty if the home
// directory cannot be determined.
func userConfigPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".prism", name)
}
