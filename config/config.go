// Package config persists user settings as JSON under the user config dir.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"speechcoach/internal/types"
)

const (
	appName        = "speechcoach"
	configFileName = "config.json"
)

// Config is the persisted application configuration.
type Config struct {
	Credential types.APICredential    `json:"credential"`
	Coaching   types.CoachingSettings `json:"coaching"`
}

// Load loads configuration from the config file.
// Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save persists the configuration to disk.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return fmt.Errorf("get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Validate checks the coaching settings for contradictions. A missing API
// key is not an error here; the collaborators report it when actually used.
func (c *Config) Validate() error {
	s := c.Coaching
	if s.TargetWPMMin <= 0 || s.TargetWPMMax <= 0 {
		return fmt.Errorf("target WPM range must be positive")
	}
	if s.TargetWPMMin > s.TargetWPMMax {
		return fmt.Errorf("target WPM min %.0f exceeds max %.0f", s.TargetWPMMin, s.TargetWPMMax)
	}
	if s.MaxFillerRatePerMinute <= 0 {
		return fmt.Errorf("max filler rate must be positive")
	}
	if s.LongPauseThresholdSecs <= 0 {
		return fmt.Errorf("long pause threshold must be positive")
	}
	return nil
}

// Default returns the stock configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	s := &c.Coaching
	if s.TargetWPMMin == 0 {
		s.TargetWPMMin = types.DefaultTargetWPMMin
	}
	if s.TargetWPMMax == 0 {
		s.TargetWPMMax = types.DefaultTargetWPMMax
	}
	if s.MaxFillerRatePerMinute == 0 {
		s.MaxFillerRatePerMinute = types.DefaultMaxFillerRatePerMinute
	}
	if s.LongPauseThresholdSecs == 0 {
		s.LongPauseThresholdSecs = types.DefaultLongPauseThreshold
	}
	if s.TranscriptionModel == "" {
		s.TranscriptionModel = types.DefaultTranscriptionModel
	}
	if s.FeedbackModel == "" {
		s.FeedbackModel = types.DefaultFeedbackModel
	}
	if s.FeedbackMaxTokens == 0 {
		s.FeedbackMaxTokens = types.DefaultFeedbackMaxTokens
	}
	if s.FeedbackTemperature == 0 {
		s.FeedbackTemperature = types.DefaultFeedbackTemperature
	}
}

// CacheDir returns the directory for the feedback cache, alongside the
// config file.
func CacheDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, "cache"), nil
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}
