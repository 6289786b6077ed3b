// Package settings is the host-level persistent key-value store for
// global preferences that live outside the engine: master volume, the
// onboarding flag, and the tick interval.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings holds the persisted preferences.
type Settings struct {
	// Volume is the master volume in [0,1].
	Volume float64 `yaml:"volume"`

	// OnboardingComplete records whether the user finished the tour.
	OnboardingComplete bool `yaml:"onboarding_complete"`

	// TickIntervalMS is the trace period in milliseconds.
	TickIntervalMS int `yaml:"tick_interval_ms"`
}

// Defaults returns the settings used before the user changed anything.
func Defaults() Settings {
	return Settings{
		Volume:             0.8,
		OnboardingComplete: false,
		TickIntervalMS:     16,
	}
}

// Service reads and writes a YAML settings file.
//
// Reads merge over defaults: fields absent from the file keep their
// default value, so adding a setting never invalidates existing files. A
// missing file yields pure defaults, not an error.
type Service struct {
	path string
}

// NewService creates a Service for the given file path.
func NewService(path string) *Service {
	return &Service{path: path}
}

// Load reads settings, merging the file's contents over Defaults().
func (s *Service) Load() (Settings, error) {
	out := Defaults()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("read settings: %w", err)
	}

	// Unmarshal into the default-populated struct: absent keys leave
	// their defaults untouched.
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return Defaults(), fmt.Errorf("parse settings: %w", err)
	}
	return out, nil
}

// Save writes settings, creating parent directories as needed.
func (s *Service) Save(settings Settings) error {
	raw, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Update loads, applies fn, and saves. Returns the updated settings.
func (s *Service) Update(fn func(*Settings)) (Settings, error) {
	settings, err := s.Load()
	if err != nil {
		return settings, err
	}
	fn(&settings)
	if err := s.Save(settings); err != nil {
		return settings, err
	}
	return settings, nil
}
