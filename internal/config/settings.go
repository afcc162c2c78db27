package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/airchive/aircheck/internal/clock"
	"github.com/airchive/aircheck/internal/scrape"
)

// Environment variables recognized as pipeline input overrides. Values
// set here take precedence over page extraction; debug mode takes
// precedence over both.
const (
	EnvShowName = "AIRCHECK_SHOW_NAME"
	EnvDuration = "AIRCHECK_DURATION"
)

// DebugDuration is the effective duration forced by debug mode.
const DebugDuration = "00:05:00"

// Settings holds all configuration for one export run.
type Settings struct {
	// OutputDir is the working/output directory artifacts land in.
	OutputDir string `json:"output_dir"`

	// Format selects the output branch: "audio" or "video".
	Format string `json:"format"`

	// Debug caps the effective export duration to five minutes,
	// overriding both extraction and an explicit duration override.
	Debug bool `json:"debug"`

	// ShowNameOverride replaces the extracted show title when set.
	ShowNameOverride string `json:"show_name_override,omitempty"`

	// DurationOverride replaces the extracted duration when set.
	// Must be a fully padded "HH:MM:SS" string; malformed values are
	// ignored.
	DurationOverride string `json:"duration_override,omitempty"`

	// StreamHost is the streaming CDN domain accepted by the direct
	// manifest scan.
	StreamHost string `json:"stream_host"`

	// KeepIntermediates leaves raw/normalized/cover artifacts on disk
	// after a successful export. They back resumption, so this defaults
	// to true.
	KeepIntermediates bool `json:"keep_intermediates"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputDir:         ".",
		Format:            "audio",
		StreamHost:        scrape.DefaultStreamHost,
		KeepIntermediates: true,
	}
}

// Load reads settings from a JSON file. A missing file yields defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnvOverrides loads an optional .env file from the output
// directory and applies the recognized override variables. Environment
// values win over whatever the settings file carried.
func (s *Settings) ApplyEnvOverrides() {
	// Best effort: a missing .env is the normal case.
	_ = godotenv.Load(filepath.Join(s.OutputDir, ".env"))

	if v := os.Getenv(EnvShowName); v != "" {
		s.ShowNameOverride = v
	}
	if v := os.Getenv(EnvDuration); v != "" {
		s.DurationOverride = v
	}
}

// EffectiveDuration resolves the export duration from the extracted
// value, applying the precedence chain: debug beats override beats
// extraction. The returned source ("debug", "override", "extracted")
// feeds the diagnostic stream.
func (s *Settings) EffectiveDuration(extracted string) (value, source string) {
	if s.Debug {
		return DebugDuration, "debug"
	}
	if s.DurationOverride != "" {
		if _, err := clock.ParseDuration(s.DurationOverride); err == nil {
			return s.DurationOverride, "override"
		}
	}
	return extracted, "extracted"
}
