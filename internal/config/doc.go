// Package config manages export settings with JSON persistence and
// environment overrides.
//
// Settings resolve in layers: defaults, then the optional settings
// file, then environment variables (optionally sourced from a .env
// file in the output directory), then debug mode. EffectiveDuration
// encodes the precedence chain for the export duration.
//
// # Example
//
//	settings, err := config.Load("aircheck.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	settings.ApplyEnvOverrides()
//	duration, source := settings.EffectiveDuration("02:00:00")
package config
