// settings_store.go - Versioned persisted settings with deferred writes

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// SETTINGS_VERSION invalidates every previously stored record when bumped.
// Increment it whenever the Settings schema changes.
const SETTINGS_VERSION = 1

// Settings is the persisted record. It stands in for the flash-backed
// settings struct of the hardware build.
type Settings struct {
	Version int `yaml:"version"`

	Decay        float32 `yaml:"decay"`
	Diffusion    float32 `yaml:"diffusion"`
	InputCutoff  float32 `yaml:"input_cutoff_freq"`
	TankCutoff   float32 `yaml:"tank_cutoff_freq"`
	TankModSpeed float32 `yaml:"tank_mod_speed"`
	TankModDepth float32 `yaml:"tank_mod_depth"`
	TankModShape float32 `yaml:"tank_mod_shape"`
	PreDelay     float32 `yaml:"pre_delay"`

	MonoStereoMode int `yaml:"mono_stereo_mode"`
	MakeupGainMode int `yaml:"makeup_gain_mode"`

	BypassReverb  bool `yaml:"bypass_reverb"`
	BypassTremolo bool `yaml:"bypass_tremolo"`
	BypassDelay   bool `yaml:"bypass_delay"`
}

// FactoryDefaultSettings is the record restored at first boot and on any
// version mismatch.
func FactoryDefaultSettings() Settings {
	return Settings{
		Version:        SETTINGS_VERSION,
		Decay:          0.8,
		Diffusion:      0.85,
		InputCutoff:    7.25,
		TankCutoff:     7.25,
		TankModSpeed:   0.1,
		TankModDepth:   0.1,
		TankModShape:   0.25,
		PreDelay:       0.0,
		MonoStereoMode: int(MS_MODE_MIMO),
		MakeupGainMode: int(MAKEUP_GAIN_NONE),
		BypassReverb:   true,
		BypassTremolo:  true,
		BypassDelay:    true,
	}
}

// SettingsStore keeps a local working copy of the persisted record and a
// dirty flag. Commit operations mutate the local copy and mark it dirty;
// the control loop performs the actual write once per iteration via
// SaveIfDirty. Save never happens from the audio-block callback.
type SettingsStore struct {
	path     string
	defaults Settings
	local    Settings
	dirty    bool
	log      *slog.Logger
}

func NewSettingsStore(path string, defaults Settings, log *slog.Logger) *SettingsStore {
	if log == nil {
		log = slog.Default()
	}
	return &SettingsStore{
		path:     path,
		defaults: defaults,
		local:    defaults,
		log:      log,
	}
}

// Settings returns the local working copy for reading and for commit
// mutations. Callers mutate it and then MarkDirty.
func (s *SettingsStore) Settings() *Settings { return &s.local }

// Load reads the persisted record into the local copy. A version mismatch
// unconditionally restores factory defaults and retries exactly once.
// Out-of-range enum fields are clamped to safe defaults, defending against
// partially written or foreign-version records. A missing file keeps the
// defaults already in place.
func (s *SettingsStore) Load() error {
	for attempt := 0; attempt < 2; attempt++ {
		data, err := os.ReadFile(s.path)
		if err != nil {
			if os.IsNotExist(err) {
				s.local = s.defaults
				return nil
			}
			return fmt.Errorf("reading settings %s: %w", s.path, err)
		}

		var loaded Settings
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			s.log.Warn("settings record unreadable, restoring defaults", "path", s.path, "err", err)
			if err := s.RestoreDefaults(); err != nil {
				return err
			}
			continue
		}

		if loaded.Version != SETTINGS_VERSION {
			s.log.Info("settings version mismatch, restoring defaults",
				"stored", loaded.Version, "expected", SETTINGS_VERSION)
			if err := s.RestoreDefaults(); err != nil {
				return err
			}
			continue
		}

		s.clampEnums(&loaded)
		s.local = loaded
		return nil
	}
	// Second read after a defaults restore should always match; if it did
	// not the medium is misbehaving, so run on defaults.
	s.local = s.defaults
	return nil
}

// clampEnums range-checks the persisted enum fields.
func (s *SettingsStore) clampEnums(rec *Settings) {
	if rec.MonoStereoMode < int(MS_MODE_MIMO) || rec.MonoStereoMode > int(MS_MODE_SISO) {
		s.log.Warn("clamping out-of-range mono_stereo_mode", "value", rec.MonoStereoMode)
		rec.MonoStereoMode = int(MS_MODE_MIMO)
	}
	if rec.MakeupGainMode < int(MAKEUP_GAIN_NONE) || rec.MakeupGainMode > int(MAKEUP_GAIN_HEAVY) {
		s.log.Warn("clamping out-of-range makeup_gain_mode", "value", rec.MakeupGainMode)
		rec.MakeupGainMode = int(MAKEUP_GAIN_NONE)
	}
}

// RestoreDefaults resets the local copy to factory defaults and persists it.
func (s *SettingsStore) RestoreDefaults() error {
	s.local = s.defaults
	return s.write()
}

// MarkDirty flags the local copy for the next deferred write.
func (s *SettingsStore) MarkDirty() { s.dirty = true }

// Dirty reports whether a deferred write is pending.
func (s *SettingsStore) Dirty() bool { return s.dirty }

// SaveIfDirty performs at most one deferred write and clears the flag.
// Called once per control-loop iteration; never from the audio callback.
func (s *SettingsStore) SaveIfDirty() (bool, error) {
	if !s.dirty {
		return false, nil
	}
	s.dirty = false
	if err := s.write(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SettingsStore) write() error {
	s.local.Version = SETTINGS_VERSION
	data, err := yaml.Marshal(&s.local)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings %s: %w", s.path, err)
	}
	return nil
}
