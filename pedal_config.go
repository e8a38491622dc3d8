// pedal_config.go - Runtime configuration for the Flick Engine

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
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the engine runtime configuration. It covers the things a
// hardware build fixes at flash time: audio rates, block size, where the
// settings record lives, and how fast the control loop ticks.
type Config struct {
	SampleRate    int    `yaml:"sample_rate"`
	BlockSize     int    `yaml:"block_size"`
	Backend       string `yaml:"backend"` // "oto" or "none"
	SettingsPath  string `yaml:"settings_path"`
	ControlTickMs int    `yaml:"control_tick_ms"`
	LogLevel      string `yaml:"log_level"`
}

// DefaultConfig mirrors the hardware build: 48kHz, 8-sample blocks,
// millisecond control ticks.
func DefaultConfig() Config {
	return Config{
		SampleRate:    48000,
		BlockSize:     8,
		Backend:       "oto",
		SettingsPath:  "flick_settings.yaml",
		ControlTickMs: 1,
		LogLevel:      "info",
	}
}

// LoadConfig reads a YAML config file, filling unset fields from defaults.
// A missing file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("block_size must be positive, got %d", c.BlockSize)
	}
	if c.ControlTickMs <= 0 {
		return fmt.Errorf("control_tick_ms must be positive, got %d", c.ControlTickMs)
	}
	switch c.Backend {
	case "oto", "none":
	default:
		return fmt.Errorf("unknown audio backend %q", c.Backend)
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
