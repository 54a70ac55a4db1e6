// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Session SessionConfig `toml:"session"`
	Audio   AudioConfig   `toml:"audio"`
	Songs   SongsConfig   `toml:"songs"`
	Export  ExportConfig  `toml:"export"`
	Log     LogConfig     `toml:"log"`
}

// SessionConfig maps recording-related settings.
type SessionConfig struct {
	MouseFlow  *bool   `toml:"mouse-flow"`
	ScrollStep *int    `toml:"scroll-step"`
	Location   *string `toml:"location"`
}

// AudioConfig maps audio backend settings.
type AudioConfig struct {
	Mute       *bool `toml:"mute"`
	SampleRate *int  `toml:"sample-rate"`
}

// SongsConfig maps songbook settings.
type SongsConfig struct {
	Path *string `toml:"path"`
}

// ExportConfig maps MIDI export settings.
type ExportConfig struct {
	Dir *string `toml:"dir"`
}

// LogConfig maps diagnostic log settings.
type LogConfig struct {
	File *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
