package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("expected missing file to be ignored: %v", err)
	}
	if cfg.Session.MouseFlow != nil || cfg.Audio.Mute != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `[session]
mouse-flow = true
scroll-step = 10

[audio]
sample-rate = 48000

[export]
dir = "/tmp/out"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.MouseFlow == nil || !*cfg.Session.MouseFlow {
		t.Fatalf("expected mouse-flow true")
	}
	if cfg.Session.ScrollStep == nil || *cfg.Session.ScrollStep != 10 {
		t.Fatalf("expected scroll-step 10")
	}
	if cfg.Audio.SampleRate == nil || *cfg.Audio.SampleRate != 48000 {
		t.Fatalf("expected sample-rate 48000")
	}
	if cfg.Audio.Mute != nil {
		t.Fatalf("expected mute unset")
	}
	if cfg.Export.Dir == nil || *cfg.Export.Dir != "/tmp/out" {
		t.Fatalf("expected export dir")
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[session]\ntempo = 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "session.tempo") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "symphony", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultSongbookPath(); got != filepath.Join("/cfg", "symphony", "songs.yaml") {
		t.Fatalf("unexpected songbook path %s", got)
	}
	if got := DefaultExportDir(); got != filepath.Join("/data", "symphony", "exports") {
		t.Fatalf("unexpected export dir %s", got)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/someone")
	if got := ExpandHome("~/songs.yaml"); got != "/home/someone/songs.yaml" {
		t.Fatalf("unexpected expansion %s", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Fatalf("expected absolute path unchanged, got %s", got)
	}
}
