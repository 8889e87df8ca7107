package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/olivier-w/scope/internal/scope"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scope.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source.Channels != DefaultChannels {
		t.Fatalf("expected %d channels, got %d", DefaultChannels, cfg.Source.Channels)
	}
	if cfg.Source.Buffer != DefaultBuffer {
		t.Fatalf("expected buffer %d, got %d", DefaultBuffer, cfg.Source.Buffer)
	}
	if cfg.Source.SampleRate != DefaultSampleRate {
		t.Fatalf("expected sample rate %d, got %d", DefaultSampleRate, cfg.Source.SampleRate)
	}
	if cfg.UI.FPS != DefaultFPS {
		t.Fatalf("expected fps %d, got %d", DefaultFPS, cfg.UI.FPS)
	}
	if len(cfg.UI.Palette) != len(DefaultPalette) {
		t.Fatalf("expected palette %v, got %v", DefaultPalette, cfg.UI.Palette)
	}
}

func TestLoad_DefaultPathIsPickedUp(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, DefaultPath), []byte("source:\n  channels: 1\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source.Channels != 1 {
		t.Fatalf("expected 1 channel from %s, got %d", DefaultPath, cfg.Source.Channels)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoad_UnmarshalError(t *testing.T) {
	path := writeTempConfig(t, "source: [this is not a map")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := writeTempConfig(t, `
log_level: debug
source:
  channels: 1
  buffer: 512
  sample_rate: 44100
  format: f32le
ui:
  scale: 2.5
  scatter: true
  no_braille: true
  palette: [blue, "#ff8800"]
  fps: 60
audio:
  device: 3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source.Buffer != 512 || cfg.Source.SampleRate != 44100 || cfg.Source.Format != "f32le" {
		t.Fatalf("unexpected source config: %+v", cfg.Source)
	}
	if cfg.UI.Scale != 2.5 || !cfg.UI.Scatter || !cfg.UI.NoBraille || cfg.UI.FPS != 60 {
		t.Fatalf("unexpected ui config: %+v", cfg.UI)
	}
	if cfg.Audio.Device != 3 {
		t.Fatalf("expected device 3, got %d", cfg.Audio.Device)
	}
	// Unset keys keep their defaults.
	if cfg.UI.LabelsColor != DefaultLabels {
		t.Fatalf("expected labels color %q, got %q", DefaultLabels, cfg.UI.LabelsColor)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeTempConfig(t, "source:\n  buffer: 512\n")
	t.Setenv("SCOPE_BUFFER", "1024")
	t.Setenv("SCOPE_SAMPLE_RATE", "96000")
	t.Setenv("SCOPE_SCALE", "0.5")
	t.Setenv("SCOPE_PALETTE", "green, ,blue")
	t.Setenv("SCOPE_CHANNELS", "not-a-number")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source.Buffer != 1024 {
		t.Fatalf("expected env buffer 1024, got %d", cfg.Source.Buffer)
	}
	if cfg.Source.SampleRate != 96000 {
		t.Fatalf("expected env sample rate 96000, got %d", cfg.Source.SampleRate)
	}
	if cfg.UI.Scale != 0.5 {
		t.Fatalf("expected env scale 0.5, got %v", cfg.UI.Scale)
	}
	if len(cfg.UI.Palette) != 2 || cfg.UI.Palette[0] != "green" || cfg.UI.Palette[1] != "blue" {
		t.Fatalf("expected palette [green blue], got %v", cfg.UI.Palette)
	}
	if cfg.Source.Channels != DefaultChannels {
		t.Fatalf("expected invalid env channels to be ignored, got %d", cfg.Source.Channels)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero channels", func(c *Config) { c.Source.Channels = 0 }},
		{"zero buffer", func(c *Config) { c.Source.Buffer = 0 }},
		{"huge buffer", func(c *Config) { c.Source.Buffer = MaxBuffer + 1 }},
		{"zero sample rate", func(c *Config) { c.Source.SampleRate = 0 }},
		{"scale too large", func(c *Config) { c.UI.Scale = scope.MaxScale + 1 }},
		{"negative scale", func(c *Config) { c.UI.Scale = -1 }},
		{"fps too high", func(c *Config) { c.UI.FPS = MaxFPS + 1 }},
		{"empty palette", func(c *Config) { c.UI.Palette = nil }},
		{"unknown format", func(c *Config) { c.Source.Format = "mp3" }},
		{"unknown level", func(c *Config) { c.LogLevel = "loud" }},
		{"unknown color", func(c *Config) { c.UI.AxisColor = "not-a-color" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestTune(t *testing.T) {
	cfg := Default()
	cfg.Source.Tune = "A4"
	cfg.Tune()
	if cfg.Source.Buffer != 109 {
		t.Fatalf("expected A4 at 48kHz to give buffer 109, got %d", cfg.Source.Buffer)
	}

	cfg = Default()
	cfg.Source.Tune = "H9"
	cfg.Tune()
	if cfg.Source.Buffer != DefaultBuffer {
		t.Fatalf("expected invalid tune to keep buffer %d, got %d", DefaultBuffer, cfg.Source.Buffer)
	}
}

func TestTuneRejectsOutOfRangeNotes(t *testing.T) {
	for _, note := range []string{"C-40", "C-20", "A12"} {
		cfg := Default()
		cfg.Source.Tune = note
		cfg.Tune()
		if cfg.Source.Buffer != DefaultBuffer {
			t.Fatalf("tune %q: expected buffer %d kept, got %d", note, DefaultBuffer, cfg.Source.Buffer)
		}
	}
}

func TestTuneKeepsBufferWhenTooLarge(t *testing.T) {
	cfg := Default()
	cfg.Source.Tune = "C-1"
	cfg.Source.SampleRate = 4_000_000_000
	cfg.Tune()
	if cfg.Source.Buffer != DefaultBuffer {
		t.Fatalf("expected buffer %d kept, got %d", DefaultBuffer, cfg.Source.Buffer)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected config to stay valid, got %v", err)
	}
}

func TestTuneFollowsChannels(t *testing.T) {
	// 44880 / 440 = 102: clear of the stereo guard 4, not of the mono guard 2.
	cfg := Default()
	cfg.Source.Tune = "A4"
	cfg.Source.SampleRate = 44880
	cfg.Tune()
	if cfg.Source.Buffer != 102 {
		t.Fatalf("expected stereo buffer 102, got %d", cfg.Source.Buffer)
	}

	cfg.Source.Channels = 1
	cfg.Tune()
	if cfg.Source.Buffer != 103 {
		t.Fatalf("expected mono retune to give 103, got %d", cfg.Source.Buffer)
	}
}

func TestGraphConfig(t *testing.T) {
	cfg := Default()
	cfg.UI.NoReference = true
	gc := cfg.GraphConfig()

	if gc.Samples != DefaultBuffer || gc.Width != DefaultBuffer {
		t.Fatalf("expected samples and width %d, got %d and %d", DefaultBuffer, gc.Samples, gc.Width)
	}
	if gc.References {
		t.Fatal("expected references off")
	}
	if !gc.ShowUI || !gc.Braille {
		t.Fatal("expected ui and braille on by default")
	}
	if gc.PaletteColor(1) != scope.Color("yellow") {
		t.Fatalf("expected second palette color yellow, got %q", gc.PaletteColor(1))
	}
}

func TestSourceOptions(t *testing.T) {
	cfg := Default()
	cfg.Source.Format = "u8"
	opts := cfg.SourceOptions()
	if _, ok := opts.Parser.(scope.Unsigned8PCM); !ok {
		t.Fatalf("expected Unsigned8PCM parser, got %T", opts.Parser)
	}
	if opts.Channels != DefaultChannels || opts.Buffer != DefaultBuffer {
		t.Fatalf("unexpected options %+v", opts)
	}
}
