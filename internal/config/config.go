// Package config loads scope settings from defaults, a YAML file and
// SCOPE_* environment variables, in that order. Command line flags are
// applied on top by the cmd package.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/olivier-w/scope/internal/input"
	"github.com/olivier-w/scope/internal/log"
	"github.com/olivier-w/scope/internal/render"
	"github.com/olivier-w/scope/internal/scope"
)

// DefaultPath is looked up in the working directory when no file is given.
const DefaultPath = "scope.yaml"

const (
	DefaultChannels   = 2
	DefaultBuffer     = 2048
	DefaultSampleRate = 48000
	DefaultScale      = 1.0
	DefaultFormat     = "s16le"
	DefaultFPS        = 30
	DefaultLabels     = "cyan"
	DefaultAxis       = "darkgray"
	MaxFPS            = 240
	MaxBuffer         = 1 << 20
)

var DefaultPalette = []string{"red", "yellow", "green", "magenta"}

var ErrInvalid = errors.New("invalid configuration")

// Config is the complete application configuration.
type Config struct {
	LogLevel string       `yaml:"log_level"` // debug, info, warn, error
	LogFile  string       `yaml:"log_file"`  // where logs go while the TUI runs; empty discards them
	Source   SourceConfig `yaml:"source"`
	UI       UIConfig     `yaml:"ui"`
	Audio    AudioConfig  `yaml:"audio"`
}

// SourceConfig describes the incoming sample stream.
type SourceConfig struct {
	Channels   int    `yaml:"channels"`
	Buffer     int    `yaml:"buffer"`      // samples per channel per frame
	SampleRate uint32 `yaml:"sample_rate"` // Hz
	Tune       string `yaml:"tune"`        // note name; sizes the buffer to its period
	Format     string `yaml:"format"`      // s16le, u8, s24le, s32le, f32le
	LimitRate  bool   `yaml:"limit_rate"`  // pace regular files to real time
}

// UIConfig holds display settings.
type UIConfig struct {
	Scale       float64  `yaml:"scale"`
	Scatter     bool     `yaml:"scatter"`
	NoReference bool     `yaml:"no_reference"`
	NoUI        bool     `yaml:"no_ui"`
	NoBraille   bool     `yaml:"no_braille"`
	Palette     []string `yaml:"palette"`
	LabelsColor string   `yaml:"labels_color"`
	AxisColor   string   `yaml:"axis_color"`
	FPS         int      `yaml:"fps"`
}

// AudioConfig selects the capture device.
type AudioConfig struct {
	Device int  `yaml:"device"` // PortAudio index, -1 for the default input
	List   bool `yaml:"list"`   // print the available devices and exit
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Source: SourceConfig{
			Channels:   DefaultChannels,
			Buffer:     DefaultBuffer,
			SampleRate: DefaultSampleRate,
			Format:     DefaultFormat,
		},
		UI: UIConfig{
			Scale:       DefaultScale,
			Palette:     append([]string(nil), DefaultPalette...),
			LabelsColor: DefaultLabels,
			AxisColor:   DefaultAxis,
			FPS:         DefaultFPS,
		},
		Audio: AudioConfig{Device: input.DefaultDevice},
	}
}

// Load reads path, or DefaultPath if path is empty and that file exists,
// then applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		log.Debugf("configuration: loaded %s", path)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Source.Channels < 1:
		return fmt.Errorf("%w: source.channels must be at least 1, got %d", ErrInvalid, c.Source.Channels)
	case c.Source.Buffer < 1 || c.Source.Buffer > MaxBuffer:
		return fmt.Errorf("%w: source.buffer must be within [1, %d], got %d", ErrInvalid, MaxBuffer, c.Source.Buffer)
	case c.Source.SampleRate == 0:
		return fmt.Errorf("%w: source.sample_rate must be positive", ErrInvalid)
	case c.UI.Scale < 0 || c.UI.Scale > scope.MaxScale:
		return fmt.Errorf("%w: ui.scale must be within [0, %g], got %g", ErrInvalid, scope.MaxScale, c.UI.Scale)
	case c.UI.FPS < 1 || c.UI.FPS > MaxFPS:
		return fmt.Errorf("%w: ui.fps must be within [1, %d], got %d", ErrInvalid, MaxFPS, c.UI.FPS)
	case len(c.UI.Palette) == 0:
		return fmt.Errorf("%w: ui.palette must not be empty", ErrInvalid)
	}
	if _, ok := scope.ParserFor(c.Source.Format); !ok {
		return fmt.Errorf("%w: source.format %q, expected one of %s", ErrInvalid, c.Source.Format, scope.FormatNames())
	}
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	for _, name := range append([]string{c.UI.LabelsColor, c.UI.AxisColor}, c.UI.Palette...) {
		if !render.Valid(scope.Color(name)) {
			return fmt.Errorf("%w: unknown color %q", ErrInvalid, name)
		}
	}
	return nil
}

// Tune resizes the buffer to the period of Source.Tune. A note that does not
// parse, or whose buffer would exceed MaxBuffer, is logged and the buffer is
// left alone. It depends only on the note, sample rate and channel count, so
// running it again after either changes is safe.
func (c *Config) Tune() {
	if c.Source.Tune == "" {
		return
	}
	note, err := scope.ParseNote(c.Source.Tune)
	if err != nil {
		log.Warnf("could not parse tune %q, keeping buffer at %d: %v", c.Source.Tune, c.Source.Buffer, err)
		return
	}
	size := note.TuneBufferSize(c.Source.SampleRate, c.Source.Channels)
	if size > MaxBuffer {
		log.Warnf("tune %q needs a %d sample buffer, keeping %d", c.Source.Tune, size, c.Source.Buffer)
		return
	}
	log.Infof("tuned to %s (%.2f Hz): buffer %d -> %d", note, note.Frequency(), c.Source.Buffer, size)
	c.Source.Buffer = int(size)
}

// GraphConfig builds the initial engine configuration.
func (c *Config) GraphConfig() scope.GraphConfig {
	palette := make([]scope.Color, len(c.UI.Palette))
	for i, name := range c.UI.Palette {
		palette[i] = scope.Color(name)
	}
	return scope.GraphConfig{
		Samples:      c.Source.Buffer,
		SamplingRate: c.Source.SampleRate,
		Scale:        c.UI.Scale,
		Width:        c.Source.Buffer,
		Scatter:      c.UI.Scatter,
		ShowUI:       !c.UI.NoUI,
		References:   !c.UI.NoReference,
		Braille:      !c.UI.NoBraille,
		Palette:      palette,
		LabelsColor:  scope.Color(c.UI.LabelsColor),
		AxisColor:    scope.Color(c.UI.AxisColor),
		ScaleStep:    scope.DefaultScaleStep,
		WindowStep:   scope.DefaultWindowStep,
	}
}

// SourceOptions describes the stream for the input package.
func (c *Config) SourceOptions() input.Options {
	parser, ok := scope.ParserFor(c.Source.Format)
	if !ok {
		parser = scope.Signed16PCM{}
	}
	return input.Options{
		Channels:   c.Source.Channels,
		Buffer:     c.Source.Buffer,
		SampleRate: c.Source.SampleRate,
		Parser:     parser,
	}
}

// applyEnvOverrides reads SCOPE_* variables. Values that fail to parse are
// logged and ignored.
func (c *Config) applyEnvOverrides() {
	envInt("SCOPE_CHANNELS", &c.Source.Channels)
	envInt("SCOPE_BUFFER", &c.Source.Buffer)
	if val, ok := os.LookupEnv("SCOPE_SAMPLE_RATE"); ok {
		if n, err := strconv.ParseUint(val, 10, 32); err == nil {
			c.Source.SampleRate = uint32(n)
			log.Debugf("configuration: overriding source.sample_rate from env: %d", n)
		} else {
			log.Warnf("configuration: ignoring SCOPE_SAMPLE_RATE=%q: %v", val, err)
		}
	}
	envString("SCOPE_TUNE", &c.Source.Tune)
	envString("SCOPE_FORMAT", &c.Source.Format)
	if val, ok := os.LookupEnv("SCOPE_SCALE"); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.UI.Scale = f
			log.Debugf("configuration: overriding ui.scale from env: %g", f)
		} else {
			log.Warnf("configuration: ignoring SCOPE_SCALE=%q: %v", val, err)
		}
	}
	if val, ok := os.LookupEnv("SCOPE_PALETTE"); ok {
		c.UI.Palette = SplitList(val)
		log.Debugf("configuration: overriding ui.palette from env: %v", c.UI.Palette)
	}
	envInt("SCOPE_FPS", &c.UI.FPS)
	envInt("SCOPE_DEVICE", &c.Audio.Device)
	envString("SCOPE_LOG_LEVEL", &c.LogLevel)
	envString("SCOPE_LOG_FILE", &c.LogFile)
}

func envInt(key string, dst *int) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Warnf("configuration: ignoring %s=%q: %v", key, val, err)
		return
	}
	*dst = n
	log.Debugf("configuration: overriding from env %s=%d", key, n)
}

func envString(key string, dst *string) {
	if val, ok := os.LookupEnv(key); ok {
		*dst = val
		log.Debugf("configuration: overriding from env %s=%q", key, val)
	}
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
