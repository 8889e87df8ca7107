// Package cmd wires configuration, sources and the terminal UI into the
// scope command tree.
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/olivier-w/scope/internal/config"
	"github.com/olivier-w/scope/internal/input"
	"github.com/olivier-w/scope/internal/log"
	"github.com/olivier-w/scope/internal/player"
	"github.com/olivier-w/scope/internal/scope"
	"github.com/olivier-w/scope/internal/ui"
)

// Session is one running scope: where samples come from and, for played
// files, the transport the UI can drive.
type Session struct {
	Source   input.Source
	Title    string
	Playback ui.Playback
}

// Runner owns the terminal.
type Runner interface {
	// Scope shows s until its source runs dry or the user quits.
	Scope(cfg *config.Config, s Session) error
	// Browse lets the user pick a playable file in dir. An empty path means
	// the user cancelled.
	Browse(dir string) (string, error)
}

// flags collects command line values; only flags the user set override the
// configuration file.
type flags struct {
	configPath  string
	channels    int
	buffer      int
	sampleRate  uint32
	tune        string
	format      string
	scale       float64
	scatter     bool
	noReference bool
	noUI        bool
	noBraille   bool
	palette     []string
	labelsColor string
	axisColor   string
	fps         int
	logLevel    string
	logFile     string

	limitRate bool
	device    int
	list      bool
	freqs     []float64
	amplitude float64
}

// Execute runs the command line against the real terminal.
func Execute() error {
	root := NewRootCommand(teaRunner{}, os.Stdout)
	root.SetArgs(os.Args[1:])
	return root.Execute()
}

// NewRootCommand builds the command tree. out receives non-TUI output such as
// the device list.
func NewRootCommand(run Runner, out io.Writer) *cobra.Command {
	f := &flags{device: input.DefaultDevice}
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "scope",
		Short:         "Oscilloscope, vectorscope and spectroscope for the terminal",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			f.apply(cmd, c)
			if err := c.Validate(); err != nil {
				return err
			}
			level, _ := log.ParseLevel(c.LogLevel)
			log.SetLevel(level)
			c.Tune()
			cfg = c
			return nil
		},
	}
	root.SetOut(out)
	root.SetHelpCommand(&cobra.Command{Hidden: true})

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Configuration file (default ./"+config.DefaultPath+" when present)")
	pf.IntVarP(&f.channels, "channels", "c", config.DefaultChannels, "Number of interleaved channels")
	pf.IntVarP(&f.buffer, "buffer", "b", config.DefaultBuffer, "Samples per channel in one frame")
	pf.Uint32VarP(&f.sampleRate, "sample-rate", "s", config.DefaultSampleRate, "Sample rate, measured in Hertz (Hz)")
	pf.StringVarP(&f.tune, "tune", "t", "", "Size the buffer to the period of a note, e.g. A4")
	pf.StringVarP(&f.format, "format", "f", config.DefaultFormat, "Raw sample format: "+scope.FormatNames())
	pf.Float64Var(&f.scale, "scale", config.DefaultScale, "Initial amplitude scale")
	pf.BoolVar(&f.scatter, "scatter", false, "Draw points instead of lines")
	pf.BoolVar(&f.noReference, "no-reference", false, "Hide reference lines")
	pf.BoolVar(&f.noUI, "no-ui", false, "Hide header, legend and help")
	pf.BoolVar(&f.noBraille, "no-braille", false, "Draw one dot per cell instead of braille")
	pf.StringSliceVar(&f.palette, "palette", config.DefaultPalette, "Channel colours")
	pf.StringVar(&f.labelsColor, "labels-color", config.DefaultLabels, "Axis label colour")
	pf.StringVar(&f.axisColor, "axis-color", config.DefaultAxis, "Axis colour")
	pf.IntVar(&f.fps, "fps", config.DefaultFPS, "Frames drawn per second")
	pf.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&f.logFile, "log-file", "", "Write logs to this file while the UI runs")

	fileCmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Read raw interleaved samples from a file, a pipe or - for stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := input.OpenFile(args[0], cfg.SourceOptions(), cfg.Source.LimitRate)
			if err != nil {
				return err
			}
			defer src.Close()
			return run.Scope(cfg, Session{Source: src, Title: filepath.Base(args[0])})
		},
	}
	fileCmd.Flags().BoolVar(&f.limitRate, "limit-rate", false, "Pace reads to the sample rate")

	playCmd := &cobra.Command{
		Use:   "play [path]",
		Short: "Play an audio file and scope what is being played",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				p, err := run.Browse(".")
				if err != nil {
					return err
				}
				if p == "" {
					return nil
				}
				path = p
			}
			return play(run, cfg, path)
		},
	}

	audioCmd := &cobra.Command{
		Use:   "audio",
		Short: "Capture from an audio input device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Audio.List {
				return input.ListDevices(cmd.OutOrStdout())
			}
			opts := cfg.SourceOptions()
			src, err := input.OpenDevice(cfg.Audio.Device, opts)
			if err != nil {
				return err
			}
			defer src.Close()
			return run.Scope(cfg, Session{Source: src, Title: "audio input"})
		},
	}
	audioCmd.Flags().IntVarP(&f.device, "device", "d", input.DefaultDevice, "Input device index, -1 for the default")
	audioCmd.Flags().BoolVarP(&f.list, "list", "l", false, "List available devices and exit")

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Scope a generated test signal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := input.NewGeneratorSource(cfg.SourceOptions(), f.amplitude, f.freqs...)
			defer src.Close()
			return run.Scope(cfg, Session{Source: src, Title: "demo"})
		},
	}
	demoCmd.Flags().Float64SliceVar(&f.freqs, "freq", []float64{440, 660}, "Tone per channel in Hz")
	demoCmd.Flags().Float64Var(&f.amplitude, "amplitude", 0.8, "Peak amplitude")

	root.AddCommand(fileCmd, playCmd, audioCmd, demoCmd)
	return root
}

// apply copies every flag the user set onto c.
func (f *flags) apply(cmd *cobra.Command, c *config.Config) {
	set := cmd.Flags().Changed
	if set("channels") {
		c.Source.Channels = f.channels
	}
	if set("buffer") {
		c.Source.Buffer = f.buffer
	}
	if set("sample-rate") {
		c.Source.SampleRate = f.sampleRate
	}
	if set("tune") {
		c.Source.Tune = f.tune
	}
	if set("format") {
		c.Source.Format = f.format
	}
	if set("limit-rate") {
		c.Source.LimitRate = f.limitRate
	}
	if set("scale") {
		c.UI.Scale = f.scale
	}
	if set("scatter") {
		c.UI.Scatter = f.scatter
	}
	if set("no-reference") {
		c.UI.NoReference = f.noReference
	}
	if set("no-ui") {
		c.UI.NoUI = f.noUI
	}
	if set("no-braille") {
		c.UI.NoBraille = f.noBraille
	}
	if set("palette") {
		c.UI.Palette = f.palette
	}
	if set("labels-color") {
		c.UI.LabelsColor = f.labelsColor
	}
	if set("axis-color") {
		c.UI.AxisColor = f.axisColor
	}
	if set("fps") {
		c.UI.FPS = f.fps
	}
	if set("log-level") {
		c.LogLevel = f.logLevel
	}
	if set("log-file") {
		c.LogFile = f.logFile
	}
	if set("device") {
		c.Audio.Device = f.device
	}
	if set("list") {
		c.Audio.List = f.list
	}
}

// play decodes path through the speakers and scopes the same PCM. The stream
// format comes from the file, not the configuration.
func play(run Runner, cfg *config.Config, path string) error {
	ring := input.NewRingBuffer(input.RingSize(cfg.SourceOptions()))
	p, err := player.New(path, ring)
	if err != nil {
		return fmt.Errorf("play %s: %w", path, err)
	}

	opts := adoptFormat(cfg, p.SampleRate(), p.Channels())
	ring.Grow(input.RingSize(opts))
	src := input.NewTapSource(ring, opts, p.Done(), p.Close)
	defer src.Close()

	return run.Scope(cfg, Session{
		Source:   src,
		Title:    player.ReadMetadata(path).String(),
		Playback: p,
	})
}

// adoptFormat switches cfg to a decoded file's format and reruns the note
// tuning, whose guard depends on the channel count.
func adoptFormat(cfg *config.Config, sampleRate, channels int) input.Options {
	cfg.Source.Channels = channels
	cfg.Source.SampleRate = uint32(sampleRate)
	cfg.Source.Format = config.DefaultFormat
	cfg.Tune()
	return input.Options{
		Channels:   channels,
		Buffer:     cfg.Source.Buffer,
		SampleRate: cfg.Source.SampleRate,
		Parser:     scope.Signed16PCM{},
	}
}
