// Package ui runs the scope as a bubbletea program: it pulls frames from a
// source at a fixed rate, feeds them through the engine and draws the result.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/scope/internal/input"
	"github.com/olivier-w/scope/internal/log"
	"github.com/olivier-w/scope/internal/render"
	"github.com/olivier-w/scope/internal/scope"
	"github.com/olivier-w/scope/internal/util"
)

const (
	seekStep   = 5 * time.Second
	volumeStep = 0.05
)

// Playback is the part of a media player the UI controls.
type Playback interface {
	Position() time.Duration
	Duration() time.Duration
	Seek(delta time.Duration) error
	Volume() float64
	AdjustVolume(delta float64)
	TogglePause()
	Paused() bool
}

// Options configures a Model. Playback may be nil.
type Options struct {
	Engine   *scope.Engine
	Source   input.Source
	FPS      int
	Title    string
	Playback Playback
}

// Model is the bubbletea model for the scope screen.
type Model struct {
	engine   *scope.Engine
	source   input.Source
	playback Playback
	title    string
	fps      int

	keys keyMap
	help help.Model

	last     scope.Matrix
	datasets []scope.Dataset
	width    int
	height   int
	err      error
	quitting bool
}

func New(opts Options) Model {
	keys := defaultKeys()
	if opts.Playback == nil {
		for _, b := range []*key.Binding{&keys.SeekBack, &keys.SeekFwd, &keys.VolUp, &keys.VolDown} {
			b.SetEnabled(false)
		}
	}
	return Model{
		engine:   opts.Engine,
		source:   opts.Source,
		playback: opts.Playback,
		title:    opts.Title,
		fps:      max(opts.FPS, 1),
		keys:     keys,
		help:     help.New(),
	}
}

// Err returns the source error that stopped the program, if any. Running out
// of data is not an error.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{recvCmd(m.source), tea.SetWindowTitle(m.windowTitle())}
	if m.playback != nil {
		cmds = append(cmds, statusCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.engine.Handle(scope.ResizeEvent{Width: msg.Width, Height: msg.Height})
		return m, nil

	case tickMsg:
		return m, recvCmd(m.source)

	case frameMsg:
		if msg.err != nil {
			if errors.Is(msg.err, input.ErrNoData) {
				log.Infof("source drained, stopping")
			} else {
				log.Errorf("reading source: %v", msg.err)
				m.err = msg.err
			}
			return m.quit()
		}
		m.last = msg.matrix
		m.datasets = m.engine.Process(msg.matrix)
		return m, tickCmd(m.fps)

	case statusMsg:
		return m, statusCmd()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.SeekBack):
		m.seek(-seekStep)
		return m, nil
	case key.Matches(msg, m.keys.SeekFwd):
		m.seek(seekStep)
		return m, nil
	case key.Matches(msg, m.keys.VolUp):
		m.playback.AdjustVolume(volumeStep)
		return m, nil
	case key.Matches(msg, m.keys.VolDown):
		m.playback.AdjustVolume(-volumeStep)
		return m, nil
	}

	ev, ok := m.keys.event(msg)
	if !ok {
		return m, nil
	}
	if m.engine.Handle(ev) && m.last != nil {
		m.datasets = m.engine.Process(m.last)
	}
	if ev.Action == scope.ActionTogglePause {
		m.syncPlayback()
		return m, tea.SetWindowTitle(m.windowTitle())
	}
	return m, nil
}

// syncPlayback pauses or resumes audio output to match the engine.
func (m Model) syncPlayback() {
	if m.playback == nil {
		return
	}
	if m.playback.Paused() != m.engine.Config().Pause {
		m.playback.TogglePause()
	}
}

func (m Model) seek(delta time.Duration) {
	if err := m.playback.Seek(delta); err != nil {
		log.Warnf("seek failed: %v", err)
	}
}

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func (m Model) View() string {
	if m.quitting || m.width == 0 {
		return ""
	}

	cfg := m.engine.Config()
	height := m.height
	var top, bottom string
	if cfg.ShowUI {
		top = m.headerView(cfg)
		bottom = m.help.View(m.keys)
		height -= lipgloss.Height(top) + lipgloss.Height(bottom)
	}

	x, y := m.engine.Axis(scope.X), m.engine.Axis(scope.Y)
	if !cfg.ShowUI {
		x.Labels, y.Labels = nil, nil
	}
	graph := render.Canvas{Width: m.width, Height: height, Braille: cfg.Braille}.Render(m.datasets, x, y)

	parts := make([]string, 0, 3)
	if top != "" {
		parts = append(parts, top)
	}
	parts = append(parts, graph)
	if bottom != "" {
		parts = append(parts, bottom)
	}
	return strings.Join(parts, "\n")
}

func (m Model) headerView(cfg scope.GraphConfig) string {
	left := headerStyle.Render("scope") + " " + modeStyle.Render(m.engine.Mode().Name()) +
		" " + statusStyle.Render(m.engine.Header())
	if m.engine.Paused() {
		left += " " + pausedStyle.Render("paused")
	}
	right := statusStyle.Render(fmt.Sprintf("x%.2f  %d smp  %.1f kHz",
		cfg.Scale, cfg.Samples, float64(cfg.SamplingRate)/1000))
	legend := renderLegend(m.datasets)

	lines := []string{joinEnds(left, right, m.width)}
	if legend != "" {
		lines = append(lines, legend)
	}
	if m.playback != nil {
		lines = append(lines, m.playbackView())
	}
	return strings.Join(lines, "\n")
}

func (m Model) playbackView() string {
	elapsed, total := m.playback.Position(), m.playback.Duration()
	vol := renderVolumePercent(m.playback.Volume())
	times := util.FormatProgress(elapsed, total)

	barWidth := m.width - lipgloss.Width(m.title) - len(times) - len(vol) - 6
	line := modeStyle.Render(m.title) + "  " + timeStyle.Render(times)
	if barWidth >= 10 {
		line += " " + timeStyle.Render(renderProgressBar(elapsed, total, barWidth))
	}
	return line + "  " + statusStyle.Render(vol)
}

func (m Model) windowTitle() string {
	name := m.title
	if name == "" {
		name = "scope"
	}
	if m.engine.Paused() || m.engine.Config().Pause {
		return "⏸ " + name
	}
	return name
}

// joinEnds places left and right at the two ends of a line of width cells.
func joinEnds(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return left + "  " + right
	}
	return fit(left, lipgloss.Width(left)+gap) + right
}
