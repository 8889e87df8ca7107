package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/scope/internal/scope"
)

// keyMap binds keys to engine actions. Modifiers held with a bound key scale
// its step (shift ×10, ctrl ×5, alt ×0.2).
type keyMap struct {
	Quit key.Binding
	Help key.Binding

	ScaleUp, ScaleDown         key.Binding
	Widen, Narrow              key.Binding
	Scatter                    key.Binding
	Pause                      key.Binding
	Reference                  key.Binding
	UI                         key.Binding
	Braille                    key.Binding
	NextMode, PrevMode         key.Binding
	Reset                      key.Binding
	Trigger, FallingEdge       key.Binding
	Peaks                      key.Binding
	ThresholdUp, ThresholdDown key.Binding
	DepthUp, DepthDown         key.Binding
	Smoothing                  key.Binding

	// Playback, only shown when a file is playing.
	SeekBack, SeekFwd key.Binding
	VolUp, VolDown    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),

		ScaleUp:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "scale")),
		ScaleDown:     key.NewBinding(key.WithKeys("down")),
		Widen:         key.NewBinding(key.WithKeys("right"), key.WithHelp("←/→", "window")),
		Narrow:        key.NewBinding(key.WithKeys("left")),
		Scatter:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scatter")),
		Pause:         key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Reference:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reference")),
		UI:            key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hide ui")),
		Braille:       key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "braille")),
		NextMode:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "mode")),
		PrevMode:      key.NewBinding(key.WithKeys("shift+tab")),
		Reset:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "reset")),
		Trigger:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "trigger")),
		FallingEdge:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edge")),
		Peaks:         key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "peaks")),
		ThresholdUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup/pgdn", "threshold")),
		ThresholdDown: key.NewBinding(key.WithKeys("pgdown")),
		DepthUp:       key.NewBinding(key.WithKeys("]"), key.WithHelp("[/]", "depth")),
		DepthDown:     key.NewBinding(key.WithKeys("[")),
		Smoothing:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "smoothing")),

		SeekBack: key.NewBinding(key.WithKeys(","), key.WithHelp(",/.", "seek")),
		SeekFwd:  key.NewBinding(key.WithKeys(".")),
		VolUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "volume")),
		VolDown:  key.NewBinding(key.WithKeys("-")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextMode, k.Pause, k.ScaleUp, k.Widen, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ScaleUp, k.Widen, k.Reset, k.NextMode},
		{k.Pause, k.Scatter, k.Reference, k.Braille, k.UI},
		{k.Trigger, k.FallingEdge, k.Peaks, k.ThresholdUp, k.DepthUp, k.Smoothing},
		{k.SeekBack, k.VolUp, k.Help, k.Quit},
	}
}

func (k keyMap) actions() []struct {
	binding key.Binding
	action  scope.Action
} {
	return []struct {
		binding key.Binding
		action  scope.Action
	}{
		{k.ScaleUp, scope.ActionScaleUp},
		{k.ScaleDown, scope.ActionScaleDown},
		{k.Widen, scope.ActionWidenWindow},
		{k.Narrow, scope.ActionNarrowWindow},
		{k.Scatter, scope.ActionToggleScatter},
		{k.Pause, scope.ActionTogglePause},
		{k.Reference, scope.ActionToggleReference},
		{k.UI, scope.ActionToggleUI},
		{k.Braille, scope.ActionToggleBraille},
		{k.NextMode, scope.ActionNextMode},
		{k.PrevMode, scope.ActionPrevMode},
		{k.Reset, scope.ActionReset},
		{k.Trigger, scope.ActionToggleTrigger},
		{k.FallingEdge, scope.ActionToggleFallingEdge},
		{k.Peaks, scope.ActionTogglePeaks},
		{k.ThresholdUp, scope.ActionThresholdUp},
		{k.ThresholdDown, scope.ActionThresholdDown},
		{k.DepthUp, scope.ActionDepthUp},
		{k.DepthDown, scope.ActionDepthDown},
		{k.Smoothing, scope.ActionToggleSmoothing},
	}
}

// event translates a key press. A binding that names the modifier itself
// (shift+tab) wins over the bare key with a modifier attached.
func (k keyMap) event(msg tea.KeyMsg) (scope.KeyEvent, bool) {
	full := msg.String()
	base, mods := splitModifiers(full)
	for _, name := range []string{full, base} {
		for _, a := range k.actions() {
			if !a.binding.Enabled() || !hasKey(a.binding, name) {
				continue
			}
			if name == full {
				return scope.KeyEvent{Action: a.action}, true
			}
			return scope.KeyEvent{Action: a.action, Mods: mods}, true
		}
	}
	return scope.KeyEvent{}, false
}

func hasKey(b key.Binding, name string) bool {
	for _, k := range b.Keys() {
		if k == name {
			return true
		}
	}
	return false
}

// splitModifiers strips ctrl+, alt+ and shift+ prefixes in any order.
func splitModifiers(s string) (string, scope.Modifier) {
	var mods scope.Modifier
	for {
		switch {
		case strings.HasPrefix(s, "ctrl+") && len(s) > len("ctrl+"):
			mods |= scope.ModCtrl
			s = s[len("ctrl+"):]
		case strings.HasPrefix(s, "alt+") && len(s) > len("alt+"):
			mods |= scope.ModAlt
			s = s[len("alt+"):]
		case strings.HasPrefix(s, "shift+") && len(s) > len("shift+"):
			mods |= scope.ModShift
			s = s[len("shift+"):]
		default:
			return s, mods
		}
	}
}
