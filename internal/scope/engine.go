package scope

// engineState is either running or paused.
type engineState interface {
	isEngineState()
}

type running struct{}

type paused struct {
	frozen []Dataset
}

func (running) isEngineState() {}
func (paused) isEngineState()  {}

// Engine turns matrices into datasets for the active display mode and is the
// only writer of its GraphConfig.
type Engine struct {
	cfg     GraphConfig
	initial GraphConfig
	modes   []DisplayMode
	current int
	state   engineState
	last    []Dataset

	viewW, viewH int
}

// NewEngine returns an engine cycling through modes in order. With no modes
// it uses oscilloscope, vectorscope and spectroscope.
func NewEngine(cfg GraphConfig, modes ...DisplayMode) *Engine {
	if cfg.ScaleStep <= 0 {
		cfg.ScaleStep = DefaultScaleStep
	}
	if cfg.WindowStep <= 0 {
		cfg.WindowStep = DefaultWindowStep
	}
	if len(modes) == 0 {
		modes = []DisplayMode{NewOscilloscope(), NewVectorscope(), NewSpectroscope()}
	}
	return &Engine{
		cfg:     cfg,
		initial: cfg,
		modes:   modes,
		state:   running{},
	}
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() GraphConfig { return e.cfg }

func (e *Engine) Mode() DisplayMode { return e.modes[e.current] }

func (e *Engine) Header() string { return e.Mode().Header(e.cfg) }

// Paused reports whether Process is returning a frozen frame.
func (e *Engine) Paused() bool {
	_, ok := e.state.(paused)
	return ok
}

// Viewport returns the last size reported by a ResizeEvent.
func (e *Engine) Viewport() (width, height int) { return e.viewW, e.viewH }

// Process returns the datasets for m. While paused it returns the frozen
// frame and ignores m.
func (e *Engine) Process(m Matrix) []Dataset {
	if !e.cfg.Pause {
		e.state = running{}
		e.last = e.Mode().Process(e.cfg, m)
		return e.last
	}
	if st, ok := e.state.(paused); ok {
		return st.frozen
	}
	frozen := e.last
	if frozen == nil {
		frozen = e.Mode().Process(e.cfg, m)
		e.last = frozen
	}
	e.state = paused{frozen: frozen}
	return frozen
}

func (e *Engine) Axis(d Dimension) Axis {
	return e.Mode().Axis(e.cfg, d)
}

// Handle applies ev and reports whether anything changed. Unknown events are
// ignored.
func (e *Engine) Handle(ev Event) bool {
	switch ev := ev.(type) {
	case KeyEvent:
		return e.handleKey(ev)
	case ResizeEvent:
		if ev.Width == e.viewW && ev.Height == e.viewH {
			return false
		}
		e.viewW, e.viewH = ev.Width, ev.Height
		return true
	}
	return false
}

func (e *Engine) handleKey(ev KeyEvent) bool {
	mag := ev.Mods.Magnitude()
	switch ev.Action {
	case ActionScaleUp:
		updateFloat(&e.cfg.Scale, e.cfg.ScaleStep, mag, 0, MaxScale)
	case ActionScaleDown:
		updateFloat(&e.cfg.Scale, -e.cfg.ScaleStep, mag, 0, MaxScale)
	case ActionWidenWindow:
		updateInt(&e.cfg.Samples, true, e.cfg.WindowStep, mag, 0, 2*e.cfg.Width)
	case ActionNarrowWindow:
		updateInt(&e.cfg.Samples, false, e.cfg.WindowStep, mag, 0, 2*e.cfg.Width)
	case ActionToggleScatter:
		e.cfg.Scatter = !e.cfg.Scatter
	case ActionTogglePause:
		e.cfg.Pause = !e.cfg.Pause
		if !e.cfg.Pause {
			e.state = running{}
		}
	case ActionToggleReference:
		e.cfg.References = !e.cfg.References
	case ActionToggleUI:
		e.cfg.ShowUI = !e.cfg.ShowUI
	case ActionToggleBraille:
		e.cfg.Braille = !e.cfg.Braille
	case ActionNextMode:
		e.switchMode(1)
	case ActionPrevMode:
		e.switchMode(-1)
	case ActionReset:
		e.cfg.Scale = e.initial.Scale
		e.cfg.Samples = e.initial.Samples
	case ActionNone:
		return false
	default:
		return e.Mode().Handle(ev, &e.cfg)
	}
	return true
}

// switchMode drops any frozen frame; a paused engine freezes the first frame
// of the new mode instead.
func (e *Engine) switchMode(delta int) {
	n := len(e.modes)
	e.current = ((e.current+delta)%n + n) % n
	e.last = nil
	e.state = running{}
}
