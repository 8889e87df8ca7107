package scope

// Event is an input event for the engine. The set of implementations is
// closed: KeyEvent and ResizeEvent.
type Event interface {
	isEvent()
}

// Action is a logical adjustment intent, already decoupled from key codes.
type Action uint8

const (
	ActionNone Action = iota
	ActionScaleUp
	ActionScaleDown
	ActionWidenWindow
	ActionNarrowWindow
	ActionToggleScatter
	ActionTogglePause
	ActionToggleReference
	ActionToggleUI
	ActionToggleBraille
	ActionNextMode
	ActionPrevMode
	ActionReset

	// Oscilloscope.
	ActionToggleTrigger
	ActionToggleFallingEdge
	ActionTogglePeaks
	ActionThresholdUp
	ActionThresholdDown
	ActionDepthUp
	ActionDepthDown

	// Spectroscope.
	ActionToggleSmoothing
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// Magnitude returns the step multiplier for the held modifiers:
// shift ×10, ctrl ×5, alt ×0.2, combined multiplicatively.
func (m Modifier) Magnitude() float64 {
	mag := 1.0
	if m&ModShift != 0 {
		mag *= 10
	}
	if m&ModCtrl != 0 {
		mag *= 5
	}
	if m&ModAlt != 0 {
		mag *= 0.2
	}
	return mag
}

// KeyEvent is a key press mapped to an action.
type KeyEvent struct {
	Action Action
	Mods   Modifier
}

// ResizeEvent reports a new drawing area in cells.
type ResizeEvent struct {
	Width  int
	Height int
}

func (KeyEvent) isEvent()    {}
func (ResizeEvent) isEvent() {}

func updateFloat(v *float64, step, magnitude, lo, hi float64) {
	*v = clampFloat(*v+step*magnitude, lo, hi)
}

// updateInt moves v by step*magnitude (at least one) and keeps it in [lo, hi).
func updateInt(v *int, increase bool, step int, magnitude float64, lo, hi int) {
	delta := int(float64(step) * magnitude)
	if delta < 1 {
		delta = 1
	}
	if !increase {
		delta = -delta
	}
	n := *v + delta
	if n >= hi {
		n = hi - 1
	}
	if n < lo {
		n = lo
	}
	*v = n
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
