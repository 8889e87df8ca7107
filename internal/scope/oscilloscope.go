package scope

import (
	"fmt"
	"strconv"
)

const (
	thresholdStep = 0.01
	maxDepth      = 65535
)

// Oscilloscope plots every channel as amplitude over time.
type Oscilloscope struct {
	Triggering  bool
	FallingEdge bool
	Threshold   float64
	Depth       int
	Peaks       bool
}

// NewOscilloscope returns an oscilloscope with triggering off.
func NewOscilloscope() *Oscilloscope {
	return &Oscilloscope{Depth: 1}
}

func (o *Oscilloscope) Name() string { return "oscilloscope" }

func (o *Oscilloscope) ChannelName(index int) string {
	switch index {
	case 0:
		return "L"
	case 1:
		return "R"
	default:
		return strconv.Itoa(index)
	}
}

func (o *Oscilloscope) Header(cfg GraphConfig) string {
	if !o.Triggering {
		return "live"
	}
	edge := "rising"
	if o.FallingEdge {
		edge = "falling"
	}
	return fmt.Sprintf("%s edge :: %+.3f x%d", edge, o.Threshold, o.Depth)
}

func (o *Oscilloscope) Axis(cfg GraphConfig, d Dimension) Axis {
	if d == X {
		var ms float64
		if cfg.SamplingRate > 0 {
			ms = float64(cfg.Samples) / float64(cfg.SamplingRate) * 1000
		}
		return newAxis(cfg, "time", 0, float64(cfg.Width),
			"0", fmt.Sprintf("%.1fms", ms/2), fmt.Sprintf("%.1fms", ms))
	}
	return newAxis(cfg, "amplitude", -cfg.Scale, cfg.Scale,
		fmt.Sprintf("%.2f", -cfg.Scale), "0", fmt.Sprintf("+%.2f", cfg.Scale))
}

func (o *Oscilloscope) Process(cfg GraphConfig, m Matrix) []Dataset {
	if m.Channels() == 0 {
		return nil
	}
	window := min(cfg.Samples, m.Len())
	if window <= 0 {
		return nil
	}

	start := -1
	if o.Triggering {
		start = findTrigger(m[0], o.Threshold, o.Depth, o.FallingEdge)
	}

	out := make([]Dataset, 0, m.Channels()*2+1)
	step := float64(cfg.Width) / float64(window)
	for i, ch := range m {
		var samples []float64
		if start >= 0 {
			samples = windowFrom(ch, start, window)
		} else {
			samples = trailingWindow(ch, window)
		}

		points := make([]Point, window)
		for j, s := range samples {
			points[j] = Point{X: float64(j) * step, Y: s * cfg.Scale}
		}
		out = append(out, Dataset{
			Name:   o.ChannelName(i),
			Kind:   kindFor(cfg),
			Color:  cfg.PaletteColor(i),
			Points: points,
		})

		if o.Peaks {
			out = append(out, peaks(o.ChannelName(i), cfg.PaletteColor(i), points))
		}
	}

	if cfg.References {
		out = append(out, Dataset{
			Name:   ReferenceName,
			Kind:   Line,
			Color:  cfg.AxisColor,
			Points: []Point{{X: 0, Y: 0}, {X: float64(cfg.Width), Y: 0}},
		})
	}
	return out
}

func (o *Oscilloscope) Handle(ev KeyEvent, cfg *GraphConfig) bool {
	mag := ev.Mods.Magnitude()
	switch ev.Action {
	case ActionToggleTrigger:
		o.Triggering = !o.Triggering
	case ActionToggleFallingEdge:
		o.FallingEdge = !o.FallingEdge
	case ActionTogglePeaks:
		o.Peaks = !o.Peaks
	case ActionThresholdUp:
		updateFloat(&o.Threshold, thresholdStep, mag, -1, 1)
	case ActionThresholdDown:
		updateFloat(&o.Threshold, -thresholdStep, mag, -1, 1)
	case ActionDepthUp:
		updateInt(&o.Depth, true, 1, mag, 1, maxDepth)
	case ActionDepthDown:
		updateInt(&o.Depth, false, 1, mag, 1, maxDepth)
	default:
		return false
	}
	return true
}

// trailingWindow returns the newest n samples of ch, zero-padded at the end
// when ch is shorter than n.
func trailingWindow(ch []float64, n int) []float64 {
	if len(ch) >= n {
		return ch[len(ch)-n:]
	}
	out := make([]float64, n)
	copy(out, ch)
	return out
}

// windowFrom returns n samples of ch starting at start, zero-padded.
func windowFrom(ch []float64, start, n int) []float64 {
	out := make([]float64, n)
	if start < len(ch) {
		copy(out, ch[start:])
	}
	return out
}

// findTrigger returns the first index where data sits on one side of
// threshold and the following depth samples all sit on the other, or -1.
func findTrigger(data []float64, threshold float64, depth int, falling bool) int {
	if depth < 1 {
		depth = 1
	}
	for i := 0; i+depth < len(data); i++ {
		if triggered(data, i, threshold, depth, falling) {
			return i
		}
	}
	return -1
}

func triggered(data []float64, i int, threshold float64, depth int, falling bool) bool {
	if falling {
		if data[i] < threshold {
			return false
		}
		for k := 1; k <= depth; k++ {
			if data[i+k] >= threshold {
				return false
			}
		}
		return true
	}
	if data[i] > threshold {
		return false
	}
	for k := 1; k <= depth; k++ {
		if data[i+k] <= threshold {
			return false
		}
	}
	return true
}

func peaks(name string, color Color, points []Point) Dataset {
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		if p.Y < lo.Y {
			lo = p
		}
		if p.Y > hi.Y {
			hi = p
		}
	}
	return Dataset{
		Name:   name + " peaks",
		Kind:   Scatter,
		Color:  color,
		Points: []Point{lo, hi},
	}
}
