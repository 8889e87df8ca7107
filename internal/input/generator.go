package input

import (
	"math"

	"github.com/olivier-w/scope/internal/scope"
)

// GeneratorSource synthesizes one sine per channel. It never runs out.
type GeneratorSource struct {
	opts   Options
	freqs  []float64
	amp    float64
	phase  []float64
	closed bool
}

// NewGeneratorSource plays freqs[i] on channel i, reusing the last frequency
// for any extra channels. Channel i is phase shifted by i·π/4 so pairs trace
// a figure in the vectorscope.
func NewGeneratorSource(opts Options, amplitude float64, freqs ...float64) *GeneratorSource {
	opts = opts.withDefaults()
	if opts.SampleRate == 0 {
		opts.SampleRate = 48000
	}
	if len(freqs) == 0 {
		freqs = []float64{440}
	}
	g := &GeneratorSource{
		opts:  opts,
		freqs: make([]float64, opts.Channels),
		amp:   amplitude,
		phase: make([]float64, opts.Channels),
	}
	for i := range g.freqs {
		g.freqs[i] = freqs[min(i, len(freqs)-1)]
		g.phase[i] = float64(i) * math.Pi / 4
	}
	return g
}

func (g *GeneratorSource) Recv() (scope.Matrix, error) {
	if g.closed {
		return nil, ErrNoData
	}
	m := scope.NewMatrix(g.opts.Channels, g.opts.Buffer)
	rate := float64(g.opts.SampleRate)
	for c := range m {
		step := 2 * math.Pi * g.freqs[c] / rate
		p := g.phase[c]
		for i := range m[c] {
			m[c][i] = g.amp * math.Sin(p)
			p += step
		}
		g.phase[c] = math.Mod(p, 2*math.Pi)
	}
	return m, nil
}

func (g *GeneratorSource) Close() error {
	g.closed = true
	return nil
}
