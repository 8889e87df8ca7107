package scope

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/charmbracelet/harmonica"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

const (
	spectrumFloorDB = -90.0
	minMagnitude    = 1e-9
	minFrequency    = 20.0
)

// Spectroscope plots the magnitude spectrum of every channel on a
// log-frequency axis.
type Spectroscope struct {
	Smoothing bool

	fft     *fourier.FFT
	fftSize int
	input   []float64
	coeffs  []complex128
	smooth  []springField
}

func NewSpectroscope() *Spectroscope { return &Spectroscope{} }

func (s *Spectroscope) Name() string { return "spectroscope" }

func (s *Spectroscope) ChannelName(index int) string {
	switch index {
	case 0:
		return "L"
	case 1:
		return "R"
	default:
		return fmt.Sprint(index)
	}
}

func (s *Spectroscope) Header(cfg GraphConfig) string {
	if s.Smoothing {
		return "smoothed"
	}
	return "live"
}

func (s *Spectroscope) Axis(cfg GraphConfig, d Dimension) Axis {
	if d == X {
		nyquist := math.Max(float64(cfg.SamplingRate)/2, minFrequency*10)
		mid := math.Sqrt(minFrequency * nyquist)
		return newAxis(cfg, "frequency", math.Log10(minFrequency), math.Log10(nyquist),
			formatHz(minFrequency), formatHz(mid), formatHz(nyquist))
	}
	return newAxis(cfg, "magnitude", spectrumFloorDB, 0,
		fmt.Sprintf("%.0fdB", spectrumFloorDB), fmt.Sprintf("%.0fdB", spectrumFloorDB/2), "0dB")
}

func (s *Spectroscope) Process(cfg GraphConfig, m Matrix) []Dataset {
	n := min(cfg.Samples, m.Len())
	if n < 2 || cfg.SamplingRate == 0 {
		return nil
	}
	s.resize(n, m.Channels())

	binHz := float64(cfg.SamplingRate) / float64(n)
	out := make([]Dataset, 0, m.Channels())
	for c, ch := range m {
		copy(s.input, trailingWindow(ch, n))
		window.Hann(s.input)
		s.fft.Coefficients(s.coeffs, s.input)

		points := make([]Point, 0, len(s.coeffs)-1)
		for bin := 1; bin < len(s.coeffs); bin++ {
			freq := float64(bin) * binHz
			if freq < minFrequency {
				continue
			}
			mag := cmplx.Abs(s.coeffs[bin]) * 2 / float64(n) * cfg.Scale
			db := 20 * math.Log10(math.Max(mag, minMagnitude))
			if s.Smoothing {
				db = s.smooth[c].step(bin, db)
			}
			points = append(points, Point{X: math.Log10(freq), Y: db})
		}
		out = append(out, Dataset{
			Name:   s.ChannelName(c),
			Kind:   kindFor(cfg),
			Color:  cfg.PaletteColor(c),
			Points: points,
		})
	}
	return out
}

func (s *Spectroscope) Handle(ev KeyEvent, cfg *GraphConfig) bool {
	if ev.Action != ActionToggleSmoothing {
		return false
	}
	s.Smoothing = !s.Smoothing
	return true
}

func (s *Spectroscope) resize(n, channels int) {
	if s.fftSize != n {
		s.fft = fourier.NewFFT(n)
		s.fftSize = n
		s.input = make([]float64, n)
		s.coeffs = make([]complex128, n/2+1)
		s.smooth = nil
	}
	for len(s.smooth) < channels {
		s.smooth = append(s.smooth, newSpringField(30, 8.5, 0.8))
	}
	for i := range s.smooth {
		s.smooth[i].resize(len(s.coeffs))
	}
}

func formatHz(f float64) string {
	if f >= 1000 {
		return fmt.Sprintf("%.1fkHz", f/1000)
	}
	return fmt.Sprintf("%.0fHz", f)
}

type springField struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
	primed []bool
}

func newSpringField(fps int, frequency, damping float64) springField {
	return springField{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

func (f *springField) resize(n int) {
	if len(f.pos) == n {
		return
	}
	f.pos = make([]float64, n)
	f.vel = make([]float64, n)
	f.primed = make([]bool, n)
}

// step moves slot i towards target. The first value seen in a slot is taken
// as is so the display does not sweep in from zero.
func (f *springField) step(i int, target float64) float64 {
	if !f.primed[i] {
		f.primed[i] = true
		f.pos[i] = target
		return target
	}
	p, v := f.spring.Update(f.pos[i], f.vel[i], target)
	f.pos[i] = p
	f.vel[i] = v
	return p
}
