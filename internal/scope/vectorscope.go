package scope

import "fmt"

// Vectorscope plots channel pairs (2k, 2k+1) against each other.
// A trailing unpaired channel is not drawn.
type Vectorscope struct{}

func NewVectorscope() *Vectorscope { return &Vectorscope{} }

func (v *Vectorscope) Name() string { return "vectorscope" }

func (v *Vectorscope) ChannelName(index int) string {
	return fmt.Sprintf("%d-%d", index*2, index*2+1)
}

func (v *Vectorscope) Header(cfg GraphConfig) string {
	return "live"
}

func (v *Vectorscope) Axis(cfg GraphConfig, d Dimension) Axis {
	title := "left"
	if d == Y {
		title = "right"
	}
	return newAxis(cfg, title, -cfg.Scale, cfg.Scale,
		fmt.Sprintf("%.2f", -cfg.Scale), "0", fmt.Sprintf("+%.2f", cfg.Scale))
}

func (v *Vectorscope) Process(cfg GraphConfig, m Matrix) []Dataset {
	window := min(cfg.Samples, m.Len())
	if window <= 0 {
		return nil
	}

	pairs := m.Channels() / 2
	out := make([]Dataset, 0, pairs+1)
	for k := range pairs {
		xs := trailingWindow(m[2*k], window)
		ys := trailingWindow(m[2*k+1], window)

		points := make([]Point, window)
		for i := range window {
			points[i] = Point{X: xs[i] * cfg.Scale, Y: ys[i] * cfg.Scale}
		}
		out = append(out, Dataset{
			Name:   v.ChannelName(k),
			Kind:   kindFor(cfg),
			Color:  cfg.PaletteColor(k),
			Points: points,
		})
	}

	if cfg.References {
		s := cfg.Scale
		out = append(out, Dataset{
			Name:  ReferenceName,
			Kind:  Segments,
			Color: cfg.AxisColor,
			Points: []Point{
				{X: -s, Y: 0}, {X: s, Y: 0},
				{X: 0, Y: -s}, {X: 0, Y: s},
			},
		})
	}
	return out
}

func (v *Vectorscope) Handle(KeyEvent, *GraphConfig) bool { return false }
