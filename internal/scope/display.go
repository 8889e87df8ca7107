package scope

// Color is a colour name or terminal colour spec ("red", "8", "#ff8800").
// The engine only passes colours through; the render backend resolves them.
type Color string

// GraphConfig is the per-frame configuration consumed by display modes.
type GraphConfig struct {
	Samples      int     // window length per channel
	SamplingRate uint32  // Hz, labels only
	Scale        float64 // amplitude multiplier
	Width        int     // horizontal resolution, upper bound for Samples
	Scatter      bool
	ShowUI       bool
	References   bool
	Braille      bool
	Pause        bool
	Palette      []Color
	LabelsColor  Color
	AxisColor    Color

	ScaleStep  float64
	WindowStep int
}

const (
	DefaultScaleStep  = 0.01
	DefaultWindowStep = 25
	MaxScale          = 10.0
)

// PaletteColor returns the palette entry for index i, wrapping around.
func (c GraphConfig) PaletteColor(i int) Color {
	if len(c.Palette) == 0 {
		return ""
	}
	return c.Palette[i%len(c.Palette)]
}

// GraphKind tells the backend how to connect a dataset's points.
type GraphKind uint8

const (
	// Line joins points in index order.
	Line GraphKind = iota
	// Scatter draws every point on its own.
	Scatter
	// Segments joins points pairwise: (0,1), (2,3), ...
	Segments
)

func kindFor(cfg GraphConfig) GraphKind {
	if cfg.Scatter {
		return Scatter
	}
	return Line
}

// Point is a coordinate in graph space. Values are not quantized to cells.
type Point struct {
	X, Y float64
}

// ReferenceName names the axis reference datasets.
const ReferenceName = "reference"

// Dataset is one drawable series.
type Dataset struct {
	Name   string
	Kind   GraphKind
	Color  Color
	Points []Point
}

// Dimension selects an axis.
type Dimension uint8

const (
	X Dimension = iota
	Y
)

// Axis describes the bounds and tick labels of one dimension.
type Axis struct {
	Title      string
	Bounds     [2]float64
	Labels     []string
	Color      Color
	LabelColor Color
}

func newAxis(cfg GraphConfig, title string, lo, hi float64, labels ...string) Axis {
	return Axis{
		Title:      title,
		Bounds:     [2]float64{lo, hi},
		Labels:     labels,
		Color:      cfg.AxisColor,
		LabelColor: cfg.LabelsColor,
	}
}

// DisplayMode turns a Matrix into datasets and describes its axes.
// Process and Axis must not keep references to their arguments.
type DisplayMode interface {
	Name() string
	ChannelName(index int) string
	Header(cfg GraphConfig) string
	Process(cfg GraphConfig, m Matrix) []Dataset
	Axis(cfg GraphConfig, d Dimension) Axis
	// Handle applies a mode-specific event and reports whether it was used.
	Handle(ev KeyEvent, cfg *GraphConfig) bool
}
