package render

import (
	"math"
	"strings"

	"github.com/olivier-w/scope/internal/scope"
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

const dotRune = '•'

// grid is a plot area of cols x rows terminal cells, addressed in dots.
// A cell keeps the colour of the first dataset that drew into it.
type grid struct {
	cols, rows int
	braille    bool
	dotW, dotH int
	bits       [][]uint8
	owner      [][]int // dataset index + 1, 0 when empty
}

func newGrid(cols, rows int, braille bool) *grid {
	g := &grid{cols: max(cols, 1), rows: max(rows, 1), braille: braille}
	g.dotW, g.dotH = g.cols, g.rows
	if braille {
		g.dotW, g.dotH = g.cols*2, g.rows*4
	}
	g.bits = make([][]uint8, g.rows)
	g.owner = make([][]int, g.rows)
	for r := range g.rows {
		g.bits[r] = make([]uint8, g.cols)
		g.owner[r] = make([]int, g.cols)
	}
	return g
}

func (g *grid) set(x, y, owner int) {
	if x < 0 || y < 0 || x >= g.dotW || y >= g.dotH {
		return
	}
	col, row := x, y
	var bit uint8 = 1
	if g.braille {
		col, row = x/2, y/4
		bit = 1 << brailleBits[x%2][y%4]
	}
	g.bits[row][col] |= bit
	if g.owner[row][col] == 0 {
		g.owner[row][col] = owner
	}
}

// line draws with Bresenham's algorithm, clipping per dot.
func (g *grid) line(x0, y0, x1, y1, owner int) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	for {
		g.set(x0, y0, owner)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (g *grid) cell(row, col int) rune {
	b := g.bits[row][col]
	if b == 0 {
		return ' '
	}
	if g.braille {
		return rune(0x2800 + int(b))
	}
	return dotRune
}

// project maps graph coordinates onto dot coordinates. ok is false for NaN
// or infinite input. Far out-of-range values are pulled in so line drawing
// stays bounded; set discards them anyway.
func (g *grid) project(p scope.Point, xb, yb [2]float64) (int, int, bool) {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return 0, 0, false
	}
	fx := unit(p.X, xb) * float64(g.dotW-1)
	fy := (1 - unit(p.Y, yb)) * float64(g.dotH-1)
	return clampCoord(fx, g.dotW), clampCoord(fy, g.dotH), true
}

func unit(v float64, b [2]float64) float64 {
	span := b[1] - b[0]
	if span == 0 {
		return 0.5
	}
	return (v - b[0]) / span
}

func clampCoord(v float64, n int) int {
	lo, hi := float64(-2*n), float64(3*n)
	return int(math.Round(max(lo, min(hi, v))))
}

func (g *grid) plot(idx int, ds scope.Dataset, xb, yb [2]float64) {
	owner := idx + 1
	switch ds.Kind {
	case scope.Scatter:
		for _, p := range ds.Points {
			if x, y, ok := g.project(p, xb, yb); ok {
				g.set(x, y, owner)
			}
		}
	case scope.Segments:
		for i := 0; i+1 < len(ds.Points); i += 2 {
			x0, y0, ok0 := g.project(ds.Points[i], xb, yb)
			x1, y1, ok1 := g.project(ds.Points[i+1], xb, yb)
			if ok0 && ok1 {
				g.line(x0, y0, x1, y1, owner)
			}
		}
	default:
		px, py, prev := 0, 0, false
		for _, p := range ds.Points {
			x, y, ok := g.project(p, xb, yb)
			switch {
			case ok && prev:
				g.line(px, py, x, y, owner)
			case ok:
				g.set(x, y, owner)
			}
			px, py, prev = x, y, ok
		}
	}
}

// lines renders the grid, one string per terminal row, colouring runs of
// cells that share an owner.
func (g *grid) lines(datasets []scope.Dataset) []string {
	out := make([]string, g.rows)
	var run strings.Builder
	for r := range g.rows {
		var sb strings.Builder
		owner := -1
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if owner > 0 {
				sb.WriteString(styleFor(datasets[owner-1].Color).Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			run.Reset()
		}
		for c := range g.cols {
			o := g.owner[r][c]
			if o != owner {
				flush()
				owner = o
			}
			run.WriteRune(g.cell(r, c))
		}
		flush()
		out[r] = sb.String()
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
