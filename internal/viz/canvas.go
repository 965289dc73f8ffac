package viz

import (
	"strings"
)

// Braille cells are 2x4 dots; dotBits[row][col] is the bit for that dot.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a braille dot matrix. Dot coordinates run from (0,0) at the top
// left to (2*Width-1, 4*Height-1).
type Canvas struct {
	Width, Height int
	cells         []rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([]rune, w*h)}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = brailleBlank
	}
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row*c.Width+col] |= dotBits[y%4][x%2]
}

// Line draws with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		if e2 := 2 * e; e2 >= dy {
			e += dy
			x0 += sx
		} else {
			e += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		b.WriteString(string(c.cells[row*c.Width : (row+1)*c.Width]))
		b.WriteByte('\n')
	}
	return b.String()
}

// View maps the world XY plane onto canvas dots. Center is drawn in the
// middle of the canvas and Span world units fit the shorter side.
type View struct {
	CenterX, CenterY float64
	Span             float64
}

func (v View) Dot(c *Canvas, x, y float64) (int, int) {
	w, h := float64(2*c.Width), float64(4*c.Height)
	span := v.Span
	if span <= 0 {
		span = 1
	}
	s := min(w, h) / span
	return int(w/2 + (x-v.CenterX)*s), int(h/2 - (y-v.CenterY)*s)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
