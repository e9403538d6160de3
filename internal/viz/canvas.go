package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/dunbrack/internal/sample"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a Braille dot grid Width cells wide and Height cells tall,
// giving 2*Width by 4*Height dots.
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y), y counting down from the top. Dots off the
// canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row][col] |= dotBits[y%4][x%2]
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.cells[y/4][x/2]&dotBits[y%4][x%2] != 0
}

// Clear resets every dot.
func (c *Canvas) Clear() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = brailleBlank
		}
	}
}

// PlotAngle lights the dot nearest the angle pair (a, b) in degrees, a
// along x and b along y, both spanning [-180, 180].
func (c *Canvas) PlotAngle(a, b float64) {
	w, h := float64(2*c.Width-1), float64(4*c.Height-1)
	x := int((a+180)/360*w + 0.5)
	y := int((180-b)/360*h + 0.5)
	c.Set(x, y)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// ChiScatter plots χa against χb (zero-based indices) for every
// conformation that has both angles.
func ChiScatter(confs []sample.Conformation, a, b, width, height int) string {
	c := NewCanvas(width, height)
	n := 0
	for _, conf := range confs {
		if a >= conf.NChi || b >= conf.NChi {
			continue
		}
		c.PlotAngle(conf.Chi[a], conf.Chi[b])
		n++
	}
	axis := mutedStyle().Render(fmt.Sprintf("χ%d → [-180, 180]  χ%d ↑  %d points", a+1, b+1, n))
	return c.String() + axis
}
