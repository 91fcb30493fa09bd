// Package canvas rasterizes scenes onto a terminal using braille cells.
//
// Each terminal cell holds a 2×4 grid of dots (Unicode block U+2800), so a
// canvas of cols×rows cells offers a (2·cols)×(4·rows) dot surface. Every
// cell carries one foreground colour: the colour of the last dot or text
// drawn into it. Text overlays replace the braille pattern of their cells.
//
//	c := canvas.New(80, 24)
//	c.Line(0, 0, 159, 95, "#D8DEE9")
//	c.Disc(80, 48, 3, "#88C0D0")
//	c.Text(42, 12, "inbox", "#E5E9F0")
//	fmt.Print(c.Render("#2E3440"))
package canvas

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const brailleBase = 0x2800

// dotBits maps a dot at (x%2, y%4) to its bit in the braille pattern.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Canvas is a braille drawing surface. The zero value is unusable; use New.
type Canvas struct {
	cols, rows int
	dots       []uint8
	colors     []string
	text       []rune
}

// New creates a blank canvas of cols×rows terminal cells. Negative sizes
// are treated as zero.
func New(cols, rows int) *Canvas {
	cols, rows = max(cols, 0), max(rows, 0)
	n := cols * rows
	return &Canvas{
		cols:   cols,
		rows:   rows,
		dots:   make([]uint8, n),
		colors: make([]string, n),
		text:   make([]rune, n),
	}
}

// Cols returns the width in cells.
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the height in cells.
func (c *Canvas) Rows() int { return c.rows }

// Width returns the width in dots.
func (c *Canvas) Width() int { return c.cols * 2 }

// Height returns the height in dots.
func (c *Canvas) Height() int { return c.rows * 4 }

// Clear erases every dot, colour and text cell.
func (c *Canvas) Clear() {
	clear(c.dots)
	clear(c.colors)
	clear(c.text)
}

// Set turns on the dot at (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int, color string) {
	if x < 0 || y < 0 || x >= c.Width() || y >= c.Height() {
		return
	}
	i := (y/4)*c.cols + x/2
	c.dots[i] |= dotBits[x%2][y%4]
	c.colors[i] = color
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x >= c.Width() || y >= c.Height() {
		return false
	}
	return c.dots[(y/4)*c.cols+x/2]&dotBits[x%2][y%4] != 0
}

// Line draws a segment between two dot positions. The segment is clipped
// to the canvas first, so far off-screen endpoints cost nothing.
func (c *Canvas) Line(x0, y0, x1, y1 float64, color string) {
	x0, y0, x1, y1, ok := clip(x0, y0, x1, y1, float64(c.Width()-1), float64(c.Height()-1))
	if !ok {
		return
	}

	ax, ay := int(math.Round(x0)), int(math.Round(y0))
	bx, by := int(math.Round(x1)), int(math.Round(y1))
	dx, dy := abs(bx-ax), -abs(by-ay)
	sx, sy := sign(bx-ax), sign(by-ay)
	e := dx + dy
	for {
		c.Set(ax, ay, color)
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			ax += sx
		}
		if e2 <= dx {
			e += dx
			ay += sy
		}
	}
}

// Disc fills every dot within radius r of (cx, cy). A disc smaller than a
// dot still sets the dot under its centre.
func (c *Canvas) Disc(cx, cy, r float64, color string) {
	if !finite(cx) || !finite(cy) || !finite(r) {
		return
	}
	if r < 0.5 {
		c.Set(int(math.Round(cx)), int(math.Round(cy)), color)
		return
	}
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, c.Width()-1), min(y1, c.Height()-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if dx, dy := float64(x)-cx, float64(y)-cy; dx*dx+dy*dy <= r*r {
				c.Set(x, y, color)
			}
		}
	}
}

// Text writes s starting at cell (col, row). Characters outside the
// canvas are dropped.
func (c *Canvas) Text(col, row int, s, color string) {
	if row < 0 || row >= c.rows {
		return
	}
	for _, r := range s {
		if col >= c.cols {
			return
		}
		if col >= 0 {
			i := row*c.cols + col
			c.text[i] = r
			c.colors[i] = color
		}
		col++
	}
}

// Cell returns the rune shown in cell (col, row): the text overlay if any,
// otherwise the braille pattern, or a space when the cell is empty.
func (c *Canvas) Cell(col, row int) rune {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return 0
	}
	i := row*c.cols + col
	switch {
	case c.text[i] != 0:
		return c.text[i]
	case c.dots[i] != 0:
		return rune(brailleBase + int(c.dots[i]))
	}
	return ' '
}

// Plain returns the canvas as lines of runes without colour.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for row := range c.rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := range c.cols {
			b.WriteRune(c.Cell(col, row))
		}
	}
	return b.String()
}

// Render returns the canvas as styled lines. Consecutive cells sharing a
// colour are styled as one run. background may be empty to keep the
// terminal's own.
func (c *Canvas) Render(background string) string {
	styles := make(map[string]lipgloss.Style)
	style := func(color string) lipgloss.Style {
		if s, ok := styles[color]; ok {
			return s
		}
		s := lipgloss.NewStyle()
		if color != "" {
			s = s.Foreground(lipgloss.Color(color))
		}
		if background != "" {
			s = s.Background(lipgloss.Color(background))
		}
		styles[color] = s
		return s
	}

	var b, run strings.Builder
	for row := range c.rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		cur := ""
		for col := range c.cols {
			i := row*c.cols + col
			color := c.colors[i]
			if c.text[i] == 0 && c.dots[i] == 0 {
				color = ""
			}
			if col > 0 && color != cur {
				b.WriteString(style(cur).Render(run.String()))
				run.Reset()
			}
			cur = color
			run.WriteRune(c.Cell(col, row))
		}
		b.WriteString(style(cur).Render(run.String()))
		run.Reset()
	}
	return b.String()
}

// clip restricts the segment to [0,w]×[0,h] (Liang–Barsky).
func clip(x0, y0, x1, y1, w, h float64) (float64, float64, float64, float64, bool) {
	if !finite(x0) || !finite(y0) || !finite(x1) || !finite(y1) || w < 0 || h < 0 {
		return 0, 0, 0, 0, false
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	for _, pq := range [4][2]float64{
		{-dx, x0},
		{dx, w - x0},
		{-dy, y0},
		{dy, h - y0},
	} {
		p, q := pq[0], pq[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
