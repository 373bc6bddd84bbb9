package diagram

import (
	"fmt"
	"math"
	"strings"
)

// Character cell size in canvas pixels.
const (
	cellWidth  = 10.0
	cellHeight = 20.0
)

var fills = map[string]rune{
	"turbine":   '▒',
	"turbine1":  '▒',
	"turbine2":  '▒',
	"gearbox":   '▓',
	"generator": '●',
	"belt":      '=',
}

type grid [][]rune

func newGrid(cols, rows int) grid {
	g := make(grid, rows)
	for i := range g {
		g[i] = []rune(strings.Repeat(" ", cols))
	}
	return g
}

func (g grid) set(col, row int, r rune) {
	if row >= 0 && row < len(g) && col >= 0 && col < len(g[row]) {
		g[row][col] = r
	}
}

func (g grid) write(col, row int, s string) {
	for i, r := range []rune(s) {
		g.set(col+i, row, r)
	}
}

func (g grid) String() string {
	var sb strings.Builder
	for _, row := range g {
		sb.WriteString("  ")
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteString("\n")
	}
	return sb.String()
}

func contains(sh Shape, p Point) bool {
	switch sh.Kind {
	case ShapeRect:
		a, b := sh.Points[0], sh.Points[1]
		return p.X >= a.X && p.X <= b.X && p.Y >= a.Y && p.Y <= b.Y
	case ShapeCircle:
		return math.Hypot(p.X-sh.Center.X, p.Y-sh.Center.Y) <= sh.Radius
	case ShapePolygon:
		// even-odd rule
		in := false
		n := len(sh.Points)
		for i, j := 0, n-1; i < n; j, i = i, i+1 {
			pi, pj := sh.Points[i], sh.Points[j]
			if (pi.Y > p.Y) != (pj.Y > p.Y) && p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
				in = !in
			}
		}
		return in
	}
	return false
}

// DrawASCIILayout renders the unit drawing as text for terminal output.
func DrawASCIILayout(l Layout) string {
	s := Build(l)
	cols := int(math.Ceil(s.Width / cellWidth))
	rows := int(math.Ceil(s.Height / cellHeight))
	g := newGrid(cols, rows)

	cell := func(p Point) (int, int) {
		return int(p.X / cellWidth), int(p.Y / cellHeight)
	}

	for _, sh := range s.Shapes {
		fill, ok := fills[sh.Name]
		if !ok {
			continue
		}
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				center := Point{(float64(col) + 0.5) * cellWidth, (float64(row) + 0.5) * cellHeight}
				if contains(sh, center) {
					g.set(col, row, fill)
				}
			}
		}
	}

	if frame, ok := s.Shape("frame"); ok {
		c0, r0 := cell(frame.Points[0])
		c1, r1 := cell(frame.Points[1])
		for c := c0 + 1; c < c1; c++ {
			g.set(c, r0, '─')
			g.set(c, r1, '─')
		}
		for r := r0 + 1; r < r1; r++ {
			g.set(c0, r, '│')
			g.set(c1, r, '│')
		}
		g.set(c0, r0, '┌')
		g.set(c1, r0, '┐')
		g.set(c0, r1, '└')
		g.set(c1, r1, '┘')
	}

	for _, t := range s.Texts {
		if t.Text == "M" {
			continue
		}
		c, r := cell(t.At)
		g.write(max(c, 0), r, t.Text)
	}

	var sb strings.Builder
	sb.WriteString("\n")
	if l.IsDualLevel() {
		sb.WriteString("  UNIT LAYOUT (two turbines)\n")
	} else {
		sb.WriteString("  UNIT LAYOUT\n")
	}
	sb.WriteString("  ───────────\n")
	sb.WriteString(g.String())
	sb.WriteString("\n")
	sb.WriteString("  Legend: ▒ turbine  ▓ gearbox  ● generator  = belt\n")
	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(title, maxLen-4)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(line, maxLen-4)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

func pad(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
