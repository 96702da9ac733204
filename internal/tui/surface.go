package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/LaboratoryZero/matrixrain/internal/rain"
)

// cell is one terminal character with a composited foreground color.
type cell struct {
	r     rune
	color colorful.Color
	set   bool
}

// cellSurface maps the simulator's pixel surface onto a terminal cell
// grid. The simulator runs at glyph size 1 so one cell equals one
// terminal character; alpha is composited against the background since
// terminals have no transparency.
type cellSurface struct {
	width, height int
	background    colorful.Color
	cells         []cell

	// translate stack, only shake offsets pass through here
	offX, offY []float64
	curX, curY float64
}

func newCellSurface(width, height int) *cellSurface {
	return &cellSurface{
		width:  width,
		height: height,
		cells:  make([]cell, width*height),
	}
}

func (s *cellSurface) resize(width, height int) {
	s.width = width
	s.height = height
	s.cells = make([]cell, width*height)
}

func (s *cellSurface) at(x, y int) *cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return nil
	}
	return &s.cells[y*s.width+x]
}

func (s *cellSurface) composite(sh rain.Shade) colorful.Color {
	a := sh.Alpha
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return s.background.BlendRgb(sh.Color, a)
}

func (s *cellSurface) FillRect(x, y, w, h float64, sh rain.Shade) {
	x += s.curX
	y += s.curY
	// A full-screen opaque fill is the frame clear.
	if x <= 0 && y <= 0 && w >= float64(s.width) && h >= float64(s.height) && sh.Alpha >= 1 {
		s.background = sh.Color
		for i := range s.cells {
			s.cells[i] = cell{}
		}
		return
	}
	c := s.composite(sh)
	for cy := int(y); cy < int(y+h); cy++ {
		for cx := int(x); cx < int(x+w); cx++ {
			if p := s.at(cx, cy); p != nil {
				if sh.Alpha >= 1 {
					*p = cell{}
					p.color = c
				} else if !p.set {
					p.color = c
				}
			}
		}
	}
}

func (s *cellSurface) DrawGlyph(g rune, x, y, size float64, sh rain.Shade) {
	if p := s.at(int(x+s.curX), int(y+s.curY)); p != nil {
		p.r = g
		p.color = s.composite(sh)
		p.set = true
	}
}

func (s *cellSurface) DrawText(text string, x, y, size float64, sh rain.Shade) {
	runes := []rune(text)
	startX := int(x+s.curX) - len(runes)/2
	cy := int(y + s.curY)
	c := s.composite(sh)
	for i, r := range runes {
		if p := s.at(startX+i, cy); p != nil {
			p.r = r
			p.color = c
			p.set = true
		}
	}
}

// FillRadial is a no-op: the halo has no terminal equivalent.
func (s *cellSurface) FillRadial(cx, cy, r float64, stops []rain.GradientStop) {}

func (s *cellSurface) Push() {
	s.offX = append(s.offX, s.curX)
	s.offY = append(s.offY, s.curY)
}

func (s *cellSurface) Pop() {
	if n := len(s.offX); n > 0 {
		s.curX = s.offX[n-1]
		s.curY = s.offY[n-1]
		s.offX = s.offX[:n-1]
		s.offY = s.offY[:n-1]
	}
}

func (s *cellSurface) Translate(dx, dy float64) {
	s.curX += dx
	s.curY += dy
}

func (s *cellSurface) Scale(sx, sy float64) {}

// render flattens the grid to styled terminal lines.
func (s *cellSurface) render() []string {
	lines := make([]string, s.height)
	var b strings.Builder
	for y := 0; y < s.height; y++ {
		b.Reset()
		var run strings.Builder
		var runColor string
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < s.width; x++ {
			c := s.cells[y*s.width+x]
			r := c.r
			hex := ""
			if c.set || r != 0 {
				if r == 0 {
					r = ' '
				}
				hex = c.color.Hex()
			} else {
				r = ' '
			}
			if hex != runColor {
				flush()
				runColor = hex
			}
			run.WriteRune(r)
		}
		flush()
		lines[y] = b.String()
	}
	return lines
}
