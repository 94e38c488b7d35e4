package tui

import "github.com/charmbracelet/lipgloss"

// brailleBuf accumulates micro-pixels at 2x4 per cell and renders them
// as braille runes, optionally colored per cell.
type brailleBuf struct {
	w, h   int       // in cells
	m      [][]uint8 // per-cell 8-bit braille mask
	colors [][]string
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	colors := make([][]string, h)
	for i := range m {
		m[i] = make([]uint8, w)
		colors[i] = make([]string, w)
	}
	return &brailleBuf{w: w, h: h, m: m, colors: colors}
}

// setPixel sets a micro-pixel at micro coords. An empty color keeps
// whatever color the cell already carries.
func (b *brailleBuf) setPixel(mx, my int, color string) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	var bit uint8
	if rx == 0 {
		switch ry {
		case 0:
			bit = 0x01
		case 1:
			bit = 0x02
		case 2:
			bit = 0x04
		case 3:
			bit = 0x40
		}
	} else {
		switch ry {
		case 0:
			bit = 0x08
		case 1:
			bit = 0x10
		case 2:
			bit = 0x20
		case 3:
			bit = 0x80
		}
	}
	b.m[cy][cx] |= bit
	if color != "" {
		b.colors[cy][cx] = color
	}
}

// drawLineMicro draws a Bresenham line on the microgrid.
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, color string) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, color)
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

// toLines renders each cell row to a string, wrapping colored cells in
// lipgloss styles.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		line := ""
		for x := 0; x < b.w; x++ {
			mask := b.m[y][x]
			if mask == 0 {
				line += " "
				continue
			}
			ch := string(rune(0x2800 + int(mask)))
			if c := b.colors[y][x]; c != "" {
				ch = lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(ch)
			}
			line += ch
		}
		out[y] = line
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
