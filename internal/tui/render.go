package tui

import (
	"sort"
	"strings"
)

// renderMap draws stored polygons (fill then edges), the open draft, the marker and the
// hovered vertex onto a w x h cell canvas.
func (m Model) renderMap(w, h int) string {
	br := newBrailleBuf(w, h)

	for _, p := range m.store.List() {
		var ringsMic [][][2]int
		for _, ring := range p.Vertices() {
			if len(ring) < 3 {
				continue
			}
			sm := make([][2]int, 0, len(ring))
			for _, pt := range ring {
				mx, my := m.canvas.toMicro(pt, w, h)
				sm = append(sm, [2]int{mx, my})
			}
			ringsMic = append(ringsMic, sm)
		}
		if len(ringsMic) == 0 {
			continue
		}
		fillEvenOdd(br, ringsMic)
		// draw edges (high-res)
		for _, r := range ringsMic {
			for i := range r {
				a, b := r[i], r[(i+1)%len(r)]
				br.drawLineMicro(a[0], a[1], b[0], b[1])
			}
		}
	}

	// draft polygon: open path through placed vertices
	var prev *[2]int
	for _, pt := range m.tk.Draft() {
		mx, my := m.canvas.toMicro(pt, w, h)
		if prev != nil {
			br.drawLineMicro(prev[0], prev[1], mx, my)
		} else {
			br.setPixel(mx, my)
		}
		prev = &[2]int{mx, my}
	}

	// one string per cell so overlays can carry ANSI styling
	cells := make([][]string, h)
	for y, line := range br.toLines() {
		row := []rune(line)
		cells[y] = make([]string, w)
		for x := range cells[y] {
			cells[y][x] = string(row[x])
		}
	}

	if m.canvas.hasMarker {
		mx, my := m.canvas.toMicro(m.canvas.marker, w, h)
		m.placeMarker(cells, mx/2, my/4, w, h)
	}

	// Hover highlight: draw an orange circle at the hovered vertex cell
	if m.hovering && m.hoverVertex {
		cx, cy := m.hoverMicX/2, m.hoverMicY/4
		if cy >= 0 && cy < h && cx >= 0 && cx < w {
			cells[cy][cx] = hoverStyle.Render("◯")
		}
	}

	lines := make([]string, h)
	for y := range cells {
		lines[y] = strings.Join(cells[y], "")
	}
	return strings.Join(lines, "\n")
}

// placeMarker puts the pin at (cx, cy) with its label to the right, clipped to the canvas.
func (m Model) placeMarker(cells [][]string, cx, cy, w, h int) {
	if cx < 0 || cx >= w || cy < 0 || cy >= h {
		return
	}
	cells[cy][cx] = markerStyle.Render("◉")
	room := w - cx - 2
	if m.canvas.label == "" || room <= 0 {
		return
	}
	label := []rune(truncate(m.canvas.label, room))
	cells[cy][cx+1] = labelStyle.Render(" " + string(label))
	for i := 0; i < len(label) && cx+2+i < w; i++ {
		cells[cy][cx+2+i] = ""
	}
}

// fillEvenOdd scan-fills the rings with the even-odd rule, so holes stay empty.
func fillEvenOdd(br *brailleBuf, rings [][][2]int) {
	wMic, hMic := br.w*2, br.h*4
	for yMic := 0; yMic < hMic; yMic++ {
		var xs []int
		for _, ring := range rings {
			for i := range ring {
				a, b := ring[i], ring[(i+1)%len(ring)]
				if a[1] == b[1] { // horizontal edge: skip
					continue
				}
				y0, y1 := a[1], b[1]
				x0, x1 := a[0], b[0]
				if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
					t := float64(yMic-y0) / float64(y1-y0)
					xs = append(xs, int(float64(x0)+t*float64(x1-x0)))
				}
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for xMic := max(0, xs[i]); xMic <= min(xs[i+1], wMic-1); xMic++ {
				br.setPixel(xMic, yMic)
			}
		}
	}
}
