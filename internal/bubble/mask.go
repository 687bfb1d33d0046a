package bubble

import (
	"image"
	"math"
)

// Mask is a single channel 8-bit image whose pixels are 0 or 255.
type Mask struct {
	W, H int
	Pix  []uint8
}

// NewMask returns an all-zero mask.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Pix: make([]uint8, w*h)}
}

// At returns the pixel at x, y; outside pixels are zero.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return 0
	}
	return m.Pix[y*m.W+x]
}

// Set writes the pixel at x, y, ignoring coordinates outside the mask.
func (m *Mask) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	m.Pix[y*m.W+x] = v
}

// Row returns row y.
func (m *Mask) Row(y int) []uint8 {
	return m.Pix[y*m.W : (y+1)*m.W]
}

// CountNonZero counts the set pixels.
func (m *Mask) CountNonZero() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Bounds returns the bounding box of the set pixels and false when none are set.
func (m *Mask) Bounds() (image.Rectangle, bool) {
	r := image.Rectangle{Min: image.Pt(m.W, m.H)}
	found := false
	for y := range m.H {
		for x, v := range m.Row(y) {
			if v == 0 {
				continue
			}
			found = true
			r.Min.X = min(r.Min.X, x)
			r.Min.Y = min(r.Min.Y, y)
			r.Max.X = max(r.Max.X, x+1)
			r.Max.Y = max(r.Max.Y, y+1)
		}
	}
	return r, found
}

// Sub copies the r region into a new mask. Pixels of r outside m are zero.
func (m *Mask) Sub(r image.Rectangle) *Mask {
	out := NewMask(r.Dx(), r.Dy())
	for y := range out.H {
		for x := range out.W {
			out.Pix[y*out.W+x] = m.At(r.Min.X+x, r.Min.Y+y)
		}
	}
	return out
}

// rowSpan returns the first and last set column of row y and the number of set pixels.
func (m *Mask) rowSpan(y int) (first, last, count int) {
	first = -1
	for x, v := range m.Row(y) {
		if v == 0 {
			continue
		}
		if first < 0 {
			first = x
		}
		last = x
		count++
	}
	return first, last, count
}

// fillInside sets every pixel between the first and last set pixel of each row.
func fillInside(m *Mask) {
	for y := range m.H {
		first, last, count := m.rowSpan(y)
		if count == 0 {
			continue
		}
		row := m.Row(y)
		for x := first; x <= last; x++ {
			row[x] = 255
		}
	}
}

// cutTails clears rows narrower than ratio of the widest row.
func cutTails(m *Mask, ratio float64) {
	widest := 0
	counts := make([]int, m.H)
	for y := range m.H {
		_, _, counts[y] = m.rowSpan(y)
		widest = max(widest, counts[y])
	}
	if widest == 0 {
		return
	}
	limit := float64(widest) * ratio
	for y, count := range counts {
		if count > 0 && float64(count) < limit {
			clear(m.Row(y))
		}
	}
}

// rotate turns m by degrees about its centre, keeping the frame size.
// Nearest-neighbour sampling; uncovered pixels are zero.
func rotate(m *Mask, degrees float64) *Mask {
	out := NewMask(m.W, m.H)
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	cx, cy := float64(m.W-1)/2, float64(m.H-1)/2
	for y := range m.H {
		for x := range m.W {
			dx, dy := float64(x)-cx, float64(y)-cy
			sx := int(math.Round(cx + dx*cos + dy*sin))
			sy := int(math.Round(cy - dx*sin + dy*cos))
			out.Pix[y*m.W+x] = m.At(sx, sy)
		}
	}
	return out
}

// rot90 rotates m a quarter turn counter-clockwise.
func rot90(m *Mask) *Mask {
	out := NewMask(m.H, m.W)
	for y := range out.H {
		for x := range out.W {
			out.Pix[y*out.W+x] = m.At(m.W-1-y, x)
		}
	}
	return out
}

// rot180 rotates m half a turn.
func rot180(m *Mask) *Mask {
	out := NewMask(m.W, m.H)
	n := len(m.Pix)
	for i, v := range m.Pix {
		out.Pix[n-1-i] = v
	}
	return out
}
