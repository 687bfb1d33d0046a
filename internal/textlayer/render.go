// Package textlayer draws ACBF text areas onto page images.
package textlayer

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"acbfe/internal/acbf"
	"acbfe/internal/geometry"
	"acbfe/internal/imaging"
)

const (
	minFontSize = 4
	padding     = 2
)

// Renderer draws text areas using the fonts and colours of a stylesheet.
// It is safe for concurrent use.
type Renderer struct {
	sheet acbf.Stylesheet
	fonts *fontCache
}

// New returns a renderer for sheet. lookup may be nil, in which case the Go
// fonts are used for every style.
func New(sheet acbf.Stylesheet, lookup FontLookup) *Renderer {
	if sheet.Colors == nil {
		sheet = acbf.NewStylesheet()
	}
	return &Renderer{
		sheet: sheet,
		fonts: &fontCache{sheet: sheet, lookup: lookup, byStyle: map[string]*opentype.Font{}},
	}
}

// RenderPage returns a copy of img with areas drawn over it.
func (r *Renderer) RenderPage(img image.Image, areas []acbf.TextArea, layerBg string) (*image.RGBA, error) {
	dst := imaging.ToRGBA(img)
	if err := r.Render(dst, areas, layerBg); err != nil {
		return nil, err
	}
	return dst, nil
}

// Render draws every area onto dst. layerBg is used for areas without
// their own background colour.
func (r *Renderer) Render(dst *image.RGBA, areas []acbf.TextArea, layerBg string) error {
	for _, area := range areas {
		if len(area.Points) < 3 {
			continue
		}
		if err := r.renderArea(dst, area, layerBg); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderArea(dst *image.RGBA, area acbf.TextArea, layerBg string) error {
	bg := area.BgColor
	if bg == "" {
		bg = layerBg
	}
	fill, err := imaging.ParseColor(bg)
	if err != nil {
		fill = color.RGBA{255, 255, 255, 255}
	}
	ink, err := imaging.ParseColor(r.sheet.Color(area.Type, bool(area.Inverted)))
	if err != nil {
		ink = color.RGBA{A: 255}
	}

	if area.Rotation%360 == 0 {
		if !area.Transparent {
			fillPolygon(dst, area.Points, fill)
		}
		return r.drawText(dst, area, area.Points, ink)
	}

	// Rotated text is laid out horizontally inside the polygon turned the
	// other way, then the result is turned back onto the page.
	bounds := area.Points.Bounds()
	center := image.Pt((bounds.Min.X+bounds.Max.X)/2, (bounds.Min.Y+bounds.Max.Y)/2)
	turned := geometry.Rotate(area.Points, center, float64(area.Rotation))
	tb := turned.Bounds()
	local := geometry.Translate(turned, image.Pt(-tb.Min.X, -tb.Min.Y))
	off := image.NewRGBA(image.Rect(0, 0, max(1, tb.Dx()), max(1, tb.Dy())))
	if !area.Transparent {
		fillPolygon(off, local, fill)
	}
	if err := r.drawText(off, area, local, ink); err != nil {
		return err
	}
	back := rotateImage(off, -float64(area.Rotation))
	at := image.Pt(center.X-back.Bounds().Dx()/2, center.Y-back.Bounds().Dy()/2)
	draw.Draw(dst, back.Bounds().Add(at), back, image.Point{}, draw.Over)
	return nil
}

func fillPolygon(dst *image.RGBA, poly acbf.Polygon, c color.Color) {
	b := dst.Bounds()
	ras := vector.NewRasterizer(b.Dx(), b.Dy())
	for i, pt := range poly {
		x, y := float32(pt.X-b.Min.X), float32(pt.Y-b.Min.Y)
		if i == 0 {
			ras.MoveTo(x, y)
			continue
		}
		ras.LineTo(x, y)
	}
	ras.ClosePath()
	ras.Draw(dst, b, image.NewUniform(c), image.Point{})
}

type placedLine struct {
	y     int
	x0    int
	x1    int
	width int
	words []measuredWord
}

type measuredWord struct {
	w      word
	widths []int
	width  int
}

func (r *Renderer) drawText(dst *image.RGBA, area acbf.TextArea, poly acbf.Polygon, ink color.Color) error {
	length := plainLength(area)
	if length == 0 {
		return nil
	}
	base := baseStyle(area)
	paragraphs := make([][]word, 0, len(area.Paragraphs))
	for _, p := range area.Paragraphs {
		paragraphs = append(paragraphs, parseParagraph(p, base))
	}

	for size := initialFontSize(poly, length); ; size-- {
		faces := newFaceSet(r.fonts, float64(max(size, minFontSize)))
		lines, ok, err := layout(poly, paragraphs, faces, max(size, minFontSize))
		if err != nil {
			faces.close()
			return err
		}
		if ok || size <= minFontSize {
			centerVertically(poly, lines, max(size, minFontSize))
			err := paint(dst, lines, faces, max(size, minFontSize), ink)
			faces.close()
			return err
		}
		faces.close()
	}
}

// initialFontSize is the largest size tried for length characters in poly;
// drawText shrinks from there until the text fits.
func initialFontSize(poly acbf.Polygon, length int) int {
	return int(math.Sqrt(geometry.Area(poly)/float64(length)/2)*2) - 3
}

func measure(w word, faces *faceSet) (measuredWord, error) {
	m := measuredWord{w: w, widths: make([]int, len(w))}
	for i, part := range w {
		face, err := faces.face(part.style, part.small)
		if err != nil {
			return m, err
		}
		m.widths[i] = font.MeasureString(face, part.text).Ceil()
		m.width += m.widths[i]
	}
	return m, nil
}

// layout wraps paragraphs into lines that fit inside poly. It reports false
// when the text overflows the polygon at this size.
func layout(poly acbf.Polygon, paragraphs [][]word, faces *faceSet, size int) ([]placedLine, bool, error) {
	normal, err := faces.face("normal", false)
	if err != nil {
		return nil, false, err
	}
	space := font.MeasureString(normal, " ").Ceil()
	lineHeight := int(math.Ceil(float64(size) * 1.3))
	bounds := poly.Bounds()
	y := bounds.Min.Y + padding
	var lines []placedLine

	for _, words := range paragraphs {
		var line *placedLine
		for _, w := range words {
			m, err := measure(w, faces)
			if err != nil {
				return nil, false, err
			}
			for {
				if y+size > bounds.Max.Y-padding {
					return lines, false, nil
				}
				if line == nil {
					x0, x1, ok := innerSpan(poly, y, y+size+1)
					if !ok || x1-x0 < m.width {
						y++
						continue
					}
					lines = append(lines, placedLine{y: y, x0: x0, x1: x1})
					line = &lines[len(lines)-1]
				}
				extra := m.width
				if len(line.words) > 0 {
					extra += space
				}
				if line.width+extra <= line.x1-line.x0 {
					line.words = append(line.words, m)
					line.width += extra
					break
				}
				y += lineHeight
				line = nil
			}
		}
		if line != nil || len(words) == 0 {
			y += lineHeight
		}
	}
	return lines, true, nil
}

// innerSpan returns the horizontal extent inside poly shared by rows top and bottom.
func innerSpan(poly acbf.Polygon, top, bottom int) (int, int, bool) {
	a0, a1, ok := scanSpan(poly, float64(top)+0.5)
	if !ok {
		return 0, 0, false
	}
	b0, b1, ok := scanSpan(poly, float64(bottom)-0.5)
	if !ok {
		return 0, 0, false
	}
	x0 := int(math.Ceil(math.Max(a0, b0))) + padding
	x1 := int(math.Floor(math.Min(a1, b1))) - padding
	if x1 <= x0 {
		return 0, 0, false
	}
	return x0, x1, true
}

func scanSpan(poly acbf.Polygon, y float64) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, a := range poly {
		b := poly[(i+1)%len(poly)]
		ay, by := float64(a.Y), float64(b.Y)
		if (ay <= y && by > y) || (by <= y && ay > y) {
			x := float64(a.X) + (y-ay)*float64(b.X-a.X)/(by-ay)
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
		}
	}
	return lo, hi, lo < hi
}

// centerVertically moves the block of lines down by half the free space
// below it, provided every line still fits at its new position.
func centerVertically(poly acbf.Polygon, lines []placedLine, size int) {
	if len(lines) == 0 {
		return
	}
	free := poly.Bounds().Max.Y - padding - (lines[len(lines)-1].y + size)
	shift := free / 2
	if shift <= 0 {
		return
	}
	spans := make([][2]int, len(lines))
	for i, l := range lines {
		x0, x1, ok := innerSpan(poly, l.y+shift, l.y+shift+size+1)
		if !ok || x1-x0 < l.width {
			return
		}
		spans[i] = [2]int{x0, x1}
	}
	for i := range lines {
		lines[i].y += shift
		lines[i].x0, lines[i].x1 = spans[i][0], spans[i][1]
	}
}

func paint(dst *image.RGBA, lines []placedLine, faces *faceSet, size int, ink color.Color) error {
	normal, err := faces.face("normal", false)
	if err != nil {
		return err
	}
	space := font.MeasureString(normal, " ").Ceil()
	ascent := normal.Metrics().Ascent.Ceil()
	src := image.NewUniform(ink)
	for _, l := range lines {
		x := l.x0 + (l.x1-l.x0-l.width)/2
		baseline := l.y + min(ascent, size)
		for i, m := range l.words {
			if i > 0 {
				x += space
			}
			for j, part := range m.w {
				face, err := faces.face(part.style, part.small)
				if err != nil {
					return err
				}
				d := font.Drawer{Dst: dst, Src: src, Face: face, Dot: fixed.P(x, baseline)}
				d.DrawString(part.text)
				x += m.widths[j]
			}
		}
	}
	return nil
}

// rotateImage turns src clockwise by degrees around its centre, growing the
// canvas to the rotated bounding box. Uncovered pixels stay transparent.
func rotateImage(src *image.RGBA, degrees float64) *image.RGBA {
	theta := degrees * math.Pi / 180
	sin, cos := math.Sincos(theta)
	sw, sh := float64(src.Bounds().Dx()), float64(src.Bounds().Dy())
	dw := int(math.Ceil(math.Abs(sw*cos) + math.Abs(sh*sin)))
	dh := int(math.Ceil(math.Abs(sw*sin) + math.Abs(sh*cos)))
	dst := image.NewRGBA(image.Rect(0, 0, max(1, dw), max(1, dh)))
	scx, scy := sw/2, sh/2
	dcx, dcy := float64(dw)/2, float64(dh)/2
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			fx, fy := float64(x)+0.5-dcx, float64(y)+0.5-dcy
			// inverse rotation
			sx := fx*cos + fy*sin + scx
			sy := -fx*sin + fy*cos + scy
			ix, iy := int(math.Floor(sx)), int(math.Floor(sy))
			if ix < 0 || iy < 0 || ix >= src.Bounds().Dx() || iy >= src.Bounds().Dy() {
				continue
			}
			dst.SetRGBA(x, y, src.RGBAAt(ix, iy))
		}
	}
	return dst
}

// PlainText returns the text of an area with markup removed, one line per paragraph.
func PlainText(area acbf.TextArea) string {
	lines := make([]string, len(area.Paragraphs))
	for i, p := range area.Paragraphs {
		lines[i] = p.Text()
	}
	return strings.Join(lines, "\n")
}
