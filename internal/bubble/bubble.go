package bubble

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"acbfe/internal/acbf"
	"acbfe/internal/geometry"
)

// ErrNoBubble reports that no outline could be traced around the seed.
var ErrNoBubble = errors.New("no text bubble found")

const (
	pad        = 6
	colorRange = 30
	margin     = 10
)

// Tracer returns the outline of the largest shape in m, in m's
// coordinates. border is the erosion size derived from the page size.
type Tracer func(m *Mask, border int) ([]image.Point, error)

// Detect finds the bubble containing seed. The page is blurred and
// converted to grey, the region around seed whose shade is within 30 of
// the seed shade is flood filled and cleaned up (holes filled, tails cut),
// and trace turns the cleaned mask into an outline. The outline's top and
// bottom are flattened so text can be fitted on straight lines.
func Detect(img image.Image, seed image.Point, trace Tracer) (acbf.Polygon, error) {
	b := img.Bounds()
	seed = seed.Sub(b.Min)
	if seed.X < 0 || seed.Y < 0 || seed.X >= b.Dx() || seed.Y >= b.Dy() {
		return nil, fmt.Errorf("seed %v outside page %dx%d", seed, b.Dx(), b.Dy())
	}
	gray := padded(blurGray(img), pad)
	height, width := gray.Bounds().Dy(), gray.Bounds().Dx()
	border := max(2, int(float64(min(height, width))*0.008))

	region := floodRegion(gray, seed.Add(image.Pt(pad, pad)))
	box, ok := region.Bounds()
	if !ok {
		return nil, ErrNoBubble
	}
	carve := image.Rect(
		max(0, box.Min.X-1), max(0, box.Min.Y-1),
		min(width-1, box.Max.X+1), min(height-1, box.Max.Y),
	)
	hi, wi := carve.Dy(), carve.Dx()
	if hi < 3 || wi < 3 {
		return nil, ErrNoBubble
	}

	// Work in a square frame big enough to rotate the carved region freely.
	side := int(math.Ceil(math.Hypot(float64(hi), float64(wi)))) + 2*margin
	off := image.Pt((side-wi)/2, (side-hi)/2)
	frame := NewMask(side, side)
	for y := range hi {
		for x := range wi {
			frame.Set(off.X+x, off.Y+y, region.At(carve.Min.X+x, carve.Min.Y+y))
		}
	}

	fillInside(frame)
	rectangle := float64(frame.CountNonZero())/float64(hi*wi) > 0.9

	if rectangle {
		frame = rot180(frame)
	} else {
		for range 2 {
			cutTails(frame, 0.15)
			frame = rotate(frame, 45)
			cutTails(frame, 0.15)
			frame = rotate(frame, 45)
		}
	}
	// Remove the text left inside the bubble, rotating back upright.
	fillInside(frame)
	frame = rot90(frame)
	fillInside(frame)
	frame = rot90(frame)

	crop := frame.Sub(image.Rect(off.X-margin, off.Y-margin, off.X+wi+margin, off.Y+hi+margin))
	cutTop := rowFill(crop, margin+1) > 0.5
	cutBottom := rowFill(crop, crop.H-margin-2) > 0.5

	outline, err := trace(crop, border)
	if err != nil {
		return nil, err
	}
	if len(outline) < 3 {
		return nil, ErrNoBubble
	}
	shift := image.Pt(carve.Min.X-margin-pad, carve.Min.Y-margin-pad)
	poly := make(acbf.Polygon, len(outline))
	for i, pt := range outline {
		poly[i] = pt.Add(shift)
	}
	return flatten(poly, height, rectangle, cutTop, cutBottom), nil
}

// flatten cuts the rounded top and bottom of the outline. How much is cut
// depends on the shape: rectangles barely, bubbles cut by the panel
// border less on the cut side.
func flatten(poly acbf.Polygon, pageHeight int, rectangle, cutTop, cutBottom bool) acbf.Polygon {
	cutBy := 1 + math.Round(float64(pageHeight)*0.001)
	upper, lower := 1.0, 0.7
	switch {
	case rectangle:
		upper, lower = 0.5, 0.3
	case cutTop:
		upper, lower = 0.1, 0.7
	case cutBottom:
		upper, lower = 1, 0.1
	}
	bounds := poly.Bounds()
	top := bounds.Min.Y + int(cutBy*upper)
	bottom := bounds.Max.Y - int(cutBy*lower)
	poly = geometry.FlattenRows(poly, top, bottom)
	poly = geometry.RemoveCollinearOnRows(poly, top, bottom)
	return geometry.Simplify(poly)
}

func rowFill(m *Mask, y int) float64 {
	if y < 0 || y >= m.H || m.W == 0 {
		return 0
	}
	_, _, count := m.rowSpan(y)
	return float64(count) / float64(m.W)
}

// blurGray converts img to grey and applies a 5x5 Gaussian blur.
func blurGray(img image.Image) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	src := make([]float64, w*h)
	for y := range h {
		for x := range w {
			src[y*w+x] = float64(color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y)
		}
	}
	kernel := [5]float64{1, 4, 6, 4, 1}
	tmp := make([]float64, w*h)
	for y := range h {
		for x := range w {
			var sum float64
			for k, weight := range kernel {
				sum += weight * src[y*w+reflect(x+k-2, w)]
			}
			tmp[y*w+x] = sum / 16
		}
	}
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			var sum float64
			for k, weight := range kernel {
				sum += weight * tmp[reflect(y+k-2, h)*w+x]
			}
			out.Pix[y*out.Stride+x] = uint8(math.Round(sum / 16))
		}
	}
	return out
}

// reflect mirrors i into 0..n-1 without repeating the edge pixel.
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

func padded(src *image.Gray, n int) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx()+2*n, b.Dy()+2*n))
	for y := range b.Dy() {
		copy(out.Pix[(y+n)*out.Stride+n:], src.Pix[y*src.Stride:y*src.Stride+b.Dx()])
	}
	return out
}

// floodRegion marks the 4-connected pixels reachable from seed whose shade
// is within colorRange of the seed shade.
func floodRegion(gray *image.Gray, seed image.Point) *Mask {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	px := int(gray.GrayAt(seed.X, seed.Y).Y)
	lo, hi := max(0, px-colorRange), min(255, px+colorRange)
	in := func(x, y int) bool {
		v := int(gray.Pix[y*gray.Stride+x])
		return v >= lo && v <= hi
	}
	region := NewMask(w, h)
	stack := []image.Point{seed}
	region.Set(seed.X, seed.Y, 255)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			q := p.Add(d)
			if q.X < 0 || q.Y < 0 || q.X >= w || q.Y >= h || region.At(q.X, q.Y) != 0 || !in(q.X, q.Y) {
				continue
			}
			region.Set(q.X, q.Y, 255)
			stack = append(stack, q)
		}
	}
	return region
}
