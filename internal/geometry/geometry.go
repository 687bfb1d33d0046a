package geometry

import (
	"image"
	"math"

	"acbfe/internal/acbf"
)

// Area returns the absolute area enclosed by p (shoelace formula).
func Area(p acbf.Polygon) float64 {
	if len(p) < 3 {
		return 0
	}
	var sum int
	for i, a := range p {
		b := p[(i+1)%len(p)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(float64(sum)) / 2
}

// Centroid returns the area centroid of p. Degenerate polygons fall back to
// the centre of their bounding box.
func Centroid(p acbf.Polygon) image.Point {
	var cx, cy, twiceArea float64
	for i, a := range p {
		b := p[(i+1)%len(p)]
		cross := float64(a.X*b.Y - b.X*a.Y)
		twiceArea += cross
		cx += float64(a.X+b.X) * cross
		cy += float64(a.Y+b.Y) * cross
	}
	if twiceArea == 0 {
		r := p.Bounds()
		return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
	}
	return image.Pt(int(math.Round(cx/(3*twiceArea))), int(math.Round(cy/(3*twiceArea))))
}

// Bounds returns the bounding rectangle of p.
func Bounds(p acbf.Polygon) image.Rectangle {
	return p.Bounds()
}

// Contains reports whether pt lies inside p using the even-odd rule.
// Points on the top or left edges count as inside, matching how text lines
// are tested against their area.
func Contains(p acbf.Polygon, pt image.Point) bool {
	return ContainsF(p, float64(pt.X), float64(pt.Y))
}

// ContainsF is Contains for fractional coordinates.
func ContainsF(p acbf.Polygon, x, y float64) bool {
	n := len(p)
	if n < 3 {
		return false
	}
	inside := false
	p1 := p[0]
	for i := 1; i <= n; i++ {
		p2 := p[i%n]
		x1, y1, x2, y2 := float64(p1.X), float64(p1.Y), float64(p2.X), float64(p2.Y)
		if y > math.Min(y1, y2) && y <= math.Max(y1, y2) && x <= math.Max(x1, x2) {
			if x1 == x2 {
				inside = !inside
			} else if y1 != y2 {
				xinters := (y-y1)*(x2-x1)/(y2-y1) + x1
				if x <= xinters {
					inside = !inside
				}
			}
		}
		p1 = p2
	}
	return inside
}

// Rotate turns every point of p around center by degrees, clockwise on screen.
func Rotate(p acbf.Polygon, center image.Point, degrees float64) acbf.Polygon {
	theta := degrees * math.Pi / 180
	sin, cos := math.Sincos(theta)
	out := make(acbf.Polygon, len(p))
	for i, pt := range p {
		x := float64(pt.X - center.X)
		y := float64(pt.Y - center.Y)
		out[i] = image.Pt(
			int(math.Round(x*cos-y*sin))+center.X,
			int(math.Round(x*sin+y*cos))+center.Y,
		)
	}
	return out
}

// Scale multiplies every coordinate by ratio.
func Scale(p acbf.Polygon, ratio float64) acbf.Polygon {
	return p.Scale(ratio)
}

// Translate moves every point by d.
func Translate(p acbf.Polygon, d image.Point) acbf.Polygon {
	out := make(acbf.Polygon, len(p))
	for i, pt := range p {
		out[i] = pt.Add(d)
	}
	return out
}

// RectPolygon returns the four corners of r.
func RectPolygon(r image.Rectangle) acbf.Polygon {
	return acbf.RectPolygon(r)
}

// Simplify drops repeated points and points lying on the straight line
// between their neighbours.
func Simplify(p acbf.Polygon) acbf.Polygon {
	out := make(acbf.Polygon, 0, len(p))
	for _, pt := range p {
		if len(out) > 0 && out[len(out)-1] == pt {
			continue
		}
		out = append(out, pt)
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	for changed := true; changed && len(out) > 3; {
		changed = false
		for i := 0; i < len(out) && len(out) > 3; i++ {
			prev := out[(i+len(out)-1)%len(out)]
			next := out[(i+1)%len(out)]
			if collinear(prev, out[i], next) {
				out = append(out[:i], out[i+1:]...)
				changed = true
				i--
			}
		}
	}
	return out
}

func collinear(a, b, c image.Point) bool {
	return (b.X-a.X)*(c.Y-a.Y)-(b.Y-a.Y)*(c.X-a.X) == 0
}

// FlattenRows clamps points above top down to top and points below bottom
// up to bottom, cutting the rounded caps off a bubble outline.
func FlattenRows(p acbf.Polygon, top, bottom int) acbf.Polygon {
	out := make(acbf.Polygon, len(p))
	for i, pt := range p {
		switch {
		case pt.Y < top:
			pt.Y = top
		case pt.Y > bottom:
			pt.Y = bottom
		}
		out[i] = pt
	}
	return out
}

// RemoveCollinearOnRows keeps only the leftmost and rightmost points lying on
// row top and on row bottom. Points on other rows are untouched. If either
// row has no points p is returned unchanged.
func RemoveCollinearOnRows(p acbf.Polygon, top, bottom int) acbf.Polygon {
	upperMin, upperMax, okUpper := rowExtremes(p, top)
	lowerMin, lowerMax, okLower := rowExtremes(p, bottom)
	if !okUpper || !okLower {
		return p
	}
	out := make(acbf.Polygon, 0, len(p))
	for _, pt := range p {
		switch pt.Y {
		case top:
			if pt.X == upperMin || pt.X == upperMax {
				out = append(out, pt)
			}
		case bottom:
			if pt.X == lowerMin || pt.X == lowerMax {
				out = append(out, pt)
			}
		default:
			out = append(out, pt)
		}
	}
	return dedupe(out)
}

func rowExtremes(p acbf.Polygon, row int) (int, int, bool) {
	minX, maxX, found := 0, 0, false
	for _, pt := range p {
		if pt.Y != row {
			continue
		}
		if !found {
			minX, maxX, found = pt.X, pt.X, true
			continue
		}
		minX = min(minX, pt.X)
		maxX = max(maxX, pt.X)
	}
	return minX, maxX, found
}

func dedupe(p acbf.Polygon) acbf.Polygon {
	seen := make(map[image.Point]struct{}, len(p))
	out := p[:0]
	for _, pt := range p {
		if _, ok := seen[pt]; ok {
			continue
		}
		seen[pt] = struct{}{}
		out = append(out, pt)
	}
	return out
}
