package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// Filter names a resampling kernel.
type Filter string

const (
	Nearest   Filter = "NEAREST"
	Bilinear  Filter = "BILINEAR"
	Bicubic   Filter = "BICUBIC"
	Antialias Filter = "ANTIALIAS"
)

// Filters lists the accepted filter names.
var Filters = []Filter{Nearest, Bilinear, Bicubic, Antialias}

// ParseFilter accepts a filter name in any case; empty means ANTIALIAS.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToUpper(strings.TrimSpace(s))); f {
	case "":
		return Antialias, nil
	case Nearest, Bilinear, Bicubic, Antialias:
		return f, nil
	}
	return "", fmt.Errorf("unknown resize filter %q (want NEAREST, BILINEAR, BICUBIC or ANTIALIAS)", s)
}

func (f Filter) interpolator() draw.Interpolator {
	switch f {
	case Nearest:
		return draw.NearestNeighbor
	case Bilinear:
		return draw.ApproxBiLinear
	case Bicubic:
		return draw.BiLinear
	}
	return draw.CatmullRom
}

var geometryPattern = regexp.MustCompile(`^([0-9]*)x([0-9]*)([<>])$`)

// Geometry is an ImageMagick style resize bound such as "1200x1600>".
// Shrink ('>') only reduces images larger than the box, Grow ('<') only
// enlarges images smaller than it.
type Geometry struct {
	Width  int
	Height int
	Shrink bool
}

// ParseGeometry parses "WxH>" or "WxH<". A missing dimension is unbounded.
func ParseGeometry(s string) (Geometry, error) {
	m := geometryPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Geometry{}, fmt.Errorf("invalid geometry %q (want WxH> or WxH<)", s)
	}
	g := Geometry{Shrink: m[3] == ">"}
	if m[1] != "" {
		g.Width, _ = strconv.Atoi(m[1])
	}
	if m[2] != "" {
		g.Height, _ = strconv.Atoi(m[2])
	}
	if g.Width == 0 && g.Height == 0 {
		return Geometry{}, fmt.Errorf("invalid geometry %q: no dimension given", s)
	}
	return g, nil
}

func (g Geometry) String() string {
	flag := "<"
	if g.Shrink {
		flag = ">"
	}
	w, h := "", ""
	if g.Width > 0 {
		w = strconv.Itoa(g.Width)
	}
	if g.Height > 0 {
		h = strconv.Itoa(g.Height)
	}
	return w + "x" + h + flag
}

// Ratio returns the scale factor that fits size into the box, and whether
// the geometry applies to an image of that size at all.
func (g Geometry) Ratio(size image.Point) (float64, bool) {
	if size.X <= 0 || size.Y <= 0 {
		return 1, false
	}
	ratio := math.Inf(1)
	if g.Width > 0 {
		ratio = float64(g.Width) / float64(size.X)
	}
	if g.Height > 0 {
		ratio = math.Min(ratio, float64(g.Height)/float64(size.Y))
	}
	largerEither := (g.Width > 0 && size.X > g.Width) || (g.Height > 0 && size.Y > g.Height)
	smallerBoth := (g.Width == 0 || size.X < g.Width) && (g.Height == 0 || size.Y < g.Height)
	if g.Shrink && largerEither {
		return ratio, true
	}
	if !g.Shrink && smallerBoth {
		return ratio, true
	}
	return 1, false
}

// Scaled returns size multiplied by ratio, rounded, never below one pixel.
func Scaled(size image.Point, ratio float64) image.Point {
	return image.Pt(
		max(1, int(math.Round(float64(size.X)*ratio))),
		max(1, int(math.Round(float64(size.Y)*ratio))),
	)
}

// Resize scales img to exactly size using filter.
func Resize(img image.Image, size image.Point, filter Filter) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	filter.interpolator().Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Thumbnail fits img inside a maxSide square keeping its aspect ratio.
// Images already small enough are returned unchanged.
func Thumbnail(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxSide && b.Dy() <= maxSide {
		return img
	}
	ratio := math.Min(float64(maxSide)/float64(b.Dx()), float64(maxSide)/float64(b.Dy()))
	return Resize(img, Scaled(b.Size(), ratio), Bilinear)
}

// ToRGBA copies img into a new RGBA image with its origin at zero.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// ParseColor parses "#rrggbb" or "#rgb". Named colours are not supported.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// HexColor formats c as "#rrggbb".
func HexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
