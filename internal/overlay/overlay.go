// Package overlay draws frame and text-area outlines over a page image
// for previews.
package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"acbfe/internal/acbf"
	"acbfe/internal/imaging"
	"acbfe/internal/textlayer"
)

// Options selects what Compose draws.
type Options struct {
	Frames     bool
	FrameColor color.Color
	// TextLang selects the text layer to outline or render; empty draws none.
	TextLang  string
	TextColor color.Color
	// Renderer, when set, paints the text layer instead of outlining it.
	Renderer *textlayer.Renderer
	// Width is the outline thickness in pixels; 0 means 2.
	Width int
}

// Colors builds outline colours from "#rrggbb" strings, falling back to
// blue frames and red text areas.
func Colors(frames, text string) (color.Color, color.Color) {
	fc, err := imaging.ParseColor(frames)
	if err != nil {
		fc = color.RGBA{0, 0, 0xff, 0xff}
	}
	tc, err := imaging.ParseColor(text)
	if err != nil {
		tc = color.RGBA{0xff, 0, 0, 0xff}
	}
	return fc, tc
}

// Compose returns a copy of base with the overlays of page drawn on top.
// Frames are numbered in document order.
func Compose(base image.Image, page acbf.PageView, opts Options) (*image.RGBA, error) {
	dst := imaging.ToRGBA(base)
	width := opts.Width
	if width <= 0 {
		width = 2
	}
	if opts.TextLang != "" && page.TextLayers != nil {
		for _, layer := range *page.TextLayers {
			if layer.Lang != opts.TextLang {
				continue
			}
			if opts.Renderer != nil {
				bg := layer.BgColor
				if bg == "" {
					bg = acbf.DefaultLayerColor
				}
				if err := opts.Renderer.Render(dst, layer.Areas, bg); err != nil {
					return nil, err
				}
				continue
			}
			for _, area := range layer.Areas {
				Outline(dst, area.Points, opts.TextColor, width)
			}
		}
	}
	if opts.Frames && page.Frames != nil {
		for i, frame := range *page.Frames {
			Outline(dst, frame.Points, opts.FrameColor, width)
			label(dst, frame.Points, strconv.Itoa(i+1), opts.FrameColor)
		}
	}
	return dst, nil
}

// Outline strokes the closed polygon p onto dst.
func Outline(dst draw.Image, p acbf.Polygon, c color.Color, width int) {
	if len(p) < 2 || c == nil {
		return
	}
	for i := range p {
		line(dst, p[i], p[(i+1)%len(p)], c, width)
	}
}

// line draws a Bresenham line with a square brush.
func line(dst draw.Image, a, b image.Point, c color.Color, width int) {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)
	err := dx + dy
	half := width / 2
	brush := image.NewUniform(c)
	for {
		draw.Draw(dst, image.Rect(a.X-half, a.Y-half, a.X-half+width, a.Y-half+width), brush, image.Point{}, draw.Src)
		if a == b {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			a.X += sx
		}
		if e2 <= dx {
			err += dx
			a.Y += sy
		}
	}
}

func label(dst draw.Image, p acbf.Polygon, text string, c color.Color) {
	if len(p) == 0 || c == nil {
		return
	}
	at := p.Bounds().Min.Add(image.Pt(4, 4+basicfont.Face7x13.Ascent))
	d := font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: basicfont.Face7x13, Dot: fixed.P(at.X, at.Y)}
	d.DrawString(text)
}

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
