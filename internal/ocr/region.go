// Package ocr recognises the text inside bubble outlines with Tesseract.
//
// Tesseract support is compiled in with the "ocr" build tag:
//
//	go build -tags ocr ./cmd/acbfe
//
// Without it every client call returns ErrOCRNotEnabled.
package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"acbfe/internal/acbf"
	"acbfe/internal/geometry"
	"acbfe/internal/imaging"
)

// ErrEmptyRegion reports a polygon that covers no pixels of the image.
var ErrEmptyRegion = errors.New("ocr region is empty")

// RegionPNG crops img to the bounds of poly, whites out pixels outside the
// polygon and returns the crop encoded as PNG.
func RegionPNG(img image.Image, poly acbf.Polygon) ([]byte, error) {
	r := poly.Bounds()
	r.Max = r.Max.Add(image.Pt(1, 1))
	r = r.Intersect(img.Bounds())
	if r.Empty() || len(poly) < 3 {
		return nil, ErrEmptyRegion
	}
	crop := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(crop, crop.Bounds(), img, r.Min, draw.Src)
	for y := range r.Dy() {
		for x := range r.Dx() {
			if !geometry.Contains(poly, image.Pt(r.Min.X+x, r.Min.Y+y)) {
				crop.SetRGBA(x, y, color.RGBA{0xff, 0xff, 0xff, 0xff})
			}
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, crop, imaging.PNG, 0); err != nil {
		return nil, fmt.Errorf("encode ocr region: %w", err)
	}
	return buf.Bytes(), nil
}

// cleanText trims every line and drops empty ones.
func cleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
