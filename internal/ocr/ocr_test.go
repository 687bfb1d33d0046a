package ocr

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"acbfe/internal/acbf"
	"acbfe/internal/imaging"
)

func TestRegionPNGCropsAndMasks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	triangle := acbf.Polygon{{10, 10}, {50, 10}, {10, 50}}

	data, err := RegionPNG(img, triangle)
	if err != nil {
		t.Fatalf("RegionPNG returned error: %v", err)
	}
	crop, _, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode crop: %v", err)
	}
	if got := crop.Bounds().Size(); got != image.Pt(41, 41) {
		t.Fatalf("crop size = %v, want 41x41", got)
	}
	if r, _, _, _ := crop.At(5, 5).RGBA(); r != 0 {
		t.Fatalf("inside pixel whited out")
	}
	if r, _, _, _ := crop.At(38, 38).RGBA(); r>>8 != 0xff {
		t.Fatalf("outside pixel not whited out")
	}
}

func TestRegionPNGEmpty(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if _, err := RegionPNG(img, acbf.Polygon{{20, 20}, {30, 20}, {30, 30}}); !errors.Is(err, ErrEmptyRegion) {
		t.Fatalf("expected ErrEmptyRegion, got %v", err)
	}
}

func TestCleanText(t *testing.T) {
	if got := cleanText("  Hello \n\n  world!\n"); got != "Hello\nworld!" {
		t.Fatalf("cleanText = %q", got)
	}
}
