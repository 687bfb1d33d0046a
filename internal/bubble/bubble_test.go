package bubble

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func boundsTracer(m *Mask, _ int) ([]image.Point, error) {
	r, ok := m.Bounds()
	if !ok {
		return nil, nil
	}
	return []image.Point{
		r.Min,
		image.Pt(r.Max.X-1, r.Min.Y),
		image.Pt(r.Max.X-1, r.Max.Y-1),
		image.Pt(r.Min.X, r.Max.Y-1),
	}, nil
}

func page(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return img
}

func TestDetectRectangularCaption(t *testing.T) {
	img := page(200, 100)
	draw.Draw(img, image.Rect(40, 20, 160, 80), image.NewUniform(color.White), image.Point{}, draw.Src)

	poly, err := Detect(img, image.Pt(100, 50), boundsTracer)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if got, want := poly.String(), "41,21 158,21 158,78 41,78"; got != want {
		t.Fatalf("outline = %s, want %s", got, want)
	}
}

func TestDetectEllipticBubble(t *testing.T) {
	img := page(240, 140)
	cx, cy, rx, ry := 120, 70, 60, 30
	for y := cy - ry; y <= cy+ry; y++ {
		for x := cx - rx; x <= cx+rx; x++ {
			dx, dy := float64(x-cx)/float64(rx), float64(y-cy)/float64(ry)
			if dx*dx+dy*dy <= 1 {
				img.Set(x, y, color.White)
			}
		}
	}
	// Text inside the bubble must not split the region.
	draw.Draw(img, image.Rect(100, 66, 140, 74), image.NewUniform(color.Black), image.Point{}, draw.Src)

	poly, err := Detect(img, image.Pt(cx, cy-15), boundsTracer)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	b := poly.Bounds()
	outer := image.Rect(cx-rx-3, cy-ry-3, cx+rx+3, cy+ry+3)
	if !b.In(outer) {
		t.Fatalf("outline bounds %v outside %v", b, outer)
	}
	if b.Dx() < rx*2*8/10 || b.Dy() < ry*2*7/10 {
		t.Fatalf("outline bounds %v too small", b)
	}
}

func TestDetectErrors(t *testing.T) {
	img := page(50, 50)
	if _, err := Detect(img, image.Pt(60, 10), boundsTracer); err == nil {
		t.Fatalf("expected error for seed outside the page")
	}
	none := func(*Mask, int) ([]image.Point, error) { return nil, nil }
	if _, err := Detect(img, image.Pt(10, 10), none); !errors.Is(err, ErrNoBubble) {
		t.Fatalf("expected ErrNoBubble, got %v", err)
	}
}

func TestFillInsideAndCutTails(t *testing.T) {
	m := NewMask(10, 3)
	m.Set(1, 0, 255)
	m.Set(8, 0, 255)
	for x := range 10 {
		m.Set(x, 1, 255)
	}
	m.Set(4, 2, 255)

	fillInside(m)
	if _, _, n := m.rowSpan(0); n != 8 {
		t.Fatalf("row 0 filled %d pixels, want 8", n)
	}
	cutTails(m, 0.15)
	if _, _, n := m.rowSpan(2); n != 0 {
		t.Fatalf("narrow tail row not cleared")
	}
	if _, _, n := m.rowSpan(1); n != 10 {
		t.Fatalf("widest row touched")
	}
}

func TestRotations(t *testing.T) {
	m := NewMask(3, 2)
	m.Set(2, 0, 255)

	r := rot90(m)
	if r.W != 2 || r.H != 3 || r.At(0, 0) != 255 {
		t.Fatalf("rot90 = %+v", r)
	}
	if h := rot180(m); h.At(0, 1) != 255 || h.CountNonZero() != 1 {
		t.Fatalf("rot180 = %+v", h)
	}

	sq := NewMask(9, 9)
	sq.Set(4, 0, 255)
	quarter := rotate(sq, 90)
	if quarter.CountNonZero() != 1 || quarter.At(8, 4) != 255 {
		t.Fatalf("rotate 90 = %v", quarter.Pix)
	}
	if back := rotate(rotate(quarter, 45), -45); back.At(8, 4) != 255 {
		t.Fatalf("45 degree turn and back lost the point")
	}
}

func TestFlattenRectangle(t *testing.T) {
	poly := flatten([]image.Point{{0, 0}, {5, 0}, {10, 0}, {10, 20}, {0, 20}}, 100, true, false, false)
	if got := poly.String(); got != "0,0 10,0 10,20 0,20" {
		t.Fatalf("flatten = %s", got)
	}
}
