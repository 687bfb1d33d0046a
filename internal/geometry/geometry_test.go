package geometry

import (
	"image"
	"testing"

	"acbfe/internal/acbf"
)

func square() acbf.Polygon {
	return acbf.Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
}

func TestAreaAndCentroid(t *testing.T) {
	if got := Area(square()); got != 100 {
		t.Fatalf("Area = %v, want 100", got)
	}
	tri := acbf.Polygon{{0, 0}, {6, 0}, {0, 6}}
	if got := Area(tri); got != 18 {
		t.Fatalf("triangle Area = %v, want 18", got)
	}
	if got := Centroid(square()); got != image.Pt(5, 5) {
		t.Fatalf("Centroid = %v", got)
	}
	if got := Centroid(acbf.Polygon{{0, 0}, {4, 4}}); got != image.Pt(2, 2) {
		t.Fatalf("degenerate Centroid = %v", got)
	}
	if Area(acbf.Polygon{{1, 1}}) != 0 {
		t.Fatal("single point should have zero area")
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		pt   image.Point
		want bool
	}{
		{image.Pt(5, 5), true},
		{image.Pt(11, 5), false},
		{image.Pt(5, -1), false},
		{image.Pt(-1, 5), false},
	}
	for _, tt := range tests {
		if got := Contains(square(), tt.pt); got != tt.want {
			t.Fatalf("Contains(%v) = %v, want %v", tt.pt, got, tt.want)
		}
	}
}

func TestRotateTranslateScale(t *testing.T) {
	got := Rotate(acbf.Polygon{{10, 0}}, image.Pt(0, 0), 90)
	if got[0] != image.Pt(0, 10) {
		t.Fatalf("Rotate 90 = %v, want (0,10)", got[0])
	}
	back := Rotate(Rotate(square(), image.Pt(5, 5), 30), image.Pt(5, 5), -30)
	for i := range back {
		d := back[i].Sub(square()[i])
		if d.X < -1 || d.X > 1 || d.Y < -1 || d.Y > 1 {
			t.Fatalf("rotate round trip drifted: %v vs %v", back, square())
		}
	}
	if moved := Translate(square(), image.Pt(3, 4)); moved[2] != image.Pt(13, 14) {
		t.Fatalf("Translate = %v", moved)
	}
	if scaled := Scale(square(), 0.5); scaled[2] != image.Pt(5, 5) {
		t.Fatalf("Scale = %v", scaled)
	}
	if r := Bounds(RectPolygon(image.Rect(1, 2, 3, 4))); r != image.Rect(1, 2, 3, 4) {
		t.Fatalf("Bounds(RectPolygon) = %v", r)
	}
}

func TestSimplify(t *testing.T) {
	p := acbf.Polygon{{0, 0}, {5, 0}, {10, 0}, {10, 10}, {10, 10}, {0, 10}, {0, 5}, {0, 0}}
	got := Simplify(p)
	want := acbf.Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if got.String() != want.String() {
		t.Fatalf("Simplify = %v, want %v", got, want)
	}
}

func TestFlattenAndRemoveCollinearOnRows(t *testing.T) {
	p := acbf.Polygon{{2, 0}, {5, 1}, {8, 0}, {10, 5}, {8, 10}, {5, 9}, {2, 10}, {0, 5}}
	flat := FlattenRows(p, 1, 9)
	if flat[0].Y != 1 || flat[4].Y != 9 || flat[3].Y != 5 {
		t.Fatalf("FlattenRows = %v", flat)
	}
	got := RemoveCollinearOnRows(flat, 1, 9)
	want := acbf.Polygon{{2, 1}, {8, 1}, {10, 5}, {8, 9}, {2, 9}, {0, 5}}
	if got.String() != want.String() {
		t.Fatalf("RemoveCollinearOnRows = %v, want %v", got, want)
	}
	if same := RemoveCollinearOnRows(square(), 3, 4); same.String() != square().String() {
		t.Fatalf("expected unchanged polygon, got %v", same)
	}
}
