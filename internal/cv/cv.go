package cv

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"slices"

	"gocv.io/x/gocv"

	"acbfe/internal/acbf"
	"acbfe/internal/bubble"
	"acbfe/internal/imaging"
	"acbfe/internal/panels"
)

// ErrNoBubble reports that no outline could be traced around the seed.
var ErrNoBubble = bubble.ErrNoBubble

func init() {
	imaging.RegisterEncoder(imaging.WEBP, EncodeWebP)
}

// DetectBubble outlines the text bubble containing seed.
func DetectBubble(img image.Image, seed image.Point) (acbf.Polygon, error) {
	return bubble.Detect(img, seed, traceOutline)
}

// traceOutline erodes the mask, takes its edges and approximates the
// largest external contour.
func traceOutline(m *bubble.Mask, border int) ([]image.Point, error) {
	mat, err := gocv.NewMatFromBytes(m.H, m.W, gocv.MatTypeCV8UC1, m.Pix)
	if err != nil {
		return nil, fmt.Errorf("mask to mat: %w", err)
	}
	defer mat.Close()

	erodeKernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(border, border))
	defer erodeKernel.Close()
	eroded := gocv.NewMat()
	defer eroded.Close()
	gocv.Erode(mat, &eroded, erodeKernel)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(eroded, &edges, 10, 1)

	dilateKernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(max(1, border/2), max(1, border/2)))
	defer dilateKernel.Close()
	dilated := gocv.NewMat()
	defer dilated.Close()
	gocv.Dilate(edges, &dilated, dilateKernel)

	contours := gocv.FindContours(dilated, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	if contours.Size() == 0 {
		return nil, ErrNoBubble
	}
	largest, largestArea := 0, -1.0
	for i := range contours.Size() {
		if area := gocv.ContourArea(contours.At(i)); area > largestArea {
			largest, largestArea = i, area
		}
	}
	contour := contours.At(largest)
	approx := gocv.ApproxPolyDP(contour, 0.003*gocv.ArcLength(contour, true), true)
	defer approx.Close()
	return approx.ToPoints(), nil
}

// PanelDetector finds panels as the external contours of everything darker
// than the page background.
type PanelDetector struct {
	// Threshold is the grey level above which pixels count as background.
	Threshold float32
	// MinAreaRatio drops panels smaller than this share of the page.
	MinAreaRatio float64
}

// NewPanelDetector returns a detector with a 1% minimum panel area.
func NewPanelDetector() *PanelDetector {
	return &PanelDetector{Threshold: 230, MinAreaRatio: 0.01}
}

var _ panels.Detector = (*PanelDetector)(nil)

// Detect implements panels.Detector; path is not used.
func (d *PanelDetector) Detect(ctx context.Context, img image.Image, _ string) ([]panels.Panel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("panel detection: no image given")
	}
	gray := toGray(img)
	mat, err := gocv.NewMatFromBytes(gray.Rect.Dy(), gray.Rect.Dx(), gocv.MatTypeCV8UC1, gray.Pix)
	if err != nil {
		return nil, fmt.Errorf("image to mat: %w", err)
	}
	defer mat.Close()

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(mat, &binary, d.Threshold, 255, gocv.ThresholdBinaryInv)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	var found []panels.Panel
	for i := range contours.Size() {
		found = append(found, panels.Panel{Rect: gocv.BoundingRect(contours.At(i))})
	}
	minArea := int(float64(gray.Rect.Dx()*gray.Rect.Dy()) * d.MinAreaRatio)
	return panels.Filter(found, minArea), nil
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		for x := range b.Dx() {
			gray.SetGray(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray))
		}
	}
	return gray
}

// EncodeWebP writes img as WebP; quality 0 uses 80.
func EncodeWebP(w io.Writer, img image.Image, quality int) error {
	if quality <= 0 {
		quality = 80
	}
	mat, err := gocv.NewMatFromBytes(img.Bounds().Dy(), img.Bounds().Dx(), gocv.MatTypeCV8UC3, bgrBytes(img))
	if err != nil {
		return fmt.Errorf("image to mat: %w", err)
	}
	defer mat.Close()
	buf, err := gocv.IMEncodeWithParams(gocv.WebPFileExt, mat, []int{gocv.IMWriteWebpQuality, min(quality, 100)})
	if err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}
	defer buf.Close()
	_, err = w.Write(slices.Clone(buf.GetBytes()))
	return err
}

func bgrBytes(img image.Image) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			out = append(out, c.B, c.G, c.R)
		}
	}
	return out
}
