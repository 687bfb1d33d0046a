package panels

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"acbfe/internal/acbf"
	"acbfe/internal/imaging"
	"acbfe/internal/toolexec"
)

// Panel is the bounding box of one detected panel.
type Panel struct {
	Rect image.Rectangle `json:"rect"`
}

// Detector finds panels on a page. Implementations may use img, the file
// at path, or both; path may be empty when the page has no local file.
type Detector interface {
	Detect(ctx context.Context, img image.Image, path string) ([]Panel, error)
}

// Option configures a Kumiko detector.
type Option func(*Kumiko)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec toolexec.Executor) Option {
	return func(k *Kumiko) {
		if exec != nil {
			k.exec = exec
		}
	}
}

// WithBinary overrides the kumiko executable.
func WithBinary(binary string) Option {
	return func(k *Kumiko) {
		if strings.TrimSpace(binary) != "" {
			k.binary = binary
		}
	}
}

// Kumiko runs the kumiko panel extractor.
type Kumiko struct {
	binary string
	exec   toolexec.Executor
}

// NewKumiko returns a detector that shells out to kumiko.
func NewKumiko(opts ...Option) *Kumiko {
	k := &Kumiko{binary: "kumiko", exec: toolexec.Command{}}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

type kumikoInfo struct {
	Filename string  `json:"filename"`
	Size     [2]int  `json:"size"`
	Panels   [][]int `json:"panels"`
}

// Detect runs "kumiko -i path". Without a path the image is written to a
// temporary PNG first.
func (k *Kumiko) Detect(ctx context.Context, img image.Image, path string) ([]Panel, error) {
	if path == "" {
		if img == nil {
			return nil, fmt.Errorf("kumiko: no image given")
		}
		dir, err := os.MkdirTemp("", "acbfe-kumiko-")
		if err != nil {
			return nil, fmt.Errorf("kumiko temp dir: %w", err)
		}
		defer os.RemoveAll(dir)
		path = filepath.Join(dir, "page.png")
		if err := imaging.Save(path, img, imaging.PNG, 0); err != nil {
			return nil, err
		}
	}
	lines, err := toolexec.Output(ctx, k.exec, k.binary, "-i", path)
	if err != nil {
		return nil, fmt.Errorf("kumiko: %w", err)
	}
	return ParseKumiko([]byte(strings.Join(lines, "\n")))
}

// ParseKumiko decodes kumiko's JSON report and returns the panels of the
// first image. Panels are given as [x, y, width, height].
func ParseKumiko(data []byte) ([]Panel, error) {
	var infos []kumikoInfo
	if err := json.Unmarshal(data, &infos); err != nil {
		return nil, fmt.Errorf("parse kumiko output: %w", err)
	}
	if len(infos) == 0 {
		return nil, nil
	}
	out := make([]Panel, 0, len(infos[0].Panels))
	for i, p := range infos[0].Panels {
		if len(p) != 4 {
			return nil, fmt.Errorf("parse kumiko output: panel %d has %d values", i, len(p))
		}
		out = append(out, Panel{Rect: image.Rect(p[0], p[1], p[0]+p[2], p[1]+p[3])})
	}
	return out, nil
}

// Order sorts panels into reading order: rows from top to bottom, and
// within a row left to right, or right to left when direction is "RTL".
// A panel joins the current row when its vertical centre lies inside it.
func Order(panels []Panel, direction string) []Panel {
	sorted := slices.Clone(panels)
	slices.SortStableFunc(sorted, func(a, b Panel) int {
		return cmp.Or(cmp.Compare(a.Rect.Min.Y, b.Rect.Min.Y), cmp.Compare(a.Rect.Min.X, b.Rect.Min.X))
	})
	rtl := strings.EqualFold(strings.TrimSpace(direction), "RTL")

	out := make([]Panel, 0, len(sorted))
	for len(sorted) > 0 {
		top, bottom := sorted[0].Rect.Min.Y, sorted[0].Rect.Max.Y
		n := 1
		for n < len(sorted) {
			center := (sorted[n].Rect.Min.Y + sorted[n].Rect.Max.Y) / 2
			if center < top || center >= bottom {
				break
			}
			n++
		}
		row := sorted[:n]
		slices.SortStableFunc(row, func(a, b Panel) int {
			if rtl {
				return cmp.Compare(b.Rect.Max.X, a.Rect.Max.X)
			}
			return cmp.Compare(a.Rect.Min.X, b.Rect.Min.X)
		})
		out = append(out, row...)
		sorted = sorted[n:]
	}
	return out
}

// Filter drops panels whose area is below minArea pixels.
func Filter(panels []Panel, minArea int) []Panel {
	out := make([]Panel, 0, len(panels))
	for _, p := range panels {
		if p.Rect.Dx()*p.Rect.Dy() >= minArea {
			out = append(out, p)
		}
	}
	return out
}

// ToFrames converts panels into four-corner frames.
func ToFrames(panels []Panel) []acbf.Frame {
	frames := make([]acbf.Frame, len(panels))
	for i, p := range panels {
		frames[i] = acbf.Frame{Points: acbf.RectPolygon(p.Rect)}
	}
	return frames
}
