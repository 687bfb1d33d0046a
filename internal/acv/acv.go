// Package acv imports the frame layout of ACV comic.xml files.
package acv

import (
	"encoding/xml"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"acbfe/internal/acbf"
)

// FileName is the name of the ACV descriptor at the archive root.
const FileName = "comic.xml"

// Comic is an ACV comic.xml document.
type Comic struct {
	XMLName xml.Name `xml:"comic"`
	BgColor string   `xml:"bgcolor,attr"`
	Title   string   `xml:"title,attr"`
	Images  Images   `xml:"images"`
	Screens []Screen `xml:"screen"`
}

// Images describes how screen indexes map onto image file names.
type Images struct {
	NamePattern  string `xml:"namePattern,attr"`
	IndexPattern string `xml:"indexPattern,attr"`
}

// Screen is one page with its frames.
type Screen struct {
	Index  int     `xml:"index,attr"`
	Frames []Frame `xml:"frame"`
}

// Frame is a panel with a relative area "x y w h" in the 0..1 range.
type Frame struct {
	RelativeArea string `xml:"relativeArea,attr"`
	BgColor      string `xml:"bgcolor,attr"`
}

// Parse decodes comic.xml.
func Parse(r io.Reader) (*Comic, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	var c Comic
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode acv: %w", err)
	}
	return &c, nil
}

// Load reads comic.xml from path.
func Load(p string) (*Comic, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open acv: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// FileName returns the image base name (without extension) for a screen
// index: "@index" in the name pattern is replaced with index zero-padded to
// the width of the index pattern.
func (c *Comic) FileName(index int) string {
	width := len(c.Images.IndexPattern)
	num := fmt.Sprintf("%0*d", width, index)
	return strings.ReplaceAll(c.Images.NamePattern, "@index", num)
}

// Rect converts the relative area into pixel corners for an image of size.
// Coordinates are truncated as in the ACV reader.
func (f Frame) Rect(size image.Point) (image.Rectangle, error) {
	fields := strings.Fields(f.RelativeArea)
	if len(fields) != 4 {
		return image.Rectangle{}, fmt.Errorf("relative area %q: want 4 values", f.RelativeArea)
	}
	var v [4]float64
	for i, field := range fields {
		n, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("relative area %q: %w", f.RelativeArea, err)
		}
		v[i] = n
	}
	w, h := float64(size.X), float64(size.Y)
	return image.Rect(int(w*v[0]), int(h*v[1]), int(w*(v[0]+v[2])), int(h*(v[1]+v[3]))), nil
}

// Polygon returns the frame as four clockwise corners.
func (f Frame) Polygon(size image.Point) (acbf.Polygon, error) {
	r, err := f.Rect(size)
	if err != nil {
		return nil, err
	}
	return acbf.RectPolygon(r), nil
}

// SizeFunc reports the pixel size of the image behind href.
type SizeFunc func(href string) (image.Point, error)

// Apply copies the body colour, the title and every screen's frames into doc.
// Screens are matched to pages by image base name.
func (c *Comic) Apply(doc *acbf.Document, sizeOf SizeFunc) error {
	if c.BgColor != "" {
		doc.Body.BgColor = c.BgColor
	}
	if c.Title != "" {
		doc.MetaData.BookInfo.Titles = append(doc.MetaData.BookInfo.Titles, acbf.LangText{Text: c.Title})
	}

	byName := make(map[string]int, doc.PageCount())
	for n := 1; n <= doc.PageCount(); n++ {
		page, _ := doc.PageAt(n)
		byName[stem(page.Image.Href)] = n
	}

	for _, screen := range c.Screens {
		name := c.FileName(screen.Index)
		n, ok := byName[name]
		if !ok {
			return fmt.Errorf("acv screen %d: no page image named %q", screen.Index, name)
		}
		page, _ := doc.PageAt(n)
		size, err := sizeOf(page.Image.Href)
		if err != nil {
			return fmt.Errorf("acv screen %d: %w", screen.Index, err)
		}
		for _, fr := range screen.Frames {
			poly, err := fr.Polygon(size)
			if err != nil {
				return fmt.Errorf("acv screen %d: %w", screen.Index, err)
			}
			*page.Frames = append(*page.Frames, acbf.Frame{Points: poly, BgColor: fr.BgColor})
		}
	}
	return nil
}

func stem(href string) string {
	base := path.Base(href)
	return strings.TrimSuffix(base, path.Ext(base))
}
