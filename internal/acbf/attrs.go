package acbf

import (
	"encoding/xml"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// Polygon is a list of points serialised as "x,y x,y ...".
type Polygon []image.Point

// ParsePolygon parses the points attribute. Fractional coordinates are rounded.
func ParsePolygon(s string) (Polygon, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	points := make(Polygon, 0, len(fields))
	for _, field := range fields {
		xs, ys, ok := strings.Cut(field, ",")
		if !ok {
			return nil, fmt.Errorf("parse point %q: missing comma", field)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("parse point %q: %w", field, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("parse point %q: %w", field, err)
		}
		points = append(points, image.Pt(int(math.Round(x)), int(math.Round(y))))
	}
	return points, nil
}

// RectPolygon returns the four corners of r, clockwise from the top-left.
func RectPolygon(r image.Rectangle) Polygon {
	return Polygon{
		r.Min,
		image.Pt(r.Max.X, r.Min.Y),
		r.Max,
		image.Pt(r.Min.X, r.Max.Y),
	}
}

func (p Polygon) String() string {
	var b strings.Builder
	for i, pt := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(pt.X))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(pt.Y))
	}
	return b.String()
}

// Bounds returns the smallest rectangle containing every point.
func (p Polygon) Bounds() image.Rectangle {
	if len(p) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: p[0], Max: p[0]}
	for _, pt := range p[1:] {
		r.Min.X = min(r.Min.X, pt.X)
		r.Min.Y = min(r.Min.Y, pt.Y)
		r.Max.X = max(r.Max.X, pt.X)
		r.Max.Y = max(r.Max.Y, pt.Y)
	}
	return r
}

// Scale multiplies every coordinate by ratio, rounding to the nearest pixel.
func (p Polygon) Scale(ratio float64) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = image.Pt(int(math.Round(float64(pt.X)*ratio)), int(math.Round(float64(pt.Y)*ratio)))
	}
	return out
}

func (p Polygon) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	return xml.Attr{Name: name, Value: p.String()}, nil
}

func (p *Polygon) UnmarshalXMLAttr(attr xml.Attr) error {
	parsed, err := ParsePolygon(attr.Value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Bool is a boolean attribute read case-insensitively and written as "true".
// False values are omitted.
type Bool bool

func (b Bool) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	if !b {
		return xml.Attr{}, nil
	}
	return xml.Attr{Name: name, Value: "true"}, nil
}

func (b *Bool) UnmarshalXMLAttr(attr xml.Attr) error {
	*b = Bool(strings.EqualFold(strings.TrimSpace(attr.Value), "true"))
	return nil
}

// ShowFlag is the show attribute of a language layer. Anything other than
// "false" (any casing) counts as shown. It is written as "True" or "False".
type ShowFlag bool

func (s ShowFlag) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	value := "False"
	if s {
		value = "True"
	}
	return xml.Attr{Name: name, Value: value}, nil
}

func (s *ShowFlag) UnmarshalXMLAttr(attr xml.Attr) error {
	*s = ShowFlag(!strings.EqualFold(strings.TrimSpace(attr.Value), "false"))
	return nil
}
