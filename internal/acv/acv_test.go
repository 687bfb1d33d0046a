package acv

import (
	"image"
	"strings"
	"testing"

	"acbfe/internal/acbf"
)

const fixture = `<comic title="Space" bgcolor="#202020">
  <images namePattern="page_@index" indexPattern="000"/>
  <screen index="1">
    <frame relativeArea="0 0 0.5 0.5" bgcolor="#ffffff"/>
    <frame relativeArea="0.5 0.5 0.5 0.5"/>
  </screen>
</comic>`

func TestFileName(t *testing.T) {
	c := &Comic{Images: Images{NamePattern: "img@index", IndexPattern: "0000"}}
	if got := c.FileName(7); got != "img0007" {
		t.Fatalf("FileName = %q", got)
	}
}

func TestFrameRectTruncates(t *testing.T) {
	r, err := Frame{RelativeArea: "0.1 0.1 0.333 0.5"}.Rect(image.Pt(100, 201))
	if err != nil {
		t.Fatalf("Rect returned error: %v", err)
	}
	if r != image.Rect(10, 20, 43, 120) {
		t.Fatalf("Rect = %v", r)
	}
	if _, err := (Frame{RelativeArea: "0 0 1"}).Rect(image.Pt(1, 1)); err == nil {
		t.Fatal("expected error for short relative area")
	}
}

func TestApply(t *testing.T) {
	c, err := Parse(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	doc := acbf.New()
	doc.MetaData.BookInfo.Coverpage.Image.Href = "page_000.jpg"
	doc.Body.Pages = []acbf.Page{{Image: acbf.ImageRef{Href: "page_001.jpg"}}}

	err = c.Apply(doc, func(href string) (image.Point, error) {
		return image.Pt(200, 400), nil
	})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if doc.Body.BgColor != "#202020" || doc.Title("") != "Space" {
		t.Fatalf("bgcolor/title = %q / %q", doc.Body.BgColor, doc.Title(""))
	}
	frames := doc.Body.Pages[0].Frames
	if len(frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(frames))
	}
	if got := frames[0].Points.String(); got != "0,0 100,0 100,200 0,200" {
		t.Fatalf("frame 0 = %q", got)
	}
	if frames[0].BgColor != "#ffffff" || frames[1].BgColor != "" {
		t.Fatalf("frame colours = %q %q", frames[0].BgColor, frames[1].BgColor)
	}
}

func TestApplyMissingPage(t *testing.T) {
	c := &Comic{Images: Images{NamePattern: "p@index", IndexPattern: "0"}, Screens: []Screen{{Index: 9}}}
	if err := c.Apply(acbf.New(), nil); err == nil {
		t.Fatal("expected error for unmatched screen")
	}
}
