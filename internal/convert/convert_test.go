package convert_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"acbfe/internal/acbf"
	"acbfe/internal/comic"
	"acbfe/internal/convert"
	"acbfe/internal/fileutil"
	"acbfe/internal/imaging"
	"acbfe/internal/logging"
	"acbfe/internal/testsupport"
)

func openComic(t *testing.T) *comic.Session {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	src := filepath.Join(t.TempDir(), "book.cbz")
	testsupport.WriteCBZ(t, src, map[string][]byte{
		"001.png": testsupport.ImageBytes(t, 40, 20, color.White),
		"002.png": testsupport.ImageBytes(t, 40, 20, color.Black),
		"003.png": testsupport.ImageBytes(t, 40, 20, color.Gray{Y: 128}),
	})
	s, err := comic.Open(context.Background(), src, comic.Options{Config: cfg, Logger: logging.NewNop()})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRunConvertsAndResizesBodyPages(t *testing.T) {
	s := openComic(t)
	if err := s.SetFrames(2, []acbf.Frame{{Points: acbf.RectPolygon(image.Rect(0, 0, 40, 20))}}); err != nil {
		t.Fatalf("SetFrames: %v", err)
	}
	geo, err := imaging.ParseGeometry("20x20>")
	if err != nil {
		t.Fatalf("ParseGeometry: %v", err)
	}

	var (
		mu   sync.Mutex
		seen []convert.Progress
	)
	res, err := convert.Run(context.Background(), s, convert.Options{Format: imaging.JPEG, Quality: 90, Geometry: &geo, Workers: 2}, func(p convert.Progress) {
		mu.Lock()
		seen = append(seen, p)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Pages != 2 || res.Converted != 2 || res.Resized != 2 {
		t.Fatalf("result = %+v", res)
	}
	if len(seen) != 2 || seen[len(seen)-1].Index != 2 || seen[0].Total != 2 {
		t.Fatalf("progress = %+v", seen)
	}

	for i, want := range []string{"002.jpg", "003.jpg"} {
		if got := s.Doc.Body.Pages[i].Image.Href; got != want {
			t.Fatalf("page %d href = %q, want %q", i+2, got, want)
		}
		size, err := imaging.Size(filepath.Join(s.BaseDir, want))
		if err != nil {
			t.Fatalf("Size(%s): %v", want, err)
		}
		if size != image.Pt(20, 10) {
			t.Fatalf("%s size = %v, want 20x10", want, size)
		}
		old := strings.TrimSuffix(want, ".jpg") + ".png"
		if _, err := os.Stat(filepath.Join(s.BaseDir, old)); !os.IsNotExist(err) {
			t.Fatalf("original %s still present: %v", old, err)
		}
	}
	if got := s.Doc.MetaData.BookInfo.Coverpage.Image.Href; got != "001.png" {
		t.Fatalf("cover touched: %q", got)
	}
	if got := s.Doc.Body.Pages[0].Frames[0].Points.String(); got != "0,0 20,0 20,10 0,10" {
		t.Fatalf("frame not scaled: %s", got)
	}
	if !s.Modified() {
		t.Fatalf("session not marked modified")
	}
}

func TestRunRefusesImagesOutsideWorkspace(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	victim := filepath.Join(t.TempDir(), "victim.png")
	testsupport.WriteImage(t, victim, 8, 8, color.Black)

	doc := acbf.New()
	doc.MetaData.BookInfo.Coverpage.Image.Href = "001.png"
	href := strings.Repeat("../", 32) + strings.TrimPrefix(filepath.ToSlash(victim), "/")
	doc.Body.Pages = []acbf.Page{{Image: acbf.ImageRef{Href: href}}}
	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("encode document: %v", err)
	}
	src := filepath.Join(t.TempDir(), "book.cbz")
	testsupport.WriteCBZ(t, src, map[string][]byte{
		"book.acbf": data,
		"001.png":   testsupport.ImageBytes(t, 8, 8, color.White),
	})
	s, err := comic.Open(context.Background(), src, comic.Options{Config: cfg, Logger: logging.NewNop()})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	_, err = convert.Run(context.Background(), s, convert.Options{Format: imaging.JPEG, Workers: 1}, nil)
	if !errors.Is(err, fileutil.ErrOutsideRoot) {
		t.Fatalf("Run error = %v, want ErrOutsideRoot", err)
	}
	if _, err := os.Stat(victim); err != nil {
		t.Fatalf("original outside the workspace was removed: %v", err)
	}
	if _, err := os.Stat(fileutil.ReplaceExt(victim, ".jpg")); !os.IsNotExist(err) {
		t.Fatalf("converted image written outside the workspace: %v", err)
	}
}

func TestRunSkipsUnchangedPages(t *testing.T) {
	s := openComic(t)
	res, err := convert.Run(context.Background(), s, convert.Options{Format: imaging.PNG}, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Converted != 0 {
		t.Fatalf("converted %d pages with no change requested", res.Converted)
	}
	if s.Doc.Body.Pages[0].Image.Href != "002.png" {
		t.Fatalf("href changed: %q", s.Doc.Body.Pages[0].Image.Href)
	}
}

func TestRunRendersTextLayer(t *testing.T) {
	s := openComic(t)
	s.Doc.MetaData.BookInfo.Languages = []acbf.LanguageLayer{
		{Lang: "en", Show: true},
		{Lang: "??", Show: false},
	}
	if _, err := s.SetTextArea(2, "en", -1, comic.TextAreaInput{
		Points:  acbf.RectPolygon(image.Rect(0, 0, 40, 20)),
		Text:    "Hi",
		BgColor: "#ff0000",
	}); err != nil {
		t.Fatalf("SetTextArea: %v", err)
	}

	if _, err := convert.Run(context.Background(), s, convert.Options{TextLayer: "fr"}, nil); !errors.Is(err, convert.ErrLanguageNotShown) {
		t.Fatalf("expected ErrLanguageNotShown, got %v", err)
	}
	if _, err := convert.Run(context.Background(), s, convert.Options{TextLayer: "en", Workers: 1}, nil); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	img, err := imaging.Open(filepath.Join(s.BaseDir, "002.png"))
	if err != nil {
		t.Fatalf("open rendered page: %v", err)
	}
	if r, g, b, _ := img.At(1, 1).RGBA(); r>>8 != 0xff || g>>8 != 0 || b>>8 != 0 {
		t.Fatalf("text area not filled, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
	if langs := s.Doc.MetaData.BookInfo.Languages; langs[1].Lang != "en" {
		t.Fatalf("hidden language not renamed: %+v", langs)
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := (convert.Options{Quality: 101}).Validate(); err == nil {
		t.Fatalf("expected quality error")
	}
	if err := (convert.Options{Format: "XCF"}).Validate(); !errors.Is(err, imaging.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if (convert.Options{}).Active() {
		t.Fatalf("zero options should be inactive")
	}
}

func TestProgressAndReport(t *testing.T) {
	p := convert.Progress{Index: 1, Total: 4, In: "a.png", Out: "a.jpg"}
	if got := p.String(); got != "  25% a.png -> a.jpg" {
		t.Fatalf("Progress.String() = %q", got)
	}
	got := convert.Report(3*1024*1024, 1536*1024)
	if got != "File size: 3 MB -> 1.5 MB -> 50 %" {
		t.Fatalf("Report = %q", got)
	}
	if got := convert.Report(0, 10); !strings.HasSuffix(got, "-> 0 %") {
		t.Fatalf("Report with empty input = %q", got)
	}
}
