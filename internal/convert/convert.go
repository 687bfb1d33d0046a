package convert

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"runtime"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"acbfe/internal/acbf"
	"acbfe/internal/comic"
	"acbfe/internal/fileutil"
	"acbfe/internal/imaging"
	"acbfe/internal/logging"
	"acbfe/internal/textlayer"
)

// ErrLanguageNotShown reports a text layer request for a language the
// document does not declare as shown.
var ErrLanguageNotShown = errors.New("language layer is not defined in comic book")

// Options selects what a conversion does. Zero values leave the property alone.
type Options struct {
	Format    imaging.Format
	Quality   int
	Geometry  *imaging.Geometry
	Filter    imaging.Filter
	TextLayer string
	Workers   int
	// FontLookup resolves stylesheet families for text layers; nil uses the Go fonts.
	FontLookup textlayer.FontLookup
}

// Active reports whether any page needs to be touched.
func (o Options) Active() bool {
	return o.Format != "" || o.Geometry != nil || o.TextLayer != ""
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("image quality must be an integer between 1 and 100, got %d", o.Quality)
	}
	if o.Format != "" && !imaging.CanEncode(o.Format) {
		return fmt.Errorf("%w: %s", imaging.ErrUnknownFormat, o.Format)
	}
	return nil
}

// Progress reports one converted page.
type Progress struct {
	Index int
	Total int
	In    string
	Out   string
}

func (p Progress) String() string {
	pct := 0
	if p.Total > 0 {
		pct = int(float64(p.Index)/float64(p.Total)*100 + 0.5)
	}
	return fmt.Sprintf("%4d%% %s -> %s", pct, p.In, p.Out)
}

// Result summarises a conversion run.
type Result struct {
	Pages     int `json:"pages"`
	Converted int `json:"converted"`
	Resized   int `json:"resized"`
}

type job struct {
	index  int
	page   *acbf.Page
	number int
}

// Run converts every body page of s. Pages whose image changes path are
// re-pointed and the old file removed. Frames and text areas follow resizes.
func Run(ctx context.Context, s *comic.Session, opts Options, progress func(Progress)) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	doc := s.Doc
	if opts.TextLayer != "" && !doc.ShownLanguage(opts.TextLayer) {
		return Result{}, fmt.Errorf("%w: %s", ErrLanguageNotShown, opts.TextLayer)
	}
	if opts.Filter == "" {
		opts.Filter = imaging.Antialias
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var renderer *textlayer.Renderer
	if opts.TextLayer != "" {
		renderer = textlayer.New(doc.Stylesheet(), opts.FontLookup)
	}
	logger := logging.NewComponentLogger(s.Logger(), "convert")

	total := len(doc.Body.Pages)
	var (
		mu     sync.Mutex
		result = Result{Pages: total}
		done   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range doc.Body.Pages {
		j := job{index: i, page: &doc.Body.Pages[i], number: i + 2}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			in := j.page.Image.Href
			changed, resized, err := convertPage(gctx, s, j, opts, renderer)
			if err != nil {
				return fmt.Errorf("page %d (%s): %w", j.number, in, err)
			}
			mu.Lock()
			done++
			if changed {
				result.Converted++
			}
			if resized {
				result.Resized++
			}
			p := Progress{Index: done, Total: total, In: in, Out: j.page.Image.Href}
			if progress != nil {
				progress(p)
			}
			mu.Unlock()
			logger.Debug("page processed",
				logging.Int(logging.FieldPage, j.number),
				logging.String("in", p.In),
				logging.String("out", p.Out),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	if opts.TextLayer != "" {
		// The rendered language is now part of the artwork.
		for i := range doc.MetaData.BookInfo.Languages {
			if !doc.MetaData.BookInfo.Languages[i].Show {
				doc.MetaData.BookInfo.Languages[i].Lang = opts.TextLayer
			}
		}
	}
	if result.Converted > 0 || opts.TextLayer != "" {
		s.MarkModified()
	}
	return result, nil
}

func convertPage(ctx context.Context, s *comic.Session, j job, opts Options, renderer *textlayer.Renderer) (bool, bool, error) {
	inPath, local, err := s.PageImagePath(j.number)
	if err != nil || !local {
		return false, false, err
	}
	href := acbf.ParseImageURI(j.page.Image.Href).FilePath

	format := opts.Format
	if format == "" {
		if format, err = imaging.FormatOf(href); err != nil {
			return false, false, err
		}
	}
	outHref, outPath := href, inPath
	if opts.Format != "" {
		outHref = fileutil.ReplaceExt(href, format.Ext())
		outPath = fileutil.ReplaceExt(inPath, format.Ext())
	}
	pathChanged := outHref != href
	if !pathChanged && opts.Geometry == nil && opts.TextLayer == "" {
		return false, false, nil
	}

	img, err := imaging.Open(inPath)
	if err != nil {
		return false, false, err
	}
	if renderer != nil {
		areas, layerBg, err := s.Doc.TextAreas(j.number, opts.TextLayer)
		if err != nil {
			return false, false, err
		}
		rendered, err := renderer.RenderPage(img, areas, layerBg)
		if err != nil {
			return false, false, err
		}
		img = rendered
	}

	resized := false
	if opts.Geometry != nil {
		if ratio, ok := opts.Geometry.Ratio(img.Bounds().Size()); ok {
			img = imaging.Resize(img, imaging.Scaled(img.Bounds().Size(), ratio), opts.Filter)
			if err := s.Doc.ScalePage(j.number, ratio); err != nil {
				return false, false, err
			}
			resized = true
		}
	}
	if err := ctx.Err(); err != nil {
		return false, false, err
	}

	if err := save(outPath, img, format, opts.Quality); err != nil {
		return false, false, err
	}
	if pathChanged {
		if err := os.Remove(inPath); err != nil && !os.IsNotExist(err) {
			return false, false, fmt.Errorf("remove original: %w", err)
		}
		j.page.Image.Href = outHref
	}
	return true, resized, nil
}

func save(outPath string, img image.Image, format imaging.Format, quality int) error {
	tmp := outPath + ".tmp"
	if err := imaging.Save(tmp, img, format, quality); err != nil {
		return err
	}
	if err := os.Rename(tmp, outPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace image: %w", err)
	}
	return nil
}

// Report formats the size change as "File size: X MB -> Y MB -> Z %".
func Report(inputBytes, outputBytes int64) string {
	in := float64(inputBytes) / 1024 / 1024
	out := float64(outputBytes) / 1024 / 1024
	ratio := 0.0
	if inputBytes > 0 {
		ratio = float64(outputBytes) / float64(inputBytes) * 100
	}
	return fmt.Sprintf("File size: %s MB -> %s MB -> %s %%",
		humanize.FtoaWithDigits(in, 2), humanize.FtoaWithDigits(out, 2), humanize.FtoaWithDigits(ratio, 1))
}

// HumanReport renders the same comparison with humanized units.
func HumanReport(inputBytes, outputBytes int64) string {
	return fmt.Sprintf("%s -> %s", humanize.IBytes(uint64(max(inputBytes, 0))), humanize.IBytes(uint64(max(outputBytes, 0))))
}
