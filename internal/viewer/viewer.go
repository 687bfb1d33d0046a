// Package viewer shows the pages of an open comic in a desktop window with
// optional frame and text-layer overlays.
package viewer

import (
	"context"
	"image"
	"log/slog"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"acbfe/internal/comic"
	"acbfe/internal/logging"
	"acbfe/internal/overlay"
	"acbfe/internal/textlayer"
)

const (
	appID     = "io.github.acbfe"
	noOverlay = "(none)"
)

// Options configures the viewer window.
type Options struct {
	StartPage  int
	Frames     bool
	Lang       string
	FrameColor string
	TextColor  string
	// Render paints text layers instead of outlining them.
	Render     bool
	FontLookup textlayer.FontLookup
}

type viewer struct {
	ctx     context.Context
	session *comic.Session
	opts    Options
	logger  *slog.Logger
	pager   *Pager
	render  *textlayer.Renderer

	window fyne.Window
	image  *canvas.Image
	status *widget.Label
	frames *widget.Check
	lang   *widget.Select
}

// Run opens the window and blocks until it is closed.
func Run(ctx context.Context, s *comic.Session, opts Options) error {
	v := &viewer{
		ctx:     ctx,
		session: s,
		opts:    opts,
		logger:  logging.NewComponentLogger(s.Logger(), "viewer"),
		pager:   NewPager(s.Doc.PageCount(), opts.StartPage),
	}
	if opts.Render {
		v.render = textlayer.New(s.Doc.Stylesheet(), opts.FontLookup)
	}

	a := app.NewWithID(appID)
	v.window = a.NewWindow(s.Doc.Title(opts.Lang))
	v.window.SetContent(v.layout())
	v.window.Resize(fyne.NewSize(900, 1100))
	v.window.Canvas().SetOnTypedKey(v.typedKey)

	go func() {
		<-ctx.Done()
		fyne.Do(v.window.Close)
	}()

	v.show()
	v.window.ShowAndRun()
	return nil
}

func (v *viewer) layout() fyne.CanvasObject {
	v.image = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	v.image.FillMode = canvas.ImageFillContain
	v.image.ScaleMode = canvas.ImageScaleSmooth

	v.status = widget.NewLabel("")
	v.frames = widget.NewCheck("Frames", func(bool) { v.show() })
	v.frames.SetChecked(v.opts.Frames)

	langs := []string{noOverlay}
	for _, layer := range v.session.Doc.MetaData.BookInfo.Languages {
		langs = append(langs, layer.Lang)
	}
	sort.Strings(langs[1:])
	v.lang = widget.NewSelect(langs, func(string) { v.show() })
	if v.opts.Lang != "" {
		v.lang.SetSelected(v.opts.Lang)
	} else {
		v.lang.SetSelected(noOverlay)
	}

	prev := widget.NewButton("<", func() {
		if v.pager.Prev() {
			v.show()
		}
	})
	next := widget.NewButton(">", func() {
		if v.pager.Next() {
			v.show()
		}
	})
	toolbar := container.NewHBox(prev, next, v.status, v.frames, widget.NewLabel("Text layer"), v.lang)
	return container.NewBorder(toolbar, nil, nil, nil, v.image)
}

func (v *viewer) typedKey(ev *fyne.KeyEvent) {
	changed := false
	switch ev.Name {
	case fyne.KeyRight, fyne.KeyPageDown, fyne.KeySpace:
		changed = v.pager.Next()
	case fyne.KeyLeft, fyne.KeyPageUp, fyne.KeyBackspace:
		changed = v.pager.Prev()
	case fyne.KeyHome:
		changed = v.pager.Go(1)
	case fyne.KeyEnd:
		changed = v.pager.Go(v.pager.Count())
	}
	if changed {
		v.show()
	}
}

// show loads and composes the current page off the UI goroutine.
func (v *viewer) show() {
	if v.image == nil || v.frames == nil || v.lang == nil {
		return
	}
	n := v.pager.Current()
	opts := v.overlayOptions()
	v.status.SetText(v.pager.Label())
	go func() {
		img, err := v.compose(n, opts)
		if err != nil {
			logging.WarnWithContext(v.logger, "page preview failed", "viewer_page",
				logging.Int(logging.FieldPage, n),
				logging.Error(err),
			)
			fyne.Do(func() { dialog.ShowError(err, v.window) })
			return
		}
		fyne.Do(func() {
			if v.pager.Current() != n {
				return
			}
			v.image.Image = img
			v.image.Refresh()
		})
	}()
}

func (v *viewer) overlayOptions() overlay.Options {
	fc, tc := overlay.Colors(v.opts.FrameColor, v.opts.TextColor)
	lang := v.lang.Selected
	if lang == noOverlay {
		lang = ""
	}
	return overlay.Options{
		Frames:     v.frames.Checked,
		FrameColor: fc,
		TextLang:   lang,
		TextColor:  tc,
		Renderer:   v.render,
	}
}

func (v *viewer) compose(n int, opts overlay.Options) (image.Image, error) {
	img, _, err := v.session.PageImage(v.ctx, n)
	if err != nil {
		return nil, err
	}
	page, err := v.session.Page(n)
	if err != nil {
		return nil, err
	}
	if !opts.Frames && opts.TextLang == "" {
		return img, nil
	}
	return overlay.Compose(img, page, opts)
}
