package comic

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"acbfe/internal/acbf"
	"acbfe/internal/fileutil"
	"acbfe/internal/logging"
)

func (s *Session) checkPage(n int) error {
	if n < 1 || n > s.Doc.PageCount() {
		return fmt.Errorf("%w: %d not in 1..%d", ErrPageOutOfRange, n, s.Doc.PageCount())
	}
	return nil
}

func (s *Session) bodyPage(n int) (*acbf.Page, error) {
	if err := s.checkPage(n); err != nil {
		return nil, err
	}
	if n == 1 {
		return nil, ErrCoverPage
	}
	return &s.Doc.Body.Pages[n-2], nil
}

// Page returns a view of page n (1 is the cover).
func (s *Session) Page(n int) (acbf.PageView, error) {
	if err := s.checkPage(n); err != nil {
		return acbf.PageView{}, err
	}
	return s.Doc.PageAt(n)
}

// DeletePage removes body page n together with its image file or embedded binary.
func (s *Session) DeletePage(n int) error {
	page, err := s.bodyPage(n)
	if err != nil {
		return err
	}
	href := page.Image.Href
	uri := acbf.ParseImageURI(href)
	// Images next to a bare .acbf file belong to the user and are kept.
	var imagePath string
	if uri.Kind == acbf.URILocal && s.fromArchive {
		if imagePath, err = s.containedPath(href); err != nil {
			return err
		}
	}
	s.Doc.Body.Pages = append(s.Doc.Body.Pages[:n-2], s.Doc.Body.Pages[n-1:]...)
	s.modified = true

	if s.hrefInUse(href) {
		return nil
	}
	switch {
	case uri.Kind == acbf.URIEmbedded:
		s.Doc.RemoveBinary(uri.FilePath)
	case imagePath != "":
		if err := os.Remove(imagePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove page image: %w", err)
		}
	}
	s.logger.Info("page deleted", logging.Int(logging.FieldPage, n), logging.String("image", href))
	return nil
}

func (s *Session) hrefInUse(href string) bool {
	if s.Doc.MetaData.BookInfo.Coverpage.Image.Href == href {
		return true
	}
	for _, p := range s.Doc.Body.Pages {
		if p.Image.Href == href {
			return true
		}
	}
	return false
}

// SetCover uses the image of page n as the cover image.
func (s *Session) SetCover(n int) error {
	page, err := s.bodyPage(n)
	if err != nil {
		return err
	}
	s.Doc.MetaData.BookInfo.Coverpage.Image.Href = page.Image.Href
	s.modified = true
	return nil
}

// MovePage moves body page from to position to; later pages shift.
func (s *Session) MovePage(from, to int) error {
	if _, err := s.bodyPage(from); err != nil {
		return err
	}
	if _, err := s.bodyPage(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	pages := s.Doc.Body.Pages
	moved := pages[from-2]
	pages = append(pages[:from-2], pages[from-1:]...)
	idx := to - 2
	pages = append(pages[:idx], append([]acbf.Page{moved}, pages[idx:]...)...)
	s.Doc.Body.Pages = pages
	s.modified = true
	return nil
}

// AddPage copies imagePath into the book directory and appends it as the last page.
// It returns the new page number.
func (s *Session) AddPage(imagePath string) (int, error) {
	if !acbf.IsImageName(imagePath) {
		return 0, fmt.Errorf("add page: %s is not a supported image", filepath.Base(imagePath))
	}
	name := uniqueName(s.BaseDir, filepath.Base(imagePath))
	dst := filepath.Join(s.BaseDir, name)
	if abs, _ := filepath.Abs(imagePath); abs != dst {
		if err := fileutil.CopyFile(imagePath, dst); err != nil {
			return 0, fmt.Errorf("add page: %w", err)
		}
	}
	s.Doc.Body.Pages = append(s.Doc.Body.Pages, acbf.Page{Image: acbf.ImageRef{Href: name}})
	s.modified = true
	return s.Doc.PageCount(), nil
}

func uniqueName(dir, name string) string {
	if !fileutil.Exists(filepath.Join(dir, name)) {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if !fileutil.Exists(filepath.Join(dir, candidate)) {
			return candidate
		}
	}
}

// SetPageBgColor sets page n's background. A colour equal to the body
// background is not written.
func (s *Session) SetPageBgColor(n int, color string) error {
	page, err := s.bodyPage(n)
	if err != nil {
		return err
	}
	color = strings.TrimSpace(color)
	if strings.EqualFold(color, s.Doc.Body.BgColor) {
		color = ""
	}
	page.BgColor = color
	s.modified = true
	return nil
}

// SetPageTransition sets the transition shown when entering page n.
// Labels such as "Scroll Right" are stored as "scroll_right".
func (s *Session) SetPageTransition(n int, label string) error {
	page, err := s.bodyPage(n)
	if err != nil {
		return err
	}
	value := acbf.TransitionValue(label)
	if value != "" && !acbf.IsTransition(value) {
		return fmt.Errorf("unknown transition %q", label)
	}
	page.Transition = value
	s.modified = true
	return nil
}

// SetPageTitle sets the table-of-contents title of page n in lang; an empty
// title removes it.
func (s *Session) SetPageTitle(n int, lang, title string) error {
	page, err := s.bodyPage(n)
	if err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	kept := page.Titles[:0]
	replaced := false
	for _, t := range page.Titles {
		if t.Lang == lang {
			if title != "" && !replaced {
				t.Text = title
				kept = append(kept, t)
				replaced = true
			}
			continue
		}
		kept = append(kept, t)
	}
	if title != "" && !replaced {
		kept = append(kept, acbf.LangText{Lang: lang, Text: title})
	}
	page.Titles = kept
	s.modified = true
	return nil
}

// TextAreaInput describes a text area as edited by the user.
type TextAreaInput struct {
	Points      acbf.Polygon
	Text        string
	BgColor     string
	Rotation    int
	Type        string
	Inverted    bool
	Transparent bool
}

func (in TextAreaInput) area() acbf.TextArea {
	rotation := ((in.Rotation % 360) + 360) % 360
	kind := strings.ToLower(strings.TrimSpace(in.Type))
	if kind == "speech" {
		kind = ""
	}
	return acbf.TextArea{
		Points:      in.Points,
		BgColor:     strings.TrimSpace(in.BgColor),
		Rotation:    rotation,
		Type:        kind,
		Inverted:    acbf.Bool(in.Inverted),
		Transparent: acbf.Bool(in.Transparent),
		Paragraphs:  acbf.ParagraphsFromText(in.Text),
	}
}

// SetTextArea replaces text area index of page n in lang, or appends it when
// index is negative. It returns the index the area was stored at.
func (s *Session) SetTextArea(n int, lang string, index int, in TextAreaInput) (int, error) {
	if err := s.checkPage(n); err != nil {
		return 0, err
	}
	if len(in.Points) < 3 {
		return 0, fmt.Errorf("text area needs at least 3 points, got %d", len(in.Points))
	}
	if in.Type != "" && !acbf.IsTextAreaType(strings.ToLower(in.Type)) {
		return 0, fmt.Errorf("unknown text area type %q", in.Type)
	}
	layer, err := s.Doc.Layer(n, lang)
	if err != nil {
		return 0, err
	}
	area := in.area()
	switch {
	case index < 0:
		layer.Areas = append(layer.Areas, area)
		index = len(layer.Areas) - 1
	case index < len(layer.Areas):
		layer.Areas[index] = area
	default:
		return 0, fmt.Errorf("text area %d out of range 0..%d", index, len(layer.Areas)-1)
	}
	s.modified = true
	return index, nil
}

// RemoveTextArea deletes text area index of page n in lang.
func (s *Session) RemoveTextArea(n int, lang string, index int) error {
	if err := s.checkPage(n); err != nil {
		return err
	}
	layer, err := s.Doc.Layer(n, lang)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(layer.Areas) {
		return fmt.Errorf("text area %d out of range 0..%d", index, len(layer.Areas)-1)
	}
	layer.Areas = append(layer.Areas[:index], layer.Areas[index+1:]...)
	s.modified = true
	return nil
}

// SetLayerBgColor sets the default text-area background of page n in lang.
func (s *Session) SetLayerBgColor(n int, lang, color string) error {
	if err := s.checkPage(n); err != nil {
		return err
	}
	layer, err := s.Doc.Layer(n, lang)
	if err != nil {
		return err
	}
	layer.BgColor = strings.TrimSpace(color)
	s.modified = true
	return nil
}

// SetFrames replaces the frames of page n.
func (s *Session) SetFrames(n int, frames []acbf.Frame) error {
	page, err := s.Page(n)
	if err != nil {
		return err
	}
	*page.Frames = append([]acbf.Frame(nil), frames...)
	s.modified = true
	return nil
}

// SetJumps replaces the jumps of page n. Jump targets must be existing pages.
func (s *Session) SetJumps(n int, jumps []acbf.Jump) error {
	page, err := s.Page(n)
	if err != nil {
		return err
	}
	for _, j := range jumps {
		if err := s.checkPage(j.Page); err != nil {
			return fmt.Errorf("jump target: %w", err)
		}
	}
	*page.Jumps = append([]acbf.Jump(nil), jumps...)
	s.modified = true
	return nil
}
