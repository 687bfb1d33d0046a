package acbf

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// PageView is a uniform view over the cover and body pages.
type PageView struct {
	Number     int
	Image      *ImageRef
	BgColor    string
	Transition string
	Titles     []LangText
	TextLayers *[]TextLayer
	Frames     *[]Frame
	Jumps      *[]Jump
}

// PageCount returns the number of pages including the cover.
func (d *Document) PageCount() int {
	return len(d.Body.Pages) + 1
}

// PageAt returns page n, where 1 is the cover and 2 the first body page.
func (d *Document) PageAt(n int) (PageView, error) {
	if n < 1 || n > d.PageCount() {
		return PageView{}, fmt.Errorf("page %d out of range 1..%d", n, d.PageCount())
	}
	if n == 1 {
		c := &d.MetaData.BookInfo.Coverpage
		return PageView{
			Number:     1,
			Image:      &c.Image,
			BgColor:    d.Body.BgColor,
			TextLayers: &c.TextLayers,
			Frames:     &c.Frames,
			Jumps:      &c.Jumps,
		}, nil
	}
	p := &d.Body.Pages[n-2]
	bg := p.BgColor
	if bg == "" {
		bg = d.Body.BgColor
	}
	return PageView{
		Number:     n,
		Image:      &p.Image,
		BgColor:    bg,
		Transition: p.Transition,
		Titles:     p.Titles,
		TextLayers: &p.TextLayers,
		Frames:     &p.Frames,
		Jumps:      &p.Jumps,
	}, nil
}

// Title returns the book title in lang, falling back to an untagged title and then the first one.
func (d *Document) Title(lang string) string {
	return pickLang(d.MetaData.BookInfo.Titles, lang)
}

// SetTitle sets the book title for lang, adding it when missing.
func (d *Document) SetTitle(lang, title string) {
	titles := d.MetaData.BookInfo.Titles
	for i := range titles {
		if titles[i].Lang == lang {
			titles[i].Text = title
			return
		}
	}
	d.MetaData.BookInfo.Titles = append(titles, LangText{Lang: lang, Text: title})
}

func pickLang(items []LangText, lang string) string {
	var untagged string
	for _, it := range items {
		if it.Lang == lang {
			return it.Text
		}
		if it.Lang == "" && untagged == "" {
			untagged = it.Text
		}
	}
	if untagged != "" {
		return untagged
	}
	if len(items) > 0 {
		return items[0].Text
	}
	return ""
}

// Annotation returns the annotation text in lang, with the same fallback as Title.
func (d *Document) Annotation(lang string) string {
	var fallback *Annotation
	for i, a := range d.MetaData.BookInfo.Annotations {
		if a.Lang == lang {
			return JoinParagraphs(a.Paragraphs)
		}
		if fallback == nil && (a.Lang == "" || i == 0) {
			fallback = &d.MetaData.BookInfo.Annotations[i]
		}
	}
	if fallback != nil {
		return JoinParagraphs(fallback.Paragraphs)
	}
	return ""
}

// SetAnnotation replaces the annotation for lang with text split into paragraphs.
func (d *Document) SetAnnotation(lang, text string) {
	paras := ParagraphsFromText(text)
	anns := d.MetaData.BookInfo.Annotations
	for i := range anns {
		if anns[i].Lang == lang {
			anns[i].Paragraphs = paras
			return
		}
	}
	d.MetaData.BookInfo.Annotations = append(anns, Annotation{Lang: lang, Paragraphs: paras})
}

// KeywordList splits the keywords element on commas, dropping empty entries.
func (d *Document) KeywordList() []string {
	var out []string
	for _, kw := range strings.Split(d.MetaData.BookInfo.Keywords, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// SetKeywords stores keywords joined by ", ".
func (d *Document) SetKeywords(keywords []string) {
	clean := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			clean = append(clean, kw)
		}
	}
	d.MetaData.BookInfo.Keywords = strings.Join(clean, ", ")
}

// HasFrames reports whether any page, cover included, has frames.
func (d *Document) HasFrames() bool {
	if len(d.MetaData.BookInfo.Coverpage.Frames) > 0 {
		return true
	}
	for _, p := range d.Body.Pages {
		if len(p.Frames) > 0 {
			return true
		}
	}
	return false
}

// Fonts returns the embedded font binaries.
func (d *Document) Fonts() []Binary {
	var out []Binary
	for _, b := range d.Binaries {
		if strings.EqualFold(b.ContentType, "application/font-sfnt") {
			out = append(out, b)
		}
	}
	return out
}

// BinaryByID returns the binary with id.
func (d *Document) BinaryByID(id string) (*Binary, bool) {
	for i := range d.Binaries {
		if d.Binaries[i].ID == id {
			return &d.Binaries[i], true
		}
	}
	return nil, false
}

// RemoveBinary deletes the binary with id and reports whether it existed.
func (d *Document) RemoveBinary(id string) bool {
	for i := range d.Binaries {
		if d.Binaries[i].ID == id {
			d.Binaries = append(d.Binaries[:i], d.Binaries[i+1:]...)
			return true
		}
	}
	return false
}

// AddBinary stores data under id, replacing an existing binary with the same id.
func (d *Document) AddBinary(id, contentType string, data []byte) {
	b := Binary{ID: id, ContentType: contentType}
	b.SetBytes(data)
	if existing, ok := d.BinaryByID(id); ok {
		*existing = b
		return
	}
	d.Binaries = append(d.Binaries, b)
}

// Bytes decodes the base64 payload, ignoring embedded whitespace.
func (b Binary) Bytes() ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, b.Data)
	data, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("decode binary %s: %w", b.ID, err)
	}
	return data, nil
}

// SetBytes stores data base64 encoded.
func (b *Binary) SetBytes(data []byte) {
	b.Data = base64.StdEncoding.EncodeToString(data)
}

// ReferenceText returns the plain text of the reference with id.
func (d *Document) ReferenceText(id string) (string, bool) {
	for _, r := range d.References {
		if r.ID == id {
			return JoinParagraphs(r.Paragraphs), true
		}
	}
	return "", false
}

// ContentsEntry is a table-of-contents line.
type ContentsEntry struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
}

// ContentsTable lists page titles in lang (or untagged), numbering body pages from 2.
func (d *Document) ContentsTable(lang string) []ContentsEntry {
	var out []ContentsEntry
	for i, p := range d.Body.Pages {
		for _, t := range p.Titles {
			if t.Lang == lang || t.Lang == "" {
				out = append(out, ContentsEntry{Title: t.Text, Page: i + 2})
			}
		}
	}
	return out
}

// TextAreas returns the text areas of page n in lang together with the layer background.
func (d *Document) TextAreas(n int, lang string) ([]TextArea, string, error) {
	page, err := d.PageAt(n)
	if err != nil {
		return nil, "", err
	}
	for _, layer := range *page.TextLayers {
		if layer.Lang == lang {
			bg := layer.BgColor
			if bg == "" {
				bg = DefaultLayerColor
			}
			return layer.Areas, bg, nil
		}
	}
	return nil, DefaultLayerColor, nil
}

// Layer returns the text layer of page n in lang, creating it when missing.
func (d *Document) Layer(n int, lang string) (*TextLayer, error) {
	page, err := d.PageAt(n)
	if err != nil {
		return nil, err
	}
	layers := page.TextLayers
	for i := range *layers {
		if (*layers)[i].Lang == lang {
			return &(*layers)[i], nil
		}
	}
	*layers = append(*layers, TextLayer{Lang: lang})
	return &(*layers)[len(*layers)-1], nil
}

// ScalePage multiplies every frame, text-area and jump point of page n by ratio.
func (d *Document) ScalePage(n int, ratio float64) error {
	page, err := d.PageAt(n)
	if err != nil {
		return err
	}
	for i := range *page.Frames {
		(*page.Frames)[i].Points = (*page.Frames)[i].Points.Scale(ratio)
	}
	for i := range *page.Jumps {
		(*page.Jumps)[i].Points = (*page.Jumps)[i].Points.Scale(ratio)
	}
	for i := range *page.TextLayers {
		areas := (*page.TextLayers)[i].Areas
		for j := range areas {
			areas[j].Points = areas[j].Points.Scale(ratio)
		}
	}
	return nil
}

// ShownLanguage reports whether lang is declared and shown.
func (d *Document) ShownLanguage(lang string) bool {
	for _, l := range d.MetaData.BookInfo.Languages {
		if l.Lang == lang && bool(l.Show) {
			return true
		}
	}
	return false
}
