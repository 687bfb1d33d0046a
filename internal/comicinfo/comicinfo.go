// Package comicinfo imports ComicRack ComicInfo.xml metadata into an ACBF document.
package comicinfo

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"

	"acbfe/internal/acbf"
	"acbfe/internal/textutil"
)

// FileName is the conventional name of the metadata file inside an archive.
const FileName = "ComicInfo.xml"

// ComicInfo holds the ComicInfo.xml fields the importer understands.
type ComicInfo struct {
	XMLName     xml.Name `xml:"ComicInfo"`
	Title       string   `xml:"Title"`
	Series      *string  `xml:"Series"`
	Number      *string  `xml:"Number"`
	Volume      string   `xml:"Volume"`
	Summary     string   `xml:"Summary"`
	Year        string   `xml:"Year"`
	Month       string   `xml:"Month"`
	Day         string   `xml:"Day"`
	Writer      string   `xml:"Writer"`
	Penciller   string   `xml:"Penciller"`
	Inker       string   `xml:"Inker"`
	Colorist    string   `xml:"Colorist"`
	CoverArtist string   `xml:"CoverArtist"`
	Adapter     string   `xml:"Adapter"`
	Letterer    string   `xml:"Letterer"`
	Publisher   string   `xml:"Publisher"`
	Genre       string   `xml:"Genre"`
	Characters  string   `xml:"Characters"`
	Web         string   `xml:"Web"`
	LanguageISO string   `xml:"LanguageISO"`
	AgeRating   string   `xml:"AgeRating"`
	Manga       string   `xml:"Manga"`
}

// Parse decodes ComicInfo.xml.
func Parse(r io.Reader) (*ComicInfo, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	var info ComicInfo
	if err := dec.Decode(&info); err != nil {
		return nil, fmt.Errorf("decode comicinfo: %w", err)
	}
	return &info, nil
}

// Load reads ComicInfo.xml from path.
func Load(path string) (*ComicInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open comicinfo: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// creators lists the author fields in the order they are imported.
func (c *ComicInfo) creators() []struct{ activity, name string } {
	return []struct{ activity, name string }{
		{"Writer", c.Writer},
		{"Penciller", c.Penciller},
		{"Inker", c.Inker},
		{"Colorist", c.Colorist},
		{"CoverArtist", c.CoverArtist},
		{"Adapter", c.Adapter},
		{"Letterer", c.Letterer},
	}
}

// Apply copies the metadata into doc.
func (c *ComicInfo) Apply(doc *acbf.Document) {
	info := &doc.MetaData.BookInfo

	for _, cr := range c.creators() {
		for _, name := range splitList(cr.name) {
			first, middle, last := textutil.SplitName(name)
			info.Authors = append(info.Authors, acbf.Author{
				Activity:   cr.activity,
				FirstName:  first,
				MiddleName: middle,
				LastName:   last,
			})
		}
	}

	if title := strings.TrimSpace(c.Title); title != "" {
		info.Titles = append(info.Titles, acbf.LangText{Text: title})
	}
	for _, g := range splitList(c.Genre) {
		if name, ok := acbf.CanonicalGenre(g); ok {
			info.Genres = append(info.Genres, acbf.Genre{Name: name})
		}
	}
	info.Characters = append(info.Characters, splitList(c.Characters)...)

	if c.Series != nil && strings.TrimSpace(*c.Series) != "" {
		number := "0"
		if c.Number != nil && strings.TrimSpace(*c.Number) != "" {
			number = strings.TrimSpace(*c.Number)
		}
		info.Sequences = append(info.Sequences, acbf.Sequence{
			Title:  strings.TrimSpace(*c.Series),
			Volume: strings.TrimSpace(c.Volume),
			Number: number,
		})
	}

	if c.Summary != "" {
		var paras []acbf.Paragraph
		for _, line := range strings.Split(c.Summary, "\n") {
			if strings.TrimSpace(line) != "" {
				paras = append(paras, acbf.TextParagraph(strings.TrimSpace(line)))
			}
		}
		if len(paras) > 0 {
			info.Annotations = append(info.Annotations, acbf.Annotation{Paragraphs: paras})
		}
	}

	if lang := strings.TrimSpace(c.LanguageISO); lang != "" {
		info.Languages = append(info.Languages, acbf.LanguageLayer{Lang: lang, Show: false})
	}

	if c.Year != "" && c.Month != "" && c.Day != "" {
		doc.MetaData.PublishInfo.PublishDate = &acbf.Date{
			Value: fmt.Sprintf("%s-%s-%s", c.Year, c.Month, c.Day),
			Text:  c.Year,
		}
	}
	if pub := strings.TrimSpace(c.Publisher); pub != "" {
		doc.MetaData.PublishInfo.Publisher = pub
	}

	if web := strings.TrimSpace(c.Web); web != "" {
		info.DatabaseRefs = append(info.DatabaseRefs, acbf.DatabaseRef{DBName: "web", Type: "URL", Value: web})
	}
	if rating := strings.TrimSpace(c.AgeRating); rating != "" && !strings.EqualFold(rating, "Unknown") {
		info.ContentRatings = append(info.ContentRatings, acbf.ContentRating{Type: "ComicInfo", Value: rating})
	}
	if strings.EqualFold(strings.TrimSpace(c.Manga), "YesAndRightToLeft") {
		info.ReadingDirection = "RTL"
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
