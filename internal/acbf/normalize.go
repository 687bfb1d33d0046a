package acbf

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the layout of creation-date and publish-date values.
const DateLayout = "2006-01-02"

// Normalize applies the rules every saved document follows. It is called by
// the session before writing, and is safe to call repeatedly.
func (d *Document) Normalize(now time.Time) {
	info := &d.MetaData.BookInfo
	normalizeAuthors(info.Authors)
	normalizeAuthors(d.MetaData.DocumentInfo.Authors)

	genres := info.Genres[:0]
	for _, g := range info.Genres {
		name, ok := CanonicalGenre(g.Name)
		if !ok {
			continue
		}
		g.Name = name
		if g.Match < 0 {
			g.Match = 0
		}
		genres = append(genres, g)
	}
	info.Genres = genres

	for i := range info.Sequences {
		info.Sequences[i].Volume = strings.TrimSpace(info.Sequences[i].Volume)
		if strings.TrimSpace(info.Sequences[i].Number) == "" {
			info.Sequences[i].Number = "0"
		}
	}

	if len(info.Languages) == 0 {
		info.Languages = []LanguageLayer{{Lang: "en", Show: false}}
	}
	if info.ReadingDirection == "" {
		info.ReadingDirection = "LTR"
	}
	info.ReadingDirection = strings.ToUpper(info.ReadingDirection)
	if kw := d.KeywordList(); len(kw) > 0 {
		info.Keywords = strings.Join(kw, ", ")
	} else {
		info.Keywords = ""
	}

	if pd := d.MetaData.PublishInfo.PublishDate; pd != nil && pd.Value == "" {
		pd.Value = pd.Text
	}

	doc := &d.MetaData.DocumentInfo
	if strings.TrimSpace(doc.ID) == "" {
		if id, err := uuid.NewUUID(); err == nil {
			doc.ID = id.String()
		} else {
			doc.ID = uuid.NewString()
		}
	}
	if doc.CreationDate == nil || (doc.CreationDate.Value == "" && strings.TrimSpace(doc.CreationDate.Text) == "") {
		doc.CreationDate = &Date{Value: now.Format(DateLayout)}
	}
	if doc.CreationDate.Value == "" {
		doc.CreationDate.Value = strings.TrimSpace(doc.CreationDate.Text)
	}
	doc.CreationDate.Text = doc.CreationDate.Value

	for i := range d.Body.Pages {
		p := &d.Body.Pages[i]
		if strings.EqualFold(p.BgColor, d.Body.BgColor) {
			p.BgColor = ""
		}
		if p.Transition != "" {
			p.Transition = TransitionValue(p.Transition)
		}
		normalizeLayers(p.TextLayers)
	}
	normalizeLayers(info.Coverpage.TextLayers)
}

func normalizeAuthors(authors []Author) {
	for i := range authors {
		a := &authors[i]
		if a.Activity == "" {
			a.Activity = "Writer"
		}
		if a.Activity == "Translator" {
			if a.Lang == "" {
				a.Lang = "en"
			}
		} else {
			a.Lang = ""
		}
	}
}

func normalizeLayers(layers []TextLayer) {
	for i := range layers {
		for j := range layers[i].Areas {
			area := &layers[i].Areas[j]
			if area.Rotation < 0 || area.Rotation >= 360 {
				area.Rotation = ((area.Rotation % 360) + 360) % 360
			}
			area.Type = strings.ToLower(area.Type)
			if area.Type == "speech" {
				area.Type = ""
			}
		}
	}
}
