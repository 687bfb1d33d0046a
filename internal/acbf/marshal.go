package acbf

import "encoding/xml"

// Wrapper elements such as <characters> or <data> are written only when
// they have children. encoding/xml would emit them empty for a nil slice
// behind an "a>b" path, so the containers below marshal through mirror
// structs whose wrappers are nil pointers when empty.

type nameList struct {
	Names []string `xml:"name"`
}

type paragraphList struct {
	Paragraphs []string `xml:"p"`
}

type languageList struct {
	Layers []LanguageLayer `xml:"text-layer"`
}

type referenceList struct {
	References []Reference `xml:"reference"`
}

type binaryList struct {
	Binaries []Binary `xml:"binary"`
}

func wrapNames(v []string) *nameList {
	if len(v) == 0 {
		return nil
	}
	return &nameList{Names: v}
}

func wrapParagraphs(v []string) *paragraphList {
	if len(v) == 0 {
		return nil
	}
	return &paragraphList{Paragraphs: v}
}

func (d Document) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	out := struct {
		MetaData   MetaData       `xml:"meta-data"`
		Body       Body           `xml:"body"`
		References *referenceList `xml:"references"`
		Binaries   *binaryList    `xml:"data"`
		Style      *Style         `xml:"style"`
		Extra      []Node         `xml:",any"`
	}{MetaData: d.MetaData, Body: d.Body, Style: d.Style, Extra: d.Extra}
	if len(d.References) > 0 {
		out.References = &referenceList{References: d.References}
	}
	if len(d.Binaries) > 0 {
		out.Binaries = &binaryList{Binaries: d.Binaries}
	}
	return e.EncodeElement(out, start)
}

func (b BookInfo) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	out := struct {
		Authors          []Author        `xml:"author"`
		Titles           []LangText      `xml:"book-title"`
		Genres           []Genre         `xml:"genre"`
		Characters       *nameList       `xml:"characters"`
		Annotations      []Annotation    `xml:"annotation"`
		Keywords         string          `xml:"keywords,omitempty"`
		Coverpage        Coverpage       `xml:"coverpage"`
		Languages        *languageList   `xml:"languages"`
		Sequences        []Sequence      `xml:"sequence"`
		DatabaseRefs     []DatabaseRef   `xml:"databaseref"`
		ContentRatings   []ContentRating `xml:"content-rating"`
		ReadingDirection string          `xml:"reading-direction,omitempty"`
		Extra            []Node          `xml:",any"`
	}{
		Authors:          b.Authors,
		Titles:           b.Titles,
		Genres:           b.Genres,
		Characters:       wrapNames(b.Characters),
		Annotations:      b.Annotations,
		Keywords:         b.Keywords,
		Coverpage:        b.Coverpage,
		Sequences:        b.Sequences,
		DatabaseRefs:     b.DatabaseRefs,
		ContentRatings:   b.ContentRatings,
		ReadingDirection: b.ReadingDirection,
		Extra:            b.Extra,
	}
	if len(b.Languages) > 0 {
		out.Languages = &languageList{Layers: b.Languages}
	}
	return e.EncodeElement(out, start)
}

func (di DocumentInfo) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	out := struct {
		Authors      []Author       `xml:"author"`
		CreationDate *Date          `xml:"creation-date"`
		Sources      *paragraphList `xml:"source"`
		ID           string         `xml:"id,omitempty"`
		Version      string         `xml:"version,omitempty"`
		History      *paragraphList `xml:"history"`
		Extra        []Node         `xml:",any"`
	}{
		Authors:      di.Authors,
		CreationDate: di.CreationDate,
		Sources:      wrapParagraphs(di.Sources),
		ID:           di.ID,
		Version:      di.Version,
		History:      wrapParagraphs(di.History),
		Extra:        di.Extra,
	}
	return e.EncodeElement(out, start)
}
