package acbf

import "encoding/xml"

const (
	// Namespace11 is written on documents that were not read with another namespace.
	Namespace11 = "http://www.acbf.info/xml/acbf/1.1"
	// Namespace12 is used for documents synthesized from a plain image archive.
	Namespace12 = "http://www.fictionbook-lib.org/xml/acbf/1.2"

	// DefaultBodyColor is the body background when none is declared.
	DefaultBodyColor = "#000000"
	// DefaultLayerColor is the text-layer background when none is declared.
	DefaultLayerColor = "#ffffff"
)

// Document is a parsed ACBF file.
type Document struct {
	XMLName    xml.Name
	MetaData   MetaData    `xml:"meta-data"`
	Body       Body        `xml:"body"`
	References []Reference `xml:"references>reference"`
	Binaries   []Binary    `xml:"data>binary"`
	Style      *Style      `xml:"style"`
	Extra      []Node      `xml:",any"`
}

// MetaData groups the three ACBF information blocks.
type MetaData struct {
	BookInfo     BookInfo     `xml:"book-info"`
	PublishInfo  PublishInfo  `xml:"publish-info"`
	DocumentInfo DocumentInfo `xml:"document-info"`
	Extra        []Node       `xml:",any"`
}

// BookInfo describes the comic book itself.
type BookInfo struct {
	Authors          []Author        `xml:"author"`
	Titles           []LangText      `xml:"book-title"`
	Genres           []Genre         `xml:"genre"`
	Characters       []string        `xml:"characters>name"`
	Annotations      []Annotation    `xml:"annotation"`
	Keywords         string          `xml:"keywords,omitempty"`
	Coverpage        Coverpage       `xml:"coverpage"`
	Languages        []LanguageLayer `xml:"languages>text-layer"`
	Sequences        []Sequence      `xml:"sequence"`
	DatabaseRefs     []DatabaseRef   `xml:"databaseref"`
	ContentRatings   []ContentRating `xml:"content-rating"`
	ReadingDirection string          `xml:"reading-direction,omitempty"`
	Extra            []Node          `xml:",any"`
}

// Author is a book or document author. Translators carry the language they translated into.
type Author struct {
	Activity   string `xml:"activity,attr,omitempty"`
	Lang       string `xml:"lang,attr,omitempty"`
	FirstName  string `xml:"first-name,omitempty"`
	MiddleName string `xml:"middle-name,omitempty"`
	LastName   string `xml:"last-name,omitempty"`
	Nickname   string `xml:"nickname,omitempty"`
	HomePage   string `xml:"home-page,omitempty"`
	Email      string `xml:"email,omitempty"`
}

// LangText is a translatable text element such as book-title or page title.
type LangText struct {
	Lang string `xml:"lang,attr,omitempty"`
	Text string `xml:",chardata"`
}

// Genre is a genre name with an optional match percentage.
type Genre struct {
	Match int    `xml:"match,attr,omitempty"`
	Name  string `xml:",chardata"`
}

// Annotation is a per-language book summary.
type Annotation struct {
	Lang       string      `xml:"lang,attr,omitempty"`
	Paragraphs []Paragraph `xml:"p"`
}

// Coverpage is the first page of the book; it lives in book-info rather than body.
type Coverpage struct {
	Attrs      []xml.Attr  `xml:",any,attr"`
	Image      ImageRef    `xml:"image"`
	TextLayers []TextLayer `xml:"text-layer"`
	Frames     []Frame     `xml:"frame"`
	Jumps      []Jump      `xml:"jump"`
	Extra      []Node      `xml:",any"`
}

// LanguageLayer declares a text-layer language and whether it is shown by default.
type LanguageLayer struct {
	Lang string   `xml:"lang,attr"`
	Show ShowFlag `xml:"show,attr"`
}

// Sequence places the book in a series.
type Sequence struct {
	Title  string `xml:"title,attr"`
	Volume string `xml:"volume,attr,omitempty"`
	Number string `xml:",chardata"`
}

// DatabaseRef links the book to an external catalogue.
type DatabaseRef struct {
	DBName string `xml:"dbname,attr"`
	Type   string `xml:"type,attr,omitempty"`
	Value  string `xml:",chardata"`
}

// ContentRating is an age rating under a named rating system.
type ContentRating struct {
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:",chardata"`
}

// PublishInfo describes the publication.
type PublishInfo struct {
	Publisher   string `xml:"publisher,omitempty"`
	PublishDate *Date  `xml:"publish-date"`
	City        string `xml:"city,omitempty"`
	ISBN        string `xml:"isbn,omitempty"`
	License     string `xml:"license,omitempty"`
	Extra       []Node `xml:",any"`
}

// Date holds a machine readable value attribute and a display text.
type Date struct {
	Value string `xml:"value,attr,omitempty"`
	Text  string `xml:",chardata"`
}

// DocumentInfo describes the ACBF document (not the book).
type DocumentInfo struct {
	Authors      []Author `xml:"author"`
	CreationDate *Date    `xml:"creation-date"`
	Sources      []string `xml:"source>p"`
	ID           string   `xml:"id,omitempty"`
	Version      string   `xml:"version,omitempty"`
	History      []string `xml:"history>p"`
	Extra        []Node   `xml:",any"`
}

// Body holds the pages after the cover.
type Body struct {
	BgColor string     `xml:"bgcolor,attr,omitempty"`
	Attrs   []xml.Attr `xml:",any,attr"`
	Pages   []Page     `xml:"page"`
	Extra   []Node     `xml:",any"`
}

// Page is a single comic page.
type Page struct {
	BgColor    string      `xml:"bgcolor,attr,omitempty"`
	Transition string      `xml:"transition,attr,omitempty"`
	Attrs      []xml.Attr  `xml:",any,attr"`
	Titles     []LangText  `xml:"title"`
	Image      ImageRef    `xml:"image"`
	TextLayers []TextLayer `xml:"text-layer"`
	Frames     []Frame     `xml:"frame"`
	Jumps      []Jump      `xml:"jump"`
	Extra      []Node      `xml:",any"`
}

// ImageRef points at a page image; see ParseImageURI for the href forms.
type ImageRef struct {
	Href string `xml:"href,attr"`
}

// TextLayer is the set of text areas for one language on a page.
type TextLayer struct {
	Lang    string     `xml:"lang,attr"`
	BgColor string     `xml:"bgcolor,attr,omitempty"`
	Attrs   []xml.Attr `xml:",any,attr"`
	Areas   []TextArea `xml:"text-area"`
	Extra   []Node     `xml:",any"`
}

// TextArea is a polygon of text, usually a speech bubble.
type TextArea struct {
	Points      Polygon     `xml:"points,attr"`
	BgColor     string      `xml:"bgcolor,attr,omitempty"`
	Rotation    int         `xml:"text-rotation,attr,omitempty"`
	Type        string      `xml:"type,attr,omitempty"`
	Inverted    Bool        `xml:"inverted,attr,omitempty"`
	Transparent Bool        `xml:"transparent,attr,omitempty"`
	Attrs       []xml.Attr  `xml:",any,attr"`
	Paragraphs  []Paragraph `xml:"p"`
	Extra       []Node      `xml:",any"`
}

// Frame is a panel outline used for panel-by-panel reading.
type Frame struct {
	Points  Polygon    `xml:"points,attr"`
	BgColor string     `xml:"bgcolor,attr,omitempty"`
	Attrs   []xml.Attr `xml:",any,attr"`
}

// Jump is a clickable region that navigates to another page.
type Jump struct {
	Page   int        `xml:"page,attr"`
	Points Polygon    `xml:"points,attr"`
	Attrs  []xml.Attr `xml:",any,attr"`
}

// Reference is a footnote referenced from text areas by <a href="#id">.
type Reference struct {
	ID         string      `xml:"id,attr"`
	Paragraphs []Paragraph `xml:"p"`
}

// Binary is embedded base64 data, typically an image or a font.
type Binary struct {
	ID          string     `xml:"id,attr"`
	ContentType string     `xml:"content-type,attr"`
	Attrs       []xml.Attr `xml:",any,attr"`
	Data        string     `xml:",chardata"`
}

// Style is the document stylesheet.
type Style struct {
	Type string `xml:"type,attr,omitempty"`
	CSS  string `xml:",chardata"`
}
