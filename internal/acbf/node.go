package acbf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// Node keeps an element the model does not know about so it survives a round trip.
type Node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   string     `xml:",innerxml"`
}

func (n Node) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	name := n.XMLName
	if isACBFNamespace(name.Space) {
		name.Space = ""
	}
	return e.EncodeElement(rawInner{Inner: n.Inner}, xml.StartElement{Name: name, Attr: cleanAttrs(n.Attrs)})
}

// cleanAttrs drops namespace declarations picked up by ",any,attr";
// the encoder declares the namespaces it needs itself.
func cleanAttrs(attrs []xml.Attr) []xml.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]xml.Attr, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") {
			continue
		}
		out = append(out, attr)
	}
	return out
}

func isACBFNamespace(space string) bool {
	return strings.Contains(space, "/xml/acbf/")
}

// UnmarshalXML defaults Show to true when the attribute is absent.
func (l *LanguageLayer) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type plain LanguageLayer
	v := plain{Show: true}
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}
	*l = LanguageLayer(v)
	return nil
}

// Paragraph is a <p> element whose inline markup (strong, emphasis, code,
// commentary, a href, ...) is kept verbatim.
type Paragraph struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Inner string     `xml:",innerxml"`
}

// TextParagraph builds a paragraph holding plain text.
func TextParagraph(text string) Paragraph {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(text))
	return Paragraph{Inner: buf.String()}
}

// MarkupParagraph builds a paragraph from text that may contain inline
// markup such as "<strong>Hey</strong> you". Text that is not well-formed
// markup is stored escaped.
func MarkupParagraph(markup string) Paragraph {
	markup = strings.TrimSpace(markup)
	if !strings.ContainsAny(markup, "<&") || !wellFormed(markup) {
		return TextParagraph(markup)
	}
	return Paragraph{Inner: markup}
}

func wellFormed(fragment string) bool {
	d := xml.NewDecoder(strings.NewReader("<p>" + fragment + "</p>"))
	for {
		_, err := d.Token()
		if errors.Is(err, io.EOF) {
			return true
		}
		if err != nil {
			return false
		}
	}
}

// Text returns the character data of the paragraph with markup removed.
func (p Paragraph) Text() string {
	d := xml.NewDecoder(strings.NewReader("<p>" + p.Inner + "</p>"))
	d.Strict = false
	var b strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		if cd, ok := tok.(xml.CharData); ok {
			b.Write(cd)
		}
	}
	return b.String()
}

// Markup returns the raw inner markup of the paragraph.
func (p Paragraph) Markup() string {
	return p.Inner
}

// Links returns the ids referenced by <a href="#id"> anywhere in the paragraph.
func (p Paragraph) Links() []string {
	d := xml.NewDecoder(strings.NewReader("<p>" + p.Inner + "</p>"))
	d.Strict = false
	var ids []string
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "a" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "href" && strings.HasPrefix(attr.Value, "#") {
				ids = append(ids, attr.Value[1:])
			}
		}
	}
	return ids
}

// ParagraphsFromText splits text on newlines into paragraphs, parsing inline markup.
func ParagraphsFromText(text string) []Paragraph {
	lines := strings.Split(text, "\n")
	out := make([]Paragraph, 0, len(lines))
	for _, line := range lines {
		out = append(out, MarkupParagraph(line))
	}
	return out
}

// JoinParagraphs returns the plain text of ps joined by newlines.
func JoinParagraphs(ps []Paragraph) string {
	lines := make([]string, len(ps))
	for i, p := range ps {
		lines[i] = p.Text()
	}
	return strings.Join(lines, "\n")
}

type rawInner struct {
	Inner string `xml:",innerxml"`
}

// textEscaper escapes text content but leaves line breaks readable.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func (s Style) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if s.Type != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "type"}, Value: s.Type})
	}
	return e.EncodeElement(rawInner{Inner: textEscaper.Replace(s.CSS)}, start)
}

func (b Binary) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = append(start.Attr,
		xml.Attr{Name: xml.Name{Local: "id"}, Value: b.ID},
		xml.Attr{Name: xml.Name{Local: "content-type"}, Value: b.ContentType},
	)
	start.Attr = append(start.Attr, b.Attrs...)
	return e.EncodeElement(rawInner{Inner: textEscaper.Replace(b.Data)}, start)
}
