package acbf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/net/html/charset"
)

// ErrNotACBF reports XML whose root element is not <ACBF>.
var ErrNotACBF = errors.New("not an ACBF document")

// New returns an empty document as synthesized for plain image archives.
func New() *Document {
	return &Document{
		XMLName: xml.Name{Space: Namespace12, Local: "ACBF"},
		Body:    Body{BgColor: DefaultBodyColor},
	}
}

// Parse decodes an ACBF document. Element names are matched by local name so
// 1.0, 1.1 and 1.2 namespaces are all accepted; non UTF-8 encodings declared
// in the XML prolog are converted.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode acbf: %w", err)
	}
	if doc.XMLName.Local != "ACBF" {
		return nil, fmt.Errorf("%w: root element is <%s>", ErrNotACBF, doc.XMLName.Local)
	}
	if doc.Body.BgColor == "" {
		doc.Body.BgColor = DefaultBodyColor
	}
	doc.dropNamespaceAttrs()
	return &doc, nil
}

// dropNamespaceAttrs removes xmlns declarations from the preserved
// unknown attributes so they are not written twice.
func (d *Document) dropNamespaceAttrs() {
	layers := func(ls []TextLayer) {
		for i := range ls {
			ls[i].Attrs = cleanAttrs(ls[i].Attrs)
			for j := range ls[i].Areas {
				ls[i].Areas[j].Attrs = cleanAttrs(ls[i].Areas[j].Attrs)
			}
		}
	}
	shapes := func(fs []Frame, js []Jump) {
		for i := range fs {
			fs[i].Attrs = cleanAttrs(fs[i].Attrs)
		}
		for i := range js {
			js[i].Attrs = cleanAttrs(js[i].Attrs)
		}
	}
	cover := &d.MetaData.BookInfo.Coverpage
	cover.Attrs = cleanAttrs(cover.Attrs)
	layers(cover.TextLayers)
	shapes(cover.Frames, cover.Jumps)
	d.Body.Attrs = cleanAttrs(d.Body.Attrs)
	for i := range d.Body.Pages {
		p := &d.Body.Pages[i]
		p.Attrs = cleanAttrs(p.Attrs)
		layers(p.TextLayers)
		shapes(p.Frames, p.Jumps)
	}
	for i := range d.Binaries {
		d.Binaries[i].Attrs = cleanAttrs(d.Binaries[i].Attrs)
	}
}

// Load reads and parses the ACBF file at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open acbf: %w", err)
	}
	defer f.Close()
	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// Namespace returns the namespace the document is written with.
func (d *Document) Namespace() string {
	if d.XMLName.Space != "" {
		return d.XMLName.Space
	}
	return Namespace11
}

// Write encodes the document as held, with an XML declaration and two-space
// indentation.
func (d *Document) Write(w io.Writer) error {
	out := *d
	out.XMLName = xml.Name{Space: d.Namespace(), Local: "ACBF"}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write acbf header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.EncodeElement(&out, xml.StartElement{Name: out.XMLName}); err != nil {
		return fmt.Errorf("encode acbf: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode acbf: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Bytes returns the encoded document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save normalises the document and writes it to path atomically via a temp
// file in the same directory.
func (d *Document) Save(path string) error {
	d.Normalize(time.Now())
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".acbf-*")
	if err != nil {
		return fmt.Errorf("create temp acbf: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write acbf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close acbf: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod acbf: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename acbf: %w", err)
	}
	return nil
}
