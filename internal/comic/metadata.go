package comic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"acbfe/internal/acbf"
	"acbfe/internal/imaging"
	"acbfe/internal/language"
	"acbfe/internal/textutil"
)

var (
	// ErrUnknownField reports a metadata field SetField does not handle.
	ErrUnknownField = errors.New("unknown metadata field")
	// ErrUnknownGroup reports a list group name that does not exist.
	ErrUnknownGroup = errors.New("unknown metadata group")
)

// Fields lists the names accepted by SetField.
var Fields = []string{
	"title", "annotation", "keywords", "publisher", "publish-date", "city",
	"isbn", "license", "version", "id", "creation-date", "reading-direction",
	"bgcolor",
}

// Field returns the current value of a metadata field. Title and annotation
// use lang.
func (s *Session) Field(name, lang string) (string, error) {
	info := &s.Doc.MetaData.BookInfo
	pub := &s.Doc.MetaData.PublishInfo
	doc := &s.Doc.MetaData.DocumentInfo
	switch name {
	case "title":
		return s.Doc.Title(lang), nil
	case "annotation":
		return s.Doc.Annotation(lang), nil
	case "keywords":
		return strings.Join(s.Doc.KeywordList(), ", "), nil
	case "publisher":
		return pub.Publisher, nil
	case "publish-date":
		if pub.PublishDate == nil {
			return "", nil
		}
		return pub.PublishDate.Text, nil
	case "city":
		return pub.City, nil
	case "isbn":
		return pub.ISBN, nil
	case "license":
		return pub.License, nil
	case "version":
		return doc.Version, nil
	case "id":
		return doc.ID, nil
	case "creation-date":
		if doc.CreationDate == nil {
			return "", nil
		}
		return doc.CreationDate.Value, nil
	case "reading-direction":
		return info.ReadingDirection, nil
	case "bgcolor":
		return s.Doc.Body.BgColor, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// SetField sets a metadata field from its text form.
func (s *Session) SetField(name, lang, value string) error {
	value = strings.TrimSpace(value)
	info := &s.Doc.MetaData.BookInfo
	pub := &s.Doc.MetaData.PublishInfo
	doc := &s.Doc.MetaData.DocumentInfo
	switch name {
	case "title":
		s.Doc.SetTitle(lang, value)
	case "annotation":
		s.Doc.SetAnnotation(lang, value)
	case "keywords":
		s.Doc.SetKeywords(strings.Split(value, ","))
	case "publisher":
		pub.Publisher = value
	case "publish-date":
		if value == "" {
			pub.PublishDate = nil
			break
		}
		pub.PublishDate = &acbf.Date{Value: value, Text: value}
	case "city":
		pub.City = value
	case "isbn":
		pub.ISBN = value
	case "license":
		pub.License = value
	case "version":
		doc.Version = value
	case "id":
		doc.ID = value
	case "creation-date":
		doc.CreationDate = &acbf.Date{Value: value, Text: value}
	case "reading-direction":
		dir := strings.ToUpper(value)
		if dir != "LTR" && dir != "RTL" {
			return fmt.Errorf("reading direction %q: want LTR or RTL", value)
		}
		info.ReadingDirection = dir
	case "bgcolor":
		if _, err := imaging.ParseColor(value); err != nil {
			return err
		}
		s.Doc.Body.BgColor = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	s.modified = true
	return nil
}

// Group describes an editable list inside the metadata.
type Group struct {
	Name    string
	Columns []string
	// Usage names the values Add takes, optional ones in brackets.
	Usage  string
	rows   func(d *acbf.Document) [][]string
	add    func(d *acbf.Document, values []string) error
	remove func(d *acbf.Document, i int) bool
}

// Groups returns the editable metadata lists.
func Groups() []Group {
	return []Group{
		authorGroup("authors", func(d *acbf.Document) *[]acbf.Author { return &d.MetaData.BookInfo.Authors }),
		authorGroup("doc-authors", func(d *acbf.Document) *[]acbf.Author { return &d.MetaData.DocumentInfo.Authors }),
		{
			Name: "genres", Columns: []string{"Genre", "Match"}, Usage: "<genre> [match]",
			rows: func(d *acbf.Document) [][]string {
				var out [][]string
				for _, g := range d.MetaData.BookInfo.Genres {
					out = append(out, []string{g.Name, strconv.Itoa(g.Match)})
				}
				return out
			},
			add: func(d *acbf.Document, v []string) error {
				name, ok := acbf.CanonicalGenre(v[0])
				if !ok {
					return fmt.Errorf("unknown genre %q", v[0])
				}
				g := acbf.Genre{Name: name}
				if len(v) > 1 {
					match, err := strconv.Atoi(v[1])
					if err != nil || match < 0 || match > 100 {
						return fmt.Errorf("genre match %q: want 0..100", v[1])
					}
					g.Match = match
				}
				d.MetaData.BookInfo.Genres = append(d.MetaData.BookInfo.Genres, g)
				return nil
			},
			remove: func(d *acbf.Document, i int) bool { return removeAt(&d.MetaData.BookInfo.Genres, i) },
		},
		stringGroup("characters", "Name", func(d *acbf.Document) *[]string { return &d.MetaData.BookInfo.Characters }),
		{
			Name: "languages", Columns: []string{"Language", "Name", "Show"}, Usage: "<code> [show]",
			rows: func(d *acbf.Document) [][]string {
				var out [][]string
				for _, l := range d.MetaData.BookInfo.Languages {
					out = append(out, []string{l.Lang, language.DisplayName(l.Lang), strconv.FormatBool(bool(l.Show))})
				}
				return out
			},
			add: func(d *acbf.Document, v []string) error {
				code := strings.TrimSpace(v[0])
				if code != "??" && !language.IsValid(code) {
					return fmt.Errorf("unknown language %q", code)
				}
				show := true
				if len(v) > 1 {
					show = !strings.EqualFold(strings.TrimSpace(v[1]), "false")
				}
				layers := &d.MetaData.BookInfo.Languages
				for i := range *layers {
					if (*layers)[i].Lang == code {
						(*layers)[i].Show = acbf.ShowFlag(show)
						return nil
					}
				}
				*layers = append(*layers, acbf.LanguageLayer{Lang: code, Show: acbf.ShowFlag(show)})
				return nil
			},
			remove: func(d *acbf.Document, i int) bool { return removeAt(&d.MetaData.BookInfo.Languages, i) },
		},
		{
			Name: "series", Columns: []string{"Title", "Number", "Volume"}, Usage: "<title> [number] [volume]",
			rows: func(d *acbf.Document) [][]string {
				var out [][]string
				for _, s := range d.MetaData.BookInfo.Sequences {
					out = append(out, []string{s.Title, s.Number, s.Volume})
				}
				return out
			},
			add: func(d *acbf.Document, v []string) error {
				seq := acbf.Sequence{Title: v[0], Number: "0"}
				if len(v) > 1 && strings.TrimSpace(v[1]) != "" {
					seq.Number = strings.TrimSpace(v[1])
				}
				if len(v) > 2 {
					seq.Volume = strings.TrimSpace(v[2])
				}
				d.MetaData.BookInfo.Sequences = append(d.MetaData.BookInfo.Sequences, seq)
				return nil
			},
			remove: func(d *acbf.Document, i int) bool { return removeAt(&d.MetaData.BookInfo.Sequences, i) },
		},
		{
			Name: "dbref", Columns: []string{"Database", "Type", "Reference"}, Usage: "<dbname> <reference> [type]",
			rows: func(d *acbf.Document) [][]string {
				var out [][]string
				for _, r := range d.MetaData.BookInfo.DatabaseRefs {
					out = append(out, []string{r.DBName, r.Type, r.Value})
				}
				return out
			},
			add: func(d *acbf.Document, v []string) error {
				if len(v) < 2 {
					return errors.New("dbref needs a database name and a reference")
				}
				ref := acbf.DatabaseRef{DBName: v[0], Value: v[1]}
				if len(v) > 2 {
					ref.Type = v[2]
				}
				d.MetaData.BookInfo.DatabaseRefs = append(d.MetaData.BookInfo.DatabaseRefs, ref)
				return nil
			},
			remove: func(d *acbf.Document, i int) bool { return removeAt(&d.MetaData.BookInfo.DatabaseRefs, i) },
		},
		{
			Name: "ratings", Columns: []string{"Rating", "Type"}, Usage: "<rating> [type]",
			rows: func(d *acbf.Document) [][]string {
				var out [][]string
				for _, r := range d.MetaData.BookInfo.ContentRatings {
					out = append(out, []string{r.Value, r.Type})
				}
				return out
			},
			add: func(d *acbf.Document, v []string) error {
				r := acbf.ContentRating{Value: v[0]}
				if len(v) > 1 {
					r.Type = v[1]
				}
				d.MetaData.BookInfo.ContentRatings = append(d.MetaData.BookInfo.ContentRatings, r)
				return nil
			},
			remove: func(d *acbf.Document, i int) bool { return removeAt(&d.MetaData.BookInfo.ContentRatings, i) },
		},
		stringGroup("sources", "Source", func(d *acbf.Document) *[]string { return &d.MetaData.DocumentInfo.Sources }),
		stringGroup("history", "Entry", func(d *acbf.Document) *[]string { return &d.MetaData.DocumentInfo.History }),
	}
}

// LookupGroup returns the group called name.
func LookupGroup(name string) (Group, error) {
	for _, g := range Groups() {
		if g.Name == name {
			return g, nil
		}
	}
	return Group{}, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
}

// List returns one row per item, aligned with g.Columns.
func (g Group) List(s *Session) [][]string {
	return g.rows(s.Doc)
}

// Add appends an item built from values.
func (g Group) Add(s *Session, values []string) error {
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return fmt.Errorf("%s: usage %s", g.Name, g.Usage)
	}
	if err := g.add(s.Doc, values); err != nil {
		return fmt.Errorf("%s: %w", g.Name, err)
	}
	s.modified = true
	return nil
}

// Remove deletes item i, counting from 1 as in List output.
func (g Group) Remove(s *Session, i int) error {
	if !g.remove(s.Doc, i-1) {
		return fmt.Errorf("%s: item %d out of range 1..%d", g.Name, i, len(g.rows(s.Doc)))
	}
	s.modified = true
	return nil
}

func authorGroup(name string, list func(d *acbf.Document) *[]acbf.Author) Group {
	return Group{
		Name:    name,
		Columns: []string{"Activity", "Language", "First", "Middle", "Last", "Nickname"},
		Usage:   "<activity> <name> [lang, Translator only]",
		rows: func(d *acbf.Document) [][]string {
			var out [][]string
			for _, a := range *list(d) {
				out = append(out, []string{a.Activity, a.Lang, a.FirstName, a.MiddleName, a.LastName, a.Nickname})
			}
			return out
		},
		add: func(d *acbf.Document, v []string) error {
			if len(v) < 2 {
				return errors.New("author needs an activity and a name")
			}
			if !acbf.IsActivity(v[0]) {
				return fmt.Errorf("unknown activity %q", v[0])
			}
			a := acbf.Author{Activity: v[0]}
			if strings.HasPrefix(v[1], "@") {
				a.Nickname = strings.TrimPrefix(v[1], "@")
			} else {
				a.FirstName, a.MiddleName, a.LastName = textutil.SplitName(v[1])
			}
			if len(v) > 2 {
				if a.Activity != "Translator" {
					return fmt.Errorf("only a Translator carries a language, not %s", a.Activity)
				}
				a.Lang = language.ToISO2(v[2])
			}
			*list(d) = append(*list(d), a)
			return nil
		},
		remove: func(d *acbf.Document, i int) bool { return removeAt(list(d), i) },
	}
}

func stringGroup(name, column string, list func(d *acbf.Document) *[]string) Group {
	return Group{
		Name:    name,
		Columns: []string{column},
		Usage:   "<text>",
		rows: func(d *acbf.Document) [][]string {
			var out [][]string
			for _, v := range *list(d) {
				out = append(out, []string{v})
			}
			return out
		},
		add: func(d *acbf.Document, v []string) error {
			*list(d) = append(*list(d), strings.Join(v, " "))
			return nil
		},
		remove: func(d *acbf.Document, i int) bool { return removeAt(list(d), i) },
	}
}

func removeAt[T any](items *[]T, i int) bool {
	if i < 0 || i >= len(*items) {
		return false
	}
	*items = append((*items)[:i], (*items)[i+1:]...)
	return true
}
