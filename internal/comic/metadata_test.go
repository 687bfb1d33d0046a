package comic_test

import (
	"errors"
	"path/filepath"
	"testing"

	"acbfe/internal/comic"
	"acbfe/internal/testsupport"
)

func openPlainSession(t *testing.T) *comic.Session {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	src := filepath.Join(t.TempDir(), "book.cbz")
	writeImageCBZ(t, src, nil)
	return openSession(t, cfg, src)
}

func TestSetFieldRoundTrip(t *testing.T) {
	s := openPlainSession(t)
	cases := []struct {
		field, value, want string
	}{
		{"title", "Night Train", "Night Train"},
		{"keywords", " noir ,, rain,trains ", "noir, rain, trains"},
		{"publish-date", "1999-05-01", "1999-05-01"},
		{"reading-direction", "rtl", "RTL"},
		{"bgcolor", "#101010", "#101010"},
		{"isbn", "978-3-16", "978-3-16"},
	}
	for _, tc := range cases {
		if err := s.SetField(tc.field, "en", tc.value); err != nil {
			t.Fatalf("SetField(%s) returned error: %v", tc.field, err)
		}
		got, err := s.Field(tc.field, "en")
		if err != nil {
			t.Fatalf("Field(%s) returned error: %v", tc.field, err)
		}
		if got != tc.want {
			t.Fatalf("Field(%s) = %q, want %q", tc.field, got, tc.want)
		}
	}
	if pd := s.Doc.MetaData.PublishInfo.PublishDate; pd.Value != "1999-05-01" {
		t.Fatalf("publish date value = %q, want mirrored text", pd.Value)
	}
}

func TestSetFieldRejectsBadValues(t *testing.T) {
	s := openPlainSession(t)
	if err := s.SetField("reading-direction", "", "up"); err == nil {
		t.Fatalf("expected reading direction error")
	}
	if err := s.SetField("bgcolor", "", "blue"); err == nil {
		t.Fatalf("expected colour error")
	}
	if err := s.SetField("flavour", "", "x"); !errors.Is(err, comic.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestGroupsAddListRemove(t *testing.T) {
	s := openPlainSession(t)

	authors, err := comic.LookupGroup("authors")
	if err != nil {
		t.Fatalf("LookupGroup returned error: %v", err)
	}
	if err := authors.Add(s, []string{"Artist", "Mary Ann Evans"}); err != nil {
		t.Fatalf("Add author returned error: %v", err)
	}
	if err := authors.Add(s, []string{"Translator", "@moebius", "fra"}); err != nil {
		t.Fatalf("Add translator returned error: %v", err)
	}
	rows := authors.List(s)
	if len(rows) != 2 || rows[0][2] != "Mary" || rows[0][3] != "Ann" || rows[0][4] != "Evans" {
		t.Fatalf("author rows = %v", rows)
	}
	if rows[1][1] != "fr" || rows[1][5] != "moebius" {
		t.Fatalf("translator row = %v", rows[1])
	}
	if err := authors.Add(s, []string{"Chef", "Nobody"}); err == nil {
		t.Fatalf("expected unknown activity error")
	}
	if err := authors.Add(s, []string{"Writer", "Jane Doe", "de"}); err == nil {
		t.Fatalf("expected a language on a non-translator to be refused")
	}
	if rows := authors.List(s); len(rows) != 2 {
		t.Fatalf("refused author was added: %v", rows)
	}
	if err := authors.Remove(s, 1); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if err := authors.Remove(s, 5); err == nil {
		t.Fatalf("expected out of range error")
	}
	if rows := authors.List(s); len(rows) != 1 || rows[0][0] != "Translator" {
		t.Fatalf("rows after remove = %v", rows)
	}

	genres, _ := comic.LookupGroup("genres")
	if err := genres.Add(s, []string{"Science Fiction", "80"}); err != nil {
		t.Fatalf("Add genre returned error: %v", err)
	}
	if err := genres.Add(s, []string{"knitting"}); err == nil {
		t.Fatalf("expected unknown genre error")
	}
	if rows := genres.List(s); len(rows) != 1 || rows[0][0] != "science_fiction" || rows[0][1] != "80" {
		t.Fatalf("genre rows = %v", rows)
	}

	langs, _ := comic.LookupGroup("languages")
	if err := langs.Add(s, []string{"de", "false"}); err != nil {
		t.Fatalf("Add language returned error: %v", err)
	}
	if err := langs.Add(s, []string{"de"}); err != nil {
		t.Fatalf("re-adding language returned error: %v", err)
	}
	if !s.Doc.ShownLanguage("de") {
		t.Fatalf("re-adding a language should update its show flag")
	}

	history, _ := comic.LookupGroup("history")
	if err := history.Add(s, []string{"fixed", "typos"}); err != nil {
		t.Fatalf("Add history returned error: %v", err)
	}
	if got := s.Doc.MetaData.DocumentInfo.History; len(got) != 1 || got[0] != "fixed typos" {
		t.Fatalf("history = %v", got)
	}

	if _, err := comic.LookupGroup("pets"); !errors.Is(err, comic.ErrUnknownGroup) {
		t.Fatalf("expected ErrUnknownGroup, got %v", err)
	}
}
