package comicinfo

import (
	"reflect"
	"strings"
	"testing"

	"acbfe/internal/acbf"
)

const fixture = `<?xml version="1.0"?>
<ComicInfo xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <Title>The Long Night</Title>
  <Series>Nightfall</Series>
  <Summary>First line.

Second line.</Summary>
  <Year>2019</Year><Month>10</Month><Day>31</Day>
  <Writer>John Ronald Reuel Tolkien</Writer>
  <Penciller>Moebius</Penciller>
  <Publisher>Acme</Publisher>
  <Genre>Science Fiction, Horror, Cooking</Genre>
  <Characters>Ann, Bob</Characters>
  <Web>https://example.com/nightfall</Web>
  <LanguageISO>fr</LanguageISO>
  <AgeRating>Teen</AgeRating>
  <Manga>YesAndRightToLeft</Manga>
</ComicInfo>`

func TestApply(t *testing.T) {
	info, err := Parse(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	doc := acbf.New()
	info.Apply(doc)

	bi := doc.MetaData.BookInfo
	wantAuthors := []acbf.Author{
		{Activity: "Writer", FirstName: "John", MiddleName: "Ronald Reuel", LastName: "Tolkien"},
		{Activity: "Penciller", FirstName: "Moebius", LastName: "Moebius"},
	}
	if !reflect.DeepEqual(bi.Authors, wantAuthors) {
		t.Fatalf("authors = %+v, want %+v", bi.Authors, wantAuthors)
	}
	if doc.Title("") != "The Long Night" {
		t.Fatalf("title = %q", doc.Title(""))
	}
	if len(bi.Genres) != 2 || bi.Genres[0].Name != "science_fiction" || bi.Genres[1].Name != "horror" {
		t.Fatalf("genres = %+v", bi.Genres)
	}
	if !reflect.DeepEqual(bi.Characters, []string{"Ann", "Bob"}) {
		t.Fatalf("characters = %v", bi.Characters)
	}
	if len(bi.Sequences) != 1 || bi.Sequences[0].Number != "0" || bi.Sequences[0].Title != "Nightfall" {
		t.Fatalf("sequences = %+v", bi.Sequences)
	}
	if got := doc.Annotation(""); got != "First line.\nSecond line." {
		t.Fatalf("annotation = %q", got)
	}
	if len(bi.Languages) != 1 || bi.Languages[0].Lang != "fr" || bi.Languages[0].Show {
		t.Fatalf("languages = %+v", bi.Languages)
	}
	pd := doc.MetaData.PublishInfo.PublishDate
	if pd == nil || pd.Value != "2019-10-31" || pd.Text != "2019" {
		t.Fatalf("publish date = %+v", pd)
	}
	if doc.MetaData.PublishInfo.Publisher != "Acme" {
		t.Fatalf("publisher = %q", doc.MetaData.PublishInfo.Publisher)
	}
	if len(bi.DatabaseRefs) != 1 || bi.DatabaseRefs[0].DBName != "web" {
		t.Fatalf("dbrefs = %+v", bi.DatabaseRefs)
	}
	if len(bi.ContentRatings) != 1 || bi.ContentRatings[0].Value != "Teen" {
		t.Fatalf("ratings = %+v", bi.ContentRatings)
	}
	if bi.ReadingDirection != "RTL" {
		t.Fatalf("reading direction = %q", bi.ReadingDirection)
	}
}

func TestApplyPartialDate(t *testing.T) {
	info, err := Parse(strings.NewReader(`<ComicInfo><Year>2001</Year><Series>S</Series><Number>4</Number></ComicInfo>`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	doc := acbf.New()
	info.Apply(doc)
	if doc.MetaData.PublishInfo.PublishDate != nil {
		t.Fatal("expected no publish date without month and day")
	}
	if got := doc.MetaData.BookInfo.Sequences[0].Number; got != "4" {
		t.Fatalf("number = %q", got)
	}
}
