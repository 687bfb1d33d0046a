package catalog_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"acbfe/internal/acbf"
	"acbfe/internal/catalog"
	"acbfe/internal/testsupport"
)

func sampleDoc(title string, genres ...string) *acbf.Document {
	doc := acbf.New()
	doc.SetTitle("en", title)
	doc.MetaData.BookInfo.Authors = []acbf.Author{
		{Activity: "Writer", FirstName: "Alan", LastName: "Moore"},
		{Activity: "Artist", Nickname: "Moebius"},
		{},
	}
	for _, g := range genres {
		doc.MetaData.BookInfo.Genres = append(doc.MetaData.BookInfo.Genres, acbf.Genre{Name: g})
	}
	doc.MetaData.BookInfo.Languages = []acbf.LanguageLayer{{Lang: "en", Show: false}, {Lang: "sk", Show: true}}
	doc.MetaData.BookInfo.Sequences = []acbf.Sequence{{Title: "Saga", Number: "2"}}
	doc.Body.Pages = make([]acbf.Page, 3)
	return doc
}

func TestEntryFromDocument(t *testing.T) {
	e := catalog.EntryFromDocument("/c/a.cbz", sampleDoc("Night", "horror", "horror"), "en", 42)
	if e.Title != "Night" || e.Pages != 4 || e.Series != "Saga 2" || e.SizeBytes != 42 {
		t.Fatalf("entry = %+v", e)
	}
	if len(e.Authors) != 2 || e.Authors[0].Name != "Alan Moore" || e.Authors[1].Name != "Moebius" {
		t.Fatalf("authors = %+v", e.Authors)
	}
	if len(e.Genres) != 1 {
		t.Fatalf("genres should be deduplicated: %v", e.Genres)
	}
}

func TestUpsertGetListRemove(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	night := catalog.EntryFromDocument("/c/night.cbz", sampleDoc("The Long Night", "horror"), "en", 1)
	day := catalog.EntryFromDocument("/c/day.cbz", sampleDoc("Bright Day", "humor"), "en", 2)
	for _, e := range []catalog.Entry{night, day} {
		if err := store.Upsert(ctx, e); err != nil {
			t.Fatalf("Upsert returned error: %v", err)
		}
	}
	night.Title = "The Longest Night"
	if err := store.Upsert(ctx, night); err != nil {
		t.Fatalf("second Upsert returned error: %v", err)
	}

	got, err := store.Get(ctx, "/c/night.cbz")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Title != "The Longest Night" || len(got.Authors) != 2 || len(got.Languages) != 2 {
		t.Fatalf("Get = %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatal("expected updated_at to be set")
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 2 || all[0].Title != "Bright Day" {
		t.Fatalf("List = %+v", all)
	}

	if err := store.Remove(ctx, "/c/day.cbz"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, err := store.Get(ctx, "/c/day.cbz"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Remove(ctx, "/c/day.cbz"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestSearchRanksByTitle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	for path, title := range map[string]string{
		"/c/1.cbz": "Night of the Dragon",
		"/c/2.cbz": "Dragon",
		"/c/3.cbz": "Gardening Weekly",
	} {
		if err := store.Upsert(ctx, catalog.EntryFromDocument(path, sampleDoc(title, "fantasy"), "en", 0)); err != nil {
			t.Fatalf("Upsert returned error: %v", err)
		}
	}
	results, err := store.Search(ctx, catalog.Query{Text: "dragon"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 2 || results[0].Path != "/c/2.cbz" {
		t.Fatalf("results = %+v", results)
	}

	filtered, err := store.Search(ctx, catalog.Query{Author: "moore", Genre: "fantasy", Lang: "sk"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(filtered) != 3 {
		t.Fatalf("filtered = %d, want 3", len(filtered))
	}
	none, err := store.Search(ctx, catalog.Query{Genre: "western"})
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no western results, got %v, %v", none, err)
	}
}

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	store.Close()

	db, err := sql.Open("sqlite", cfg.Library.DBPath)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := catalog.OpenPath(cfg.Library.DBPath); !errors.Is(err, catalog.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	if filepath.Base(cfg.Library.DBPath) != "library.db" {
		t.Fatalf("unexpected db path %q", cfg.Library.DBPath)
	}
}
