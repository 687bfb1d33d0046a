package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"acbfe/internal/acbf"
	"acbfe/internal/textutil"
)

// Author is a credited person in a library entry.
type Author struct {
	Name     string `json:"name"`
	Activity string `json:"activity"`
}

// Language is a text layer language of a library entry.
type Language struct {
	Lang  string `json:"lang"`
	Shown bool   `json:"shown"`
}

// Entry is one comic book in the library index.
type Entry struct {
	Path             string     `json:"path"`
	Title            string     `json:"title"`
	Series           string     `json:"series,omitempty"`
	Publisher        string     `json:"publisher,omitempty"`
	Pages            int        `json:"pages"`
	ID               string     `json:"id,omitempty"`
	ReadingDirection string     `json:"reading_direction"`
	SizeBytes        int64      `json:"size_bytes"`
	Authors          []Author   `json:"authors,omitempty"`
	Genres           []string   `json:"genres,omitempty"`
	Languages        []Language `json:"languages,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// EntryFromDocument summarizes doc for the index. Titles prefer lang.
func EntryFromDocument(path string, doc *acbf.Document, lang string, size int64) Entry {
	info := doc.MetaData.BookInfo
	entry := Entry{
		Path:             path,
		Title:            doc.Title(lang),
		Publisher:        doc.MetaData.PublishInfo.Publisher,
		Pages:            doc.PageCount(),
		ID:               doc.MetaData.DocumentInfo.ID,
		ReadingDirection: info.ReadingDirection,
		SizeBytes:        size,
	}
	if entry.ReadingDirection == "" {
		entry.ReadingDirection = "LTR"
	}
	if len(info.Sequences) > 0 {
		seq := info.Sequences[0]
		entry.Series = strings.TrimSpace(seq.Title + " " + seq.Number)
	}
	for _, a := range info.Authors {
		name := textutil.JoinName(a.FirstName, a.MiddleName, a.LastName)
		if name == "" {
			name = a.Nickname
		}
		if name == "" {
			continue
		}
		activity := a.Activity
		if activity == "" {
			activity = "Writer"
		}
		entry.Authors = append(entry.Authors, Author{Name: name, Activity: activity})
	}
	seen := map[string]bool{}
	for _, g := range info.Genres {
		if g.Name != "" && !seen[g.Name] {
			seen[g.Name] = true
			entry.Genres = append(entry.Genres, g.Name)
		}
	}
	for _, l := range info.Languages {
		entry.Languages = append(entry.Languages, Language{Lang: l.Lang, Shown: bool(l.Show)})
	}
	return entry
}

// Upsert inserts or replaces the entry keyed by its path.
func (s *Store) Upsert(ctx context.Context, e Entry) error {
	if strings.TrimSpace(e.Path) == "" {
		return errors.New("entry path is required")
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin upsert: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM comics WHERE path = ?`, e.Path); err != nil {
			return fmt.Errorf("replace comic: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO comics (path, title, series, publisher, pages, doc_id, reading_direction, size_bytes, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.Path, e.Title, e.Series, e.Publisher, e.Pages, e.ID, e.ReadingDirection, e.SizeBytes,
			e.UpdatedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert comic: %w", err)
		}
		for i, a := range e.Authors {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO comic_authors (comic_path, position, name, activity) VALUES (?, ?, ?, ?)`,
				e.Path, i, a.Name, a.Activity,
			); err != nil {
				return fmt.Errorf("insert author: %w", err)
			}
		}
		for _, g := range e.Genres {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO comic_genres (comic_path, genre) VALUES (?, ?)`, e.Path, g,
			); err != nil {
				return fmt.Errorf("insert genre: %w", err)
			}
		}
		for _, l := range e.Languages {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO comic_languages (comic_path, lang, shown) VALUES (?, ?, ?)`,
				e.Path, l.Lang, boolToInt(l.Shown),
			); err != nil {
				return fmt.Errorf("insert language: %w", err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit upsert: %w", err)
		}
		return nil
	})
}

// Get returns the entry for path or ErrNotFound.
func (s *Store) Get(ctx context.Context, path string) (*Entry, error) {
	entries, err := s.query(ctx, `WHERE c.path = ?`, path)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return &entries[0], nil
}

// List returns every entry ordered by title then path.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	return s.query(ctx, ``)
}

// Remove deletes the entry for path; child rows cascade.
func (s *Store) Remove(ctx context.Context, path string) error {
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM comics WHERE path = ?`, path)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("remove comic: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return nil
}

// Query narrows a search. Empty fields match everything.
type Query struct {
	Text   string
	Author string
	Genre  string
	Lang   string
}

// Result is a search hit with its relevance score in 0..1.
type Result struct {
	Entry
	Score float64 `json:"score"`
}

// Search filters entries by author, genre and language in SQL and ranks the
// remaining ones by how well their title and series match q.Text.
func (s *Store) Search(ctx context.Context, q Query) ([]Result, error) {
	var (
		clauses []string
		args    []any
	)
	if a := strings.TrimSpace(q.Author); a != "" {
		clauses = append(clauses, `EXISTS (SELECT 1 FROM comic_authors ca WHERE ca.comic_path = c.path AND ca.name LIKE ?)`)
		args = append(args, "%"+a+"%")
	}
	if g := strings.TrimSpace(q.Genre); g != "" {
		clauses = append(clauses, `EXISTS (SELECT 1 FROM comic_genres cg WHERE cg.comic_path = c.path AND cg.genre = ?)`)
		args = append(args, g)
	}
	if l := strings.TrimSpace(q.Lang); l != "" {
		clauses = append(clauses, `EXISTS (SELECT 1 FROM comic_languages cl WHERE cl.comic_path = c.path AND cl.lang = ?)`)
		args = append(args, l)
	}
	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}
	entries, err := s.query(ctx, where, args...)
	if err != nil {
		return nil, err
	}

	query := textutil.NewFingerprint(q.Text)
	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		if query == nil {
			results = append(results, Result{Entry: e, Score: 1})
			continue
		}
		doc := textutil.NewFingerprint(e.Title + " " + e.Series)
		score := textutil.CosineSimilarity(query, doc)
		if doc.Contains(query) {
			score = (score + 1) / 2
		}
		if score > 0 {
			results = append(results, Result{Entry: e, Score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

func (s *Store) query(ctx context.Context, where string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.path, c.title, c.series, c.publisher, c.pages, c.doc_id, c.reading_direction, c.size_bytes, c.updated_at
         FROM comics c `+where+` ORDER BY c.title, c.path`, args...)
	if err != nil {
		return nil, fmt.Errorf("query comics: %w", err)
	}
	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			updated string
		)
		if err := rows.Scan(&e.Path, &e.Title, &e.Series, &e.Publisher, &e.Pages, &e.ID, &e.ReadingDirection, &e.SizeBytes, &updated); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan comic: %w", err)
		}
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		entries = append(entries, e)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("close comic rows: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comics: %w", err)
	}
	for i := range entries {
		if err := s.loadChildren(ctx, &entries[i]); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (s *Store) loadChildren(ctx context.Context, e *Entry) error {
	authors, err := s.db.QueryContext(ctx,
		`SELECT name, activity FROM comic_authors WHERE comic_path = ? ORDER BY position`, e.Path)
	if err != nil {
		return fmt.Errorf("query authors: %w", err)
	}
	for authors.Next() {
		var a Author
		if err := authors.Scan(&a.Name, &a.Activity); err != nil {
			_ = authors.Close()
			return fmt.Errorf("scan author: %w", err)
		}
		e.Authors = append(e.Authors, a)
	}
	_ = authors.Close()

	genres, err := s.db.QueryContext(ctx, `SELECT genre FROM comic_genres WHERE comic_path = ? ORDER BY genre`, e.Path)
	if err != nil {
		return fmt.Errorf("query genres: %w", err)
	}
	for genres.Next() {
		var g string
		if err := genres.Scan(&g); err != nil {
			_ = genres.Close()
			return fmt.Errorf("scan genre: %w", err)
		}
		e.Genres = append(e.Genres, g)
	}
	_ = genres.Close()

	langs, err := s.db.QueryContext(ctx, `SELECT lang, shown FROM comic_languages WHERE comic_path = ? ORDER BY lang`, e.Path)
	if err != nil {
		return fmt.Errorf("query languages: %w", err)
	}
	defer langs.Close()
	for langs.Next() {
		var (
			l     Language
			shown int
		)
		if err := langs.Scan(&l.Lang, &shown); err != nil {
			return fmt.Errorf("scan language: %w", err)
		}
		l.Shown = shown != 0
		e.Languages = append(e.Languages, l)
	}
	return langs.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

