package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"acbfe/internal/acbf"
	"acbfe/internal/comic"
	"acbfe/internal/textutil"
)

type bookInfo struct {
	Title            string   `json:"title"`
	Series           []string `json:"series,omitempty"`
	Authors          []string `json:"authors,omitempty"`
	Genres           []string `json:"genres,omitempty"`
	Languages        []string `json:"languages,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
	Publisher        string   `json:"publisher,omitempty"`
	PublishDate      string   `json:"publish_date,omitempty"`
	ReadingDirection string   `json:"reading_direction"`
	Pages            int      `json:"pages"`
	Frames           bool     `json:"frames"`
	Fonts            int      `json:"fonts"`
	ID               string   `json:"id,omitempty"`
	Version          string   `json:"version,omitempty"`
	SizeBytes        int64    `json:"size_bytes"`
	Annotation       string   `json:"annotation,omitempty"`
}

func describeBook(s *comic.Session, lang string) bookInfo {
	doc := s.Doc
	book := doc.MetaData.BookInfo
	info := bookInfo{
		Title:            doc.Title(lang),
		Keywords:         doc.KeywordList(),
		Publisher:        doc.MetaData.PublishInfo.Publisher,
		ReadingDirection: book.ReadingDirection,
		Pages:            doc.PageCount(),
		Frames:           doc.HasFrames(),
		Fonts:            len(doc.Fonts()),
		ID:               doc.MetaData.DocumentInfo.ID,
		Version:          doc.MetaData.DocumentInfo.Version,
		SizeBytes:        s.OriginalSize,
		Annotation:       doc.Annotation(lang),
	}
	if pd := doc.MetaData.PublishInfo.PublishDate; pd != nil {
		info.PublishDate = pd.Text
	}
	for _, seq := range book.Sequences {
		info.Series = append(info.Series, fmt.Sprintf("%s #%s", seq.Title, seq.Number))
	}
	for _, a := range book.Authors {
		info.Authors = append(info.Authors, fmt.Sprintf("%s (%s)", authorName(a), a.Activity))
	}
	for _, g := range book.Genres {
		info.Genres = append(info.Genres, g.Name)
	}
	for _, l := range book.Languages {
		label := l.Lang
		if !l.Show {
			label += " (hidden)"
		}
		info.Languages = append(info.Languages, label)
	}
	return info
}

func authorName(a acbf.Author) string {
	if name := textutil.JoinName(a.FirstName, a.MiddleName, a.LastName); name != "" {
		return name
	}
	return a.Nickname
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var lang string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show book metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, false, func(s *comic.Session) error {
				info := describeBook(s, langOrDefault(ctx, lang))
				if jsonOut {
					return writeJSON(cmd, info)
				}
				rows := [][]string{
					{"Title", info.Title},
					{"Series", strings.Join(info.Series, ", ")},
					{"Authors", strings.Join(info.Authors, ", ")},
					{"Genres", strings.Join(info.Genres, ", ")},
					{"Languages", strings.Join(info.Languages, ", ")},
					{"Keywords", strings.Join(info.Keywords, ", ")},
					{"Publisher", info.Publisher},
					{"Publish date", info.PublishDate},
					{"Reading direction", info.ReadingDirection},
					{"Pages", itoa(info.Pages)},
					{"Frames", yesNo(info.Frames)},
					{"Embedded fonts", itoa(info.Fonts)},
					{"ID", info.ID},
					{"Size", humanize.Bytes(uint64(max(info.SizeBytes, 0)))},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
				if info.Annotation != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", info.Annotation)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	cmd.Flags().StringVar(&lang, "lang", "", "Language of title and annotation")
	return cmd
}

type pageRow struct {
	Page       int    `json:"page"`
	Image      string `json:"image"`
	Title      string `json:"title,omitempty"`
	Frames     int    `json:"frames"`
	TextAreas  int    `json:"text_areas"`
	Jumps      int    `json:"jumps"`
	BgColor    string `json:"bgcolor,omitempty"`
	Transition string `json:"transition,omitempty"`
}

func newPagesCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List pages with their frames and text areas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, false, func(s *comic.Session) error {
				var list []pageRow
				for n := 1; n <= s.Doc.PageCount(); n++ {
					page, err := s.Page(n)
					if err != nil {
						return err
					}
					areas := 0
					for _, layer := range *page.TextLayers {
						areas += len(layer.Areas)
					}
					row := pageRow{
						Page:       n,
						Image:      page.Image.Href,
						Frames:     len(*page.Frames),
						TextAreas:  areas,
						Jumps:      len(*page.Jumps),
						BgColor:    page.BgColor,
						Transition: page.Transition,
					}
					if len(page.Titles) > 0 {
						row.Title = page.Titles[0].Text
					}
					list = append(list, row)
				}
				if jsonOut {
					return writeJSON(cmd, list)
				}
				rows := make([][]string, 0, len(list))
				for _, r := range list {
					rows = append(rows, []string{itoa(r.Page), r.Image, r.Title, itoa(r.Frames), itoa(r.TextAreas), itoa(r.Jumps), r.Transition})
				}
				headers := []string{"#", "Image", "Title", "Frames", "Text", "Jumps", "Transition"}
				aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}

func newTOCCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var lang string

	cmd := &cobra.Command{
		Use:   "toc",
		Short: "Show the table of contents built from page titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, false, func(s *comic.Session) error {
				entries := s.Doc.ContentsTable(langOrDefault(ctx, lang))
				if jsonOut {
					return writeJSON(cmd, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No page titles")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{e.Title, itoa(e.Page)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Title", "Page"}, rows, []columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	cmd.Flags().StringVar(&lang, "lang", "", "Language of the page titles")
	return cmd
}

// langOrDefault falls back to the configured editor language.
func langOrDefault(ctx *commandContext, lang string) string {
	if lang = strings.TrimSpace(lang); lang != "" {
		return lang
	}
	if cfg := ctx.configValue(); cfg != nil {
		return cfg.Editor.DefaultLanguage
	}
	return "en"
}
