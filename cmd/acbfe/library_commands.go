package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"acbfe/internal/catalog"
	"acbfe/internal/comic"
	"acbfe/internal/config"
	"acbfe/internal/logging"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Index comic books in a local library",
	}
	cmd.AddCommand(
		newLibraryAddCommand(ctx),
		newLibraryListCommand(ctx),
		newLibrarySearchCommand(ctx),
		newLibraryRemoveCommand(ctx),
	)
	return cmd
}

func withLibrary(ctx *commandContext, fn func(*catalog.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newLibraryAddCommand(ctx *commandContext) *cobra.Command {
	var lang string
	return &cobra.Command{
		Use:   "add <comic>...",
		Short: "Add or refresh books in the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return withLibrary(ctx, func(store *catalog.Store) error {
				added := 0
				for _, arg := range args {
					path, err := config.ExpandPath(arg)
					if err != nil {
						return err
					}
					s, err := comic.Open(cmd.Context(), path, comic.Options{Config: cfg, Logger: ctx.log()})
					if err != nil {
						logging.WarnWithContext(ctx.log(), "comic not indexed", "library_add_failed",
							logging.String(logging.FieldComic, path),
							logging.Error(err),
							logging.String(logging.FieldImpact, "book missing from library"),
						)
						continue
					}
					entry := catalog.EntryFromDocument(path, s.Doc, langOrDefault(ctx, lang), s.OriginalSize)
					_ = s.Close()
					if err := store.Upsert(cmd.Context(), entry); err != nil {
						return err
					}
					added++
					fmt.Fprintf(cmd.OutOrStdout(), "Indexed %s\n", entry.Title)
				}
				if added == 0 {
					return fmt.Errorf("no books indexed")
				}
				return nil
			})
		},
	}
}

func entryRows(entries []catalog.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		authors := make([]string, 0, len(e.Authors))
		for _, a := range e.Authors {
			authors = append(authors, a.Name)
		}
		rows = append(rows, []string{
			e.Title,
			e.Series,
			strings.Join(authors, ", "),
			itoa(e.Pages),
			humanize.Bytes(uint64(max(e.SizeBytes, 0))),
			humanize.RelTime(e.UpdatedAt, time.Now(), "ago", "from now"),
			e.Path,
		})
	}
	return rows
}

var entryHeaders = []string{"Title", "Series", "Authors", "Pages", "Size", "Indexed", "Path"}
var entryAligns = []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(ctx, func(store *catalog.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Library is empty")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(entryHeaders, entryRows(entries), entryAligns))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}

func newLibrarySearchCommand(ctx *commandContext) *cobra.Command {
	var q catalog.Query
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search the library by title, author, genre or language",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Text = strings.Join(args, " ")
			return withLibrary(ctx, func(store *catalog.Store) error {
				results, err := store.Search(cmd.Context(), q)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, results)
				}
				entries := make([]catalog.Entry, 0, len(results))
				for _, r := range results {
					entries = append(entries, r.Entry)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No matches")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(entryHeaders, entryRows(entries), entryAligns))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&q.Author, "author", "", "Author name contains")
	cmd.Flags().StringVar(&q.Genre, "genre", "", "Genre")
	cmd.Flags().StringVar(&q.Lang, "lang", "", "Text layer language")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}

func newLibraryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <path>...",
		Short: "Remove books from the index (files are left alone)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(ctx, func(store *catalog.Store) error {
				for _, arg := range args {
					path, err := config.ExpandPath(arg)
					if err != nil {
						return err
					}
					if err := store.Remove(cmd.Context(), path); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
