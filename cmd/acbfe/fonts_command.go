package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"acbfe/internal/acbf"
	"acbfe/internal/comic"
	"acbfe/internal/fonts"
	"acbfe/internal/toolexec"
)

func newFontsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List installed fonts or embed one into a book",
	}

	var jsonOut bool
	var family string
	list := &cobra.Command{
		Use:   "list",
		Short: "List fonts installed on this system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			found, err := fonts.Discover(cmd.Context(), toolexec.Command{}, fonts.DefaultDirs(), fonts.WithFcList(cfg.Tools.FcList))
			if err != nil {
				return err
			}
			if family != "" {
				found = slices.DeleteFunc(found, func(f fonts.Font) bool {
					return !strings.Contains(strings.ToLower(f.Family), strings.ToLower(family))
				})
			}
			if jsonOut {
				return writeJSON(cmd, found)
			}
			rows := make([][]string, 0, len(found))
			for _, f := range found {
				rows = append(rows, []string{f.Family, f.Style, f.Path})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Family", "Style", "Path"}, rows, nil))
			return nil
		},
	}
	list.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	list.Flags().StringVar(&family, "family", "", "Only fonts whose family contains this text")

	embedded := &cobra.Command{
		Use:   "embedded",
		Short: "List fonts embedded in the book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, false, func(s *comic.Session) error {
				rows := [][]string{}
				for _, b := range s.Doc.Fonts() {
					rows = append(rows, []string{b.ID, b.ContentType, itoa(len(b.Data) * 3 / 4)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Type", "Bytes"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
				return nil
			})
		},
	}

	var style string
	embed := &cobra.Command{
		Use:   "embed <font file>",
		Short: "Embed a TrueType or OpenType font, optionally assigning it to a style",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			style = strings.ToLower(strings.TrimSpace(style))
			if style != "" && !slices.Contains(acbf.FontStyles, style) {
				return fmt.Errorf("unknown style %q", style)
			}
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				id, err := fonts.Embed(s.Doc, args[0])
				if err != nil {
					return err
				}
				if style != "" {
					info, err := fonts.ReadFont(args[0])
					if err != nil {
						return err
					}
					sheet := s.Doc.Stylesheet()
					sheet.Fonts[style] = []string{info.Family}
					s.Doc.SetStylesheet(sheet)
				}
				s.MarkModified()
				fmt.Fprintf(cmd.OutOrStdout(), "Embedded %s\n", id)
				return nil
			})
		},
	}
	embed.Flags().StringVar(&style, "style", "", "Use the font for this style")

	cmd.AddCommand(list, embedded, embed)
	return cmd
}
