package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"acbfe/internal/acbf"
	"acbfe/internal/comic"
	"acbfe/internal/imaging"
)

func newStylesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "styles",
		Short: "Show or edit the text-layer stylesheet",
	}

	var raw bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List fonts and colours per style",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, false, func(s *comic.Session) error {
				sheet := s.Doc.Stylesheet()
				if raw {
					fmt.Fprint(cmd.OutOrStdout(), sheet.String())
					return nil
				}
				rows := make([][]string, 0, len(acbf.FontStyles))
				for _, style := range acbf.FontStyles {
					colorKey := style
					if style == "normal" || style == "emphasis" || style == "strong" || style == "code" {
						colorKey = "speech"
					}
					rows = append(rows, []string{style, strings.Join(sheet.Fonts[style], ", "), sheet.Color(colorKey, false)})
				}
				rows = append(rows, []string{"inverted", "", sheet.Color("", true)})
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Style", "Fonts", "Colour"}, rows, nil))
				return nil
			})
		},
	}
	list.Flags().BoolVar(&raw, "css", false, "Print the stylesheet as CSS")

	setFont := &cobra.Command{
		Use:   "font <style> <family>[,<family>...]",
		Short: "Set the font families of a style",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			style := strings.ToLower(args[0])
			if !slices.Contains(acbf.FontStyles, style) {
				return fmt.Errorf("unknown style %q (want one of %s)", args[0], strings.Join(acbf.FontStyles, ", "))
			}
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				sheet := s.Doc.Stylesheet()
				var families []string
				for _, f := range strings.Split(args[1], ",") {
					if f = strings.TrimSpace(f); f != "" {
						families = append(families, f)
					}
				}
				if len(families) == 0 {
					delete(sheet.Fonts, style)
				} else {
					sheet.Fonts[style] = families
				}
				s.Doc.SetStylesheet(sheet)
				s.MarkModified()
				return nil
			})
		},
	}

	setColor := &cobra.Command{
		Use:   "color <type|inverted> <#rrggbb>",
		Short: "Set the text colour of a text-area type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToLower(args[0])
			if key != "inverted" && !acbf.IsTextAreaType(key) {
				return fmt.Errorf("unknown text area type %q", args[0])
			}
			if _, err := imaging.ParseColor(args[1]); err != nil {
				return err
			}
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				sheet := s.Doc.Stylesheet()
				sheet.Colors[key] = args[1]
				s.Doc.SetStylesheet(sheet)
				s.MarkModified()
				return nil
			})
		},
	}

	set := &cobra.Command{Use: "set", Short: "Edit a stylesheet entry"}
	set.AddCommand(setFont, setColor)
	cmd.AddCommand(list, set)
	return cmd
}
