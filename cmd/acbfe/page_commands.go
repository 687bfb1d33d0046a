package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"acbfe/internal/acbf"
	"acbfe/internal/comic"
)

func newPageCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Edit pages (1 is the cover, 2 the first body page)",
	}
	cmd.AddCommand(
		newPageDeleteCommand(ctx),
		newPageCoverCommand(ctx),
		newPageMoveCommand(ctx),
		newPageAddCommand(ctx),
		newPageSetCommand(ctx),
		newPageTextCommand(ctx),
		newPageJumpsCommand(ctx),
	)
	return cmd
}

func newPageDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <page>",
		Short: "Delete a body page and its image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePage(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				return s.DeletePage(n)
			})
		},
	}
}

func newPageCoverCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cover <page>",
		Short: "Use the image of a body page as the cover",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePage(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				return s.SetCover(n)
			})
		},
	}
}

func newPageMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move a body page to another position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parsePage(args[0])
			if err != nil {
				return err
			}
			to, err := parsePage(args[1])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				return s.MovePage(from, to)
			})
		},
	}
}

func newPageAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <image>...",
		Short: "Append images as new pages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				for _, path := range args {
					n, err := s.AddPage(path)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Added page %d\n", n)
				}
				return nil
			})
		},
	}
}

func newPageSetCommand(ctx *commandContext) *cobra.Command {
	var bgcolor, transition, title, lang string

	cmd := &cobra.Command{
		Use:   "set <page>",
		Short: "Set the background, transition or title of a body page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePage(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("bgcolor") && !flags.Changed("transition") && !flags.Changed("title") {
				return fmt.Errorf("nothing to set; pass --bgcolor, --transition or --title")
			}
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				if flags.Changed("bgcolor") {
					if err := s.SetPageBgColor(n, bgcolor); err != nil {
						return err
					}
				}
				if flags.Changed("transition") {
					if err := s.SetPageTransition(n, transition); err != nil {
						return err
					}
				}
				if flags.Changed("title") {
					if err := s.SetPageTitle(n, langOrEmpty(lang), title); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&bgcolor, "bgcolor", "", "Page background colour (#rrggbb)")
	cmd.Flags().StringVar(&transition, "transition", "", "Transition: "+strings.Join(acbf.Transitions, ", "))
	cmd.Flags().StringVar(&title, "title", "", "Table of contents title (empty removes it)")
	cmd.Flags().StringVar(&lang, "lang", "", "Language of the title")
	return cmd
}

func newPageTextCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Edit the text areas of a page",
	}

	var lang string
	var jsonOut bool
	list := &cobra.Command{
		Use:   "list <page>",
		Short: "List text areas of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePage(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, false, func(s *comic.Session) error {
				areas, _, err := s.Doc.TextAreas(n, langOrDefault(ctx, lang))
				if err != nil {
					return err
				}
				if jsonOut {
					type areaJSON struct {
						Points   string `json:"points"`
						Type     string `json:"type,omitempty"`
						Rotation int    `json:"rotation,omitempty"`
						Text     string `json:"text"`
					}
					out := make([]areaJSON, 0, len(areas))
					for _, a := range areas {
						out = append(out, areaJSON{a.Points.String(), a.Type, a.Rotation, acbf.JoinParagraphs(a.Paragraphs)})
					}
					return writeJSON(cmd, out)
				}
				rows := make([][]string, 0, len(areas))
				for i, a := range areas {
					rows = append(rows, []string{itoa(i), a.Type, a.Points.String(), strings.ReplaceAll(acbf.JoinParagraphs(a.Paragraphs), "\n", " / ")})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "Type", "Points", "Text"}, rows, []columnAlignment{alignRight}))
				return nil
			})
		},
	}
	list.Flags().StringVar(&lang, "lang", "", "Text layer language")
	list.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")

	var in comic.TextAreaInput
	var addLang string
	var index int
	add := &cobra.Command{
		Use:   "add <page> <points> <text>",
		Short: "Add or replace a text area; points are \"x,y x,y ...\"",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePage(args[0])
			if err != nil {
				return err
			}
			points, err := acbf.ParsePolygon(args[1])
			if err != nil {
				return err
			}
			area := in
			area.Points = points
			area.Text = strings.ReplaceAll(args[2], `\n`, "\n")
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				i, err := s.SetTextArea(n, langOrDefault(ctx, addLang), index, area)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Text area %d on page %d\n", i, n)
				return nil
			})
		},
	}
	add.Flags().StringVar(&addLang, "lang", "", "Text layer language")
	add.Flags().IntVar(&index, "index", -1, "Replace this text area instead of appending")
	add.Flags().StringVar(&in.Type, "type", "", "Text area type (speech, commentary, formal, ...)")
	add.Flags().StringVar(&in.BgColor, "bgcolor", "", "Background colour")
	add.Flags().IntVar(&in.Rotation, "rotation", 0, "Text rotation in degrees")
	add.Flags().BoolVar(&in.Inverted, "inverted", false, "Use the inverted text colour")
	add.Flags().BoolVar(&in.Transparent, "transparent", false, "Do not fill the background")

	var rmLang string
	remove := &cobra.Command{
		Use:   "remove <page> <index>",
		Short: "Remove a text area",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePage(args[0])
			if err != nil {
				return err
			}
			i, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid text area index %q", args[1])
			}
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				return s.RemoveTextArea(n, langOrDefault(ctx, rmLang), i)
			})
		},
	}
	remove.Flags().StringVar(&rmLang, "lang", "", "Text layer language")

	var bgLang string
	bg := &cobra.Command{
		Use:   "bg <page> <color>",
		Short: "Set the default background of a page's text areas (empty clears it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePage(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				return s.SetLayerBgColor(n, langOrDefault(ctx, bgLang), args[1])
			})
		},
	}
	bg.Flags().StringVar(&bgLang, "lang", "", "Text layer language")

	cmd.AddCommand(list, add, remove, bg)
	return cmd
}

func newPageJumpsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jumps",
		Short: "Edit the clickable regions that lead to other pages",
	}

	var jsonOut bool
	list := &cobra.Command{
		Use:   "list <page>",
		Short: "List the jumps of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePage(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, false, func(s *comic.Session) error {
				page, err := s.Page(n)
				if err != nil {
					return err
				}
				jumps := *page.Jumps
				if jsonOut {
					type jumpJSON struct {
						Page   int    `json:"page"`
						Points string `json:"points"`
					}
					out := make([]jumpJSON, 0, len(jumps))
					for _, j := range jumps {
						out = append(out, jumpJSON{j.Page, j.Points.String()})
					}
					return writeJSON(cmd, out)
				}
				rows := make([][]string, 0, len(jumps))
				for _, j := range jumps {
					rows = append(rows, []string{itoa(j.Page), j.Points.String()})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "Target", "Points"}, numbered(rows), []columnAlignment{alignRight, alignRight}))
				return nil
			})
		},
	}
	list.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")

	add := &cobra.Command{
		Use:   "add <page> <target> <points>",
		Short: "Add a jump to page target; points are \"x,y x,y ...\"",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePage(args[0])
			if err != nil {
				return err
			}
			target, err := parsePage(args[1])
			if err != nil {
				return err
			}
			points, err := parseShape(args[2])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				page, err := s.Page(n)
				if err != nil {
					return err
				}
				jumps, pos, err := insertShape(*page.Jumps, acbf.Jump{Page: target, Points: points}, 0)
				if err != nil {
					return err
				}
				if err := s.SetJumps(n, jumps); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Jump %d on page %d leads to page %d\n", pos, n, target)
				return nil
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <page> <jump>",
		Short: "Remove a jump",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePage(args[0])
			if err != nil {
				return err
			}
			i, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				page, err := s.Page(n)
				if err != nil {
					return err
				}
				jumps, err := removeShape(*page.Jumps, i)
				if err != nil {
					return err
				}
				return s.SetJumps(n, jumps)
			})
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}
