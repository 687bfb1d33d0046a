package main

import (
	"github.com/spf13/cobra"

	"acbfe/internal/comic"
	"acbfe/internal/viewer"
)

func newViewCommand(ctx *commandContext) *cobra.Command {
	var page int
	var frames, render bool
	var lang string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the book in a page viewer window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, false, func(s *comic.Session) error {
				opts := viewer.Options{
					StartPage:  page,
					Frames:     frames,
					Lang:       lang,
					FrameColor: cfg.Colors.Frames,
					TextColor:  cfg.Colors.TextLayers,
					Render:     render,
				}
				if render {
					opts.FontLookup = fontLookup(cmd, ctx, s)
				}
				return viewer.Run(cmd.Context(), s, opts)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page to start on")
	cmd.Flags().BoolVar(&frames, "frames", false, "Show frame outlines")
	cmd.Flags().StringVar(&lang, "lang", "", "Text layer to show")
	cmd.Flags().BoolVar(&render, "render", false, "Render text layers instead of outlining them")
	return cmd
}
