package main

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"acbfe/internal/comic"
	"acbfe/internal/imaging"
	"acbfe/internal/overlay"
	"acbfe/internal/textlayer"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var target, lang string
	var frames, outline bool
	var size, quality int

	cmd := &cobra.Command{
		Use:   "render <page>",
		Short: "Render a page with its text layer or overlays to an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePage(args[0])
			if err != nil {
				return err
			}
			if target == "" {
				return fmt.Errorf("--to is required")
			}
			format, err := imaging.FormatOf(target)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, false, func(s *comic.Session) error {
				img, _, err := s.PageImage(cmd.Context(), n)
				if err != nil {
					return err
				}
				page, err := s.Page(n)
				if err != nil {
					return err
				}
				fc, tc := overlay.Colors(cfg.Colors.Frames, cfg.Colors.TextLayers)
				opts := overlay.Options{Frames: frames, FrameColor: fc, TextLang: lang, TextColor: tc}
				if lang != "" && !outline {
					opts.Renderer = textlayer.New(s.Doc.Stylesheet(), fontLookup(cmd, ctx, s))
				}
				var out image.Image = img
				if frames || lang != "" {
					out, err = overlay.Compose(img, page, opts)
					if err != nil {
						return err
					}
				}
				if size > 0 {
					out = imaging.Thumbnail(out, size)
				}
				if err := imaging.Save(target, out, format, quality); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&target, "to", "", "Image file to write; the extension selects the format")
	cmd.Flags().StringVar(&lang, "lang", "", "Text layer to draw")
	cmd.Flags().BoolVar(&frames, "frames", false, "Outline frames")
	cmd.Flags().BoolVar(&outline, "outline", false, "Outline text areas instead of rendering the text")
	cmd.Flags().IntVar(&size, "size", 0, "Fit the result into a square of this many pixels")
	cmd.Flags().IntVar(&quality, "quality", 0, "Encoder quality 1-100")
	return cmd
}
