package main

import (
	"errors"
	"fmt"
	"image"
	"strconv"

	"github.com/spf13/cobra"

	"acbfe/internal/acbf"
	"acbfe/internal/comic"
	"acbfe/internal/cv"
	"acbfe/internal/logging"
	"acbfe/internal/ocr"
)

func newBubbleCommand(ctx *commandContext) *cobra.Command {
	var lang, text, kind string
	var useOCR, dryRun bool

	cmd := &cobra.Command{
		Use:   "bubble <page> <x> <y>",
		Short: "Detect the speech bubble around a point and add it as a text area",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePage(args[0])
			if err != nil {
				return err
			}
			x, errX := strconv.Atoi(args[1])
			y, errY := strconv.Atoi(args[2])
			if errX != nil || errY != nil {
				return fmt.Errorf("invalid point %s,%s", args[1], args[2])
			}
			return ctx.withSession(cmd, !dryRun, func(s *comic.Session) error {
				img, _, err := s.PageImage(cmd.Context(), n)
				if err != nil {
					return err
				}
				poly, err := cv.DetectBubble(img, image.Pt(x, y))
				if err != nil {
					return fmt.Errorf("page %d: %w", n, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), poly.String())
				if dryRun {
					return nil
				}

				content := text
				if useOCR && content == "" {
					content, err = recognize(ctx, img, poly)
					if err != nil {
						if !errors.Is(err, ocr.ErrOCRNotEnabled) {
							return err
						}
						logging.WarnWithContext(ctx.log(), "bubble text not recognized", "ocr_unavailable",
							logging.Error(err),
							logging.String(logging.FieldErrorHint, "build with -tags ocr and install tesseract"),
							logging.String(logging.FieldImpact, "text area added without text"),
						)
					}
				}
				i, err := s.SetTextArea(n, langOrDefault(ctx, lang), -1, comic.TextAreaInput{Points: poly, Text: content, Type: kind})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Text area %d on page %d\n", i, n)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "Text layer language")
	cmd.Flags().StringVar(&text, "text", "", "Text of the new area")
	cmd.Flags().StringVar(&kind, "type", "", "Text area type")
	cmd.Flags().BoolVar(&useOCR, "ocr", false, "Recognize the bubble text with Tesseract")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only print the detected polygon")
	return cmd
}

func recognize(ctx *commandContext, img image.Image, poly acbf.Polygon) (string, error) {
	client, err := ocr.New(ctx.configValue().Tools.TesseractLang)
	if err != nil {
		return "", err
	}
	defer client.Close()
	return client.RecognizeRegion(img, poly)
}
