package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"acbfe/internal/comic"
	"acbfe/internal/convert"
	"acbfe/internal/fonts"
	"acbfe/internal/imaging"
	"acbfe/internal/logging"
	"acbfe/internal/textlayer"
	"acbfe/internal/toolexec"
)

type batchFlags struct {
	format    string
	quality   int
	resize    string
	filter    string
	textLayer string
}

func (f batchFlags) options(workers int, defaultFilter string) (convert.Options, error) {
	opts := convert.Options{Quality: f.quality, TextLayer: strings.TrimSpace(f.textLayer), Workers: workers}
	if f.format != "" {
		format, err := imaging.ParseFormat(f.format)
		if err != nil {
			return opts, err
		}
		opts.Format = format
	}
	if f.resize != "" {
		g, err := imaging.ParseGeometry(f.resize)
		if err != nil {
			return opts, err
		}
		opts.Geometry = &g
	}
	filter := f.filter
	if filter == "" {
		filter = defaultFilter
	}
	parsed, err := imaging.ParseFilter(filter)
	if err != nil {
		return opts, err
	}
	opts.Filter = parsed
	return opts, opts.Validate()
}

// runBatch opens the input, converts its pages and writes the output, the
// way the editor's command line mode has always worked.
func runBatch(cmd *cobra.Command, ctx *commandContext, flags batchFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	opts, err := flags.options(cfg.Convert.Workers, cfg.Convert.DefaultFilter)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	s, err := ctx.openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if opts.Active() {
		if opts.TextLayer != "" {
			opts.FontLookup = fontLookup(cmd, ctx, s)
		}
		fmt.Fprintln(out, "Converting images ...")
		result, err := convert.Run(cmd.Context(), s, opts, func(p convert.Progress) {
			fmt.Fprintln(out, p.String())
		})
		if err != nil {
			return err
		}
		ctx.log().Info("batch conversion finished",
			logging.Int("pages", result.Pages),
			logging.Int("converted", result.Converted),
			logging.Int("resized", result.Resized),
		)
	}

	target, err := ctx.output(s.SourcePath)
	if err != nil {
		return err
	}
	bar := newProgress(cmd.ErrOrStderr(), "packing")
	report, err := s.SaveTo(cmd.Context(), target, bar.update)
	bar.finish()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %s\n", report.Output)
	fmt.Fprintln(out, convert.Report(report.InputBytes, report.OutputBytes))
	return nil
}

// fontLookup resolves stylesheet families against the book's embedded fonts
// and the fonts installed on the system.
func fontLookup(cmd *cobra.Command, ctx *commandContext, s *comic.Session) textlayer.FontLookup {
	cfg := ctx.configValue()
	dirs := append([]string{s.FontsPath()}, fonts.DefaultDirs()...)
	list, err := fonts.Discover(cmd.Context(), toolexec.Command{}, dirs, fonts.WithFcList(cfg.Tools.FcList))
	if err != nil {
		logging.WarnWithContext(ctx.log(), "font discovery failed", "font_discovery_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "text layers render with the built-in fonts"),
		)
		return nil
	}
	return fonts.Lookup(list)
}
