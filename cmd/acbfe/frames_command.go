package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"acbfe/internal/acbf"
	"acbfe/internal/comic"
	"acbfe/internal/cv"
	"acbfe/internal/logging"
	"acbfe/internal/panels"
)

func newFramesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frames",
		Short: "List, draw, reorder, detect or clear page frames",
	}
	cmd.AddCommand(
		newFramesListCommand(ctx),
		newFramesAddCommand(ctx),
		newFramesRemoveCommand(ctx),
		newFramesMoveCommand(ctx),
		newFramesDetectCommand(ctx),
		newFramesClearCommand(ctx),
	)
	return cmd
}

func newFramesListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "list <page>",
		Short: "List the frames of a page",
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
				frames := *page.Frames
				if jsonOut {
					out := make([]string, 0, len(frames))
					for _, f := range frames {
						out = append(out, f.Points.String())
					}
					return writeJSON(cmd, out)
				}
				rows := make([][]string, 0, len(frames))
				for _, f := range frames {
					rows = append(rows, []string{f.Points.String(), f.BgColor})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "Points", "Background"}, numbered(rows), []columnAlignment{alignRight}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}

func newFramesAddCommand(ctx *commandContext) *cobra.Command {
	var bgcolor string
	var at int
	cmd := &cobra.Command{
		Use:   "add <page> <points>",
		Short: "Add a frame; points are \"x,y x,y ...\"",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePage(args[0])
			if err != nil {
				return err
			}
			points, err := parseShape(args[1])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				page, err := s.Page(n)
				if err != nil {
					return err
				}
				frames, pos, err := insertShape(*page.Frames, acbf.Frame{Points: points, BgColor: strings.TrimSpace(bgcolor)}, at)
				if err != nil {
					return err
				}
				if err := s.SetFrames(n, frames); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Frame %d on page %d\n", pos, n)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&bgcolor, "bgcolor", "", "Frame background colour")
	cmd.Flags().IntVar(&at, "at", 0, "Insert at this position instead of appending")
	return cmd
}

func newFramesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <page> <frame>",
		Short: "Remove a frame",
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
				frames, err := removeShape(*page.Frames, i)
				if err != nil {
					return err
				}
				return s.SetFrames(n, frames)
			})
		},
	}
}

func newFramesMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <page> <from> <to>",
		Short: "Change the reading order of a frame",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePage(args[0])
			if err != nil {
				return err
			}
			from, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			to, err := parseIndex(args[2])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				page, err := s.Page(n)
				if err != nil {
					return err
				}
				frames, err := moveShape(*page.Frames, from, to)
				if err != nil {
					return err
				}
				return s.SetFrames(n, frames)
			})
		},
	}
}

// parseShape parses a frame or jump outline of at least three points.
func parseShape(arg string) (acbf.Polygon, error) {
	points, err := acbf.ParsePolygon(arg)
	if err != nil {
		return nil, err
	}
	if len(points) < 3 {
		return nil, fmt.Errorf("outline needs at least 3 points, got %d", len(points))
	}
	return points, nil
}

// parseIndex parses a 1-based position as printed by the list commands.
func parseIndex(arg string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || i < 1 {
		return 0, fmt.Errorf("invalid position %q", arg)
	}
	return i, nil
}

// insertShape puts item at 1-based position at, or appends it when at is 0.
// It returns the new list and the position used.
func insertShape[T any](items []T, item T, at int) ([]T, int, error) {
	out := slices.Clone(items)
	if at == 0 {
		return append(out, item), len(out) + 1, nil
	}
	if at < 1 || at > len(out)+1 {
		return nil, 0, fmt.Errorf("position %d out of range 1..%d", at, len(out)+1)
	}
	return slices.Insert(out, at-1, item), at, nil
}

func removeShape[T any](items []T, i int) ([]T, error) {
	if i < 1 || i > len(items) {
		return nil, fmt.Errorf("position %d out of range 1..%d", i, len(items))
	}
	return slices.Delete(slices.Clone(items), i-1, i), nil
}

func moveShape[T any](items []T, from, to int) ([]T, error) {
	if from < 1 || from > len(items) {
		return nil, fmt.Errorf("position %d out of range 1..%d", from, len(items))
	}
	if to < 1 || to > len(items) {
		return nil, fmt.Errorf("position %d out of range 1..%d", to, len(items))
	}
	item := items[from-1]
	out := slices.Delete(slices.Clone(items), from-1, from)
	return slices.Insert(out, to-1, item), nil
}

// pageRange returns the page given as argument, or every page when all is set.
func pageRange(s *comic.Session, args []string, all bool) ([]int, error) {
	if all {
		pages := make([]int, 0, s.Doc.PageCount())
		for n := 1; n <= s.Doc.PageCount(); n++ {
			pages = append(pages, n)
		}
		return pages, nil
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("give a page number or --all")
	}
	n, err := parsePage(args[0])
	if err != nil {
		return nil, err
	}
	return []int{n}, nil
}

func newFramesDetectCommand(ctx *commandContext) *cobra.Command {
	var all bool
	var method string
	var minArea float64

	cmd := &cobra.Command{
		Use:   "detect [page]",
		Short: "Detect panels and store them as frames",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detector, err := newDetector(ctx, method)
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				pages, err := pageRange(s, args, all)
				if err != nil {
					return err
				}
				for _, n := range pages {
					count, err := detectFrames(cmd.Context(), s, detector, n, minArea)
					if err != nil {
						if all {
							logging.WarnWithContext(ctx.log(), "panel detection failed", "frames_detect_failed",
								logging.Int(logging.FieldPage, n),
								logging.Error(err),
								logging.String(logging.FieldImpact, "page keeps its previous frames"),
							)
							continue
						}
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Page %d: %d frames\n", n, count)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Detect on every page")
	cmd.Flags().StringVar(&method, "method", "kumiko", "Detector: kumiko or opencv")
	cmd.Flags().Float64Var(&minArea, "min-area", 0.01, "Ignore panels smaller than this share of the page")
	return cmd
}

func newDetector(ctx *commandContext, method string) (panels.Detector, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "", "kumiko":
		return panels.NewKumiko(panels.WithBinary(cfg.Tools.Kumiko)), nil
	case "opencv", "cv":
		return cv.NewPanelDetector(), nil
	}
	return nil, fmt.Errorf("unknown detector %q (want kumiko or opencv)", method)
}

func detectFrames(ctx context.Context, s *comic.Session, detector panels.Detector, n int, minArea float64) (int, error) {
	path, local, err := s.PageImagePath(n)
	if err != nil {
		return 0, err
	}
	img, _, err := s.PageImage(ctx, n)
	if err != nil {
		return 0, err
	}
	if !local {
		path = ""
	}
	found, err := detector.Detect(ctx, img, path)
	if err != nil {
		return 0, fmt.Errorf("page %d: %w", n, err)
	}
	b := img.Bounds()
	found = panels.Filter(found, int(float64(b.Dx()*b.Dy())*minArea))
	found = panels.Order(found, s.Doc.MetaData.BookInfo.ReadingDirection)
	if err := s.SetFrames(n, panels.ToFrames(found)); err != nil {
		return 0, err
	}
	return len(found), nil
}

func newFramesClearCommand(ctx *commandContext) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "clear [page]",
		Short: "Remove frames",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				pages, err := pageRange(s, args, all)
				if err != nil {
					return err
				}
				for _, n := range pages {
					if err := s.SetFrames(n, nil); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Clear every page")
	return cmd
}
