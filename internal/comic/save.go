package comic

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"acbfe/internal/acbf"
	"acbfe/internal/archive"
	"acbfe/internal/fileutil"
	"acbfe/internal/logging"
)

// SaveReport compares the size of the saved book with the original file.
type SaveReport struct {
	Output      string  `json:"output"`
	InputBytes  int64   `json:"input_bytes"`
	OutputBytes int64   `json:"output_bytes"`
	Ratio       float64 `json:"ratio"`
}

// SaveTo normalises the document and writes it to out. A .acbf output
// receives only the XML; anything else is written as a CBZ archive holding
// the document and its files.
func (s *Session) SaveTo(ctx context.Context, out string, progress archive.Progress) (SaveReport, error) {
	if err := ctx.Err(); err != nil {
		return SaveReport{}, err
	}
	out, err := filepath.Abs(out)
	if err != nil {
		return SaveReport{}, fmt.Errorf("resolve output: %w", err)
	}
	s.Doc.Normalize(s.now())

	if strings.EqualFold(filepath.Ext(out), ".acbf") {
		if err := s.Doc.Save(out); err != nil {
			return SaveReport{}, err
		}
	} else {
		if err := s.packTo(ctx, out, progress); err != nil {
			return SaveReport{}, err
		}
	}
	s.modified = false

	report := SaveReport{Output: out, InputBytes: s.OriginalSize, OutputBytes: fileutil.Size(out)}
	if report.InputBytes > 0 {
		report.Ratio = float64(report.OutputBytes) / float64(report.InputBytes) * 100
	}
	s.logger.Info("comic saved",
		logging.String("output", out),
		logging.Int64("input_bytes", report.InputBytes),
		logging.Int64("output_bytes", report.OutputBytes),
	)
	return report, nil
}

func (s *Session) packTo(ctx context.Context, out string, progress archive.Progress) error {
	if s.fromArchive {
		if err := s.Doc.Save(s.ACBFPath); err != nil {
			return err
		}
		return archive.Pack(ctx, s.ws.Dir(), out, progress)
	}
	if err := s.stage(); err != nil {
		return err
	}
	return archive.Pack(ctx, s.ws.Dir(), out, progress)
}

// stage copies a bare document and the local files it references into the
// workspace so they can be packed together.
func (s *Session) stage() error {
	if err := s.ws.Clear(); err != nil {
		return err
	}
	if err := s.Doc.Save(s.ws.Path(filepath.Base(s.ACBFPath))); err != nil {
		return err
	}
	for _, href := range s.localImages() {
		src := s.localPath(href)
		dst, err := fileutil.SafeJoin(s.ws.Dir(), acbf.ParseImageURI(href).FilePath)
		if err != nil {
			return err
		}
		if err := fileutil.CopyFile(src, dst); err != nil {
			return fmt.Errorf("stage %s: %w", href, err)
		}
	}
	return s.extractFonts()
}

func (s *Session) localImages() []string {
	seen := make(map[string]struct{})
	var hrefs []string
	add := func(href string) {
		if href == "" || acbf.ParseImageURI(href).Kind != acbf.URILocal {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		hrefs = append(hrefs, href)
	}
	add(s.Doc.MetaData.BookInfo.Coverpage.Image.Href)
	for _, p := range s.Doc.Body.Pages {
		add(p.Image.Href)
	}
	return hrefs
}

// Save writes the document back to where it came from.
func (s *Session) Save(ctx context.Context, progress archive.Progress) (SaveReport, error) {
	return s.SaveTo(ctx, s.SourcePath, progress)
}
