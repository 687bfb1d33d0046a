package comic

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"acbfe/internal/acbf"
	"acbfe/internal/acv"
	"acbfe/internal/archive"
	"acbfe/internal/comicinfo"
	"acbfe/internal/config"
	"acbfe/internal/fileutil"
	"acbfe/internal/imaging"
	"acbfe/internal/logging"
	"acbfe/internal/workspace"
)

// FontsDir is the workspace directory embedded fonts are extracted to.
const FontsDir = "Fonts"

var (
	// ErrPageOutOfRange reports a page number outside 1..PageCount.
	ErrPageOutOfRange = errors.New("page out of range")
	// ErrCoverPage reports an operation that only applies to body pages.
	ErrCoverPage = errors.New("operation not supported on the cover page")
)

// Options configures Open.
type Options struct {
	Config     *config.Config
	Logger     *slog.Logger
	Extractor  *archive.Extractor
	HTTPClient *http.Client
	Progress   archive.Progress
	Now        func() time.Time
}

// Session is an open comic book.
type Session struct {
	Doc          *acbf.Document
	BaseDir      string
	ACBFPath     string
	SourcePath   string
	OriginalSize int64

	fromArchive bool
	modified    bool
	ws          *workspace.Workspace
	cfg         *config.Config
	logger      *slog.Logger
	http        *http.Client
	now         func() time.Time
}

// Open prepares path for editing.
func Open(ctx context.Context, path string, opts Options) (*Session, error) {
	if opts.Config == nil {
		return nil, errors.New("comic session requires configuration")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open comic: %w", err)
	}

	ctx = logging.WithComic(ctx, filepath.Base(abs))
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "comic"))

	ws, err := workspace.New(opts.Config, logger)
	if err != nil {
		return nil, err
	}
	s := &Session{
		SourcePath:   abs,
		OriginalSize: info.Size(),
		ws:           ws,
		cfg:          opts.Config,
		logger:       logger,
		http:         opts.HTTPClient,
		now:          opts.Now,
	}
	if s.http == nil {
		s.http = &http.Client{Timeout: 30 * time.Second}
	}
	if s.now == nil {
		s.now = time.Now
	}

	if strings.EqualFold(filepath.Ext(abs), ".acbf") {
		err = s.openDocument(abs)
	} else {
		err = s.openArchive(ctx, abs, opts)
	}
	if err != nil {
		_ = ws.Cleanup()
		return nil, err
	}
	if err := s.extractFonts(); err != nil {
		logging.WarnWithContext(logger, "embedded fonts not extracted", "font_extract_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check workspace permissions"),
			logging.String(logging.FieldImpact, "text layers render with fallback fonts"),
		)
	}
	logger.Info("comic opened",
		logging.String("acbf", s.ACBFPath),
		logging.Int("pages", s.Doc.PageCount()),
		logging.Bool("archive", s.fromArchive),
	)
	return s, nil
}

func (s *Session) openDocument(path string) error {
	doc, err := acbf.Load(path)
	if err != nil {
		return err
	}
	s.Doc = doc
	s.ACBFPath = path
	s.BaseDir = filepath.Dir(path)
	return nil
}

func (s *Session) openArchive(ctx context.Context, path string, opts Options) error {
	if err := s.ws.Clear(); err != nil {
		return err
	}
	extractor := opts.Extractor
	if extractor == nil {
		extractor = archive.NewExtractor(archive.WithTools(s.cfg.Tools.Unrar, s.cfg.Tools.SevenZip))
	}
	if err := extractor.Extract(ctx, path, s.ws.Dir(), opts.Progress); err != nil {
		return fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}
	s.fromArchive = true
	s.BaseDir = s.ws.Dir()

	if found, ok, err := topLevelACBF(s.ws.Dir()); err != nil {
		return err
	} else if ok {
		return s.openDocument(found)
	}

	doc, err := s.synthesize()
	if err != nil {
		return err
	}
	s.Doc = doc
	base := filepath.Base(path)
	s.ACBFPath = s.ws.Path(strings.TrimSuffix(base, filepath.Ext(base)) + ".acbf")
	s.modified = true
	return doc.Save(s.ACBFPath)
}

func topLevelACBF(dir string) (string, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false, fmt.Errorf("read workspace: %w", err)
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.EqualFold(filepath.Ext(entry.Name()), ".acbf") {
			return filepath.Join(dir, entry.Name()), true, nil
		}
	}
	return "", false, nil
}

// synthesize builds a document for an archive without ACBF metadata.
func (s *Session) synthesize() (*acbf.Document, error) {
	files, err := s.ws.Files()
	if err != nil {
		return nil, err
	}
	acvPath := s.ws.Path(acv.FileName)
	hasACV := fileutil.Exists(acvPath)

	var images []string
	for _, name := range files {
		if acbf.IsImageName(name) {
			images = append(images, name)
		}
	}
	sort.Strings(images)

	doc := acbf.New()
	for i, name := range images {
		if i == 0 {
			doc.MetaData.BookInfo.Coverpage.Image.Href = name
			continue
		}
		if hasACV && strings.Contains(name, "/") {
			continue
		}
		doc.Body.Pages = append(doc.Body.Pages, acbf.Page{Image: acbf.ImageRef{Href: name}})
	}
	if dir := strings.ToUpper(strings.TrimSpace(s.cfg.Editor.ReadingDirection)); dir != "" {
		doc.MetaData.BookInfo.ReadingDirection = dir
	}
	if first, last := s.cfg.Author.FirstName, s.cfg.Author.LastName; first != "" || last != "" || s.cfg.Author.Nickname != "" {
		doc.MetaData.DocumentInfo.Authors = append(doc.MetaData.DocumentInfo.Authors, acbf.Author{
			FirstName:  first,
			MiddleName: s.cfg.Author.MiddleName,
			LastName:   last,
			Nickname:   s.cfg.Author.Nickname,
		})
	}

	switch {
	case hasACV:
		comic, err := acv.Load(acvPath)
		if err != nil {
			return nil, err
		}
		if err := comic.Apply(doc, s.localImageSize); err != nil {
			return nil, err
		}
		s.logger.Info("imported acv frames", logging.Int("screens", len(comic.Screens)))
	case fileutil.Exists(s.ws.Path(comicinfo.FileName)):
		info, err := comicinfo.Load(s.ws.Path(comicinfo.FileName))
		if err != nil {
			logging.WarnWithContext(s.logger, "ComicInfo.xml ignored", "comicinfo_parse_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "book metadata left empty"),
			)
			break
		}
		info.Apply(doc)
		s.logger.Info("imported ComicInfo.xml metadata")
	}
	if len(doc.MetaData.BookInfo.Languages) == 0 && s.cfg.Editor.DefaultLanguage != "" {
		doc.MetaData.BookInfo.Languages = []acbf.LanguageLayer{{Lang: s.cfg.Editor.DefaultLanguage, Show: false}}
	}
	return doc, nil
}

func (s *Session) localImageSize(href string) (image.Point, error) {
	return imaging.Size(s.localPath(href))
}

// extractFonts writes embedded font binaries to the Fonts directory of the
// workspace, after copying any Fonts directory shipped next to the document.
func (s *Session) extractFonts() error {
	dst := s.ws.Path(FontsDir)
	if !s.fromArchive {
		src := filepath.Join(s.BaseDir, FontsDir)
		if entries, err := os.ReadDir(src); err == nil {
			for _, entry := range entries {
				if !entry.Type().IsRegular() {
					continue
				}
				if err := fileutil.CopyFile(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
					return err
				}
			}
		}
	}
	fonts := s.Doc.Fonts()
	if len(fonts) == 0 {
		return nil
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("create fonts dir: %w", err)
	}
	for _, font := range fonts {
		data, err := font.Bytes()
		if err != nil {
			return fmt.Errorf("decode font %s: %w", font.ID, err)
		}
		target, err := fileutil.SafeJoin(dst, font.ID)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("write font %s: %w", font.ID, err)
		}
	}
	return nil
}

// FontsPath returns the directory holding the fonts available to the document.
func (s *Session) FontsPath() string {
	return s.ws.Path(FontsDir)
}

// WorkDir returns the session workspace directory.
func (s *Session) WorkDir() string {
	return s.ws.Dir()
}

// FromArchive reports whether the session was opened from an archive.
func (s *Session) FromArchive() bool {
	return s.fromArchive
}

// Modified reports whether the document changed since it was opened or saved.
func (s *Session) Modified() bool {
	return s.modified
}

// MarkModified records an edit made directly on Doc.
func (s *Session) MarkModified() {
	s.modified = true
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// Close removes the workspace.
func (s *Session) Close() error {
	if s == nil || s.ws == nil {
		return nil
	}
	return s.ws.Cleanup()
}

// localPath resolves a local href against the base directory.
func (s *Session) localPath(href string) string {
	return filepath.Join(s.BaseDir, filepath.FromSlash(acbf.ParseImageURI(href).FilePath))
}

// containedPath is localPath for files that will be written or removed:
// hrefs leaving the base directory are refused.
func (s *Session) containedPath(href string) (string, error) {
	path, err := fileutil.SafeJoin(s.BaseDir, acbf.ParseImageURI(href).FilePath)
	if err != nil {
		return "", fmt.Errorf("image %q: %w", href, err)
	}
	return path, nil
}
