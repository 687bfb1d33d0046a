package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"acbfe/internal/toolexec"
)

// Format identifies an archive container.
type Format string

const (
	FormatUnknown  Format = ""
	FormatZip      Format = "zip"
	FormatRar      Format = "rar"
	FormatSevenZip Format = "7z"
)

// ErrUnsupported reports a file that is not a supported archive.
var ErrUnsupported = errors.New("unsupported archive format")

var (
	zipMagic      = []byte("PK\x03\x04")
	zipEmptyMagic = []byte("PK\x05\x06")
	rarMagic      = []byte("Rar!\x1a\x07")
	sevenZipMagic = []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}
)

// Detect inspects the file header, falling back to the extension for RAR
// and 7z archives whose header could not be read.
func Detect(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	header := make([]byte, 8)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return FormatUnknown, fmt.Errorf("read archive header: %w", err)
	}
	header = header[:n]
	switch {
	case bytes.HasPrefix(header, zipMagic), bytes.HasPrefix(header, zipEmptyMagic):
		return FormatZip, nil
	case bytes.HasPrefix(header, rarMagic):
		return FormatRar, nil
	case bytes.HasPrefix(header, sevenZipMagic):
		return FormatSevenZip, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cbr", ".rar":
		return FormatRar, nil
	case ".cb7", ".7z":
		return FormatSevenZip, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
}

// IsArchive reports whether path looks like a supported archive.
func IsArchive(path string) bool {
	format, err := Detect(path)
	return err == nil && format != FormatUnknown
}

// Progress receives the number of processed entries out of total. Total is
// zero when the external tool does not report it.
type Progress func(done, total int)

// Option configures an Extractor.
type Option func(*Extractor)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec toolexec.Executor) Option {
	return func(e *Extractor) {
		if exec != nil {
			e.exec = exec
		}
	}
}

// WithTools overrides the unrar and 7z commands.
func WithTools(unrar, sevenZip string) Option {
	return func(e *Extractor) {
		if strings.TrimSpace(unrar) != "" {
			e.unrar = unrar
		}
		if strings.TrimSpace(sevenZip) != "" {
			e.sevenZip = sevenZip
		}
	}
}

// Extractor unpacks archives into a directory.
type Extractor struct {
	unrar    string
	sevenZip string
	exec     toolexec.Executor
}

// NewExtractor constructs an extractor using unrar and 7z from PATH by default.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{unrar: "unrar", sevenZip: "7z", exec: toolexec.Command{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract unpacks src into dst, which must exist.
func (e *Extractor) Extract(ctx context.Context, src, dst string, progress Progress) error {
	format, err := Detect(src)
	if err != nil {
		return err
	}
	switch format {
	case FormatZip:
		return extractZip(ctx, src, dst, progress)
	case FormatRar:
		return e.runTool(ctx, e.unrar, []string{"x", "-o+", "-y", src, ensureTrailingSep(dst)}, progress)
	case FormatSevenZip:
		return e.runTool(ctx, e.sevenZip, []string{"x", "-y", "-bb1", "-o" + dst, src}, progress)
	}
	return fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(src))
}

func (e *Extractor) runTool(ctx context.Context, binary string, args []string, progress Progress) error {
	done := 0
	err := e.exec.Run(ctx, binary, args, func(line string) {
		if !isExtractLine(line) {
			return
		}
		done++
		if progress != nil {
			progress(done, 0)
		}
	})
	if err != nil {
		return fmt.Errorf("extract with %s: %w", binary, err)
	}
	return nil
}

// isExtractLine matches the per-file lines of unrar ("Extracting  name  OK")
// and 7z -bb1 ("- name").
func isExtractLine(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, "Extracting ") || strings.HasPrefix(line, "- ")
}

func ensureTrailingSep(dir string) string {
	if strings.HasSuffix(dir, string(os.PathSeparator)) {
		return dir
	}
	return dir + string(os.PathSeparator)
}
