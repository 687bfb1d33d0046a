package fonts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font/sfnt"

	"acbfe/internal/acbf"
	"acbfe/internal/textutil"
	"acbfe/internal/toolexec"
)

// Font is an installed or bundled font file.
type Font struct {
	Path   string `json:"path"`
	Family string `json:"family"`
	Style  string `json:"style"`
}

// Option configures Discover.
type Option func(*discoverer)

type discoverer struct {
	fcList string
}

// WithFcList overrides the fc-list command.
func WithFcList(binary string) Option {
	return func(d *discoverer) {
		if strings.TrimSpace(binary) != "" {
			d.fcList = binary
		}
	}
}

// DefaultDirs returns the standard font directories on this machine.
func DefaultDirs() []string {
	dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".fonts"), filepath.Join(home, ".local", "share", "fonts"))
	}
	return dirs
}

// Discover lists fonts reported by fc-list plus every font file below dirs.
// Families of walked files are read from their name tables. A missing or
// failing fc-list is not an error.
func Discover(ctx context.Context, exec toolexec.Executor, dirs []string, opts ...Option) ([]Font, error) {
	d := discoverer{fcList: "fc-list"}
	for _, opt := range opts {
		opt(&d)
	}

	byPath := map[string]Font{}
	if lines, err := toolexec.Output(ctx, exec, d.fcList, ":", "file", "family", "style"); err == nil {
		for _, line := range lines {
			if f, ok := ParseFcListLine(line); ok {
				byPath[f.Path] = f
			}
		}
	} else if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(p string, entry fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
					return fs.SkipDir
				}
				return err
			}
			if entry.IsDir() || !IsFontFile(p) {
				return nil
			}
			if _, ok := byPath[p]; ok {
				return nil
			}
			f, err := ReadFont(p)
			if err != nil {
				return nil
			}
			byPath[p] = f
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	out := make([]Font, 0, len(byPath))
	for _, f := range byPath {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Family != out[j].Family {
			return out[i].Family < out[j].Family
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}

// ParseFcListLine parses "path: Family[,Alias]:style=Style[,Alias]".
func ParseFcListLine(line string) (Font, bool) {
	path, rest, ok := strings.Cut(strings.TrimSpace(line), ": ")
	if !ok || path == "" {
		return Font{}, false
	}
	family, style, _ := strings.Cut(rest, ":style=")
	family, _, _ = strings.Cut(family, ",")
	style, _, _ = strings.Cut(style, ",")
	family = strings.TrimSpace(family)
	if family == "" {
		return Font{}, false
	}
	return Font{Path: path, Family: family, Style: strings.TrimSpace(style)}, true
}

// IsFontFile reports whether name has a TrueType or OpenType extension.
func IsFontFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}

// ReadFont reads the family and subfamily names of the font at path.
func ReadFont(path string) (Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Font{}, err
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return Font{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	var buf sfnt.Buffer
	family, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil || family == "" {
		family = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	style, err := f.Name(&buf, sfnt.NameIDSubfamily)
	if err != nil {
		style = ""
	}
	return Font{Path: path, Family: family, Style: style}, nil
}

// Find returns the font whose family (or file name) matches family, preferring
// a Regular style.
func Find(fonts []Font, family string) (Font, bool) {
	family = strings.TrimSpace(strings.Trim(family, `"'`))
	var found *Font
	for i := range fonts {
		f := &fonts[i]
		if !strings.EqualFold(f.Family, family) && !strings.EqualFold(filepath.Base(f.Path), family) {
			continue
		}
		if found == nil || isRegular(f.Style) && !isRegular(found.Style) {
			found = f
		}
	}
	if found == nil {
		return Font{}, false
	}
	return *found, true
}

func isRegular(style string) bool {
	switch strings.ToLower(style) {
	case "regular", "book", "normal", "roman":
		return true
	}
	return false
}

// Lookup adapts a font list to the path resolver the text renderer takes.
func Lookup(fonts []Font) func(string) (string, bool) {
	return func(family string) (string, bool) {
		f, ok := Find(fonts, family)
		return f.Path, ok
	}
}

// Embed adds the font file at path to doc as a binary and returns its id.
func Embed(doc *acbf.Document, path string) (string, error) {
	if !IsFontFile(path) {
		return "", fmt.Errorf("embed font: %s is not a TrueType or OpenType file", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("embed font: %w", err)
	}
	if _, err := sfnt.Parse(data); err != nil {
		return "", fmt.Errorf("embed font %s: %w", filepath.Base(path), err)
	}
	id := textutil.SanitizeFileName(filepath.Base(path))
	doc.RemoveBinary(id)
	doc.AddBinary(id, acbf.ContentTypeForExt(path), data)
	return id, nil
}
