package textlayer

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"acbfe/internal/acbf"
)

// FontLookup resolves a stylesheet font family to a font file.
type FontLookup func(family string) (path string, ok bool)

type fontCache struct {
	mu      sync.Mutex
	sheet   acbf.Stylesheet
	lookup  FontLookup
	byStyle map[string]*opentype.Font
}

func fallbackData(style string) []byte {
	switch style {
	case "strong", "heading":
		return gobold.TTF
	case "emphasis", "thought":
		return goitalic.TTF
	case "code":
		return gomono.TTF
	}
	return goregular.TTF
}

// font returns the parsed font for style. Unknown or unreadable families
// fall back to the Go fonts.
func (c *fontCache) font(style string) (*opentype.Font, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.byStyle[style]; ok {
		return f, nil
	}
	var f *opentype.Font
	if family := c.sheet.Font(style); family != "" && c.lookup != nil {
		if path, ok := c.lookup(family); ok {
			if data, err := os.ReadFile(path); err == nil {
				f, _ = opentype.Parse(data)
			}
		}
	}
	if f == nil {
		parsed, err := opentype.Parse(fallbackData(style))
		if err != nil {
			return nil, fmt.Errorf("parse fallback font: %w", err)
		}
		f = parsed
	}
	c.byStyle[style] = f
	return f, nil
}

// faceSet holds the faces of one layout attempt. Faces are not safe for
// concurrent use, so every render builds its own set.
type faceSet struct {
	cache *fontCache
	size  float64
	faces map[faceKey]font.Face
}

type faceKey struct {
	style string
	small bool
}

func newFaceSet(cache *fontCache, size float64) *faceSet {
	return &faceSet{cache: cache, size: size, faces: map[faceKey]font.Face{}}
}

func (s *faceSet) face(style string, small bool) (font.Face, error) {
	key := faceKey{style, small}
	if f, ok := s.faces[key]; ok {
		return f, nil
	}
	ttf, err := s.cache.font(style)
	if err != nil {
		return nil, err
	}
	size := s.size
	if small {
		size = max(1, size/2)
	}
	face, err := opentype.NewFace(ttf, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("create %s face: %w", style, err)
	}
	s.faces[key] = face
	return face, nil
}

func (s *faceSet) close() {
	for _, f := range s.faces {
		_ = f.Close()
	}
}
