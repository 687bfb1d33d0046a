package acbf

import (
	"path"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Genres is the ACBF genre vocabulary.
var Genres = []string{
	"other", "adult", "adventure", "alternative", "artbook", "biography",
	"caricature", "children", "computer", "crime", "education", "fantasy",
	"history", "horror", "humor", "manga", "military", "mystery",
	"non-fiction", "politics", "real_life", "religion", "romance",
	"science_fiction", "sports", "superhero", "western",
}

// Activities is the author activity vocabulary.
var Activities = []string{
	"Writer", "Adapter", "Artist", "Penciller", "Inker", "Colorist",
	"Letterer", "CoverArtist", "Photographer", "Editor", "Assistant Editor",
	"Translator", "Other",
}

// TextAreaTypes are the text-area type values; speech is the implicit default.
var TextAreaTypes = []string{
	"speech", "commentary", "formal", "letter", "code", "heading", "audio",
	"thought", "sign",
}

// Transitions are the page transition values.
var Transitions = []string{"none", "fade", "blend", "scroll_right", "scroll_down"}

var labelCaser = cases.Title(language.English)

// IsGenre reports whether name is an ACBF genre.
func IsGenre(name string) bool {
	return slices.Contains(Genres, name)
}

// IsActivity reports whether name is an author activity.
func IsActivity(name string) bool {
	return slices.Contains(Activities, name)
}

// IsTextAreaType reports whether t is a text-area type.
func IsTextAreaType(t string) bool {
	return slices.Contains(TextAreaTypes, strings.ToLower(t))
}

// TransitionValue converts a label such as "Scroll Right" into "scroll_right".
func TransitionValue(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}

// TransitionLabel converts "scroll_right" into "Scroll Right".
func TransitionLabel(value string) string {
	return labelCaser.String(strings.ReplaceAll(value, "_", " "))
}

// IsTransition reports whether value (or its label form) is a known transition.
func IsTransition(value string) bool {
	return slices.Contains(Transitions, TransitionValue(value))
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".ttf":  "application/font-sfnt",
	".otf":  "application/font-sfnt",
}

// ContentTypeForExt returns the binary content-type for a file name or extension.
func ContentTypeForExt(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		ext = "." + strings.ToLower(strings.TrimPrefix(name, "."))
	}
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// IsImageName reports whether name has an extension editor pages may use.
func IsImageName(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp":
		return true
	}
	return false
}

var genreAliases = map[string]string{
	"sci-fi":          "science_fiction",
	"scifi":           "science_fiction",
	"science fiction": "science_fiction",
	"superheroes":     "superhero",
	"humour":          "humor",
	"comedy":          "humor",
	"nonfiction":      "non-fiction",
	"non fiction":     "non-fiction",
	"real life":       "real_life",
	"sport":           "sports",
	"art":             "artbook",
}

// CanonicalGenre maps free-form genre text such as "Science Fiction" onto the
// vocabulary. The second result is false when no genre matches.
func CanonicalGenre(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := genreAliases[key]; ok {
		return alias, true
	}
	if IsGenre(key) {
		return key, true
	}
	key = strings.ReplaceAll(key, " ", "_")
	if IsGenre(key) {
		return key, true
	}
	return "", false
}
