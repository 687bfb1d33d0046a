package textlayer

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"acbfe/internal/acbf"
)

// run is a piece of a word drawn with one font.
type run struct {
	text  string
	style string
	small bool
}

type word []run

func (w word) text() string {
	var b strings.Builder
	for _, r := range w {
		b.WriteString(r.text)
	}
	return b.String()
}

// parseParagraph splits paragraph markup into words of styled runs. base is
// the style implied by the text-area type.
func parseParagraph(p acbf.Paragraph, base string) []word {
	z := html.NewTokenizer(strings.NewReader(p.Markup()))
	var (
		words                  []word
		current                word
		emphasis, strong, code int
		small                  int
	)
	flush := func() {
		if len(current) > 0 {
			words = append(words, current)
			current = nil
		}
	}
	style := func() string {
		switch {
		case emphasis > 0:
			return "emphasis"
		case strong > 0:
			return "strong"
		case code > 0:
			return "code"
		}
		return base
	}
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			flush()
			return words
		case html.StartTagToken, html.EndTagToken:
			name, _ := z.TagName()
			delta := 1
			if tt == html.EndTagToken {
				delta = -1
			}
			switch string(name) {
			case "emphasis", "em", "i":
				emphasis = max(0, emphasis+delta)
			case "strong", "b":
				strong = max(0, strong+delta)
			case "code":
				code = max(0, code+delta)
			case "sup", "sub", "a":
				small = max(0, small+delta)
			}
		case html.TextToken:
			text := string(z.Text())
			start := 0
			for i, r := range text {
				if !unicode.IsSpace(r) {
					continue
				}
				if i > start {
					current = append(current, run{text: text[start:i], style: style(), small: small > 0})
				}
				flush()
				start = i + len(string(r))
			}
			if start < len(text) {
				current = append(current, run{text: text[start:], style: style(), small: small > 0})
			}
		}
	}
}

// baseStyle maps a text-area type onto its font slot.
func baseStyle(area acbf.TextArea) string {
	kind := strings.ToLower(area.Type)
	switch kind {
	case "commentary", "sign", "formal", "heading", "letter", "audio", "thought", "code":
		return kind
	}
	for _, p := range area.Paragraphs {
		if strings.Contains(strings.ToLower(p.Markup()), "<commentary>") {
			return "commentary"
		}
	}
	return "normal"
}

func plainLength(area acbf.TextArea) int {
	n := 0
	for _, p := range area.Paragraphs {
		n += len([]rune(p.Text()))
	}
	return n
}
