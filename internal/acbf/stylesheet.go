package acbf

import (
	"fmt"
	"slices"
	"strings"
)

// FontStyles are the stylesheet slots a font can be assigned to.
var FontStyles = []string{
	"normal", "emphasis", "strong", "code", "commentary", "sign", "formal",
	"heading", "letter", "audio", "thought",
}

// Stylesheet is the subset of the document CSS the editor understands:
// a font family list per style and a colour per text-area type.
// Rules it does not recognise are kept verbatim in Extra.
type Stylesheet struct {
	Fonts  map[string][]string
	Colors map[string]string
	Extra  []string
}

// NewStylesheet returns a stylesheet with the default colours.
func NewStylesheet() Stylesheet {
	s := Stylesheet{Fonts: map[string][]string{}, Colors: map[string]string{}}
	for _, t := range TextAreaTypes {
		s.Colors[t] = "#000000"
	}
	s.Colors["inverted"] = "#ffffff"
	return s
}

// Color returns the text colour for a text-area type, falling back to speech.
func (s Stylesheet) Color(textType string, inverted bool) string {
	if inverted {
		if c := s.Colors["inverted"]; c != "" {
			return c
		}
		return "#ffffff"
	}
	if c := s.Colors[strings.ToLower(textType)]; c != "" {
		return c
	}
	if c := s.Colors["speech"]; c != "" {
		return c
	}
	return "#000000"
}

// Font returns the preferred family for style, falling back to normal.
func (s Stylesheet) Font(style string) string {
	if fams := s.Fonts[style]; len(fams) > 0 {
		return fams[0]
	}
	if fams := s.Fonts["normal"]; len(fams) > 0 {
		return fams[0]
	}
	return ""
}

// ParseStylesheet reads CSS rules. Selectors are matched case-insensitively;
// quoted and unquoted attribute values are equivalent.
func ParseStylesheet(css string) Stylesheet {
	s := NewStylesheet()
	for _, rule := range strings.Split(strings.ReplaceAll(css, "\n", " "), "}") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		selectorPart, body, ok := strings.Cut(rule, "{")
		if !ok {
			continue
		}
		selector := normalizeSelector(selectorPart)
		fontSlot, colorSlot := selectorSlots(selector)
		if fontSlot == "" && colorSlot == "" {
			s.Extra = append(s.Extra, rule+"}")
			continue
		}
		for _, decl := range strings.Split(body, ";") {
			prop, value, ok := strings.Cut(decl, ":")
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			switch strings.ToLower(strings.TrimSpace(prop)) {
			case "font-family":
				if fontSlot != "" {
					s.Fonts[fontSlot] = splitFamilies(value)
				}
			case "color":
				if colorSlot != "" {
					s.Colors[colorSlot] = strings.Trim(value, `"'`)
				}
			}
		}
	}
	return s
}

func normalizeSelector(sel string) string {
	sel = strings.ToUpper(strings.TrimSpace(sel))
	sel = strings.ReplaceAll(sel, `"`, "")
	sel = strings.ReplaceAll(sel, "'", "")
	return strings.Join(strings.Fields(sel), "")
}

// selectorSlots maps a normalised selector to the font style and colour key it sets.
func selectorSlots(sel string) (font, color string) {
	switch sel {
	case "*":
		return "", "speech"
	case "P", "TEXT-AREA":
		return "normal", "speech"
	case "EMPHASIS":
		return "emphasis", ""
	case "STRONG":
		return "strong", ""
	case "CODE":
		return "code", ""
	case "COMMENTARY":
		return "commentary", ""
	case "TEXT-AREA[INVERTED=TRUE]":
		return "", "inverted"
	}
	if t, ok := strings.CutPrefix(sel, "TEXT-AREA[TYPE="); ok {
		t = strings.ToLower(strings.TrimSuffix(t, "]"))
		if t == "speech" {
			return "normal", "speech"
		}
		if slices.Contains(TextAreaTypes, t) {
			return t, t
		}
	}
	return "", ""
}

func splitFamilies(value string) []string {
	var out []string
	for _, fam := range strings.Split(value, ",") {
		fam = strings.Trim(strings.TrimSpace(fam), `"'`)
		if fam != "" {
			out = append(out, fam)
		}
	}
	return out
}

// String renders the stylesheet in the form the editor writes it.
func (s Stylesheet) String() string {
	var b strings.Builder
	for _, style := range FontStyles {
		fams := s.Fonts[style]
		if len(fams) == 0 {
			continue
		}
		family := strings.Join(fams, ", ")
		color := s.Color(style, false)
		switch style {
		case "normal":
			color = s.Color("speech", false)
			fmt.Fprintf(&b, "text-area {font-family: %q; color: %q;}\n", family, color)
		case "emphasis", "strong":
			fmt.Fprintf(&b, "%s {font-family: %q; color: %q;}\n", style, family, color)
		default:
			fmt.Fprintf(&b, "text-area[type=%s] {font-family: %q; color: %q;}\n", style, family, color)
		}
	}
	if c := s.Colors["inverted"]; c != "" && !strings.EqualFold(c, "#ffffff") {
		fmt.Fprintf(&b, "text-area[inverted=true] {color: %q;}\n", c)
	}
	for _, extra := range s.Extra {
		b.WriteString(extra)
		b.WriteByte('\n')
	}
	return b.String()
}

// Stylesheet returns the parsed document stylesheet, or the defaults when absent.
func (d *Document) Stylesheet() Stylesheet {
	if d.Style == nil {
		return NewStylesheet()
	}
	return ParseStylesheet(d.Style.CSS)
}

// SetStylesheet replaces the document stylesheet; an empty one removes the element.
func (d *Document) SetStylesheet(s Stylesheet) {
	css := s.String()
	if css == "" {
		d.Style = nil
		return
	}
	d.Style = &Style{Type: "text/css", CSS: css}
}
