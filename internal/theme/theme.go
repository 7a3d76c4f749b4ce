package theme

import (
	"errors"
	"fmt"
)

// ID identifies one preset of the closed theme enumeration.
type ID string

const (
	ModernProfessional   ID = "modern-professional"
	MinimalClassic       ID = "minimal-classic"
	CreativeAccent       ID = "creative-accent"
	ExecutiveElite       ID = "executive-elite"
	TechFocused          ID = "tech-focused"
	CreativeProfessional ID = "creative-professional"
	AcademicResearch     ID = "academic-research"
	MinimalATS           ID = "minimal-ats"
)

// DefaultID is used when nothing has been selected yet.
const DefaultID = ModernProfessional

// ErrUnknownTheme is returned for ids outside the enumeration.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme is an immutable bundle of default visual style values.
type Theme struct {
	ID          ID           `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	FontFamily  string       `json:"font_family"`
	Premium     bool         `json:"is_premium"`
	Header      HeaderStyle  `json:"header_style"`
	Section     SectionStyle `json:"section_style"`
	Body        BodyStyle    `json:"body_style"`
	Colors      Palette      `json:"colors"`
}

// HeaderStyle styles the name block.
type HeaderStyle struct {
	FontSize     string `json:"font_size"`
	FontWeight   string `json:"font_weight"`
	TextAlign    string `json:"text_align"` // left, center or right
	BorderBottom bool   `json:"border_bottom"`
	MarginBottom string `json:"margin_bottom"`
}

// SectionStyle styles section titles and the gap between sections.
type SectionStyle struct {
	TitleFontSize      string `json:"title_font_size"`
	TitleFontWeight    string `json:"title_font_weight"`
	TitleTextTransform string `json:"title_text_transform"`
	TitleLetterSpacing string `json:"title_letter_spacing"`
	TitleBorderBottom  bool   `json:"title_border_bottom"`
	TitleAccentColor   bool   `json:"title_accent_color"`
	Spacing            string `json:"spacing"`
}

// BodyStyle styles running text.
type BodyStyle struct {
	FontSize        string `json:"font_size"`
	LineHeight      string `json:"line_height"`
	SkillsSeparator string `json:"skills_separator"`
}

// Palette holds the four theme colors.
type Palette struct {
	Accent     string `json:"accent"`
	HeaderText string `json:"header_text"`
	BodyText   string `json:"body_text"`
	MutedText  string `json:"muted_text"`
}

// Get returns the theme registered under id.
func Get(id ID) (Theme, error) {
	for _, t := range catalog {
		if t.ID == id {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, id)
}

// MustGet is Get for ids that come from the catalog itself.
func MustGet(id ID) Theme {
	t, err := Get(id)
	if err != nil {
		panic(err)
	}
	return t
}

// List returns every theme in catalog order. The slice is a copy.
func List() []Theme {
	out := make([]Theme, len(catalog))
	copy(out, catalog)
	return out
}

// Valid reports whether id belongs to the enumeration.
func Valid(id ID) bool {
	_, err := Get(id)
	return err == nil
}
