// Package style merges a theme with a user's customization into the values used for one
// render pass.
package style

import (
	"strconv"

	"resumeKit/internal/customization"
	"resumeKit/internal/theme"
)

// Resolved holds CSS-ready values. Every string is a complete CSS value.
type Resolved struct {
	ThemeID theme.ID `json:"theme_id"`

	AccentColor      string `json:"accent_color"`
	HeaderAlignment  string `json:"header_alignment"`
	FontFamily       string `json:"font_family"`
	NameFontSize     string `json:"name_font_size"`
	SectionFontSize  string `json:"section_header_font_size"`
	BodyFontSize     string `json:"body_font_size"`
	LineHeight       string `json:"line_height"`
	SectionSpacing   string `json:"section_spacing"`
	LetterSpacing    string `json:"letter_spacing"`
	PageMargin       string `json:"page_margin"`
	BulletSpacing    string `json:"bullet_spacing"`
	ContactSeparator string `json:"contact_separator"`

	HeaderFontWeight   string `json:"header_font_weight"`
	HeaderMarginBottom string `json:"header_margin_bottom"`
	HeaderBorderBottom bool   `json:"header_border_bottom"`

	TitleFontWeight    string `json:"title_font_weight"`
	TitleTextTransform string `json:"title_text_transform"`
	TitleLetterSpacing string `json:"title_letter_spacing"`
	TitleBorderBottom  bool   `json:"title_border_bottom"`
	TitleAccentColor   bool   `json:"title_accent_color"`

	HeaderTextColor string `json:"header_text_color"`
	BodyTextColor   string `json:"body_text_color"`
	MutedTextColor  string `json:"muted_text_color"`

	// VisibleContacts lists the contact fields switched on in the header, in display order.
	VisibleContacts []ContactField `json:"visible_contacts"`

	Skills SkillsStyle `json:"skills"`
}

// ContactField names one contact value of the header line.
type ContactField string

const (
	ContactEmail     ContactField = "email"
	ContactPhone     ContactField = "phone"
	ContactLocation  ContactField = "location"
	ContactLinkedIn  ContactField = "linkedin"
	ContactPortfolio ContactField = "portfolio"
)

// SkillsStyle decides how the skills list is laid out. Display is only honoured when
// Overridden is set; otherwise the theme separator joins every skill.
type SkillsStyle struct {
	Overridden     bool                             `json:"overridden"`
	Display        customization.SkillsDisplayStyle `json:"display"`
	ThemeSeparator string                           `json:"theme_separator"`
}

type property struct {
	name string
	// theme is nil for customization-only properties.
	theme func(theme.Theme) string
	// custom is nil for theme-only properties.
	custom func(customization.Customization) string
	// overridden is nil when the property has no flag: whichever side exists wins.
	overridden func(customization.OverrideFlags) bool
	field      func(*Resolved) *string
}

var properties = []property{
	{
		name:       "accent_color",
		theme:      func(t theme.Theme) string { return t.Colors.Accent },
		custom:     func(c customization.Customization) string { return c.Colors.AccentColor },
		overridden: func(f customization.OverrideFlags) bool { return f.Colors.AccentColor },
		field:      func(r *Resolved) *string { return &r.AccentColor },
	},
	{
		name:       "header_alignment",
		theme:      func(t theme.Theme) string { return remapAlignment(t.Header.TextAlign) },
		custom:     func(c customization.Customization) string { return string(c.Header.Alignment) },
		overridden: func(f customization.OverrideFlags) bool { return f.Header.Alignment },
		field:      func(r *Resolved) *string { return &r.HeaderAlignment },
	},
	{
		name:       "font_family",
		theme:      func(t theme.Theme) string { return t.FontFamily },
		custom:     func(c customization.Customization) string { return customization.FontStack(c.Typography.FontFamily) },
		overridden: func(f customization.OverrideFlags) bool { return f.Typography.FontFamily },
		field:      func(r *Resolved) *string { return &r.FontFamily },
	},
	{
		name:       "name_font_size",
		theme:      func(t theme.Theme) string { return t.Header.FontSize },
		custom:     px(func(c customization.Customization) float64 { return c.Typography.NameFontSize }),
		overridden: func(f customization.OverrideFlags) bool { return f.Typography.NameFontSize },
		field:      func(r *Resolved) *string { return &r.NameFontSize },
	},
	{
		name:       "section_header_font_size",
		theme:      func(t theme.Theme) string { return t.Section.TitleFontSize },
		custom:     px(func(c customization.Customization) float64 { return c.Typography.SectionHeaderFontSize }),
		overridden: func(f customization.OverrideFlags) bool { return f.Typography.SectionHeaderFontSize },
		field:      func(r *Resolved) *string { return &r.SectionFontSize },
	},
	{
		name:       "body_font_size",
		theme:      func(t theme.Theme) string { return t.Body.FontSize },
		custom:     px(func(c customization.Customization) float64 { return c.Typography.BodyFontSize }),
		overridden: func(f customization.OverrideFlags) bool { return f.Typography.BodyFontSize },
		field:      func(r *Resolved) *string { return &r.BodyFontSize },
	},
	{
		name:       "line_height",
		theme:      func(t theme.Theme) string { return t.Body.LineHeight },
		custom:     unitless(func(c customization.Customization) float64 { return c.Typography.LineHeight }),
		overridden: func(f customization.OverrideFlags) bool { return f.Typography.LineHeight },
		field:      func(r *Resolved) *string { return &r.LineHeight },
	},
	{
		name:       "section_spacing",
		theme:      func(t theme.Theme) string { return t.Section.Spacing },
		custom:     rem(func(c customization.Customization) float64 { return c.Layout.SectionSpacing }),
		overridden: func(f customization.OverrideFlags) bool { return f.Layout.SectionSpacing },
		field:      func(r *Resolved) *string { return &r.SectionSpacing },
	},

	// Customization only.
	{
		name:   "letter_spacing",
		custom: em(func(c customization.Customization) float64 { return c.Typography.LetterSpacing }),
		field:  func(r *Resolved) *string { return &r.LetterSpacing },
	},
	{
		name:   "page_margin",
		custom: mm(func(c customization.Customization) float64 { return c.Layout.PageMargin }),
		field:  func(r *Resolved) *string { return &r.PageMargin },
	},
	{
		name:   "bullet_spacing",
		custom: rem(func(c customization.Customization) float64 { return c.Layout.BulletSpacing }),
		field:  func(r *Resolved) *string { return &r.BulletSpacing },
	},
	{
		name:   "contact_separator",
		custom: func(c customization.Customization) string { return c.Header.SeparatorStyle.Separator() },
		field:  func(r *Resolved) *string { return &r.ContactSeparator },
	},

	// Theme only.
	{
		name:  "header_font_weight",
		theme: func(t theme.Theme) string { return t.Header.FontWeight },
		field: func(r *Resolved) *string { return &r.HeaderFontWeight },
	},
	{
		name:  "header_margin_bottom",
		theme: func(t theme.Theme) string { return t.Header.MarginBottom },
		field: func(r *Resolved) *string { return &r.HeaderMarginBottom },
	},
	{
		name:  "title_font_weight",
		theme: func(t theme.Theme) string { return t.Section.TitleFontWeight },
		field: func(r *Resolved) *string { return &r.TitleFontWeight },
	},
	{
		name:  "title_text_transform",
		theme: func(t theme.Theme) string { return t.Section.TitleTextTransform },
		field: func(r *Resolved) *string { return &r.TitleTextTransform },
	},
	{
		name:  "title_letter_spacing",
		theme: func(t theme.Theme) string { return t.Section.TitleLetterSpacing },
		field: func(r *Resolved) *string { return &r.TitleLetterSpacing },
	},
	{
		name:  "header_text_color",
		theme: func(t theme.Theme) string { return t.Colors.HeaderText },
		field: func(r *Resolved) *string { return &r.HeaderTextColor },
	},
	{
		name:  "body_text_color",
		theme: func(t theme.Theme) string { return t.Colors.BodyText },
		field: func(r *Resolved) *string { return &r.BodyTextColor },
	},
	{
		name:  "muted_text_color",
		theme: func(t theme.Theme) string { return t.Colors.MutedText },
		field: func(r *Resolved) *string { return &r.MutedTextColor },
	},
}

// Resolve computes the style for one render. It has no side effects.
func Resolve(t theme.Theme, c customization.Customization, f customization.OverrideFlags) Resolved {
	r := Resolved{ThemeID: t.ID}
	for _, p := range properties {
		*p.field(&r) = p.resolve(t, c, f)
	}
	r.HeaderBorderBottom = t.Header.BorderBottom
	r.TitleBorderBottom = t.Section.TitleBorderBottom
	r.TitleAccentColor = t.Section.TitleAccentColor
	r.VisibleContacts = visibleContacts(c.Header)
	r.Skills = SkillsStyle{
		Overridden:     f.Skills.DisplayStyle,
		Display:        c.Skills.DisplayStyle,
		ThemeSeparator: t.Body.SkillsSeparator,
	}
	return r
}

func (p property) resolve(t theme.Theme, c customization.Customization, f customization.OverrideFlags) string {
	switch {
	case p.custom == nil:
		return p.theme(t)
	case p.theme == nil:
		return p.custom(c)
	case p.overridden != nil && p.overridden(f):
		return p.custom(c)
	default:
		return p.theme(t)
	}
}

// Properties returns the string-valued properties of r keyed by name.
func (r Resolved) Properties() map[string]string {
	out := make(map[string]string, len(properties))
	for _, p := range properties {
		out[p.name] = *p.field(&r)
	}
	return out
}

func visibleContacts(h customization.HeaderSettings) []ContactField {
	toggles := []struct {
		on    bool
		field ContactField
	}{
		{h.ShowEmail, ContactEmail},
		{h.ShowPhone, ContactPhone},
		{h.ShowLocation, ContactLocation},
		{h.ShowLinkedIn, ContactLinkedIn},
		{h.ShowPortfolio, ContactPortfolio},
	}
	out := make([]ContactField, 0, len(toggles))
	for _, tg := range toggles {
		if tg.on {
			out = append(out, tg.field)
		}
	}
	return out
}

// remapAlignment folds theme alignments into the customization domain, which has no right.
func remapAlignment(align string) string {
	if align == "right" {
		return string(customization.AlignLeft)
	}
	return align
}

func px(get func(customization.Customization) float64) func(customization.Customization) string {
	return withUnit(get, "px")
}

func rem(get func(customization.Customization) float64) func(customization.Customization) string {
	return withUnit(get, "rem")
}

func em(get func(customization.Customization) float64) func(customization.Customization) string {
	return withUnit(get, "em")
}

func mm(get func(customization.Customization) float64) func(customization.Customization) string {
	return withUnit(get, "mm")
}

func unitless(get func(customization.Customization) float64) func(customization.Customization) string {
	return withUnit(get, "")
}

func withUnit(get func(customization.Customization) float64, unit string) func(customization.Customization) string {
	return func(c customization.Customization) string {
		return strconv.FormatFloat(get(c), 'f', -1, 64) + unit
	}
}
