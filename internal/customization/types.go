// Package customization holds the user-editable résumé style preferences and the flags that
// record which of them override the active theme.
package customization

import "errors"

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrInvalidIndex   = errors.New("section index out of range")
	ErrInvalidValue   = errors.New("invalid customization value")
)

// SectionID is one of the eight fixed résumé sections.
type SectionID string

const (
	SectionSummary        SectionID = "summary"
	SectionExperience     SectionID = "experience"
	SectionSkills         SectionID = "skills"
	SectionEducation      SectionID = "education"
	SectionProjects       SectionID = "projects"
	SectionCertifications SectionID = "certifications"
	SectionAchievements   SectionID = "achievements"
	SectionPublications   SectionID = "publications"
)

// SectionIDs lists every section in default order.
var SectionIDs = []SectionID{
	SectionSummary,
	SectionExperience,
	SectionSkills,
	SectionEducation,
	SectionProjects,
	SectionCertifications,
	SectionAchievements,
	SectionPublications,
}

var sectionTitles = map[SectionID]string{
	SectionSummary:        "Professional Summary",
	SectionExperience:     "Experience",
	SectionSkills:         "Skills",
	SectionEducation:      "Education",
	SectionProjects:       "Projects",
	SectionCertifications: "Certifications",
	SectionAchievements:   "Achievements",
	SectionPublications:   "Publications",
}

// DefaultTitle returns the label shown when a section has no custom title.
func DefaultTitle(id SectionID) string {
	return sectionTitles[id]
}

// ValidSection reports whether id is part of the enumeration.
func ValidSection(id SectionID) bool {
	_, ok := sectionTitles[id]
	return ok
}

// FontFamily is the typography font choice.
type FontFamily string

const (
	FontInter        FontFamily = "inter"
	FontGeorgia      FontFamily = "georgia"
	FontTimes        FontFamily = "times"
	FontArial        FontFamily = "arial"
	FontPalatino     FontFamily = "palatino"
	FontLato         FontFamily = "lato"
	FontRoboto       FontFamily = "roboto"
	FontMerriweather FontFamily = "merriweather"
)

var fontStacks = map[FontFamily]string{
	FontInter:        "'Inter', 'Segoe UI', sans-serif",
	FontGeorgia:      "'Georgia', 'Times New Roman', serif",
	FontTimes:        "'Times New Roman', 'Times', serif",
	FontArial:        "'Arial', 'Helvetica', sans-serif",
	FontPalatino:     "'Palatino Linotype', 'Book Antiqua', Palatino, serif",
	FontLato:         "'Lato', 'Helvetica Neue', sans-serif",
	FontRoboto:       "'Roboto', 'Helvetica Neue', sans-serif",
	FontMerriweather: "'Merriweather', Georgia, serif",
}

// FontStack maps a font choice to a CSS font-family value.
func FontStack(f FontFamily) string {
	if stack, ok := fontStacks[f]; ok {
		return stack
	}
	return fontStacks[FontInter]
}

// DensityPreset names a bundle of layout spacing values.
type DensityPreset string

const (
	DensityCompact  DensityPreset = "compact"
	DensityBalanced DensityPreset = "balanced"
	DensitySpacious DensityPreset = "spacious"
)

type densityValues struct {
	pageMargin     float64
	sectionSpacing float64
	bulletSpacing  float64
}

var densityPresets = map[DensityPreset]densityValues{
	DensityCompact:  {pageMargin: 12, sectionSpacing: 1, bulletSpacing: 0.25},
	DensityBalanced: {pageMargin: 20, sectionSpacing: 1.5, bulletSpacing: 0.375},
	DensitySpacious: {pageMargin: 25, sectionSpacing: 2, bulletSpacing: 0.5},
}

// HeaderAlignment is the name block alignment. Themes may also use "right", which the
// customization domain does not offer.
type HeaderAlignment string

const (
	AlignLeft   HeaderAlignment = "left"
	AlignCenter HeaderAlignment = "center"
)

// SeparatorStyle selects the contact line separator.
type SeparatorStyle string

const (
	SeparatorDot   SeparatorStyle = "dot"
	SeparatorLine  SeparatorStyle = "line"
	SeparatorSpace SeparatorStyle = "space"
)

// Separator returns the literal joined between contact fields.
func (s SeparatorStyle) Separator() string {
	switch s {
	case SeparatorLine:
		return " | "
	case SeparatorSpace:
		return "   "
	default:
		return " • "
	}
}

// SkillsDisplayStyle controls how the skills section is laid out once overridden.
type SkillsDisplayStyle string

const (
	SkillsComma   SkillsDisplayStyle = "comma"
	SkillsGrouped SkillsDisplayStyle = "grouped"
	SkillsBullets SkillsDisplayStyle = "bullets"
)

// SectionConfig is the structural configuration of one section.
type SectionConfig struct {
	ID          SectionID `json:"id"`
	Visible     bool      `json:"visible"`
	Order       int       `json:"order"`
	CustomTitle string    `json:"custom_title,omitempty"`
	UseBullets  bool      `json:"use_bullets"`
	BulletLimit int       `json:"bullet_limit,omitempty"` // 0 shows every bullet
}

// Title returns the custom title or the default label.
func (s SectionConfig) Title() string {
	if s.CustomTitle != "" {
		return s.CustomTitle
	}
	return DefaultTitle(s.ID)
}

type TypographySettings struct {
	FontFamily            FontFamily `json:"font_family"`
	NameFontSize          float64    `json:"name_font_size"`           // px
	SectionHeaderFontSize float64    `json:"section_header_font_size"` // px
	BodyFontSize          float64    `json:"body_font_size"`           // px
	LineHeight            float64    `json:"line_height"`
	LetterSpacing         float64    `json:"letter_spacing"` // em
}

type LayoutSettings struct {
	PageMargin     float64       `json:"page_margin"`     // mm
	SectionSpacing float64       `json:"section_spacing"` // rem
	BulletSpacing  float64       `json:"bullet_spacing"`  // rem
	DensityPreset  DensityPreset `json:"density_preset"`
}

type ColorSettings struct {
	AccentColor string `json:"accent_color"`
}

type HeaderSettings struct {
	ShowEmail      bool            `json:"show_email"`
	ShowPhone      bool            `json:"show_phone"`
	ShowLocation   bool            `json:"show_location"`
	ShowLinkedIn   bool            `json:"show_linkedin"`
	ShowPortfolio  bool            `json:"show_portfolio"`
	Alignment      HeaderAlignment `json:"alignment"`
	SeparatorStyle SeparatorStyle  `json:"separator_style"`
}

type SkillsSettings struct {
	DisplayStyle SkillsDisplayStyle `json:"display_style"`
}

// Customization is the full preference aggregate layered on top of a theme.
type Customization struct {
	Sections   []SectionConfig    `json:"sections"`
	Typography TypographySettings `json:"typography"`
	Layout     LayoutSettings     `json:"layout"`
	Colors     ColorSettings      `json:"colors"`
	Header     HeaderSettings     `json:"header"`
	Skills     SkillsSettings     `json:"skills"`
}

// Defaults returns a fresh copy of the default customization.
func Defaults() Customization {
	return Customization{
		Sections: []SectionConfig{
			{ID: SectionSummary, Visible: true, Order: 0},
			{ID: SectionExperience, Visible: true, Order: 1, UseBullets: true, BulletLimit: 5},
			{ID: SectionSkills, Visible: true, Order: 2},
			{ID: SectionEducation, Visible: true, Order: 3},
			{ID: SectionProjects, Visible: true, Order: 4},
			{ID: SectionCertifications, Visible: true, Order: 5},
			{ID: SectionAchievements, Visible: false, Order: 6, UseBullets: true},
			{ID: SectionPublications, Visible: false, Order: 7},
		},
		Typography: TypographySettings{
			FontFamily:            FontInter,
			NameFontSize:          28,
			SectionHeaderFontSize: 14,
			BodyFontSize:          11,
			LineHeight:            1.5,
			LetterSpacing:         0,
		},
		Layout: LayoutSettings{
			PageMargin:     20,
			SectionSpacing: 1.5,
			BulletSpacing:  0.375,
			DensityPreset:  DensityBalanced,
		},
		Colors: ColorSettings{AccentColor: "hsl(221, 83%, 40%)"},
		Header: HeaderSettings{
			ShowEmail:      true,
			ShowPhone:      true,
			ShowLocation:   true,
			Alignment:      AlignCenter,
			SeparatorStyle: SeparatorDot,
		},
		Skills: SkillsSettings{DisplayStyle: SkillsComma},
	}
}

// Clone returns a copy that shares no slices with c.
func (c Customization) Clone() Customization {
	out := c
	out.Sections = append([]SectionConfig(nil), c.Sections...)
	return out
}

// Section returns the configuration of id.
func (c Customization) Section(id SectionID) (SectionConfig, bool) {
	for _, s := range c.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return SectionConfig{}, false
}

// AccentPreset is a named ATS-safe accent color offered by the color panel.
type AccentPreset struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// AccentPresets lists the suggested accent colors.
var AccentPresets = []AccentPreset{
	{Label: "Black", Value: "hsl(0, 0%, 0%)"},
	{Label: "Navy", Value: "hsl(220, 50%, 25%)"},
	{Label: "Blue", Value: "hsl(221, 83%, 40%)"},
	{Label: "Teal", Value: "hsl(180, 60%, 30%)"},
	{Label: "Forest", Value: "hsl(150, 50%, 25%)"},
	{Label: "Burgundy", Value: "hsl(350, 60%, 30%)"},
	{Label: "Slate", Value: "hsl(215, 20%, 35%)"},
	{Label: "Charcoal", Value: "hsl(0, 0%, 25%)"},
}
