package customization

// OverrideFlags records, per leaf, whether the user has explicitly set a value that should
// win over the active theme. Flags only ever turn on through an update and turn off through
// a reset. Sections have no flags because they are never themed.
type OverrideFlags struct {
	Typography TypographyFlags `json:"typography"`
	Layout     LayoutFlags     `json:"layout"`
	Colors     ColorFlags      `json:"colors"`
	Header     HeaderFlags     `json:"header"`
	Skills     SkillsFlags     `json:"skills"`
}

type TypographyFlags struct {
	FontFamily            bool `json:"font_family"`
	NameFontSize          bool `json:"name_font_size"`
	SectionHeaderFontSize bool `json:"section_header_font_size"`
	BodyFontSize          bool `json:"body_font_size"`
	LineHeight            bool `json:"line_height"`
	LetterSpacing         bool `json:"letter_spacing"`
}

type LayoutFlags struct {
	PageMargin     bool `json:"page_margin"`
	SectionSpacing bool `json:"section_spacing"`
	BulletSpacing  bool `json:"bullet_spacing"`
	DensityPreset  bool `json:"density_preset"`
}

type ColorFlags struct {
	AccentColor bool `json:"accent_color"`
}

type HeaderFlags struct {
	ShowEmail      bool `json:"show_email"`
	ShowPhone      bool `json:"show_phone"`
	ShowLocation   bool `json:"show_location"`
	ShowLinkedIn   bool `json:"show_linkedin"`
	ShowPortfolio  bool `json:"show_portfolio"`
	Alignment      bool `json:"alignment"`
	SeparatorStyle bool `json:"separator_style"`
}

type SkillsFlags struct {
	DisplayStyle bool `json:"display_style"`
}
