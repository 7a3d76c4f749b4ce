package theme

var catalog = []Theme{
	{
		ID:          ModernProfessional,
		Name:        "Modern Professional",
		Description: "Clean layout with bold headers. Ideal for tech and corporate roles.",
		FontFamily:  "'Inter', 'Segoe UI', sans-serif",
		Header:      HeaderStyle{FontSize: "2rem", FontWeight: "700", TextAlign: "center", BorderBottom: true, MarginBottom: "2rem"},
		Section: SectionStyle{
			TitleFontSize: "1.1rem", TitleFontWeight: "600", TitleTextTransform: "uppercase",
			TitleLetterSpacing: "0.05em", TitleBorderBottom: true, Spacing: "1.5rem",
		},
		Body:   BodyStyle{FontSize: "0.95rem", LineHeight: "1.6", SkillsSeparator: " • "},
		Colors: Palette{Accent: "hsl(221, 83%, 53%)", HeaderText: "hsl(222, 47%, 11%)", BodyText: "hsl(222, 47%, 11%)", MutedText: "hsl(215, 16%, 47%)"},
	},
	{
		ID:          MinimalClassic,
		Name:        "Minimal Classic",
		Description: "Simple typography with clean spacing. Great for ATS-heavy applications.",
		FontFamily:  "'Times New Roman', Georgia, serif",
		Header:      HeaderStyle{FontSize: "1.75rem", FontWeight: "400", TextAlign: "center", MarginBottom: "1.5rem"},
		Section: SectionStyle{
			TitleFontSize: "1rem", TitleFontWeight: "700", TitleTextTransform: "uppercase",
			TitleLetterSpacing: "0.1em", Spacing: "1.25rem",
		},
		Body:   BodyStyle{FontSize: "1rem", LineHeight: "1.5", SkillsSeparator: ", "},
		Colors: Palette{Accent: "hsl(0, 0%, 0%)", HeaderText: "hsl(0, 0%, 0%)", BodyText: "hsl(0, 0%, 15%)", MutedText: "hsl(0, 0%, 40%)"},
	},
	{
		ID:          CreativeAccent,
		Name:        "Creative Accent",
		Description: "Accent colors with visual hierarchy. Still ATS-safe.",
		FontFamily:  "'Lato', 'Helvetica Neue', sans-serif",
		Header:      HeaderStyle{FontSize: "2.25rem", FontWeight: "700", TextAlign: "left", BorderBottom: true, MarginBottom: "1.75rem"},
		Section: SectionStyle{
			TitleFontSize: "1.05rem", TitleFontWeight: "600", TitleTextTransform: "uppercase",
			TitleLetterSpacing: "0.08em", TitleAccentColor: true, Spacing: "1.5rem",
		},
		Body:   BodyStyle{FontSize: "0.95rem", LineHeight: "1.65", SkillsSeparator: " | "},
		Colors: Palette{Accent: "hsl(262, 83%, 58%)", HeaderText: "hsl(262, 83%, 58%)", BodyText: "hsl(222, 47%, 11%)", MutedText: "hsl(215, 16%, 47%)"},
	},
	{
		ID:          ExecutiveElite,
		Name:        "Executive Elite",
		Description: "Elegant typography with subtle separators. Ideal for senior and leadership roles.",
		FontFamily:  "'Georgia', 'Times New Roman', serif",
		Header:      HeaderStyle{FontSize: "2.25rem", FontWeight: "600", TextAlign: "center", BorderBottom: true, MarginBottom: "2.25rem"},
		Section: SectionStyle{
			TitleFontSize: "1rem", TitleFontWeight: "600", TitleTextTransform: "uppercase",
			TitleLetterSpacing: "0.15em", TitleBorderBottom: true, Spacing: "1.75rem",
		},
		Body:   BodyStyle{FontSize: "0.95rem", LineHeight: "1.7", SkillsSeparator: " • "},
		Colors: Palette{Accent: "hsl(220, 25%, 25%)", HeaderText: "hsl(220, 30%, 15%)", BodyText: "hsl(220, 20%, 20%)", MutedText: "hsl(220, 10%, 45%)"},
	},
	{
		ID:          TechFocused,
		Name:        "Tech Focused",
		Description: "Clean sans-serif with compact spacing. Perfect for software and IT roles.",
		FontFamily:  "'SF Mono', 'Consolas', 'Monaco', monospace",
		Header:      HeaderStyle{FontSize: "1.875rem", FontWeight: "700", TextAlign: "left", BorderBottom: true, MarginBottom: "1.5rem"},
		Section: SectionStyle{
			TitleFontSize: "0.95rem", TitleFontWeight: "700", TitleTextTransform: "uppercase",
			TitleLetterSpacing: "0.1em", TitleAccentColor: true, Spacing: "1.25rem",
		},
		Body:   BodyStyle{FontSize: "0.9rem", LineHeight: "1.5", SkillsSeparator: " | "},
		Colors: Palette{Accent: "hsl(160, 84%, 39%)", HeaderText: "hsl(210, 40%, 15%)", BodyText: "hsl(210, 25%, 20%)", MutedText: "hsl(210, 15%, 50%)"},
	},
	{
		ID:          CreativeProfessional,
		Name:        "Creative Professional",
		Description: "Expressive with strong visual hierarchy. ATS-safe single-column design.",
		FontFamily:  "'Poppins', 'Helvetica Neue', sans-serif",
		Header:      HeaderStyle{FontSize: "2.5rem", FontWeight: "800", TextAlign: "left", BorderBottom: true, MarginBottom: "2rem"},
		Section: SectionStyle{
			TitleFontSize: "1.1rem", TitleFontWeight: "700", TitleTextTransform: "capitalize",
			TitleLetterSpacing: "0.02em", TitleAccentColor: true, Spacing: "1.5rem",
		},
		Body:   BodyStyle{FontSize: "0.95rem", LineHeight: "1.65", SkillsSeparator: " · "},
		Colors: Palette{Accent: "hsl(340, 82%, 52%)", HeaderText: "hsl(340, 82%, 52%)", BodyText: "hsl(0, 0%, 15%)", MutedText: "hsl(0, 0%, 45%)"},
	},
	{
		ID:          AcademicResearch,
		Name:        "Academic / Research",
		Description: "Formal typography emphasizing education and publications. Ideal for academia.",
		FontFamily:  "'Palatino Linotype', 'Book Antiqua', Palatino, serif",
		Header:      HeaderStyle{FontSize: "1.875rem", FontWeight: "400", TextAlign: "center", MarginBottom: "1.75rem"},
		Section: SectionStyle{
			TitleFontSize: "1.05rem", TitleFontWeight: "700", TitleTextTransform: "uppercase",
			TitleLetterSpacing: "0.08em", TitleBorderBottom: true, Spacing: "1.5rem",
		},
		Body:   BodyStyle{FontSize: "1rem", LineHeight: "1.6", SkillsSeparator: ", "},
		Colors: Palette{Accent: "hsl(210, 50%, 40%)", HeaderText: "hsl(0, 0%, 10%)", BodyText: "hsl(0, 0%, 15%)", MutedText: "hsl(0, 0%, 40%)"},
	},
	{
		ID:          MinimalATS,
		Name:        "Minimal ATS",
		Description: "Ultra-clean layout optimized for maximum ATS parsing. No icons or dividers.",
		FontFamily:  "'Arial', 'Helvetica', sans-serif",
		Header:      HeaderStyle{FontSize: "1.75rem", FontWeight: "700", TextAlign: "left", MarginBottom: "1.25rem"},
		Section: SectionStyle{
			TitleFontSize: "1rem", TitleFontWeight: "700", TitleTextTransform: "uppercase",
			TitleLetterSpacing: "0", Spacing: "1.25rem",
		},
		Body:   BodyStyle{FontSize: "1rem", LineHeight: "1.5", SkillsSeparator: ", "},
		Colors: Palette{Accent: "hsl(0, 0%, 0%)", HeaderText: "hsl(0, 0%, 0%)", BodyText: "hsl(0, 0%, 0%)", MutedText: "hsl(0, 0%, 30%)"},
	},
}
