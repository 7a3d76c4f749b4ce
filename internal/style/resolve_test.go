package style

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeKit/internal/customization"
	"resumeKit/internal/prefs"
	"resumeKit/internal/theme"
)

func ptr[T any](v T) *T { return &v }

// someCustomization differs from every theme on every themeable property.
func someCustomization() customization.Customization {
	c := customization.Defaults()
	c.Colors.AccentColor = "hsl(1, 2%, 3%)"
	c.Header.Alignment = customization.AlignLeft
	c.Header.SeparatorStyle = customization.SeparatorLine
	c.Typography = customization.TypographySettings{
		FontFamily:            customization.FontMerriweather,
		NameFontSize:          31,
		SectionHeaderFontSize: 13,
		BodyFontSize:          10.5,
		LineHeight:            1.25,
		LetterSpacing:         0.02,
	}
	c.Layout.SectionSpacing = 0.8
	c.Skills.DisplayStyle = customization.SkillsGrouped
	return c
}

func allFlags() customization.OverrideFlags {
	return customization.OverrideFlags{
		Typography: customization.TypographyFlags{
			FontFamily: true, NameFontSize: true, SectionHeaderFontSize: true,
			BodyFontSize: true, LineHeight: true, LetterSpacing: true,
		},
		Layout: customization.LayoutFlags{PageMargin: true, SectionSpacing: true, BulletSpacing: true, DensityPreset: true},
		Colors: customization.ColorFlags{AccentColor: true},
		Header: customization.HeaderFlags{Alignment: true, SeparatorStyle: true},
		Skills: customization.SkillsFlags{DisplayStyle: true},
	}
}

func TestNoOverridesYieldsThemeValues(t *testing.T) {
	for _, th := range theme.List() {
		t.Run(string(th.ID), func(t *testing.T) {
			r := Resolve(th, someCustomization(), customization.OverrideFlags{})
			got := r.Properties()
			for _, p := range properties {
				if p.theme == nil {
					continue
				}
				assert.Equal(t, p.theme(th), got[p.name], p.name)
			}
			assert.False(t, r.Skills.Overridden)
			assert.Equal(t, th.Body.SkillsSeparator, r.Skills.ThemeSeparator)
		})
	}
}

func TestOverridesWin(t *testing.T) {
	th := theme.MustGet(theme.ExecutiveElite)
	r := Resolve(th, someCustomization(), allFlags())

	assert.Equal(t, "hsl(1, 2%, 3%)", r.AccentColor)
	assert.Equal(t, "left", r.HeaderAlignment)
	assert.Equal(t, "'Merriweather', Georgia, serif", r.FontFamily)
	assert.Equal(t, "31px", r.NameFontSize)
	assert.Equal(t, "13px", r.SectionFontSize)
	assert.Equal(t, "10.5px", r.BodyFontSize)
	assert.Equal(t, "1.25", r.LineHeight)
	assert.Equal(t, "0.8rem", r.SectionSpacing)

	// theme-only properties are untouched by flags
	assert.Equal(t, th.Header.FontWeight, r.HeaderFontWeight)
	assert.Equal(t, th.Colors.MutedText, r.MutedTextColor)
	assert.True(t, r.Skills.Overridden)
}

func TestCustomizationOnlyProperties(t *testing.T) {
	c := someCustomization()
	c.Layout.PageMargin = 12
	c.Layout.BulletSpacing = 0.25
	r := Resolve(theme.MustGet(theme.MinimalATS), c, customization.OverrideFlags{})

	assert.Equal(t, "0.02em", r.LetterSpacing)
	assert.Equal(t, "12mm", r.PageMargin)
	assert.Equal(t, "0.25rem", r.BulletSpacing)
	assert.Equal(t, " | ", r.ContactSeparator)
}

func TestSeparators(t *testing.T) {
	for style, want := range map[customization.SeparatorStyle]string{
		customization.SeparatorDot:   " • ",
		customization.SeparatorLine:  " | ",
		customization.SeparatorSpace: "   ",
	} {
		c := customization.Defaults()
		c.Header.SeparatorStyle = style
		assert.Equal(t, want, Resolve(theme.MustGet(theme.DefaultID), c, customization.OverrideFlags{}).ContactSeparator)
	}
}

func TestRightAlignedThemeResolvesLeft(t *testing.T) {
	th := theme.MustGet(theme.ModernProfessional)
	th.Header.TextAlign = "right"
	r := Resolve(th, customization.Defaults(), customization.OverrideFlags{})
	assert.Equal(t, "left", r.HeaderAlignment)
}

func TestRoundTripKeepsResolvedStyle(t *testing.T) {
	ctx := context.Background()
	backend := prefs.NewMemory()
	keys := prefs.UserKeys(1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := customization.Open(ctx, backend, keys, logger)
	require.NoError(t, s.UpdateTypography(ctx, customization.TypographyPatch{NameFontSize: ptr(30.0), LineHeight: ptr(1.4)}))
	require.NoError(t, s.SetDensityPreset(ctx, customization.DensitySpacious))
	require.NoError(t, s.UpdateHeader(ctx, customization.HeaderPatch{Alignment: ptr(customization.AlignLeft)}))
	require.NoError(t, s.UpdateSkills(ctx, customization.SkillsPatch{DisplayStyle: ptr(customization.SkillsBullets)}))

	th := theme.MustGet(theme.AcademicResearch)
	before := Resolve(th, s.Customization(), s.Flags())

	reloaded := customization.Open(ctx, backend, keys, logger)
	after := Resolve(th, reloaded.Customization(), reloaded.Flags())
	assert.Equal(t, before, after)
}

func TestVisibleContactsFollowToggles(t *testing.T) {
	c := customization.Defaults()
	r := Resolve(theme.MustGet(theme.DefaultID), c, customization.OverrideFlags{})
	assert.Equal(t, []ContactField{ContactEmail, ContactPhone, ContactLocation}, r.VisibleContacts)

	c.Header.ShowPhone = false
	c.Header.ShowPortfolio = true
	r = Resolve(theme.MustGet(theme.DefaultID), c, customization.OverrideFlags{})
	assert.Equal(t, []ContactField{ContactEmail, ContactLocation, ContactPortfolio}, r.VisibleContacts)
}
