package customization

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeKit/internal/prefs"
)

var testKeys = prefs.UserKeys(7)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openStore(t *testing.T, backend prefs.Store) *Store {
	t.Helper()
	return Open(context.Background(), backend, testKeys, quietLogger())
}

func ptr[T any](v T) *T { return &v }

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("backend down")
}
func (failingBackend) Set(context.Context, string, []byte) error { return errors.New("backend down") }
func (failingBackend) Delete(context.Context, ...string) error  { return errors.New("backend down") }

func TestOpenWithoutStoredStateUsesDefaults(t *testing.T) {
	s := openStore(t, prefs.NewMemory())
	c, f := s.Snapshot()
	assert.Equal(t, Defaults(), c)
	assert.Equal(t, OverrideFlags{}, f)
}

func TestUpdateTypographySetsOnlyPresentFlags(t *testing.T) {
	s := openStore(t, prefs.NewMemory())
	require.NoError(t, s.UpdateTypography(context.Background(), TypographyPatch{
		FontFamily:   ptr(FontGeorgia),
		BodyFontSize: ptr(12.0),
	}))

	c, f := s.Snapshot()
	assert.Equal(t, FontGeorgia, c.Typography.FontFamily)
	assert.Equal(t, 12.0, c.Typography.BodyFontSize)
	assert.Equal(t, 28.0, c.Typography.NameFontSize)
	assert.True(t, f.Typography.FontFamily)
	assert.True(t, f.Typography.BodyFontSize)
	assert.False(t, f.Typography.NameFontSize)
	assert.False(t, f.Typography.LineHeight)
}

func TestFlagsStayOnWhenValueReturnsToDefault(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, prefs.NewMemory())
	require.NoError(t, s.UpdateColors(ctx, ColorsPatch{AccentColor: ptr("hsl(0, 0%, 0%)")}))
	require.NoError(t, s.UpdateColors(ctx, ColorsPatch{AccentColor: ptr(Defaults().Colors.AccentColor)}))

	c, f := s.Snapshot()
	assert.Equal(t, Defaults().Colors.AccentColor, c.Colors.AccentColor)
	assert.True(t, f.Colors.AccentColor)
}

func TestInvalidPatchLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		run  func(*Store) error
	}{
		{"font", func(s *Store) error { return s.UpdateTypography(ctx, TypographyPatch{FontFamily: ptr(FontFamily("comic-sans"))}) }},
		{"size", func(s *Store) error { return s.UpdateTypography(ctx, TypographyPatch{BodyFontSize: ptr(0.0)}) }},
		{"margin", func(s *Store) error { return s.UpdateLayout(ctx, LayoutPatch{PageMargin: ptr(-1.0)}) }},
		{"density", func(s *Store) error { return s.SetDensityPreset(ctx, DensityPreset("roomy")) }},
		{"alignment", func(s *Store) error { return s.UpdateHeader(ctx, HeaderPatch{Alignment: ptr(HeaderAlignment("right"))}) }},
		{"separator", func(s *Store) error { return s.UpdateHeader(ctx, HeaderPatch{SeparatorStyle: ptr(SeparatorStyle("slash"))}) }},
		{"skills", func(s *Store) error { return s.UpdateSkills(ctx, SkillsPatch{DisplayStyle: ptr(SkillsDisplayStyle("cloud"))}) }},
		{"accent", func(s *Store) error { return s.UpdateColors(ctx, ColorsPatch{AccentColor: ptr("  ")}) }},
		{"accent markup", func(s *Store) error { return s.UpdateColors(ctx, ColorsPatch{AccentColor: ptr("red;}</style>")}) }},
		{"bullets", func(s *Store) error { return s.SetSectionBullets(ctx, SectionExperience, true, -2) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := prefs.NewMemory()
			s := openStore(t, backend)
			err := tc.run(s)
			require.ErrorIs(t, err, ErrInvalidValue)

			c, f := s.Snapshot()
			assert.Equal(t, Defaults(), c)
			assert.Equal(t, OverrideFlags{}, f)
			_, stored, _ := backend.Get(ctx, testKeys.Customization)
			assert.False(t, stored)
		})
	}
}

func TestSetDensityPresetAppliesBundle(t *testing.T) {
	s := openStore(t, prefs.NewMemory())
	require.NoError(t, s.SetDensityPreset(context.Background(), DensityCompact))

	c, f := s.Snapshot()
	assert.Equal(t, LayoutSettings{PageMargin: 12, SectionSpacing: 1, BulletSpacing: 0.25, DensityPreset: DensityCompact}, c.Layout)
	assert.Equal(t, LayoutFlags{PageMargin: true, SectionSpacing: true, BulletSpacing: true, DensityPreset: true}, f.Layout)
}

func TestCompactThenPageMargin(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, prefs.NewMemory())
	require.NoError(t, s.SetDensityPreset(ctx, DensityCompact))
	require.NoError(t, s.UpdateLayout(ctx, LayoutPatch{PageMargin: ptr(18.0)}))

	c, _ := s.Snapshot()
	assert.Equal(t, 18.0, c.Layout.PageMargin)
	assert.Equal(t, 1.0, c.Layout.SectionSpacing)
	assert.Equal(t, 0.25, c.Layout.BulletSpacing)
	assert.Equal(t, DensityCompact, c.Layout.DensityPreset)
}

func TestToggleSectionVisibilityFlipsOnlyTarget(t *testing.T) {
	s := openStore(t, prefs.NewMemory())
	require.NoError(t, s.ToggleSectionVisibility(context.Background(), SectionPublications))

	c := s.Customization()
	for _, sc := range c.Sections {
		want := Defaults().Sections[sc.Order].Visible
		if sc.ID == SectionPublications {
			want = !want
		}
		assert.Equal(t, want, sc.Visible, sc.ID)
	}
}

func TestUnknownSection(t *testing.T) {
	s := openStore(t, prefs.NewMemory())
	err := s.ToggleSectionVisibility(context.Background(), SectionID("hobbies"))
	require.ErrorIs(t, err, ErrUnknownSection)
}

func TestReorderSectionsKeepsDenseOrder(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, prefs.NewMemory())
	require.NoError(t, s.ReorderSections(ctx, 0, 7))
	require.NoError(t, s.ReorderSections(ctx, 3, 1))

	sorted := SortedSections(s.Customization().Sections)
	ids := make([]SectionID, len(sorted))
	for i, sc := range sorted {
		assert.Equal(t, i, sc.Order)
		ids[i] = sc.ID
	}
	assert.Equal(t, []SectionID{
		SectionExperience, SectionProjects, SectionSkills, SectionEducation,
		SectionCertifications, SectionAchievements, SectionPublications, SectionSummary,
	}, ids)
}

func TestReorderSectionsRejectsOutOfRange(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, prefs.NewMemory())
	for _, idx := range [][2]int{{-1, 0}, {0, 8}, {8, 0}, {2, -3}} {
		require.ErrorIs(t, s.ReorderSections(ctx, idx[0], idx[1]), ErrInvalidIndex)
	}
	assert.Equal(t, Defaults().Sections, s.Customization().Sections)
}

func TestReorderSameIndexIsNoop(t *testing.T) {
	s := openStore(t, prefs.NewMemory())
	require.NoError(t, s.ReorderSections(context.Background(), 4, 4))
	assert.Equal(t, Defaults().Sections, s.Customization().Sections)
}

func TestUpdateSectionTitleTrimsAndClears(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, prefs.NewMemory())

	require.NoError(t, s.UpdateSectionTitle(ctx, SectionSkills, "  Toolbox  "))
	sc, _ := s.Customization().Section(SectionSkills)
	assert.Equal(t, "Toolbox", sc.Title())

	require.NoError(t, s.UpdateSectionTitle(ctx, SectionSkills, "   "))
	sc, _ = s.Customization().Section(SectionSkills)
	assert.Empty(t, sc.CustomTitle)
	assert.Equal(t, "Skills", sc.Title())
}

func TestSetSectionBullets(t *testing.T) {
	s := openStore(t, prefs.NewMemory())
	require.NoError(t, s.SetSectionBullets(context.Background(), SectionExperience, false, 0))
	sc, _ := s.Customization().Section(SectionExperience)
	assert.False(t, sc.UseBullets)
	assert.Zero(t, sc.BulletLimit)
}

func TestResetMatchesFreshStore(t *testing.T) {
	ctx := context.Background()
	backend := prefs.NewMemory()
	s := openStore(t, backend)
	require.NoError(t, s.SetDensityPreset(ctx, DensitySpacious))
	require.NoError(t, s.UpdateHeader(ctx, HeaderPatch{ShowLinkedIn: ptr(true)}))
	require.NoError(t, s.ReorderSections(ctx, 1, 5))

	s.ResetToDefaults(ctx)

	fresh := openStore(t, prefs.NewMemory())
	gotC, gotF := s.Snapshot()
	wantC, wantF := fresh.Snapshot()
	assert.Equal(t, wantC, gotC)
	assert.Equal(t, wantF, gotF)

	for _, key := range []string{testKeys.Customization, testKeys.Overrides} {
		_, ok, err := backend.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}

func TestPersistAndReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := prefs.NewMemory()
	s := openStore(t, backend)
	require.NoError(t, s.UpdateTypography(ctx, TypographyPatch{FontFamily: ptr(FontLato), LetterSpacing: ptr(0.02)}))
	require.NoError(t, s.UpdateSkills(ctx, SkillsPatch{DisplayStyle: ptr(SkillsGrouped)}))
	require.NoError(t, s.UpdateSectionTitle(ctx, SectionSummary, "Profile"))
	require.NoError(t, s.ReorderSections(ctx, 2, 0))

	reloaded := openStore(t, backend)
	gotC, gotF := reloaded.Snapshot()
	wantC, wantF := s.Snapshot()
	assert.Equal(t, wantC, gotC)
	assert.Equal(t, wantF, gotF)
}

func TestLoadMergesPartialRecordsOverDefaults(t *testing.T) {
	ctx := context.Background()
	backend := prefs.NewMemory()
	require.NoError(t, backend.Set(ctx, testKeys.Customization, []byte(`{"typography":{"font_family":"roboto"},"colors":{}}`)))

	c := openStore(t, backend).Customization()
	assert.Equal(t, FontRoboto, c.Typography.FontFamily)
	assert.Equal(t, 28.0, c.Typography.NameFontSize)
	assert.Equal(t, Defaults().Colors, c.Colors)
	assert.Equal(t, Defaults().Sections, c.Sections)
}

func TestLoadRepairsSections(t *testing.T) {
	ctx := context.Background()
	backend := prefs.NewMemory()
	raw := `{"sections":[
		{"id":"skills","visible":false,"order":4},
		{"id":"summary","visible":true,"order":1},
		{"id":"skills","visible":true,"order":9},
		{"id":"hobbies","visible":true,"order":0}
	]}`
	require.NoError(t, backend.Set(ctx, testKeys.Customization, []byte(raw)))

	sections := openStore(t, backend).Customization().Sections
	require.Len(t, sections, len(SectionIDs))
	assert.Equal(t, SectionSummary, sections[0].ID)
	assert.Equal(t, SectionSkills, sections[1].ID)
	assert.False(t, sections[1].Visible)

	seen := map[SectionID]bool{}
	for i, sc := range sections {
		assert.Equal(t, i, sc.Order)
		assert.False(t, seen[sc.ID])
		seen[sc.ID] = true
	}
}

func TestCorruptStoredStateFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	backend := prefs.NewMemory()
	require.NoError(t, backend.Set(ctx, testKeys.Customization, []byte(`{"typography":`)))
	require.NoError(t, backend.Set(ctx, testKeys.Overrides, []byte(`not json`)))

	c, f := openStore(t, backend).Snapshot()
	assert.Equal(t, Defaults(), c)
	assert.Equal(t, OverrideFlags{}, f)
}

func TestOutOfDomainStoredEnumsAreReplaced(t *testing.T) {
	ctx := context.Background()
	backend := prefs.NewMemory()
	require.NoError(t, backend.Set(ctx, testKeys.Customization, []byte(`{"header":{"alignment":"right","separator_style":"slash"},"skills":{"display_style":"cloud"}}`)))

	c := openStore(t, backend).Customization()
	assert.Equal(t, AlignCenter, c.Header.Alignment)
	assert.Equal(t, SeparatorDot, c.Header.SeparatorStyle)
	assert.Equal(t, SkillsComma, c.Skills.DisplayStyle)
}

func TestBackendFailuresKeepInMemoryChanges(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, failingBackend{}, testKeys, quietLogger())
	require.NoError(t, s.UpdateHeader(ctx, HeaderPatch{Alignment: ptr(AlignLeft)}))
	assert.Equal(t, AlignLeft, s.Customization().Header.Alignment)

	s.ResetToDefaults(ctx)
	assert.Equal(t, Defaults(), s.Customization())
}

func TestSnapshotIsDetached(t *testing.T) {
	s := openStore(t, prefs.NewMemory())
	c := s.Customization()
	c.Sections[0].Visible = false
	assert.True(t, s.Customization().Sections[0].Visible)
}
