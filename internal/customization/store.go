package customization

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"resumeKit/internal/prefs"
)

// Store holds one user's customization and override flags and writes every change through
// to the preference backend. Writes are best effort: a failed write is logged and the
// in-memory state keeps the change.
type Store struct {
	mu      sync.Mutex
	backend prefs.Store
	keys    prefs.Keys
	logger  *slog.Logger

	custom Customization
	flags  OverrideFlags
}

// Open loads the aggregates stored under keys, falling back to defaults for anything that
// is missing or unreadable.
func Open(ctx context.Context, backend prefs.Store, keys prefs.Keys, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		backend: backend,
		keys:    keys,
		logger:  logger.With(slog.String("component", "customization")),
	}
	s.custom = s.loadCustomization(ctx)
	s.flags = s.loadFlags(ctx)
	return s
}

// Snapshot returns copies of the current customization and flags.
func (s *Store) Snapshot() (Customization, OverrideFlags) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.custom.Clone(), s.flags
}

func (s *Store) Customization() Customization {
	c, _ := s.Snapshot()
	return c
}

func (s *Store) Flags() OverrideFlags {
	_, f := s.Snapshot()
	return f
}

func (s *Store) UpdateTypography(ctx context.Context, p TypographyPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	s.custom.Typography, keys = ApplyPatch(s.custom.Typography, p)
	markOverridden(&s.flags.Typography, keys)
	s.persistLocked(ctx)
	return nil
}

func (s *Store) UpdateLayout(ctx context.Context, p LayoutPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	s.custom.Layout, keys = ApplyPatch(s.custom.Layout, p)
	markOverridden(&s.flags.Layout, keys)
	s.persistLocked(ctx)
	return nil
}

func (s *Store) UpdateColors(ctx context.Context, p ColorsPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.AccentColor != nil {
		trimmed := strings.TrimSpace(*p.AccentColor)
		p.AccentColor = &trimmed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	s.custom.Colors, keys = ApplyPatch(s.custom.Colors, p)
	markOverridden(&s.flags.Colors, keys)
	s.persistLocked(ctx)
	return nil
}

func (s *Store) UpdateHeader(ctx context.Context, p HeaderPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	s.custom.Header, keys = ApplyPatch(s.custom.Header, p)
	markOverridden(&s.flags.Header, keys)
	s.persistLocked(ctx)
	return nil
}

func (s *Store) UpdateSkills(ctx context.Context, p SkillsPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	s.custom.Skills, keys = ApplyPatch(s.custom.Skills, p)
	markOverridden(&s.flags.Skills, keys)
	s.persistLocked(ctx)
	return nil
}

// SetDensityPreset applies the spacing bundle of preset as a single layout update.
func (s *Store) SetDensityPreset(ctx context.Context, preset DensityPreset) error {
	v, ok := densityPresets[preset]
	if !ok {
		return fmt.Errorf("%w: density_preset %q", ErrInvalidValue, preset)
	}
	return s.UpdateLayout(ctx, LayoutPatch{
		PageMargin:     &v.pageMargin,
		SectionSpacing: &v.sectionSpacing,
		BulletSpacing:  &v.bulletSpacing,
		DensityPreset:  &preset,
	})
}

// ToggleSectionVisibility flips the visible flag of id.
func (s *Store) ToggleSectionVisibility(ctx context.Context, id SectionID) error {
	return s.updateSection(ctx, id, func(sc *SectionConfig) {
		sc.Visible = !sc.Visible
	})
}

// UpdateSectionTitle sets the trimmed custom title of id. An empty title restores the
// default label.
func (s *Store) UpdateSectionTitle(ctx context.Context, id SectionID, title string) error {
	title = strings.TrimSpace(title)
	return s.updateSection(ctx, id, func(sc *SectionConfig) {
		sc.CustomTitle = title
	})
}

// SetSectionBullets switches bullet rendering of id. limit 0 shows every bullet.
func (s *Store) SetSectionBullets(ctx context.Context, id SectionID, useBullets bool, limit int) error {
	if limit < 0 {
		return fmt.Errorf("%w: bullet_limit must not be negative", ErrInvalidValue)
	}
	return s.updateSection(ctx, id, func(sc *SectionConfig) {
		sc.UseBullets = useBullets
		sc.BulletLimit = limit
	})
}

func (s *Store) updateSection(ctx context.Context, id SectionID, fn func(*SectionConfig)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.custom.Sections {
		if s.custom.Sections[i].ID == id {
			fn(&s.custom.Sections[i])
			s.persistLocked(ctx)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownSection, id)
}

// ReorderSections moves the section at position from to position to, both indices into the
// sections sorted by order, and renumbers every section densely from zero.
func (s *Store) ReorderSections(ctx context.Context, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.custom.Sections)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: from=%d to=%d (have %d sections)", ErrInvalidIndex, from, to, n)
	}
	if from == to {
		return nil
	}
	sorted := SortedSections(s.custom.Sections)
	moved := sorted[from]
	sorted = append(sorted[:from], sorted[from+1:]...)
	sorted = append(sorted[:to], append([]SectionConfig{moved}, sorted[to:]...)...)
	for i := range sorted {
		sorted[i].Order = i
	}
	s.custom.Sections = sorted
	s.persistLocked(ctx)
	return nil
}

// ResetToDefaults restores default values, clears every flag and removes both stored keys.
func (s *Store) ResetToDefaults(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.custom = Defaults()
	s.flags = OverrideFlags{}
	if err := s.backend.Delete(ctx, s.keys.Customization, s.keys.Overrides); err != nil {
		s.logger.Error("failed to clear customization", slog.Any("error", err))
	}
}

// SortedSections returns a copy of sections in ascending order.
func SortedSections(sections []SectionConfig) []SectionConfig {
	out := append([]SectionConfig(nil), sections...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (s *Store) persistLocked(ctx context.Context) {
	s.write(ctx, s.keys.Customization, s.custom)
	s.write(ctx, s.keys.Overrides, s.flags)
}

func (s *Store) write(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode preference", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := s.backend.Set(ctx, key, data); err != nil {
		s.logger.Error("failed to save preference", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *Store) read(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.Error("failed to load preference", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return data, ok
}

// loadCustomization decodes the stored aggregate over the defaults. Top-level records that
// are present replace the default field by field; absent ones keep the defaults.
func (s *Store) loadCustomization(ctx context.Context) Customization {
	data, ok := s.read(ctx, s.keys.Customization)
	if !ok {
		return Defaults()
	}
	c := Defaults()
	// Sections are replaced wholesale and repaired below, never merged element-wise.
	c.Sections = nil
	if err := json.Unmarshal(data, &c); err != nil {
		s.logger.Warn("discarding corrupt customization", slog.String("key", s.keys.Customization), slog.Any("error", err))
		return Defaults()
	}
	sanitize(&c)
	return c
}

func (s *Store) loadFlags(ctx context.Context) OverrideFlags {
	data, ok := s.read(ctx, s.keys.Overrides)
	if !ok {
		return OverrideFlags{}
	}
	var f OverrideFlags
	if err := json.Unmarshal(data, &f); err != nil {
		s.logger.Warn("discarding corrupt override flags", slog.String("key", s.keys.Overrides), slog.Any("error", err))
		return OverrideFlags{}
	}
	return f
}

// sanitize replaces out-of-domain enum values with their defaults and repairs the section
// list so that every id appears exactly once with dense order.
func sanitize(c *Customization) {
	def := Defaults()
	if _, ok := fontStacks[c.Typography.FontFamily]; !ok {
		c.Typography.FontFamily = def.Typography.FontFamily
	}
	if _, ok := densityPresets[c.Layout.DensityPreset]; !ok {
		c.Layout.DensityPreset = def.Layout.DensityPreset
	}
	if c.Header.Alignment != AlignLeft && c.Header.Alignment != AlignCenter {
		c.Header.Alignment = def.Header.Alignment
	}
	if (HeaderPatch{SeparatorStyle: &c.Header.SeparatorStyle}).Validate() != nil {
		c.Header.SeparatorStyle = def.Header.SeparatorStyle
	}
	if (SkillsPatch{DisplayStyle: &c.Skills.DisplayStyle}).Validate() != nil {
		c.Skills.DisplayStyle = def.Skills.DisplayStyle
	}
	if !ValidColor(c.Colors.AccentColor) {
		c.Colors.AccentColor = def.Colors.AccentColor
	}
	c.Sections = repairSections(c.Sections, def.Sections)
}

func repairSections(stored, defaults []SectionConfig) []SectionConfig {
	seen := make(map[SectionID]bool, len(defaults))
	out := make([]SectionConfig, 0, len(defaults))
	for _, sc := range SortedSections(stored) {
		if !ValidSection(sc.ID) || seen[sc.ID] {
			continue
		}
		if sc.BulletLimit < 0 {
			sc.BulletLimit = 0
		}
		seen[sc.ID] = true
		out = append(out, sc)
	}
	for _, sc := range defaults {
		if !seen[sc.ID] {
			out = append(out, sc)
		}
	}
	for i := range out {
		out[i].Order = i
	}
	return out
}
