// Package profile loads one user's theme selection and customization and turns a résumé
// into the styled document shown in preview and export.
package profile

import (
	"context"
	"log/slog"

	"resumeKit/internal/customization"
	"resumeKit/internal/prefs"
	"resumeKit/internal/render"
	"resumeKit/internal/resume"
	"resumeKit/internal/style"
	"resumeKit/internal/theme"
)

// Profile bundles the two preference aggregates of a user.
type Profile struct {
	Customization *customization.Store
	Theme         *theme.Preference
}

// Load reads the profile of userID from backend. Missing or unreadable values fall back
// to defaults.
func Load(ctx context.Context, backend prefs.Store, userID uint, logger *slog.Logger) *Profile {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.Uint64("user_id", uint64(userID)))
	keys := prefs.UserKeys(userID)
	return &Profile{
		Customization: customization.Open(ctx, backend, keys, logger),
		Theme:         theme.LoadPreference(ctx, backend, keys.Theme, logger),
	}
}

// Snapshot is the serialisable state of a profile.
type Snapshot struct {
	ThemeID       theme.ID                    `json:"theme_id"`
	Customization customization.Customization `json:"customization"`
	Overrides     customization.OverrideFlags `json:"overrides"`
	Resolved      style.Resolved              `json:"resolved"`
}

func (p *Profile) Snapshot() Snapshot {
	custom, flags := p.Customization.Snapshot()
	t := p.Theme.Theme()
	return Snapshot{
		ThemeID:       t.ID,
		Customization: custom,
		Overrides:     flags,
		Resolved:      style.Resolve(t, custom, flags),
	}
}

// Render builds the styled document for doc.
func (p *Profile) Render(doc resume.Document) render.Document {
	snap := p.Snapshot()
	return render.Build(doc, snap.Resolved, snap.Customization.Sections)
}

// Reset clears the customization and its overrides. The theme selection is kept;
// it is cleared through Theme.Reset.
func (p *Profile) Reset(ctx context.Context) {
	p.Customization.ResetToDefaults(ctx)
}
