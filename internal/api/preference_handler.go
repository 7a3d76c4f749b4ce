package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeKit/internal/customization"
	"resumeKit/internal/prefs"
	"resumeKit/internal/profile"
	"resumeKit/internal/theme"
)

// PreferenceHandler exposes the theme selection and the customization store of the caller.
// Every successful call answers with the full profile snapshot.
type PreferenceHandler struct {
	prefs  prefs.Store
	logger *slog.Logger
}

func NewPreferenceHandler(prefsStore prefs.Store, logger *slog.Logger) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefsStore, logger: logger}
}

func (h *PreferenceHandler) load(c *gin.Context) (*profile.Profile, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return nil, false
	}
	return profile.Load(c.Request.Context(), h.prefs, userID, requestLogger(c, h.logger)), true
}

// mutate loads the profile, runs fn and answers with the resulting snapshot.
func (h *PreferenceHandler) mutate(c *gin.Context, fn func(p *profile.Profile) error) {
	p, ok := h.load(c)
	if !ok {
		return
	}
	if err := fn(p); err != nil {
		replyPreferenceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p.Snapshot())
}

func replyPreferenceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, customization.ErrInvalidValue), errors.Is(err, customization.ErrInvalidIndex):
		UnprocessableEntity(c, err.Error())
	case errors.Is(err, customization.ErrUnknownSection), errors.Is(err, theme.ErrUnknownTheme):
		BadRequest(c, err.Error())
	default:
		Internal(c, "failed to update preferences")
	}
}

func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	if p, ok := h.load(c); ok {
		c.JSON(http.StatusOK, p.Snapshot())
	}
}

type selectThemeRequest struct {
	ThemeID theme.ID `json:"theme_id" binding:"required"`
}

func (h *PreferenceHandler) SelectTheme(c *gin.Context) {
	var req selectThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	h.mutate(c, func(p *profile.Profile) error {
		return p.Theme.Select(c.Request.Context(), req.ThemeID)
	})
}

// patchHandler binds a partial settings record and hands it to update, typically a
// method expression such as (*customization.Store).UpdateColors. Only keys present in the
// body become overrides.
func patchHandler[P any](h *PreferenceHandler, update func(*customization.Store, context.Context, P) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch P
		if err := c.ShouldBindJSON(&patch); err != nil {
			BadRequest(c, err.Error())
			return
		}
		h.mutate(c, func(p *profile.Profile) error {
			return update(p.Customization, c.Request.Context(), patch)
		})
	}
}

func (h *PreferenceHandler) PatchTypography() gin.HandlerFunc {
	return patchHandler(h, (*customization.Store).UpdateTypography)
}

func (h *PreferenceHandler) PatchLayout() gin.HandlerFunc {
	return patchHandler(h, (*customization.Store).UpdateLayout)
}

func (h *PreferenceHandler) PatchColors() gin.HandlerFunc {
	return patchHandler(h, (*customization.Store).UpdateColors)
}

func (h *PreferenceHandler) PatchHeader() gin.HandlerFunc {
	return patchHandler(h, (*customization.Store).UpdateHeader)
}

func (h *PreferenceHandler) PatchSkills() gin.HandlerFunc {
	return patchHandler(h, (*customization.Store).UpdateSkills)
}

type densityRequest struct {
	Preset customization.DensityPreset `json:"preset" binding:"required"`
}

func (h *PreferenceHandler) SetDensity(c *gin.Context) {
	var req densityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	h.mutate(c, func(p *profile.Profile) error {
		return p.Customization.SetDensityPreset(c.Request.Context(), req.Preset)
	})
}

func (h *PreferenceHandler) ToggleSection(c *gin.Context) {
	id := customization.SectionID(c.Param("section"))
	h.mutate(c, func(p *profile.Profile) error {
		return p.Customization.ToggleSectionVisibility(c.Request.Context(), id)
	})
}

type sectionTitleRequest struct {
	Title string `json:"title" binding:"max=80"`
}

func (h *PreferenceHandler) SetSectionTitle(c *gin.Context) {
	var req sectionTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	id := customization.SectionID(c.Param("section"))
	h.mutate(c, func(p *profile.Profile) error {
		return p.Customization.UpdateSectionTitle(c.Request.Context(), id, req.Title)
	})
}

type sectionBulletsRequest struct {
	UseBullets bool `json:"use_bullets"`
	Limit      int  `json:"bullet_limit"`
}

func (h *PreferenceHandler) SetSectionBullets(c *gin.Context) {
	var req sectionBulletsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	id := customization.SectionID(c.Param("section"))
	h.mutate(c, func(p *profile.Profile) error {
		return p.Customization.SetSectionBullets(c.Request.Context(), id, req.UseBullets, req.Limit)
	})
}

type reorderRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

// ReorderSections moves the section at position from to position to.
func (h *PreferenceHandler) ReorderSections(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	h.mutate(c, func(p *profile.Profile) error {
		return p.Customization.ReorderSections(c.Request.Context(), *req.From, *req.To)
	})
}

// ResetPreferences drops the customization and its overrides. The theme is untouched.
func (h *PreferenceHandler) ResetPreferences(c *gin.Context) {
	h.mutate(c, func(p *profile.Profile) error {
		p.Reset(c.Request.Context())
		return nil
	})
}

// ResetTheme clears the stored theme selection back to the default theme.
func (h *PreferenceHandler) ResetTheme(c *gin.Context) {
	h.mutate(c, func(p *profile.Profile) error {
		p.Theme.Reset(c.Request.Context())
		return nil
	})
}
