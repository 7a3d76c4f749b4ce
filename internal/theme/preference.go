package theme

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"resumeKit/internal/prefs"
)

// Preference is one user's persisted theme selection.
type Preference struct {
	mu      sync.Mutex
	backend prefs.Store
	key     string
	logger  *slog.Logger
	id      ID
}

type storedPreference struct {
	ThemeID ID `json:"theme_id"`
}

// LoadPreference reads the selection stored under key. Missing, corrupt or unknown values
// select DefaultID.
func LoadPreference(ctx context.Context, backend prefs.Store, key string, logger *slog.Logger) *Preference {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Preference{
		backend: backend,
		key:     key,
		logger:  logger.With(slog.String("component", "theme")),
		id:      DefaultID,
	}

	data, ok, err := backend.Get(ctx, key)
	switch {
	case err != nil:
		p.logger.Error("failed to load theme preference", slog.Any("error", err))
	case ok:
		var stored storedPreference
		if err := json.Unmarshal(data, &stored); err != nil {
			p.logger.Warn("discarding corrupt theme preference", slog.Any("error", err))
		} else if Valid(stored.ThemeID) {
			p.id = stored.ThemeID
		}
	}
	return p
}

// ID returns the selected theme id.
func (p *Preference) ID() ID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.id
}

// Theme returns the selected theme bundle.
func (p *Preference) Theme() Theme {
	return MustGet(p.ID())
}

// Select switches to id and persists it. Persistence failures are logged only.
func (p *Preference) Select(ctx context.Context, id ID) error {
	if !Valid(id) {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, id)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.id = id
	data, err := json.Marshal(storedPreference{ThemeID: id})
	if err != nil {
		p.logger.Error("failed to encode theme preference", slog.Any("error", err))
		return nil
	}
	if err := p.backend.Set(ctx, p.key, data); err != nil {
		p.logger.Error("failed to save theme preference", slog.Any("error", err))
	}
	return nil
}

// Reset returns to DefaultID and removes the stored key.
func (p *Preference) Reset(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.id = DefaultID
	if err := p.backend.Delete(ctx, p.key); err != nil {
		p.logger.Error("failed to clear theme preference", slog.Any("error", err))
	}
}
