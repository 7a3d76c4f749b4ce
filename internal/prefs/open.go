package prefs

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"resumeKit/internal/config"
)

// Open returns the Store selected by cfg.Backend.
func Open(cfg config.PrefsConfig, db *gorm.DB, rdb redis.Cmdable) (Store, error) {
	switch cfg.Backend {
	case "", config.PrefsBackendGorm:
		if db == nil {
			return nil, fmt.Errorf("prefs backend %q needs a database", config.PrefsBackendGorm)
		}
		return NewGorm(db), nil
	case config.PrefsBackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("prefs backend %q needs a redis client", config.PrefsBackendRedis)
		}
		return NewRedis(rdb), nil
	default:
		return nil, fmt.Errorf("unknown prefs backend %q", cfg.Backend)
	}
}
