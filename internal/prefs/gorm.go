package prefs

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resumeKit/internal/database"
)

// Gorm stores preferences as rows of the preferences table.
type Gorm struct {
	db *gorm.DB
}

// NewGorm returns a Store backed by db. The Preference table must be migrated.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var rows []database.Preference
	result := g.db.WithContext(ctx).Where("pref_key = ?", key).Limit(1).Find(&rows)
	if result.Error != nil {
		return nil, false, fmt.Errorf("query preference %q: %w", key, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return []byte(rows[0].Value), true, nil
}

func (g *Gorm) Set(ctx context.Context, key string, value []byte) error {
	row := database.Preference{Key: key, Value: datatypes.JSON(value)}
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pref_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert preference %q: %w", key, err)
	}
	return nil
}

func (g *Gorm) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := g.db.WithContext(ctx).Where("pref_key IN ?", keys).Delete(&database.Preference{}).Error; err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	return nil
}
