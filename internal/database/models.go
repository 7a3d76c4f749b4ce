package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Export states of a résumé record. ExportRunning doubles as the busy flag.
const (
	ExportIdle      = ""
	ExportRunning   = "exporting"
	ExportCompleted = "completed"
	ExportFailed    = "failed"
)

// User is an account that owns résumés and preferences.
type User struct {
	gorm.Model
	Username           string   `gorm:"uniqueIndex;size:64"`
	PasswordHash       string   `gorm:"size:255"`
	MustChangePassword bool     `gorm:"not null;default:false"`
	Resumes            []Resume `gorm:"constraint:OnDelete:CASCADE"`
}

// Resume is one saved résumé. OriginalContent keeps what the user submitted (form input or
// extracted text), RenderedContent the structured document shown in the editor.
type Resume struct {
	gorm.Model
	Title           string         `gorm:"size:255"`
	OriginalContent datatypes.JSON `gorm:"type:jsonb"`
	RenderedContent datatypes.JSON `gorm:"type:jsonb"`
	UserID          uint           `gorm:"index"`
	User            User           `gorm:"constraint:OnDelete:CASCADE"`
	PdfKey          string         `gorm:"size:512"`
	ExportStatus    string         `gorm:"size:32"`
	ExportError     string         `gorm:"size:512"`
}

// Preference is one persisted preference value keyed by user-scoped name.
type Preference struct {
	Key       string         `gorm:"column:pref_key;primaryKey;size:160"`
	Value     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Models lists every table the services migrate on start.
func Models() []any {
	return []any{&User{}, &Resume{}, &Preference{}}
}
