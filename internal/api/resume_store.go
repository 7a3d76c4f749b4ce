package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"resumeKit/internal/database"
	"resumeKit/internal/resume"
)

var (
	errInvalidResumeID = errors.New("invalid resume id")
	errResumeLimit     = errors.New("resume limit reached")
)

// resumeRepo is the persistence shared by the résumé and generation handlers. Every
// lookup is scoped to the owning user.
type resumeRepo struct {
	db         *gorm.DB
	maxResumes int
}

func (r resumeRepo) find(ctx context.Context, idParam string, userID uint) (*database.Resume, error) {
	resumeID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil || resumeID == 0 {
		return nil, errInvalidResumeID
	}

	var record database.Resume
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", uint(resumeID), userID).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// create stores a new record unless the user already owns maxResumes of them.
func (r resumeRepo) create(ctx context.Context, userID uint, title string, original datatypes.JSON, doc resume.Document) (*database.Resume, error) {
	doc.Normalize()
	content, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultTitle(doc)
	}

	record := database.Resume{
		Title:           title,
		OriginalContent: original,
		RenderedContent: datatypes.JSON(content),
		UserID:          userID,
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.maxResumes > 0 {
			var count int64
			if err := tx.Model(&database.Resume{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
				return fmt.Errorf("count resumes: %w", err)
			}
			if count >= int64(r.maxResumes) {
				return errResumeLimit
			}
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// update replaces title and content in one transaction. original is kept when empty.
func (r resumeRepo) update(ctx context.Context, record *database.Resume, title string, original datatypes.JSON, doc resume.Document) error {
	doc.Normalize()
	content, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	changes := map[string]any{
		"title":            title,
		"rendered_content": datatypes.JSON(content),
	}
	if len(original) > 0 {
		changes["original_content"] = original
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(record).Updates(changes).Error
	})
}

// saveDocument overwrites the structured content of record.
func (r resumeRepo) saveDocument(ctx context.Context, record *database.Resume, doc resume.Document) error {
	doc.Normalize()
	content, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	record.RenderedContent = datatypes.JSON(content)
	return r.db.WithContext(ctx).Model(record).Update("rendered_content", record.RenderedContent).Error
}

func decodeDocument(record database.Resume) (resume.Document, error) {
	var doc resume.Document
	if len(record.RenderedContent) > 0 {
		if err := json.Unmarshal(record.RenderedContent, &doc); err != nil {
			return resume.Document{}, fmt.Errorf("decode resume %d: %w", record.ID, err)
		}
	}
	doc.Normalize()
	return doc, nil
}

func defaultTitle(doc resume.Document) string {
	name := strings.TrimSpace(doc.FullName)
	if name == "" {
		return "Untitled résumé"
	}
	return name + " résumé"
}

// replyLookupError writes the response for an error returned by resumeRepo.find.
func replyLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errInvalidResumeID):
		BadRequest(c, "invalid resume id")
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "resume not found")
	default:
		Internal(c, "failed to query resume")
	}
}
