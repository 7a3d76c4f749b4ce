package api

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"resumeKit/internal/api/middleware"
	"resumeKit/internal/database"
	"resumeKit/internal/editor"
	"resumeKit/internal/prefs"
	"resumeKit/internal/profile"
	"resumeKit/internal/render"
	"resumeKit/internal/resume"
	"resumeKit/internal/tasks"
)

const downloadLinkTTL = 5 * time.Minute

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type exportStorage interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, ttl time.Duration, filename string) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// ResumeHandler serves résumé CRUD, in-place edits, previews and PDF exports.
type ResumeHandler struct {
	repo    resumeRepo
	queue   taskEnqueuer
	storage exportStorage
	prefs   prefs.Store
	logger  *slog.Logger
}

func NewResumeHandler(db *gorm.DB, queue taskEnqueuer, storageClient exportStorage, prefsStore prefs.Store, logger *slog.Logger, maxResumes int) *ResumeHandler {
	return &ResumeHandler{
		repo:    resumeRepo{db: db, maxResumes: maxResumes},
		queue:   queue,
		storage: storageClient,
		prefs:   prefsStore,
		logger:  logger,
	}
}

type resumeRequest struct {
	Title           string          `json:"title" binding:"required,max=255"`
	Content         resume.Document `json:"content"`
	OriginalContent datatypes.JSON  `json:"original_content"`
}

// bindResumeRequest binds the body and rejects titles that are blank after trimming.
func bindResumeRequest(c *gin.Context) (resumeRequest, bool) {
	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return req, false
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		BadRequest(c, "title must not be blank")
		return req, false
	}
	return req, true
}

type resumeListItem struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	ExportStatus string    `json:"export_status"`
	HasPDF       bool      `json:"has_pdf"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type resumeResponse struct {
	resumeListItem
	Content         resume.Document `json:"content"`
	OriginalContent datatypes.JSON  `json:"original_content,omitempty"`
	ExportError     string          `json:"export_error,omitempty"`
}

func listItem(r database.Resume) resumeListItem {
	return resumeListItem{
		ID:           r.ID,
		Title:        r.Title,
		ExportStatus: r.ExportStatus,
		HasPDF:       r.PdfKey != "",
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func newResumeResponse(r database.Resume) (resumeResponse, error) {
	doc, err := decodeDocument(r)
	if err != nil {
		return resumeResponse{}, err
	}
	return resumeResponse{
		resumeListItem:  listItem(r),
		Content:         doc,
		OriginalContent: r.OriginalContent,
		ExportError:     r.ExportError,
	}, nil
}

func (h *ResumeHandler) reply(c *gin.Context, status int, record database.Resume) {
	resp, err := newResumeResponse(record)
	if err != nil {
		requestLogger(c, h.logger).Error("stored resume is unreadable", slog.Uint64("resume_id", uint64(record.ID)), slog.Any("error", err))
		Internal(c, "failed to decode resume")
		return
	}
	c.JSON(status, resp)
}

// ListResumes returns the caller's résumés, most recently edited first.
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var records []database.Resume
	if err := h.repo.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&records).Error; err != nil {
		Internal(c, "failed to list resumes")
		return
	}

	items := make([]resumeListItem, 0, len(records))
	for _, r := range records {
		items = append(items, listItem(r))
	}
	c.JSON(http.StatusOK, items)
}

// CreateResume stores a new résumé; the per-user limit is enforced.
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	req, ok := bindResumeRequest(c)
	if !ok {
		return
	}
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	record, err := h.repo.create(c.Request.Context(), userID, req.Title, req.OriginalContent, req.Content)
	if err != nil {
		if errors.Is(err, errResumeLimit) {
			Forbidden(c, "resume limit reached")
			return
		}
		requestLogger(c, h.logger).Error("create resume failed", slog.Any("error", err))
		Internal(c, "failed to create resume")
		return
	}
	h.reply(c, http.StatusCreated, *record)
}

func (h *ResumeHandler) GetResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	record, err := h.repo.find(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		replyLookupError(c, err)
		return
	}
	h.reply(c, http.StatusOK, *record)
}

// UpdateResume replaces title and content. The original submission is kept unless the
// request carries a new one.
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	req, ok := bindResumeRequest(c)
	if !ok {
		return
	}
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	record, err := h.repo.find(ctx, c.Param("id"), userID)
	if err != nil {
		replyLookupError(c, err)
		return
	}

	if err := h.repo.update(ctx, record, req.Title, req.OriginalContent, req.Content); err != nil {
		requestLogger(c, h.logger).Error("update resume failed", slog.Any("error", err))
		Internal(c, "failed to update resume")
		return
	}
	if err := h.repo.db.WithContext(ctx).First(record, record.ID).Error; err != nil {
		Internal(c, "failed to reload resume")
		return
	}
	h.reply(c, http.StatusOK, *record)
}

// DeleteResume removes the record and, best effort, its exported PDF.
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	record, err := h.repo.find(ctx, c.Param("id"), userID)
	if err != nil {
		replyLookupError(c, err)
		return
	}
	if err := h.repo.db.WithContext(ctx).Delete(&database.Resume{}, record.ID).Error; err != nil {
		Internal(c, "failed to delete resume")
		return
	}
	if record.PdfKey != "" {
		if err := h.storage.DeleteObject(ctx, record.PdfKey); err != nil {
			requestLogger(c, h.logger).Warn("failed to remove exported pdf",
				slog.String("object_key", record.PdfKey),
				slog.Any("error", err),
			)
		}
	}
	c.Status(http.StatusNoContent)
}

type fieldEditRequest struct {
	Path  string `json:"path" binding:"required"`
	Value string `json:"value"`
}

// CommitField writes one in-place edit. Unknown paths and out-of-range indices leave the
// résumé untouched and report applied=false.
func (h *ResumeHandler) CommitField(c *gin.Context) {
	var req fieldEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	record, err := h.repo.find(ctx, c.Param("id"), userID)
	if err != nil {
		replyLookupError(c, err)
		return
	}
	doc, err := decodeDocument(*record)
	if err != nil {
		Internal(c, "failed to decode resume")
		return
	}

	applied := editor.Apply(&doc, req.Path, req.Value)
	if applied {
		if err := h.repo.saveDocument(ctx, record, doc); err != nil {
			Internal(c, "failed to save resume")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied, "content": doc})
}

// Preview returns the styled tree built from the caller's theme and customization.
func (h *ResumeHandler) Preview(c *gin.Context) {
	doc, p, ok := h.loadForRender(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p.Render(doc))
}

// PreviewHTML returns the same page the export worker captures.
func (h *ResumeHandler) PreviewHTML(c *gin.Context) {
	doc, p, ok := h.loadForRender(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.WriteHTML(&buf, p.Render(doc)); err != nil {
		requestLogger(c, h.logger).Error("render preview failed", slog.Any("error", err))
		Internal(c, "failed to render preview")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *ResumeHandler) loadForRender(c *gin.Context) (resume.Document, *profile.Profile, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return resume.Document{}, nil, false
	}
	ctx := c.Request.Context()
	record, err := h.repo.find(ctx, c.Param("id"), userID)
	if err != nil {
		replyLookupError(c, err)
		return resume.Document{}, nil, false
	}
	doc, err := decodeDocument(*record)
	if err != nil {
		Internal(c, "failed to decode resume")
		return resume.Document{}, nil, false
	}
	return doc, profile.Load(ctx, h.prefs, userID, requestLogger(c, h.logger)), true
}

// ExportResume marks the résumé as exporting and enqueues a one-shot export task. A second
// request while one is running is rejected.
func (h *ResumeHandler) ExportResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	logger := requestLogger(c, h.logger)
	record, err := h.repo.find(ctx, c.Param("id"), userID)
	if err != nil {
		replyLookupError(c, err)
		return
	}

	claim := h.repo.db.WithContext(ctx).Model(&database.Resume{}).
		Where("id = ? AND user_id = ? AND export_status <> ?", record.ID, userID, database.ExportRunning).
		Updates(map[string]any{"export_status": database.ExportRunning, "export_error": ""})
	if claim.Error != nil {
		Internal(c, "failed to start export")
		return
	}
	if claim.RowsAffected == 0 {
		Conflict(c, "export already in progress")
		return
	}

	task, err := tasks.NewPDFExportTask(record.ID, userID, middleware.GetCorrelationID(c))
	if err == nil {
		var info *asynq.TaskInfo
		if info, err = h.queue.EnqueueContext(ctx, task); err == nil {
			logger.Info("export enqueued", slog.Uint64("resume_id", uint64(record.ID)), slog.String("task_id", info.ID))
			c.JSON(http.StatusAccepted, gin.H{
				"message": "PDF export request accepted",
				"task_id": info.ID,
			})
			return
		}
	}

	logger.Error("enqueue export failed", slog.Any("error", err))
	if rollback := h.repo.db.WithContext(ctx).Model(record).
		Updates(map[string]any{"export_status": record.ExportStatus, "export_error": record.ExportError}).Error; rollback != nil {
		logger.Error("failed to release export flag", slog.Any("error", rollback))
	}
	Internal(c, "failed to enqueue pdf export")
}

// GetDownloadLink returns a short-lived presigned URL for the last exported PDF.
func (h *ResumeHandler) GetDownloadLink(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	record, err := h.repo.find(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		replyLookupError(c, err)
		return
	}
	if record.PdfKey == "" {
		Conflict(c, "pdf not ready")
		return
	}

	signedURL, err := h.storage.GeneratePresignedURL(c.Request.Context(), record.PdfKey, downloadLinkTTL, downloadFilename(record.Title))
	if err != nil {
		requestLogger(c, h.logger).Error("presign download failed", slog.Any("error", err))
		Internal(c, "failed to generate download link")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":        signedURL,
		"expires_in": int(downloadLinkTTL.Seconds()),
		"status":     record.ExportStatus,
	})
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func downloadFilename(title string) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(title), "-"), "-.")
	if name == "" {
		name = "resume"
	}
	if len(name) > 80 {
		name = name[:80]
	}
	return name + ".pdf"
}
