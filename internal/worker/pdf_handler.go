// Package worker consumes export tasks: it renders a résumé with its owner's style, turns it
// into a PDF and stores the result.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"resumeKit/internal/database"
	"resumeKit/internal/errcode"
	"resumeKit/internal/metrics"
	"resumeKit/internal/prefs"
	"resumeKit/internal/profile"
	"resumeKit/internal/render"
	"resumeKit/internal/resume"
	"resumeKit/internal/storage"
	"resumeKit/internal/tasks"
)

// PDFRenderer turns a self-contained HTML page into PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// RendererFunc adapts a function to PDFRenderer.
type RendererFunc func(ctx context.Context, html string) ([]byte, error)

func (f RendererFunc) Render(ctx context.Context, html string) ([]byte, error) { return f(ctx, html) }

// ObjectStore is the subset of the storage client used by exports.
type ObjectStore interface {
	UploadPDF(ctx context.Context, objectName string, reader io.Reader, size int64) error
	DeleteObject(ctx context.Context, objectKey string) error
}

// failTimeout bounds the cleanup writes after the task context is gone.
const failTimeout = 5 * time.Second

// exportError carries the notification code of a failed export.
type exportError struct {
	code int
	err  error
}

func (e *exportError) Error() string { return e.err.Error() }
func (e *exportError) Unwrap() error { return e.err }

func failWith(code int, format string, args ...any) error {
	return &exportError{code: code, err: fmt.Errorf(format, args...)}
}

// PDFTaskHandler consumes tasks.TypePDFExport.
type PDFTaskHandler struct {
	db        *gorm.DB
	prefs     prefs.Store
	renderer  PDFRenderer
	storage   ObjectStore
	publisher Publisher
	logger    *slog.Logger
	mode      string
}

// NewPDFTaskHandler wires the handler. mode only labels metrics.
func NewPDFTaskHandler(
	db *gorm.DB,
	prefsStore prefs.Store,
	renderer PDFRenderer,
	objectStore ObjectStore,
	publisher Publisher,
	logger *slog.Logger,
	mode string,
) *PDFTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFTaskHandler{
		db:        db,
		prefs:     prefsStore,
		renderer:  renderer,
		storage:   objectStore,
		publisher: publisher,
		logger:    logger,
		mode:      mode,
	}
}

// ProcessTask implements asynq.Handler. Export tasks run once; a failure marks the record
// failed, keeps its previous PDF and notifies the owner.
func (h *PDFTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	var payload tasks.PDFExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Uint64("resume_id", uint64(payload.ResumeID)),
		slog.Uint64("user_id", uint64(payload.UserID)),
	)
	log.Info("starting pdf export")

	var record database.Resume
	err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", payload.ResumeID, payload.UserID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("resume not found, skipping export")
		notify := ExportNotifyMessage{
			Status:        NotifyError,
			ResumeID:      payload.ResumeID,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.ResourceMissing,
			ErrorMessage:  "resume not found",
		}
		if err := publishNotify(ctx, h.publisher, payload.UserID, notify); err != nil {
			log.Error("publish export error failed", slog.Any("error", err))
		}
		return nil
	}
	if err != nil {
		log.Error("query resume failed", slog.Any("error", err))
		h.releaseExport(ctx, log, payload.ResumeID, payload.UserID, "query resume failed")
		return err
	}

	start := time.Now()
	defer func() {
		metrics.ObserveExport(h.mode, retErr == nil, time.Since(start))
		if retErr == nil {
			return
		}
		h.fail(ctx, log, record, payload.CorrelationID, retErr)
	}()

	key, err := h.export(ctx, log, record)
	if err != nil {
		log.Error("pdf export failed", slog.Any("error", err))
		return err
	}

	previous := record.PdfKey
	if err := h.db.WithContext(ctx).Model(&record).Updates(map[string]any{
		"pdf_key":       key,
		"export_status": database.ExportCompleted,
		"export_error":  "",
	}).Error; err != nil {
		return failWith(errcode.SystemError, "update resume: %w", err)
	}
	if previous != "" && previous != key {
		if err := h.storage.DeleteObject(ctx, previous); err != nil {
			log.Warn("delete previous export failed", slog.String("object_key", previous), slog.Any("error", err))
		}
	}

	notify := ExportNotifyMessage{
		Status:        NotifyCompleted,
		ResumeID:      record.ID,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
	}
	if err := publishNotify(ctx, h.publisher, record.UserID, notify); err != nil {
		log.Error("publish completion failed", slog.Any("error", err))
	}

	log.Info("pdf export completed", slog.String("object_key", key))
	return nil
}

func (h *PDFTaskHandler) export(ctx context.Context, log *slog.Logger, record database.Resume) (string, error) {
	var doc resume.Document
	if len(record.RenderedContent) == 0 {
		return "", failWith(errcode.ValidationFailed, "resume has no content")
	}
	if err := json.Unmarshal(record.RenderedContent, &doc); err != nil {
		return "", failWith(errcode.ValidationFailed, "decode resume content: %w", err)
	}
	doc.Normalize()

	p := profile.Load(ctx, h.prefs, record.UserID, log)
	var html bytes.Buffer
	if err := render.WriteHTML(&html, p.Render(doc)); err != nil {
		return "", failWith(errcode.SystemError, "render html: %w", err)
	}

	data, err := h.renderer.Render(ctx, html.String())
	if err != nil {
		return "", failWith(errcode.ExportFailed, "capture pdf: %w", err)
	}

	key := storage.ExportKey(record.UserID)
	if err := h.storage.UploadPDF(ctx, key, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", failWith(errcode.UpstreamFailed, "upload pdf: %w", err)
	}
	return key, nil
}

// fail marks the export failed and notifies the owner. It runs detached from
// ctx so a cancelled or timed out task still releases the exporting flag.
func (h *PDFTaskHandler) fail(ctx context.Context, log *slog.Logger, record database.Resume, correlationID string, cause error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failTimeout)
	defer cancel()

	code := errcode.SystemError
	var exportErr *exportError
	if errors.As(cause, &exportErr) {
		code = exportErr.code
	}
	message := truncate(strings.TrimSpace(cause.Error()), 512)

	if err := h.db.WithContext(ctx).Model(&record).Updates(map[string]any{
		"export_status": database.ExportFailed,
		"export_error":  message,
	}).Error; err != nil {
		log.Error("mark export failed", slog.Any("error", err))
	}

	notify := ExportNotifyMessage{
		Status:        NotifyError,
		ResumeID:      record.ID,
		CorrelationID: correlationID,
		ErrorCode:     code,
		ErrorMessage:  message,
	}
	if err := publishNotify(ctx, h.publisher, record.UserID, notify); err != nil {
		log.Error("publish export error failed", slog.Any("error", err))
	}
}

// releaseExport is the best-effort fallback when the record itself could not be loaded.
func (h *PDFTaskHandler) releaseExport(ctx context.Context, log *slog.Logger, resumeID, userID uint, message string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failTimeout)
	defer cancel()

	err := h.db.WithContext(ctx).Model(&database.Resume{}).
		Where("id = ? AND user_id = ? AND export_status = ?", resumeID, userID, database.ExportRunning).
		Updates(map[string]any{
			"export_status": database.ExportFailed,
			"export_error":  message,
		}).Error
	if err != nil {
		log.Error("release export flag failed", slog.Any("error", err))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
