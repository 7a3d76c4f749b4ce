package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"resumeKit/internal/generation"
	"resumeKit/internal/resume"
)

// resumeWriter is the generation client as seen by the handlers.
type resumeWriter interface {
	Generate(ctx context.Context, form resume.FormInput) (resume.Document, error)
	Rewrite(ctx context.Context, rawText string) (generation.Improved, error)
	Tailor(ctx context.Context, doc resume.Document, jobDescription string) (generation.Tailored, error)
}

// AIHandler creates and adjusts résumés through the generation service. Calls are capped
// per user and day.
type AIHandler struct {
	repo        resumeRepo
	writer      resumeWriter
	counter     redisRateCounter
	logger      *slog.Logger
	limitPerDay int
	now         func() time.Time
}

func NewAIHandler(db *gorm.DB, writer resumeWriter, counter redisRateCounter, logger *slog.Logger, limitPerDay, maxResumes int) *AIHandler {
	return &AIHandler{
		repo:        resumeRepo{db: db, maxResumes: maxResumes},
		writer:      writer,
		counter:     counter,
		logger:      logger,
		limitPerDay: limitPerDay,
		now:         time.Now,
	}
}

// allow consumes one unit of the caller's daily quota. Counter failures do not block.
func (h *AIHandler) allow(c *gin.Context, userID uint) bool {
	if h.limitPerDay <= 0 {
		return true
	}
	count, err := incrWithTTL(c.Request.Context(), h.counter, dailyQuotaKey("ai", userID, h.now()), 24*time.Hour)
	if err != nil {
		requestLogger(c, h.logger).Warn("ai rate counter unavailable", slog.Any("error", err))
		return true
	}
	if count > int64(h.limitPerDay) {
		TooManyRequests(c, "daily generation limit reached")
		return false
	}
	return true
}

func (h *AIHandler) replyGenerationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, generation.ErrTooShort):
		BadRequest(c, err.Error())
	case errors.Is(err, generation.ErrRateLimited):
		TooManyRequests(c, "generation service is busy, please try again later")
	case errors.Is(err, generation.ErrPaymentRequired):
		Error(c, http.StatusPaymentRequired, "generation credits exhausted")
	case errors.Is(err, generation.ErrNotConfigured):
		Error(c, http.StatusServiceUnavailable, "generation is not configured")
	case generation.IsUpstream(err):
		requestLogger(c, h.logger).Error("generation failed", slog.Any("error", err))
		Error(c, http.StatusBadGateway, "generation failed")
	default:
		requestLogger(c, h.logger).Error("generation failed", slog.Any("error", err))
		Internal(c, "generation failed")
	}
}

func (h *AIHandler) save(c *gin.Context, userID uint, title string, original any, doc resume.Document) (resumeResponse, bool) {
	raw, err := json.Marshal(original)
	if err != nil {
		Internal(c, "failed to encode input")
		return resumeResponse{}, false
	}
	record, err := h.repo.create(c.Request.Context(), userID, title, datatypes.JSON(raw), doc)
	if err != nil {
		if errors.Is(err, errResumeLimit) {
			Forbidden(c, "resume limit reached")
			return resumeResponse{}, false
		}
		requestLogger(c, h.logger).Error("save generated resume failed", slog.Any("error", err))
		Internal(c, "failed to save resume")
		return resumeResponse{}, false
	}
	resp, err := newResumeResponse(*record)
	if err != nil {
		Internal(c, "failed to decode resume")
		return resumeResponse{}, false
	}
	return resp, true
}

type generateRequest struct {
	Title string           `json:"title"`
	Form  resume.FormInput `json:"form"`
}

// Generate polishes form input and saves it as a new résumé.
func (h *AIHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Form.FullName) == "" {
		BadRequest(c, "full name is required")
		return
	}
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	if !h.allow(c, userID) {
		return
	}

	doc, err := h.writer.Generate(c.Request.Context(), req.Form)
	if err != nil {
		h.replyGenerationError(c, err)
		return
	}
	if resp, ok := h.save(c, userID, req.Title, req.Form, doc); ok {
		c.JSON(http.StatusCreated, resp)
	}
}

type improveRequest struct {
	Title string `json:"title"`
	Text  string `json:"text" binding:"required"`
}

// Improve rewrites pasted or extracted résumé text and saves the result.
func (h *AIHandler) Improve(c *gin.Context) {
	var req improveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	if !h.allow(c, userID) {
		return
	}

	out, err := h.writer.Rewrite(c.Request.Context(), req.Text)
	if err != nil {
		h.replyGenerationError(c, err)
		return
	}
	resp, ok := h.save(c, userID, req.Title, gin.H{"text": req.Text}, out.Resume)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"resume": resp, "improvements": out.Improvements})
}

type tailorRequest struct {
	ResumeID       uint   `json:"resume_id" binding:"required"`
	JobDescription string `json:"job_description" binding:"required"`
	// SaveAsNew stores the tailored document as a separate résumé.
	SaveAsNew bool   `json:"save_as_new"`
	Title     string `json:"title"`
}

// Tailor adjusts a stored résumé to a job description and returns the match analysis.
// The stored résumé is never modified.
func (h *AIHandler) Tailor(c *gin.Context) {
	var req tailorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	record, err := h.repo.find(c.Request.Context(), strconv.FormatUint(uint64(req.ResumeID), 10), userID)
	if err != nil {
		replyLookupError(c, err)
		return
	}
	doc, err := decodeDocument(*record)
	if err != nil {
		Internal(c, "failed to decode resume")
		return
	}
	if !h.allow(c, userID) {
		return
	}

	out, err := h.writer.Tailor(c.Request.Context(), doc, req.JobDescription)
	if err != nil {
		h.replyGenerationError(c, err)
		return
	}

	body := gin.H{"tailored_resume": out.Resume, "match_analysis": out.Analysis}
	if req.SaveAsNew {
		title := req.Title
		if strings.TrimSpace(title) == "" {
			title = record.Title + " (tailored)"
		}
		resp, ok := h.save(c, userID, title, gin.H{"resume_id": record.ID, "job_description": req.JobDescription}, out.Resume)
		if !ok {
			return
		}
		body["resume"] = resp
	}
	c.JSON(http.StatusOK, body)
}
