package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeKit/internal/extract"
)

type uploadScanner interface {
	Scan(data []byte) error
}

// UploadHandler turns an uploaded résumé file into plain text for the rewrite flow. The
// file itself is not stored.
type UploadHandler struct {
	scanner  uploadScanner
	maxBytes int64
	logger   *slog.Logger
}

func NewUploadHandler(scanner uploadScanner, maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{scanner: scanner, maxBytes: maxBytes, logger: logger}
}

// ExtractText reads the multipart field "file", scans it and returns its text.
func (h *UploadHandler) ExtractText(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		AbortUnauthorized(c)
		return
	}
	logger := requestLogger(c, h.logger)

	// Leave room for the multipart envelope around the file.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+64<<10)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(c, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		BadRequest(c, "missing file")
		return
	}
	if fileHeader.Size > h.maxBytes {
		Error(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		Internal(c, "failed to read file")
		return
	}
	if int64(len(data)) > h.maxBytes {
		Error(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	if err := h.scanner.Scan(data); err != nil {
		if errors.Is(err, extract.ErrInfected) {
			logger.Warn("infected upload rejected", slog.String("filename", fileHeader.Filename), slog.Any("error", err))
			BadRequest(c, "malicious file detected")
			return
		}
		logger.Error("scan file", slog.Any("error", err))
		Internal(c, "failed to scan file")
		return
	}

	text, err := extract.Text(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	switch {
	case err == nil:
	case errors.Is(err, extract.ErrUnsupported):
		Error(c, http.StatusUnsupportedMediaType, "upload a PDF, DOCX or TXT file")
		return
	case errors.Is(err, extract.ErrTooShort):
		UnprocessableEntity(c, err.Error())
		return
	default:
		logger.Info("text extraction failed", slog.String("filename", fileHeader.Filename), slog.Any("error", err))
		UnprocessableEntity(c, "could not read the file")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"text":       text,
		"characters": len([]rune(text)),
		"filename":   fileHeader.Filename,
	})
}
