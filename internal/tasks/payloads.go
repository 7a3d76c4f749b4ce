package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task types shared by the API (producer) and the worker (consumer).
const (
	TypePDFExport = "pdf:export"
)

// PDFExportPayload identifies the résumé to export and who asked for it.
type PDFExportPayload struct {
	ResumeID      uint   `json:"resume_id"`
	UserID        uint   `json:"user_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewPDFExportTask builds a one-shot export task; a failed export is reported to the user
// instead of being retried.
func NewPDFExportTask(resumeID, userID uint, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(PDFExportPayload{
		ResumeID:      resumeID,
		UserID:        userID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal export payload: %w", err)
	}
	return asynq.NewTask(TypePDFExport, payload, asynq.MaxRetry(0)), nil
}
