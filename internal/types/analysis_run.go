package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AnalysisStatus constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Versions recorded on every finished run
const (
	AlgorithmVersion = "2.0.0"
	NLPModelVersion  = "enhanced_1.0"
)

// AnalysisRun wraps one MatchResult with its lifecycle state.
// Result is only set once Status is completed; ErrorMessage only when failed.
type AnalysisRun struct {
	ID                    uuid.UUID    `json:"id"`
	ResumeID              uuid.UUID    `json:"resume_id"`
	JobPostingID          uuid.UUID    `json:"job_posting_id"`
	Status                string       `json:"status"`
	ErrorMessage          *string      `json:"error_message,omitempty"`
	Result                *MatchResult `json:"result,omitempty"`
	ProcessingTimeSeconds *float64     `json:"processing_time_seconds,omitempty"`
	AlgorithmVersion      string       `json:"analysis_algorithm_version,omitempty"`
	NLPModelVersion       string       `json:"nlp_model_version,omitempty"`
	CreatedAt             time.Time    `json:"created_at"`
	StartedAt             *time.Time   `json:"started_at,omitempty"`
	CompletedAt           *time.Time   `json:"completed_at,omitempty"`
}

// IsTerminal reports whether the run has completed or failed
func (r *AnalysisRun) IsTerminal() bool {
	return IsTerminalStatus(r.Status)
}

// IsTerminalStatus reports whether status is completed or failed
func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// CanTransition reports whether a run may move from one status to another.
// The only legal moves are pending→processing and processing→completed|failed.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}

// CreateAnalysisRequest is the caller's request for a new analysis
type CreateAnalysisRequest struct {
	ResumeID     string `json:"resume_id" validate:"required,uuid"`
	JobPostingID string `json:"job_posting_id" validate:"required,uuid"`
}

// Validate validates the CreateAnalysisRequest using the validator.
func (r *CreateAnalysisRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
