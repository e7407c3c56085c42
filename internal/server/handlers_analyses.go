package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/types"
)

// maxListLimit caps the limit query parameter
const maxListLimit = 100

// ListAnalysesResponse represents the response for listing analysis runs
type ListAnalysesResponse struct {
	Analyses []types.AnalysisRun `json:"analyses"`
	Count    int                 `json:"count"`
	Limit    int                 `json:"limit"`
}

// handleCreateAnalysis creates a pending run and queues it
func (s *Server) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req types.CreateAnalysisRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorFor(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFor(w, err)
		return
	}

	run, err := s.controller.Create(r.Context(), uuid.MustParse(req.ResumeID), uuid.MustParse(req.JobPostingID))
	if err != nil {
		s.errorFor(w, err)
		return
	}

	if err := s.dispatcher.Submit(r.Context(), run.ID); err != nil {
		s.logger.Error("failed to queue analysis run", zap.String("run_id", run.ID.String()), zap.Error(err))
		s.errorResponse(w, http.StatusServiceUnavailable, "analysis run "+run.ID.String()+" was created but could not be queued")
		return
	}
	s.jsonResponse(w, http.StatusAccepted, run)
}

// handleGetAnalysis returns a run with its result once completed
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleListAnalyses lists runs newest first, optionally for one résumé or status
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	filter := db.RunFilter{
		Limit: parseQueryInt(r, "limit", db.DefaultListLimit, maxListLimit),
	}

	if resumeIDStr := r.URL.Query().Get("resume_id"); resumeIDStr != "" {
		resumeID, err := uuid.Parse(resumeIDStr)
		if err != nil {
			s.errorFor(w, &ErrValidation{Field: "resume_id", Message: "must be a UUID"})
			return
		}
		filter.ResumeID = &resumeID
	}

	if status := r.URL.Query().Get("status"); status != "" {
		switch status {
		case types.StatusPending, types.StatusProcessing, types.StatusCompleted, types.StatusFailed:
			filter.Status = status
		default:
			s.errorFor(w, &ErrValidation{Field: "status", Message: "unknown status " + status})
			return
		}
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ListAnalysesResponse{
		Analyses: runs,
		Count:    len(runs),
		Limit:    filter.Limit,
	})
}

// handleAnalysisEvents streams status changes of a run until it finishes
func (s *Server) handleAnalysisEvents(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	ctx := r.Context()

	run, err := s.store.GetRun(ctx, id)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	stream, err := newRunStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if done, err := stream.Update(run); done || err != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		run, err = s.store.GetRun(ctx, id)
		if err != nil {
			stream.Fail(err)
			return
		}
	}
}
