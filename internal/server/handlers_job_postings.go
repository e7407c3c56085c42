package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-matcher/internal/types"
)

// handleCreateJobPosting stores a job posting
func (s *Server) handleCreateJobPosting(w http.ResponseWriter, r *http.Request) {
	var posting types.JobPosting
	if err := decodeJSON(r, &posting); err != nil {
		s.errorFor(w, err)
		return
	}
	posting.ID = uuid.Nil

	if err := posting.Validate(); err != nil {
		s.errorFor(w, err)
		return
	}

	saved, err := s.store.CreateJobPosting(r.Context(), &posting)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, saved)
}

// handleGetJobPosting retrieves a job posting by its ID
func (s *Server) handleGetJobPosting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	posting, err := s.store.GetJobPosting(r.Context(), id)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, posting)
}
