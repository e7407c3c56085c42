package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-matcher/internal/experience"
	"github.com/jonathan/resume-matcher/internal/ingestion"
	"github.com/jonathan/resume-matcher/internal/types"
)

// UploadResumeResponse is returned for an uploaded résumé document
type UploadResumeResponse struct {
	Resume   *types.Resume       `json:"resume"`
	Metadata *ingestion.Metadata `json:"metadata"`
}

// handleCreateResume stores a structured résumé
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	var resume types.Resume
	if err := decodeJSON(r, &resume); err != nil {
		s.errorFor(w, err)
		return
	}
	resume.ID = uuid.Nil

	s.saveResume(w, r, &resume, nil)
}

// handleGetResume retrieves a résumé by its ID
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleUploadResume extracts text from an uploaded document and stores it
// as a résumé. The form carries the file and optional full_name and email.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		s.errorFor(w, &ErrValidation{Field: "body", Message: "invalid multipart form: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorFor(w, &ErrValidation{Field: "file", Message: "is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorFor(w, &ErrValidation{Field: "file", Message: "could not be read"})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	extraction, err := ingestion.Extract(data, ext)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	if fullName == "" {
		fullName = strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	}
	resume := &types.Resume{
		ID:       uuid.New(),
		Title:    header.Filename,
		FullName: fullName,
		Email:    strings.TrimSpace(r.FormValue("email")),
		RawText:  extraction.Text,
		FileExt:  ext,
	}

	if s.documents != nil {
		key := "resumes/" + resume.ID.String() + ext
		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := s.documents.Put(r.Context(), key, contentType, data); err != nil {
			s.errorFor(w, err)
			return
		}
		resume.ObjectKey = key
	}

	s.saveResume(w, r, resume, extraction.Metadata)
}

// saveResume normalizes and persists a résumé, answering 201
func (s *Server) saveResume(w http.ResponseWriter, r *http.Request, resume *types.Resume, meta *ingestion.Metadata) {
	if err := experience.NormalizeResume(resume, s.taxonomy); err != nil {
		s.errorFor(w, err)
		return
	}

	saved, err := s.store.CreateResume(r.Context(), resume)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	if meta != nil {
		s.jsonResponse(w, http.StatusCreated, UploadResumeResponse{Resume: saved, Metadata: meta})
		return
	}
	s.jsonResponse(w, http.StatusCreated, saved)
}
