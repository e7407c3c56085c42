package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Event names of the analysis stream
const (
	eventStatus   = "status"
	eventComplete = "complete"
	eventError    = "error"
)

// StatusEvent is sent whenever a streamed run changes status
type StatusEvent struct {
	RunID     uuid.UUID  `json:"run_id"`
	Status    string     `json:"status"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

// runStream writes one run's lifecycle as server-sent events. Status events
// are only written when the status differs from the last one sent.
type runStream struct {
	w          http.ResponseWriter
	flusher    http.Flusher
	lastStatus string
}

func newRunStream(w http.ResponseWriter) (*runStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	return &runStream{w: w, flusher: flusher}, nil
}

// Update sends a status event for run if its status changed, and the full run
// once it is terminal. It reports whether the stream is finished.
func (s *runStream) Update(run *types.AnalysisRun) (bool, error) {
	if run.Status != s.lastStatus {
		event := StatusEvent{RunID: run.ID, Status: run.Status, StartedAt: run.StartedAt}
		if err := s.write(eventStatus, event); err != nil {
			return true, err
		}
		s.lastStatus = run.Status
	}
	if !run.IsTerminal() {
		return false, nil
	}
	return true, s.write(eventComplete, run)
}

// Fail sends an error event ending the stream
func (s *runStream) Fail(err error) {
	_ = s.write(eventError, map[string]string{"error": err.Error()})
}

func (s *runStream) write(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
