/**
 * HTTP handlers for the redaction API
 */

package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Ankiitsingh21/pii-detection-backend/internal/errors"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/pii"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/processor"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/queue"
)

// redactResponse is the synchronous redaction result
type redactResponse struct {
	JobID            string           `json:"jobId"`
	Record           *pii.Record      `json:"record"`
	Regions          []pii.MaskRegion `json:"regions"`
	MaskedFieldCount int              `json:"maskedFieldCount"`
	RegionCount      int              `json:"regionCount"`
	Confidence       float64          `json:"confidence"`
	MaskedImage      string           `json:"maskedImage"` // base64
	MimeType         string           `json:"mimeType"`
	ProcessingTimeMs int64            `json:"processingTimeMs"`
}

// errorResponse is the uniform error body
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// handleHealth reports readiness of the server's dependencies
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	code := http.StatusOK

	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			status["database"] = err.Error()
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	if s.events != nil {
		if err := s.events.Ping(r.Context()); err != nil {
			status["redis"] = err.Error()
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, status)
}

// handleRedact runs the full pipeline inline and returns the masked image
func (s *Server) handleRedact(w http.ResponseWriter, r *http.Request) {
	fileData, filename, mimeType, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	jobID := uuid.New().String()
	startTime := time.Now()

	result, err := s.processor.ProcessDocument(r.Context(), &processor.ProcessRequest{
		JobID:      jobID,
		Filename:   filename,
		MimeType:   mimeType,
		FileSize:   int64(len(fileData)),
		FileBuffer: fileData,
	})
	if err != nil {
		s.writeProcessingError(w, jobID, err)
		return
	}

	writeJSON(w, http.StatusOK, &redactResponse{
		JobID:            jobID,
		Record:           result.Record,
		Regions:          result.Regions,
		MaskedFieldCount: result.MaskedFieldCount,
		RegionCount:      result.RegionCount,
		Confidence:       result.Confidence,
		MaskedImage:      base64.StdEncoding.EncodeToString(result.RedactedImage),
		MimeType:         result.OutputMimeType,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

// handleCreateJob enqueues a redaction job for the worker
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	if s.producer == nil {
		writeJSON(w, http.StatusServiceUnavailable, &errorResponse{Error: "queue not configured"})
		return
	}

	fileData, filename, mimeType, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	jobID := uuid.New().String()
	timeout := time.Duration(s.config.ProcessingTimeout) * time.Millisecond

	err := s.producer.EnqueueRedaction(&queue.JobData{
		JobID:      jobID,
		Filename:   filename,
		MimeType:   mimeType,
		FileSize:   int64(len(fileData)),
		FileBuffer: fileData,
	}, timeout)
	if err != nil {
		s.logger.Error("Failed to enqueue job", "jobId", jobID, "error", err)
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "failed to enqueue job"})
		return
	}

	s.logger.Info("Job enqueued", "jobId", jobID, "filename", filename, "size", len(fileData))
	writeJSON(w, http.StatusAccepted, map[string]string{
		"jobId":  jobID,
		"status": "queued",
	})
}

// handleGetJob returns persisted job metadata
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, &errorResponse{Error: "storage not configured"})
		return
	}

	jobID := chi.URLParam(r, "jobID")
	if _, err := uuid.Parse(jobID); err != nil {
		writeJSON(w, http.StatusBadRequest, &errorResponse{Error: "invalid job ID"})
		return
	}

	job, err := s.store.GetJobByID(r.Context(), jobID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, &errorResponse{Error: fmt.Sprintf("job not found: %s", jobID)})
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// handleStats returns queue depth statistics
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.producer == nil {
		writeJSON(w, http.StatusServiceUnavailable, &errorResponse{Error: "queue not configured"})
		return
	}

	stats, err := s.producer.GetStats()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "failed to read queue stats"})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// readUpload extracts the multipart "file" field, bounded by MaxFileSize.
// On failure it writes the error response and returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (data []byte, filename, mimeType string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxFileSize)

	if err := r.ParseMultipartForm(s.config.MaxFileSize); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, &errorResponse{Error: "upload too large or malformed"})
		return nil, "", "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &errorResponse{Error: "missing 'file' field"})
		return nil, "", "", false
	}
	defer file.Close()

	fileData, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &errorResponse{Error: "failed to read upload"})
		return nil, "", "", false
	}
	if len(fileData) == 0 {
		writeJSON(w, http.StatusBadRequest, &errorResponse{Error: "empty upload"})
		return nil, "", "", false
	}

	return fileData, header.Filename, header.Header.Get("Content-Type"), true
}

// writeProcessingError maps pipeline errors onto HTTP statuses
func (s *Server) writeProcessingError(w http.ResponseWriter, jobID string, err error) {
	s.logger.Error("Redaction failed", "jobId", jobID, "error", err)

	if procErr, ok := err.(*errors.ProcessingError); ok {
		code := http.StatusInternalServerError
		switch procErr.Code {
		case errors.ErrorUnsupportedFormat:
			code = http.StatusUnsupportedMediaType
		case errors.ErrorEmptyDocument:
			code = http.StatusUnprocessableEntity
		case errors.ErrorProcessingTimeout:
			code = http.StatusGatewayTimeout
		}
		writeJSON(w, code, &errorResponse{Error: procErr.Message, Code: string(procErr.Code)})
		return
	}

	writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "redaction failed"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
