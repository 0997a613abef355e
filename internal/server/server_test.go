package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ankiitsingh21/pii-detection-backend/internal/config"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/errors"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/pii"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/processor"
)

// fakeProcessor returns a canned result or error
type fakeProcessor struct {
	result *processor.ProcessResult
	err    error
}

func (f *fakeProcessor) ProcessDocument(ctx context.Context, req *processor.ProcessRequest) (*processor.ProcessResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeProcessor) UpdateJobStatus(ctx context.Context, jobID string, status string, metadata map[string]interface{}) error {
	return nil
}

func newTestServer(p processor.RedactionProcessorInterface) *Server {
	return NewServer(&ServerConfig{
		Config: &config.Config{
			ServerAddr:        ":0",
			MaxFileSize:       1 << 20,
			ProcessingTimeout: 1000,
		},
		Processor: p,
	})
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return &body, writer.FormDataContentType()
}

func TestHandleRedact(t *testing.T) {
	fake := &fakeProcessor{
		result: &processor.ProcessResult{
			Record: &pii.Record{
				Name:         "JOHN SMITH",
				DateOfBirth:  "15/08/1990",
				DocumentType: pii.DocumentTypePAN,
				HasPhoto:     true,
			},
			Regions: []pii.MaskRegion{
				{Left: 10, Top: 10, Width: 100, Height: 20, Kind: pii.RegionText},
			},
			DocumentType:     "PAN",
			MaskedFieldCount: 2,
			RegionCount:      1,
			Confidence:       91.5,
			OutputMimeType:   "image/png",
			RedactedImage:    []byte("fake-image-bytes"),
		},
	}
	srv := newTestServer(fake)

	body, contentType := multipartUpload(t, "file", "scan.png", []byte("fake-upload"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/redact", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.http.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp redactResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Record.Name != "JOHN SMITH" {
		t.Errorf("record name = %q, want JOHN SMITH", resp.Record.Name)
	}
	if resp.MaskedFieldCount != 2 || resp.RegionCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", resp.MaskedFieldCount, resp.RegionCount)
	}
	if resp.JobID == "" {
		t.Error("missing job ID")
	}

	decoded, err := base64.StdEncoding.DecodeString(resp.MaskedImage)
	if err != nil {
		t.Fatalf("masked image is not valid base64: %v", err)
	}
	if string(decoded) != "fake-image-bytes" {
		t.Errorf("masked image = %q", decoded)
	}
}

func TestHandleRedactUnsupportedFormat(t *testing.T) {
	fake := &fakeProcessor{err: errors.NewUnsupportedFormatError("job-1", "application/pdf")}
	srv := newTestServer(fake)

	body, contentType := multipartUpload(t, "file", "doc.pdf", []byte("%PDF-1.7"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/redact", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.http.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != string(errors.ErrorUnsupportedFormat) {
		t.Errorf("error code = %q, want %q", resp.Code, errors.ErrorUnsupportedFormat)
	}
}

func TestHandleRedactEmptyDocument(t *testing.T) {
	fake := &fakeProcessor{err: errors.NewEmptyDocumentError("job-1")}
	srv := newTestServer(fake)

	body, contentType := multipartUpload(t, "file", "blank.png", []byte("blank"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/redact", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.http.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestHandleRedactMissingFile(t *testing.T) {
	srv := newTestServer(&fakeProcessor{})

	body, contentType := multipartUpload(t, "wrongfield", "scan.png", []byte("data"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/redact", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.http.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleGetJobInvalidID(t *testing.T) {
	srv := newTestServer(&fakeProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	srv.http.Handler.ServeHTTP(rec, req)

	// Storage is not wired in this test server; that check runs first.
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&fakeProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	srv.http.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
