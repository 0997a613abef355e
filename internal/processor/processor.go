/**
 * Redaction Processor - single-document PII masking pipeline
 *
 * Orchestrates one job end to end:
 * - MIME detection from magic bytes (declared type is advisory only)
 * - decode + OCR preprocessing (grayscale, contrast, width cap)
 * - Tesseract recognition with word-level bounding boxes
 * - PII extraction and mask-region computation
 * - opaque compositing onto the original image
 *
 * Job metadata goes to PostgreSQL; extracted PII values never do.
 */

package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Ankiitsingh21/pii-detection-backend/internal/errors"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/logging"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/ocr"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/pii"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/redact"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/storage"
)

// RedactionProcessorInterface defines the interface for document redaction
type RedactionProcessorInterface interface {
	ProcessDocument(ctx context.Context, req *ProcessRequest) (*ProcessResult, error)
	UpdateJobStatus(ctx context.Context, jobID string, status string, metadata map[string]interface{}) error
}

// ProcessorConfig holds processor configuration
type ProcessorConfig struct {
	OCREngine   *ocr.Engine
	Store       *storage.PostgresClient
	Extraction  pii.Config
	OutputDir   string
	MaxFileSize int64
}

// ProcessRequest represents a document redaction request
type ProcessRequest struct {
	JobID      string
	Filename   string
	MimeType   string
	FileSize   int64
	FileBuffer []byte
	Metadata   map[string]interface{}
}

// ProcessResult represents the redaction result. RedactedImage is the masked
// output for synchronous callers; OutputPath is where the worker persisted it.
type ProcessResult struct {
	Record           *pii.Record
	Regions          []pii.MaskRegion
	DocumentType     string
	MaskedFieldCount int
	RegionCount      int
	Confidence       float64
	ProcessingTimeMs int64
	OutputPath       string
	OutputMimeType   string
	RedactedImage    []byte
}

// RedactionProcessor handles document redaction
type RedactionProcessor struct {
	config *ProcessorConfig
	ocr    *ocr.Engine
	engine *pii.Engine
	store  *storage.PostgresClient
	logger *logging.Logger
}

// NewRedactionProcessor creates a new redaction processor
func NewRedactionProcessor(cfg *ProcessorConfig) (*RedactionProcessor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if cfg.OCREngine == nil {
		return nil, fmt.Errorf("OCR engine is required")
	}

	return &RedactionProcessor{
		config: cfg,
		ocr:    cfg.OCREngine,
		engine: pii.NewEngine(cfg.Extraction),
		store:  cfg.Store,
		logger: logging.NewLogger("processor"),
	}, nil
}

// ProcessDocument runs the full redaction pipeline for one document
func (p *RedactionProcessor) ProcessDocument(ctx context.Context, req *ProcessRequest) (*ProcessResult, error) {
	startTime := time.Now()
	p.logger.Info("Starting redaction pipeline", "jobId", req.JobID, "filename", req.Filename)

	// Step 1: Validate input buffer
	if len(req.FileBuffer) == 0 {
		return nil, fmt.Errorf("no file buffer provided")
	}
	if p.config.MaxFileSize > 0 && int64(len(req.FileBuffer)) > p.config.MaxFileSize {
		return nil, fmt.Errorf("file size exceeds maximum: %d > %d bytes",
			len(req.FileBuffer), p.config.MaxFileSize)
	}

	// Step 2: Detect actual MIME type from magic bytes. Uploads often carry
	// "application/octet-stream" or nothing at all.
	mimeType := redact.DetectMimeType(req.FileBuffer)
	if mimeType == "" {
		mimeType = req.MimeType
	} else if mimeType != req.MimeType && req.MimeType != "" {
		p.logger.Debug("Corrected MIME type from magic bytes",
			"jobId", req.JobID, "declared", req.MimeType, "detected", mimeType)
	}
	if !redact.IsSupported(mimeType) {
		return nil, errors.NewUnsupportedFormatError(req.JobID, mimeType)
	}

	// Step 3: Decode the original image; its dimensions bound every region.
	original, err := redact.Decode(req.FileBuffer)
	if err != nil {
		return nil, errors.NewUnsupportedFormatError(req.JobID, mimeType)
	}
	imageWidth := original.Bounds().Dx()
	imageHeight := original.Bounds().Dy()
	p.logger.Info("Image decoded", "jobId", req.JobID, "width", imageWidth, "height", imageHeight, "mime", mimeType)

	// Step 4: Preprocess for OCR and recognize text + word boxes
	preprocessed := redact.Preprocess(original)
	ocrInput, _, err := redact.Encode(preprocessed, "image/png")
	if err != nil {
		return nil, errors.NewOCRFailedError(req.JobID, "preprocess", err)
	}

	doc, err := p.ocr.Recognize(ctx, ocrInput)
	if err != nil {
		return nil, errors.NewOCRFailedError(req.JobID, "tesseract", err)
	}
	if strings.TrimSpace(doc.FullText) == "" {
		return nil, errors.NewEmptyDocumentError(req.JobID)
	}

	// Step 5: Map word boxes back to original image coordinates if the
	// preprocessing pass resized the scan.
	scaleWords(doc, preprocessed.Bounds().Dx(), preprocessed.Bounds().Dy(), imageWidth, imageHeight)

	// Step 6: Extract PII and compute mask regions
	record, regions := p.engine.Extract(doc, imageWidth, imageHeight)
	p.logger.Info("Extraction complete",
		"jobId", req.JobID,
		"documentType", string(record.DocumentType),
		"maskedFields", record.MaskedFieldCount(),
		"regions", len(regions))

	// Step 7: Composite mask regions onto the original and re-encode
	masked := redact.Composite(original, regions)
	output, outputMime, err := redact.Encode(masked, mimeType)
	if err != nil {
		return nil, errors.NewCompositingFailedError(req.JobID, err)
	}

	// Step 8: Persist the redacted image when an output directory is set
	var outputPath string
	if p.config.OutputDir != "" {
		outputPath = filepath.Join(p.config.OutputDir, req.JobID+extensionFor(outputMime))
		if err := os.MkdirAll(p.config.OutputDir, 0o755); err != nil {
			return nil, errors.NewStorageFailedError(req.JobID, err)
		}
		if err := os.WriteFile(outputPath, output, 0o644); err != nil {
			return nil, errors.NewStorageFailedError(req.JobID, err)
		}
	}

	duration := time.Since(startTime)
	p.logger.Info("Redaction pipeline complete",
		"jobId", req.JobID,
		"confidence", fmt.Sprintf("%.1f", doc.Confidence),
		"duration", duration.String())

	return &ProcessResult{
		Record:           record,
		Regions:          regions,
		DocumentType:     string(record.DocumentType),
		MaskedFieldCount: record.MaskedFieldCount(),
		RegionCount:      len(regions),
		Confidence:       doc.Confidence,
		ProcessingTimeMs: duration.Milliseconds(),
		OutputPath:       outputPath,
		OutputMimeType:   outputMime,
		RedactedImage:    output,
	}, nil
}

// UpdateJobStatus updates job status in the database
func (p *RedactionProcessor) UpdateJobStatus(ctx context.Context, jobID string, status string, metadata map[string]interface{}) error {
	if p.store == nil {
		return nil
	}

	update := &storage.JobUpdate{
		JobID:    jobID,
		Status:   status,
		Metadata: metadata,
	}

	// Extract specific fields from metadata if present
	if metadata != nil {
		if documentType, ok := metadata["documentType"].(string); ok {
			update.DocumentType = documentType
		}
		if maskedFields, ok := metadata["maskedFieldCount"].(int); ok {
			update.MaskedFieldCount = maskedFields
		}
		if regionCount, ok := metadata["regionCount"].(int); ok {
			update.RegionCount = regionCount
		}
		if confidence, ok := metadata["confidence"].(float64); ok {
			update.Confidence = confidence
		}
		if processingTime, ok := metadata["processingTime"].(int64); ok {
			update.ProcessingTimeMs = processingTime
		}
		if outputPath, ok := metadata["outputPath"].(string); ok {
			update.OutputPath = outputPath
		}
		if errorCode, ok := metadata["error_code"].(string); ok {
			update.ErrorCode = errorCode
		}
		if errorMsg, ok := metadata["error"].(string); ok {
			if update.ErrorCode == "" {
				update.ErrorCode = "PROCESSING_ERROR"
			}
			update.ErrorMessage = errorMsg
		}
	}

	return p.store.UpdateJobStatus(ctx, update)
}

// scaleWords rescales word boxes from the preprocessed image space back to
// the original image space. No-op when preprocessing kept the dimensions.
func scaleWords(doc *ocr.RecognizedDocument, procWidth, procHeight, origWidth, origHeight int) {
	if procWidth == origWidth && procHeight == origHeight {
		return
	}
	if procWidth <= 0 || procHeight <= 0 {
		return
	}

	scaleX := float64(origWidth) / float64(procWidth)
	scaleY := float64(origHeight) / float64(procHeight)

	for i := range doc.Words {
		box := &doc.Words[i].Box
		box.X0 = int(float64(box.X0)*scaleX + 0.5)
		box.Y0 = int(float64(box.Y0)*scaleY + 0.5)
		box.X1 = int(float64(box.X1)*scaleX + 0.5)
		box.Y1 = int(float64(box.Y1)*scaleY + 0.5)
	}
}

// extensionFor maps an output MIME type to a file extension
func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/tiff":
		return ".tif"
	case "image/bmp":
		return ".bmp"
	default:
		return ".png"
	}
}
